package page

import (
	"fmt"

	"github.com/nao1215/gallerygen/internal/model"
)

// DefaultThumbnailLimit is the number of thumbnails on index and make pages.
const DefaultThumbnailLimit = 10

// Site is the aggregate of one generation run: the image index, the page
// unit registry and the settings the units read. One Site is created per
// run and handed to every unit; there is no package-level state.
type Site struct {
	index          *model.Index
	registry       *Registry
	thumbnailLimit int
}

// Option is a function that configures a Site.
type Option func(*Site)

// WithThumbnailLimit sets how many thumbnails index and make pages show.
// Model pages always show every image of their pair.
func WithThumbnailLimit(n int) Option {
	return func(s *Site) {
		s.thumbnailLimit = n
	}
}

// NewSite creates a Site around index with an empty registry.
func NewSite(index *model.Index, opts ...Option) *Site {
	s := &Site{
		index:          index,
		registry:       NewRegistry(),
		thumbnailLimit: DefaultThumbnailLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ImageIndex returns the image index of the site.
func (s *Site) ImageIndex() *model.Index {
	return s.index
}

// Registry returns the page unit registry of the site.
func (s *Site) Registry() *Registry {
	return s.registry
}

// ThumbnailLimit returns the configured thumbnail limit.
func (s *Site) ThumbnailLimit() int {
	return s.thumbnailLimit
}

// Index returns the index page unit.
func (s *Site) Index() IndexUnit {
	return IndexUnit{site: s}
}

// NewMakeUnit returns a make unit bound to this site. It is not registered.
func (s *Site) NewMakeUnit(cameraMake string) MakeUnit {
	return MakeUnit{site: s, make: cameraMake}
}

// NewModelUnit returns a model unit bound to this site. It is not registered.
func (s *Site) NewModelUnit(cameraMake, cameraModel string) ModelUnit {
	return ModelUnit{site: s, key: ModelKey{Make: cameraMake, Model: cameraModel}}
}

// Populate registers one model unit per distinct make/model pair and one
// make unit per distinct make, both in first-seen order. The models of a
// make are registered before the make itself. Afterwards the index and the
// registry are frozen.
//
// Populate fails with a *FilenameCollisionError when two distinct keys
// derive the same file name, and with ErrRegistryFrozen when called twice.
func (s *Site) Populate() error {
	if s.registry.Frozen() {
		return ErrRegistryFrozen
	}

	owners := map[string]string{IndexFilename: IndexTitle}
	claim := func(u Unit) error {
		if first, ok := owners[u.Filename()]; ok {
			return &FilenameCollisionError{Filename: u.Filename(), First: first, Second: u.Title()}
		}
		owners[u.Filename()] = u.Title()
		return nil
	}

	for _, cameraMake := range model.Unique(s.index.AllMakes()) {
		for _, cameraModel := range model.Unique(s.index.AllModelsByMake(cameraMake)) {
			unit := s.NewModelUnit(cameraMake, cameraModel)
			if err := claim(unit); err != nil {
				return err
			}
			if err := s.registry.RegisterModel(unit); err != nil {
				return fmt.Errorf("failed to register model page: %w", err)
			}
		}

		unit := s.NewMakeUnit(cameraMake)
		if err := claim(unit); err != nil {
			return err
		}
		if err := s.registry.RegisterMake(unit); err != nil {
			return fmt.Errorf("failed to register make page: %w", err)
		}
	}

	s.index.Freeze()
	s.registry.Freeze()
	return nil
}

// Units returns every registered unit in write order: model units, make
// units, then the index unit.
func (s *Site) Units() []Unit {
	units := make([]Unit, 0, len(s.registry.models)+len(s.registry.makes)+1)
	for _, u := range s.registry.models {
		units = append(units, u)
	}
	for _, u := range s.registry.makes {
		units = append(units, u)
	}
	return append(units, s.Index())
}
