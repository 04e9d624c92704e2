package page

import (
	"github.com/nao1215/gallerygen/internal/model"
)

// Unit is a render-ready description of one output page.
// Navigation and Thumbnails are computed on every call from the Site the
// unit belongs to, so a unit always reflects the current aggregate.
type Unit interface {
	// Kind returns the page variant.
	Kind() model.PageKind

	// Title returns the page title.
	Title() string

	// Filename returns the file name relative to the output directory.
	Filename() string

	// Link returns the navigation link pointing at this page.
	Link() Link

	// Navigation returns the links shown in the page menu.
	Navigation() ([]Link, error)

	// Thumbnails returns the images shown on the page.
	Thumbnails() []*model.Image
}

// ModelKey identifies a make/model pair.
type ModelKey struct {
	Make  string
	Model string
}

// IndexUnit is the single index page.
type IndexUnit struct {
	site *Site
}

var _ Unit = IndexUnit{}

// Kind returns model.PageKindIndex.
func (u IndexUnit) Kind() model.PageKind { return model.PageKindIndex }

// Title returns IndexTitle.
func (u IndexUnit) Title() string { return IndexTitle }

// Filename returns IndexFilename.
func (u IndexUnit) Filename() string { return IndexFilename }

// Link returns the link to the index page.
func (u IndexUnit) Link() Link {
	return Link{Title: IndexTitle, Filename: IndexFilename}
}

// Navigation returns one link per registered make, without duplicates.
func (u IndexUnit) Navigation() ([]Link, error) {
	return u.site.registry.Links(), nil
}

// Thumbnails returns the first images of the whole index.
func (u IndexUnit) Thumbnails() []*model.Image {
	return u.site.index.TopN(u.site.thumbnailLimit)
}

// MakeUnit is the page of one camera make.
type MakeUnit struct {
	site *Site
	make string
}

var _ Unit = MakeUnit{}

// Make returns the camera make the page is keyed by.
func (u MakeUnit) Make() string { return u.make }

// Kind returns model.PageKindMake.
func (u MakeUnit) Kind() model.PageKind { return model.PageKindMake }

// Title returns the make itself.
func (u MakeUnit) Title() string { return u.make }

// Filename returns make_<make>.html in sanitized form.
func (u MakeUnit) Filename() string { return MakeFilename(u.make) }

// Link returns the link to this make page.
func (u MakeUnit) Link() Link {
	return Link{Title: u.Title(), Filename: u.Filename()}
}

// Navigation returns the index link followed by one link per model of
// the make, without duplicates.
func (u MakeUnit) Navigation() ([]Link, error) {
	return append([]Link{u.site.Index().Link()}, u.site.registry.LinksByMake(u.make)...), nil
}

// Thumbnails returns the first images of the make.
func (u MakeUnit) Thumbnails() []*model.Image {
	return u.site.index.ByMakeTop(u.make, u.site.thumbnailLimit)
}

// Models returns every registered model unit of the make in
// registration order.
func (u MakeUnit) Models() []ModelUnit {
	return u.site.registry.ModelsByMake(u.make)
}

// ModelUnit is the page of one make/model pair.
type ModelUnit struct {
	site *Site
	key  ModelKey
}

var _ Unit = ModelUnit{}

// Key returns the make/model pair the page is keyed by.
func (u ModelUnit) Key() ModelKey { return u.key }

// Kind returns model.PageKindModel.
func (u ModelUnit) Kind() model.PageKind { return model.PageKindModel }

// Title returns "<make> | <model>".
func (u ModelUnit) Title() string { return u.key.Make + " | " + u.key.Model }

// Filename returns model_<make>_<model>.html in sanitized form.
func (u ModelUnit) Filename() string { return ModelFilename(u.key.Make, u.key.Model) }

// Link returns the link to this model page.
func (u ModelUnit) Link() Link {
	return Link{Title: u.Title(), Filename: u.Filename()}
}

// Navigation returns exactly two links: the index, then the parent make.
// It fails with a *MakeNotFoundError when the make has no registered page.
func (u ModelUnit) Navigation() ([]Link, error) {
	makeLink, err := u.site.registry.LinkByMake(u.key.Make)
	if err != nil {
		return nil, err
	}
	return []Link{u.site.Index().Link(), makeLink}, nil
}

// Thumbnails returns every image of the pair.
func (u ModelUnit) Thumbnails() []*model.Image {
	return u.site.index.ByMakeModel(u.key.Make, u.key.Model)
}
