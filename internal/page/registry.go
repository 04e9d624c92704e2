package page

// Registry holds the make and model units of one generation run in
// registration order. Registration does not check for duplicates; link
// queries de-duplicate instead.
//
// A Registry is not safe for concurrent registration. Once frozen it is
// read-only and may be shared between goroutines.
type Registry struct {
	makes  []MakeUnit
	models []ModelUnit
	frozen bool
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		makes:  make([]MakeUnit, 0),
		models: make([]ModelUnit, 0),
	}
}

// RegisterMake appends a make unit.
func (r *Registry) RegisterMake(u MakeUnit) error {
	if r.frozen {
		return ErrRegistryFrozen
	}
	r.makes = append(r.makes, u)
	return nil
}

// RegisterModel appends a model unit.
func (r *Registry) RegisterModel(u ModelUnit) error {
	if r.frozen {
		return ErrRegistryFrozen
	}
	r.models = append(r.models, u)
	return nil
}

// Freeze makes the registry read-only.
func (r *Registry) Freeze() {
	r.frozen = true
}

// Frozen reports whether Freeze has been called.
func (r *Registry) Frozen() bool {
	return r.frozen
}

// Makes returns the registered make units.
func (r *Registry) Makes() []MakeUnit {
	return append(make([]MakeUnit, 0, len(r.makes)), r.makes...)
}

// Models returns the registered model units.
func (r *Registry) Models() []ModelUnit {
	return append(make([]ModelUnit, 0, len(r.models)), r.models...)
}

// ModelsByMake returns the model units whose make equals cameraMake.
func (r *Registry) ModelsByMake(cameraMake string) []ModelUnit {
	result := make([]ModelUnit, 0)
	for _, u := range r.models {
		if u.key.Make == cameraMake {
			result = append(result, u)
		}
	}
	return result
}

// LinksByMake returns the links of every model unit of cameraMake,
// without duplicates, in first-seen order.
func (r *Registry) LinksByMake(cameraMake string) []Link {
	models := r.ModelsByMake(cameraMake)
	links := make([]Link, len(models))
	for i, u := range models {
		links[i] = u.Link()
	}
	return uniqueLinks(links)
}

// Links returns the links of every make unit, without duplicates,
// in first-seen order.
func (r *Registry) Links() []Link {
	links := make([]Link, len(r.makes))
	for i, u := range r.makes {
		links[i] = u.Link()
	}
	return uniqueLinks(links)
}

// LinkByMake returns the link of the make unit registered for cameraMake.
// It returns a *MakeNotFoundError when there is none.
func (r *Registry) LinkByMake(cameraMake string) (Link, error) {
	for _, u := range r.makes {
		if u.make == cameraMake {
			return u.Link(), nil
		}
	}
	return Link{}, &MakeNotFoundError{Make: cameraMake}
}
