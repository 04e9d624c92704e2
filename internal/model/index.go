package model

// Index is the ordered collection of every image of one generation run.
// Images are appended while the record source is read; after Freeze the
// index is read-only and safe for concurrent readers.
//
// Query methods always scan the whole index and return a newly allocated
// slice, so callers may keep or modify the result freely.
type Index struct {
	images []*Image
	frozen bool
}

// NewIndex creates an empty Index.
func NewIndex() *Index {
	return &Index{images: make([]*Image, 0)}
}

// Append adds an image at the end of the index.
// It returns ErrIndexFrozen once the index has been frozen.
func (x *Index) Append(img *Image) error {
	if x.frozen {
		return ErrIndexFrozen
	}
	x.images = append(x.images, img)
	return nil
}

// Freeze makes the index read-only.
func (x *Index) Freeze() {
	x.frozen = true
}

// Frozen reports whether Freeze has been called.
func (x *Index) Frozen() bool {
	return x.frozen
}

// Len returns the number of images.
func (x *Index) Len() int {
	return len(x.images)
}

// All returns every image in index order.
func (x *Index) All() []*Image {
	return append(make([]*Image, 0, len(x.images)), x.images...)
}

// TopN returns the first n images, or fewer when the index is shorter.
// A non-positive n yields an empty slice.
func (x *Index) TopN(n int) []*Image {
	return take(x.images, n)
}

// ByMake returns every image of the given make.
func (x *Index) ByMake(cameraMake string) []*Image {
	result := make([]*Image, 0)
	for _, img := range x.images {
		if img.Make() == cameraMake {
			result = append(result, img)
		}
	}
	return result
}

// ByMakeTop returns the first n images of the given make.
func (x *Index) ByMakeTop(cameraMake string, n int) []*Image {
	return take(x.ByMake(cameraMake), n)
}

// ByMakeModel returns every image of the given make and model.
// The result is empty, never nil, when nothing matches.
func (x *Index) ByMakeModel(cameraMake, cameraModel string) []*Image {
	result := make([]*Image, 0)
	for _, img := range x.images {
		if img.Make() == cameraMake && img.Model() == cameraModel {
			result = append(result, img)
		}
	}
	return result
}

// AllMakes returns the make of every image in index order.
// The result has one entry per image and is not de-duplicated; use Unique.
func (x *Index) AllMakes() []string {
	makes := make([]string, len(x.images))
	for i, img := range x.images {
		makes[i] = img.Make()
	}
	return makes
}

// AllModelsByMake returns the model of every image of the given make.
// Like AllMakes, the result is not de-duplicated.
func (x *Index) AllModelsByMake(cameraMake string) []string {
	models := make([]string, 0)
	for _, img := range x.images {
		if img.Make() == cameraMake {
			models = append(models, img.Model())
		}
	}
	return models
}

// Unique returns values without duplicates, keeping first-seen order.
func Unique(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}
	return result
}

func take(images []*Image, n int) []*Image {
	if n <= 0 {
		return make([]*Image, 0)
	}
	if n > len(images) {
		n = len(images)
	}
	return append(make([]*Image, 0, n), images[:n]...)
}
