package model

import "strings"

// Default camera strings used when a work has no usable EXIF make or model.
const (
	// UnknownMake replaces an absent or blank EXIF make.
	UnknownMake = "Unknown Make"

	// UnknownModel replaces an absent or blank EXIF model.
	UnknownModel = "Unknown Model"
)

// Size identifies one of the image size variants carried by a work.
type Size string

// Size variants present in every complete work record.
const (
	// SizeSmall is the thumbnail-sized variant.
	SizeSmall Size = "small"

	// SizeMedium is the medium-sized variant.
	SizeMedium Size = "medium"

	// SizeLarge is the full-sized variant.
	SizeLarge Size = "large"
)

// Sizes lists the size variants in ascending order.
var Sizes = []Size{SizeSmall, SizeMedium, SizeLarge}

// String returns the size name as used in the export.
func (s Size) String() string {
	return string(s)
}

// Work is one raw record as yielded by a record source.
// Pointer fields are nil when the element was absent from the source,
// which lets NewImage tell an absent field from an empty one.
type Work struct {
	// Filename is the original file name of the work.
	Filename *string `xml:"filename" json:"filename,omitempty"`

	// ImageWidth is the pixel width, kept as text.
	ImageWidth *string `xml:"image_width" json:"image_width,omitempty"`

	// ImageHeight is the pixel height, kept as text.
	ImageHeight *string `xml:"image_height" json:"image_height,omitempty"`

	// Exif holds the camera metadata. It may be nil.
	Exif *Exif `xml:"exif" json:"exif,omitempty"`

	// URLs holds the size-keyed URL entries.
	URLs *URLList `xml:"urls" json:"urls,omitempty"`
}

// Exif holds the EXIF fields the generator groups by.
type Exif struct {
	Make  *string `xml:"make" json:"make,omitempty"`
	Model *string `xml:"model" json:"model,omitempty"`
}

// URLList is the urls container of a work.
type URLList struct {
	Entries []URLEntry `xml:"url" json:"url"`
}

// URLEntry is one typed URL of a work.
type URLEntry struct {
	// Type is the size variant name (small, medium or large).
	Type string `xml:"type,attr" json:"type"`

	// Value is the URL itself.
	Value string `xml:",chardata" json:"value"`
}

// URLSet holds all three size variants of an image.
type URLSet struct {
	Small  string `json:"small"`
	Medium string `json:"medium"`
	Large  string `json:"large"`
}

// Image is the normalized, read-only view of one work.
// All fields are derived once by NewImage; an Image never changes afterwards.
type Image struct {
	filename string
	width    string
	height   string
	make     string
	model    string
	urls     []URLEntry
}

// NewImage builds an Image from a raw work record.
// position is the work's position in the source and is only used for
// error reporting. It returns a *MalformedRecordError when the record is
// missing filename, image_width, image_height or the urls container.
// Individual URL sizes are not checked here; see Image.URL.
func NewImage(position int, work Work) (*Image, error) {
	switch {
	case work.Filename == nil:
		return nil, &MalformedRecordError{Position: position, Field: "filename"}
	case work.ImageWidth == nil:
		return nil, &MalformedRecordError{Position: position, Field: "image_width"}
	case work.ImageHeight == nil:
		return nil, &MalformedRecordError{Position: position, Field: "image_height"}
	case work.URLs == nil:
		return nil, &MalformedRecordError{Position: position, Field: "urls"}
	}

	img := &Image{
		filename: *work.Filename,
		width:    *work.ImageWidth,
		height:   *work.ImageHeight,
		make:     UnknownMake,
		model:    UnknownModel,
		urls:     append([]URLEntry(nil), work.URLs.Entries...),
	}
	if work.Exif != nil {
		img.make = textOrDefault(work.Exif.Make, UnknownMake)
		img.model = textOrDefault(work.Exif.Model, UnknownModel)
	}
	return img, nil
}

// textOrDefault returns the raw text, or def when the text is absent or blank.
func textOrDefault(text *string, def string) string {
	if text == nil || strings.TrimSpace(*text) == "" {
		return def
	}
	return *text
}

// Filename returns the work's file name.
func (i *Image) Filename() string {
	return i.filename
}

// Width returns the pixel width as given by the source.
func (i *Image) Width() string {
	return i.width
}

// Height returns the pixel height as given by the source.
func (i *Image) Height() string {
	return i.height
}

// Make returns the camera make, or UnknownMake.
func (i *Image) Make() string {
	return i.make
}

// Model returns the camera model, or UnknownModel.
func (i *Image) Model() string {
	return i.model
}

// URL returns the URL of the given size.
// When the work lists several entries of the same type the first one wins.
// A *MissingURLError is returned when there is no entry for the size.
func (i *Image) URL(size Size) (string, error) {
	for _, entry := range i.urls {
		if entry.Type == string(size) {
			return entry.Value, nil
		}
	}
	return "", &MissingURLError{Filename: i.filename, Size: size}
}

// URLSet returns all three URL sizes, failing on the first missing one.
func (i *Image) URLSet() (URLSet, error) {
	var set URLSet
	var err error
	if set.Small, err = i.URL(SizeSmall); err != nil {
		return URLSet{}, err
	}
	if set.Medium, err = i.URL(SizeMedium); err != nil {
		return URLSet{}, err
	}
	if set.Large, err = i.URL(SizeLarge); err != nil {
		return URLSet{}, err
	}
	return set, nil
}
