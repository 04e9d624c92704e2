package model

import (
	"errors"
	"fmt"
)

// ErrIndexFrozen is returned when an image is appended to an Index
// after Freeze has been called. Once the page units have been registered
// the index is read-only for the rest of the generation run.
var ErrIndexFrozen = errors.New("image index is frozen")

// MalformedRecordError is returned when a work record lacks a structural
// field that every record source must provide (filename, dimensions or
// the urls container). It signals a broken export, not missing EXIF data.
type MalformedRecordError struct {
	// Position is the zero-based position of the work in the source.
	Position int

	// Field is the name of the missing field as it appears in the export.
	Field string
}

// Error implements the error interface.
func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed work record #%d: missing %s", e.Position, e.Field)
}

// MissingURLError is returned when an image has no URL entry for the
// requested size. Record construction does not check URL sizes, so this
// error surfaces when a renderer asks for the size.
type MissingURLError struct {
	// Filename identifies the image the URL was requested for.
	Filename string

	// Size is the requested size variant.
	Size Size
}

// Error implements the error interface.
func (e *MissingURLError) Error() string {
	return fmt.Sprintf("image %q has no %s url", e.Filename, e.Size)
}
