package page

import (
	"errors"
	"fmt"
)

// ErrRegistryFrozen is returned when a unit is registered after the
// registry has been populated.
var ErrRegistryFrozen = errors.New("page registry is frozen")

// MakeNotFoundError is returned when navigation refers to a make that
// has no registered make unit. With the normal build order this cannot
// happen; seeing it means the registry was populated incorrectly.
type MakeNotFoundError struct {
	Make string
}

// Error implements the error interface.
func (e *MakeNotFoundError) Error() string {
	return fmt.Sprintf("no make page registered for %q", e.Make)
}

// FilenameCollisionError is returned when two distinct keys derive the
// same page file name, for example makes that differ only in punctuation.
type FilenameCollisionError struct {
	// Filename is the shared file name.
	Filename string

	// First is the title of the unit registered first.
	First string

	// Second is the title of the conflicting unit.
	Second string
}

// Error implements the error interface.
func (e *FilenameCollisionError) Error() string {
	return fmt.Sprintf("pages %q and %q would both be written to %s", e.First, e.Second, e.Filename)
}
