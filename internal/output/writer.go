package output

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNotDirectory is returned when the output path is not a directory.
var ErrNotDirectory = errors.New("output path is not a directory")

// DefaultFileMode is the permission of written pages.
const DefaultFileMode os.FileMode = 0o644

// Writer persists generated pages.
type Writer interface {
	// Write stores data at path, replacing any existing file.
	Write(path string, data []byte) error
}

// FileWriter writes pages to the local file system.
// It never creates directories; the parent of every path must exist.
type FileWriter struct {
	mode os.FileMode
}

var _ Writer = (*FileWriter)(nil)

// NewFileWriter creates a FileWriter using DefaultFileMode.
func NewFileWriter() *FileWriter {
	return &FileWriter{mode: DefaultFileMode}
}

// Write creates or truncates the file at path and writes data to it.
func (w *FileWriter) Write(path string, data []byte) error {
	if err := os.WriteFile(path, data, w.mode); err != nil { //nolint:gosec // pages are meant to be world readable
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return nil
}

// CheckDir verifies that dir exists and is a directory.
func CheckDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s", ErrNotDirectory, dir)
	}
	return nil
}
