package source

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg" // register the JPEG decoder for image.DecodeConfig
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	exif "github.com/dsoprea/go-exif/v3"

	"github.com/nao1215/gallerygen/internal/model"
)

// EXIFDirSource builds work records from a directory of JPEG files.
// Make and model come from the embedded EXIF data, dimensions from the
// JPEG header. The file itself is used for every size variant.
type EXIFDirSource struct {
	dir     string
	baseURL string
	logger  *slog.Logger
}

var _ Source = (*EXIFDirSource)(nil)

// NewEXIFDirSource creates a source for the JPEG files below dir.
// When baseURL is empty, image URLs are file:// URLs of the absolute path;
// otherwise they are baseURL followed by the path relative to dir.
func NewEXIFDirSource(dir, baseURL string, logger *slog.Logger) *EXIFDirSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &EXIFDirSource{dir: dir, baseURL: baseURL, logger: logger}
}

// Name returns a short description for logging.
func (s *EXIFDirSource) Name() string {
	return "exif:" + s.dir
}

// Works walks the directory in lexical order and returns one work per
// JPEG file. Files that cannot be decoded as JPEG are skipped.
func (s *EXIFDirSource) Works(ctx context.Context) ([]model.Work, error) {
	works := make([]model.Work, 0)

	err := filepath.WalkDir(s.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || !isJPEG(path) {
			return nil
		}

		work, ok, err := s.readWork(path)
		if err != nil {
			return err
		}
		if ok {
			works = append(works, work)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read image directory: %w", err)
	}
	return works, nil
}

func isJPEG(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return true
	default:
		return false
	}
}

// readWork builds the record of one file. ok is false when the file is
// not a decodable JPEG.
func (s *EXIFDirSource) readWork(path string) (model.Work, bool, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from walking the input directory
	if err != nil {
		return model.Work{}, false, err
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		s.logger.Debug("skipping undecodable image", "path", path, "error", err)
		return model.Work{}, false, nil
	}

	imageURL, err := s.imageURL(path)
	if err != nil {
		return model.Work{}, false, err
	}

	name := filepath.Base(path)
	width := strconv.Itoa(cfg.Width)
	height := strconv.Itoa(cfg.Height)
	work := model.Work{
		Filename:    &name,
		ImageWidth:  &width,
		ImageHeight: &height,
		Exif:        readCameraTags(data),
		URLs:        &model.URLList{Entries: make([]model.URLEntry, 0, len(model.Sizes))},
	}
	for _, size := range model.Sizes {
		work.URLs.Entries = append(work.URLs.Entries, model.URLEntry{Type: size.String(), Value: imageURL})
	}
	return work, true, nil
}

// imageURL returns the URL pages use to reference the file at path.
func (s *EXIFDirSource) imageURL(path string) (string, error) {
	if s.baseURL == "" {
		abs, err := filepath.Abs(path)
		if err != nil {
			return "", err
		}
		return (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String(), nil
	}

	rel, err := filepath.Rel(s.dir, path)
	if err != nil {
		return "", err
	}
	return url.JoinPath(s.baseURL, strings.Split(filepath.ToSlash(rel), "/")...)
}

// readCameraTags extracts the Make and Model tags. It returns nil when the
// image carries no EXIF data, which makes the image fall back to the
// unknown make and model.
func readCameraTags(data []byte) *model.Exif {
	rawExif, err := exif.SearchAndExtractExif(data)
	if err != nil || rawExif == nil {
		return nil
	}

	entries, _, err := exif.GetFlatExifData(rawExif, nil)
	if err != nil {
		return nil
	}

	tags := &model.Exif{}
	for _, entry := range entries {
		value := strings.TrimRight(entry.Formatted, "\x00")
		switch entry.TagName {
		case "Make":
			if tags.Make == nil {
				tags.Make = &value
			}
		case "Model":
			if tags.Model == nil {
				tags.Model = &value
			}
		}
	}
	return tags
}
