package source

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nao1215/gallerygen/internal/model"
)

// Kinds of record sources selectable from the command line.
const (
	// KindXML reads an XML export file.
	KindXML = "xml"

	// KindEXIF reads a directory of JPEG files.
	KindEXIF = "exif"
)

// ErrUnknownKind is returned by New for an unsupported source kind.
var ErrUnknownKind = errors.New("unknown record source kind")

// Source yields the raw work records of one generation run in source order.
type Source interface {
	// Works reads every work record. It stops early when ctx is cancelled.
	Works(ctx context.Context) ([]model.Work, error)

	// Name returns a short description for logging.
	Name() string
}

// Options configure the source returned by New.
type Options struct {
	// BaseURL prefixes image paths of the EXIF directory source.
	BaseURL string

	// Logger receives debug output. Defaults to slog.Default().
	Logger *slog.Logger
}

// New returns the source of the given kind reading from path.
func New(kind, path string, opts Options) (Source, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	switch kind {
	case KindXML, "":
		return NewXMLSource(path), nil
	case KindEXIF:
		return NewEXIFDirSource(path, opts.BaseURL, opts.Logger), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}
