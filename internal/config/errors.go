package config

import "errors"

// Configuration validation errors returned by Config.Validate.
// Callers match them with errors.Is.
var (
	// ErrNoInput is returned when no record source path is given.
	ErrNoInput = errors.New("no input specified: provide an XML export or an image directory")

	// ErrNoOutputDir is returned when no output directory is given.
	ErrNoOutputDir = errors.New("no output directory specified")

	// ErrUnknownSourceKind is returned when --source is neither "xml" nor "exif".
	ErrUnknownSourceKind = errors.New("unknown source kind: must be \"xml\" or \"exif\"")

	// ErrInvalidThumbnailLimit is returned when the thumbnail limit is not positive.
	ErrInvalidThumbnailLimit = errors.New("invalid thumbnail limit: must be positive")

	// ErrInvalidConcurrency is returned when the concurrency is not positive.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrConflictingReportFormats is returned when both --json and --markdown
	// are specified. Only one output format can be used at a time.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")
)
