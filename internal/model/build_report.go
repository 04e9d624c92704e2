package model

import (
	"time"

	"github.com/google/uuid"
)

// PageKind identifies which page unit variant produced a page.
type PageKind string

// Page unit variants.
const (
	// PageKindIndex is the single index page.
	PageKindIndex PageKind = "index"

	// PageKindMake is a per-make page.
	PageKindMake PageKind = "make"

	// PageKindModel is a per make/model page.
	PageKindModel PageKind = "model"
)

// PageRecord describes one written page.
type PageRecord struct {
	// Kind is the page unit variant.
	Kind PageKind `json:"kind"`

	// Title is the page title.
	Title string `json:"title"`

	// Filename is the file name relative to the output directory.
	Filename string `json:"filename"`

	// NavigationLinks is the number of navigation links on the page.
	NavigationLinks int `json:"navigation_links"`

	// Thumbnails is the number of thumbnails on the page.
	Thumbnails int `json:"thumbnails"`

	// Bytes is the size of the written page.
	Bytes int `json:"bytes"`

	// Digest is the hex SHA3-256 digest of the page content.
	// Comparing digests between builds tells which pages changed.
	Digest string `json:"digest"`
}

// BuildReport is the result of one generation run.
// Pipeline steps fill it in as they execute; report writers and the
// history database consume it.
type BuildReport struct {
	// ID uniquely identifies the build.
	ID string `json:"id"`

	// InputPath is the absolute path of the record source.
	InputPath string `json:"input_path"`

	// OutputDir is the absolute path of the output directory.
	OutputDir string `json:"output_dir"`

	// SourceKind is the kind of record source ("xml" or "exif").
	SourceKind string `json:"source_kind"`

	// DateStarted is when the build started.
	DateStarted time.Time `json:"date_started"`

	// Duration is the wall time of the whole build.
	Duration time.Duration `json:"duration"`

	// ImageCount is the number of images loaded into the index.
	ImageCount int `json:"image_count"`

	// MakeCount is the number of registered make units.
	MakeCount int `json:"make_count"`

	// ModelCount is the number of registered model units.
	ModelCount int `json:"model_count"`

	// Pages lists every written page in write order
	// (model pages, then make pages, then the index page).
	Pages []PageRecord `json:"pages"`

	// LinksChecked is the number of local links verified after rendering.
	LinksChecked int `json:"links_checked"`

	// PerformedSteps lists the pipeline steps that ran, in order.
	PerformedSteps []string `json:"performed_steps"`

	// Cancelled is true if the build was interrupted.
	Cancelled bool `json:"cancelled"`

	// Error holds the error that aborted the build, if any.
	Error error `json:"-"`

	// ErrorMessage is the string form of Error for serialization.
	ErrorMessage string `json:"error,omitempty"`
}

// NewBuildReport creates a report for a build from inputPath into outputDir.
func NewBuildReport(inputPath, outputDir string) *BuildReport {
	return &BuildReport{
		ID:          uuid.NewString(),
		InputPath:   inputPath,
		OutputDir:   outputDir,
		DateStarted: time.Now(),
		Pages:       make([]PageRecord, 0),
	}
}

// AddPages appends page records in the given order.
func (r *BuildReport) AddPages(pages ...PageRecord) {
	r.Pages = append(r.Pages, pages...)
}

// PagesByKind returns the written pages of one variant.
func (r *BuildReport) PagesByKind(kind PageKind) []PageRecord {
	result := make([]PageRecord, 0)
	for _, p := range r.Pages {
		if p.Kind == kind {
			result = append(result, p)
		}
	}
	return result
}

// TotalBytes returns the combined size of every written page.
func (r *BuildReport) TotalBytes() int {
	total := 0
	for _, p := range r.Pages {
		total += p.Bytes
	}
	return total
}

// Succeeded reports whether the build finished without error.
func (r *BuildReport) Succeeded() bool {
	return r.ErrorMessage == "" && !r.Cancelled
}
