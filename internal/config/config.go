package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// DefaultThumbnailLimit is the number of thumbnails on the index and make pages.
	DefaultThumbnailLimit = 10

	// DefaultConcurrency bounds how many pages of one phase render at once.
	// Rendering is CPU-bound and writes are small, so a handful of workers
	// saturates most disks without oversubscribing the machine.
	DefaultConcurrency = 4

	// DefaultSiteName is appended to every page title.
	DefaultSiteName = "Photo Gallery"

	// DefaultSourceKind is the record source used when --source is not given.
	DefaultSourceKind = "xml"

	// AppName is the application name used for XDG directory paths.
	AppName = "gallerygen"
)

// Config holds all configuration options for gallerygen.
// It is populated from CLI flags, optionally overlaid with the
// .gallerygen file, and passed down explicitly rather than kept global.
type Config struct {
	// InputPath is the record source: an XML export file, or a directory
	// of JPEG files when SourceKind is "exif".
	InputPath string

	// OutputDir is the existing directory the pages are written into.
	OutputDir string

	// SourceKind selects the record source ("xml" or "exif").
	SourceKind string

	// BaseURL prefixes image paths for the exif source.
	// When empty, file:// URLs of the images are used.
	BaseURL string

	// ThumbnailLimit is the maximum number of thumbnails on the index
	// and make pages. Model pages always show every image.
	ThumbnailLimit int

	// Concurrency is the number of pages rendered in parallel per phase.
	Concurrency int

	// SiteName is appended to every page title.
	SiteName string

	// SkipLinkCheck disables the verify_links step.
	SkipLinkCheck bool

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, the tool searches for .gallerygen in the current directory
	// and then in the user's home directory.
	ConfigFilePath string

	// SiteConfigs holds per-output configurations loaded from the config file.
	SiteConfigs *File

	// JSONReport enables JSON report output instead of human-readable format.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown report output instead of human-readable format.
	// Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the report.
	// When set, the report is written to this file instead of stdout.
	ReportFile string

	// DBDir is the directory of the build history database.
	// Defaults to XDG data directory (~/.local/share/gallerygen on Linux).
	DBDir string

	// SaveToDB indicates whether to save the build report to the history database.
	SaveToDB bool
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		SourceKind:     DefaultSourceKind,
		ThumbnailLimit: DefaultThumbnailLimit,
		Concurrency:    DefaultConcurrency,
		SiteName:       DefaultSiteName,
		DBDir:          XDGDataDir(),
		SaveToDB:       true,
	}
}

// XDGDataDir returns the XDG data directory for gallerygen.
// On Linux: ~/.local/share/gallerygen
// On macOS: ~/Library/Application Support/gallerygen
// On Windows: %LOCALAPPDATA%\gallerygen
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for gallerygen.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// ApplySiteConfig overlays the config file entry for OutputDir.
// Only settings the site entry (or the file defaults) actually set are
// applied; explicitly changed CLI flags are listed in overridden and win.
func (c *Config) ApplySiteConfig(overridden map[string]bool) {
	if c.SiteConfigs == nil {
		return
	}

	sc := c.SiteConfigs.GetSiteConfig(c.OutputDir)
	if sc.SiteName != "" && !overridden["site-name"] {
		c.SiteName = sc.SiteName
	}
	if sc.Thumbnails != 0 && !overridden["thumbnails"] {
		c.ThumbnailLimit = sc.Thumbnails
	}
	if sc.Concurrency != 0 && !overridden["concurrency"] {
		c.Concurrency = sc.Concurrency
	}
	if sc.SkipLinkCheck && !overridden["skip-link-check"] {
		c.SkipLinkCheck = true
	}
	if sc.BaseURL != "" && !overridden["base-url"] {
		c.BaseURL = sc.BaseURL
	}
}

// Validate checks if the configuration is valid.
// It returns the first problem found as a sentinel error.
func (c *Config) Validate() error {
	if c.InputPath == "" {
		return ErrNoInput
	}

	if c.OutputDir == "" {
		return ErrNoOutputDir
	}

	switch c.SourceKind {
	case "xml", "exif":
	default:
		return ErrUnknownSourceKind
	}

	if c.ThumbnailLimit <= 0 {
		return ErrInvalidThumbnailLimit
	}

	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	return nil
}
