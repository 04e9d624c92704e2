package config

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

// TestNewConfig verifies that NewConfig returns a Config with all expected default values.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	t.Run("default ThumbnailLimit is 10", func(t *testing.T) {
		t.Parallel()
		if cfg.ThumbnailLimit != 10 {
			t.Errorf("expected ThumbnailLimit to be 10, got %d", cfg.ThumbnailLimit)
		}
	})

	t.Run("default Concurrency is 4", func(t *testing.T) {
		t.Parallel()
		if cfg.Concurrency != 4 {
			t.Errorf("expected Concurrency to be 4, got %d", cfg.Concurrency)
		}
	})

	t.Run("default SiteName is Photo Gallery", func(t *testing.T) {
		t.Parallel()
		if cfg.SiteName != "Photo Gallery" {
			t.Errorf("expected SiteName to be 'Photo Gallery', got '%s'", cfg.SiteName)
		}
	})

	t.Run("default SourceKind is xml", func(t *testing.T) {
		t.Parallel()
		if cfg.SourceKind != "xml" {
			t.Errorf("expected SourceKind to be 'xml', got '%s'", cfg.SourceKind)
		}
	})

	t.Run("history is saved by default", func(t *testing.T) {
		t.Parallel()
		if !cfg.SaveToDB {
			t.Error("expected SaveToDB to be true")
		}
		if cfg.DBDir != XDGDataDir() {
			t.Errorf("expected DBDir to be %q, got %q", XDGDataDir(), cfg.DBDir)
		}
	})

	t.Run("link check is enabled by default", func(t *testing.T) {
		t.Parallel()
		if cfg.SkipLinkCheck {
			t.Error("expected SkipLinkCheck to be false")
		}
	})
}

// TestConfigValidate tests configuration validation.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	validConfig := func() *Config {
		cfg := NewConfig()
		cfg.InputPath = "/data/works.xml"
		cfg.OutputDir = "/var/www/gallery"
		return cfg
	}

	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr error
	}{
		{name: "valid config returns nil", modify: func(*Config) {}},
		{name: "exif source is valid", modify: func(c *Config) { c.SourceKind = "exif" }},
		{name: "json only is valid", modify: func(c *Config) { c.JSONReport = true }},
		{name: "markdown only is valid", modify: func(c *Config) { c.MarkdownReport = true }},
		{name: "empty input returns ErrNoInput", modify: func(c *Config) { c.InputPath = "" }, wantErr: ErrNoInput},
		{name: "empty output returns ErrNoOutputDir", modify: func(c *Config) { c.OutputDir = "" }, wantErr: ErrNoOutputDir},
		{name: "unknown source returns ErrUnknownSourceKind", modify: func(c *Config) { c.SourceKind = "csv" }, wantErr: ErrUnknownSourceKind},
		{name: "zero thumbnails returns ErrInvalidThumbnailLimit", modify: func(c *Config) { c.ThumbnailLimit = 0 }, wantErr: ErrInvalidThumbnailLimit},
		{name: "negative thumbnails returns ErrInvalidThumbnailLimit", modify: func(c *Config) { c.ThumbnailLimit = -1 }, wantErr: ErrInvalidThumbnailLimit},
		{name: "zero concurrency returns ErrInvalidConcurrency", modify: func(c *Config) { c.Concurrency = 0 }, wantErr: ErrInvalidConcurrency},
		{
			name: "json and markdown both enabled returns ErrConflictingReportFormats",
			modify: func(c *Config) {
				c.JSONReport = true
				c.MarkdownReport = true
			},
			wantErr: ErrConflictingReportFormats,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("expected nil error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

// TestFileGetSiteConfig tests merging site configs over defaults.
func TestFileGetSiteConfig(t *testing.T) {
	t.Parallel()

	t.Run("returns defaults when site not found", func(t *testing.T) {
		t.Parallel()

		cf := &File{
			Defaults: SiteConfig{SiteName: "Default", Thumbnails: 5},
			Sites:    map[string]SiteConfig{},
		}

		got := cf.GetSiteConfig("/var/www/unknown")
		if got.SiteName != "Default" {
			t.Errorf("expected default site name, got %q", got.SiteName)
		}
		if got.Thumbnails != 5 {
			t.Errorf("expected 5 thumbnails, got %d", got.Thumbnails)
		}
	})

	t.Run("site values override defaults", func(t *testing.T) {
		t.Parallel()

		cf := &File{
			Defaults: SiteConfig{SiteName: "Default", Thumbnails: 5, Concurrency: 2},
			Sites: map[string]SiteConfig{
				"/var/www/cameras": {SiteName: "Cameras", SkipLinkCheck: true, BaseURL: "https://cdn.example.com"},
			},
		}

		got := cf.GetSiteConfig("/var/www/cameras")
		if got.SiteName != "Cameras" {
			t.Errorf("expected 'Cameras', got %q", got.SiteName)
		}
		if got.Thumbnails != 5 {
			t.Errorf("zero thumbnails should keep default, got %d", got.Thumbnails)
		}
		if got.Concurrency != 2 {
			t.Errorf("zero concurrency should keep default, got %d", got.Concurrency)
		}
		if !got.SkipLinkCheck {
			t.Error("expected SkipLinkCheck from site")
		}
		if got.BaseURL != "https://cdn.example.com" {
			t.Errorf("unexpected BaseURL %q", got.BaseURL)
		}
	})

	t.Run("nil sites map", func(t *testing.T) {
		t.Parallel()

		cf := &File{Defaults: SiteConfig{Thumbnails: 3}}
		if got := cf.GetSiteConfig("/anything"); got.Thumbnails != 3 {
			t.Errorf("expected 3 thumbnails, got %d", got.Thumbnails)
		}
	})
}

// TestApplySiteConfig tests overlaying the config file onto flags.
func TestApplySiteConfig(t *testing.T) {
	t.Parallel()

	file := &File{
		Sites: map[string]SiteConfig{
			"/out": {SiteName: "Cameras", Thumbnails: 20, Concurrency: 8, SkipLinkCheck: true, BaseURL: "https://cdn"},
		},
	}

	t.Run("applies site values", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		cfg.OutputDir = "/out"
		cfg.SiteConfigs = file
		cfg.ApplySiteConfig(nil)

		if cfg.SiteName != "Cameras" || cfg.ThumbnailLimit != 20 || cfg.Concurrency != 8 {
			t.Errorf("unexpected config: %+v", cfg)
		}
		if !cfg.SkipLinkCheck || cfg.BaseURL != "https://cdn" {
			t.Errorf("unexpected config: %+v", cfg)
		}
	})

	t.Run("explicit flags win", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		cfg.OutputDir = "/out"
		cfg.SiteConfigs = file
		cfg.ThumbnailLimit = 3
		cfg.ApplySiteConfig(map[string]bool{"thumbnails": true})

		if cfg.ThumbnailLimit != 3 {
			t.Errorf("expected flag value 3, got %d", cfg.ThumbnailLimit)
		}
		if cfg.SiteName != "Cameras" {
			t.Errorf("expected site name from file, got %q", cfg.SiteName)
		}
	})

	t.Run("no config file keeps defaults", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		cfg.OutputDir = "/out"
		cfg.ApplySiteConfig(nil)

		if cfg.SiteName != DefaultSiteName {
			t.Errorf("expected default site name, got %q", cfg.SiteName)
		}
	})
}

// TestLoadConfigFile tests the LoadConfigFile function.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("returns ErrConfigNotFound for non-existent file", func(t *testing.T) {
		t.Parallel()

		cfg, err := LoadConfigFile("/nonexistent/path/.gallerygen")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Fatalf("expected ErrConfigNotFound, got: %v", err)
		}
		if cfg != nil {
			t.Error("expected nil config when file not found")
		}
	})

	t.Run("loads valid YAML config", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), ".gallerygen")
		content := `defaults:
  thumbnails: 12
  siteName: "My Photos"
sites:
  /var/www/cameras:
    siteName: "Cameras"
    concurrency: 2
    skipLinkCheck: true
    baseURL: "https://cdn.example.com/photos"
`
		if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		cfg, err := LoadConfigFile(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.Defaults.Thumbnails != 12 {
			t.Errorf("expected default thumbnails 12, got %d", cfg.Defaults.Thumbnails)
		}
		if cfg.Defaults.SiteName != "My Photos" {
			t.Errorf("expected default site name, got %q", cfg.Defaults.SiteName)
		}

		site, ok := cfg.Sites["/var/www/cameras"]
		if !ok {
			t.Fatal("expected /var/www/cameras in sites")
		}
		if site.Concurrency != 2 || !site.SkipLinkCheck {
			t.Errorf("unexpected site config: %+v", site)
		}
		if site.BaseURL != "https://cdn.example.com/photos" {
			t.Errorf("unexpected base URL %q", site.BaseURL)
		}
	})

	t.Run("returns error for invalid YAML", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), ".gallerygen")
		if err := os.WriteFile(configPath, []byte(`invalid: yaml: content: [}`), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if _, err := LoadConfigFile(configPath); err == nil {
			t.Error("expected error for invalid YAML")
		}
	})

	t.Run("initializes nil Sites map", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), ".gallerygen")
		if err := os.WriteFile(configPath, []byte("defaults:\n  thumbnails: 4\n"), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		cfg, err := LoadConfigFile(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Sites == nil {
			t.Error("expected Sites map to be initialized")
		}
	})

	t.Run("empty file yields empty config", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), ".gallerygen")
		if err := os.WriteFile(configPath, nil, 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		cfg, err := LoadConfigFile(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Defaults != (SiteConfig{}) {
			t.Errorf("expected zero defaults, got %+v", cfg.Defaults)
		}
	})

	t.Run("rejects unknown keys", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), ".gallerygen")
		if err := os.WriteFile(configPath, []byte("defaults:\n  thumbnail: 4\n"), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		_, err := LoadConfigFile(configPath)
		if err == nil || !strings.Contains(err.Error(), "thumbnail") {
			t.Errorf("expected error naming the unknown key, got %v", err)
		}
	})

	t.Run("rejects relative site keys", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), ".gallerygen")
		if err := os.WriteFile(configPath, []byte("sites:\n  public:\n    thumbnails: 3\n"), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		_, err := LoadConfigFile(configPath)
		if err == nil || !strings.Contains(err.Error(), "absolute") {
			t.Errorf("expected absolute path error, got %v", err)
		}
	})

	t.Run("cleans site keys", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), ".gallerygen")
		if err := os.WriteFile(configPath, []byte("sites:\n  /var/www/cameras/:\n    thumbnails: 3\n"), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		cfg, err := LoadConfigFile(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := cfg.GetSiteConfig("/var/www/cameras").Thumbnails; got != 3 {
			t.Errorf("got thumbnails %d, expected 3 for the cleaned key", got)
		}
	})
}

// TestFindConfigFile tests the FindConfigFile function.
func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("returns explicit path if exists", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), "custom.yaml")
		if err := os.WriteFile(configPath, []byte("defaults: {}"), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if result := FindConfigFile(configPath); result != configPath {
			t.Errorf("expected %q, got %q", configPath, result)
		}
	})

	t.Run("returns empty for non-existent explicit path", func(t *testing.T) {
		t.Parallel()

		if result := FindConfigFile("/nonexistent/path/config.yaml"); result != "" {
			t.Errorf("expected empty string, got %q", result)
		}
	})

	t.Run("returns empty for a directory", func(t *testing.T) {
		t.Parallel()

		if result := FindConfigFile(t.TempDir()); result != "" {
			t.Errorf("expected empty string, got %q", result)
		}
	})
}

// TestSearchPaths tests the implicit lookup order.
func TestSearchPaths(t *testing.T) {
	t.Parallel()

	paths := searchPaths()
	xdgPath := filepath.Join(XDGConfigDir(), XDGConfigFile)

	xdgAt := slices.Index(paths, xdgPath)
	if xdgAt < 0 {
		t.Fatalf("expected %q in %v", xdgPath, paths)
	}

	if cwd, err := os.Getwd(); err == nil {
		if paths[0] != filepath.Join(cwd, DefaultConfigFile) {
			t.Errorf("got first path %q, expected the working directory", paths[0])
		}
		if xdgAt != 1 {
			t.Errorf("got XDG path at %d, expected 1", xdgAt)
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		homeAt := slices.Index(paths, filepath.Join(home, DefaultConfigFile))
		if homeAt != len(paths)-1 || homeAt < xdgAt {
			t.Errorf("got home path at %d, expected last after XDG (%d): %v", homeAt, xdgAt, paths)
		}
	}
}

// TestXDGDirs tests XDG directory functions.
func TestXDGDirs(t *testing.T) {
	t.Parallel()

	if dir := XDGDataDir(); filepath.Base(dir) != AppName {
		t.Errorf("expected data dir to end in %q, got %q", AppName, dir)
	}
	if dir := XDGConfigDir(); filepath.Base(dir) != AppName {
		t.Errorf("expected config dir to end in %q, got %q", AppName, dir)
	}
}
