package config

// SiteConfig holds settings for one output directory.
type SiteConfig struct {
	// SiteName overrides the name appended to page titles.
	SiteName string `yaml:"siteName,omitempty"`

	// Thumbnails overrides the thumbnail limit.
	// If zero, the global limit is used.
	Thumbnails int `yaml:"thumbnails,omitempty"`

	// Concurrency overrides the number of parallel renders.
	Concurrency int `yaml:"concurrency,omitempty"`

	// SkipLinkCheck disables link verification for this site.
	SkipLinkCheck bool `yaml:"skipLinkCheck,omitempty"`

	// BaseURL prefixes image paths when generating from an image directory.
	BaseURL string `yaml:"baseURL,omitempty"`
}

// File represents the structure of the .gallerygen configuration file.
type File struct {
	// Sites maps output directories to their configurations.
	// Keys are matched against the absolute output directory.
	Sites map[string]SiteConfig `yaml:"sites,omitempty"`

	// Defaults applies to every site unless overridden.
	Defaults SiteConfig `yaml:"defaults,omitempty"`
}

// GetSiteConfig returns the configuration for an output directory,
// merged over the defaults.
func (cf *File) GetSiteConfig(outputDir string) SiteConfig {
	result := cf.Defaults

	if siteConfig, ok := cf.Sites[outputDir]; ok {
		if siteConfig.SiteName != "" {
			result.SiteName = siteConfig.SiteName
		}
		if siteConfig.Thumbnails != 0 {
			result.Thumbnails = siteConfig.Thumbnails
		}
		if siteConfig.Concurrency != 0 {
			result.Concurrency = siteConfig.Concurrency
		}
		if siteConfig.SkipLinkCheck {
			result.SkipLinkCheck = true
		}
		if siteConfig.BaseURL != "" {
			result.BaseURL = siteConfig.BaseURL
		}
	}

	return result
}
