package page

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Fixed values of the index page.
const (
	// IndexFilename is the file name of the index page.
	IndexFilename = "index.html"

	// IndexTitle is the title of the index page.
	IndexTitle = "Index"
)

// Filename prefixes of the keyed page variants.
const (
	makePrefix  = "make_"
	modelPrefix = "model_"
	extension   = ".html"
)

// GenerateFilename derives a page file name from base.
//
// The result is base + ".html", lower-cased, with spaces replaced by
// underscores and every character outside [a-z0-9_.] removed. Letters
// outside ASCII are lower-cased and then dropped; nothing is transliterated.
// The function is pure: equal input always yields equal output.
func GenerateFilename(base string) string {
	// A cases.Caser keeps state and must not be shared between goroutines.
	lower := cases.Lower(language.Und).String(base + extension)
	lower = strings.ReplaceAll(lower, " ", "_")

	var b strings.Builder
	b.Grow(len(lower))
	for _, r := range lower {
		if isFilenameRune(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isFilenameRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '.'
}

// MakeFilename returns the page file name of a camera make.
func MakeFilename(cameraMake string) string {
	return GenerateFilename(makePrefix + cameraMake)
}

// ModelFilename returns the page file name of a make/model pair.
func ModelFilename(cameraMake, cameraModel string) string {
	return GenerateFilename(modelPrefix + cameraMake + "_" + cameraModel)
}
