// Package main provides the entry point for the gallerygen CLI.
//
// gallerygen turns a list of photo records into a static HTML gallery:
// one index page, one page per camera make and one page per make/model
// pair, all cross-linked.
//
// Usage:
//
//	gallerygen generate works.xml ./public
//	gallerygen generate --source exif ./photos ./public
//
// See --help for all available options.
package main

// main is the entry point for gallerygen.
func main() {
	Execute()
}
