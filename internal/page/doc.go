// Package page derives the pages of a gallery from an image index.
//
// There are three page variants, all implementing Unit:
//   - IndexUnit: index.html, links to every make page
//   - MakeUnit: one page per camera make, links to the index and the make's models
//   - ModelUnit: one page per make/model pair, links to the index and its make
//
// Units belong to a Site, which owns the image index and the Registry of
// one generation run. Site.Populate registers the units; after that both
// the index and the registry are frozen, and units can be rendered from
// several goroutines.
package page
