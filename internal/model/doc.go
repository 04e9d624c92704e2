// Package model defines the core data structures of gallerygen.
//
// This package contains the following main types:
//   - Work: a raw work record as produced by a record source
//   - Image: the normalized, immutable view of one work
//   - Index: the ordered collection of all images of a run
//   - BuildReport: the result of one generation run
//
// Page units and their registry live in the page package, which builds
// on the Index defined here. Keeping the records in their own package lets
// source, page, render and report share them without import cycles.
package model
