// Package render turns page units into HTML.
//
// A single embedded template is shared by the index, make and model
// pages. Thumbnails show the small image and link to the large one.
package render
