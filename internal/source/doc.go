// Package source reads the raw work records a gallery is generated from.
//
// Two sources are available: XMLSource reads an XML export with one
// <work> element per photograph, and EXIFDirSource builds records from a
// directory of JPEG files using their embedded EXIF data. Both return
// model.Work values; validating them is left to model.NewImage.
package source
