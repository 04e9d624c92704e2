// Package output persists generated pages.
//
// FileWriter writes each page to its path, overwriting silently. LockDir
// keeps two runs from writing into the same directory at once, and Digest
// fingerprints page content so builds can be compared later.
package output
