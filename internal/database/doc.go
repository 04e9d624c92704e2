// Package database provides SQLite-based build history for gallerygen.
//
// Every generate run stores its BuildReport, keyed by build ID and
// grouped by output directory. The history command reads it back to
// list past builds and to tell which pages changed between two builds
// by comparing page content digests.
//
// SQLite is used through modernc.org/sqlite, which needs no CGO, and
// the database lives in a single file under the XDG data directory.
package database
