// Package config provides configuration structures and utilities for gallerygen.
// It defines generation options, the optional .gallerygen YAML file with
// per-output-directory overrides, and the XDG directories used for
// build history.
package config
