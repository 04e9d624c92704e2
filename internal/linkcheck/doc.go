// Package linkcheck verifies the navigation of a generated gallery by
// parsing the written pages and resolving every relative .html link.
package linkcheck
