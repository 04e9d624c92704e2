// Package pipeline runs a gallery generation as an ordered list of steps.
//
// The default pipeline loads the works, registers the page units and then
// renders model pages, make pages and finally the index page, each phase
// only after the previous one has finished. Registration freezes the
// site, so the pages of one phase are rendered concurrently with errgroup.
// A last step parses the written pages and verifies every local link.
//
// Execution is fail-fast: the first error ends the run.
package pipeline
