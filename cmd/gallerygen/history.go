package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/nao1215/markdown"
	"github.com/spf13/cobra"

	"github.com/nao1215/gallerygen/internal/config"
	"github.com/nao1215/gallerygen/internal/database"
	"github.com/nao1215/gallerygen/internal/model"
)

// NewHistoryCmd creates the history command.
// This command lists past builds and compares page digests between them.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [output-dir]",
		Short: "Show build history and page changes between builds",
		Long: `History reads the build reports saved by 'gallerygen generate' and shows:
- Pages added since the previous build
- Pages removed since the previous build
- Pages whose content changed (different digest)

By default the latest build of the output directory is compared with
the build before it.

Examples:
  # Compare the latest two builds of ./public
  gallerygen history ./public

  # List all builds of ./public
  gallerygen history --list ./public

  # Compare the latest build with a specific build
  gallerygen history --with-build-id 1b4e28ba-2fa1-11d2-883f-0016d3cca427 ./public

  # Output the comparison as JSON
  gallerygen history --json ./public

  # List every output directory with history
  gallerygen history --list-sites`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().BoolP("list", "l", false,
		"List build history for the output directory")
	cmd.Flags().BoolP("list-sites", "L", false,
		"List every output directory in the database")
	cmd.Flags().StringP("with-build-id", "i", "",
		"Compare the latest build with this build (use --list to see IDs)")
	cmd.Flags().BoolP("json", "j", false,
		"Output comparison result in JSON format")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output comparison result in Markdown format")
	cmd.Flags().String("db-dir", config.XDGDataDir(),
		"Directory of the history database")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()

	listSites, err := flags.GetBool("list-sites")
	if err != nil {
		return err
	}

	// Validate arguments before opening the database.
	var outputDir string
	if !listSites {
		if len(args) == 0 {
			return errors.New("output directory is required (use --list-sites to see directories with history)")
		}
		outputDir, err = filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("invalid output directory: %w", err)
		}
	}

	jsonOutput, err := flags.GetBool("json")
	if err != nil {
		return err
	}
	markdownOutput, err := flags.GetBool("markdown")
	if err != nil {
		return err
	}
	if jsonOutput && markdownOutput {
		return config.ErrConflictingReportFormats
	}

	dbDir, err := flags.GetString("db-dir")
	if err != nil {
		return err
	}
	db, err := database.Open(dbDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if listSites {
		return listOutputDirs(ctx, out, db)
	}

	listHistory, err := flags.GetBool("list")
	if err != nil {
		return err
	}
	if listHistory {
		return listBuildHistory(ctx, out, db, outputDir)
	}

	withBuildID, err := flags.GetString("with-build-id")
	if err != nil {
		return err
	}

	result, err := runComparison(ctx, db, outputDir, withBuildID)
	if err != nil {
		return err
	}

	switch {
	case jsonOutput:
		return outputComparisonJSON(out, result)
	case markdownOutput:
		return outputComparisonMarkdown(out, result)
	default:
		return outputComparisonText(out, result)
	}
}

// listOutputDirs lists every output directory that has build history.
func listOutputDirs(ctx context.Context, out io.Writer, db *database.BuildDB) error {
	dirs, err := db.ListOutputDirs(ctx)
	if err != nil {
		return err
	}

	if len(dirs) == 0 {
		fmt.Fprintln(out, "No builds found in the database.")
		fmt.Fprintln(out, "\nUse 'gallerygen generate <input> <output-dir>' to build a gallery.")
		return nil
	}

	fmt.Fprintf(out, "Output directories (%d):\n\n", len(dirs))
	for _, dir := range dirs {
		fmt.Fprintf(out, "  • %s\n", dir)
	}
	fmt.Fprintln(out, "\nUse 'gallerygen history --list <output-dir>' to see the builds of a directory.")

	return nil
}

// listBuildHistory prints one table row per stored build of outputDir.
func listBuildHistory(ctx context.Context, out io.Writer, db *database.BuildDB, outputDir string) error {
	metas, err := db.GetBuildHistoryWithMetadata(ctx, outputDir)
	if err != nil {
		return err
	}

	if len(metas) == 0 {
		fmt.Fprintf(out, "No build history found for %s\n", outputDir)
		return nil
	}

	rows := make([][]string, 0, len(metas))
	for _, meta := range metas {
		status := "ok"
		if !meta.Succeeded {
			status = "failed"
		}
		rows = append(rows, []string{
			meta.BuildID,
			meta.Timestamp.Local().Format("2006-01-02 15:04:05"),
			status,
			strconv.Itoa(meta.PageCount),
			meta.InputPath,
		})
	}

	fmt.Fprintf(out, "Build history for %s (%d builds):\n\n", outputDir, len(metas))
	fmt.Fprintln(out, renderTable([]column{
		{Title: "Build ID"},
		{Title: "Date"},
		{Title: "Status"},
		{Title: "Pages", Numeric: true},
		{Title: "Input"},
	}, rows))
	fmt.Fprintln(out, "\nUse 'gallerygen history --with-build-id <id> <output-dir>' to compare with a specific build.")

	return nil
}

// runComparison loads the two builds to compare and diffs them.
func runComparison(ctx context.Context, db *database.BuildDB, outputDir, withBuildID string) (*ComparisonResult, error) {
	reports, err := db.GetBuildHistory(ctx, outputDir, 2)
	if err != nil {
		return nil, err
	}

	if len(reports) == 0 {
		return nil, fmt.Errorf("no build history found for %s", outputDir)
	}

	current := reports[0]
	var previous *model.BuildReport

	if withBuildID != "" {
		previous, err = db.GetBuildReportByID(ctx, withBuildID)
		if err != nil {
			return nil, fmt.Errorf("failed to get build %s: %w", withBuildID, err)
		}
		if previous == nil {
			return nil, fmt.Errorf("build %s not found", withBuildID)
		}
		if previous.OutputDir != outputDir {
			return nil, fmt.Errorf("build %s belongs to %s, not %s", withBuildID, previous.OutputDir, outputDir)
		}
	} else {
		if len(reports) < 2 {
			return nil, fmt.Errorf("at least 2 builds are required for comparison (found %d)", len(reports))
		}
		previous = reports[1]
	}

	return compareBuilds(previous, current), nil
}

// ComparisonResult holds the page-level difference between two builds.
type ComparisonResult struct {
	// OutputDir is the output directory both builds wrote to.
	OutputDir string `json:"output_dir"`

	// PreviousBuild summarizes the older build.
	PreviousBuild BuildSummary `json:"previous_build"`

	// CurrentBuild summarizes the newer build.
	CurrentBuild BuildSummary `json:"current_build"`

	// AddedPages are written by the current build only.
	AddedPages []string `json:"added_pages,omitempty"`

	// RemovedPages were written by the previous build only.
	RemovedPages []string `json:"removed_pages,omitempty"`

	// ChangedPages are written by both builds with different content.
	ChangedPages []string `json:"changed_pages,omitempty"`

	// UnchangedCount is the number of pages with identical content.
	UnchangedCount int `json:"unchanged_count"`
}

// BuildSummary contains the headline numbers of one build.
type BuildSummary struct {
	ID          string    `json:"id"`
	DateStarted time.Time `json:"date_started"`
	Images      int       `json:"images"`
	Makes       int       `json:"makes"`
	Models      int       `json:"models"`
	Pages       int       `json:"pages"`
	Succeeded   bool      `json:"succeeded"`
}

// summarize extracts a BuildSummary.
func summarize(r *model.BuildReport) BuildSummary {
	return BuildSummary{
		ID:          r.ID,
		DateStarted: r.DateStarted,
		Images:      r.ImageCount,
		Makes:       r.MakeCount,
		Models:      r.ModelCount,
		Pages:       len(r.Pages),
		Succeeded:   r.Succeeded(),
	}
}

// compareBuilds diffs the pages of two builds by filename and digest.
// Page lists in the result are sorted.
func compareBuilds(previous, current *model.BuildReport) *ComparisonResult {
	result := &ComparisonResult{
		OutputDir:     current.OutputDir,
		PreviousBuild: summarize(previous),
		CurrentBuild:  summarize(current),
	}

	previousDigests := database.PageDigests(previous)
	currentDigests := database.PageDigests(current)

	for filename, digest := range currentDigests {
		old, exists := previousDigests[filename]
		switch {
		case !exists:
			result.AddedPages = append(result.AddedPages, filename)
		case old != digest:
			result.ChangedPages = append(result.ChangedPages, filename)
		default:
			result.UnchangedCount++
		}
	}
	for filename := range previousDigests {
		if _, exists := currentDigests[filename]; !exists {
			result.RemovedPages = append(result.RemovedPages, filename)
		}
	}

	slices.Sort(result.AddedPages)
	slices.Sort(result.RemovedPages)
	slices.Sort(result.ChangedPages)

	return result
}

// outputComparisonJSON outputs the comparison result in JSON format.
func outputComparisonJSON(out io.Writer, result *ComparisonResult) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// outputComparisonMarkdown outputs the comparison result in Markdown format.
func outputComparisonMarkdown(out io.Writer, result *ComparisonResult) error {
	md := markdown.NewMarkdown(out)

	md.H1("Build Comparison: " + result.OutputDir)
	md.PlainText("")

	prev, cur := result.PreviousBuild, result.CurrentBuild
	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Previous", "Current", "Change"},
		Rows: append([][]string{
			{"Build", "`" + prev.ID + "`", "`" + cur.ID + "`", "-"},
			{"Date", prev.DateStarted.Format("2006-01-02 15:04"), cur.DateStarted.Format("2006-01-02 15:04"), "-"},
		}, comparisonMetrics(prev, cur)...),
	})
	md.PlainText("")

	writePageList := func(title string, pages []string) {
		if len(pages) == 0 {
			return
		}
		md.H2(fmt.Sprintf("%s (%d)", title, len(pages)))
		md.PlainText("")
		md.BulletList(pages...)
		md.PlainText("")
	}
	writePageList("Added Pages", result.AddedPages)
	writePageList("Removed Pages", result.RemovedPages)
	writePageList("Changed Pages", result.ChangedPages)

	if result.UnchangedCount > 0 {
		md.HorizontalRule()
		md.PlainText("")
		md.PlainTextf("*%d pages unchanged*", result.UnchangedCount)
	}

	return md.Build()
}

// outputComparisonText outputs the comparison result in human-readable text format.
func outputComparisonText(out io.Writer, result *ComparisonResult) error {
	fmt.Fprintf(out, "Build Comparison: %s\n", result.OutputDir)
	fmt.Fprintln(out, strings.Repeat("=", 60))

	prev, cur := result.PreviousBuild, result.CurrentBuild
	fmt.Fprintf(out, "\nPrevious build: %s (%s)\n", prev.ID, prev.DateStarted.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "Current build:  %s (%s)\n\n", cur.ID, cur.DateStarted.Format("2006-01-02 15:04:05"))

	fmt.Fprintln(out, renderTable([]column{
		{Title: "Metric"},
		{Title: "Previous", Numeric: true},
		{Title: "Current", Numeric: true},
		{Title: "Change", Numeric: true},
	}, comparisonMetrics(prev, cur)))

	printPages := func(title, marker string, pages []string) {
		if len(pages) == 0 {
			return
		}
		fmt.Fprintf(out, "\n%s (%d):\n", title, len(pages))
		for _, p := range pages {
			fmt.Fprintf(out, "  [%s] %s\n", marker, p)
		}
	}
	printPages("Added Pages", "+", result.AddedPages)
	printPages("Removed Pages", "-", result.RemovedPages)
	printPages("Changed Pages", "~", result.ChangedPages)

	if result.UnchangedCount > 0 {
		fmt.Fprintf(out, "\nUnchanged: %d pages\n", result.UnchangedCount)
	}

	return nil
}

// comparisonMetrics returns the count rows shared by the text and Markdown
// comparisons.
func comparisonMetrics(prev, cur BuildSummary) [][]string {
	return [][]string{
		metricRow("Images", prev.Images, cur.Images),
		metricRow("Makes", prev.Makes, cur.Makes),
		metricRow("Models", prev.Models, cur.Models),
		metricRow("Pages", prev.Pages, cur.Pages),
	}
}

// formatDelta formats a numeric delta with sign for display.
func formatDelta(delta int) string {
	if delta > 0 {
		return "+" + strconv.Itoa(delta)
	}
	return strconv.Itoa(delta)
}
