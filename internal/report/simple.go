package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/nao1215/gallerygen/internal/model"
)

// SimpleWriter outputs human-readable text reports for terminal display.
type SimpleWriter struct {
	baseWriter

	// verbose lists every written page.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables the per-page listing.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the report in human-readable format.
func (w *SimpleWriter) Write(report *model.BuildReport) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)
	w.writeSummary(&sb, report)
	if w.verbose {
		w.writePages(&sb, report)
	}
	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the report header with build information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.BuildReport) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                      GALLERY BUILD REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	fmt.Fprintf(sb, "Build ID:   %s\n", report.ID)
	fmt.Fprintf(sb, "Input:      %s\n", report.InputPath)
	fmt.Fprintf(sb, "Output:     %s\n", report.OutputDir)
	fmt.Fprintf(sb, "Started:    %s\n", report.DateStarted.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(sb, "Duration:   %s\n", report.Duration.Round(time.Millisecond))
	fmt.Fprintf(sb, "Status:     %s\n", statusText(report))
	sb.WriteString("\n")
}

// writeSummary writes the count summary section.
func (w *SimpleWriter) writeSummary(sb *strings.Builder, report *model.BuildReport) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("SUMMARY\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	fmt.Fprintf(sb, "  Images:        %d\n", report.ImageCount)
	fmt.Fprintf(sb, "  Makes:         %d\n", report.MakeCount)
	fmt.Fprintf(sb, "  Models:        %d\n", report.ModelCount)
	sb.WriteString("\n")

	for _, kind := range pageKinds {
		fmt.Fprintf(sb, "  %-14s %d\n", string(kind)+" pages:", len(report.PagesByKind(kind)))
	}
	fmt.Fprintf(sb, "  Total bytes:   %d\n", report.TotalBytes())
	fmt.Fprintf(sb, "  Links checked: %d\n", report.LinksChecked)
	sb.WriteString("\n")
}

// writePages lists every written page.
func (w *SimpleWriter) writePages(sb *strings.Builder, report *model.BuildReport) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("PAGES\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	if len(report.Pages) == 0 {
		sb.WriteString("  No pages written\n\n")
		return
	}

	for _, p := range report.Pages {
		fmt.Fprintf(sb, "  [%s] %s\n", p.Kind, p.Filename)
		fmt.Fprintf(sb, "    Title: %s\n", p.Title)
		fmt.Fprintf(sb, "    Links: %d  Thumbnails: %d  Bytes: %d  Digest: %s\n",
			p.NavigationLinks, p.Thumbnails, p.Bytes, shortDigest(p.Digest))
	}
	sb.WriteString("\n")
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("Report generated by gallerygen\n")
	sb.WriteString("https://github.com/nao1215/gallerygen\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}
