package report

import (
	"io"
	"strconv"
	"time"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/gallerygen/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the report in Markdown format.
func (w *MarkdownWriter) Write(report *model.BuildReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeSummary(md, report)
	w.writePages(md, report)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with build information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.BuildReport) {
	md.H1("Gallery Build Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Build ID", "`" + report.ID + "`"},
			{"Input", "`" + report.InputPath + "`"},
			{"Output", "`" + report.OutputDir + "`"},
			{"Started", report.DateStarted.Format("2006-01-02 15:04:05 MST")},
			{"Duration", report.Duration.Round(time.Millisecond).String()},
			{"Status", w.getStatusText(report)},
		},
	})
	md.PlainText("")
}

// getStatusText returns the status text based on report state.
func (w *MarkdownWriter) getStatusText(report *model.BuildReport) string {
	if report.Cancelled {
		return "⚠️ Cancelled (partial output)"
	}
	if report.ErrorMessage != "" {
		return "❌ Error - " + report.ErrorMessage
	}
	return "✅ Complete"
}

// writeSummary writes the count summary section.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, report *model.BuildReport) {
	md.H2("Summary")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Item", "Count"},
		Rows: [][]string{
			{"Images", strconv.Itoa(report.ImageCount)},
			{"Makes", strconv.Itoa(report.MakeCount)},
			{"Models", strconv.Itoa(report.ModelCount)},
			{"Pages", strconv.Itoa(len(report.Pages))},
			{"Bytes written", strconv.Itoa(report.TotalBytes())},
			{"Links checked", strconv.Itoa(report.LinksChecked)},
		},
	})
	md.PlainText("")

	if len(report.Pages) > 0 {
		w.writePieChart(md, report)
	}

	w.writeAlert(md, report)
}

// writePieChart writes a mermaid pie chart of pages per variant.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, report *model.BuildReport) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Pages by Kind"),
		piechart.WithShowData(true),
	)

	for _, kind := range pageKinds {
		if n := len(report.PagesByKind(kind)); n > 0 {
			chart.LabelAndIntValue(string(kind), uint64(n))
		}
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeAlert writes an alert matching the build outcome.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, report *model.BuildReport) {
	switch {
	case report.Cancelled:
		md.Warningf("The build was cancelled after %d page(s); the output directory is incomplete.", len(report.Pages))
	case report.ErrorMessage != "":
		md.Cautionf("The build failed: %s", report.ErrorMessage)
	case report.ImageCount == 0:
		md.Note("The source contained no works; only the index page was written.")
	default:
		md.Tip("All pages were written and every navigation link resolves.")
	}
	md.PlainText("")
}

// writePages writes one table per page variant.
func (w *MarkdownWriter) writePages(md *markdown.Markdown, report *model.BuildReport) {
	md.H2("Pages")
	md.PlainText("")

	if len(report.Pages) == 0 {
		md.PlainText("No pages written.")
		md.PlainText("")
		return
	}

	for _, kind := range pageKinds {
		pages := report.PagesByKind(kind)
		if len(pages) == 0 {
			continue
		}

		md.PlainText("### " + string(kind))
		md.PlainText("")

		rows := make([][]string, len(pages))
		for i, p := range pages {
			rows[i] = []string{
				truncateString(p.Title, 50),
				"`" + p.Filename + "`",
				strconv.Itoa(p.NavigationLinks),
				strconv.Itoa(p.Thumbnails),
				strconv.Itoa(p.Bytes),
				"`" + shortDigest(p.Digest) + "`",
			}
		}
		md.Table(markdown.TableSet{
			Header: []string{"Title", "File", "Links", "Thumbnails", "Bytes", "Digest"},
			Rows:   rows,
		})
		md.PlainText("")
	}
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [gallerygen](https://github.com/nao1215/gallerygen)*")
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
