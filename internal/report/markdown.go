package report

import (
	"io"
	"sort"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/pagegraph/pagegraph/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter

	// titler title-cases node kind names for section content.
	titler cases.Caser
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
		titler:     cases.Title(language.English),
	}
}

// Write outputs the full report in Markdown format.
func (w *MarkdownWriter) Write(report *model.PageReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeSummary(md, report)
	w.writeScripts(md, report)
	w.writeModifications(md, report)
	w.writeThirdParty(md, report)
	w.writeFilterMatches(md, report)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with analysis information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.PageReport) {
	md.H1("PageGraph Report")
	md.PlainText("")

	hash := report.GraphHash
	if hash != "" {
		hash = "`" + truncateString(hash, 16) + "`"
	} else {
		hash = "-"
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Page URL", "`" + report.PageURL + "`"},
			{"Graph File", "`" + report.GraphPath + "`"},
			{"Graph Hash", hash},
			{"Analyzed", report.DateAnalyzed.Format("2006-01-02 15:04:05 MST")},
			{"Status", w.getStatusText(report)},
		},
	})
	md.PlainText("")
}

// getStatusText returns the status text based on report state.
func (w *MarkdownWriter) getStatusText(report *model.PageReport) string {
	if report.TimedOut {
		return "⚠️ Timed Out (partial results)"
	}
	if report.Error != "" {
		return "❌ Error - " + report.Error
	}
	return "✅ Complete"
}

// writeSummary writes the graph size summary with a kind distribution chart.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, report *model.PageReport) {
	md.H2("Graph Summary")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Count"},
		Rows: [][]string{
			{"Nodes", strconv.Itoa(report.NodeCount)},
			{"Edges", strconv.Itoa(report.EdgeCount)},
			{"Scripts", strconv.Itoa(len(report.Scripts))},
			{"Third-Party Resources", strconv.Itoa(report.TotalThirdPartyResources())},
			{"Filter Matches", strconv.Itoa(report.TotalFilterMatches())},
		},
	})
	md.PlainText("")

	if len(report.NodeKindCounts) > 0 {
		w.writeKindChart(md, report)
	}
}

// writeKindChart writes a mermaid pie chart of node kind distribution.
func (w *MarkdownWriter) writeKindChart(md *markdown.Markdown, report *model.PageReport) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Node Kind Distribution"),
		piechart.WithShowData(true),
	)

	kinds := make([]string, 0, len(report.NodeKindCounts))
	for kind := range report.NodeKindCounts {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	for _, kind := range kinds {
		chart.LabelAndIntValue(w.titler.String(kind), uint64(report.NodeKindCounts[kind]))
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeScripts writes the per-script activity table.
func (w *MarkdownWriter) writeScripts(md *markdown.Markdown, report *model.PageReport) {
	md.H2("Script Activity")
	md.PlainText("")

	if len(report.Scripts) == 0 {
		md.PlainText("No scripts observed during the page load.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(report.Scripts))
	for i, script := range report.Scripts {
		source := "`" + truncateString(script.URL, 60) + "`"
		if script.Inline {
			source = "(inline, node " + strconv.FormatInt(script.NodeID, 10) + ")"
		}
		rows[i] = []string{
			source,
			strconv.Itoa(len(script.ResourceURLs)),
			strconv.Itoa(script.DownstreamCount),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Script", "Resources Fetched", "Downstream Effects"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeModifications writes the element modification ranking.
func (w *MarkdownWriter) writeModifications(md *markdown.Markdown, report *model.PageReport) {
	md.H2("Most Modified Elements")
	md.PlainText("")

	if len(report.Modifications) == 0 {
		md.PlainText("No element modifications recorded.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(report.Modifications))
	for i, m := range report.Modifications {
		rows[i] = []string{
			"`<" + m.TagName + ">`",
			strconv.Itoa(m.DOMNodeID),
			strconv.Itoa(m.Count),
			strconv.FormatInt(m.FirstTimestamp, 10),
			strconv.FormatInt(m.LastTimestamp, 10),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Element", "DOM Node", "Modifications", "First", "Last"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeThirdParty writes the external domain section with an alert when the
// page leans heavily on third parties.
func (w *MarkdownWriter) writeThirdParty(md *markdown.Markdown, report *model.PageReport) {
	md.H2("Third-Party Domains")
	md.PlainText("")

	if len(report.ThirdParty) == 0 {
		md.Tip("No third-party resources were fetched during this page load.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(report.ThirdParty))
	for i, domain := range report.ThirdParty {
		rows[i] = []string{
			"`" + domain.Domain + "`",
			strconv.Itoa(len(domain.ResourceURLs)),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Domain", "Resources"},
		Rows:   rows,
	})
	md.PlainText("")

	if len(report.ThirdParty) >= 5 {
		md.Warningf(
			"This page fetched resources from %d external domains.",
			len(report.ThirdParty),
		)
		md.PlainText("")
	}
}

// writeFilterMatches writes the filter rule results.
func (w *MarkdownWriter) writeFilterMatches(md *markdown.Markdown, report *model.PageReport) {
	if len(report.FilterMatches) == 0 {
		return
	}

	md.H2("Filter Matches")
	md.PlainText("")

	for _, match := range report.FilterMatches {
		switch {
		case match.Invalid:
			md.PlainText("- `" + match.Pattern + "` (invalid pattern)")
		case len(match.ResourceURLs) == 0:
			md.PlainText("- `" + match.Pattern + "`: no matches")
		default:
			md.PlainText("- `" + match.Pattern + "`: " + strconv.Itoa(len(match.ResourceURLs)) + " match(es)")
			for _, u := range match.ResourceURLs {
				md.PlainText("  - `" + truncateString(u, 80) + "`")
			}
		}
	}
	md.PlainText("")

	if report.TotalFilterMatches() > 0 {
		md.Importantf(
			"%d resource(s) on this page match the configured filter rules.",
			report.TotalFilterMatches(),
		)
		md.PlainText("")
	}
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by pagegraph*")
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
