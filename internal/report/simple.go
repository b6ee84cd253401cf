package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pagegraph/pagegraph/internal/model"
)

// SimpleWriter outputs human-readable text reports.
// This format is designed for terminal display with clear section
// formatting.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type SimpleWriter struct {
	baseWriter

	// showEmpty controls whether sections with no entries are shown.
	showEmpty bool

	// verbose enables additional detail in the output.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowEmpty configures the writer to show empty sections.
func WithShowEmpty(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showEmpty = show
	}
}

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		showEmpty:  false,
		verbose:    false,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the full report in human-readable format.
func (w *SimpleWriter) Write(report *model.PageReport) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)
	w.writeSummary(&sb, report)
	w.writeScripts(&sb, report)
	w.writeModifications(&sb, report)
	w.writeThirdParty(&sb, report)
	w.writeFilterMatches(&sb, report)
	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the report header with analysis information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.PageReport) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                         PAGEGRAPH REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Page URL:      %s\n", report.PageURL))
	sb.WriteString(fmt.Sprintf("Graph File:    %s\n", report.GraphPath))
	if report.GraphHash != "" {
		sb.WriteString(fmt.Sprintf("Graph Hash:    %s\n", truncateString(report.GraphHash, 16)))
	}
	sb.WriteString(fmt.Sprintf("Analyzed:      %s\n", report.DateAnalyzed.Format("2006-01-02 15:04:05 MST")))

	switch {
	case report.TimedOut:
		sb.WriteString("Status:        TIMED OUT (partial results)\n")
	case report.Error != "":
		sb.WriteString(fmt.Sprintf("Status:        ERROR - %s\n", report.Error))
	default:
		sb.WriteString("Status:        Complete\n")
	}

	sb.WriteString("\n")
}

// writeSummary writes the graph size summary.
func (w *SimpleWriter) writeSummary(sb *strings.Builder, report *model.PageReport) {
	w.sectionHeader(sb, "GRAPH SUMMARY")

	sb.WriteString(fmt.Sprintf("  Nodes:        %d\n", report.NodeCount))
	sb.WriteString(fmt.Sprintf("  Edges:        %d\n", report.EdgeCount))
	sb.WriteString(fmt.Sprintf("  Scripts:      %d\n", len(report.Scripts)))
	sb.WriteString(fmt.Sprintf("  Third party:  %d resources\n", report.TotalThirdPartyResources()))
	sb.WriteString("\n")
}

// writeScripts writes the per-script activity section.
func (w *SimpleWriter) writeScripts(sb *strings.Builder, report *model.PageReport) {
	if len(report.Scripts) == 0 && !w.showEmpty {
		return
	}

	w.sectionHeader(sb, "SCRIPT ACTIVITY")

	if len(report.Scripts) == 0 {
		sb.WriteString("  No scripts observed\n\n")
		return
	}

	for _, script := range report.Scripts {
		source := script.URL
		if script.Inline {
			source = "(inline, node " + strconv.FormatInt(script.NodeID, 10) + ")"
		}
		sb.WriteString(fmt.Sprintf("  * %s\n", source))
		sb.WriteString(fmt.Sprintf("    Fetched: %d, downstream effects: %d\n",
			len(script.ResourceURLs), script.DownstreamCount))
		if w.verbose {
			for _, u := range script.ResourceURLs {
				sb.WriteString(fmt.Sprintf("      -> %s\n", u))
			}
		}
	}
	sb.WriteString("\n")
}

// writeModifications writes the element modification ranking.
func (w *SimpleWriter) writeModifications(sb *strings.Builder, report *model.PageReport) {
	if len(report.Modifications) == 0 && !w.showEmpty {
		return
	}

	w.sectionHeader(sb, "MOST MODIFIED ELEMENTS")

	if len(report.Modifications) == 0 {
		sb.WriteString("  No element modifications recorded\n\n")
		return
	}

	for _, m := range report.Modifications {
		sb.WriteString(fmt.Sprintf("  * <%s> (DOM node %d): %d modifications between t=%d and t=%d\n",
			m.TagName, m.DOMNodeID, m.Count, m.FirstTimestamp, m.LastTimestamp))
	}
	sb.WriteString("\n")
}

// writeThirdParty writes the external domain section.
func (w *SimpleWriter) writeThirdParty(sb *strings.Builder, report *model.PageReport) {
	if len(report.ThirdParty) == 0 && !w.showEmpty {
		return
	}

	w.sectionHeader(sb, "THIRD-PARTY DOMAINS")

	if len(report.ThirdParty) == 0 {
		sb.WriteString("  No third-party resources\n\n")
		return
	}

	for _, domain := range report.ThirdParty {
		sb.WriteString(fmt.Sprintf("  [+] %s (%d resources)\n", domain.Domain, len(domain.ResourceURLs)))
		if w.verbose {
			for _, u := range domain.ResourceURLs {
				sb.WriteString(fmt.Sprintf("      %s\n", u))
			}
		}
	}
	sb.WriteString("\n")
}

// writeFilterMatches writes the filter rule results.
func (w *SimpleWriter) writeFilterMatches(sb *strings.Builder, report *model.PageReport) {
	if len(report.FilterMatches) == 0 && !w.showEmpty {
		return
	}

	w.sectionHeader(sb, "FILTER MATCHES")

	if len(report.FilterMatches) == 0 {
		sb.WriteString("  No filter patterns configured\n\n")
		return
	}

	for _, match := range report.FilterMatches {
		switch {
		case match.Invalid:
			sb.WriteString(fmt.Sprintf("  ! %s (invalid pattern)\n", match.Pattern))
		case len(match.ResourceURLs) == 0:
			sb.WriteString(fmt.Sprintf("  - %s: no matches\n", match.Pattern))
		default:
			sb.WriteString(fmt.Sprintf("  * %s: %d matches\n", match.Pattern, len(match.ResourceURLs)))
			for _, u := range match.ResourceURLs {
				sb.WriteString(fmt.Sprintf("      %s\n", u))
			}
		}
	}
	sb.WriteString("\n")
}

// sectionHeader writes a dashed section divider with a title.
func (w *SimpleWriter) sectionHeader(sb *strings.Builder, title string) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("Report generated by pagegraph\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}
