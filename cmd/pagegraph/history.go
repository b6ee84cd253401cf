package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pagegraph/pagegraph/internal/config"
	"github.com/pagegraph/pagegraph/internal/database"
	"github.com/pagegraph/pagegraph/internal/model"
	"github.com/pagegraph/pagegraph/internal/report"
	"github.com/spf13/cobra"
)

// Constants for tracking direction and summary messages.
const (
	trackingDirectionWorsened  = "worsened"
	trackingDirectionImproved  = "improved"
	trackingDirectionUnchanged = "unchanged"
)

// NewHistoryCmd creates the history command.
// This command inspects analysis results stored in the database.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [page-url]",
		Short: "Inspect stored analysis results",
		Long: `History lists and compares analyses stored in the database.

Every 'pagegraph analyze' run stores its report unless --no-db is given.
This command retrieves that history and shows:
- All stored analyses for a page, with headline counts
- The latest full report for a page
- Differences between the latest two analyses of a page
- Which analyzed pages loaded resources from a given third-party domain

Examples:
  # List stored analyses for a page
  pagegraph history https://example.com/

  # Show the latest stored report for a page
  pagegraph history --latest https://example.com/

  # Compare the latest two analyses of a page
  pagegraph history --compare https://example.com/

  # Output the comparison in JSON format
  pagegraph history --compare --json https://example.com/

  # List all analyzed pages in the database
  pagegraph history --list-pages

  # List pages that loaded resources from a domain
  pagegraph history --domain tracker.example`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	// Database-wide listing flags
	cmd.Flags().BoolP("list-pages", "L", false,
		"List all analyzed pages in the database")
	cmd.Flags().StringP("domain", "d", "",
		"List pages that loaded resources from this registrable domain")

	// Per-page flags
	cmd.Flags().BoolP("latest", "l", false,
		"Show the latest stored report for the specified page")
	cmd.Flags().BoolP("compare", "c", false,
		"Compare the latest two analyses of the specified page")

	// Output format flags
	cmd.Flags().BoolP("json", "j", false,
		"Output result in JSON format")

	// Database location
	cmd.Flags().String("db-dir", "",
		"Database directory (default: XDG data directory)")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	listPages, err := cmd.Flags().GetBool("list-pages")
	if err != nil {
		return err
	}
	domain, err := cmd.Flags().GetString("domain")
	if err != nil {
		return err
	}

	// Validate arguments before opening the database
	var pageURL string
	if !listPages && domain == "" {
		if len(args) == 0 {
			return errors.New("page URL is required (use --list-pages to see analyzed pages)")
		}
		pageURL = args[0]
	}

	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return err
	}
	if dbDir == "" {
		dbDir = config.XDGDataDir()
	}

	// Open the existing database; history never creates one
	db, err := database.Open(dbDir, database.Options{EnableWAL: true})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()

	// Handle database-wide listings first
	if listPages {
		return listAnalyzedPages(ctx, out, db)
	}
	if domain != "" {
		return listPagesUsingDomain(ctx, out, db, domain)
	}

	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	latest, err := cmd.Flags().GetBool("latest")
	if err != nil {
		return err
	}
	if latest {
		return showLatestReport(ctx, out, db, pageURL, jsonOutput)
	}

	compare, err := cmd.Flags().GetBool("compare")
	if err != nil {
		return err
	}
	if compare {
		return runComparison(ctx, out, db, pageURL, jsonOutput)
	}

	return listAnalysisHistory(ctx, out, db, pageURL)
}

// listAnalyzedPages lists all pages that have analysis records in the database.
func listAnalyzedPages(ctx context.Context, out io.Writer, db *database.AnalysisDB) error {
	pages, err := db.ListPages(ctx)
	if err != nil {
		return fmt.Errorf("failed to list pages: %w", err)
	}

	if len(pages) == 0 {
		fmt.Fprintln(out, "No analyzed pages found in the database.")
		fmt.Fprintln(out, "\nUse 'pagegraph analyze <capture.graphml>' to analyze a capture.")
		return nil
	}

	fmt.Fprintf(out, "Analyzed pages (%d):\n\n", len(pages))
	for _, page := range pages {
		fmt.Fprintf(out, "  • %s\n", page)
	}
	fmt.Fprintln(out, "\nUse 'pagegraph history <page-url>' to see analysis history for a page.")

	return nil
}

// listPagesUsingDomain lists pages that loaded resources from the given
// registrable domain.
func listPagesUsingDomain(ctx context.Context, out io.Writer, db *database.AnalysisDB, domain string) error {
	pages, err := db.PagesUsingDomain(ctx, domain)
	if err != nil {
		return fmt.Errorf("failed to query pages by domain: %w", err)
	}

	if len(pages) == 0 {
		fmt.Fprintf(out, "No analyzed pages loaded resources from %s\n", domain)
		return nil
	}

	fmt.Fprintf(out, "Pages that loaded resources from %s (%d):\n\n", domain, len(pages))
	for _, page := range pages {
		fmt.Fprintf(out, "  • %s\n", page)
	}

	return nil
}

// listAnalysisHistory lists all analysis records for a specific page URL.
func listAnalysisHistory(ctx context.Context, out io.Writer, db *database.AnalysisDB, pageURL string) error {
	records, err := db.HistoryMetadata(ctx, pageURL)
	if err != nil {
		return fmt.Errorf("failed to get analysis history: %w", err)
	}

	if len(records) == 0 {
		fmt.Fprintf(out, "No analysis history found for %s\n", pageURL)
		fmt.Fprintln(out, "\nUse 'pagegraph analyze' to analyze a capture of this page.")
		return nil
	}

	fmt.Fprintf(out, "Analysis history for %s (%d analyses):\n\n", pageURL, len(records))
	fmt.Fprintf(out, "  %-6s  %-20s  %s\n", "ID", "Date", "Summary")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 60))

	for _, meta := range records {
		fmt.Fprintf(out, "  %-6d  %-20s  %s\n",
			meta.ID,
			meta.Timestamp.Format("2006-01-02 15:04:05"),
			formatAnalysisSummary(meta.Summary),
		)
	}

	fmt.Fprintln(out, "\nUse 'pagegraph history --compare <page-url>' to compare the latest two analyses.")
	fmt.Fprintln(out, "Use 'pagegraph history --latest <page-url>' to show the latest report.")

	return nil
}

// formatAnalysisSummary formats the summary map into a human-readable string.
func formatAnalysisSummary(summary map[string]int) string {
	if len(summary) == 0 {
		return "N/A"
	}

	var parts []string
	if v, ok := summary["nodes"]; ok {
		parts = append(parts, fmt.Sprintf("nodes:%d", v))
	}
	if v, ok := summary["edges"]; ok {
		parts = append(parts, fmt.Sprintf("edges:%d", v))
	}
	if v, ok := summary["scripts"]; ok {
		parts = append(parts, fmt.Sprintf("scripts:%d", v))
	}
	if v, ok := summary["third_party"]; ok {
		parts = append(parts, fmt.Sprintf("3rd-party:%d", v))
	}
	if v, ok := summary["filter_hits"]; ok && v > 0 {
		parts = append(parts, fmt.Sprintf("filter-hits:%d", v))
	}

	if len(parts) == 0 {
		return "N/A"
	}
	return strings.Join(parts, " ")
}

// showLatestReport prints the latest stored report for a page.
func showLatestReport(ctx context.Context, out io.Writer, db *database.AnalysisDB, pageURL string, jsonOutput bool) error {
	latest, err := db.LatestReport(ctx, pageURL)
	if err != nil {
		return fmt.Errorf("failed to get latest report: %w", err)
	}
	if latest == nil {
		return fmt.Errorf("no analysis history found for %s", pageURL)
	}

	if jsonOutput {
		writer := report.NewFullJSONWriter(out, getVersion(), report.WithPrettyPrint())
		_, err := writer.Write(latest)
		return err
	}

	writer := report.NewSimpleWriter(out)
	_, err = writer.Write(latest)
	return err
}

// runComparison compares the latest two stored analyses of a page.
func runComparison(ctx context.Context, out io.Writer, db *database.AnalysisDB, pageURL string, jsonOutput bool) error {
	reports, err := db.ReportHistory(ctx, pageURL)
	if err != nil {
		return fmt.Errorf("failed to get analysis history: %w", err)
	}

	if len(reports) == 0 {
		return fmt.Errorf("no analysis history found for %s", pageURL)
	}
	if len(reports) < 2 {
		return fmt.Errorf("at least 2 analyses are required for comparison (found %d)", len(reports))
	}

	// Reports are sorted newest first
	comparison := compareReports(pageURL, reports[1], reports[0])

	if jsonOutput {
		return outputComparisonJSON(out, comparison)
	}
	return outputComparisonText(out, comparison)
}

// ComparisonResult holds the result of comparing two analyses of one page.
type ComparisonResult struct {
	// PageURL is the analyzed page.
	PageURL string `json:"page_url"`

	// PreviousAnalysis contains headline counts of the previous analysis.
	PreviousAnalysis AnalysisSnapshot `json:"previous_analysis"`

	// CurrentAnalysis contains headline counts of the current analysis.
	CurrentAnalysis AnalysisSnapshot `json:"current_analysis"`

	// NewDomains are third-party domains present only in the current analysis.
	NewDomains []string `json:"new_domains,omitempty"`

	// RemovedDomains are third-party domains present only in the previous analysis.
	RemovedDomains []string `json:"removed_domains,omitempty"`

	// UnchangedDomains is the number of third-party domains present in both.
	UnchangedDomains int `json:"unchanged_domains"`

	// TrackingChange describes the overall change in tracking exposure.
	TrackingChange TrackingChange `json:"tracking_change"`
}

// AnalysisSnapshot contains headline counts of one analysis for comparison
// display.
type AnalysisSnapshot struct {
	// DateAnalyzed is when the analysis was performed.
	DateAnalyzed time.Time `json:"date_analyzed"`

	// NodeCount is the number of nodes in the analyzed graph.
	NodeCount int `json:"node_count"`

	// EdgeCount is the number of edges in the analyzed graph.
	EdgeCount int `json:"edge_count"`

	// ScriptCount is the number of scripts observed in the page load.
	ScriptCount int `json:"script_count"`

	// ThirdPartyResources is the number of third-party resources.
	ThirdPartyResources int `json:"third_party_resources"`

	// FilterMatches is the number of resources matched by filter rules.
	FilterMatches int `json:"filter_matches"`
}

// TrackingChange describes the change in tracking exposure between analyses.
type TrackingChange struct {
	// Direction is "improved", "worsened", or "unchanged".
	Direction string `json:"direction"`

	// ScriptDelta is the change in script count.
	ScriptDelta int `json:"script_delta"`

	// ThirdPartyDelta is the change in third-party resource count.
	ThirdPartyDelta int `json:"third_party_delta"`

	// FilterMatchDelta is the change in filter-matched resource count.
	FilterMatchDelta int `json:"filter_match_delta"`
}

// compareReports compares two analyses and generates a comparison result.
func compareReports(pageURL string, previous, current *model.PageReport) *ComparisonResult {
	result := &ComparisonResult{
		PageURL:          pageURL,
		PreviousAnalysis: snapshotOf(previous),
		CurrentAnalysis:  snapshotOf(current),
	}

	// Diff third-party domain sets
	previousDomains := domainSet(previous)
	currentDomains := domainSet(current)

	for domain := range currentDomains {
		if !previousDomains[domain] {
			result.NewDomains = append(result.NewDomains, domain)
		}
	}
	for domain := range previousDomains {
		if !currentDomains[domain] {
			result.RemovedDomains = append(result.RemovedDomains, domain)
		} else {
			result.UnchangedDomains++
		}
	}
	sort.Strings(result.NewDomains)
	sort.Strings(result.RemovedDomains)

	result.TrackingChange = calculateTrackingChange(result.PreviousAnalysis, result.CurrentAnalysis)

	return result
}

// snapshotOf extracts headline counts from a report.
func snapshotOf(r *model.PageReport) AnalysisSnapshot {
	return AnalysisSnapshot{
		DateAnalyzed:        r.DateAnalyzed,
		NodeCount:           r.NodeCount,
		EdgeCount:           r.EdgeCount,
		ScriptCount:         len(r.Scripts),
		ThirdPartyResources: r.TotalThirdPartyResources(),
		FilterMatches:       r.TotalFilterMatches(),
	}
}

// domainSet collects the third-party domains of a report into a set.
func domainSet(r *model.PageReport) map[string]bool {
	domains := make(map[string]bool, len(r.ThirdParty))
	for _, d := range r.ThirdParty {
		domains[d.Domain] = true
	}
	return domains
}

// calculateTrackingChange calculates the change in tracking exposure
// between two analyses.
func calculateTrackingChange(previous, current AnalysisSnapshot) TrackingChange {
	change := TrackingChange{
		ScriptDelta:      current.ScriptCount - previous.ScriptCount,
		ThirdPartyDelta:  current.ThirdPartyResources - previous.ThirdPartyResources,
		FilterMatchDelta: current.FilterMatches - previous.FilterMatches,
	}

	// Determine overall direction based on weighted score.
	// Filter-matched requests weigh most: a rule match means a known
	// tracker or ad request. Third-party requests weigh more than scripts.
	previousScore := previous.FilterMatches*10 + previous.ThirdPartyResources*5 + previous.ScriptCount
	currentScore := current.FilterMatches*10 + current.ThirdPartyResources*5 + current.ScriptCount

	switch {
	case currentScore < previousScore:
		change.Direction = trackingDirectionImproved
	case currentScore > previousScore:
		change.Direction = trackingDirectionWorsened
	default:
		change.Direction = trackingDirectionUnchanged
	}

	return change
}

// outputComparisonJSON outputs the comparison result in JSON format.
func outputComparisonJSON(out io.Writer, result *ComparisonResult) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// outputComparisonText outputs the comparison result in human-readable text format.
func outputComparisonText(out io.Writer, result *ComparisonResult) error {
	fmt.Fprintf(out, "Analysis Comparison: %s\n", result.PageURL)
	fmt.Fprintln(out, strings.Repeat("=", 60))

	// Tracking change summary
	fmt.Fprintf(out, "\nTracking Exposure: %s\n", formatTrackingDirection(result.TrackingChange.Direction))

	// Analysis dates
	fmt.Fprintf(out, "\nPrevious analysis: %s\n", result.PreviousAnalysis.DateAnalyzed.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "Current analysis:  %s\n", result.CurrentAnalysis.DateAnalyzed.Format("2006-01-02 15:04:05"))

	// Summary table
	fmt.Fprintln(out, "\nHeadline Counts:")
	fmt.Fprintf(out, "  %-14s  %-10s  %-10s  %-10s\n", "Metric", "Previous", "Current", "Change")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 50))
	fmt.Fprintf(out, "  %-14s  %-10d  %-10d  %-10s\n", "Nodes",
		result.PreviousAnalysis.NodeCount, result.CurrentAnalysis.NodeCount,
		formatDelta(result.CurrentAnalysis.NodeCount-result.PreviousAnalysis.NodeCount))
	fmt.Fprintf(out, "  %-14s  %-10d  %-10d  %-10s\n", "Edges",
		result.PreviousAnalysis.EdgeCount, result.CurrentAnalysis.EdgeCount,
		formatDelta(result.CurrentAnalysis.EdgeCount-result.PreviousAnalysis.EdgeCount))
	fmt.Fprintf(out, "  %-14s  %-10d  %-10d  %-10s\n", "Scripts",
		result.PreviousAnalysis.ScriptCount, result.CurrentAnalysis.ScriptCount,
		formatDelta(result.TrackingChange.ScriptDelta))
	fmt.Fprintf(out, "  %-14s  %-10d  %-10d  %-10s\n", "Third-party",
		result.PreviousAnalysis.ThirdPartyResources, result.CurrentAnalysis.ThirdPartyResources,
		formatDelta(result.TrackingChange.ThirdPartyDelta))
	fmt.Fprintf(out, "  %-14s  %-10d  %-10d  %-10s\n", "Filter matches",
		result.PreviousAnalysis.FilterMatches, result.CurrentAnalysis.FilterMatches,
		formatDelta(result.TrackingChange.FilterMatchDelta))

	// New third-party domains
	if len(result.NewDomains) > 0 {
		fmt.Fprintf(out, "\nNew Third-Party Domains (%d):\n", len(result.NewDomains))
		for _, domain := range result.NewDomains {
			fmt.Fprintf(out, "  [+] %s\n", domain)
		}
	}

	// Removed third-party domains
	if len(result.RemovedDomains) > 0 {
		fmt.Fprintf(out, "\nRemoved Third-Party Domains (%d):\n", len(result.RemovedDomains))
		for _, domain := range result.RemovedDomains {
			fmt.Fprintf(out, "  [-] %s\n", domain)
		}
	}

	// Unchanged count
	if result.UnchangedDomains > 0 {
		fmt.Fprintf(out, "\nUnchanged: %d third-party domains\n", result.UnchangedDomains)
	}

	return nil
}

// formatTrackingDirection formats the tracking change direction for display.
func formatTrackingDirection(direction string) string {
	switch direction {
	case trackingDirectionImproved:
		return "IMPROVED (tracking decreased)"
	case trackingDirectionWorsened:
		return "WORSENED (tracking increased)"
	default:
		return "UNCHANGED"
	}
}

// formatDelta formats a numeric delta with sign for display.
func formatDelta(delta int) string {
	if delta > 0 {
		return "+" + strconv.Itoa(delta)
	} else if delta < 0 {
		return strconv.Itoa(delta)
	}
	return "0"
}
