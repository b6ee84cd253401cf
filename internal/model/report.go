package model

import "time"

// PageReport is the main analysis result structure.
// It contains everything derived from one page-load graph.
//
// Design decision: We use a single large struct rather than many small ones
// to simplify serialization and database storage. Analyzer steps each fill
// their own section; the report is the only state shared between steps.
type PageReport struct {
	// === Basic Information ===

	// GraphPath is the path of the analyzed .graphml file.
	GraphPath string `json:"graph_path"`

	// GraphHash is the SHA3-256 hash of the graph file contents, used to
	// detect re-analysis of an identical capture.
	GraphHash string `json:"graph_hash,omitempty"`

	// PageURL is the URL of the page the graph was recorded from.
	PageURL string `json:"page_url"`

	// DateAnalyzed is the timestamp when the analysis was performed.
	DateAnalyzed time.Time `json:"date_analyzed"`

	// === Graph Summary ===

	// NodeCount is the total number of nodes in the graph.
	NodeCount int `json:"node_count"`

	// EdgeCount is the total number of edges in the graph.
	EdgeCount int `json:"edge_count"`

	// NodeKindCounts maps node kind names to their node counts.
	NodeKindCounts map[string]int `json:"node_kind_counts,omitempty"`

	// EdgeKindCounts maps edge kind names to their edge counts.
	EdgeKindCounts map[string]int `json:"edge_kind_counts,omitempty"`

	// === Analysis Sections ===

	// Scripts describes every script observed in the page load together
	// with the resources attributable to it.
	Scripts []ScriptActivity `json:"scripts,omitempty"`

	// Modifications lists HTML elements ordered by how often they were
	// modified during the page load.
	Modifications []ElementModifications `json:"modifications,omitempty"`

	// ThirdParty groups resources fetched from registrable domains other
	// than the page's own.
	ThirdParty []ThirdPartyDomain `json:"third_party,omitempty"`

	// FilterMatches lists resources matched by each configured filter
	// pattern.
	FilterMatches []FilterMatch `json:"filter_matches,omitempty"`

	// === Status ===

	// TimedOut is true if the analysis was cancelled before completion.
	TimedOut bool `json:"timed_out,omitempty"`

	// Error holds a human-readable description of a fatal analysis
	// failure. Empty on success.
	Error string `json:"error,omitempty"`
}

// NewPageReport creates an empty report for the given graph file.
func NewPageReport(graphPath string) *PageReport {
	return &PageReport{
		GraphPath:      graphPath,
		DateAnalyzed:   time.Now(),
		NodeKindCounts: make(map[string]int),
		EdgeKindCounts: make(map[string]int),
	}
}

// ScriptActivity summarizes one script's footprint on the page load.
type ScriptActivity struct {
	// NodeID is the graph identifier of the script node or script element.
	NodeID int64 `json:"node_id"`

	// URL is the script source URL, or empty for inline scripts.
	URL string `json:"url,omitempty"`

	// Inline is true for scripts without a source URL.
	Inline bool `json:"inline,omitempty"`

	// ResourceURLs lists the URLs of resources attributable to this script.
	ResourceURLs []string `json:"resource_urls,omitempty"`

	// DownstreamCount is the number of nodes in the script's transitive
	// causal closure, excluding the script itself.
	DownstreamCount int `json:"downstream_count"`
}

// ElementModifications summarizes how often one HTML element was modified.
type ElementModifications struct {
	// NodeID is the graph identifier of the element.
	NodeID int64 `json:"node_id"`

	// TagName is the element's tag name.
	TagName string `json:"tag_name"`

	// DOMNodeID is the browser-assigned DOM node identifier.
	DOMNodeID int `json:"dom_node_id"`

	// Count is the number of non-structural incoming edges.
	Count int `json:"count"`

	// FirstTimestamp and LastTimestamp bound the modification window.
	FirstTimestamp int64 `json:"first_timestamp"`
	LastTimestamp  int64 `json:"last_timestamp"`
}

// ThirdPartyDomain groups resources fetched from one external registrable
// domain.
type ThirdPartyDomain struct {
	// Domain is the registrable domain the resources were fetched from.
	Domain string `json:"domain"`

	// ResourceURLs lists the fetched resource URLs.
	ResourceURLs []string `json:"resource_urls"`
}

// FilterMatch records the resources matched by one filter pattern.
type FilterMatch struct {
	// Pattern is the filter rule text as configured.
	Pattern string `json:"pattern"`

	// Invalid is true when the pattern failed to parse. Invalid patterns
	// match nothing but are not an analysis error.
	Invalid bool `json:"invalid,omitempty"`

	// ResourceURLs lists the URLs of matched resources.
	ResourceURLs []string `json:"resource_urls,omitempty"`
}

// TotalThirdPartyResources returns the number of third-party resources
// across all external domains.
func (r *PageReport) TotalThirdPartyResources() int {
	var total int
	for _, d := range r.ThirdParty {
		total += len(d.ResourceURLs)
	}
	return total
}

// TotalFilterMatches returns the number of matched resources across all
// configured filter patterns.
func (r *PageReport) TotalFilterMatches() int {
	var total int
	for _, m := range r.FilterMatches {
		total += len(m.ResourceURLs)
	}
	return total
}
