// Package analyzer provides the built-in analysis steps that turn a parsed
// page-load graph into a PageReport.
//
// # Purpose
//
// Each step answers one question about the page load:
//   - summary: how large is the graph and what kinds does it contain
//   - script_activity: which scripts ran and what did each one fetch
//   - modifications: which DOM elements were modified, and how often
//   - third_party: which external registrable domains served resources
//   - filter_match: which resources match the configured filter rules
//
// # Design Philosophy
//
// The analyzer package follows a modular step pattern where each question is
// implemented as a separate pipeline.Step. This design was chosen because:
//  1. Each question has unique traversal logic over the graph
//  2. Enables selective analysis based on configuration
//  3. Makes it easy to add new sections without modifying existing code
//  4. Simplifies testing of individual analysis components
//
// Steps are read-only over the graph; their only output is the report
// section they own. Fatal query errors (a malformed capture) propagate to
// the pipeline; soft misses (unparseable resource URLs, invalid filter
// patterns) are recorded in the report or skipped.
package analyzer
