// Package graphml reads recorded page-load traces in GraphML form and
// materializes them as in-memory graphs.
//
// The trace format declares its attribute schema up front with <key>
// elements mapping key ids to attribute names ("node type", "tag name",
// "timestamp", ...); node and edge payloads arrive as <data> children
// referencing those ids. This package resolves the indirection, dispatches
// on the "node type" / "edge type" strings to taxonomy variants, and feeds
// a graph.Builder.
//
// Malformed traces are a fatal precondition violation, not a recoverable
// state: an unknown type string, a dangling edge endpoint, or an
// unparseable timestamp aborts parsing with an error. This package never
// repairs or skips records, because every downstream query assumes the
// graph is internally consistent.
package graphml
