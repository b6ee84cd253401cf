// Package graph implements the in-memory page-load graph store and the
// query and causal-trace algorithms built on top of it.
//
// A Graph is constructed exactly once by ingestion through a Builder and is
// immutable afterwards. Because no writer ever runs concurrently with a
// reader, any number of goroutines may query a built Graph without
// coordination.
//
// The package distinguishes two classes of failure. Fatal invariant
// violations (wrong node kind for a kind-specific query, missing timestamps
// on modification edges, zero or multiple DOM roots, inconsistent request
// types) are returned as errors and are never coerced into empty results,
// because an empty result would hide a data-integrity bug in ingestion.
// Soft misses (an unparseable filter pattern, a resource URL that does not
// parse, a node with no matching neighbors) produce empty results with a
// nil error.
//
// Design decision: The adjacency index stores at most one edge id per
// ordered node pair, mirroring the recorded trace format's assumption that
// distinct actions between the same pair are rare. If ingestion registers a
// second action edge between the same ordered pair, the later edge wins in
// the index; the earlier edge remains reachable through the edge map but is
// invisible to adjacency-based traversal. The Builder logs a warning when
// this happens so under-counting is observable.
package graph
