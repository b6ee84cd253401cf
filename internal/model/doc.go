// Package model defines the core data structures used throughout pagegraph.
//
// This package contains the following main types:
//   - NodeID / EdgeID: opaque handles issued by the graph builder
//   - Node / Edge: the vertices and actions of a page-load graph
//   - NodeKind / EdgeKind: the closed taxonomy of entity and action categories
//   - PageReport: the analysis result structure rendered by the report package
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. Multiple packages (graph, graphml, analyzer, report, database)
// need to use these types, so centralizing them prevents import cycles.
//
// The taxonomy is a closed set: node and edge kinds are sealed interfaces that
// only this package can implement. Consumers pattern-match with type switches
// and must handle unexpected variants explicitly rather than falling through.
package model
