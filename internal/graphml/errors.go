package graphml

import "errors"

// Trace parsing errors.
// Parsing stops at the first violation; a partially ingested trace is never
// returned.
var (
	// ErrMalformedGraph is returned for structural problems: XML that does
	// not decode, missing required attributes, or unparseable numeric
	// fields.
	ErrMalformedGraph = errors.New("malformed page-load trace")

	// ErrUnknownNodeType is returned when a node declares a type string
	// outside the closed taxonomy.
	ErrUnknownNodeType = errors.New("unknown node type in trace")

	// ErrUnknownEdgeType is returned when an edge declares a type string
	// outside the closed taxonomy.
	ErrUnknownEdgeType = errors.New("unknown edge type in trace")

	// ErrDanglingEdge is returned when an edge references a node id that
	// does not appear in the trace.
	ErrDanglingEdge = errors.New("edge references missing node")
)
