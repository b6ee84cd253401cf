package model

// EdgeID is an opaque identifier referencing an edge in a page-load graph.
// Like NodeID, it is issued sequentially by the graph builder and exists
// only for comparison, hashing, and ordering.
type EdgeID int64

// Edge represents a single directed action taken during a page load: a
// structural attachment, an attribute change, a request lifecycle event,
// a script execution, and so on.
//
// Edges are immutable once inserted and always connect two nodes that
// exist in the same graph.
type Edge struct {
	// Timestamp is the instrumentation timestamp of the action. It is nil
	// only for synthetic structural edges that do not correspond to a
	// recorded event; every action edge carries a timestamp.
	Timestamp *int64

	// Kind is the taxonomy variant describing the action, together with
	// its variant-specific payload.
	Kind EdgeKind
}

// IsStructural reports whether the edge records DOM parent/child attachment
// rather than an action. Structural edges are excluded from modification
// history queries.
func (e *Edge) IsStructural() bool {
	switch e.Kind.(type) {
	case Structure, CrossDOM:
		return true
	default:
		return false
	}
}
