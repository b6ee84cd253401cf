package model

// NodeID is an opaque identifier referencing a node in a page-load graph.
// IDs are issued sequentially by the graph builder and carry no domain
// meaning; they exist only for comparison, hashing, and ordering.
type NodeID int64

// TimestampUnknown is the sentinel timestamp for nodes that existed before
// instrumentation started recording, such as the DOM root and the parser.
const TimestampUnknown int64 = -1

// Node represents a single entity that participated in a page load: a DOM
// element, a script, a fetched resource, a storage area, and so on.
//
// Nodes are immutable once inserted into a graph. Identity is the NodeID
// issued by the builder, not the node's content; two nodes with identical
// fields are still distinct entities.
type Node struct {
	// Timestamp is the instrumentation timestamp at which the entity first
	// appeared. TimestampUnknown marks pre-existing entities.
	Timestamp int64

	// Kind is the taxonomy variant describing what this entity is,
	// together with its variant-specific payload.
	Kind NodeKind
}

// IsHTMLElement reports whether the node is an HTML element, optionally
// restricted to a specific tag name. An empty tagName matches any element.
// Tag name comparison is case-sensitive, matching the recorded trace.
func (n *Node) IsHTMLElement(tagName string) bool {
	el, ok := n.Kind.(HTMLElement)
	if !ok {
		return false
	}
	return tagName == "" || el.TagName == tagName
}

// IsScript reports whether the node is a script node (an executed script
// body, not the <script> element that carries it).
func (n *Node) IsScript() bool {
	_, ok := n.Kind.(Script)
	return ok
}

// IsResource reports whether the node is a fetched network resource.
func (n *Node) IsResource() bool {
	_, ok := n.Kind.(Resource)
	return ok
}
