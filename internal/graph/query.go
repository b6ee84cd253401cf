package graph

import "github.com/pagegraph/pagegraph/internal/model"

// FilterNodes returns every node whose kind satisfies the predicate.
// The result is a full scan in map iteration order, which is not
// deterministic; callers needing a stable order must sort by id.
func (g *Graph) FilterNodes(keep func(model.NodeKind) bool) []NodeRef {
	var refs []NodeRef
	for id, node := range g.nodes {
		if keep(node.Kind) {
			refs = append(refs, NodeRef{ID: id, Node: node})
		}
	}
	return refs
}

// FilterEdges returns every edge whose kind satisfies the predicate,
// under the same ordering contract as FilterNodes.
func (g *Graph) FilterEdges(keep func(model.EdgeKind) bool) []EdgeRef {
	var refs []EdgeRef
	for id, edge := range g.edges {
		if keep(edge.Kind) {
			refs = append(refs, EdgeRef{ID: id, Edge: edge})
		}
	}
	return refs
}

// NodesOfHTMLTag returns every HTML element node whose tag name equals
// tagName. The comparison is a case-sensitive exact match against the tag
// name as recorded in the trace.
func (g *Graph) NodesOfHTMLTag(tagName string) []NodeRef {
	return g.FilterNodes(func(kind model.NodeKind) bool {
		el, ok := kind.(model.HTMLElement)
		return ok && el.TagName == tagName
	})
}
