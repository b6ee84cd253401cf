package graph

import (
	"fmt"
	"log/slog"

	"github.com/pagegraph/pagegraph/internal/model"
)

// Direction selects which way edges are followed in neighbor queries.
type Direction int

const (
	// Incoming follows edges that point at the node.
	Incoming Direction = iota

	// Outgoing follows edges that originate at the node.
	Outgoing
)

// String returns a human-readable direction name.
func (d Direction) String() string {
	switch d {
	case Incoming:
		return "incoming"
	case Outgoing:
		return "outgoing"
	default:
		return "unknown"
	}
}

// NodeRef pairs a node with its graph identifier. Query results use NodeRef
// so callers never need a second lookup.
type NodeRef struct {
	ID   model.NodeID
	Node *model.Node
}

// EdgeRef pairs an edge with its graph identifier.
type EdgeRef struct {
	ID   model.EdgeID
	Edge *model.Edge
}

// Incident describes one edge incident to a node: the node at the other
// end and the connecting edge's identifier.
type Incident struct {
	Neighbor model.NodeID
	Edge     model.EdgeID
}

// Graph is the complete causal record of one page load: every entity that
// participated as a node, every action as a directed edge.
//
// A Graph is built once and never mutated, so all methods are safe for
// concurrent use after the Builder is done.
type Graph struct {
	// nodes maps node id to node. Keys are unique; iteration order is
	// not meaningful.
	nodes map[model.NodeID]*model.Node

	// edges maps edge id to edge.
	edges map[model.EdgeID]*model.Edge

	// out and in are the directed adjacency index. out[a][b] is the edge
	// id connecting a to b; in is its mirror. At most one edge id is kept
	// per ordered pair (see package documentation).
	out map[model.NodeID]map[model.NodeID]model.EdgeID
	in  map[model.NodeID]map[model.NodeID]model.EdgeID
}

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges in the graph, including edges that
// were displaced from the adjacency index by a later edge between the same
// ordered pair.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Node returns the node with the given id.
// Returns ErrNodeNotFound if the id is absent; ids obtained from the graph
// itself never trigger this.
func (g *Graph) Node(id model.NodeID) (*model.Node, error) {
	node, ok := g.nodes[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", ErrNodeNotFound, id)
	}
	return node, nil
}

// Edge returns the edge with the given id.
// Returns ErrEdgeNotFound if the id is absent.
func (g *Graph) Edge(id model.EdgeID) (*model.Edge, error) {
	edge, ok := g.edges[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", ErrEdgeNotFound, id)
	}
	return edge, nil
}

// Neighbors returns the ids of all nodes reachable from id by one hop in
// the given direction. The result order is unspecified; it may be empty but
// is never an error, even for ids absent from the graph.
func (g *Graph) Neighbors(id model.NodeID, dir Direction) []model.NodeID {
	index := g.index(dir)
	neighbors := make([]model.NodeID, 0, len(index[id]))
	for neighbor := range index[id] {
		neighbors = append(neighbors, neighbor)
	}
	return neighbors
}

// EdgeBetween returns the edge id connecting a to b in that order.
// Subject to the one-edge-per-ordered-pair limitation: if several action
// edges connect the pair, only the last one registered is returned.
func (g *Graph) EdgeBetween(a, b model.NodeID) (model.EdgeID, bool) {
	id, ok := g.out[a][b]
	return id, ok
}

// EdgesIncident returns one Incident per adjacency entry touching id in the
// given direction. The result order is unspecified.
func (g *Graph) EdgesIncident(id model.NodeID, dir Direction) []Incident {
	index := g.index(dir)
	incidents := make([]Incident, 0, len(index[id]))
	for neighbor, edgeID := range index[id] {
		incidents = append(incidents, Incident{Neighbor: neighbor, Edge: edgeID})
	}
	return incidents
}

// index returns the adjacency map for the given direction.
func (g *Graph) index(dir Direction) map[model.NodeID]map[model.NodeID]model.EdgeID {
	if dir == Outgoing {
		return g.out
	}
	return g.in
}

// mustNode returns the node for an id known to come from the graph's own
// indexes. The unreachable branch keeps the invariant visible.
func (g *Graph) mustNode(id model.NodeID) *model.Node {
	node, ok := g.nodes[id]
	if !ok {
		panic(fmt.Sprintf("graph: adjacency index references missing node %d", id))
	}
	return node
}

// mustEdge is mustNode's counterpart for edge ids held by the adjacency
// index.
func (g *Graph) mustEdge(id model.EdgeID) *model.Edge {
	edge, ok := g.edges[id]
	if !ok {
		panic(fmt.Sprintf("graph: adjacency index references missing edge %d", id))
	}
	return edge
}

// Builder assembles a Graph from validated node and edge records. It is the
// only way to create a Graph and is used exactly once per capture; after
// Graph() is called the builder must not be reused.
//
// Builder also plays the identifier allocator: node and edge ids are issued
// sequentially and carry no domain meaning.
type Builder struct {
	graph  *Graph
	logger *slog.Logger

	nextNode model.NodeID
	nextEdge model.EdgeID
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithLogger sets the logger used for ingestion diagnostics, such as
// duplicate ordered-pair warnings. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) BuilderOption {
	return func(b *Builder) {
		b.logger = logger
	}
}

// NewBuilder creates an empty Builder.
func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{
		graph: &Graph{
			nodes: make(map[model.NodeID]*model.Node),
			edges: make(map[model.EdgeID]*model.Edge),
			out:   make(map[model.NodeID]map[model.NodeID]model.EdgeID),
			in:    make(map[model.NodeID]map[model.NodeID]model.EdgeID),
		},
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		b.logger = slog.Default()
	}
	return b
}

// AddNode inserts a node and returns its freshly allocated id.
func (b *Builder) AddNode(node model.Node) model.NodeID {
	id := b.nextNode
	b.nextNode++
	b.graph.nodes[id] = &node
	return id
}

// AddEdge inserts a directed edge from one existing node to another and
// returns its freshly allocated id.
//
// Returns ErrNodeNotFound if either endpoint has not been added. When a
// second edge is registered between the same ordered pair, the new edge
// replaces the old one in the adjacency index (the old edge stays in the
// edge map) and a warning is logged.
func (b *Builder) AddEdge(from, to model.NodeID, edge model.Edge) (model.EdgeID, error) {
	if _, ok := b.graph.nodes[from]; !ok {
		return 0, fmt.Errorf("%w: edge source %d", ErrNodeNotFound, from)
	}
	if _, ok := b.graph.nodes[to]; !ok {
		return 0, fmt.Errorf("%w: edge target %d", ErrNodeNotFound, to)
	}

	id := b.nextEdge
	b.nextEdge++
	b.graph.edges[id] = &edge

	if previous, ok := b.graph.out[from][to]; ok {
		b.logger.Warn("duplicate edge between ordered node pair; adjacency keeps the newer edge",
			"from", from,
			"to", to,
			"displaced_edge", previous,
			"edge", id,
		)
	}

	if b.graph.out[from] == nil {
		b.graph.out[from] = make(map[model.NodeID]model.EdgeID)
	}
	b.graph.out[from][to] = id

	if b.graph.in[to] == nil {
		b.graph.in[to] = make(map[model.NodeID]model.EdgeID)
	}
	b.graph.in[to][from] = id

	return id, nil
}

// Graph returns the built graph. The builder must not be used afterwards.
func (b *Builder) Graph() *Graph {
	return b.graph
}
