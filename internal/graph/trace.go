package graph

import (
	"fmt"
	"sort"

	"github.com/pagegraph/pagegraph/internal/model"
)

// DirectEffects returns the immediate causal successors of the given node
// under kind-specific propagation rules rather than generic adjacency:
//
//   - Resource: a completed script-resource fetch causes the script attached
//     to the receiving <script> element to execute. The effects are the
//     script nodes hanging off every request-complete target element with
//     tag name "script".
//   - HTML element with tag name "script": a src-bearing element's effect is
//     the resource request it causes; an inline element's effect is the
//     script it executes directly. Resource neighbors win when present.
//   - Script: the union of the resources connected by incoming
//     request-complete edges (what caused this script to run) and the
//     outgoing script neighbors (what this script causes to execute).
//
// Every other kind is deliberately not modeled and returns
// ErrUnsupportedKind wrapped with the kind name. Extending the dispatch
// table is an explicit act; there is no silent empty fallthrough.
func (g *Graph) DirectEffects(id model.NodeID) ([]NodeRef, error) {
	node, err := g.Node(id)
	if err != nil {
		return nil, err
	}

	switch kind := node.Kind.(type) {
	case model.Resource:
		return g.resourceEffects(id), nil

	case model.HTMLElement:
		if kind.TagName != "script" {
			return nil, fmt.Errorf("%w: node %d is %s <%s>", ErrUnsupportedKind, id, node.Kind, kind.TagName)
		}
		return g.scriptElementEffects(id), nil

	case model.Script:
		return g.scriptEffects(id), nil

	default:
		return nil, fmt.Errorf("%w: node %d is %s", ErrUnsupportedKind, id, node.Kind)
	}
}

// resourceEffects finds the scripts executed because this resource's fetch
// completed: request-complete edges to <script> elements, then the script
// nodes attached to those elements.
func (g *Graph) resourceEffects(id model.NodeID) []NodeRef {
	var effects []NodeRef
	for _, incident := range g.EdgesIncident(id, Outgoing) {
		if _, ok := g.mustEdge(incident.Edge).Kind.(model.RequestComplete); !ok {
			continue
		}
		if !g.mustNode(incident.Neighbor).IsHTMLElement("script") {
			continue
		}
		effects = append(effects, g.outgoingOfKind(incident.Neighbor, func(n *model.Node) bool {
			return n.IsScript()
		})...)
	}
	return effects
}

// scriptElementEffects dispatches on whether the element fetches a resource
// or executes inline.
func (g *Graph) scriptElementEffects(id model.NodeID) []NodeRef {
	resources := g.outgoingOfKind(id, func(n *model.Node) bool { return n.IsResource() })
	if len(resources) > 0 {
		return resources
	}
	return g.outgoingOfKind(id, func(n *model.Node) bool { return n.IsScript() })
}

// scriptEffects unions the fetch that caused the script with the scripts it
// executes.
func (g *Graph) scriptEffects(id model.NodeID) []NodeRef {
	var effects []NodeRef
	for _, incident := range g.EdgesIncident(id, Incoming) {
		if _, ok := g.mustEdge(incident.Edge).Kind.(model.RequestComplete); !ok {
			continue
		}
		effects = append(effects, NodeRef{ID: incident.Neighbor, Node: g.mustNode(incident.Neighbor)})
	}
	effects = append(effects, g.outgoingOfKind(id, func(n *model.Node) bool { return n.IsScript() })...)
	return effects
}

// AllDownstreamEffects computes the transitive closure of DirectEffects
// from the given node with an explicit work-list and visited set. The
// start node itself is part of the result, every node is visited at most
// once, and the returned set is deterministic for a fixed graph (the slice
// is sorted by node id so repeated calls compare equal).
//
// Termination: the visited set grows monotonically and is bounded by the
// graph's node count.
func (g *Graph) AllDownstreamEffects(id model.NodeID) ([]NodeRef, error) {
	pending := []model.NodeID{id}
	visited := make(map[model.NodeID]struct{})

	for len(pending) > 0 {
		current := pending[len(pending)-1]
		pending = pending[:len(pending)-1]
		if _, seen := visited[current]; seen {
			continue
		}
		visited[current] = struct{}{}

		effects, err := g.DirectEffects(current)
		if err != nil {
			return nil, err
		}
		for _, effect := range effects {
			if _, seen := visited[effect.ID]; !seen {
				pending = append(pending, effect.ID)
			}
		}
	}

	refs := make([]NodeRef, 0, len(visited))
	for nodeID := range visited {
		refs = append(refs, NodeRef{ID: nodeID, Node: g.mustNode(nodeID)})
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].ID < refs[j].ID })
	return refs, nil
}
