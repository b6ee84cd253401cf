package graph

import (
	"fmt"
	"net/url"
	"sort"

	"github.com/pagegraph/pagegraph/internal/filter"
	"github.com/pagegraph/pagegraph/internal/model"
)

// ModificationHistory returns every time the given HTML element was
// modified during the page load, ordered by edge timestamp ascending.
//
// Structural edges are excluded: parent/child attachment is placement, not
// modification. Everything else arriving at the element counts — attribute
// writes, event listener changes, node removal, and so on.
//
// Returns ErrNotHTMLElement if id does not name an HTML element node, and
// ErrMissingTimestamp if a surviving edge carries no timestamp; both are
// ingestion contract violations, not recoverable query states.
func (g *Graph) ModificationHistory(id model.NodeID) ([]EdgeRef, error) {
	node, err := g.Node(id)
	if err != nil {
		return nil, err
	}
	if !node.IsHTMLElement("") {
		return nil, fmt.Errorf("%w: node %d is %s", ErrNotHTMLElement, id, node.Kind)
	}

	var modifications []EdgeRef
	for _, incident := range g.EdgesIncident(id, Incoming) {
		edge := g.mustEdge(incident.Edge)
		if edge.IsStructural() {
			continue
		}
		if edge.Timestamp == nil {
			return nil, fmt.Errorf("%w: edge %d (%s) into node %d",
				ErrMissingTimestamp, incident.Edge, edge.Kind, id)
		}
		modifications = append(modifications, EdgeRef{ID: incident.Edge, Edge: edge})
	}

	sort.Slice(modifications, func(i, j int) bool {
		return *modifications[i].Edge.Timestamp < *modifications[j].Edge.Timestamp
	})
	return modifications, nil
}

// ResourcesFromScript returns every resource node whose request is
// attributable to the given script.
//
// The id must name either a script node or an HTML element with tag name
// "script"; ResourcesFromScript returns ErrNotScript otherwise. For a
// script node, the attributable resources are its outgoing resource
// neighbors. For a script element they are the element's own outgoing
// resource neighbors (src="..." fetches attach directly to the element)
// plus the outgoing resource neighbors of every script node attached to the
// element (fetches made by the script it causes to execute).
func (g *Graph) ResourcesFromScript(id model.NodeID) ([]NodeRef, error) {
	node, err := g.Node(id)
	if err != nil {
		return nil, err
	}

	resources := g.outgoingOfKind(id, func(n *model.Node) bool { return n.IsResource() })

	switch {
	case node.IsScript():
		// Directly attached resources are the whole story.
	case node.IsHTMLElement("script"):
		for _, attached := range g.Neighbors(id, Outgoing) {
			if !g.mustNode(attached).IsScript() {
				continue
			}
			resources = append(resources, g.outgoingOfKind(attached, func(n *model.Node) bool {
				return n.IsResource()
			})...)
		}
	default:
		return nil, fmt.Errorf("%w: node %d is %s", ErrNotScript, id, node.Kind)
	}

	return resources, nil
}

// RootURL returns the URL of the page the graph was recorded from.
//
// Exactly one DOM root node must have zero incoming edges; its URL field
// identifies the page. Any other count is a fatal invariant violation
// (ErrNoDOMRoot, ErrMultipleDOMRoots), as is a root without a URL
// (ErrRootWithoutURL).
func (g *Graph) RootURL() (string, error) {
	var roots []NodeRef
	for id, node := range g.nodes {
		if _, ok := node.Kind.(model.DOMRoot); !ok {
			continue
		}
		if len(g.in[id]) == 0 {
			roots = append(roots, NodeRef{ID: id, Node: node})
		}
	}

	switch len(roots) {
	case 0:
		return "", ErrNoDOMRoot
	case 1:
		root := roots[0].Node.Kind.(model.DOMRoot)
		if root.URL == nil || *root.URL == "" {
			return "", fmt.Errorf("%w: node %d", ErrRootWithoutURL, roots[0].ID)
		}
		return *root.URL, nil
	default:
		return "", fmt.Errorf("%w: found %d", ErrMultipleDOMRoots, len(roots))
	}
}

// ResourcesMatchingFilter returns every resource node whose recorded
// request matches the given network-filter pattern.
//
// Pattern parsing fails softly: a malformed pattern yields an empty result
// and a nil error, because filter matching is a best-effort query, not a
// validation gate. Resource nodes whose URL does not parse or has no host
// are likewise excluded without error.
//
// Two conditions remain fatal because they indicate a malformed trace: a
// resource with no incoming request-start edge (ErrNoRequestType) and a
// resource requested with more than one distinct request type
// (ErrInconsistentRequestTypes).
func (g *Graph) ResourcesMatchingFilter(pattern string) ([]NodeRef, error) {
	rule, ok := filter.ParseRule(pattern)
	if !ok {
		return nil, nil
	}

	sourceURL, err := g.RootURL()
	if err != nil {
		return nil, err
	}
	parsedSource, err := url.Parse(sourceURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrRootURLInvalid, sourceURL, err)
	}
	sourceHost := parsedSource.Hostname()
	if sourceHost == "" {
		return nil, fmt.Errorf("%w: %q has no host", ErrRootURLInvalid, sourceURL)
	}
	sourceDomain, err := filter.RegistrableDomain(sourceHost)
	if err != nil {
		return nil, err
	}

	var matched []NodeRef
	for id, node := range g.nodes {
		resource, ok := node.Kind.(model.Resource)
		if !ok {
			continue
		}

		requestURL, err := url.Parse(resource.URL)
		if err != nil || requestURL.Hostname() == "" {
			continue
		}

		requestType, err := g.requestTypeOf(id)
		if err != nil {
			return nil, err
		}

		requestDomain, err := filter.RegistrableDomain(requestURL.Hostname())
		if err != nil {
			return nil, err
		}

		request := filter.Request{
			Type:           requestType,
			URL:            resource.URL,
			Hostname:       requestURL.Hostname(),
			Domain:         requestDomain,
			SourceURL:      sourceURL,
			SourceHostname: sourceHost,
			SourceDomain:   sourceDomain,
		}
		if rule.Matches(request) {
			matched = append(matched, NodeRef{ID: id, Node: node})
		}
	}
	return matched, nil
}

// requestTypeOf collects the distinct request types carried by the
// resource's incoming request-start edges and requires exactly one.
func (g *Graph) requestTypeOf(id model.NodeID) (string, error) {
	types := make(map[string]struct{})
	for _, incident := range g.EdgesIncident(id, Incoming) {
		start, ok := g.mustEdge(incident.Edge).Kind.(model.RequestStart)
		if !ok {
			continue
		}
		types[start.RequestType] = struct{}{}
	}

	switch len(types) {
	case 0:
		return "", fmt.Errorf("%w: node %d", ErrNoRequestType, id)
	case 1:
		for t := range types {
			return t, nil
		}
		panic("unreachable")
	default:
		names := make([]string, 0, len(types))
		for t := range types {
			names = append(names, t)
		}
		sort.Strings(names)
		return "", fmt.Errorf("%w: node %d has %v", ErrInconsistentRequestTypes, id, names)
	}
}

// outgoingOfKind returns the outgoing neighbors of id that satisfy keep.
func (g *Graph) outgoingOfKind(id model.NodeID, keep func(*model.Node) bool) []NodeRef {
	var refs []NodeRef
	for _, neighbor := range g.Neighbors(id, Outgoing) {
		node := g.mustNode(neighbor)
		if keep(node) {
			refs = append(refs, NodeRef{ID: neighbor, Node: node})
		}
	}
	return refs
}
