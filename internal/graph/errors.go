package graph

import "errors"

// Graph query errors.
// These errors signal that a precondition the caller was responsible for
// upholding was violated. They stop the offending query immediately; the
// graph cannot be partially repaired at query time, so there is no recovery
// layer here.
//
// Design decision: We use package-level sentinel errors rather than creating
// new error instances at each call site. This allows callers to use
// errors.Is() for programmatic handling while query sites wrap the sentinel
// with fmt.Errorf("%w: ...") to add node ids and kind names.
var (
	// ErrNodeNotFound is returned when a node id is absent from the graph.
	// Ids obtained from the graph itself never trigger this.
	ErrNodeNotFound = errors.New("node not found in graph")

	// ErrEdgeNotFound is returned when an edge id is absent from the graph.
	ErrEdgeNotFound = errors.New("edge not found in graph")

	// ErrNotHTMLElement is returned when a query that requires an HTML
	// element node is given a node of another kind.
	ErrNotHTMLElement = errors.New("node is not an HTML element")

	// ErrNotScript is returned when a script-provenance query is given a
	// node that is neither a script node nor a "script" HTML element.
	ErrNotScript = errors.New(`node is not a script node or an HTML element with tag name "script"`)

	// ErrMissingTimestamp is returned when a modification edge carries no
	// timestamp. Ingestion guarantees timestamps on action edges, so this
	// indicates a malformed trace.
	ErrMissingTimestamp = errors.New("modification edge has no timestamp")

	// ErrNoDOMRoot is returned when the graph contains no DOM root node
	// without incoming edges.
	ErrNoDOMRoot = errors.New("graph has no DOM root without incoming edges")

	// ErrMultipleDOMRoots is returned when more than one DOM root node has
	// no incoming edges. A well-formed page-load graph has exactly one.
	ErrMultipleDOMRoots = errors.New("graph has multiple DOM roots without incoming edges")

	// ErrRootWithoutURL is returned when the page's DOM root carries no URL.
	ErrRootWithoutURL = errors.New("DOM root has no URL")

	// ErrRootURLInvalid is returned when the page's root URL cannot be
	// parsed or has no host, making request matching impossible.
	ErrRootURLInvalid = errors.New("root URL cannot be parsed or has no host")

	// ErrNoRequestType is returned when a resource node has no incoming
	// request-start edge. Every recorded resource was requested at least
	// once, so this indicates a malformed trace.
	ErrNoRequestType = errors.New("resource node has no request-start edge")

	// ErrInconsistentRequestTypes is returned when a resource node was
	// requested with more than one distinct request type.
	ErrInconsistentRequestTypes = errors.New("resource requested with inconsistent request types")

	// ErrUnsupportedKind is returned by causal tracing for node kinds whose
	// propagation rules are not modeled. This is a deliberate scope
	// boundary: extending the dispatch table is an explicit act, never a
	// silent empty result.
	ErrUnsupportedKind = errors.New("node kind not modeled for causal tracing")
)
