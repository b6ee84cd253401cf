package model

// NodeKind is the closed tagged union of entity categories recorded in a
// page-load graph. Each variant carries its own payload fields.
//
// Design decision: We model the taxonomy as a sealed interface (unexported
// marker method) with one struct per variant rather than an enum plus a
// payload bag. This gives consumers exhaustive type switches with typed
// payload access, and prevents packages outside model from inventing kinds.
// The String method returns the type string used by the trace format, which
// also keeps report output and ingestion dispatch consistent.
type NodeKind interface {
	isNodeKind()

	// String returns the canonical trace-format name of the kind.
	String() string
}

// DOMRoot is the root document of a frame. The top-level DOM root is the
// page under analysis; its URL identifies the page.
type DOMRoot struct {
	// URL is the document URL. Nil for roots created before navigation
	// committed (e.g. the initial empty document).
	URL *string
}

// HTMLElement is a single element in the DOM tree.
type HTMLElement struct {
	// TagName is the element's tag name as recorded, e.g. "script" or "div".
	TagName string

	// DOMNodeID is the browser-assigned numeric DOM node identifier.
	DOMNodeID int
}

// TextNode is a text node in the DOM tree.
type TextNode struct {
	// Text is the node's character data.
	Text string
}

// Script is an executed script body. It is distinct from the HTMLElement
// with tag name "script" that may carry it.
type Script struct {
	// URL is the script source URL. Nil for inline scripts.
	URL *string

	// ScriptType classifies the script, e.g. "classic" or "module".
	ScriptType string
}

// Resource is a network resource fetched during the page load.
type Resource struct {
	// URL is the resource URL as requested.
	URL string
}

// Parser is the HTML parser actor that builds the initial DOM.
type Parser struct{}

// FrameOwner is an element that owns a nested browsing context, such as an
// iframe.
type FrameOwner struct {
	TagName   string
	DOMNodeID int
}

// RemoteFrame is a frame rendered in another process; only its identity is
// visible to this graph.
type RemoteFrame struct {
	FrameID string
}

// Storage is the abstract storage actor that mediates all storage access.
type Storage struct{}

// LocalStorage is the persistent per-origin storage area.
type LocalStorage struct{}

// SessionStorage is the per-tab storage area.
type SessionStorage struct{}

// CookieJar is the cookie store for the page's origin.
type CookieJar struct{}

// WebAPI is an instrumented web platform API, such as navigator.userAgent.
type WebAPI struct {
	Method string
}

// JSBuiltin is an instrumented JavaScript builtin, such as Date.now.
type JSBuiltin struct {
	Method string
}

// Shields is the policy-enforcement root for the page.
type Shields struct{}

// AdsShield is the ad-blocking policy actor.
type AdsShield struct{}

// TrackersShield is the tracker-blocking policy actor.
type TrackersShield struct{}

// JavascriptShield is the script-blocking policy actor.
type JavascriptShield struct{}

// FingerprintingShield is the fingerprinting-protection policy actor.
type FingerprintingShield struct{}

// AdFilter marks a matched ad-filter rule.
type AdFilter struct {
	// Rule is the filter rule text that matched.
	Rule string
}

// TrackerFilter marks a matched tracker-filter rule.
type TrackerFilter struct{}

// FingerprintingFilter marks a matched fingerprinting-filter rule.
type FingerprintingFilter struct{}

// Extensions is the browser-extension actor.
type Extensions struct{}

func (DOMRoot) isNodeKind()              {}
func (HTMLElement) isNodeKind()          {}
func (TextNode) isNodeKind()             {}
func (Script) isNodeKind()               {}
func (Resource) isNodeKind()             {}
func (Parser) isNodeKind()               {}
func (FrameOwner) isNodeKind()           {}
func (RemoteFrame) isNodeKind()          {}
func (Storage) isNodeKind()              {}
func (LocalStorage) isNodeKind()         {}
func (SessionStorage) isNodeKind()       {}
func (CookieJar) isNodeKind()            {}
func (WebAPI) isNodeKind()               {}
func (JSBuiltin) isNodeKind()            {}
func (Shields) isNodeKind()              {}
func (AdsShield) isNodeKind()            {}
func (TrackersShield) isNodeKind()       {}
func (JavascriptShield) isNodeKind()     {}
func (FingerprintingShield) isNodeKind() {}
func (AdFilter) isNodeKind()             {}
func (TrackerFilter) isNodeKind()        {}
func (FingerprintingFilter) isNodeKind() {}
func (Extensions) isNodeKind()           {}

func (DOMRoot) String() string              { return "DOM root" }
func (HTMLElement) String() string          { return "HTML element" }
func (TextNode) String() string             { return "text node" }
func (Script) String() string               { return "script" }
func (Resource) String() string             { return "resource" }
func (Parser) String() string               { return "parser" }
func (FrameOwner) String() string           { return "frame owner" }
func (RemoteFrame) String() string          { return "remote frame" }
func (Storage) String() string              { return "storage" }
func (LocalStorage) String() string         { return "local storage" }
func (SessionStorage) String() string       { return "session storage" }
func (CookieJar) String() string            { return "cookie jar" }
func (WebAPI) String() string               { return "web API" }
func (JSBuiltin) String() string            { return "JS builtin" }
func (Shields) String() string              { return "shields" }
func (AdsShield) String() string            { return "ads shield" }
func (TrackersShield) String() string       { return "trackers shield" }
func (JavascriptShield) String() string     { return "javascript shield" }
func (FingerprintingShield) String() string { return "fingerprinting shield" }
func (AdFilter) String() string             { return "ad filter" }
func (TrackerFilter) String() string        { return "tracker filter" }
func (FingerprintingFilter) String() string { return "fingerprinting filter" }
func (Extensions) String() string           { return "extensions" }
