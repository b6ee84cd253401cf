package model

import "testing"

// TestNodeIsHTMLElement tests tag-name matching on nodes.
func TestNodeIsHTMLElement(t *testing.T) {
	t.Parallel()

	script := "script"
	testCases := []struct {
		name     string
		node     Node
		tagName  string
		expected bool
	}{
		{"script element matches script", Node{Kind: HTMLElement{TagName: "script", DOMNodeID: 1}}, "script", true},
		{"script element matches any tag", Node{Kind: HTMLElement{TagName: "script", DOMNodeID: 1}}, "", true},
		{"div element does not match script", Node{Kind: HTMLElement{TagName: "div", DOMNodeID: 2}}, "script", false},
		{"tag match is case-sensitive", Node{Kind: HTMLElement{TagName: "SCRIPT", DOMNodeID: 3}}, "script", false},
		{"script node is not an element", Node{Kind: Script{URL: &script}}, "script", false},
		{"resource is not an element", Node{Kind: Resource{URL: "http://a.test/x.js"}}, "", false},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := tc.node.IsHTMLElement(tc.tagName); got != tc.expected {
				t.Errorf("IsHTMLElement(%q) = %v, expected %v", tc.tagName, got, tc.expected)
			}
		})
	}
}

// TestNodeKindPredicates tests IsScript and IsResource.
func TestNodeKindPredicates(t *testing.T) {
	t.Parallel()

	scriptNode := Node{Kind: Script{ScriptType: "classic"}}
	resourceNode := Node{Kind: Resource{URL: "http://a.test/x.png"}}
	rootNode := Node{Timestamp: TimestampUnknown, Kind: DOMRoot{}}

	if !scriptNode.IsScript() {
		t.Error("expected script node to satisfy IsScript")
	}
	if scriptNode.IsResource() {
		t.Error("expected script node not to satisfy IsResource")
	}
	if !resourceNode.IsResource() {
		t.Error("expected resource node to satisfy IsResource")
	}
	if rootNode.IsScript() || rootNode.IsResource() {
		t.Error("expected DOM root to satisfy neither predicate")
	}
}

// TestNodeKindString tests the canonical names of node kinds.
func TestNodeKindString(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		kind     NodeKind
		expected string
	}{
		{DOMRoot{}, "DOM root"},
		{HTMLElement{TagName: "div"}, "HTML element"},
		{TextNode{}, "text node"},
		{Script{}, "script"},
		{Resource{}, "resource"},
		{Parser{}, "parser"},
		{FrameOwner{}, "frame owner"},
		{RemoteFrame{}, "remote frame"},
		{Storage{}, "storage"},
		{LocalStorage{}, "local storage"},
		{SessionStorage{}, "session storage"},
		{CookieJar{}, "cookie jar"},
		{WebAPI{}, "web API"},
		{JSBuiltin{}, "JS builtin"},
		{Shields{}, "shields"},
		{AdsShield{}, "ads shield"},
		{TrackersShield{}, "trackers shield"},
		{JavascriptShield{}, "javascript shield"},
		{FingerprintingShield{}, "fingerprinting shield"},
		{AdFilter{}, "ad filter"},
		{TrackerFilter{}, "tracker filter"},
		{FingerprintingFilter{}, "fingerprinting filter"},
		{Extensions{}, "extensions"},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.expected, func(t *testing.T) {
			t.Parallel()
			if got := tc.kind.String(); got != tc.expected {
				t.Errorf("got %q, expected %q", got, tc.expected)
			}
		})
	}
}
