package filter

import (
	"strings"

	"github.com/AdguardTeam/urlfilter/rules"
)

// Rule is a parsed network-filter rule ready for matching.
type Rule struct {
	rule *rules.NetworkRule
}

// ParseRule parses an adblock-style network filter pattern.
// Malformed patterns are a soft failure: ParseRule returns (nil, false) and
// the caller treats the pattern as matching nothing. This keeps filter
// matching a best-effort query rather than a validation gate.
func ParseRule(pattern string) (*Rule, bool) {
	rule, err := rules.NewNetworkRule(pattern, 0)
	if err != nil {
		return nil, false
	}
	return &Rule{rule: rule}, true
}

// Request is the structured view of one recorded resource request, built by
// the caller from the graph: the request type carried by the request-start
// edges, the resource URL and its parsed components, and the host and
// registrable domain of the page that loaded it.
type Request struct {
	// Type is the recorded request type, e.g. "script" or "image".
	Type string

	// URL is the full resource URL.
	URL string

	// Hostname and Domain are the resource URL's host and its registrable
	// domain.
	Hostname string
	Domain   string

	// SourceURL, SourceHostname, and SourceDomain describe the page the
	// request originated from.
	SourceURL      string
	SourceHostname string
	SourceDomain   string
}

// Matches reports whether the rule matches the request.
func (r *Rule) Matches(req Request) bool {
	engineReq := &rules.Request{
		RequestType:    requestTypeOf(req.Type),
		URL:            req.URL,
		URLLowerCase:   strings.ToLower(req.URL),
		Hostname:       req.Hostname,
		Domain:         req.Domain,
		SourceURL:      req.SourceURL,
		SourceHostname: req.SourceHostname,
		SourceDomain:   req.SourceDomain,
		ThirdParty:     req.Domain != req.SourceDomain,
	}
	return r.rule.Match(engineReq)
}

// Text returns the original rule text.
func (r *Rule) Text() string {
	return r.rule.Text()
}

// requestTypeOf maps the request type strings recorded in page-load traces
// to the engine's request categories. Unrecognized types fall back to
// TypeOther, which only matches rules without a type restriction.
func requestTypeOf(recorded string) rules.RequestType {
	switch recorded {
	case "document", "main_frame":
		return rules.TypeDocument
	case "subdocument", "sub_frame", "iframe":
		return rules.TypeSubdocument
	case "script":
		return rules.TypeScript
	case "stylesheet", "css":
		return rules.TypeStylesheet
	case "image", "imageset":
		return rules.TypeImage
	case "xhr", "xmlhttprequest", "fetch":
		return rules.TypeXmlhttprequest
	case "media", "video", "audio":
		return rules.TypeMedia
	case "font":
		return rules.TypeFont
	case "websocket":
		return rules.TypeWebsocket
	case "ping", "beacon":
		return rules.TypePing
	case "object":
		return rules.TypeObject
	default:
		return rules.TypeOther
	}
}
