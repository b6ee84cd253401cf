// Package filter adapts the external network-filter-rule engine and the
// public-suffix domain grammar to the two capabilities the graph queries
// consume: "parse a pattern, failing softly on malformed input" and "does
// this structured request match the parsed rule", plus "registrable-domain
// root of a hostname".
//
// Design decision: We wrap github.com/AdguardTeam/urlfilter rather than
// hand-rolling adblock pattern matching because the rule grammar (anchors,
// separators, options like $third-party and $script) is large, widely
// deployed, and exactly what recorded traces are matched against in
// practice. The wrapper keeps the rest of the codebase independent of the
// engine's types.
package filter
