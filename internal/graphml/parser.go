package graphml

import (
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/pagegraph/pagegraph/internal/graph"
	"github.com/pagegraph/pagegraph/internal/model"
)

// xmlDocument mirrors the top-level GraphML structure.
type xmlDocument struct {
	XMLName xml.Name `xml:"graphml"`
	Keys    []xmlKey `xml:"key"`
	Graph   xmlGraph `xml:"graph"`
}

// xmlKey is an attribute schema declaration: it binds a key id to the
// attribute name used by <data> payloads.
type xmlKey struct {
	ID   string `xml:"id,attr"`
	For  string `xml:"for,attr"`
	Name string `xml:"attr.name,attr"`
}

type xmlGraph struct {
	EdgeDefault string    `xml:"edgedefault,attr"`
	Nodes       []xmlNode `xml:"node"`
	Edges       []xmlEdge `xml:"edge"`
}

type xmlNode struct {
	ID   string    `xml:"id,attr"`
	Data []xmlData `xml:"data"`
}

type xmlEdge struct {
	ID     string    `xml:"id,attr"`
	Source string    `xml:"source,attr"`
	Target string    `xml:"target,attr"`
	Data   []xmlData `xml:"data"`
}

type xmlData struct {
	Key   string `xml:"key,attr"`
	Value string `xml:",chardata"`
}

// Option configures parsing.
type Option func(*parser)

// WithLogger sets the logger used for ingestion diagnostics such as
// duplicate ordered-pair warnings. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *parser) {
		p.logger = logger
	}
}

// parser carries the resolved attribute schema while walking the document.
type parser struct {
	logger *slog.Logger

	// names maps key id to attribute name, per the <key> declarations.
	names map[string]string
}

// Parse reads one GraphML trace and returns the materialized graph.
func Parse(r io.Reader, opts ...Option) (*graph.Graph, error) {
	p := &parser{names: make(map[string]string)}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}

	var doc xmlDocument
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedGraph, err)
	}
	for _, key := range doc.Keys {
		p.names[key.ID] = key.Name
	}

	builder := graph.NewBuilder(graph.WithLogger(p.logger))
	ids := make(map[string]model.NodeID, len(doc.Graph.Nodes))

	for _, raw := range doc.Graph.Nodes {
		node, err := p.decodeNode(raw)
		if err != nil {
			return nil, err
		}
		ids[raw.ID] = builder.AddNode(node)
	}

	for _, raw := range doc.Graph.Edges {
		edge, err := p.decodeEdge(raw)
		if err != nil {
			return nil, err
		}
		source, ok := ids[raw.Source]
		if !ok {
			return nil, fmt.Errorf("%w: edge %q source %q", ErrDanglingEdge, raw.ID, raw.Source)
		}
		target, ok := ids[raw.Target]
		if !ok {
			return nil, fmt.Errorf("%w: edge %q target %q", ErrDanglingEdge, raw.ID, raw.Target)
		}
		if _, err := builder.AddEdge(source, target, edge); err != nil {
			return nil, fmt.Errorf("%w: edge %q: %v", ErrMalformedGraph, raw.ID, err)
		}
	}

	return builder.Graph(), nil
}

// ParseFile reads and materializes the trace at the given path.
func ParseFile(path string, opts ...Option) (*graph.Graph, error) {
	f, err := os.Open(path) //nolint:gosec // User-provided trace path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to open trace: %w", err)
	}
	defer f.Close()
	return Parse(f, opts...)
}

// attrs resolves a record's <data> payloads to attribute-name keys.
func (p *parser) attrs(data []xmlData) map[string]string {
	resolved := make(map[string]string, len(data))
	for _, d := range data {
		name, ok := p.names[d.Key]
		if !ok {
			// Unknown key ids carry data we do not consume; the schema
			// is versioned independently of this reader.
			continue
		}
		resolved[name] = d.Value
	}
	return resolved
}

// decodeNode builds a model.Node from a raw trace node.
func (p *parser) decodeNode(raw xmlNode) (model.Node, error) {
	attrs := p.attrs(raw.Data)

	kind, err := nodeKindOf(attrs)
	if err != nil {
		return model.Node{}, fmt.Errorf("node %q: %w", raw.ID, err)
	}

	timestamp := model.TimestampUnknown
	if value, ok := attrs["timestamp"]; ok {
		timestamp, err = strconv.ParseInt(value, 10, 64)
		if err != nil {
			return model.Node{}, fmt.Errorf("%w: node %q timestamp %q", ErrMalformedGraph, raw.ID, value)
		}
	}

	return model.Node{Timestamp: timestamp, Kind: kind}, nil
}

// decodeEdge builds a model.Edge from a raw trace edge.
func (p *parser) decodeEdge(raw xmlEdge) (model.Edge, error) {
	attrs := p.attrs(raw.Data)

	kind, err := edgeKindOf(attrs)
	if err != nil {
		return model.Edge{}, fmt.Errorf("edge %q: %w", raw.ID, err)
	}

	var timestamp *int64
	if value, ok := attrs["timestamp"]; ok {
		parsed, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return model.Edge{}, fmt.Errorf("%w: edge %q timestamp %q", ErrMalformedGraph, raw.ID, value)
		}
		timestamp = &parsed
	}

	return model.Edge{Timestamp: timestamp, Kind: kind}, nil
}

// intAttr parses an optional integer attribute, defaulting to zero.
func intAttr(attrs map[string]string, name string) (int, error) {
	value, ok := attrs[name]
	if !ok || value == "" {
		return 0, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%w: attribute %q = %q", ErrMalformedGraph, name, value)
	}
	return parsed, nil
}

// optionalString returns a pointer to the attribute value if present and
// non-empty.
func optionalString(attrs map[string]string, name string) *string {
	if value, ok := attrs[name]; ok && value != "" {
		return &value
	}
	return nil
}

// nodeKindOf dispatches on the trace's "node type" string.
func nodeKindOf(attrs map[string]string) (model.NodeKind, error) {
	nodeType, ok := attrs["node type"]
	if !ok {
		return nil, fmt.Errorf("%w: missing node type", ErrMalformedGraph)
	}

	switch nodeType {
	case "DOM root":
		return model.DOMRoot{URL: optionalString(attrs, "url")}, nil
	case "HTML element":
		domID, err := intAttr(attrs, "node id")
		if err != nil {
			return nil, err
		}
		return model.HTMLElement{TagName: attrs["tag name"], DOMNodeID: domID}, nil
	case "text node":
		return model.TextNode{Text: attrs["text"]}, nil
	case "script":
		return model.Script{URL: optionalString(attrs, "url"), ScriptType: attrs["script type"]}, nil
	case "resource":
		return model.Resource{URL: attrs["url"]}, nil
	case "parser":
		return model.Parser{}, nil
	case "frame owner":
		domID, err := intAttr(attrs, "node id")
		if err != nil {
			return nil, err
		}
		return model.FrameOwner{TagName: attrs["tag name"], DOMNodeID: domID}, nil
	case "remote frame":
		return model.RemoteFrame{FrameID: attrs["frame id"]}, nil
	case "storage":
		return model.Storage{}, nil
	case "local storage":
		return model.LocalStorage{}, nil
	case "session storage":
		return model.SessionStorage{}, nil
	case "cookie jar":
		return model.CookieJar{}, nil
	case "web API":
		return model.WebAPI{Method: attrs["method"]}, nil
	case "JS builtin":
		return model.JSBuiltin{Method: attrs["method"]}, nil
	case "shields":
		return model.Shields{}, nil
	case "ads shield":
		return model.AdsShield{}, nil
	case "trackers shield":
		return model.TrackersShield{}, nil
	case "javascript shield":
		return model.JavascriptShield{}, nil
	case "fingerprinting shield":
		return model.FingerprintingShield{}, nil
	case "ad filter":
		return model.AdFilter{Rule: attrs["rule"]}, nil
	case "tracker filter":
		return model.TrackerFilter{}, nil
	case "fingerprinting filter":
		return model.FingerprintingFilter{}, nil
	case "extensions":
		return model.Extensions{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownNodeType, nodeType)
	}
}

// edgeKindOf dispatches on the trace's "edge type" string.
func edgeKindOf(attrs map[string]string) (model.EdgeKind, error) {
	edgeType, ok := attrs["edge type"]
	if !ok {
		return nil, fmt.Errorf("%w: missing edge type", ErrMalformedGraph)
	}

	switch edgeType {
	case "structure":
		return model.Structure{}, nil
	case "cross DOM":
		return model.CrossDOM{}, nil
	case "request start":
		requestID, err := intAttr(attrs, "request id")
		if err != nil {
			return nil, err
		}
		return model.RequestStart{RequestType: attrs["request type"], RequestID: requestID}, nil
	case "request complete":
		requestID, err := intAttr(attrs, "request id")
		if err != nil {
			return nil, err
		}
		return model.RequestComplete{ResourceType: attrs["resource type"], Status: attrs["status"], RequestID: requestID}, nil
	case "request error":
		requestID, err := intAttr(attrs, "request id")
		if err != nil {
			return nil, err
		}
		return model.RequestError{RequestID: requestID}, nil
	case "execute":
		return model.Execute{}, nil
	case "execute from attribute":
		return model.ExecuteFromAttribute{AttrName: attrs["attr name"]}, nil
	case "create node":
		return model.CreateNode{}, nil
	case "insert node":
		parent, err := intAttr(attrs, "parent")
		if err != nil {
			return nil, err
		}
		before, err := intAttr(attrs, "before")
		if err != nil {
			return nil, err
		}
		return model.InsertNode{ParentDOMNodeID: parent, BeforeDOMNodeID: before}, nil
	case "remove node":
		return model.RemoveNode{}, nil
	case "delete node":
		return model.DeleteNode{}, nil
	case "set attribute":
		return model.SetAttribute{Key: attrs["key"], Value: attrs["value"]}, nil
	case "delete attribute":
		return model.DeleteAttribute{Key: attrs["key"]}, nil
	case "storage set":
		return model.StorageSet{Key: attrs["key"], Value: attrs["value"]}, nil
	case "storage read":
		return model.StorageReadCall{Key: attrs["key"]}, nil
	case "storage delete":
		return model.StorageDelete{Key: attrs["key"]}, nil
	case "storage clear":
		return model.StorageClear{}, nil
	case "add event listener":
		return model.AddEventListener{Event: attrs["event"]}, nil
	case "remove event listener":
		return model.RemoveEventListener{Event: attrs["event"]}, nil
	case "filter":
		return model.Filter{}, nil
	case "shield":
		return model.Shield{}, nil
	case "text change":
		return model.TextChange{Text: attrs["text"]}, nil
	case "js call":
		return model.JSCall{Args: attrs["args"]}, nil
	case "js result":
		return model.JSResult{Value: attrs["value"]}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEdgeType, edgeType)
	}
}
