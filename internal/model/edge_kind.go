package model

// EdgeKind is the closed tagged union of action categories recorded in a
// page-load graph. Each variant carries its own payload fields.
//
// See NodeKind for the rationale behind the sealed-interface representation.
type EdgeKind interface {
	isEdgeKind()

	// String returns the canonical trace-format name of the kind.
	String() string
}

// Structure records DOM parent/child attachment. Structural edges may lack
// timestamps and are excluded from modification history.
type Structure struct{}

// CrossDOM records attachment across frame boundaries, e.g. an iframe's
// document hanging off its frame owner.
type CrossDOM struct{}

// RequestStart records the start of a network request for a resource.
type RequestStart struct {
	// RequestType is the requested resource category as recorded by the
	// browser, e.g. "script", "image", "stylesheet".
	RequestType string

	// RequestID correlates start/complete/error edges of one request.
	RequestID int
}

// RequestComplete records the successful completion of a network request.
type RequestComplete struct {
	// ResourceType is the category of the delivered resource.
	ResourceType string

	// Status is the recorded completion status line.
	Status string

	// RequestID correlates start/complete/error edges of one request.
	RequestID int
}

// RequestError records a failed network request.
type RequestError struct {
	RequestID int
}

// Execute records a script execution caused by the source node.
type Execute struct{}

// ExecuteFromAttribute records a script execution triggered by an element
// attribute, e.g. an onclick handler.
type ExecuteFromAttribute struct {
	AttrName string
}

// CreateNode records the creation of a DOM node.
type CreateNode struct{}

// InsertNode records the insertion of a DOM node under a parent.
type InsertNode struct {
	// ParentDOMNodeID is the browser DOM id of the new parent.
	ParentDOMNodeID int

	// BeforeDOMNodeID is the browser DOM id of the following sibling,
	// or zero when appended last.
	BeforeDOMNodeID int
}

// RemoveNode records the detachment of a DOM node from its parent.
type RemoveNode struct{}

// DeleteNode records the destruction of a DOM node.
type DeleteNode struct{}

// SetAttribute records an attribute write on an element.
type SetAttribute struct {
	Key   string
	Value string
}

// DeleteAttribute records an attribute removal on an element.
type DeleteAttribute struct {
	Key string
}

// StorageSet records a write to a storage area.
type StorageSet struct {
	Key   string
	Value string
}

// StorageReadCall records a read from a storage area.
type StorageReadCall struct {
	Key string
}

// StorageDelete records the removal of one storage key.
type StorageDelete struct {
	Key string
}

// StorageClear records the clearing of an entire storage area.
type StorageClear struct{}

// AddEventListener records the registration of an event listener.
type AddEventListener struct {
	Event string
}

// RemoveEventListener records the removal of an event listener.
type RemoveEventListener struct {
	Event string
}

// Filter records that a filter-rule node matched a request.
type Filter struct{}

// Shield records a policy decision taken by a shield node.
type Shield struct{}

// TextChange records a mutation of a text node's character data.
type TextChange struct {
	Text string
}

// JSCall records a call into an instrumented web API or JS builtin.
type JSCall struct {
	Args string
}

// JSResult records the value returned from an instrumented call.
type JSResult struct {
	Value string
}

func (Structure) isEdgeKind()            {}
func (CrossDOM) isEdgeKind()             {}
func (RequestStart) isEdgeKind()         {}
func (RequestComplete) isEdgeKind()      {}
func (RequestError) isEdgeKind()         {}
func (Execute) isEdgeKind()              {}
func (ExecuteFromAttribute) isEdgeKind() {}
func (CreateNode) isEdgeKind()           {}
func (InsertNode) isEdgeKind()           {}
func (RemoveNode) isEdgeKind()           {}
func (DeleteNode) isEdgeKind()           {}
func (SetAttribute) isEdgeKind()         {}
func (DeleteAttribute) isEdgeKind()      {}
func (StorageSet) isEdgeKind()           {}
func (StorageReadCall) isEdgeKind()      {}
func (StorageDelete) isEdgeKind()        {}
func (StorageClear) isEdgeKind()         {}
func (AddEventListener) isEdgeKind()     {}
func (RemoveEventListener) isEdgeKind()  {}
func (Filter) isEdgeKind()               {}
func (Shield) isEdgeKind()               {}
func (TextChange) isEdgeKind()           {}
func (JSCall) isEdgeKind()               {}
func (JSResult) isEdgeKind()             {}

func (Structure) String() string            { return "structure" }
func (CrossDOM) String() string             { return "cross DOM" }
func (RequestStart) String() string         { return "request start" }
func (RequestComplete) String() string      { return "request complete" }
func (RequestError) String() string         { return "request error" }
func (Execute) String() string              { return "execute" }
func (ExecuteFromAttribute) String() string { return "execute from attribute" }
func (CreateNode) String() string           { return "create node" }
func (InsertNode) String() string           { return "insert node" }
func (RemoveNode) String() string           { return "remove node" }
func (DeleteNode) String() string           { return "delete node" }
func (SetAttribute) String() string         { return "set attribute" }
func (DeleteAttribute) String() string      { return "delete attribute" }
func (StorageSet) String() string           { return "storage set" }
func (StorageReadCall) String() string      { return "storage read" }
func (StorageDelete) String() string        { return "storage delete" }
func (StorageClear) String() string         { return "storage clear" }
func (AddEventListener) String() string     { return "add event listener" }
func (RemoveEventListener) String() string  { return "remove event listener" }
func (Filter) String() string               { return "filter" }
func (Shield) String() string               { return "shield" }
func (TextChange) String() string           { return "text change" }
func (JSCall) String() string               { return "js call" }
func (JSResult) String() string             { return "js result" }
