package xmlb

// Context carries the serializer's cursor state into sink callbacks.
type Context struct {
	level int
	node  Node
}

// Level reports the element nesting depth of the current event. The
// root element is at level 0, its children at level 1, and so on.
func (ctx Context) Level() int {
	return ctx.level
}

// Current returns the node the serializer is visiting.
func (ctx Context) Current() Node {
	return ctx.node
}

// AttrEvent describes one attribute within an Attributes event. Value
// has already been escaped for use inside a double quoted attribute
// value. Namespace declarations synthesized during prefix resolution
// appear as ordinary attributes in the xmlns namespace.
type AttrEvent struct {
	NamespaceURI string
	Prefix       string
	LocalName    string
	Value        string
}

// Name returns the qualified name of the attribute
func (a AttrEvent) Name() string {
	if a.Prefix != "" {
		return a.Prefix + ":" + a.LocalName
	}
	return a.LocalName
}

// Sink receives structural events as a Serializer walks a tree.
// Character data arrives already escaped according to the
// serializer's settings, so sinks that produce markup can write the
// payloads verbatim.
//
// For each element the serializer calls, in order: BeginElement,
// OpenTagBegin, Attributes, OpenTagEnd, the events of each child,
// CloseTag, EndElement. When OpenTagEnd reports selfClosing as true
// the CloseTag call is omitted. Returning an error from any callback
// aborts the walk and the error is returned to the caller unchanged.
type Sink interface {
	DocType(ctx Context, name, publicID, systemID string) error
	Comment(ctx Context, data string) error
	Text(ctx Context, data string) error
	CData(ctx Context, data string) error
	Instruction(ctx Context, target, data string) error
	BeginElement(ctx Context, name string) error
	OpenTagBegin(ctx Context, name string) error
	Attributes(ctx Context, attrs []AttrEvent) error
	OpenTagEnd(ctx Context, name string, selfClosing, void bool) error
	CloseTag(ctx Context, name string) error
	EndElement(ctx Context, name string) error
}

// NopSink implements Sink with no-ops for every event. Embed it to
// build sinks that only care about a subset of the protocol.
type NopSink struct{}

var _ Sink = NopSink{}

func (NopSink) DocType(Context, string, string, string) error { return nil }

func (NopSink) Comment(Context, string) error { return nil }

func (NopSink) Text(Context, string) error { return nil }

func (NopSink) CData(Context, string) error { return nil }

func (NopSink) Instruction(Context, string, string) error { return nil }

func (NopSink) BeginElement(Context, string) error { return nil }

func (NopSink) OpenTagBegin(Context, string) error { return nil }

func (NopSink) Attributes(Context, []AttrEvent) error { return nil }

func (NopSink) OpenTagEnd(Context, string, bool, bool) error { return nil }

func (NopSink) CloseTag(Context, string) error { return nil }

func (NopSink) EndElement(Context, string) error { return nil }
