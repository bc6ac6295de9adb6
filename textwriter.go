package xmlb

import (
	"bufio"
	"io"
	"strings"

	"github.com/lestrrat-go/xmlb/encoding"
	"github.com/pkg/errors"
	enc "golang.org/x/text/encoding"
)

// TextWriter renders node trees as XML text. The zero configuration
// produces compact UTF-8 output with well-formedness checks on; the
// Output options control pretty printing, the XML declaration, tag
// style, and the output encoding. A TextWriter keeps no per-call
// state, so one instance may be reused freely.
type TextWriter struct {
	serializer       *Serializer
	pretty           bool
	indent           string
	newline          string
	offset           int
	headless         bool
	spaceBeforeSlash bool
	allowEmptyTags   bool
	encodingName     string
}

// NewTextWriter creates a TextWriter. Serializer options among the
// given options are passed through to the underlying Serializer; the
// rest shape the rendered text.
func NewTextWriter(options ...OutputOption) *TextWriter {
	tw := &TextWriter{
		indent:  "  ",
		newline: "\n",
	}
	var serializeOptions []SerializeOption
	for _, option := range options {
		if so, ok := option.(SerializeOption); ok {
			serializeOptions = append(serializeOptions, so)
			continue
		}
		switch option.Ident() {
		case identPrettyPrint{}:
			tw.pretty = option.Value().(bool)
		case identIndent{}:
			tw.indent = option.Value().(string)
		case identNewline{}:
			tw.newline = option.Value().(string)
		case identOffset{}:
			tw.offset = option.Value().(int)
		case identHeadless{}:
			tw.headless = option.Value().(bool)
		case identSpaceBeforeSlash{}:
			tw.spaceBeforeSlash = option.Value().(bool)
		case identAllowEmptyTags{}:
			tw.allowEmptyTags = option.Value().(bool)
		case identWriterEncoding{}:
			tw.encodingName = option.Value().(string)
		}
	}
	tw.serializer = NewSerializer(serializeOptions...)
	return tw
}

// Write renders the tree rooted at n to dst. When n is a document the
// XML declaration is written first, unless suppressed by WithHeadless
// or by the document's standalone mode. With an output encoding
// configured the text is transcoded on the fly; characters the target
// encoding cannot represent become numeric character references.
func (tw *TextWriter) Write(dst io.Writer, n Node) error {
	out := dst
	var closer io.Closer
	if tw.encodingName != "" {
		e := encoding.Load(tw.encodingName)
		if e == nil {
			return errors.Errorf(`unsupported encoding %s`, tw.encodingName)
		}
		// the transform writer must be closed to flush stateful
		// encoders such as iso-2022-jp
		w := enc.HTMLEscapeUnsupported(e.NewEncoder()).Writer(out)
		out = w
		closer = w.(io.Closer)
	}

	ts := &textSink{cfg: tw, out: bufio.NewWriter(out)}
	if doc, ok := n.(*Document); ok && !tw.headless && doc.Standalone() != StandaloneNoXMLDecl {
		ts.writeDeclaration(doc)
	}
	if err := tw.serializer.Serialize(n, ts); err != nil {
		return err
	}
	if err := ts.out.Flush(); err != nil {
		return err
	}
	if closer != nil {
		return closer.Close()
	}
	return nil
}

// textSink is the per-call rendering state of a TextWriter. Individual
// write errors are left to stick in the buffered writer and surface
// from the final flush.
type textSink struct {
	cfg *TextWriter
	out *bufio.Writer

	wroteFirst bool

	// While a text-only element is open, its contents and closing tag
	// stay on the open tag's line. suppressLevel remembers which
	// element turned suppression on.
	suppress      bool
	suppressLevel int
}

var _ Sink = (*textSink)(nil)

func (ts *textSink) writeDeclaration(doc *Document) {
	_, _ = ts.out.WriteString(`<?xml version="`)
	version := doc.Version()
	if version == "" {
		version = "1.0"
	}
	_, _ = ts.out.WriteString(version + `"`)

	encodingName := ts.cfg.encodingName
	if encodingName == "" {
		encodingName = doc.Encoding()
	}
	if encodingName != "" && encodingName != "utf8" {
		_, _ = ts.out.WriteString(` encoding="` + encodingName + `"`)
	}

	switch doc.Standalone() {
	case StandaloneExplicitNo:
		_, _ = ts.out.WriteString(` standalone="no"`)
	case StandaloneExplicitYes:
		_, _ = ts.out.WriteString(` standalone="yes"`)
	}
	_, _ = ts.out.WriteString(`?>`)

	if ts.cfg.pretty {
		// the next beginLine supplies the newline
		ts.wroteFirst = true
	} else {
		_, _ = ts.out.WriteString(ts.cfg.newline)
	}
}

func (ts *textSink) beginLine(ctx Context) {
	if !ts.cfg.pretty || ts.suppress {
		return
	}
	if ts.wroteFirst {
		_, _ = ts.out.WriteString(ts.cfg.newline)
	}
	ts.wroteFirst = true
	for i := 0; i < ts.cfg.offset+ctx.Level(); i++ {
		_, _ = ts.out.WriteString(ts.cfg.indent)
	}
}

func (ts *textSink) DocType(ctx Context, name, publicID, systemID string) error {
	ts.beginLine(ctx)
	_, _ = ts.out.WriteString("<!DOCTYPE " + name)
	switch {
	case publicID != "":
		_, _ = ts.out.WriteString(` PUBLIC "` + publicID + `"`)
		if systemID != "" {
			_, _ = ts.out.WriteString(" " + quoteSystemID(systemID))
		}
	case systemID != "":
		_, _ = ts.out.WriteString(" SYSTEM " + quoteSystemID(systemID))
	}
	_, _ = ts.out.WriteString(">")
	return nil
}

// quoteSystemID picks the quote character not used inside the value.
// Values containing both kinds never get here; the serializer rejects
// them in well-formed mode.
func quoteSystemID(systemID string) string {
	if strings.ContainsRune(systemID, '"') {
		return "'" + systemID + "'"
	}
	return `"` + systemID + `"`
}

func (ts *textSink) Comment(ctx Context, data string) error {
	ts.beginLine(ctx)
	_, _ = ts.out.WriteString("<!--" + data + "-->")
	return nil
}

func (ts *textSink) Text(ctx Context, data string) error {
	if data == "" {
		return nil
	}
	ts.beginLine(ctx)
	_, _ = ts.out.WriteString(data)
	return nil
}

func (ts *textSink) CData(ctx Context, data string) error {
	ts.beginLine(ctx)
	_, _ = ts.out.WriteString("<![CDATA[" + data + "]]>")
	return nil
}

func (ts *textSink) Instruction(ctx Context, target, data string) error {
	ts.beginLine(ctx)
	if data == "" {
		_, _ = ts.out.WriteString("<?" + target + "?>")
	} else {
		_, _ = ts.out.WriteString("<?" + target + " " + data + "?>")
	}
	return nil
}

func (ts *textSink) BeginElement(Context, string) error {
	return nil
}

func (ts *textSink) OpenTagBegin(ctx Context, name string) error {
	ts.beginLine(ctx)
	_, _ = ts.out.WriteString("<" + name)
	return nil
}

func (ts *textSink) Attributes(_ Context, attrs []AttrEvent) error {
	for _, attr := range attrs {
		_, _ = ts.out.WriteString(" " + attr.Name() + `="` + attr.Value + `"`)
	}
	return nil
}

func (ts *textSink) OpenTagEnd(ctx Context, name string, selfClosing, void bool) error {
	if selfClosing {
		// void elements never take the open/close pair form
		if ts.cfg.allowEmptyTags && !void {
			_, _ = ts.out.WriteString("></" + name + ">")
		} else {
			if ts.cfg.spaceBeforeSlash {
				_, _ = ts.out.WriteString(" ")
			}
			_, _ = ts.out.WriteString("/>")
		}
		return nil
	}

	_, _ = ts.out.WriteString(">")
	if ts.cfg.pretty && !ts.suppress {
		if e, ok := ctx.Current().(*Element); ok && textOnlyChildren(e) {
			ts.suppress = true
			ts.suppressLevel = ctx.Level()
		}
	}
	return nil
}

func (ts *textSink) CloseTag(ctx Context, name string) error {
	if ts.suppress && ts.suppressLevel == ctx.Level() {
		ts.suppress = false
	} else {
		ts.beginLine(ctx)
	}
	_, _ = ts.out.WriteString("</" + name + ">")
	return nil
}

func (ts *textSink) EndElement(Context, string) error {
	return nil
}

// textOnlyChildren reports whether e has children and every one of
// them is character data, in which case pretty printed output keeps
// the whole element on one line.
func textOnlyChildren(e *Element) bool {
	child := e.FirstChild()
	if child == nil {
		return false
	}
	for ; child != nil; child = child.NextSibling() {
		switch child.Type() {
		case TextNodeType, CDATASectionNodeType:
		default:
			return false
		}
	}
	return true
}
