package xmlb

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"

	"github.com/lestrrat-go/xmlb/internal/orderedmap"
)

// JSONWriter renders node trees as JSON text in the object notation
// of MapWriter, preserving document order. encoding/json alone cannot
// do that because Go maps do not keep insertion order, so the writer
// walks the ordered image itself and only borrows the standard
// library's string escaping. A JSONWriter keeps no per-call state, so
// one instance may be reused freely.
type JSONWriter struct {
	mw      *MapWriter
	pretty  bool
	indent  string
	newline string
}

func NewJSONWriter(options ...OutputOption) *JSONWriter {
	jw := &JSONWriter{
		mw:      NewMapWriter(options...),
		indent:  "  ",
		newline: "\n",
	}
	for _, option := range options {
		switch option.Ident() {
		case identPrettyPrint{}:
			jw.pretty = option.Value().(bool)
		case identIndent{}:
			jw.indent = option.Value().(string)
		case identNewline{}:
			jw.newline = option.Value().(string)
		}
	}
	return jw
}

func (jw *JSONWriter) Write(dst io.Writer, n Node) error {
	img, err := jw.mw.buildImage(n)
	if err != nil {
		return err
	}

	r := &jsonRun{cfg: jw, out: bufio.NewWriter(dst)}
	// HTML escaping is turned off so the XML entity references the
	// object notation carries stay readable.
	r.enc = json.NewEncoder(&r.scratch)
	r.enc.SetEscapeHTML(false)
	if err := r.writeValue(img, 0); err != nil {
		return err
	}
	return r.out.Flush()
}

// jsonRun is the per-call rendering state of a JSONWriter.
type jsonRun struct {
	cfg     *JSONWriter
	out     *bufio.Writer
	scratch bytes.Buffer
	enc     *json.Encoder
}

func (r *jsonRun) writeValue(v any, level int) error {
	switch v := v.(type) {
	case *orderedmap.Map[string, any]:
		return r.writeMap(v, level)
	case []any:
		return r.writeList(v, level)
	default:
		return r.writeScalar(v)
	}
}

func (r *jsonRun) writeScalar(v any) error {
	r.scratch.Reset()
	if err := r.enc.Encode(v); err != nil {
		return err
	}
	// Encode terminates every value with a newline
	_, _ = r.out.Write(bytes.TrimSuffix(r.scratch.Bytes(), []byte("\n")))
	return nil
}

func (r *jsonRun) writeMap(m *orderedmap.Map[string, any], level int) error {
	if m.Len() == 0 {
		_, _ = r.out.WriteString(`{}`)
		return nil
	}

	_, _ = r.out.WriteString(`{`)
	first := true
	for k, v := range m.Range() {
		if !first {
			_, _ = r.out.WriteString(`,`)
		}
		first = false
		r.beginLine(level + 1)
		if err := r.writeScalar(k); err != nil {
			return err
		}
		_, _ = r.out.WriteString(`:`)
		if r.cfg.pretty {
			_, _ = r.out.WriteString(` `)
		}
		if err := r.writeValue(v, level+1); err != nil {
			return err
		}
	}
	r.beginLine(level)
	_, _ = r.out.WriteString(`}`)
	return nil
}

func (r *jsonRun) writeList(list []any, level int) error {
	if len(list) == 0 {
		_, _ = r.out.WriteString(`[]`)
		return nil
	}

	_, _ = r.out.WriteString(`[`)
	for i, v := range list {
		if i > 0 {
			_, _ = r.out.WriteString(`,`)
		}
		r.beginLine(level + 1)
		if err := r.writeValue(v, level+1); err != nil {
			return err
		}
	}
	r.beginLine(level)
	_, _ = r.out.WriteString(`]`)
	return nil
}

func (r *jsonRun) beginLine(level int) {
	if !r.cfg.pretty {
		return
	}
	_, _ = r.out.WriteString(r.cfg.newline)
	for i := 0; i < level; i++ {
		_, _ = r.out.WriteString(r.cfg.indent)
	}
}
