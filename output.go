package xmlb

import (
	"io"
	"strings"
)

// nodeToXML renders any node to a string with a throwaway TextWriter.
func nodeToXML(n Node, options ...OutputOption) (string, error) {
	var buf strings.Builder
	if err := NewTextWriter(options...).Write(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func nodeToJSON(n Node, options ...OutputOption) (string, error) {
	var buf strings.Builder
	if err := NewJSONWriter(options...).Write(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func nodeToYAML(n Node, options ...OutputOption) (string, error) {
	var buf strings.Builder
	if err := NewYAMLWriter(options...).Write(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// XML serializes the document, XML declaration included unless the
// options or the standalone mode suppress it.
func (d *Document) XML(options ...OutputOption) (string, error) {
	return nodeToXML(d, options...)
}

// WriteXML serializes the document to dst.
func (d *Document) WriteXML(dst io.Writer, options ...OutputOption) error {
	return NewTextWriter(options...).Write(dst, d)
}

// Object converts the document to its map notation.
func (d *Document) Object(options ...OutputOption) (map[string]any, error) {
	return NewMapWriter(options...).Build(d)
}

// JSON converts the document to JSON object notation.
func (d *Document) JSON(options ...OutputOption) (string, error) {
	return nodeToJSON(d, options...)
}

// YAML converts the document to YAML object notation.
func (d *Document) YAML(options ...OutputOption) (string, error) {
	return nodeToYAML(d, options...)
}

// WriteXML serializes just this element's subtree to dst.
func (e *Element) WriteXML(dst io.Writer, options ...OutputOption) error {
	return NewTextWriter(options...).Write(dst, e)
}

func (e *Element) Object(options ...OutputOption) (map[string]any, error) {
	return NewMapWriter(options...).Build(e)
}

func (e *Element) JSON(options ...OutputOption) (string, error) {
	return nodeToJSON(e, options...)
}

func (e *Element) YAML(options ...OutputOption) (string, error) {
	return nodeToYAML(e, options...)
}

// XML serializes the fragment's children in order.
func (f *DocumentFragment) XML(options ...OutputOption) (string, error) {
	return nodeToXML(f, options...)
}

func (f *DocumentFragment) WriteXML(dst io.Writer, options ...OutputOption) error {
	return NewTextWriter(options...).Write(dst, f)
}
