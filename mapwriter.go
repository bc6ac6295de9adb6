package xmlb

import (
	"github.com/lestrrat-go/xmlb/internal/orderedmap"
	"github.com/pkg/errors"
)

// MapWriter converts node trees into generic Go maps using the object
// notation conventions: "@name" keys hold attributes, "#" character
// data, "!" comments, "$" CDATA sections, "?" processing
// instructions. Repeated names collect into slices, and an element
// whose only content is character data collapses to a plain string.
//
// Map output is lenient by default and keeps recognized entity
// references intact, so that a tree converted to a map and rebuilt
// with FromObject round-trips without double escaping. Pass
// WithRequireWellFormed(true) to apply the same checks as text output.
type MapWriter struct {
	serializer *Serializer
}

func NewMapWriter(options ...OutputOption) *MapWriter {
	merged := append([]OutputOption{
		WithRequireWellFormed(false),
		WithNoDoubleEncoding(true),
	}, options...)
	var serializeOptions []SerializeOption
	for _, option := range merged {
		if so, ok := option.(SerializeOption); ok {
			serializeOptions = append(serializeOptions, so)
		}
	}
	return &MapWriter{serializer: NewSerializer(serializeOptions...)}
}

// Build serializes n and returns its map image. The returned maps are
// plain Go maps and do not keep document order; use the JSON or YAML
// writers when order matters.
func (mw *MapWriter) Build(n Node) (map[string]any, error) {
	img, err := mw.buildImage(n)
	if err != nil {
		return nil, err
	}
	return plainImage(img), nil
}

// buildImage returns the order-preserving form of the map notation.
// The JSON and YAML writers render from this image directly.
func (mw *MapWriter) buildImage(n Node) (*orderedmap.Map[string, any], error) {
	ms := newMapSink()
	if err := mw.serializer.Serialize(n, ms); err != nil {
		return nil, err
	}
	return ms.result()
}

func plainImage(m *orderedmap.Map[string, any]) map[string]any {
	out := make(map[string]any, m.Len())
	for k, v := range m.Range() {
		out[k] = plainValue(v)
	}
	return out
}

func plainValue(v any) any {
	switch v := v.(type) {
	case *orderedmap.Map[string, any]:
		return plainImage(v)
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = plainValue(item)
		}
		return out
	default:
		return v
	}
}

type mapFrame struct {
	name string
	m    *orderedmap.Map[string, any]
}

// mapSink folds serialization events into nested ordered maps. The
// bottom frame stands in for the document itself, so top level
// comments and instructions have a place to land.
type mapSink struct {
	NopSink
	stack []mapFrame
}

func newMapSink() *mapSink {
	return &mapSink{
		stack: []mapFrame{{m: orderedmap.New[string, any]()}},
	}
}

func (ms *mapSink) current() *orderedmap.Map[string, any] {
	return ms.stack[len(ms.stack)-1].m
}

// addValue stores value under key, folding repeats into a slice.
func addValue(m *orderedmap.Map[string, any], key string, value any) {
	existing, ok := m.Get(key)
	if !ok {
		m.Replace(key, value)
		return
	}
	if list, isList := existing.([]any); isList {
		m.Replace(key, append(list, value))
		return
	}
	m.Replace(key, []any{existing, value})
}

func (ms *mapSink) Text(_ Context, data string) error {
	if data == "" {
		return nil
	}
	addValue(ms.current(), "#", data)
	return nil
}

func (ms *mapSink) CData(_ Context, data string) error {
	addValue(ms.current(), "$", data)
	return nil
}

func (ms *mapSink) Comment(_ Context, data string) error {
	addValue(ms.current(), "!", data)
	return nil
}

func (ms *mapSink) Instruction(_ Context, target, data string) error {
	if data != "" {
		target += " " + data
	}
	addValue(ms.current(), "?", target)
	return nil
}

func (ms *mapSink) BeginElement(_ Context, name string) error {
	ms.stack = append(ms.stack, mapFrame{name: name, m: orderedmap.New[string, any]()})
	return nil
}

func (ms *mapSink) Attributes(_ Context, attrs []AttrEvent) error {
	for _, attr := range attrs {
		addValue(ms.current(), "@"+attr.Name(), attr.Value)
	}
	return nil
}

func (ms *mapSink) EndElement(_ Context, name string) error {
	frame := ms.stack[len(ms.stack)-1]
	ms.stack = ms.stack[:len(ms.stack)-1]

	var value any = frame.m
	if frame.m.Len() == 1 {
		if text, ok := frame.m.Get("#"); ok {
			// a text-only element collapses to its character data
			value = text
		}
	}
	addValue(ms.current(), frame.name, value)
	return nil
}

func (ms *mapSink) result() (*orderedmap.Map[string, any], error) {
	if len(ms.stack) != 1 {
		return nil, errors.New(`unbalanced element events`)
	}
	return ms.stack[0].m, nil
}
