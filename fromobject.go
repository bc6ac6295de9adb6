package xmlb

import (
	"encoding/json"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/lestrrat-go/pdebug/v3"
	"github.com/lestrrat-go/xmlb/internal/orderedmap"
	"github.com/pkg/errors"
)

// FromObject builds a document from map notation, the inverse of
// MapWriter: "@name" entries become attributes, "#" character data,
// "!" comments, "$" CDATA sections, "?" processing instructions, and
// everything else elements, with slices repeating their key. Plain Go
// maps have no order, so sibling entries are laid out in sorted key
// order; go through FromJSON when the source order matters.
func FromObject(obj map[string]any, options ...DocumentOption) (*Document, error) {
	doc := CreateDocument(options...)
	if err := buildEntries(doc, nil, obj); err != nil {
		return nil, err
	}
	return finishObjectDocument(doc)
}

// FromJSON builds a document from JSON text in the object notation,
// keeping the key order of the JSON source.
func FromJSON(src io.Reader, options ...DocumentOption) (*Document, error) {
	if pdebug.Enabled {
		g := pdebug.FuncMarker()
		defer g.End()
	}

	dec := json.NewDecoder(src)
	dec.UseNumber()
	root, err := decodeJSONValue(dec)
	if err != nil {
		return nil, errors.Wrap(err, `failed to decode JSON`)
	}
	m, ok := root.(*orderedmap.Map[string, any])
	if !ok {
		return nil, errors.New(`the top level JSON value must be an object`)
	}

	doc := CreateDocument(options...)
	if err := buildEntries(doc, nil, m); err != nil {
		return nil, err
	}
	return finishObjectDocument(doc)
}

func finishObjectDocument(doc *Document) (*Document, error) {
	if err := doc.Err(); err != nil {
		return nil, err
	}
	if doc.DocumentElement() == nil {
		return nil, errors.New(`the object holds no root element`)
	}
	return doc, nil
}

// buildEntries replays the entries of an object container as builder
// calls. A nil parent stands for the document itself.
func buildEntries(doc *Document, parent *Element, container any) error {
	switch c := container.(type) {
	case *orderedmap.Map[string, any]:
		for k, v := range c.Range() {
			if err := buildEntry(doc, parent, k, v); err != nil {
				return err
			}
		}
		return nil
	case map[string]any:
		keys := make([]string, 0, len(c))
		for k := range c {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if err := buildEntry(doc, parent, k, c[k]); err != nil {
				return err
			}
		}
		return nil
	default:
		return errors.Errorf(`expected an object, got %T`, container)
	}
}

func buildEntry(doc *Document, parent *Element, key string, value any) error {
	switch {
	case strings.HasPrefix(key, "@"):
		if parent == nil {
			return errors.Errorf(`attribute %s requires an element`, key)
		}
		s, err := scalarString(value)
		if err != nil {
			return errors.Wrapf(err, `invalid value for attribute %s`, key)
		}
		return parent.SetAttribute(key[1:], s)
	case key == "#":
		if parent == nil {
			return errors.New(`character data requires an element`)
		}
		return eachValue(value, func(v any) error {
			s, err := scalarString(v)
			if err != nil {
				return errors.Wrap(err, `invalid character data`)
			}
			t, err := doc.CreateText([]byte(s))
			if err != nil {
				return err
			}
			return parent.AddChild(t)
		})
	case key == "$":
		if parent == nil {
			return errors.New(`a CDATA section requires an element`)
		}
		return eachValue(value, func(v any) error {
			s, err := scalarString(v)
			if err != nil {
				return errors.Wrap(err, `invalid CDATA content`)
			}
			c, err := doc.CreateCData([]byte(s))
			if err != nil {
				return err
			}
			return parent.AddChild(c)
		})
	case key == "!":
		return eachValue(value, func(v any) error {
			s, err := scalarString(v)
			if err != nil {
				return errors.Wrap(err, `invalid comment content`)
			}
			c, err := doc.CreateComment([]byte(s))
			if err != nil {
				return err
			}
			return attachChild(doc, parent, c)
		})
	case key == "?":
		return eachValue(value, func(v any) error {
			s, err := scalarString(v)
			if err != nil {
				return errors.Wrap(err, `invalid processing instruction`)
			}
			target, data, _ := strings.Cut(s, " ")
			pi, err := doc.CreateInstruction(target, data)
			if err != nil {
				return err
			}
			return attachChild(doc, parent, pi)
		})
	default:
		return eachValue(value, func(v any) error {
			return buildObjectElement(doc, parent, key, v)
		})
	}
}

func buildObjectElement(doc *Document, parent *Element, name string, value any) error {
	uri, explicit := ownNamespace(name, value)
	if !explicit && parent != nil {
		prefix, _ := SplitQName(name)
		uri = parent.lookupNamespaceURI(prefix)
	}

	var child *Element
	var err error
	if uri != "" {
		child, err = doc.CreateElementNS(uri, name)
	} else {
		child, err = doc.CreateElement(name)
	}
	if err != nil {
		return err
	}
	if err := attachChild(doc, parent, child); err != nil {
		return err
	}

	switch v := value.(type) {
	case *orderedmap.Map[string, any], map[string]any:
		return buildEntries(doc, child, v)
	case nil:
		return nil
	default:
		s, err := scalarString(v)
		if err != nil {
			return errors.Wrapf(err, `invalid content for element %s`, name)
		}
		if s == "" {
			return nil
		}
		t, err := doc.CreateText([]byte(s))
		if err != nil {
			return err
		}
		return child.AddChild(t)
	}
}

// ownNamespace looks for an xmlns declaration binding name's prefix
// among the attribute entries of the value itself. Namespaces declared
// on an ancestor are resolved through the usual scope lookup instead.
func ownNamespace(name string, value any) (string, bool) {
	prefix, _ := SplitQName(name)
	declKey := "@xmlns"
	if prefix != "" {
		declKey = "@xmlns:" + prefix
	}

	var decl any
	var ok bool
	switch v := value.(type) {
	case *orderedmap.Map[string, any]:
		decl, ok = v.Get(declKey)
	case map[string]any:
		decl, ok = v[declKey]
	}
	if !ok {
		return "", false
	}
	s, err := scalarString(decl)
	if err != nil {
		return "", false
	}
	return s, true
}

func attachChild(doc *Document, parent *Element, n Node) error {
	if parent != nil {
		return parent.AddChild(n)
	}
	return doc.AddChild(n)
}

func eachValue(value any, fn func(any) error) error {
	list, ok := value.([]any)
	if !ok {
		return fn(value)
	}
	for _, item := range list {
		if err := fn(item); err != nil {
			return err
		}
	}
	return nil
}

// scalarString renders a scalar object value as text. JSON numbers
// pass through verbatim so a value like "1.50" keeps its formatting.
func scalarString(v any) (string, error) {
	switch v := v.(type) {
	case string:
		return v, nil
	case json.Number:
		return v.String(), nil
	case bool:
		return strconv.FormatBool(v), nil
	case int:
		return strconv.Itoa(v), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64), nil
	case nil:
		return "", nil
	default:
		return "", errors.Errorf(`unsupported value of type %T`, v)
	}
}

// decodeJSONValue reads one JSON value off the decoder, turning
// objects into ordered maps so document order survives the round trip.
// Duplicate keys fold into slices the same way repeated elements do.
func decodeJSONValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	return decodeJSONToken(dec, tok)
}

func decodeJSONToken(dec *json.Decoder, tok json.Token) (any, error) {
	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}

	switch delim {
	case '{':
		m := orderedmap.New[string, any]()
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := keyTok.(string)
			if !ok {
				return nil, errors.Errorf(`expected an object key, got %v`, keyTok)
			}
			value, err := decodeJSONValue(dec)
			if err != nil {
				return nil, err
			}
			addValue(m, key, value)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return m, nil
	case '[':
		list := []any{}
		for dec.More() {
			value, err := decodeJSONValue(dec)
			if err != nil {
				return nil, err
			}
			list = append(list, value)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return list, nil
	default:
		return nil, errors.Errorf(`unexpected delimiter %v`, delim)
	}
}
