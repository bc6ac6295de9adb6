package xmlb

import (
	"io"

	"github.com/lestrrat-go/xmlb/internal/orderedmap"
	"gopkg.in/yaml.v3"
)

// YAMLWriter renders node trees as YAML in the object notation of
// MapWriter. Document order survives because the writer hands yaml.v3
// an explicit node tree instead of a Go map.
type YAMLWriter struct {
	mw *MapWriter
}

func NewYAMLWriter(options ...OutputOption) *YAMLWriter {
	return &YAMLWriter{mw: NewMapWriter(options...)}
}

func (yw *YAMLWriter) Write(dst io.Writer, n Node) error {
	img, err := yw.mw.buildImage(n)
	if err != nil {
		return err
	}

	enc := yaml.NewEncoder(dst)
	enc.SetIndent(2)
	if err := enc.Encode(yamlValue(img)); err != nil {
		return err
	}
	return enc.Close()
}

func yamlValue(v any) *yaml.Node {
	switch v := v.(type) {
	case *orderedmap.Map[string, any]:
		node := &yaml.Node{Kind: yaml.MappingNode}
		for k, item := range v.Range() {
			node.Content = append(node.Content, yamlScalar(k), yamlValue(item))
		}
		return node
	case []any:
		node := &yaml.Node{Kind: yaml.SequenceNode}
		for _, item := range v {
			node.Content = append(node.Content, yamlValue(item))
		}
		return node
	case string:
		return yamlScalar(v)
	default:
		// the map image only ever holds maps, slices and strings
		return yamlScalar("")
	}
}

// yamlScalar forces the string tag so values like "true" and "123"
// stay quoted strings instead of being re-typed by the YAML encoder.
func yamlScalar(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}
