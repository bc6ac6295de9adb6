package xmlb_test

import (
	"strings"
	"testing"

	"github.com/lestrrat-go/xmlb"
	"github.com/stretchr/testify/assert"
)

func TestFromObject(t *testing.T) {
	t.Run("basic", func(t *testing.T) {
		doc, err := xmlb.FromObject(map[string]any{
			"root": map[string]any{
				"@id": "1",
				"b":   "2",
				"a":   "1",
			},
		})
		if !assert.NoError(t, err, `FromObject should succeed`) {
			return
		}
		s, err := doc.XML(xmlb.WithHeadless(true))
		if !assert.NoError(t, err, `XML should succeed`) {
			return
		}
		if !assert.Equal(t, `<root id="1"><a>1</a><b>2</b></root>`, s, `plain map entries lay out in sorted key order`) {
			return
		}
	})
	t.Run("repeats", func(t *testing.T) {
		doc, err := xmlb.FromObject(map[string]any{
			"root": map[string]any{
				"item": []any{"x", "y"},
			},
		})
		if !assert.NoError(t, err, `FromObject should succeed`) {
			return
		}
		s, err := doc.XML(xmlb.WithHeadless(true))
		if !assert.NoError(t, err, `XML should succeed`) {
			return
		}
		if !assert.Equal(t, `<root><item>x</item><item>y</item></root>`, s, `a slice should repeat its key`) {
			return
		}
	})
	t.Run("data keys", func(t *testing.T) {
		doc, err := xmlb.FromObject(map[string]any{
			"root": map[string]any{
				"!": "note",
				"#": "text",
				"$": "cdata",
				"?": "pi data",
			},
		})
		if !assert.NoError(t, err, `FromObject should succeed`) {
			return
		}
		s, err := doc.XML(xmlb.WithHeadless(true))
		if !assert.NoError(t, err, `XML should succeed`) {
			return
		}
		if !assert.Equal(t, `<root><!--note-->text<![CDATA[cdata]]><?pi data?></root>`, s, `the data keys should rebuild their node kinds`) {
			return
		}
	})
	t.Run("scalar values", func(t *testing.T) {
		doc, err := xmlb.FromObject(map[string]any{
			"root": map[string]any{
				"count": 7,
				"flag":  true,
				"ratio": 1.5,
				"void":  nil,
			},
		})
		if !assert.NoError(t, err, `FromObject should succeed`) {
			return
		}
		s, err := doc.XML(xmlb.WithHeadless(true))
		if !assert.NoError(t, err, `XML should succeed`) {
			return
		}
		if !assert.Equal(t, `<root><count>7</count><flag>true</flag><ratio>1.5</ratio><void/></root>`, s, `scalars should render with their natural formatting`) {
			return
		}
	})
	t.Run("default namespace", func(t *testing.T) {
		doc, err := xmlb.FromObject(map[string]any{
			"root": map[string]any{
				"@xmlns": "urn:x",
				"child":  "v",
			},
		})
		if !assert.NoError(t, err, `FromObject should succeed`) {
			return
		}
		if !assert.True(t, doc.HasNamespaces(), `the declaration should namespace the elements`) {
			return
		}
		if !assert.Equal(t, "urn:x", doc.DocumentElement().URI(), `the root should pick up its own declaration`) {
			return
		}
		s, err := doc.XML(xmlb.WithHeadless(true))
		if !assert.NoError(t, err, `XML should succeed`) {
			return
		}
		if !assert.Equal(t, `<root xmlns="urn:x"><child>v</child></root>`, s, `the declaration should appear exactly once`) {
			return
		}
	})
	t.Run("prefixed namespace", func(t *testing.T) {
		doc, err := xmlb.FromObject(map[string]any{
			"p:root": map[string]any{
				"@xmlns:p": "urn:p",
				"p:child":  "v",
			},
		})
		if !assert.NoError(t, err, `FromObject should succeed`) {
			return
		}
		s, err := doc.XML(xmlb.WithHeadless(true))
		if !assert.NoError(t, err, `XML should succeed`) {
			return
		}
		if !assert.Equal(t, `<p:root xmlns:p="urn:p"><p:child>v</p:child></p:root>`, s, `prefixed declarations should resolve for descendants`) {
			return
		}
	})
	t.Run("document options", func(t *testing.T) {
		doc, err := xmlb.FromObject(map[string]any{"root": nil}, xmlb.WithVersion("1.1"))
		if !assert.NoError(t, err, `FromObject should succeed`) {
			return
		}
		s, err := doc.XML()
		if !assert.NoError(t, err, `XML should succeed`) {
			return
		}
		if !assert.Equal(t, "<?xml version=\"1.1\"?>\n<root/>", s, `document options should pass through`) {
			return
		}
	})
	t.Run("errors", func(t *testing.T) {
		_, err := xmlb.FromObject(map[string]any{})
		if !assert.Error(t, err, `an empty object holds no root element`) {
			return
		}

		_, err = xmlb.FromObject(map[string]any{"@a": "1"})
		if !assert.Error(t, err, `a top level attribute has no element to attach to`) {
			return
		}

		_, err = xmlb.FromObject(map[string]any{"#": "x"})
		if !assert.Error(t, err, `top level character data has no element to attach to`) {
			return
		}
	})
}

func TestFromJSON(t *testing.T) {
	t.Run("order preserved", func(t *testing.T) {
		doc, err := xmlb.FromJSON(strings.NewReader(`{"order":{"@id":"1","z":"last","a":"first"}}`))
		if !assert.NoError(t, err, `FromJSON should succeed`) {
			return
		}
		s, err := doc.XML(xmlb.WithHeadless(true))
		if !assert.NoError(t, err, `XML should succeed`) {
			return
		}
		if !assert.Equal(t, `<order id="1"><z>last</z><a>first</a></order>`, s, `JSON source order should survive`) {
			return
		}
	})
	t.Run("round trip", func(t *testing.T) {
		src := `{"order":{"@id":"1","item":["beef","pork"]}}`
		doc, err := xmlb.FromJSON(strings.NewReader(src))
		if !assert.NoError(t, err, `FromJSON should succeed`) {
			return
		}
		out, err := doc.JSON()
		if !assert.NoError(t, err, `JSON should succeed`) {
			return
		}
		if !assert.Equal(t, src, out, `JSON to document to JSON should be stable`) {
			return
		}
	})
	t.Run("number formatting", func(t *testing.T) {
		doc, err := xmlb.FromJSON(strings.NewReader(`{"price":{"v":1.50}}`))
		if !assert.NoError(t, err, `FromJSON should succeed`) {
			return
		}
		s, err := doc.XML(xmlb.WithHeadless(true))
		if !assert.NoError(t, err, `XML should succeed`) {
			return
		}
		if !assert.Equal(t, `<price><v>1.50</v></price>`, s, `numbers should keep their source formatting`) {
			return
		}
	})
	t.Run("duplicate keys", func(t *testing.T) {
		doc, err := xmlb.FromJSON(strings.NewReader(`{"root":{"item":"a","item":"b"}}`))
		if !assert.NoError(t, err, `FromJSON should succeed`) {
			return
		}
		s, err := doc.XML(xmlb.WithHeadless(true))
		if !assert.NoError(t, err, `XML should succeed`) {
			return
		}
		if !assert.Equal(t, `<root><item>a</item><item>b</item></root>`, s, `duplicate keys should fold into repeats`) {
			return
		}
	})
	t.Run("top level must be an object", func(t *testing.T) {
		_, err := xmlb.FromJSON(strings.NewReader(`[1,2]`))
		if !assert.Error(t, err, `arrays cannot form a document`) {
			return
		}
	})
	t.Run("malformed input", func(t *testing.T) {
		_, err := xmlb.FromJSON(strings.NewReader(`{"a":`))
		if !assert.Error(t, err, `truncated JSON should fail`) {
			return
		}
	})
}
