package xmlb_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/lestrrat-go/xmlb"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

// eventSink records every event it receives, one line per call, so
// tests can assert on the exact protocol the serializer speaks.
type eventSink struct {
	events []string
}

func (s *eventSink) record(format string, args ...interface{}) {
	s.events = append(s.events, fmt.Sprintf(format, args...))
}

func (s *eventSink) DocType(ctx xmlb.Context, name, publicID, systemID string) error {
	s.record("DocType(%d, %s, %q, %q)", ctx.Level(), name, publicID, systemID)
	return nil
}

func (s *eventSink) Comment(ctx xmlb.Context, data string) error {
	s.record("Comment(%d, %s)", ctx.Level(), data)
	return nil
}

func (s *eventSink) Text(ctx xmlb.Context, data string) error {
	s.record("Text(%d, %s)", ctx.Level(), data)
	return nil
}

func (s *eventSink) CData(ctx xmlb.Context, data string) error {
	s.record("CData(%d, %s)", ctx.Level(), data)
	return nil
}

func (s *eventSink) Instruction(ctx xmlb.Context, target, data string) error {
	s.record("Instruction(%d, %s, %s)", ctx.Level(), target, data)
	return nil
}

func (s *eventSink) BeginElement(ctx xmlb.Context, name string) error {
	s.record("BeginElement(%d, %s)", ctx.Level(), name)
	return nil
}

func (s *eventSink) OpenTagBegin(ctx xmlb.Context, name string) error {
	s.record("OpenTagBegin(%d, %s)", ctx.Level(), name)
	return nil
}

func (s *eventSink) Attributes(ctx xmlb.Context, attrs []xmlb.AttrEvent) error {
	names := make([]string, 0, len(attrs))
	for _, attr := range attrs {
		names = append(names, attr.Name()+"="+attr.Value)
	}
	s.record("Attributes(%d, [%s])", ctx.Level(), strings.Join(names, " "))
	return nil
}

func (s *eventSink) OpenTagEnd(ctx xmlb.Context, name string, selfClosing, void bool) error {
	s.record("OpenTagEnd(%d, %s, %t, %t)", ctx.Level(), name, selfClosing, void)
	return nil
}

func (s *eventSink) CloseTag(ctx xmlb.Context, name string) error {
	s.record("CloseTag(%d, %s)", ctx.Level(), name)
	return nil
}

func (s *eventSink) EndElement(ctx xmlb.Context, name string) error {
	s.record("EndElement(%d, %s)", ctx.Level(), name)
	return nil
}

func TestSerializeEventOrder(t *testing.T) {
	doc := xmlb.New()
	doc.Root("root").Att("a", "1").
		Ele("child").Txt("text").Up().
		Ele("empty")

	var sink eventSink
	if !assert.NoError(t, xmlb.NewSerializer().Serialize(doc, &sink), `Serialize should succeed`) {
		return
	}

	expected := []string{
		"BeginElement(0, root)",
		"OpenTagBegin(0, root)",
		"Attributes(0, [a=1])",
		"OpenTagEnd(0, root, false, false)",
		"BeginElement(1, child)",
		"OpenTagBegin(1, child)",
		"Attributes(1, [])",
		"OpenTagEnd(1, child, false, false)",
		"Text(2, text)",
		"CloseTag(1, child)",
		"EndElement(1, child)",
		"BeginElement(1, empty)",
		"OpenTagBegin(1, empty)",
		"Attributes(1, [])",
		"OpenTagEnd(1, empty, true, false)",
		"EndElement(1, empty)",
		"CloseTag(0, root)",
		"EndElement(0, root)",
	}
	if !assert.Equal(t, expected, sink.events, `event sequence should match`) {
		return
	}
}

// failingSink returns an error from the named event.
type failingSink struct {
	xmlb.NopSink
	err error
}

func (s *failingSink) Text(xmlb.Context, string) error {
	return s.err
}

func TestSerializeErrors(t *testing.T) {
	t.Run("nil node", func(t *testing.T) {
		err := xmlb.NewSerializer().Serialize(nil, xmlb.NopSink{})
		if !assert.ErrorIs(t, err, xmlb.ErrNilNode, `Serialize(nil, sink) should fail`) {
			return
		}
	})
	t.Run("nil sink", func(t *testing.T) {
		doc := xmlb.New()
		doc.Root("root")
		err := xmlb.NewSerializer().Serialize(doc, nil)
		if !assert.ErrorIs(t, err, xmlb.ErrNilSink, `Serialize(doc, nil) should fail`) {
			return
		}
	})
	t.Run("builder error resurfaces", func(t *testing.T) {
		doc := xmlb.New()
		doc.Root("root").Ele("1nvalid")
		err := xmlb.NewSerializer().Serialize(doc, xmlb.NopSink{})
		if !assert.Error(t, err, `a recorded builder error should abort serialization`) {
			return
		}
		if !assert.Equal(t, err, doc.Err(), `the recorded error should be returned as is`) {
			return
		}
	})
	t.Run("sink error aborts", func(t *testing.T) {
		doc := xmlb.New()
		doc.Root("root").Txt("boom")
		sinkErr := errors.New(`sink failure`)
		err := xmlb.NewSerializer().Serialize(doc, &failingSink{err: sinkErr})
		if !assert.ErrorIs(t, err, sinkErr, `the sink error should come back unchanged`) {
			return
		}
	})
	t.Run("unsupported node", func(t *testing.T) {
		doc := xmlb.New()
		attr, err := doc.CreateAttribute("a", "1")
		if !assert.NoError(t, err, `doc.CreateAttribute should succeed`) {
			return
		}
		err = xmlb.NewSerializer().Serialize(attr, xmlb.NopSink{})
		if !assert.Error(t, err, `attributes are not serializable on their own`) {
			return
		}
		var unsupported xmlb.ErrUnsupportedNode
		if !assert.ErrorAs(t, err, &unsupported, `the error should identify the node type`) {
			return
		}
		if !assert.Equal(t, xmlb.AttributeNodeType, unsupported.Type, `node type should be attribute`) {
			return
		}
	})
	t.Run("missing document element", func(t *testing.T) {
		doc := xmlb.New()
		err := xmlb.NewSerializer().Serialize(doc, xmlb.NopSink{})
		if !assert.Error(t, err, `an empty document is not well formed`) {
			return
		}
		var state xmlb.ErrInvalidState
		if !assert.ErrorAs(t, err, &state, `the failure should be an invalid XML state`) {
			return
		}
		if !assert.Contains(t, err.Error(), "invalid XML state", `the message should carry the uniform prefix`) {
			return
		}
	})
	t.Run("missing document element lenient", func(t *testing.T) {
		doc := xmlb.New()
		s := xmlb.NewSerializer(xmlb.WithRequireWellFormed(false))
		if !assert.NoError(t, s.Serialize(doc, xmlb.NopSink{}), `lenient mode should pass an empty document`) {
			return
		}
	})
}

func TestNamespaceSerialization(t *testing.T) {
	t.Run("reuse declared prefix", func(t *testing.T) {
		doc := xmlb.New()
		root := doc.Root("root").Att("xmlns:a", "urn:a")
		root.EleNS("urn:a", "a:child")

		s, err := root.XML()
		if !assert.NoError(t, err, `XML should succeed`) {
			return
		}
		if !assert.Equal(t, `<root xmlns:a="urn:a"><a:child/></root>`, s, `the declared prefix should be reused`) {
			return
		}
	})
	t.Run("sibling generated prefixes", func(t *testing.T) {
		doc := xmlb.New()
		root := doc.Root("root")
		root.Ele("c1").AttNS("urn:one", "a", "1")
		root.Ele("c2").AttNS("urn:two", "a", "2")
		root.Ele("c3").AttNS("urn:three", "a", "3")

		s, err := root.XML()
		if !assert.NoError(t, err, `XML should succeed`) {
			return
		}
		expected := `<root>` +
			`<c1 xmlns:ns1="urn:one" ns1:a="1"/>` +
			`<c2 xmlns:ns2="urn:two" ns2:a="2"/>` +
			`<c3 xmlns:ns3="urn:three" ns3:a="3"/>` +
			`</root>`
		if !assert.Equal(t, expected, s, `generated prefixes should increase across the whole document`) {
			return
		}
	})
	t.Run("default namespace not repeated", func(t *testing.T) {
		doc := xmlb.New()
		root := doc.RootNS("urn:x", "root").Att("xmlns", "urn:x")
		root.Ele("child")

		s, err := root.XML()
		if !assert.NoError(t, err, `XML should succeed`) {
			return
		}
		if !assert.Equal(t, `<root xmlns="urn:x"><child/></root>`, s, `the declaration should appear exactly once`) {
			return
		}
	})
	t.Run("default namespace inheritance", func(t *testing.T) {
		doc := xmlb.New()
		root := doc.RootNS("urn:a", "root")
		root.EleNS("urn:b", "child").Ele("gc")

		s, err := root.XML()
		if !assert.NoError(t, err, `XML should succeed`) {
			return
		}
		if !assert.Equal(t, `<root xmlns="urn:a"><child xmlns="urn:b"><gc/></child></root>`, s, `the grandchild should inherit urn:b silently`) {
			return
		}
	})
	t.Run("xml prefix needs no declaration", func(t *testing.T) {
		doc := xmlb.New()
		root := doc.Root("root")
		root.AttNS("http://www.w3.org/XML/1998/namespace", "xml:lang", "en")

		s, err := root.XML()
		if !assert.NoError(t, err, `XML should succeed`) {
			return
		}
		if !assert.Equal(t, `<root xml:lang="en"/>`, s, `the xml prefix is always bound`) {
			return
		}
	})
	t.Run("attribute reuses its own prefix", func(t *testing.T) {
		doc := xmlb.New()
		root := doc.Root("root")
		root.AttNS("urn:p", "p:a", "v")

		s, err := root.XML()
		if !assert.NoError(t, err, `XML should succeed`) {
			return
		}
		if !assert.Equal(t, `<root xmlns:p="urn:p" p:a="v"/>`, s, `an unclaimed attribute prefix should be kept`) {
			return
		}
	})
	t.Run("attribute prefix declared once", func(t *testing.T) {
		doc := xmlb.New()
		root := doc.Root("root")
		root.AttNS("urn:p", "p:a", "1")
		root.AttNS("urn:p", "p:b", "2")

		s, err := root.XML()
		if !assert.NoError(t, err, `XML should succeed`) {
			return
		}
		if !assert.Equal(t, `<root xmlns:p="urn:p" p:a="1" p:b="2"/>`, s, `the second attribute should reuse the binding`) {
			return
		}
	})
	t.Run("declaration precedes its attribute", func(t *testing.T) {
		doc := xmlb.New()
		root := doc.Root("root").Att("before", "1")
		root.AttNS("urn:q", "a", "2")
		root.Att("after", "3")

		s, err := root.XML()
		if !assert.NoError(t, err, `XML should succeed`) {
			return
		}
		if !assert.Equal(t, `<root before="1" xmlns:ns1="urn:q" ns1:a="2" after="3"/>`, s, `the synthesized declaration should sit immediately before its attribute`) {
			return
		}
	})
	t.Run("element with xmlns prefix", func(t *testing.T) {
		doc := xmlb.New()
		e, err := doc.CreateElementNS("http://www.w3.org/2000/xmlns/", "xmlns:foo")
		if !assert.NoError(t, err, `creating the element should succeed`) {
			return
		}

		_, err = e.XML()
		if !assert.Error(t, err, `well-formed serialization should reject the xmlns prefix on an element`) {
			return
		}
		if !assert.Contains(t, err.Error(), "xmlns prefix", `the reason should name the rule`) {
			return
		}

		s, err := e.XML(xmlb.WithRequireWellFormed(false))
		if !assert.NoError(t, err, `lenient serialization should pass`) {
			return
		}
		if !assert.Equal(t, `<xmlns:foo/>`, s, `lenient output keeps the prefix`) {
			return
		}
	})
	t.Run("prefix undeclaration rejected", func(t *testing.T) {
		doc := xmlb.New()
		root := doc.Root("root").Att("xmlns:p", "")

		_, err := root.XML()
		if !assert.Error(t, err, `xmlns:p="" cannot round trip through a conforming parser`) {
			return
		}
		if !assert.Contains(t, err.Error(), "undeclare", `the reason should name the rule`) {
			return
		}

		s, err := root.XML(xmlb.WithRequireWellFormed(false))
		if !assert.NoError(t, err, `lenient serialization should pass`) {
			return
		}
		if !assert.Equal(t, `<root xmlns:p=""/>`, s, `lenient output keeps the undeclaration`) {
			return
		}
	})
	t.Run("xmlns namespace is reserved", func(t *testing.T) {
		doc := xmlb.New()
		root := doc.Root("root").Att("xmlns:p", "http://www.w3.org/2000/xmlns/")

		_, err := root.XML()
		if !assert.Error(t, err, `binding a prefix to the xmlns namespace should fail`) {
			return
		}
		if !assert.Contains(t, err.Error(), "reserved", `the reason should name the rule`) {
			return
		}
	})
	t.Run("undeclared default then child without namespace", func(t *testing.T) {
		doc := xmlb.New()
		root := doc.RootNS("urn:a", "root")
		child, err := doc.CreateElement("child")
		if !assert.NoError(t, err, `creating the child should succeed`) {
			return
		}
		if !assert.NoError(t, root.AddChild(child), `adding the child should succeed`) {
			return
		}

		s, err := root.XML()
		if !assert.NoError(t, err, `XML should succeed`) {
			return
		}
		if !assert.Equal(t, `<root xmlns="urn:a"><child xmlns=""/></root>`, s, `a child in no namespace needs an undeclaration`) {
			return
		}
	})
}

func TestDuplicateAttributes(t *testing.T) {
	buildPlain := func() (*xmlb.Document, *xmlb.Element) {
		doc := xmlb.New()
		root := doc.Root("root")
		for _, v := range []string{"1", "2"} {
			attr, err := doc.CreateAttribute("a", v)
			if err != nil {
				t.Fatalf("CreateAttribute failed: %s", err)
			}
			if err := root.AppendAttribute(attr); err != nil {
				t.Fatalf("AppendAttribute failed: %s", err)
			}
		}
		return doc, root
	}

	t.Run("well-formed", func(t *testing.T) {
		_, root := buildPlain()
		_, err := root.XML()
		if !assert.ErrorIs(t, err, xmlb.ErrDuplicateAttribute, `duplicates should be rejected`) {
			return
		}
	})
	t.Run("lenient", func(t *testing.T) {
		_, root := buildPlain()
		s, err := root.XML(xmlb.WithRequireWellFormed(false))
		if !assert.NoError(t, err, `lenient mode should emit both`) {
			return
		}
		if !assert.Equal(t, `<root a="1" a="2"/>`, s, `both attribute instances should appear`) {
			return
		}
	})
	t.Run("well-formed with namespaces", func(t *testing.T) {
		doc := xmlb.New()
		root := doc.Root("root")
		for _, prefix := range []string{"p", "q"} {
			attr, err := doc.CreateAttributeNS("urn:x", prefix+":a", "v")
			if !assert.NoError(t, err, `CreateAttributeNS should succeed`) {
				return
			}
			if !assert.NoError(t, root.AppendAttribute(attr), `AppendAttribute should succeed`) {
				return
			}
		}
		_, err := root.XML()
		if !assert.ErrorIs(t, err, xmlb.ErrDuplicateAttribute, `two prefixes for one (namespace, local name) pair are still duplicates`) {
			return
		}
	})
}

func TestFastPathEquivalence(t *testing.T) {
	build := func(doc *xmlb.Document) {
		root := doc.Root("root").Att("a", "1&2")
		root.Ele("child").Txt("x < y").Up().Ele("empty")
		root.Com("note")
	}

	plain := xmlb.New()
	build(plain)

	forced := xmlb.New()
	build(forced)
	// an orphan namespaced node switches the document to the
	// namespace-aware walk without changing the tree
	if _, err := forced.CreateElementNS("urn:x", "unattached"); !assert.NoError(t, err, `CreateElementNS should succeed`) {
		return
	}
	if !assert.True(t, forced.HasNamespaces(), `the document should report namespace use`) {
		return
	}

	plainOut, err := plain.XML()
	if !assert.NoError(t, err, `plain XML should succeed`) {
		return
	}
	forcedOut, err := forced.XML()
	if !assert.NoError(t, err, `forced XML should succeed`) {
		return
	}
	if !assert.Equal(t, plainOut, forcedOut, `both walks should produce identical output`) {
		return
	}
}

func TestTextAndAttributeEscaping(t *testing.T) {
	t.Run("text default mode", func(t *testing.T) {
		doc := xmlb.New()
		root := doc.Root("root").Txt("a & b < c > d")
		s, err := root.XML()
		if !assert.NoError(t, err, `XML should succeed`) {
			return
		}
		if !assert.Equal(t, `<root>a &amp; b &lt; c &gt; d</root>`, s, `text escaping should cover & < >`) {
			return
		}
	})
	t.Run("attribute default mode", func(t *testing.T) {
		doc := xmlb.New()
		root := doc.Root("root").Att("a", `say "hi" & <go>`)
		s, err := root.XML()
		if !assert.NoError(t, err, `XML should succeed`) {
			return
		}
		if !assert.Equal(t, `<root a="say &quot;hi&quot; &amp; &lt;go&gt;"/>`, s, `attribute escaping should add the double quote`) {
			return
		}
	})
	t.Run("no double encoding keeps entities", func(t *testing.T) {
		doc := xmlb.New()
		root := doc.Root("root").Txt("a &amp; b &unknown; c")
		s, err := root.XML(xmlb.WithNoDoubleEncoding(true))
		if !assert.NoError(t, err, `XML should succeed`) {
			return
		}
		if !assert.Equal(t, `<root>a &amp; b &amp;unknown; c</root>`, s, `recognized entities pass through, others are escaped`) {
			return
		}
	})
	t.Run("no double encoding attribute whitespace", func(t *testing.T) {
		doc := xmlb.New()
		root := doc.Root("root").Att("a", "x\ty\nz\r")
		s, err := root.XML(xmlb.WithNoDoubleEncoding(true))
		if !assert.NoError(t, err, `XML should succeed`) {
			return
		}
		if !assert.Equal(t, `<root a="x&#x9;y&#xA;z&#xD;"/>`, s, `whitespace should become numeric references`) {
			return
		}
	})
	t.Run("default mode leaves attribute whitespace alone", func(t *testing.T) {
		doc := xmlb.New()
		root := doc.Root("root").Att("a", "x\ty")
		s, err := root.XML()
		if !assert.NoError(t, err, `XML should succeed`) {
			return
		}
		if !assert.Equal(t, "<root a=\"x\ty\"/>", s, `the default table does not touch tabs`) {
			return
		}
	})
	t.Run("no double encoding text carriage return", func(t *testing.T) {
		doc := xmlb.New()
		root := doc.Root("root").Txt("a\rb")
		s, err := root.XML(xmlb.WithNoDoubleEncoding(true))
		if !assert.NoError(t, err, `XML should succeed`) {
			return
		}
		if !assert.Equal(t, `<root>a&#xD;b</root>`, s, `carriage returns in text become numeric references`) {
			return
		}
	})
	t.Run("invalid text characters", func(t *testing.T) {
		doc := xmlb.New()
		root := doc.Root("root").Txt("a\x00b")
		_, err := root.XML()
		if !assert.Error(t, err, `NUL is never a legal XML character`) {
			return
		}
		var state xmlb.ErrInvalidState
		if !assert.ErrorAs(t, err, &state, `the failure should be an invalid XML state`) {
			return
		}
	})
}

func TestCommentSerialization(t *testing.T) {
	t.Run("well-formed rejects double hyphen", func(t *testing.T) {
		doc := xmlb.New()
		root := doc.Root("root").Com("a--b")
		_, err := root.XML()
		if !assert.Error(t, err, `comments may not contain --`) {
			return
		}
	})
	t.Run("well-formed rejects trailing hyphen", func(t *testing.T) {
		doc := xmlb.New()
		root := doc.Root("root").Com("ends with -")
		_, err := root.XML()
		if !assert.Error(t, err, `comments may not end with -`) {
			return
		}
	})
	t.Run("lenient passes through", func(t *testing.T) {
		doc := xmlb.New()
		root := doc.Root("root").Com("a--b")
		s, err := root.XML(xmlb.WithRequireWellFormed(false))
		if !assert.NoError(t, err, `lenient mode should emit the comment`) {
			return
		}
		if !assert.Equal(t, `<root><!--a--b--></root>`, s, `comment data is emitted unchanged`) {
			return
		}
	})
	t.Run("comment data is not escaped", func(t *testing.T) {
		doc := xmlb.New()
		root := doc.Root("root").Com("a < b & c")
		s, err := root.XML()
		if !assert.NoError(t, err, `XML should succeed`) {
			return
		}
		if !assert.Equal(t, `<root><!--a < b & c--></root>`, s, `comment contents skip the escaping tables`) {
			return
		}
	})
}

func TestCDataSerialization(t *testing.T) {
	t.Run("raw content", func(t *testing.T) {
		doc := xmlb.New()
		root := doc.Root("root").Dat("if (a < b && c > d) {}")
		s, err := root.XML()
		if !assert.NoError(t, err, `XML should succeed`) {
			return
		}
		if !assert.Equal(t, `<root><![CDATA[if (a < b && c > d) {}]]></root>`, s, `CDATA content is emitted raw`) {
			return
		}
	})
	t.Run("terminator rejected at creation", func(t *testing.T) {
		doc := xmlb.New()
		_, err := doc.CreateCData([]byte("a]]>b"))
		if !assert.Error(t, err, `"]]>" cannot appear inside a CDATA section`) {
			return
		}
	})
}

func TestInstructionSerialization(t *testing.T) {
	t.Run("target and data", func(t *testing.T) {
		doc := xmlb.New()
		root := doc.Root("root").Ins("xml-stylesheet", `href="a.css"`)
		s, err := root.XML()
		if !assert.NoError(t, err, `XML should succeed`) {
			return
		}
		if !assert.Equal(t, `<root><?xml-stylesheet href="a.css"?></root>`, s, `instruction form should be <?target data?>`) {
			return
		}
	})
	t.Run("bare target", func(t *testing.T) {
		doc := xmlb.New()
		root := doc.Root("root").Ins("marker", "")
		s, err := root.XML()
		if !assert.NoError(t, err, `XML should succeed`) {
			return
		}
		if !assert.Equal(t, `<root><?marker?></root>`, s, `empty data drops the separator space`) {
			return
		}
	})
	t.Run("xml target rejected", func(t *testing.T) {
		doc := xmlb.New()
		root := doc.Root("root").Ins("XML", "data")
		_, err := root.XML()
		if !assert.Error(t, err, `the xml target is reserved, case insensitively`) {
			return
		}
	})
	t.Run("terminator in data rejected", func(t *testing.T) {
		doc := xmlb.New()
		root := doc.Root("root").Ins("pi", "a?>b")
		_, err := root.XML()
		if !assert.Error(t, err, `"?>" cannot appear in instruction data`) {
			return
		}
	})
}

func TestVoidElements(t *testing.T) {
	const xhtml = "http://www.w3.org/1999/xhtml"

	t.Run("void element", func(t *testing.T) {
		doc := xmlb.New()
		root := doc.RootNS(xhtml, "div")
		root.EleNS(xhtml, "br")
		s, err := root.XML()
		if !assert.NoError(t, err, `XML should succeed`) {
			return
		}
		if !assert.Equal(t, `<div xmlns="http://www.w3.org/1999/xhtml"><br/></div>`, s, `void elements self close`) {
			return
		}
	})
	t.Run("empty non-void html element", func(t *testing.T) {
		doc := xmlb.New()
		root := doc.RootNS(xhtml, "div")
		s, err := root.XML()
		if !assert.NoError(t, err, `XML should succeed`) {
			return
		}
		if !assert.Equal(t, `<div xmlns="http://www.w3.org/1999/xhtml"></div>`, s, `empty html elements keep an explicit close tag`) {
			return
		}
	})
	t.Run("template contents skipped", func(t *testing.T) {
		doc := xmlb.New()
		root := doc.RootNS(xhtml, "template")
		root.Ele("span").Txt("hidden")
		s, err := root.XML()
		if !assert.NoError(t, err, `XML should succeed`) {
			return
		}
		if !assert.Equal(t, `<template xmlns="http://www.w3.org/1999/xhtml"></template>`, s, `template children live in a separate tree`) {
			return
		}
	})
	t.Run("empty non-html element self closes", func(t *testing.T) {
		doc := xmlb.New()
		root := doc.Root("root")
		s, err := root.XML()
		if !assert.NoError(t, err, `XML should succeed`) {
			return
		}
		if !assert.Equal(t, `<root/>`, s, `empty elements outside html self close`) {
			return
		}
	})
}
