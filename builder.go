package xmlb

// New creates an empty document ready for fluent construction. It is
// the usual entry point:
//
//	doc := xmlb.New()
//	doc.Root("order").Att("id", "1").Ele("item").Txt("beef")
//	s, err := doc.XML()
//
// Builder methods record their first failure on the document, so error
// checking can wait until the final serialization call.
func New(options ...DocumentOption) *Document {
	return CreateDocument(options...)
}

// Root creates the document element and descends into it. The name is
// taken verbatim as the local name; use RootNS for namespaced roots.
func (d *Document) Root(name string) *Element {
	if d.err != nil {
		return d.detachedElement(name)
	}
	e, err := d.CreateElement(name)
	if err != nil {
		d.setErr(err)
		return d.detachedElement(name)
	}
	if err := d.AddChild(e); err != nil {
		d.setErr(err)
	}
	return e
}

// RootNS creates the document element in the given namespace and
// descends into it.
func (d *Document) RootNS(uri, qname string) *Element {
	if d.err != nil {
		return d.detachedElement(qname)
	}
	e, err := d.CreateElementNS(uri, qname)
	if err != nil {
		d.setErr(err)
		return d.detachedElement(qname)
	}
	if err := d.AddChild(e); err != nil {
		d.setErr(err)
	}
	return e
}

// detachedElement backs the builder chain after a failure. It is owned
// by the document, so later chained calls see the recorded error and
// do nothing, and it is never linked into the tree.
func (d *Document) detachedElement(name string) *Element {
	e := newElement("", "", name)
	_ = e.SetOwnerDocument(d)
	return e
}

// Dtd attaches a document type declaration. An existing declaration is
// replaced in place; otherwise the new one goes in front of the
// document element. Returns the document for chaining.
func (d *Document) Dtd(name, publicID, systemID string) *Document {
	if d.err != nil {
		return d
	}
	dt, err := d.CreateDocumentType(name, publicID, systemID)
	if err != nil {
		d.setErr(err)
		return d
	}
	if existing := d.Doctype(); existing != nil {
		if err := existing.Replace(dt); err != nil {
			d.setErr(err)
		}
		return d
	}
	if de := d.DocumentElement(); de != nil {
		if prev := de.PrevSibling(); prev != nil {
			_ = setNextSibling(prev, dt)
		}
		if err := de.SetPrevSibling(dt); err != nil {
			d.setErr(err)
		}
		return d
	}
	if err := d.AddChild(dt); err != nil {
		d.setErr(err)
	}
	return d
}

// Fragment creates an empty fragment owned by this document. A
// fragment's children serialize in order without any wrapper, which
// makes it useful for building snippets to be embedded elsewhere.
func (d *Document) Fragment() *DocumentFragment {
	return d.CreateDocumentFragment()
}
