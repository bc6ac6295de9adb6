package xmlb

// Element is an element node. Its attributes are kept in document
// order; setting an attribute whose namespace and local name are
// already present replaces the existing value in place.
type Element struct {
	treeNode
	localName    string
	prefix       string
	namespaceURI string
	attrs        []*Attribute
}

var _ Node = (*Element)(nil)

func newElement(uri, prefix, local string) *Element {
	return &Element{
		namespaceURI: uri,
		prefix:       prefix,
		localName:    local,
	}
}

func (*Element) Type() NodeType {
	return ElementNodeType
}

func (e *Element) LocalName() string {
	return e.localName
}

// Name returns the qualified name of the element.
func (e *Element) Name() string {
	if e.prefix == "" {
		return e.localName
	}
	return e.prefix + ":" + e.localName
}

func (e *Element) Prefix() string {
	return e.prefix
}

// URI returns the namespace URI of the element, or an empty string
// when the element is in no namespace.
func (e *Element) URI() string {
	return e.namespaceURI
}

func (e *Element) AddChild(cur Node) error {
	if cur.Type() == TextNodeType {
		if lc := e.LastChild(); lc != nil && lc.Type() == TextNodeType {
			content, err := cur.Content(nil)
			if err != nil {
				return err
			}
			return lc.AddContent(content)
		}
	}
	return addChild(e, cur)
}

func (e *Element) AddContent(b []byte) error {
	return addContent(e, b)
}

func (e *Element) AddSibling(cur Node) error {
	return addSibling(e, cur)
}

func (e *Element) Replace(cur Node) error {
	return replaceNode(e, cur)
}

func (e *Element) SetNextSibling(sibling Node) error {
	return setNextSibling(e, sibling)
}

func (e *Element) SetPrevSibling(sibling Node) error {
	return setPrevSibling(e, sibling)
}

// SetAttribute sets an attribute from a possibly prefixed name.
// Namespace declarations ("xmlns", "xmlns:*") land in the XMLNS
// namespace; any other prefix is resolved against the declarations in
// scope on this element. An unresolvable prefix is kept as part of the
// local name, to be rejected by well-formed serialization.
func (e *Element) SetAttribute(name, value string) error {
	doc := e.doc
	if doc == nil {
		return ErrNilNode
	}
	prefix, _ := SplitQName(name)
	switch {
	case name == "xmlns" || prefix == "xmlns":
		return e.SetAttributeNS(XMLNSNamespace, name, value)
	case prefix != "":
		if uri := e.lookupNamespaceURI(prefix); uri != "" {
			return e.SetAttributeNS(uri, name, value)
		}
	}
	attr, err := doc.CreateAttribute(name, value)
	if err != nil {
		return err
	}
	e.setAttributeNode(attr)
	return nil
}

// SetAttributeNS sets an attribute with an explicit namespace.
func (e *Element) SetAttributeNS(uri, qname, value string) error {
	doc := e.doc
	if doc == nil {
		return ErrNilNode
	}
	attr, err := doc.CreateAttributeNS(uri, qname, value)
	if err != nil {
		return err
	}
	e.setAttributeNode(attr)
	return nil
}

func (e *Element) setAttributeNode(attr *Attribute) {
	_ = attr.SetParent(e)
	for i, existing := range e.attrs {
		if existing.namespaceURI == attr.namespaceURI && existing.localName == attr.localName {
			e.attrs[i] = attr
			return
		}
	}
	e.attrs = append(e.attrs, attr)
}

// AppendAttribute appends an attribute verbatim, without the
// replace-on-match behavior of SetAttribute. It allows assembling
// attribute lists the builder would reject, such as duplicates, which
// the serializer is then responsible for detecting.
func (e *Element) AppendAttribute(attr *Attribute) error {
	if attr == nil {
		return ErrNilNode
	}
	_ = attr.SetParent(e)
	e.attrs = append(e.attrs, attr)
	return nil
}

// Attributes populates the given slice with the attributes of the
// element in document order. If the slice is nil a new one is
// allocated; an element without attributes yields an empty slice.
func (e *Element) Attributes(dst []*Attribute) []*Attribute {
	if dst == nil {
		dst = make([]*Attribute, 0, len(e.attrs))
	} else {
		dst = dst[:0]
	}
	return append(dst, e.attrs...)
}

// GetAttribute returns the value of the first attribute with the given
// qualified name.
func (e *Element) GetAttribute(name string) (string, bool) {
	for _, attr := range e.attrs {
		if attr.Name() == name {
			return attr.value, true
		}
	}
	return "", false
}

// lookupNamespaceURI resolves a prefix against the declarations in
// scope, walking from this element towards the root. The empty prefix
// resolves the default namespace. An empty return value means the
// prefix is not bound.
func (e *Element) lookupNamespaceURI(prefix string) string {
	for n := Node(e); n != nil; n = n.Parent() {
		cur, ok := n.(*Element)
		if !ok {
			return ""
		}
		if cur.namespaceURI != "" && cur.prefix == prefix {
			return cur.namespaceURI
		}
		for _, attr := range cur.attrs {
			if attr.namespaceURI != XMLNSNamespace {
				continue
			}
			if (prefix != "" && attr.prefix == "xmlns" && attr.localName == prefix) ||
				(prefix == "" && attr.prefix == "" && attr.localName == "xmlns") {
				return attr.value
			}
		}
	}
	return ""
}

// Ele creates a child element and descends into it. A prefixed name is
// resolved against the declarations in scope; an unprefixed name picks
// up the default namespace in scope, mirroring how a parser would
// interpret the eventual output.
func (e *Element) Ele(name string) *Element {
	doc := e.doc
	if doc == nil || doc.err != nil {
		return e
	}
	prefix, _ := SplitQName(name)
	var uri string
	if prefix != "" {
		uri = e.lookupNamespaceURI(prefix)
	} else {
		uri = e.lookupNamespaceURI("")
	}
	if uri != "" {
		return e.EleNS(uri, name)
	}

	child, err := doc.CreateElement(name)
	if err != nil {
		doc.setErr(err)
		return e
	}
	if err := e.AddChild(child); err != nil {
		doc.setErr(err)
		return e
	}
	return child
}

// EleNS creates a child element in the given namespace and descends
// into it.
func (e *Element) EleNS(uri, qname string) *Element {
	doc := e.doc
	if doc == nil || doc.err != nil {
		return e
	}
	child, err := doc.CreateElementNS(uri, qname)
	if err != nil {
		doc.setErr(err)
		return e
	}
	if err := e.AddChild(child); err != nil {
		doc.setErr(err)
		return e
	}
	return child
}

// Att sets an attribute and returns the receiver for chaining.
func (e *Element) Att(name, value string) *Element {
	doc := e.doc
	if doc == nil || doc.err != nil {
		return e
	}
	if err := e.SetAttribute(name, value); err != nil {
		doc.setErr(err)
	}
	return e
}

// AttNS sets an attribute with an explicit namespace and returns the
// receiver.
func (e *Element) AttNS(uri, qname, value string) *Element {
	doc := e.doc
	if doc == nil || doc.err != nil {
		return e
	}
	if err := e.SetAttributeNS(uri, qname, value); err != nil {
		doc.setErr(err)
	}
	return e
}

// Txt appends a text child and returns the receiver.
func (e *Element) Txt(s string) *Element {
	doc := e.doc
	if doc == nil || doc.err != nil {
		return e
	}
	t, err := doc.CreateText([]byte(s))
	if err != nil {
		doc.setErr(err)
		return e
	}
	if err := e.AddChild(t); err != nil {
		doc.setErr(err)
	}
	return e
}

// Com appends a comment child and returns the receiver.
func (e *Element) Com(s string) *Element {
	doc := e.doc
	if doc == nil || doc.err != nil {
		return e
	}
	c, err := doc.CreateComment([]byte(s))
	if err != nil {
		doc.setErr(err)
		return e
	}
	if err := e.AddChild(c); err != nil {
		doc.setErr(err)
	}
	return e
}

// Dat appends a CDATA section child and returns the receiver.
func (e *Element) Dat(s string) *Element {
	doc := e.doc
	if doc == nil || doc.err != nil {
		return e
	}
	c, err := doc.CreateCData([]byte(s))
	if err != nil {
		doc.setErr(err)
		return e
	}
	if err := e.AddChild(c); err != nil {
		doc.setErr(err)
	}
	return e
}

// Ins appends a processing instruction child and returns the receiver.
func (e *Element) Ins(target, data string) *Element {
	doc := e.doc
	if doc == nil || doc.err != nil {
		return e
	}
	pi, err := doc.CreateInstruction(target, data)
	if err != nil {
		doc.setErr(err)
		return e
	}
	if err := e.AddChild(pi); err != nil {
		doc.setErr(err)
	}
	return e
}

// Up moves to the parent element. At the top of the tree it returns
// the receiver unchanged.
func (e *Element) Up() *Element {
	if parent, ok := e.Parent().(*Element); ok {
		return parent
	}
	return e
}

// Root returns the topmost element of the tree this element belongs to.
func (e *Element) Root() *Element {
	cur := e
	for {
		parent, ok := cur.Parent().(*Element)
		if !ok {
			return cur
		}
		cur = parent
	}
}

// Document returns the owner document.
func (e *Element) Document() *Document {
	return e.doc
}

// XML serializes the subtree rooted at this element.
func (e *Element) XML(options ...OutputOption) (string, error) {
	return nodeToXML(e, options...)
}
