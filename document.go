package xmlb

import (
	"github.com/pkg/errors"
)

// Document is the root of a node tree. All nodes in a tree are created
// through their owner document, which lets it keep track of whether any
// of them carry namespace information. Builder methods record their
// first failure on the document instead of returning it; once a failure
// is recorded every later builder call is a no-op, and the error
// resurfaces from Err and from every serialization entry point.
type Document struct {
	treeNode
	version    string
	encoding   string
	standalone DocumentStandaloneType

	hasNamespaces bool
	err           error
}

// CreateDocument creates an empty document. Use WithVersion,
// WithEncoding and WithStandalone to control the XML declaration.
func CreateDocument(options ...DocumentOption) *Document {
	var doc Document
	doc.version = "1.0"
	doc.standalone = StandaloneImplicitNo

	for _, option := range options {
		switch option.Ident() {
		case identDocumentEncoding{}:
			doc.encoding = option.Value().(string)
		case identDocumentVersion{}:
			doc.version = option.Value().(string)
		case identDocumentStandalone{}:
			doc.standalone = option.Value().(DocumentStandaloneType)
		}
	}
	doc.treeNode.doc = &doc
	return &doc
}

func (d *Document) Encoding() string {
	return d.encoding
}

func (d *Document) Standalone() DocumentStandaloneType {
	return d.standalone
}

func (d *Document) Version() string {
	return d.version
}

// HasNamespaces reports whether any element or attribute created
// through this document carries a namespace. The serializer uses this
// to pick between the namespace-aware walk and the plain one.
func (d *Document) HasNamespaces() bool {
	return d.hasNamespaces
}

// Err returns the first error recorded by a builder method, if any.
func (d *Document) Err() error {
	return d.err
}

func (d *Document) setErr(err error) {
	if d.err == nil {
		d.err = err
	}
}

func (d *Document) Type() NodeType {
	return DocumentNodeType
}

func (d *Document) LocalName() string {
	return "#document"
}

func (d *Document) AddChild(cur Node) error {
	return addChild(d, cur)
}

func (d *Document) AddContent(b []byte) error {
	return addContent(d, b)
}

func (d *Document) AddSibling(Node) error {
	return ErrInvalidOperation
}

func (d *Document) Replace(Node) error {
	return ErrInvalidOperation
}

func (d *Document) SetNextSibling(Node) error {
	return ErrInvalidOperation
}

func (d *Document) SetPrevSibling(Node) error {
	return ErrInvalidOperation
}

// DocumentElement returns the document's root element, or nil if none
// has been attached yet.
func (d *Document) DocumentElement() *Element {
	for e := d.firstChild; e != nil; e = e.NextSibling() {
		if e.Type() == ElementNodeType {
			return e.(*Element)
		}
	}
	return nil
}

// Doctype returns the document type node, or nil if none is present.
func (d *Document) Doctype() *DocumentType {
	for e := d.firstChild; e != nil; e = e.NextSibling() {
		if e.Type() == DocumentTypeNodeType {
			return e.(*DocumentType)
		}
	}
	return nil
}

// CreateElement creates an orphan element with no namespace. The whole
// name becomes the local name; no prefix extraction is performed.
func (d *Document) CreateElement(name string) (*Element, error) {
	if err := CheckName(name); err != nil {
		return nil, errors.Wrap(err, `invalid element name`)
	}
	e := newElement("", "", name)
	_ = e.SetOwnerDocument(d)
	return e, nil
}

// CreateElementNS creates an orphan element in the given namespace.
// The qualified name is validated and split into prefix and local
// name; a prefixed name requires a namespace.
func (d *Document) CreateElementNS(uri, qname string) (*Element, error) {
	ns, prefix, local, err := validateAndExtract(uri, qname)
	if err != nil {
		return nil, err
	}
	e := newElement(ns, prefix, local)
	_ = e.SetOwnerDocument(d)
	if ns != "" {
		d.hasNamespaces = true
	}
	return e, nil
}

// CreateAttribute creates an orphan attribute with no namespace,
// except that names declaring namespaces ("xmlns", "xmlns:*") are
// automatically placed in the XMLNS namespace.
func (d *Document) CreateAttribute(name, value string) (*Attribute, error) {
	if prefix, _ := SplitQName(name); name == "xmlns" || prefix == "xmlns" {
		return d.CreateAttributeNS(XMLNSNamespace, name, value)
	}
	if err := CheckName(name); err != nil {
		return nil, errors.Wrap(err, `invalid attribute name`)
	}
	attr := newAttribute("", "", name, value)
	_ = attr.SetOwnerDocument(d)
	return attr, nil
}

// CreateAttributeNS creates an orphan attribute in the given namespace.
func (d *Document) CreateAttributeNS(uri, qname, value string) (*Attribute, error) {
	ns, prefix, local, err := validateAndExtract(uri, qname)
	if err != nil {
		return nil, err
	}
	attr := newAttribute(ns, prefix, local, value)
	_ = attr.SetOwnerDocument(d)
	if ns != "" {
		d.hasNamespaces = true
	}
	return attr, nil
}

func (d *Document) CreateText(content []byte) (*Text, error) {
	t := newText(content)
	_ = t.SetOwnerDocument(d)
	return t, nil
}

// CreateCData creates a CDATA section node. Content that would
// terminate the section early is rejected outright.
func (d *Document) CreateCData(content []byte) (*CDATASection, error) {
	if containsCDataEnd(content) {
		return nil, errors.New(`CDATA section content must not contain "]]>"`)
	}
	c := &CDATASection{content: content}
	_ = c.SetOwnerDocument(d)
	return c, nil
}

func (d *Document) CreateComment(content []byte) (*Comment, error) {
	c := &Comment{content: content}
	_ = c.SetOwnerDocument(d)
	return c, nil
}

// CreateInstruction creates a processing instruction node. The target
// must be a legal XML name.
func (d *Document) CreateInstruction(target, data string) (*ProcessingInstruction, error) {
	if err := CheckName(target); err != nil {
		return nil, errors.Wrap(err, `invalid processing instruction target`)
	}
	pi := &ProcessingInstruction{target: target, data: data}
	_ = pi.SetOwnerDocument(d)
	return pi, nil
}

// CreateDocumentType creates a document type node. Public and system
// identifier contents are checked at serialization time.
func (d *Document) CreateDocumentType(name, publicID, systemID string) (*DocumentType, error) {
	if err := CheckQName(name); err != nil {
		return nil, errors.Wrap(err, `invalid document type name`)
	}
	dt := &DocumentType{name: name, publicID: publicID, systemID: systemID}
	_ = dt.SetOwnerDocument(d)
	return dt, nil
}

// CreateDocumentFragment creates an empty document fragment.
func (d *Document) CreateDocumentFragment() *DocumentFragment {
	f := &DocumentFragment{}
	_ = f.SetOwnerDocument(d)
	return f
}

// validateAndExtract validates a (namespace, qualified name) pair and
// splits the name, enforcing the reservations around the xml and xmlns
// prefixes. An empty uri means "no namespace".
func validateAndExtract(uri, qname string) (string, string, string, error) {
	if err := CheckQName(qname); err != nil {
		return "", "", "", errors.Wrap(err, `invalid qualified name`)
	}
	prefix, local := SplitQName(qname)
	switch {
	case prefix != "" && uri == "":
		return "", "", "", errors.New(`a namespace is required for prefixed names`)
	case prefix == "xml" && uri != XMLNamespace:
		return "", "", "", errors.New(`the "xml" prefix is reserved for the XML namespace`)
	case (qname == "xmlns" || prefix == "xmlns") && uri != XMLNSNamespace:
		return "", "", "", errors.New(`the "xmlns" prefix may only declare namespaces`)
	case uri == XMLNSNamespace && qname != "xmlns" && prefix != "xmlns":
		return "", "", "", errors.New(`namespace declarations require the "xmlns" prefix`)
	}
	return uri, prefix, local, nil
}
