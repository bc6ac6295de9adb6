package xmlb

// Attribute is an attribute node. Unlike elements it never owns
// children; the value is carried directly.
type Attribute struct {
	treeNode
	localName    string
	prefix       string
	namespaceURI string
	value        string
}

var _ Node = (*Attribute)(nil)

func newAttribute(uri, prefix, local, value string) *Attribute {
	return &Attribute{
		namespaceURI: uri,
		prefix:       prefix,
		localName:    local,
		value:        value,
	}
}

func (*Attribute) Type() NodeType {
	return AttributeNodeType
}

func (a *Attribute) LocalName() string {
	return a.localName
}

// Name returns the qualified name of the attribute.
func (a *Attribute) Name() string {
	if a.prefix == "" {
		return a.localName
	}
	return a.prefix + ":" + a.localName
}

func (a *Attribute) Prefix() string {
	return a.prefix
}

// URI returns the namespace URI of the attribute, or an empty string
// when the attribute is in no namespace.
func (a *Attribute) URI() string {
	return a.namespaceURI
}

func (a *Attribute) Value() string {
	return a.value
}

func (a *Attribute) SetValue(value string) {
	a.value = value
}

func (a *Attribute) Content(dst []byte) ([]byte, error) {
	return append(dst, a.value...), nil
}

func (a *Attribute) AddChild(Node) error {
	return ErrInvalidOperation
}

func (a *Attribute) AddContent(b []byte) error {
	a.value += string(b)
	return nil
}

func (a *Attribute) AddSibling(Node) error {
	return ErrInvalidOperation
}

func (a *Attribute) Replace(Node) error {
	return ErrInvalidOperation
}

func (a *Attribute) SetNextSibling(Node) error {
	return ErrInvalidOperation
}

func (a *Attribute) SetPrevSibling(Node) error {
	return ErrInvalidOperation
}
