package xmlb

// DocumentFragment is a lightweight container for a list of sibling
// nodes. Serializing a fragment emits each child in order with no
// enclosing markup, so a fragment may hold multiple top level
// elements.
type DocumentFragment struct {
	treeNode
}

var _ Node = (*DocumentFragment)(nil)

func (*DocumentFragment) Type() NodeType {
	return DocumentFragNodeType
}

func (*DocumentFragment) LocalName() string {
	return "#document-fragment"
}

func (df *DocumentFragment) AddChild(cur Node) error {
	return addChild(df, cur)
}

func (df *DocumentFragment) AddContent(b []byte) error {
	return addContent(df, b)
}

func (df *DocumentFragment) AddSibling(Node) error {
	return ErrInvalidOperation
}

func (df *DocumentFragment) Replace(Node) error {
	return ErrInvalidOperation
}

func (df *DocumentFragment) SetNextSibling(Node) error {
	return ErrInvalidOperation
}

func (df *DocumentFragment) SetPrevSibling(Node) error {
	return ErrInvalidOperation
}

// Ele creates an element with the given name and appends it to the
// fragment. Prefixed names are not resolved against any scope because
// a fragment has no ancestors.
func (df *DocumentFragment) Ele(name string) (*Element, error) {
	doc := df.OwnerDocument()
	if doc == nil {
		return nil, ErrNilNode
	}

	e, err := doc.CreateElement(name)
	if err != nil {
		return nil, err
	}
	if err := df.AddChild(e); err != nil {
		return nil, err
	}
	return e, nil
}

// EleNS creates an element in the given namespace and appends it to
// the fragment.
func (df *DocumentFragment) EleNS(uri, qname string) (*Element, error) {
	doc := df.OwnerDocument()
	if doc == nil {
		return nil, ErrNilNode
	}

	e, err := doc.CreateElementNS(uri, qname)
	if err != nil {
		return nil, err
	}
	if err := df.AddChild(e); err != nil {
		return nil, err
	}
	return e, nil
}
