package xmlb

// DocumentType represents a document type declaration node
type DocumentType struct {
	treeNode
	name     string
	publicID string
	systemID string
}

var _ Node = (*DocumentType)(nil)

func (*DocumentType) Type() NodeType {
	return DocumentTypeNodeType
}

func (dt *DocumentType) LocalName() string {
	return dt.name
}

func (dt *DocumentType) Name() string {
	return dt.name
}

func (dt *DocumentType) PublicID() string {
	return dt.publicID
}

func (dt *DocumentType) SystemID() string {
	return dt.systemID
}

func (dt *DocumentType) Content(dst []byte) ([]byte, error) {
	return dst, nil
}

func (dt *DocumentType) AddChild(Node) error {
	return ErrInvalidOperation
}

func (dt *DocumentType) AddContent([]byte) error {
	return ErrInvalidOperation
}

func (dt *DocumentType) AddSibling(cur Node) error {
	return addSibling(dt, cur)
}

func (dt *DocumentType) Replace(cur Node) error {
	return replaceNode(dt, cur)
}

func (dt *DocumentType) SetNextSibling(sibling Node) error {
	return setNextSibling(dt, sibling)
}

func (dt *DocumentType) SetPrevSibling(sibling Node) error {
	return setPrevSibling(dt, sibling)
}
