package xmlb

// Text represents a text node in an XML document
type Text struct {
	treeNode
	content []byte
}

var _ Node = (*Text)(nil)

func newText(content []byte) *Text {
	return &Text{
		content: content,
	}
}

func (*Text) Type() NodeType {
	return TextNodeType
}

func (*Text) LocalName() string {
	return "#text"
}

func (n *Text) Content(dst []byte) ([]byte, error) {
	return append(dst, n.content...), nil
}

func (n *Text) AddChild(cur Node) error {
	// Text nodes can concatenate with other text nodes
	if cur.Type() == TextNodeType {
		content, err := cur.Content(nil)
		if err != nil {
			return err
		}
		return n.AddContent(content)
	}
	return ErrInvalidOperation
}

func (n *Text) AddContent(b []byte) error {
	n.content = append(n.content, b...)
	return nil
}

func (n *Text) AddSibling(cur Node) error {
	return addSibling(n, cur)
}

func (n *Text) Replace(cur Node) error {
	return replaceNode(n, cur)
}

func (n *Text) SetNextSibling(sibling Node) error {
	return setNextSibling(n, sibling)
}

func (n *Text) SetPrevSibling(sibling Node) error {
	return setPrevSibling(n, sibling)
}
