package xmlb

import "bytes"

// CDATASection represents a CDATA section node. Its content is emitted
// without escaping, so it must never contain the section terminator.
type CDATASection struct {
	treeNode
	content []byte
}

var _ Node = (*CDATASection)(nil)

func containsCDataEnd(b []byte) bool {
	return bytes.Contains(b, []byte("]]>"))
}

func (*CDATASection) Type() NodeType {
	return CDATASectionNodeType
}

func (*CDATASection) LocalName() string {
	return "#cdata-section"
}

func (n *CDATASection) Content(dst []byte) ([]byte, error) {
	return append(dst, n.content...), nil
}

func (n *CDATASection) AddChild(cur Node) error {
	if cur.Type() == CDATASectionNodeType {
		content, err := cur.Content(nil)
		if err != nil {
			return err
		}
		return n.AddContent(content)
	}
	return ErrInvalidOperation
}

func (n *CDATASection) AddContent(b []byte) error {
	n.content = append(n.content, b...)
	return nil
}

func (n *CDATASection) AddSibling(cur Node) error {
	return addSibling(n, cur)
}

func (n *CDATASection) Replace(cur Node) error {
	return replaceNode(n, cur)
}

func (n *CDATASection) SetNextSibling(sibling Node) error {
	return setNextSibling(n, sibling)
}

func (n *CDATASection) SetPrevSibling(sibling Node) error {
	return setPrevSibling(n, sibling)
}
