package xmlb

import "strconv"

// Namespace URIs with fixed meanings in XML. The "xml" and "xmlns"
// prefixes are permanently bound to the first two and cannot be
// redeclared to point elsewhere.
const (
	XMLNamespace   = `http://www.w3.org/XML/1998/namespace`
	XMLNSNamespace = `http://www.w3.org/2000/xmlns/`
	XHTMLNamespace = `http://www.w3.org/1999/xhtml`
)

// NodeType represents the type of a node in the XML tree
type NodeType int

const (
	ElementNodeType NodeType = iota + 1
	AttributeNodeType
	TextNodeType
	CDATASectionNodeType
	ProcessingInstructionNodeType
	CommentNodeType
	DocumentNodeType
	DocumentTypeNodeType
	DocumentFragNodeType
)

func (t NodeType) String() string {
	switch t {
	case ElementNodeType:
		return "element"
	case AttributeNodeType:
		return "attribute"
	case TextNodeType:
		return "text"
	case CDATASectionNodeType:
		return "cdata-section"
	case ProcessingInstructionNodeType:
		return "processing-instruction"
	case CommentNodeType:
		return "comment"
	case DocumentNodeType:
		return "document"
	case DocumentTypeNodeType:
		return "document-type"
	case DocumentFragNodeType:
		return "document-fragment"
	default:
		return "unknown(" + strconv.Itoa(int(t)) + ")"
	}
}

// DocumentStandaloneType describes the standalone declaration of a
// document. Only the two explicit values are reflected in the XML
// declaration; the others suppress the attribute entirely.
type DocumentStandaloneType int

const (
	StandaloneExplicitYes DocumentStandaloneType = 1
	StandaloneExplicitNo  DocumentStandaloneType = 0
	StandaloneNoXMLDecl   DocumentStandaloneType = -1
	StandaloneImplicitNo  DocumentStandaloneType = -2
)

// Node interface defines the common functionality for all node types
type Node interface {
	// returns the treeNode (the part of the Node that handles the tree structure)
	getTreeNode() *treeNode

	AddChild(Node) error
	AddContent([]byte) error
	AddSibling(Node) error

	Type() NodeType

	// Content appends the textual content of the node to the provided byte
	// slice and returns the result. If dst is nil, a new slice is allocated.
	Content(dst []byte) ([]byte, error)

	FirstChild() Node
	LastChild() Node

	// LocalName returns the local name of the node.
	LocalName() string

	NextSibling() Node
	OwnerDocument() *Document
	Parent() Node
	PrevSibling() Node

	Replace(Node) error

	SetNextSibling(Node) error
	SetOwnerDocument(doc *Document) error
	SetParent(Node) error
	SetPrevSibling(Node) error
}
