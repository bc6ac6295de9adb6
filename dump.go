package xmlb

import (
	"strconv"
	"strings"

	"github.com/xlab/treeprint"
)

// DumpTree renders the structure of a node tree in human readable
// form, for debugging. Elements become branches labeled with their
// qualified name, attributes and namespace; leaf nodes show their kind
// and a snippet of their content.
func DumpTree(n Node) string {
	tree := treeprint.NewWithRoot(dumpLabel(n))
	dumpChildren(tree, n)
	return tree.String()
}

func dumpChildren(branch treeprint.Tree, n Node) {
	for e := n.FirstChild(); e != nil; e = e.NextSibling() {
		if e.FirstChild() == nil {
			branch.AddNode(dumpLabel(e))
			continue
		}
		sub := branch.AddBranch(dumpLabel(e))
		dumpChildren(sub, e)
	}
}

func dumpLabel(n Node) string {
	switch n := n.(type) {
	case *Element:
		var sb strings.Builder
		sb.WriteString(n.Name())
		for _, attr := range n.attrs {
			sb.WriteString(" @")
			sb.WriteString(attr.Name())
			sb.WriteString("=")
			sb.WriteString(strconv.Quote(attr.Value()))
		}
		if uri := n.URI(); uri != "" {
			sb.WriteString(" {")
			sb.WriteString(uri)
			sb.WriteString("}")
		}
		return sb.String()
	case *Text:
		return "#text " + strconv.Quote(clipDump(n.content))
	case *CDATASection:
		return "#cdata " + strconv.Quote(clipDump(n.content))
	case *Comment:
		return "#comment " + strconv.Quote(clipDump(n.content))
	case *ProcessingInstruction:
		return "?" + n.target
	case *DocumentType:
		return "!DOCTYPE " + n.name
	case *Document:
		return "#document"
	case *DocumentFragment:
		return "#document-fragment"
	default:
		return n.Type().String()
	}
}

func clipDump(b []byte) string {
	const max = 40
	if len(b) <= max {
		return string(b)
	}
	return string(b[:max]) + "..."
}
