package dom

import "strings"

//go:generate stringer -type=NodeType
type NodeType uint

const (
	RootNode NodeType = iota
	DocumentTypeNode
	ElementNode
	TextNode
	CommentNode
)

// Attribute is a single name/value pair on an element. Attributes keep
// their source order and duplicates are not removed.
type Attribute struct {
	Name  string
	Value string
}

// Node is a single node in the document tree. The Type field selects
// which of the remaining fields carry content. Parent is navigational
// only; the tree is owned root-down through Children.
type Node struct {
	Type NodeType

	// ElementNode
	Tag         string
	Attributes  []Attribute
	SelfClosing bool

	// TextNode, CommentNode
	Text string

	// DocumentTypeNode
	Name        string
	Data        string
	ForceQuirks bool

	Parent   *Node
	Children []*Node
}

// NewRoot returns the root node of a new, empty document tree.
func NewRoot() *Node {
	return &Node{Type: RootNode}
}

// NewElement returns an element node with the given tag name and
// attribute list. The tokenizer has already lowercased ASCII letters in
// both by the time an element is built.
func NewElement(tag string, attrs []Attribute, selfClosing bool) *Node {
	return &Node{
		Type:        ElementNode,
		Tag:         tag,
		Attributes:  attrs,
		SelfClosing: selfClosing,
	}
}

// NewText returns a text node. Callers never insert empty text nodes.
func NewText(text string) *Node {
	return &Node{Type: TextNode, Text: text}
}

// NewComment returns a comment node with its data filled.
func NewComment(text string) *Node {
	return &Node{Type: CommentNode, Text: text}
}

// NewDoctype returns a doctype node. Data holds everything that
// followed the doctype name in the source, verbatim.
func NewDoctype(name, data string, forceQuirks bool) *Node {
	return &Node{
		Type:        DocumentTypeNode,
		Name:        name,
		Data:        data,
		ForceQuirks: forceQuirks,
	}
}

// AppendChild attaches child as the last child of n and returns it.
func (n *Node) AppendChild(child *Node) *Node {
	child.Parent = n
	n.Children = append(n.Children, child)
	return child
}

// FirstChild returns the first child of n, or nil.
func (n *Node) FirstChild() *Node {
	if len(n.Children) == 0 {
		return nil
	}
	return n.Children[0]
}

// LastChild returns the last child of n, or nil.
func (n *Node) LastChild() *Node {
	if len(n.Children) == 0 {
		return nil
	}
	return n.Children[len(n.Children)-1]
}

func serializeNodeType(node *Node, ident int) string {
	switch node.Type {
	case RootNode:
		return "#document"
	case ElementNode:
		e := "<" + node.Tag + ">"
		if len(node.Attributes) != 0 {
			spaces := "| "
			for i := 1; i < ident; i++ {
				spaces += "  "
			}
			for _, attr := range node.Attributes {
				e += "\n" + spaces + attr.Name + "=\"" + attr.Value + "\""
			}
		}
		return e
	case TextNode:
		return "\"" + node.Text + "\""
	case CommentNode:
		return "<!-- " + node.Text + " -->"
	case DocumentTypeNode:
		d := "<!DOCTYPE " + node.Name
		if len(node.Data) != 0 {
			d += " " + node.Data
		}
		return d + ">"
	default:
		return ""
	}
}

func (n *Node) serialize(ident int) string {
	ser := serializeNodeType(n, ident+1) + "\n"
	if n.Type != RootNode {
		spaces := "| "
		for i := 1; i < ident; i++ {
			spaces += "  "
		}
		ser = spaces + ser
	}
	for _, child := range n.Children {
		ser += child.serialize(ident + 1)
	}
	return ser
}

// String renders the tree below n in the html5lib tree-dump format.
// This is a debugging aid, not a serializer.
func (n *Node) String() string {
	return strings.TrimRight(n.serialize(0), "\n")
}
