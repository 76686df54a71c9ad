/*
Package ast holds the wikitext syntax tree and the render pass over it.

	                     Node(nil)
	        ________________|_____________ ....
	        |             |              |
	Node(Text)   Node(Template)   Link(Link)
	                                     |
	                                 Node(Text)

A tree is built once by the parser and is not modified by rendering. Render
walks it depth first, writes the plain text each node stands for and tells
a Notifier about every node that carries a value, so that observers can
harvest links or templates while the text is produced.
*/
package ast

import (
	"fmt"
	"regexp"
	"strings"
)

// NodeKind selects the render behavior of a node.
type NodeKind int

const (
	NodePlain NodeKind = iota
	NodeLink
	NodeHeading
	NodeList
)

func (k NodeKind) String() string {
	switch k {
	case NodePlain:
		return "Node"
	case NodeLink:
		return "LinkNode"
	case NodeHeading:
		return "HeadingNode"
	case NodeList:
		return "ListNode"
	default:
		return fmt.Sprintf("NodeKind(%d)", int(k))
	}
}

// Node is a tree node. Children are owned by their parent.
type Node struct {
	Kind     NodeKind
	Value    *Value
	Children []*Node
}

// New returns a plain node holding v, which may be nil.
func New(v *Value) *Node {
	return &Node{Kind: NodePlain, Value: v}
}

// NewLink returns a link node for v.
func NewLink(v *Value) *Node {
	return &Node{Kind: NodeLink, Value: v}
}

// NewHeading returns a heading node over its content nodes.
func NewHeading(children []*Node) *Node {
	return &Node{Kind: NodeHeading, Children: children}
}

// NewList returns a list node over its items.
func NewList(items []*Node) *Node {
	return &Node{Kind: NodeList, Children: items}
}

// Add appends child to the node's children.
func (n *Node) Add(child *Node) {
	n.Children = append(n.Children, child)
}

var mediaPrefix = regexp.MustCompile(`(?i)^\s*(File|Image|Media):`)

// IsMedia reports whether n links to a file or image page. Such links are
// left out of the rendered text.
func (n *Node) IsMedia() bool {
	return n.Kind == NodeLink && n.Value != nil && mediaPrefix.MatchString(n.Value.Text)
}

// String prints the subtree rooted at n, one node per line.
func (n *Node) String() string {
	var b strings.Builder
	n.print(&b, "", true)
	return strings.TrimRight(b.String(), "\n")
}

func (n *Node) print(b *strings.Builder, prefix string, last bool) {
	b.WriteString(prefix)
	if last {
		b.WriteString("`- ")
		prefix += "   "
	} else {
		b.WriteString("|- ")
		prefix += "|  "
	}
	if n.Kind == NodePlain {
		b.WriteString(n.Value.String())
	} else {
		fmt.Fprintf(b, "%s %s", n.Kind, n.Value)
	}
	b.WriteByte('\n')

	for i, child := range n.Children {
		child.print(b, prefix, i == len(n.Children)-1)
	}
}
