package ast

import "io"

// Notifier is told about every node that carries a value as the render pass
// reaches it.
type Notifier interface {
	Notify(n *Node)
}

// NotifierFunc adapts a plain function to Notifier.
type NotifierFunc func(n *Node)

func (f NotifierFunc) Notify(n *Node) { f(n) }

type nopNotifier struct{}

func (nopNotifier) Notify(*Node) {}

// Render writes the plain text of the tree rooted at root to w. notifier may
// be nil.
func Render(w io.StringWriter, root *Node, notifier Notifier) error {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	r := &renderer{w: w, notifier: notifier}
	r.node(root)
	return r.err
}

// renderer keeps the first write error and turns every later write into a
// no-op.
type renderer struct {
	w        io.StringWriter
	notifier Notifier
	err      error
}

func (r *renderer) write(s string) {
	if r.err != nil {
		return
	}
	_, r.err = r.w.WriteString(s)
}

func (r *renderer) value(v *Value) {
	if r.err != nil || v == nil {
		return
	}
	_, r.err = v.Render(r.w)
}

func (r *renderer) node(n *Node) {
	if r.err != nil || n == nil {
		return
	}

	switch n.Kind {
	case NodeLink:
		if n.IsMedia() {
			return
		}
		r.notify(n)
		r.value(n.Value)

	case NodeHeading:
		r.notify(n)
		r.write("\n\n")
		for _, child := range n.Children {
			r.value(child.Value)
		}
		r.write("\n\n")

	case NodeList:
		r.notify(n)
		for _, child := range n.Children {
			if child.Kind == NodeList {
				r.write(" ")
				r.node(child)
				continue
			}
			r.write("•")
			r.node(child)
			r.write("\n")
		}

	default:
		r.notify(n)
		r.value(n.Value)
		for _, child := range n.Children {
			r.node(child)
		}
	}
}

func (r *renderer) notify(n *Node) {
	if n.Value != nil {
		r.notifier.Notify(n)
	}
}
