package parser

import "github.com/gnolang/wikitext/ast"

// Listener is called with every rendered node whose value kind it was
// registered for.
type Listener func(n *ast.Node)

// Handle identifies one registration. Handles are never reused, so removing
// one registration cannot affect another.
type Handle uint64

type registration struct {
	kind ast.ValueKind
	fn   Listener
}

// Registry keeps listeners in subscription order.
type Registry struct {
	last    Handle
	order   []Handle
	entries map[Handle]registration
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[Handle]registration)}
}

// On registers fn for nodes whose value is of the given kind.
func (r *Registry) On(fn Listener, kind ast.ValueKind) Handle {
	r.last++
	r.entries[r.last] = registration{kind: kind, fn: fn}
	r.order = append(r.order, r.last)
	return r.last
}

// Off removes the registration behind h and reports whether it existed.
func (r *Registry) Off(h Handle) bool {
	if _, ok := r.entries[h]; !ok {
		return false
	}
	delete(r.entries, h)

	// a fresh slice keeps a Notify in progress iterating over the old one
	order := make([]Handle, 0, len(r.order)-1)
	for _, id := range r.order {
		if id != h {
			order = append(order, id)
		}
	}
	r.order = order
	return true
}

// Len returns the number of live registrations.
func (r *Registry) Len() int { return len(r.entries) }

// Notify calls every listener registered for the kind of n's value.
func (r *Registry) Notify(n *ast.Node) {
	if n == nil || n.Value == nil {
		return
	}
	for _, id := range r.order {
		entry, ok := r.entries[id]
		if !ok || entry.kind != n.Value.Kind {
			continue
		}
		entry.fn(n)
	}
}
