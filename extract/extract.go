// Package extract harvests the link graph of documents while they compile.
package extract

import (
	"strings"

	"github.com/gnolang/wikitext/ast"
	"github.com/gnolang/wikitext/parser"
)

// Subscriber is the listener API of a compiler.
type Subscriber interface {
	On(fn parser.Listener, kind ast.ValueKind) parser.Handle
	Off(h parser.Handle) bool
}

// Harvester records the article links and categories of every rendered
// link, each once, in the order they were first seen.
type Harvester struct {
	sub    Subscriber
	handle parser.Handle

	links      []string
	categories []string
	seen       map[string]struct{}
	seenCat    map[string]struct{}
}

// Attach subscribes a new Harvester to the links rendered by sub.
func Attach(sub Subscriber) *Harvester {
	h := &Harvester{sub: sub}
	h.Reset()
	h.handle = sub.On(h.visit, ast.ValueLink)
	return h
}

func (h *Harvester) visit(n *ast.Node) {
	if name, ok := n.Value.Category(); ok {
		name = strings.TrimSpace(beforePipe(name))
		if _, dup := h.seenCat[name]; !dup {
			h.seenCat[name] = struct{}{}
			h.categories = append(h.categories, name)
		}
		return
	}

	title := NormalizeTitle(n.Value.Text)
	if title == "" {
		return
	}
	if _, dup := h.seen[title]; !dup {
		h.seen[title] = struct{}{}
		h.links = append(h.links, title)
	}
}

// Links returns the normalized titles of the linked articles.
func (h *Harvester) Links() []string { return h.links }

// Categories returns the names of the categories the documents belong to.
func (h *Harvester) Categories() []string { return h.categories }

// Reset forgets everything harvested so far.
func (h *Harvester) Reset() {
	h.links = nil
	h.categories = nil
	h.seen = make(map[string]struct{})
	h.seenCat = make(map[string]struct{})
}

// Detach stops harvesting. It reports false when already detached.
func (h *Harvester) Detach() bool {
	return h.sub.Off(h.handle)
}

// NormalizeTitle reduces link text to a comparable article key: the part
// before the first pipe, lower cased, with spaces turned into underscores.
//
//	"Rush (band)|Rush" -> "rush_(band)"
func NormalizeTitle(text string) string {
	title := strings.TrimSpace(beforePipe(text))
	return strings.ReplaceAll(strings.ToLower(title), " ", "_")
}

func beforePipe(s string) string {
	if i := strings.IndexByte(s, '|'); i >= 0 {
		return s[:i]
	}
	return s
}
