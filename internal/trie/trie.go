// Package trie indexes page titles by their path segments, so that the
// links of a namespace or of a page's subpages can be listed by prefix.
//
// Nodes live in a single arena slice and refer to their children by index,
// which keeps an index over millions of dump titles to a handful of
// allocations.
package trie

import (
	"sort"
	"strings"
)

// NodeIndex is the position of a node in the arena.
type NodeIndex int

type arenaNode struct {
	children map[string]NodeIndex
	count    int // insertions ending here; 0 if no title ends here
}

type arena struct {
	nodes []arenaNode
}

func newArena() *arena {
	a := &arena{nodes: make([]arenaNode, 0, 1024)}
	a.newNode() // root
	return a
}

func (a *arena) newNode() NodeIndex {
	idx := NodeIndex(len(a.nodes))
	a.nodes = append(a.nodes, arenaNode{children: make(map[string]NodeIndex)})
	return idx
}

func (a *arena) insert(sequence []string) bool {
	current := NodeIndex(0)
	for _, part := range sequence {
		child, ok := a.nodes[current].children[part]
		if !ok {
			child = a.newNode()
			a.nodes[current].children[part] = child
		}
		current = child
	}
	a.nodes[current].count++
	return a.nodes[current].count == 1
}

func (a *arena) find(sequence []string) (NodeIndex, bool) {
	current := NodeIndex(0)
	for _, part := range sequence {
		child, ok := a.nodes[current].children[part]
		if !ok {
			return 0, false
		}
		current = child
	}
	return current, true
}

// walk visits the ends below idx in lexical order.
func (a *arena) walk(idx NodeIndex, path []string, visit func(path []string, count int)) {
	node := a.nodes[idx]
	if node.count > 0 {
		visit(path, node.count)
	}

	keys := make([]string, 0, len(node.children))
	for key := range node.children {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		a.walk(node.children[key], append(path, key), visit)
	}
}

// Separator splits titles into segments.
const Separator = "/"

// Entry is an indexed title with the number of times it was inserted.
type Entry struct {
	Title string
	Count int
}

// Trie is a set of titles that also counts repeated insertions.
type Trie struct {
	arena *arena
	size  int
}

func New() *Trie {
	return &Trie{arena: newArena()}
}

// Split turns a title into its segments. A namespace prefix such as
// "Category:" is a segment of its own.
func Split(title string) []string {
	var parts []string
	if i := strings.IndexByte(title, ':'); i > 0 {
		parts = append(parts, title[:i+1])
		title = title[i+1:]
	}
	for _, part := range strings.Split(title, Separator) {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return parts
}

func join(parts []string) string {
	if len(parts) > 0 && strings.HasSuffix(parts[0], ":") {
		return parts[0] + strings.Join(parts[1:], Separator)
	}
	return strings.Join(parts, Separator)
}

// Insert adds title and reports whether it was new.
func (t *Trie) Insert(title string) bool {
	added := t.arena.insert(Split(title))
	if added {
		t.size++
	}
	return added
}

// Contains reports whether title was inserted.
func (t *Trie) Contains(title string) bool {
	idx, ok := t.arena.find(Split(title))
	return ok && t.arena.nodes[idx].count > 0
}

// Len returns the number of distinct titles.
func (t *Trie) Len() int { return t.size }

// WithPrefix returns the titles whose leading segments equal those of
// prefix, sorted. An empty prefix returns every title.
func (t *Trie) WithPrefix(prefix string) []Entry {
	parts := Split(prefix)
	idx, ok := t.arena.find(parts)
	if !ok {
		return nil
	}

	var entries []Entry
	t.arena.walk(idx, parts, func(path []string, count int) {
		entries = append(entries, Entry{Title: join(path), Count: count})
	})
	return entries
}

// String prints the structure of the trie, marking title ends with "*".
func (t *Trie) String() string {
	return t.arena.debugString(0)
}

func (a *arena) debugString(idx NodeIndex) string {
	node := a.nodes[idx]
	var sb strings.Builder
	if node.count > 0 {
		sb.WriteString("*")
	}

	keys := make([]string, 0, len(node.children))
	for key := range node.children {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		sb.WriteString(key)
		sb.WriteString("(")
		sb.WriteString(a.debugString(node.children[key]))
		sb.WriteString(")")
	}
	return sb.String()
}
