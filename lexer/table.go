package lexer

import (
	"fmt"
	"regexp"
	"strings"
)

// Category groups specs by how the lexer treats them.
type Category int

const (
	Ignore Category = iota
	Reserved
	Fallbacks

	numCategories
)

func (c Category) String() string {
	switch c {
	case Ignore:
		return "Ignore"
	case Reserved:
		return "Reserved"
	case Fallbacks:
		return "Fallback"
	default:
		return fmt.Sprintf("Category(%d)", int(c))
	}
}

// Entry registers a spec into a category. Order of entries is precedence.
type Entry struct {
	Category Category
	Spec     *Spec
}

// Table is an immutable, ordered symbol table. Build it once and share it
// between lexers; it is safe for concurrent use.
type Table struct {
	groups   [numCategories][]*Spec
	boundary *regexp.Regexp
}

// NewTable builds a table from entries, keeping their order within each
// category.
func NewTable(entries ...Entry) (*Table, error) {
	t := &Table{}
	var stops []string
	for i, e := range entries {
		if e.Category < 0 || e.Category >= numCategories {
			return nil, fmt.Errorf("entry %d (%s): %w: %s", i, specName(e.Spec), ErrUnknownCategory, e.Category)
		}
		if e.Spec == nil {
			return nil, fmt.Errorf("entry %d: nil spec", i)
		}
		t.groups[e.Category] = append(t.groups[e.Category], e.Spec)
		if e.Category != Fallbacks {
			stops = append(stops, e.Spec.boundaries()...)
		}
	}

	if len(stops) > 0 {
		for i, s := range stops {
			stops[i] = "(?:" + s + ")"
		}
		re, err := regexp.Compile(strings.Join(stops, "|"))
		if err != nil {
			return nil, fmt.Errorf("compiling text boundary: %w", err)
		}
		t.boundary = re
	}
	return t, nil
}

// MustTable is like NewTable but panics on error. Use it for tables built
// at process start.
func MustTable(entries ...Entry) *Table {
	t, err := NewTable(entries...)
	if err != nil {
		panic(err)
	}
	return t
}

// Specs returns the specs registered in category c, in precedence order.
func (t *Table) Specs(c Category) []*Spec {
	if c < 0 || c >= numCategories {
		return nil
	}
	return t.groups[c]
}

func specName(s *Spec) string {
	if s == nil {
		return "<nil>"
	}
	return s.Name
}

// ignoredTag returns the raw and the XML-escaped form of a tag that is
// removed from the token stream along with its content.
func ignoredTag(name string) []Entry {
	raw := NewIgnore(
		name,
		`<`+name+`\b[^>]*/>`,
		`<`+name+`\b[^>]*>`,
		`</`+name+`\s*>`,
	)
	escaped := NewIgnore(
		name+"-escaped",
		`&lt;`+name+`\b(?:[^&]|&quot;|&amp;)*/&gt;`,
		`&lt;`+name+`\b(?:[^&]|&quot;|&amp;)*&gt;`,
		`&lt;/`+name+`\s*&gt;`,
	)
	return []Entry{{Ignore, raw}, {Ignore, escaped}}
}

// DefaultEntries is the ordered registration list of the wikitext dialect.
func DefaultEntries() []Entry {
	var entries []Entry
	for _, tag := range []string{"ref", "math", "gallery"} {
		entries = append(entries, ignoredTag(tag)...)
	}
	entries = append(entries,
		Entry{Ignore, NewIgnore("nowiki", `<nowiki\s*/>|&lt;nowiki\s*/&gt;`, "", "")},

		Entry{Reserved, NewBalanced("template", "{{", "}}", TemplateStart, TemplateEnd)},
		Entry{Reserved, NewDelimited("link", `\[\[`, LinkStart, `\]\]`, LinkEnd)},
		Entry{Reserved, NewDelimited("heading6", `======`, Heading6, "", None)},
		Entry{Reserved, NewDelimited("heading5", `=====`, Heading5, "", None)},
		Entry{Reserved, NewDelimited("heading4", `====`, Heading4, "", None)},
		Entry{Reserved, NewDelimited("heading3", `===`, Heading3, "", None)},
		Entry{Reserved, NewDelimited("heading2", `==`, Heading2, "", None)},
		Entry{Reserved, NewEnclosed("comment", CommentStart, CommentEnd,
			[2]string{"<!--", "-->"},
			[2]string{"&lt;!--", "--&gt;"},
		)},
		Entry{Reserved, NewListMarker("list", `\*`, List)},
		Entry{Reserved, NewRedirect("redirect", `(?i:#[ \t]*redirect)`)},
		Entry{Reserved, NewDelimited("linebreak", `\n`, LineBreak, "", None)},

		Entry{Fallbacks, NewFallback("text")},
	)
	return entries
}

// FormattingEntries are the bold/italic specs. They are not part of the
// default table: formatting spans render empty, so enabling them drops the
// emphasized text from the output.
func FormattingEntries() []Entry {
	return []Entry{
		{Reserved, NewDelimited("bold-italic", `'''''`, BoldItalic, "", None)},
		{Reserved, NewDelimited("bold", `'''`, Bold, "", None)},
		{Reserved, NewDelimited("italic", `''`, Italic, "", None)},
	}
}

// WithFormatting returns entries with the formatting specs inserted right
// before the line break spec.
func WithFormatting(entries []Entry) []Entry {
	out := make([]Entry, 0, len(entries)+3)
	inserted := false
	for _, e := range entries {
		if !inserted && e.Category == Reserved && e.Spec.StartKind == LineBreak {
			out = append(out, FormattingEntries()...)
			inserted = true
		}
		out = append(out, e)
	}
	if !inserted {
		out = append(out, FormattingEntries()...)
	}
	return out
}

// Default is the table of the wikitext dialect, built once at start up.
var Default = MustTable(DefaultEntries()...)
