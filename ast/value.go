package ast

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

// ValueKind tags the rendering expression a node carries.
type ValueKind int

const (
	ValueText ValueKind = iota
	ValueLineBreak
	ValueTemplate
	ValueComment
	ValueFormatting
	ValueLink
)

func (k ValueKind) String() string {
	switch k {
	case ValueText:
		return "Text"
	case ValueLineBreak:
		return "LineBreak"
	case ValueTemplate:
		return "Template"
	case ValueComment:
		return "Comment"
	case ValueFormatting:
		return "Formatting"
	case ValueLink:
		return "Link"
	default:
		return fmt.Sprintf("ValueKind(%d)", int(k))
	}
}

// Value is the rendering expression of a node. Text holds the raw span the
// value was built from.
type Value struct {
	Kind ValueKind
	Text string
}

// NewValue returns a value of kind k over text.
func NewValue(k ValueKind, text string) *Value {
	return &Value{Kind: k, Text: text}
}

var categoryMatch = regexp.MustCompile(`Category:(.+)`)

// Render writes the text the value stands for and returns it. Only text and
// links produce output; templates, comments and formatting spans render
// empty.
func (v *Value) Render(w io.StringWriter) (string, error) {
	var out string
	switch v.Kind {
	case ValueText:
		out = v.Text
	case ValueLink:
		title, args := v.Evaluate()
		out = title
		if len(args) == 1 {
			out = args[0]
		}
	default:
		return "", nil
	}
	if _, err := w.WriteString(out); err != nil {
		return "", err
	}
	return out, nil
}

// Evaluate splits link text into its title and the pipe separated arguments
// after it.
//
//	"Rush (band)|Rush"  -> "Rush (band)", ["Rush"]
//	"Athens"            -> "Athens", []
func (v *Value) Evaluate() (title string, args []string) {
	first := strings.IndexByte(v.Text, '|')
	if first < 0 {
		return v.Text, nil
	}
	return v.Text[:first], strings.Split(v.Text[first+1:], "|")
}

// Category returns what follows a "Category:" marker in the value's text.
func (v *Value) Category() (string, bool) {
	m := categoryMatch.FindStringSubmatch(v.Text)
	if m == nil {
		return "", false
	}
	return m[1], true
}

func (v *Value) String() string {
	if v == nil {
		return "None"
	}
	return fmt.Sprintf("%s(%s)", v.Kind, strconv.Quote(v.Text))
}
