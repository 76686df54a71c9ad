package ast

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func text(s string) *Node { return New(NewValue(ValueText, s)) }

func TestValueEvaluate(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		text      string
		wantTitle string
		wantArgs  []string
	}{
		{"bare title", "Athens", "Athens", nil},
		{"single label", "Rush (band)|Rush", "Rush (band)", []string{"Rush"}},
		{"many args", "File:a.png|thumb|caption", "File:a.png", []string{"thumb", "caption"}},
		{"empty label", "Athens|", "Athens", []string{""}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			title, args := NewValue(ValueLink, tt.text).Evaluate()
			assert.Equal(t, tt.wantTitle, title)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestValueRender(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		value *Value
		want  string
	}{
		{"text", NewValue(ValueText, "hello"), "hello"},
		{"link title", NewValue(ValueLink, "Athens"), "Athens"},
		{"link label", NewValue(ValueLink, "Rush (band)|Rush"), "Rush"},
		{"link with many args renders title", NewValue(ValueLink, "a|b|c"), "a"},
		{"template", NewValue(ValueTemplate, "cite web|url=x"), ""},
		{"comment", NewValue(ValueComment, "hidden"), ""},
		{"formatting", NewValue(ValueFormatting, "bold"), ""},
		{"linebreak", NewValue(ValueLineBreak, "\n"), ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var b strings.Builder
			got, err := tt.value.Render(&b)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want, b.String())
		})
	}
}

func TestValueCategory(t *testing.T) {
	t.Parallel()

	name, ok := NewValue(ValueLink, "Category:Greek cities").Category()
	assert.True(t, ok)
	assert.Equal(t, "Greek cities", name)

	_, ok = NewValue(ValueLink, "Athens").Category()
	assert.False(t, ok)
}

func TestIsMedia(t *testing.T) {
	t.Parallel()

	assert.True(t, NewLink(NewValue(ValueLink, "File:a.png|thumb")).IsMedia())
	assert.True(t, NewLink(NewValue(ValueLink, " image:b.jpg")).IsMedia())
	assert.True(t, NewLink(NewValue(ValueLink, "Media:c.ogg")).IsMedia())
	assert.False(t, NewLink(NewValue(ValueLink, "Athens")).IsMedia())
	assert.False(t, text("File:a.png").IsMedia())
}

func TestRender(t *testing.T) {
	t.Parallel()

	nested := NewList([]*Node{text("inner")})
	tests := []struct {
		name string
		root *Node
		want string
	}{
		{
			name: "plain text and link",
			root: &Node{Children: []*Node{
				text("Capital of "),
				NewLink(NewValue(ValueLink, "Greece|the Hellenic Republic")),
				text("."),
			}},
			want: "Capital of the Hellenic Republic.",
		},
		{
			name: "media link dropped",
			root: &Node{Children: []*Node{
				NewLink(NewValue(ValueLink, "File:x.png|thumb|cap")),
				text("after"),
			}},
			want: "after",
		},
		{
			name: "link children not traversed",
			root: &Node{Children: []*Node{
				{Kind: NodeLink, Value: NewValue(ValueLink, "A"), Children: []*Node{text("skipped")}},
			}},
			want: "A",
		},
		{
			name: "heading",
			root: &Node{Children: []*Node{
				NewHeading([]*Node{text("History"), New(NewValue(ValueTemplate, "x"))}),
			}},
			want: "\n\nHistory\n\n",
		},
		{
			name: "list with nested list",
			root: &Node{Children: []*Node{
				NewList([]*Node{text("one"), nested}),
			}},
			want: "•one\n •inner\n",
		},
		{
			name: "nil root",
			root: nil,
			want: "",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var b strings.Builder
			require.NoError(t, Render(&b, tt.root, nil))
			assert.Equal(t, tt.want, b.String())
		})
	}
}

func TestRenderNotifies(t *testing.T) {
	t.Parallel()

	root := &Node{Children: []*Node{
		NewLink(NewValue(ValueLink, "Athens")),
		NewLink(NewValue(ValueLink, "File:a.png")),
		New(NewValue(ValueTemplate, "cite")),
		NewHeading([]*Node{text("H")}),
	}}

	var seen []string
	err := Render(&strings.Builder{}, root, NotifierFunc(func(n *Node) {
		seen = append(seen, n.Value.String())
	}))
	require.NoError(t, err)
	assert.Equal(t, []string{`Link("Athens")`, `Template("cite")`}, seen)
}

type failingWriter struct{ writes int }

var errWrite = errors.New("disk full")

func (w *failingWriter) WriteString(string) (int, error) {
	w.writes++
	return 0, errWrite
}

func TestRenderWriteError(t *testing.T) {
	t.Parallel()

	w := &failingWriter{}
	root := &Node{Children: []*Node{text("a"), text("b"), text("c")}}
	err := Render(w, root, nil)
	assert.ErrorIs(t, err, errWrite)
	assert.Equal(t, 1, w.writes)
}

func TestNodeString(t *testing.T) {
	t.Parallel()

	root := &Node{Children: []*Node{
		text("a"),
		NewList([]*Node{text("b")}),
	}}
	want := strings.Join([]string{
		"`- None",
		"   |- Text(\"a\")",
		"   `- ListNode None",
		"      `- Text(\"b\")",
	}, "\n")
	assert.Equal(t, want, root.String())
}
