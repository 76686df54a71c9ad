package lexer

import "fmt"

// Kind names a lexical category. Tokens are compared by kind only.
type Kind int

const (
	None Kind = iota // no explicit kind; emitted as Text
	EOF
	Text
	TemplateStart
	TemplateEnd
	LinkStart
	LinkEnd
	Heading2
	Heading3
	Heading4
	Heading5
	Heading6
	CommentStart
	CommentEnd
	List
	LineBreak
	Redirect
	BoldItalic
	Bold
	Italic
)

var kindNames = [...]string{
	None:          "None",
	EOF:           "EOF",
	Text:          "Text",
	TemplateStart: "TemplateStart",
	TemplateEnd:   "TemplateEnd",
	LinkStart:     "LinkStart",
	LinkEnd:       "LinkEnd",
	Heading2:      "Heading2",
	Heading3:      "Heading3",
	Heading4:      "Heading4",
	Heading5:      "Heading5",
	Heading6:      "Heading6",
	CommentStart:  "CommentStart",
	CommentEnd:    "CommentEnd",
	List:          "List",
	LineBreak:     "LineBreak",
	Redirect:      "Redirect",
	BoldItalic:    "BoldItalic",
	Bold:          "Bold",
	Italic:        "Italic",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Token is a single lexed token. Text is the exact slice of the input that
// produced it.
type Token struct {
	Kind   Kind
	Row    int // always 0, kept for position metadata
	Column int // byte offset of the token in the input
	Text   string
}

func (t Token) String() string {
	return fmt.Sprintf("%s [%d]", t.Kind, t.Column)
}

// Is reports whether the token is of kind k.
func (t Token) Is(k Kind) bool { return t.Kind == k }
