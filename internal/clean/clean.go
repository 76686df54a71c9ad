// Package clean tidies the plain text produced by the render pass.
package clean

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var (
	horizontalSpace = regexp.MustCompile(`[^\S\n]+`)
	spaceBeforeEOL  = regexp.MustCompile(` \n`)
	blankLines      = regexp.MustCompile(`\n{3,}`)
)

// Normalize collapses the whitespace left behind by elided templates,
// comments and formatting. Runs of spaces become one space, trailing spaces
// are dropped from every line and no more than one empty line is kept in a
// row. Normalize(Normalize(s)) == Normalize(s).
func Normalize(s string) string {
	s = horizontalSpace.ReplaceAllString(s, " ")
	s = spaceBeforeEOL.ReplaceAllString(s, "\n")
	s = blankLines.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// StripHTML removes inline HTML tags that wikitext lets through, such as
// <small> or <span style=...>, and decodes character references. Line break
// tags become newlines.
func StripHTML(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		switch z.Next() {
		case html.ErrorToken:
			// io.EOF; a strings.Reader has no other failure
			return b.String()
		case html.TextToken:
			b.Write(z.Text())
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := z.TagName()
			if atom.Lookup(name) == atom.Br {
				b.WriteByte('\n')
			}
		}
	}
}
