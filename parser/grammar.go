package parser

import (
	"errors"

	"github.com/gnolang/wikitext/ast"
	c "github.com/gnolang/wikitext/combinator"
	"github.com/gnolang/wikitext/lexer"
)

// Grammar (internal form of the MediaWiki preprocessor grammar):
//
//	text       := ε
//	template   := '{{' text '}}'
//	link       := '[[' text { text | template | link | formatting | linebreak } ']]'
//	headingN   := hN { text | template | link | formatting } hN linebreak   (N = 6..2)
//	formatting := f { text | link } f                                      (f = ''''' | ''' | '')
//	comment    := '<!--' text '-->'
//	listItem   := '*' { template | link | headings | list | text } &linebreak
//	list       := listItem { listItem }
//	expression := template | link | headings | text | linebreak | list | comment
//
// Every production returns a *ast.Node when it matches and an untyped nil
// when it does not.

var headingLevels = []lexer.Kind{
	lexer.Heading6,
	lexer.Heading5,
	lexer.Heading4,
	lexer.Heading3,
	lexer.Heading2,
}

var formattingKinds = []lexer.Kind{
	lexer.BoldItalic,
	lexer.Bold,
	lexer.Italic,
}

// expression is the top level alternation applied by the parser loop.
func expression(cur c.Cursor) (any, error) {
	return c.Alt(template, link, headings, epsilon, linebreak, list, comment)(cur)
}

// epsilon consumes one text token into a text leaf.
func epsilon(cur c.Cursor) (any, error) {
	return leaf(cur, lexer.Text, ast.ValueText)
}

func linebreak(cur c.Cursor) (any, error) {
	return leaf(cur, lexer.LineBreak, ast.ValueLineBreak)
}

func leaf(cur c.Cursor, kind lexer.Kind, value ast.ValueKind) (any, error) {
	result, err := c.Expect(kind)(cur)
	if err != nil || result == nil {
		return nil, err
	}
	return ast.New(ast.NewValue(value, result.(lexer.Token).Text)), nil
}

// template keeps the raw inner text. Nested templates were already flattened
// into that text by the lexer.
func template(cur c.Cursor) (any, error) {
	return bracketed(cur, lexer.TemplateStart, lexer.TemplateEnd, ast.ValueTemplate)
}

func comment(cur c.Cursor) (any, error) {
	return bracketed(cur, lexer.CommentStart, lexer.CommentEnd, ast.ValueComment)
}

func bracketed(cur c.Cursor, open, close lexer.Kind, value ast.ValueKind) (any, error) {
	rule := c.Seq(c.Expect(open), epsilon, c.Expect(close))
	result, err := c.Pipe(cur, rule.Stage(), c.Extract)
	if err != nil || result == nil {
		return nil, err
	}
	return ast.New(ast.NewValue(value, result.(*ast.Node).Value.Text)), nil
}

// link uses the first text span after the opening brackets as its value.
// Whatever follows it up to the closing brackets becomes its children.
func link(cur c.Cursor) (any, error) {
	rule := c.Seq(
		c.Expect(lexer.LinkStart),
		epsilon,
		c.RepeatUntil(c.AltRequired(epsilon, template, link, formatting, linebreak), lexer.LinkEnd),
		c.Expect(lexer.LinkEnd),
	)
	result, err := rule(cur)
	if err != nil || result == nil {
		return nil, err
	}

	items := c.Items(result)
	content := items[1].(*ast.Node)
	node := ast.NewLink(ast.NewValue(ast.ValueLink, content.Value.Text))
	for _, child := range c.Items(items[2]) {
		node.Add(child.(*ast.Node))
	}
	return node, nil
}

// headings tries every level from the most to the least specific. A heading
// that starts but cannot be completed is not an error: the production falls
// back to plain text at the position where the heading broke off.
func headings(cur c.Cursor) (any, error) {
	alts := make([]c.Rule, 0, len(headingLevels))
	for _, kind := range headingLevels {
		alts = append(alts, heading(kind))
	}

	result, err := c.Alt(alts...)(cur)
	if errors.Is(err, c.ErrSyntax) {
		return epsilon(cur)
	}
	if err != nil || result == nil {
		return nil, err
	}

	items := c.Items(result)
	return ast.NewHeading(nodes(items[1])), nil
}

func heading(kind lexer.Kind) c.Rule {
	return c.Seq(
		c.Expect(kind),
		c.RepeatUntil(c.AltRequired(epsilon, template, link, formatting), kind),
		c.Expect(kind),
		linebreak,
	)
}

// formatting only reaches the tree when the lexer table includes the
// formatting symbols. It keeps the text of its first content node.
func formatting(cur c.Cursor) (any, error) {
	alts := make([]c.Rule, 0, len(formattingKinds))
	for _, kind := range formattingKinds {
		alts = append(alts, c.Seq(
			c.Expect(kind),
			c.RepeatUntil(c.Alt(epsilon, link), kind),
			c.Expect(kind),
		))
	}

	result, err := c.Alt(alts...)(cur)
	if err != nil || result == nil {
		return nil, err
	}

	var text string
	if content := nodes(c.Items(result)[1]); len(content) > 0 && content[0].Value != nil {
		text = content[0].Value.Text
	}
	return ast.New(ast.NewValue(ast.ValueFormatting, text)), nil
}

// list collects consecutive list items. Deeper items recurse back into list
// from inside listItem, so nesting shows up as list nodes within items.
func list(cur c.Cursor) (any, error) {
	var items []*ast.Node
	for cur.Current().Is(lexer.List) {
		item, err := listItem(cur)
		if err != nil {
			return nil, err
		}
		if item == nil {
			break
		}
		items = append(items, item.(*ast.Node))
	}

	if len(items) == 0 {
		return nil, nil
	}
	return ast.NewList(items), nil
}

func listItem(cur c.Cursor) (any, error) {
	rule := c.Seq(
		c.Expect(lexer.List),
		c.RepeatUntil(c.AltRequired(template, link, headings, list, epsilon), lexer.LineBreak),
		c.Peek(lexer.LineBreak),
	)
	result, err := rule(cur)
	if err != nil || result == nil {
		return nil, err
	}

	item := ast.New(nil)
	item.Children = nodes(c.Items(result)[1])
	return item, nil
}

func nodes(v any) []*ast.Node {
	items := c.Items(v)
	out := make([]*ast.Node, 0, len(items))
	for _, item := range items {
		out = append(out, item.(*ast.Node))
	}
	return out
}
