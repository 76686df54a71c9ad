/*
Package compiler turns wikitext into plain text.

	c := compiler.New()
	c.On(func(n *ast.Node) { links = append(links, n.Value.Text) }, compiler.Link)
	text, err := c.Compile(body)

Compile parses the document, renders the tree (firing listeners on the way)
and normalizes the whitespace of the result. A Compiler reuses its parser
and output buffer between documents and must not be shared by goroutines;
give every worker its own.
*/
package compiler

import (
	"bytes"

	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"

	"github.com/gnolang/wikitext/ast"
	"github.com/gnolang/wikitext/internal/clean"
	"github.com/gnolang/wikitext/lexer"
	"github.com/gnolang/wikitext/parser"
)

// Value kinds listeners usually subscribe to.
const (
	Link     = ast.ValueLink
	Template = ast.ValueTemplate
)

// ParseTypes maps the names accepted on the command line to value kinds.
var ParseTypes = map[string]ast.ValueKind{
	"link":     Link,
	"template": Template,
}

type Compiler struct {
	parser *parser.Parser
	logger *zap.Logger
	buf    bytes.Buffer

	nfc       bool
	stripHTML bool
}

type Option func(*options)

type options struct {
	table     *lexer.Table
	logger    *zap.Logger
	nfc       bool
	stripHTML bool
}

func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithTable sets the symbol table documents are tokenized with.
func WithTable(table *lexer.Table) Option {
	return func(o *options) { o.table = table }
}

// WithUnicodeNormalization puts input text in NFC before parsing.
func WithUnicodeNormalization(enabled bool) Option {
	return func(o *options) { o.nfc = enabled }
}

// WithStripHTML removes inline HTML tags from the rendered text.
func WithStripHTML(enabled bool) Option {
	return func(o *options) { o.stripHTML = enabled }
}

func New(opts ...Option) *Compiler {
	o := options{table: lexer.Default, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Compiler{
		parser:    parser.New(parser.WithTable(o.table), parser.WithLogger(o.logger)),
		logger:    o.logger,
		nfc:       o.nfc,
		stripHTML: o.stripHTML,
	}
}

// Compile returns the plain text of a wikitext document.
func (c *Compiler) Compile(text string) (string, error) {
	root, err := c.Parse(text)
	if err != nil {
		return "", err
	}
	out, err := c.Render(root)
	if err != nil {
		return "", err
	}
	if c.stripHTML {
		out = clean.StripHTML(out)
	}
	out = clean.Normalize(out)
	c.logger.Debug("compiled", zap.Int("in", len(text)), zap.Int("out", len(out)))
	return out, nil
}

// Parse returns the syntax tree of text without rendering it.
func (c *Compiler) Parse(text string) (*ast.Node, error) {
	if c.nfc {
		text = norm.NFC.String(text)
	}
	return c.parser.Parse(text)
}

// Render writes the tree to a fresh text and notifies the listeners. The
// result is not normalized.
func (c *Compiler) Render(root *ast.Node) (string, error) {
	c.buf.Reset()
	if err := ast.Render(&c.buf, root, c.parser); err != nil {
		return "", err
	}
	return c.buf.String(), nil
}

// On subscribes fn to rendered nodes of the given value kind.
func (c *Compiler) On(fn parser.Listener, kind ast.ValueKind) parser.Handle {
	return c.parser.On(fn, kind)
}

// Off cancels a subscription made with On.
func (c *Compiler) Off(h parser.Handle) bool {
	return c.parser.Off(h)
}
