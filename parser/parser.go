/*
Package parser builds the syntax tree of a wikitext document.

A Parser tokenizes its input, then repeatedly applies the top level grammar
expression at the current token and appends what it produces to the
document root. Tokens no production accepts are skipped one at a time, so
parsing always reaches the end of input unless a construct is found broken.

The Parser also owns the listener registry consulted by the render pass:

	p := parser.New()
	p.On(func(n *ast.Node) { fmt.Println(n.Value.Text) }, ast.ValueLink)
	root, err := p.Parse(text)
	...
	err = ast.Render(w, root, p)
*/
package parser

import (
	"go.uber.org/zap"

	"github.com/gnolang/wikitext/ast"
	"github.com/gnolang/wikitext/lexer"
)

// Parser is not safe for concurrent use.
type Parser struct {
	lexer     *lexer.Lexer
	logger    *zap.Logger
	listeners *Registry

	tokens []lexer.Token
	index  int
	root   *ast.Node
}

type Option func(*parserOptions)

type parserOptions struct {
	table  *lexer.Table
	logger *zap.Logger
}

// WithTable makes the parser tokenize with table instead of lexer.Default.
func WithTable(table *lexer.Table) Option {
	return func(o *parserOptions) { o.table = table }
}

func WithLogger(logger *zap.Logger) Option {
	return func(o *parserOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

func New(opts ...Option) *Parser {
	o := parserOptions{table: lexer.Default, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Parser{
		lexer:     lexer.New(o.table, lexer.WithLogger(o.logger)),
		logger:    o.logger,
		listeners: NewRegistry(),
	}
}

// Parse returns the tree of text. Lexer errors (redirects, malformed tags)
// and syntax errors are returned as they are.
func (p *Parser) Parse(text string) (*ast.Node, error) {
	p.root = ast.New(nil)
	p.index = 0

	tokens, err := p.lexer.Tokenize(text)
	if err != nil {
		return nil, err
	}
	p.tokens = tokens

	for !p.Current().Is(lexer.EOF) {
		result, err := expression(p)
		if err != nil {
			return nil, err
		}
		if result == nil {
			p.logger.Debug("skipping token", zap.Stringer("token", p.Current()))
			p.Next()
			continue
		}
		p.root.Add(result.(*ast.Node))
	}
	return p.root, nil
}

// Current returns the token under the cursor, or an EOF token once the
// tokens are exhausted.
func (p *Parser) Current() lexer.Token {
	if p.index >= len(p.tokens) {
		return lexer.Token{Kind: lexer.EOF}
	}
	return p.tokens[p.index]
}

func (p *Parser) Next() {
	if p.index < len(p.tokens) {
		p.index++
	}
}

func (p *Parser) Index() int { return p.index }

// On subscribes fn to rendered nodes whose value is of the given kind.
func (p *Parser) On(fn Listener, kind ast.ValueKind) Handle {
	return p.listeners.On(fn, kind)
}

// Off cancels a subscription made with On.
func (p *Parser) Off(h Handle) bool {
	return p.listeners.Off(h)
}

// Notify lets a Parser serve as the ast.Notifier of a render pass.
func (p *Parser) Notify(n *ast.Node) {
	p.listeners.Notify(n)
}
