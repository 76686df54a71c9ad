package lexer

import (
	"unicode/utf8"

	"go.uber.org/zap"
)

// Lexer turns wikitext into tokens using a symbol table. A Lexer keeps
// cursor state and must not be used by several goroutines at once.
type Lexer struct {
	table  *Table
	logger *zap.Logger

	row    int // not used yet
	col    int
	tokens []Token
}

// Option configures a Lexer.
type Option func(*Lexer)

// WithLogger sets the logger used for debug output.
func WithLogger(logger *zap.Logger) Option {
	return func(l *Lexer) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// New returns a lexer over table. A nil table means Default.
func New(table *Table, opts ...Option) *Lexer {
	if table == nil {
		table = Default
	}
	l := &Lexer{
		table:  table,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Tokenize scans text and returns its tokens, terminated by an EOF token.
//
// Each step first skips ignorable spans, then runs one pass over the
// current category. A pass tries every spec of the category once, in order,
// each at the cursor left by the previous one. A reserved pass that yields
// nothing switches the next pass to the fallback category; a fallback pass
// that yields nothing moves the cursor one rune forward.
func (l *Lexer) Tokenize(text string) ([]Token, error) {
	l.tokens = make([]Token, 0, len(text)/8+1)
	l.col = 0

	category := Reserved
	for l.col < len(text) {
		for _, spec := range l.table.Specs(Ignore) {
			out, err := spec.match(text, l.col, l.context())
			if err != nil {
				return nil, err
			}
			if out.Matched() {
				l.col = out.End()
			}
		}

		resolved, next, done, err := l.pass(text, category)
		if err != nil {
			return nil, err
		}
		l.tokens = append(l.tokens, resolved...)
		if done {
			break
		}
		category = next
	}

	l.tokens = append(l.tokens, Token{Kind: EOF, Row: l.row, Column: l.col})
	l.logger.Debug("tokenized", zap.Int("tokens", len(l.tokens)), zap.Int("bytes", len(text)))
	return l.tokens, nil
}

func (l *Lexer) pass(text string, category Category) (tokens []Token, next Category, done bool, err error) {
	ctx := l.context()
	for _, spec := range l.table.Specs(category) {
		out, err := spec.match(text, l.col, ctx)
		if err != nil {
			return nil, category, true, err
		}
		if !out.Matched() {
			continue
		}
		for _, span := range out.Spans {
			kind := span.Kind
			if kind == None {
				kind = Text
			}
			tokens = append(tokens, Token{
				Kind:   kind,
				Row:    l.row,
				Column: span.Start,
				Text:   text[span.Start:span.End],
			})
		}
		l.col = out.End()
	}

	if len(tokens) == 0 && category == Fallbacks {
		l.col += runeLen(text, l.col)
	}

	if l.col >= len(text) {
		return tokens, category, true, nil
	}
	if len(tokens) > 0 {
		return tokens, Reserved, false, nil
	}
	return tokens, Fallbacks, false, nil
}

// context exposes the last token of the previous passes to context-sensitive
// specs.
func (l *Lexer) context() matchContext {
	ctx := matchContext{boundary: l.table.boundary}
	if n := len(l.tokens); n > 0 {
		ctx.prev = l.tokens[n-1].Kind
		ctx.hasPrev = true
	}
	return ctx
}

func runeLen(text string, pos int) int {
	if pos >= len(text) {
		return 1
	}
	_, w := utf8.DecodeRuneInString(text[pos:])
	return w
}
