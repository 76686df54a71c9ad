package combinator

import (
	"errors"
	"fmt"

	"github.com/gnolang/wikitext/lexer"
)

// ErrSyntax is the sentinel wrapped by every *SyntaxError.
var ErrSyntax = errors.New("syntax error")

// SyntaxError reports a construct that started to match and could not be
// completed. Token is the token the parser stopped at.
type SyntaxError struct {
	Msg   string
	Token lexer.Token
}

func newSyntaxError(c Cursor, msg string) *SyntaxError {
	return &SyntaxError{Msg: msg, Token: c.Current()}
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s: %s at %s token (column %d)", ErrSyntax, e.Msg, e.Token.Kind, e.Token.Column)
}

func (e *SyntaxError) Unwrap() error { return ErrSyntax }
