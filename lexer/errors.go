package lexer

import (
	"errors"
	"fmt"
)

var (
	// ErrRedirect signals that the document is a redirect stub. It is not a
	// content error; callers usually skip such documents.
	ErrRedirect = errors.New("redirect document")

	// ErrMalformedTag signals a structural span whose opening has no close.
	ErrMalformedTag = errors.New("malformed tag")

	// ErrUnknownCategory is returned when a symbol is registered into a
	// category the table does not know.
	ErrUnknownCategory = errors.New("unknown symbol category")
)

// RedirectError carries the title the redirect points to, when one could be
// read after the redirect marker.
type RedirectError struct {
	Target string
}

func (e *RedirectError) Error() string {
	if e.Target == "" {
		return ErrRedirect.Error()
	}
	return fmt.Sprintf("%s to %q", ErrRedirect, e.Target)
}

func (e *RedirectError) Unwrap() error { return ErrRedirect }

// MalformedTagError reports the opening tag that was never closed.
type MalformedTagError struct {
	Tag    string
	Offset int
}

func (e *MalformedTagError) Error() string {
	return fmt.Sprintf("%s: %q at offset %d has no closing tag", ErrMalformedTag, e.Tag, e.Offset)
}

func (e *MalformedTagError) Unwrap() error { return ErrMalformedTag }
