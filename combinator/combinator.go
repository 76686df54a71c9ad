/*
Package combinator provides the small set of parsing primitives the wikitext
grammar is built from.

A Rule looks at the token under a Cursor and returns either a result, no
match (a nil result and a nil error), or a hard failure (a non-nil error).
Results are untyped: Expect yields a lexer.Token, Seq and RepeatUntil yield
[]any, and grammar productions yield whatever node type they build.

Sequences never backtrack past their first element. Once the first element
of a Seq has matched, every following element must match too, otherwise the
Seq fails with a *SyntaxError instead of reporting no match. This keeps a
partially recognized construct from silently turning into something else.
*/
package combinator

import (
	"fmt"

	"github.com/gnolang/wikitext/lexer"
)

// Cursor is the token position a rule works on.
type Cursor interface {
	Current() lexer.Token
	Next()
	Index() int
}

// Rule is a parsing function. A nil result with a nil error means no match.
type Rule func(c Cursor) (any, error)

// Stage is one step of a Pipe.
type Stage func(v any) (any, error)

// Expect matches a token of the given kind, consumes it and returns it.
func Expect(kind lexer.Kind) Rule {
	return expect(kind, true)
}

// Peek matches a token of the given kind without consuming it.
func Peek(kind lexer.Kind) Rule {
	return expect(kind, false)
}

func expect(kind lexer.Kind, consume bool) Rule {
	return func(c Cursor) (any, error) {
		current := c.Current()
		if current.Kind != kind {
			return nil, nil
		}
		if consume {
			c.Next()
		}
		return current, nil
	}
}

// Seq applies rules in order and collects their results. If the first rule
// does not match, Seq does not match. If a later one does not match, Seq
// fails with a syntax error.
func Seq(rules ...Rule) Rule {
	return func(c Cursor) (any, error) {
		acc := make([]any, 0, len(rules))
		for _, rule := range rules {
			result, err := rule(c)
			if err != nil {
				return nil, err
			}
			if result == nil {
				if len(acc) > 0 {
					return nil, newSyntaxError(c, "bad token sequence")
				}
				return nil, nil
			}
			acc = append(acc, result)
		}
		return acc, nil
	}
}

// Alt returns the result of the first rule that matches.
func Alt(rules ...Rule) Rule {
	return alt(false, rules)
}

// AltRequired is like Alt but fails with a syntax error when nothing matches.
func AltRequired(rules ...Rule) Rule {
	return alt(true, rules)
}

func alt(required bool, rules []Rule) Rule {
	return func(c Cursor) (any, error) {
		for _, rule := range rules {
			result, err := rule(c)
			if err != nil {
				return nil, err
			}
			if result != nil {
				return result, nil
			}
		}
		if required {
			return nil, newSyntaxError(c, "no alternative matched")
		}
		return nil, nil
	}
}

// RepeatUntil applies rule while the current token is neither stop nor EOF
// and collects the results that matched. It does not consume stop. If
// something was collected but the loop did not end on stop, it fails with a
// syntax error. A step that neither matches nor moves the cursor ends the
// loop.
func RepeatUntil(rule Rule, stop lexer.Kind) Rule {
	return func(c Cursor) (any, error) {
		acc := make([]any, 0)
		for !c.Current().Is(stop) && !c.Current().Is(lexer.EOF) {
			before := c.Index()
			result, err := rule(c)
			if err != nil {
				return nil, err
			}
			if result == nil {
				if c.Index() == before {
					break
				}
				continue
			}
			acc = append(acc, result)
		}

		if len(acc) > 0 && !c.Current().Is(stop) {
			return nil, newSyntaxError(c, fmt.Sprintf("no closing %s found", stop))
		}
		return acc, nil
	}
}

// Pipe threads value through stages from left to right and stops at the
// first stage that yields no result.
func Pipe(value any, stages ...Stage) (any, error) {
	result := value
	for _, stage := range stages {
		var err error
		result, err = stage(result)
		if err != nil {
			return nil, err
		}
		if result == nil {
			return nil, nil
		}
	}
	return result, nil
}

// Stage turns the rule into a pipe stage that expects a Cursor as input.
func (r Rule) Stage() Stage {
	return func(v any) (any, error) {
		c, ok := v.(Cursor)
		if !ok {
			return nil, fmt.Errorf("rule stage: got %T, want Cursor", v)
		}
		return r(c)
	}
}

// Extract reduces an (open, content, close) result to its content.
func Extract(v any) (any, error) {
	items, ok := v.([]any)
	if !ok || len(items) != 3 {
		return nil, fmt.Errorf("extract: want a 3-element sequence, got %T", v)
	}
	return items[1], nil
}

// Items returns the elements of a Seq or RepeatUntil result.
func Items(v any) []any {
	items, _ := v.([]any)
	return items
}
