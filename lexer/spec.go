package lexer

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Variant selects how a Spec matches. The set is closed; Match dispatches on it.
type Variant int

const (
	// Delimited matches its start pattern, or else its end pattern, as a
	// single span.
	Delimited Variant = iota
	// Balanced matches an opening literal up to its balancing close,
	// counting nested openings, and expands into open/inner/close spans.
	Balanced
	// Enclosed matches an opening literal up to the first closing literal
	// and expands into open/inner/close spans.
	Enclosed
	// ListMarker matches a list bullet that only counts at the start of a line.
	ListMarker
	// RedirectMarker aborts tokenization when it matches.
	RedirectMarker
	// Ignorable matches spans that are dropped from the token stream.
	Ignorable
	// Fallback matches plain text up to the next reserved or ignorable boundary.
	Fallback
)

// Span is one piece of a match. Kind None means "no explicit kind".
type Span struct {
	Start int
	End   int
	Kind  Kind
}

// Outcome is the result of a Spec match at a position. No spans means no
// match; more than one span is a recursive match emitted as several tokens.
type Outcome struct {
	Spans []Span
}

func (o Outcome) Matched() bool   { return len(o.Spans) > 0 }
func (o Outcome) Recursive() bool { return len(o.Spans) > 1 }

// End is the offset right after the last span.
func (o Outcome) End() int {
	if len(o.Spans) == 0 {
		return -1
	}
	return o.Spans[len(o.Spans)-1].End
}

func single(start, end int, kind Kind) Outcome {
	return Outcome{Spans: []Span{{Start: start, End: end, Kind: kind}}}
}

// pattern keeps an anchored form for matching at a position and the raw
// expression for boundary search.
type pattern struct {
	expr     string
	anchored *regexp.Regexp
	search   *regexp.Regexp
}

func newPattern(expr string) *pattern {
	if expr == "" {
		return nil
	}
	return &pattern{
		expr:     expr,
		anchored: regexp.MustCompile(`^(?:` + expr + `)`),
		search:   regexp.MustCompile(expr),
	}
}

// at returns the length of the match starting at pos, or -1.
func (p *pattern) at(text string, pos int) int {
	if p == nil || pos >= len(text) {
		return -1
	}
	loc := p.anchored.FindStringIndex(text[pos:])
	if loc == nil || loc[1] == 0 {
		return -1
	}
	return loc[1]
}

// delimiters is an opening/closing literal pair.
type delimiters struct {
	open, close string
}

// Spec describes one markup construct and how to recognize it.
type Spec struct {
	Name    string
	Variant Variant

	StartKind Kind
	EndKind   Kind

	start *pattern
	end   *pattern
	// self-contained form of an ignorable tag, e.g. <ref name="x"/>
	closed *pattern
	// literal pairs for Balanced and Enclosed
	pairs []delimiters
}

// NewDelimited returns a spec matching start (kind startKind) or, failing
// that, end (kind endKind). end may be empty.
func NewDelimited(name, start string, startKind Kind, end string, endKind Kind) *Spec {
	return &Spec{
		Name:      name,
		Variant:   Delimited,
		StartKind: startKind,
		EndKind:   endKind,
		start:     newPattern(start),
		end:       newPattern(end),
	}
}

// NewBalanced returns a spec for a nestable construct such as a template.
func NewBalanced(name, open, close string, openKind, closeKind Kind) *Spec {
	return &Spec{
		Name:      name,
		Variant:   Balanced,
		StartKind: openKind,
		EndKind:   closeKind,
		pairs:     []delimiters{{open: open, close: close}},
	}
}

// NewEnclosed returns a spec for a non-nesting bracketed construct. Each
// pair is an alternative spelling of the same construct.
func NewEnclosed(name string, openKind, closeKind Kind, pairs ...[2]string) *Spec {
	s := &Spec{
		Name:      name,
		Variant:   Enclosed,
		StartKind: openKind,
		EndKind:   closeKind,
	}
	for _, p := range pairs {
		s.pairs = append(s.pairs, delimiters{open: p[0], close: p[1]})
	}
	return s
}

// NewListMarker returns a spec for a list bullet.
func NewListMarker(name, marker string, kind Kind) *Spec {
	return &Spec{
		Name:      name,
		Variant:   ListMarker,
		StartKind: kind,
		start:     newPattern(marker),
	}
}

// NewRedirect returns a spec that aborts tokenization on marker.
func NewRedirect(name, marker string) *Spec {
	return &Spec{
		Name:      name,
		Variant:   RedirectMarker,
		StartKind: Redirect,
		start:     newPattern(marker),
	}
}

// NewIgnore returns a spec for a tag dropped from the token stream. closed
// is the self-contained form; open/close delimit the long form.
func NewIgnore(name, closed, open, close string) *Spec {
	return &Spec{
		Name:    name,
		Variant: Ignorable,
		closed:  newPattern(closed),
		start:   newPattern(open),
		end:     newPattern(close),
	}
}

// NewFallback returns the plain text spec.
func NewFallback(name string) *Spec {
	return &Spec{
		Name:      name,
		Variant:   Fallback,
		StartKind: Text,
	}
}

// matchContext is what a spec may observe besides the text itself.
type matchContext struct {
	prev     Kind
	hasPrev  bool
	boundary *regexp.Regexp
}

var redirectTarget = regexp.MustCompile(`\[\[([^\]|#\n]+)`)

// match attempts the spec at pos.
func (s *Spec) match(text string, pos int, ctx matchContext) (Outcome, error) {
	if pos >= len(text) {
		return Outcome{}, nil
	}

	switch s.Variant {
	case Delimited:
		if n := s.start.at(text, pos); n > 0 {
			return single(pos, pos+n, s.StartKind), nil
		}
		if n := s.end.at(text, pos); n > 0 {
			return single(pos, pos+n, s.EndKind), nil
		}
		return Outcome{}, nil

	case Balanced:
		return s.matchBalanced(text, pos)

	case Enclosed:
		return s.matchEnclosed(text, pos)

	case ListMarker:
		n := s.start.at(text, pos)
		if n < 0 {
			return Outcome{}, nil
		}
		if ctx.hasPrev && ctx.prev != LineBreak && ctx.prev != s.StartKind {
			// a bullet in the middle of a line is just text
			return single(pos, pos+n, Text), nil
		}
		return single(pos, pos+n, s.StartKind), nil

	case RedirectMarker:
		n := s.start.at(text, pos)
		if n < 0 {
			return Outcome{}, nil
		}
		err := &RedirectError{}
		if m := redirectTarget.FindStringSubmatch(text[pos+n:]); m != nil {
			err.Target = strings.TrimSpace(m[1])
		}
		return Outcome{}, err

	case Ignorable:
		if n := s.closed.at(text, pos); n > 0 {
			return single(pos, pos+n, None), nil
		}
		n := s.start.at(text, pos)
		if n < 0 {
			return Outcome{}, nil
		}
		loc := s.end.find(text, pos+n)
		if loc == nil {
			return Outcome{}, &MalformedTagError{Tag: text[pos : pos+n], Offset: pos}
		}
		return single(pos, loc[1], None), nil

	case Fallback:
		_, w := utf8.DecodeRuneInString(text[pos:])
		end := len(text)
		if ctx.boundary != nil {
			if loc := ctx.boundary.FindStringIndex(text[pos+w:]); loc != nil {
				end = pos + w + loc[0]
			}
		}
		return single(pos, end, s.StartKind), nil
	}

	return Outcome{}, nil
}

// find returns the absolute offsets of the first occurrence of the pattern
// at or after pos.
func (p *pattern) find(text string, pos int) []int {
	if p == nil || pos > len(text) {
		return nil
	}
	loc := p.search.FindStringIndex(text[pos:])
	if loc == nil {
		return nil
	}
	return []int{pos + loc[0], pos + loc[1]}
}

func (s *Spec) matchBalanced(text string, pos int) (Outcome, error) {
	d := s.pairs[0]
	if !strings.HasPrefix(text[pos:], d.open) {
		return Outcome{}, nil
	}

	inner := pos + len(d.open)
	depth := 1
	i := inner
	for {
		closeAt := strings.Index(text[i:], d.close)
		if closeAt < 0 {
			return Outcome{}, &MalformedTagError{Tag: d.open, Offset: pos}
		}
		closeAt += i

		openAt := strings.Index(text[i:], d.open)
		if openAt >= 0 && i+openAt < closeAt {
			depth++
			i += openAt + len(d.open)
			continue
		}

		depth--
		if depth == 0 {
			return s.expand(pos, inner, closeAt, closeAt+len(d.close)), nil
		}
		i = closeAt + len(d.close)
	}
}

func (s *Spec) matchEnclosed(text string, pos int) (Outcome, error) {
	for _, d := range s.pairs {
		if !strings.HasPrefix(text[pos:], d.open) {
			continue
		}
		inner := pos + len(d.open)
		closeAt := strings.Index(text[inner:], d.close)
		if closeAt < 0 {
			return Outcome{}, &MalformedTagError{Tag: d.open, Offset: pos}
		}
		closeAt += inner
		return s.expand(pos, inner, closeAt, closeAt+len(d.close)), nil
	}
	return Outcome{}, nil
}

// expand builds the open/inner/close spans of a recursive match. The inner
// span carries no explicit kind.
func (s *Spec) expand(open, inner, closeAt, end int) Outcome {
	return Outcome{Spans: []Span{
		{Start: open, End: inner, Kind: s.StartKind},
		{Start: inner, End: closeAt, Kind: None},
		{Start: closeAt, End: end, Kind: s.EndKind},
	}}
}

// boundaries lists the expressions at which plain text must stop so this
// spec gets a chance to match. Closers of recursive and ignorable spans are
// left out: they are found by the spec itself after its opening, and on
// their own they never match.
func (s *Spec) boundaries() []string {
	patterns := []*pattern{s.start, s.closed}
	if s.Variant == Delimited {
		patterns = append(patterns, s.end)
	}

	var out []string
	for _, p := range patterns {
		if p != nil {
			out = append(out, p.expr)
		}
	}
	for _, d := range s.pairs {
		out = append(out, regexp.QuoteMeta(d.open))
	}
	return out
}
