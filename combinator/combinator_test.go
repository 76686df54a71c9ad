package combinator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnolang/wikitext/lexer"
)

type sliceCursor struct {
	tokens []lexer.Token
	index  int
}

func cursorOf(kinds ...lexer.Kind) *sliceCursor {
	c := &sliceCursor{}
	for i, k := range kinds {
		c.tokens = append(c.tokens, lexer.Token{Kind: k, Column: i})
	}
	c.tokens = append(c.tokens, lexer.Token{Kind: lexer.EOF, Column: len(kinds)})
	return c
}

func (c *sliceCursor) Current() lexer.Token { return c.tokens[c.index] }
func (c *sliceCursor) Index() int           { return c.index }
func (c *sliceCursor) Next() {
	if c.index < len(c.tokens)-1 {
		c.index++
	}
}

func TestExpect(t *testing.T) {
	t.Parallel()

	c := cursorOf(lexer.Text, lexer.LineBreak)

	got, err := Expect(lexer.LineBreak)(c)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Equal(t, 0, c.Index())

	got, err = Peek(lexer.Text)(c)
	require.NoError(t, err)
	assert.Equal(t, lexer.Text, got.(lexer.Token).Kind)
	assert.Equal(t, 0, c.Index())

	got, err = Expect(lexer.Text)(c)
	require.NoError(t, err)
	assert.Equal(t, lexer.Text, got.(lexer.Token).Kind)
	assert.Equal(t, 1, c.Index())
}

func TestSeq(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		kinds     []lexer.Kind
		wantMatch bool
		wantErr   bool
		wantIndex int
	}{
		{
			name:      "full match",
			kinds:     []lexer.Kind{lexer.LinkStart, lexer.Text, lexer.LinkEnd},
			wantMatch: true,
			wantIndex: 3,
		},
		{
			name:      "first element missing is no match",
			kinds:     []lexer.Kind{lexer.Text, lexer.Text, lexer.LinkEnd},
			wantIndex: 0,
		},
		{
			name:    "partial match is a syntax error",
			kinds:   []lexer.Kind{lexer.LinkStart, lexer.Text, lexer.LineBreak},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := cursorOf(tt.kinds...)
			got, err := Seq(Expect(lexer.LinkStart), Expect(lexer.Text), Expect(lexer.LinkEnd))(c)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrSyntax)
				var syntax *SyntaxError
				require.True(t, errors.As(err, &syntax))
				assert.Equal(t, lexer.LineBreak, syntax.Token.Kind)
				return
			}
			require.NoError(t, err)
			if tt.wantMatch {
				assert.Len(t, Items(got), 3)
			} else {
				assert.Nil(t, got)
			}
			assert.Equal(t, tt.wantIndex, c.Index())
		})
	}
}

func TestAlt(t *testing.T) {
	t.Parallel()

	c := cursorOf(lexer.LineBreak)
	got, err := Alt(Expect(lexer.Text), Expect(lexer.LineBreak))(c)
	require.NoError(t, err)
	assert.Equal(t, lexer.LineBreak, got.(lexer.Token).Kind)

	c = cursorOf(lexer.List)
	got, err = Alt(Expect(lexer.Text), Expect(lexer.LineBreak))(c)
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = AltRequired(Expect(lexer.Text), Expect(lexer.LineBreak))(c)
	assert.ErrorIs(t, err, ErrSyntax)
}

func TestRepeatUntil(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		kinds     []lexer.Kind
		wantLen   int
		wantErr   bool
		wantIndex int
	}{
		{
			name:      "collects until stop without consuming it",
			kinds:     []lexer.Kind{lexer.Text, lexer.Text, lexer.LinkEnd},
			wantLen:   2,
			wantIndex: 2,
		},
		{
			name:      "immediate stop yields empty result",
			kinds:     []lexer.Kind{lexer.LinkEnd},
			wantLen:   0,
			wantIndex: 0,
		},
		{
			name:    "missing stop after results is a syntax error",
			kinds:   []lexer.Kind{lexer.Text, lexer.Text},
			wantErr: true,
		},
		{
			name:      "no progress ends the loop",
			kinds:     []lexer.Kind{lexer.List, lexer.LinkEnd},
			wantLen:   0,
			wantIndex: 0,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := cursorOf(tt.kinds...)
			got, err := RepeatUntil(Expect(lexer.Text), lexer.LinkEnd)(c)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrSyntax)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, got)
			assert.Len(t, Items(got), tt.wantLen)
			assert.Equal(t, tt.wantIndex, c.Index())
		})
	}
}

func TestPipe(t *testing.T) {
	t.Parallel()

	c := cursorOf(lexer.TemplateStart, lexer.Text, lexer.TemplateEnd)
	rule := Seq(Expect(lexer.TemplateStart), Expect(lexer.Text), Expect(lexer.TemplateEnd))
	got, err := Pipe(c, rule.Stage(), Extract)
	require.NoError(t, err)
	assert.Equal(t, lexer.Text, got.(lexer.Token).Kind)

	calls := 0
	counting := func(v any) (any, error) {
		calls++
		return v, nil
	}
	c = cursorOf(lexer.Text)
	got, err = Pipe(c, rule.Stage(), counting)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Zero(t, calls)

	_, err = Pipe("not a cursor", rule.Stage())
	assert.Error(t, err)

	_, err = Extract([]any{1, 2})
	assert.Error(t, err)
}
