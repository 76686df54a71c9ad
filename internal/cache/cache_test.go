package cache

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnolang/wikitext/batch"
	"github.com/gnolang/wikitext/combinator"
	"github.com/gnolang/wikitext/lexer"
)

func TestCacheMemory(t *testing.T) {
	t.Parallel()

	c, err := New("")
	require.NoError(t, err)

	content := []byte("[[Athens]]")
	_, ok := c.Lookup("a.wiki", content)
	assert.False(t, ok)

	require.NoError(t, c.Store("a.wiki", content, "Athens", nil))
	entry, ok := c.Lookup("a.wiki", content)
	require.True(t, ok)
	assert.Equal(t, "Athens", entry.Text)
	assert.Empty(t, entry.Failure)

	_, ok = c.Lookup("a.wiki", []byte("[[Sparta]]"))
	assert.False(t, ok, "changed content misses")

	require.NoError(t, c.Store("b.wiki", []byte("{{x"), "", errors.New("malformed tag")))
	entry, ok = c.Lookup("b.wiki", []byte("{{x"))
	require.True(t, ok)
	assert.Equal(t, "malformed tag", entry.Failure)
	assert.Equal(t, 2, c.Len())

	require.NoError(t, c.InvalidateAll())
	assert.Zero(t, c.Len())
}

func TestEntryErr(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		err    error
		target error
		class  batch.Class
	}{
		{
			name:   "redirect",
			err:    &lexer.RedirectError{Target: "Athens"},
			target: lexer.ErrRedirect,
			class:  batch.Redirect,
		},
		{
			name:   "malformed",
			err:    &lexer.MalformedTagError{Tag: "{{", Offset: 3},
			target: lexer.ErrMalformedTag,
			class:  batch.Malformed,
		},
		{
			name:   "syntax",
			err:    &combinator.SyntaxError{Msg: "expected LinkEnd"},
			target: combinator.ErrSyntax,
			class:  batch.Syntax,
		},
		{
			name:  "other",
			err:   errors.New("disk on fire"),
			class: batch.Other,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c, err := New("")
			require.NoError(t, err)
			require.NoError(t, c.Store("a.wiki", []byte("a"), "", tt.err))

			entry, ok := c.Lookup("a.wiki", []byte("a"))
			require.True(t, ok)
			got := entry.Err()
			require.Error(t, got)
			assert.Equal(t, tt.err.Error(), got.Error())
			assert.Equal(t, tt.class, batch.Classify(got))
			if tt.target != nil {
				assert.ErrorIs(t, got, tt.target)
			}
		})
	}

	assert.NoError(t, Entry{Text: "ok"}.Err())
}

func TestCacheMaxAge(t *testing.T) {
	t.Parallel()

	c, err := New("")
	require.NoError(t, err)
	require.NoError(t, c.Store("a.wiki", []byte("a"), "a", nil))

	c.SetMaxAge(time.Nanosecond)
	time.Sleep(time.Millisecond)
	_, ok := c.Lookup("a.wiki", []byte("a"))
	assert.False(t, ok)

	c.SetMaxAge(0)
	_, ok = c.Lookup("a.wiki", []byte("a"))
	assert.True(t, ok)
}

func TestCachePersistence(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "cache")
	c, err := New(dir)
	require.NoError(t, err)
	require.NoError(t, c.Store("a.wiki", []byte("a"), "A", nil))

	reopened, err := New(dir)
	require.NoError(t, err)
	entry, ok := reopened.Lookup("a.wiki", []byte("a"))
	require.True(t, ok)
	assert.Equal(t, "A", entry.Text)

	require.NoError(t, os.WriteFile(filepath.Join(dir, fileName), []byte("garbage"), 0o644))
	_, err = New(dir)
	assert.Error(t, err)
}
