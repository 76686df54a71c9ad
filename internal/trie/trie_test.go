package trie

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplit(t *testing.T) {
	t.Parallel()
	tests := []struct {
		title string
		want  []string
	}{
		{"athens", []string{"athens"}},
		{"athens/history", []string{"athens", "history"}},
		{"Category:Capitals in Europe", []string{"Category:", "Capitals in Europe"}},
		{"Wikipedia:Manual/Linking", []string{"Wikipedia:", "Manual", "Linking"}},
		{"/a//b/", []string{"a", "b"}},
		{"", nil},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.title, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Split(tt.title))
		})
	}
}

func TestTrie(t *testing.T) {
	t.Parallel()

	tr := New()
	assert.True(t, tr.Insert("athens"))
	assert.True(t, tr.Insert("athens/history"))
	assert.True(t, tr.Insert("athens/geography"))
	assert.False(t, tr.Insert("athens/history"))
	assert.True(t, tr.Insert("Category:Capitals in Europe"))
	assert.True(t, tr.Insert("sparta"))

	assert.Equal(t, 5, tr.Len())
	assert.True(t, tr.Contains("athens/history"))
	assert.False(t, tr.Contains("athens/economy"))
	assert.False(t, tr.Contains("Category:"))

	assert.Equal(t, []Entry{
		{Title: "athens", Count: 1},
		{Title: "athens/geography", Count: 1},
		{Title: "athens/history", Count: 2},
	}, tr.WithPrefix("athens"))

	assert.Equal(t, []Entry{{Title: "Category:Capitals in Europe", Count: 1}}, tr.WithPrefix("Category:"))
	assert.Nil(t, tr.WithPrefix("rome"))
	assert.Len(t, tr.WithPrefix(""), 5)
}

func TestTrieString(t *testing.T) {
	t.Parallel()

	tr := New()
	tr.Insert("a/b")
	tr.Insert("a/c")
	assert.Equal(t, "a(b(*)c(*))", tr.String())
}
