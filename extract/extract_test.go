package extract_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/gnolang/wikitext/ast"
	"github.com/gnolang/wikitext/compiler"
	"github.com/gnolang/wikitext/extract"
	"github.com/gnolang/wikitext/parser"
)

func TestNormalizeTitle(t *testing.T) {
	t.Parallel()
	tests := []struct {
		input string
		want  string
	}{
		{"Athens", "athens"},
		{"Rush (band)|Rush", "rush_(band)"},
		{"Iron Maiden", "iron_maiden"},
		{" Mount Penteli |x|y", "mount_penteli"},
		{"|label", ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, extract.NormalizeTitle(tt.input))
		})
	}
}

func TestHarvester(t *testing.T) {
	t.Parallel()

	c := compiler.New()
	h := extract.Attach(c)

	text := "The trio covered [[Rush (band)|Rush]] and [[Iron Maiden]] songs, " +
		"then [[rush (band)|Rush]] again.\n" +
		"[[File:Dream Theater.jpg|thumb|The band]]\n" +
		"[[Category:Progressive metal musical groups|Dream Theater]]\n" +
		"[[Category:Progressive metal musical groups]]\n"
	_, err := c.Compile(text)
	require.NoError(t, err)

	assert.Equal(t, []string{"rush_(band)", "iron_maiden"}, h.Links())
	assert.Equal(t, []string{"Progressive metal musical groups"}, h.Categories())

	h.Reset()
	assert.Empty(t, h.Links())

	assert.True(t, h.Detach())
	assert.False(t, h.Detach())

	_, err = c.Compile("[[Athens]]")
	require.NoError(t, err)
	assert.Empty(t, h.Links())
}

type mockSubscriber struct {
	mock.Mock
}

func (m *mockSubscriber) On(fn parser.Listener, kind ast.ValueKind) parser.Handle {
	args := m.Called(fn, kind)
	return args.Get(0).(parser.Handle)
}

func (m *mockSubscriber) Off(h parser.Handle) bool {
	args := m.Called(h)
	return args.Bool(0)
}

func TestAttachDetach(t *testing.T) {
	t.Parallel()

	sub := new(mockSubscriber)
	sub.Mock.On("On", mock.AnythingOfType("parser.Listener"), ast.ValueLink).Return(parser.Handle(7))
	sub.Mock.On("Off", parser.Handle(7)).Return(true)

	h := extract.Attach(sub)
	assert.True(t, h.Detach())
	sub.AssertExpectations(t)
}
