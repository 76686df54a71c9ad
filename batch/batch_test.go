package batch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/gnolang/wikitext/ast"
	"github.com/gnolang/wikitext/combinator"
	"github.com/gnolang/wikitext/compiler"
	"github.com/gnolang/wikitext/dump"
	"github.com/gnolang/wikitext/lexer"
)

type sliceSource struct {
	records []dump.Record
}

func (s *sliceSource) Next() (dump.Record, error) {
	if len(s.records) == 0 {
		return dump.Record{}, io.EOF
	}
	rec := s.records[0]
	s.records = s.records[1:]
	return rec, nil
}

type mockSource struct {
	mock.Mock
}

func (m *mockSource) Next() (dump.Record, error) {
	args := m.Called()
	return args.Get(0).(dump.Record), args.Error(1)
}

func records() []dump.Record {
	return []dump.Record{
		{ID: 1, Title: "Athens", Body: "Capital of [[Greece]]."},
		{ID: 2, Title: "Athina", Body: "#REDIRECT [[Athens]]"},
		{ID: 3, Title: "Broken", Body: "{{Infobox"},
		{ID: 4, Title: "Unclosed", Body: "[[Sparta"},
		{ID: 5, Title: "Sparta", Body: "==History==\nOld."},
		{ID: 6, Title: "Talk:Sparta", Namespace: 1, Body: "{{talk}}"},
	}
}

func TestClassify(t *testing.T) {
	t.Parallel()
	tests := []struct {
		err  error
		want Class
	}{
		{nil, Compiled},
		{&lexer.RedirectError{Target: "x"}, Redirect},
		{fmt.Errorf("wrapped: %w", &lexer.MalformedTagError{Tag: "{{"}), Malformed},
		{&combinator.SyntaxError{Msg: "x"}, Syntax},
		{errors.New("boom"), Other},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.want.String(), func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestRun(t *testing.T) {
	t.Parallel()

	var titles []string
	texts := make(map[string]string)
	stats, err := Run(context.Background(), zaptest.NewLogger(t), &sliceSource{records: records()},
		Options{Workers: 3},
		func(res Result) error {
			titles = append(titles, res.Record.Title)
			texts[res.Record.Title] = res.Text
			return nil
		})
	require.NoError(t, err)

	assert.Equal(t, Stats{Compiled: 3, Redirects: 1, Malformed: 1, Syntax: 1}, stats)
	assert.Equal(t, 6, stats.Total())
	assert.Equal(t, 2, stats.Failed())

	sort.Strings(titles)
	assert.Equal(t, []string{"Athens", "Athina", "Broken", "Sparta", "Talk:Sparta", "Unclosed"}, titles)
	assert.Equal(t, "Capital of Greece.", texts["Athens"])
	assert.Equal(t, "History\n\nOld.", texts["Sparta"])
	assert.Empty(t, texts["Broken"])
}

func TestRunNamespaces(t *testing.T) {
	t.Parallel()

	stats, err := Run(context.Background(), nil, &sliceSource{records: records()},
		Options{Workers: 1, Namespaces: []int{1}},
		func(Result) error { return nil })
	require.NoError(t, err)
	assert.Equal(t, Stats{Compiled: 1}, stats)
}

func TestRunSourceError(t *testing.T) {
	t.Parallel()

	src := new(mockSource)
	src.On("Next").Return(dump.Record{Title: "a", Body: "a"}, nil).Once()
	src.On("Next").Return(dump.Record{}, errors.New("truncated archive")).Once()

	_, err := Run(context.Background(), nil, src, Options{Workers: 2}, func(Result) error { return nil })
	assert.ErrorContains(t, err, "truncated archive")
	src.AssertExpectations(t)
}

func TestRunHandlerError(t *testing.T) {
	t.Parallel()

	many := make([]dump.Record, 100)
	for i := range many {
		many[i] = dump.Record{ID: int64(i), Body: "text"}
	}
	errStop := errors.New("stop")
	calls := 0
	_, err := Run(context.Background(), nil, &sliceSource{records: many}, Options{Workers: 4},
		func(Result) error {
			calls++
			return errStop
		})
	assert.ErrorIs(t, err, errStop)
	assert.Equal(t, 1, calls)
}

func TestRunCanceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	many := make([]dump.Record, 100)
	_, err := Run(ctx, nil, &sliceSource{records: many}, Options{Workers: 2}, func(Result) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunHook(t *testing.T) {
	t.Parallel()

	var workers atomic.Int32
	hook := func(c *compiler.Compiler) func(*Result) {
		workers.Add(1)
		var links []string
		c.On(func(n *ast.Node) { links = append(links, n.Value.Text) }, ast.ValueLink)
		return func(res *Result) {
			res.Data = links
			links = nil
		}
	}

	got := map[string][]string{}
	_, err := Run(context.Background(), nil, &sliceSource{records: records()},
		Options{Workers: 3, Hook: hook},
		func(res Result) error {
			links, _ := res.Data.([]string)
			got[res.Record.Title] = links
			return nil
		})
	require.NoError(t, err)

	assert.Equal(t, int32(3), workers.Load())
	assert.Equal(t, []string{"Greece"}, got["Athens"])
	assert.Empty(t, got["Sparta"])
	assert.Len(t, got, 6)
}

func TestRunProgress(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	stats, err := Run(context.Background(), nil, &sliceSource{records: records()},
		Options{Workers: 2, Progress: true, ProgressTotal: 6, ProgressWriter: &out},
		func(Result) error { return nil })
	require.NoError(t, err)
	assert.Equal(t, 6, stats.Total())
	assert.NotEmpty(t, out.String())
}
