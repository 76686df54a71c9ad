// Package batch compiles a stream of documents on a pool of workers.
package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"sync"

	"github.com/schollz/progressbar/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/gnolang/wikitext/combinator"
	"github.com/gnolang/wikitext/compiler"
	"github.com/gnolang/wikitext/dump"
	"github.com/gnolang/wikitext/lexer"
)

// Source yields documents until it returns io.EOF. *dump.Reader is a
// Source.
type Source interface {
	Next() (dump.Record, error)
}

// Class sorts compile outcomes.
type Class int

const (
	Compiled Class = iota
	Redirect
	Malformed
	Syntax
	Other
)

func (c Class) String() string {
	switch c {
	case Compiled:
		return "compiled"
	case Redirect:
		return "redirect"
	case Malformed:
		return "malformed"
	case Syntax:
		return "syntax"
	default:
		return "other"
	}
}

// Classify returns the class of a compile error. A nil error is Compiled.
func Classify(err error) Class {
	switch {
	case err == nil:
		return Compiled
	case errors.Is(err, lexer.ErrRedirect):
		return Redirect
	case errors.Is(err, lexer.ErrMalformedTag):
		return Malformed
	case errors.Is(err, combinator.ErrSyntax):
		return Syntax
	default:
		return Other
	}
}

// Result is the outcome of one document. Text is empty when Err is set.
type Result struct {
	Record dump.Record
	Text   string
	Err    error
	Class  Class
	// Data is whatever the Hook of the run attached to the result.
	Data any
}

// Stats counts results per class.
type Stats struct {
	Compiled  int
	Redirects int
	Malformed int
	Syntax    int
	Other     int
}

func (s *Stats) add(c Class) {
	switch c {
	case Compiled:
		s.Compiled++
	case Redirect:
		s.Redirects++
	case Malformed:
		s.Malformed++
	case Syntax:
		s.Syntax++
	default:
		s.Other++
	}
}

// Total is the number of documents seen.
func (s Stats) Total() int {
	return s.Compiled + s.Redirects + s.Malformed + s.Syntax + s.Other
}

// Failed is the number of documents that did not compile, redirects aside.
func (s Stats) Failed() int {
	return s.Malformed + s.Syntax + s.Other
}

type Options struct {
	// Workers is the number of compilers run in parallel. Zero means one
	// per CPU.
	Workers int
	// Namespaces restricts the run to pages of these namespaces. Empty
	// means all pages.
	Namespaces []int
	// Compiler configures the compiler of every worker.
	Compiler []compiler.Option
	// Hook, when set, is installed on the compiler of every worker.
	Hook Hook

	Progress       bool
	ProgressTotal  int64 // -1 when unknown
	ProgressWriter io.Writer
}

// Hook is called once per worker with the worker's compiler, typically to
// subscribe listeners to it. The returned function runs in the worker right
// after each document is compiled and may fill in Result.Data.
type Hook func(c *compiler.Compiler) func(res *Result)

// Handler receives results one at a time, never concurrently. Returning an
// error stops the run.
type Handler func(Result) error

// Run compiles every document of src and hands the results to handle in
// completion order. Documents that fail to compile are counted and passed
// on, they do not stop the run. Run stops early when ctx is done, when src
// fails or when handle returns an error.
func Run(ctx context.Context, logger *zap.Logger, src Source, opts Options, handle Handler) (Stats, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	jobs := make(chan dump.Record, workers)
	results := make(chan Result, workers)

	g.Go(func() error {
		defer close(jobs)
		for {
			rec, err := src.Next()
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("batch source: %w", err)
			}
			if !wanted(rec, opts.Namespaces) {
				continue
			}
			select {
			case jobs <- rec:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	})

	copts := append([]compiler.Option{compiler.WithLogger(logger)}, opts.Compiler...)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		g.Go(func() error {
			defer wg.Done()
			c := compiler.New(copts...)
			var after func(*Result)
			if opts.Hook != nil {
				after = opts.Hook(c)
			}
			for rec := range jobs {
				res := compile(c, rec)
				if after != nil {
					after(&res)
				}
				select {
				case results <- res:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			return nil
		})
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	bar := newBar(opts)
	var (
		stats     Stats
		handleErr error
	)
	for res := range results {
		if handleErr != nil {
			continue
		}
		stats.add(res.Class)
		logResult(logger, res)
		if bar != nil {
			bar.Add(1)
		}
		if err := handle(res); err != nil {
			handleErr = err
			cancel()
		}
	}
	if bar != nil {
		bar.Finish()
	}

	err := g.Wait()
	if handleErr != nil {
		return stats, handleErr
	}
	return stats, err
}

func compile(c *compiler.Compiler, rec dump.Record) Result {
	text, err := c.Compile(rec.Body)
	return Result{Record: rec, Text: text, Err: err, Class: Classify(err)}
}

func logResult(logger *zap.Logger, res Result) {
	switch res.Class {
	case Compiled:
	case Redirect:
		logger.Debug("skipping redirect", zap.String("title", res.Record.Title))
	default:
		logger.Warn("failed to compile document",
			zap.String("title", res.Record.Title),
			zap.Int64("id", res.Record.ID),
			zap.Stringer("class", res.Class),
			zap.Error(res.Err),
		)
	}
}

func wanted(rec dump.Record, namespaces []int) bool {
	if len(namespaces) == 0 {
		return true
	}
	for _, ns := range namespaces {
		if rec.Namespace == ns {
			return true
		}
	}
	return false
}

func newBar(opts Options) *progressbar.ProgressBar {
	if !opts.Progress {
		return nil
	}
	w := opts.ProgressWriter
	if w == nil {
		w = os.Stderr
	}
	total := opts.ProgressTotal
	if total == 0 {
		total = -1
	}
	return progressbar.NewOptions64(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("compiling"),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
}
