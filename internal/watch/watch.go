// Package watch recompiles wikitext files whenever they are written.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/gnolang/wikitext/internal/cache"
)

// DefaultExtensions are the files a Watcher reacts to unless told
// otherwise.
var DefaultExtensions = []string{".wiki", ".txt"}

type Compiler interface {
	Compile(text string) (string, error)
}

// Result is the outcome of one recompilation. Cached is set when the file
// content had not changed since it was last compiled.
type Result struct {
	Path   string
	Text   string
	Err    error
	Cached bool
}

type Watcher struct {
	watcher    *fsnotify.Watcher
	compiler   Compiler
	cache      *cache.Cache
	logger     *zap.Logger
	extensions []string
	delay      time.Duration
	handle     func(Result)
}

type Option func(*Watcher)

func WithLogger(logger *zap.Logger) Option {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithCache skips files whose content is already in c.
func WithCache(c *cache.Cache) Option {
	return func(w *Watcher) { w.cache = c }
}

func WithExtensions(exts ...string) Option {
	return func(w *Watcher) {
		if len(exts) > 0 {
			w.extensions = exts
		}
	}
}

// WithDelay sets how long to wait after a write before compiling, so that
// bursts of writes are compiled once.
func WithDelay(d time.Duration) Option {
	return func(w *Watcher) { w.delay = d }
}

// WithHandler is called with every result.
func WithHandler(fn func(Result)) Option {
	return func(w *Watcher) { w.handle = fn }
}

func New(c Compiler, opts ...Option) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	w := &Watcher{
		watcher:    fw,
		compiler:   c,
		logger:     zap.NewNop(),
		extensions: DefaultExtensions,
		delay:      100 * time.Millisecond,
		handle:     func(Result) {},
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Add watches dirs and every directory below them, hidden ones aside.
func (w *Watcher) Add(dirs ...string) error {
	for _, dir := range dirs {
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() {
				return nil
			}
			if path != dir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return w.watcher.Add(path)
		})
		if err != nil {
			return fmt.Errorf("error adding directory to watcher: %w", err)
		}
	}
	return nil
}

// Run handles file events until ctx is done. It closes the watcher before
// returning.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleFileEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watch error", zap.Error(err))
		}
	}
}

func (w *Watcher) handleFileEvent(event fsnotify.Event) {
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.Add(event.Name); err != nil {
				w.logger.Error("failed to watch new directory", zap.String("dir", event.Name), zap.Error(err))
			}
			return
		}
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}
	if !w.isTarget(event.Name) {
		return
	}

	time.Sleep(w.delay)
	w.handle(w.Process(event.Name))
}

func (w *Watcher) isTarget(path string) bool {
	ext := filepath.Ext(path)
	for _, target := range w.extensions {
		if ext == target {
			return true
		}
	}
	return false
}

// Process compiles the file at path, or takes its result from the cache,
// and logs a one line summary.
func (w *Watcher) Process(path string) Result {
	content, err := os.ReadFile(path)
	if err != nil {
		w.logger.Error("failed to read file", zap.String("file", path), zap.Error(err))
		return Result{Path: path, Err: err}
	}

	if w.cache != nil {
		if entry, ok := w.cache.Lookup(path, content); ok {
			res := Result{Path: path, Text: entry.Text, Err: entry.Err(), Cached: true}
			w.logger.Debug("unchanged", zap.String("file", path))
			return res
		}
	}

	text, err := w.compiler.Compile(string(content))
	if w.cache != nil {
		if cerr := w.cache.Store(path, content, text, err); cerr != nil {
			w.logger.Warn("failed to update cache", zap.Error(cerr))
		}
	}

	if err != nil {
		w.logger.Info("compile failed", zap.String("file", path), zap.Error(err))
	} else {
		w.logger.Info("compiled",
			zap.String("file", path),
			zap.Int("bytes", len(content)),
			zap.Int("chars", len(text)),
		)
	}
	return Result{Path: path, Text: text, Err: err}
}
