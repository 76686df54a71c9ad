// Package cache remembers the compile result of files by content hash, so
// that unchanged files are not compiled again.
package cache

import (
	"crypto/md5"
	"encoding/gob"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gnolang/wikitext/batch"
	"github.com/gnolang/wikitext/combinator"
	"github.com/gnolang/wikitext/lexer"
)

const fileName = "compile_cache.gob"

type Entry struct {
	Hash      string
	Text      string
	Failure   string // error message, empty on success
	Class     batch.Class
	CreatedAt time.Time
}

// Err rebuilds the compile error of the entry, or returns nil when the
// file compiled. The error matches the same sentinel as the original one,
// so that errors.Is and batch.Classify treat a cached failure like a fresh
// one.
func (e Entry) Err() error {
	if e.Failure == "" {
		return nil
	}
	return &cachedError{msg: e.Failure, class: e.Class}
}

type cachedError struct {
	msg   string
	class batch.Class
}

func (e *cachedError) Error() string { return e.msg }

func (e *cachedError) Unwrap() error {
	switch e.class {
	case batch.Redirect:
		return lexer.ErrRedirect
	case batch.Malformed:
		return lexer.ErrMalformedTag
	case batch.Syntax:
		return combinator.ErrSyntax
	default:
		return nil
	}
}

// Cache is safe for concurrent use. A Cache with a directory persists its
// entries there after every change.
type Cache struct {
	dir     string
	entries map[string]Entry
	mutex   sync.RWMutex
	maxAge  time.Duration
}

// New returns a cache stored in dir, loading what a previous run left
// there. An empty dir keeps the cache in memory.
func New(dir string) (*Cache, error) {
	c := &Cache{
		dir:     dir,
		entries: make(map[string]Entry),
	}
	if dir == "" {
		return c, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	if err := c.load(); err != nil {
		return nil, fmt.Errorf("failed to load cache: %w", err)
	}
	return c, nil
}

func (c *Cache) load() error {
	file, err := os.Open(filepath.Join(c.dir, fileName))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	defer file.Close()

	return gob.NewDecoder(file).Decode(&c.entries)
}

// save must be called with the mutex held.
func (c *Cache) save() error {
	if c.dir == "" {
		return nil
	}
	file, err := os.Create(filepath.Join(c.dir, fileName))
	if err != nil {
		return fmt.Errorf("failed to create cache file: %w", err)
	}
	defer file.Close()

	if err := gob.NewEncoder(file).Encode(c.entries); err != nil {
		return fmt.Errorf("failed to encode cache file: %w", err)
	}
	return nil
}

// Hash returns the key content is cached under.
func Hash(content []byte) string {
	return fmt.Sprintf("%x", md5.Sum(content))
}

// Lookup returns the entry of path if it was stored for the same content
// and has not expired.
func (c *Cache) Lookup(path string, content []byte) (Entry, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	entry, ok := c.entries[path]
	if !ok || entry.Hash != Hash(content) {
		return Entry{}, false
	}
	if c.maxAge > 0 && time.Since(entry.CreatedAt) > c.maxAge {
		return Entry{}, false
	}
	return entry, true
}

// Store records the compile result of path for content.
func (c *Cache) Store(path string, content []byte, text string, compileErr error) error {
	entry := Entry{
		Hash:      Hash(content),
		Text:      text,
		Class:     batch.Classify(compileErr),
		CreatedAt: time.Now(),
	}
	if compileErr != nil {
		entry.Failure = compileErr.Error()
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.entries[path] = entry
	return c.save()
}

// SetMaxAge makes entries older than d miss. Zero disables expiry.
func (c *Cache) SetMaxAge(d time.Duration) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.maxAge = d
}

func (c *Cache) Len() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.entries)
}

// InvalidateAll drops every entry.
func (c *Cache) InvalidateAll() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.entries = make(map[string]Entry)
	return c.save()
}
