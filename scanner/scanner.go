// Package scanner finds wikitext files under a directory.
package scanner

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gnolang/wikitext/dump"
)

// DefaultExtensions are scanned when no extension is given.
var DefaultExtensions = []string{".wiki", ".wikitext", ".txt"}

type FileInfo struct {
	Path string
	Size int64
}

type Scanner struct {
	rootDir    string
	extensions []string
}

func New(rootDir string, extensions ...string) *Scanner {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	return &Scanner{
		rootDir:    rootDir,
		extensions: extensions,
	}
}

// Scan returns the matching files sorted by path. Hidden directories are
// skipped. A root that is a single file is returned as is.
func (s *Scanner) Scan() ([]FileInfo, error) {
	var files []FileInfo
	err := filepath.WalkDir(s.rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != s.rootDir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if path != s.rootDir && !s.IsTarget(path) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		files = append(files, FileInfo{Path: path, Size: info.Size()})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", s.rootDir, err)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}

// IsTarget reports whether path has one of the scanned extensions.
func (s *Scanner) IsTarget(path string) bool {
	ext := filepath.Ext(path)
	for _, targetExt := range s.extensions {
		if ext == targetExt {
			return true
		}
	}
	return false
}

// Source reads scanned files as documents, one per call to Next. The title
// of a document is its path.
type Source struct {
	files []FileInfo
	next  int
}

func NewSource(files []FileInfo) *Source {
	return &Source{files: files}
}

func (s *Source) Next() (dump.Record, error) {
	if s.next >= len(s.files) {
		return dump.Record{}, io.EOF
	}
	file := s.files[s.next]
	s.next++

	body, err := os.ReadFile(file.Path)
	if err != nil {
		return dump.Record{}, err
	}
	return dump.Record{
		ID:    int64(s.next),
		Title: file.Path,
		Body:  string(body),
	}, nil
}
