/*
Package dump streams the pages of a MediaWiki XML export.

	<mediawiki xmlns="http://www.mediawiki.org/xml/export-0.10/">
	  <page>
	    <title>Athens</title>
	    <ns>0</ns>
	    <id>1216</id>
	    <revision>
	      <text xml:space="preserve">...</text>
	    </revision>
	  </page>
	</mediawiki>

Pages are decoded one at a time, so exports of any size can be read in
constant memory. Element names are matched without regard to the export
schema version.
*/
package dump

import (
	"compress/bzip2"
	"compress/gzip"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Record is one page of an export. Body holds the wikitext of the page's
// revision; Redirect is the target title of a redirect page.
type Record struct {
	ID        int64
	Title     string
	Namespace int
	Redirect  string
	Body      string
}

type page struct {
	Title     string `xml:"title"`
	Namespace int    `xml:"ns"`
	ID        int64  `xml:"id"`
	Redirect  struct {
		Title string `xml:"title,attr"`
	} `xml:"redirect"`
	Revision struct {
		Text string `xml:"text"`
	} `xml:"revision"`
}

type Reader struct {
	dec *xml.Decoder
	// closed in order by Close: decompressor first, then the file
	closers []io.Closer
}

// NewReader reads an uncompressed export from r.
func NewReader(r io.Reader) *Reader {
	return &Reader{dec: xml.NewDecoder(r)}
}

// Open opens the export at path. Files ending in .bz2 or .gz are
// decompressed on the fly.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dump: %w", err)
	}

	var (
		r       io.Reader = f
		closers []io.Closer
	)
	switch filepath.Ext(path) {
	case ".bz2":
		r = bzip2.NewReader(f)
	case ".gz":
		gz, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("open dump %s: %w", path, err)
		}
		r = gz
		closers = append(closers, gz)
	}

	reader := NewReader(r)
	reader.closers = append(closers, f)
	return reader, nil
}

// Next returns the next page. It returns io.EOF after the last one.
func (r *Reader) Next() (Record, error) {
	for {
		tok, err := r.dec.Token()
		if errors.Is(err, io.EOF) {
			return Record{}, io.EOF
		}
		if err != nil {
			return Record{}, fmt.Errorf("read dump: %w", err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "page" {
			continue
		}

		var p page
		if err := r.dec.DecodeElement(&p, &start); err != nil {
			return Record{}, fmt.Errorf("decode page: %w", err)
		}
		return Record{
			ID:        p.ID,
			Title:     p.Title,
			Namespace: p.Namespace,
			Redirect:  p.Redirect.Title,
			Body:      p.Revision.Text,
		}, nil
	}
}

// Close releases the decompressor and the file opened by Open. It is a
// no-op for readers built with NewReader.
func (r *Reader) Close() error {
	var errs []error
	for _, c := range r.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	r.closers = nil
	return errors.Join(errs...)
}
