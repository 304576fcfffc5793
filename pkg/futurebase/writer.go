package futurebase

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"

	"github.com/chesstb/tablebase/pkg/tbentry"
)

// Writer serializes a completed tbentry.Store to a futurebase file.
type Writer struct {
	Header Header
}

// NewWriter builds a Writer for a store of the given configuration shape.
// Gzip defaults on, per spec.md §6 ("MAY compress on write").
func NewWriter(h Header) *Writer {
	h.Gzip = true
	return &Writer{Header: h}
}

// WriteFile writes the header and every entry of store, in index order, to path.
func (w *Writer) WriteFile(path string, store *tbentry.Store) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("futurebase: create %v: %w", path, err)
	}
	defer f.Close()

	if err := w.Write(f, store); err != nil {
		return err
	}
	return f.Close()
}

// Write writes the header and entry array to w.
func (w *Writer) Write(dst io.Writer, store *tbentry.Store) error {
	if err := writeHeader(dst, w.Header); err != nil {
		return fmt.Errorf("futurebase: write header: %w", err)
	}

	body := dst
	var gz *gzip.Writer
	if w.Header.Gzip {
		gz = gzip.NewWriter(dst)
		body = gz
	}

	buf := make([]byte, 4)
	for idx := uint64(0); idx < store.Len(); idx++ {
		e := store.Read(idx)
		buf[0], buf[1], buf[2], buf[3] = e.Movecount, e.MatePly, e.ConvPly, e.Reserved
		if _, err := body.Write(buf); err != nil {
			return fmt.Errorf("futurebase: write entry %v: %w", idx, err)
		}
	}

	if gz != nil {
		return gz.Close()
	}
	return nil
}
