package futurebase

import (
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/chesstb/tablebase/pkg/tbentry"
)

// Reader holds a fully decoded futurebase in memory: spec.md §5 requires
// futurebases be "loaded into memory or mmap'd up front", since the
// propagation loops themselves may not perform I/O.
type Reader struct {
	Header  Header
	entries []tbentry.Entry
}

// Open reads a futurebase from a local file.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("futurebase: open %v: %w", path, err)
	}
	defer f.Close()
	return read(f)
}

// defaultHTTPClient mirrors hailam-chessplay's SyzygyDownloader: a bounded
// timeout so a stalled remote futurebase fetch fails the build rather than
// hanging it forever (spec.md §7's configuration-error category covers a
// missing futurebase; an unreachable one is the same failure mode).
var defaultHTTPClient = &http.Client{Timeout: 5 * time.Minute}

// OpenURL fetches a futurebase over HTTP/HTTPS: the libcurl-streaming-I/O
// replacement named in spec.md §6 (the reference design's remote fetch
// layer is out of scope for the core, but this is the natural net/http
// stand-in for "a byte stream for futurebase F").
func OpenURL(ctx context.Context, url string) (*Reader, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("futurebase: %w", err)
	}

	resp, err := defaultHTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("futurebase: fetch %v: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("futurebase: fetch %v: HTTP %v", url, resp.Status)
	}
	return read(resp.Body)
}

// ReadBytes reads a futurebase already fully resident in memory, primarily
// for tests and for small futurebases fetched in one shot.
func ReadBytes(b []byte) (*Reader, error) {
	return read(bytes.NewReader(b))
}

func read(r io.Reader) (*Reader, error) {
	h, err := readHeader(r)
	if err != nil {
		return nil, err
	}

	body := r
	if h.Gzip {
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("futurebase: gzip: %w", err)
		}
		defer gz.Close()
		body = gz
	}

	entries := make([]tbentry.Entry, h.IndexMax)
	buf := make([]byte, 4)
	for i := range entries {
		if _, err := io.ReadFull(body, buf); err != nil {
			return nil, fmt.Errorf("futurebase: entry %v: %w", i, err)
		}
		entries[i] = tbentry.Entry{Movecount: buf[0], MatePly: buf[1], ConvPly: buf[2], Reserved: buf[3]}
	}

	return &Reader{Header: h, entries: entries}, nil
}

// At returns the entry at idx in this futurebase's own index space (the
// caller is responsible for translating from the current table's position
// into the futurebase's coordinate system, including any color inversion —
// see pkg/tbbuild.FuturebasePropagator).
func (r *Reader) At(idx uint64) tbentry.Entry {
	return r.entries[idx]
}
