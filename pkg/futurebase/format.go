// Package futurebase implements the on-disk tablebase file format of
// spec.md §6: a fixed header followed by the raw entry array in index order,
// with optional gzip compression, readable from a local file or over HTTP.
//
// Grounded on hailam-chessplay/internal/tablebase/download.go for the
// net/http retrieval path (an http.Client with a fixed timeout, streaming the
// response body) and pkg/board/fen for the header's field-by-field layout
// idiom.
package futurebase

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/chesstb/tablebase/pkg/material"
)

// formatVersion guards against reading a file written by an incompatible
// encoder.
const formatVersion = 1

// Header describes the configuration whose entries follow, so a reader can
// validate it is probing the file it thinks it is (spec.md §6).
type Header struct {
	Name      string // canonical name, e.g. "krk"
	NumMobile int
	Mobile    []material.PieceSpec
	Frozen    []material.Placement
	IndexMax  uint64
	DTM       bool // distance-to-mate metric, vs. plain win/loss/draw
	Gzip      bool
}

func writeHeader(w io.Writer, h Header) error {
	if err := writeString(w, h.Name); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(formatVersion)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(h.Mobile))); err != nil {
		return err
	}
	for _, m := range h.Mobile {
		if err := binary.Write(w, binary.LittleEndian, [2]byte{byte(m.Color), byte(m.Piece)}); err != nil {
			return err
		}
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(h.Frozen))); err != nil {
		return err
	}
	for _, f := range h.Frozen {
		if err := binary.Write(w, binary.LittleEndian, [3]byte{byte(f.Square), byte(f.Color), byte(f.Piece)}); err != nil {
			return err
		}
	}
	if err := binary.Write(w, binary.LittleEndian, h.IndexMax); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, packFlags(h.DTM, h.Gzip))
}

func readHeader(r io.Reader) (Header, error) {
	name, err := readString(r)
	if err != nil {
		return Header{}, fmt.Errorf("futurebase: header name: %w", err)
	}

	var version uint32
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return Header{}, fmt.Errorf("futurebase: header version: %w", err)
	}
	if version != formatVersion {
		return Header{}, fmt.Errorf("futurebase: unsupported format version %v", version)
	}

	var numMobile uint32
	if err := binary.Read(r, binary.LittleEndian, &numMobile); err != nil {
		return Header{}, fmt.Errorf("futurebase: mobile count: %w", err)
	}
	mobile := make([]material.PieceSpec, numMobile)
	for i := range mobile {
		var raw [2]byte
		if err := binary.Read(r, binary.LittleEndian, &raw); err != nil {
			return Header{}, fmt.Errorf("futurebase: mobile[%v]: %w", i, err)
		}
		mobile[i] = material.PieceSpec{Color: material.Color(raw[0]), Piece: material.Piece(raw[1])}
	}

	var numFrozen uint32
	if err := binary.Read(r, binary.LittleEndian, &numFrozen); err != nil {
		return Header{}, fmt.Errorf("futurebase: frozen count: %w", err)
	}
	frozen := make([]material.Placement, numFrozen)
	for i := range frozen {
		var raw [3]byte
		if err := binary.Read(r, binary.LittleEndian, &raw); err != nil {
			return Header{}, fmt.Errorf("futurebase: frozen[%v]: %w", i, err)
		}
		frozen[i] = material.Placement{Square: material.Square(raw[0]), Color: material.Color(raw[1]), Piece: material.Piece(raw[2])}
	}

	var indexMax uint64
	if err := binary.Read(r, binary.LittleEndian, &indexMax); err != nil {
		return Header{}, fmt.Errorf("futurebase: index max: %w", err)
	}

	var flags byte
	if err := binary.Read(r, binary.LittleEndian, &flags); err != nil {
		return Header{}, fmt.Errorf("futurebase: flags: %w", err)
	}
	dtm, gz := unpackFlags(flags)

	return Header{
		Name:      name,
		NumMobile: int(numMobile),
		Mobile:    mobile,
		Frozen:    frozen,
		IndexMax:  indexMax,
		DTM:       dtm,
		Gzip:      gz,
	}, nil
}

func packFlags(dtm, gz bool) byte {
	var b byte
	if dtm {
		b |= 1
	}
	if gz {
		b |= 2
	}
	return b
}

func unpackFlags(b byte) (dtm, gz bool) {
	return b&1 != 0, b&2 != 0
}

func writeString(w io.Writer, s string) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

func readString(r io.Reader) (string, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}
