// Package control decodes the XML control file that names a tablebase build:
// output name, mobile/frozen pieces, futurebase references, pruning
// declarations and the dtm flag (spec.md §6).
//
// Grounded on pkg/board/fen's Decode style (field-by-field walk with inline
// commentary quoting the format), applied here to encoding/xml's
// unmarshal-to-struct idiom instead of FEN's rune-by-rune scan.
package control

import (
	"encoding/xml"
	"fmt"
	"io"

	"github.com/chesstb/tablebase/pkg/material"
)

// document is the raw XML shape. Field order in the source matches the
// piece/futurebase declaration order, which callers rely on (mobile piece
// order fixes the index encoding of spec.md §3).
//
// Example:
//
//	<tablebase name="krk" dtm="true">
//	  <mobile color="white" piece="king"/>
//	  <mobile color="white" piece="rook"/>
//	  <mobile color="black" piece="king"/>
//	  <futurebase file="kk.tb"/>
//	  <prune-our-move from="a1" to="a2"/>
//	</tablebase>
type document struct {
	XMLName xml.Name `xml:"tablebase"`
	Name    string   `xml:"name,attr"`
	DTM     bool     `xml:"dtm,attr"`

	Mobile   []pieceXML      `xml:"mobile"`
	Frozen   []placementXML  `xml:"frozen"`
	Future   []futurebaseXML `xml:"futurebase"`
	Prune    []pruneXML      `xml:"prune-our-move"`
	PruneHis []pruneXML      `xml:"prune-his-move"`
}

type pieceXML struct {
	Color string `xml:"color,attr"`
	Piece string `xml:"piece,attr"`
}

type placementXML struct {
	Color  string `xml:"color,attr"`
	Piece  string `xml:"piece,attr"`
	Square string `xml:"square,attr"`
}

type futurebaseXML struct {
	File   string `xml:"file,attr"`
	Colors string `xml:"colors,attr"` // "invert" or absent
}

type pruneXML struct {
	From string `xml:"from,attr"`
	To   string `xml:"to,attr"`
}

// FuturebaseRef names one dependency of the build: a file (or URL, resolved
// by pkg/futurebase) and whether its stored configuration has swapped colors.
type FuturebaseRef struct {
	File   string
	Invert bool
}

// Prune is a single `prune-our-move`/`prune-his-move` declaration: the move
// from `From` to `To` is excluded from the normal futurebase lookup.
type Prune struct {
	From material.Square
	To   material.Square
}

// Document is the decoded, validated control file.
type Document struct {
	Name   string
	DTM    bool
	Config *material.Configuration

	Futurebases  []FuturebaseRef
	PruneOurMove []Prune
	PruneHisMove []Prune
}

// Decode parses and validates a control file from r. Errors here are
// spec.md §7's "configuration error" category: fatal before any build work.
func Decode(r io.Reader) (*Document, error) {
	var doc document
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("control: malformed XML: %w", err)
	}
	if doc.Name == "" {
		return nil, fmt.Errorf("control: missing tablebase name")
	}

	mobile := make([]material.PieceSpec, 0, len(doc.Mobile))
	for _, m := range doc.Mobile {
		color, piece, err := parseColorPiece(m.Color, m.Piece)
		if err != nil {
			return nil, fmt.Errorf("control: mobile piece: %w", err)
		}
		mobile = append(mobile, material.PieceSpec{Color: color, Piece: piece})
	}

	frozen := make([]material.Placement, 0, len(doc.Frozen))
	for _, f := range doc.Frozen {
		color, piece, err := parseColorPiece(f.Color, f.Piece)
		if err != nil {
			return nil, fmt.Errorf("control: frozen piece: %w", err)
		}
		sq, err := material.ParseSquareStr(f.Square)
		if err != nil {
			return nil, fmt.Errorf("control: frozen piece square: %w", err)
		}
		frozen = append(frozen, material.Placement{Square: sq, Color: color, Piece: piece})
	}

	cfg, err := material.NewConfiguration(mobile, frozen)
	if err != nil {
		return nil, fmt.Errorf("control: %w", err)
	}

	futures := make([]FuturebaseRef, 0, len(doc.Future))
	for _, f := range doc.Future {
		if f.File == "" {
			return nil, fmt.Errorf("control: futurebase reference missing file")
		}
		if f.Colors != "" && f.Colors != "invert" {
			return nil, fmt.Errorf("control: futurebase %v: invalid colors attribute %q", f.File, f.Colors)
		}
		futures = append(futures, FuturebaseRef{File: f.File, Invert: f.Colors == "invert"})
	}

	ourPrunes, err := parsePrunes(doc.Prune)
	if err != nil {
		return nil, fmt.Errorf("control: prune-our-move: %w", err)
	}
	hisPrunes, err := parsePrunes(doc.PruneHis)
	if err != nil {
		return nil, fmt.Errorf("control: prune-his-move: %w", err)
	}

	return &Document{
		Name:         doc.Name,
		DTM:          doc.DTM,
		Config:       cfg,
		Futurebases:  futures,
		PruneOurMove: ourPrunes,
		PruneHisMove: hisPrunes,
	}, nil
}

func parsePrunes(raw []pruneXML) ([]Prune, error) {
	out := make([]Prune, 0, len(raw))
	for _, p := range raw {
		from, err := material.ParseSquareStr(p.From)
		if err != nil {
			return nil, fmt.Errorf("from=%q: %w", p.From, err)
		}
		to, err := material.ParseSquareStr(p.To)
		if err != nil {
			return nil, fmt.Errorf("to=%q: %w", p.To, err)
		}
		out = append(out, Prune{From: from, To: to})
	}
	return out, nil
}

func parseColorPiece(color, piece string) (material.Color, material.Piece, error) {
	var c material.Color
	switch color {
	case "white":
		c = material.White
	case "black":
		c = material.Black
	default:
		return 0, 0, fmt.Errorf("invalid color %q", color)
	}

	var p material.Piece
	switch piece {
	case "king":
		p = material.King
	case "queen":
		p = material.Queen
	case "rook":
		p = material.Rook
	case "bishop":
		p = material.Bishop
	case "knight":
		p = material.Knight
	case "pawn":
		p = material.Pawn
	case "pawnep":
		p = material.PawnEP
	default:
		return 0, 0, fmt.Errorf("invalid piece %q", piece)
	}

	return c, p, nil
}
