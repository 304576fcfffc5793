package material

import (
	"fmt"
	"sort"
	"strings"
)

// Configuration names the fixed material of a tablebase: an ordered list of
// mobile pieces (at most 8, exactly one White King and one Black King) plus
// optional frozen pieces pinned to specific squares. Frozen pieces are
// excluded from index enumeration but still block rays and can be captured.
//
// Grounded on spec.md §3 (Configuration) and, for parsing/printing idiom, on
// pkg/board/fen/fen.go of the teacher.
type Configuration struct {
	Mobile []PieceSpec
	Frozen []Placement
}

// MaxMobile is the largest mobile-piece count the index encoding supports;
// spec.md §3 bounds it at 8 so that `side | sq0<<1 | sq1<<7 | ...` stays
// within a convenient integer range (2*64^8 still fits a uint64 index space
// at the edge of practicality, and no real tablebase build goes that large).
const MaxMobile = 8

func NewConfiguration(mobile []PieceSpec, frozen []Placement) (*Configuration, error) {
	if len(mobile) == 0 || len(mobile) > MaxMobile {
		return nil, fmt.Errorf("invalid mobile piece count: %v", len(mobile))
	}

	var whiteKings, blackKings int
	for _, m := range mobile {
		if !m.Color.IsValid() || !m.Piece.IsValid() {
			return nil, fmt.Errorf("invalid mobile piece: %v", m)
		}
		if m.Piece == King {
			if m.Color == White {
				whiteKings++
			} else {
				blackKings++
			}
		}
	}
	if whiteKings != 1 || blackKings != 1 {
		return nil, fmt.Errorf("configuration must have exactly one king per color, got white=%v black=%v", whiteKings, blackKings)
	}

	seen := map[Square]bool{}
	for _, f := range frozen {
		if !f.Color.IsValid() || !f.Piece.IsValid() || f.Piece == King {
			return nil, fmt.Errorf("invalid frozen piece: %v", f)
		}
		if !f.Square.IsValid() {
			return nil, fmt.Errorf("invalid frozen square: %v", f)
		}
		if seen[f.Square] {
			return nil, fmt.Errorf("duplicate frozen square: %v", f.Square)
		}
		seen[f.Square] = true
	}

	return &Configuration{Mobile: append([]PieceSpec(nil), mobile...), Frozen: append([]Placement(nil), frozen...)}, nil
}

// KingIndex returns the index into Mobile of the color's king.
func (c *Configuration) KingIndex(color Color) int {
	for i, m := range c.Mobile {
		if m.Piece == King && m.Color == color {
			return i
		}
	}
	return -1
}

// FrozenMask returns the bitboard of all frozen squares.
func (c *Configuration) FrozenMask() Bitboard {
	var mask Bitboard
	for _, f := range c.Frozen {
		mask |= BitMask(f.Square)
	}
	return mask
}

// FrozenAt returns the frozen piece at sq, if any.
func (c *Configuration) FrozenAt(sq Square) (Placement, bool) {
	for _, f := range c.Frozen {
		if f.Square == sq {
			return f, true
		}
	}
	return Placement{}, false
}

// IndexRange returns 2 * 64^len(Mobile), the size of the index space (spec.md §3).
func (c *Configuration) IndexRange() uint64 {
	n := uint64(1)
	for range c.Mobile {
		n *= 64
	}
	return 2 * n
}

// PointValue sums the point values (material.Piece.Value) of the mobile and
// frozen non-king pieces belonging to color. Used for the color-normalization
// rule of spec.md §6.
func (c *Configuration) PointValue(color Color) float64 {
	var v float64
	for _, m := range c.Mobile {
		if m.Color == color && m.Piece != King {
			v += m.Piece.Value()
		}
	}
	for _, f := range c.Frozen {
		if f.Color == color {
			v += f.Piece.Value()
		}
	}
	return v
}

// PieceLetters returns the non-king piece letters of color, ordered by the
// canonical list q r b n p, duplicates included, e.g. "qrrp" for Q+2R+P.
func (c *Configuration) PieceLetters(color Color) string {
	const order = "qrbnp"

	var letters []byte
	for _, m := range c.Mobile {
		if m.Color == color && m.Piece != King {
			letters = append(letters, m.Piece.Letter())
		}
	}
	for _, f := range c.Frozen {
		if f.Color == color {
			letters = append(letters, f.Piece.Letter())
		}
	}

	sort.Slice(letters, func(i, j int) bool {
		return strings.IndexByte(order, letters[i]) < strings.IndexByte(order, letters[j])
	})
	return string(letters)
}

func (c *Configuration) String() string {
	var sb strings.Builder
	sb.WriteString("mobile=[")
	for i, m := range c.Mobile {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(m.String())
	}
	sb.WriteString("]")
	if len(c.Frozen) > 0 {
		sb.WriteString(" frozen=[")
		for i, f := range c.Frozen {
			if i > 0 {
				sb.WriteString(" ")
			}
			sb.WriteString(f.String())
		}
		sb.WriteString("]")
	}
	return sb.String()
}
