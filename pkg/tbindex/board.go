package tbindex

import "github.com/chesstb/tablebase/pkg/material"

// Board is a decoded Position paired with its owning Configuration: the
// minimal derived view pkg/tbbuild needs to generate moves (occupancy masks,
// content lookup by square) without re-deriving them from scratch at every
// callsite.
type Board struct {
	Config *material.Configuration
	Pos    Position
}

// NewBoard decodes idx against cfg. ok is false on early illegality (see
// IndexToPosition); callers must not use the returned Board in that case.
func NewBoard(cfg *material.Configuration, idx uint64) (Board, bool) {
	pos, ok := IndexToPosition(len(cfg.Mobile), cfg.FrozenMask(), idx)
	return Board{Config: cfg, Pos: pos}, ok
}

// Index re-encodes the board's position. Index(NewBoard(cfg, idx)) == idx for
// every idx that decoded without early illegality (P1 of spec.md §8).
func (b Board) Index() uint64 {
	return PositionToIndex(b.Pos)
}

// Occupancy returns the bitboard of every occupied square: mobile pieces,
// plus frozen pieces.
func (b Board) Occupancy() material.Bitboard {
	occ := b.Config.FrozenMask()
	for _, sq := range b.Pos.Squares {
		occ |= material.BitMask(sq)
	}
	return occ
}

// ColorOccupancy returns the bitboard of squares occupied by color's pieces.
func (b Board) ColorOccupancy(color material.Color) material.Bitboard {
	var occ material.Bitboard
	for i, sq := range b.Pos.Squares {
		if b.Config.Mobile[i].Color == color {
			occ |= material.BitMask(sq)
		}
	}
	for _, f := range b.Config.Frozen {
		if f.Color == color {
			occ |= material.BitMask(f.Square)
		}
	}
	return occ
}

// At returns the piece occupying sq, if any: mobile pieces are checked first
// (each reported with the kind its Configuration declares, so PawnEP only for
// a mobile piece declared PawnEP), then frozen pieces.
func (b Board) At(sq material.Square) (material.Color, material.Piece, bool) {
	for i, s := range b.Pos.Squares {
		if s == sq {
			spec := b.Config.Mobile[i]
			return spec.Color, spec.Piece, true
		}
	}
	if f, ok := b.Config.FrozenAt(sq); ok {
		return f.Color, f.Piece, true
	}
	return material.ZeroColor, material.NoPiece, false
}

// KingSquare returns color's king square.
func (b Board) KingSquare(color material.Color) material.Square {
	return b.Pos.Squares[b.Config.KingIndex(color)]
}
