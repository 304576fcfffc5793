// Package tbindex implements the position↔index codec of spec.md §3/§4.2: a
// pure bit-packing of (side to move, mobile-piece squares) into a compact
// integer range, injective but not surjective onto legal positions.
//
// Grounded on pkg/board/square.go (bit-packing idiom) and pkg/board/fen/fen.go
// (Decode/Encode pairing style) of the teacher.
package tbindex

import (
	"fmt"

	"github.com/chesstb/tablebase/pkg/material"
)

// Position is a tuple of (side to move, square per mobile piece), indexed in
// the order of the owning Configuration's Mobile list.
type Position struct {
	Turn    material.Color
	Squares []material.Square
}

// PositionToIndex packs side and squares bit-wise: side | sq0<<1 | sq1<<7 | ...
func PositionToIndex(pos Position) uint64 {
	idx := uint64(pos.Turn & 1)
	shift := uint(1)
	for _, sq := range pos.Squares {
		idx |= uint64(sq&0x3f) << shift
		shift += 6
	}
	return idx
}

// IndexToPosition unpacks idx into n squares (n = the owning configuration's
// mobile-piece count). ok is false iff decoding detected an early illegality:
// two decoded squares (or a decoded square and a frozen square) collide. This
// is a fast-path filter only — it does not detect deeper illegalities (own
// king left in check, a pawn on a promotion rank, etc.), which are caught by
// the initializer (pkg/tbbuild).
func IndexToPosition(n int, frozen material.Bitboard, idx uint64) (Position, bool) {
	squares := make([]material.Square, n)
	occ := frozen
	ok := true

	rem := idx >> 1
	for i := 0; i < n; i++ {
		sq := material.Square(rem & 0x3f)
		rem >>= 6
		squares[i] = sq

		mask := material.BitMask(sq)
		if occ&mask != 0 {
			ok = false
		}
		occ |= mask
	}

	return Position{Turn: material.Color(idx & 1), Squares: squares}, ok
}

// IndexRange returns 2 * 64^n, the size of the index space for n mobile pieces.
func IndexRange(n int) uint64 {
	r := uint64(1)
	for i := 0; i < n; i++ {
		r *= 64
	}
	return 2 * r
}

func (p Position) String() string {
	return fmt.Sprintf("{turn=%v squares=%v}", p.Turn, p.Squares)
}
