package rays

import "github.com/chesstb/tablebase/pkg/material"

// Pawn rays are handled separately from officer/knight rays because they are
// color-dependent and asymmetric: forward moves are non-capturing, diagonal
// moves are capture-only, and a two-square advance is legal only from the
// home rank and produces a PawnEP predecessor. See spec.md §4.1 and §9 (the
// teacher's PAWNmove/PAWN2move stubs are fully implemented here, per the
// spec's explicit requirement).

func homeRank(c material.Color) material.Rank {
	if c == material.White {
		return material.Rank2
	}
	return material.Rank7
}

// PromotionRank returns the rank a pawn of color c promotes on.
func PromotionRank(c material.Color) material.Rank {
	if c == material.White {
		return material.Rank8
	}
	return material.Rank1
}

func advance(c material.Color) int {
	if c == material.White {
		return 1
	}
	return -1
}

var (
	pawnPush    [material.NumColors][material.NumSquares]Ray
	pawnJump    [material.NumColors][material.NumSquares]Ray
	pawnCapture [material.NumColors][material.NumSquares][2]Ray // 0=toward file A, 1=toward file H
)

func init() {
	for c := material.ZeroColor; c < material.NumColors; c++ {
		dr := advance(c)
		for sq := material.ZeroSquare; sq < material.NumSquares; sq++ {
			pawnPush[c][sq] = buildRay(sq, 0, dr, false)

			if sq.Rank() == homeRank(c) {
				pawnJump[c][sq] = buildRay(sq, 0, 2*dr, false)
			} else {
				pawnJump[c][sq] = Ray{Sentinel}
			}

			pawnCapture[c][sq][0] = buildRay(sq, 1, dr, false)
			pawnCapture[c][sq][1] = buildRay(sq, -1, dr, false)
		}
	}
}

// PawnPush returns the pawn's single-square forward ray (non-capturing only:
// the destination must be empty).
func PawnPush(c material.Color, sq material.Square) Ray {
	return pawnPush[c][sq]
}

// PawnJump returns the pawn's two-square forward ray, valid only from the
// home rank (the empty ray otherwise). pkg/tbbuild's ForwardMoves marks a
// move along this ray with CreatesEP; the moving piece keeps its declared
// kind, so the jump does not turn a Pawn into a PawnEP.
func PawnJump(c material.Color, sq material.Square) Ray {
	return pawnJump[c][sq]
}

// PawnCaptures returns the pawn's two diagonal capture rays (capture-only:
// the destination must hold an enemy piece, or be the en passant target).
func PawnCaptures(c material.Color, sq material.Square) (towardA, towardH Ray) {
	return pawnCapture[c][sq][0], pawnCapture[c][sq][1]
}

// EnPassantSkipped returns the square a two-square pawn jump skips over, i.e.
// the square recorded as the en passant target and the square a capturing
// pawn lands on.
func EnPassantSkipped(c material.Color, from material.Square) material.Square {
	dr := advance(c)
	return material.NewSquare(from.File(), material.Rank(int(from.Rank())+dr))
}

// EnPassantCapturedSquare returns the square of the PawnEP pawn captured by
// an en passant capture landing on target (the distinguished en-passant case
// of spec.md §4.1: the captured pawn sits one rank behind the target, from
// the capturing side's perspective).
func EnPassantCapturedSquare(capturingColor material.Color, target material.Square) material.Square {
	dr := -advance(capturingColor)
	return material.NewSquare(target.File(), material.Rank(int(target.Rank())+dr))
}
