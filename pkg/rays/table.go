package rays

import "github.com/chesstb/tablebase/pkg/material"

// Direction indexes the eight compass directions used by King, Queen, Rook
// and Bishop rays. Knight and Pawn rays use their own direction spaces below.
type Direction int

const (
	North Direction = iota
	South
	East
	West
	NorthEast
	NorthWest
	SouthEast
	SouthWest

	NumDirections = SouthWest + 1
)

// deltas are (file, rank) index steps. File indices run FileH=0 .. FileA=7,
// so a step toward the h-file (East) is a negative file step.
var deltas = [NumDirections][2]int{
	North:     {0, 1},
	South:     {0, -1},
	East:      {-1, 0},
	West:      {1, 0},
	NorthEast: {-1, 1},
	NorthWest: {1, 1},
	SouthEast: {-1, -1},
	SouthWest: {1, -1},
}

var (
	kingRays   [material.NumSquares][NumDirections]Ray
	queenRays  [material.NumSquares][NumDirections]Ray
	rookRays   [material.NumSquares][NumDirections]Ray
	bishopRays [material.NumSquares][NumDirections]Ray
)

func init() {
	for sq := material.ZeroSquare; sq < material.NumSquares; sq++ {
		for d := Direction(0); d < NumDirections; d++ {
			delta := deltas[d]
			kingRays[sq][d] = buildRay(sq, delta[0], delta[1], false)
			queenRays[sq][d] = buildRay(sq, delta[0], delta[1], true)
		}
		rookRays[sq][North] = queenRays[sq][North]
		rookRays[sq][South] = queenRays[sq][South]
		rookRays[sq][East] = queenRays[sq][East]
		rookRays[sq][West] = queenRays[sq][West]
		bishopRays[sq][NorthEast] = queenRays[sq][NorthEast]
		bishopRays[sq][NorthWest] = queenRays[sq][NorthWest]
		bishopRays[sq][SouthEast] = queenRays[sq][SouthEast]
		bishopRays[sq][SouthWest] = queenRays[sq][SouthWest]
	}
}

// King returns the king's ray in the given direction (length 0 or 1, i.e.
// a single non-sentinel step or none at all).
func King(sq material.Square, d Direction) Ray { return kingRays[sq][d] }

// Queen returns the queen's ray in the given direction.
func Queen(sq material.Square, d Direction) Ray { return queenRays[sq][d] }

// Rook returns the rook's ray in the given direction (North/South/East/West only;
// the other four directions are always the empty ray).
func Rook(sq material.Square, d Direction) Ray { return rookRays[sq][d] }

// Bishop returns the bishop's ray in the given direction (the four diagonals only).
func Bishop(sq material.Square, d Direction) Ray { return bishopRays[sq][d] }

// KnightDirection indexes the eight knight "L" jumps. Each is a ray of length
// 0 or 1: knights do not slide.
type KnightDirection int

const (
	KnightNNE KnightDirection = iota
	KnightENE
	KnightESE
	KnightSSE
	KnightSSW
	KnightWSW
	KnightWNW
	KnightNNW

	NumKnightDirections = KnightNNW + 1
)

var knightDeltas = [NumKnightDirections][2]int{
	KnightNNE: {-1, 2},
	KnightENE: {-2, 1},
	KnightESE: {-2, -1},
	KnightSSE: {-1, -2},
	KnightSSW: {1, -2},
	KnightWSW: {2, -1},
	KnightWNW: {2, 1},
	KnightNNW: {1, 2},
}

var knightRays [material.NumSquares][NumKnightDirections]Ray

func init() {
	for sq := material.ZeroSquare; sq < material.NumSquares; sq++ {
		for d := KnightDirection(0); d < NumKnightDirections; d++ {
			delta := knightDeltas[d]
			knightRays[sq][d] = buildRay(sq, delta[0], delta[1], false)
		}
	}
}

// Knight returns the knight's ray for the given jump direction.
func Knight(sq material.Square, d KnightDirection) Ray { return knightRays[sq][d] }

// For iterates fn over every direction of the given officer/knight piece kind
// at sq, passing the ray itself; a direction that leaves the board at once
// yields a ray holding only the sentinel. Pawn kinds are handled separately
// by PawnPush/PawnJump/PawnCaptures in pawn.go, since pawn rays depend on
// color.
func For(piece material.Piece, sq material.Square, fn func(r Ray)) {
	switch piece {
	case material.King:
		for d := Direction(0); d < NumDirections; d++ {
			fn(kingRays[sq][d])
		}
	case material.Queen:
		for d := Direction(0); d < NumDirections; d++ {
			fn(queenRays[sq][d])
		}
	case material.Rook:
		fn(rookRays[sq][North])
		fn(rookRays[sq][South])
		fn(rookRays[sq][East])
		fn(rookRays[sq][West])
	case material.Bishop:
		fn(bishopRays[sq][NorthEast])
		fn(bishopRays[sq][NorthWest])
		fn(bishopRays[sq][SouthEast])
		fn(bishopRays[sq][SouthWest])
	case material.Knight:
		for d := KnightDirection(0); d < NumKnightDirections; d++ {
			fn(knightRays[sq][d])
		}
	default:
		panic("rays: For does not support pawn kinds, use PawnPush/PawnJump/PawnCapture")
	}
}
