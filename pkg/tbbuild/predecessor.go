package tbbuild

import (
	"github.com/chesstb/tablebase/pkg/material"
	"github.com/chesstb/tablebase/pkg/rays"
)

// predecessorSquares returns every square a piece of cfg.Mobile[pieceIdx]'s
// kind could have stood on before making a single non-capturing move to `to`,
// given baseOcc (the occupancy of every other piece, with `to` itself
// cleared). This is spec.md §4.1's "run rays backward": officer and knight
// moves are geometrically reversible (the ray outward from `to` is exactly
// the set of legal one-move-away origins), so only pawns — whose forward
// direction is color-dependent and asymmetric — need a distinct reversal.
func predecessorSquares(cfg *material.Configuration, pieceIdx int, to material.Square, baseOcc material.Bitboard) []material.Square {
	spec := cfg.Mobile[pieceIdx]
	if spec.Piece.IsPawn() {
		return pawnPredecessorSquares(spec.Color, to, baseOcc)
	}

	var out []material.Square
	rays.For(spec.Piece, to, func(r rays.Ray) {
		empties, _ := r.Empties(baseOcc)
		for _, step := range empties {
			out = append(out, step.To)
		}
	})
	return out
}

// pawnPredecessorSquares reverses a pawn's single- and double-square advance:
// `to` was reached either from one rank behind (a single push) or, if `to`
// sits on the jump-landing rank, from the home rank two ranks behind with the
// skipped square also empty (spec.md §4.1's en-passant predecessor case).
func pawnPredecessorSquares(c material.Color, to material.Square, baseOcc material.Bitboard) []material.Square {
	var out []material.Square
	toRank := to.Rank()

	var singleRank material.Rank
	haveSingle := false
	switch {
	case c == material.White && toRank > material.Rank1:
		singleRank, haveSingle = toRank-1, true
	case c == material.Black && toRank < material.Rank8:
		singleRank, haveSingle = toRank+1, true
	}
	if haveSingle {
		from := material.NewSquare(to.File(), singleRank)
		if baseOcc&material.BitMask(from) == 0 {
			out = append(out, from)
		}
	}

	if toRank == jumpLandingRank(c) {
		home := material.Rank2
		skipRank := material.Rank3
		if c == material.Black {
			home, skipRank = material.Rank7, material.Rank6
		}
		from := material.NewSquare(to.File(), home)
		skip := material.NewSquare(to.File(), skipRank)
		if baseOcc&material.BitMask(from) == 0 && baseOcc&material.BitMask(skip) == 0 {
			out = append(out, from)
		}
	}

	return out
}
