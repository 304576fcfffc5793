package tbbuild

import (
	"context"
	"fmt"

	"github.com/chesstb/tablebase/pkg/material"
	"github.com/chesstb/tablebase/pkg/tbentry"
	"github.com/chesstb/tablebase/pkg/tbindex"
	"github.com/seekerror/logw"
)

// Initializer implements spec.md §4.4: a single pass over every index that
// settles Illegal/mated/stalemate positions immediately and seeds every
// remaining index with its total forward-move count.
type Initializer struct {
	Config *material.Configuration
	Store  *tbentry.Store
}

// Run executes the pass. It never returns an error for an individual
// position (those are recorded directly in the store); it returns an error
// only for a configuration-level problem (a position whose forward-move
// count cannot be represented, spec.md §7's resource/config error category).
func (init *Initializer) Run(ctx context.Context) error {
	n := init.Config.IndexRange()
	logw.Infof(ctx, "tbbuild: initializing %v indices for %v", n, init.Config)

	for idx := uint64(0); idx < n; idx++ {
		board, ok := tbindex.NewBoard(init.Config, idx)
		if !ok {
			init.Store.SetIllegal(idx)
			continue
		}

		if hasPawnOnBackRank(board) {
			// spec.md §3: "Pawns never on ranks 1 or 8" — a pawn reaching the
			// back rank is always either captured in place or promoted away
			// the same ply, so no legal position has one sitting there.
			init.Store.SetIllegal(idx)
			continue
		}

		side := board.Pos.Turn
		moves, illegal := LegalMoves(board, side)
		if illegal {
			// A ray reached the opposing king: the side not to move is in
			// check, so this position could not have arisen from a legal
			// move (spec.md §9 decision 1 — NOT a mate for the side to move,
			// unlike the reference source's mislabeling).
			init.Store.SetIllegal(idx)
			continue
		}

		if len(moves) == 0 {
			if IsChecked(board, side) {
				winner := side.Opponent()
				if winner == material.White {
					init.Store.WhiteWins(ctx, idx, 0, 0)
				} else {
					init.Store.BlackWins(ctx, idx, 0, 0)
				}
			} else {
				init.Store.SetStalemateDraw(idx)
			}
			continue
		}

		if len(moves) > int(tbentry.MaxMovecount) {
			return fmt.Errorf("tbbuild: idx=%v: %v forward moves exceeds the %v-move encoding limit", idx, len(moves), tbentry.MaxMovecount)
		}
		init.Store.SetMovecount(idx, byte(len(moves)))
	}

	return nil
}

// hasPawnOnBackRank reports whether any mobile Pawn (not PawnEP, which never
// occupies rank 1/8 by construction) sits on rank 1 or rank 8.
func hasPawnOnBackRank(board tbindex.Board) bool {
	for i, spec := range board.Config.Mobile {
		if spec.Piece != material.Pawn {
			continue
		}
		r := board.Pos.Squares[i].Rank()
		if r == material.Rank1 || r == material.Rank8 {
			return true
		}
	}
	return false
}
