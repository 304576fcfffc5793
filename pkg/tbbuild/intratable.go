package tbbuild

import (
	"context"
	"fmt"

	"github.com/chesstb/tablebase/pkg/material"
	"github.com/chesstb/tablebase/pkg/tbentry"
	"github.com/chesstb/tablebase/pkg/tbindex"
	"github.com/seekerror/logw"
)

// IntraTablePropagator implements spec.md §4.6: the back-propagation sweep
// that turns each newly pending win at depth `ply` into evidence against its
// predecessors, iterating ply upward until a sweep makes no progress at or
// beyond MaxPly (the deepest mate any futurebase outcome introduced).
//
// Grounded on pkg/search/searchctl/iterative.go's iterative-deepening shape:
// a loop over an increasing depth bound, logging per-iteration progress,
// continuing until the bound stops finding anything new.
type IntraTablePropagator struct {
	Config *material.Configuration
	Store  *tbentry.Store
	MaxPly byte
}

// Run sweeps by increasing ply until convergence.
func (prop *IntraTablePropagator) Run(ctx context.Context) error {
	n := prop.Config.IndexRange()
	var ply byte

	for {
		progress := prop.sweep(ctx, ply, n)
		logw.Debugf(ctx, "tbbuild: intra-table sweep ply=%v progress=%v", ply, progress)

		if !progress && ply >= prop.MaxPly {
			logw.Infof(ctx, "tbbuild: intra-table propagation converged at ply=%v", ply)
			return nil
		}
		if ply == 255 {
			return fmt.Errorf("tbbuild: intra-table propagation did not converge within 255 plies")
		}
		ply++
	}
}

// sweep resolves every pending entry at exactly this ply, marking it
// propagated and feeding evidence to its predecessors. It returns whether it
// did anything.
func (prop *IntraTablePropagator) sweep(ctx context.Context, ply byte, n uint64) bool {
	progress := false
	for idx := uint64(0); idx < n; idx++ {
		e := prop.Store.Read(idx)
		if !e.IsPending() || e.MatePly != ply {
			continue
		}
		prop.propagateFrom(ctx, idx, e)
		prop.Store.MarkPropagated(ctx, idx)
		progress = true
	}
	return progress
}

// propagateFrom feeds idx's just-resolved outcome back to every position one
// in-table move away from it: the side that moved to reach idx either just
// found a winning move (idx is PNTM-wins, relative to idx) or just had one
// more move refuted (idx is PTM-wins, relative to idx).
func (prop *IntraTablePropagator) propagateFrom(ctx context.Context, idx uint64, e tbentry.Entry) {
	board, ok := tbindex.NewBoard(prop.Config, idx)
	if !ok {
		return
	}
	mover := board.Pos.Turn.Opponent()
	occ := board.Occupancy()

	for i, spec := range prop.Config.Mobile {
		if spec.Color != mover {
			continue
		}
		to := board.Pos.Squares[i]
		baseOcc := occ &^ material.BitMask(to)

		for _, from := range predecessorSquares(prop.Config, i, to, baseOcc) {
			predSquares := append([]material.Square(nil), board.Pos.Squares...)
			predSquares[i] = from
			predIdx := tbindex.PositionToIndex(tbindex.Position{Turn: mover, Squares: predSquares})

			predBoard, ok := tbindex.NewBoard(prop.Config, predIdx)
			if !ok {
				continue
			}
			// predecessorSquares reverses move geometry only; it has no
			// notion of check. A reversed move that would leave the mover's
			// own king attacked (e.g. unpinning a piece that is actually
			// pinned in place) is not a legal move at all, so it is not a
			// real predecessor edge — wouldExposeOwnKing is exactly the
			// forward-direction filter LegalMoves applies, reused here
			// against the single candidate move (from -> to).
			if wouldExposeOwnKing(predBoard, mover, Move{PieceIndex: i, From: from, To: to}) {
				continue
			}
			predEntry := prop.Store.Read(predIdx)
			if !predEntry.IsMovecount() {
				continue // already settled along a different path, or out of scope
			}

			conv := byte(0)
			if !spec.Piece.IsPawn() {
				conv = saturatingInc(e.ConvPly)
			}
			if conv >= 100 {
				continue // past the 100-half-move stalemate horizon, spec.md §4.6
			}
			mate := saturatingInc(e.MatePly)

			if e.Movecount == tbentry.PNTMWinsPending {
				// mover, who is to move at the predecessor, just found a winning move.
				if mover == material.White {
					prop.Store.WhiteWins(ctx, predIdx, mate, conv)
				} else {
					prop.Store.BlackWins(ctx, predIdx, mate, conv)
				}
			} else {
				// idx's side to move wins: this refutes one of the predecessor's moves.
				if board.Pos.Turn == material.White {
					prop.Store.AddOneToWhiteWins(ctx, predIdx, mate, conv)
				} else {
					prop.Store.AddOneToBlackWins(ctx, predIdx, mate, conv)
				}
			}
		}
	}
}
