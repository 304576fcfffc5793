package tbbuild

import (
	"context"
	"fmt"

	"github.com/chesstb/tablebase/pkg/control"
	"github.com/chesstb/tablebase/pkg/futurebase"
	"github.com/chesstb/tablebase/pkg/material"
	"github.com/chesstb/tablebase/pkg/rays"
	"github.com/chesstb/tablebase/pkg/tbentry"
	"github.com/chesstb/tablebase/pkg/tbindex"
	"github.com/seekerror/logw"
)

// FuturebasePropagator implements spec.md §4.5: every forward move that
// leaves the current configuration (a capture or a promotion) is resolved by
// probing an already-built futurebase rather than by search, and its outcome
// is folded back into the current table's entries.
type FuturebasePropagator struct {
	Config      *material.Configuration
	Store       *tbentry.Store
	Control     *control.Document
	Futurebases map[string]*futurebase.Reader // keyed by control.FuturebaseRef.File
}

// Run walks every index with an outstanding plain movecount, resolves each
// leaving move, and returns the deepest mate_ply introduced by any
// futurebase outcome (the driver's max_ply bound for the intra-table
// propagator, spec.md §4.6).
func (p *FuturebasePropagator) Run(ctx context.Context) (maxMatePly byte, err error) {
	n := p.Config.IndexRange()
	logw.Infof(ctx, "tbbuild: resolving futuremoves over %v indices for %v", n, p.Config.String())

	for idx := uint64(0); idx < n; idx++ {
		e := p.Store.Read(idx)
		if !e.IsMovecount() {
			continue // Illegal, or already settled by the initializer as a win
		}

		board, ok := tbindex.NewBoard(p.Config, idx)
		if !ok {
			continue
		}
		side := board.Pos.Turn

		moves, illegal := LegalMoves(board, side)
		if illegal {
			continue // caught by the initializer already
		}

		for _, mv := range moves {
			if !mv.Leaves() {
				continue // stays in this table: pkg/tbbuild's IntraTablePropagator handles it
			}

			if pruned, ours := p.matchPrune(mv, side); pruned {
				if ours {
					p.Store.Decrement(ctx, idx)
					continue
				}
				if err := p.resolveHisMovePrune(ctx, idx, board, mv, side, &maxMatePly); err != nil {
					return 0, err
				}
				continue
			}

			outcome, found, err := p.probe(board, mv)
			if err != nil {
				return 0, err
			}
			if !found {
				return 0, fmt.Errorf("tbbuild: idx=%v: no futurebase declared for move %+v and no pruning declaration covers it", idx, mv)
			}
			p.fold(ctx, idx, side, outcome, &maxMatePly)
		}
	}

	return maxMatePly, nil
}

// matchPrune reports whether mv's (From, To) is covered by a prune
// declaration, and whether it is "our" move or "his" (spec.md §6's
// prune-our-move/prune-his-move): side to move at idx is treated as "our"
// side when it plays White, "his" when it plays Black, matching the
// convention that a control file names its own side White.
func (p *FuturebasePropagator) matchPrune(mv Move, side material.Color) (pruned, ours bool) {
	list := p.Control.PruneHisMove
	ours = side == material.White
	if ours {
		list = p.Control.PruneOurMove
	}
	for _, pr := range list {
		if pr.From == mv.From && pr.To == mv.To {
			return true, ours
		}
	}
	return false, ours
}

// resolveHisMovePrune implements the "his move" half of spec.md §9 decision
// 4: a pruned opponent move is first tried against the normal futurebase
// match (it may still resolve cleanly); only if no futurebase covers it do
// we fall back to the conservative assumption that the opponent's reply
// holds, i.e. this forward move is treated as refuted.
func (p *FuturebasePropagator) resolveHisMovePrune(ctx context.Context, idx uint64, board tbindex.Board, mv Move, side material.Color, maxMatePly *byte) error {
	outcome, found, err := p.probe(board, mv)
	if err != nil {
		return err
	}
	if found {
		p.fold(ctx, idx, side, outcome, maxMatePly)
		return nil
	}

	// No futurebase covers this reply: assume the opponent's pruned move
	// holds and count it as one more refutation of idx's own side, the same
	// way a proven PTM-wins reply would (spec.md §9 decision 4).
	if side.Opponent() == material.White {
		p.Store.AddOneToWhiteWins(ctx, idx, 1, 1)
	} else {
		p.Store.AddOneToBlackWins(ctx, idx, 1, 1)
	}
	return nil
}

// fold applies a futurebase outcome seen after playing mv from idx back onto
// idx's own entry, per spec.md §4.5's three cases: a drawn reply leaves idx
// untouched (it remains a candidate Draw until every move is accounted for),
// a reply that wins for the mover beyond idx settles idx as a win for them,
// and a reply that loses for the mover beyond idx counts as one more
// refuted move for idx's own side.
func (p *FuturebasePropagator) fold(ctx context.Context, idx uint64, side material.Color, outcome tbentry.Entry, maxMatePly *byte) {
	switch outcome.Movecount {
	case tbentry.PTMWinsDone, tbentry.PTMWinsPending:
		// The mover in the resulting position — idx's opponent — wins: this
		// forward move is refuted.
		mate := saturatingInc(outcome.MatePly)
		conv := saturatingInc(outcome.ConvPly)
		if mate > *maxMatePly {
			*maxMatePly = mate
		}
		if side.Opponent() == material.White {
			p.Store.AddOneToWhiteWins(ctx, idx, mate, conv)
		} else {
			p.Store.AddOneToBlackWins(ctx, idx, mate, conv)
		}
	case tbentry.PNTMWinsDone, tbentry.PNTMWinsPending:
		// The mover in the resulting position loses: idx's own side, which
		// just played this move, wins outright.
		mate := saturatingInc(outcome.MatePly)
		conv := saturatingInc(outcome.ConvPly)
		if mate > *maxMatePly {
			*maxMatePly = mate
		}
		if side == material.White {
			p.Store.WhiteWins(ctx, idx, mate, conv)
		} else {
			p.Store.BlackWins(ctx, idx, mate, conv)
		}
	case tbentry.Illegal:
		logw.Warningf(ctx, "tbbuild: idx=%v: futuremove led to an Illegal position; skipping", idx)
	default:
		// Plain movecount or StalemateDraw: a drawn reply. Leave idx as-is.
	}
}

func saturatingInc(b byte) byte {
	if b >= 254 {
		return 254
	}
	return b + 1
}

// probe resolves mv's destination position against the declared futurebase
// whose mobile-piece shape matches it, translating through colors="invert"
// where declared. found is false iff no declared futurebase's shape matches.
func (p *FuturebasePropagator) probe(board tbindex.Board, mv Move) (tbentry.Entry, bool, error) {
	resultMobile, resultSquares, err := applyLeavingMove(board, mv)
	if err != nil {
		return tbentry.Entry{}, false, err
	}
	newTurn := board.Pos.Turn.Opponent()

	for _, ref := range p.Control.Futurebases {
		reader, ok := p.Futurebases[ref.File]
		if !ok {
			return tbentry.Entry{}, false, fmt.Errorf("tbbuild: futurebase %v declared but not loaded", ref.File)
		}
		if !matchesShape(resultMobile, reader.Header.Mobile, ref.Invert) {
			continue
		}

		turn := newTurn
		if ref.Invert {
			turn = newTurn.Opponent()
		}
		idx := tbindex.PositionToIndex(tbindex.Position{Turn: turn, Squares: resultSquares})
		return reader.At(idx), true, nil
	}

	return tbentry.Entry{}, false, nil
}

// applyLeavingMove returns the mobile-piece list and squares of the position
// after mv, which leaves the current configuration (a capture and/or a
// promotion). Pieces are kept in their original relative order with the
// captured piece's slot removed, matching the order a dependency's own
// control file is expected to declare (spec.md §6).
func applyLeavingMove(board tbindex.Board, mv Move) ([]material.PieceSpec, []material.Square, error) {
	mobile := append([]material.PieceSpec(nil), board.Config.Mobile...)
	squares := append([]material.Square(nil), board.Pos.Squares...)

	squares[mv.PieceIndex] = mv.To
	if mv.Promotion != material.NoPiece {
		mobile[mv.PieceIndex].Piece = mv.Promotion
	}

	if mv.Capture {
		capturedSq := mv.To
		if mv.EnPassant {
			capturedSq = rays.EnPassantCapturedSquare(board.Pos.Turn, mv.To)
		}

		capIdx := -1
		for i, sq := range squares {
			if i != mv.PieceIndex && sq == capturedSq {
				capIdx = i
				break
			}
		}
		if capIdx == -1 {
			if _, frozen := board.Config.FrozenAt(capturedSq); frozen {
				return nil, nil, fmt.Errorf("tbbuild: capture of a frozen piece is not supported by the futurebase propagator")
			}
			return nil, nil, fmt.Errorf("tbbuild: move %+v claims a capture but no piece occupies %v", mv, capturedSq)
		}
		mobile = append(mobile[:capIdx], mobile[capIdx+1:]...)
		squares = append(squares[:capIdx], squares[capIdx+1:]...)
	}

	return mobile, squares, nil
}

// matchesShape reports whether result (in original color labeling) matches
// header's mobile-piece list, order-for-order, with header's colors flipped
// first when invert is set.
func matchesShape(result []material.PieceSpec, header []material.PieceSpec, invert bool) bool {
	if len(result) != len(header) {
		return false
	}
	for i, r := range result {
		h := header[i]
		if invert {
			h.Color = h.Color.Opponent()
		}
		if r != h {
			return false
		}
	}
	return true
}
