package tbbuild

import (
	"github.com/chesstb/tablebase/pkg/control"
	"github.com/chesstb/tablebase/pkg/futurebase"
	"github.com/chesstb/tablebase/pkg/material"
	"github.com/chesstb/tablebase/pkg/tbentry"
	"github.com/chesstb/tablebase/pkg/tbindex"
)

// Oracle is an independent, memoized recursive search used to cross-check a
// built store's mate_ply labeling without reusing IntraTablePropagator's
// retrograde algorithm (spec.md §8, P2: "proved by cross-checking against an
// independent minimax that uses the table as an oracle for terminal nodes
// only" — here, a move leaving the table's material is the terminal node,
// resolved via the very same futurebase probe the driver itself consults).
//
// Grounded on pkg/search/minimax.go ("naive minimax search... useful for
// comparison and validation" per its own doc comment), generalized from
// alpha-beta-style heuristic scoring to exact tablebase win/loss/draw and
// mate_ply, and memoized across the index space (the teacher's minimax
// revisits a position tree with no notion of a shared index space; a
// tablebase's state space is finite and densely revisited, so memoizing by
// index is the natural adaptation).
type Oracle struct {
	Config      *material.Configuration
	Control     *control.Document
	Futurebases map[string]*futurebase.Reader

	probe *FuturebasePropagator
	memo  map[uint64]tbentry.Entry
}

// NewOracle builds an Oracle for cfg, resolving leaving moves exactly as
// control/futurebases would during a real build.
func NewOracle(cfg *material.Configuration, ctrl *control.Document, futurebases map[string]*futurebase.Reader) *Oracle {
	return &Oracle{
		Config:      cfg,
		Control:     ctrl,
		Futurebases: futurebases,
		probe:       &FuturebasePropagator{Config: cfg, Control: ctrl, Futurebases: futurebases},
		memo:        map[uint64]tbentry.Entry{},
	}
}

// Entry computes idx's exact entry by brute-force recursive search.
func (o *Oracle) Entry(idx uint64) (tbentry.Entry, error) {
	if e, ok := o.memo[idx]; ok {
		return e, nil
	}
	// A repeated visit mid-recursion means a cycle (a position recurring
	// under optimal play); treat it as a draw, the conventional resolution
	// for repetition, so recursion always terminates.
	o.memo[idx] = tbentry.Entry{Movecount: tbentry.StalemateDraw}

	board, ok := tbindex.NewBoard(o.Config, idx)
	if !ok {
		e := tbentry.Entry{Movecount: tbentry.Illegal}
		o.memo[idx] = e
		return e, nil
	}

	side := board.Pos.Turn
	moves, illegal := LegalMoves(board, side)
	if illegal {
		e := tbentry.Entry{Movecount: tbentry.Illegal}
		o.memo[idx] = e
		return e, nil
	}
	if len(moves) == 0 {
		var e tbentry.Entry
		if IsChecked(board, side) {
			e = tbentry.Entry{Movecount: tbentry.PNTMWinsDone, MatePly: 0}
		} else {
			e = tbentry.Entry{Movecount: tbentry.StalemateDraw}
		}
		o.memo[idx] = e
		return e, nil
	}

	haveGood, haveDraw := false, false
	var bestGoodMate, worstBadMate byte

	for _, mv := range moves {
		var child tbentry.Entry
		var resolved bool

		if mv.Leaves() {
			c, found, err := o.probe.probe(board, mv)
			if err != nil {
				return tbentry.Entry{}, err
			}
			if !found {
				continue // no futurebase declared for this move: the oracle can't see past it
			}
			child, resolved = c, true
		} else {
			squares := append([]material.Square(nil), board.Pos.Squares...)
			squares[mv.PieceIndex] = mv.To
			childIdx := tbindex.PositionToIndex(tbindex.Position{Turn: side.Opponent(), Squares: squares})

			c, err := o.Entry(childIdx)
			if err != nil {
				return tbentry.Entry{}, err
			}
			child, resolved = c, true
		}
		if !resolved {
			continue
		}

		good, mate, decisive := classifyForMover(child)
		if !decisive {
			haveDraw = true
			continue
		}
		if good {
			if !haveGood || mate < bestGoodMate {
				bestGoodMate = mate
			}
			haveGood = true
		} else if mate > worstBadMate {
			worstBadMate = mate
		}
	}

	var e tbentry.Entry
	switch {
	case haveGood:
		e = tbentry.Entry{Movecount: tbentry.PTMWinsDone, MatePly: saturatingInc(bestGoodMate)}
	case haveDraw:
		e = tbentry.Entry{Movecount: tbentry.StalemateDraw}
	default:
		e = tbentry.Entry{Movecount: tbentry.PNTMWinsDone, MatePly: saturatingInc(worstBadMate)}
	}
	o.memo[idx] = e
	return e, nil
}

// classifyForMover reinterprets child (an entry relative to the position
// reached by a move) from the perspective of the side that just played that
// move: child's own "PTM wins" means the opponent of the mover wins (bad for
// the mover); child's own "PNTM wins" means the mover itself wins (good).
func classifyForMover(e tbentry.Entry) (good bool, mate byte, decisive bool) {
	switch e.Movecount {
	case tbentry.PTMWinsDone, tbentry.PTMWinsPending:
		return false, e.MatePly, true
	case tbentry.PNTMWinsDone, tbentry.PNTMWinsPending:
		return true, e.MatePly, true
	default:
		return false, 0, false
	}
}
