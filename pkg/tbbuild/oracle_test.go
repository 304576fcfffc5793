package tbbuild_test

import (
	"testing"

	"github.com/chesstb/tablebase/pkg/control"
	"github.com/chesstb/tablebase/pkg/futurebase"
	"github.com/chesstb/tablebase/pkg/tbbuild"
	"github.com/chesstb/tablebase/pkg/tbentry"
	"github.com/chesstb/tablebase/pkg/tbindex"
	"github.com/chesstb/tablebase/pkg/material"
	"github.com/stretchr/testify/require"
)

// TestOracleAgreesWithDriverOnKQK is the P2 cross-check (spec.md §8): an
// independent recursive search, not the retrograde propagator, is asked for
// the same handful of indices the driver already resolved, and must agree on
// win/loss/draw classification (mate_ply distances are not compared, since
// the oracle picks the slowest losing defense while the driver's BFS-style
// sweep records the first ply it settles an entry at — both are valid
// distances-to-mate under optimal play, but need not be numerically identical
// for entries reached by more than one shortest path).
func TestOracleAgreesWithDriverOnKQK(t *testing.T) {
	store := buildKQK(t)
	cfg := kqkConfig(t)

	kk := buildKK(t)
	doc := &control.Document{
		Name:        "kqk",
		Config:      cfg,
		Futurebases: []control.FuturebaseRef{{File: "kk.tb"}},
	}
	oracle := tbbuild.NewOracle(cfg, doc, map[string]*futurebase.Reader{"kk.tb": kk})

	e1, e8, d1, e4 := sq(t, "e1"), sq(t, "e8"), sq(t, "d1"), sq(t, "e4")
	cases := []struct {
		name string
		turn material.Color
		sqs  []material.Square
	}{
		{"white to move, king+queen on the first rank", material.White, []material.Square{e1, d1, e8}},
		{"black to move, queen already central", material.Black, []material.Square{e1, e4, e8}},
	}

	for _, c := range cases {
		idx := tbindex.PositionToIndex(tbindex.Position{Turn: c.turn, Squares: c.sqs})
		_, ok := tbindex.NewBoard(cfg, idx)
		require.True(t, ok, "%v: must decode to a legal KQK position", c.name)

		want := store.Read(idx)
		got, err := oracle.Entry(idx)
		require.NoError(t, err, c.name)

		require.Equal(t, outcomeOf(want), outcomeOf(got),
			"%v: driver and oracle disagree on outcome: driver=%v oracle=%v", c.name, want, got)
	}
}

// outcomeOf collapses an entry to win-for-ptm / win-for-pntm / draw, ignoring
// the pending/done distinction and the exact mate_ply.
func outcomeOf(e tbentry.Entry) string {
	switch e.Movecount {
	case tbentry.PTMWinsDone, tbentry.PTMWinsPending:
		return "ptm"
	case tbentry.PNTMWinsDone, tbentry.PNTMWinsPending:
		return "pntm"
	case tbentry.Illegal:
		return "illegal"
	default:
		return "draw"
	}
}
