package tbbuild_test

import (
	"context"
	"testing"

	"github.com/chesstb/tablebase/pkg/control"
	"github.com/chesstb/tablebase/pkg/futurebase"
	"github.com/chesstb/tablebase/pkg/material"
	"github.com/chesstb/tablebase/pkg/tbbuild"
	"github.com/chesstb/tablebase/pkg/tbentry"
	"github.com/chesstb/tablebase/pkg/tbindex"
	"github.com/stretchr/testify/require"
)

func kqkConfig(t *testing.T) *material.Configuration {
	t.Helper()
	cfg, err := material.NewConfiguration([]material.PieceSpec{
		{Color: material.White, Piece: material.King},
		{Color: material.White, Piece: material.Queen},
		{Color: material.Black, Piece: material.King},
	}, nil)
	require.NoError(t, err)
	return cfg
}

// buildKQK runs the full driver sequence for King+Queen vs. King. Capturing
// the queen leaves this table's material for plain King vs. King, so the
// build depends on an already-built KK futurebase exactly like the KRK
// scenario in futurebase_propagator_test.go.
func buildKQK(t *testing.T) *tbentry.Store {
	t.Helper()
	kk := buildKK(t)
	cfg := kqkConfig(t)

	doc := &control.Document{
		Name:        "kqk",
		Config:      cfg,
		Futurebases: []control.FuturebaseRef{{File: "kk.tb"}},
	}
	driver := &tbbuild.Driver{
		Control:     doc,
		Futurebases: map[string]*futurebase.Reader{"kk.tb": kk},
	}
	result, err := driver.Run(context.Background())
	require.NoError(t, err)
	require.False(t, result.Suspect)
	return result.Store
}

// Scenario 1 (spec.md §8): King + Queen vs. King with White to move (WK e1,
// WQ d1, BK e8) is a win for White, the side to move.
func TestKQKWhiteToMoveWins(t *testing.T) {
	store := buildKQK(t)
	cfg := kqkConfig(t)

	e1, e8, d1 := sq(t, "e1"), sq(t, "e8"), sq(t, "d1")
	idx := tbindex.PositionToIndex(tbindex.Position{Turn: material.White, Squares: []material.Square{e1, d1, e8}})
	_, ok := tbindex.NewBoard(cfg, idx)
	require.True(t, ok, "e1/d1/e8 must decode to a legal KQK position")

	e := store.Read(idx)
	require.True(t, e.Movecount == tbentry.PTMWinsDone || e.Movecount == tbentry.PTMWinsPending,
		"White to move with queen+king vs. lone king must be a PTM win, got %v", e)
}

// Scenario 2 (spec.md §8): the same material with Black to move instead is a
// PNTM win (White still wins, but it is White's reply that does the work).
func TestKQKBlackToMoveStillWinsForWhite(t *testing.T) {
	store := buildKQK(t)
	cfg := kqkConfig(t)

	e1, e8, e4 := sq(t, "e1"), sq(t, "e8"), sq(t, "e4")
	idx := tbindex.PositionToIndex(tbindex.Position{Turn: material.Black, Squares: []material.Square{e1, e4, e8}})
	_, ok := tbindex.NewBoard(cfg, idx)
	require.True(t, ok, "e1/e4/e8 must decode to a legal KQK position")

	e := store.Read(idx)
	require.True(t, e.Movecount == tbentry.PNTMWinsDone || e.Movecount == tbentry.PNTMWinsPending,
		"Black to move against king+queen must resolve to a PNTM (White) win, got %v", e)
}

// Scenario 4 (spec.md §8): King vs. King is drawn everywhere — no legal index
// may resolve to anything but a plain movecount or the stalemate sentinel.
func TestKKIsAlwaysDraw(t *testing.T) {
	cfg, err := material.NewConfiguration([]material.PieceSpec{
		{Color: material.White, Piece: material.King},
		{Color: material.Black, Piece: material.King},
	}, nil)
	require.NoError(t, err)

	store := tbentry.NewStore(cfg.IndexRange())
	init := &tbbuild.Initializer{Config: cfg, Store: store}
	require.NoError(t, init.Run(context.Background()))

	for idx := uint64(0); idx < cfg.IndexRange(); idx++ {
		e := store.Read(idx)
		if e.Movecount == tbentry.Illegal {
			continue
		}
		require.True(t, e.IsMovecount() || e.Movecount == tbentry.StalemateDraw,
			"idx=%v: KK must never resolve to a win, got %v", idx, e)
	}
}

// Scenario 5 (spec.md §8): WK f6, BK h8, WQ g6, Black to move is a stalemate:
// h8's king has no legal move (g8 and h7 are covered by the queen, g7 by
// both king and queen) and is not in check.
func TestStalemateSeed(t *testing.T) {
	cfg := kqkConfig(t)
	store := tbentry.NewStore(cfg.IndexRange())
	init := &tbbuild.Initializer{Config: cfg, Store: store}
	require.NoError(t, init.Run(context.Background()))

	f6, g6, h8 := sq(t, "f6"), sq(t, "g6"), sq(t, "h8")
	idx := tbindex.PositionToIndex(tbindex.Position{Turn: material.Black, Squares: []material.Square{f6, g6, h8}})

	e := store.Read(idx)
	require.Equal(t, tbentry.StalemateDraw, e.Movecount, "expected the classic queen stalemate, got %v", e)
}

// Scenario 6 (spec.md §8): WK e4, BK e5 (adjacent kings) can never have
// arisen from a legal move; the initializer must mark it Illegal rather than
// attribute a mate/win to either side.
func TestAdjacentKingsSeedIsIllegal(t *testing.T) {
	cfg, err := material.NewConfiguration([]material.PieceSpec{
		{Color: material.White, Piece: material.King},
		{Color: material.Black, Piece: material.King},
	}, nil)
	require.NoError(t, err)

	store := tbentry.NewStore(cfg.IndexRange())
	init := &tbbuild.Initializer{Config: cfg, Store: store}
	require.NoError(t, init.Run(context.Background()))

	e4, e5 := sq(t, "e4"), sq(t, "e5")
	for _, turn := range []material.Color{material.White, material.Black} {
		idx := tbindex.PositionToIndex(tbindex.Position{Turn: turn, Squares: []material.Square{e4, e5}})
		e := store.Read(idx)
		require.Equal(t, tbentry.Illegal, e.Movecount, "turn=%v: adjacent kings must be Illegal, got %v", turn, e)
	}
}
