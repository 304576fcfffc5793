package tbbuild_test

import (
	"context"
	"testing"

	"github.com/chesstb/tablebase/pkg/material"
	"github.com/chesstb/tablebase/pkg/tbbuild"
	"github.com/chesstb/tablebase/pkg/tbentry"
	"github.com/chesstb/tablebase/pkg/tbindex"
	"github.com/stretchr/testify/require"
)

func sq(t *testing.T, s string) material.Square {
	t.Helper()
	v, err := material.ParseSquareStr(s)
	require.NoError(t, err)
	return v
}

// A textbook queen mate (White king e6, queen e7, Black king e8, Black to
// move) must propagate back to a predecessor that delivered it: White king
// e6, queen h7, Black king e8, White to move, reaching the mate by Qh7-e7.
func TestIntraTablePropagatorResolvesQueenMatePredecessor(t *testing.T) {
	ctx := context.Background()

	cfg, err := material.NewConfiguration([]material.PieceSpec{
		{Color: material.White, Piece: material.King},
		{Color: material.White, Piece: material.Queen},
		{Color: material.Black, Piece: material.King},
	}, nil)
	require.NoError(t, err)

	store := tbentry.NewStore(cfg.IndexRange())
	init := &tbbuild.Initializer{Config: cfg, Store: store}
	require.NoError(t, init.Run(ctx))

	e6, e7, e8, h7 := sq(t, "e6"), sq(t, "e7"), sq(t, "e8"), sq(t, "h7")

	mateIdx := tbindex.PositionToIndex(tbindex.Position{
		Turn:    material.Black,
		Squares: []material.Square{e6, e7, e8},
	})
	mateBefore := store.Read(mateIdx)
	require.Equal(t, tbentry.PNTMWinsPending, mateBefore.Movecount, "expected an initializer-detected mate, got %v", mateBefore)
	require.Equal(t, byte(0), mateBefore.MatePly)

	predIdx := tbindex.PositionToIndex(tbindex.Position{
		Turn:    material.White,
		Squares: []material.Square{e6, h7, e8},
	})
	predBefore := store.Read(predIdx)
	require.True(t, predBefore.IsMovecount(), "expected a plain movecount before propagation, got %v", predBefore)

	prop := &tbbuild.IntraTablePropagator{Config: cfg, Store: store, MaxPly: 0}
	require.NoError(t, prop.Run(ctx))

	mateAfter := store.Read(mateIdx)
	require.Equal(t, tbentry.PNTMWinsDone, mateAfter.Movecount)
	require.Equal(t, byte(0), mateAfter.MatePly)

	predAfter := store.Read(predIdx)
	require.Equal(t, tbentry.PTMWinsDone, predAfter.Movecount, "expected White to have a forced mate from h7, got %v", predAfter)
	require.Equal(t, byte(1), predAfter.MatePly)
	require.Equal(t, byte(1), predAfter.ConvPly)
}
