package tbentry_test

import (
	"context"
	"testing"

	"github.com/chesstb/tablebase/pkg/tbentry"
	"github.com/stretchr/testify/assert"
)

func TestInitializerStates(t *testing.T) {
	ctx := context.Background()
	s := tbentry.NewStore(4)

	s.SetIllegal(0)
	assert.Equal(t, tbentry.Illegal, s.Read(0).Movecount)

	s.SetStalemateDraw(1)
	assert.Equal(t, tbentry.StalemateDraw, s.Read(1).Movecount)

	s.SetMovecount(2, 7)
	assert.Equal(t, byte(7), s.Read(2).Movecount)

	assert.False(t, s.Suspect())
	_ = ctx
}

func TestWhiteWinsTransitionsPlainMovecount(t *testing.T) {
	ctx := context.Background()
	s := tbentry.NewStore(2)

	// idx=0: side to move (bit 0) is White. White wins outright: White is PTM.
	s.SetMovecount(0, 5)
	s.WhiteWins(ctx, 0, 3, 1)
	e := s.Read(0)
	assert.Equal(t, tbentry.PTMWinsPending, e.Movecount)
	assert.Equal(t, byte(3), e.MatePly)

	// idx=1: side to move is Black. White wins: White is PNTM.
	s.SetMovecount(1, 5)
	s.WhiteWins(ctx, 1, 4, 2)
	e = s.Read(1)
	assert.Equal(t, tbentry.PNTMWinsPending, e.Movecount)
	assert.False(t, s.Suspect())
}

func TestWhiteWinsLowersMateOnRepeat(t *testing.T) {
	ctx := context.Background()
	s := tbentry.NewStore(1)
	s.SetMovecount(0, 5)
	s.WhiteWins(ctx, 0, 10, 0)
	s.WhiteWins(ctx, 0, 3, 0) // shorter mate found
	assert.Equal(t, byte(3), s.Read(0).MatePly)

	s.WhiteWins(ctx, 0, 20, 0) // longer mate: ignored
	assert.Equal(t, byte(3), s.Read(0).MatePly)
}

func TestWhiteWinsContradictionFlagsSuspect(t *testing.T) {
	ctx := context.Background()
	s := tbentry.NewStore(2)

	s.SetMovecount(0, 5)
	s.WhiteWins(ctx, 0, 1, 0) // idx=0: White to move, White wins -> PTM-wins-pending
	s.BlackWins(ctx, 0, 1, 0) // contradicts: Black can't also win here
	assert.True(t, s.Suspect())
}

func TestAddOneToWinsDecrementsAndMayCompletePending(t *testing.T) {
	ctx := context.Background()
	s := tbentry.NewStore(1)

	// idx=0: White to move. Black (PNTM) is the one accumulating wins-from-replies.
	s.SetMovecount(0, 2)
	s.AddOneToBlackWins(ctx, 0, 5, 0)
	assert.Equal(t, byte(1), s.Read(0).Movecount)

	s.AddOneToBlackWins(ctx, 0, 4, 0)
	assert.Equal(t, tbentry.PNTMWinsPending, s.Read(0).Movecount) // 0 reads as pending
	assert.False(t, s.Suspect())
}

func TestAddOneToWinsWrongSideFlagsSuspect(t *testing.T) {
	ctx := context.Background()
	s := tbentry.NewStore(1)
	s.SetMovecount(0, 2)
	s.AddOneToWhiteWins(ctx, 0, 1, 0) // idx=0: White is PTM, not PNTM -- illegal call
	assert.True(t, s.Suspect())
}

func TestMarkPropagated(t *testing.T) {
	ctx := context.Background()
	s := tbentry.NewStore(2)

	s.SetMovecount(0, 5)
	s.WhiteWins(ctx, 0, 1, 0)
	s.MarkPropagated(ctx, 0)
	assert.Equal(t, tbentry.PTMWinsDone, s.Read(0).Movecount)

	s.SetMovecount(1, 5)
	s.MarkPropagated(ctx, 1) // not pending: flags, does not panic
	assert.True(t, s.Suspect())
}
