package tbindex_test

import (
	"testing"

	"github.com/chesstb/tablebase/pkg/material"
	"github.com/chesstb/tablebase/pkg/tbindex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kk(t *testing.T) *material.Configuration {
	t.Helper()
	cfg, err := material.NewConfiguration([]material.PieceSpec{
		{Color: material.White, Piece: material.King},
		{Color: material.Black, Piece: material.King},
	}, nil)
	require.NoError(t, err)
	return cfg
}

// TestRoundTripIsIdentityOnNonColliding exhaustively checks P1 of spec.md §8
// for a small (KK) configuration: decode then re-encode returns the original
// index whenever decoding found no early illegality.
func TestRoundTripIsIdentityOnNonColliding(t *testing.T) {
	cfg := kk(t)
	n := 0
	for idx := uint64(0); idx < tbindex.IndexRange(len(cfg.Mobile)); idx++ {
		board, ok := tbindex.NewBoard(cfg, idx)
		if !ok {
			continue // early illegality: the two kings collide
		}
		n++
		assert.Equal(t, idx, board.Index())
	}
	assert.Greater(t, n, 0)
}

func TestKingCollisionIsEarlyIllegal(t *testing.T) {
	cfg := kk(t)
	sq := material.NewSquare(material.FileD, material.Rank4)
	pos := tbindex.Position{Turn: material.White, Squares: []material.Square{sq, sq}}
	idx := tbindex.PositionToIndex(pos)

	_, ok := tbindex.NewBoard(cfg, idx)
	assert.False(t, ok)
}

func TestFrozenSquareCollisionIsEarlyIllegal(t *testing.T) {
	e4 := material.NewSquare(material.FileE, material.Rank4)
	cfg, err := material.NewConfiguration(
		[]material.PieceSpec{
			{Color: material.White, Piece: material.King},
			{Color: material.Black, Piece: material.King},
		},
		[]material.Placement{{Square: e4, Color: material.White, Piece: material.Pawn}},
	)
	require.NoError(t, err)

	pos := tbindex.Position{
		Turn:    material.Black,
		Squares: []material.Square{material.NewSquare(material.FileA, material.Rank1), e4},
	}
	idx := tbindex.PositionToIndex(pos)

	_, ok := tbindex.NewBoard(cfg, idx)
	assert.False(t, ok)
}

func TestIndexRange(t *testing.T) {
	assert.Equal(t, uint64(2*64*64), tbindex.IndexRange(2))
	assert.Equal(t, uint64(2*64*64*64), tbindex.IndexRange(3))
}

func TestBoardOccupancyAndAt(t *testing.T) {
	a1 := material.NewSquare(material.FileA, material.Rank1)
	h8 := material.NewSquare(material.FileH, material.Rank8)
	cfg := kk(t)
	pos := tbindex.Position{Turn: material.White, Squares: []material.Square{a1, h8}}
	board := tbindex.Board{Config: cfg, Pos: pos}

	assert.True(t, board.Occupancy().IsSet(a1))
	assert.True(t, board.Occupancy().IsSet(h8))
	assert.Equal(t, 2, board.Occupancy().PopCount())

	c, p, ok := board.At(a1)
	require.True(t, ok)
	assert.Equal(t, material.White, c)
	assert.Equal(t, material.King, p)

	assert.Equal(t, a1, board.KingSquare(material.White))
	assert.Equal(t, h8, board.KingSquare(material.Black))
}
