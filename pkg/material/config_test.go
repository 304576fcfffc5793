package material_test

import (
	"testing"

	"github.com/chesstb/tablebase/pkg/material"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfiguration(t *testing.T) {
	t.Run("valid KQK", func(t *testing.T) {
		cfg, err := material.NewConfiguration([]material.PieceSpec{
			{Color: material.White, Piece: material.King},
			{Color: material.Black, Piece: material.King},
			{Color: material.White, Piece: material.Queen},
		}, nil)
		require.NoError(t, err)
		assert.Equal(t, uint64(2*64*64*64), cfg.IndexRange())
		assert.Equal(t, 0, cfg.KingIndex(material.White))
		assert.Equal(t, 1, cfg.KingIndex(material.Black))
	})

	t.Run("rejects missing king", func(t *testing.T) {
		_, err := material.NewConfiguration([]material.PieceSpec{
			{Color: material.White, Piece: material.King},
			{Color: material.White, Piece: material.Queen},
		}, nil)
		assert.Error(t, err)
	})

	t.Run("rejects too many mobile pieces", func(t *testing.T) {
		mobile := []material.PieceSpec{
			{Color: material.White, Piece: material.King},
			{Color: material.Black, Piece: material.King},
		}
		for i := 0; i < material.MaxMobile; i++ {
			mobile = append(mobile, material.PieceSpec{Color: material.White, Piece: material.Pawn})
		}
		_, err := material.NewConfiguration(mobile, nil)
		assert.Error(t, err)
	})

	t.Run("rejects duplicate frozen square", func(t *testing.T) {
		mobile := []material.PieceSpec{
			{Color: material.White, Piece: material.King},
			{Color: material.Black, Piece: material.King},
		}
		frozen := []material.Placement{
			{Square: material.NewSquare(material.FileA, material.Rank1), Color: material.White, Piece: material.Pawn},
			{Square: material.NewSquare(material.FileA, material.Rank1), Color: material.Black, Piece: material.Pawn},
		}
		_, err := material.NewConfiguration(mobile, frozen)
		assert.Error(t, err)
	})
}

func TestPieceLetters(t *testing.T) {
	cfg, err := material.NewConfiguration([]material.PieceSpec{
		{Color: material.White, Piece: material.King},
		{Color: material.Black, Piece: material.King},
		{Color: material.White, Piece: material.Rook},
		{Color: material.White, Piece: material.Queen},
		{Color: material.White, Piece: material.Rook},
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, "qrr", cfg.PieceLetters(material.White))
	assert.Equal(t, "", cfg.PieceLetters(material.Black))
}

func TestPointValue(t *testing.T) {
	cfg, err := material.NewConfiguration([]material.PieceSpec{
		{Color: material.White, Piece: material.King},
		{Color: material.Black, Piece: material.King},
		{Color: material.White, Piece: material.Bishop},
		{Color: material.Black, Piece: material.Knight},
	}, nil)
	require.NoError(t, err)

	assert.Greater(t, cfg.PointValue(material.White), cfg.PointValue(material.Black))
}
