package futurebase_test

import (
	"bytes"
	"testing"

	"github.com/chesstb/tablebase/pkg/futurebase"
	"github.com/chesstb/tablebase/pkg/material"
	"github.com/chesstb/tablebase/pkg/tbentry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteThenReadRoundTrip(t *testing.T) {
	store := tbentry.NewStore(8)
	store.SetIllegal(0)
	store.SetMovecount(1, 42)
	store.SetStalemateDraw(2)

	header := futurebase.Header{
		Name: "kk",
		Mobile: []material.PieceSpec{
			{Color: material.White, Piece: material.King},
			{Color: material.Black, Piece: material.King},
		},
		IndexMax: store.Len(),
	}

	w := futurebase.NewWriter(header)
	var buf bytes.Buffer
	require.NoError(t, w.Write(&buf, store))

	r, err := futurebase.ReadBytes(buf.Bytes())
	require.NoError(t, err)

	assert.Equal(t, "kk", r.Header.Name)
	assert.True(t, r.Header.Gzip)
	assert.Equal(t, store.Len(), r.Header.IndexMax)

	assert.Equal(t, tbentry.Illegal, r.At(0).Movecount)
	assert.Equal(t, byte(42), r.At(1).Movecount)
	assert.Equal(t, tbentry.StalemateDraw, r.At(2).Movecount)
}
