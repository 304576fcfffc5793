package control_test

import (
	"strings"
	"testing"

	"github.com/chesstb/tablebase/pkg/control"
	"github.com/chesstb/tablebase/pkg/material"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const krk = `<tablebase name="krk" dtm="true">
  <mobile color="white" piece="king"/>
  <mobile color="white" piece="rook"/>
  <mobile color="black" piece="king"/>
  <futurebase file="kk.tb" colors="invert"/>
  <prune-our-move from="a1" to="a2"/>
  <prune-his-move from="h8" to="h7"/>
</tablebase>`

func TestDecode(t *testing.T) {
	doc, err := control.Decode(strings.NewReader(krk))
	require.NoError(t, err)

	assert.Equal(t, "krk", doc.Name)
	assert.True(t, doc.DTM)
	require.Len(t, doc.Config.Mobile, 3)
	assert.Equal(t, material.Rook, doc.Config.Mobile[1].Piece)

	require.Len(t, doc.Futurebases, 1)
	assert.Equal(t, "kk.tb", doc.Futurebases[0].File)
	assert.True(t, doc.Futurebases[0].Invert)

	require.Len(t, doc.PruneOurMove, 1)
	require.Len(t, doc.PruneHisMove, 1)
	assert.Equal(t, material.NewSquare(material.FileA, material.Rank1), doc.PruneOurMove[0].From)
}

func TestDecodeRejectsMissingKing(t *testing.T) {
	const bad = `<tablebase name="bad"><mobile color="white" piece="rook"/></tablebase>`
	_, err := control.Decode(strings.NewReader(bad))
	assert.Error(t, err)
}

func TestDecodeRejectsBadColorsAttr(t *testing.T) {
	const bad = `<tablebase name="bad">
	  <mobile color="white" piece="king"/>
	  <mobile color="black" piece="king"/>
	  <futurebase file="x.tb" colors="sideways"/>
	</tablebase>`
	_, err := control.Decode(strings.NewReader(bad))
	assert.Error(t, err)
}

func TestDecodeFrozenPiece(t *testing.T) {
	const withFrozen = `<tablebase name="x">
	  <mobile color="white" piece="king"/>
	  <mobile color="black" piece="king"/>
	  <frozen color="white" piece="pawn" square="e4"/>
	</tablebase>`
	doc, err := control.Decode(strings.NewReader(withFrozen))
	require.NoError(t, err)
	require.Len(t, doc.Config.Frozen, 1)
	assert.Equal(t, material.NewSquare(material.FileE, material.Rank4), doc.Config.Frozen[0].Square)
}
