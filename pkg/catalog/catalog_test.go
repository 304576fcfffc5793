package catalog_test

import (
	"errors"
	"testing"
	"time"

	"github.com/chesstb/tablebase/pkg/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetMissingReturnsNotStarted(t *testing.T) {
	c, err := catalog.Open(t.TempDir())
	require.NoError(t, err)
	defer c.Close()

	rec, found, err := c.Get("krk")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, catalog.NotStarted, rec.Status)
}

func TestMarkBuildingThenDone(t *testing.T) {
	c, err := catalog.Open(t.TempDir())
	require.NoError(t, err)
	defer c.Close()

	now := time.Now()
	require.NoError(t, c.MarkBuilding("krk", now))

	needs, err := c.NeedsBuild("krk")
	require.NoError(t, err)
	assert.True(t, needs)

	require.NoError(t, c.MarkDone("krk", "/tmp/krk.tb", 2*64*64*64, false, now))

	rec, found, err := c.Get("krk")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, catalog.Done, rec.Status)
	assert.Equal(t, "/tmp/krk.tb", rec.OutputPath)

	needs, err = c.NeedsBuild("krk")
	require.NoError(t, err)
	assert.False(t, needs)
}

func TestMarkFailed(t *testing.T) {
	c, err := catalog.Open(t.TempDir())
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.MarkFailed("kqk", errors.New("missing futurebase kk.tb"), time.Now()))

	rec, found, err := c.Get("kqk")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, catalog.Failed, rec.Status)
	assert.Contains(t, rec.Error, "missing futurebase")

	needs, err := c.NeedsBuild("kqk")
	require.NoError(t, err)
	assert.True(t, needs)
}
