package track_test

import (
	"testing"

	"github.com/joeycumines/go-tracksim/track"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCellAt_outOfBoundsIsFreshAndEmpty(t *testing.T) {
	tr := track.New[string](5)

	c1 := tr.CellAt(-1)
	c1["mutated"] = struct{}{}

	c2 := tr.CellAt(-1)
	assert.Empty(t, c2, "out-of-bounds cells must never alias each other")

	c3 := tr.CellAt(100)
	assert.Empty(t, c3)
}

func TestInsertAndRemove(t *testing.T) {
	tr := track.New[string](5)
	tr.InsertAt(2, "a")
	tr.InsertAt(2, "b")

	cell := tr.CellAt(2)
	require.Len(t, cell, 2)
	assert.Contains(t, cell, "a")
	assert.Contains(t, cell, "b")

	require.True(t, tr.RemoveAt(2, "a"))
	assert.False(t, tr.RemoveAt(2, "a"), "second removal finds nothing")
	assert.Len(t, tr.CellAt(2), 1)
}

func TestInsertAt_outOfBoundsDiscarded(t *testing.T) {
	tr := track.New[string](3)
	tr.InsertAt(-1, "ghost")
	tr.InsertAt(10, "ghost")
	// nothing to assert on directly other than no panic and bounded cells unaffected
	for i := 0; i < 3; i++ {
		assert.Empty(t, tr.CellAt(i))
	}
}

func TestRemoveFirst_scansWholeTrack(t *testing.T) {
	tr := track.New[string](5)
	tr.InsertAt(0, "x")
	tr.InsertAt(3, "x") // duplicate reference in two cells

	require.True(t, tr.RemoveFirst("x"))
	assert.Empty(t, tr.CellAt(0))
	assert.Empty(t, tr.CellAt(3))
	assert.False(t, tr.RemoveFirst("x"))
}

func TestNextEmpty(t *testing.T) {
	tr := track.New[string](6)
	tr.InsertAt(1, "a")
	tr.InsertAt(2, "b")
	tr.InsertAt(3, "c")

	assert.Equal(t, 4, tr.NextEmpty(1, +1))
	assert.Equal(t, 0, tr.NextEmpty(3, -1))
}

func TestAggregate_forward(t *testing.T) {
	tr := track.New[string](6)
	tr.InsertAt(1, "a")
	tr.InsertAt(2, "b")
	tr.InsertAt(4, "c") // outside range, should not appear

	agg := tr.Aggregate(1, 4)
	assert.Len(t, agg, 2)
	assert.Contains(t, agg, "a")
	assert.Contains(t, agg, "b")
}

func TestAggregate_reverse(t *testing.T) {
	tr := track.New[string](6)
	tr.InsertAt(1, "a")
	tr.InsertAt(2, "b")
	tr.InsertAt(3, "c")

	agg := tr.Aggregate(3, 0)
	assert.Len(t, agg, 3)
}

func TestLenAndInBounds(t *testing.T) {
	tr := track.New[int](7)
	assert.Equal(t, 7, tr.Len())
	assert.True(t, tr.InBounds(0))
	assert.True(t, tr.InBounds(6))
	assert.False(t, tr.InBounds(7))
	assert.False(t, tr.InBounds(-1))
}
