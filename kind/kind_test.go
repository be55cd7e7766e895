package kind_test

import (
	"testing"

	"github.com/joeycumines/go-tracksim/kind"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsA_reflexive(t *testing.T) {
	tag := kind.New("x")
	assert.True(t, kind.IsA(tag, tag))
}

func TestIsA_transitive(t *testing.T) {
	a := kind.New("a")
	b := kind.New("b")
	c := kind.New("c")
	kind.Extends(b, a)
	kind.Extends(c, b)

	require.True(t, kind.IsA(c, a))
	require.True(t, kind.IsA(c, b))
	require.True(t, kind.IsA(b, a))
	assert.False(t, kind.IsA(a, c))
}

func TestIsA_unrelated(t *testing.T) {
	a := kind.New("unrelated-a")
	b := kind.New("unrelated-b")
	assert.False(t, kind.IsA(a, b))
}

func TestWellKnownLattice(t *testing.T) {
	assert.True(t, kind.IsA(kind.TrackEnd, kind.Boundary))
	assert.True(t, kind.IsA(kind.TrackEnd, kind.Particle))
	assert.True(t, kind.IsA(kind.RandomWalker, kind.Walker))
	assert.True(t, kind.IsA(kind.RandomWalker, kind.Particle))
	assert.False(t, kind.IsA(kind.Walker, kind.RandomWalker))
	assert.False(t, kind.IsA(kind.Boundary, kind.Walker))
}

func TestString(t *testing.T) {
	tag := kind.New("my-tag")
	assert.Equal(t, "my-tag", tag.String())
}
