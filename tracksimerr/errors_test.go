package tracksimerr_test

import (
	"errors"
	"testing"

	"github.com/joeycumines/go-tracksim/tracksimerr"
	"github.com/stretchr/testify/assert"
)

func TestConsistencyError_Is(t *testing.T) {
	cause := errors.New("underlying")
	err := &tracksimerr.ConsistencyError{Kind: tracksimerr.OffTrack, Position: 42, Cause: cause}

	assert.Contains(t, err.Error(), "off-track")
	assert.Contains(t, err.Error(), "42")
	assert.True(t, errors.Is(err, cause))
}

func TestBadArgument(t *testing.T) {
	err := &tracksimerr.BadArgument{Message: "step must be positive"}
	assert.Equal(t, "tracksim: bad argument: step must be positive", err.Error())

	empty := &tracksimerr.BadArgument{}
	assert.Equal(t, "tracksim: bad argument", empty.Error())
}

func TestWrap(t *testing.T) {
	err := tracksimerr.Wrap("popping queue", tracksimerr.ErrEmpty)
	assert.True(t, errors.Is(err, tracksimerr.ErrEmpty))
	assert.Contains(t, err.Error(), "popping queue")
}

func TestConsistencyKind_String(t *testing.T) {
	assert.Equal(t, "off-track", tracksimerr.OffTrack.String())
	assert.Equal(t, "missing-on-track", tracksimerr.Missing.String())
}
