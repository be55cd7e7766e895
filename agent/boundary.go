package agent

import (
	"math"

	"github.com/joeycumines/go-tracksim/capability"
	"github.com/joeycumines/go-tracksim/kind"
)

// Boundary is a stationary particle, grounded on baseparticles.Boundary
// ("pass" — Particle's behavior as-is is already exactly stationary).
type Boundary struct {
	tag  kind.Tag
	pos  int
	last float64
}

// NewBoundary constructs a Boundary at position (or UnsetPosition for
// random placement at Load time).
func NewBoundary(position int) *Boundary {
	return &Boundary{tag: kind.Boundary, pos: position}
}

func (b *Boundary) Kind() kind.Tag        { return b.tag }
func (b *Boundary) Position() int         { return b.pos }
func (b *Boundary) SetPosition(p int)     { b.pos = p }
func (b *Boundary) Report() any           { return b.pos }
func (b *Boundary) LastUpdate() float64   { return b.last }
func (b *Boundary) SetLastUpdate(t float64) { b.last = t }

// NextUpdate is infinite: a Boundary never needs to run on its own.
func (b *Boundary) NextUpdate(ctx capability.Context) float64 { return math.Inf(1) }

// Update is a no-op; Boundary is never usefully scheduled.
func (b *Boundary) Update(ctx capability.Context) {}

func (b *Boundary) Load(ctx capability.Context) {
	if b.pos == unsetPosition {
		b.pos = pickRandomEmptyPosition(ctx)
	}
	ctx.Track().InsertAt(b.pos, capability.Agent(b))
}

func (b *Boundary) Unload(ctx capability.Context) {
	ctx.Track().RemoveAt(b.pos, capability.Agent(b))
}

// TrackEnd is a Boundary subtype (per the kind lattice) specifically meant
// to be placed at the ends of the track, so stepping rules like Transparent
// and PushHard/PushTrain can refuse to push things off the track.
type TrackEnd struct {
	Boundary
}

// NewTrackEnd constructs a TrackEnd at position.
func NewTrackEnd(position int) *TrackEnd {
	return &TrackEnd{Boundary: Boundary{tag: kind.TrackEnd, pos: position}}
}

var (
	_ capability.Positioned = (*Boundary)(nil)
	_ capability.Loadable   = (*Boundary)(nil)
	_ capability.Updateable = (*Boundary)(nil)
	_ capability.Reportable = (*Boundary)(nil)
	_ capability.Positioned = (*TrackEnd)(nil)
)
