package agent

import (
	"github.com/joeycumines/go-tracksim/capability"
	"github.com/joeycumines/go-tracksim/kind"
)

// MultiHead is a loadable/reportable bundle composed of several independent
// Loadable heads (typically Walkers), generalizing DNAparticles.Cohesin's
// two-legged extruder. It is deliberately not itself Updateable: each head
// still schedules and updates on its own via the normal ctx.Load path,
// exactly as DNAparticles.py's comment notes ("since MultiHeadParticle is
// not Updateable... we don't have to explicitly take care of their
// interaction"). It is, however, Reportable itself (spec §4.7): on load,
// each head is loaded then immediately unregistered from the reporter, so
// only the composite's own Report (a tuple of head positions) appears.
//
// Coordinating head positions before Load (e.g. Cohesin's "load legs right
// next to each other") is the caller's responsibility, done by positioning
// the heads before constructing the MultiHead — this type only handles
// delegating Load/Unload to each head.
type MultiHead struct {
	tag   kind.Tag
	heads []capability.Loadable
}

// NewMultiHead constructs a MultiHead of the given kind from one or more
// component heads.
func NewMultiHead(tag kind.Tag, heads ...capability.Loadable) *MultiHead {
	return &MultiHead{tag: tag, heads: heads}
}

func (m *MultiHead) Kind() kind.Tag { return m.tag }

// Heads returns the component heads, in registration order.
func (m *MultiHead) Heads() []capability.Loadable {
	return m.heads
}

// Report returns a tuple (slice) of each Positioned head's current
// position, in head order.
func (m *MultiHead) Report() any {
	positions := make([]int, 0, len(m.heads))
	for _, h := range m.heads {
		if p, ok := h.(capability.Positioned); ok {
			positions = append(positions, p.Position())
		}
	}
	return positions
}

func (m *MultiHead) Load(ctx capability.Context) {
	for _, h := range m.heads {
		ctx.Load(h)
		if r, ok := h.(capability.Reportable); ok {
			ctx.Unregister(r)
		}
	}
}

func (m *MultiHead) Unload(ctx capability.Context) {
	for _, h := range m.heads {
		ctx.Unload(h)
	}
}

var (
	_ capability.Loadable   = (*MultiHead)(nil)
	_ capability.Reportable = (*MultiHead)(nil)
)
