package agent

import (
	"github.com/joeycumines/go-tracksim/capability"
	"github.com/joeycumines/go-tracksim/kind"
)

// FiniteLife is a standalone Updateable+Loadable that counts down its own
// lifetime, independent of whatever agent it accompanies, and invokes
// OnExpire once that countdown is due. Grounded on DNAparticles.Cohesin,
// which combines a MultiHeadParticle with FiniteLife specifically because
// "MultiHeadParticle is not Updateable, and FiniteLife overrides only the
// Updateable methods" — i.e. in the original, FiniteLife is the component
// that actually gets scheduled; here it is split out as its own type for
// the same reason, to be composed via FiniteLifeMultiHead (or embedded
// directly into a custom agent type).
type FiniteLife struct {
	tag      kind.Tag
	lifetime float64
	last     float64
	onExpire func(ctx capability.Context)
}

// NewFiniteLife constructs a FiniteLife with the given lifetime (absolute
// simulation time units remaining) and expiry callback. lifetime may be
// math.Inf(1) to mean "never expires on its own".
func NewFiniteLife(tag kind.Tag, lifetime float64, onExpire func(ctx capability.Context)) *FiniteLife {
	return &FiniteLife{tag: tag, lifetime: lifetime, onExpire: onExpire}
}

func (f *FiniteLife) Kind() kind.Tag          { return f.tag }
func (f *FiniteLife) LastUpdate() float64     { return f.last }
func (f *FiniteLife) SetLastUpdate(t float64) { f.last = t }

func (f *FiniteLife) NextUpdate(ctx capability.Context) float64 {
	return f.lifetime
}

func (f *FiniteLife) Load(ctx capability.Context) {
	f.last = ctx.Now()
}

func (f *FiniteLife) Unload(ctx capability.Context) {
	ctx.Dequeue(f)
}

// Update decrements the lifetime countdown by elapsed time. Once the
// countdown reaches (or passes) the due threshold, OnExpire runs and the
// FiniteLife does not requeue itself — it is done. OnExpire is typically
// ctx.Unload of the owning agent, possibly combined with RespawnOnExpiry to
// immediately load a replacement, mirroring Cohesin.unload's "if
// self.lifetime < eps: sim.load(Event(myreload))".
func (f *FiniteLife) Update(ctx capability.Context) {
	f.lifetime -= ctx.Now() - f.last
	f.last = ctx.Now()
	if f.lifetime <= eps {
		if f.onExpire != nil {
			f.onExpire(ctx)
		}
		return
	}
	ctx.Requeue(f)
}

// RespawnOnExpiry builds an OnExpire callback that loads the freshly-spawned
// replacement agent returned by spawn. Intended for FiniteLife
// agents that should be immediately replaced on expiry, as Cohesin is.
func RespawnOnExpiry(spawn func(ctx capability.Context) capability.Loadable) func(ctx capability.Context) {
	return func(ctx capability.Context) {
		ctx.Load(spawn(ctx))
	}
}

// FiniteLifeMultiHead composes a MultiHead with a FiniteLife, generalizing
// DNAparticles.Cohesin(MultiHeadParticle, FiniteLife) into a reusable base
// kind: a multi-headed particle with a bounded lifetime.
type FiniteLifeMultiHead struct {
	*MultiHead
	*FiniteLife
}

// NewFiniteLifeMultiHead composes heads and a lifetime/onExpire pair into
// one Loadable+Updateable agent.
func NewFiniteLifeMultiHead(tag kind.Tag, lifetime float64, onExpire func(ctx capability.Context), heads ...capability.Loadable) *FiniteLifeMultiHead {
	return &FiniteLifeMultiHead{
		MultiHead:  NewMultiHead(tag, heads...),
		FiniteLife: NewFiniteLife(tag, lifetime, onExpire),
	}
}

func (c *FiniteLifeMultiHead) Kind() kind.Tag { return c.MultiHead.Kind() }

func (c *FiniteLifeMultiHead) Load(ctx capability.Context) {
	c.FiniteLife.Load(ctx)
	c.MultiHead.Load(ctx)
}

func (c *FiniteLifeMultiHead) Unload(ctx capability.Context) {
	c.MultiHead.Unload(ctx)
	c.FiniteLife.Unload(ctx)
}

var (
	_ capability.Updateable = (*FiniteLife)(nil)
	_ capability.Loadable   = (*FiniteLife)(nil)
	_ capability.Loadable   = (*FiniteLifeMultiHead)(nil)
	_ capability.Updateable = (*FiniteLifeMultiHead)(nil)
	_ capability.Reportable = (*FiniteLifeMultiHead)(nil)
)
