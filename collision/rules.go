package collision

import (
	"github.com/joeycumines/go-tracksim/action"
	"github.com/joeycumines/go-tracksim/capability"
)

// Speedster is implemented by agents with a mutable current speed and a
// fixed free-running speed to recover towards, e.g. the supplemented
// VariableWalker behavior (SPEC_FULL.md §4, grounded on the original
// particles.VariableWalker's slowdown/recovery pair).
type Speedster interface {
	Speed() float64
	SetSpeed(float64)
	FreeSpeed() float64
}

// Reflect flips a's travel direction if a is about to step onto b's cell,
// i.e. a.Position()+a.Direction() == b.Position(). Grounded on
// collisionrules.reflect: only the party actually running into something
// reflects — a walker bumped from behind by a faster neighbor does not
// reverse, since in that case it isn't a that's in front.
func Reflect(a, b capability.Agent, ctx capability.Context) []action.Action {
	da, ok := a.(action.Directional)
	if !ok {
		return nil
	}
	pa, ok := a.(capability.Positioned)
	if !ok {
		return nil
	}
	pb, ok := b.(capability.Positioned)
	if !ok {
		return nil
	}
	if pa.Position()+da.Direction() != pb.Position() {
		return nil
	}
	return []action.Action{action.FlipDirection{Agent: da}}
}

// KickOff unloads b on contact with a, leaving a in place. Grounded on
// baseparticles.Walker.collide_kickOff.
func KickOff(a, b capability.Agent, ctx capability.Context) []action.Action {
	if lb, ok := b.(capability.Loadable); ok {
		return []action.Action{action.EnqueueUnload{Target: lb}}
	}
	return nil
}

// FallOff unloads a on contact with b, leaving b in place. Grounded on
// baseparticles.Walker.collide_fallOff.
func FallOff(a, b capability.Agent, ctx capability.Context) []action.Action {
	if la, ok := a.(capability.Loadable); ok {
		return []action.Action{action.EnqueueUnload{Target: la}}
	}
	return nil
}

// NewSlowdownRule builds a Rule that multiplies a's current speed by factor
// whenever it collides with b, for any a implementing Speedster. Recovery
// back towards FreeSpeed is the agent's own responsibility on each Update,
// not this rule's — mirroring the original's split between the collision
// rule (slow down now) and the per-tick behavior (recover over time).
func NewSlowdownRule(factor float64) Rule {
	return func(a, b capability.Agent, ctx capability.Context) []action.Action {
		sa, ok := a.(Speedster)
		if !ok {
			return nil
		}
		return []action.Action{action.Custom(func(ctx capability.Context) {
			sa.SetSpeed(sa.Speed() * factor)
		})}
	}
}
