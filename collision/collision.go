// Package collision implements the collision registry and dispatcher of
// spec §4.5: rules are registered against pairs of kind tags (or tag sets,
// expanded as a Cartesian product), matched against an actual colliding
// pair via the kind subtype lattice (package kind), and run in two phases —
// evaluation (NewCollision, pure, accumulates actions) then execution
// (Execute, the barrier that actually mutates the world).
//
// Splitting evaluation from execution is what guarantees every rule
// matching a given pair observes the same pre-collision state, regardless
// of how many other rules also matched (spec §4.5's ordering invariant).
package collision

import (
	"strings"

	"golang.org/x/exp/slices"

	"github.com/joeycumines/go-tracksim/action"
	"github.com/joeycumines/go-tracksim/capability"
	"github.com/joeycumines/go-tracksim/kind"
)

// Rule computes the actions resulting from a collision between a and b. It
// must not mutate ctx; any effect is expressed as a returned action.Action.
// Rules registered for a tag pair (ta, tb) are invoked with a the agent
// whose kind satisfies ta and b the agent whose kind satisfies tb, even if
// the collision was discovered the other way around.
type Rule func(a, b capability.Agent, ctx capability.Context) []action.Action

type entry struct {
	a, b kind.Tag
	rule Rule
}

// Collider is the concrete implementation of capability.Collider: a
// registry of rules plus a pending action list awaiting Execute.
type Collider struct {
	entries []entry
	pending []action.Action
}

// New constructs an empty Collider.
func New() *Collider {
	return &Collider{}
}

// Register adds rule for collisions between an agent of kind a and an
// agent of kind b (subtype matches included: a registration for
// kind.Boundary also matches kind.TrackEnd, per the is-a lattice).
func (c *Collider) Register(a, b kind.Tag, rule Rule) {
	c.entries = append(c.entries, entry{a: a, b: b, rule: rule})
}

// RegisterSet expands the Cartesian product of as × bs into individual
// Register calls, after deduplicating each side. This is the bulk-wiring
// entry point for simulation setup code that wants one rule to apply across
// several kinds at once (e.g. every walker variant against every boundary
// variant) without hand-enumerating every pair.
func (c *Collider) RegisterSet(as, bs []kind.Tag, rule Rule) {
	as = dedupTags(as)
	bs = dedupTags(bs)
	for _, a := range as {
		for _, b := range bs {
			c.Register(a, b, rule)
		}
	}
}

func dedupTags(tags []kind.Tag) []kind.Tag {
	cp := make([]kind.Tag, len(tags))
	copy(cp, tags)
	slices.SortFunc(cp, func(x, y kind.Tag) int { return strings.Compare(x.String(), y.String()) })
	cp = slices.CompactFunc(cp, func(x, y kind.Tag) bool { return x == y })
	return cp
}

// NewCollision evaluates every registered rule against the pair (a, b),
// appending each match's resulting actions to the pending list. A rule
// registered (ta, tb) is invoked as rule(a, b) if a's kind is-a ta and b's
// kind is-a tb, and as rule(b, a) if b's kind is-a ta and a's kind is-a tb,
// so rule bodies can assume arg 0 satisfies ta and arg 1 satisfies tb. When
// both pairings hold (e.g. a rule registered (Walker, Walker) and two
// walkers colliding), the rule is invoked once in each order, so a
// symmetric rule acts on both agents.
//
// Does not execute anything; call Execute to apply what accumulated.
func (c *Collider) NewCollision(a, b capability.Agent, ctx capability.Context) {
	ka, kb := a.Kind(), b.Kind()
	for _, e := range c.entries {
		if kind.IsA(ka, e.a) && kind.IsA(kb, e.b) {
			c.pending = append(c.pending, e.rule(a, b, ctx)...)
		}
		if kind.IsA(kb, e.a) && kind.IsA(ka, e.b) {
			c.pending = append(c.pending, e.rule(b, a, ctx)...)
		}
	}
}

// Execute applies every pending action, in the order it was accumulated,
// then clears the pending list. Safe to call with nothing pending.
func (c *Collider) Execute(ctx capability.Context) {
	for _, act := range c.pending {
		act.Apply(ctx)
	}
	c.pending = c.pending[:0]
}

var _ capability.Collider = (*Collider)(nil)
