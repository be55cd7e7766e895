// Package action defines the small tagged sum of deferred mutations that
// collision rules and stepping rules produce instead of mutating the
// simulation directly. Deferring mutation to an explicit execution phase is
// what lets the collision dispatcher (package collision) run every matching
// rule for a pair against a frozen view of the world, then apply the
// results as one barrier (spec §4.5, §9's recommendation against
// unrestricted closures "so the barrier stays inspectable").
//
// An Action value is pure data; running it is entirely the job of Apply.
package action

import "github.com/joeycumines/go-tracksim/capability"

// Action is a deferred mutation produced by a collision or stepping rule.
// Implementations must not retain ctx past Apply, and must not themselves
// recurse into the collision dispatcher (that happens, if at all, one layer
// up, e.g. stepping.PushSoft consulting another agent's stepping rule).
type Action interface {
	// Apply performs the mutation against ctx. Called during the barrier
	// execution phase, never during rule evaluation.
	Apply(ctx capability.Context)
}

// FlipDirection reverses the travel direction of a Directional agent.
type FlipDirection struct {
	Agent Directional
}

// Directional is implemented by agents with a signed direction of travel
// (e.g. agent.Walker). Kept narrow and separate from capability.Positioned
// so FlipDirection can operate on anything with a direction, independent of
// whether it also occupies a track cell.
type Directional interface {
	Direction() int
	SetDirection(int)
}

func (a FlipDirection) Apply(ctx capability.Context) {
	a.Agent.SetDirection(-a.Agent.Direction())
}

// EnqueueUnload schedules Target's removal via ctx.Unload, satisfying the
// "unload must be routed through an Event" requirement even when triggered
// synchronously from inside a collision rule's action list.
type EnqueueUnload struct {
	Target capability.Loadable
}

func (a EnqueueUnload) Apply(ctx capability.Context) {
	ctx.Unload(a.Target)
}

// ShiftCells moves a Positioned agent to a new track position by delta
// cells, updating both its own position field and its membership in the
// track's cell sets.
type ShiftCells struct {
	Agent capability.Positioned
	Delta int
}

func (a ShiftCells) Apply(ctx capability.Context) {
	tr := ctx.Track()
	from := a.Agent.Position()
	to := from + a.Delta
	tr.RemoveAt(from, a.Agent)
	a.Agent.SetPosition(to)
	tr.InsertAt(to, a.Agent)
}

// Custom wraps an arbitrary closure as an Action, for rules whose effect
// doesn't fit FlipDirection/EnqueueUnload/ShiftCells. Used sparingly — most
// rules should prefer the named variants so the barrier's pending-action
// list stays inspectable (loggable, testable without invoking Apply) rather
// than opaque.
type Custom func(ctx capability.Context)

func (f Custom) Apply(ctx capability.Context) {
	f(ctx)
}
