// Package capability defines the three orthogonal contracts agents may
// implement — Loadable, Updateable, Reportable — and the Context interface
// threaded explicitly through every handler in place of a stored
// back-reference to the simulation (spec §9's "Back-references from agent
// into simulation" redesign flag: thread the simulation as an explicit
// argument, never store it, to keep the simulation the single root of
// mutation authority per spec §5).
//
// Concrete agents (package agent) are tagged sums over these capabilities
// rather than a class hierarchy: any type may implement any subset of the
// three interfaces, and the engine (package tracksim) queries which
// capabilities a given value has via type assertion at Load/Unload time.
package capability

import (
	"math/rand"

	"github.com/joeycumines/go-tracksim/kind"
	"github.com/joeycumines/go-tracksim/track"
)

// Agent is the minimum any value placed on the track or participating in
// collision dispatch must implement: a stable kind tag used for subtype
// matching.
type Agent interface {
	Kind() kind.Tag
}

// Positioned is implemented by agents that occupy a single track cell and
// can report/accept their own position — stepping rules and shift actions
// operate against this rather than a concrete agent type.
type Positioned interface {
	Agent
	Position() int
	SetPosition(int)
}

// Loadable objects can be admitted to, and removed from, a simulation.
type Loadable interface {
	Agent
	// Load is invoked by Context.Load after capability-conditional
	// bookkeeping (queue-insert if Updateable, reporter-register if
	// Reportable) has already happened. Implementations place themselves on
	// the track and perform any other domain-specific setup.
	Load(ctx Context)
	// Unload removes this agent from the simulation. The rigorous fallback
	// is to scan the whole track and queue for every reference to self;
	// concrete types may override with a cheaper targeted removal.
	Unload(ctx Context)
}

// Updateable objects declare when they next need to run, and what to do
// when they do.
type Updateable interface {
	Agent
	// NextUpdate returns the time, relative to ctx.Now(), until the next
	// needed wake-up. May return math.Inf(1) to mean "never on my own".
	NextUpdate(ctx Context) float64
	// Update brings the object up to date. It may be invoked earlier than
	// the Δt previously returned by NextUpdate — implementations must
	// consult current state, not a remembered interval. It does not
	// auto-reschedule: implementations that want to run again must call
	// ctx.Requeue(self) before returning, and must record LastUpdate.
	Update(ctx Context)
	// LastUpdate returns the simulation time of this Updateable's most
	// recent Update return.
	LastUpdate() float64
	// SetLastUpdate records the simulation time of the most recent Update
	// return. The engine calls it when the Updateable is loaded; after that,
	// each Update records its own time (see Update).
	SetLastUpdate(t float64)
}

// Reportable objects produce an opaque, side-effect-free snapshot for
// inclusion in a report.
type Reportable interface {
	Agent
	Report() any
}

// Collider is the narrow surface of the collision dispatcher (package
// collision) that rules and stepping procedures need during dispatch:
// enumerate matching rules for a pair of agents, accumulating their actions,
// then run the accumulated actions as one barrier. Registration (building
// the tag-pair -> rule registry) happens on the concrete *collision.Collider
// directly, outside this interface, since only simulation setup code needs
// it.
type Collider interface {
	// NewCollision looks up every registered rule whose tag pair a and b
	// satisfy (under the kind lattice, in either registration order) and
	// appends each rule's resulting actions to the pending list. It does
	// not execute anything.
	NewCollision(a, b Agent, ctx Context)
	// Execute drains the pending action list in FIFO order, applying each
	// to ctx, then clears it.
	Execute(ctx Context)
}

// Context is the explicit-argument substitute for a stored simulation
// back-reference. Every handler (Load, Unload, Update, stepping rule,
// collision rule/action) receives a Context rather than a concrete
// *tracksim.Simulation.
type Context interface {
	// Now returns the current absolute simulation time.
	Now() float64

	// Track returns the simulation's track.
	Track() *track.Track[Agent]

	// Rand returns the simulation's seeded PRNG. Shared by all agents —
	// the single process-wide generator spec'd in §5 — rather than one
	// per agent, so a single seed reproduces an entire run.
	Rand() *rand.Rand

	// Enqueue inserts u into the update queue at ctx.Now()+dt.
	Enqueue(dt float64, u Updateable)
	// Dequeue removes u from the update queue if present; a no-op
	// (not an error) if absent, matching the spec's unqueue contract.
	Dequeue(u Updateable)
	// Requeue is Dequeue followed by Enqueue(u.NextUpdate(ctx), u).
	Requeue(u Updateable)

	// Collider returns the dispatcher used to check and resolve collisions.
	Collider() Collider

	// Load admits loadable to the simulation: capability-conditional
	// bookkeeping, then loadable.Load(ctx).
	Load(loadable Loadable)
	// Unload schedules loadable's removal via a deferred Event, per spec
	// §3 ("Unload: must be routed through an Event").
	Unload(loadable Loadable)

	// Unregister removes r from the reporter's registered set without
	// touching the queue or the track, for composites (e.g. MultiHead)
	// that load a Reportable head but want only the composite itself to
	// appear in reports (spec §4.7: "unregister each head from the
	// reporter so only the composite reports").
	Unregister(r Reportable)
}
