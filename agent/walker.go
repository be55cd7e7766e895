// Package agent provides the base agent kinds of spec §4.7: stationary
// Boundary and TrackEnd particles, a stepping/colliding Walker (with an
// optional backward-conscious randomized-direction mode generalizing
// original_source/karo/particles.RandomWalker), and the MultiHead/FiniteLife
// composition helpers used to build things like the original's Cohesin
// (a two-headed, finite-lifetime loop extruder).
//
// None of these types hang onto a *tracksim.Simulation; every method that
// needs simulation state receives a capability.Context argument, per the
// redesign flag in spec §9.
package agent

import (
	"github.com/joeycumines/go-tracksim/action"
	"github.com/joeycumines/go-tracksim/capability"
	"github.com/joeycumines/go-tracksim/kind"
	"github.com/joeycumines/go-tracksim/stepping"
)

// eps is the "effectively due" threshold used for countdown comparisons
// throughout this package; see DESIGN.md's "Open Question decisions" for
// why this replaces the original's apparent `< 1e10` typo.
const eps = 1e-10

// unsetPosition marks a Walker/Boundary/TrackEnd constructed without an
// explicit position; Load then picks a position uniformly among the
// track's empty cells, grounded on Particle.load's
// `random.choice(possible_positions)`.
const unsetPosition = -1

// UnsetPosition is exported so callers constructing agents can request
// random placement explicitly (as opposed to accidentally passing 0).
const UnsetPosition = unsetPosition

// Walker is a moving particle that steps in a persistent direction at a
// fixed rate (Speed steps per unit time, one every 1/Speed), checking collisions with its
// neighbor in the direction of travel before each update, grounded on
// baseparticles.Walker.
//
// Setting random mode (via NewRandomWalker) generalizes
// particles.RandomWalker: the walker also checks collisions behind itself,
// and randomizes its direction for the duration of each step with
// probability (1 - pForward), restoring its persistent direction
// immediately afterwards.
type Walker struct {
	tag          kind.Tag
	pos          int
	dir          int
	freeSpeed    float64
	speed        float64
	untilStep    float64
	last         float64
	steppingRule stepping.Rule

	random   bool
	pForward float64
}

// NewWalker constructs a Walker of the given kind. position may be
// UnsetPosition to request random placement at Load time; direction may be
// 0 to request a random +1/-1 choice at Load time (seeded from the
// simulation's shared PRNG, for reproducibility).
func NewWalker(tag kind.Tag, position, direction int, speed float64, rule stepping.Rule) *Walker {
	return &Walker{
		tag:          tag,
		pos:          position,
		dir:          direction,
		freeSpeed:    speed,
		speed:        speed,
		untilStep:    1 / speed,
		steppingRule: rule,
	}
}

// NewRandomWalker constructs a Walker in backward-conscious, randomized-step
// mode: pForward is the probability that a given step is taken in the
// walker's persistent direction, rather than its opposite.
func NewRandomWalker(tag kind.Tag, position, direction int, speed, pForward float64, rule stepping.Rule) *Walker {
	w := NewWalker(tag, position, direction, speed, rule)
	w.random = true
	w.pForward = pForward
	return w
}

func (w *Walker) Kind() kind.Tag            { return w.tag }
func (w *Walker) Position() int             { return w.pos }
func (w *Walker) SetPosition(p int)         { w.pos = p }
func (w *Walker) Direction() int            { return w.dir }
func (w *Walker) SetDirection(d int)        { w.dir = d }
func (w *Walker) Speed() float64            { return w.speed }
func (w *Walker) SetSpeed(s float64)        { w.speed = s }
func (w *Walker) FreeSpeed() float64        { return w.freeSpeed }
func (w *Walker) SteppingRule() stepping.Rule { return w.steppingRule }
func (w *Walker) LastUpdate() float64       { return w.last }
func (w *Walker) SetLastUpdate(t float64)   { w.last = t }
func (w *Walker) Report() any               { return w.pos }

func (w *Walker) NextUpdate(ctx capability.Context) float64 {
	return w.untilStep
}

// Load places the walker on the track, resolving an unset position or
// direction against the simulation's track/PRNG.
func (w *Walker) Load(ctx capability.Context) {
	if w.dir == 0 {
		if ctx.Rand().Intn(2) == 0 {
			w.dir = -1
		} else {
			w.dir = 1
		}
	}
	if w.pos == unsetPosition {
		w.pos = pickRandomEmptyPosition(ctx)
	}
	ctx.Track().InsertAt(w.pos, capability.Agent(w))
}

// Unload removes the walker from the track. The rigorous fallback
// (scanning the whole track) is available via the track's own RemoveFirst,
// but a Walker always knows its own position, so the targeted removal
// suffices.
func (w *Walker) Unload(ctx capability.Context) {
	ctx.Track().RemoveAt(w.pos, capability.Agent(w))
}

// Update checks collisions, recovers towards free speed (generalizing
// particles.VariableWalker's recovery-on-update into the base Walker, since
// it is a no-op for a walker whose speed nothing ever changes), and takes a
// step once its countdown reaches zero.
func (w *Walker) Update(ctx capability.Context) {
	if w.random {
		w.CheckCollisions(ctx, -w.dir)
	}
	w.CheckCollisions(ctx, w.dir)

	w.speed = w.freeSpeed
	w.untilStep -= ctx.Now() - w.last
	if w.untilStep <= eps {
		w.doStep(ctx)
		w.untilStep = 1 / w.speed
	}
	w.last = ctx.Now()
	ctx.Requeue(w)
}

func (w *Walker) doStep(ctx capability.Context) {
	if !w.random {
		w.step(ctx)
		return
	}
	oldDir := w.dir
	if ctx.Rand().Float64() >= w.pForward {
		w.dir = -w.dir
	}
	w.step(ctx)
	w.dir = oldDir
}

func (w *Walker) step(ctx capability.Context) {
	acts, ok := w.steppingRule(w, ctx)
	if !ok {
		return
	}
	for _, a := range acts {
		a.Apply(ctx)
	}
	tr := ctx.Track()
	tr.RemoveAt(w.pos, capability.Agent(w))
	w.pos += w.dir
	tr.InsertAt(w.pos, capability.Agent(w))
}

// CheckCollisions dispatches collisions between w and every occupant of the
// cell at w.Position()+relativePosition as a single barrier: every neighbor
// is observed via NewCollision (which only accumulates pending actions)
// before any of them execute, matching constituents.py's checkCollisions,
// which calls newCollision for each other in the cell and only then calls
// execute(sim) once, after the loop.
//
// relativePosition 0 checks w's own cell, skipping w itself.
func (w *Walker) CheckCollisions(ctx capability.Context, relativePosition int) {
	cell := ctx.Track().CellAt(w.pos + relativePosition)
	others := make([]capability.Agent, 0, len(cell))
	for occ := range cell {
		if relativePosition == 0 && occ == capability.Agent(w) {
			continue
		}
		others = append(others, occ)
	}

	collider := ctx.Collider()
	for _, other := range others {
		collider.NewCollision(w, other, ctx)
	}
	collider.Execute(ctx)
}

func pickRandomEmptyPosition(ctx capability.Context) int {
	tr := ctx.Track()
	candidates := make([]int, 0, tr.Len())
	for i := 0; i < tr.Len(); i++ {
		if len(tr.CellAt(i)) == 0 {
			candidates = append(candidates, i)
		}
	}
	if len(candidates) == 0 {
		return 0
	}
	return candidates[ctx.Rand().Intn(len(candidates))]
}

var (
	_ capability.Positioned = (*Walker)(nil)
	_ capability.Loadable   = (*Walker)(nil)
	_ capability.Updateable = (*Walker)(nil)
	_ capability.Reportable = (*Walker)(nil)
	_ action.Directional    = (*Walker)(nil)
	_ stepping.Walker       = (*Walker)(nil)
	_ stepping.RuleHaver    = (*Walker)(nil)
)
