// Package tracksim wires the kind/track/queue/capability/action/collision/
// stepping/agent/report packages into the root Simulation, grounded on
// original_source/karo/framework.py's Simulation class and its run loop
// (§4.9), using the teacher's config-struct-with-defaults construction
// style (microbatch.BatcherConfig's "optional configuration... defaults
// applied if zero/nil").
package tracksim

import (
	"math/rand"

	"github.com/joeycumines/go-tracksim/agent"
	"github.com/joeycumines/go-tracksim/capability"
	"github.com/joeycumines/go-tracksim/collision"
	"github.com/joeycumines/go-tracksim/kind"
	"github.com/joeycumines/go-tracksim/obslog"
	"github.com/joeycumines/go-tracksim/queue"
	"github.com/joeycumines/go-tracksim/report"
	"github.com/joeycumines/go-tracksim/track"
	"github.com/joeycumines/go-tracksim/tracksimerr"
)

// Config configures a Simulation. The zero value is not valid: L must be
// set to a positive track length. Every other field is optional and
// defaulted by New, matching the teacher's "config may be nil, a panic
// will occur if..." register, except genuinely-required fields return an
// error rather than panicking since this is a library boundary.
type Config struct {
	// L is the track length. Must be > 0.
	L int

	// Collider dispatches collisions. Defaults to a fresh, empty
	// collision.New() if nil — callers wanting any rules registered must
	// register them before or after construction via Simulation.Collider().
	Collider *collision.Collider

	// Dt selects the reporter variant: nil selects an event-based reporter
	// (report after every update); non-nil selects a time-based reporter
	// that reports itself every *Dt simulation time units.
	Dt *float64

	// MarkEnds, if true, loads a TrackEnd sentinel at position 0 and L-1.
	MarkEnds bool

	// Logger receives construction, load/unload, and run start/stop records
	// (collision dispatch is not logged). Defaults to obslog.Discard() if nil.
	Logger *obslog.Logger

	// Rand is the process-wide PRNG every agent's randomness is drawn
	// through (spec §5: "a single process-wide pseudo-random generator...
	// must be seedable once"). If nil, one is constructed from Seed.
	Rand *rand.Rand

	// Seed seeds the default Rand when Rand is nil. Ignored if Rand is set.
	Seed int64
}

// Simulation owns the track, queue, collider, reporter, and logger, and
// implements capability.Context so every handler receives it as an opaque
// capability surface rather than a concrete back-reference (spec §9's
// redesign: agents never store a *Simulation).
type Simulation struct {
	now      float64
	track    *track.Track[capability.Agent]
	q        *queue.Queue[capability.Updateable]
	collider *collision.Collider
	reporter report.Reporter
	eventRpt bool
	logger   *obslog.Logger
	rng      *rand.Rand
}

// New validates cfg, applies defaults, and constructs a ready-to-run
// Simulation with an empty track and queue.
func New(cfg Config) (*Simulation, error) {
	if cfg.L <= 0 {
		return nil, &tracksimerr.BadArgument{Message: "L must be > 0"}
	}

	collider := cfg.Collider
	if collider == nil {
		collider = collision.New()
	}

	logger := cfg.Logger
	if logger == nil {
		logger = obslog.Discard()
	}

	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(cfg.Seed))
	}

	var reporter report.Reporter
	eventBased := cfg.Dt == nil
	if eventBased {
		reporter = report.NewEventReporter()
	} else {
		reporter = report.NewTimeReporter(*cfg.Dt)
	}

	s := &Simulation{
		track:    track.New[capability.Agent](cfg.L),
		q:        queue.New[capability.Updateable](),
		collider: collider,
		reporter: reporter,
		eventRpt: eventBased,
		logger:   logger,
		rng:      rng,
	}

	// TimeReporter.Load schedules its own first update; it must never
	// register itself as a Reportable (it would otherwise report a nil
	// snapshot of itself every interval), so it is loaded directly rather
	// than through Simulation.Load's Reportable-registration path.
	if tr, ok := reporter.(capability.Loadable); ok {
		tr.Load(s)
	}

	if cfg.MarkEnds {
		s.Load(agent.NewTrackEnd(0))
		if cfg.L > 1 {
			s.Load(agent.NewTrackEnd(cfg.L - 1))
		}
	}

	logger.Info().Log("simulation constructed")
	return s, nil
}

var _ capability.Context = (*Simulation)(nil)

// Now returns the current simulation time.
func (s *Simulation) Now() float64 { return s.now }

// Track returns the simulation's track.
func (s *Simulation) Track() *track.Track[capability.Agent] { return s.track }

// Rand returns the simulation's shared PRNG.
func (s *Simulation) Rand() *rand.Rand { return s.rng }

// Enqueue schedules u to be updated at time Now()+dt.
func (s *Simulation) Enqueue(dt float64, u capability.Updateable) {
	s.q.Insert(s.now+dt, u)
}

// Dequeue removes u's pending update, if any. Idempotent: removing an
// already-unqueued Updateable is not an error, matching the spec's
// "unqueue is identity-based and idempotent".
func (s *Simulation) Dequeue(u capability.Updateable) {
	_ = s.q.RemoveByIdentity(u)
}

// Requeue removes u's current entry (if any) and reinserts it at
// Now()+u.NextUpdate(s), the rescheduling idiom every Updateable's Update
// method ends with.
func (s *Simulation) Requeue(u capability.Updateable) {
	s.Dequeue(u)
	s.Enqueue(u.NextUpdate(s), u)
}

// Collider returns the simulation's collision dispatcher.
func (s *Simulation) Collider() capability.Collider { return s.collider }

// Load places loadable onto the simulation: it is registered with the
// reporter if Reportable, scheduled if Updateable, and finally has its own
// Load invoked (which is responsible for placing itself on the track, if
// it has a position).
func (s *Simulation) Load(loadable capability.Loadable) {
	if r, ok := loadable.(capability.Reportable); ok {
		s.reporter.Register(r)
	}
	if u, ok := loadable.(capability.Updateable); ok {
		s.Enqueue(u.NextUpdate(s), u)
		u.SetLastUpdate(s.Now())
	}
	loadable.Load(s)
	s.logger.Info().Str("kind", loadable.Kind().String()).Log("loaded")
}

// Unregister removes r from the reporter's registered set without touching
// the queue or the track. Used by composites like agent.MultiHead that load
// a Reportable head but want only the composite itself to appear in
// reports.
func (s *Simulation) Unregister(r capability.Reportable) {
	s.reporter.Unregister(r)
}

// Unload removes loadable from the simulation. Per spec §6 ("unload wraps
// an unload Event"), the removal is deferred through the queue as a
// zero-delay Event rather than happening synchronously, so that an
// in-flight update's remaining logic never observes a half-unloaded agent
// mid-handler; the event fires at the current time, ahead of anything
// already queued for a later time, but after whatever is presently
// executing.
func (s *Simulation) Unload(loadable capability.Loadable) {
	s.Enqueue(0, &unloadEvent{sim: s, target: loadable})
}

// unloadDone applies the actual bookkeeping: dequeuing if Updateable,
// unregistering if Reportable, and calling the loadable's own Unload.
func (s *Simulation) unloadDone(loadable capability.Loadable) {
	if u, ok := loadable.(capability.Updateable); ok {
		s.Dequeue(u)
	}
	if r, ok := loadable.(capability.Reportable); ok {
		s.reporter.Unregister(r)
	}
	loadable.Unload(s)
	s.logger.Info().Str("kind", loadable.Kind().String()).Log("unloaded")
}

// unloadKind tags the internal unload event, distinct from any domain
// agent kind, so it never participates in collision dispatch or reporting.
var unloadKind = kind.New("tracksim.internal.unload")

// unloadEvent routes Simulation.Unload through the queue as a genuine
// Event, per spec §6 ("unload wraps an unload Event"), rather than
// performing the removal synchronously inline.
type unloadEvent struct {
	sim    *Simulation
	target capability.Loadable
	done   bool
	last   float64
}

func (e *unloadEvent) Kind() kind.Tag { return unloadKind }

// NextUpdate is always 0: an unload event fires at the moment it is
// scheduled, i.e. immediately after whatever update requested it finishes.
func (e *unloadEvent) NextUpdate(ctx capability.Context) float64 { return 0 }

func (e *unloadEvent) Update(ctx capability.Context) {
	if e.done {
		return
	}
	e.done = true
	e.sim.unloadDone(e.target)
}

func (e *unloadEvent) LastUpdate() float64 { return e.last }

func (e *unloadEvent) SetLastUpdate(t float64) { e.last = t }

var _ capability.Updateable = (*unloadEvent)(nil)

// Reporter exposes the reporter backing this simulation, for callers that
// want direct access to report.Reporter.Out() after a Run.
func (s *Simulation) Reporter() report.Reporter { return s.reporter }

// Run advances the simulation by at most duration time units, invoking
// queued updates in non-decreasing time order until the queue drains or
// the deadline is reached, per spec §4.9.
func (s *Simulation) Run(duration float64) error {
	deadline := s.now + duration
	s.logger.Info().Log("run started")
	for {
		t, payload, err := s.q.Pop()
		if err == tracksimerr.ErrEmpty {
			break
		}
		if err != nil {
			return err
		}
		if t > deadline {
			s.now = deadline
			break
		}
		s.now = t
		payload.Update(s)
		if s.eventRpt {
			s.reporter.DoReport(s)
		}
	}
	s.logger.Info().Log("run finished")
	return nil
}
