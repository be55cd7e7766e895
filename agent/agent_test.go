package agent_test

import (
	"math/rand"
	"testing"

	"github.com/joeycumines/go-tracksim/agent"
	"github.com/joeycumines/go-tracksim/capability"
	"github.com/joeycumines/go-tracksim/collision"
	"github.com/joeycumines/go-tracksim/kind"
	"github.com/joeycumines/go-tracksim/stepping"
	"github.com/joeycumines/go-tracksim/track"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testContext is a minimal, deterministic capability.Context for exercising
// agent behavior directly, without the root simulation loop.
type testContext struct {
	now        float64
	tr         *track.Track[capability.Agent]
	rng        *rand.Rand
	collider   *collision.Collider
	queued     map[capability.Updateable]float64
	loaded     []capability.Loadable
	unloaded   []capability.Loadable
	registered map[capability.Reportable]bool
}

func newTestContext(length int, seed int64) *testContext {
	return &testContext{
		tr:         track.New[capability.Agent](length),
		rng:        rand.New(rand.NewSource(seed)),
		collider:   collision.New(),
		queued:     make(map[capability.Updateable]float64),
		registered: make(map[capability.Reportable]bool),
	}
}

func (c *testContext) Now() float64                          { return c.now }
func (c *testContext) Track() *track.Track[capability.Agent]   { return c.tr }
func (c *testContext) Rand() *rand.Rand                      { return c.rng }
func (c *testContext) Enqueue(dt float64, u capability.Updateable) {
	c.queued[u] = c.now + dt
}
func (c *testContext) Dequeue(u capability.Updateable) { delete(c.queued, u) }
func (c *testContext) Requeue(u capability.Updateable) {
	c.Dequeue(u)
	c.Enqueue(u.NextUpdate(c), u)
}
func (c *testContext) Collider() capability.Collider { return c.collider }
func (c *testContext) Load(l capability.Loadable) {
	c.loaded = append(c.loaded, l)
	if r, ok := l.(capability.Reportable); ok {
		c.registered[r] = true
	}
	if u, ok := l.(capability.Updateable); ok {
		c.Enqueue(u.NextUpdate(c), u)
		u.SetLastUpdate(c.now)
	}
	l.Load(c)
}
func (c *testContext) Unload(l capability.Loadable) {
	c.unloaded = append(c.unloaded, l)
	if u, ok := l.(capability.Updateable); ok {
		c.Dequeue(u)
	}
	if r, ok := l.(capability.Reportable); ok {
		delete(c.registered, r)
	}
	l.Unload(c)
}
func (c *testContext) Unregister(r capability.Reportable) { delete(c.registered, r) }

func TestWalker_loadsOnTrackAtGivenPosition(t *testing.T) {
	ctx := newTestContext(10, 1)
	w := agent.NewWalker(kind.Walker, 3, 1, 1, stepping.Careful)
	ctx.Load(w)

	_, present := ctx.tr.CellAt(3)[capability.Agent(w)]
	assert.True(t, present)
}

func TestWalker_loadsAtRandomPositionWhenUnset(t *testing.T) {
	ctx := newTestContext(5, 1)
	// occupy everything except position 2
	for i := 0; i < 5; i++ {
		if i == 2 {
			continue
		}
		ctx.tr.InsertAt(i, capability.Agent(agent.NewBoundary(i)))
	}
	w := agent.NewWalker(kind.Walker, agent.UnsetPosition, 1, 1, stepping.Careful)
	ctx.Load(w)
	assert.Equal(t, 2, w.Position())
}

func TestWalker_stepsWhenCareful(t *testing.T) {
	ctx := newTestContext(10, 1)
	w := agent.NewWalker(kind.Walker, 3, 1, 1, stepping.Careful)
	ctx.Load(w)

	ctx.now = 1 // one full step interval elapsed
	w.Update(ctx)

	assert.Equal(t, 4, w.Position())
	_, stillAt3 := ctx.tr.CellAt(3)[capability.Agent(w)]
	assert.False(t, stillAt3)
}

func TestWalker_doesNotStepEarly(t *testing.T) {
	ctx := newTestContext(10, 1)
	w := agent.NewWalker(kind.Walker, 3, 1, 1, stepping.Careful)
	ctx.Load(w)

	ctx.now = 0.1
	w.Update(ctx)

	assert.Equal(t, 3, w.Position())
}

func TestWalker_carefulBlockedByOccupant(t *testing.T) {
	ctx := newTestContext(10, 1)
	w := agent.NewWalker(kind.Walker, 3, 1, 1, stepping.Careful)
	blocker := agent.NewBoundary(4)
	ctx.Load(w)
	ctx.Load(blocker)

	ctx.now = 1
	w.Update(ctx)

	assert.Equal(t, 3, w.Position())
}

func TestWalker_reflectsOffBoundaryViaCollider(t *testing.T) {
	ctx := newTestContext(10, 1)
	ctx.collider.Register(kind.Walker, kind.Boundary, collision.Reflect)

	w := agent.NewWalker(kind.Walker, 3, 1, 1, stepping.Careful)
	b := agent.NewBoundary(4)
	ctx.Load(w)
	ctx.Load(b)

	ctx.now = 1
	w.Update(ctx)

	assert.Equal(t, -1, w.Direction())
	// the collision flips direction before the step decision is made, so the
	// walker immediately steps the other way in the same tick, onto the now-empty cell behind it
	assert.Equal(t, 2, w.Position())
}

func TestBoundary_neverSteps(t *testing.T) {
	ctx := newTestContext(10, 1)
	b := agent.NewBoundary(5)
	ctx.Load(b)
	b.Update(ctx)
	assert.Equal(t, 5, b.Position())
}

func TestTrackEnd_isABoundary(t *testing.T) {
	te := agent.NewTrackEnd(9)
	assert.True(t, kind.IsA(te.Kind(), kind.Boundary))
}

func TestMultiHead_loadsAllHeads(t *testing.T) {
	ctx := newTestContext(10, 1)
	h1 := agent.NewWalker(kind.Walker, 3, 1, 1, stepping.Careful)
	h2 := agent.NewWalker(kind.Walker, 4, 1, 1, stepping.Careful)
	mh := agent.NewMultiHead(kind.New("pair"), h1, h2)

	ctx.Load(mh)

	_, p1 := ctx.tr.CellAt(3)[capability.Agent(h1)]
	_, p2 := ctx.tr.CellAt(4)[capability.Agent(h2)]
	assert.True(t, p1)
	assert.True(t, p2)
}

func TestMultiHead_unloadsAllHeads(t *testing.T) {
	ctx := newTestContext(10, 1)
	h1 := agent.NewWalker(kind.Walker, 3, 1, 1, stepping.Careful)
	h2 := agent.NewWalker(kind.Walker, 4, 1, 1, stepping.Careful)
	mh := agent.NewMultiHead(kind.New("pair2"), h1, h2)
	ctx.Load(mh)

	ctx.Unload(mh)

	assert.Empty(t, ctx.tr.CellAt(3))
	assert.Empty(t, ctx.tr.CellAt(4))
}

func TestMultiHead_onlyTheCompositeIsRegisteredAsReportable(t *testing.T) {
	ctx := newTestContext(10, 1)
	h1 := agent.NewWalker(kind.Walker, 3, 1, 1, stepping.Careful)
	h2 := agent.NewWalker(kind.Walker, 4, 1, 1, stepping.Careful)
	mh := agent.NewMultiHead(kind.New("pair3"), h1, h2)

	ctx.Load(mh)

	assert.True(t, ctx.registered[mh])
	assert.False(t, ctx.registered[h1])
	assert.False(t, ctx.registered[h2])
}

func TestMultiHead_reportReturnsTupleOfHeadPositions(t *testing.T) {
	ctx := newTestContext(10, 1)
	h1 := agent.NewWalker(kind.Walker, 3, 1, 1, stepping.Careful)
	h2 := agent.NewWalker(kind.Walker, 4, 1, 1, stepping.Careful)
	mh := agent.NewMultiHead(kind.New("pair4"), h1, h2)
	ctx.Load(mh)

	assert.Equal(t, []int{3, 4}, mh.Report())
}

func TestFiniteLife_expiresAndCallsOnExpire(t *testing.T) {
	ctx := newTestContext(10, 1)
	called := false
	fl := agent.NewFiniteLife(kind.New("mortal"), 5, func(ctx capability.Context) {
		called = true
	})
	ctx.Load(fl)

	ctx.now = 5
	delete(ctx.queued, fl) // simulate the main loop having already popped fl to invoke Update
	fl.Update(ctx)

	assert.True(t, called)
	_, stillQueued := ctx.queued[fl]
	assert.False(t, stillQueued)
}

func TestFiniteLife_requeuesBeforeExpiry(t *testing.T) {
	ctx := newTestContext(10, 1)
	fl := agent.NewFiniteLife(kind.New("mortal2"), 5, func(ctx capability.Context) {})
	ctx.Load(fl)
	ctx.Enqueue(fl.NextUpdate(ctx), fl)

	ctx.now = 2
	fl.Update(ctx)

	assert.InDelta(t, 3.0, fl.NextUpdate(ctx), 1e-9)
	_, stillQueued := ctx.queued[fl]
	assert.True(t, stillQueued)
}

func TestRespawnOnExpiry_loadsReplacement(t *testing.T) {
	ctx := newTestContext(10, 1)
	spawned := false
	onExpire := agent.RespawnOnExpiry(func(ctx capability.Context) capability.Loadable {
		spawned = true
		return agent.NewBoundary(0)
	})
	onExpire(ctx)

	assert.True(t, spawned)
	require.Len(t, ctx.loaded, 1)
}

func TestFiniteLifeMultiHead_composesBoth(t *testing.T) {
	ctx := newTestContext(10, 1)
	expired := false
	h1 := agent.NewWalker(kind.Walker, 3, 1, 1, stepping.Careful)
	h2 := agent.NewWalker(kind.Walker, 4, 1, 1, stepping.Careful)
	flmh := agent.NewFiniteLifeMultiHead(kind.New("cohesin"), 5, func(ctx capability.Context) {
		expired = true
	}, h1, h2)

	ctx.Load(flmh)
	_, p1 := ctx.tr.CellAt(3)[capability.Agent(h1)]
	assert.True(t, p1)

	ctx.now = 5
	flmh.Update(ctx)
	assert.True(t, expired)
}

func TestRandomWalker_stepsEventually(t *testing.T) {
	ctx := newTestContext(20, 7)
	w := agent.NewRandomWalker(kind.RandomWalker, 10, 1, 1, 0.5, stepping.Careful)
	ctx.Load(w)

	ctx.now = 1
	w.Update(ctx)

	assert.NotEqual(t, 10, w.Position())
}
