// Package queue implements the ordered event queue: a priority queue keyed
// on absolute simulation time, supporting identity-based removal in
// addition to the usual insert/pop.
//
// The implementation is a container/heap min-heap over an insertion-sequence
// tiebreak, directly grounded on the teacher's eventloop.timerHeap (a
// time.Time-keyed heap.Interface implementation over a slice of timer
// structs) — generalized here to absolute float64 time and an arbitrary
// comparable payload type, with an index map layered on top so identity
// removal (spec'd as required; the teacher's timer heap didn't need it,
// since JS timer cancellation works by token, not by value identity) stays
// O(log n) instead of the O(n) linear scan a plain heap would need.
package queue

import (
	"container/heap"

	"github.com/joeycumines/go-tracksim/tracksimerr"
)

// item is one entry in the heap: an absolute time, a payload, and the
// insertion sequence used to break ties in FIFO order (entries with equal
// time pop in the order they were inserted, per spec §4.1).
type item[T comparable] struct {
	time    float64
	payload T
	seq     uint64
	index   int // maintained by heapImpl, required for container/heap.Fix/Remove
}

type heapImpl[T comparable] []*item[T]

func (h heapImpl[T]) Len() int { return len(h) }

func (h heapImpl[T]) Less(i, j int) bool {
	if h[i].time != h[j].time {
		return h[i].time < h[j].time
	}
	return h[i].seq < h[j].seq
}

func (h heapImpl[T]) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *heapImpl[T]) Push(x any) {
	it := x.(*item[T])
	it.index = len(*h)
	*h = append(*h, it)
}

func (h *heapImpl[T]) Pop() any {
	old := *h
	n := len(old)
	it := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return it
}

// Queue is a time-ordered priority queue of payloads of type T. The zero
// value is not usable; construct with New.
type Queue[T comparable] struct {
	h     heapImpl[T]
	index map[T]*item[T]
	seq   uint64
}

// New creates an empty Queue.
func New[T comparable]() *Queue[T] {
	return &Queue[T]{
		index: make(map[T]*item[T]),
	}
}

// Len returns the number of entries currently queued.
func (q *Queue[T]) Len() int {
	return len(q.h)
}

// Insert places payload in the queue at absolute time t, after all existing
// entries with strictly smaller time (and after any existing entries with
// exactly t, preserving FIFO order among same-time entries).
//
// Inserting a payload already present is permitted and results in two
// independent entries; callers relying on the "appears at most once"
// invariant (spec §3) must use Remove before re-Insert, which is exactly
// what Requeue-style call sites (unqueue then queue) do.
func (q *Queue[T]) Insert(t float64, payload T) {
	it := &item[T]{time: t, payload: payload, seq: q.seq}
	q.seq++
	heap.Push(&q.h, it)
	q.index[payload] = it
}

// Pop removes and returns the entry with the smallest time (ties broken by
// insertion order). Returns tracksimerr.ErrEmpty if the queue has no
// entries.
func (q *Queue[T]) Pop() (t float64, payload T, err error) {
	if q.h.Len() == 0 {
		return 0, payload, tracksimerr.ErrEmpty
	}
	it := heap.Pop(&q.h).(*item[T])
	delete(q.index, it.payload)
	return it.time, it.payload, nil
}

// RemoveByIdentity removes the entry holding payload, if one exists.
// Returns tracksimerr.ErrNotFound if payload is not currently queued. If
// idempotent removal is desired (e.g. the Loadable.unload fallback path),
// callers should treat ErrNotFound as success.
func (q *Queue[T]) RemoveByIdentity(payload T) error {
	it, ok := q.index[payload]
	if !ok {
		return tracksimerr.ErrNotFound
	}
	heap.Remove(&q.h, it.index)
	delete(q.index, payload)
	return nil
}

// RemoveByTime removes one entry with exactly time t (the first one found).
// Returns tracksimerr.ErrNotFound if no entry has that exact time.
func (q *Queue[T]) RemoveByTime(t float64) error {
	for _, it := range q.h {
		if it.time == t {
			heap.Remove(&q.h, it.index)
			delete(q.index, it.payload)
			return nil
		}
	}
	return tracksimerr.ErrNotFound
}

// RemoveRange removes every entry with time in [lo, hi). An empty or
// inverted interval removes nothing and is not an error.
func (q *Queue[T]) RemoveRange(lo, hi float64) {
	if lo >= hi {
		return
	}
	// Collect the items first: mutating the heap slice while ranging over
	// it is unsafe. heap.Remove re-sifts the heap and reassigns the index
	// field of arbitrary other items, so a collected index can go stale the
	// moment any earlier victim is removed — read it.index fresh at
	// removal time instead of trusting the index captured here.
	var victims []*item[T]
	for _, it := range q.h {
		if it.time >= lo && it.time < hi {
			victims = append(victims, it)
		}
	}
	for _, it := range victims {
		heap.Remove(&q.h, it.index)
		delete(q.index, it.payload)
	}
}

// ShiftAllTimes shifts every queued entry's time by delta. O(n); the main
// loop never calls this (per spec §4.1, it is an optional operation).
func (q *Queue[T]) ShiftAllTimes(delta float64) {
	for _, it := range q.h {
		it.time += delta
	}
	heap.Init(&q.h)
}

// Contains reports whether payload currently has a queued entry.
func (q *Queue[T]) Contains(payload T) bool {
	_, ok := q.index[payload]
	return ok
}
