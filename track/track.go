// Package track implements the bounds-safe one-dimensional lattice agents
// live on: a fixed-length array of position cells, each a multiset of
// occupant references.
//
// Track is generic over the occupant type so it carries no dependency on the
// capability or kind packages; package capability instantiates it with its
// own Agent interface.
package track

// Cell is the set of occupants at one position. Iteration order is not
// meaningful.
type Cell[A comparable] map[A]struct{}

// Track is a bounds-safe array of length L of position cells.
type Track[A comparable] struct {
	cells []Cell[A]
}

// New creates a Track of the given length, all cells initially empty.
// Panics if length is negative.
func New[A comparable](length int) *Track[A] {
	if length < 0 {
		panic("track: length must be >= 0")
	}
	cells := make([]Cell[A], length)
	for i := range cells {
		cells[i] = Cell[A]{}
	}
	return &Track[A]{cells: cells}
}

// Len returns the track length L.
func (t *Track[A]) Len() int {
	return len(t.cells)
}

// InBounds reports whether i is a valid track position.
func (t *Track[A]) InBounds(i int) bool {
	return i >= 0 && i < len(t.cells)
}

// CellAt returns the cell at i. If i is in bounds, the live cell is
// returned: mutations made by the caller are observed by later calls. If i
// is out of bounds, a fresh, never-aliased empty cell is returned — writes
// to it are discarded since nothing else holds a reference to it, and reads
// always see empty.
func (t *Track[A]) CellAt(i int) Cell[A] {
	if t.InBounds(i) {
		return t.cells[i]
	}
	return Cell[A]{}
}

// InsertAt adds agent to the cell at i. No-op if i is out of bounds (the
// caller is expected to have validated bounds before placing an agent; this
// mirrors CellAt's out-of-bounds-writes-are-discarded contract).
func (t *Track[A]) InsertAt(i int, agent A) {
	if t.InBounds(i) {
		t.cells[i][agent] = struct{}{}
	}
}

// RemoveAt removes agent from the cell at i, if present. Reports whether it
// was present.
func (t *Track[A]) RemoveAt(i int, agent A) bool {
	if !t.InBounds(i) {
		return false
	}
	if _, ok := t.cells[i][agent]; !ok {
		return false
	}
	delete(t.cells[i], agent)
	return true
}

// RemoveFirst removes agent from whichever cell(s) it appears in, scanning
// the whole track. This is the fallback path spec'd for Loadable.unload: an
// agent that keeps track of its own position should prefer RemoveAt.
// Reports whether the agent was found anywhere.
func (t *Track[A]) RemoveFirst(agent A) bool {
	found := false
	for _, cell := range t.cells {
		if _, ok := cell[agent]; ok {
			delete(cell, agent)
			found = true
		}
	}
	return found
}

// NextEmpty linearly advances from start in direction (+1 or -1) until
// reaching an empty cell, and returns that index. Behavior is undefined (it
// will run out of bounds, returning an out-of-bounds index whose CellAt is
// always empty) if no empty cell exists in that direction within the track —
// callers relying on this must ensure a boundary/sentinel exists.
func (t *Track[A]) NextEmpty(start, direction int) int {
	i := start
	for t.InBounds(i) && len(t.cells[i]) != 0 {
		i += direction
	}
	return i
}

// Aggregate returns the union of the cells in [lo, hi) if lo <= hi, or
// (hi, lo] traversed in reverse if lo > hi — either way every index strictly
// between lo and hi inclusive-exclusive per direction is visited once. Out
// of bounds indices contribute nothing (they are always empty).
func (t *Track[A]) Aggregate(lo, hi int) Cell[A] {
	out := Cell[A]{}
	if lo <= hi {
		for i := lo; i < hi; i++ {
			for a := range t.CellAt(i) {
				out[a] = struct{}{}
			}
		}
	} else {
		for i := lo; i > hi; i-- {
			for a := range t.CellAt(i) {
				out[a] = struct{}{}
			}
		}
	}
	return out
}
