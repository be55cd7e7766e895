// Package stepping implements the stepping-rule library of spec §4.6:
// careful, transparent, push-soft, push-hard and push-train. Each rule
// decides whether a walking agent may advance one cell in its current
// direction, and what (if anything) must happen first for that to be
// possible.
//
// Grounded directly on original_source/karo/steppingrules.py, which defines
// a rule as `rule(obj, sim) -> <list or None>`: None means "don't step",
// any list (including empty) means "step, running these actions first".
// That two-valued contract doesn't translate to a single Go return without
// ambiguity (a nil slice is a perfectly good "step, nothing to do first"
// result), so Rule here returns an explicit ok bool alongside the actions.
package stepping

import (
	"github.com/joeycumines/go-tracksim/action"
	"github.com/joeycumines/go-tracksim/capability"
	"github.com/joeycumines/go-tracksim/kind"
)

// Walker is the narrow capability surface a stepping rule needs: a
// position, and a travel direction.
type Walker interface {
	capability.Positioned
	action.Directional
}

// RuleHaver is implemented by walkers that can report their own current
// stepping rule — needed by PushSoft, which must consult a pushed walker's
// own rule to decide whether that walker would be willing to move.
type RuleHaver interface {
	SteppingRule() Rule
}

// Rule evaluates whether w may step, returning the actions (if any) that
// must run first. ok == false means "do not step"; ok == true with a nil
// or empty acts means "step, nothing to prepare".
type Rule func(w Walker, ctx capability.Context) (acts []action.Action, ok bool)

// Careful steps only if the destination cell is empty.
func Careful(w Walker, ctx capability.Context) (acts []action.Action, ok bool) {
	dest := w.Position() + w.Direction()
	if len(ctx.Track().CellAt(dest)) == 0 {
		return nil, true
	}
	return nil, false
}

// Transparent always steps, passing through any occupants, except it
// refuses to step onto a cell occupied by a TrackEnd (or subtype).
func Transparent(w Walker, ctx capability.Context) (acts []action.Action, ok bool) {
	dest := w.Position() + w.Direction()
	for occ := range ctx.Track().CellAt(dest) {
		if kind.IsA(occ.Kind(), kind.TrackEnd) {
			return nil, false
		}
	}
	return nil, true
}

// PushSoft steps only if the destination cell is either empty or occupied
// entirely by other Walkers that are each, in turn, willing to step in w's
// direction (consulting each one's own RuleHaver.SteppingRule with its
// direction temporarily reoriented to match w's). If every occupant agrees,
// w steps and every occupant is shifted one cell further along.
//
// Per the observed original behavior, a pushed walker's willingness is
// decided purely by its own stepping rule — its collision rules are never
// consulted here; collision dispatch runs separately, on the agent's
// arrival at its new cell, through the normal per-tick collision phase.
func PushSoft(w Walker, ctx capability.Context) (acts []action.Action, ok bool) {
	dest := w.Position() + w.Direction()
	cell := ctx.Track().CellAt(dest)
	if len(cell) == 0 {
		return nil, true
	}

	occupants := make([]Walker, 0, len(cell))
	for occ := range cell {
		other, isWalker := occ.(Walker)
		if !isWalker {
			return nil, false
		}
		occupants = append(occupants, other)
	}

	var acc []action.Action
	for _, other := range occupants {
		rh, hasRule := other.(RuleHaver)
		if !hasRule {
			return nil, false
		}
		oldDir := other.Direction()
		other.SetDirection(w.Direction())
		otherActs, stepOK := rh.SteppingRule()(other, ctx)
		other.SetDirection(oldDir)
		if !stepOK {
			return nil, false
		}
		acc = append(acc, otherActs...)
	}

	dir := w.Direction()
	acc = append(acc, action.Custom(func(ctx capability.Context) {
		tr := ctx.Track()
		for _, other := range occupants {
			tr.RemoveAt(dest, capability.Agent(other))
			other.SetPosition(other.Position() + dir)
			tr.InsertAt(other.Position(), capability.Agent(other))
		}
	}))
	return acc, true
}

// PushHard unconditionally shifts every occupant of the destination cell
// one further step in w's direction, without asking them, refusing only if
// a TrackEnd (or subtype) occupies that cell.
func PushHard(w Walker, ctx capability.Context) (acts []action.Action, ok bool) {
	dest := w.Position() + w.Direction()
	for occ := range ctx.Track().CellAt(dest) {
		if kind.IsA(occ.Kind(), kind.TrackEnd) {
			return nil, false
		}
	}

	dir := w.Direction()
	return []action.Action{action.Custom(func(ctx capability.Context) {
		tr := ctx.Track()
		cell := tr.CellAt(dest)
		occupants := make([]capability.Agent, 0, len(cell))
		for occ := range cell {
			occupants = append(occupants, occ)
		}
		for _, occ := range occupants {
			pos, isPositioned := occ.(capability.Positioned)
			if !isPositioned {
				continue
			}
			tr.RemoveAt(dest, occ)
			pos.SetPosition(pos.Position() + dir)
			tr.InsertAt(pos.Position(), occ)
		}
	})}, true
}

// PushTrain pushes a contiguous "train" of occupants — everything between
// w's destination cell and the next empty cell in w's direction — forward
// by one, refusing if any member of that train is a TrackEnd (or
// subtype). Unlike PushHard, which only looks one cell ahead and so would
// collapse several queued occupants into each other, PushTrain finds the
// full contiguous run first.
func PushTrain(w Walker, ctx capability.Context) (acts []action.Action, ok bool) {
	dir := w.Direction()
	trainStart := w.Position() + dir
	trainEnd := ctx.Track().NextEmpty(w.Position(), dir)

	var lo, hi int
	if dir > 0 {
		lo, hi = trainStart, trainEnd
	} else {
		lo, hi = trainEnd+1, trainStart+1
	}

	trainParticles := ctx.Track().Aggregate(lo, hi)
	for occ := range trainParticles {
		if kind.IsA(occ.Kind(), kind.TrackEnd) {
			return nil, false
		}
	}

	return []action.Action{action.Custom(func(ctx capability.Context) {
		tr := ctx.Track()
		for pos := lo; pos < hi; pos++ {
			cell := tr.CellAt(pos)
			for occ := range cell {
				delete(cell, occ)
			}
		}
		for occ := range trainParticles {
			pos, isPositioned := occ.(capability.Positioned)
			if !isPositioned {
				continue
			}
			pos.SetPosition(pos.Position() + dir)
			tr.InsertAt(pos.Position(), occ)
		}
	})}, true
}
