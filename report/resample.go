package report

import (
	"github.com/joeycumines/go-tracksim/kind"
	"github.com/joeycumines/go-tracksim/tracksimerr"
)

// Resample converts an irregularly-timed (typically event-based) report
// series into a regularly-spaced one, per spec §4.8's resampling rule: for
// each target time t_i = start + i*step in [start, stop), find the largest
// recorded report with time <= t_i+offset, deep-copy its snapshots, and
// overwrite the copy's Time to t_i.
//
// start and stop are each "open": a nil start defaults to events[0].Time, a
// nil stop defaults to the last recorded time plus one step.
//
// Returns a *tracksimerr.BadArgument if events is empty, step is not
// positive, or the resolved stop does not exceed the resolved start.
func Resample(events []Report, start, stop *float64, step float64) ([]Report, error) {
	if len(events) == 0 {
		return nil, &tracksimerr.BadArgument{Message: "resample: events is empty"}
	}
	if step <= 0 {
		return nil, &tracksimerr.BadArgument{Message: "resample: step must be positive"}
	}

	resolvedStart := events[0].Time
	if start != nil {
		resolvedStart = *start
	}
	resolvedStop := events[len(events)-1].Time + step
	if stop != nil {
		resolvedStop = *stop
	}
	if resolvedStop <= resolvedStart {
		return nil, &tracksimerr.BadArgument{Message: "resample: stop must exceed start"}
	}

	var out []Report
	idx := 0
	var current Report
	haveCurrent := false

	for i := 0; ; i++ {
		t := resolvedStart + float64(i)*step
		if t >= resolvedStop {
			break
		}
		for idx < len(events) && events[idx].Time <= t+DefaultOffset {
			current = events[idx]
			haveCurrent = true
			idx++
		}
		sample := Report{Time: t}
		if haveCurrent {
			sample.Snapshots = cloneSnapshots(current.Snapshots)
		}
		out = append(out, sample)
	}
	return out, nil
}

// cloneSnapshots deep-copies a report's kind-tagged snapshot slices so a
// caller mutating one resampled entry's data can't corrupt another's, per
// spec §4.8/§8 scenario 6's "snapshots are deep copies" requirement.
func cloneSnapshots(src map[kind.Tag][]any) map[kind.Tag][]any {
	if src == nil {
		return nil
	}
	dst := make(map[kind.Tag][]any, len(src))
	for k, v := range src {
		cp := make([]any, len(v))
		copy(cp, v)
		dst[k] = cp
	}
	return dst
}
