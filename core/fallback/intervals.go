package fallback

import (
	"sort"

	"github.com/kilianp07/busytime/core/model"
)

// BusyIntervals returns one [start, start+duration) interval per scheduled
// job, ordered by start. Overlapping intervals are kept separate and equal
// starts keep job load order.
func BusyIntervals(jobs []model.Job, sched model.Schedule) []model.Interval {
	out := make([]model.Interval, 0, len(sched))
	for _, j := range jobs {
		start, ok := sched[j.Index]
		if !ok {
			continue
		}
		out = append(out, model.Interval{JobIndex: j.Index, Start: start, End: start + j.Duration})
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Start < out[b].Start })
	return out
}
