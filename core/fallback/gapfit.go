// Package fallback places the jobs the solver never selected as a pivot.
//
// The pass is greedy and makes no attempt to minimise cost: each remaining
// job goes to the first busy interval, in start order, that can hold it
// within its own release time and deadline.
package fallback

import "github.com/kilianp07/busytime/core/model"

// GapFit assigns every job of pending to the earliest interval that can
// contain it. Jobs are visited in the given order and intervals are not
// extended by the placements made here. Placed jobs are returned even when
// some job does not fit; in that case the error is an *UnschedulableError.
func GapFit(pending []model.Job, intervals []model.Interval) (model.Schedule, error) {
	placed := make(model.Schedule, len(pending))
	var failed []model.Job
	for _, j := range pending {
		start, ok := fit(j, intervals)
		if !ok {
			failed = append(failed, j)
			continue
		}
		placed[j.Index] = start
	}
	if len(failed) > 0 {
		return placed, &UnschedulableError{Jobs: failed}
	}
	return placed, nil
}

func fit(j model.Job, intervals []model.Interval) (int, bool) {
	for _, iv := range intervals {
		earliest := max(iv.Start, j.Release)
		latest := min(iv.End, j.Deadline)
		if earliest+j.Duration <= latest {
			return earliest, true
		}
	}
	return 0, false
}

// Repair derives the busy intervals of sched and gap-fits the jobs it is
// missing. The returned schedule holds only the new placements.
func Repair(jobs []model.Job, sched model.Schedule) (model.Schedule, error) {
	return GapFit(sched.Missing(jobs), BusyIntervals(jobs, sched))
}
