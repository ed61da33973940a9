package solver

import "github.com/kilianp07/busytime/core/model"

// FindPivot returns the position in jobs of the pivot of w, or -1 when no
// job qualifies.
//
// A job qualifies when its duration does not exceed the ceiling and it can
// slide out of the window on neither side: t1-release < duration and
// deadline-t2 < duration. Among qualifying jobs the longest wins; equal
// durations keep the one loaded first.
func FindPivot(jobs []model.Job, w model.Window) int {
	best, bestP := -1, 0
	for i, j := range jobs {
		if j.Duration > w.Ceiling || j.Duration <= bestP {
			continue
		}
		if w.T1-j.Release < j.Duration && j.Deadline-w.T2 < j.Duration {
			best, bestP = i, j.Duration
		}
	}
	return best
}
