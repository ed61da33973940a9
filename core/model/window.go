package model

// TimeDomain is the inclusive range of integer time points spanned by an
// instance, from the smallest release time to the largest deadline.
type TimeDomain struct {
	Min int
	Max int
}

// NewTimeDomain derives the time domain of jobs. The second return value is
// false for an empty job set.
func NewTimeDomain(jobs []Job) (TimeDomain, bool) {
	if len(jobs) == 0 {
		return TimeDomain{}, false
	}
	d := TimeDomain{Min: jobs[0].Release, Max: jobs[0].Deadline}
	for _, j := range jobs[1:] {
		if j.Release < d.Min {
			d.Min = j.Release
		}
		if j.Deadline > d.Max {
			d.Max = j.Deadline
		}
	}
	return d, true
}

// Len returns the number of time points in the domain.
func (d TimeDomain) Len() int { return d.Max - d.Min + 1 }

// Contains reports whether t lies inside the domain.
func (d TimeDomain) Contains(t int) bool { return t >= d.Min && t <= d.Max }

// StartRange returns the inclusive range of candidate start times for j
// clipped to the domain. lo > hi when the job has no feasible start.
func (d TimeDomain) StartRange(j Job) (lo, hi int) {
	lo, hi = j.Release, j.LatestStart()
	if lo < d.Min {
		lo = d.Min
	}
	if hi > d.Max {
		hi = d.Max
	}
	return lo, hi
}

// Window is the unit of recursion of the solver: the time range [T1, T2)
// still to be explained plus the ceiling on the duration of any pivot
// selected inside it.
type Window struct {
	T1      int
	T2      int
	Ceiling int
}

// Empty reports whether the window spans no time.
func (w Window) Empty() bool { return w.T1 >= w.T2 }

// Length returns T2-T1.
func (w Window) Length() int { return w.T2 - w.T1 }

// Whole returns the window spanning the full domain with the given ceiling.
func (d TimeDomain) Whole(ceiling int) Window {
	return Window{T1: d.Min, T2: d.Max, Ceiling: ceiling}
}
