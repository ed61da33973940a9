package model

import "sort"

// Schedule maps a job index to its assigned start time.
type Schedule map[int]int

// Clone returns a shallow copy of s.
func (s Schedule) Clone() Schedule {
	cp := make(Schedule, len(s))
	for k, v := range s {
		cp[k] = v
	}
	return cp
}

// Merge copies entries of other that are not yet present in s. Existing
// entries always win.
func (s Schedule) Merge(other Schedule) {
	for k, v := range other {
		if _, ok := s[k]; !ok {
			s[k] = v
		}
	}
}

// Missing returns the jobs of the list without a start time, preserving
// their order.
func (s Schedule) Missing(jobs []Job) []Job {
	var out []Job
	for _, j := range jobs {
		if _, ok := s[j.Index]; !ok {
			out = append(out, j)
		}
	}
	return out
}

// Covers reports whether every job has an assigned start time.
func (s Schedule) Covers(jobs []Job) bool {
	return len(s.Missing(jobs)) == 0
}

// Indices returns the scheduled job indices in ascending order.
func (s Schedule) Indices() []int {
	idx := make([]int, 0, len(s))
	for k := range s {
		idx = append(idx, k)
	}
	sort.Ints(idx)
	return idx
}

// Interval is a half-open busy range [Start, End) occupied by one job.
type Interval struct {
	JobIndex int `json:"job"`
	Start    int `json:"start"`
	End      int `json:"end"`
}

// Length returns End-Start.
func (iv Interval) Length() int { return iv.End - iv.Start }
