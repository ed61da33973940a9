package model

import "fmt"

// Job is a unit of work with a release time, a deadline and a fixed
// processing duration. Jobs are immutable once loaded.
type Job struct {
	Index    int `json:"index"`    // 0-based position in the instance
	Release  int `json:"release"`  // earliest start
	Deadline int `json:"deadline"` // latest completion
	Duration int `json:"duration"` // processing time, strictly positive
}

// Validate checks the data model constraints. Feasibility of the
// release/deadline window is deliberately not checked here.
func (j Job) Validate() error {
	if j.Release < 0 {
		return fmt.Errorf("job %d: release must be non-negative", j.Index)
	}
	if j.Deadline < j.Release {
		return fmt.Errorf("job %d: deadline %d before release %d", j.Index, j.Deadline, j.Release)
	}
	if j.Duration <= 0 {
		return fmt.Errorf("job %d: duration must be positive", j.Index)
	}
	return nil
}

// Feasible reports whether at least one start time satisfies both the
// release time and the deadline.
func (j Job) Feasible() bool {
	return j.Release+j.Duration <= j.Deadline
}

// LatestStart is the last start time that still meets the deadline.
func (j Job) LatestStart() int { return j.Deadline - j.Duration }

// Fits reports whether starting at s respects the job's time window.
func (j Job) Fits(s int) bool {
	return j.Release <= s && s+j.Duration <= j.Deadline
}

func (j Job) String() string {
	return fmt.Sprintf("job %d (r=%d d=%d p=%d)", j.Index, j.Release, j.Deadline, j.Duration)
}

// MaxDuration returns the largest processing time in jobs, or 0.
func MaxDuration(jobs []Job) int {
	maxP := 0
	for _, j := range jobs {
		if j.Duration > maxP {
			maxP = j.Duration
		}
	}
	return maxP
}
