// Package scheduler turns a job list into a complete busy-time schedule.
// It runs the solver over the whole time domain, repairs the jobs the
// solver never pivoted on with the gap-fit fallback and checks that every
// job ends up with a start time.
package scheduler
