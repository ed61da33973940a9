package fallback

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kilianp07/busytime/core/model"
)

// ErrUnschedulable indicates that some job fits in no busy interval.
var ErrUnschedulable = errors.New("unschedulable job")

// UnschedulableError lists the jobs the gap fit could not place.
type UnschedulableError struct {
	Jobs []model.Job
}

func (e *UnschedulableError) Error() string {
	ids := make([]string, len(e.Jobs))
	for i, j := range e.Jobs {
		ids[i] = j.String()
	}
	return fmt.Sprintf("%v: %s", ErrUnschedulable, strings.Join(ids, ", "))
}

func (e *UnschedulableError) Unwrap() error { return ErrUnschedulable }

// Indices returns the indices of the unplaced jobs.
func (e *UnschedulableError) Indices() []int {
	out := make([]int, len(e.Jobs))
	for i, j := range e.Jobs {
		out[i] = j.Index
	}
	return out
}
