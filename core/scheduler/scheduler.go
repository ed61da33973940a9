package scheduler

import (
	"context"
	"fmt"

	"github.com/kilianp07/busytime/core/fallback"
	"github.com/kilianp07/busytime/core/logger"
	"github.com/kilianp07/busytime/core/model"
	"github.com/kilianp07/busytime/core/solver"
)

// Plan is the outcome of scheduling one instance.
type Plan struct {
	Jobs []model.Job `json:"jobs"`
	// Cost is the busy time found by the solver.
	Cost     int            `json:"cost"`
	Feasible bool           `json:"feasible"`
	Schedule model.Schedule `json:"schedule"`
	// Pivoted lists the jobs placed by the solver, Fallback those placed
	// by the gap fit. Both are sorted by job index.
	Pivoted   []int            `json:"pivoted"`
	Fallback  []int            `json:"fallback"`
	Intervals []model.Interval `json:"intervals"`
	Stats     solver.Stats     `json:"stats"`
}

// Complete reports whether every job has a start time.
func (p *Plan) Complete() bool { return p.Schedule.Covers(p.Jobs) }

// Scheduler runs the solver and the fallback for one instance at a time.
type Scheduler struct {
	Config SchedulerConfig
	log    logger.Logger
}

// New returns a Scheduler. A nil logger discards output.
func New(cfg SchedulerConfig, log logger.Logger) *Scheduler {
	return &Scheduler{Config: cfg, log: logger.OrNop(log)}
}

// Plan computes the schedule of jobs. When some job cannot be placed the
// partial plan is returned together with an error wrapping
// *fallback.UnschedulableError.
func (s *Scheduler) Plan(ctx context.Context, jobs []model.Job) (*Plan, error) {
	if t := s.Config.Timeout(); t > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t)
		defer cancel()
	}
	for _, j := range jobs {
		if !j.Feasible() {
			s.log.Warnf("%s has no start time inside its window", j)
		}
	}

	sv := solver.New(jobs, solver.WithParallelism(s.Config.Parallelism), solver.WithLogger(s.log))
	res, err := sv.Solve(ctx)
	if err != nil {
		return nil, fmt.Errorf("solve: %w", err)
	}
	plan := &Plan{
		Jobs:     jobs,
		Cost:     res.Cost,
		Feasible: res.Feasible,
		Schedule: res.Schedule.Clone(),
		Pivoted:  res.Schedule.Indices(),
		Stats:    res.Stats,
	}
	plan.Intervals = fallback.BusyIntervals(jobs, res.Schedule)
	placed, ferr := fallback.GapFit(res.Schedule.Missing(jobs), plan.Intervals)
	plan.Schedule.Merge(placed)
	plan.Fallback = placed.Indices()

	s.log.Debugw("instance planned", map[string]any{
		"jobs":     len(jobs),
		"cost":     plan.Cost,
		"pivoted":  len(plan.Pivoted),
		"fallback": len(plan.Fallback),
		"windows":  plan.Stats.Windows,
		"elapsed":  plan.Stats.Duration.String(),
	})
	if ferr != nil {
		return plan, fmt.Errorf("gap fit: %w", ferr)
	}
	return plan, nil
}
