package solver

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/kilianp07/busytime/core/logger"
	"github.com/kilianp07/busytime/core/model"
)

// Stats describes the work done by one solve call.
type Stats struct {
	Windows  int           `json:"windows"` // distinct windows memoized
	Hits     int64         `json:"hits"`
	Misses   int64         `json:"misses"`
	Duration time.Duration `json:"duration"`
}

// Result is the outcome of solving a window.
type Result struct {
	// Cost is the minimal busy time of the window. It is meaningless when
	// Feasible is false.
	Cost int
	// Feasible is false when some forced pivot has no valid start time.
	Feasible bool
	// Schedule holds the start times of the pivots on the winning branch.
	Schedule model.Schedule
	Stats    Stats
}

// Solver computes minimal busy time for one job set. A Solver is cheap to
// build; every Solve call uses a fresh memo arena.
type Solver struct {
	jobs        []model.Job
	domain      model.TimeDomain
	hasDomain   bool
	parallelism int
	log         logger.Logger
}

// Option configures a Solver.
type Option func(*Solver)

// WithParallelism evaluates the candidate starts of the root window on up
// to n goroutines. Values below 2 keep the solve sequential.
func WithParallelism(n int) Option {
	return func(s *Solver) { s.parallelism = n }
}

// WithLogger sets the logger used for solve diagnostics.
func WithLogger(l logger.Logger) Option {
	return func(s *Solver) { s.log = logger.OrNop(l) }
}

// New returns a Solver for jobs. The slice is not copied and must not be
// modified while the solver is in use.
func New(jobs []model.Job, opts ...Option) *Solver {
	s := &Solver{jobs: jobs, log: logger.Nop{}}
	s.domain, s.hasDomain = model.NewTimeDomain(jobs)
	for _, o := range opts {
		o(s)
	}
	return s
}

// Domain returns the time domain of the job set.
func (s *Solver) Domain() model.TimeDomain { return s.domain }

// Solve solves the window spanning the whole time domain with the largest
// job duration as ceiling.
func (s *Solver) Solve(ctx context.Context) (Result, error) {
	if !s.hasDomain {
		return Result{Feasible: true, Schedule: model.Schedule{}}, nil
	}
	return s.SolveWindow(ctx, s.domain.Whole(model.MaxDuration(s.jobs)))
}

// SolveWindow solves an arbitrary window of the job set.
func (s *Solver) SolveWindow(ctx context.Context, w model.Window) (Result, error) {
	began := time.Now()
	r := &run{ctx: ctx, jobs: s.jobs, domain: s.domain}

	var (
		root entry
		err  error
	)
	if s.parallelism > 1 {
		r.memo = newSyncMemo()
		root, err = r.solveParallel(w, s.parallelism)
	} else {
		r.memo = make(mapMemo)
		root, err = r.solve(w)
	}
	if err != nil {
		return Result{}, err
	}

	res := Result{
		Cost:     root.cost,
		Feasible: root.feasible,
		Schedule: model.Schedule{},
		Stats: Stats{
			Windows:  r.memo.size(),
			Hits:     r.hits.Load(),
			Misses:   r.misses.Load(),
			Duration: time.Since(began),
		},
	}
	if root.feasible {
		r.rebuild(w, res.Schedule)
	}
	s.log.Debugw("window solved", map[string]any{
		"t1":       w.T1,
		"t2":       w.T2,
		"ceiling":  w.Ceiling,
		"cost":     res.Cost,
		"feasible": res.Feasible,
		"pivots":   len(res.Schedule),
		"windows":  res.Stats.Windows,
		"hits":     res.Stats.Hits,
	})
	return res, nil
}

// run is the memo arena of a single solve call.
type run struct {
	ctx    context.Context
	jobs   []model.Job
	domain model.TimeDomain
	memo   memo
	hits   atomic.Int64
	misses atomic.Int64
}

func (r *run) solve(w model.Window) (entry, error) {
	if w.Empty() {
		return emptyEntry, nil
	}
	if e, ok := r.memo.get(w); ok {
		r.hits.Add(1)
		return e, nil
	}
	r.misses.Add(1)
	if err := r.ctx.Err(); err != nil {
		return entry{}, err
	}

	pos := FindPivot(r.jobs, w)
	if pos < 0 {
		r.memo.put(w, emptyEntry)
		return emptyEntry, nil
	}

	best := entry{pivot: pos}
	lo, hi := r.domain.StartRange(r.jobs[pos])
	for s := lo; s <= hi; s++ {
		c, err := r.candidate(w, pos, s)
		if err != nil {
			return entry{}, err
		}
		best = pick(best, c)
	}
	r.memo.put(w, best)
	return best, nil
}

// candidate evaluates the pivot at position pos starting at s.
func (r *run) candidate(w model.Window, pos, s int) (entry, error) {
	p := r.jobs[pos].Duration
	left, err := r.solve(model.Window{T1: w.T1, T2: s, Ceiling: p})
	if err != nil {
		return entry{}, err
	}
	right, err := r.solve(model.Window{T1: s + p, T2: w.T2, Ceiling: p})
	if err != nil {
		return entry{}, err
	}
	if !left.feasible || !right.feasible {
		return entry{pivot: pos, start: s}, nil
	}
	return entry{
		cost:     contribution(w, s, p) + left.cost + right.cost,
		feasible: true,
		pivot:    pos,
		start:    s,
	}, nil
}

// pick keeps the cheaper of two candidates. On equal cost the later
// candidate wins.
func pick(best, c entry) entry {
	if !c.feasible {
		return best
	}
	if !best.feasible || c.cost <= best.cost {
		return c
	}
	return best
}

// contribution is the part of [s, s+p) inside [t1, t2), bounded on every
// side.
func contribution(w model.Window, s, p int) int {
	return min(p, w.T2-w.T1, w.T2-s, s+p-w.T1)
}

// rebuild walks the winning branches from w and records each pivot's
// start. A job already present keeps its first recorded start.
func (r *run) rebuild(w model.Window, into model.Schedule) {
	if w.Empty() {
		return
	}
	e, ok := r.memo.get(w)
	if !ok || !e.feasible || e.pivot < 0 {
		return
	}
	job := r.jobs[e.pivot]
	if _, dup := into[job.Index]; !dup {
		into[job.Index] = e.start
	}
	r.rebuild(model.Window{T1: w.T1, T2: e.start, Ceiling: job.Duration}, into)
	r.rebuild(model.Window{T1: e.start + job.Duration, T2: w.T2, Ceiling: job.Duration}, into)
}
