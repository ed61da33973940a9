package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/busytime/config"
	"github.com/kilianp07/busytime/core/fallback"
	"github.com/kilianp07/busytime/core/logger"
	coremetrics "github.com/kilianp07/busytime/core/metrics"
	"github.com/kilianp07/busytime/core/model"
	coremon "github.com/kilianp07/busytime/core/monitoring"
	"github.com/kilianp07/busytime/core/runlog"
	"github.com/kilianp07/busytime/core/scheduler"
	"github.com/kilianp07/busytime/core/source"
	"github.com/kilianp07/busytime/internal/eventbus"
	"github.com/kilianp07/busytime/pkg/instance"
)

// ErrNoPlan is reported when a Planner returns neither a plan nor an error.
var ErrNoPlan = errors.New("planner returned no plan")

// Planner schedules the jobs of one instance.
type Planner interface {
	Plan(ctx context.Context, jobs []model.Job) (*scheduler.Plan, error)
}

// Batch processes a numbered range of instances from a Source. Failures are
// contained per instance; the batch only stops early when its context ends.
type Batch struct {
	Config  config.BatchConfig
	Source  source.Source
	Planner Planner

	// Optional collaborators. Nil values are replaced by no-ops.
	Store   runlog.Store
	Metrics coremetrics.MetricsSink
	Monitor coremon.Monitor
	Bus     *eventbus.TypedBus[InstanceEvent]
	Log     logger.Logger
}

func (b *Batch) defaults() {
	if b.Store == nil {
		b.Store = runlog.NopStore{}
	}
	if b.Metrics == nil {
		b.Metrics = coremetrics.NopSink{}
	}
	if b.Monitor == nil {
		b.Monitor = coremon.NopMonitor{}
	}
	b.Log = logger.OrNop(b.Log)
}

// Run processes every instance of the configured range under a fresh run
// id and returns the summary. The returned error is non-nil only when ctx
// ended before the range was exhausted.
func (b *Batch) Run(ctx context.Context) (Summary, error) {
	return b.RunWithID(ctx, uuid.NewString())
}

// RunWithID is Run with a caller supplied run id.
func (b *Batch) RunWithID(ctx context.Context, runID string) (Summary, error) {
	b.defaults()
	began := time.Now()
	b.Log.Infof("batch %s: instances %d..%d from %s", runID, b.Config.First, b.Config.First+b.Config.Count-1, b.Source.Location())

	var (
		events []InstanceEvent
		runErr error
	)
	for i := b.Config.First; i < b.Config.First+b.Config.Count; i++ {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}
		ev := b.process(ctx, runID, i)
		events = append(events, ev)
		b.record(ctx, ev)
	}

	sum := summarize(runID, events, time.Since(began))
	if rec, ok := b.Metrics.(coremetrics.BatchRecorder); ok {
		if err := rec.RecordBatch(sum.Event()); err != nil {
			b.Log.Warnf("record batch metrics: %v", err)
		}
	}
	b.Log.Infof("batch %s done: %d solved, %d failed, %d skipped in %s",
		runID, sum.Solved, sum.Failed, sum.Skipped, sum.Duration)
	return sum, runErr
}

// process loads, plans and writes instance number i.
func (b *Batch) process(ctx context.Context, runID string, i int) (ev InstanceEvent) {
	name, solution := b.Config.Names(i)
	ev = InstanceEvent{RunID: runID, Index: i, Instance: name, Solution: solution}
	began := time.Now()
	defer func() {
		if r := recover(); r != nil {
			ev.Err = fmt.Errorf("panic: %v", r)
		}
		ev.Duration = time.Since(began)
		ev.Time = time.Now()
		switch {
		case ev.Outcome == model.OutcomeSkipped:
		case ev.Err != nil:
			ev.Outcome = model.OutcomeFailed
		default:
			ev.Outcome = model.OutcomeSolved
		}
	}()

	jobs, err := b.load(ctx, name)
	if errors.Is(err, source.ErrNotFound) {
		b.Log.Infof("%s doesn't exist, skipping", name)
		ev.Outcome = model.OutcomeSkipped
		return ev
	}
	if err != nil {
		ev.Err = err
		return ev
	}

	b.Log.Infof("processing %s (%d jobs)", name, len(jobs))
	plan, err := b.Planner.Plan(ctx, jobs)
	ev.Plan = plan
	if err != nil {
		ev.Err = err
		return ev
	}
	if plan == nil {
		ev.Err = ErrNoPlan
		return ev
	}

	var buf bytes.Buffer
	if err := instance.Write(&buf, plan.Jobs, plan.Schedule); err != nil {
		ev.Err = err
		return ev
	}
	if err := b.Source.Write(ctx, solution, buf.Bytes()); err != nil {
		ev.Err = fmt.Errorf("write %s: %w", solution, err)
		return ev
	}
	b.Log.Infof("%s: busy time %d, solution written to %s", name, plan.Cost, solution)
	return ev
}

func (b *Batch) load(ctx context.Context, name string) ([]model.Job, error) {
	rc, err := b.Source.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()
	jobs, err := instance.Read(rc)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	return jobs, nil
}

// record fans the event out to the run log, metrics, monitor and bus.
// Errors from these sinks are logged and never fail the instance.
func (b *Batch) record(ctx context.Context, ev InstanceEvent) {
	rec := runlog.Record{
		Timestamp:  ev.Time,
		RunID:      ev.RunID,
		Instance:   ev.Instance,
		Outcome:    ev.Outcome,
		DurationMS: float64(ev.Duration) / float64(time.Millisecond),
	}
	sev := coremetrics.SolveEvent{
		RunID:    ev.RunID,
		Instance: ev.Instance,
		Outcome:  ev.Outcome,
		Duration: ev.Duration,
		Time:     ev.Time,
	}
	if p := ev.Plan; p != nil {
		rec.Jobs, rec.Cost = len(p.Jobs), p.Cost
		rec.Pivoted, rec.Fallback = len(p.Pivoted), len(p.Fallback)
		sev.Jobs, sev.Cost = rec.Jobs, rec.Cost
		sev.Pivoted, sev.Fallback = rec.Pivoted, rec.Fallback
		sev.Windows = p.Stats.Windows
		sev.MemoHits, sev.MemoMisses = p.Stats.Hits, p.Stats.Misses
	}
	if ev.Err != nil {
		rec.Error, sev.Error = ev.Err.Error(), ev.Err.Error()
		var ue *fallback.UnschedulableError
		if errors.As(ev.Err, &ue) {
			rec.Unschedulable = ue.Indices()
		}
		b.Log.Errorf("error processing %s: %v", ev.Instance, ev.Err)
		b.Monitor.CaptureException(ev.Err, map[string]string{
			"module":   "batch",
			"run_id":   ev.RunID,
			"instance": ev.Instance,
		})
	}

	if err := b.Store.Append(ctx, rec); err != nil {
		b.Log.Warnf("run log append: %v", err)
	}
	if err := b.Metrics.RecordSolve(sev); err != nil {
		b.Log.Warnf("record metrics: %v", err)
	}
	if b.Bus != nil {
		if err := b.Bus.PublishWait(ctx, ev); err != nil {
			b.Log.Warnf("publish %s event: %v", ev.Instance, err)
		}
	}
}
