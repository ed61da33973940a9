package scenarios

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/kilianp07/busytime/core/fallback"
	coremetrics "github.com/kilianp07/busytime/core/metrics"
	"github.com/kilianp07/busytime/core/model"
	"github.com/kilianp07/busytime/core/scheduler"
	"github.com/kilianp07/busytime/infra/logger"
	"github.com/kilianp07/busytime/infra/metrics"
)

//nolint:gocyclo
func RunScenario(t *testing.T, sc *Scenario) {
	reg := prometheus.NewRegistry()
	sink, err := metrics.NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("prom sink: %v", err)
	}

	jobs := sc.Model()
	sched := scheduler.New(scheduler.SchedulerConfig{Parallelism: sc.Parallelism}, logger.NopLogger{})
	plan, err := sched.Plan(context.Background(), jobs)

	outcome := model.OutcomeSolved
	if err != nil {
		outcome = model.OutcomeFailed
	}
	ev := coremetrics.SolveEvent{Instance: sc.Name, Outcome: outcome, Jobs: len(jobs)}
	if plan != nil {
		ev.Cost = plan.Cost
		ev.Pivoted, ev.Fallback = len(plan.Pivoted), len(plan.Fallback)
	}
	if err := sink.RecordSolve(ev); err != nil {
		t.Fatalf("record: %v", err)
	}
	if n, err := testutil.GatherAndCount(reg, "busytime_instances_total"); err != nil || n != 1 {
		t.Errorf("expected one instances series, got %d (%v)", n, err)
	}

	exp := sc.Expected
	if len(exp.Unschedulable) > 0 {
		var uerr *fallback.UnschedulableError
		if !errors.As(err, &uerr) {
			t.Fatalf("expected unschedulable error, got %v", err)
		}
		if !equalInts(uerr.Indices(), exp.Unschedulable) {
			t.Errorf("unschedulable = %v, want %v", uerr.Indices(), exp.Unschedulable)
		}
		return
	}
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if exp.Cost != nil && plan.Cost != *exp.Cost {
		t.Errorf("cost = %d, want %d", plan.Cost, *exp.Cost)
	}
	for idx, start := range exp.Starts {
		if got, ok := plan.Schedule[idx]; !ok || got != start {
			t.Errorf("job %d start = %d (set %v), want %d", idx, got, ok, start)
		}
	}
	if exp.Fallback != nil && !equalInts(plan.Fallback, exp.Fallback) {
		t.Errorf("fallback = %v, want %v", plan.Fallback, exp.Fallback)
	}
	for _, j := range jobs {
		if s := plan.Schedule[j.Index]; !j.Fits(s) {
			t.Errorf("%s placed at %d outside its window", j, s)
		}
	}
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
