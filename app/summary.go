package app

import (
	"time"

	"gonum.org/v1/gonum/stat"

	coremetrics "github.com/kilianp07/busytime/core/metrics"
	"github.com/kilianp07/busytime/core/model"
)

// Summary aggregates the outcome of a batch run.
type Summary struct {
	RunID     string        `json:"run_id"`
	Processed int           `json:"processed"`
	Solved    int           `json:"solved"`
	Failed    int           `json:"failed"`
	Skipped   int           `json:"skipped"`
	MeanCost  float64       `json:"mean_cost"`
	StdCost   float64       `json:"std_cost"`
	MeanSolve time.Duration `json:"mean_solve"`
	StdSolve  time.Duration `json:"std_solve"`
	Duration  time.Duration `json:"duration"`
	// Failures maps instance names to their error.
	Failures map[string]string `json:"failures,omitempty"`
}

// summarize computes totals over the events of one run. Cost and solve
// time statistics only cover solved instances.
func summarize(runID string, events []InstanceEvent, elapsed time.Duration) Summary {
	s := Summary{RunID: runID, Duration: elapsed}
	var costs, solveMS []float64
	for _, ev := range events {
		switch ev.Outcome {
		case model.OutcomeSolved:
			s.Solved++
			s.Processed++
			if ev.Plan != nil {
				costs = append(costs, float64(ev.Plan.Cost))
			}
			solveMS = append(solveMS, float64(ev.Duration)/float64(time.Millisecond))
		case model.OutcomeFailed:
			s.Failed++
			s.Processed++
			if s.Failures == nil {
				s.Failures = make(map[string]string)
			}
			msg := "unknown error"
			if ev.Err != nil {
				msg = ev.Err.Error()
			}
			s.Failures[ev.Instance] = msg
		case model.OutcomeSkipped:
			s.Skipped++
		}
	}
	s.MeanCost, s.StdCost = meanStd(costs)
	meanMS, stdMS := meanStd(solveMS)
	s.MeanSolve = time.Duration(meanMS * float64(time.Millisecond))
	s.StdSolve = time.Duration(stdMS * float64(time.Millisecond))
	return s
}

func meanStd(x []float64) (float64, float64) {
	switch len(x) {
	case 0:
		return 0, 0
	case 1:
		return x[0], 0
	}
	return stat.MeanStdDev(x, nil)
}

// Event converts the summary into a metrics batch event.
func (s Summary) Event() coremetrics.BatchEvent {
	return coremetrics.BatchEvent{
		RunID:     s.RunID,
		Processed: s.Processed,
		Solved:    s.Solved,
		Failed:    s.Failed,
		Skipped:   s.Skipped,
		MeanCost:  s.MeanCost,
		StdCost:   s.StdCost,
		Duration:  s.Duration,
		Time:      time.Now(),
	}
}
