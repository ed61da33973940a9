package metrics

import (
	"time"

	"github.com/kilianp07/busytime/core/model"
)

// SolveEvent describes one processed instance.
type SolveEvent struct {
	RunID      string
	Instance   string
	Outcome    model.Outcome
	Jobs       int
	Pivoted    int
	Fallback   int
	Cost       int
	Windows    int
	MemoHits   int64
	MemoMisses int64
	Duration   time.Duration
	Error      string
	Time       time.Time
}

// MetricsSink records solve events for observability purposes.
type MetricsSink interface {
	RecordSolve(ev SolveEvent) error
}

// BatchEvent summarises a finished batch run.
type BatchEvent struct {
	RunID     string
	Processed int
	Solved    int
	Failed    int
	Skipped   int
	MeanCost  float64
	StdCost   float64
	Duration  time.Duration
	Time      time.Time
}

// BatchRecorder is implemented by sinks able to record batch summaries.
type BatchRecorder interface {
	RecordBatch(ev BatchEvent) error
}

// NopSink implements every recorder with no-op methods.
type NopSink struct{}

func (NopSink) RecordSolve(SolveEvent) error { return nil }
func (NopSink) RecordBatch(BatchEvent) error { return nil }

// MultiSink fans events out to multiple sinks.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordSolve forwards the event to all sinks, returning the first error encountered.
func (m *MultiSink) RecordSolve(ev SolveEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordSolve(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordBatch forwards batch summaries to the sinks that support them.
func (m *MultiSink) RecordBatch(ev BatchEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(BatchRecorder); ok {
			if err := rec.RecordBatch(ev); err != nil {
				return err
			}
		}
	}
	return nil
}
