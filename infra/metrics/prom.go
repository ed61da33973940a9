package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/busytime/core/metrics"
	"github.com/kilianp07/busytime/core/model"
)

// PromSink records solve events in Prometheus metrics.
type PromSink struct {
	instances *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	cost      prometheus.Histogram
	placed    *prometheus.CounterVec
	memo      *prometheus.CounterVec
	batches   prometheus.Counter
	batchLast *prometheus.GaugeVec
}

// PromConfig holds the parameters of the prometheus sink.
type PromConfig struct {
	// Namespace prefixes every metric name. Defaults to "busytime".
	Namespace string `json:"namespace"`
	// DurationBuckets is the number of exponential solve duration buckets
	// starting at 1ms. Defaults to 10.
	DurationBuckets int `json:"duration_buckets"`
}

// SetDefaults fills unset fields.
func (c *PromConfig) SetDefaults() {
	if c.Namespace == "" {
		c.Namespace = "busytime"
	}
	if c.DurationBuckets <= 0 {
		c.DurationBuckets = 10
	}
}

// NewPromSink registers solve metrics on the default Prometheus registerer.
// The HTTP endpoint is started separately with StartPromServer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithConfig(prometheus.DefaultRegisterer, PromConfig{})
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	return NewPromSinkWithConfig(reg, PromConfig{})
}

// NewPromSinkWithConfig registers metrics named after cfg.Namespace on reg.
func NewPromSinkWithConfig(reg prometheus.Registerer, cfg PromConfig) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	cfg.SetDefaults()
	ns := cfg.Namespace
	s := &PromSink{}
	var err error
	if s.instances, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: ns,
		Name:      "instances_total",
		Help:      "Instances processed by outcome",
	}, []string{"outcome"})); err != nil {
		return nil, err
	}
	if s.duration, err = register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: ns,
		Name:      "solve_duration_seconds",
		Help:      "Time spent solving one instance",
		Buckets:   prometheus.ExponentialBuckets(0.001, 4, cfg.DurationBuckets),
	}, []string{"outcome"})); err != nil {
		return nil, err
	}
	if s.cost, err = register(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: ns,
		Name:      "instance_cost",
		Help:      "Busy time of solved instances",
		Buckets:   prometheus.ExponentialBuckets(1, 2, 16),
	})); err != nil {
		return nil, err
	}
	if s.placed, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: ns,
		Name:      "jobs_placed_total",
		Help:      "Jobs placed by the solver or by the gap-fit fallback",
	}, []string{"pass"})); err != nil {
		return nil, err
	}
	if s.memo, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: ns,
		Name:      "memo_lookups_total",
		Help:      "Window memo lookups by result",
	}, []string{"result"})); err != nil {
		return nil, err
	}
	if s.batches, err = register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: ns,
		Name:      "batches_total",
		Help:      "Completed batch runs",
	})); err != nil {
		return nil, err
	}
	if s.batchLast, err = register(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: ns,
		Name:      "last_batch_instances",
		Help:      "Instances of the last batch run by outcome",
	}, []string{"outcome"})); err != nil {
		return nil, err
	}
	return s, nil
}

// register adds c to reg, reusing the collector already registered under
// the same descriptor.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordSolve updates counters and histograms for one instance.
func (s *PromSink) RecordSolve(ev coremetrics.SolveEvent) error {
	outcome := string(ev.Outcome)
	s.instances.WithLabelValues(outcome).Inc()
	if ev.Duration > 0 {
		s.duration.WithLabelValues(outcome).Observe(ev.Duration.Seconds())
	}
	if ev.Outcome == model.OutcomeSolved {
		s.cost.Observe(float64(ev.Cost))
	}
	s.placed.WithLabelValues("solver").Add(float64(ev.Pivoted))
	s.placed.WithLabelValues("fallback").Add(float64(ev.Fallback))
	s.memo.WithLabelValues("hit").Add(float64(ev.MemoHits))
	s.memo.WithLabelValues("miss").Add(float64(ev.MemoMisses))
	return nil
}

// RecordBatch counts the run and exposes its per-outcome totals.
func (s *PromSink) RecordBatch(ev coremetrics.BatchEvent) error {
	s.batches.Inc()
	s.batchLast.WithLabelValues("solved").Set(float64(ev.Solved))
	s.batchLast.WithLabelValues("failed").Set(float64(ev.Failed))
	s.batchLast.WithLabelValues("skipped").Set(float64(ev.Skipped))
	return nil
}
