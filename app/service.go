package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kilianp07/busytime/config"
	coremetrics "github.com/kilianp07/busytime/core/metrics"
	coremon "github.com/kilianp07/busytime/core/monitoring"
	"github.com/kilianp07/busytime/core/runlog"
	"github.com/kilianp07/busytime/core/scheduler"
	"github.com/kilianp07/busytime/core/source"
	"github.com/kilianp07/busytime/infra/logger"
	"github.com/kilianp07/busytime/infra/metrics"
	"github.com/kilianp07/busytime/infra/monitoring"
	"github.com/kilianp07/busytime/infra/mqtt"
	"github.com/kilianp07/busytime/infra/objectstore"
	"github.com/kilianp07/busytime/internal/eventbus"
)

// Service wires the scheduler to the configured source, run log, metrics,
// error monitor and MQTT publisher.
type Service struct {
	cfg       *config.Config
	Scheduler *scheduler.Scheduler
	Source    source.Source
	Store     runlog.Store
	Metrics   coremetrics.MetricsSink
	Monitor   coremon.Monitor
	publisher mqtt.Publisher
	mqttCli   *mqtt.PahoClient
	log       logger.Logger
}

// New creates a Service from the configuration.
func New(ctx context.Context, cfg *config.Config) (*Service, error) {
	logg := logger.New("service")
	svc := &Service{
		cfg:       cfg,
		Scheduler: scheduler.New(cfg.Solver, logger.New("scheduler")),
		log:       logg,
	}

	src, err := OpenSource(ctx, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("source: %w", err)
	}
	svc.Source = src

	store, err := runlog.Open(ctx, cfg.RunLog)
	if err != nil {
		return nil, fmt.Errorf("run log: %w", err)
	}
	svc.Store = store

	sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("metrics sink: %w", err)
	}
	svc.Metrics = sink

	mon, err := monitoring.NewSentryMonitor(cfg.Sentry)
	if err != nil {
		logg.Warnf("sentry disabled: %v", err)
		mon = coremon.NopMonitor{}
	}
	svc.Monitor = mon

	if cfg.MQTT.Enabled() {
		cli, err := mqtt.NewPahoClient(cfg.MQTT)
		if err != nil {
			_ = svc.Close()
			return nil, fmt.Errorf("mqtt client: %w", err)
		}
		svc.mqttCli = cli
		svc.publisher = cli
	}
	return svc, nil
}

// OpenSource returns the instance source described by cfg.
func OpenSource(ctx context.Context, cfg source.Config) (source.Source, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Kind {
	case source.KindS3:
		return objectstore.NewMinioSource(ctx, cfg)
	default:
		return source.NewDir(cfg.Dir), nil
	}
}

// RunBatch processes the configured instance range. While it runs the
// Prometheus endpoint is served when metrics.listen_addr is set.
func (s *Service) RunBatch(ctx context.Context, bc config.BatchConfig) (Summary, error) {
	if err := bc.Validate(); err != nil {
		return Summary{}, err
	}
	if addr := s.cfg.Metrics.ListenAddr; addr != "" {
		srvCtx, stop := context.WithCancel(ctx)
		defer stop()
		go func() {
			if err := metrics.StartPromServer(srvCtx, addr); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	b := &Batch{
		Config:  bc,
		Source:  s.Source,
		Planner: s.Scheduler,
		Store:   s.Store,
		Metrics: s.Metrics,
		Monitor: s.Monitor,
		Log:     logger.New("batch"),
	}
	var notifier *Notifier
	if s.publisher != nil {
		b.Bus = eventbus.NewTyped[InstanceEvent]()
		notifier = StartNotifier(ctx, b.Bus, s.publisher, logger.New("notifier"))
	}
	sum, err := b.Run(ctx)
	if notifier != nil {
		b.Bus.Close()
		notifier.Wait()
	}
	return sum, err
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	var errs []error
	if s.Store != nil {
		if err := s.Store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("run log: %w", err))
		}
	}
	closeSink(s.Metrics)
	if s.mqttCli != nil {
		s.mqttCli.Disconnect()
	}
	if s.Monitor != nil {
		s.Monitor.Flush(2 * time.Second)
	}
	return errors.Join(errs...)
}

func closeSink(sink coremetrics.MetricsSink) {
	switch v := sink.(type) {
	case *coremetrics.MultiSink:
		for _, s := range v.Sinks {
			closeSink(s)
		}
	case interface{ Close() }:
		v.Close()
	}
}
