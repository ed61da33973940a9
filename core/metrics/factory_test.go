package metrics_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/kilianp07/busytime/core/factory"
	metrics "github.com/kilianp07/busytime/core/metrics"
	"github.com/kilianp07/busytime/core/model"
	_ "github.com/kilianp07/busytime/infra/metrics"
)

type influxWrite struct {
	org, bucket, auth string
}

// fakeInflux answers the health check and records write requests.
func fakeInflux(t *testing.T) (*httptest.Server, func() []influxWrite) {
	t.Helper()
	var (
		mu     sync.Mutex
		writes []influxWrite
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/health":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"name":"influxdb","message":"ready","status":"pass","checks":[],"version":"v2.7.1","commit":"test"}`))
		case "/api/v2/write":
			mu.Lock()
			writes = append(writes, influxWrite{
				org:    r.URL.Query().Get("org"),
				bucket: r.URL.Query().Get("bucket"),
				auth:   r.Header.Get("Authorization"),
			})
			mu.Unlock()
			w.WriteHeader(http.StatusNoContent)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv, func() []influxWrite {
		mu.Lock()
		defer mu.Unlock()
		return append([]influxWrite(nil), writes...)
	}
}

func TestNewMetricsSinkFromYAML(t *testing.T) {
	srv, writes := fakeInflux(t)
	data := `sinks:
  - type: prometheus
    conf:
      namespace: factoryyaml
      duration_buckets: "6"
  - type: influx
    conf:
      url: ` + srv.URL + `/api/v2/write
      token: secret
      org: busytime
      bucket: runs
`
	var cfg metrics.Config
	require.NoError(t, yaml.Unmarshal([]byte(data), &cfg))
	require.Len(t, cfg.Sinks, 2)
	assert.True(t, cfg.HasSink("influx"))

	s, err := metrics.NewMetricsSink(cfg.Sinks)
	require.NoError(t, err)
	multi, ok := s.(*metrics.MultiSink)
	require.True(t, ok, "expected MultiSink, got %T", s)
	require.Len(t, multi.Sinks, 2)

	require.NoError(t, s.RecordSolve(metrics.SolveEvent{
		RunID:    "run-1",
		Instance: "instance00.txt",
		Outcome:  model.OutcomeSolved,
		Jobs:     2,
		Cost:     6,
	}))

	n, err := testutil.GatherAndCount(prometheus.DefaultGatherer, "factoryyaml_instances_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got := writes()
	require.Len(t, got, 1)
	assert.Equal(t, influxWrite{org: "busytime", bucket: "runs", auth: "Token secret"}, got[0])
}

func TestNewMetricsSinkFromJSON(t *testing.T) {
	data := `{"sinks":[{"type":"prometheus","conf":{"namespace":"factoryjson"}}]}`
	var cfg metrics.Config
	require.NoError(t, json.Unmarshal([]byte(data), &cfg))

	s, err := metrics.NewMetricsSink(cfg.Sinks)
	require.NoError(t, err)
	_, multi := s.(*metrics.MultiSink)
	assert.False(t, multi, "single sink should not be wrapped")

	require.NoError(t, s.RecordSolve(metrics.SolveEvent{Outcome: model.OutcomeFailed}))
	n, err := testutil.GatherAndCount(prometheus.DefaultGatherer, "factoryjson_instances_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestNewMetricsSinkInfluxUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	s, err := metrics.NewMetricsSink([]factory.ModuleConfig{{
		Type: "influx",
		Conf: map[string]any{"url": srv.URL, "org": "o", "bucket": "b"},
	}})
	require.NoError(t, err)
	assert.IsType(t, metrics.NopSink{}, s)
}

func TestNewMetricsSinkErrors(t *testing.T) {
	s, err := metrics.NewMetricsSink(nil)
	require.NoError(t, err)
	assert.IsType(t, metrics.NopSink{}, s)

	_, err = metrics.NewMetricsSink([]factory.ModuleConfig{{Type: "nop"}, {Type: "missing"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "metrics sink 1 (missing)")

	_, err = metrics.NewMetricsSink([]factory.ModuleConfig{{
		Type: "prometheus",
		Conf: map[string]any{"duration_buckets": "many"},
	}})
	require.Error(t, err)

	assert.Subset(t, metrics.SinkTypes(), []string{"influx", "nop", "prometheus"})
}
