package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/busytime/core/metrics"
	"github.com/kilianp07/busytime/core/model"
)

func TestInfluxSink_RecordSolve(t *testing.T) {
	var body string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		body = string(data)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	sink := NewInfluxSink(InfluxConfig{URL: srv.URL, Token: "token", Org: "org", Bucket: "bucket"})
	defer sink.Close()
	now := time.Now()
	ev := coremetrics.SolveEvent{
		RunID:    "run1",
		Instance: "instance00.txt",
		Outcome:  model.OutcomeSolved,
		Jobs:     3,
		Pivoted:  2,
		Fallback: 1,
		Cost:     7,
		Windows:  12,
		Duration: 1500 * time.Microsecond,
		Time:     now,
	}
	if err := sink.RecordSolve(ev); err != nil {
		t.Fatalf("record error: %v", err)
	}
	p := write.NewPointWithMeasurement("instance_solved").
		AddTag("run_id", "run1").
		AddTag("instance", "instance00.txt").
		AddTag("outcome", "solved").
		AddField("jobs", 3).
		AddField("pivoted", 2).
		AddField("fallback", 1).
		AddField("cost", 7).
		AddField("windows", 12).
		AddField("duration_ms", 1.5).
		SetTime(now)
	expected := strings.TrimSpace(write.PointToLineProtocol(p, time.Nanosecond))
	if strings.TrimSpace(body) != expected {
		t.Errorf("unexpected body: %s", body)
	}
}

func TestNewInfluxSinkWithFallback(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			called = true
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
	}))
	defer srv.Close()

	sink := NewInfluxSinkWithFallback(InfluxConfig{URL: srv.URL + "/api/v2/write", Token: "tok", Org: "org", Bucket: "bucket"})
	if _, ok := sink.(*InfluxSink); ok {
		t.Fatalf("expected NopSink on failing health check")
	}
	if !called {
		t.Fatalf("health endpoint not called")
	}
}
