package config

import (
	"os"
	"path/filepath"
	"testing"
)

//nolint:gocyclo
func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := `solver:
  parallelism: 4
  timeout_seconds: 30
batch:
  first: 5
  count: 10
source:
  kind: "dir"
  dir: "instances"
runlog:
  backend: "sqlite"
logging:
  level: "debug"
metrics:
  listen_addr: ":9100"
  sinks:
    - type: "prometheus"
    - type: "influx"
      conf:
        url: "http://localhost:8086"
        bucket: "busytime"
mqtt:
  broker: "tcp://localhost:1883"
  client_id: "cli"
  qos: 1
sentry:
  dsn: ""
  environment: "test"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	checks := []struct {
		name string
		got  any
		want any
	}{
		{"solver.parallelism", cfg.Solver.Parallelism, 4},
		{"solver.timeout_seconds", cfg.Solver.TimeoutSeconds, 30},
		{"batch.first", cfg.Batch.First, 5},
		{"batch.count", cfg.Batch.Count, 10},
		{"batch.instance_pattern", cfg.Batch.InstancePattern, "instance%02d.txt"},
		{"source.dir", cfg.Source.Dir, "instances"},
		{"runlog.backend", cfg.RunLog.Backend, "sqlite"},
		{"runlog.path", cfg.RunLog.Path, "runs.db"},
		{"logging.level", cfg.Logging.Level, "debug"},
		{"metrics.listen_addr", cfg.Metrics.ListenAddr, ":9100"},
		{"metrics.sinks", len(cfg.Metrics.Sinks), 2},
		{"metrics.influx.bucket", cfg.Metrics.Sinks[1].Conf["bucket"], "busytime"},
		{"mqtt.broker", cfg.MQTT.Broker, "tcp://localhost:1883"},
		{"mqtt.client_id", cfg.MQTT.ClientID, "cli"},
		{"mqtt.qos", cfg.MQTT.QoS, byte(1)},
		{"mqtt.topic_prefix", cfg.MQTT.TopicPrefix, "busytime/instances"},
		{"sentry.environment", cfg.Sentry.Environment, "test"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s mismatch: %v", c.name, c.got)
		}
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.Batch.Count != 100 || cfg.Batch.First != 0 {
		t.Fatalf("unexpected batch range %d+%d", cfg.Batch.First, cfg.Batch.Count)
	}
	if cfg.Source.Kind != "dir" || cfg.RunLog.Backend != "jsonl" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.MQTT.Enabled() {
		t.Fatalf("mqtt must be disabled without a broker")
	}
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	if err := os.WriteFile(path, []byte(`{"solver":{"parallelism":1}}`), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("K_SOLVER__PARALLELISM", "8")
	t.Setenv("K_BATCH__COUNT", "3")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.Solver.Parallelism != 8 {
		t.Fatalf("env override not applied: %d", cfg.Solver.Parallelism)
	}
	if cfg.Batch.Count != 3 {
		t.Fatalf("env override not applied: %d", cfg.Batch.Count)
	}
}

func TestLoadRejects(t *testing.T) {
	cases := map[string]string{
		"format":      "",
		"parallelism": "solver:\n  parallelism: -1\n",
		"pattern":     "batch:\n  instance_pattern: \"instance.txt\"\n",
		"runlog":      "runlog:\n  backend: \"redis\"\n",
		"level":       "logging:\n  level: \"loud\"\n",
		"listen_addr": "metrics:\n  listen_addr: \":9100\"\n",
		"source":      "source:\n  kind: \"s3\"\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			file := "config.yaml"
			if name == "format" {
				file = "config.toml"
			}
			path := filepath.Join(dir, file)
			if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			if _, err := Load(path); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestBatchNames(t *testing.T) {
	b := BatchConfig{}
	b.SetDefaults()
	in, out := b.Names(7)
	if in != "instance07.txt" || out != "solution07.txt" {
		t.Fatalf("unexpected names %s %s", in, out)
	}
	if err := (BatchConfig{InstancePattern: "a%d", SolutionPattern: "a%d"}).Validate(); err == nil {
		t.Fatalf("expected error for identical patterns")
	}
}
