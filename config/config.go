package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/busytime/core/metrics"
	"github.com/kilianp07/busytime/core/runlog"
	"github.com/kilianp07/busytime/core/scheduler"
	"github.com/kilianp07/busytime/core/source"
	"github.com/kilianp07/busytime/infra/mqtt"
)

type Config struct {
	Solver  scheduler.SchedulerConfig `json:"solver"`
	Batch   BatchConfig               `json:"batch"`
	Source  source.Config             `json:"source"`
	RunLog  runlog.Config             `json:"runlog"`
	Logging LoggingConfig             `json:"logging"`
	Metrics metrics.Config            `json:"metrics"`
	MQTT    mqtt.Config               `json:"mqtt"`
	Sentry  SentryConfig              `json:"sentry"`
}

// Load reads the configuration file at path and applies K_ prefixed
// environment overrides. An empty path loads defaults and the environment
// only.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if path != "" {
		ext := strings.ToLower(filepath.Ext(path))
		var parser koanf.Parser
		switch ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return nil, fmt.Errorf("unsupported config format: %s", ext)
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, err
		}
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("K_", ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "k_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SetDefaults fills unset fields of every section.
func (c *Config) SetDefaults() {
	c.Batch.SetDefaults()
	c.Source.SetDefaults()
	c.RunLog.SetDefaults()
	c.Logging.SetDefaults()
	if c.MQTT.Enabled() {
		c.MQTT.SetDefaults()
	}
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.Solver.Validate(); err != nil {
		return fmt.Errorf("solver: %w", err)
	}
	for _, v := range []interface{ Validate() error }{c.Batch, c.Source, c.RunLog, c.Logging, c.MQTT} {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	if c.Metrics.ListenAddr != "" && !c.Metrics.HasSink("prometheus") {
		return fmt.Errorf("metrics: listen_addr requires a prometheus sink")
	}
	return nil
}
