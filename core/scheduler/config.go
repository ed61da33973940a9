package scheduler

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// SchedulerConfig defines solve parameters loaded from configuration.
type SchedulerConfig struct {
	// Parallelism bounds the goroutines evaluating root candidates. 0 or 1
	// keeps the solve sequential.
	Parallelism int `json:"parallelism" yaml:"parallelism"`
	// TimeoutSeconds aborts a solve that runs longer. 0 disables it.
	TimeoutSeconds int `json:"timeout_seconds" yaml:"timeout_seconds"`
}

// Timeout returns the configured solve timeout.
func (c SchedulerConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Validate rejects negative settings.
func (c SchedulerConfig) Validate() error {
	if c.Parallelism < 0 {
		return fmt.Errorf("parallelism must be non-negative")
	}
	if c.TimeoutSeconds < 0 {
		return fmt.Errorf("timeout_seconds must be non-negative")
	}
	return nil
}

// LoadConfig loads SchedulerConfig from a JSON or YAML file.
func LoadConfig(path string) (SchedulerConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return SchedulerConfig{}, err
	}
	ext := strings.ToLower(filepath.Ext(path))
	var cfg SchedulerConfig
	switch ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &cfg)
	case ".json":
		err = json.Unmarshal(b, &cfg)
	default:
		return SchedulerConfig{}, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// DecodeConfig reads from r to decode a SchedulerConfig.
func DecodeConfig(r io.Reader, format string) (SchedulerConfig, error) {
	var cfg SchedulerConfig
	switch strings.ToLower(format) {
	case "yaml", "yml":
		if err := yaml.NewDecoder(r).Decode(&cfg); err != nil {
			return cfg, err
		}
	case "json":
		if err := json.NewDecoder(r).Decode(&cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported format: %s", format)
	}
	return cfg, cfg.Validate()
}
