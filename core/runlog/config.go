package runlog

import (
	"context"
	"fmt"
)

// Config selects and configures the record store.
type Config struct {
	// Backend is one of "none", "jsonl", "sqlite" or "postgres".
	Backend string `json:"backend"`
	// Path is the file location for the jsonl and sqlite backends.
	Path string `json:"path"`
	// DSN is the connection string of the postgres backend.
	DSN string `json:"dsn"`
	// MaxSizeMB enables rotation of the jsonl file when positive.
	MaxSizeMB int `json:"max_size_mb"`
	// MaxBackups limits the number of rotated files to keep.
	MaxBackups int `json:"max_backups"`
	// MaxAgeDays removes rotated files older than this number of days.
	MaxAgeDays int `json:"max_age_days"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.Backend == "" {
		c.Backend = "jsonl"
	}
	if c.Path == "" {
		switch c.Backend {
		case "jsonl":
			c.Path = "runs.jsonl"
		case "sqlite":
			c.Path = "runs.db"
		}
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	switch c.Backend {
	case "none":
	case "jsonl", "sqlite":
		if c.Path == "" {
			return fmt.Errorf("runlog: path is required for %s", c.Backend)
		}
	case "postgres":
		if c.DSN == "" {
			return fmt.Errorf("runlog: dsn is required for postgres")
		}
	default:
		return fmt.Errorf("runlog: unknown backend %q", c.Backend)
	}
	if c.MaxSizeMB < 0 || c.MaxBackups < 0 || c.MaxAgeDays < 0 {
		return fmt.Errorf("runlog: rotation settings must be non-negative")
	}
	return nil
}

// Open returns the store described by c.
func Open(ctx context.Context, c Config) (Store, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	switch c.Backend {
	case "jsonl":
		if c.MaxSizeMB > 0 {
			return NewRotatingJSONLStore(c.Path, c.MaxSizeMB, c.MaxBackups, c.MaxAgeDays)
		}
		return NewJSONLStore(c.Path)
	case "sqlite":
		return NewSQLiteStore(c.Path)
	case "postgres":
		return NewPostgresStore(ctx, c.DSN)
	}
	return NopStore{}, nil
}
