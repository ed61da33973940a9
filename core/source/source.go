// Package source abstracts where batch instances are read from and where
// their solutions are written to.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// ErrNotFound is returned by Open when the named instance does not exist.
var ErrNotFound = errors.New("instance not found")

// Source reads instances and stores solutions by name.
type Source interface {
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	Write(ctx context.Context, name string, data []byte) error
	// Location describes the source for logs.
	Location() string
}

// Kinds of source accepted in configuration.
const (
	KindDir = "dir"
	KindS3  = "s3"
)

// Config selects and configures the instance source.
type Config struct {
	Kind string `json:"kind"`
	Dir  string `json:"dir"`

	Endpoint     string `json:"endpoint"`
	AccessKey    string `json:"access_key"`
	SecretKey    string `json:"secret_key"`
	Region       string `json:"region"`
	UseSSL       bool   `json:"use_ssl"`
	Bucket       string `json:"bucket"`
	Prefix       string `json:"prefix"`
	CreateBucket bool   `json:"create_bucket"`
}

// SetDefaults fills unset fields.
func (c *Config) SetDefaults() {
	if c.Kind == "" {
		c.Kind = KindDir
	}
	if c.Kind == KindDir && c.Dir == "" {
		c.Dir = "."
	}
}

// Validate checks the fields required by the selected kind.
func (c Config) Validate() error {
	switch c.Kind {
	case KindDir:
		if c.Dir == "" {
			return fmt.Errorf("source: dir is required")
		}
	case KindS3:
		if c.Endpoint == "" || c.Bucket == "" {
			return fmt.Errorf("source: s3 requires endpoint and bucket")
		}
		if c.AccessKey == "" || c.SecretKey == "" {
			return fmt.Errorf("source: s3 requires access_key and secret_key")
		}
	default:
		return fmt.Errorf("source: unknown kind %q", c.Kind)
	}
	return nil
}

// Dir reads and writes files in a local directory.
type Dir struct {
	Root string
}

// NewDir returns a Source rooted at dir.
func NewDir(dir string) *Dir { return &Dir{Root: dir} }

// Open implements Source.
func (d *Dir) Open(_ context.Context, name string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Join(d.Root, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Write implements Source.
func (d *Dir) Write(_ context.Context, name string, data []byte) error {
	return os.WriteFile(filepath.Join(d.Root, name), data, 0o644)
}

// Location implements Source.
func (d *Dir) Location() string { return d.Root }
