// Package runlog persists one record per processed instance so batch runs
// can be inspected after the fact. Records can be stored in a JSONL file
// (optionally rotated), SQLite or PostgreSQL.
package runlog

import (
	"context"
	"time"

	"github.com/kilianp07/busytime/core/model"
)

// Record captures the outcome of one instance.
type Record struct {
	Timestamp     time.Time     `json:"timestamp"`
	RunID         string        `json:"run_id"`
	Instance      string        `json:"instance"`
	Outcome       model.Outcome `json:"outcome"`
	Jobs          int           `json:"jobs"`
	Pivoted       int           `json:"pivoted"`
	Fallback      int           `json:"fallback"`
	Cost          int           `json:"cost"`
	Unschedulable []int         `json:"unschedulable,omitempty"`
	DurationMS    float64       `json:"duration_ms"`
	Error         string        `json:"error,omitempty"`
}

// Query defines filters for retrieving records. Zero values match all.
type Query struct {
	Start   time.Time
	End     time.Time
	RunID   string
	Outcome model.Outcome
}

// Match reports whether r satisfies every filter of q.
func (q Query) Match(r Record) bool {
	if !q.Start.IsZero() && r.Timestamp.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && r.Timestamp.After(q.End) {
		return false
	}
	if q.RunID != "" && r.RunID != q.RunID {
		return false
	}
	if q.Outcome != "" && r.Outcome != q.Outcome {
		return false
	}
	return true
}

// Store persists Records and supports querying.
type Store interface {
	Append(ctx context.Context, rec Record) error
	Query(ctx context.Context, q Query) ([]Record, error)
	Close() error
}

// NopStore drops every record.
type NopStore struct{}

func (NopStore) Append(context.Context, Record) error         { return nil }
func (NopStore) Query(context.Context, Query) ([]Record, error) { return nil, nil }
func (NopStore) Close() error                                 { return nil }
