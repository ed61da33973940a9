// Package monitoring reports instance failures to an external error
// tracker. The default implementation discards everything.
package monitoring

import (
	"sync"
	"time"
)

// Monitor defines methods used for error reporting.
type Monitor interface {
	CaptureException(err error, tags map[string]string)
	Flush(timeout time.Duration)
}

type NopMonitor struct{}

func (NopMonitor) CaptureException(error, map[string]string) {}
func (NopMonitor) Flush(time.Duration)                       {}

// Captured is one error seen by a Recorder.
type Captured struct {
	Err  error
	Tags map[string]string
}

// Recorder keeps captured errors in memory.
type Recorder struct {
	mu     sync.Mutex
	events []Captured
}

func (r *Recorder) CaptureException(err error, tags map[string]string) {
	if err == nil {
		return
	}
	r.mu.Lock()
	r.events = append(r.events, Captured{Err: err, Tags: tags})
	r.mu.Unlock()
}

func (r *Recorder) Flush(time.Duration) {}

// Events returns a copy of the captured errors.
func (r *Recorder) Events() []Captured {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Captured(nil), r.events...)
}
