package mqtt

import (
	"context"
	"errors"
	"time"

	"github.com/kilianp07/busytime/core/model"
)

// ErrNotConnected is returned when publishing on a client that is not
// connected to a broker.
var ErrNotConnected = errors.New("mqtt client not connected")

// InstanceMessage is the payload published once an instance is processed.
type InstanceMessage struct {
	RunID    string        `json:"run_id"`
	Instance string        `json:"instance"`
	Outcome  model.Outcome `json:"outcome"`
	Cost     int           `json:"cost"`
	Jobs     int           `json:"jobs"`
	// Starts lists the start times in load order. It is empty unless the
	// instance was solved.
	Starts    []int  `json:"starts,omitempty"`
	Error     string `json:"error,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// NewInstanceMessage stamps a message with the current time.
func NewInstanceMessage(runID, instance string, outcome model.Outcome) InstanceMessage {
	return InstanceMessage{
		RunID:     runID,
		Instance:  instance,
		Outcome:   outcome,
		Timestamp: time.Now().UnixMilli(),
	}
}

// Publisher publishes instance outcomes to a broker.
type Publisher interface {
	PublishInstance(ctx context.Context, msg InstanceMessage) error
}

// NopPublisher drops every message.
type NopPublisher struct{}

// PublishInstance implements Publisher.
func (NopPublisher) PublishInstance(context.Context, InstanceMessage) error { return nil }
