package mqtt

import (
	"context"
	"fmt"
	"sync"

	coremqtt "github.com/kilianp07/busytime/core/mqtt"
)

// Publisher mirrors the core mqtt.Publisher interface.
type Publisher = coremqtt.Publisher

// MockPublisher is a simple publisher used in tests.
type MockPublisher struct {
	Messages []coremqtt.InstanceMessage
	// FailInstances makes PublishInstance fail for the named instances.
	FailInstances map[string]bool
	mu            sync.Mutex
}

// NewMockPublisher creates a new MockPublisher.
func NewMockPublisher() *MockPublisher {
	return &MockPublisher{FailInstances: make(map[string]bool)}
}

// PublishInstance records the message or returns an error if configured to fail.
func (m *MockPublisher) PublishInstance(_ context.Context, msg coremqtt.InstanceMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailInstances[msg.Instance] {
		return fmt.Errorf("publish failed")
	}
	m.Messages = append(m.Messages, msg)
	return nil
}

// Published returns a copy of the recorded messages.
func (m *MockPublisher) Published() []coremqtt.InstanceMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]coremqtt.InstanceMessage, len(m.Messages))
	copy(out, m.Messages)
	return out
}
