package app

import (
	"context"

	"github.com/kilianp07/busytime/core/logger"
	coremqtt "github.com/kilianp07/busytime/core/mqtt"
	"github.com/kilianp07/busytime/internal/eventbus"
)

// Notifier publishes every instance event of a bus to an MQTT publisher.
type Notifier struct {
	done chan struct{}
}

// StartNotifier subscribes to bus and forwards events until the bus is
// closed. Publish failures are logged and do not stop the forwarding.
func StartNotifier(ctx context.Context, bus *eventbus.TypedBus[InstanceEvent], pub coremqtt.Publisher, log logger.Logger) *Notifier {
	log = logger.OrNop(log)
	ch := bus.Subscribe()
	n := &Notifier{done: make(chan struct{})}
	go func() {
		defer close(n.done)
		for ev := range ch {
			if err := pub.PublishInstance(ctx, ev.Message()); err != nil {
				log.Errorf("publish %s outcome: %v", ev.Instance, err)
			}
		}
	}()
	return n
}

// Wait blocks until the bus is closed and every event was forwarded.
func (n *Notifier) Wait() { <-n.done }
