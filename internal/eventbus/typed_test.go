package eventbus

import (
	"context"
	"testing"
	"time"
)

func TestTypedBusPublishSubscribe(t *testing.T) {
	bus := NewTyped[string]()
	ch := bus.Subscribe()
	bus.Publish("hello")
	v := <-ch
	if v != "hello" {
		t.Fatalf("expected hello got %v", v)
	}
	bus.Unsubscribe(ch)
}

func TestTypedBusClose(t *testing.T) {
	bus := NewTyped[int]()
	ch1 := bus.Subscribe()
	ch2 := bus.Subscribe()
	bus.Close()
	if _, ok := <-ch1; ok {
		t.Fatalf("expected ch1 closed")
	}
	if _, ok := <-ch2; ok {
		t.Fatalf("expected ch2 closed")
	}
}

func TestTypedBusUnsubscribeAfterClose(t *testing.T) {
	bus := NewTyped[float64]()
	ch := bus.Subscribe()
	bus.Close()
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("panic on Unsubscribe after Close: %v", r)
		}
	}()
	bus.Unsubscribe(ch)
}

func TestTypedBusDropsWhenFull(t *testing.T) {
	bus := NewTypedWithBuffer[int](1)
	ch := bus.Subscribe()
	bus.Publish(1)
	bus.Publish(2)
	if got := bus.Dropped(); got != 1 {
		t.Fatalf("expected 1 dropped, got %d", got)
	}
	if v := <-ch; v != 1 {
		t.Fatalf("expected first event, got %d", v)
	}
}

func TestTypedBusPublishWait(t *testing.T) {
	bus := NewTypedWithBuffer[int](0)
	ch := bus.Subscribe()
	got := make(chan []int)
	go func() {
		var seen []int
		for v := range ch {
			seen = append(seen, v)
		}
		got <- seen
	}()
	for i := 0; i < 5; i++ {
		if err := bus.PublishWait(context.Background(), i); err != nil {
			t.Fatalf("publish: %v", err)
		}
	}
	bus.Close()
	seen := <-got
	if len(seen) != 5 || seen[4] != 4 {
		t.Fatalf("unexpected events %v", seen)
	}
	if bus.Dropped() != 0 {
		t.Fatalf("PublishWait must not drop")
	}
}

func TestTypedBusPublishWaitCancelled(t *testing.T) {
	bus := NewTypedWithBuffer[int](0)
	_ = bus.Subscribe()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := bus.PublishWait(ctx, 1); err != context.DeadlineExceeded {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}
