package events

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"steam_search_backend/platform/logger"
)

type pingEvent struct {
	BaseEvent
}

func (pingEvent) EventName() string { return "test.ping" }

func TestPublishRunsEveryHandler(t *testing.T) {
	bus := NewInMemoryBus(logger.Discard())
	var calls atomic.Int32
	for i := 0; i < 3; i++ {
		bus.Subscribe("test.ping", HandlerFunc(func(ctx context.Context, event Event) error {
			calls.Add(1)
			return nil
		}))
	}

	bus.Publish(context.Background(), pingEvent{BaseEvent: NewBaseEvent()})
	bus.Wait()

	if calls.Load() != 3 {
		t.Fatalf("expected 3 handler calls, got %d", calls.Load())
	}
}

func TestPublishDetachesFromPublisherCancellation(t *testing.T) {
	bus := NewInMemoryBus(logger.Discard())
	result := make(chan error, 1)
	bus.Subscribe("test.ping", HandlerFunc(func(ctx context.Context, event Event) error {
		time.Sleep(10 * time.Millisecond)
		result <- ctx.Err()
		return nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	bus.Publish(ctx, pingEvent{BaseEvent: NewBaseEvent()})
	cancel()
	bus.Wait()

	if err := <-result; err != nil {
		t.Fatalf("handler context should not be cancelled by publisher, got %v", err)
	}
}

func TestPublishRecoversHandlerPanic(t *testing.T) {
	bus := NewInMemoryBus(logger.Discard())
	var after atomic.Bool
	bus.Subscribe("test.ping", HandlerFunc(func(ctx context.Context, event Event) error {
		panic("boom")
	}))
	bus.Subscribe("test.ping", HandlerFunc(func(ctx context.Context, event Event) error {
		after.Store(true)
		return nil
	}))

	bus.Publish(context.Background(), pingEvent{BaseEvent: NewBaseEvent()})
	bus.Wait()

	if !after.Load() {
		t.Fatal("a panicking handler should not stop the others")
	}
}

func TestPublishSyncJoinsErrors(t *testing.T) {
	bus := NewInMemoryBus(logger.Discard())
	errA := errors.New("a")
	errB := errors.New("b")
	bus.Subscribe("test.ping", HandlerFunc(func(ctx context.Context, event Event) error { return errA }))
	bus.Subscribe("test.ping", HandlerFunc(func(ctx context.Context, event Event) error { return nil }))
	bus.Subscribe("test.ping", HandlerFunc(func(ctx context.Context, event Event) error { return errB }))

	err := bus.PublishSync(context.Background(), pingEvent{BaseEvent: NewBaseEvent()})
	if !errors.Is(err, errA) || !errors.Is(err, errB) {
		t.Fatalf("expected both handler errors, got %v", err)
	}
}

func TestPublishWithoutSubscribersIsNoop(t *testing.T) {
	bus := NewInMemoryBus(logger.Discard())
	if err := bus.PublishSync(context.Background(), pingEvent{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	bus.Publish(context.Background(), pingEvent{})
	bus.Wait()
}
