package pubsub

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func receive[T any](t *testing.T, ch <-chan Event[T]) Event[T] {
	t.Helper()
	select {
	case event, ok := <-ch:
		require.True(t, ok, "channel closed")
		return event
	case <-time.After(100 * time.Millisecond):
		require.Fail(t, "timeout waiting for event")
		return Event[T]{}
	}
}

func requireEmpty[T any](t *testing.T, ch <-chan Event[T]) {
	t.Helper()
	select {
	case event := <-ch:
		require.Failf(t, "unexpected event", "%+v", event)
	default:
	}
}

func TestBroker_Subscribe(t *testing.T) {
	broker := NewBroker[string]()
	defer broker.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := broker.Subscribe(ctx)
	broker.Publish(ChangedEvent, "(555) ___-____")

	event := receive(t, ch)
	require.Equal(t, "(555) ___-____", event.Payload)
	require.Equal(t, ChangedEvent, event.Type)
	require.False(t, event.Timestamp.IsZero())
}

func TestBroker_MultipleSubscribers(t *testing.T) {
	broker := NewBroker[int]()
	defer broker.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	chans := []<-chan Event[int]{broker.Subscribe(ctx), broker.Subscribe(ctx), broker.Subscribe(ctx)}
	require.Equal(t, 3, broker.SubscriberCount())

	broker.Publish(CommittedEvent, 42)
	for _, ch := range chans {
		event := receive(t, ch)
		require.Equal(t, 42, event.Payload)
		require.Equal(t, CommittedEvent, event.Type)
	}
}

func TestBroker_TypeFilter(t *testing.T) {
	broker := NewBroker[string]()
	defer broker.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rejected := broker.Subscribe(ctx, RejectedEvent)
	outcomes := broker.Subscribe(ctx, CommittedEvent, RejectedEvent)
	all := broker.Subscribe(ctx)

	broker.Publish(ChangedEvent, "4_")
	broker.Publish(RejectedEvent, "x")
	broker.Publish(CommittedEvent, "42")

	require.Equal(t, "x", receive(t, rejected).Payload)
	requireEmpty(t, rejected)

	require.Equal(t, "x", receive(t, outcomes).Payload)
	require.Equal(t, "42", receive(t, outcomes).Payload)
	requireEmpty(t, outcomes)

	for _, want := range []string{"4_", "x", "42"} {
		require.Equal(t, want, receive(t, all).Payload)
	}
}

func TestBroker_ContextCancellation(t *testing.T) {
	broker := NewBroker[string]()
	defer broker.Close()

	ctx, cancel := context.WithCancel(context.Background())
	ch := broker.Subscribe(ctx)
	require.Equal(t, 1, broker.SubscriberCount())

	cancel()
	require.Eventually(t, func() bool { return broker.SubscriberCount() == 0 },
		time.Second, time.Millisecond)

	_, ok := <-ch
	require.False(t, ok, "channel should be closed")
}

func TestBroker_FullQueueDrops(t *testing.T) {
	broker := NewBrokerWithBuffer[int](1)
	defer broker.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := broker.Subscribe(ctx)

	done := make(chan struct{})
	go func() {
		broker.Publish(ChangedEvent, 1)
		broker.Publish(ChangedEvent, 2)
		broker.Publish(ChangedEvent, 3)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(100 * time.Millisecond):
		require.Fail(t, "Publish blocked")
	}

	require.Equal(t, 1, receive(t, ch).Payload)
	requireEmpty(t, ch)
	require.Equal(t, Stats{Subscribers: 1, Published: 3, Dropped: 2}, broker.Stats())
}

func TestBroker_FilteredEventsAreNotDrops(t *testing.T) {
	broker := NewBrokerWithBuffer[int](1)
	defer broker.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	_ = broker.Subscribe(ctx, RejectedEvent)

	for i := range 10 {
		broker.Publish(ChangedEvent, i)
	}
	require.Equal(t, uint64(0), broker.Stats().Dropped)
}

func TestBroker_Close(t *testing.T) {
	broker := NewBroker[string]()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch1 := broker.Subscribe(ctx)
	ch2 := broker.Subscribe(ctx, LoggedEvent)
	require.Equal(t, 2, broker.SubscriberCount())

	broker.Close()
	broker.Close()

	_, ok1 := <-ch1
	_, ok2 := <-ch2
	require.False(t, ok1)
	require.False(t, ok2)
	require.Equal(t, 0, broker.SubscriberCount())

	ch3 := broker.Subscribe(ctx)
	_, ok3 := <-ch3
	require.False(t, ok3, "subscribing to a closed broker yields a closed channel")

	broker.Publish(ChangedEvent, "ignored")
	require.Equal(t, uint64(0), broker.Stats().Published)

	// Cancelling after Close must not close the queues twice.
	cancel()
	time.Sleep(10 * time.Millisecond)
}
