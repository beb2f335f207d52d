package pubsub

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultBufferSize is the per-subscriber queue length. A typist can
// produce a changed event per keystroke; the queue absorbs bursts while the
// program is busy rendering.
const DefaultBufferSize = 64

// subscription is one subscriber queue and the event types it wants. An
// empty filter receives every type.
type subscription[T any] struct {
	ch    chan Event[T]
	types []EventType
}

func (s *subscription[T]) wants(t EventType) bool {
	return len(s.types) == 0 || slices.Contains(s.types, t)
}

// Broker fans events out to subscribers. Publish never blocks: a subscriber
// whose queue is full misses the event and the broker counts it as dropped.
type Broker[T any] struct {
	mu         sync.RWMutex
	subs       map[*subscription[T]]struct{}
	closed     bool
	done       chan struct{}
	bufferSize int

	published atomic.Uint64
	dropped   atomic.Uint64
}

// NewBroker creates a broker with DefaultBufferSize queues.
func NewBroker[T any]() *Broker[T] {
	return NewBrokerWithBuffer[T](DefaultBufferSize)
}

// NewBrokerWithBuffer creates a broker with queues of size events.
func NewBrokerWithBuffer[T any](size int) *Broker[T] {
	return &Broker[T]{
		subs:       make(map[*subscription[T]]struct{}),
		done:       make(chan struct{}),
		bufferSize: max(size, 1),
	}
}

// Subscribe returns a queue receiving the given event types, or every type
// when none are given. The queue is closed when ctx is done or the broker
// closes; subscribing to a closed broker returns a closed queue.
func (b *Broker[T]) Subscribe(ctx context.Context, types ...EventType) <-chan Event[T] {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		ch := make(chan Event[T])
		close(ch)
		return ch
	}

	sub := &subscription[T]{
		ch:    make(chan Event[T], b.bufferSize),
		types: slices.Clone(types),
	}
	b.subs[sub] = struct{}{}

	go func() {
		select {
		case <-ctx.Done():
			b.unsubscribe(sub)
		case <-b.done:
		}
	}()
	return sub.ch
}

func (b *Broker[T]) unsubscribe(sub *subscription[T]) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.subs[sub]; !ok {
		return // the broker closed it already
	}
	delete(b.subs, sub)
	close(sub.ch)
}

// Publish delivers an event to every subscriber that wants its type.
func (b *Broker[T]) Publish(eventType EventType, payload T) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}

	event := Event[T]{
		Type:      eventType,
		Payload:   payload,
		Timestamp: time.Now(),
	}
	b.published.Add(1)
	for sub := range b.subs {
		if !sub.wants(eventType) {
			continue
		}
		select {
		case sub.ch <- event:
		default:
			b.dropped.Add(1)
		}
	}
}

// Close closes every subscriber queue. Later publishes are ignored.
func (b *Broker[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	close(b.done)
	for sub := range b.subs {
		close(sub.ch)
	}
	clear(b.subs)
}

// SubscriberCount returns the number of open subscriptions.
func (b *Broker[T]) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Stats is a snapshot of broker counters.
type Stats struct {
	Subscribers int
	// Published counts Publish calls on an open broker.
	Published uint64
	// Dropped counts deliveries skipped because a queue was full.
	Dropped uint64
}

// Stats returns the current counters.
func (b *Broker[T]) Stats() Stats {
	return Stats{
		Subscribers: b.SubscriberCount(),
		Published:   b.published.Load(),
		Dropped:     b.dropped.Load(),
	}
}
