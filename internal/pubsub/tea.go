package pubsub

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// ListenCmd returns a command that waits for the next event on ch and
// delivers it as a tea.Msg. The command yields nil once ctx is done or ch
// is closed, which ends the listening loop.
func ListenCmd[T any](ctx context.Context, ch <-chan Event[T]) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-ch:
			if !ok {
				return nil
			}
			return event
		}
	}
}

// ContinuousListener holds one broker subscription for a Bubble Tea model.
// The model calls Listen from Init and again each time it handles an event,
// so exactly one receive is pending at a time.
type ContinuousListener[T any] struct {
	ctx context.Context
	ch  <-chan Event[T]
}

// NewContinuousListener subscribes to broker for the given event types, or
// all types when none are given. The subscription ends with ctx.
func NewContinuousListener[T any](ctx context.Context, broker *Broker[T], types ...EventType) *ContinuousListener[T] {
	return &ContinuousListener[T]{
		ctx: ctx,
		ch:  broker.Subscribe(ctx, types...),
	}
}

// Listen returns the command receiving the next event.
func (l *ContinuousListener[T]) Listen() tea.Cmd {
	return ListenCmd(l.ctx, l.ch)
}
