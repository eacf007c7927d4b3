package audit

import (
	"context"
	"errors"
	"log/slog"
)

// ErrQueueFull is returned when the buffer cannot take another event.
var ErrQueueFull = errors.New("audit queue full")

// Queue is a Sink that buffers events and lets Run forward them to a slower
// sink off the request path. Write never blocks.
type Queue struct {
	inner  Sink
	inbox  chan Event
	logger *slog.Logger
}

func NewQueue(inner Sink, size int, logger *slog.Logger) *Queue {
	if size <= 0 {
		size = 256
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Queue{inner: inner, inbox: make(chan Event, size), logger: logger}
}

func (q *Queue) Write(_ context.Context, e Event) error {
	select {
	case q.inbox <- e:
		return nil
	default:
		return ErrQueueFull
	}
}

// Run forwards events until ctx is done, then drains what is left.
func (q *Queue) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			q.drain()
			return nil
		case event := <-q.inbox:
			q.forward(ctx, event)
		}
	}
}

func (q *Queue) drain() {
	ctx := context.Background()
	for {
		select {
		case event := <-q.inbox:
			q.forward(ctx, event)
		default:
			return
		}
	}
}

func (q *Queue) forward(ctx context.Context, e Event) {
	if err := q.inner.Write(ctx, e); err != nil {
		q.logger.WarnContext(ctx, "audit sink write failed",
			"action", e.Action,
			"event_id", e.ID,
			"error", err,
		)
	}
}

// Close closes the wrapped sink. Call after Run has returned.
func (q *Queue) Close() error {
	return q.inner.Close()
}
