package audit

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"baseapi/pkg/platform/middleware/metadata"
	"baseapi/pkg/requestcontext"
)

// Sink receives finished events.
type Sink interface {
	Write(ctx context.Context, event Event) error
	Close() error
}

// Publisher stamps events with an ID, the request time, the request ID and
// the client metadata before handing them to a sink.
type Publisher struct {
	sink Sink
}

func NewPublisher(sink Sink) *Publisher {
	return &Publisher{sink: sink}
}

func (p *Publisher) Emit(ctx context.Context, base Event) error {
	if p == nil || p.sink == nil {
		return errors.New("audit publisher has no sink")
	}
	if base.ID == "" {
		base.ID = uuid.NewString()
	}
	if base.Timestamp.IsZero() {
		base.Timestamp = requestcontext.Now(ctx)
	}
	if base.RequestID == "" {
		base.RequestID = requestcontext.RequestID(ctx)
	}
	if base.ClientIP == "" {
		base.ClientIP = metadata.GetClientIP(ctx)
	}
	if base.UserAgent == "" {
		base.UserAgent = metadata.GetUserAgent(ctx)
	}
	return p.sink.Write(ctx, base)
}

// Close releases the sink.
func (p *Publisher) Close() error {
	if p == nil || p.sink == nil {
		return nil
	}
	return p.sink.Close()
}
