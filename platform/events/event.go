// Package events is the in-process publish/subscribe used between bounded
// contexts. Event types themselves live in internal/events.
package events

import (
	"context"
	"time"
)

type Event interface {
	// EventName is the subscription key, e.g. "leads.pipeline.changed".
	EventName() string
	OccurredAt() time.Time
}

// BaseEvent is embedded by concrete events. Timestamps come from the
// publishing service's clock rather than time.Now.
type BaseEvent struct {
	Timestamp time.Time `json:"timestamp"`
}

func (e BaseEvent) OccurredAt() time.Time { return e.Timestamp }

func NewBaseEvent(at time.Time) BaseEvent {
	return BaseEvent{Timestamp: at}
}

type Handler interface {
	Handle(ctx context.Context, event Event) error
}

type HandlerFunc func(ctx context.Context, event Event) error

func (f HandlerFunc) Handle(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// Bus delivers events to the handlers subscribed under their name. Publish
// does not wait for handlers; PublishSync does and reports their errors.
type Bus interface {
	Publish(ctx context.Context, event Event)
	PublishSync(ctx context.Context, event Event) error
	Subscribe(eventName string, handler Handler)
}
