// Package events carries domain events raised by aggregates and an in-process
// dispatcher that hands them to subscribers off the request path.
package events

import "time"

type DomainEvent interface {
	GetAggregateID() string
	GetEventType() string
	GetOccurredAt() time.Time
}

// BaseEvent is embedded by concrete events.
type BaseEvent struct {
	AggregateID string    `json:"aggregate_id"`
	EventType   string    `json:"event_type"`
	OccurredAt  time.Time `json:"occurred_at"`
}

func (e BaseEvent) GetAggregateID() string   { return e.AggregateID }
func (e BaseEvent) GetEventType() string     { return e.EventType }
func (e BaseEvent) GetOccurredAt() time.Time { return e.OccurredAt }

// Handler reacts to one event. Handlers run concurrently with each other and
// must not assume delivery order.
type Handler interface {
	Handle(event DomainEvent) error
}

// HandlerFunc adapts a plain function to Handler.
type HandlerFunc func(event DomainEvent) error

func (f HandlerFunc) Handle(event DomainEvent) error { return f(event) }

// Publisher is the side use cases depend on. Publish must not block the caller.
type Publisher interface {
	Publish(event DomainEvent) error
}
