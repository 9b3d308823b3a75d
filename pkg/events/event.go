package events

import "time"

// Event is the contract every published message satisfies.
type Event interface {
	// EventType is the routing code, e.g. "USER_REGISTERED".
	EventType() string

	Payload() map[string]interface{}

	Timestamp() time.Time
}

// BaseEvent is the plain implementation used across services. Publishers fill
// it inline; no event needs its own type.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}
