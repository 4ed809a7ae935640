package events

import "time"

// Event is the base interface all events implement.
type Event interface {
	EventType() string
	EventSubject() string // file path the event is about
	EventRunID() string
	OccurredAt() time.Time
}

// BaseEvent provides common fields for all events.
type BaseEvent struct {
	Type      string    `json:"type"`
	Subject   string    `json:"subject"`
	RunID     string    `json:"run_id"`
	Timestamp time.Time `json:"occurred_at"`
}

func (e BaseEvent) EventType() string     { return e.Type }
func (e BaseEvent) EventSubject() string  { return e.Subject }
func (e BaseEvent) EventRunID() string    { return e.RunID }
func (e BaseEvent) OccurredAt() time.Time { return e.Timestamp }

// NewBaseEvent creates a BaseEvent with the current timestamp.
func NewBaseEvent(eventType, runID, subject string) BaseEvent {
	return BaseEvent{
		Type:      eventType,
		Subject:   subject,
		RunID:     runID,
		Timestamp: time.Now(),
	}
}
