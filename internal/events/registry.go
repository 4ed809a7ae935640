// internal/events/registry.go
package events

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnknownEventType is returned for history rows whose type has no
// registered factory, e.g. rows written by a newer submux.
var ErrUnknownEventType = errors.New("unknown event type")

// EventFactory returns an empty event of one concrete type.
type EventFactory func() Event

// Registry turns persisted rows back into typed events.
type Registry struct {
	factories map[string]EventFactory
}

func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]EventFactory)}
}

// Register binds eventType to factory, replacing any earlier binding.
func (r *Registry) Register(eventType string, factory EventFactory) {
	r.factories[eventType] = factory
}

// Unmarshal decodes one persisted row.
func (r *Registry) Unmarshal(raw RawEvent) (Event, error) {
	factory, ok := r.factories[raw.EventType]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEventType, raw.EventType)
	}
	event := factory()
	if err := json.Unmarshal([]byte(raw.Payload), event); err != nil {
		return nil, fmt.Errorf("unmarshal event payload %d: %w", raw.ID, err)
	}
	return event, nil
}

// Decode unmarshals rows in order. Rows of unknown types are skipped so old
// binaries can still read newer history; any other failure stops decoding.
func (r *Registry) Decode(raws []RawEvent) ([]Event, error) {
	out := make([]Event, 0, len(raws))
	for _, raw := range raws {
		ev, err := r.Unmarshal(raw)
		if errors.Is(err, ErrUnknownEventType) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, nil
}

// DefaultRegistry knows every event submux publishes.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(EventMatchResolved, func() Event { return &MatchResolved{} })
	r.Register(EventMuxStarted, func() Event { return &MuxStarted{} })
	r.Register(EventMuxCompleted, func() Event { return &MuxCompleted{} })
	r.Register(EventMuxFailed, func() Event { return &MuxFailed{} })
	r.Register(EventBatchCompleted, func() Event { return &BatchCompleted{} })
	return r
}
