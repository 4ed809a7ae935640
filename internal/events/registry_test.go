// internal/events/registry_test.go
package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Unmarshal(t *testing.T) {
	registry := NewRegistry()
	registry.Register(EventMuxFailed, func() Event { return &MuxFailed{} })

	raw := RawEvent{
		EventType: EventMuxFailed,
		Payload:   `{"type":"mux.failed","subject":"/media/a.mkv","run_id":"r1","occurred_at":"2024-01-01T00:00:00Z","reason":"exit status 2","tool_output":"Error: bad file"}`,
	}

	event, err := registry.Unmarshal(raw)
	require.NoError(t, err)

	failed, ok := event.(*MuxFailed)
	require.True(t, ok)
	assert.Equal(t, "/media/a.mkv", failed.EventSubject())
	assert.Equal(t, "r1", failed.EventRunID())
	assert.Equal(t, "exit status 2", failed.Reason)
	assert.Equal(t, "Error: bad file", failed.ToolOutput)
}

func TestRegistry_UnmarshalUnknownType(t *testing.T) {
	registry := NewRegistry()

	raw := RawEvent{
		EventType: "unknown.event",
		Payload:   `{}`,
	}

	_, err := registry.Unmarshal(raw)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownEventType)
	assert.Contains(t, err.Error(), "unknown.event")
}

func TestRegistry_UnmarshalInvalidJSON(t *testing.T) {
	registry := NewRegistry()
	registry.Register(EventMuxStarted, func() Event { return &MuxStarted{} })

	_, err := registry.Unmarshal(RawEvent{EventType: EventMuxStarted, Payload: `{not json`})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unmarshal event payload")
}

func TestDefaultRegistry_RoundTrip(t *testing.T) {
	db := setupTestDB(t)
	log := NewEventLog(db)

	_, err := log.Append(&BatchCompleted{
		BaseEvent: NewBaseEvent(EventBatchCompleted, "run-9", "/media"),
		Succeeded: 4,
		Failed:    1,
	})
	require.NoError(t, err)

	raws, err := log.ForRun("run-9")
	require.NoError(t, err)
	require.Len(t, raws, 1)

	event, err := DefaultRegistry().Unmarshal(raws[0])
	require.NoError(t, err)
	batch, ok := event.(*BatchCompleted)
	require.True(t, ok)
	assert.Equal(t, 4, batch.Succeeded)
	assert.Equal(t, 1, batch.Failed)
	assert.Equal(t, "/media", batch.EventSubject())
}

func TestRegistry_Decode(t *testing.T) {
	raws := []RawEvent{
		{ID: 1, EventType: EventMuxStarted, Payload: `{"type":"mux.started","subject":"a.mkv","run_id":"r"}`},
		{ID: 2, EventType: "plugin.custom", Payload: `{}`},
		{ID: 3, EventType: EventBatchCompleted, Payload: `{"type":"batch.completed","subject":"/media","run_id":"r","succeeded":2}`},
	}

	decoded, err := DefaultRegistry().Decode(raws)
	require.NoError(t, err)
	require.Len(t, decoded, 2, "unknown types are skipped")
	assert.Equal(t, EventMuxStarted, decoded[0].EventType())
	batch, ok := decoded[1].(*BatchCompleted)
	require.True(t, ok)
	assert.Equal(t, 2, batch.Succeeded)

	_, err = DefaultRegistry().Decode([]RawEvent{{ID: 4, EventType: EventMuxFailed, Payload: `{`}})
	assert.Error(t, err)
}
