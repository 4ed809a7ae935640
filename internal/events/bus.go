package events

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
)

// subscription is one subscriber channel and the events it wants.
type subscription struct {
	ch    chan Event
	match func(Event) bool
	label string
}

// Bus fans events out to subscribers and, when an EventLog is attached,
// records them as run history. Delivery never blocks the publisher: a
// subscriber whose buffer is full misses the event.
type Bus struct {
	mu      sync.RWMutex
	subs    []*subscription
	closed  bool
	dropped atomic.Int64

	log    *EventLog // nil disables history
	logger *slog.Logger
}

// NewBus creates a bus. log may be nil.
func NewBus(log *EventLog, logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		log:    log,
		logger: logger.With("component", "events"),
	}
}

// Publish records e and delivers it to every matching subscriber. Publishing
// on a closed bus is a no-op. Persistence failures are logged, not returned,
// so a broken history database never stops a batch.
func (b *Bus) Publish(_ context.Context, e Event) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return nil
	}

	if b.log != nil {
		if _, err := b.log.Append(e); err != nil {
			b.logger.Error("persist event", "type", e.EventType(), "run_id", e.EventRunID(), "error", err)
		}
	}

	for _, sub := range b.subs {
		if !sub.match(e) {
			continue
		}
		select {
		case sub.ch <- e:
		default:
			b.dropped.Add(1)
			b.logger.Warn("subscriber full, dropping event",
				"subscriber", sub.label,
				"type", e.EventType(),
				"run_id", e.EventRunID(),
				"subject", e.EventSubject())
		}
	}
	return nil
}

// Subscribe returns a channel receiving events of one type.
func (b *Bus) Subscribe(eventType string, bufferSize int) <-chan Event {
	return b.subscribe(eventType, bufferSize, func(e Event) bool {
		return e.EventType() == eventType
	})
}

// SubscribeAll returns a channel receiving every event.
func (b *Bus) SubscribeAll(bufferSize int) <-chan Event {
	return b.subscribe("all", bufferSize, func(Event) bool { return true })
}

// SubscribeRun returns a channel receiving the events of one run.
func (b *Bus) SubscribeRun(runID string, bufferSize int) <-chan Event {
	return b.subscribe("run:"+runID, bufferSize, func(e Event) bool {
		return e.EventRunID() == runID
	})
}

func (b *Bus) subscribe(label string, bufferSize int, match func(Event) bool) <-chan Event {
	sub := &subscription{
		ch:    make(chan Event, bufferSize),
		match: match,
		label: label,
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(sub.ch)
		return sub.ch
	}
	b.subs = append(b.subs, sub)
	return sub.ch
}

// Unsubscribe removes and closes a subscription. Unknown channels are
// ignored.
func (b *Bus) Unsubscribe(ch <-chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	i := slices.IndexFunc(b.subs, func(s *subscription) bool { return s.ch == ch })
	if i < 0 {
		return
	}
	close(b.subs[i].ch)
	b.subs = slices.Delete(b.subs, i, i+1)
}

// Dropped returns how many deliveries were skipped because a subscriber
// was full.
func (b *Bus) Dropped() int64 {
	return b.dropped.Load()
}

// Close closes every subscriber channel. It is safe to call more than once.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	for _, sub := range b.subs {
		close(sub.ch)
	}
	b.subs = nil
	return nil
}
