package engine

import (
	"context"

	"github.com/vmunix/submux/internal/events"
	"github.com/vmunix/submux/internal/matcher"
	"github.com/vmunix/submux/internal/mux"
)

func (e *Engine) publish(ctx context.Context, ev events.Event) {
	if e.bus == nil {
		return
	}
	if err := e.bus.Publish(ctx, ev); err != nil {
		e.log.Warn("publish event", "type", ev.EventType(), "error", err)
	}
}

func (e *Engine) publishMatches(ctx context.Context, runID string, set *matcher.ResultSet) {
	for _, r := range set.Results() {
		e.publish(ctx, &events.MatchResolved{
			BaseEvent:  events.NewBaseEvent(events.EventMatchResolved, runID, r.Video),
			Companion:  r.Companion,
			Confidence: r.Confidence,
			Rule:       r.Rule.String(),
			Accepted:   len(r.Accepted),
		})
	}
}

// hooks turn batch progress into events.
func (e *Engine) hooks(ctx context.Context, runID string) mux.Hooks {
	return mux.Hooks{
		Started: func(job mux.Job) {
			e.publish(ctx, &events.MuxStarted{
				BaseEvent: events.NewBaseEvent(events.EventMuxStarted, runID, job.Video),
				Output:    job.Output,
				Subtitles: len(job.Subtitles),
				Fonts:     len(job.Fonts),
			})
		},
		Finished: func(job mux.Job, outcome mux.Outcome, err error) {
			if err != nil {
				f := mux.NewFailure(job.Video, err)
				e.publish(ctx, &events.MuxFailed{
					BaseEvent:  events.NewBaseEvent(events.EventMuxFailed, runID, job.Video),
					Output:     job.Output,
					Reason:     f.Error,
					ToolOutput: f.Output,
				})
				return
			}
			e.publish(ctx, &events.MuxCompleted{
				BaseEvent: events.NewBaseEvent(events.EventMuxCompleted, runID, job.Video),
				Output:    outcome.Output,
				Warnings:  outcome.Warnings,
			})
		},
	}
}
