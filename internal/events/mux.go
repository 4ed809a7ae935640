// internal/events/mux.go
package events

// Event types.
const (
	EventMatchResolved  = "match.resolved"
	EventMuxStarted     = "mux.started"
	EventMuxCompleted   = "mux.completed"
	EventMuxFailed      = "mux.failed"
	EventBatchCompleted = "batch.completed"
)

// MatchResolved is emitted once per video after matching. Companion is
// empty when nothing was accepted.
type MatchResolved struct {
	BaseEvent
	Companion  string  `json:"companion,omitempty"`
	Confidence float64 `json:"confidence"`
	Rule       string  `json:"rule"`
	Accepted   int     `json:"accepted"`
}

// MuxStarted is emitted when a video's mkvmerge run begins.
type MuxStarted struct {
	BaseEvent
	Output    string `json:"output"`
	Subtitles int    `json:"subtitles"`
	Fonts     int    `json:"fonts"`
}

// MuxCompleted is emitted when a video was muxed.
type MuxCompleted struct {
	BaseEvent
	Output   string `json:"output"`
	Warnings string `json:"warnings,omitempty"`
}

// MuxFailed is emitted when a video could not be muxed.
type MuxFailed struct {
	BaseEvent
	Output     string `json:"output,omitempty"`
	Reason     string `json:"reason"`
	ToolOutput string `json:"tool_output,omitempty"`
}

// BatchCompleted is emitted once per run; Subject is the scanned root.
type BatchCompleted struct {
	BaseEvent
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
	Skipped   int `json:"skipped"`
}

// OK reports whether every video in the batch was muxed.
func (e *BatchCompleted) OK() bool {
	return e.Failed == 0 && e.Skipped == 0
}
