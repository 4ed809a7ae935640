package engine

import (
	"github.com/vmunix/submux/internal/matcher"
	"github.com/vmunix/submux/internal/mux"
)

// Report is the outcome of one run.
type Report struct {
	RunID   string           `json:"run_id"`
	Root    string           `json:"root"`
	Preview bool             `json:"preview,omitempty"`
	Summary matcher.Summary  `json:"summary"`
	Matches []matcher.Result `json:"matches"`
	Jobs    []mux.Job        `json:"jobs"`

	Succeeded []mux.Outcome `json:"succeeded,omitempty"`
	Failed    []mux.Failure `json:"failed,omitempty"`
	Skipped   []string      `json:"skipped,omitempty"`

	SucceededCount int `json:"succeeded_count"`
	FailedCount    int `json:"failed_count"`
	SkippedCount   int `json:"skipped_count"`
}

// OK reports whether every planned video was muxed.
func (r *Report) OK() bool {
	return r.FailedCount == 0 && r.SkippedCount == 0
}

func (r *Report) count() {
	r.SucceededCount = len(r.Succeeded)
	r.FailedCount = len(r.Failed)
	r.SkippedCount = len(r.Skipped)
}
