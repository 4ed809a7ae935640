package mux

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/vmunix/submux/internal/command"
)

// DefaultWorkers bounds concurrent mkvmerge processes.
const DefaultWorkers = 4

// Failure is a video that could not be muxed.
type Failure struct {
	Video  string `json:"video"`
	Error  string `json:"error"`
	Output string `json:"tool_output,omitempty"`
	Err    error  `json:"-"`
}

// BatchResult aggregates a batch. Succeeded and Failed are in job order.
type BatchResult struct {
	Succeeded []Outcome `json:"succeeded"`
	Failed    []Failure `json:"failed"`
	Skipped   []string  `json:"skipped,omitempty"`
}

// Hooks observe a batch. Either may be nil. They are called from worker
// goroutines.
type Hooks struct {
	Started  func(job Job)
	Finished func(job Job, outcome Outcome, err error)
}

// RunBatch muxes jobs on at most workers goroutines. A failed job never
// stops its siblings. Cancelling ctx stops new jobs from starting; jobs
// already running finish and are reported, the rest are Skipped.
func (m *Muxer) RunBatch(ctx context.Context, jobs []Job, workers int, hooks Hooks) *BatchResult {
	if workers <= 0 {
		workers = DefaultWorkers
	}

	type slot struct {
		outcome Outcome
		err     error
		ran     bool
	}
	slots := make([]slot, len(jobs))
	var mu sync.Mutex

	var g errgroup.Group
	g.SetLimit(workers)
	for i, job := range jobs {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			if hooks.Started != nil {
				hooks.Started(job)
			}
			outcome, err := m.Mux(ctx, job)
			if err != nil {
				m.log.Error("mux failed", "video", job.Video, "error", err)
			}
			mu.Lock()
			slots[i] = slot{outcome: outcome, err: err, ran: true}
			mu.Unlock()
			if hooks.Finished != nil {
				hooks.Finished(job, outcome, err)
			}
			return nil
		})
	}
	_ = g.Wait()

	res := &BatchResult{}
	for i, s := range slots {
		switch {
		case !s.ran:
			res.Skipped = append(res.Skipped, jobs[i].Video)
		case s.err != nil:
			res.Failed = append(res.Failed, NewFailure(jobs[i].Video, s.err))
		default:
			res.Succeeded = append(res.Succeeded, s.outcome)
		}
	}
	return res
}

// NewFailure describes err for video, lifting a tool's diagnostic output
// out of a ToolError. Error never repeats the text in Output.
func NewFailure(video string, err error) Failure {
	f := Failure{Video: video, Error: err.Error(), Err: err}
	var te *ToolError
	if !errors.As(err, &te) {
		return f
	}
	f.Output = te.Output
	f.Error = te.Err.Error()
	var cmdErr *command.Error
	if errors.As(te.Err, &cmdErr) && cmdErr.Err != nil {
		f.Error = cmdErr.Err.Error()
	}
	return f
}
