package mux

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/vmunix/submux/internal/command"
	"github.com/vmunix/submux/internal/command/mocks"
)

func batchJobs(dir string, n int) []Job {
	jobs := make([]Job, n)
	for i := range jobs {
		jobs[i] = Job{
			Video:  filepath.Join(dir, fmt.Sprintf("show - %02d.mkv", i+1)),
			Output: filepath.Join(dir, "out", fmt.Sprintf("[MySubs] show - %02d.mkv", i+1)),
		}
	}
	return jobs
}

func TestMuxer_RunBatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	runner := mocks.NewMockRunner(ctrl)
	jobs := batchJobs(t.TempDir(), 5)

	// Episode 03 fails; every other job must still complete.
	runner.EXPECT().Run(gomock.Any(), "mkvmerge", gomock.Any()).Times(5).DoAndReturn(
		func(ctx context.Context, name string, args []string) ([]byte, error) {
			if strings.Contains(args[1], "show - 03") {
				return nil, &command.Error{Name: name, ExitCode: 2, Output: "Error: bad subtitle", Err: errors.New("exit status 2")}
			}
			return writeOutput(t)(ctx, name, args)
		})

	var started, finished atomic.Int32
	hooks := Hooks{
		Started:  func(Job) { started.Add(1) },
		Finished: func(Job, Outcome, error) { finished.Add(1) },
	}

	res := NewMuxer("", runner, nil).RunBatch(context.Background(), jobs, 2, hooks)

	require.Len(t, res.Succeeded, 4)
	require.Len(t, res.Failed, 1)
	assert.Empty(t, res.Skipped)
	assert.Equal(t, int32(5), started.Load())
	assert.Equal(t, int32(5), finished.Load())

	for i, want := range []int{0, 1, 3, 4} {
		assert.Equal(t, jobs[want].Video, res.Succeeded[i].Video, "succeeded keeps job order")
		assert.FileExists(t, jobs[want].Output)
	}

	f := res.Failed[0]
	assert.Equal(t, jobs[2].Video, f.Video)
	assert.Equal(t, "Error: bad subtitle", f.Output)
	assert.Equal(t, "exit status 2", f.Error)
	var te *ToolError
	assert.ErrorAs(t, f.Err, &te)
}

func TestMuxer_RunBatch_Cancelled(t *testing.T) {
	ctrl := gomock.NewController(t)
	runner := mocks.NewMockRunner(ctrl)
	jobs := batchJobs(t.TempDir(), 3)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := NewMuxer("", runner, nil).RunBatch(ctx, jobs, 2, Hooks{})

	assert.Empty(t, res.Succeeded)
	assert.Empty(t, res.Failed)
	assert.Equal(t, []string{jobs[0].Video, jobs[1].Video, jobs[2].Video}, res.Skipped)
}

func TestMuxer_RunBatch_CancelMidway(t *testing.T) {
	ctrl := gomock.NewController(t)
	runner := mocks.NewMockRunner(ctrl)
	jobs := batchJobs(t.TempDir(), 4)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// A single worker runs jobs in order; cancelling during the first job
	// lets it finish and skips the rest.
	runner.EXPECT().Run(gomock.Any(), "mkvmerge", gomock.Any()).Times(1).DoAndReturn(
		func(runCtx context.Context, name string, args []string) ([]byte, error) {
			cancel()
			return writeOutput(t)(runCtx, name, args)
		})

	res := NewMuxer("", runner, nil).RunBatch(ctx, jobs, 1, Hooks{})

	require.Len(t, res.Succeeded, 1)
	assert.Equal(t, jobs[0].Video, res.Succeeded[0].Video)
	assert.Empty(t, res.Failed)
	assert.Equal(t, []string{jobs[1].Video, jobs[2].Video, jobs[3].Video}, res.Skipped)
}

func TestMuxer_RunBatch_DefaultWorkers(t *testing.T) {
	ctrl := gomock.NewController(t)
	runner := mocks.NewMockRunner(ctrl)
	dir := t.TempDir()
	jobs := batchJobs(dir, 2)

	runner.EXPECT().Run(gomock.Any(), "mkvmerge", gomock.Any()).Times(2).DoAndReturn(writeOutput(t))

	res := NewMuxer("", runner, nil).RunBatch(context.Background(), jobs, 0, Hooks{})
	assert.Len(t, res.Succeeded, 2)

	_, err := os.Stat(filepath.Join(dir, "out"))
	assert.NoError(t, err)
}

func TestNewFailure(t *testing.T) {
	plain := errors.New("build output path: empty name")
	tests := []struct {
		name       string
		err        error
		wantError  string
		wantOutput string
	}{
		{
			name: "tool exit keeps output out of the message",
			err: &ToolError{Video: "a.mkv", Tool: "mkvmerge", Output: "Error: bad subtitle",
				Err: &command.Error{Name: "mkvmerge", ExitCode: 2, Output: "Error: bad subtitle", Err: errors.New("exit status 2")}},
			wantError:  "exit status 2",
			wantOutput: "Error: bad subtitle",
		},
		{
			name:       "tool wrote nothing",
			err:        &ToolError{Video: "a.mkv", Tool: "mkvmerge", Output: "done", Err: ErrNoOutput},
			wantError:  ErrNoOutput.Error(),
			wantOutput: "done",
		},
		{
			name:      "plain error",
			err:       plain,
			wantError: plain.Error(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewFailure("a.mkv", tt.err)
			assert.Equal(t, "a.mkv", f.Video)
			assert.Equal(t, tt.wantError, f.Error)
			assert.Equal(t, tt.wantOutput, f.Output)
			assert.Same(t, tt.err, f.Err)
		})
	}
}
