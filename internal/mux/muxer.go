// Package mux combines videos with their subtitles, fonts, chapters and
// tags by driving mkvmerge.
package mux

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/vmunix/submux/internal/command"
)

// mkvmergeWarningExit is mkvmerge's exit status for a finished run that
// printed warnings.
const mkvmergeWarningExit = 1

// Muxer runs mkvmerge for single jobs and batches.
type Muxer struct {
	binary string
	runner command.Runner
	log    *slog.Logger
}

// NewMuxer returns a Muxer using binary (default "mkvmerge").
func NewMuxer(binary string, runner command.Runner, logger *slog.Logger) *Muxer {
	if strings.TrimSpace(binary) == "" {
		binary = "mkvmerge"
	}
	if runner == nil {
		runner = command.ExecRunner{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Muxer{binary: binary, runner: runner, log: logger.With("component", "muxer")}
}

// Outcome is a successful mux.
type Outcome struct {
	Video    string `json:"video"`
	Output   string `json:"output"`
	Warnings string `json:"warnings,omitempty"`
}

// Mux writes job.Output. mkvmerge writes into a private temporary directory
// beside the output, and the result is linked into place, so concurrent jobs
// never share files and an existing output is never replaced. The subprocess
// is not tied to ctx: once started it runs to completion.
func (m *Muxer) Mux(ctx context.Context, job Job) (Outcome, error) {
	if _, err := os.Stat(job.Output); err == nil {
		return Outcome{}, fmt.Errorf("%s: %w", job.Output, ErrOutputExists)
	}

	dir := filepath.Dir(job.Output)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return Outcome{}, fmt.Errorf("create output directory: %w", err)
	}
	tmpDir := filepath.Join(dir, ".submux-"+uuid.NewString())
	if err := os.Mkdir(tmpDir, 0755); err != nil {
		return Outcome{}, fmt.Errorf("create temp directory: %w", err)
	}
	defer func() { _ = os.RemoveAll(tmpDir) }()

	tmp := filepath.Join(tmpDir, filepath.Base(job.Output))
	args := job.Args(tmp)
	m.log.Debug("executing mkvmerge", "video", job.Video, "args", args)

	out, err := m.runner.Run(context.WithoutCancel(ctx), m.binary, args)
	var warnings string
	if err != nil {
		var cmdErr *command.Error
		if !errors.As(err, &cmdErr) || cmdErr.ExitCode != mkvmergeWarningExit {
			return Outcome{}, &ToolError{Video: job.Video, Tool: "mkvmerge", Output: toolOutput(err, out), Err: err}
		}
		warnings = cmdErr.Output
		m.log.Warn("mkvmerge finished with warnings", "video", job.Video, "output", warnings)
	}

	if _, err := os.Stat(tmp); err != nil {
		return Outcome{}, &ToolError{Video: job.Video, Tool: "mkvmerge", Output: strings.TrimSpace(string(out)), Err: ErrNoOutput}
	}
	if err := place(tmp, job.Output); err != nil {
		return Outcome{}, err
	}

	m.log.Info("muxed video", "video", job.Video, "output", job.Output, "subtitles", len(job.Subtitles), "fonts", len(job.Fonts))
	return Outcome{Video: job.Video, Output: job.Output, Warnings: warnings}, nil
}

func toolOutput(err error, stdout []byte) string {
	var cmdErr *command.Error
	if errors.As(err, &cmdErr) {
		return cmdErr.Output
	}
	return strings.TrimSpace(string(stdout))
}

// place moves tmp to dst without replacing dst. Link fails if dst exists,
// which closes the gap a Stat before Rename would leave. Filesystems without
// hard links fall back to that check.
func place(tmp, dst string) error {
	err := os.Link(tmp, dst)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, fs.ErrExist):
		return fmt.Errorf("%s: %w", dst, ErrOutputExists)
	}

	if _, statErr := os.Lstat(dst); statErr == nil {
		return fmt.Errorf("%s: %w", dst, ErrOutputExists)
	}
	if err := os.Rename(tmp, dst); err != nil {
		return fmt.Errorf("move output into place: %w", err)
	}
	return nil
}
