package mux

import (
	"errors"
	"fmt"
)

var (
	// ErrOutputExists indicates the output file already exists.
	ErrOutputExists = errors.New("output file already exists")

	// ErrPathTraversal indicates a generated path escaped its output root.
	ErrPathTraversal = errors.New("path traversal detected")

	// ErrLocked indicates another run holds the output directory.
	ErrLocked = errors.New("output directory is locked by another run")

	// ErrNoOutput indicates the muxing tool exited cleanly without writing
	// the output file.
	ErrNoOutput = errors.New("muxing tool produced no output")
)

// ToolError reports a failed external tool run for one video, with the
// tool's diagnostic output.
type ToolError struct {
	Video  string
	Tool   string
	Output string
	Err    error
}

func (e *ToolError) Error() string {
	if e.Output == "" {
		return fmt.Sprintf("%s failed for %s: %v", e.Tool, e.Video, e.Err)
	}
	return fmt.Sprintf("%s failed for %s: %v\n%s", e.Tool, e.Video, e.Err, e.Output)
}

func (e *ToolError) Unwrap() error {
	return e.Err
}
