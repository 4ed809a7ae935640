package engine

import "errors"

var (
	// ErrNotDirectory indicates the requested root is not a directory.
	ErrNotDirectory = errors.New("not a directory")

	// ErrInvalidOverride indicates a manual override names a file that does
	// not exist.
	ErrInvalidOverride = errors.New("invalid override")

	// ErrDuplicateOutput indicates two videos in one run would be written to
	// the same output path.
	ErrDuplicateOutput = errors.New("duplicate output path")
)
