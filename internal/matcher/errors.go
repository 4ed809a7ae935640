package matcher

import "errors"

var (
	// ErrInvalidOptions wraps every option validation failure. The message
	// names the offending option.
	ErrInvalidOptions = errors.New("invalid matcher options")

	// ErrUnknownVideo indicates an override for a video that is not in the set.
	ErrUnknownVideo = errors.New("video not in result set")

	// ErrInvalidOverride indicates an override with no companion path.
	ErrInvalidOverride = errors.New("invalid override")
)
