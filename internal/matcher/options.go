package matcher

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/vmunix/submux/pkg/episode"
)

// DefaultThreshold is the minimum confidence for automatic selection.
const DefaultThreshold = 0.6

// Options controls candidate selection. A Matcher keeps its own copy, so
// changing an Options value after New has no effect on it.
type Options struct {
	// Strict drops fuzzy_show_name matches; only exact filename and episode
	// number matches are considered.
	Strict bool

	// ForceAll attaches every companion in the video's own directory with
	// confidence 1.0, bypassing scoring for that directory.
	ForceAll bool

	// AllMatch accepts every candidate at or above the threshold instead of
	// only the best one.
	AllMatch bool

	// ConfidenceThreshold is within [0,1]. Candidates below it stay visible
	// for manual override but are never selected automatically.
	ConfidenceThreshold float64

	// Language, when set, replaces any language inferred from filenames.
	Language string

	// CompanionDirs are subdirectory names (matched case-insensitively) next
	// to a video that are searched along with the video's own directory.
	CompanionDirs []string

	// Similarity selects the show-name similarity: "levenshtein" (default)
	// or "jaro-winkler".
	Similarity string
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		ConfidenceThreshold: DefaultThreshold,
		CompanionDirs:       []string{"subs", "subtitles"},
		Similarity:          episode.SimilarityLevenshtein,
	}
}

// Validate checks every option and returns an error wrapping
// ErrInvalidOptions that names the first offending option.
func (o Options) Validate() error {
	if math.IsNaN(o.ConfidenceThreshold) || o.ConfidenceThreshold < 0 || o.ConfidenceThreshold > 1 {
		return fmt.Errorf("%w: confidence_threshold: must be within [0,1], got %v", ErrInvalidOptions, o.ConfidenceThreshold)
	}
	if o.Language != "" {
		if _, ok := episode.ParseLanguage(o.Language); !ok {
			return fmt.Errorf("%w: language: unknown language code %q", ErrInvalidOptions, o.Language)
		}
	}
	if _, err := episode.SimilarityByName(o.Similarity); err != nil {
		return fmt.Errorf("%w: similarity: %v", ErrInvalidOptions, err)
	}
	for _, dir := range o.CompanionDirs {
		if dir == "" || dir == "." || dir == ".." || strings.ContainsAny(dir, `/\`) {
			return fmt.Errorf("%w: companion_dirs: %q is not a directory name", ErrInvalidOptions, dir)
		}
	}
	return nil
}

func (o Options) clone() Options {
	o.CompanionDirs = slices.Clone(o.CompanionDirs)
	if o.Language != "" {
		o.Language, _ = episode.ParseLanguage(o.Language)
	}
	return o
}
