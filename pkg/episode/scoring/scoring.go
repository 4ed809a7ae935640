// Package scoring computes how confidently a companion file belongs to a
// video from their extracted identities.
package scoring

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/vmunix/submux/pkg/episode"
)

// Rule names the rule that produced a confidence.
type Rule int

const (
	RuleNone Rule = iota
	RuleFuzzyShowName
	RuleEpisodeNumber
	RuleExactFilename
	RuleForced
	RuleManual
)

func (r Rule) String() string {
	switch r {
	case RuleFuzzyShowName:
		return "fuzzy_show_name"
	case RuleEpisodeNumber:
		return "episode_number"
	case RuleExactFilename:
		return "exact_filename"
	case RuleForced:
		return "forced"
	case RuleManual:
		return "manual"
	default:
		return "none"
	}
}

// MarshalText renders the rule name in JSON output.
func (r Rule) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText accepts the names produced by MarshalText.
func (r *Rule) UnmarshalText(text []byte) error {
	for _, rule := range []Rule{RuleNone, RuleFuzzyShowName, RuleEpisodeNumber, RuleExactFilename, RuleForced, RuleManual} {
		if rule.String() == string(text) {
			*r = rule
			return nil
		}
	}
	return fmt.Errorf("unknown rule %q", text)
}

// Priority orders rules when confidences tie. Higher wins.
func (r Rule) Priority() int {
	switch r {
	case RuleManual:
		return 5
	case RuleExactFilename:
		return 4
	case RuleForced:
		return 3
	case RuleEpisodeNumber:
		return 2
	case RuleFuzzyShowName:
		return 1
	default:
		return 0
	}
}

// Confidence calibration.
const (
	ConfidenceExact = 1.0

	EpisodeBase  = 0.6
	EpisodeBoost = 0.35

	FuzzyBase    = 0.5
	FuzzyBoost   = 0.2
	FuzzyCeiling = 0.7
	FuzzyFloor   = 0.4
)

// Score rates candidate against video. Rules are tried in order: exact
// filename, episode/season agreement boosted by show similarity, show
// similarity alone when neither side has an episode. The result is always
// within [0,1]; RuleNone means the candidate does not match.
func Score(video, candidate episode.Identity, sim episode.Similarity) (float64, Rule) {
	if strings.EqualFold(video.BaseName, candidate.BaseName) {
		return ConfidenceExact, RuleExactFilename
	}

	if video.HasEpisode && candidate.HasEpisode {
		if !sameEpisode(video, candidate) {
			return 0, RuleNone
		}
		s := bounded(sim(video.Show, candidate.Show))
		return math.Min(EpisodeBase+EpisodeBoost*s, 1), RuleEpisodeNumber
	}

	if !video.HasEpisode && !candidate.HasEpisode {
		s := bounded(sim(video.Show, candidate.Show))
		if s <= FuzzyFloor {
			return 0, RuleNone
		}
		return math.Min(FuzzyBase+FuzzyBoost*s, FuzzyCeiling), RuleFuzzyShowName
	}

	return 0, RuleNone
}

// sameEpisode compares episodes numerically and seasons only when both sides
// carry one.
func sameEpisode(a, b episode.Identity) bool {
	if a.Episode != b.Episode {
		return false
	}
	if a.HasSeason && b.HasSeason && a.Season != b.Season {
		return false
	}
	return true
}

func bounded(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Scored is one ranked candidate.
type Scored struct {
	Path       string
	Confidence float64
	Rule       Rule
}

// Less reports whether a ranks ahead of b: higher confidence, then higher
// rule priority, then the lexicographically first filename, then full path.
func Less(a, b Scored) bool {
	if a.Confidence != b.Confidence {
		return a.Confidence > b.Confidence
	}
	if pa, pb := a.Rule.Priority(), b.Rule.Priority(); pa != pb {
		return pa > pb
	}
	na, nb := filepath.Base(a.Path), filepath.Base(b.Path)
	if na != nb {
		return na < nb
	}
	return a.Path < b.Path
}
