// Package episode extracts season, episode, show and release-group
// information from media and companion filenames.
package episode

import (
	"fmt"
	"strconv"
	"strings"
)

// Pattern names the token pattern that produced an episode number.
type Pattern string

const (
	PatternNone          Pattern = ""
	PatternSeasonEpisode Pattern = "season_episode" // S01E05
	PatternCross         Pattern = "cross"          // 1x05
	PatternBracketed     Pattern = "bracketed"      // [05], [05.5]
	PatternDash          Pattern = "dash"           // - 05, -05
	PatternStandalone    Pattern = "standalone"     // E05, Ep05
)

// Identity is what a filename says about the media it names.
// Identities are immutable values; copying one is always safe.
type Identity struct {
	RawName  string // filename stem, for display and debugging
	BaseName string // RawName without a language or .chapters/.tags suffix

	Season     int
	HasSeason  bool
	Episode    float64 // fractional for specials, e.g. 5.5
	HasEpisode bool
	Pattern    Pattern

	Show        string // normalized show fragment used for comparison
	ShowDisplay string // original-case show fragment used for output names
	Group       string // release group as written, trimmed; empty when none was found
	Language    string // ISO 639-2 code from a ".eng"-style suffix
}

// EpisodeLabel formats the episode for filenames: S01E05 when a season is
// known, 05 otherwise, and 05.5 for fractional specials. Returns "" when the
// episode is unknown.
func (id Identity) EpisodeLabel() string {
	if !id.HasEpisode {
		return ""
	}
	ep := formatEpisode(id.Episode)
	if id.HasSeason {
		return fmt.Sprintf("S%02dE%s", id.Season, ep)
	}
	return ep
}

// String renders a short debugging form, e.g. "S01E05 show title [group]".
func (id Identity) String() string {
	var b strings.Builder
	if label := id.EpisodeLabel(); label != "" {
		b.WriteString(label)
	} else {
		b.WriteString("-")
	}
	if id.Show != "" {
		b.WriteString(" ")
		b.WriteString(id.Show)
	}
	if id.Group != "" {
		b.WriteString(" [")
		b.WriteString(id.Group)
		b.WriteString("]")
	}
	return b.String()
}

func formatEpisode(ep float64) string {
	s := strconv.FormatFloat(ep, 'f', -1, 64)
	_, frac, found := strings.Cut(s, ".")
	if !found {
		return fmt.Sprintf("%02d", int(ep))
	}
	return fmt.Sprintf("%02d.%s", int(ep), frac)
}
