package episode

import (
	"regexp"
	"strconv"
	"strings"
)

// episodeNum matches an episode number with an optional one-digit decimal
// for specials and an optional release version suffix (05v2).
const episodeNum = `(\d{1,4}(?:\.\d)?)(?:v\d+)?`

// tokenPattern is one entry in the ordered pattern table. Group 1 of re
// spans the episode token itself; extract receives the submatches after it
// and reports ok=false to reject a match (for example a bracketed year), in
// which case later matches of the same pattern are tried.
type tokenPattern struct {
	name    Pattern
	re      *regexp.Regexp
	extract func(m []string) (season int, hasSeason bool, episode float64, ok bool)
}

// patterns is tried in order; the first pattern with an accepted match wins.
// New naming conventions are added by inserting entries, most specific first.
var patterns = []tokenPattern{
	{
		name:    PatternSeasonEpisode,
		re:      regexp.MustCompile(`(?i)(?:^|[^a-z])(s(\d{1,4})[\s._-]?e` + episodeNum + `)(?:[^0-9]|$)`),
		extract: seasonAndEpisode,
	},
	{
		name:    PatternCross,
		re:      regexp.MustCompile(`(?i)(?:^|[^0-9a-z])((\d{1,2})x` + episodeNum + `)(?:[^0-9a-z]|$)`),
		extract: seasonAndEpisode,
	},
	{
		name:    PatternBracketed,
		re:      regexp.MustCompile(`(\[` + episodeNum + `\])`),
		extract: episodeOnly,
	},
	{
		name:    PatternDash,
		re:      regexp.MustCompile(`(?:^|[\s_])(-[\s_]*` + episodeNum + `)(?:[\s\[\(._]|$)`),
		extract: episodeOnly,
	},
	{
		name:    PatternDash,
		re:      regexp.MustCompile(`[^\s\d-](-` + episodeNum + `)(?:[\s\[\(._]|$)`),
		extract: episodeOnly,
	},
	{
		name:    PatternStandalone,
		re:      regexp.MustCompile(`(?i)(?:^|[^a-z0-9])((?:episode|ep|e)[\s._]?` + episodeNum + `)(?:[^0-9]|$)`),
		extract: episodeOnly,
	},
}

// find returns the first accepted match of p in name whose token does not
// start inside an ignore span, along with the token's start offset.
func (p tokenPattern) find(name string, spans [][2]int) (Identity, int, bool) {
	for _, loc := range p.re.FindAllStringSubmatchIndex(name, -1) {
		start := loc[2]
		if inSpans(start, spans) {
			continue
		}
		m := make([]string, 0, len(loc)/2-2)
		for i := 4; i+1 < len(loc); i += 2 {
			if loc[i] < 0 {
				m = append(m, "")
				continue
			}
			m = append(m, name[loc[i]:loc[i+1]])
		}
		season, hasSeason, ep, ok := p.extract(m)
		if !ok {
			continue
		}
		return Identity{
			Season:     season,
			HasSeason:  hasSeason,
			Episode:    ep,
			HasEpisode: true,
			Pattern:    p.name,
		}, start, true
	}
	return Identity{}, -1, false
}

func seasonAndEpisode(m []string) (int, bool, float64, bool) {
	season, err := strconv.Atoi(m[0])
	if err != nil {
		return 0, false, 0, false
	}
	ep, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false, 0, false
	}
	return season, true, ep, true
}

func episodeOnly(m []string) (int, bool, float64, bool) {
	if isYear(m[0]) {
		return 0, false, 0, false
	}
	ep, err := strconv.ParseFloat(m[0], 64)
	if err != nil {
		return 0, false, 0, false
	}
	return 0, false, ep, true
}

// isYear reports whether a bare number is more likely a release year than an
// absolute episode number.
func isYear(s string) bool {
	if len(s) != 4 {
		return false
	}
	n, err := strconv.Atoi(s)
	return err == nil && n >= 1900 && n <= 2099
}

// groupRe matches a bracketed or parenthesised group anywhere in a name.
var groupRe = regexp.MustCompile(`\[[^\[\]]*\]|\([^()]*\)`)

// techTokenRe matches resolution, codec, source and audio keywords that never
// belong to a show title or release group.
var techTokenRe = regexp.MustCompile(`(?i)^(?:\d{3,4}[pi]|\d{3,4}x\d{3,4}|4k|uhd|hdr|hevc|avc|x26[45]|h26[45]|hi10p?|\d{1,2}-?bits?|flac|aac|ac3|eac3|opus|mp3|dts|truehd|bd|bdrip|brrip|bluray|blu-ray|web|web-?dl|webrip|dvd|dvdrip|hdtv|remux|dual|multi|multisub)$`)

// crcRe matches the 8-digit hex checksum that fansub releases append.
var crcRe = regexp.MustCompile(`^[0-9A-Fa-f]{8}$`)

// numericRe matches purely numeric tokens, including decimals and versions.
var numericRe = regexp.MustCompile(`^\d+(?:\.\d+)?(?:v\d+)?$`)

// isTechToken reports whether a single word is a resolution/codec keyword.
func isTechToken(word string) bool {
	if techTokenRe.MatchString(word) {
		return true
	}
	for _, part := range strings.Split(word, "-") {
		if part != "" && techTokenRe.MatchString(part) {
			return true
		}
	}
	return false
}

// isTechGroup reports whether the contents of a bracketed group carry any
// resolution/codec keyword, e.g. "1080p HEVC" or "BD x265-10bit FLAC".
func isTechGroup(content string) bool {
	for _, word := range splitWords(content) {
		if isTechToken(word) {
			return true
		}
	}
	return false
}

func splitWords(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		switch r {
		case ' ', '\t', '.', '_', ',', '+', '[', ']', '(', ')':
			return true
		}
		return false
	})
}

// ignoreSpans returns the byte ranges of bracketed groups that carry
// resolution/codec keywords. Episode matches starting inside them are noise.
func ignoreSpans(name string) [][2]int {
	var spans [][2]int
	for _, loc := range groupRe.FindAllStringIndex(name, -1) {
		if isTechGroup(name[loc[0]+1 : loc[1]-1]) {
			spans = append(spans, [2]int{loc[0], loc[1]})
		}
	}
	return spans
}

func inSpans(pos int, spans [][2]int) bool {
	for _, s := range spans {
		if pos >= s[0] && pos < s[1] {
			return true
		}
	}
	return false
}
