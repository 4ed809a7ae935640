package episode

import (
	"path/filepath"
	"regexp"
	"strings"
)

// knownExts are the extensions stripped from a filename before extraction.
// Anything else is treated as part of the stem, so "Show.Vol.2" keeps ".2".
var knownExts = map[string]bool{
	"mkv": true, "mp4": true, "avi": true, "m4v": true, "webm": true,
	"ts": true, "m2ts": true, "mov": true, "wmv": true,
	"ass": true, "ssa": true, "srt": true, "sub": true, "vtt": true,
	"idx": true, "sup": true, "xml": true,
	"ttf": true, "otf": true, "ttc": true,
}

// kindSuffixes mark companion files that share a video's stem,
// e.g. "Show - 05.chapters.xml".
var kindSuffixes = []string{".chapters", ".tags"}

var (
	leadingGroupRe  = regexp.MustCompile(`^(?:\[[^\[\]]*\]|\([^()]*\))`)
	trailingGroupRe = regexp.MustCompile(`(?:\[[^\[\]]*\]|\([^()]*\))$`)
	leadingSquareRe = regexp.MustCompile(`^\s*\[([^\[\]]+)\]`)
	trailSquareRe   = regexp.MustCompile(`\[([^\[\]]+)\]\s*$`)
	dashGroupRe     = regexp.MustCompile(`-([A-Za-z0-9]+)$`)
	wordRe          = regexp.MustCompile(`[^\s._\[\]()]+`)
)

// Extract parses a filename (with or without directories) into an Identity.
// It never fails: names without a recognised episode token yield an Identity
// with HasEpisode unset and a show fragment derived from the whole stem.
func Extract(filename string) Identity {
	stem := Stem(filename)
	base, lang := splitSuffixes(stem)

	id := Identity{
		RawName:  stem,
		BaseName: base,
		Language: lang,
	}

	start := -1
	spans := ignoreSpans(base)
	for _, p := range patterns {
		found, pos, ok := p.find(base, spans)
		if !ok {
			continue
		}
		id.Season, id.HasSeason = found.Season, found.HasSeason
		id.Episode, id.HasEpisode = found.Episode, found.HasEpisode
		id.Pattern = found.Pattern
		start = pos
		break
	}

	prefix := base
	if start >= 0 {
		prefix = base[:start]
	}
	id.ShowDisplay = showFragment(prefix)
	id.Show = NormalizeShow(id.ShowDisplay)
	id.Group = releaseGroup(base)
	return id
}

// Stem returns the base filename without a recognised media, subtitle,
// chapter/tag or font extension.
func Stem(filename string) string {
	name := filepath.Base(filename)
	ext := filepath.Ext(name)
	if ext != "" && knownExts[strings.ToLower(ext[1:])] && len(ext) < len(name) {
		return strings.TrimSuffix(name, ext)
	}
	return name
}

// splitSuffixes removes a ".chapters"/".tags" kind suffix and then a
// language suffix from stem.
func splitSuffixes(stem string) (base, lang string) {
	base = stem
	lower := strings.ToLower(base)
	for _, suffix := range kindSuffixes {
		if strings.HasSuffix(lower, suffix) && len(lower) > len(suffix) {
			base = base[:len(base)-len(suffix)]
			break
		}
	}

	i := strings.LastIndexByte(base, '.')
	if i <= 0 {
		return base, ""
	}
	if code, ok := languageSuffix(base[i+1:]); ok {
		return base[:i], code
	}
	return base, ""
}

// showFragment cleans the part of a name before the episode token into a
// display title: bracketed groups and noise stripped, separators collapsed.
func showFragment(s string) string {
	for {
		t := strings.TrimLeft(s, " ._-")
		loc := leadingGroupRe.FindStringIndex(t)
		if loc == nil {
			s = t
			break
		}
		s = t[loc[1]:]
	}

	s = s[:noiseStart(s)]

	for {
		t := strings.TrimRight(s, " ._-")
		loc := trailingGroupRe.FindStringIndex(t)
		if loc == nil {
			s = t
			break
		}
		s = t[:loc[0]]
	}

	s = strings.NewReplacer(".", " ", "_", " ").Replace(s)
	s = strings.Join(strings.Fields(s), " ")
	return strings.Trim(s, " -~:,")
}

// noiseStart returns the offset of the first resolution/codec keyword or
// keyword-bearing group in s, or len(s) when there is none.
func noiseStart(s string) int {
	cut := len(s)
	for _, loc := range groupRe.FindAllStringIndex(s, -1) {
		if isTechGroup(s[loc[0]+1 : loc[1]-1]) {
			cut = loc[0]
			break
		}
	}
	for _, loc := range wordRe.FindAllStringIndex(s, -1) {
		if loc[0] >= cut {
			break
		}
		if isTechToken(s[loc[0]:loc[1]]) {
			return loc[0]
		}
	}
	return cut
}

// releaseGroup returns the outermost leading or trailing square-bracket token
// that is not numeric, a checksum, or a resolution/codec keyword. Scene-style
// "x264-GROUP" suffixes are used when no bracketed group qualifies. The group
// keeps its case because it becomes a track name; nothing compares on it.
func releaseGroup(base string) string {
	if m := leadingSquareRe.FindStringSubmatch(base); m != nil {
		if g := strings.TrimSpace(m[1]); validGroup(g) {
			return g
		}
	}
	if m := trailSquareRe.FindStringSubmatch(base); m != nil {
		if g := strings.TrimSpace(m[1]); validGroup(g) {
			return g
		}
	}

	words := strings.FieldsFunc(base, func(r rune) bool { return r == ' ' || r == '.' || r == '_' })
	if len(words) < 2 {
		return ""
	}
	last := words[len(words)-1]
	m := dashGroupRe.FindStringSubmatch(last)
	if m == nil || techTokenRe.MatchString(last) {
		return ""
	}
	// Only trust the suffix after a codec/source keyword (x264-GROUP), so
	// hyphenated titles like Spider-Man are left alone.
	if !techTokenRe.MatchString(strings.TrimSuffix(last, m[0])) || !validGroup(m[1]) {
		return ""
	}
	return m[1]
}

func validGroup(g string) bool {
	if g == "" || numericRe.MatchString(g) || crcRe.MatchString(g) {
		return false
	}
	return !isTechGroup(g)
}
