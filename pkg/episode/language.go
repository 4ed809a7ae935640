package episode

import (
	"strings"

	"golang.org/x/text/language"
)

// bibliographicCodes maps ISO 639-2/B codes, common in subtitle releases, to
// the terminology codes that x/text understands.
var bibliographicCodes = map[string]string{
	"alb": "sqi", "arm": "hye", "baq": "eus", "bur": "mya", "chi": "zho",
	"cze": "ces", "dut": "nld", "fre": "fra", "geo": "kat", "ger": "deu",
	"gre": "ell", "ice": "isl", "mac": "mkd", "may": "msa", "mao": "mri",
	"per": "fas", "rum": "ron", "slo": "slk", "tib": "bod", "wel": "cym",
}

// ParseLanguage normalises a two- or three-letter language code to its
// ISO 639-2 form ("en" -> "eng", "fre" -> "fra"). Codes without a two-letter
// equivalent are rejected, which keeps words like "the" or "end" out.
func ParseLanguage(code string) (string, bool) {
	code = strings.ToLower(strings.TrimSpace(code))
	if len(code) < 2 || len(code) > 3 {
		return "", false
	}
	if t, ok := bibliographicCodes[code]; ok {
		code = t
	}
	base, err := language.ParseBase(code)
	if err != nil {
		return "", false
	}
	if len(base.String()) != 2 {
		return "", false
	}
	return base.ISO3(), true
}

// languageSuffix accepts only lower-case ASCII suffixes, so title words such
// as "Show.Title.It" are not mistaken for a language.
func languageSuffix(s string) (string, bool) {
	if len(s) < 2 || len(s) > 3 {
		return "", false
	}
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return "", false
		}
	}
	return ParseLanguage(s)
}
