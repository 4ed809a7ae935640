package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/submux/pkg/episode/scoring"
)

func TestResultSet_Override(t *testing.T) {
	video := p("movie", "Random.mkv")
	manual := p("movie", "picked.eng.srt")
	set := newMatcher(t, nil).Match([]string{video}, []string{p("movie", "Unrelated.srt")})

	require.NoError(t, set.Override(video, manual))
	once, _ := set.Get(video)
	assert.Equal(t, manual, once.Companion)
	assert.Equal(t, scoring.RuleManual, once.Rule)
	assert.Equal(t, 1.0, once.Confidence)
	assert.Equal(t, "eng", once.Language)
	require.Len(t, once.Accepted, 1)

	require.NoError(t, set.Override(video, manual))
	twice, _ := set.Get(video)
	assert.Equal(t, once, twice)
}

func TestResultSet_OverrideReplacesAutomaticChoice(t *testing.T) {
	video := p("show", "Show - 05.mkv")
	auto := p("show", "Show - 05.ass")
	manual := p("show", "other.ass")
	set := newMatcher(t, func(o *Options) { o.AllMatch = true }).Match([]string{video}, []string{auto})

	require.NoError(t, set.Override(video, manual))
	res, _ := set.Get(video)
	assert.Equal(t, manual, res.Companion)
	assert.Equal(t, []Candidate{{Path: manual, Confidence: 1, Rule: scoring.RuleManual}}, res.Accepted)
	require.Len(t, res.Candidates, 1, "ranked candidates are kept for display")
	assert.Equal(t, auto, res.Candidates[0].Path)
}

func TestResultSet_OverrideUsesLanguageOverride(t *testing.T) {
	video := p("show", "Show - 05.mkv")
	set := newMatcher(t, func(o *Options) { o.Language = "fre" }).Match([]string{video}, nil)

	require.NoError(t, set.Override(video, p("show", "x.eng.ass")))
	res, _ := set.Get(video)
	assert.Equal(t, "fra", res.Language)
}

func TestResultSet_OverrideErrors(t *testing.T) {
	video := p("show", "Show - 05.mkv")
	set := newMatcher(t, nil).Match([]string{video}, nil)

	err := set.Override(p("show", "missing.mkv"), p("show", "x.ass"))
	assert.ErrorIs(t, err, ErrUnknownVideo)

	err = set.Override(video, "")
	assert.ErrorIs(t, err, ErrInvalidOverride)

	res, _ := set.Get(video)
	assert.False(t, res.Matched())
}

func TestResultSet_GetReturnsCopy(t *testing.T) {
	video := p("show", "Show - 05.mkv")
	sub := p("show", "Show - 05.ass")
	set := newMatcher(t, nil).Match([]string{video}, []string{sub})

	res, _ := set.Get(video)
	res.Candidates[0].Path = "mutated"
	again, _ := set.Get(video)
	assert.Equal(t, sub, again.Candidates[0].Path)
}

func TestResultSet_Summary(t *testing.T) {
	videos := []string{
		p("show", "Show - 05.mkv"),
		p("movie", "Some Movie Title.mkv"),
		p("movie", "Random.mkv"),
	}
	subs := []string{
		p("show", "Show - 05.ass"),
		p("movie", "Some Movie Title Extended.srt"),
	}
	set := newMatcher(t, func(o *Options) { o.ConfidenceThreshold = 0.69 }).Match(videos, subs)

	assert.Equal(t, Summary{Total: 3, HighConfidence: 1, LowConfidence: 1, Unmatched: 1}, set.Summary())
	assert.Equal(t, 0.69, set.Threshold())
}
