package episode

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		filename    string
		season      int
		hasSeason   bool
		episode     float64
		hasEpisode  bool
		pattern     Pattern
		show        string
		showDisplay string
		group       string
	}{
		{"Show.Title.S01E05.1080p.mkv", 1, true, 5, true, PatternSeasonEpisode, "show title", "Show Title", ""},
		{"[Group] Show Title - 05.ass", 0, false, 5, true, PatternDash, "show title", "Show Title", "Group"},
		{"Ep01.mkv", 0, false, 1, true, PatternStandalone, "", "", ""},
		{"[A] Title - 12 [x264].mkv", 0, false, 12, true, PatternDash, "title", "Title", "A"},
		{"[B] Title.E12.srt", 0, false, 12, true, PatternStandalone, "title", "Title", "B"},
		{"Show 1x05 Title.mkv", 1, true, 5, true, PatternCross, "show", "Show", ""},
		{"Show.s02.e10.mkv", 2, true, 10, true, PatternSeasonEpisode, "show", "Show", ""},
		{"[SubsPlease] Show - 05.5 (1080p) [ABCD1234].mkv", 0, false, 5.5, true, PatternDash, "show", "Show", "SubsPlease"},
		{"[Group] Show [05v2][1080p].mkv", 0, false, 5, true, PatternBracketed, "show", "Show", "Group"},
		{"[Group] Show-07 [1080p].mkv", 0, false, 7, true, PatternDash, "show", "Show", "Group"},
		{"Show.Title.S01E05.1080p.WEB-DL.x264-GROUP.mkv", 1, true, 5, true, PatternSeasonEpisode, "show title", "Show Title", "GROUP"},
		{"Shōw_Tïtle_-_03.mkv", 0, false, 3, true, PatternDash, "show title", "Shōw Tïtle", ""},
		{"Random.mkv", 0, false, 0, false, PatternNone, "random", "Random", ""},
		{"[Group] Show [1080p].mkv", 0, false, 0, false, PatternNone, "show", "Show", "Group"},
		{"Show - 1080p.mkv", 0, false, 0, false, PatternNone, "show", "Show", ""},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			id := Extract(tt.filename)
			assert.Equal(t, tt.season, id.Season, "season")
			assert.Equal(t, tt.hasSeason, id.HasSeason, "has season")
			assert.Equal(t, tt.episode, id.Episode, "episode")
			assert.Equal(t, tt.hasEpisode, id.HasEpisode, "has episode")
			assert.Equal(t, tt.pattern, id.Pattern, "pattern")
			assert.Equal(t, tt.show, id.Show, "show")
			assert.Equal(t, tt.showDisplay, id.ShowDisplay, "show display")
			assert.Equal(t, tt.group, id.Group, "group")
		})
	}
}

func TestExtract_Years(t *testing.T) {
	tests := []struct {
		filename string
		show     string
	}{
		{"Show [2019].mkv", "show"},
		{"Show - 2019.mkv", "show 2019"},
	}
	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			id := Extract(tt.filename)
			assert.False(t, id.HasEpisode)
			assert.Equal(t, tt.show, id.Show)
		})
	}
}

func TestExtract_IgnoresTechGroups(t *testing.T) {
	id := Extract("[Group] Show [HEVC E10].E07.mkv")
	assert.True(t, id.HasEpisode)
	assert.Equal(t, float64(7), id.Episode)
	assert.Equal(t, "show", id.Show)
}

func TestExtract_GroupKeepsDisplayCase(t *testing.T) {
	tests := []struct {
		filename string
		group    string
	}{
		{"[SubsPlease] Show - 05.mkv", "SubsPlease"},
		{"[ Kawaii Subs ] Show - 05.ass", "Kawaii Subs"},
		{"Show - 05 [GJM].ass", "GJM"},
		{"Show.S01E05.1080p.WEB.x264-NTb.mkv", "NTb"},
	}
	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			assert.Equal(t, tt.group, Extract(tt.filename).Group)
		})
	}
}

func TestExtract_Suffixes(t *testing.T) {
	tests := []struct {
		filename string
		base     string
		lang     string
	}{
		{"Show - 05.eng.ass", "Show - 05", "eng"},
		{"Show - 05.en.srt", "Show - 05", "eng"},
		{"Show - 05.fre.ass", "Show - 05", "fra"},
		{"Show - 05.chapters.xml", "Show - 05", ""},
		{"Show - 05.tags.xml", "Show - 05", ""},
		{"chapters.xml", "chapters", ""},
		{"Show.Title.the.mkv", "Show.Title.the", ""},
		{"Show.Title.EN.ass", "Show.Title.EN", ""},
		{"/media/anime/Show - 05.mkv", "Show - 05", ""},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			id := Extract(tt.filename)
			assert.Equal(t, tt.base, id.BaseName)
			assert.Equal(t, tt.lang, id.Language)
		})
	}
}

func TestExtract_LanguageDoesNotChangeEpisode(t *testing.T) {
	plain := Extract("[Group] Show - 05.ass")
	tagged := Extract("[Group] Show - 05.eng.ass")
	assert.Equal(t, plain.Episode, tagged.Episode)
	assert.Equal(t, plain.Show, tagged.Show)
	assert.Equal(t, plain.BaseName, tagged.BaseName)
	assert.NotEqual(t, plain.RawName, tagged.RawName)
}

func TestExtract_Deterministic(t *testing.T) {
	names := []string{
		"Show.Title.S01E05.1080p.mkv",
		"[Group] Show Title - 05.ass",
		"Ep01.mkv",
		"[A] Title - 12 [x264].mkv",
		"[SubsPlease] Show - 05.5 (1080p) [ABCD1234].mkv",
		"",
		".",
		"[]",
		"---",
		"S01E",
		"Ünïcödé - 01.srt",
	}
	for _, name := range names {
		assert.Equal(t, Extract(name), Extract(name), name)
	}
}

func TestStem(t *testing.T) {
	assert.Equal(t, "Show - 05", Stem("dir/Show - 05.mkv"))
	assert.Equal(t, "Show - 05.eng", Stem("Show - 05.eng.ASS"))
	assert.Equal(t, "Show.Vol.2", Stem("Show.Vol.2"))
	assert.Equal(t, ".mkv", Stem(".mkv"))
}

func TestIdentity_EpisodeLabel(t *testing.T) {
	tests := []struct {
		name string
		id   Identity
		want string
	}{
		{"season", Identity{Season: 1, HasSeason: true, Episode: 5, HasEpisode: true}, "S01E05"},
		{"absolute", Identity{Episode: 12, HasEpisode: true}, "12"},
		{"padded", Identity{Episode: 3, HasEpisode: true}, "03"},
		{"special", Identity{Episode: 5.5, HasEpisode: true}, "05.5"},
		{"long", Identity{Episode: 105, HasEpisode: true}, "105"},
		{"none", Identity{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.id.EpisodeLabel())
		})
	}
}

func TestIdentity_String(t *testing.T) {
	id := Extract("[Group] Show Title - 05.ass")
	assert.Equal(t, "05 show title [Group]", id.String())
	assert.Equal(t, "- random", Extract("Random.mkv").String())
}
