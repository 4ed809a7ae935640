package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vmunix/submux/internal/matcher"
	"github.com/vmunix/submux/pkg/episode/scoring"
)

func TestRenderTable(t *testing.T) {
	out := renderTable(
		[]string{"VIDEO", "CONF"},
		[][]string{{"a.mkv", "100%"}, {"b.mkv"}},
		[]columnAlignment{alignLeft, alignRight},
		false,
	)
	assert.Contains(t, out, "VIDEO")
	assert.Contains(t, out, "a.mkv")
	assert.Contains(t, out, "100%")
	assert.Contains(t, out, "b.mkv")
	assert.NotContains(t, out, "╭", "plain output has no box drawing")

	pretty := renderTable([]string{"A"}, [][]string{{"x"}}, nil, true)
	assert.Contains(t, pretty, "╭")
}

func TestRenderTable_NoColumns(t *testing.T) {
	assert.Empty(t, renderTable(nil, [][]string{{"x"}}, nil, true))
}

func TestIsTerminal_Buffer(t *testing.T) {
	assert.False(t, isTerminal(&bytes.Buffer{}))
}

func TestFormatConfidence(t *testing.T) {
	assert.Equal(t, "100%", formatConfidence(1))
	assert.Equal(t, "85%", formatConfidence(0.85))
	assert.Equal(t, "0%", formatConfidence(0))
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	assert.NoError(t, printJSON(&buf, map[string]int{"a": 1}))
	assert.Equal(t, "{\n  \"a\": 1\n}", strings.TrimSpace(buf.String()))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, "DEBUG", parseLevel("debug").String())
	assert.Equal(t, "WARN", parseLevel("warning").String())
	assert.Equal(t, "ERROR", parseLevel("ERROR").String())
	assert.Equal(t, "INFO", parseLevel("").String())
}

func TestMatchRow(t *testing.T) {
	root := filepath.Join(string(filepath.Separator), "m")
	video := filepath.Join(root, "Show - 05.mkv")
	sub := filepath.Join(root, "subs", "Show - 05.ass")
	other := filepath.Join(root, "subs", "Show - 05 v2.ass")

	tests := []struct {
		name   string
		result matcher.Result
		want   []string
	}{
		{
			name: "matched",
			result: matcher.Result{
				Video: video, Companion: sub, Confidence: 0.95, Rule: scoring.RuleEpisodeNumber,
				Accepted: []matcher.Candidate{{Path: sub}},
			},
			want: []string{"Show - 05.mkv", filepath.Join("subs", "Show - 05.ass"), "95%", "episode_number", ""},
		},
		{
			name: "matched with extra tracks",
			result: matcher.Result{
				Video: video, Companion: sub, Confidence: 1, Rule: scoring.RuleExactFilename,
				Accepted: []matcher.Candidate{{Path: sub}, {Path: other}},
			},
			want: []string{"Show - 05.mkv", filepath.Join("subs", "Show - 05.ass"), "100%", "exact_filename", "+1 more"},
		},
		{
			name: "below threshold",
			result: matcher.Result{
				Video:      video,
				Candidates: []matcher.Candidate{{Path: other, Confidence: 0.55, Rule: scoring.RuleFuzzyShowName}},
			},
			want: []string{"Show - 05.mkv", filepath.Join("subs", "Show - 05 v2.ass"), "55%", "fuzzy_show_name", "below threshold (60%)"},
		},
		{
			name:   "no candidates",
			result: matcher.Result{Video: video},
			want:   []string{"Show - 05.mkv", "(none)", "", "", "no candidates"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, matchRow(root, tt.result, 0.6))
		})
	}
}
