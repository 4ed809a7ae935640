package mux

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/submux/pkg/episode"
)

func TestNamer_FileName(t *testing.T) {
	tests := []struct {
		name   string
		video  string
		tag    string
		params []string
		want   string
	}{
		{"season episode", "Show.Title.S01E05.1080p.mkv", "MySubs", []string{"1080p", "10bit", "HEVC"}, "[MySubs] Show Title - S01E05 [1080p 10bit HEVC].mkv"},
		{"absolute", "[Group] Show - 12 [x264].mkv", "Tag", []string{"720p"}, "[Tag] Show - 12 [720p].mkv"},
		{"special", "[Group] Show - 05.5.mkv", "Tag", nil, "[Tag] Show - 05.5.mkv"},
		{"no episode", "Some Movie.mkv", "Tag", []string{"1080p"}, "[Tag] Some Movie [1080p].mkv"},
		{"default tag", "Show - 01.mkv", "", nil, "[MySubs] Show - 01.mkv"},
		{"unsafe show", "Show: Part?2 - 01.mkv", "Tag", nil, "[Tag] Show Part 2 - 01.mkv"},
		{"episode only", "Ep01.mkv", "Tag", nil, "[Tag] Ep01 - 01.mkv"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := Namer{Tag: tt.tag}
			assert.Equal(t, tt.want, n.FileName(episode.Extract(tt.video), tt.params, ".mkv"))
		})
	}
}

func TestNamer_Dir(t *testing.T) {
	video := filepath.Join("/media", "anime", "[Group] Show - 05.mkv")
	id := episode.Extract(video)

	assert.Equal(t, filepath.Join("/media", "anime", "Show"), Namer{Tag: "T"}.Dir(video, id))
	assert.Equal(t, filepath.Join("/out", "[T] Show"), Namer{Tag: "T", OutputDir: "/out"}.Dir(video, id))
}

func TestNamer_Path(t *testing.T) {
	video := filepath.Join("/media", "Show.S01E02.mkv")
	path, err := Namer{OutputDir: "/out"}.Path(video, episode.Extract(video), []string{"1080p"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/out", "[MySubs] Show", "[MySubs] Show - S01E02 [1080p].mkv"), path)
}
