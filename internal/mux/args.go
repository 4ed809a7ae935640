package mux

import (
	"path/filepath"
	"strings"

	"github.com/vmunix/submux/internal/probe"
)

// Track is a subtitle track to add.
type Track struct {
	Path     string `json:"path"`
	Language string `json:"language,omitempty"`
	Name     string `json:"name,omitempty"`
}

// Attachment is a font to attach.
type Attachment struct {
	Path     string `json:"path"`
	Language string `json:"language,omitempty"`
}

// Job is everything needed to mux one video.
type Job struct {
	Video          string          `json:"video"`
	VideoTrackName string          `json:"video_track_name,omitempty"`
	Subtitles      []Track         `json:"subtitles,omitempty"`
	Fonts          []Attachment    `json:"fonts,omitempty"`
	Chapters       string          `json:"chapters,omitempty"`
	Tags           string          `json:"tags,omitempty"`
	Source         probe.Container `json:"source"`
	Output         string          `json:"output"`
}

// Args builds the mkvmerge command line writing to output. Source chapters
// are dropped unless the source has them and no external file replaces
// them; source tags are dropped when the source has none and no external
// tags are given.
func (j Job) Args(output string) []string {
	args := []string{"-o", output}

	if j.Chapters != "" || !j.Source.HasChapters {
		args = append(args, "--no-chapters")
	}
	switch {
	case j.Tags != "":
		args = append(args, "--tags", "0:"+j.Tags)
	case !j.Source.HasTags:
		args = append(args, "--no-global-tags")
	}
	if j.VideoTrackName != "" {
		args = append(args, "--track-name", "0:"+j.VideoTrackName)
	}
	args = append(args, j.Video)

	for _, s := range j.Subtitles {
		if s.Language != "" {
			args = append(args, "--language", "0:"+s.Language)
		}
		if s.Name != "" {
			args = append(args, "--track-name", "0:"+s.Name)
		}
		args = append(args, s.Path)
	}

	for _, f := range j.Fonts {
		args = append(args,
			"--attachment-mime-type", fontMIME(f.Path),
			"--attachment-name", filepath.Base(f.Path),
		)
		if f.Language != "" {
			args = append(args, "--attachment-description", f.Language)
		}
		args = append(args, "--attach-file", f.Path)
	}

	if j.Chapters != "" {
		args = append(args, "--chapters", j.Chapters)
	}
	return args
}

func fontMIME(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".otf":
		return "application/vnd.ms-opentype"
	case ".ttc":
		return "font/collection"
	default:
		return "application/x-truetype-font"
	}
}
