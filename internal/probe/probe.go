// Package probe inspects video files with ffprobe and mkvmerge.
package probe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/vmunix/submux/internal/command"
)

// DefaultFrameRate is reported when ffprobe gives no usable frame rate.
const DefaultFrameRate = 23.976

// VideoInfo describes the first video stream of a file. Zero values mean
// the property is unknown.
type VideoInfo struct {
	Width     int     `json:"width,omitempty"`
	Height    int     `json:"height,omitempty"`
	FrameRate float64 `json:"frame_rate"`
	BitDepth  int     `json:"bit_depth,omitempty"`
	Encoder   string  `json:"encoder,omitempty"`
	Codec     string  `json:"codec,omitempty"`
}

// Container reports what a source file already carries.
type Container struct {
	HasChapters bool `json:"has_chapters"`
	HasTags     bool `json:"has_tags"`
}

// Prober inspects video files.
type Prober interface {
	Probe(ctx context.Context, path string) (VideoInfo, error)
	Identify(ctx context.Context, path string) (Container, error)
}

// Tools probes with the ffprobe and mkvmerge binaries.
type Tools struct {
	ffprobe  string
	mkvmerge string
	runner   command.Runner
	log      *slog.Logger
}

// New returns Tools using the given binaries; empty names use the defaults
// found on PATH.
func New(ffprobe, mkvmerge string, runner command.Runner, logger *slog.Logger) *Tools {
	if strings.TrimSpace(ffprobe) == "" {
		ffprobe = "ffprobe"
	}
	if strings.TrimSpace(mkvmerge) == "" {
		mkvmerge = "mkvmerge"
	}
	if runner == nil {
		runner = command.ExecRunner{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Tools{
		ffprobe:  ffprobe,
		mkvmerge: mkvmerge,
		runner:   runner,
		log:      logger.With("component", "probe"),
	}
}

type ffprobeOutput struct {
	Streams []struct {
		Width            int    `json:"width"`
		Height           int    `json:"height"`
		CodecName        string `json:"codec_name"`
		RFrameRate       string `json:"r_frame_rate"`
		BitsPerRawSample string `json:"bits_per_raw_sample"`
		PixFmt           string `json:"pix_fmt"`
		Tags             struct {
			Encoder string `json:"encoder"` // matches ENCODER too
		} `json:"tags"`
	} `json:"streams"`
}

// Probe reads resolution, frame rate, bit depth and encoder of the first
// video stream.
func (t *Tools) Probe(ctx context.Context, path string) (VideoInfo, error) {
	if strings.TrimSpace(path) == "" {
		return VideoInfo{}, errors.New("ffprobe: empty path")
	}
	args := []string{
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height,codec_name,r_frame_rate,bits_per_raw_sample,pix_fmt:stream_tags=encoder,ENCODER",
		"-of", "json",
		"--", path,
	}
	out, err := t.runner.Run(ctx, t.ffprobe, args)
	if err != nil {
		return VideoInfo{}, fmt.Errorf("ffprobe inspect: %w", err)
	}

	var parsed ffprobeOutput
	if err := json.Unmarshal(out, &parsed); err != nil {
		return VideoInfo{}, fmt.Errorf("ffprobe parse: %w", err)
	}

	info := VideoInfo{FrameRate: DefaultFrameRate}
	if len(parsed.Streams) == 0 {
		return info, nil
	}
	s := parsed.Streams[0]
	info.Width, info.Height = s.Width, s.Height
	info.Codec = s.CodecName
	info.Encoder = s.Tags.Encoder
	if fps, ok := parseFrameRate(s.RFrameRate); ok {
		info.FrameRate = fps
	}
	info.BitDepth = parseBitDepth(s.BitsPerRawSample, s.PixFmt)
	return info, nil
}

// parseFrameRate parses "24000/1001" or "25".
func parseFrameRate(s string) (float64, bool) {
	num, den, found := strings.Cut(strings.TrimSpace(s), "/")
	n, err := strconv.ParseFloat(num, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	if !found {
		return n, true
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d <= 0 {
		return 0, false
	}
	return n / d, true
}

// parseBitDepth prefers bits_per_raw_sample and falls back to the pixel
// format (yuv420p10le -> 10).
func parseBitDepth(raw, pixFmt string) int {
	if n, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil && n > 0 {
		return n
	}
	for _, depth := range []int{16, 14, 12, 10} {
		suffix := strconv.Itoa(depth)
		if strings.HasSuffix(pixFmt, "p"+suffix+"le") || strings.HasSuffix(pixFmt, "p"+suffix+"be") || strings.HasSuffix(pixFmt, "p"+suffix) {
			return depth
		}
	}
	if pixFmt != "" {
		return 8
	}
	return 0
}

type identifyOutput struct {
	Chapters   []json.RawMessage `json:"chapters"`
	GlobalTags []json.RawMessage `json:"global_tags"`
	TrackTags  []json.RawMessage `json:"track_tags"`
}

// Identify asks mkvmerge whether the source already has chapters or tags.
func (t *Tools) Identify(ctx context.Context, path string) (Container, error) {
	out, err := t.runner.Run(ctx, t.mkvmerge, []string{"-J", path})
	if err != nil {
		return Container{}, fmt.Errorf("mkvmerge identify: %w", err)
	}
	var parsed identifyOutput
	if err := json.Unmarshal(out, &parsed); err != nil {
		return Container{}, fmt.Errorf("mkvmerge identify parse: %w", err)
	}
	return Container{
		HasChapters: len(parsed.Chapters) > 0,
		HasTags:     len(parsed.GlobalTags) > 0 || len(parsed.TrackTags) > 0,
	}, nil
}

// standardHeights are written as "<height>p".
var standardHeights = map[int]bool{480: true, 720: true, 1080: true, 2160: true}

// Params returns the filename tokens describing a video, in fixed order:
// resolution, bit depth, codec. Unknown properties are omitted; the bit
// depth also falls back to a "10bit" marker in filename.
func (v VideoInfo) Params(filename string) []string {
	var params []string
	if v.Width > 0 && v.Height > 0 {
		if standardHeights[v.Height] {
			params = append(params, fmt.Sprintf("%dp", v.Height))
		} else {
			params = append(params, fmt.Sprintf("%dx%d", v.Width, v.Height))
		}
	}

	lower := strings.ToLower(filename)
	switch {
	case v.BitDepth > 0 && v.BitDepth != 8:
		params = append(params, fmt.Sprintf("%dbit", v.BitDepth))
	case strings.Contains(lower, "10bit") || strings.Contains(lower, "10 bit") || strings.Contains(lower, "10-bit"):
		params = append(params, "10bit")
	}

	if codec := v.codecToken(); codec != "" {
		params = append(params, codec)
	}
	return params
}

func (v VideoInfo) codecToken() string {
	enc := strings.ToLower(v.Encoder)
	switch {
	case strings.Contains(enc, "x265") || strings.Contains(enc, "hevc"):
		return "HEVC"
	case strings.Contains(enc, "x264") || strings.Contains(enc, "avc"):
		return "h264"
	}
	switch strings.ToLower(v.Codec) {
	case "hevc", "h265":
		return "HEVC"
	case "h264", "avc":
		return "h264"
	}
	return ""
}
