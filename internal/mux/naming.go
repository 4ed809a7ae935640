package mux

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/vmunix/submux/pkg/episode"
)

// DefaultReleaseTag is used when no release tag is configured.
const DefaultReleaseTag = "MySubs"

// Namer derives output names and directories for muxed files.
type Namer struct {
	Tag       string
	OutputDir string // empty writes next to each video
}

// FileName returns "[<tag>] <show> - <episode> [<params>].<ext>". The
// episode part is dropped when the episode is unknown and the params part
// when params is empty. The show falls back to the video's stem.
func (n Namer) FileName(id episode.Identity, params []string, ext string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", n.tag(), showName(id))
	if label := id.EpisodeLabel(); label != "" {
		b.WriteString(" - ")
		b.WriteString(label)
	}
	if len(params) > 0 {
		fmt.Fprintf(&b, " [%s]", strings.Join(params, " "))
	}
	ext = strings.TrimPrefix(ext, ".")
	if ext == "" {
		ext = "mkv"
	}
	return SanitizeFilename(b.String() + "." + ext)
}

// Dir returns the directory for a video's output: "<output_dir>/[<tag>] <show>"
// when an output directory is configured, otherwise "<video dir>/<show>".
func (n Namer) Dir(video string, id episode.Identity) string {
	show := SanitizeFilename(showName(id))
	if n.OutputDir != "" {
		return filepath.Join(n.OutputDir, SanitizeFilename(fmt.Sprintf("[%s] %s", n.tag(), show)))
	}
	return filepath.Join(filepath.Dir(video), show)
}

// Path joins Dir and FileName and checks the result stays inside its root.
func (n Namer) Path(video string, id episode.Identity, params []string) (string, error) {
	dir := n.Dir(video, id)
	path := filepath.Join(dir, n.FileName(id, params, "mkv"))
	if err := ValidatePath(path, dir); err != nil {
		return "", fmt.Errorf("output path %q: %w", path, err)
	}
	return path, nil
}

func (n Namer) tag() string {
	if tag := strings.TrimSpace(n.Tag); tag != "" {
		return tag
	}
	return DefaultReleaseTag
}

func showName(id episode.Identity) string {
	if id.ShowDisplay != "" {
		return id.ShowDisplay
	}
	return id.BaseName
}
