// Package companion resolves the chapters, tags and font attachments that
// accompany a video.
package companion

import (
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/vmunix/submux/internal/matcher"
	"github.com/vmunix/submux/internal/scan"
	"github.com/vmunix/submux/pkg/episode"
)

// fallbackDepth is how many parent directories are searched for a shared
// chapters.xml or tags.xml.
const fallbackDepth = 2

// fontDirs are the directory names searched for fonts.
var fontDirs = []string{"fonts", "attachments"}

// Font is a font attachment with the language from its filename, if any.
type Font struct {
	Path     string `json:"path"`
	Language string `json:"language,omitempty"`
}

// Set is everything attached to one video besides its subtitles.
type Set struct {
	Chapters string `json:"chapters,omitempty"`
	Tags     string `json:"tags,omitempty"`
	Fonts    []Font `json:"fonts,omitempty"`
}

// Resolver pairs videos with chapters and tags files using a strict matcher,
// so only exact-stem or episode-number matches count.
type Resolver struct {
	matcher *matcher.Matcher
	log     *slog.Logger
}

// NewResolver builds a Resolver from the run's match options.
func NewResolver(opts matcher.Options, logger *slog.Logger) (*Resolver, error) {
	if logger == nil {
		logger = slog.Default()
	}
	opts.Strict = true
	opts.ForceAll = false
	opts.AllMatch = false
	opts.Language = ""
	m, err := matcher.New(opts, logger)
	if err != nil {
		return nil, err
	}
	return &Resolver{matcher: m, log: logger.With("component", "companion")}, nil
}

// Resolve finds chapters and tags for each video from the scanned pool,
// falling back to a shared chapters.xml / tags.xml in the video directory or
// up to two parents.
func (r *Resolver) Resolve(videos []string, scanned *scan.Result) map[string]Set {
	chapters := r.matcher.Match(videos, specific(scanned.Paths(scan.KindChapters)))
	tags := r.matcher.Match(videos, specific(scanned.Paths(scan.KindTags)))

	out := make(map[string]Set, len(videos))
	for _, v := range videos {
		var set Set
		if res, ok := chapters.Get(v); ok && res.Matched() {
			set.Chapters = res.Companion
		} else {
			set.Chapters = sharedFile(filepath.Dir(v), "chapters.xml")
		}
		if res, ok := tags.Get(v); ok && res.Matched() {
			set.Tags = res.Companion
		} else {
			set.Tags = sharedFile(filepath.Dir(v), "tags.xml")
		}
		r.log.Debug("resolved companions", "video", filepath.Base(v), "chapters", set.Chapters, "tags", set.Tags)
		out[v] = set
	}
	return out
}

// specific drops the shared chapters.xml / tags.xml files, which are only
// used as a fallback.
func specific(paths []string) []string {
	out := paths[:0:0]
	for _, p := range paths {
		name := strings.ToLower(filepath.Base(p))
		if name == "chapters.xml" || name == "tags.xml" {
			continue
		}
		out = append(out, p)
	}
	return out
}

func sharedFile(dir, name string) string {
	for i := 0; i <= fallbackDepth; i++ {
		path := filepath.Join(dir, name)
		if fileExists(path) {
			return path
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

// FindFonts returns the fonts for a subtitle: fonts/ and attachments/ beside
// the subtitle and beside its parent directory, plus loose fonts next to the
// subtitle. When the subtitle has none, or there is no subtitle, the same
// places around the video are used. Results are sorted by path.
func FindFonts(subtitle, video string) []Font {
	if subtitle != "" {
		if fonts := fontsAround(filepath.Dir(subtitle)); len(fonts) > 0 {
			return fonts
		}
	}
	return fontsAround(filepath.Dir(video))
}

func fontsAround(dir string) []Font {
	seen := make(map[string]bool)
	var fonts []Font
	add := func(d string) {
		entries, err := os.ReadDir(d)
		if err != nil {
			return
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			path := filepath.Join(d, e.Name())
			if scan.Classify(path) != scan.KindFont || seen[path] {
				continue
			}
			seen[path] = true
			fonts = append(fonts, Font{Path: path, Language: episode.Extract(path).Language})
		}
	}

	add(dir)
	for _, base := range []string{dir, filepath.Dir(dir)} {
		for _, name := range fontDirs {
			add(filepath.Join(base, name))
		}
	}

	slices.SortFunc(fonts, func(a, b Font) int { return strings.Compare(a.Path, b.Path) })
	return fonts
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
