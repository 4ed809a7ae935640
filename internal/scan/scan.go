// Package scan walks a directory tree and classifies media and companion
// files.
package scan

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"
)

// Kind classifies a scanned file.
type Kind int

const (
	KindUnknown Kind = iota
	KindVideo
	KindSubtitle
	KindChapters
	KindTags
	KindFont
)

func (k Kind) String() string {
	switch k {
	case KindVideo:
		return "video"
	case KindSubtitle:
		return "subtitle"
	case KindChapters:
		return "chapters"
	case KindTags:
		return "tags"
	case KindFont:
		return "font"
	default:
		return "unknown"
	}
}

var (
	videoExts    = []string{".mkv", ".mp4", ".avi", ".m4v", ".webm", ".ts", ".m2ts", ".mov", ".wmv"}
	subtitleExts = []string{".ass", ".ssa", ".srt", ".sub", ".vtt"}
	fontExts     = []string{".ttf", ".otf", ".ttc"}
)

// Classify returns the kind of a file from its name alone.
func Classify(path string) Kind {
	name := strings.ToLower(filepath.Base(path))
	ext := filepath.Ext(name)
	switch {
	case slices.Contains(videoExts, ext):
		return KindVideo
	case slices.Contains(subtitleExts, ext):
		return KindSubtitle
	case slices.Contains(fontExts, ext):
		return KindFont
	case name == "chapters.xml" || strings.HasSuffix(name, ".chapters.xml"):
		return KindChapters
	case name == "tags.xml" || strings.HasSuffix(name, ".tags.xml"):
		return KindTags
	default:
		return KindUnknown
	}
}

// IsVideoFile reports whether path has a video extension.
func IsVideoFile(path string) bool {
	return Classify(path) == KindVideo
}

// File is one classified file.
type File struct {
	Path string `json:"path"`
	Dir  string `json:"dir"`
	Kind Kind   `json:"-"`
}

// Result holds scanned files in lexical walk order.
type Result struct {
	Root       string
	Videos     []File
	Companions []File
}

// VideoPaths returns the paths of all videos.
func (r *Result) VideoPaths() []string {
	return paths(r.Videos)
}

// Paths returns the companion paths of the given kinds.
func (r *Result) Paths(kinds ...Kind) []string {
	var out []string
	for _, f := range r.Companions {
		if slices.Contains(kinds, f.Kind) {
			out = append(out, f.Path)
		}
	}
	return out
}

func paths(files []File) []string {
	out := make([]string, 0, len(files))
	for _, f := range files {
		out = append(out, f.Path)
	}
	return out
}

// Options controls a scan.
type Options struct {
	// Recursive collects videos from every subdirectory. Otherwise videos are
	// only taken from the root.
	Recursive bool

	// CompanionDirs are subdirectory names searched for companions even when
	// the scan is not recursive. "fonts" and "attachments" are always added.
	CompanionDirs []string

	// Exclude lists directories that are skipped entirely, e.g. the output
	// directory of a previous run.
	Exclude []string
}

// Scan walks root and classifies what it finds. Hidden files and
// directories and files named like samples are skipped.
func Scan(root string, opts Options) (*Result, error) {
	root = filepath.Clean(root)
	res := &Result{Root: root}

	companionDirs := append([]string{"fonts", "attachments"}, opts.CompanionDirs...)
	exclude := make([]string, 0, len(opts.Exclude))
	for _, dir := range opts.Exclude {
		exclude = append(exclude, filepath.Clean(dir))
	}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if path == root {
				return nil
			}
			if strings.HasPrefix(name, ".") || slices.Contains(exclude, path) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") {
			return nil
		}

		kind := Classify(path)
		if kind == KindUnknown {
			return nil
		}
		dir := filepath.Dir(path)
		atRoot := dir == root

		if kind == KindVideo {
			if strings.Contains(strings.ToLower(name), "sample") {
				return nil
			}
			if atRoot || opts.Recursive {
				res.Videos = append(res.Videos, File{Path: path, Dir: dir, Kind: kind})
			}
			return nil
		}

		if atRoot || opts.Recursive || underCompanionDir(root, dir, companionDirs) {
			res.Companions = append(res.Companions, File{Path: path, Dir: dir, Kind: kind})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory: %w", err)
	}
	return res, nil
}

// underCompanionDir reports whether dir lies below root inside a directory
// named like one of names.
func underCompanionDir(root, dir string, names []string) bool {
	rel, err := filepath.Rel(root, dir)
	if err != nil {
		return false
	}
	first, _, _ := strings.Cut(filepath.ToSlash(rel), "/")
	for _, n := range names {
		if strings.EqualFold(first, n) {
			return true
		}
	}
	return false
}
