package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vmunix/submux/internal/config"
)

// addMatchFlags registers the flags shared by match and mux. Flags that are
// not set leave the config value alone.
func addMatchFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("strict", false, "Only exact filename and episode number matches")
	cmd.Flags().Bool("force", false, "Attach every subtitle in the video's directory")
	cmd.Flags().Bool("all-match", false, "Add every subtitle above the threshold")
	cmd.Flags().Float64("threshold", 0, "Minimum confidence for automatic selection (0-1)")
	cmd.Flags().String("lang", "", "Language for every subtitle track (e.g. eng)")
	cmd.Flags().BoolP("recursive", "r", false, "Include videos in subdirectories")
}

func applyMatchFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("strict") {
		cfg.Match.Strict, _ = flags.GetBool("strict")
	}
	if flags.Changed("force") {
		cfg.Match.ForceAll, _ = flags.GetBool("force")
	}
	if flags.Changed("all-match") {
		cfg.Match.AllMatch, _ = flags.GetBool("all-match")
	}
	if flags.Changed("threshold") {
		cfg.Match.ConfidenceThreshold, _ = flags.GetFloat64("threshold")
	}
	if flags.Changed("lang") {
		cfg.Match.Language, _ = flags.GetString("lang")
	}
}

func addMuxFlags(cmd *cobra.Command) {
	cmd.Flags().String("tag", "", "Release tag for output names")
	cmd.Flags().StringP("output-dir", "o", "", "Write outputs under this directory")
	cmd.Flags().IntP("workers", "j", 0, "Concurrent mkvmerge processes")
	cmd.Flags().String("video-track", "", "Video track name (default: release group)")
	cmd.Flags().String("sub-track", "", "Subtitle track name (default: release group)")
	cmd.Flags().StringArray("override", nil, "Force a subtitle for a video: video=subtitle (repeatable)")
}

func applyMuxFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("tag") {
		cfg.Mux.ReleaseTag, _ = flags.GetString("tag")
	}
	if flags.Changed("output-dir") {
		cfg.Mux.OutputDir, _ = flags.GetString("output-dir")
	}
	if flags.Changed("workers") {
		cfg.Mux.Workers, _ = flags.GetInt("workers")
	}
	if flags.Changed("video-track") {
		cfg.Mux.VideoTrackName, _ = flags.GetString("video-track")
	}
	if flags.Changed("sub-track") {
		cfg.Mux.SubTrackName, _ = flags.GetString("sub-track")
	}
}

// parseOverrides turns "video=subtitle" pairs into a map.
func parseOverrides(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		video, sub, ok := strings.Cut(pair, "=")
		video, sub = strings.TrimSpace(video), strings.TrimSpace(sub)
		if !ok || video == "" || sub == "" {
			return nil, fmt.Errorf("--override %q: want video=subtitle", pair)
		}
		if prev, dup := out[video]; dup && prev != sub {
			return nil, fmt.Errorf("--override: %s given twice", video)
		}
		out[video] = sub
	}
	return out, nil
}

// rootArg returns the directory argument, defaulting to ".".
func rootArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}
