package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vmunix/submux/internal/scan"
	"github.com/vmunix/submux/pkg/episode"
)

type fileJSON struct {
	Path     string `json:"path"`
	Kind     string `json:"kind"`
	Episode  string `json:"episode,omitempty"`
	Show     string `json:"show,omitempty"`
	Group    string `json:"group,omitempty"`
	Language string `json:"language,omitempty"`
}

var filesCmd = &cobra.Command{
	Use:   "files [dir]",
	Short: "List videos and companion files found in a directory",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runFiles,
}

func init() {
	filesCmd.Flags().BoolP("recursive", "r", false, "Include videos in subdirectories")
	rootCmd.AddCommand(filesCmd)
}

func runFiles(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	recursive, _ := cmd.Flags().GetBool("recursive")

	root := rootArg(args)
	res, err := scan.Scan(root, scan.Options{
		Recursive:     recursive,
		CompanionDirs: cfg.Match.CompanionDirs,
	})
	if err != nil {
		return fmt.Errorf("scan %s: %w", root, err)
	}

	all := append(append([]scan.File{}, res.Videos...), res.Companions...)
	files := make([]fileJSON, 0, len(all))
	for _, f := range all {
		entry := fileJSON{Path: f.Path, Kind: f.Kind.String()}
		if f.Kind == scan.KindVideo || f.Kind == scan.KindSubtitle {
			id := episode.Extract(f.Path)
			entry.Episode = id.EpisodeLabel()
			entry.Show = id.ShowDisplay
			entry.Group = id.Group
			entry.Language = id.Language
		}
		files = append(files, entry)
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		return printJSON(out, files)
	}
	if len(files) == 0 {
		fmt.Fprintf(out, "No media found in %s\n", res.Root)
		return nil
	}

	rows := make([][]string, 0, len(files))
	for _, f := range files {
		rows = append(rows, []string{f.Kind, relTo(res.Root, f.Path), f.Episode, f.Show, f.Group, f.Language})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"KIND", "FILE", "EP", "SHOW", "GROUP", "LANG"},
		rows, nil, isTerminal(out),
	))
	fmt.Fprintf(out, "\n%d videos, %d subtitles, %d fonts\n",
		len(res.Videos), len(res.Paths(scan.KindSubtitle)), len(res.Paths(scan.KindFont)))
	return nil
}
