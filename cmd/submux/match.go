package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vmunix/submux/internal/engine"
	"github.com/vmunix/submux/internal/matcher"
)

var matchCmd = &cobra.Command{
	Use:   "match [dir]",
	Short: "Preview subtitle matches without muxing",
	Long: `Scan a directory and show which subtitle each video would receive.

Nothing is written. Confidence below the threshold is flagged; such
candidates are not muxed unless forced with 'submux mux --override'.

Examples:
  submux match ~/anime/Show
  submux match --strict --lang eng .
  submux match --json . | jq '.matches[] | select(.companion == null)'`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMatch,
}

func init() {
	addMatchFlags(matchCmd)
	rootCmd.AddCommand(matchCmd)
}

func runMatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyMatchFlags(cmd, cfg)

	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	recursive, _ := cmd.Flags().GetBool("recursive")
	report, err := a.engine.Run(cmd.Context(), engine.Request{
		Root:      rootArg(args),
		Recursive: recursive,
		Preview:   true,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		return printJSON(out, report)
	}
	printMatches(out, report, cfg.Match.ConfidenceThreshold)
	return nil
}

// printMatches renders one row per video and a summary line.
func printMatches(w io.Writer, report *engine.Report, threshold float64) {
	if len(report.Matches) == 0 {
		fmt.Fprintf(w, "No videos found in %s\n", report.Root)
		return
	}

	rows := make([][]string, 0, len(report.Matches))
	for _, r := range report.Matches {
		rows = append(rows, matchRow(report.Root, r, threshold))
	}
	fmt.Fprintln(w, renderTable(
		[]string{"VIDEO", "SUBTITLE", "CONF", "RULE", "NOTE"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
		isTerminal(w),
	))

	s := report.Summary
	fmt.Fprintf(w, "\n%d videos: %d matched, %d below threshold, %d without subtitles\n",
		s.Total, s.HighConfidence, s.LowConfidence, s.Unmatched)
}

func matchRow(root string, r matcher.Result, threshold float64) []string {
	video := relTo(root, r.Video)
	if r.Matched() {
		note := ""
		if extra := len(r.Accepted) - 1; extra > 0 {
			note = fmt.Sprintf("+%d more", extra)
		}
		return []string{video, relTo(root, r.Companion), formatConfidence(r.Confidence), r.Rule.String(), note}
	}
	if len(r.Candidates) > 0 {
		best := r.Candidates[0]
		return []string{
			video,
			relTo(root, best.Path),
			formatConfidence(best.Confidence),
			best.Rule.String(),
			fmt.Sprintf("below threshold (%s)", formatConfidence(threshold)),
		}
	}
	return []string{video, valueOrEmpty(""), "", "", "no candidates"}
}

// relTo shortens path for display; it falls back to path when it is not
// under root.
func relTo(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == ".." || filepath.IsAbs(rel) || len(rel) >= 3 && rel[:3] == ".."+string(filepath.Separator) {
		return path
	}
	return rel
}
