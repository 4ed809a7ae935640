package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vmunix/submux/internal/engine"
	"github.com/vmunix/submux/internal/events"
)

// errBatchFailed makes the process exit non-zero after the report is shown.
var errBatchFailed = errors.New("some videos were not muxed")

var muxCmd = &cobra.Command{
	Use:   "mux [dir]",
	Short: "Match subtitles and mux them into new Matroska files",
	Long: `Match subtitles, fonts, chapters and tags to every video in a directory
and write new files with mkvmerge. Sources are never modified.

Outputs go to "<output-dir>/[<tag>] <show>/" and are named
"[<tag>] <show> - <episode> [<params>].mkv".

Examples:
  submux mux --tag MySubs ~/anime/Show
  submux mux -j 4 -o ~/muxed --lang eng .
  submux mux --override "Show - 03.mkv=subs/Show 03 v2.ass" .`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMux,
}

func init() {
	addMatchFlags(muxCmd)
	addMuxFlags(muxCmd)
	muxCmd.Flags().Bool("preview", false, "Plan outputs without running mkvmerge")
	rootCmd.AddCommand(muxCmd)
}

func runMux(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyMatchFlags(cmd, cfg)
	applyMuxFlags(cmd, cfg)

	pairs, _ := cmd.Flags().GetStringArray("override")
	overrides, err := parseOverrides(pairs)
	if err != nil {
		return err
	}

	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	progressOut := out
	if jsonOutput {
		progressOut = cmd.ErrOrStderr()
	}

	recursive, _ := cmd.Flags().GetBool("recursive")
	preview, _ := cmd.Flags().GetBool("preview")
	report, err := runWithProgress(ctx, a, engine.Request{
		Root:      rootArg(args),
		Recursive: recursive,
		Overrides: overrides,
		Preview:   preview,
	}, progressOut)
	if err != nil {
		return err
	}

	if jsonOutput {
		if err := printJSON(out, report); err != nil {
			return err
		}
	} else {
		printMuxReport(out, report)
	}
	if !report.OK() {
		return errBatchFailed
	}
	return nil
}

// runWithProgress runs the engine while printing one line per finished
// video from the event bus.
func runWithProgress(ctx context.Context, a *app, req engine.Request, w io.Writer) (*engine.Report, error) {
	if req.Preview {
		return a.engine.Run(ctx, req)
	}

	ch := a.bus.SubscribeAll(256)
	done := make(chan struct{})
	go func() {
		defer close(done)
		printProgress(ch, w)
	}()

	report, err := a.engine.Run(ctx, req)
	a.bus.Unsubscribe(ch)
	<-done
	if n := a.bus.Dropped(); n > 0 {
		a.log.Warn("progress lines skipped", "events", n)
	}
	return report, err
}

func printProgress(ch <-chan events.Event, w io.Writer) {
	total, finished := 0, 0
	for ev := range ch {
		switch e := ev.(type) {
		case *events.MatchResolved:
			total++
		case *events.MuxCompleted:
			finished++
			fmt.Fprintf(w, "[%d/%d] muxed %s\n", finished, total, filepath.Base(e.Output))
		case *events.MuxFailed:
			finished++
			fmt.Fprintf(w, "[%d/%d] failed %s: %s\n", finished, total, filepath.Base(e.Subject), e.Reason)
		}
	}
}

func printMuxReport(w io.Writer, report *engine.Report) {
	if report.Preview {
		rows := make([][]string, 0, len(report.Jobs))
		for _, job := range report.Jobs {
			rows = append(rows, []string{
				relTo(report.Root, job.Video),
				fmt.Sprintf("%d", len(job.Subtitles)),
				fmt.Sprintf("%d", len(job.Fonts)),
				job.Output,
			})
		}
		if len(rows) > 0 {
			fmt.Fprintln(w, renderTable(
				[]string{"VIDEO", "SUBS", "FONTS", "OUTPUT"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignRight, alignLeft},
				isTerminal(w),
			))
		}
	}

	for _, f := range report.Failed {
		fmt.Fprintf(w, "FAILED %s: %s\n", relTo(report.Root, f.Video), f.Error)
		if f.Output != "" {
			fmt.Fprintf(w, "  %s\n", f.Output)
		}
	}
	for _, v := range report.Skipped {
		fmt.Fprintf(w, "SKIPPED %s\n", relTo(report.Root, v))
	}

	if report.Preview {
		fmt.Fprintf(w, "\n%d videos planned, %d could not be planned\n", len(report.Jobs), report.FailedCount)
		return
	}
	fmt.Fprintf(w, "\n%d succeeded, %d failed, %d skipped\n",
		report.SucceededCount, report.FailedCount, report.SkippedCount)
}
