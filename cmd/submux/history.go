package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/vmunix/submux/internal/events"
)

var errHistoryDisabled = errors.New("history is disabled: set [history] path in the config")

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show past mux runs",
	Long: `Show runs recorded in the history database.

Examples:
  submux history
  submux history --run 6f1c...   # every event of one run
  submux history --prune 720h    # drop events older than 30 days`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 20, "Number of runs to show")
	historyCmd.Flags().String("run", "", "Show the events of one run")
	historyCmd.Flags().Duration("prune", 0, "Delete events older than this")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.History.Path == "" {
		return errHistoryDisabled
	}

	db, err := events.OpenDB(cfg.History.Path)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	log := events.NewEventLog(db)

	out := cmd.OutOrStdout()
	limit, _ := cmd.Flags().GetInt("limit")
	runID, _ := cmd.Flags().GetString("run")
	prune, _ := cmd.Flags().GetDuration("prune")

	switch {
	case prune > 0:
		n, err := log.Prune(prune)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Pruned %d events\n", n)
		return nil
	case runID != "":
		raw, err := log.ForRun(runID)
		if err != nil {
			return err
		}
		return printRunEvents(out, runID, raw)
	default:
		raw, err := log.RecentOfType(events.EventBatchCompleted, limit)
		if err != nil {
			return err
		}
		return printRuns(out, raw)
	}
}

type runJSON struct {
	RunID     string    `json:"run_id"`
	Root      string    `json:"root"`
	Finished  time.Time `json:"finished"`
	Succeeded int       `json:"succeeded"`
	Failed    int       `json:"failed"`
	Skipped   int       `json:"skipped"`
}

func printRuns(w io.Writer, raw []events.RawEvent) error {
	decoded, err := events.DefaultRegistry().Decode(raw)
	if err != nil {
		return err
	}
	runs := make([]runJSON, 0, len(decoded))
	for _, ev := range decoded {
		bc, ok := ev.(*events.BatchCompleted)
		if !ok {
			continue
		}
		runs = append(runs, runJSON{
			RunID:     bc.RunID,
			Root:      bc.Subject,
			Finished:  bc.Timestamp,
			Succeeded: bc.Succeeded,
			Failed:    bc.Failed,
			Skipped:   bc.Skipped,
		})
	}

	if jsonOutput {
		return printJSON(w, runs)
	}
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded")
		return nil
	}
	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		rows = append(rows, []string{
			r.RunID,
			r.Finished.Local().Format("2006-01-02 15:04"),
			fmt.Sprintf("%d", r.Succeeded),
			fmt.Sprintf("%d", r.Failed),
			fmt.Sprintf("%d", r.Skipped),
			r.Root,
		})
	}
	fmt.Fprintln(w, renderTable(
		[]string{"RUN", "FINISHED", "OK", "FAILED", "SKIPPED", "ROOT"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft},
		isTerminal(w),
	))
	return nil
}

func printRunEvents(w io.Writer, runID string, raw []events.RawEvent) error {
	if len(raw) == 0 {
		return fmt.Errorf("no events for run %s", runID)
	}
	decoded, err := events.DefaultRegistry().Decode(raw)
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(w, decoded)
	}
	rows := make([][]string, 0, len(decoded))
	for _, ev := range decoded {
		rows = append(rows, []string{
			ev.OccurredAt().Local().Format("15:04:05"),
			ev.EventType(),
			ev.EventSubject(),
			eventDetail(ev),
		})
	}
	fmt.Fprintln(w, renderTable([]string{"TIME", "EVENT", "SUBJECT", "DETAIL"}, rows, nil, isTerminal(w)))
	return nil
}

func eventDetail(ev events.Event) string {
	switch e := ev.(type) {
	case *events.MatchResolved:
		if e.Companion == "" {
			return "no subtitle"
		}
		return fmt.Sprintf("%s %s (%s)", e.Companion, formatConfidence(e.Confidence), e.Rule)
	case *events.MuxStarted:
		return fmt.Sprintf("%d subs, %d fonts", e.Subtitles, e.Fonts)
	case *events.MuxCompleted:
		return e.Output
	case *events.MuxFailed:
		return e.Reason
	case *events.BatchCompleted:
		return fmt.Sprintf("%d ok, %d failed, %d skipped", e.Succeeded, e.Failed, e.Skipped)
	}
	return ""
}
