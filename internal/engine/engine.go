// Package engine runs a submux batch: scan a directory, match videos with
// their companions, plan one mkvmerge job per video and mux them in
// parallel.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/google/uuid"

	"github.com/vmunix/submux/internal/companion"
	"github.com/vmunix/submux/internal/events"
	"github.com/vmunix/submux/internal/matcher"
	"github.com/vmunix/submux/internal/mux"
	"github.com/vmunix/submux/internal/probe"
	"github.com/vmunix/submux/internal/scan"
)

// Config holds everything about a run that does not change per request.
type Config struct {
	Match          matcher.Options
	ReleaseTag     string
	OutputDir      string // empty writes next to each video
	Workers        int
	VideoTrackName string // empty uses each video's release group
	SubTrackName   string // empty uses each subtitle's release group
}

// Engine orchestrates matching and muxing.
type Engine struct {
	cfg      Config
	matcher  *matcher.Matcher
	resolver *companion.Resolver
	prober   probe.Prober
	muxer    *mux.Muxer
	namer    mux.Namer
	bus      *events.Bus // may be nil
	log      *slog.Logger
}

// New validates cfg and returns an Engine. bus may be nil.
func New(cfg Config, prober probe.Prober, muxer *mux.Muxer, bus *events.Bus, logger *slog.Logger) (*Engine, error) {
	if logger == nil {
		logger = slog.Default()
	}
	m, err := matcher.New(cfg.Match, logger)
	if err != nil {
		return nil, err
	}
	resolver, err := companion.NewResolver(cfg.Match, logger)
	if err != nil {
		return nil, err
	}
	if cfg.Workers <= 0 {
		cfg.Workers = mux.DefaultWorkers
	}
	return &Engine{
		cfg:      cfg,
		matcher:  m,
		resolver: resolver,
		prober:   prober,
		muxer:    muxer,
		namer:    mux.Namer{Tag: cfg.ReleaseTag, OutputDir: cfg.OutputDir},
		bus:      bus,
		log:      logger.With("component", "engine"),
	}, nil
}

// Request is one run over a directory.
type Request struct {
	Root      string
	Recursive bool

	// Overrides maps a video to the subtitle it must use. Relative paths are
	// resolved against Root.
	Overrides map[string]string

	// Preview stops after planning; nothing is probed or written.
	Preview bool
}

// Match scans req.Root and matches its videos with subtitles, applying
// manual overrides.
func (e *Engine) Match(ctx context.Context, req Request) (*matcher.ResultSet, *scan.Result, error) {
	root, err := filepath.Abs(req.Root)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve root: %w", err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, nil, fmt.Errorf("stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, nil, fmt.Errorf("%s: %w", root, ErrNotDirectory)
	}

	opts := scan.Options{
		Recursive:     req.Recursive,
		CompanionDirs: e.cfg.Match.CompanionDirs,
	}
	if e.cfg.OutputDir != "" {
		if out, err := filepath.Abs(e.cfg.OutputDir); err == nil {
			opts.Exclude = append(opts.Exclude, out)
		}
	}
	scanned, err := scan.Scan(root, opts)
	if err != nil {
		return nil, nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	videos := scanned.VideoPaths()
	set := e.matcher.Match(videos, scanned.Paths(scan.KindSubtitle))

	for _, video := range sortedKeys(req.Overrides) {
		if err := override(set, root, video, req.Overrides[video]); err != nil {
			return nil, nil, err
		}
	}

	sum := set.Summary()
	e.log.Info("matched videos", "root", root, "videos", sum.Total,
		"high_confidence", sum.HighConfidence, "low_confidence", sum.LowConfidence, "unmatched", sum.Unmatched)
	return set, scanned, nil
}

func override(set *matcher.ResultSet, root, video, subtitle string) error {
	video = absUnder(root, video)
	subtitle = absUnder(root, subtitle)
	if _, err := os.Stat(subtitle); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidOverride, subtitle, err)
	}
	if err := set.Override(video, subtitle); err != nil {
		return fmt.Errorf("override: %w", err)
	}
	return nil
}

func absUnder(root, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(root, path)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Run matches, plans and muxes everything under req.Root. Per-video
// failures are reported in the Report, not as an error; the error is for
// problems that stop the whole run (bad root, bad override, locked output).
// Once matching is done, cancellation still returns a Report: videos that
// were not muxed are listed as Skipped.
func (e *Engine) Run(ctx context.Context, req Request) (*Report, error) {
	runID := uuid.NewString()
	log := e.log.With("run_id", runID)

	set, scanned, err := e.Match(ctx, req)
	if err != nil {
		return nil, err
	}
	e.publishMatches(ctx, runID, set)

	plan := e.plan(ctx, set, scanned, req.Preview)

	report := &Report{
		RunID:   runID,
		Root:    scanned.Root,
		Summary: set.Summary(),
		Matches: set.Results(),
		Jobs:    plan.jobs,
		Preview: req.Preview,
		Failed:  plan.failed,
		Skipped: plan.skipped,
	}
	if req.Preview {
		report.count()
		return report, nil
	}
	if len(plan.skipped) > 0 {
		return e.complete(ctx, report, log), nil
	}

	locks, err := lockOutputs(plan.jobs)
	if err != nil {
		return nil, err
	}
	defer unlockAll(locks, log)

	log.Info("muxing", "jobs", len(plan.jobs), "workers", e.cfg.Workers)
	batch := e.muxer.RunBatch(ctx, plan.jobs, e.cfg.Workers, e.hooks(ctx, runID))

	report.Succeeded = batch.Succeeded
	report.Failed = append(report.Failed, batch.Failed...)
	report.Skipped = batch.Skipped
	return e.complete(ctx, report, log), nil
}

// complete counts the report and records the batch.
func (e *Engine) complete(ctx context.Context, report *Report, log *slog.Logger) *Report {
	report.count()
	e.publish(ctx, &events.BatchCompleted{
		BaseEvent: events.NewBaseEvent(events.EventBatchCompleted, report.RunID, report.Root),
		Succeeded: report.SucceededCount,
		Failed:    report.FailedCount,
		Skipped:   report.SkippedCount,
	})
	log.Info("run complete", "succeeded", report.SucceededCount, "failed", report.FailedCount, "skipped", report.SkippedCount)
	return report
}

// lockOutputs locks every distinct output directory, in sorted order so
// concurrent runs cannot deadlock.
func lockOutputs(jobs []mux.Job) ([]*mux.DirLock, error) {
	var dirs []string
	for _, j := range jobs {
		dirs = append(dirs, filepath.Dir(j.Output))
	}
	slices.Sort(dirs)
	dirs = slices.Compact(dirs)

	locks := make([]*mux.DirLock, 0, len(dirs))
	for _, dir := range dirs {
		l, err := mux.LockDir(dir)
		if err != nil {
			for _, held := range locks {
				_ = held.Unlock()
			}
			return nil, err
		}
		locks = append(locks, l)
	}
	return locks, nil
}

func unlockAll(locks []*mux.DirLock, log *slog.Logger) {
	for _, l := range locks {
		if err := l.Unlock(); err != nil {
			log.Warn("unlock output directory", "error", err)
		}
	}
}
