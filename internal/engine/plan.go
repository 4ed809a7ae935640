package engine

import (
	"context"
	"fmt"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/vmunix/submux/internal/companion"
	"github.com/vmunix/submux/internal/matcher"
	"github.com/vmunix/submux/internal/mux"
	"github.com/vmunix/submux/internal/probe"
	"github.com/vmunix/submux/internal/scan"
	"github.com/vmunix/submux/pkg/episode"
)

type jobPlan struct {
	jobs    []mux.Job
	failed  []mux.Failure // videos whose output path could not be built
	skipped []string      // every video, when the run was cancelled while probing
}

// plan builds one job per matched result, in result order. Probing runs on
// the configured number of workers; a probe failure only costs the output
// name its parameters. Probes already running when ctx is cancelled finish,
// the rest never start, and nothing is planned. Preview skips probing.
//
// A video whose output path was already planned for an earlier video fails
// with ErrDuplicateOutput.
func (e *Engine) plan(ctx context.Context, set *matcher.ResultSet, scanned *scan.Result, preview bool) *jobPlan {
	results := set.Results()
	videos := make([]string, len(results))
	for i, r := range results {
		videos[i] = r.Video
	}
	sets := e.resolver.Resolve(videos, scanned)

	type probed struct {
		params    []string
		container probe.Container
	}
	info := make([]probed, len(results))
	if !preview {
		var g errgroup.Group
		g.SetLimit(e.cfg.Workers)
		for i, r := range results {
			g.Go(func() error {
				if ctx.Err() != nil {
					return nil
				}
				params, container := e.probeVideo(context.WithoutCancel(ctx), r.Video)
				info[i] = probed{params: params, container: container}
				return nil
			})
		}
		_ = g.Wait()
		if ctx.Err() != nil {
			e.log.Warn("cancelled while probing, nothing muxed", "videos", len(videos))
			return &jobPlan{skipped: videos}
		}
	}

	p := &jobPlan{}
	planned := make(map[string]string, len(results))
	for i, r := range results {
		output, err := e.namer.Path(r.Video, r.Identity, info[i].params)
		if err == nil {
			if first, ok := planned[output]; ok {
				err = fmt.Errorf("%s is also the output of %s: %w", output, first, ErrDuplicateOutput)
			}
		}
		if err != nil {
			e.log.Error("build output path", "video", r.Video, "error", err)
			p.failed = append(p.failed, mux.Failure{Video: r.Video, Error: err.Error(), Err: err})
			continue
		}
		planned[output] = r.Video
		p.jobs = append(p.jobs, e.job(r, sets[r.Video], info[i].container, output))
	}
	return p
}

// probeVideo reads output-name parameters and what the source already carries.
// Unknown container contents are assumed present so nothing is stripped.
func (e *Engine) probeVideo(ctx context.Context, video string) ([]string, probe.Container) {
	var params []string
	if info, err := e.prober.Probe(ctx, video); err != nil {
		e.log.Warn("probe failed, output name has no parameters", "video", video, "error", err)
	} else {
		params = info.Params(filepath.Base(video))
	}

	container, err := e.prober.Identify(ctx, video)
	if err != nil {
		e.log.Warn("identify failed, keeping source chapters and tags", "video", video, "error", err)
		container = probe.Container{HasChapters: true, HasTags: true}
	}
	return params, container
}

func (e *Engine) job(r matcher.Result, set companion.Set, source probe.Container, output string) mux.Job {
	job := mux.Job{
		Video:          r.Video,
		VideoTrackName: e.cfg.VideoTrackName,
		Chapters:       set.Chapters,
		Tags:           set.Tags,
		Source:         source,
		Output:         output,
	}
	if job.VideoTrackName == "" {
		job.VideoTrackName = r.Identity.Group
	}

	for _, c := range r.Accepted {
		name := e.cfg.SubTrackName
		if name == "" {
			name = episode.Extract(c.Path).Group
		}
		job.Subtitles = append(job.Subtitles, mux.Track{Path: c.Path, Language: c.Language, Name: name})
	}

	for _, f := range companion.FindFonts(r.Companion, r.Video) {
		job.Fonts = append(job.Fonts, mux.Attachment{Path: f.Path, Language: f.Language})
	}
	return job
}
