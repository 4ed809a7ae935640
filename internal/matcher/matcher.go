// Package matcher pairs videos with companion files (subtitles, chapters,
// tags) by scoring their extracted filename identities.
package matcher

import (
	"log/slog"
	"path/filepath"
	"slices"
	"strings"

	"github.com/vmunix/submux/pkg/episode"
	"github.com/vmunix/submux/pkg/episode/scoring"
)

// Matcher selects companions for videos. It holds no mutable state, so one
// Matcher may serve concurrent Match calls.
type Matcher struct {
	opts Options
	sim  episode.Similarity
	log  *slog.Logger
}

// New validates opts and returns a Matcher with its own copy of them.
func New(opts Options, logger *slog.Logger) (*Matcher, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	sim, _ := episode.SimilarityByName(opts.Similarity)
	if logger == nil {
		logger = slog.Default()
	}
	return &Matcher{
		opts: opts.clone(),
		sim:  sim,
		log:  logger.With("component", "matcher"),
	}, nil
}

// Options returns a copy of the matcher's options.
func (m *Matcher) Options() Options {
	return m.opts.clone()
}

// Match resolves every video against the candidate pool. Videos with no
// accepted candidate get a Result with no companion; nothing here fails.
func (m *Matcher) Match(videos, candidates []string) *ResultSet {
	set := newResultSet(m.opts.ConfidenceThreshold, m.opts.Language)
	cache := make(map[string]episode.Identity, len(candidates)+len(videos))
	identify := func(path string) episode.Identity {
		if id, ok := cache[path]; ok {
			return id
		}
		id := episode.Extract(path)
		cache[path] = id
		return id
	}

	for _, video := range videos {
		set.add(m.matchOne(video, identify(video), candidates, identify))
	}
	return set
}

func (m *Matcher) matchOne(video string, vid episode.Identity, candidates []string, identify func(string) episode.Identity) Result {
	res := Result{Video: video, Identity: vid}
	vdir := filepath.Dir(video)

	var forced, scored []Candidate
	for _, path := range candidates {
		if path == video {
			continue
		}
		cdir := filepath.Dir(path)
		if m.opts.ForceAll && cdir == vdir {
			forced = append(forced, m.candidate(path, scoring.ConfidenceExact, scoring.RuleForced, identify(path)))
			continue
		}
		if !m.inScope(vdir, cdir) {
			continue
		}

		cid := identify(path)
		conf, rule := scoring.Score(vid, cid, m.sim)
		m.log.Debug("scored candidate",
			"video", filepath.Base(video),
			"candidate", filepath.Base(path),
			"confidence", conf,
			"rule", rule.String(),
		)
		if rule == scoring.RuleNone {
			continue
		}
		if m.opts.Strict && rule == scoring.RuleFuzzyShowName {
			continue
		}
		scored = append(scored, m.candidate(path, conf, rule, cid))
	}

	rank(forced)
	rank(scored)
	res.Candidates = append(forced, scored...)

	switch {
	case len(forced) > 0:
		res.Accepted = slices.Clone(forced)
	default:
		for _, c := range scored {
			if c.Confidence < m.opts.ConfidenceThreshold {
				break
			}
			res.Accepted = append(res.Accepted, c)
			if !m.opts.AllMatch {
				break
			}
		}
	}

	if len(res.Accepted) > 0 {
		best := res.Accepted[0]
		res.Companion = best.Path
		res.Confidence = best.Confidence
		res.Rule = best.Rule
		res.Language = best.Language
	}

	m.log.Debug("resolved video",
		"video", filepath.Base(video),
		"companion", filepath.Base(res.Companion),
		"confidence", res.Confidence,
		"rule", res.Rule.String(),
		"candidates", len(res.Candidates),
	)
	return res
}

func (m *Matcher) candidate(path string, conf float64, rule scoring.Rule, id episode.Identity) Candidate {
	lang := m.opts.Language
	if lang == "" {
		lang = id.Language
	}
	return Candidate{Path: path, Confidence: conf, Rule: rule, Language: lang}
}

// inScope reports whether a candidate directory is the video's directory or
// lies under one of the configured companion subdirectories beside it.
func (m *Matcher) inScope(vdir, cdir string) bool {
	if cdir == vdir {
		return true
	}
	rel, err := filepath.Rel(vdir, cdir)
	if err != nil {
		return false
	}
	first, _, _ := strings.Cut(filepath.ToSlash(rel), "/")
	if first == ".." || first == "." {
		return false
	}
	for _, dir := range m.opts.CompanionDirs {
		if strings.EqualFold(first, dir) {
			return true
		}
	}
	return false
}

func rank(cs []Candidate) {
	slices.SortStableFunc(cs, func(a, b Candidate) int {
		sa := scoring.Scored{Path: a.Path, Confidence: a.Confidence, Rule: a.Rule}
		sb := scoring.Scored{Path: b.Path, Confidence: b.Confidence, Rule: b.Rule}
		switch {
		case scoring.Less(sa, sb):
			return -1
		case scoring.Less(sb, sa):
			return 1
		}
		return 0
	})
}
