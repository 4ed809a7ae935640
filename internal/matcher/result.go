package matcher

import (
	"fmt"
	"slices"
	"sync"

	"github.com/vmunix/submux/pkg/episode"
	"github.com/vmunix/submux/pkg/episode/scoring"
)

// Candidate is one scored companion for a video.
type Candidate struct {
	Path       string       `json:"path"`
	Confidence float64      `json:"confidence"`
	Rule       scoring.Rule `json:"rule"`
	Language   string       `json:"language,omitempty"`
}

// Result is one video's resolved outcome.
type Result struct {
	Video    string           `json:"video"`
	Identity episode.Identity `json:"-"`

	// Companion is the chosen companion path, empty when none was accepted.
	Companion  string       `json:"companion,omitempty"`
	Confidence float64      `json:"confidence"`
	Rule       scoring.Rule `json:"rule"`
	Language   string       `json:"language,omitempty"`

	// Candidates holds every in-scope candidate with a non-zero score,
	// ranked, including those below the threshold.
	Candidates []Candidate `json:"candidates,omitempty"`

	// Accepted holds the selected candidates in rank order: at most one
	// unless all_match or force_all applies.
	Accepted []Candidate `json:"accepted,omitempty"`
}

// Matched reports whether a companion was chosen.
func (r Result) Matched() bool {
	return r.Companion != ""
}

func (r Result) clone() Result {
	r.Candidates = slices.Clone(r.Candidates)
	r.Accepted = slices.Clone(r.Accepted)
	return r
}

// ResultSet maps videos to results for one matching run. It is safe for
// concurrent use.
type ResultSet struct {
	mu        sync.RWMutex
	order     []string
	results   map[string]*Result
	threshold float64
	language  string
}

func newResultSet(threshold float64, language string) *ResultSet {
	return &ResultSet{
		results:   make(map[string]*Result),
		threshold: threshold,
		language:  language,
	}
}

func (s *ResultSet) add(r Result) {
	if _, ok := s.results[r.Video]; !ok {
		s.order = append(s.order, r.Video)
	}
	s.results[r.Video] = &r
}

// Len returns the number of videos in the set.
func (s *ResultSet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Get returns a copy of the result for video.
func (s *ResultSet) Get(video string) (Result, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.results[video]
	if !ok {
		return Result{}, false
	}
	return r.clone(), true
}

// Results returns copies of all results in the order videos were given.
func (s *ResultSet) Results() []Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Result, 0, len(s.order))
	for _, v := range s.order {
		out = append(out, s.results[v].clone())
	}
	return out
}

// Override replaces the chosen companion for video with path, with rule
// manual and confidence 1.0. Applying the same override again leaves the
// result unchanged. The ranked candidate list is kept for display.
func (s *ResultSet) Override(video, path string) error {
	if path == "" {
		return fmt.Errorf("%w: empty companion path for %s", ErrInvalidOverride, video)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.results[video]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownVideo, video)
	}

	lang := s.language
	if lang == "" {
		lang = episode.Extract(path).Language
	}
	chosen := Candidate{
		Path:       path,
		Confidence: scoring.ConfidenceExact,
		Rule:       scoring.RuleManual,
		Language:   lang,
	}
	r.Companion = path
	r.Confidence = chosen.Confidence
	r.Rule = chosen.Rule
	r.Language = lang
	r.Accepted = []Candidate{chosen}
	return nil
}

// Summary counts results by outcome.
type Summary struct {
	Total          int `json:"total"`
	HighConfidence int `json:"high_confidence"`
	LowConfidence  int `json:"low_confidence"`
	Unmatched      int `json:"unmatched"`
}

// Summary counts matched results at or above the threshold as high
// confidence. Videos whose best candidate fell below it count as low
// confidence; videos with no candidates at all are unmatched.
func (s *ResultSet) Summary() Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sum := Summary{Total: len(s.order)}
	for _, v := range s.order {
		r := s.results[v]
		switch {
		case r.Matched():
			sum.HighConfidence++
		case len(r.Candidates) > 0:
			sum.LowConfidence++
		default:
			sum.Unmatched++
		}
	}
	return sum
}

// Threshold returns the confidence threshold the set was built with.
func (s *ResultSet) Threshold() float64 {
	return s.threshold
}
