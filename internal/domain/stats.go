package domain

import (
	"sync"
	"time"
)

// SubredditStats holds per-subreddit outcome counters
type SubredditStats struct {
	PostsProcessed int   `json:"posts_processed"`
	Images         int   `json:"images_downloaded"`
	Videos         int   `json:"videos_downloaded"`
	AudioMerged    int   `json:"audio_merged"`
	Skipped        int   `json:"skipped"`
	Failed         int   `json:"failed"`
	BytesWritten   int64 `json:"bytes_written"`
}

// RunStats is the statistics aggregate shared across workers. It is the only
// cross-worker mutable state besides the rate limiter; all updates go through
// one mutex so unrelated downloads are never serialized on anything else.
type RunStats struct {
	mu         sync.Mutex
	startedAt  time.Time
	subreddits map[string]*SubredditStats
}

// NewRunStats creates an empty statistics aggregate
func NewRunStats() *RunStats {
	return &RunStats{
		startedAt:  time.Now(),
		subreddits: make(map[string]*SubredditStats),
	}
}

func (s *RunStats) forSubreddit(name string) *SubredditStats {
	ss, ok := s.subreddits[name]
	if !ok {
		ss = &SubredditStats{}
		s.subreddits[name] = ss
	}
	return ss
}

// RecordPost counts a post that entered the pipeline
func (s *RunStats) RecordPost(subreddit string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.forSubreddit(subreddit).PostsProcessed++
}

// RecordOutcome folds one task outcome into the aggregate
func (s *RunStats) RecordOutcome(o TaskOutcome) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ss := s.forSubreddit(o.Task.Subreddit)
	switch o.Status {
	case OutcomeSuccess, OutcomeDegraded:
		ss.BytesWritten += o.BytesWritten
		switch o.Task.Kind {
		case TaskImage:
			ss.Images++
		case TaskVideo:
			ss.Videos++
		}
	case OutcomeSkipped:
		ss.Skipped++
	case OutcomeFailed:
		ss.Failed++
	}
}

// RecordPostSkip counts a post skipped before any task was generated
func (s *RunStats) RecordPostSkip(subreddit string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.forSubreddit(subreddit).Skipped++
}

// RecordMerge counts a successful video/audio merge
func (s *RunStats) RecordMerge(subreddit string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.forSubreddit(subreddit).AudioMerged++
}

// StatsSnapshot is a point-in-time copy of the aggregate, safe to marshal
type StatsSnapshot struct {
	StartedAt  time.Time                 `json:"started_at"`
	Elapsed    time.Duration             `json:"elapsed"`
	Subreddits map[string]SubredditStats `json:"subreddits"`
	Totals     SubredditStats            `json:"totals"`
}

// Snapshot copies the current counters
func (s *RunStats) Snapshot() StatsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := StatsSnapshot{
		StartedAt:  s.startedAt,
		Elapsed:    time.Since(s.startedAt),
		Subreddits: make(map[string]SubredditStats, len(s.subreddits)),
	}
	for name, ss := range s.subreddits {
		snap.Subreddits[name] = *ss
		snap.Totals.PostsProcessed += ss.PostsProcessed
		snap.Totals.Images += ss.Images
		snap.Totals.Videos += ss.Videos
		snap.Totals.AudioMerged += ss.AudioMerged
		snap.Totals.Skipped += ss.Skipped
		snap.Totals.Failed += ss.Failed
		snap.Totals.BytesWritten += ss.BytesWritten
	}
	return snap
}
