package app

import (
	"context"

	"go.uber.org/zap"

	"github.com/yourusername/reddit-dl-go/internal/domain"
	"github.com/yourusername/reddit-dl-go/internal/infrastructure"
	"github.com/yourusername/reddit-dl-go/internal/media"
	"github.com/yourusername/reddit-dl-go/internal/reddit"
)

// Pipeline wires the fetch-resolve-download stages for a single batch run.
// Per-subreddit and per-task failures are contained and recorded; a Run only
// returns an error for conditions that prevented it from starting at all.
type Pipeline struct {
	cfg       *domain.Config
	client    *reddit.Client
	resolver  *media.Resolver
	scheduler *Scheduler
	organizer *infrastructure.Organizer
	stats     *domain.RunStats
	logger    *zap.Logger
}

// NewPipeline assembles a pipeline from its collaborators
func NewPipeline(
	cfg *domain.Config,
	client *reddit.Client,
	resolver *media.Resolver,
	scheduler *Scheduler,
	organizer *infrastructure.Organizer,
	stats *domain.RunStats,
	log *zap.Logger,
) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{
		cfg:       cfg,
		client:    client,
		resolver:  resolver,
		scheduler: scheduler,
		organizer: organizer,
		stats:     stats,
		logger:    log,
	}
}

// Run processes every subreddit in order and returns the final statistics
// snapshot. Unreachable subreddits are reported per item, not fatal.
func (p *Pipeline) Run(ctx context.Context, subreddits []string) domain.StatsSnapshot {
	p.logger.Info("starting run",
		zap.Int("subreddits", len(subreddits)),
		zap.String("sort", string(p.cfg.Reddit.Sort)),
		zap.Int("limit", p.cfg.Reddit.Limit),
		zap.Int("workers", p.cfg.Download.MaxWorkers))

	for _, subreddit := range subreddits {
		if ctx.Err() != nil {
			break
		}
		if err := p.runSubreddit(ctx, subreddit); err != nil {
			p.logger.Error("subreddit failed",
				zap.String("subreddit", subreddit),
				zap.Error(err))
		}
	}

	snap := p.stats.Snapshot()
	p.logSummary(snap)
	return snap
}

// runSubreddit lists, filters, resolves, and schedules one subreddit
func (p *Pipeline) runSubreddit(ctx context.Context, subreddit string) error {
	p.logger.Info("processing subreddit", zap.String("subreddit", subreddit))

	if err := p.organizer.EnsureDirs(subreddit); err != nil {
		return err
	}

	listing := p.client.ListPosts(subreddit, p.cfg.Reddit.Sort, p.cfg.Reddit.TimeWindow, p.cfg.Reddit.Limit)
	filter := NewFilter(p.cfg.Reddit.MinScore, p.cfg.Reddit.Limit)

	var items []WorkItem
	for {
		post, err := listing.Next(ctx)
		if err != nil {
			return err
		}
		if post == nil {
			break
		}

		accept, done := filter.Admit(post)
		if accept {
			items = append(items, p.resolve(post)...)
		}
		if done {
			break
		}
	}

	p.logger.Debug("scheduling downloads",
		zap.String("subreddit", subreddit),
		zap.Int("accepted_posts", filter.Accepted()),
		zap.Int("work_items", len(items)))

	p.scheduler.Run(ctx, items)
	return nil
}

// resolve turns one admitted post into work items. Gallery images become
// independent items; a video and its audio candidates stay together so the
// candidates run sequentially after the stream.
func (p *Pipeline) resolve(post *domain.Post) []WorkItem {
	p.stats.RecordPost(post.Subreddit)

	tasks, skip := p.resolver.Resolve(post)
	if skip != "" {
		p.stats.RecordPostSkip(post.Subreddit)
		p.logger.Debug("post skipped",
			zap.String("post", post.ID),
			zap.String("subreddit", post.Subreddit),
			zap.String("reason", string(skip)))
		return nil
	}

	if tasks[0].Kind == domain.TaskVideo {
		return []WorkItem{{Post: post, Tasks: tasks}}
	}

	items := make([]WorkItem, 0, len(tasks))
	for _, task := range tasks {
		items = append(items, WorkItem{Post: post, Tasks: []*domain.DownloadTask{task}})
	}
	return items
}

// logSummary emits the end-of-run summary block
func (p *Pipeline) logSummary(snap domain.StatsSnapshot) {
	for name, ss := range snap.Subreddits {
		p.logger.Info("subreddit summary",
			zap.String("subreddit", name),
			zap.Int("posts_processed", ss.PostsProcessed),
			zap.Int("images_downloaded", ss.Images),
			zap.Int("videos_downloaded", ss.Videos),
			zap.Int("audio_merged", ss.AudioMerged),
			zap.Int("skipped", ss.Skipped),
			zap.Int("failed", ss.Failed),
			zap.Int64("bytes_written", ss.BytesWritten))
	}
	p.logger.Info("run summary",
		zap.Int("posts_processed", snap.Totals.PostsProcessed),
		zap.Int("images_downloaded", snap.Totals.Images),
		zap.Int("videos_downloaded", snap.Totals.Videos),
		zap.Int("audio_merged", snap.Totals.AudioMerged),
		zap.Int("skipped", snap.Totals.Skipped),
		zap.Int("failed", snap.Totals.Failed),
		zap.Int64("bytes_written", snap.Totals.BytesWritten),
		zap.Duration("elapsed", snap.Elapsed))
}
