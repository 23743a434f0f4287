package app

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/yourusername/reddit-dl-go/internal/domain"
	"github.com/yourusername/reddit-dl-go/internal/infrastructure"
)

// WorkItem groups the tasks the scheduler executes as one sequential unit:
// a single image task, or a video task followed by its audio candidates in
// priority order. Different work items proceed independently; tasks inside
// one item are strictly sequential, which is what makes "first audio
// candidate success wins" trivial to guarantee.
type WorkItem struct {
	Post  *domain.Post
	Tasks []*domain.DownloadTask
}

// Downloader fetches one resource to a temporary path with retry applied,
// returning bytes written and attempts made.
type Downloader interface {
	Probe(ctx context.Context, url string) (bool, error)
	Download(ctx context.Context, url, tmpPath string) (int64, int, error)
}

// Merger combines a fetched video and audio stream into one container
type Merger interface {
	Available() bool
	Merge(ctx context.Context, videoPath, audioPath, outPath string) error
}

// Scheduler is the bounded worker pool executing download tasks. A fatal
// error on one task never aborts sibling tasks, and the pool drains every
// submitted item before Run returns. Pool size 1 is plain sequential
// execution and produces identical output.
type Scheduler struct {
	workers       int
	downloader    Downloader
	organizer     *infrastructure.Organizer
	merger        Merger
	stats         *domain.RunStats
	archive       domain.OutcomeArchive
	keepVideoOnly bool
	logger        *zap.Logger
}

// NewScheduler creates a scheduler with the given pool size (minimum 1)
func NewScheduler(
	workers int,
	downloader Downloader,
	organizer *infrastructure.Organizer,
	merger Merger,
	stats *domain.RunStats,
	archive domain.OutcomeArchive,
	keepVideoOnly bool,
	log *zap.Logger,
) *Scheduler {
	if workers < 1 {
		workers = 1
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Scheduler{
		workers:       workers,
		downloader:    downloader,
		organizer:     organizer,
		merger:        merger,
		stats:         stats,
		archive:       archive,
		keepVideoOnly: keepVideoOnly,
		logger:        log,
	}
}

// Run executes all work items on the pool and returns every task outcome
// once the pool has drained.
func (s *Scheduler) Run(ctx context.Context, items []WorkItem) []domain.TaskOutcome {
	queue := make(chan WorkItem)
	outcomes := make(chan domain.TaskOutcome, s.workers*2)

	var collected []domain.TaskOutcome
	collectorDone := make(chan struct{})
	go func() {
		defer close(collectorDone)
		for o := range outcomes {
			s.record(o)
			collected = append(collected, o)
		}
	}()

	var wg sync.WaitGroup
	for i := 0; i < s.workers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for item := range queue {
				s.execute(ctx, item, outcomes)
			}
		}(i)
	}

	for _, item := range items {
		queue <- item
	}
	close(queue)
	wg.Wait()
	close(outcomes)
	<-collectorDone

	return collected
}

// record folds one outcome into the shared aggregate, the archive, and the log
func (s *Scheduler) record(o domain.TaskOutcome) {
	s.stats.RecordOutcome(o)

	if s.archive != nil {
		if err := s.archive.Save(domain.NewOutcomeRecord(o)); err != nil {
			s.logger.Warn("failed to archive outcome", zap.Error(err))
		}
	}

	fields := []zap.Field{
		zap.String("post", o.Task.Post.ID),
		zap.String("subreddit", o.Task.Subreddit),
		zap.String("kind", string(o.Task.Kind)),
		zap.String("url", o.Task.URL),
		zap.Int("attempts", o.Attempts),
	}
	switch o.Status {
	case domain.OutcomeSuccess:
		s.logger.Info("task completed", append(fields,
			zap.Int64("bytes", o.BytesWritten),
			zap.String("path", o.LocalPath))...)
	case domain.OutcomeDegraded:
		s.logger.Warn("task degraded", append(fields,
			zap.String("reason", string(o.Kind)),
			zap.String("path", o.LocalPath))...)
	case domain.OutcomeSkipped:
		s.logger.Debug("task skipped", append(fields, zap.String("reason", string(o.Kind)))...)
	case domain.OutcomeFailed:
		s.logger.Error("task failed", append(fields,
			zap.String("reason", string(o.Kind)),
			zap.Error(o.Err))...)
	}
}

func (s *Scheduler) execute(ctx context.Context, item WorkItem, out chan<- domain.TaskOutcome) {
	if len(item.Tasks) == 0 {
		return
	}
	switch item.Tasks[0].Kind {
	case domain.TaskVideo:
		s.executeVideo(ctx, item, out)
	default:
		out <- s.executeImage(ctx, item.Tasks[0])
	}
}

// executeImage fetches a single image task to its final path
func (s *Scheduler) executeImage(ctx context.Context, task *domain.DownloadTask) domain.TaskOutcome {
	final := s.organizer.ImagePath(task)
	if s.organizer.ShouldSkip(final) {
		return domain.Skipped(task, domain.ErrAlreadyExists)
	}

	tmp := s.organizer.TempPath(final)
	bytes, attempts, err := s.downloader.Download(ctx, task.URL, tmp)
	task.Attempts = attempts
	if err != nil {
		return downloadOutcome(task, err, attempts)
	}

	if err := s.organizer.Commit(tmp, final); err != nil {
		return domain.Failed(task, domain.ErrTransientFailure, attempts, err)
	}
	return domain.Succeeded(task, bytes, final, attempts)
}

// executeVideo fetches the video stream, then tries the post's audio
// candidates strictly in priority order, merging the first success.
func (s *Scheduler) executeVideo(ctx context.Context, item WorkItem, out chan<- domain.TaskOutcome) {
	video := item.Tasks[0]
	candidates := item.Tasks[1:]

	plain := s.organizer.VideoPath(video, false)
	merged := s.organizer.VideoPath(video, true)

	// Either final artifact counts as completed work for this post.
	if s.organizer.ShouldSkip(plain) || s.organizer.ShouldSkip(merged) {
		out <- domain.Skipped(video, domain.ErrAlreadyExists)
		for _, cand := range candidates {
			out <- domain.Skipped(cand, domain.ErrAlreadyExists)
		}
		return
	}

	videoTmp := s.organizer.TempPath(plain)
	videoBytes, attempts, err := s.downloader.Download(ctx, video.URL, videoTmp)
	video.Attempts = attempts
	if err != nil {
		out <- downloadOutcome(video, err, attempts)
		for _, cand := range candidates {
			out <- domain.Skipped(cand, domain.ErrCandidateAbandoned)
		}
		return
	}

	audioTmp := s.tryAudioCandidates(ctx, candidates, plain, out)

	if audioTmp == "" {
		if err := s.organizer.Commit(videoTmp, plain); err != nil {
			out <- domain.Failed(video, domain.ErrTransientFailure, attempts, err)
			return
		}
		out <- domain.Succeeded(video, videoBytes, plain, attempts)
		return
	}
	defer s.organizer.Discard(audioTmp)

	mergedTmp := s.organizer.TempPath(merged)
	if err := s.merger.Merge(ctx, videoTmp, audioTmp, mergedTmp); err != nil {
		s.logger.Warn("merge failed, keeping video-only artifact",
			zap.String("post", video.Post.ID),
			zap.Error(err))
		s.organizer.Discard(mergedTmp)
		if err := s.organizer.Commit(videoTmp, plain); err != nil {
			out <- domain.Failed(video, domain.ErrTransientFailure, attempts, err)
			return
		}
		out <- domain.Degraded(video, domain.ErrMergeFailed, videoBytes, plain, attempts)
		return
	}

	if err := s.organizer.Commit(mergedTmp, merged); err != nil {
		s.organizer.Discard(videoTmp)
		out <- domain.Failed(video, domain.ErrTransientFailure, attempts, err)
		return
	}
	s.stats.RecordMerge(video.Subreddit)

	if s.keepVideoOnly {
		if err := s.organizer.Commit(videoTmp, plain); err != nil {
			s.logger.Warn("failed to retain video-only file", zap.Error(err))
		}
	} else {
		s.organizer.Discard(videoTmp)
	}

	out <- domain.Succeeded(video, videoBytes, merged, attempts)
}

// tryAudioCandidates probes and downloads candidates in priority order,
// committing to the first success. Candidates after a winner are abandoned
// without being started. Returns the temporary audio path, or "" when no
// candidate succeeded.
func (s *Scheduler) tryAudioCandidates(ctx context.Context, candidates []*domain.DownloadTask, base string, out chan<- domain.TaskOutcome) string {
	var audioTmp string

	for _, cand := range candidates {
		if audioTmp != "" {
			out <- domain.Skipped(cand, domain.ErrCandidateAbandoned)
			continue
		}

		exists, err := s.downloader.Probe(ctx, cand.URL)
		if err != nil {
			out <- domain.Failed(cand, domain.KindOf(err), 1, err)
			continue
		}
		if !exists {
			out <- domain.Skipped(cand, domain.ErrAudioNotFound)
			continue
		}

		tmp := s.organizer.TempPath(base + ".audio")
		bytes, attempts, err := s.downloader.Download(ctx, cand.URL, tmp)
		cand.Attempts = attempts
		if err != nil {
			out <- downloadOutcome(cand, err, attempts)
			continue
		}

		audioTmp = tmp
		// The audio track only survives inside the merged artifact, so the
		// outcome carries no local path of its own.
		out <- domain.Succeeded(cand, bytes, "", attempts)
	}

	return audioTmp
}

// downloadOutcome maps a download error to a skip or failure outcome.
// Size-ceiling violations are skips; everything else is a failure.
func downloadOutcome(task *domain.DownloadTask, err error, attempts int) domain.TaskOutcome {
	kind := domain.KindOf(err)
	if kind == domain.ErrSizeExceeded {
		return domain.Skipped(task, domain.ErrSizeExceeded)
	}
	return domain.Failed(task, kind, attempts, err)
}
