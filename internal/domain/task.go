package domain

import (
	"github.com/google/uuid"
)

// TaskKind represents the target kind of a download task
type TaskKind string

const (
	TaskImage          TaskKind = "image"
	TaskVideo          TaskKind = "video"
	TaskAudioCandidate TaskKind = "audio"
)

// DownloadTask is one unit of work: a single file to fetch. Created by the
// media resolver, owned exclusively by the worker that executes it, and
// destroyed on completion or permanent failure.
type DownloadTask struct {
	ID        string
	Post      *Post
	Kind      TaskKind
	URL       string
	Subreddit string

	// Ordinal is the gallery position for multi-image posts, 0 otherwise.
	Ordinal int

	// Priority is the audio candidate position; candidates are tried in
	// ascending priority and the first success wins.
	Priority int

	// Attempts counts fetch attempts made so far.
	Attempts int
}

// NewDownloadTask creates a download task for a post
func NewDownloadTask(post *Post, kind TaskKind, url string) *DownloadTask {
	return &DownloadTask{
		ID:        uuid.New().String(),
		Post:      post,
		Kind:      kind,
		URL:       url,
		Subreddit: post.Subreddit,
	}
}

// OutcomeStatus is the terminal state of an executed task
type OutcomeStatus string

const (
	OutcomeSuccess  OutcomeStatus = "success"
	OutcomeSkipped  OutcomeStatus = "skipped"
	OutcomeFailed   OutcomeStatus = "failed"
	OutcomeDegraded OutcomeStatus = "degraded"
)

// TaskOutcome is the result of executing one task. Every generated task
// produces exactly one outcome, so success + skipped + failed (+ degraded)
// always equals the number of tasks generated.
type TaskOutcome struct {
	Task         *DownloadTask
	Status       OutcomeStatus
	Kind         ErrorKind // skip reason or failure kind, empty on plain success
	BytesWritten int64
	LocalPath    string
	Attempts     int
	Err          error
}

// Succeeded creates a success outcome
func Succeeded(task *DownloadTask, bytes int64, path string, attempts int) TaskOutcome {
	return TaskOutcome{Task: task, Status: OutcomeSuccess, BytesWritten: bytes, LocalPath: path, Attempts: attempts}
}

// Skipped creates a skip outcome with a reason
func Skipped(task *DownloadTask, reason ErrorKind) TaskOutcome {
	return TaskOutcome{Task: task, Status: OutcomeSkipped, Kind: reason}
}

// Failed creates a failure outcome recording the attempts made
func Failed(task *DownloadTask, kind ErrorKind, attempts int, err error) TaskOutcome {
	return TaskOutcome{Task: task, Status: OutcomeFailed, Kind: kind, Attempts: attempts, Err: err}
}

// Degraded creates an outcome for a task that completed with a lesser
// result, e.g. a video committed without its audio after a merge failure.
func Degraded(task *DownloadTask, kind ErrorKind, bytes int64, path string, attempts int) TaskOutcome {
	return TaskOutcome{Task: task, Status: OutcomeDegraded, Kind: kind, BytesWritten: bytes, LocalPath: path, Attempts: attempts}
}

// MergeJob pairs a successful video outcome with a successful (or absent)
// audio outcome for the same post.
type MergeJob struct {
	Post  *Post
	Video TaskOutcome
	Audio *TaskOutcome
}

// HasAudio reports whether an audio track was fetched for this job
func (j *MergeJob) HasAudio() bool {
	return j.Audio != nil && j.Audio.Status == OutcomeSuccess
}
