package domain

import "time"

// OutcomeRecord is the persisted form of a task outcome, appended to the
// run-history archive when history is enabled.
type OutcomeRecord struct {
	ID           string    `json:"id" gorm:"primaryKey"`
	PostID       string    `json:"post_id" gorm:"index"`
	Subreddit    string    `json:"subreddit" gorm:"index"`
	TaskKind     TaskKind  `json:"task_kind"`
	URL          string    `json:"url"`
	Status       string    `json:"status" gorm:"index"`
	Reason       string    `json:"reason,omitempty"`
	BytesWritten int64     `json:"bytes_written"`
	LocalPath    string    `json:"local_path,omitempty"`
	Attempts     int       `json:"attempts"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// NewOutcomeRecord converts a task outcome to its persisted form
func NewOutcomeRecord(o TaskOutcome) *OutcomeRecord {
	rec := &OutcomeRecord{
		ID:           o.Task.ID,
		PostID:       o.Task.Post.ID,
		Subreddit:    o.Task.Subreddit,
		TaskKind:     o.Task.Kind,
		URL:          o.Task.URL,
		Status:       string(o.Status),
		Reason:       string(o.Kind),
		BytesWritten: o.BytesWritten,
		LocalPath:    o.LocalPath,
		Attempts:     o.Attempts,
	}
	return rec
}

// OutcomeArchive defines the interface for outcome persistence
type OutcomeArchive interface {
	// Save appends one outcome record
	Save(record *OutcomeRecord) error

	// FindBySubreddit returns archived outcomes for a subreddit
	FindBySubreddit(subreddit string) ([]*OutcomeRecord, error)

	// CountByStatus returns the number of archived outcomes by status
	CountByStatus(status string) (int64, error)

	// Close releases the underlying store
	Close() error
}
