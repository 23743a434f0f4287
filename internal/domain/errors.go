package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies pipeline errors and skip reasons. Per-task kinds are
// contained and recorded in the run summary; only ErrConfiguration is fatal
// to the process, and only at startup.
type ErrorKind string

const (
	// ErrRateLimitExceeded means the feed kept throttling after retries.
	ErrRateLimitExceeded ErrorKind = "RateLimitExceeded"

	// ErrTransientFailure covers 5xx responses and connection errors that
	// survived the full retry schedule.
	ErrTransientFailure ErrorKind = "TransientFailure"

	// ErrFatalRequest covers non-429 4xx responses; retrying cannot help.
	ErrFatalRequest ErrorKind = "FatalRequestError"

	// ErrSizeExceeded means the declared or observed size passed the ceiling.
	ErrSizeExceeded ErrorKind = "SizeExceeded"

	// ErrAlreadyExists means the destination file exists and overwrite is off.
	ErrAlreadyExists ErrorKind = "AlreadyExists"

	// ErrUnsupportedMedia means the post's media kind could not be determined.
	ErrUnsupportedMedia ErrorKind = "UnsupportedMediaKind"

	// ErrMergeFailed degrades a video post to video-only; it never fails it.
	ErrMergeFailed ErrorKind = "MergeFailed"

	// ErrConfiguration is a fatal startup condition.
	ErrConfiguration ErrorKind = "ConfigurationError"

	// ErrMediaDisabled means the matching media toggle is off for this post.
	ErrMediaDisabled ErrorKind = "MediaTypeDisabled"

	// ErrAudioNotFound means an audio candidate URL turned out not to exist.
	ErrAudioNotFound ErrorKind = "AudioCandidateNotFound"

	// ErrCandidateAbandoned means an audio candidate was never attempted:
	// an earlier candidate already won, or the video itself did not complete.
	ErrCandidateAbandoned ErrorKind = "CandidateAbandoned"
)

// ClassifiedError carries an ErrorKind alongside the underlying error so
// callers can switch on the kind without string matching.
type ClassifiedError struct {
	Kind ErrorKind
	Err  error
}

func (e *ClassifiedError) Error() string {
	if e.Err == nil {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *ClassifiedError) Unwrap() error { return e.Err }

// NewClassifiedError wraps err with a kind
func NewClassifiedError(kind ErrorKind, err error) *ClassifiedError {
	return &ClassifiedError{Kind: kind, Err: err}
}

// KindOf extracts the ErrorKind from err, defaulting to TransientFailure
// for plain errors (connection failures arrive unclassified).
func KindOf(err error) ErrorKind {
	var ce *ClassifiedError
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return ErrTransientFailure
}

// IsRetryable reports whether an error is worth retrying with backoff.
// Throttling and transient failures are; fatal request errors are not.
func IsRetryable(err error) bool {
	switch KindOf(err) {
	case ErrRateLimitExceeded, ErrTransientFailure:
		return true
	}
	return false
}
