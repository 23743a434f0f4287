package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	err := NewClassifiedError(ErrFatalRequest, errors.New("status 404"))
	assert.Equal(t, ErrFatalRequest, KindOf(err))

	wrapped := fmt.Errorf("listing failed: %w", err)
	assert.Equal(t, ErrFatalRequest, KindOf(wrapped))

	assert.Equal(t, ErrTransientFailure, KindOf(errors.New("connection reset")))
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(NewClassifiedError(ErrRateLimitExceeded, nil)))
	assert.True(t, IsRetryable(NewClassifiedError(ErrTransientFailure, nil)))
	assert.True(t, IsRetryable(errors.New("plain network error")))

	assert.False(t, IsRetryable(NewClassifiedError(ErrFatalRequest, nil)))
	assert.False(t, IsRetryable(NewClassifiedError(ErrSizeExceeded, nil)))
	assert.False(t, IsRetryable(NewClassifiedError(ErrConfiguration, nil)))
}

func TestClassifiedError_Message(t *testing.T) {
	err := NewClassifiedError(ErrTransientFailure, errors.New("status 503"))
	assert.Equal(t, "TransientFailure: status 503", err.Error())

	bare := NewClassifiedError(ErrAlreadyExists, nil)
	assert.Equal(t, "AlreadyExists", bare.Error())
}
