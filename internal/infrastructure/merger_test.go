package infrastructure

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/reddit-dl-go/internal/domain"
)

func TestFFmpegMerger_MissingBinary(t *testing.T) {
	m := NewFFmpegMerger("definitely-not-a-real-binary", nil)
	assert.False(t, m.Available())
}

func TestFFmpegMerger_MergeWhenUnavailable(t *testing.T) {
	m := NewFFmpegMerger("definitely-not-a-real-binary", nil)

	err := m.Merge(context.Background(), "v.mp4", "a.mp4", "out.mp4")
	require.Error(t, err)
	assert.Equal(t, domain.ErrMergeFailed, domain.KindOf(err))
}

func TestFFmpegMerger_DefaultBinaryName(t *testing.T) {
	m := NewFFmpegMerger("", nil)
	assert.Equal(t, "ffmpeg", m.bin)
}
