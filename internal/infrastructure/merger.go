package infrastructure

import (
	"context"
	"fmt"
	"os/exec"

	"go.uber.org/zap"

	"github.com/yourusername/reddit-dl-go/internal/domain"
)

// FFmpegMerger combines a downloaded video stream and audio stream into one
// container. Availability of the external tool is detected exactly once at
// construction; a missing tool surfaces as a single warning, never a
// per-task failure storm.
type FFmpegMerger struct {
	bin       string
	available bool
	logger    *zap.Logger
}

// NewFFmpegMerger probes the ffmpeg binary once and remembers the result
func NewFFmpegMerger(bin string, log *zap.Logger) *FFmpegMerger {
	if bin == "" {
		bin = "ffmpeg"
	}
	if log == nil {
		log = zap.NewNop()
	}

	m := &FFmpegMerger{bin: bin, logger: log}
	if err := exec.Command(bin, "-version").Run(); err != nil {
		log.Warn("ffmpeg not available, audio merging disabled",
			zap.String("binary", bin),
			zap.Error(err))
		return m
	}
	m.available = true
	log.Debug("ffmpeg is available", zap.String("binary", bin))
	return m
}

// Available reports whether merging can be attempted at all
func (m *FFmpegMerger) Available() bool {
	return m.available
}

// Merge combines videoPath and audioPath into outPath. The video stream is
// copied without re-encoding; audio is transcoded to AAC. Failure degrades
// the post to video-only, it never fails it.
func (m *FFmpegMerger) Merge(ctx context.Context, videoPath, audioPath, outPath string) error {
	if !m.available {
		return domain.NewClassifiedError(domain.ErrMergeFailed, fmt.Errorf("%s not available", m.bin))
	}

	args := []string{
		"-i", videoPath,
		"-i", audioPath,
		"-c:v", "copy",
		"-c:a", "aac",
		"-strict", "experimental",
		"-loglevel", "warning",
		"-y",
		outPath,
	}
	m.logger.Debug("merging audio and video",
		zap.String("cmd", ShellEscapeCommand(m.bin, args...)))

	cmd := exec.CommandContext(ctx, m.bin, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return domain.NewClassifiedError(domain.ErrMergeFailed,
			fmt.Errorf("%s failed: %v: %s", m.bin, err, string(out)))
	}
	return nil
}
