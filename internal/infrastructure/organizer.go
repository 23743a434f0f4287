package infrastructure

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/yourusername/reddit-dl-go/internal/domain"
	"github.com/yourusername/reddit-dl-go/internal/media"
)

const (
	imagesDir       = "images"
	videosDir       = "videos"
	withAudioSuffix = "_with_audio"
)

var illegalFilenameChars = regexp.MustCompile(`[\\/*?:"<>|]`)

// SanitizeTitle strips characters illegal in file names, replaces spaces,
// and truncates to maxLen to avoid path-length failures.
func SanitizeTitle(title string, maxLen int) string {
	s := illegalFilenameChars.ReplaceAllString(title, "_")
	s = strings.ReplaceAll(s, " ", "_")
	if maxLen > 0 && len(s) > maxLen {
		s = s[:maxLen]
	}
	return s
}

// Organizer maps completed tasks to deterministic output paths, applies the
// overwrite policy, and performs atomic commits. Destination paths are
// uniquely determined by (subreddit, media kind, score, title, ordinal);
// collisions are resolved by the overwrite policy, never by silent loss.
type Organizer struct {
	outputDir   string
	overwrite   bool
	maxTitleLen int
}

// NewOrganizer creates an organizer rooted at cfg.OutputDir
func NewOrganizer(cfg domain.DownloadConfig, mediaCfg domain.MediaConfig) *Organizer {
	maxLen := mediaCfg.MaxTitleLen
	if maxLen <= 0 {
		maxLen = 100
	}
	return &Organizer{
		outputDir:   cfg.OutputDir,
		overwrite:   cfg.Overwrite,
		maxTitleLen: maxLen,
	}
}

// EnsureDirs creates the per-subreddit images and videos directories
func (o *Organizer) EnsureDirs(subreddit string) error {
	for _, sub := range []string{imagesDir, videosDir} {
		if err := os.MkdirAll(filepath.Join(o.outputDir, subreddit, sub), 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	return nil
}

// baseName builds "<score>_<sanitizedTitle>[_ordinal]"
func (o *Organizer) baseName(task *domain.DownloadTask) string {
	name := fmt.Sprintf("%d_%s", task.Post.Score, SanitizeTitle(task.Post.Title, o.maxTitleLen))
	if task.Ordinal > 0 {
		name = fmt.Sprintf("%s_%d", name, task.Ordinal)
	}
	return name
}

// ImagePath computes the destination for an image task
func (o *Organizer) ImagePath(task *domain.DownloadTask) string {
	ext := media.ExtOf(task.URL)
	if ext == "" {
		ext = ".jpg"
	}
	return filepath.Join(o.outputDir, task.Subreddit, imagesDir, o.baseName(task)+ext)
}

// VideoPath computes the destination for a video task; withAudio selects
// the merged-artifact name.
func (o *Organizer) VideoPath(task *domain.DownloadTask, withAudio bool) string {
	name := o.baseName(task)
	if withAudio {
		name += withAudioSuffix
	}
	return filepath.Join(o.outputDir, task.Subreddit, videosDir, name+".mp4")
}

// ShouldSkip reports whether path already holds a completed artifact and
// the overwrite policy forbids replacing it.
func (o *Organizer) ShouldSkip(path string) bool {
	if o.overwrite {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// TempPath returns a unique temporary path in the same directory as final,
// so the later rename is atomic.
func (o *Organizer) TempPath(final string) string {
	dir, base := filepath.Split(final)
	return filepath.Join(dir, fmt.Sprintf(".%s.%s.part", base, uuid.New().String()[:8]))
}

// Commit atomically renames a temporary file into its final place. A crash
// mid-download therefore never leaves a half-written file at the final path.
func (o *Organizer) Commit(tmp, final string) error {
	if err := os.Rename(tmp, final); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to commit %s: %w", final, err)
	}
	return nil
}

// Discard removes a temporary file, ignoring absence
func (o *Organizer) Discard(tmp string) {
	if tmp != "" {
		os.Remove(tmp)
	}
}
