// Package media turns filtered posts into concrete download tasks.
package media

import (
	"net/url"
	"path"
	"strings"

	"github.com/yourusername/reddit-dl-go/internal/domain"
)

var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// Resolver determines a post's media kind once and produces its download
// tasks. It never touches the network; audio candidates are probed later by
// the scheduler, strictly in priority order.
type Resolver struct {
	images    bool
	videos    bool
	galleries bool
	audio     bool
	patterns  []string
}

// NewResolver creates a resolver honoring the media toggles
func NewResolver(dl domain.DownloadConfig, media domain.MediaConfig) *Resolver {
	patterns := media.AudioPatterns
	if len(patterns) == 0 {
		patterns = domain.DefaultAudioPatterns()
	}
	return &Resolver{
		images:    dl.Images,
		videos:    dl.Videos,
		galleries: dl.Galleries,
		audio:     dl.Audio,
		patterns:  patterns,
	}
}

// DetectKind produces the closed media kind tag for a post
func DetectKind(post *domain.Post) domain.MediaKind {
	switch {
	case post.IsVideo && post.VideoURL != "":
		return domain.KindVideo
	case post.IsGallery && len(post.GalleryItems) > 0:
		return domain.KindGallery
	case imageExtensions[ExtOf(post.URL)]:
		return domain.KindImage
	default:
		return domain.KindUnknown
	}
}

// ExtOf returns the lowercased extension of a URL path, query stripped
func ExtOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return strings.ToLower(path.Ext(rawURL))
	}
	return strings.ToLower(path.Ext(u.Path))
}

// Resolve maps one post to its ordered download tasks. A zero-task result
// carries a non-empty skip reason; the post is counted as skipped, never
// silently dropped.
func (r *Resolver) Resolve(post *domain.Post) ([]*domain.DownloadTask, domain.ErrorKind) {
	switch DetectKind(post) {
	case domain.KindImage:
		if !r.images {
			return nil, domain.ErrMediaDisabled
		}
		return []*domain.DownloadTask{domain.NewDownloadTask(post, domain.TaskImage, post.URL)}, ""

	case domain.KindGallery:
		if !r.galleries {
			return nil, domain.ErrMediaDisabled
		}
		tasks := make([]*domain.DownloadTask, 0, len(post.GalleryItems))
		for i, item := range post.GalleryItems {
			task := domain.NewDownloadTask(post, domain.TaskImage, item.URL)
			task.Ordinal = i + 1
			tasks = append(tasks, task)
		}
		return tasks, ""

	case domain.KindVideo:
		if !r.videos {
			return nil, domain.ErrMediaDisabled
		}
		tasks := []*domain.DownloadTask{domain.NewDownloadTask(post, domain.TaskVideo, post.VideoURL)}
		if r.audio && post.HasAudio {
			for i, candidate := range AudioCandidates(post.VideoURL, r.patterns) {
				task := domain.NewDownloadTask(post, domain.TaskAudioCandidate, candidate)
				task.Priority = i
				tasks = append(tasks, task)
			}
		}
		return tasks, ""

	default:
		return nil, domain.ErrUnsupportedMedia
	}
}

// AudioCandidates derives the ordered audio-track candidate URLs for a video
// URL by applying the pattern list to its base. The base is everything
// before the "DASH_" quality marker, or up to the last path segment when the
// marker is absent.
func AudioCandidates(videoURL string, patterns []string) []string {
	var base string
	if i := strings.Index(videoURL, "DASH_"); i >= 0 {
		base = videoURL[:i]
	} else if i := strings.LastIndex(videoURL, "/"); i >= 0 {
		base = videoURL[:i+1]
	} else {
		base = videoURL + "/"
	}

	candidates := make([]string, 0, len(patterns))
	for _, pattern := range patterns {
		candidates = append(candidates, base+pattern)
	}
	return candidates
}
