package media

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/reddit-dl-go/internal/domain"
)

func allEnabled() domain.DownloadConfig {
	return domain.DownloadConfig{Images: true, Videos: true, Galleries: true, Audio: true}
}

func imagePost() *domain.Post {
	return &domain.Post{ID: "img1", Subreddit: "pics", Title: "a cat", Score: 42,
		URL: "https://i.redd.it/abc.jpg"}
}

func videoPost() *domain.Post {
	return &domain.Post{ID: "vid1", Subreddit: "videos", Title: "a clip", Score: 7,
		URL:      "https://v.redd.it/xyz",
		IsVideo:  true,
		VideoURL: "https://v.redd.it/xyz/DASH_720.mp4",
		HasAudio: true}
}

func galleryPost(n int) *domain.Post {
	p := &domain.Post{ID: "gal1", Subreddit: "pics", Title: "an album", Score: 9, IsGallery: true}
	for i := 0; i < n; i++ {
		p.GalleryItems = append(p.GalleryItems, domain.GalleryItem{
			URL: fmt.Sprintf("https://i.redd.it/g%d.png", i), Ext: "png",
		})
	}
	return p
}

func TestDetectKind(t *testing.T) {
	assert.Equal(t, domain.KindImage, DetectKind(imagePost()))
	assert.Equal(t, domain.KindVideo, DetectKind(videoPost()))
	assert.Equal(t, domain.KindGallery, DetectKind(galleryPost(3)))
	assert.Equal(t, domain.KindUnknown, DetectKind(&domain.Post{URL: "https://example.com/article"}))
}

func TestDetectKind_QueryStringStripped(t *testing.T) {
	p := &domain.Post{URL: "https://i.redd.it/abc.jpeg?width=640&s=sig"}
	assert.Equal(t, domain.KindImage, DetectKind(p))
}

func TestResolve_SingleImage(t *testing.T) {
	r := NewResolver(allEnabled(), domain.MediaConfig{})

	tasks, skip := r.Resolve(imagePost())
	require.Empty(t, skip)
	require.Len(t, tasks, 1)
	assert.Equal(t, domain.TaskImage, tasks[0].Kind)
	assert.Equal(t, "https://i.redd.it/abc.jpg", tasks[0].URL)
	assert.Zero(t, tasks[0].Ordinal)
}

func TestResolve_GalleryAssignsOrdinals(t *testing.T) {
	r := NewResolver(allEnabled(), domain.MediaConfig{})

	tasks, skip := r.Resolve(galleryPost(3))
	require.Empty(t, skip)
	require.Len(t, tasks, 3)
	for i, task := range tasks {
		assert.Equal(t, domain.TaskImage, task.Kind)
		assert.Equal(t, i+1, task.Ordinal)
	}
}

func TestResolve_GalleryDisabled(t *testing.T) {
	cfg := allEnabled()
	cfg.Galleries = false
	r := NewResolver(cfg, domain.MediaConfig{})

	tasks, skip := r.Resolve(galleryPost(2))
	assert.Empty(t, tasks)
	assert.Equal(t, domain.ErrMediaDisabled, skip)
}

func TestResolve_VideoWithAudioCandidates(t *testing.T) {
	r := NewResolver(allEnabled(), domain.MediaConfig{})

	tasks, skip := r.Resolve(videoPost())
	require.Empty(t, skip)
	require.Len(t, tasks, 1+len(domain.DefaultAudioPatterns()))

	assert.Equal(t, domain.TaskVideo, tasks[0].Kind)
	for i, task := range tasks[1:] {
		assert.Equal(t, domain.TaskAudioCandidate, task.Kind)
		assert.Equal(t, i, task.Priority)
	}
	assert.Equal(t, "https://v.redd.it/xyz/DASH_audio.mp4", tasks[1].URL)
}

func TestResolve_VideoWithoutAudioFlag(t *testing.T) {
	p := videoPost()
	p.HasAudio = false
	r := NewResolver(allEnabled(), domain.MediaConfig{})

	tasks, skip := r.Resolve(p)
	require.Empty(t, skip)
	require.Len(t, tasks, 1)
	assert.Equal(t, domain.TaskVideo, tasks[0].Kind)
}

func TestResolve_AudioDisabled(t *testing.T) {
	cfg := allEnabled()
	cfg.Audio = false
	r := NewResolver(cfg, domain.MediaConfig{})

	tasks, _ := r.Resolve(videoPost())
	require.Len(t, tasks, 1)
}

func TestResolve_UnsupportedKind(t *testing.T) {
	r := NewResolver(allEnabled(), domain.MediaConfig{})

	tasks, skip := r.Resolve(&domain.Post{ID: "x", URL: "https://example.com/article"})
	assert.Empty(t, tasks)
	assert.Equal(t, domain.ErrUnsupportedMedia, skip)
}

func TestResolve_CustomPatternList(t *testing.T) {
	cfg := domain.MediaConfig{AudioPatterns: []string{"HLS_audio.ts"}}
	r := NewResolver(allEnabled(), cfg)

	tasks, _ := r.Resolve(videoPost())
	require.Len(t, tasks, 2)
	assert.Equal(t, "https://v.redd.it/xyz/HLS_audio.ts", tasks[1].URL)
}

func TestAudioCandidates_NoDashMarker(t *testing.T) {
	candidates := AudioCandidates("https://v.redd.it/xyz/720.mp4", []string{"audio"})
	require.Len(t, candidates, 1)
	assert.Equal(t, "https://v.redd.it/xyz/audio", candidates[0])
}
