package infrastructure

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/reddit-dl-go/internal/domain"
)

func newTestOrganizer(t *testing.T, overwrite bool) (*Organizer, string) {
	t.Helper()
	dir := t.TempDir()
	o := NewOrganizer(
		domain.DownloadConfig{OutputDir: dir, Overwrite: overwrite},
		domain.MediaConfig{MaxTitleLen: 100},
	)
	return o, dir
}

func imageTask(title string, score, ordinal int) *domain.DownloadTask {
	post := &domain.Post{ID: "p1", Subreddit: "pics", Title: title, Score: score}
	task := domain.NewDownloadTask(post, domain.TaskImage, "https://i.redd.it/abc.png")
	task.Ordinal = ordinal
	return task
}

func TestSanitizeTitle(t *testing.T) {
	assert.Equal(t, "a_cat_photo", SanitizeTitle("a cat photo", 100))
	assert.Equal(t, "what_is_this_", SanitizeTitle(`what/is\this?`, 100))
	assert.Equal(t, "_title___2_", SanitizeTitle(`"title": 2?`, 100))

	long := strings.Repeat("x", 250)
	assert.Len(t, SanitizeTitle(long, 100), 100)
	assert.Equal(t, long, SanitizeTitle(long, 0), "zero means no truncation")
}

func TestOrganizer_ImagePath(t *testing.T) {
	o, dir := newTestOrganizer(t, false)

	path := o.ImagePath(imageTask("a cat", 42, 0))
	assert.Equal(t, filepath.Join(dir, "pics", "images", "42_a_cat.png"), path)
}

func TestOrganizer_ImagePath_GalleryOrdinal(t *testing.T) {
	o, dir := newTestOrganizer(t, false)

	path := o.ImagePath(imageTask("an album", 9, 3))
	assert.Equal(t, filepath.Join(dir, "pics", "images", "9_an_album_3.png"), path)
}

func TestOrganizer_ImagePath_DefaultExtension(t *testing.T) {
	o, _ := newTestOrganizer(t, false)

	task := imageTask("no ext", 1, 0)
	task.URL = "https://i.redd.it/noext"
	assert.True(t, strings.HasSuffix(o.ImagePath(task), ".jpg"))
}

func TestOrganizer_VideoPath(t *testing.T) {
	o, dir := newTestOrganizer(t, false)
	post := &domain.Post{ID: "v1", Subreddit: "videos", Title: "a clip", Score: 7}
	task := domain.NewDownloadTask(post, domain.TaskVideo, "https://v.redd.it/xyz/DASH_720.mp4")

	assert.Equal(t, filepath.Join(dir, "videos", "videos", "7_a_clip.mp4"), o.VideoPath(task, false))
	assert.Equal(t, filepath.Join(dir, "videos", "videos", "7_a_clip_with_audio.mp4"), o.VideoPath(task, true))
}

func TestOrganizer_EnsureDirs(t *testing.T) {
	o, dir := newTestOrganizer(t, false)
	require.NoError(t, o.EnsureDirs("pics"))

	for _, sub := range []string{"images", "videos"} {
		info, err := os.Stat(filepath.Join(dir, "pics", sub))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

func TestOrganizer_ShouldSkip(t *testing.T) {
	o, dir := newTestOrganizer(t, false)
	existing := filepath.Join(dir, "done.jpg")
	require.NoError(t, os.WriteFile(existing, []byte("x"), 0644))

	assert.True(t, o.ShouldSkip(existing))
	assert.False(t, o.ShouldSkip(filepath.Join(dir, "absent.jpg")))
}

func TestOrganizer_ShouldSkip_OverwriteEnabled(t *testing.T) {
	o, dir := newTestOrganizer(t, true)
	existing := filepath.Join(dir, "done.jpg")
	require.NoError(t, os.WriteFile(existing, []byte("x"), 0644))

	assert.False(t, o.ShouldSkip(existing))
}

func TestOrganizer_TempPathSameDirectory(t *testing.T) {
	o, dir := newTestOrganizer(t, false)
	final := filepath.Join(dir, "pics", "images", "1_x.jpg")

	tmp := o.TempPath(final)
	assert.Equal(t, filepath.Dir(final), filepath.Dir(tmp))
	assert.True(t, strings.HasSuffix(tmp, ".part"))
	assert.NotEqual(t, tmp, o.TempPath(final), "temp names must not collide")
}

func TestOrganizer_CommitRenames(t *testing.T) {
	o, dir := newTestOrganizer(t, false)
	final := filepath.Join(dir, "1_x.jpg")
	tmp := o.TempPath(final)
	require.NoError(t, os.WriteFile(tmp, []byte("payload"), 0644))

	require.NoError(t, o.Commit(tmp, final))

	data, err := os.ReadFile(final)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))

	_, err = os.Stat(tmp)
	assert.True(t, os.IsNotExist(err))
}

func TestOrganizer_DiscardRemovesTemp(t *testing.T) {
	o, dir := newTestOrganizer(t, false)
	tmp := filepath.Join(dir, ".x.part")
	require.NoError(t, os.WriteFile(tmp, []byte("partial"), 0644))

	o.Discard(tmp)
	_, err := os.Stat(tmp)
	assert.True(t, os.IsNotExist(err))

	o.Discard("") // no-op
}
