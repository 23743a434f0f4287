package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/reddit-dl-go/internal/domain"
)

func validConfig() *domain.Config {
	cfg := domain.DefaultConfig()
	cfg.Auth.ClientID = "id"
	cfg.Auth.ClientSecret = "secret"
	cfg.Download.OutputDir = "/tmp/out"
	return cfg
}

func TestLoadConfig_Defaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(""), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, domain.SortHot, cfg.Reddit.Sort)
	assert.Equal(t, 25, cfg.Reddit.Limit)
	assert.Equal(t, 60, cfg.Reddit.RequestsPerMin)
	assert.Equal(t, 4, cfg.Download.MaxWorkers)
	assert.Equal(t, domain.DefaultAudioPatterns(), cfg.Media.AudioPatterns)

	// Galleries and audio are opt-in, matching their command-line flags.
	assert.True(t, cfg.Download.Images)
	assert.True(t, cfg.Download.Videos)
	assert.False(t, cfg.Download.Galleries)
	assert.False(t, cfg.Download.Audio)
}

func TestLoadConfig_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
reddit:
  sort: top
  time_window: week
  limit: 10
  min_score: 100
download:
  output_dir: /data/reddit
  max_workers: 2
media:
  audio_patterns:
    - HLS_audio.ts
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, domain.SortTop, cfg.Reddit.Sort)
	assert.Equal(t, domain.WindowWeek, cfg.Reddit.TimeWindow)
	assert.Equal(t, 10, cfg.Reddit.Limit)
	assert.Equal(t, 100, cfg.Reddit.MinScore)
	assert.Equal(t, "/data/reddit", cfg.Download.OutputDir)
	assert.Equal(t, 2, cfg.Download.MaxWorkers)
	assert.Equal(t, []string{"HLS_audio.ts"}, cfg.Media.AudioPatterns)

	// Untouched sections keep their defaults.
	assert.Equal(t, "https://oauth.reddit.com", cfg.Reddit.BaseURL)
}

func TestLoadConfig_CredentialsFromEnvironment(t *testing.T) {
	t.Setenv("REDDIT_CLIENT_ID", "env-id")
	t.Setenv("REDDIT_CLIENT_SECRET", "env-secret")
	t.Setenv("REDDIT_USER_AGENT", "env-agent/1.0")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("reddit:\n  limit: 5\n"), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "env-id", cfg.Auth.ClientID)
	assert.Equal(t, "env-secret", cfg.Auth.ClientSecret)
	assert.Equal(t, "env-agent/1.0", cfg.Auth.UserAgent)
}

func TestLoadConfig_ExpandsPaths(t *testing.T) {
	t.Setenv("DATA_ROOT", "/srv/data")

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "download:\n  output_dir: $DATA_ROOT/reddit\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/data/reddit", cfg.Download.OutputDir)
}

func TestLoadConfig_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("reddit: [not a map\n"), 0644))

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Equal(t, domain.ErrConfiguration, domain.KindOf(err))
}

func TestValidateConfig(t *testing.T) {
	assert.NoError(t, ValidateConfig(validConfig()))
}

func TestValidateConfig_MissingCredentials(t *testing.T) {
	cfg := validConfig()
	cfg.Auth.ClientSecret = ""

	err := ValidateConfig(cfg)
	require.Error(t, err)
	assert.Equal(t, domain.ErrConfiguration, domain.KindOf(err))
	assert.Contains(t, err.Error(), "REDDIT_CLIENT_ID")
}

func TestValidateConfig_Violations(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*domain.Config)
	}{
		{"bad sort", func(c *domain.Config) { c.Reddit.Sort = "controversial" }},
		{"bad window", func(c *domain.Config) { c.Reddit.TimeWindow = "fortnight" }},
		{"zero limit", func(c *domain.Config) { c.Reddit.Limit = 0 }},
		{"zero workers", func(c *domain.Config) { c.Download.MaxWorkers = 0 }},
		{"negative size", func(c *domain.Config) { c.Download.MaxFileSizeMB = -1 }},
		{"zero retries", func(c *domain.Config) { c.Download.MaxRetries = 0 }},
		{"no output dir", func(c *domain.Config) { c.Download.OutputDir = "" }},
		{"history without path", func(c *domain.Config) { c.History.Enabled = true; c.History.DatabasePath = "" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(cfg)

			err := ValidateConfig(cfg)
			require.Error(t, err)
			assert.Equal(t, domain.ErrConfiguration, domain.KindOf(err))
		})
	}
}
