package domain

// Config represents the application configuration
type Config struct {
	Auth     AuthConfig     `mapstructure:"auth"`
	Reddit   RedditConfig   `mapstructure:"reddit"`
	Download DownloadConfig `mapstructure:"download"`
	Media    MediaConfig    `mapstructure:"media"`
	History  HistoryConfig  `mapstructure:"history"`
	Stats    StatsConfig    `mapstructure:"stats"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// AuthConfig holds the opaque feed credentials. All three come from the
// process environment; client id and secret missing is a fatal startup error.
type AuthConfig struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	UserAgent    string `mapstructure:"user_agent"`
}

// RedditConfig contains listing-request parameters
type RedditConfig struct {
	Sort           SortMode   `mapstructure:"sort"`
	TimeWindow     TimeWindow `mapstructure:"time_window"`
	Limit          int        `mapstructure:"limit"`
	MinScore       int        `mapstructure:"min_score"`
	RequestsPerMin int        `mapstructure:"requests_per_min"`
	BaseURL        string     `mapstructure:"base_url"`
	TokenURL       string     `mapstructure:"token_url"`
}

// DownloadConfig contains download-related configuration
type DownloadConfig struct {
	OutputDir     string `mapstructure:"output_dir"`
	Overwrite     bool   `mapstructure:"overwrite"`
	Images        bool   `mapstructure:"images"`
	Videos        bool   `mapstructure:"videos"`
	Galleries     bool   `mapstructure:"galleries"`
	Audio         bool   `mapstructure:"audio"`
	KeepVideoOnly bool   `mapstructure:"keep_video_only"`
	MaxWorkers    int    `mapstructure:"max_workers"`
	MaxFileSizeMB int64  `mapstructure:"max_file_size_mb"`
	MaxRetries    int    `mapstructure:"max_retries"`
}

// MediaConfig contains media resolution settings. AudioPatterns is
// configuration data, not logic: the list of URL suffixes probed for a
// separately hosted audio track, in priority order.
type MediaConfig struct {
	AudioPatterns []string `mapstructure:"audio_patterns"`
	FFmpegBinary  string   `mapstructure:"ffmpeg_binary"`
	MaxTitleLen   int      `mapstructure:"max_title_len"`
}

// HistoryConfig controls the optional sqlite outcome archive. The archive is
// a write-only record of completed work, not a resumable queue.
type HistoryConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	DatabasePath string `mapstructure:"database_path"`
}

// StatsConfig controls the optional live stats endpoint
type StatsConfig struct {
	Addr string `mapstructure:"addr"`
}

// LoggingConfig contains logging-related configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`       // debug, info, warn, error
	Format     string `mapstructure:"format"`      // json, console
	OutputPath string `mapstructure:"output_path"` // stdout, stderr, or file path
	LogsDir    string `mapstructure:"logs_dir"`    // per-run log files, empty disables
}

// DefaultAudioPatterns mirrors the historically observed audio hosting
// conventions. Best effort: some posts legitimately fail audio resolution.
func DefaultAudioPatterns() []string {
	return []string{
		"DASH_audio.mp4",
		"audio",
		"DASH_audio.m4a",
		"audio.mp4",
	}
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Auth: AuthConfig{
			UserAgent: "reddit-dl/1.0 (by /u/anonymous)",
		},
		Reddit: RedditConfig{
			Sort:           SortHot,
			TimeWindow:     WindowAll,
			Limit:          25,
			MinScore:       0,
			RequestsPerMin: 60,
			BaseURL:        "https://oauth.reddit.com",
			TokenURL:       "https://www.reddit.com/api/v1/access_token",
		},
		Download: DownloadConfig{
			OutputDir:     ".",
			Images:        true,
			Videos:        true,
			Galleries:     false,
			Audio:         false,
			MaxWorkers:    4,
			MaxFileSizeMB: 0,
			MaxRetries:    5,
		},
		Media: MediaConfig{
			AudioPatterns: DefaultAudioPatterns(),
			FFmpegBinary:  "ffmpeg",
			MaxTitleLen:   100,
		},
		History: HistoryConfig{
			Enabled: false,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "console",
			OutputPath: "stderr",
		},
	}
}
