package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/yourusername/reddit-dl-go/internal/domain"
)

// LoadConfig loads configuration from an optional YAML file and the
// environment. Feed credentials are only ever read from the environment.
func LoadConfig(configPath string) (*domain.Config, error) {
	config := domain.DefaultConfig()

	v := viper.New()
	v.SetConfigType("yaml")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath("./configs")
		v.AddConfigPath("$HOME/.reddit-dl")
		v.AddConfigPath("/etc/reddit-dl")
	}

	v.SetEnvPrefix("REDDITDL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Credentials are opaque values from the process environment.
	v.BindEnv("auth.client_id", "REDDIT_CLIENT_ID")
	v.BindEnv("auth.client_secret", "REDDIT_CLIENT_SECRET")
	v.BindEnv("auth.user_agent", "REDDIT_USER_AGENT")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, domain.NewClassifiedError(domain.ErrConfiguration,
				fmt.Errorf("failed to read config file: %w", err))
		}
		// Config file not found, use defaults
	}

	if err := v.Unmarshal(config); err != nil {
		return nil, domain.NewClassifiedError(domain.ErrConfiguration,
			fmt.Errorf("failed to unmarshal config: %w", err))
	}

	expandPaths(config)

	// Validation happens after the caller overlays command-line flags.
	return config, nil
}

// expandPaths expands environment variables in path configurations
func expandPaths(config *domain.Config) {
	config.Download.OutputDir = expandPath(config.Download.OutputDir)
	config.History.DatabasePath = expandPath(config.History.DatabasePath)
	config.Logging.LogsDir = expandPath(config.Logging.LogsDir)

	if config.Logging.OutputPath != "stdout" && config.Logging.OutputPath != "stderr" {
		config.Logging.OutputPath = expandPath(config.Logging.OutputPath)
	}
}

// expandPath expands environment variables and ~ in paths
func expandPath(path string) string {
	path = os.ExpandEnv(path)
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}
	return path
}

// ValidateConfig checks settings that would make a run impossible. Every
// violation is a fatal startup condition, never a per-request error.
func ValidateConfig(config *domain.Config) error {
	fail := func(format string, args ...interface{}) error {
		return domain.NewClassifiedError(domain.ErrConfiguration, fmt.Errorf(format, args...))
	}

	if config.Auth.ClientID == "" || config.Auth.ClientSecret == "" {
		return fail("feed credentials required: set REDDIT_CLIENT_ID and REDDIT_CLIENT_SECRET")
	}
	if !domain.ValidateSortMode(config.Reddit.Sort) {
		return fail("invalid sort mode: %s", config.Reddit.Sort)
	}
	if !domain.ValidateTimeWindow(config.Reddit.TimeWindow) {
		return fail("invalid time window: %s", config.Reddit.TimeWindow)
	}
	if config.Reddit.Limit < 1 {
		return fail("post limit must be at least 1")
	}
	if config.Download.MaxWorkers < 1 {
		return fail("worker count must be at least 1")
	}
	if config.Download.MaxFileSizeMB < 0 {
		return fail("max file size cannot be negative")
	}
	if config.Download.MaxRetries < 1 {
		return fail("retry attempts must be at least 1")
	}
	if config.Download.OutputDir == "" {
		return fail("output directory not configured")
	}
	if config.History.Enabled && config.History.DatabasePath == "" {
		return fail("history enabled but database path not configured")
	}
	if config.Logging.Level == "" {
		config.Logging.Level = "info"
	}
	return nil
}
