package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/yourusername/reddit-dl-go/api"
	"github.com/yourusername/reddit-dl-go/internal/app"
	"github.com/yourusername/reddit-dl-go/internal/domain"
	"github.com/yourusername/reddit-dl-go/internal/infrastructure"
	"github.com/yourusername/reddit-dl-go/internal/media"
	"github.com/yourusername/reddit-dl-go/internal/reddit"
	"github.com/yourusername/reddit-dl-go/pkg/logger"
	"github.com/yourusername/reddit-dl-go/pkg/retry"
)

const defaultSubredditFile = "subreddits.txt"

var (
	configPath string

	flagSubreddits    []string
	flagFile          string
	flagOutputDir     string
	flagOverwrite     bool
	flagSort          string
	flagTimeWindow    string
	flagLimit         int
	flagMinScore      int
	flagNoImages      bool
	flagNoVideos      bool
	flagGalleries     bool
	flagAudio         bool
	flagKeepVideoOnly bool
	flagWorkers       int
	flagMaxFileSizeMB int64
	flagHistoryDB     string
	flagStatsAddr     string
	flagLogsDir       string
	flagVerbose       bool
	flagDebug         bool
)

var rootCmd = &cobra.Command{
	Use:   "reddit-dl",
	Short: "Download images and videos from Reddit subreddits",
	Long: `reddit-dl fetches posts from one or more subreddits, filters them by
score, and downloads the associated media into an organized directory tree.
Video posts can optionally have their separately hosted audio track fetched
and merged with ffmpeg.

Credentials are read from the environment: REDDIT_CLIENT_ID,
REDDIT_CLIENT_SECRET and optionally REDDIT_USER_AGENT.`,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	f := rootCmd.Flags()
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file")

	f.StringSliceVarP(&flagSubreddits, "subreddits", "s", nil, "Subreddit names to download from")
	f.StringVarP(&flagFile, "file", "f", "", "Path to file containing subreddit names, one per line")
	f.StringVarP(&flagOutputDir, "output-dir", "o", ".", "Base directory for downloaded files")
	f.BoolVar(&flagOverwrite, "overwrite", false, "Overwrite existing files")
	f.StringVar(&flagSort, "sort", "hot", "Sort mode: hot, new, top")
	f.StringVar(&flagTimeWindow, "time-filter", "all", "Time window for top sort: hour, day, week, month, year, all")
	f.IntVar(&flagLimit, "limit", 25, "Maximum posts to process per subreddit")
	f.IntVar(&flagMinScore, "min-score", 0, "Minimum score required to download a post")
	f.BoolVar(&flagNoImages, "no-images", false, "Skip downloading images")
	f.BoolVar(&flagNoVideos, "no-videos", false, "Skip downloading videos")
	f.BoolVar(&flagGalleries, "download-galleries", false, "Download gallery posts (multiple images)")
	f.BoolVar(&flagAudio, "download-audio", false, "Download and merge audio for videos (requires ffmpeg)")
	f.BoolVar(&flagKeepVideoOnly, "keep-video-only", false, "Keep the video-only file after merging with audio")
	f.IntVar(&flagWorkers, "max-workers", 4, "Number of concurrent download workers")
	f.Int64Var(&flagMaxFileSizeMB, "max-file-size-mb", 0, "Maximum file size in MB (0 = unlimited)")
	f.StringVar(&flagHistoryDB, "history-db", "", "Append task outcomes to this sqlite database")
	f.StringVar(&flagStatsAddr, "stats-addr", "", "Serve live run statistics on this address, e.g. :8080")
	f.StringVar(&flagLogsDir, "logs-dir", "", "Write a per-run log file into this directory")
	f.BoolVarP(&flagVerbose, "verbose", "v", false, "Stream per-task progress")
	f.BoolVarP(&flagDebug, "debug", "d", false, "Enable debug logging, including retry timing")
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := app.LoadConfig(configPath)
	if err != nil {
		return err
	}
	applyFlags(cmd, cfg)

	if err := app.ValidateConfig(cfg); err != nil {
		return err
	}

	subreddits, err := resolveSubreddits(cmd)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.Download.OutputDir, 0755); err != nil {
		return domain.NewClassifiedError(domain.ErrConfiguration,
			fmt.Errorf("output directory not writable: %w", err))
	}

	log, err := logger.New(logger.Config{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		OutputPath: cfg.Logging.OutputPath,
		LogsDir:    cfg.Logging.LogsDir,
	})
	if err != nil {
		return domain.NewClassifiedError(domain.ErrConfiguration, err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	limiter := reddit.NewLimiter(cfg.Reddit.RequestsPerMin)
	client := reddit.NewClient(cfg.Auth, cfg.Reddit, limiter, log)
	if err := client.Authenticate(ctx); err != nil {
		return domain.NewClassifiedError(domain.ErrConfiguration, err)
	}

	merger := infrastructure.NewFFmpegMerger(cfg.Media.FFmpegBinary, log)
	if cfg.Download.Audio && !merger.Available() {
		// One warning at startup, then audio tasks are skipped proactively.
		cfg.Download.Audio = false
	}

	var archive domain.OutcomeArchive
	if cfg.History.Enabled {
		sqlArchive, err := infrastructure.NewSQLiteOutcomeArchive(cfg.History.DatabasePath)
		if err != nil {
			return domain.NewClassifiedError(domain.ErrConfiguration, err)
		}
		defer sqlArchive.Close()
		archive = sqlArchive
	}

	stats := domain.NewRunStats()

	var statsServer *http.Server
	if cfg.Stats.Addr != "" {
		statsServer = &http.Server{
			Addr:    cfg.Stats.Addr,
			Handler: api.SetupRouter(stats, log),
		}
		go func() {
			if err := statsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Warn("stats server stopped", zap.Error(err))
			}
		}()
	}

	policy := retry.DefaultPolicy(domain.IsRetryable)
	policy.MaxAttempts = cfg.Download.MaxRetries
	downloader := infrastructure.NewFileDownloader(client, policy, cfg.Download.MaxFileSizeMB, log)
	organizer := infrastructure.NewOrganizer(cfg.Download, cfg.Media)
	resolver := media.NewResolver(cfg.Download, cfg.Media)
	scheduler := app.NewScheduler(
		cfg.Download.MaxWorkers, downloader, organizer, merger,
		stats, archive, cfg.Download.KeepVideoOnly, log)

	pipeline := app.NewPipeline(cfg, client, resolver, scheduler, organizer, stats, log)
	pipeline.Run(ctx, subreddits)

	if statsServer != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		statsServer.Shutdown(shutdownCtx)
	}

	// Per-post skips and failures are recorded in the summary, not in the
	// exit status. Only startup conditions are fatal.
	return nil
}

// applyFlags overlays explicitly set command-line flags onto the config
func applyFlags(cmd *cobra.Command, cfg *domain.Config) {
	flags := cmd.Flags()

	if flags.Changed("output-dir") || cfg.Download.OutputDir == "" {
		cfg.Download.OutputDir = flagOutputDir
	}
	if flags.Changed("overwrite") {
		cfg.Download.Overwrite = flagOverwrite
	}
	if flags.Changed("sort") {
		cfg.Reddit.Sort = domain.SortMode(flagSort)
	}
	if flags.Changed("time-filter") {
		cfg.Reddit.TimeWindow = domain.TimeWindow(flagTimeWindow)
	}
	if flags.Changed("limit") {
		cfg.Reddit.Limit = flagLimit
	}
	if flags.Changed("min-score") {
		cfg.Reddit.MinScore = flagMinScore
	}
	if flags.Changed("no-images") {
		cfg.Download.Images = !flagNoImages
	}
	if flags.Changed("no-videos") {
		cfg.Download.Videos = !flagNoVideos
	}
	if flags.Changed("download-galleries") {
		cfg.Download.Galleries = flagGalleries
	}
	if flags.Changed("download-audio") {
		cfg.Download.Audio = flagAudio
	}
	if flags.Changed("keep-video-only") {
		cfg.Download.KeepVideoOnly = flagKeepVideoOnly
	}
	if flags.Changed("max-workers") {
		cfg.Download.MaxWorkers = flagWorkers
	}
	if flags.Changed("max-file-size-mb") {
		cfg.Download.MaxFileSizeMB = flagMaxFileSizeMB
	}
	if flags.Changed("history-db") {
		cfg.History.Enabled = true
		cfg.History.DatabasePath = flagHistoryDB
	}
	if flags.Changed("stats-addr") {
		cfg.Stats.Addr = flagStatsAddr
	}
	if flags.Changed("logs-dir") {
		cfg.Logging.LogsDir = flagLogsDir
	}

	// Verbosity flags raise the configured level; without them the config
	// value stands so the end-of-run summary is still emitted.
	switch {
	case flagDebug:
		cfg.Logging.Level = "debug"
	case flagVerbose:
		cfg.Logging.Level = "info"
	}
}

// resolveSubreddits picks the input source: explicit list, file, or the
// default subreddits.txt in the working directory.
func resolveSubreddits(cmd *cobra.Command) ([]string, error) {
	if len(flagSubreddits) > 0 {
		return flagSubreddits, nil
	}
	if flagFile != "" {
		subs, err := app.ReadSubredditFile(flagFile)
		if err != nil {
			return nil, domain.NewClassifiedError(domain.ErrConfiguration, err)
		}
		return subs, nil
	}
	if _, err := os.Stat(defaultSubredditFile); err == nil {
		subs, err := app.ReadSubredditFile(defaultSubredditFile)
		if err != nil {
			return nil, domain.NewClassifiedError(domain.ErrConfiguration, err)
		}
		return subs, nil
	}
	return nil, domain.NewClassifiedError(domain.ErrConfiguration,
		fmt.Errorf("no subreddits specified: use --subreddits or --file"))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
