package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"SetRadar/cache"
	"SetRadar/config"
	"SetRadar/core/recognizer"
	"SetRadar/core/scheduler"
	"SetRadar/core/segmenter"
	"SetRadar/core/tracklist"
	"SetRadar/db"
	"SetRadar/logger"
	"SetRadar/model"
	"SetRadar/repository"
	"SetRadar/storage"
)

var (
	flagSegmentLength  int
	flagProxy          string
	flagJSONOutput     string
	flagMinMatches     int
	flagMinConfidence  float64
	flagMaxGap         int
	flagMinCluster     int
	flagShowGaps       bool
	flagMinGapDuration int
	flagVerbose        bool
	flagCPUCount       int
	flagUseACRCloud    bool
	flagNoCache        bool
	flagArchive        bool
)

var recognizeCmd = &cobra.Command{
	Use:   "recognize <audio-file>",
	Short: "Identify the tracks inside an audio file",
	Long: `Split the audio file into fixed-length segments, query the recognition
service for each segment concurrently, and print the reconciled tracklist.
Interrupting the run (Ctrl-C) stops dispatching new segments and still
produces a best-effort partial report from whatever was collected.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRecognize(args[0])
	},
}

func init() {
	recognizeCmd.Flags().IntVar(&flagSegmentLength, "segment-length", 12000, "Segment length in milliseconds")
	recognizeCmd.Flags().StringVar(&flagProxy, "proxy", "", "Proxy URL or comma-separated rotation pool (overrides PROXY_POOL)")
	recognizeCmd.Flags().StringVar(&flagJSONOutput, "json-output", "", "Save results to JSON file")
	recognizeCmd.Flags().IntVar(&flagMinMatches, "min-matches", 2, "Minimum segment matches required")
	recognizeCmd.Flags().Float64Var(&flagMinConfidence, "min-confidence", 0.5, "Minimum confidence score (0-1)")
	recognizeCmd.Flags().IntVar(&flagMaxGap, "max-gap", 3, "Maximum segment gap in cluster")
	recognizeCmd.Flags().IntVar(&flagMinCluster, "min-cluster", 2, "Minimum segments in cluster")
	recognizeCmd.Flags().BoolVar(&flagShowGaps, "show-gaps", true, "Show unidentified gaps")
	recognizeCmd.Flags().IntVar(&flagMinGapDuration, "min-gap-duration", 30, "Minimum gap duration (seconds)")
	recognizeCmd.Flags().BoolVar(&flagVerbose, "verbose", false, "Enable verbose output")
	recognizeCmd.Flags().IntVar(&flagCPUCount, "cpu-count", 0, "Worker count (0 = number of CPUs)")
	recognizeCmd.Flags().BoolVar(&flagUseACRCloud, "use-acrcloud", true, "Use ACRCloud as fallback when credentials are configured")
	recognizeCmd.Flags().BoolVar(&flagNoCache, "no-cache", false, "Skip the Redis recognition result cache")
	recognizeCmd.Flags().BoolVar(&flagArchive, "archive", false, "Archive the JSON report to MinIO after the run")

	rootCmd.AddCommand(recognizeCmd)
}

func runRecognize(audioFile string) error {
	if _, err := os.Stat(audioFile); err != nil {
		return fmt.Errorf("audio file %s does not exist", audioFile)
	}

	cfg := config.Load()

	level := logger.LogLevel(cfg.LogLevel)
	if flagVerbose {
		level = logger.DebugLevel
	}
	logger.InitLogger(logger.Config{
		Level:      level,
		OutputPath: cfg.LogOutputPath,
		MaxSize:    50,
		MaxBackups: 3,
		MaxAge:     14,
	})

	// Pre-flight: a malformed proxy pool aborts before any dispatch.
	proxies := cfg.ProxyPool
	if flagProxy != "" {
		proxies = splitProxyFlag(flagProxy)
	}
	rotation, err := recognizer.NewRotation(proxies)
	if err != nil {
		return err
	}

	procOpts := config.ProcessOptions{
		SegmentLengthMS: flagSegmentLength,
		Workers:         flagCPUCount,
		UseCache:        !flagNoCache,
		UseACRCloud:     flagUseACRCloud,
	}
	outOpts := config.OutputOptions{
		JSONFile:       flagJSONOutput,
		ShowGaps:       flagShowGaps,
		MinGapDuration: flagMinGapDuration,
		Verbose:        flagVerbose,
		Archive:        flagArchive,
	}

	retryOpts := config.DefaultRetryOptions()
	primary := recognizer.NewShazamClient(cfg.ShazamAPIURL, retryOpts.RequestTimeout)

	var fallback recognizer.Client
	if procOpts.UseACRCloud {
		if cfg.ACRAccessKey != "" && cfg.ACRAccessSecret != "" {
			fallback = recognizer.NewACRCloudClient(cfg.ACRAccessKey, cfg.ACRAccessSecret, cfg.ACRHost, retryOpts.RequestTimeout)
		} else {
			logger.Warn("ACRCloud fallback requested but credentials not configured, using primary service only")
		}
	}

	var resultCache scheduler.ResultCache
	if cfg.CacheEnabled() && procOpts.UseCache {
		if err := cache.ConnectRedis(cfg); err != nil {
			logger.Warn("result cache unavailable, continuing without it", logger.ErrorField(err))
		} else {
			defer cache.CloseRedis()
			resultCache = cache.NewResultCache(30 * 24 * time.Hour)
		}
	}

	exec := recognizer.NewExecutor(primary, fallback, rotation, retryOpts)
	sched := scheduler.New(exec, resultCache, procOpts.Workers)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tempDir, err := os.MkdirTemp("", "setradar-segments-")
	if err != nil {
		return fmt.Errorf("failed to create temp segment directory: %w", err)
	}
	defer os.RemoveAll(tempDir)

	splitter := segmenter.NewSplitter(cfg.FFmpegPath, procOpts.SegmentLengthMS)
	segCh, err := splitter.Split(ctx, audioFile, tempDir)
	if err != nil {
		return err
	}

	// Relay the segment stream to the scheduler while keeping the timeline
	// for aggregation. Segments arrive in index order.
	var segments []model.Segment
	relay := make(chan model.Segment, 16)
	go func() {
		defer close(relay)
		for seg := range segCh {
			segments = append(segments, seg)
			relay <- seg
		}
	}()

	results, err := sched.Run(ctx, relay)
	if err != nil {
		return err
	}
	if ctx.Err() != nil {
		logger.Warn("run interrupted, reporting partial results",
			logger.Int("segments", len(results)))
	}
	logger.Info(sched.Progress().Summary())

	matchOpts := config.MatchOptions{
		MinMatches:    flagMinMatches,
		MaxGap:        flagMaxGap,
		MinCluster:    flagMinCluster,
		MinConfidence: flagMinConfidence,
	}
	tracks, err := tracklist.Aggregate(results, segments, matchOpts)
	if err != nil {
		return err
	}

	var gaps []model.Gap
	if outOpts.ShowGaps {
		gaps = tracklist.FindGaps(segments, tracks, outOpts.MinGapDuration)
	}

	tl := tracklist.Build(tracks, gaps, results)
	tracklist.WriteText(os.Stdout, tl)

	if outOpts.JSONFile != "" {
		if err := tracklist.WriteJSON(outOpts.JSONFile, tl); err != nil {
			return err
		}
		logger.Info("results saved", logger.String("path", outOpts.JSONFile))
	}

	runID := uuid.New().String()
	if outOpts.Archive {
		archiveReport(cfg, runID, tl)
	}
	if cfg.HistoryEnabled() {
		saveHistory(cfg, runID, audioFile, tl)
	}
	return nil
}

func splitProxyFlag(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// archiveReport uploads the JSON report to MinIO. Archive trouble is logged,
// never fatal: the tracklist is already on stdout.
func archiveReport(cfg *config.Config, runID string, tl model.Tracklist) {
	if !cfg.ArchiveEnabled() {
		logger.Warn("archive requested but MinIO is not configured")
		return
	}
	if err := storage.InitMinio(cfg); err != nil {
		logger.Error("failed to initialize report archive", logger.ErrorField(err))
		return
	}
	data, err := json.MarshalIndent(tl, "", "  ")
	if err != nil {
		logger.Error("failed to encode report for archiving", logger.ErrorField(err))
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if _, err := storage.ArchiveReport(ctx, cfg, runID, data); err != nil {
		logger.Error("failed to archive report", logger.ErrorField(err))
	}
}

// saveHistory stores the run in MySQL. History trouble is logged, never fatal.
func saveHistory(cfg *config.Config, runID, audioFile string, tl model.Tracklist) {
	if err := db.ConnectGormDB(cfg); err != nil {
		logger.Error("failed to connect run history database", logger.ErrorField(err))
		return
	}
	defer db.CloseGormDB()

	if err := db.AutoMigrateModels(&model.Run{}, &model.RunTrack{}); err != nil {
		logger.Error("failed to migrate run history schema", logger.ErrorField(err))
		return
	}

	run := &model.Run{
		RunID:         runID,
		AudioFile:     audioFile,
		SegmentLength: flagSegmentLength,
		TotalSegments: tl.TotalSegments,
		TrackCount:    len(tl.Tracks),
		GapCount:      len(tl.Gaps),
		SuccessRate:   tl.SuccessRate,
	}
	repo := repository.NewRunRepository()
	if err := repo.SaveRun(run, tl.Tracks); err != nil {
		logger.Error("failed to save run history", logger.ErrorField(err))
		return
	}
	logger.Info("run saved to history", logger.String("runId", runID))
}
