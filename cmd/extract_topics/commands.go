package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"szexam/internal/adapter"
	"szexam/internal/adapter/feed"
	"szexam/internal/cache"
	"szexam/internal/config"
	"szexam/internal/database"
	"szexam/internal/domain"
	"szexam/internal/logger"
	"szexam/internal/repository"
	"szexam/internal/service"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	pdfPath    string
	doBackup   bool
	doExtract  bool
	dryRun     bool
	importDry  bool
	cfg        *config.Config
	defaultTTL = 720 * time.Hour

	rootCmd = &cobra.Command{
		Use:   "extract_topics",
		Short: "Extract monthly current-affairs questions from PDFs into the topic store",
		Long: `extract_topics reads question-bank PDFs (or pre-extracted .txt files), assembles
the questions of each month section, validates them and stores new ones.

With --backup it exports the stored topics first; extraction then runs only
when --extract is also given.`,
		SilenceUsage:      true,
		PersistentPreRunE: initApp,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logger.Sync()
		},
		RunE: runRoot,
	}

	importCmd = &cobra.Command{
		Use:   "import <file.json>",
		Short: "Import topics from a JSON file (a bare array or {\"topics\": [...]})",
		Args:  cobra.ExactArgs(1),
		RunE:  runImport,
	}

	statsCmd = &cobra.Command{
		Use:   "stats",
		Short: "Print stored topic counts by type, month and region",
		Args:  cobra.NoArgs,
		RunE:  runStats,
	}
)

func init() {
	rootCmd.Flags().StringVar(&pdfPath, "pdf", "", "process a single file instead of ingest.files")
	rootCmd.Flags().BoolVar(&doBackup, "backup", false, "export stored topics to backup.dir")
	rootCmd.Flags().BoolVar(&doExtract, "extract", false, "extract after --backup")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "parse and validate without touching the database")
	importCmd.Flags().BoolVar(&importDry, "dry-run", false, "validate without touching the database")

	rootCmd.AddCommand(importCmd, statsCmd)
}

func initApp(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := logger.Initialize(cfg.Logger); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

func runRoot(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	extract := doExtract || !doBackup

	var paths []string
	if extract {
		paths = resolvePaths(pdfPath, cfg.Ingest.Files)
		if len(paths) == 0 {
			return fmt.Errorf("no input files: pass --pdf or set ingest.files")
		}
	}

	if dryRun {
		if doBackup {
			return fmt.Errorf("--backup cannot be combined with --dry-run")
		}
		store := repository.NewMemoryTopicStore()
		stats := newIngestService(store).Run(ctx, paths)
		printSummary(cmd.OutOrStdout(), stats)
		fmt.Fprintln(cmd.OutOrStdout(), "\nDry run, nothing was stored. Extracted topics:")
		if err := service.NewStatisticsService(store).Report(ctx, cmd.OutOrStdout()); err != nil {
			return err
		}
		return runResult(stats)
	}

	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()
	store := repository.NewTopicDatabaseAdapter(db)

	if doBackup {
		path, count, err := service.NewBackupService(store, cfg.Backup, logger.Get()).Backup(ctx)
		if err != nil {
			logger.Get().Error("Backup failed", zap.Error(err))
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Backed up %d topics to %s\n", count, path)
	}
	if !extract {
		return nil
	}

	sink, closeSink := cachedSink(ctx, store)
	defer closeSink()
	stats := newIngestService(sink).Run(ctx, paths)
	printSummary(cmd.OutOrStdout(), stats)
	return runResult(stats)
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	f, err := os.Open(args[0])
	if err != nil {
		return domain.NewFileError(args[0], err)
	}
	defer f.Close()

	candidates, err := service.DecodeCandidates(f)
	if err != nil {
		return err
	}
	logger.Get().Info("Loaded import file", zap.String("file", args[0]), zap.Int("records", len(candidates)))

	var sink domain.TopicSink
	if importDry {
		sink = repository.NewMemoryTopicStore()
	} else {
		db, err := openDatabase()
		if err != nil {
			return err
		}
		defer db.Close()
		cached, closeSink := cachedSink(ctx, repository.NewTopicDatabaseAdapter(db))
		defer closeSink()
		sink = cached
	}

	stats := newIngestService(sink).ImportCandidates(ctx, candidates)
	printSummary(cmd.OutOrStdout(), stats)
	return nil
}

func runStats(cmd *cobra.Command, args []string) error {
	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()
	return service.NewStatisticsService(repository.NewTopicDatabaseAdapter(db)).Report(cmd.Context(), cmd.OutOrStdout())
}

func newIngestService(sink domain.TopicSink) *service.IngestService {
	return service.NewIngestService(feed.NewOpener(), sink, cfg.Ingest, logger.Get())
}

func openDatabase() (*sqlx.DB, error) {
	db, err := database.NewSQLXOracleDB(cfg.GetDSN())
	if err != nil {
		logger.Get().Error("Failed to connect to Oracle database", zap.Error(err))
		return nil, domain.NewInternalError("failed to connect to database", err)
	}
	logger.Get().Info("Successfully connected to Oracle database.")
	return db, nil
}

// cachedSink puts the Redis dedup cache in front of store when Redis is configured and
// reachable. The returned func releases the Redis client.
func cachedSink(ctx context.Context, store domain.TopicSink) (domain.TopicSink, func()) {
	if cfg.Redis.Address == "" {
		logger.Get().Warn("Redis cache is not configured. Running without dedup cache.")
		return store, func() {}
	}
	client, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		logger.Get().Warn("Redis unavailable, running without dedup cache", zap.Error(err))
		return store, func() {}
	}
	ttl := cfg.ParseTTLStringOrDefault(cfg.CacheTTLs.Dedup, defaultTTL)
	logger.Get().Info("Redis dedup cache initialized successfully.", zap.Duration("ttl", ttl))
	sink := adapter.NewCachedTopicSink(store, adapter.NewRedisDedupCache(client), ttl, logger.Get())
	return sink, func() { closeRedis(client) }
}

func closeRedis(client *redis.Client) {
	if err := client.Close(); err != nil {
		logger.Get().Warn("Failed to close Redis client", zap.Error(err))
	}
}
