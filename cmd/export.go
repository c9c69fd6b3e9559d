package cmd

import (
	"context"
	"fmt"

	"kivo-exporter/core/cache"
	"kivo-exporter/core/config"
	"kivo-exporter/core/kivo"
	"kivo-exporter/core/logger"
	"kivo-exporter/core/storage"
	"kivo-exporter/feature/students"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var publishReports bool

// exportCmd runs the full acquisition-and-normalization pipeline.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Fetch student data and write the canonical CSV reports",
	Long: `Export fetches every student in the configured id range (cache first,
network second), resolves the referenced spines concurrently, normalizes
the payloads into canonical multilingual rows and writes two CSV reports:
the canonical forms and the skipped/audit records.

Examples:
  # Export with defaults (ids 1..566, concurrency 3)
  kivo-exporter export

  # Export a sub-range without pacing (fully cached)
  EXPORT_START_ID=100 EXPORT_END_ID=200 EXPORT_DELAY_SECONDS=0 kivo-exporter export

  # Export and mirror the reports to object storage
  kivo-exporter export --publish`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().BoolVar(&publishReports, "publish", false, "Upload the generated reports to object storage")
	RootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = l.Sync() }()

	runID := uuid.NewString()
	l = logger.WithRunID(l, runID)

	store := cache.NewStore(cfg.Cache, l)
	fetcher := kivo.NewFetcher(cfg.API, store, l)
	parser := students.NewParser(cfg.Export.ExcludedIDList())
	pipeline := students.NewPipeline(fetcher, parser, l, cfg.Export.Concurrency, cfg.Export.Delay())

	ids := cfg.Export.IDs()
	if len(ids) == 0 {
		return fmt.Errorf("empty id range: start_id=%d end_id=%d", cfg.Export.StartID, cfg.Export.EndID)
	}

	l.Info("starting export",
		zap.Int("students", len(ids)),
		zap.Int("concurrency", cfg.Export.Concurrency))

	forms, skipped := pipeline.Run(ctx, ids)

	students.SortForms(forms)
	students.SortSkipped(skipped)

	if err := students.NewWriter(cfg.Export.OutputFile, l).WriteForms(forms); err != nil {
		return fmt.Errorf("failed to write forms report: %w", err)
	}
	if err := students.NewWriter(cfg.Export.SkippedFile, l).WriteSkipped(skipped); err != nil {
		return fmt.Errorf("failed to write skipped report: %w", err)
	}

	stats := fetcher.Stats()
	l.Info("export finished",
		zap.Int("forms", len(forms)),
		zap.Int("skipped", len(skipped)),
		zap.Int64("student_calls", stats.StudentCalls),
		zap.Int64("spine_calls", stats.SpineCalls))

	if publishReports {
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return fmt.Errorf("failed to connect to storage: %w", err)
		}
		publisher := students.NewPublisher(client, cfg.Storage.Bucket, l)
		if err := publisher.Publish(ctx, runID, cfg.Export.OutputFile, cfg.Export.SkippedFile); err != nil {
			return fmt.Errorf("failed to publish reports: %w", err)
		}
	}

	return nil
}
