package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"fullpicture/config"
	"fullpicture/storage"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	ingestSources  string
	ingestSchedule string
)

// ingestCmd pulls every configured RSS source into the database
var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Fetch RSS sources into the perspectives database",
	Long: `Fetches every configured source once and stores the result.

With --cron the command keeps running and ingests on that schedule
(standard five-field cron syntax or descriptors such as "@every 30m").`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if ingestSources != "" {
			cfg.SourcesFile = ingestSources
		}
		if ingestSchedule != "" {
			cfg.IngestCron = ingestSchedule
		}
		return runIngest(cfg)
	},
}

func init() {
	ingestCmd.Flags().StringVar(&ingestSources, "sources", "", "Path to sources.yaml (default $SOURCES_FILE or built-in list)")
	ingestCmd.Flags().StringVar(&ingestSchedule, "cron", "", "Keep running and ingest on this cron schedule")
}

func runIngest(c config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := storage.Open(c.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	qc := openCache(c)
	if qc != nil {
		defer qc.Close()
	}
	snapshots, _ := openSnapshots(ctx, c, store)

	runner, err := newRunner(c, store, afterIngest(qc, snapshots))
	if err != nil {
		return err
	}

	report, err := runner.RunOnce(ctx)
	if err != nil {
		return err
	}
	logger.Info("ingested", zap.Int("stored", report.Stored), zap.Int("failed_sources", report.Failed))

	if c.IngestCron == "" {
		return nil
	}

	cron, err := runner.Schedule(ctx, c.IngestCron)
	if err != nil {
		return err
	}
	<-ctx.Done()
	<-cron.Stop().Done()
	return nil
}
