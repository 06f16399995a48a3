package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fullpicture/api"
	"fullpicture/config"
	"fullpicture/ingestion"
	"fullpicture/storage"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var servePort string

// serveCmd runs the perspectives API
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the perspectives and comments HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		if servePort != "" {
			cfg.Port = servePort
		}
		return runServe(cfg)
	},
}

func init() {
	serveCmd.Flags().StringVar(&servePort, "port", "", "Port to listen on (default $PORT or "+config.DefaultPort+")")
}

func runServe(c config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := storage.Open(c.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	qc := openCache(c)
	var apiCache api.Cache
	if qc != nil {
		defer qc.Close()
		apiCache = qc
	}

	snapshots, s3c := openSnapshots(ctx, c, store)
	if snapshots != nil {
		exists, err := s3c.Exists(ctx, c.S3Bucket, config.SnapshotKey)
		if err != nil {
			logger.Warn("failed to check snapshot", zap.Error(err))
		} else if !exists {
			if _, err := snapshots.Publish(ctx); err != nil {
				logger.Warn("initial snapshot failed", zap.Error(err))
			}
		}
	}

	// Kafka consumer for externally scraped perspectives
	if len(c.KafkaBrokers) > 0 {
		consumer, err := ingestion.NewConsumer(ingestion.ConsumerConfig{
			Brokers: c.KafkaBrokers,
			Topic:   config.KafkaTopic,
			GroupID: config.KafkaGroupID,
			Handler: ingestion.NewPerspectiveHandler(store, logger, afterMessage(qc)...),
			Logger:  logger,
		})
		if err != nil {
			logger.Warn("kafka unavailable; consumer disabled", zap.Error(err))
		} else {
			defer consumer.Close()
			if err := consumer.Start(ctx); err != nil {
				logger.Warn("kafka consumer failed to start", zap.Error(err))
			}
		}
	}

	// Scheduled ingestion alongside the API
	if c.IngestCron != "" {
		runner, err := newRunner(c, store, afterIngest(qc, snapshots))
		if err != nil {
			return err
		}
		cron, err := runner.Schedule(ctx, c.IngestCron)
		if err != nil {
			return err
		}
		defer cron.Stop()
	}

	if !verbose {
		gin.SetMode(gin.ReleaseMode)
	}
	r := api.NewRouter(api.NewHandler(store, apiCache, logger))
	srv := &http.Server{
		Addr:              ":" + c.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting API server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down API server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
