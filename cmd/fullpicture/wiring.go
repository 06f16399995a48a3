package main

import (
	"context"
	"fmt"

	"fullpicture/cache"
	"fullpicture/config"
	"fullpicture/ingestion"
	"fullpicture/storage"

	"go.uber.org/zap"
)

// openCache connects to Redis when configured. A nil cache disables caching.
func openCache(c config.Config) *cache.QueryCache {
	if c.RedisAddr == "" {
		logger.Info("redis not configured; response cache disabled")
		return nil
	}
	qc, err := cache.New(cache.FromConfig(c))
	if err != nil {
		logger.Warn("redis unavailable; response cache disabled", zap.String("addr", c.RedisAddr), zap.Error(err))
		return nil
	}
	logger.Info("response cache enabled", zap.String("addr", c.RedisAddr), zap.Duration("ttl", c.CacheTTL))
	return qc
}

// openSnapshots builds the S3 snapshot publisher when a bucket is configured
func openSnapshots(ctx context.Context, c config.Config, store *storage.Store) (*storage.SnapshotPublisher, *storage.S3) {
	if c.S3Bucket == "" {
		logger.Info("S3 not configured; skipping snapshots")
		return nil, nil
	}
	s3c, err := storage.NewS3(ctx, storage.S3Config{Region: c.S3Region})
	if err != nil {
		logger.Warn("failed to init S3 client; snapshots disabled", zap.Error(err))
		return nil, nil
	}
	return storage.NewSnapshotPublisher(s3c, store, c.S3Bucket), s3c
}

// afterIngest returns the steps that run after new perspectives are stored
func afterIngest(qc *cache.QueryCache, snapshots *storage.SnapshotPublisher) []ingestion.AfterFunc {
	var steps []ingestion.AfterFunc
	if qc != nil {
		steps = append(steps, qc.Bump)
	}
	if snapshots != nil {
		steps = append(steps, func(ctx context.Context) error {
			n, err := snapshots.Publish(ctx)
			if err != nil {
				return err
			}
			logger.Info("snapshot published", zap.Int("perspectives", n))
			return nil
		})
	}
	return steps
}

// afterMessage returns the steps run after each perspective consumed from
// Kafka. Snapshots stay on the ingest schedule.
func afterMessage(qc *cache.QueryCache) []ingestion.AfterFunc {
	if qc == nil {
		return nil
	}
	return []ingestion.AfterFunc{qc.Bump}
}

// newRunner wires sources, fetcher, extractor and the store together
func newRunner(c config.Config, store *storage.Store, after []ingestion.AfterFunc) (*ingestion.Runner, error) {
	sources, err := ingestion.LoadSources(c.SourcesFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load sources: %w", err)
	}
	return ingestion.NewRunner(
		sources,
		ingestion.NewFetcher(config.IngestItemsPerSource),
		ingestion.NewExtractor(logger),
		store,
		logger,
		after...,
	), nil
}
