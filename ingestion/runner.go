package ingestion

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"fullpicture/types"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// ErrBusy is returned when a run is requested while another is in progress
var ErrBusy = errors.New("ingestion already running")

// SourceFetcher fetches one source's perspectives
type SourceFetcher interface {
	FetchSource(ctx context.Context, src Source) ([]types.Perspective, error)
}

// Enricher improves thin quotes in place, returning how many changed
type Enricher interface {
	Enrich(ctx context.Context, perspectives []types.Perspective) int
}

// Sink persists ingested perspectives
type Sink interface {
	UpsertPerspectives(ctx context.Context, perspectives []types.Perspective) error
}

// AfterFunc runs after a successful upsert, e.g. cache invalidation or a
// snapshot publish. Its error is logged, not returned.
type AfterFunc func(ctx context.Context) error

// Report summarises one ingestion run
type Report struct {
	Sources  int
	Failed   int
	Fetched  int
	Enriched int
	Stored   int
}

// Runner runs the fetch, enrich, store pipeline over every source
type Runner struct {
	sources  []Source
	fetcher  SourceFetcher
	enricher Enricher
	sink     Sink
	after    []AfterFunc
	logger   *zap.Logger
	running  atomic.Bool
}

// NewRunner creates a runner. enricher may be nil to skip article extraction.
func NewRunner(sources []Source, fetcher SourceFetcher, enricher Enricher, sink Sink, logger *zap.Logger, after ...AfterFunc) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		sources:  sources,
		fetcher:  fetcher,
		enricher: enricher,
		sink:     sink,
		after:    after,
		logger:   logger,
	}
}

// RunOnce ingests every source once. A failing source is logged and
// skipped; the run fails only when every source failed or storing failed.
func (r *Runner) RunOnce(ctx context.Context) (Report, error) {
	if !r.running.CompareAndSwap(false, true) {
		return Report{}, ErrBusy
	}
	defer r.running.Store(false)

	report := Report{Sources: len(r.sources)}
	seen := make(map[string]bool)
	var batch []types.Perspective

	for _, src := range r.sources {
		perspectives, err := r.fetcher.FetchSource(ctx, src)
		if err != nil {
			report.Failed++
			r.logger.Warn("source fetch failed", zap.String("source", src.Name), zap.Error(err))
			continue
		}
		for _, p := range perspectives {
			if seen[p.ID] {
				continue
			}
			seen[p.ID] = true
			batch = append(batch, p)
		}
		r.logger.Info("fetched source", zap.String("source", src.Name), zap.Int("items", len(perspectives)))
	}
	report.Fetched = len(batch)

	if report.Sources > 0 && report.Failed == report.Sources {
		return report, fmt.Errorf("all %d sources failed", report.Sources)
	}
	if len(batch) == 0 {
		return report, nil
	}

	if r.enricher != nil {
		report.Enriched = r.enricher.Enrich(ctx, batch)
	}

	if err := r.sink.UpsertPerspectives(ctx, batch); err != nil {
		return report, fmt.Errorf("failed to store perspectives: %w", err)
	}
	report.Stored = len(batch)

	runAfter(ctx, r.logger, r.after)

	r.logger.Info("ingestion complete",
		zap.Int("sources", report.Sources),
		zap.Int("failed", report.Failed),
		zap.Int("stored", report.Stored),
		zap.Int("enriched", report.Enriched))
	return report, nil
}

// Schedule starts a cron job running RunOnce on spec. Overlapping triggers
// are skipped. Stop the returned cron to end the schedule.
func (r *Runner) Schedule(ctx context.Context, spec string) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		r.logger.Info("cron triggered ingestion")
		if _, err := r.RunOnce(ctx); err != nil {
			if errors.Is(err, ErrBusy) {
				r.logger.Info("cron skipped: ingestion is busy")
				return
			}
			r.logger.Error("scheduled ingestion failed", zap.Error(err))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add cron job: %w", err)
	}

	c.Start()
	r.logger.Info("ingestion scheduled", zap.String("schedule", spec))
	return c, nil
}

// runAfter runs each step in order. A failing step is logged and does not
// stop the rest.
func runAfter(ctx context.Context, logger *zap.Logger, steps []AfterFunc) {
	for _, fn := range steps {
		if err := fn(ctx); err != nil {
			logger.Warn("post-ingest step failed", zap.Error(err))
		}
	}
}
