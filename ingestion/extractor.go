package ingestion

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"fullpicture/config"
	"fullpicture/types"

	readability "github.com/go-shiori/go-readability"
	"go.uber.org/zap"
)

// leadWordLimit caps a quote taken from the article body
const leadWordLimit = 60

// Extractor fills in quotes for perspectives whose feed summary is too thin,
// reading the article page with readability.
type Extractor struct {
	workers  int
	timeout  time.Duration
	minWords int
	logger   *zap.Logger
}

// NewExtractor creates an extractor with the default worker pool size
func NewExtractor(logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{
		workers:  config.IngestWorkerCount,
		timeout:  config.ExtractorTimeout,
		minWords: config.MinQuoteWords,
		logger:   logger,
	}
}

// Enrich extracts article text for every perspective whose quote is shorter
// than the minimum, using a worker pool. It returns how many were updated.
// Extraction failures leave the perspective as it was.
func (e *Extractor) Enrich(ctx context.Context, perspectives []types.Perspective) int {
	jobs := make(chan int)
	var wg sync.WaitGroup
	var mu sync.Mutex
	enriched := 0

	// Start worker pool
	for w := 0; w < e.workers; w++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for i := range jobs {
				p := &perspectives[i]
				if err := e.extract(ctx, p); err != nil {
					e.logger.Debug("extraction failed",
						zap.Int("worker", workerID), zap.String("url", p.URL), zap.Error(err))
					continue
				}
				mu.Lock()
				enriched++
				mu.Unlock()
			}
		}(w)
	}

	// Queue perspectives needing a better quote
queue:
	for i, p := range perspectives {
		if wordCount(p.Quote) >= e.minWords {
			continue
		}
		select {
		case jobs <- i:
		case <-ctx.Done():
			break queue
		}
	}
	close(jobs)
	wg.Wait()

	return enriched
}

// extract fetches one article and replaces its quote
func (e *Extractor) extract(ctx context.Context, p *types.Perspective) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if p.URL == "" {
		return errors.New("perspective URL is empty")
	}

	article, err := readability.FromURL(p.URL, e.timeout)
	if err != nil {
		return fmt.Errorf("readability extraction failed: %w", err)
	}

	quote := strings.Join(strings.Fields(article.Excerpt), " ")
	if wordCount(quote) < e.minWords {
		quote = leadWords(article.TextContent, leadWordLimit)
	}
	if wordCount(quote) <= wordCount(p.Quote) {
		return errors.New("article text is no longer than the feed summary")
	}

	p.Quote = quote
	p.Sentiment = Score(quote)
	return nil
}

func wordCount(s string) int {
	return len(strings.Fields(s))
}

// leadWords returns the first limit words of text
func leadWords(text string, limit int) string {
	words := strings.Fields(text)
	if len(words) > limit {
		words = words[:limit]
	}
	return strings.Join(words, " ")
}
