package ingestion

import (
	"context"
	"errors"
	"sync"
	"testing"

	"fullpicture/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	results map[string][]types.Perspective
	errs    map[string]error
	started chan struct{}
	release chan struct{}
}

func (f *fakeFetcher) FetchSource(_ context.Context, src Source) ([]types.Perspective, error) {
	if f.started != nil {
		f.started <- struct{}{}
		<-f.release
	}
	if err := f.errs[src.Name]; err != nil {
		return nil, err
	}
	return f.results[src.Name], nil
}

type recordingSink struct {
	mu      sync.Mutex
	batches [][]types.Perspective
	err     error
}

func (s *recordingSink) UpsertPerspectives(_ context.Context, ps []types.Perspective) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.batches = append(s.batches, append([]types.Perspective(nil), ps...))
	return nil
}

type countingEnricher struct{ calls int }

func (e *countingEnricher) Enrich(_ context.Context, ps []types.Perspective) int {
	e.calls++
	return len(ps)
}

var runnerSources = []Source{
	{Name: "A", Community: "left"},
	{Name: "B", Community: "right"},
	{Name: "C", Community: "center"},
}

func TestRunOnce(t *testing.T) {
	fetcher := &fakeFetcher{
		results: map[string][]types.Perspective{
			"A": {{ID: "1"}, {ID: "2"}},
			"B": {{ID: "2"}, {ID: "3"}},
		},
		errs: map[string]error{"C": errors.New("timeout")},
	}
	sink := &recordingSink{}
	enricher := &countingEnricher{}
	afterCalls := 0
	after := func(context.Context) error { afterCalls++; return errors.New("ignored") }

	report, err := NewRunner(runnerSources, fetcher, enricher, sink, nil, after).RunOnce(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Report{Sources: 3, Failed: 1, Fetched: 3, Enriched: 3, Stored: 3}, report)
	require.Len(t, sink.batches, 1)
	ids := []string{sink.batches[0][0].ID, sink.batches[0][1].ID, sink.batches[0][2].ID}
	assert.Equal(t, []string{"1", "2", "3"}, ids)
	assert.Equal(t, 1, enricher.calls)
	assert.Equal(t, 1, afterCalls)
}

func TestRunOnceAllSourcesFail(t *testing.T) {
	fetcher := &fakeFetcher{errs: map[string]error{
		"A": errors.New("x"), "B": errors.New("x"), "C": errors.New("x"),
	}}
	sink := &recordingSink{}

	_, err := NewRunner(runnerSources, fetcher, nil, sink, nil).RunOnce(context.Background())
	assert.Error(t, err)
	assert.Empty(t, sink.batches)
}

func TestRunOnceStoreFailureSkipsAfter(t *testing.T) {
	fetcher := &fakeFetcher{results: map[string][]types.Perspective{"A": {{ID: "1"}}}}
	sink := &recordingSink{err: errors.New("disk full")}
	called := false

	_, err := NewRunner(runnerSources[:1], fetcher, nil, sink, nil, func(context.Context) error {
		called = true
		return nil
	}).RunOnce(context.Background())
	assert.Error(t, err)
	assert.False(t, called)
}

func TestRunOnceRejectsOverlap(t *testing.T) {
	fetcher := &fakeFetcher{
		results: map[string][]types.Perspective{"A": {{ID: "1"}}},
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	runner := NewRunner(runnerSources[:1], fetcher, nil, &recordingSink{}, nil)

	done := make(chan error, 1)
	go func() {
		_, err := runner.RunOnce(context.Background())
		done <- err
	}()
	<-fetcher.started

	_, err := runner.RunOnce(context.Background())
	assert.ErrorIs(t, err, ErrBusy)

	close(fetcher.release)
	assert.NoError(t, <-done)
}

func TestSchedule(t *testing.T) {
	runner := NewRunner(nil, &fakeFetcher{}, nil, &recordingSink{}, nil)

	_, err := runner.Schedule(context.Background(), "not a schedule")
	assert.Error(t, err)

	c, err := runner.Schedule(context.Background(), "@every 1h")
	require.NoError(t, err)
	assert.Len(t, c.Entries(), 1)
	<-c.Stop().Done()
}
