package search

import (
	"sync"
	"testing"
	"time"

	"fullpicture/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

const testDelay = 40 * time.Millisecond

type recorder struct {
	mu      sync.Mutex
	queries []Query
}

func (r *recorder) commit(q Query) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queries = append(r.queries, q)
}

func (r *recorder) all() []Query {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Query(nil), r.queries...)
}

func newRecorded(policy config.EmptyQueryPolicy) (*QueryDebouncer, *recorder) {
	rec := &recorder{}
	q := NewQueryDebouncer(QueryOptions{Delay: testDelay, EmptyPolicy: policy, DefaultQuery: "default topics"}, rec.commit)
	return q, rec
}

func settle() { time.Sleep(3 * testDelay) }

func TestQueryDebouncerBurstCommitsLastValue(t *testing.T) {
	defer goleak.VerifyNone(t)

	q, rec := newRecorded(config.EmptyClear)
	for _, v := range []string{"u", "uk", "ukr", "ukra", "ukraine "} {
		q.Input(v)
		time.Sleep(5 * time.Millisecond)
	}
	settle()

	require.Len(t, rec.all(), 1)
	assert.Equal(t, Query{Text: "ukraine"}, rec.all()[0])
}

func TestQueryDebouncerIdempotentCommit(t *testing.T) {
	q, rec := newRecorded(config.EmptyClear)

	q.Input("gaza")
	settle()
	q.Input("  gaza  ")
	settle()
	q.Input("gaza")
	q.Flush()

	assert.Equal(t, []Query{{Text: "gaza"}}, rec.all())

	last, ok := q.Last()
	assert.True(t, ok)
	assert.Equal(t, "gaza", last.Text)
}

func TestQueryDebouncerEmptyClears(t *testing.T) {
	q, rec := newRecorded(config.EmptyClear)

	q.Input("inflation")
	settle()
	q.Input("   ")
	settle()
	q.Input("")
	settle()

	assert.Equal(t, []Query{{Text: "inflation"}, {Clear: true}}, rec.all())
}

func TestQueryDebouncerEmptyDefault(t *testing.T) {
	q, rec := newRecorded(config.EmptyDefault)

	q.Input(" ")
	settle()
	q.Input("")
	settle()

	assert.Equal(t, []Query{{Text: "default topics"}}, rec.all())
}

func TestQueryDebouncerFlushAndStop(t *testing.T) {
	q, rec := newRecorded(config.EmptyClear)

	q.Input("ai regulation")
	q.Flush()
	assert.Equal(t, []Query{{Text: "ai regulation"}}, rec.all())

	q.Input("tiktok")
	q.Stop()
	settle()
	assert.Len(t, rec.all(), 1)
}

func TestQueryDebouncerResetForgetsLastCommit(t *testing.T) {
	q, rec := newRecorded(config.EmptyClear)

	q.Input("tax")
	q.Flush()
	q.Reset()
	q.Input("tax")
	q.Flush()

	assert.Equal(t, []Query{{Text: "tax"}, {Text: "tax"}}, rec.all())
	_, ok := q.Last()
	assert.True(t, ok)
}

func TestQueryDebouncerChangedValueCommitsAgain(t *testing.T) {
	q, rec := newRecorded(config.EmptyClear)

	q.Input("a")
	settle()
	q.Input("b")
	settle()
	q.Input("a")
	settle()

	assert.Equal(t, []Query{{Text: "a"}, {Text: "b"}, {Text: "a"}}, rec.all())
}

func TestGeneration(t *testing.T) {
	var g Generation

	first := g.Next()
	assert.True(t, g.IsCurrent(first))

	second := g.Next()
	assert.False(t, g.IsCurrent(first))
	assert.True(t, g.IsCurrent(second))

	g.Invalidate()
	assert.False(t, g.IsCurrent(second))
	assert.False(t, g.IsCurrent(0))
}
