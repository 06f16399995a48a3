package search

import (
	"strings"
	"sync"
	"time"

	"fullpicture/config"
)

// Query is a committed search. Clear means the owner should drop any
// displayed results and not issue a request.
type Query struct {
	Text  string
	Clear bool
}

// QueryOptions configures a QueryDebouncer
type QueryOptions struct {
	Delay        time.Duration
	EmptyPolicy  config.EmptyQueryPolicy
	DefaultQuery string
}

// QueryDebouncer collapses a stream of input values into committed queries.
//
// Every Input restarts the delay; when it elapses the latest value is
// trimmed and, if it differs from the last committed value, handed to the
// commit callback. Committing the same value twice in a row is a no-op.
type QueryDebouncer struct {
	mu        sync.Mutex
	debouncer *Debouncer
	opts      QueryOptions
	commit    func(Query)

	pending   string
	last      Query
	committed bool
}

// NewQueryDebouncer creates a query debouncer that calls commit for every settled value.
// commit runs on the timer goroutine.
func NewQueryDebouncer(opts QueryOptions, commit func(Query)) *QueryDebouncer {
	if opts.Delay <= 0 {
		opts.Delay = config.DefaultDebounceDelay
	}
	if opts.EmptyPolicy == "" {
		opts.EmptyPolicy = config.EmptyClear
	}
	if opts.DefaultQuery == "" {
		opts.DefaultQuery = config.DefaultQuery
	}
	return &QueryDebouncer{
		debouncer: NewDebouncer(opts.Delay),
		opts:      opts,
		commit:    commit,
	}
}

// Input records the latest raw value and restarts the timer.
func (q *QueryDebouncer) Input(raw string) {
	q.mu.Lock()
	q.pending = raw
	q.mu.Unlock()

	q.debouncer.Debounce(q.settle)
}

// Flush commits the pending value now, cancelling the timer.
func (q *QueryDebouncer) Flush() {
	q.debouncer.Immediate(q.settle)
}

// Stop cancels any pending commit
func (q *QueryDebouncer) Stop() {
	q.debouncer.Cancel()
}

// Reset cancels any pending commit and forgets the last committed query,
// so the next settled value is committed even if it repeats.
func (q *QueryDebouncer) Reset() {
	q.debouncer.Cancel()
	q.mu.Lock()
	q.pending = ""
	q.last = Query{}
	q.committed = false
	q.mu.Unlock()
}

// Last returns the most recently committed query
func (q *QueryDebouncer) Last() (Query, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.last, q.committed
}

func (q *QueryDebouncer) settle() {
	q.mu.Lock()
	next := q.resolve(q.pending)
	if q.committed && next == q.last {
		q.mu.Unlock()
		return
	}
	q.last = next
	q.committed = true
	q.mu.Unlock()

	q.commit(next)
}

// resolve applies trimming and the empty-query policy (must hold lock)
func (q *QueryDebouncer) resolve(raw string) Query {
	text := strings.TrimSpace(raw)
	if text != "" {
		return Query{Text: text}
	}
	if q.opts.EmptyPolicy == config.EmptyDefault {
		return Query{Text: q.opts.DefaultQuery}
	}
	return Query{Clear: true}
}
