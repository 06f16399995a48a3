package search

import "sync/atomic"

// Generation hands out request tokens so that a response for a superseded
// request can be recognised and dropped when it finally resolves.
type Generation struct {
	current atomic.Uint64
}

// Next invalidates every earlier token and returns a fresh one
func (g *Generation) Next() uint64 {
	return g.current.Add(1)
}

// IsCurrent reports whether tok is the most recently issued token
func (g *Generation) IsCurrent(tok uint64) bool {
	return tok != 0 && g.current.Load() == tok
}

// Invalidate makes every outstanding token stale without issuing a new one
func (g *Generation) Invalidate() {
	g.current.Add(1)
}
