// Package layout turns a flat list of perspectives into the column layout
// shown by the front-end.
package layout

import (
	"strings"

	"fullpicture/types"
)

// Groups holds the three leaning columns in source order
type Groups struct {
	Left   []types.Perspective
	Center []types.Perspective
	Right  []types.Perspective
}

// Column returns the bucket for one of the three column leanings.
func (g Groups) Column(l types.Leaning) []types.Perspective {
	switch l {
	case types.LeaningLeft:
		return g.Left
	case types.LeaningCenter:
		return g.Center
	case types.LeaningRight:
		return g.Right
	}
	return nil
}

// GroupByLeaning partitions perspectives into left, center and right,
// keeping relative order. Perspectives whose label matches none of the
// three are dropped.
func GroupByLeaning(perspectives []types.Perspective) Groups {
	var g Groups
	for _, p := range perspectives {
		l, ok := p.Leaning()
		if !ok {
			continue
		}
		switch l {
		case types.LeaningLeft:
			g.Left = append(g.Left, p)
		case types.LeaningCenter:
			g.Center = append(g.Center, p)
		case types.LeaningRight:
			g.Right = append(g.Right, p)
		}
	}
	return g
}

// Filters narrows a result set by leaning and source. Empty slices match everything.
type Filters struct {
	Communities []types.Leaning
	Sources     []string
}

// Active reports whether any filter is selected
func (f Filters) Active() bool {
	return len(f.Communities) > 0 || len(f.Sources) > 0
}

// Filter returns the perspectives matching f, in input order.
func Filter(perspectives []types.Perspective, f Filters) []types.Perspective {
	if !f.Active() {
		return perspectives
	}

	out := make([]types.Perspective, 0, len(perspectives))
	for _, p := range perspectives {
		if matchesCommunity(p, f.Communities) && matchesSource(p, f.Sources) {
			out = append(out, p)
		}
	}
	return out
}

func matchesCommunity(p types.Perspective, communities []types.Leaning) bool {
	if len(communities) == 0 {
		return true
	}
	l, ok := p.Leaning()
	if !ok {
		return false
	}
	for _, c := range communities {
		if c == l {
			return true
		}
	}
	return false
}

func matchesSource(p types.Perspective, sources []string) bool {
	if len(sources) == 0 {
		return true
	}
	for _, s := range sources {
		if s == p.Source {
			return true
		}
	}
	return false
}

// Sources lists distinct source names in first-seen order
func Sources(perspectives []types.Perspective) []string {
	seen := make(map[string]bool, len(perspectives))
	var out []string
	for _, p := range perspectives {
		if p.Source == "" || seen[p.Source] {
			continue
		}
		seen[p.Source] = true
		out = append(out, p.Source)
	}
	return out
}

// TruncateWords cuts text to limit space-separated words, appending "..."
// when anything was removed.
func TruncateWords(text string, limit int) (string, bool) {
	words := strings.Split(text, " ")
	if len(words) <= limit {
		return text, false
	}
	return strings.Join(words[:limit], " ") + "...", true
}
