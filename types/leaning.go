package types

import (
	"fmt"
	"strings"
)

// Leaning is the closed set of editorial alignments a perspective can carry.
type Leaning int

const (
	LeaningLeft Leaning = iota
	LeaningCenter
	LeaningRight
	LeaningInternational
	LeaningSocial
)

// Leanings lists every leaning in display order.
var Leanings = []Leaning{LeaningLeft, LeaningCenter, LeaningRight, LeaningInternational, LeaningSocial}

// Columns are the leanings that get a column in the grouped layout.
var Columns = []Leaning{LeaningLeft, LeaningCenter, LeaningRight}

// ClassifyLeaning maps a free-text community label onto a Leaning.
//
// Matching is case-insensitive substring containment checked in the order
// left, center, right, so a label such as "center-left" classifies as left.
// International and social are only considered when none of the three
// political columns matched. Labels matching nothing report false.
func ClassifyLeaning(label string) (Leaning, bool) {
	l := strings.ToLower(label)
	switch {
	case strings.Contains(l, "left"):
		return LeaningLeft, true
	case strings.Contains(l, "center"):
		return LeaningCenter, true
	case strings.Contains(l, "right"):
		return LeaningRight, true
	case strings.Contains(l, "international"):
		return LeaningInternational, true
	case strings.Contains(l, "social"):
		return LeaningSocial, true
	}
	return 0, false
}

// ParseLeaning parses the exact lower-case key produced by String.
func ParseLeaning(s string) (Leaning, error) {
	for _, l := range Leanings {
		if l.String() == strings.ToLower(strings.TrimSpace(s)) {
			return l, nil
		}
	}
	return 0, fmt.Errorf("unknown leaning %q", s)
}

// String returns the lower-case key used in filters and query strings.
func (l Leaning) String() string {
	switch l {
	case LeaningLeft:
		return "left"
	case LeaningCenter:
		return "center"
	case LeaningRight:
		return "right"
	case LeaningInternational:
		return "international"
	case LeaningSocial:
		return "social"
	}
	panic(fmt.Sprintf("types: invalid Leaning %d", int(l)))
}

// Label returns the human readable badge text.
func (l Leaning) Label() string {
	switch l {
	case LeaningLeft:
		return "Left-leaning"
	case LeaningCenter:
		return "Centrist"
	case LeaningRight:
		return "Right-leaning"
	case LeaningInternational:
		return "International"
	case LeaningSocial:
		return "Social Media"
	}
	panic(fmt.Sprintf("types: invalid Leaning %d", int(l)))
}

// Color returns the badge color as a hex string.
func (l Leaning) Color() string {
	switch l {
	case LeaningLeft:
		return "#7C3AED"
	case LeaningCenter:
		return "#9CA3AF"
	case LeaningRight:
		return "#EF4444"
	case LeaningInternational:
		return "#A855F7"
	case LeaningSocial:
		return "#F59E0B"
	}
	panic(fmt.Sprintf("types: invalid Leaning %d", int(l)))
}
