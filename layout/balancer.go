package layout

import (
	"strconv"

	"fullpicture/config"
	"fullpicture/types"
)

// Mode selects between the grouped three-column layout and a single flowing grid
type Mode int

const (
	ModeGrouped Mode = iota
	ModeBalanced
)

func (m Mode) String() string {
	if m == ModeBalanced {
		return "balanced"
	}
	return "grouped"
}

// Toggle flips between grouped and balanced
func (m Mode) Toggle() Mode {
	if m == ModeGrouped {
		return ModeBalanced
	}
	return ModeGrouped
}

// Placeholder text shown in a short column with nothing to borrow
const (
	PlaceholderTitle = "Underrepresented perspective"
	PlaceholderText  = "Few sources from this side have covered this story yet."
)

// Cell is one rendered card. A perspective borrowed as filler appears twice
// in the layout, each time with its own Key.
type Cell struct {
	Key         string
	Perspective types.Perspective
	Filler      bool
}

// Placeholder replaces filler in a column that has no donor
type Placeholder struct {
	Title string
	Text  string
}

// Column is a rendered column. Leaning is meaningless in balanced mode.
type Column struct {
	Leaning     types.Leaning
	Cells       []Cell
	Donor       *types.Leaning
	Placeholder *Placeholder
}

// Home returns the number of non-filler cells
func (c Column) Home() int {
	n := 0
	for _, cell := range c.Cells {
		if !cell.Filler {
			n++
		}
	}
	return n
}

// Layout is the full render description for one result set
type Layout struct {
	Mode    Mode
	Wide    bool
	Columns []Column
}

// IsWide reports whether a viewport of the given width shows all three columns
func IsWide(width int) bool {
	return width >= config.WideViewportColumns
}

// Build computes the layout for perspectives. It is pure: the same input,
// mode and wide flag always produce the same layout.
func Build(perspectives []types.Perspective, mode Mode, wide bool) Layout {
	if mode == ModeBalanced {
		cells := make([]Cell, 0, len(perspectives))
		for i, p := range perspectives {
			cells = append(cells, Cell{Key: balancedKey(i, p), Perspective: p})
		}
		return Layout{Mode: mode, Wide: wide, Columns: []Column{{Cells: cells}}}
	}

	groups := GroupByLeaning(perspectives)
	globalMax := max(len(groups.Left), len(groups.Center), len(groups.Right))

	out := Layout{Mode: mode, Wide: wide, Columns: make([]Column, 0, len(types.Columns))}
	for _, l := range types.Columns {
		home := groups.Column(l)
		col := Column{Leaning: l, Cells: make([]Cell, 0, globalMax)}
		for _, p := range home {
			col.Cells = append(col.Cells, Cell{Key: l.String() + "-" + p.ID, Perspective: p})
		}

		if wide && len(home) < globalMax {
			if donor, ok := DonorFor(l, groups); ok {
				d := donor
				col.Donor = &d
				for _, p := range groups.Column(donor)[len(home):] {
					col.Cells = append(col.Cells, Cell{
						Key:         "fill-" + l.String() + "-" + p.ID,
						Perspective: p,
						Filler:      true,
					})
				}
			} else {
				col.Placeholder = &Placeholder{Title: PlaceholderTitle, Text: PlaceholderText}
			}
		}
		out.Columns = append(out.Columns, col)
	}
	return out
}

// DonorFor picks the column that lends its excess tail to the short column l.
//
// Left and right only ever borrow from center. Center borrows from whichever
// side has the larger surplus over center, right winning ties.
func DonorFor(l types.Leaning, g Groups) (types.Leaning, bool) {
	switch l {
	case types.LeaningLeft:
		if len(g.Center) > len(g.Left) {
			return types.LeaningCenter, true
		}
	case types.LeaningRight:
		if len(g.Center) > len(g.Right) {
			return types.LeaningCenter, true
		}
	case types.LeaningCenter:
		rightSurplus := len(g.Right) - len(g.Center)
		leftSurplus := len(g.Left) - len(g.Center)
		if rightSurplus > 0 && rightSurplus >= leftSurplus {
			return types.LeaningRight, true
		}
		if leftSurplus > 0 {
			return types.LeaningLeft, true
		}
	}
	return 0, false
}

func balancedKey(i int, p types.Perspective) string {
	if p.ID != "" {
		return p.ID
	}
	return "item-" + strconv.Itoa(i)
}
