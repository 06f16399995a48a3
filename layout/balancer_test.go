package layout

import (
	"testing"

	"fullpicture/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cellIDs(c Column) (home, filler []string) {
	for _, cell := range c.Cells {
		if cell.Filler {
			filler = append(filler, cell.Perspective.ID)
		} else {
			home = append(home, cell.Perspective.ID)
		}
	}
	return
}

func TestBuildDonorRule(t *testing.T) {
	in := []types.Perspective{
		p("A", "left"),
		p("B", "center"), p("C", "center"), p("D", "center"),
	}

	l := Build(in, ModeGrouped, true)
	require.Len(t, l.Columns, 3)

	left, center, right := l.Columns[0], l.Columns[1], l.Columns[2]

	home, filler := cellIDs(right)
	assert.Empty(t, home)
	assert.Equal(t, []string{"B", "C", "D"}, filler)
	require.NotNil(t, right.Donor)
	assert.Equal(t, types.LeaningCenter, *right.Donor)
	assert.Nil(t, right.Placeholder)

	home, filler = cellIDs(left)
	assert.Equal(t, []string{"A"}, home)
	assert.Equal(t, []string{"C", "D"}, filler)

	home, filler = cellIDs(center)
	assert.Equal(t, []string{"B", "C", "D"}, home)
	assert.Empty(t, filler)
	assert.Nil(t, center.Donor)

	assert.Equal(t, 1, left.Home())
	assert.Equal(t, 3, center.Home())
	assert.Equal(t, 0, right.Home())
}

func TestBuildCenterPrefersLargerSurplus(t *testing.T) {
	in := []types.Perspective{
		p("L1", "left"), p("L2", "left"), p("L3", "left"),
		p("R1", "right"), p("R2", "right"),
		p("C1", "center"),
	}
	l := Build(in, ModeGrouped, true)
	center := l.Columns[1]
	require.NotNil(t, center.Donor)
	assert.Equal(t, types.LeaningLeft, *center.Donor)
	_, filler := cellIDs(center)
	assert.Equal(t, []string{"L2", "L3"}, filler)
}

func TestBuildCenterTieGoesRight(t *testing.T) {
	in := []types.Perspective{
		p("L1", "left"), p("L2", "left"),
		p("R1", "right"), p("R2", "right"),
	}
	l := Build(in, ModeGrouped, true)
	center := l.Columns[1]
	require.NotNil(t, center.Donor)
	assert.Equal(t, types.LeaningRight, *center.Donor)
	_, filler := cellIDs(center)
	assert.Equal(t, []string{"R1", "R2"}, filler)
}

func TestBuildPlaceholderWhenNoDonor(t *testing.T) {
	in := []types.Perspective{
		p("L1", "left"), p("L2", "left"),
		p("C1", "center"),
	}
	l := Build(in, ModeGrouped, true)
	right := l.Columns[2]

	// right borrows from center only when center has more than right
	home, filler := cellIDs(right)
	assert.Empty(t, home)
	assert.Equal(t, []string{"C1"}, filler)

	// center: right has no surplus, left has one
	center := l.Columns[1]
	require.NotNil(t, center.Donor)
	assert.Equal(t, types.LeaningLeft, *center.Donor)

	in = []types.Perspective{p("L1", "left"), p("L2", "left")}
	l = Build(in, ModeGrouped, true)
	right = l.Columns[2]
	assert.Empty(t, right.Cells)
	require.NotNil(t, right.Placeholder)
	assert.Equal(t, PlaceholderTitle, right.Placeholder.Title)
}

func TestBuildNarrowHasNoFillerOrPlaceholder(t *testing.T) {
	in := []types.Perspective{p("A", "left"), p("B", "center"), p("C", "center")}
	l := Build(in, ModeGrouped, false)
	for _, col := range l.Columns {
		assert.Nil(t, col.Placeholder)
		assert.Nil(t, col.Donor)
		for _, cell := range col.Cells {
			assert.False(t, cell.Filler)
		}
	}
	assert.Empty(t, l.Columns[2].Cells)
}

func TestBuildKeysAreUnique(t *testing.T) {
	in := []types.Perspective{
		p("A", "left"),
		p("B", "center"), p("C", "center"), p("D", "center"),
		p("E", "right"),
	}
	l := Build(in, ModeGrouped, true)
	keys := map[string]bool{}
	for _, col := range l.Columns {
		for _, cell := range col.Cells {
			assert.False(t, keys[cell.Key], "duplicate key %s", cell.Key)
			keys[cell.Key] = true
		}
	}
}

func TestBuildEveryInputAppearsAndOrderPreserved(t *testing.T) {
	in := []types.Perspective{
		p("1", "right"), p("2", "left"), p("3", "center"),
		p("4", "left"), p("5", "left"), p("6", "right"),
	}
	l := Build(in, ModeGrouped, true)

	appeared := map[string]bool{}
	for i, col := range l.Columns {
		home, _ := cellIDs(col)
		want := ids(GroupByLeaning(in).Column(types.Columns[i]))
		assert.Equal(t, want, home)
		for _, cell := range col.Cells {
			appeared[cell.Perspective.ID] = true
		}
	}
	for _, x := range in {
		assert.True(t, appeared[x.ID], "perspective %s missing", x.ID)
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	in := []types.Perspective{p("A", "left"), p("B", "center"), p("C", "center"), p("D", "right")}
	assert.Equal(t, Build(in, ModeGrouped, true), Build(in, ModeGrouped, true))
}

func TestBuildBalanced(t *testing.T) {
	in := []types.Perspective{p("3", "right"), p("1", "nope"), p("2", "left")}
	l := Build(in, ModeBalanced, true)
	require.Len(t, l.Columns, 1)
	home, filler := cellIDs(l.Columns[0])
	assert.Equal(t, []string{"3", "1", "2"}, home)
	assert.Empty(t, filler)
}

func TestIsWideAndToggle(t *testing.T) {
	assert.True(t, IsWide(160))
	assert.False(t, IsWide(80))
	assert.Equal(t, ModeBalanced, ModeGrouped.Toggle())
	assert.Equal(t, ModeGrouped, ModeBalanced.Toggle())
}
