package tui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"fullpicture/config"
	"fullpicture/layout"

	"github.com/charmbracelet/lipgloss"
)

const columnGap = 1

// View implements tea.Model interface
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render(TextTitle))
	b.WriteString("\n")
	b.WriteString(m.searchBox())
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n\n")

	switch {
	case m.ShowTimeline:
		b.WriteString(m.renderTimeline())
		b.WriteString("\n")
	case len(m.Perspectives) > 0:
		if line := m.filterLine(); line != "" {
			b.WriteString(InfoStyle.Render(line))
			b.WriteString("\n")
		}
		b.WriteString(m.renderLayout(m.Layout()))
		b.WriteString("\n")
	}

	if m.Notice != "" {
		b.WriteString(ErrorStyle.Render(m.Notice))
		b.WriteString("\n")
	}
	b.WriteString(InfoStyle.Render(m.footer()))
	return b.String()
}

func (m Model) searchBox() string {
	style := SearchStyle
	if m.Width > 4 {
		style = style.Width(m.Width - 4)
	}
	return style.Render(m.SearchInput.View())
}

// filterLine names the active filters, or is empty when none are set
func (m Model) filterLine() string {
	var parts []string
	if len(m.Filters.Communities) > 0 {
		labels := make([]string, 0, len(m.Filters.Communities))
		for _, l := range m.Filters.Communities {
			labels = append(labels, l.Label())
		}
		parts = append(parts, "Filter: "+strings.Join(labels, ", "))
	}
	if len(m.Filters.Sources) > 0 {
		parts = append(parts, "Sources: "+strings.Join(m.Filters.Sources, ", "))
	}
	return strings.Join(parts, " · ")
}

// statusLine reports loading, errors and the result summary inline
func (m Model) statusLine() string {
	switch {
	case m.Err != nil:
		return ErrorStyle.Render("Error loading perspectives: " + m.Err.Error())
	case m.Loading && m.ShowingRecent:
		return StatusStyle.Render(TextLoadingRecent)
	case m.Loading:
		return StatusStyle.Render(TextSearching)
	case m.ShowingRecent:
		return InfoStyle.Render(fmt.Sprintf("%s · %d", TextRecentHeading, len(m.Perspectives)))
	case m.Committed.Text == "":
		return InfoStyle.Render(TextSearchHint)
	case len(m.Perspectives) == 0:
		return InfoStyle.Render(TextNoResults)
	}
	summary := fmt.Sprintf("%d perspectives on %q · %s", len(m.Perspectives), m.Committed.Text, m.Mode)
	if sources := layout.Sources(m.Perspectives); len(sources) > 0 {
		summary += " · " + strings.Join(sources, ", ")
	}
	return InfoStyle.Render(summary)
}

// renderTimeline lists the committed query's perspectives day by day
func (m Model) renderTimeline() string {
	switch {
	case m.Committed.Text == "":
		return InfoStyle.Render(TextTimelineNoQuery)
	case m.TimelineErr != nil:
		return ErrorStyle.Render("Error loading timeline: " + m.TimelineErr.Error())
	case m.TimelineLoading:
		return StatusStyle.Render(TextLoadingTimeline)
	}

	var b strings.Builder
	for _, entry := range m.Timeline {
		b.WriteString(CardTitleStyle.Render(entry.Date))
		b.WriteString("\n")
		for _, p := range entry.Perspectives {
			line := "  " + p.Title + " · " + p.Source
			if l, ok := p.Leaning(); ok {
				line += " · " + badgeStyle(l).Render(l.Label())
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m Model) footer() string {
	switch m.Focus {
	case FocusCards:
		return TextFooterCards
	case FocusComment:
		return TextFooterComment
	}
	return TextFooterSearch
}

// renderLayout draws columns side by side when wide, stacked otherwise
func (m Model) renderLayout(l layout.Layout) string {
	width := max(m.Width, 40)
	colWidth := width
	if l.Mode == layout.ModeGrouped && l.Wide {
		colWidth = (width - columnGap*(len(l.Columns)-1)) / len(l.Columns)
	}

	selected, _ := m.Selected()
	rendered := make([]string, 0, len(l.Columns))
	for _, col := range l.Columns {
		// stacked columns with nothing to show are left out entirely
		if l.Mode == layout.ModeGrouped && !l.Wide && len(col.Cells) == 0 && col.Placeholder == nil {
			continue
		}
		rendered = append(rendered, m.renderColumn(l.Mode, col, colWidth, selected.Key))
	}

	if l.Mode == layout.ModeGrouped && l.Wide {
		return lipgloss.JoinHorizontal(lipgloss.Top, interleave(rendered, strings.Repeat(" ", columnGap))...)
	}
	return lipgloss.JoinVertical(lipgloss.Left, rendered...)
}

func (m Model) renderColumn(mode layout.Mode, col layout.Column, width int, selectedKey string) string {
	var parts []string
	if mode == layout.ModeGrouped {
		header := badgeStyle(col.Leaning).Render(fmt.Sprintf("%s · %d", col.Leaning.Label(), col.Home()))
		parts = append(parts, lipgloss.NewStyle().Width(width).Render(header))
	}

	for _, cell := range col.Cells {
		parts = append(parts, m.renderCard(cell, width, cell.Key == selectedKey))
	}

	if col.Placeholder != nil {
		body := col.Placeholder.Title + "\n" + col.Placeholder.Text
		parts = append(parts, PlaceholderStyle.Width(max(width-2, 10)).Render(body))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) renderCard(cell layout.Cell, width int, selected bool) string {
	p := cell.Perspective
	leaning, known := p.Leaning()

	var b strings.Builder
	b.WriteString(CardTitleStyle.Render(p.Title))
	b.WriteString("\n")

	meta := p.Source
	if known {
		meta += " · " + badgeStyle(leaning).Render(leaning.Label())
	}
	if p.Date != "" {
		meta += " · " + p.Date
	}
	b.WriteString(InfoStyle.Render(meta))
	b.WriteString("\n")

	quote := p.Quote
	if !m.Expanded[cell.Key] {
		quote, _ = layout.TruncateWords(quote, config.QuoteWordLimit)
	}
	if quote != "" {
		b.WriteString("\n“" + quote + "”\n")
	}

	section := m.Sections[cell.Key]
	count := p.CommentCount
	if section != nil {
		count = section.Count()
	}
	b.WriteString("\n")
	b.WriteString(InfoStyle.Render(fmt.Sprintf("%s · 💬 %d", sentimentLabel(p.Sentiment), count)))
	if cell.Filler && known {
		b.WriteString(InfoStyle.Render(" · " + fmt.Sprintf(TextBorrowedFrom, leaning.Label())))
	}

	if section != nil && section.IsOpen() {
		b.WriteString("\n")
		b.WriteString(m.renderComments(cell, width))
	}

	return cardStyle(leaning, known, selected, cell.Filler, width).Render(b.String())
}

// renderComments draws an open comment panel: error or status, the list,
// then the input line.
func (m Model) renderComments(cell layout.Cell, width int) string {
	section := m.Sections[cell.Key]

	var b strings.Builder
	b.WriteString(strings.Repeat("─", max(width-6, 4)))
	b.WriteString("\n")

	if msg := section.Error(); msg != "" {
		b.WriteString(ErrorStyle.Render(msg))
		b.WriteString("\n")
	}
	if status := section.Status(); status != "" {
		b.WriteString(InfoStyle.Render(status))
		b.WriteString("\n")
	}
	for _, c := range section.Comments() {
		line := "• " + c.Content
		if c.CreatedAt != nil {
			line += InfoStyle.Render(" (" + c.CreatedAt.Format("Jan 2 15:04") + ")")
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	editing := m.Focus == FocusComment
	if sel, ok := m.Selected(); !ok || sel.Key != cell.Key {
		editing = false
	}
	if editing {
		b.WriteString(m.CommentInput.View())
	} else {
		b.WriteString("> " + section.Draft())
	}
	b.WriteString(InfoStyle.Render(fmt.Sprintf("  %d/%d", utf8.RuneCountInString(section.Draft()), config.MaxCommentLength)))
	return b.String()
}

// sentimentLabel buckets a [-1, 1] score for display
func sentimentLabel(s float64) string {
	switch {
	case s > 0.1:
		return fmt.Sprintf("positive %+.2f", s)
	case s < -0.1:
		return fmt.Sprintf("negative %+.2f", s)
	}
	return fmt.Sprintf("neutral %+.2f", s)
}

func interleave(items []string, sep string) []string {
	out := make([]string, 0, len(items)*2)
	for i, item := range items {
		if i > 0 {
			out = append(out, sep)
		}
		out = append(out, item)
	}
	return out
}
