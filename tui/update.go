package tui

import (
	"errors"

	"fullpicture/comments"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// Update implements tea.Model interface
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.SearchInput.Width = max(msg.Width-len(TextSearchPrompt)-6, 10)
		m.clampCursor()
		return m, nil
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case QueryCommittedMsg:
		return m.handleQueryCommitted(msg)
	case PerspectivesLoadedMsg:
		return m.handlePerspectivesLoaded(msg)
	case CommentsLoadedMsg:
		return m.handleCommentsLoaded(msg)
	case CommentPostedMsg:
		return m.handleCommentPosted(msg)
	case TimelineLoadedMsg:
		return m.handleTimelineLoaded(msg)
	}

	// cursor blinks and pastes
	switch m.Focus {
	case FocusSearch:
		return m.updateSearchInput(msg)
	case FocusComment:
		return m.updateCommentInput(msg)
	}
	return m, nil
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.Close()
		return m, tea.Quit
	}

	switch m.Focus {
	case FocusComment:
		return m.handleCommentKey(msg)
	case FocusCards:
		return m.handleCardKey(msg)
	}
	return m.handleSearchKey(msg)
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.Close()
		return m, tea.Quit
	case tea.KeyEnter:
		m.debouncer.Flush()
		return m, nil
	case tea.KeyTab:
		m.toggleMode()
		return m, nil
	case tea.KeyDown:
		if len(m.Cells()) > 0 {
			m.Focus = FocusCards
			m.SearchInput.Blur()
		}
		return m, nil
	case tea.KeyCtrlR:
		return m.loadRecent()
	}
	return m.updateSearchInput(msg)
}

func (m Model) handleCardKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "/":
		return m.focusSearch()
	case "up", "k":
		if m.Cursor == 0 {
			return m.focusSearch()
		}
		m.Cursor--
	case "down", "j":
		if m.Cursor < len(m.Cells())-1 {
			m.Cursor++
		}
	case "tab":
		m.toggleMode()
	case "enter":
		if cell, ok := m.Selected(); ok {
			m.Expanded[cell.Key] = !m.Expanded[cell.Key]
		}
	case "c":
		return m.toggleComments()
	case "f":
		m.cycleCommunityFilter()
	case "t":
		return m.toggleTimeline()
	case "a":
		if cell, ok := m.Selected(); ok {
			section := m.Section(cell)
			var cmd tea.Cmd
			if !section.IsOpen() && section.Open() {
				cmd = fetchComments(m.Client, section)
			}
			m.Focus = FocusComment
			m.Notice = ""
			m.CommentInput.SetValue(section.Draft())
			m.CommentInput.CursorEnd()
			return m, tea.Batch(cmd, m.CommentInput.Focus())
		}
	}
	return m, nil
}

func (m Model) handleCommentKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cell, ok := m.Selected()
	if !ok {
		m.Focus = FocusCards
		m.CommentInput.Blur()
		return m, nil
	}
	section := m.Section(cell)

	switch msg.Type {
	case tea.KeyEsc:
		m.Focus = FocusCards
		m.Notice = ""
		m.CommentInput.Blur()
		return m, nil
	case tea.KeyEnter:
		content, err := section.BeginSubmit()
		switch {
		case errors.Is(err, comments.ErrEmpty):
			return m, nil
		case err != nil:
			m.Notice = err.Error()
			return m, nil
		}
		m.Notice = ""
		return m, postComment(m.Client, section, content)
	}
	return m.updateCommentInput(msg)
}

// focusSearch moves key presses back to the search box
func (m Model) focusSearch() (tea.Model, tea.Cmd) {
	cmd := m.setSearchFocus()
	return m, cmd
}

func (m *Model) setSearchFocus() tea.Cmd {
	m.Focus = FocusSearch
	m.CommentInput.Blur()
	return m.SearchInput.Focus()
}

// updateSearchInput forwards msg to the search box and feeds any edit to the
// debouncer.
func (m Model) updateSearchInput(msg tea.Msg) (Model, tea.Cmd) {
	before := m.SearchInput.Value()
	var cmd tea.Cmd
	m.SearchInput, cmd = m.SearchInput.Update(msg)
	if value := m.SearchInput.Value(); value != before {
		m.debouncer.Input(value)
	}
	return m, cmd
}

// updateCommentInput forwards msg to the draft editor and stores the result
// on the selected card's section.
func (m Model) updateCommentInput(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.CommentInput, cmd = m.CommentInput.Update(msg)
	if cell, ok := m.Selected(); ok {
		m.Section(cell).SetDraft(m.CommentInput.Value())
	}
	return m, cmd
}

// toggleComments opens or closes the panel under the cursor, fetching on first open
func (m Model) toggleComments() (tea.Model, tea.Cmd) {
	cell, ok := m.Selected()
	if !ok {
		return m, nil
	}
	section := m.Section(cell)
	if section.Toggle() {
		return m, fetchComments(m.Client, section)
	}
	return m, nil
}

// toggleTimeline shows or hides the timeline of the committed query. Each
// show issues a new token so only its own response is applied.
func (m Model) toggleTimeline() (tea.Model, tea.Cmd) {
	m.ShowTimeline = !m.ShowTimeline
	if !m.ShowTimeline {
		m.timelineGen.Invalidate()
		m.TimelineLoading = false
		return m, nil
	}
	if m.Committed.Text == "" {
		return m, nil
	}
	m.Timeline = nil
	m.TimelineErr = nil
	m.TimelineLoading = true
	return m, fetchTimeline(m.Client, m.timelineGen.Next(), m.Committed.Text)
}

func (m Model) handleTimelineLoaded(msg TimelineLoadedMsg) (tea.Model, tea.Cmd) {
	if !m.timelineGen.IsCurrent(msg.Gen) {
		m.Logger.Debug("dropping stale timeline", zap.String("query", msg.Query), zap.Uint64("gen", msg.Gen))
		return m, nil
	}
	m.TimelineLoading = false
	m.Timeline = msg.Entries
	m.TimelineErr = msg.Err
	return m, nil
}

// handleQueryCommitted starts a search for the settled query. Every commit
// re-arms the query listener.
func (m Model) handleQueryCommitted(msg QueryCommittedMsg) (tea.Model, tea.Cmd) {
	m.Committed = msg.Query
	m.ShowTimeline = false
	m.TimelineLoading = false
	m.Timeline = nil
	m.timelineGen.Invalidate()
	listen := waitForQuery(m.queries)

	if msg.Query.Clear {
		m.gen.Invalidate()
		m.Perspectives = nil
		m.ShowingRecent = false
		m.Loading = false
		m.Err = nil
		m.resetCards()
		return m, tea.Batch(listen, m.setSearchFocus())
	}

	m.Loading = true
	m.Err = nil
	m.Logger.Debug("search committed", zap.String("query", msg.Query.Text))
	return m, tea.Batch(listen, fetchPerspectives(m.Client, m.gen.Next(), msg.Query.Text))
}

// handlePerspectivesLoaded applies a response if it is still the latest one
func (m Model) handlePerspectivesLoaded(msg PerspectivesLoadedMsg) (tea.Model, tea.Cmd) {
	if !m.gen.IsCurrent(msg.Gen) {
		m.Logger.Debug("dropping stale response", zap.String("query", msg.Query), zap.Uint64("gen", msg.Gen))
		return m, nil
	}

	m.Loading = false
	m.ShowingRecent = msg.Recent
	m.resetCards()
	if msg.Err != nil {
		m.Logger.Warn("failed to load perspectives", zap.String("query", msg.Query), zap.Error(msg.Err))
		m.Err = msg.Err
		m.Perspectives = nil
		return m, m.setSearchFocus()
	}

	m.Err = nil
	m.Perspectives = msg.Perspectives
	if len(m.Perspectives) == 0 {
		return m, m.setSearchFocus()
	}
	return m, nil
}

func (m Model) handleCommentsLoaded(msg CommentsLoadedMsg) (tea.Model, tea.Cmd) {
	if !m.owns(msg.Section) {
		return m, nil
	}
	if msg.Err != nil {
		m.Logger.Warn("failed to load comments", zap.String("perspective_id", msg.Section.PerspectiveID()), zap.Error(msg.Err))
	}
	msg.Section.Loaded(msg.Comments, msg.Err)
	return m, nil
}

func (m Model) handleCommentPosted(msg CommentPostedMsg) (tea.Model, tea.Cmd) {
	if !m.owns(msg.Section) {
		return m, nil
	}
	if msg.Err != nil {
		m.Logger.Warn("failed to post comment", zap.String("perspective_id", msg.Section.PerspectiveID()), zap.Error(msg.Err))
	}
	msg.Section.Posted(msg.Comment, msg.Err)
	if cell, ok := m.Selected(); ok && m.Sections[cell.Key] == msg.Section {
		m.CommentInput.SetValue(msg.Section.Draft())
	}
	return m, nil
}

// loadRecent returns to the homepage feed
func (m Model) loadRecent() (tea.Model, tea.Cmd) {
	m.SearchInput.Reset()
	m.debouncer.Reset()
	m.Loading = true
	m.Err = nil
	return m, fetchRecent(m.Client, m.gen.Next())
}

// toggleMode flips grouped/balanced. Card keys change with the mode, so
// per-card state starts over.
func (m *Model) toggleMode() {
	m.Mode = m.Mode.Toggle()
	m.resetCards()
}

func (m *Model) clampCursor() {
	n := len(m.Cells())
	if m.Cursor >= n {
		m.Cursor = max(n-1, 0)
	}
}
