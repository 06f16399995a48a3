// Package tui is the terminal front-end: a debounced search box over a
// three-column perspective layout with per-card comment panels.
package tui

import (
	"context"

	"fullpicture/comments"
	"fullpicture/config"
	"fullpicture/layout"
	"fullpicture/search"
	"fullpicture/types"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

// Focus is which part of the screen receives key presses
type Focus int

const (
	FocusSearch Focus = iota
	FocusCards
	FocusComment
)

// APIClient is the subset of the HTTP client the TUI uses
type APIClient interface {
	Perspectives(ctx context.Context, query string) ([]types.Perspective, error)
	Recent(ctx context.Context) ([]types.Perspective, error)
	Comments(ctx context.Context, perspectiveID string) ([]types.Comment, error)
	PostComment(ctx context.Context, perspectiveID, content string) (*types.Comment, error)
	Timeline(ctx context.Context, query string) ([]types.TimelineEntry, error)
}

// Options configures a Model
type Options struct {
	Search search.QueryOptions
	Mode   layout.Mode
	Logger *zap.Logger
}

// Model represents the TUI state
type Model struct {
	Client APIClient
	Logger *zap.Logger

	// Search
	SearchInput textinput.Model
	debouncer   *search.QueryDebouncer
	queries     chan search.Query
	gen         *search.Generation
	Committed   search.Query

	// Results
	Perspectives  []types.Perspective
	ShowingRecent bool
	Loading       bool
	Err           error

	// Layout and navigation
	Mode     layout.Mode
	Width    int
	Height   int
	Focus    Focus
	Cursor   int
	Expanded map[string]bool
	Sections map[string]*comments.Section
	Notice   string

	// Draft editor for the focused card's comment section
	CommentInput textinput.Model

	// Community filter; filterIndex 0 shows everything
	Filters     layout.Filters
	filterIndex int

	// Timeline of the committed query
	ShowTimeline    bool
	TimelineLoading bool
	Timeline        []types.TimelineEntry
	TimelineErr     error
	timelineGen     *search.Generation
}

// NewModel creates a new TUI model
func NewModel(client APIClient, opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	si := textinput.New()
	si.Prompt = TextSearchPrompt
	si.Placeholder = TextSearchPlaceholder
	si.CharLimit = 200
	si.Focus()

	ci := textinput.New()
	ci.Prompt = "> "
	ci.Placeholder = TextCommentPlaceholder
	ci.CharLimit = config.MaxCommentLength
	ci.Cursor.SetMode(cursor.CursorStatic)

	queries := make(chan search.Query, 8)
	m := Model{
		Client:       client,
		Logger:       logger,
		SearchInput:  si,
		CommentInput: ci,
		queries:      queries,
		gen:          &search.Generation{},
		timelineGen:  &search.Generation{},
		Mode:         opts.Mode,
		Expanded:     make(map[string]bool),
		Sections:     make(map[string]*comments.Section),
	}
	m.debouncer = search.NewQueryDebouncer(opts.Search, func(q search.Query) {
		queries <- q
	})
	return m
}

// Init implements tea.Model interface
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		waitForQuery(m.queries),
		fetchRecent(m.Client, m.gen.Next()),
	)
}

// Close stops the debounce timer
func (m Model) Close() {
	m.debouncer.Stop()
}

// Layout returns the current render description
func (m Model) Layout() layout.Layout {
	return layout.Build(layout.Filter(m.Perspectives, m.Filters), m.Mode, layout.IsWide(m.Width))
}

// Cells returns every card in navigation order
func (m Model) Cells() []layout.Cell {
	var cells []layout.Cell
	for _, col := range m.Layout().Columns {
		cells = append(cells, col.Cells...)
	}
	return cells
}

// Selected returns the card under the cursor
func (m Model) Selected() (layout.Cell, bool) {
	cells := m.Cells()
	if m.Cursor < 0 || m.Cursor >= len(cells) {
		return layout.Cell{}, false
	}
	return cells[m.Cursor], true
}

// Section returns the comment section owned by the card with key, creating it
// on first use.
func (m Model) Section(cell layout.Cell) *comments.Section {
	s, ok := m.Sections[cell.Key]
	if !ok {
		s = comments.NewSection(cell.Perspective.ID, cell.Perspective.CommentCount)
		m.Sections[cell.Key] = s
	}
	return s
}

// cycleCommunityFilter steps through no filter then each community in turn
func (m *Model) cycleCommunityFilter() {
	m.filterIndex = (m.filterIndex + 1) % (len(types.Leanings) + 1)
	if m.filterIndex == 0 {
		m.Filters.Communities = nil
	} else {
		m.Filters.Communities = []types.Leaning{types.Leanings[m.filterIndex-1]}
	}
	m.resetCards()
}

// owns reports whether section still belongs to a mounted card
func (m Model) owns(section *comments.Section) bool {
	for _, s := range m.Sections {
		if s == section {
			return true
		}
	}
	return false
}

// resetCards unmounts every card, dropping per-card state
func (m *Model) resetCards() {
	m.Cursor = 0
	m.Expanded = make(map[string]bool)
	m.Sections = make(map[string]*comments.Section)
	if m.Focus == FocusComment {
		m.Focus = FocusCards
		m.CommentInput.Blur()
	}
}
