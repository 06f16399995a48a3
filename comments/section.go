// Package comments holds the per-card comment state: a lazily fetched,
// cached list with optimistic updates after a successful post.
package comments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"fullpicture/config"
	"fullpicture/types"
)

// Inline messages shown in place of the comment list
const (
	TextLoadError = "Error loading comments. Please try again later."
	TextPostError = "Error posting comment. Please try again later."
	TextEmpty     = "No comments yet. Be the first to comment!"
	TextLoading   = "Loading comments..."
)

var (
	// ErrEmpty is returned when submitting a blank comment
	ErrEmpty = errors.New("comment is empty")
	// ErrTooLong is returned when a comment exceeds config.MaxCommentLength
	ErrTooLong = fmt.Errorf("comment exceeds %d characters", config.MaxCommentLength)
	// ErrBusy is returned when a request is already in flight for the section
	ErrBusy = errors.New("comment request already in flight")
)

// Loader is the subset of the API client a section needs
type Loader interface {
	Comments(ctx context.Context, perspectiveID string) ([]types.Comment, error)
	PostComment(ctx context.Context, perspectiveID, content string) (*types.Comment, error)
}

// Section is the comment panel of one perspective card. Each card owns its
// own Section; nothing is shared between cards. Not safe for concurrent use.
type Section struct {
	perspectiveID string

	open    bool
	fetched bool
	loading bool

	comments []types.Comment
	count    int
	draft    string
	err      string
}

// NewSection creates a closed section seeded with the count the API reported for the card
func NewSection(perspectiveID string, initialCount int) *Section {
	if initialCount < 0 {
		initialCount = 0
	}
	return &Section{perspectiveID: perspectiveID, count: initialCount}
}

// PerspectiveID returns the id of the owning card
func (s *Section) PerspectiveID() string { return s.perspectiveID }

// Open opens the panel and reports whether the caller must now fetch the
// comment list. Only the first open of a section's lifetime needs a fetch.
func (s *Section) Open() bool {
	s.open = true
	if s.fetched || s.loading {
		return false
	}
	s.loading = true
	s.err = ""
	return true
}

// Close hides the panel. The cached list is kept.
func (s *Section) Close() {
	s.open = false
}

// Toggle flips the panel and reports whether a fetch is needed
func (s *Section) Toggle() bool {
	if s.open {
		s.Close()
		return false
	}
	return s.Open()
}

// IsOpen reports whether the panel is visible
func (s *Section) IsOpen() bool { return s.open }

// Loaded records the result of the fetch started by Open. A failure
// degrades the count to zero and surfaces TextLoadError.
func (s *Section) Loaded(list []types.Comment, err error) {
	s.loading = false
	s.fetched = true
	if err != nil {
		s.comments = nil
		s.count = 0
		s.err = TextLoadError
		return
	}
	s.comments = list
	s.count = len(list)
	s.err = ""
}

// SetDraft replaces the text being typed
func (s *Section) SetDraft(text string) { s.draft = text }

// Draft returns the text being typed
func (s *Section) Draft() string { return s.draft }

// BeginSubmit validates the draft and marks a post as in flight. The
// returned content is what must be sent.
func (s *Section) BeginSubmit() (string, error) {
	if s.loading {
		return "", ErrBusy
	}
	content := strings.TrimSpace(s.draft)
	if content == "" {
		return "", ErrEmpty
	}
	if utf8.RuneCountInString(content) > config.MaxCommentLength {
		return "", ErrTooLong
	}
	s.loading = true
	s.err = ""
	return content, nil
}

// Posted records the result of a post. On success the new comment is
// prepended and the count incremented without re-fetching.
func (s *Section) Posted(c *types.Comment, err error) {
	s.loading = false
	if err != nil || c == nil {
		s.err = TextPostError
		return
	}
	s.comments = append([]types.Comment{*c}, s.comments...)
	s.count++
	s.draft = ""
	s.err = ""
}

// Fetch opens the section and, when needed, loads the list synchronously.
func (s *Section) Fetch(ctx context.Context, loader Loader) {
	if !s.Open() {
		return
	}
	list, err := loader.Comments(ctx, s.perspectiveID)
	s.Loaded(list, err)
}

// Submit posts the current draft synchronously.
func (s *Section) Submit(ctx context.Context, loader Loader) error {
	content, err := s.BeginSubmit()
	if err != nil {
		return err
	}
	c, err := loader.PostComment(ctx, s.perspectiveID, content)
	s.Posted(c, err)
	return err
}

// Comments returns the cached list, newest first
func (s *Section) Comments() []types.Comment { return s.comments }

// Count returns the comment count shown on the card
func (s *Section) Count() int { return s.count }

// Loading reports whether a fetch or post is in flight
func (s *Section) Loading() bool { return s.loading }

// Fetched reports whether the list has been loaded (successfully or not)
func (s *Section) Fetched() bool { return s.fetched }

// Error returns the inline error message, if any
func (s *Section) Error() string { return s.err }

// Status returns the placeholder text for an empty list, or "" when comments should be shown
func (s *Section) Status() string {
	switch {
	case s.loading && len(s.comments) == 0:
		return TextLoading
	case len(s.comments) == 0:
		return TextEmpty
	}
	return ""
}
