package tui

import (
	"fullpicture/comments"
	"fullpicture/search"
	"fullpicture/types"
)

// Messages for the tea program

// QueryCommittedMsg is sent when the search debouncer settles on a query
type QueryCommittedMsg struct {
	Query search.Query
}

// PerspectivesLoadedMsg carries a search or recent-feed response. Gen is the
// token the request was issued with; a stale Gen is dropped.
type PerspectivesLoadedMsg struct {
	Gen          uint64
	Query        string
	Recent       bool
	Perspectives []types.Perspective
	Err          error
}

// CommentsLoadedMsg carries a lazy comment fetch for one card's section
type CommentsLoadedMsg struct {
	Section  *comments.Section
	Comments []types.Comment
	Err      error
}

// CommentPostedMsg carries the result of posting a comment
type CommentPostedMsg struct {
	Section *comments.Section
	Comment *types.Comment
	Err     error
}

// TimelineLoadedMsg carries the day-grouped view of a query, tagged like
// PerspectivesLoadedMsg with the token it was requested under.
type TimelineLoadedMsg struct {
	Gen     uint64
	Query   string
	Entries []types.TimelineEntry
	Err     error
}
