package tui

// UI Text Constants
const (
	TextTitle              = "🧭 Full Picture"
	TextSearchPrompt       = "Search: "
	TextSearchHint         = "Type a topic to see how every side covers it"
	TextSearchPlaceholder  = "e.g. housing policy"
	TextCommentPlaceholder = "Add a comment"
	TextRecentHeading      = "Recent perspectives"
	TextSearching          = "⏳ Searching..."
	TextLoadingRecent      = "⏳ Loading recent perspectives..."
	TextNoResults          = "No perspectives found for this topic."
	TextBorrowedFrom       = "also in %s"

	TextLoadingTimeline = "⏳ Loading timeline..."
	TextTimelineNoQuery = "Search for a topic to see its timeline."

	// Footer
	TextFooterSearch  = "enter search now · ↓ browse · tab layout · ctrl+r recent · esc quit"
	TextFooterCards   = "↑/↓ move · enter expand · c comments · a reply · f filter · t timeline · tab layout · / search · esc back"
	TextFooterComment = "enter post · esc back"
)
