package tui

import (
	"context"
	"math/rand"

	"fullpicture/comments"
	"fullpicture/config"
	"fullpicture/search"

	tea "github.com/charmbracelet/bubbletea"
)

// waitForQuery blocks until the debouncer commits the next query
func waitForQuery(queries <-chan search.Query) tea.Cmd {
	return func() tea.Msg {
		q, ok := <-queries
		if !ok {
			return nil
		}
		return QueryCommittedMsg{Query: q}
	}
}

// fetchPerspectives runs a search tagged with gen
func fetchPerspectives(client APIClient, gen uint64, query string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), config.ClientTimeout)
		defer cancel()

		perspectives, err := client.Perspectives(ctx, query)
		return PerspectivesLoadedMsg{Gen: gen, Query: query, Perspectives: perspectives, Err: err}
	}
}

// fetchRecent loads the homepage feed in shuffled order
func fetchRecent(client APIClient, gen uint64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), config.ClientTimeout)
		defer cancel()

		perspectives, err := client.Recent(ctx)
		rand.Shuffle(len(perspectives), func(i, j int) {
			perspectives[i], perspectives[j] = perspectives[j], perspectives[i]
		})
		return PerspectivesLoadedMsg{Gen: gen, Recent: true, Perspectives: perspectives, Err: err}
	}
}

// fetchComments loads a section's comment list
func fetchComments(client APIClient, section *comments.Section) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), config.ClientTimeout)
		defer cancel()

		list, err := client.Comments(ctx, section.PerspectiveID())
		return CommentsLoadedMsg{Section: section, Comments: list, Err: err}
	}
}

// postComment sends content for a section
func postComment(client APIClient, section *comments.Section, content string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), config.ClientTimeout)
		defer cancel()

		c, err := client.PostComment(ctx, section.PerspectiveID(), content)
		return CommentPostedMsg{Section: section, Comment: c, Err: err}
	}
}

// fetchTimeline loads the day-grouped results for query tagged with gen
func fetchTimeline(client APIClient, gen uint64, query string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), config.ClientTimeout)
		defer cancel()

		entries, err := client.Timeline(ctx, query)
		return TimelineLoadedMsg{Gen: gen, Query: query, Entries: entries, Err: err}
	}
}
