package ingestion

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"time"

	"fullpicture/config"
	"fullpicture/types"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
)

// Fetcher turns RSS/Atom feeds into perspectives
type Fetcher struct {
	parser   *gofeed.Parser
	maxItems int
	now      func() time.Time
}

// NewFetcher creates a fetcher keeping at most maxItems entries per feed.
// maxItems <= 0 means config.IngestItemsPerSource.
func NewFetcher(maxItems int) *Fetcher {
	if maxItems <= 0 {
		maxItems = config.IngestItemsPerSource
	}
	return &Fetcher{parser: gofeed.NewParser(), maxItems: maxItems, now: time.Now}
}

// FetchSource retrieves and parses the source's feed
func (f *Fetcher) FetchSource(ctx context.Context, src Source) ([]types.Perspective, error) {
	feed, err := f.parser.ParseURLWithContext(src.URL, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed %s: %w", src.Name, err)
	}
	return f.fromFeed(feed, src), nil
}

// Parse reads a feed document already in hand
func (f *Fetcher) Parse(r io.Reader, src Source) ([]types.Perspective, error) {
	feed, err := f.parser.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed %s: %w", src.Name, err)
	}
	return f.fromFeed(feed, src), nil
}

func (f *Fetcher) fromFeed(feed *gofeed.Feed, src Source) []types.Perspective {
	count := min(len(feed.Items), f.maxItems)
	perspectives := make([]types.Perspective, 0, count)

	for _, item := range feed.Items[:count] {
		if p, ok := f.itemToPerspective(item, src); ok {
			perspectives = append(perspectives, p)
		}
	}
	return perspectives
}

// itemToPerspective maps a feed item. Items without a link are skipped
// since the link is the perspective's identity.
func (f *Fetcher) itemToPerspective(item *gofeed.Item, src Source) (types.Perspective, bool) {
	link := strings.TrimSpace(item.Link)
	if link == "" {
		return types.Perspective{}, false
	}

	title := strings.TrimSpace(item.Title)
	if title == "" {
		title = TitleFromURL(link)
	}

	// Prefer the summary, fall back to full content
	summary := item.Description
	if summary == "" {
		summary = item.Content
	}
	quote := PlainText(summary)

	published := f.now()
	if item.PublishedParsed != nil {
		published = *item.PublishedParsed
	} else if item.UpdatedParsed != nil {
		published = *item.UpdatedParsed
	}

	return types.Perspective{
		ID:        types.GenerateID(link),
		Title:     title,
		Source:    src.Name,
		Community: src.Community,
		Quote:     quote,
		Sentiment: Score(quote),
		Date:      published.UTC().Format(time.DateOnly),
		URL:       link,
	}, true
}

// PlainText strips markup from a feed summary and collapses whitespace
func PlainText(markup string) string {
	if strings.TrimSpace(markup) == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return strings.Join(strings.Fields(markup), " ")
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

// TitleFromURL derives a readable title from the last path segment of
// rawURL, falling back to the host name.
func TitleFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "Untitled Article"
	}

	segment := path.Base(strings.TrimSuffix(u.Path, "/"))
	if segment == "." || segment == "/" {
		segment = ""
	}
	if i := strings.Index(segment, "."); i >= 0 {
		segment = segment[:i]
	}

	words := strings.Fields(strings.NewReplacer("-", " ", "_", " ").Replace(segment))
	for i, w := range words {
		r := []rune(w)
		words[i] = strings.ToUpper(string(r[:1])) + strings.ToLower(string(r[1:]))
	}
	if len(words) == 0 {
		return strings.TrimPrefix(u.Hostname(), "www.")
	}
	return strings.Join(words, " ")
}
