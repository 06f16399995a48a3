package ingestion

import (
	"strings"
	"testing"
	"time"

	"fullpicture/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixtureFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
<title>Fixture</title>
<item>
  <title>Budget passes</title>
  <link>https://example.com/budget</link>
  <description>&lt;p&gt;The &lt;b&gt;budget&lt;/b&gt;   passed.&lt;/p&gt;</description>
  <pubDate>Mon, 06 May 2024 10:00:00 GMT</pubDate>
</item>
<item>
  <title></title>
  <link>https://example.com/news/tax-cuts-explained.html</link>
  <description>Plain summary</description>
</item>
<item>
  <title>No link</title>
</item>
</channel>
</rss>`

func TestFetcherParse(t *testing.T) {
	f := NewFetcher(10)
	f.now = func() time.Time { return time.Date(2024, 5, 7, 23, 0, 0, 0, time.UTC) }
	src := Source{Name: "Wire", URL: "https://example.com/rss", Community: "center"}

	got, err := f.Parse(strings.NewReader(fixtureFeed), src)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, types.GenerateID("https://example.com/budget"), got[0].ID)
	assert.Equal(t, "Budget passes", got[0].Title)
	assert.Equal(t, "The budget passed.", got[0].Quote)
	assert.Equal(t, "2024-05-06", got[0].Date)
	assert.Equal(t, "Wire", got[0].Source)
	assert.Equal(t, "center", got[0].Community)

	assert.Equal(t, "Tax Cuts Explained", got[1].Title)
	assert.Equal(t, "2024-05-07", got[1].Date)
}

func TestFetcherRespectsMaxItems(t *testing.T) {
	got, err := NewFetcher(1).Parse(strings.NewReader(fixtureFeed), Source{Name: "Wire", Community: "center"})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestFetcherParseError(t *testing.T) {
	_, err := NewFetcher(0).Parse(strings.NewReader("not a feed"), Source{Name: "Wire"})
	assert.Error(t, err)
}

func TestTitleFromURL(t *testing.T) {
	cases := []struct {
		url  string
		want string
	}{
		{"https://example.com/politics/senate-passes_bill/", "Senate Passes Bill"},
		{"https://www.example.com/", "example.com"},
		{"https://example.com/a/story.html", "Story"},
	}
	for _, c := range cases {
		t.Run(c.url, func(t *testing.T) {
			assert.Equal(t, c.want, TitleFromURL(c.url))
		})
	}
}

func TestPlainText(t *testing.T) {
	assert.Equal(t, "", PlainText("  "))
	assert.Equal(t, "Hello world", PlainText("<div>Hello\n  <em>world</em></div>"))
}
