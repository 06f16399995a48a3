package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"fullpicture/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	s, err := Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func seed(t *testing.T, s *Store) {
	t.Helper()
	err := s.UpsertPerspectives(context.Background(), []types.Perspective{
		{ID: "1", Title: "Ukraine aid vote", Source: "Fox News", Community: "right", Quote: "Congress debates aid to Ukraine.", Date: "2025-03-01"},
		{ID: "2", Title: "Markets rally", Source: "Reuters", Community: "center", Quote: "Stocks rose as Ukraine talks progressed.", Date: "2025-03-02"},
		{ID: "3", Title: "Ukraine Ukraine Ukraine", Source: "The Guardian", Community: "left", Quote: "Ukraine in focus.", Date: "2025-02-27"},
		{ID: "4", Title: "Weather", Source: "BBC", Community: "center", Quote: "Sunny spells.", Date: "2025-03-03"},
	})
	require.NoError(t, err)
}

func TestSearchRequiresAllTermsAndRanks(t *testing.T) {
	s := openTestStore(t)
	seed(t, s)
	ctx := context.Background()

	got, err := s.Search(ctx, "ukraine")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "3", got[0].ID, "most term hits ranks first")

	got, err = s.Search(ctx, "Ukraine aid")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].ID)

	got, err = s.Search(ctx, "   ")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestUpsertReplaces(t *testing.T) {
	s := openTestStore(t)
	seed(t, s)
	ctx := context.Background()

	require.NoError(t, s.UpsertPerspectives(ctx, []types.Perspective{{ID: "4", Title: "Storm warning", Source: "BBC", Community: "center", Date: "2025-03-03"}}))

	p, err := s.Perspective(ctx, "4")
	require.NoError(t, err)
	assert.Equal(t, "Storm warning", p.Title)

	_, err = s.Perspective(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Error(t, s.UpsertPerspectives(ctx, []types.Perspective{{Title: "no id"}}))
}

func TestRecentSourcesTimeline(t *testing.T) {
	s := openTestStore(t)
	seed(t, s)
	ctx := context.Background()

	recent, err := s.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "4", recent[0].ID)
	assert.Equal(t, "2", recent[1].ID)

	sources, err := s.Sources(ctx, "ukraine")
	require.NoError(t, err)
	assert.Equal(t, []string{"Fox News", "Reuters", "The Guardian"}, sources)

	all, err := s.Sources(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"BBC", "Fox News", "Reuters", "The Guardian"}, all)

	timeline, err := s.Timeline(ctx, "ukraine")
	require.NoError(t, err)
	require.Len(t, timeline, 3)
	assert.Equal(t, "2025-03-02", timeline[0].Date)
	assert.Equal(t, "2025-02-27", timeline[2].Date)
}

func TestComments(t *testing.T) {
	s := openTestStore(t)
	seed(t, s)
	ctx := context.Background()

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	s.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	first, err := s.AddComment(ctx, "1", "first")
	require.NoError(t, err)
	second, err := s.AddComment(ctx, "1", "second")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)

	list, err := s.Comments(ctx, "1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "second", list[0].Content, "newest first")
	require.NotNil(t, list[0].CreatedAt)

	n, err := s.CommentCount(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	results, err := s.Search(ctx, "aid")
	require.NoError(t, err)
	assert.Equal(t, 2, results[0].CommentCount)

	_, err = s.AddComment(ctx, "missing", "x")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTerms(t *testing.T) {
	assert.Equal(t, []string{"climate", "protests"}, Terms(`  Climate, "protests" climate `))
	assert.Empty(t, Terms(" "))
}

type fakeObjects struct {
	bucket, key, contentType string
	body                     string
}

func (f *fakeObjects) Put(ctx context.Context, bucket, key string, body io.Reader, contentType, cacheControl string) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	f.bucket, f.key, f.contentType, f.body = bucket, key, contentType, string(data)
	return nil
}

func TestSnapshotPublisher(t *testing.T) {
	s := openTestStore(t)
	seed(t, s)

	objects := &fakeObjects{}
	n, err := NewSnapshotPublisher(objects, s, "feeds").Publish(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, n)
	assert.Equal(t, "feeds", objects.bucket)
	assert.Equal(t, "recent.json", objects.key)
	assert.Equal(t, "application/json", objects.contentType)
	assert.Contains(t, objects.body, `"comment_count":0`)
}
