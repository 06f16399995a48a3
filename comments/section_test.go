package comments

import (
	"context"
	"errors"
	"strings"
	"testing"

	"fullpicture/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLoader struct {
	list     []types.Comment
	fetchErr error
	postErr  error
	fetches  int
	posts    []string
}

func (f *fakeLoader) Comments(ctx context.Context, id string) ([]types.Comment, error) {
	f.fetches++
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.list, nil
}

func (f *fakeLoader) PostComment(ctx context.Context, id, content string) (*types.Comment, error) {
	f.posts = append(f.posts, content)
	if f.postErr != nil {
		return nil, f.postErr
	}
	return &types.Comment{ID: "new", PerspectiveID: id, Content: content}, nil
}

func TestLazyFetchOnFirstOpenOnly(t *testing.T) {
	loader := &fakeLoader{list: []types.Comment{{ID: "a"}, {ID: "b"}}}
	s := NewSection("p1", 5)
	ctx := context.Background()

	assert.Equal(t, 5, s.Count())
	assert.Zero(t, loader.fetches)

	s.Fetch(ctx, loader)
	assert.Equal(t, 1, loader.fetches)
	assert.Equal(t, 2, s.Count())
	assert.True(t, s.IsOpen())

	s.Close()
	s.Fetch(ctx, loader)
	assert.Equal(t, 1, loader.fetches, "cached list must be reused")
	assert.Len(t, s.Comments(), 2)
}

func TestToggleReportsFetchNeed(t *testing.T) {
	s := NewSection("p1", 0)
	assert.True(t, s.Toggle())
	assert.True(t, s.Loading())
	assert.Equal(t, TextLoading, s.Status())

	assert.False(t, s.Toggle())
	assert.False(t, s.IsOpen())

	// reopening while the first fetch is still in flight must not start another
	assert.False(t, s.Toggle())

	s.Loaded(nil, nil)
	assert.Equal(t, TextEmpty, s.Status())
}

func TestFetchFailureDegradesToZero(t *testing.T) {
	loader := &fakeLoader{fetchErr: errors.New("down")}
	s := NewSection("p1", 9)

	s.Fetch(context.Background(), loader)

	assert.Equal(t, 0, s.Count())
	assert.Equal(t, TextLoadError, s.Error())
	assert.True(t, s.Fetched())
}

func TestSubmitPrependsAndIncrements(t *testing.T) {
	loader := &fakeLoader{list: []types.Comment{{ID: "old"}}}
	s := NewSection("p1", 1)
	ctx := context.Background()
	s.Fetch(ctx, loader)

	s.SetDraft("  first!  ")
	require.NoError(t, s.Submit(ctx, loader))

	require.Len(t, s.Comments(), 2)
	assert.Equal(t, "new", s.Comments()[0].ID)
	assert.Equal(t, "first!", s.Comments()[0].Content)
	assert.Equal(t, 2, s.Count())
	assert.Empty(t, s.Draft())
	assert.Equal(t, 1, loader.fetches, "post must not trigger a re-fetch")
	assert.Equal(t, []string{"first!"}, loader.posts)
}

func TestSubmitFailureKeepsList(t *testing.T) {
	loader := &fakeLoader{list: []types.Comment{{ID: "old"}}, postErr: errors.New("500")}
	s := NewSection("p1", 1)
	ctx := context.Background()
	s.Fetch(ctx, loader)

	s.SetDraft("hello")
	assert.Error(t, s.Submit(ctx, loader))

	assert.Len(t, s.Comments(), 1)
	assert.Equal(t, 1, s.Count())
	assert.Equal(t, TextPostError, s.Error())
	assert.Equal(t, "hello", s.Draft())
	assert.Len(t, loader.posts, 1, "failed posts are not retried")
}

func TestSubmitValidation(t *testing.T) {
	s := NewSection("p1", 0)

	s.SetDraft("   ")
	_, err := s.BeginSubmit()
	assert.ErrorIs(t, err, ErrEmpty)

	s.SetDraft(strings.Repeat("x", 501))
	_, err = s.BeginSubmit()
	assert.ErrorIs(t, err, ErrTooLong)

	s.SetDraft("ok")
	_, err = s.BeginSubmit()
	require.NoError(t, err)
	_, err = s.BeginSubmit()
	assert.ErrorIs(t, err, ErrBusy)
}
