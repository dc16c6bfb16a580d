package store

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fakebook/fakebook/errors"
	"github.com/fakebook/fakebook/types"
)

func testDataset() types.Dataset {
	return types.Dataset{
		Users: []types.User{
			{ID: "1", Name: "Alice", Avatar: "https://example.com/alice.png", FriendIDs: []string{"2", "3"}},
			{ID: "2", Name: "Bob", FriendIDs: []string{"1"}},
			{ID: "3", Name: "Carol", FriendIDs: []string{}},
		},
		Posts: []types.Post{
			{ID: "p1", Content: "first", AuthorID: "2", LikeUserIDs: []string{}},
			{ID: "p2", Content: "second", AuthorID: "3", LikeUserIDs: []string{"1"}},
			{ID: "p3", Content: "third", AuthorID: "2", LikeUserIDs: []string{}},
		},
		Comments: []types.Comment{
			{ID: "c1", Text: "nice", PostID: "p1", AuthorID: "1"},
			{ID: "c2", Text: "agreed", PostID: "p1", AuthorID: "3"},
			{ID: "c3", Text: "hm", PostID: "p2", AuthorID: "2"},
		},
	}
}

func TestFindUser(t *testing.T) {
	s := New(testDataset(), nil)

	u := s.FindUser("1")
	require.NotNil(t, u)
	assert.Equal(t, "Alice", u.Name)
	assert.Equal(t, []string{"2", "3"}, u.FriendIDs)

	assert.Nil(t, s.FindUser("nope"))
}

func TestFindPost(t *testing.T) {
	s := New(testDataset(), nil)

	p := s.FindPost("p2")
	require.NotNil(t, p)
	assert.Equal(t, "second", p.Content)
	assert.Equal(t, []string{"1"}, p.LikeUserIDs)

	assert.Nil(t, s.FindPost("nope"))
}

func TestPostsByAuthorStorageOrder(t *testing.T) {
	s := New(testDataset(), nil)

	posts := s.PostsByAuthor("2")
	require.Len(t, posts, 2)
	assert.Equal(t, "p1", posts[0].ID)
	assert.Equal(t, "p3", posts[1].ID)

	assert.Empty(t, s.PostsByAuthor("nope"))
	assert.NotNil(t, s.PostsByAuthor("nope"))
}

func TestCommentsForPost(t *testing.T) {
	s := New(testDataset(), nil)

	comments := s.CommentsForPost("p1")
	require.Len(t, comments, 2)
	assert.Equal(t, "c1", comments[0].ID)
	assert.Equal(t, "c2", comments[1].ID)

	assert.Empty(t, s.CommentsForPost("p3"))
}

func TestAppendLike(t *testing.T) {
	s := New(testDataset(), nil)

	p, err := s.AppendLike("p1", "1")
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, p.LikeUserIDs)

	// Idempotent: a second like from the same user is a no-op.
	p, err = s.AppendLike("p1", "1")
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, p.LikeUserIDs)

	p, err = s.AppendLike("p1", "3")
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "3"}, p.LikeUserIDs)
}

func TestAppendLikeUnknownPost(t *testing.T) {
	s := New(testDataset(), nil)

	_, err := s.AppendLike("nope", "1")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))

	// Dataset unchanged on failure.
	for _, p := range s.Posts() {
		assert.NotContains(t, p.LikeUserIDs, "nope")
	}
}

func TestAppendLikeConcurrent(t *testing.T) {
	s := New(testDataset(), nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.AppendLike("p1", "1")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	p := s.FindPost("p1")
	require.NotNil(t, p)
	assert.Equal(t, []string{"1"}, p.LikeUserIDs, "concurrent likes must not duplicate")
}

func TestCopiesDoNotAliasStore(t *testing.T) {
	s := New(testDataset(), nil)

	p := s.FindPost("p2")
	require.NotNil(t, p)
	p.LikeUserIDs[0] = "mutated"

	fresh := s.FindPost("p2")
	assert.Equal(t, []string{"1"}, fresh.LikeUserIDs)
}

func TestOpen(t *testing.T) {
	s, err := Open("testdata/db.json", nil)
	require.NoError(t, err)

	users, posts, comments := s.Counts()
	assert.Equal(t, 3, users)
	assert.Equal(t, 2, posts)
	assert.Equal(t, 2, comments)

	u := s.FindUser("2")
	require.NotNil(t, u)
	assert.Equal(t, "Bob", u.Name)
}

func TestOpenMissingFile(t *testing.T) {
	_, err := Open("testdata/missing.json", nil)
	require.Error(t, err)
	assert.True(t, errors.IsFatal(err))
}
