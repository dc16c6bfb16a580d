// Package store holds the in-memory social-graph dataset. The three
// collections are loaded once at startup and live for the process lifetime;
// the only runtime mutation is AppendLike.
package store

import (
	"log/slog"
	"sync"

	"github.com/fakebook/fakebook/errors"
	"github.com/fakebook/fakebook/types"
)

// Store is the shared dataset behind both query surfaces.
//
// Lookups are linear scans in storage order, which is the contract: the
// dataset is small and fully memory resident. An id index keyed by
// identifier is kept as a strictly internal optimization for the two
// single-entity lookups; it does not change observable behavior.
//
// Readers take the read lock and receive copies, so the check-then-append
// in AppendLike can never race with a projection of a post's likers list.
type Store struct {
	mu       sync.RWMutex
	users    []types.User
	posts    []types.Post
	comments []types.Comment

	userIdx map[string]int
	postIdx map[string]int

	logger *slog.Logger
}

// New creates a store over an already-loaded dataset.
func New(ds types.Dataset, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Store{
		users:    ds.Users,
		posts:    ds.Posts,
		comments: ds.Comments,
		userIdx:  make(map[string]int, len(ds.Users)),
		postIdx:  make(map[string]int, len(ds.Posts)),
		logger:   logger.With("component", "store"),
	}

	for i := range s.users {
		s.userIdx[s.users[i].ID] = i
	}
	for i := range s.posts {
		s.postIdx[s.posts[i].ID] = i
	}

	return s
}

// FindUser returns a copy of the user with the given id, or nil.
func (s *Store) FindUser(id string) *types.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.userIdx[id]
	if !ok {
		return nil
	}
	u := copyUser(s.users[i])
	return &u
}

// FindPost returns a copy of the post with the given id, or nil.
func (s *Store) FindPost(id string) *types.Post {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.postIdx[id]
	if !ok {
		return nil
	}
	p := copyPost(s.posts[i])
	return &p
}

// CommentsForPost returns all comments on the given post in storage order.
func (s *Store) CommentsForPost(postID string) []types.Comment {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]types.Comment, 0)
	for _, c := range s.comments {
		if c.PostID == postID {
			result = append(result, c)
		}
	}
	return result
}

// PostsByAuthor returns all posts authored by the given user in storage order.
func (s *Store) PostsByAuthor(authorID string) []types.Post {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]types.Post, 0)
	for i := range s.posts {
		if s.posts[i].AuthorID == authorID {
			result = append(result, copyPost(s.posts[i]))
		}
	}
	return result
}

// AppendLike records that userID liked postID and returns the updated post.
// The append is idempotent: liking an already-liked post is a no-op. The
// write lock makes the check-then-append atomic under concurrent handlers.
func (s *Store) AppendLike(postID, userID string) (*types.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.postIdx[postID]
	if !ok {
		return nil, errors.WrapNotFound(errors.ErrPostNotFound, "Store", "AppendLike",
			"post lookup")
	}

	post := &s.posts[i]

	liked := false
	for _, id := range post.LikeUserIDs {
		if id == userID {
			liked = true
			break
		}
	}
	if !liked {
		post.LikeUserIDs = append(post.LikeUserIDs, userID)
	}

	s.logger.Debug("like recorded",
		"post_id", postID,
		"user_id", userID,
		"already_liked", liked,
		"like_count", len(post.LikeUserIDs))

	updated := copyPost(*post)
	return &updated, nil
}

// Users returns a copy of the user collection in storage order.
func (s *Store) Users() []types.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]types.User, len(s.users))
	for i := range s.users {
		result[i] = copyUser(s.users[i])
	}
	return result
}

// Posts returns a copy of the post collection in storage order.
func (s *Store) Posts() []types.Post {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]types.Post, len(s.posts))
	for i := range s.posts {
		result[i] = copyPost(s.posts[i])
	}
	return result
}

// Comments returns a copy of the comment collection in storage order.
func (s *Store) Comments() []types.Comment {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]types.Comment, len(s.comments))
	copy(result, s.comments)
	return result
}

// Counts returns collection sizes, for startup logging.
func (s *Store) Counts() (users, posts, comments int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users), len(s.posts), len(s.comments)
}

func copyUser(u types.User) types.User {
	u.FriendIDs = append([]string(nil), u.FriendIDs...)
	return u
}

func copyPost(p types.Post) types.Post {
	p.LikeUserIDs = append([]string(nil), p.LikeUserIDs...)
	return p
}
