// Package graph computes relation fields of the social graph by scanning
// the dataset store. Every function is stateless and side-effect free, and
// returns results in the stable storage order of the underlying collection.
//
// The functions stay null/empty-safe when the dataset violates its own
// assumptions: dangling friend ids, author ids, or post ids degrade to
// empty results, never errors.
package graph

import (
	"github.com/fakebook/fakebook/store"
	"github.com/fakebook/fakebook/types"
)

// Resolver answers relation queries over one dataset store.
type Resolver struct {
	store *store.Store
}

// NewResolver creates a relation resolver over the given store.
func NewResolver(s *store.Store) *Resolver {
	return &Resolver{store: s}
}

// FriendsOf returns the users listed in u's friend ids, in storage order.
func (r *Resolver) FriendsOf(u *types.User) []types.User {
	if u == nil {
		return []types.User{}
	}

	ids := idSet(u.FriendIDs)
	result := make([]types.User, 0, len(u.FriendIDs))
	for _, candidate := range r.store.Users() {
		if _, ok := ids[candidate.ID]; ok {
			result = append(result, candidate)
		}
	}
	return result
}

// PostsOf returns the posts authored by u, in storage order.
func (r *Resolver) PostsOf(u *types.User) []types.Post {
	if u == nil {
		return []types.Post{}
	}
	return r.store.PostsByAuthor(u.ID)
}

// AuthorOf returns the author of p, or nil if the author id does not resolve.
func (r *Resolver) AuthorOf(p *types.Post) *types.User {
	if p == nil {
		return nil
	}
	return r.store.FindUser(p.AuthorID)
}

// LikersOf returns the users who liked p, in storage order.
func (r *Resolver) LikersOf(p *types.Post) []types.User {
	if p == nil {
		return []types.User{}
	}

	ids := idSet(p.LikeUserIDs)
	result := make([]types.User, 0, len(p.LikeUserIDs))
	for _, candidate := range r.store.Users() {
		if _, ok := ids[candidate.ID]; ok {
			result = append(result, candidate)
		}
	}
	return result
}

// CommentsOf returns the comments on p, in storage order.
func (r *Resolver) CommentsOf(p *types.Post) []types.Comment {
	if p == nil {
		return []types.Comment{}
	}
	return r.store.CommentsForPost(p.ID)
}

// CommentAuthor resolves a comment's author by its own author id.
func (r *Resolver) CommentAuthor(c *types.Comment) *types.User {
	if c == nil {
		return nil
	}
	return r.store.FindUser(c.AuthorID)
}

// FeedFor returns every post authored by one of the user's listed friends,
// in storage order. The friend list is directional: this is the content of
// users the given user follows, not a symmetric friend set. An unknown user
// id yields an empty feed, never an error.
func (r *Resolver) FeedFor(userID string) []types.Post {
	u := r.store.FindUser(userID)
	if u == nil {
		return []types.Post{}
	}

	ids := idSet(u.FriendIDs)
	result := make([]types.Post, 0)
	for _, p := range r.store.Posts() {
		if _, ok := ids[p.AuthorID]; ok {
			result = append(result, p)
		}
	}
	return result
}

func idSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
