// Package types defines the social-graph entity types shared across
// Fakebook packages, plus the on-disk dataset format loaded at startup.
package types

// User is a member of the social graph. FriendIDs is directional as stored:
// the listed users are this user's friends, with no symmetry guarantee.
type User struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Avatar    string   `json:"avatar,omitempty"`
	FriendIDs []string `json:"friendIds"`
}

// Post is a piece of content authored by a user. LikeUserIDs never contains
// the same user id twice; the store enforces that at the mutation site.
type Post struct {
	ID          string   `json:"id"`
	Content     string   `json:"content"`
	AuthorID    string   `json:"authorId"`
	LikeUserIDs []string `json:"likeUserIds"`
}

// Comment is a reply attached to a post.
type Comment struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	PostID   string `json:"postId"`
	AuthorID string `json:"authorId"`
}

// Dataset is the shape of the JSON seed file loaded once at startup.
type Dataset struct {
	Users    []User    `json:"users"`
	Posts    []Post    `json:"posts"`
	Comments []Comment `json:"comments"`
}
