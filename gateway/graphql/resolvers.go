package graphql

import (
	"context"
	"log/slog"

	"github.com/fakebook/fakebook/auth"
	"github.com/fakebook/fakebook/errors"
	"github.com/fakebook/fakebook/graph"
	"github.com/fakebook/fakebook/metric"
	"github.com/fakebook/fakebook/store"
	"github.com/fakebook/fakebook/types"
)

// NewEngine builds the engine over the relation resolver and dataset
// store, wiring every schema field to its resolver. Metrics may be nil.
func NewEngine(relations *graph.Resolver, st *store.Store, metrics *metric.Metrics, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}

	e := &Engine{
		schema: loadSchema(),
		logger: logger.With("component", "graphql-engine"),
	}

	e.fields = resolverTable{
		"Query": {
			"user": func(_ context.Context, _ any, args map[string]any) (any, error) {
				id, _ := args["id"].(string)
				u := st.FindUser(id)
				if u == nil {
					return nil, nil
				}
				return u, nil
			},
			"post": func(_ context.Context, _ any, args map[string]any) (any, error) {
				id, _ := args["id"].(string)
				p := st.FindPost(id)
				if p == nil {
					return nil, nil
				}
				return p, nil
			},
			"feedForUser": func(_ context.Context, _ any, args map[string]any) (any, error) {
				id, _ := args["id"].(string)
				return relations.FeedFor(id), nil
			},
		},

		"Mutation": {
			"likePost": func(ctx context.Context, _ any, args map[string]any) (any, error) {
				caller := auth.IdentityFrom(ctx)
				if caller.Anonymous() {
					return nil, errors.WrapUnauthorized(errors.ErrAnonymousCaller,
						"Engine", "likePost", "caller check")
				}

				postID, _ := args["postId"].(string)
				post, err := st.AppendLike(postID, caller.UserID)
				if err != nil {
					return nil, err
				}

				e.logger.Info("post liked",
					"user", caller.Name,
					"user_id", caller.UserID,
					"post_id", postID)
				if metrics != nil {
					metrics.LikesTotal.Inc()
				}
				return post, nil
			},
		},

		"User": {
			"id": func(_ context.Context, parent any, _ map[string]any) (any, error) {
				return parent.(*types.User).ID, nil
			},
			"name": func(_ context.Context, parent any, _ map[string]any) (any, error) {
				return parent.(*types.User).Name, nil
			},
			"avatar": func(_ context.Context, parent any, _ map[string]any) (any, error) {
				return parent.(*types.User).Avatar, nil
			},
			"friends": func(_ context.Context, parent any, _ map[string]any) (any, error) {
				return relations.FriendsOf(parent.(*types.User)), nil
			},
			"posts": func(_ context.Context, parent any, _ map[string]any) (any, error) {
				return relations.PostsOf(parent.(*types.User)), nil
			},
		},

		"Post": {
			"id": func(_ context.Context, parent any, _ map[string]any) (any, error) {
				return parent.(*types.Post).ID, nil
			},
			"content": func(_ context.Context, parent any, _ map[string]any) (any, error) {
				return parent.(*types.Post).Content, nil
			},
			"author": func(_ context.Context, parent any, _ map[string]any) (any, error) {
				u := relations.AuthorOf(parent.(*types.Post))
				if u == nil {
					return nil, nil
				}
				return u, nil
			},
			"likes": func(_ context.Context, parent any, _ map[string]any) (any, error) {
				return relations.LikersOf(parent.(*types.Post)), nil
			},
			"comments": func(_ context.Context, parent any, _ map[string]any) (any, error) {
				return relations.CommentsOf(parent.(*types.Post)), nil
			},
		},

		"Comment": {
			"id": func(_ context.Context, parent any, _ map[string]any) (any, error) {
				return parent.(*types.Comment).ID, nil
			},
			"text": func(_ context.Context, parent any, _ map[string]any) (any, error) {
				return parent.(*types.Comment).Text, nil
			},
			"author": func(_ context.Context, parent any, _ map[string]any) (any, error) {
				u := relations.CommentAuthor(parent.(*types.Comment))
				if u == nil {
					return nil, nil
				}
				return u, nil
			},
		},
	}

	return e
}
