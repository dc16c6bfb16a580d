package graphql

import (
	stderrors "errors"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"

	"github.com/fakebook/fakebook/errors"
)

// toGQLError converts an internal error to a GraphQL error with an
// appropriate error code, attaching the field path it occurred at.
func toGQLError(err error, path ast.Path) *gqlerror.Error {
	if err == nil {
		return nil
	}

	var gqlErr *gqlerror.Error
	if stderrors.As(err, &gqlErr) {
		if gqlErr.Path == nil {
			gqlErr.Path = path
		}
		return gqlErr
	}

	switch {
	case errors.IsUnauthorized(err):
		return &gqlerror.Error{
			Message: "not authorized: you must be logged in",
			Path:    path,
			Extensions: map[string]any{
				"code": "UNAUTHENTICATED",
			},
		}

	case errors.IsNotFound(err):
		return &gqlerror.Error{
			Message: notFoundMessage(err),
			Path:    path,
			Extensions: map[string]any{
				"code": "NOT_FOUND",
			},
		}

	case errors.IsInvalid(err):
		return &gqlerror.Error{
			Message: "invalid input: " + err.Error(),
			Path:    path,
			Extensions: map[string]any{
				"code": "BAD_USER_INPUT",
			},
		}

	default:
		return &gqlerror.Error{
			Message: "internal server error",
			Path:    path,
			Extensions: map[string]any{
				"code": "INTERNAL_ERROR",
			},
		}
	}
}

func notFoundMessage(err error) string {
	switch {
	case errors.Is(err, errors.ErrPostNotFound):
		return "post not found"
	case errors.Is(err, errors.ErrUserNotFound):
		return "user not found"
	default:
		return "not found"
	}
}
