// Package graphql implements the graph query engine: a schema-driven
// endpoint that parses declarative field-selection requests, dispatches
// each field through an explicit resolver table, and assembles a nested
// result mirroring the requested shape.
package graphql

import (
	"context"
	stderrors "errors"
	"log/slog"

	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/gqlerror"
	"github.com/vektah/gqlparser/v2/validator"

	"github.com/fakebook/fakebook/types"
)

// Request is an inbound graph query document.
type Request struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName,omitempty"`
	Variables     map[string]any `json:"variables,omitempty"`
}

// Response is the execution result. Data mirrors the requested field shape;
// Errors carries field-level failures without aborting sibling fields.
type Response struct {
	Data   map[string]any `json:"data"`
	Errors gqlerror.List  `json:"errors,omitempty"`
}

// fieldFunc resolves one field on a typed parent value. The parent is nil
// for root fields; args are the coerced field arguments.
type fieldFunc func(ctx context.Context, parent any, args map[string]any) (any, error)

// resolverTable maps (type name, field name) to the resolver for that
// field. Execution walks the requested field tree and invokes only the
// named resolvers; there is no reflection-based field enumeration.
type resolverTable map[string]map[string]fieldFunc

// Engine executes graph query documents against the schema.
type Engine struct {
	schema *ast.Schema
	fields resolverTable
	logger *slog.Logger
}

// Execute parses, validates, and resolves one request. Parse and
// validation failures produce a request-level error response; resolution
// failures are attached per field and leave sibling fields intact.
func (e *Engine) Execute(ctx context.Context, req *Request) *Response {
	doc, listErr := gqlparser.LoadQuery(e.schema, req.Query)
	if len(listErr) != 0 {
		return &Response{Errors: listErr}
	}

	op := doc.Operations.ForName(req.OperationName)
	if op == nil {
		return &Response{Errors: gqlerror.List{
			gqlerror.Errorf("operation %q not found in request", req.OperationName),
		}}
	}

	if op.Operation == ast.Subscription {
		return &Response{Errors: gqlerror.List{
			gqlerror.Errorf("subscriptions are not supported"),
		}}
	}

	vars, err := validator.VariableValues(e.schema, op, req.Variables)
	if err != nil {
		return &Response{Errors: gqlerror.List{asGQLError(err)}}
	}

	rootType := "Query"
	if op.Operation == ast.Mutation {
		rootType = "Mutation"
	}

	data, errs := e.resolveSet(ctx, rootType, nil, op.SelectionSet, vars, nil)
	return &Response{Data: data, Errors: errs}
}

// resolveSet resolves one selection set against a parent value, depth
// first. Each field resolves independently; a failing field yields null
// plus an error entry and its siblings still resolve.
func (e *Engine) resolveSet(
	ctx context.Context,
	typeName string,
	parent any,
	sel ast.SelectionSet,
	vars map[string]any,
	path ast.Path,
) (map[string]any, gqlerror.List) {
	result := make(map[string]any, len(sel))
	var errs gqlerror.List

	for _, selection := range sel {
		switch s := selection.(type) {
		case *ast.Field:
			value, fieldErrs := e.resolveField(ctx, typeName, parent, s, vars, path)
			result[s.Alias] = value
			errs = append(errs, fieldErrs...)

		case *ast.FragmentSpread:
			merged, fragErrs := e.resolveSet(ctx, typeName, parent,
				s.Definition.SelectionSet, vars, path)
			for k, v := range merged {
				result[k] = v
			}
			errs = append(errs, fragErrs...)

		case *ast.InlineFragment:
			merged, fragErrs := e.resolveSet(ctx, typeName, parent,
				s.SelectionSet, vars, path)
			for k, v := range merged {
				result[k] = v
			}
			errs = append(errs, fragErrs...)
		}
	}

	return result, errs
}

// resolveField dispatches one field through the resolver table and
// completes the value against the field's selection set.
func (e *Engine) resolveField(
	ctx context.Context,
	typeName string,
	parent any,
	field *ast.Field,
	vars map[string]any,
	path ast.Path,
) (any, gqlerror.List) {
	fieldPath := append(append(ast.Path{}, path...), ast.PathName(field.Alias))

	if field.Name == "__typename" {
		return typeName, nil
	}

	fn := e.fields[typeName][field.Name]
	if fn == nil {
		// Validation guarantees known fields; reaching here means the
		// resolver table is out of sync with the schema.
		return nil, gqlerror.List{&gqlerror.Error{
			Message: "no resolver registered for " + typeName + "." + field.Name,
			Path:    fieldPath,
			Extensions: map[string]any{
				"code": "INTERNAL_ERROR",
			},
		}}
	}

	value, err := fn(ctx, parent, field.ArgumentMap(vars))
	if err != nil {
		e.logger.Warn("field resolution failed",
			"type", typeName,
			"field", field.Name,
			"error", err)
		return nil, gqlerror.List{toGQLError(err, fieldPath)}
	}

	if len(field.SelectionSet) == 0 {
		return value, nil
	}
	return e.completeValue(ctx, value, field.SelectionSet, vars, fieldPath)
}

// completeValue recurses into relational values. The entity set is closed,
// so completion switches on the concrete types the resolvers return.
func (e *Engine) completeValue(
	ctx context.Context,
	value any,
	sel ast.SelectionSet,
	vars map[string]any,
	path ast.Path,
) (any, gqlerror.List) {
	switch v := value.(type) {
	case nil:
		return nil, nil

	case *types.User:
		return e.resolveSet(ctx, "User", v, sel, vars, path)
	case *types.Post:
		return e.resolveSet(ctx, "Post", v, sel, vars, path)
	case *types.Comment:
		return e.resolveSet(ctx, "Comment", v, sel, vars, path)

	case []types.User:
		list := make([]any, len(v))
		var errs gqlerror.List
		for i := range v {
			itemPath := append(append(ast.Path{}, path...), ast.PathIndex(i))
			item, itemErrs := e.resolveSet(ctx, "User", &v[i], sel, vars, itemPath)
			list[i] = item
			errs = append(errs, itemErrs...)
		}
		return list, errs

	case []types.Post:
		list := make([]any, len(v))
		var errs gqlerror.List
		for i := range v {
			itemPath := append(append(ast.Path{}, path...), ast.PathIndex(i))
			item, itemErrs := e.resolveSet(ctx, "Post", &v[i], sel, vars, itemPath)
			list[i] = item
			errs = append(errs, itemErrs...)
		}
		return list, errs

	case []types.Comment:
		list := make([]any, len(v))
		var errs gqlerror.List
		for i := range v {
			itemPath := append(append(ast.Path{}, path...), ast.PathIndex(i))
			item, itemErrs := e.resolveSet(ctx, "Comment", &v[i], sel, vars, itemPath)
			list[i] = item
			errs = append(errs, itemErrs...)
		}
		return list, errs

	default:
		return nil, gqlerror.List{&gqlerror.Error{
			Message: "unresolvable value for selection",
			Path:    path,
			Extensions: map[string]any{
				"code": "INTERNAL_ERROR",
			},
		}}
	}
}

// asGQLError returns err as a *gqlerror.Error, wrapping when needed.
func asGQLError(err error) *gqlerror.Error {
	var gqlErr *gqlerror.Error
	if stderrors.As(err, &gqlErr) {
		return gqlErr
	}
	return &gqlerror.Error{Message: err.Error()}
}
