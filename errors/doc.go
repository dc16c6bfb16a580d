// Package errors provides standardized error handling patterns for Fakebook
// components.
//
// # Overview
//
// The package implements a four-class error classification system matching
// how the server surfaces failures: Invalid (bad input or configuration),
// NotFound (entity lookup miss), Unauthorized (credential or permission
// failure), and Fatal (unrecoverable, stop processing).
//
// Classification drives surface behavior without error string matching:
// the GraphQL gateway maps classes to error codes (NOT_FOUND,
// UNAUTHENTICATED, BAD_USER_INPUT, INTERNAL_ERROR) and the REST gateway
// maps them to status codes.
//
// # Error Wrapping Pattern
//
// All error wrapping follows the standardized format:
//
//	"component.method: action failed: %w"
//
// Four wrapper functions provide classification-aware wrapping:
//
//	errors.WrapInvalid(err, "Config", "Validate", "timeout parse")
//	errors.WrapNotFound(err, "Store", "AppendLike", "post lookup")
//	errors.WrapUnauthorized(err, "Service", "Verify", "token validation")
//	errors.WrapFatal(err, "Server", "Start", "listen")
//
// # Standard Error Variables
//
// Pre-defined variables cover common conditions (ErrUserNotFound,
// ErrPostNotFound, ErrTokenInvalid, ErrTokenExpired, ErrNoToken,
// ErrMalformedHeader, ErrAnonymousCaller, ErrInvalidConfig, ...). Use these
// instead of ad hoc messages so errors.Is checks work across packages:
//
//	if errors.Is(err, errors.ErrTokenExpired) {
//	    // 401
//	}
//
// All types support the standard library's errors.Is, errors.As, and
// wrapping chains, and classification is preserved through the chain.
package errors
