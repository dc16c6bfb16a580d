package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/fakebook/fakebook/errors"
)

type identityKey struct{}

// WithIdentity returns a context carrying the caller identity.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFrom returns the caller identity carried by ctx, or the
// anonymous identity when none was attached.
func IdentityFrom(ctx context.Context) Identity {
	id, _ := ctx.Value(identityKey{}).(Identity)
	return id
}

// BearerToken extracts the token substring from an Authorization header in
// the form "Bearer <token>". An absent header yields ErrNoToken; a header
// with a missing scheme or empty token yields ErrMalformedHeader.
func BearerToken(header string) (string, error) {
	if header == "" {
		return "", errors.ErrNoToken
	}

	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", errors.ErrMalformedHeader
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", errors.ErrMalformedHeader
	}
	return token, nil
}

// Gate resolves an inbound request's credential into a caller identity.
//
// The two surfaces consume it differently. The graph query surface is
// uniformly forgiving: Resolve turns every verification failure into the
// anonymous identity, logging supplied-but-invalid credentials at Warn.
// The protected fixed route is uniformly strict: Authenticate returns the
// classified failure so the route can map it to 403 or 401.
type Gate struct {
	tokens *Service
	logger *slog.Logger
}

// NewGate creates a gate over the given token service.
func NewGate(tokens *Service, logger *slog.Logger) *Gate {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gate{
		tokens: tokens,
		logger: logger.With("component", "auth-gate"),
	}
}

// Resolve establishes the caller identity for the graph query surface.
// No credential means anonymous with no error; a supplied but malformed,
// invalid, or expired credential also yields anonymous, with a warning.
func (g *Gate) Resolve(r *http.Request) Identity {
	token, err := BearerToken(r.Header.Get("Authorization"))
	if err != nil {
		if !errors.Is(err, errors.ErrNoToken) {
			g.logger.Warn("malformed authorization header received", "path", r.URL.Path)
		}
		return Identity{}
	}

	id, err := g.tokens.Verify(token)
	if err != nil {
		g.logger.Warn("invalid token received", "path", r.URL.Path, "error", err)
		return Identity{}
	}
	return id
}

// Authenticate establishes the caller identity for protected fixed routes,
// returning the classified failure instead of degrading to anonymous.
func (g *Gate) Authenticate(r *http.Request) (Identity, error) {
	token, err := BearerToken(r.Header.Get("Authorization"))
	if err != nil {
		return Identity{}, err
	}
	return g.tokens.Verify(token)
}

// Middleware attaches the resolved caller identity to the request context.
// Used on the graph query path, where verification failure downgrades to
// anonymous and the mutation resolver enforces authentication itself.
func (g *Gate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := WithIdentity(r.Context(), g.Resolve(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
