// Package http implements the fixed-route lookup surface: login, direct
// entity lookups, and the token-protected profile route. Routes register
// on the central server's mux through the gateway.HTTPHandler interface.
package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/fakebook/fakebook/auth"
	"github.com/fakebook/fakebook/errors"
	"github.com/fakebook/fakebook/metric"
	"github.com/fakebook/fakebook/store"
	"github.com/fakebook/fakebook/types"
)

// Gateway serves the fixed lookup routes over the dataset store.
type Gateway struct {
	store   *store.Store
	tokens  *auth.Service
	gate    *auth.Gate
	metrics *metric.Metrics
	logger  *slog.Logger
}

// NewGateway creates the fixed-route gateway. Metrics may be nil.
func NewGateway(
	st *store.Store,
	tokens *auth.Service,
	gate *auth.Gate,
	metrics *metric.Metrics,
	logger *slog.Logger,
) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}

	return &Gateway{
		store:   st,
		tokens:  tokens,
		gate:    gate,
		metrics: metrics,
		logger:  logger.With("component", "rest-gateway"),
	}
}

// RegisterHTTPHandlers registers the fixed routes on the shared mux.
func (g *Gateway) RegisterHTTPHandlers(prefix string, mux *http.ServeMux) {
	if prefix == "/" {
		prefix = ""
	}

	mux.HandleFunc("POST "+prefix+"/login", g.handleLogin)
	mux.HandleFunc("GET "+prefix+"/rest/users/{id}", g.handleUser)
	mux.HandleFunc("GET "+prefix+"/rest/posts", g.handlePosts)
	mux.HandleFunc("GET "+prefix+"/rest/comments", g.handleComments)
	mux.HandleFunc("GET "+prefix+"/rest/protected-profile", g.handleProtectedProfile)
}

type loginRequest struct {
	Name string `json:"name"`
}

type loginResponse struct {
	Token string      `json:"token"`
	User  *types.User `json:"user"`
}

// handleLogin matches the submitted name as a case-insensitive prefix of
// user display names, first match in storage order wins, and issues a
// token for the matched user.
func (g *Gateway) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		g.countLogin("rejected")
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": "a non-empty name is required",
		})
		return
	}

	want := strings.ToLower(strings.TrimSpace(req.Name))
	var match *types.User
	for _, u := range g.store.Users() {
		if strings.HasPrefix(strings.ToLower(u.Name), want) {
			match = &u
			break
		}
	}

	if match == nil {
		g.countLogin("not_found")
		writeJSON(w, http.StatusNotFound, map[string]string{
			"error": "no user matches that name",
		})
		return
	}

	token, err := g.tokens.Issue(match.ID, match.Name)
	if err != nil {
		g.countLogin("error")
		g.logger.Error("token issuance failed", "user_id", match.ID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "could not issue token",
		})
		return
	}

	g.countLogin("ok")
	g.logger.Info("user logged in", "user_id", match.ID, "name", match.Name)
	writeJSON(w, http.StatusOK, loginResponse{Token: token, User: match})
}

// handleUser returns the user with the path id, or null when absent.
func (g *Gateway) handleUser(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, g.store.FindUser(r.PathValue("id")))
}

// handlePosts returns posts filtered by the authorId query parameter,
// or every post when the parameter is absent.
func (g *Gateway) handlePosts(w http.ResponseWriter, r *http.Request) {
	if authorID := r.URL.Query().Get("authorId"); authorID != "" {
		writeJSON(w, http.StatusOK, g.store.PostsByAuthor(authorID))
		return
	}
	writeJSON(w, http.StatusOK, g.store.Posts())
}

// handleComments returns comments filtered by the postId query
// parameter, or every comment when the parameter is absent.
func (g *Gateway) handleComments(w http.ResponseWriter, r *http.Request) {
	if postID := r.URL.Query().Get("postId"); postID != "" {
		writeJSON(w, http.StatusOK, g.store.CommentsForPost(postID))
		return
	}
	writeJSON(w, http.StatusOK, g.store.Comments())
}

// handleProtectedProfile requires a valid bearer token. A missing or
// malformed header is a 403; a token that fails verification is a 401.
func (g *Gateway) handleProtectedProfile(w http.ResponseWriter, r *http.Request) {
	caller, err := g.gate.Authenticate(r)
	if err != nil {
		switch {
		case errors.Is(err, errors.ErrNoToken), errors.Is(err, errors.ErrMalformedHeader):
			writeJSON(w, http.StatusForbidden, map[string]any{
				"auth":    false,
				"message": "a bearer token is required for this route",
			})
		default:
			writeJSON(w, http.StatusUnauthorized, map[string]any{
				"auth":    false,
				"message": "token is invalid or expired",
			})
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"access":  "granted",
		"message": "Welcome to the secret area, " + caller.Name + "!",
		"secret":  "GraphQL really is very efficient.",
	})
}

func (g *Gateway) countLogin(status string) {
	if g.metrics != nil {
		g.metrics.LoginsTotal.WithLabelValues(status).Inc()
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
