// Package auth issues and verifies the signed tokens that bind a caller to
// a user identity, and provides the request-scoped gate that turns an
// Authorization header into a caller identity for both query surfaces.
package auth

import (
	stderrors "errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/fakebook/fakebook/errors"
)

// DefaultTokenTTL is the credential lifetime when none is configured.
const DefaultTokenTTL = time.Hour

// Identity is the caller identity established by verifying a credential.
// The zero value is the anonymous caller.
type Identity struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
}

// Anonymous reports whether no caller identity was established.
func (id Identity) Anonymous() bool {
	return id.UserID == ""
}

// Claims is the token payload: the user identity plus issuance and expiry.
type Claims struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	jwt.RegisteredClaims
}

// Service issues and verifies HS256-signed, time-limited tokens.
type Service struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewService creates a token service. The secret is process-wide and must
// be non-empty; ttl <= 0 falls back to DefaultTokenTTL.
func NewService(secret string, ttl time.Duration) (*Service, error) {
	if secret == "" {
		return nil, errors.WrapInvalid(errors.ErrMissingConfig, "Service", "NewService",
			"auth secret is required")
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	return &Service{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

// Issue produces a signed credential for the given user, valid for the
// configured lifetime from issuance.
func (s *Service) Issue(userID, name string) (string, error) {
	now := s.now()
	claims := Claims{
		UserID: userID,
		Name:   name,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", errors.WrapFatal(err, "Service", "Issue", "token signing")
	}
	return signed, nil
}

// Verify checks a credential's signature and expiry and returns the
// identity it binds. Failures are classified: ErrTokenExpired for a
// past-expiry token, ErrTokenInvalid for everything else (bad signature,
// tampered or garbled input). Malformed input never panics.
func (s *Service) Verify(tokenStr string) (Identity, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{},
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %q", t.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if stderrors.Is(err, jwt.ErrTokenExpired) {
			return Identity{}, errors.WrapUnauthorized(errors.ErrTokenExpired,
				"Service", "Verify", "expiry check")
		}
		return Identity{}, errors.WrapUnauthorized(errors.ErrTokenInvalid,
			"Service", "Verify", "token parse")
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.UserID == "" {
		return Identity{}, errors.WrapUnauthorized(errors.ErrTokenInvalid,
			"Service", "Verify", "claims validation")
	}

	return Identity{UserID: claims.UserID, Name: claims.Name}, nil
}
