package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fakebook/fakebook/errors"
)

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr error
	}{
		{"absent header", "", "", errors.ErrNoToken},
		{"valid bearer", "Bearer abc.def.ghi", "abc.def.ghi", nil},
		{"lowercase scheme", "bearer abc", "abc", nil},
		{"missing scheme", "abc.def.ghi", "", errors.ErrMalformedHeader},
		{"wrong scheme", "Basic abc", "", errors.ErrMalformedHeader},
		{"empty token", "Bearer ", "", errors.ErrMalformedHeader},
		{"scheme only", "Bearer", "", errors.ErrMalformedHeader},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := BearerToken(tt.header)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, token)
		})
	}
}

func newTestGate(t *testing.T) (*Gate, *Service) {
	t.Helper()
	svc, err := NewService(testSecret, time.Hour)
	require.NoError(t, err)
	return NewGate(svc, nil), svc
}

func requestWithAuth(header string) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/graphql", nil)
	if header != "" {
		r.Header.Set("Authorization", header)
	}
	return r
}

func TestResolveValidToken(t *testing.T) {
	gate, svc := newTestGate(t)

	token, err := svc.Issue("u1", "Alice")
	require.NoError(t, err)

	id := gate.Resolve(requestWithAuth("Bearer " + token))
	assert.Equal(t, "u1", id.UserID)
	assert.Equal(t, "Alice", id.Name)
}

func TestResolveDowngradesToAnonymous(t *testing.T) {
	gate, _ := newTestGate(t)

	// No header, malformed header, and garbage token all resolve to the
	// anonymous identity on the graph query path.
	for _, header := range []string{"", "garbage", "Bearer garbage"} {
		id := gate.Resolve(requestWithAuth(header))
		assert.True(t, id.Anonymous(), "header %q", header)
	}
}

func TestAuthenticateClassifiesFailures(t *testing.T) {
	gate, svc := newTestGate(t)

	_, err := gate.Authenticate(requestWithAuth(""))
	assert.True(t, errors.Is(err, errors.ErrNoToken))

	_, err = gate.Authenticate(requestWithAuth("not-a-bearer-header"))
	assert.True(t, errors.Is(err, errors.ErrMalformedHeader))

	_, err = gate.Authenticate(requestWithAuth("Bearer garbage"))
	assert.True(t, errors.Is(err, errors.ErrTokenInvalid))

	token, err := svc.Issue("u1", "Alice")
	require.NoError(t, err)
	id, err := gate.Authenticate(requestWithAuth("Bearer " + token))
	require.NoError(t, err)
	assert.Equal(t, "Alice", id.Name)
}

func TestMiddlewareAttachesIdentity(t *testing.T) {
	gate, svc := newTestGate(t)

	token, err := svc.Issue("u1", "Alice")
	require.NoError(t, err)

	var got Identity
	handler := gate.Middleware(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got = IdentityFrom(r.Context())
	}))

	handler.ServeHTTP(httptest.NewRecorder(), requestWithAuth("Bearer "+token))
	assert.Equal(t, "u1", got.UserID)

	handler.ServeHTTP(httptest.NewRecorder(), requestWithAuth(""))
	assert.True(t, got.Anonymous())
}

func TestIdentityFromEmptyContext(t *testing.T) {
	assert.True(t, IdentityFrom(context.Background()).Anonymous())
}
