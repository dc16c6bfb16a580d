package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fakebook/fakebook/errors"
)

const testSecret = "test-secret-for-fakebook"

func newTestService(t *testing.T) *Service {
	t.Helper()
	svc, err := NewService(testSecret, time.Hour)
	require.NoError(t, err)
	return svc
}

func TestNewServiceRequiresSecret(t *testing.T) {
	_, err := NewService("", time.Hour)
	require.Error(t, err)
	assert.True(t, errors.IsInvalid(err))
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	svc := newTestService(t)

	token, err := svc.Issue("u1", "Alice")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	id, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", id.UserID)
	assert.Equal(t, "Alice", id.Name)
	assert.False(t, id.Anonymous())
}

func TestVerifyExpiredToken(t *testing.T) {
	svc := newTestService(t)

	issued := time.Now()
	svc.now = func() time.Time { return issued }

	token, err := svc.Issue("u1", "Alice")
	require.NoError(t, err)

	// Valid right up to expiry.
	svc.now = func() time.Time { return issued.Add(59 * time.Minute) }
	_, err = svc.Verify(token)
	require.NoError(t, err)

	// Past expiry fails with the expiry sentinel.
	svc.now = func() time.Time { return issued.Add(61 * time.Minute) }
	_, err = svc.Verify(token)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrTokenExpired))
	assert.True(t, errors.IsUnauthorized(err))
}

func TestVerifyTamperedToken(t *testing.T) {
	svc := newTestService(t)

	token, err := svc.Issue("u1", "Alice")
	require.NoError(t, err)

	// Mutate one character of the signed string.
	mutated := []byte(token)
	i := len(mutated) - 1
	if mutated[i] == 'A' {
		mutated[i] = 'B'
	} else {
		mutated[i] = 'A'
	}

	_, err = svc.Verify(string(mutated))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrTokenInvalid))
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	svc := newTestService(t)
	other, err := NewService("a-different-secret", time.Hour)
	require.NoError(t, err)

	token, err := other.Issue("u1", "Alice")
	require.NoError(t, err)

	_, err = svc.Verify(token)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrTokenInvalid))
}

func TestVerifyMalformedInput(t *testing.T) {
	svc := newTestService(t)

	for _, input := range []string{"", "garbage", "a.b.c", "Bearer xyz"} {
		_, err := svc.Verify(input)
		require.Error(t, err, "input %q", input)
		assert.True(t, errors.Is(err, errors.ErrTokenInvalid), "input %q", input)
	}
}

func TestDefaultTTL(t *testing.T) {
	svc, err := NewService(testSecret, 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultTokenTTL, svc.ttl)
}
