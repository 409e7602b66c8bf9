package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIssuer() *TokenIssuer {
	return NewTokenIssuer("access-secret", "refresh-secret", 15*time.Minute, 720*time.Hour)
}

func TestIssueAndVerify(t *testing.T) {
	issuer := newTestIssuer()

	access, err := issuer.IssueAccess("user-1")
	require.NoError(t, err)
	refresh, err := issuer.IssueRefresh("user-1")
	require.NoError(t, err)

	uid, err := issuer.Verify(access, AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", uid)

	uid, err = issuer.Verify(refresh, RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", uid)
}

func TestKindSeparation(t *testing.T) {
	issuer := newTestIssuer()

	access, err := issuer.IssueAccess("user-1")
	require.NoError(t, err)
	refresh, err := issuer.IssueRefresh("user-1")
	require.NoError(t, err)

	// An access token must never verify as a refresh token, or vice versa.
	_, err = issuer.Verify(access, RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = issuer.Verify(refresh, AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyExpired(t *testing.T) {
	issuer := NewTokenIssuer("access-secret", "refresh-secret", -time.Minute, -time.Minute)

	access, err := issuer.IssueAccess("user-1")
	require.NoError(t, err)

	_, err = issuer.Verify(access, AccessToken)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerifyGarbage(t *testing.T) {
	issuer := newTestIssuer()

	for _, tok := range []string{"", "garbage", "a.b.c"} {
		_, err := issuer.Verify(tok, AccessToken)
		assert.ErrorIs(t, err, ErrInvalidToken)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	issuer := newTestIssuer()
	other := NewTokenIssuer("different-secret", "refresh-secret", 15*time.Minute, 720*time.Hour)

	access, err := issuer.IssueAccess("user-1")
	require.NoError(t, err)

	_, err = other.Verify(access, AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestConsecutiveRefreshTokensDiffer(t *testing.T) {
	issuer := newTestIssuer()

	r1, err := issuer.IssueRefresh("user-1")
	require.NoError(t, err)
	r2, err := issuer.IssueRefresh("user-1")
	require.NoError(t, err)

	assert.NotEqual(t, r1, r2)
}
