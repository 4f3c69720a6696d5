package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenService_IssueAndParse(t *testing.T) {
	ts := NewTokenService("test-secret", time.Hour)

	tok, err := ts.Issue(42, "d@d.com")
	require.NoError(t, err)

	claims, err := ts.Parse(tok)
	require.NoError(t, err)
	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
	assert.Equal(t, "d@d.com", claims.Email)
	assert.NotEmpty(t, claims.ID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestTokenService_UniqueJTI(t *testing.T) {
	ts := NewTokenService("test-secret", time.Hour)
	a, err := ts.Issue(1, "a@a.com")
	require.NoError(t, err)
	b, err := ts.Issue(1, "a@a.com")
	require.NoError(t, err)

	ca, err := ts.Parse(a)
	require.NoError(t, err)
	cb, err := ts.Parse(b)
	require.NoError(t, err)
	assert.NotEqual(t, ca.ID, cb.ID)
}

func TestTokenService_RejectsWrongSecret(t *testing.T) {
	tok, err := NewTokenService("one", time.Hour).Issue(1, "a@a.com")
	require.NoError(t, err)

	_, err = NewTokenService("two", time.Hour).Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_RejectsExpired(t *testing.T) {
	ts := NewTokenService("s", time.Minute)
	ts.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	tok, err := ts.Issue(1, "a@a.com")
	require.NoError(t, err)

	ts.now = time.Now
	_, err = ts.Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestTokenService_RejectsOtherAlgorithm(t *testing.T) {
	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "1", "jti": "x"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewTokenService("s", time.Hour).Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestBcryptHasher(t *testing.T) {
	h := NewBcryptHasher(4)
	hash, err := h.Hash("erikdavid")
	require.NoError(t, err)
	assert.NotEqual(t, "erikdavid", hash)
	assert.True(t, h.Compare(hash, "erikdavid"))
	assert.False(t, h.Compare(hash, "wrong-password"))
	assert.False(t, h.Compare("not-a-hash", "erikdavid"))
}

func TestNewBcryptHasher_FallsBackToDefaultCost(t *testing.T) {
	assert.Equal(t, 10, NewBcryptHasher(0).Cost)
	assert.Equal(t, 10, NewBcryptHasher(99).Cost)
}
