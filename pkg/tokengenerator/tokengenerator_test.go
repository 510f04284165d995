package tokengenerator

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-do-not-use"

func newTestGenerator(expiry time.Duration) *JwtTokenGenerator {
	return NewJwtTokenGenerator(testSecret, "simple-quiz", "simple-quiz", expiry)
}

func TestGenerateToken(t *testing.T) {
	g := newTestGenerator(time.Hour)

	token, expiresAt, err := g.GenerateToken("64f1c0ffee64f1c0ffee64f1", "alice")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	// Expiry lands an hour out, give or take scheduling slop.
	assert.WithinDuration(t, time.Now().UTC().Add(time.Hour), expiresAt, 5*time.Second)
}

func TestParseToken(t *testing.T) {
	g := newTestGenerator(time.Hour)

	tokenStr, _, err := g.GenerateToken("64f1c0ffee64f1c0ffee64f1", "alice")
	require.NoError(t, err)

	parsed, err := g.ParseToken(tokenStr)
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	claims, ok := parsed.Claims.(*Claims)
	require.True(t, ok)
	assert.Equal(t, "64f1c0ffee64f1c0ffee64f1", claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, "64f1c0ffee64f1c0ffee64f1", claims.Subject)
	assert.Equal(t, "simple-quiz", claims.Issuer)
	assert.NotEmpty(t, claims.ID, "token must carry a unique jti")
}

func TestParseToken_WrongSecret(t *testing.T) {
	g := newTestGenerator(time.Hour)

	tokenStr, _, err := g.GenerateToken("64f1c0ffee64f1c0ffee64f1", "alice")
	require.NoError(t, err)

	other := NewJwtTokenGenerator("a-different-secret", "simple-quiz", "simple-quiz", time.Hour)
	_, err = other.ParseToken(tokenStr)
	assert.Error(t, err)
}

func TestParseToken_Expired(t *testing.T) {
	g := newTestGenerator(-time.Minute)

	tokenStr, _, err := g.GenerateToken("64f1c0ffee64f1c0ffee64f1", "alice")
	require.NoError(t, err)

	_, err = g.ParseToken(tokenStr)
	require.Error(t, err)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestParseToken_Garbage(t *testing.T) {
	g := newTestGenerator(time.Hour)

	_, err := g.ParseToken("not.a.token")
	assert.Error(t, err)
}

func TestUniqueTokenIDs(t *testing.T) {
	g := newTestGenerator(time.Hour)

	first, _, err := g.GenerateToken("64f1c0ffee64f1c0ffee64f1", "alice")
	require.NoError(t, err)
	second, _, err := g.GenerateToken("64f1c0ffee64f1c0ffee64f1", "alice")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}
