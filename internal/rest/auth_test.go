package rest

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestAuthenticatorRoundTrip(t *testing.T) {
	auth := NewAuthenticator(testSecret, time.Hour, "kimlik")

	token, expiresAt, err := auth.IssueToken("admin", "acme", []string{RealmAdminRole})
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	claims, err := auth.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Subject)
	assert.Equal(t, "acme", claims.Realm)
	assert.True(t, claims.HasRole(RealmAdminRole))
	assert.False(t, claims.HasRole(ServerAdminRole))
}

func TestAuthenticatorExpired(t *testing.T) {
	auth := NewAuthenticator(testSecret, -time.Minute, "kimlik")

	token, _, err := auth.IssueToken("admin", "acme", nil)
	require.NoError(t, err)

	_, err = auth.ValidateToken(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestAuthenticatorRejectsForeignTokens(t *testing.T) {
	auth := NewAuthenticator(testSecret, time.Hour, "kimlik")

	other := NewAuthenticator("ffffffffffffffffffffffffffffffff", time.Hour, "kimlik")
	token, _, err := other.IssueToken("admin", "acme", nil)
	require.NoError(t, err)
	_, err = auth.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	wrongIssuer := NewAuthenticator(testSecret, time.Hour, "someone-else")
	token, _, err = wrongIssuer.IssueToken("admin", "acme", nil)
	require.NoError(t, err)
	_, err = auth.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{Realm: "acme"})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = auth.ValidateToken(unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = auth.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthenticatorTokenTTL(t *testing.T) {
	auth := NewAuthenticator(testSecret, time.Hour, "kimlik")
	auth.SetTokenTTL(5 * time.Minute)
	assert.Equal(t, 5*time.Minute, auth.GetTokenTTL())
}
