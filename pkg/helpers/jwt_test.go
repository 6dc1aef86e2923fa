package helpers

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTManager_RoundTrip(t *testing.T) {
	m := NewJWTManager("secret", 0)

	tok, exp, err := m.IssueSessionToken("sid-1")
	require.NoError(t, err)
	assert.True(t, exp.IsZero(), "no TTL means no expiry")

	claims, err := m.ParseSessionToken(tok)
	require.NoError(t, err)
	assert.Equal(t, "sid-1", claims.SessionID)
	assert.Nil(t, claims.ExpiresAt)
}

func TestJWTManager_WithTTL(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)

	tok, exp, err := m.IssueSessionToken("sid-2")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, 5*time.Second)

	claims, err := m.ParseSessionToken(tok)
	require.NoError(t, err)
	assert.Equal(t, "sid-2", claims.SessionID)
}

func TestJWTManager_RejectsForeignOrTamperedTokens(t *testing.T) {
	m := NewJWTManager("secret", 0)
	other := NewJWTManager("other-secret", 0)

	tok, _, err := other.IssueSessionToken("sid-3")
	require.NoError(t, err)

	_, err = m.ParseSessionToken(tok)
	assert.Error(t, err)

	good, _, err := m.IssueSessionToken("sid-3")
	require.NoError(t, err)
	_, err = m.ParseSessionToken(good + "x")
	assert.Error(t, err)

	_, err = m.ParseSessionToken("not-a-token")
	assert.Error(t, err)
}

func TestJWTManager_ExpiredToken(t *testing.T) {
	claims := &SessionClaims{
		SessionID: "sid-4",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = NewJWTManager("secret", 0).ParseSessionToken(tok)
	assert.Error(t, err)
}
