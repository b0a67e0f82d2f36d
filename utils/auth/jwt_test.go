package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testManager(expiry time.Duration) *JWTManager {
	return NewJWTManager(JWTConfig{
		Secret:        "test-secret",
		Expiry:        expiry,
		RefreshExpiry: 24 * time.Hour,
		Issuer:        "test",
	})
}

func TestAccessTokenRoundTrip(t *testing.T) {
	m := testManager(time.Hour)

	token, jti, err := m.GenerateAccessToken(7, "a@example.com", []string{"STUDENT"}, 3)
	require.NoError(t, err)
	require.NotEmpty(t, jti)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	require.EqualValues(t, 7, claims.UserID)
	require.Equal(t, "a@example.com", claims.Email)
	require.Equal(t, []string{"STUDENT"}, claims.Roles)
	require.Equal(t, "access", claims.TokenType)
	require.Equal(t, 3, claims.TokenVersion)
	require.Equal(t, jti, claims.ID)
}

func TestExpiredTokenRejected(t *testing.T) {
	m := testManager(-time.Minute)

	token, _, err := m.GenerateAccessToken(7, "a@example.com", nil, 0)
	require.NoError(t, err)

	_, err = m.ValidateToken(token)
	require.ErrorIs(t, err, ErrExpiredToken)
}

func TestTokenFromOtherSecretRejected(t *testing.T) {
	m := testManager(time.Hour)
	other := NewJWTManager(JWTConfig{Secret: "other-secret", Expiry: time.Hour, RefreshExpiry: time.Hour, Issuer: "test"})

	token, _, err := other.GenerateAccessToken(7, "a@example.com", nil, 0)
	require.NoError(t, err)

	_, err = m.ValidateToken(token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshAccessToken(t *testing.T) {
	m := testManager(time.Hour)

	refresh, _, err := m.GenerateRefreshToken(7, "a@example.com", []string{"CREATOR"}, 1)
	require.NoError(t, err)

	access, _, err := m.RefreshAccessToken(refresh, 1)
	require.NoError(t, err)

	claims, err := m.ValidateToken(access)
	require.NoError(t, err)
	require.Equal(t, "access", claims.TokenType)
	require.Equal(t, []string{"CREATOR"}, claims.Roles)

	// An access token cannot be used as a refresh token.
	_, _, err = m.RefreshAccessToken(access, 1)
	require.ErrorIs(t, err, ErrInvalidToken)
}
