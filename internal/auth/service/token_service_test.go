package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTokenService(t *testing.T) {
	ts := NewTokenService("access-secret", "refresh-secret", 15, 10080)

	assert.Equal(t, 15*time.Minute, ts.GetAccessTokenExpiry())
	assert.Equal(t, 10080*time.Minute, ts.GetRefreshTokenExpiry())
}

func TestTokenService_GenerateAndVerify(t *testing.T) {
	ts := NewTokenService("access-secret", "refresh-secret", 15, 10080)

	accessToken, refreshToken, expiresAt, err := ts.Generate("user-id", "a@x.com", "admin")
	require.NoError(t, err)
	assert.NotEmpty(t, accessToken)
	assert.NotEmpty(t, refreshToken)
	assert.NotEqual(t, accessToken, refreshToken)
	assert.WithinDuration(t, time.Now().Add(ts.GetRefreshTokenExpiry()), expiresAt, 5*time.Second)

	claims, err := ts.VerifyAccessToken(accessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-id", claims.UserID)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.Equal(t, "admin", claims.Role)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(ts.GetAccessTokenExpiry()), claims.ExpiresAt.Time, 5*time.Second)
}

func TestTokenService_RefreshTokenCarriesNoRole(t *testing.T) {
	ts := NewTokenService("access-secret", "refresh-secret", 15, 10080)

	_, refreshToken, _, err := ts.Generate("user-id", "a@x.com", "admin")
	require.NoError(t, err)

	// Refresh claims are never trusted directly; they carry only the
	// user id.
	claims := &JWTCustomClaims{}
	_, err = jwt.ParseWithClaims(refreshToken, claims, func(*jwt.Token) (interface{}, error) {
		return ts.refreshSecret, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "user-id", claims.UserID)
	assert.Empty(t, claims.Email)
	assert.Empty(t, claims.Role)
}

func TestTokenService_VerifyAccessToken_WrongSecret(t *testing.T) {
	ts := NewTokenService("access-secret", "refresh-secret", 15, 10080)
	other := NewTokenService("different-secret", "refresh-secret", 15, 10080)

	accessToken, _, _, err := ts.Generate("user-id", "a@x.com", "user")
	require.NoError(t, err)

	_, err = other.VerifyAccessToken(accessToken)
	assert.Error(t, err)
}

func TestTokenService_VerifyAccessToken_RejectsRefreshSigned(t *testing.T) {
	ts := NewTokenService("access-secret", "refresh-secret", 15, 10080)

	// A refresh token is signed with the refresh secret and must not
	// pass access verification.
	_, refreshToken, _, err := ts.Generate("user-id", "a@x.com", "user")
	require.NoError(t, err)

	_, err = ts.VerifyAccessToken(refreshToken)
	assert.Error(t, err)
}

func TestTokenService_VerifyAccessToken_RejectsUnexpectedAlg(t *testing.T) {
	ts := NewTokenService("access-secret", "refresh-secret", 15, 10080)

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, JWTCustomClaims{UserID: "user-id"})
	tokenString, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ts.VerifyAccessToken(tokenString)
	require.Error(t, err)
	assert.ErrorIs(t, err, errUnexpectedSigningMethod)
}

func TestTokenService_VerifyAccessToken_Expired(t *testing.T) {
	ts := NewTokenService("access-secret", "refresh-secret", -1, 10080)

	accessToken, _, _, err := ts.Generate("user-id", "a@x.com", "user")
	require.NoError(t, err)

	_, err = ts.VerifyAccessToken(accessToken)
	assert.Error(t, err)
}
