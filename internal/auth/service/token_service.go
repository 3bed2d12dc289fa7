package service

//go:generate mockgen -destination=../../mocks/mock_token_generator.go -package=mocks github.com/patrick-etcheverry/tuto-authentification/internal/auth/service TokenGenerator

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenGenerator mints and verifies the access/refresh pair handed out
// on login. Refresh tokens are only ever honored through the store, so
// verification here covers access tokens alone.
type TokenGenerator interface {
	Generate(userID, email, role string) (accessToken, refreshToken string, refreshExpiresAt time.Time, err error)
	GetAccessTokenExpiry() time.Duration
	GetRefreshTokenExpiry() time.Duration
	VerifyAccessToken(tokenString string) (*JWTCustomClaims, error)
}

// JWTCustomClaims is the access-token payload: the identity plus the
// role the middleware gates on.
type JWTCustomClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
	Email  string `json:"email,omitempty"`
	Role   string `json:"role,omitempty"`
}

type TokenService struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewTokenService(accessSecret, refreshSecret string, accessMinutes, refreshMinutes int) *TokenService {
	return &TokenService{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     time.Duration(accessMinutes) * time.Minute,
		refreshTTL:    time.Duration(refreshMinutes) * time.Minute,
	}
}

// Generate signs a fresh access/refresh pair. The refresh token
// carries only the user id: its claims are never trusted directly,
// the stored row is.
func (ts *TokenService) Generate(userID, email, role string) (string, string, time.Time, error) {
	now := time.Now()
	refreshExpiresAt := now.Add(ts.refreshTTL)

	accessToken, err := sign(JWTCustomClaims{
		UserID:           userID,
		Email:            email,
		Role:             role,
		RegisteredClaims: lifetime(now, ts.accessTTL),
	}, ts.accessSecret)
	if err != nil {
		return "", "", time.Time{}, fmt.Errorf("sign access token: %w", err)
	}

	refreshToken, err := sign(JWTCustomClaims{
		UserID:           userID,
		RegisteredClaims: lifetime(now, ts.refreshTTL),
	}, ts.refreshSecret)
	if err != nil {
		return "", "", time.Time{}, fmt.Errorf("sign refresh token: %w", err)
	}

	return accessToken, refreshToken, refreshExpiresAt, nil
}

func (ts *TokenService) GetAccessTokenExpiry() time.Duration  { return ts.accessTTL }
func (ts *TokenService) GetRefreshTokenExpiry() time.Duration { return ts.refreshTTL }

var errUnexpectedSigningMethod = errors.New("unexpected signing method")

// VerifyAccessToken parses and validates an access token, pinning the
// algorithm to HMAC before the secret is released to the parser.
func (ts *TokenService) VerifyAccessToken(tokenString string) (*JWTCustomClaims, error) {
	claims := &JWTCustomClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("%w: %v", errUnexpectedSigningMethod, t.Header["alg"])
		}
		return ts.accessSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse access token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("invalid access token")
	}

	return claims, nil
}

func lifetime(now time.Time, ttl time.Duration) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
}

func sign(claims JWTCustomClaims, secret []byte) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}
