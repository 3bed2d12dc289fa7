package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_EnvironmentOverridesAndDefaults(t *testing.T) {
	t.Setenv("DB_URL", "postgres://localhost:5432/auth_test")
	t.Setenv("ACCESS_TOKEN_SECRET", "access-secret")
	t.Setenv("REFRESH_TOKEN_SECRET", "refresh-secret")
	t.Setenv("PORT", "9090")
	t.Setenv("LOGIN_MAX_ATTEMPTS", "5")
	t.Setenv("LOCKOUT_WINDOW_SECONDS", "600")

	cfg := Load()

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "postgres://localhost:5432/auth_test", cfg.DBURL)
	assert.Equal(t, "access-secret", cfg.AccessTokenSecret)
	assert.Equal(t, "refresh-secret", cfg.RefreshTokenSecret)

	// Overridden via environment.
	assert.Equal(t, 5, cfg.LoginMaxAttempts)
	assert.Equal(t, 600, cfg.LockoutWindowSeconds)

	// Untouched keys fall back to defaults.
	assert.Equal(t, DefaultAccessTokenExpiryMin, cfg.AccessExpiryMin)
	assert.Equal(t, DefaultRefreshTokenExpiryMin, cfg.RefreshExpiryMin)
	assert.Equal(t, DefaultMaxActiveRefreshTokens, cfg.MaxActiveRefreshTokens)
	assert.Equal(t, DefaultResetTokenTTLSeconds, cfg.ResetTokenTTLSeconds)
	assert.Equal(t, DefaultBcryptCost, cfg.BcryptCost)
}

func TestGetEnv(t *testing.T) {
	t.Setenv("SOME_KEY", "some-value")

	assert.Equal(t, "some-value", getEnv("SOME_KEY", "fallback"))
	assert.Equal(t, "fallback", getEnv("UNSET_KEY", "fallback"))
}

func TestGetEnvAsInt(t *testing.T) {
	t.Setenv("INT_KEY", "42")
	t.Setenv("BAD_INT_KEY", "not-a-number")

	assert.Equal(t, 42, getEnvAsInt("INT_KEY", 7))
	assert.Equal(t, 7, getEnvAsInt("UNSET_INT_KEY", 7))

	// Unparseable values fall back rather than abort.
	assert.Equal(t, 7, getEnvAsInt("BAD_INT_KEY", 7))
}
