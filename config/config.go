package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	DefaultPort                   = "8080"
	DefaultAccessTokenExpiryMin   = 15
	DefaultRefreshTokenExpiryMin  = 10080
	DefaultMaxActiveRefreshTokens = 5
	DefaultLoginMaxAttempts       = 3
	DefaultLockoutWindowSeconds   = 1800
	DefaultResetTokenTTLSeconds   = 3600
	DefaultBcryptCost             = 10
)

type Config struct {
	Env                    string
	Port                   string
	DBURL                  string
	AccessTokenSecret      string
	RefreshTokenSecret     string
	AccessExpiryMin        int
	RefreshExpiryMin       int
	MaxActiveRefreshTokens int
	LoginMaxAttempts       int
	LockoutWindowSeconds   int
	ResetTokenTTLSeconds   int
	BcryptCost             int
}

// Load reads configuration from the environment, with an optional
// config/.env.<env> file as fallback for values not set in the
// environment. Required keys abort startup when missing.
func Load() *Config {
	env := getEnv("ENV", "development")
	loadEnvFile(env)

	return &Config{
		Env:                    env,
		Port:                   getEnv("PORT", DefaultPort),
		DBURL:                  mustGetEnv("DB_URL"),
		AccessTokenSecret:      mustGetEnv("ACCESS_TOKEN_SECRET"),
		RefreshTokenSecret:     mustGetEnv("REFRESH_TOKEN_SECRET"),
		AccessExpiryMin:        getEnvAsInt("ACCESS_TOKEN_EXPIRY", DefaultAccessTokenExpiryMin),
		RefreshExpiryMin:       getEnvAsInt("REFRESH_TOKEN_EXPIRY", DefaultRefreshTokenExpiryMin),
		MaxActiveRefreshTokens: getEnvAsInt("MAX_ACTIVE_REFRESH_TOKENS", DefaultMaxActiveRefreshTokens),
		LoginMaxAttempts:       getEnvAsInt("LOGIN_MAX_ATTEMPTS", DefaultLoginMaxAttempts),
		LockoutWindowSeconds:   getEnvAsInt("LOCKOUT_WINDOW_SECONDS", DefaultLockoutWindowSeconds),
		ResetTokenTTLSeconds:   getEnvAsInt("RESET_TOKEN_TTL_SECONDS", DefaultResetTokenTTLSeconds),
		BcryptCost:             getEnvAsInt("BCRYPT_COST", DefaultBcryptCost),
	}
}

// loadEnvFile populates os environ from config/.env.dev or
// config/.env.prod. Variables already set in the environment win.
func loadEnvFile(env string) {
	suffix := "dev"
	if env == "production" {
		suffix = "prod"
	}

	path := fmt.Sprintf("config/.env.%s", suffix)
	if err := godotenv.Load(path); err != nil && !os.IsNotExist(err) {
		log.Printf("could not load %s: %v", path, err)
	}
}

func getEnv(key string, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func mustGetEnv(key string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	log.Fatalf("Missing required config: %s", key)
	return ""
}

func getEnvAsInt(key string, defaultVal int) int {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		log.Printf("Invalid value for %s, using default %d", key, defaultVal)
		return defaultVal
	}
	return val
}
