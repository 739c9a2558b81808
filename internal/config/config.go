package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application runtime configuration.
type Config struct {
	Env                 string
	HTTPPort            string
	DatabaseURL         string
	JWTSecret           string
	ScannerAPIKey       string
	CurrencyCode        string
	SeedManager         bool
	SeedManagerEmail    string
	SeedManagerPassword string
	AccessTokenTTL      time.Duration
	RefreshTokenTTL     time.Duration
	ReadTimeout         time.Duration
	WriteTimeout        time.Duration
	IdleTimeout         time.Duration
	ShutdownTimeout     time.Duration
}

// Load reads environment variables and .env (if present).
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Env:                 getEnv("APP_ENV", "development"),
		HTTPPort:            getEnv("HTTP_PORT", "8080"),
		DatabaseURL:         os.Getenv("DATABASE_URL"),
		JWTSecret:           os.Getenv("JWT_SECRET"),
		ScannerAPIKey:       os.Getenv("SCANNER_API_KEY"),
		CurrencyCode:        getEnv("CURRENCY_CODE", "INR"),
		SeedManager:         getBool("SEED_MANAGER", false),
		SeedManagerEmail:    getEnv("SEED_MANAGER_EMAIL", "manager@rubberops.local"),
		SeedManagerPassword: os.Getenv("SEED_MANAGER_PASSWORD"),
		AccessTokenTTL:      getDuration("ACCESS_TOKEN_TTL", 24*time.Hour),
		RefreshTokenTTL:     getDuration("REFRESH_TOKEN_TTL", 30*24*time.Hour),
		ReadTimeout:         getDuration("HTTP_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:        getDuration("HTTP_WRITE_TIMEOUT", 15*time.Second),
		IdleTimeout:         getDuration("HTTP_IDLE_TIMEOUT", 60*time.Second),
		ShutdownTimeout:     getDuration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),
	}

	if cfg.DatabaseURL == "" {
		return cfg, errors.New("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return cfg, errors.New("JWT_SECRET is required")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	return val
}

func getBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return b
}

func getDuration(key string, fallback time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		// Support seconds as integer without suffix.
		if secs, convErr := strconv.Atoi(val); convErr == nil {
			return time.Duration(secs) * time.Second
		}
		return fallback
	}
	return d
}
