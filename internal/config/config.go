package config

import (
	"encoding/base64"
	"log/slog"
	"os"
	"strconv"
	"time"
)

// devSecret is the base64-encoded fallback signing key for local development.
const devSecret = "ZGV2LXNlY3JldC1jaGFuZ2UtaW4tcHJvZHVjdGlvbi1kZXYtc2VjcmV0LWNoYW5nZS1pbi1wcm9kdWN0aW9u"

type Config struct {
	Port            string
	Env             string
	DatabaseDSN     string
	JWTSecret       []byte
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

func Load() Config {
	rawSecret := getEnv("JWT_SECRET", devSecret)

	cfg := Config{
		Port:            getEnv("PORT", "8080"),
		Env:             getEnv("ENV", "development"),
		DatabaseDSN:     getEnv("DATABASE_DSN", "root:password@tcp(127.0.0.1:3306)/recipebook?parseTime=true"),
		AccessTokenTTL:  getEnvSeconds("ACCESS_TOKEN_TTL_SECONDS", 120),
		RefreshTokenTTL: getEnvSeconds("REFRESH_TOKEN_TTL_SECONDS", 3600),
	}

	if cfg.Env == "production" && rawSecret == devSecret {
		slog.Error("JWT_SECRET must be set in production environment")
		os.Exit(1)
	}

	secret, err := base64.StdEncoding.DecodeString(rawSecret)
	if err != nil {
		slog.Error("JWT_SECRET must be valid base64", "error", err)
		os.Exit(1)
	}
	cfg.JWTSecret = secret

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvSeconds(key string, fallback int) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n) * time.Second
		}
		slog.Warn("ignoring invalid duration value", "key", key, "value", v)
	}
	return time.Duration(fallback) * time.Second
}
