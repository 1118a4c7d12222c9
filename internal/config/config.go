package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port            string
	Env             string
	LogLevel        slog.Level
	DatabaseDSN     string
	AutoMigrate     bool
	JWTSecret       string
	JWTExpiry       time.Duration
	ShareLinkLength int
	CORSOrigins     []string
	AuthRateRPS     float64
	AuthRateBurst   int
}

// Load reads the process configuration from the environment. It is called
// once at startup; the returned value is passed to constructors by value.
func Load() Config {
	cfg := Config{
		Port:            getEnv("PORT", "8000"),
		Env:             getEnv("ENV", "development"),
		LogLevel:        getLevel("LOG_LEVEL", slog.LevelInfo),
		DatabaseDSN:     os.Getenv("DATABASE_DSN"),
		AutoMigrate:     getBool("AUTO_MIGRATE", true),
		JWTSecret:       strings.TrimSpace(os.Getenv("JWT_SECRET")),
		JWTExpiry:       getDuration("JWT_EXPIRY", 72*time.Hour),
		ShareLinkLength: getInt("SHARE_LINK_LENGTH", 10),
		CORSOrigins:     getList("CORS_ORIGINS", []string{"*"}),
		AuthRateRPS:     getFloat("AUTH_RATE_RPS", 5),
		AuthRateBurst:   getInt("AUTH_RATE_BURST", 10),
	}

	// An empty secret has no fallback. Outside production the token
	// service runs without a key and rejects every token.
	if cfg.IsProduction() && cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET must be set in production environment")
		os.Exit(1)
	}

	return cfg
}

// IsProduction reports whether the service runs with production settings.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("invalid integer in environment, using default", "key", key, "value", v)
		return fallback
	}
	return n
}

func getFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		slog.Warn("invalid number in environment, using default", "key", key, "value", v)
		return fallback
	}
	return f
}

func getBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("invalid boolean in environment, using default", "key", key, "value", v)
		return fallback
	}
	return b
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		slog.Warn("invalid duration in environment, using default", "key", key, "value", v)
		return fallback
	}
	return d
}

func getLevel(key string, fallback slog.Level) slog.Level {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(v)); err != nil {
		slog.Warn("invalid log level in environment, using default", "key", key, "value", v)
		return fallback
	}
	return lvl
}

func getList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
