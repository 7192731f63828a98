package config

import (
	"context"
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env  string
	Port int

	DBURL string

	// Token service
	AuthSecret string
	TokenTTL   time.Duration

	// Redis (rate limiting)
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// HTTP surface
	AllowedOrigins []string
	MaxBodyBytes   int64
	RateLimit      int
	RateWindow     time.Duration

	// Observability
	OTELEndpoint string

	// Seeding
	SeedDir      string
	NegativeSeed bool
}

func Load() (Config, error) {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := Config{
		Env:            getEnv("APP_ENV", "dev"),
		Port:           getEnvInt("PORT", 3000),
		DBURL:          buildDBURL(),
		AuthSecret:     os.Getenv("AUTH_SECRET_KEY"),
		TokenTTL:       getEnvDuration("TOKEN_TTL", 2*time.Hour),
		RedisAddr:      getEnv("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		RedisDB:        getEnvInt("REDIS_DB", 0),
		AllowedOrigins: splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000")),
		MaxBodyBytes:   int64(getEnvInt("MAX_BODY_BYTES", 1<<20)),
		RateLimit:      getEnvInt("RATE_LIMIT", 20),
		RateWindow:     getEnvDuration("RATE_WINDOW", time.Minute),
		OTELEndpoint:   os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		SeedDir:        getEnv("SEED_DIR", "data"),
		NegativeSeed:   getEnv("APP_ENV", "dev") == "negative",
	}

	if cfg.AuthSecret == "" {
		return Config{}, errors.New("AUTH_SECRET_KEY must be set")
	}

	return cfg, nil
}

func buildDBURL() string {
	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "bookings")
	pass := getEnv("DB_PASSWORD", "bookings")
	name := getEnv("DB_NAME", "bookings")
	ssl := getEnv("DB_SSLMODE", "disable")

	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=" + ssl
}

func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		num, err := strconv.Atoi(v)

		if err == nil {
			return num
		}
	}

	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)

		if err == nil {
			return d
		}
	}

	return fallback
}

func splitCSV(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))

	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}

	return out
}
