// Package config centralizes environment-driven configuration so main stays
// lean.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr          string
	JWTSigningKey string
	AdminToken    string
}

// Postgres captures the relational store configuration. An empty URL means
// the in-memory stores are used instead.
type Postgres struct {
	URL string
}

// RedisConfig captures the analysis cache configuration. An empty URL
// disables caching.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	CacheTTL     time.Duration
}

// Kafka captures the domain event publishing configuration. Empty brokers
// disable publishing.
type Kafka struct {
	Brokers []string
	Topic   string
}

// Generation captures the completion API configuration. An empty URL
// disables the drafting endpoint.
type Generation struct {
	URL    string
	Model  string
	APIKey string
}

// Config is the full service configuration.
type Config struct {
	Server     Server
	Postgres   Postgres
	Redis      RedisConfig
	Kafka      Kafka
	Generation Generation
}

// FromEnv builds the configuration from environment variables, applying
// development defaults where unset.
func FromEnv() Config {
	return Config{
		Server: Server{
			Addr: envOr("REQFORGE_ADDR", ":8080"),
			// Development default - must be overridden in production.
			JWTSigningKey: envOr("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
			AdminToken:    os.Getenv("REQFORGE_ADMIN_TOKEN"),
		},
		Postgres: Postgres{
			URL: os.Getenv("REQFORGE_POSTGRES_URL"),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REQFORGE_REDIS_URL"),
			PoolSize:     envInt("REQFORGE_REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REQFORGE_REDIS_MIN_IDLE", 2),
			DialTimeout:  5 * time.Second,
			ReadTimeout:  3 * time.Second,
			WriteTimeout: 3 * time.Second,
			CacheTTL:     envDuration("REQFORGE_ANALYSIS_CACHE_TTL", 10*time.Minute),
		},
		Kafka: Kafka{
			Brokers: splitNonEmpty(os.Getenv("REQFORGE_KAFKA_BROKERS")),
			Topic:   envOr("REQFORGE_KAFKA_TOPIC", "reqforge.events"),
		},
		Generation: Generation{
			URL:    os.Getenv("REQFORGE_COMPLETION_URL"),
			Model:  envOr("REQFORGE_COMPLETION_MODEL", "gpt-4o-mini"),
			APIKey: os.Getenv("REQFORGE_COMPLETION_API_KEY"),
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func splitNonEmpty(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
