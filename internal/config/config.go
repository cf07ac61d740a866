package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the Teranga API.
type Config struct {
	Server    ServerConfig
	Postgres  PostgresConfig
	MinIO     MinIOConfig
	Auth      AuthConfig
	Metrics   MetricsConfig
	Search    SearchConfig
	RateLimit RateLimitConfig
	WhatsApp  WhatsAppConfig
}

// ServerConfig parameterizes the HTTP server.
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	Environment  string
}

// Address returns the listen address in host:port form.
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// PostgresConfig contains PostgreSQL connection details.
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// DSN returns the PostgreSQL DSN string.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		p.User, p.Password, p.Host, p.Port, p.Database, p.SSLMode)
}

// MinIOConfig carries MinIO connection and bucket information for offer images.
type MinIOConfig struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	UseSSL          bool
	Region          string
	PublicBaseURL   string
}

// AuthConfig groups authentication-related settings.
type AuthConfig struct {
	AccessTokenSecret  string
	RefreshTokenSecret string
	AccessTokenTTL     time.Duration
	RefreshTokenTTL    time.Duration
	BcryptCost         int
}

// MetricsConfig groups observability settings.
type MetricsConfig struct {
	PrometheusPath string
}

// SearchConfig bounds offer listing pagination.
type SearchConfig struct {
	DefaultLimit int
	MaxLimit     int
}

// RateLimitConfig throttles the authentication endpoints per client IP.
type RateLimitConfig struct {
	AuthRPS   float64
	AuthBurst int
}

// WhatsAppConfig carries the fallback agency contact number.
type WhatsAppConfig struct {
	DefaultPhone string
}

// Load reads configuration values from environment variables, applying defaults.
// A .env file in the working directory is read first when present.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Server: ServerConfig{
			Host:         getString("TERANGA_API_HOST", "0.0.0.0"),
			Port:         getInt("TERANGA_API_PORT", 8080),
			ReadTimeout:  getDuration("TERANGA_API_READ_TIMEOUT", 15*time.Second),
			WriteTimeout: getDuration("TERANGA_API_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:  getDuration("TERANGA_API_IDLE_TIMEOUT", 60*time.Second),
			Environment:  getString("TERANGA_APP_ENV", "development"),
		},
		Postgres: PostgresConfig{
			Host:     getString("POSTGRES_HOST", "localhost"),
			Port:     getInt("POSTGRES_PORT", 5432),
			User:     getString("POSTGRES_USER", "teranga_app"),
			Password: getString("POSTGRES_PASSWORD", "change-me"),
			Database: getString("POSTGRES_DB", "teranga"),
			SSLMode:  strings.ToLower(getString("POSTGRES_SSL_MODE", "disable")),
		},
		MinIO: MinIOConfig{
			Endpoint:        getString("MINIO_ENDPOINT", "localhost:9000"),
			AccessKeyID:     getString("MINIO_ROOT_USER", "teranga"),
			SecretAccessKey: getString("MINIO_ROOT_PASSWORD", "change-me-strong-password"),
			Bucket:          getString("MINIO_BUCKET", "teranga-offers"),
			UseSSL:          getBool("MINIO_USE_SSL", false),
			Region:          getString("MINIO_REGION", ""),
			PublicBaseURL:   getString("MINIO_PUBLIC_BASE_URL", "http://localhost:9000/teranga-offers"),
		},
		Auth: loadAuthConfig(),
		Metrics: MetricsConfig{
			PrometheusPath: getString("TERANGA_METRICS_PATH", "/metrics"),
		},
		Search: SearchConfig{
			DefaultLimit: getInt("TERANGA_SEARCH_DEFAULT_LIMIT", 12),
			MaxLimit:     getInt("TERANGA_SEARCH_MAX_LIMIT", 100),
		},
		RateLimit: RateLimitConfig{
			AuthRPS:   getFloat("TERANGA_AUTH_RATE_RPS", 5),
			AuthBurst: getInt("TERANGA_AUTH_RATE_BURST", 10),
		},
		WhatsApp: WhatsAppConfig{
			DefaultPhone: getString("TERANGA_WHATSAPP_PHONE", "221761885485"),
		},
	}

	if cfg.Search.DefaultLimit < 1 {
		cfg.Search.DefaultLimit = 12
	}
	if cfg.Search.MaxLimit < cfg.Search.DefaultLimit {
		cfg.Search.MaxLimit = cfg.Search.DefaultLimit
	}

	return cfg, nil
}

func getString(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getFloat(key string, fallback float64) float64 {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseFloat(val, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if val, ok := os.LookupEnv(key); ok {
		val = strings.ToLower(strings.TrimSpace(val))
		switch val {
		case "1", "true", "t", "yes", "y":
			return true
		case "0", "false", "f", "no", "n":
			return false
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func loadAuthConfig() AuthConfig {
	cost := getInt("TERANGA_AUTH_BCRYPT_COST", 12)
	if cost < 4 || cost > 31 {
		cost = 12
	}

	return AuthConfig{
		AccessTokenSecret:  getString("TERANGA_JWT_SECRET", "change-me-to-a-32-byte-secret"),
		RefreshTokenSecret: getString("TERANGA_JWT_REFRESH_SECRET", "change-me-to-a-64-byte-secret"),
		AccessTokenTTL:     getDuration("TERANGA_AUTH_ACCESS_TOKEN_TTL", 15*time.Minute),
		RefreshTokenTTL:    getDuration("TERANGA_AUTH_REFRESH_TOKEN_TTL", 720*time.Hour),
		BcryptCost:         cost,
	}
}
