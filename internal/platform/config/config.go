// Package config centralizes environment-driven configuration so main stays lean.
//
// Values come from the process environment; cmd binaries load a local .env
// first via godotenv so development mirrors deployment.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// ContentSource selects where program and resource content is served from.
type ContentSource string

const (
	// ContentSourceAirtable proxies reads straight to the Airtable REST API.
	ContentSourceAirtable ContentSource = "airtable"
	// ContentSourcePostgres serves reads from the migrated relational mirror.
	ContentSourcePostgres ContentSource = "postgres"
	// ContentSourceMemory serves seeded in-memory fixtures, used in development
	// and tests where no external services exist.
	ContentSourceMemory ContentSource = "memory"
)

// Config aggregates all subsystem configuration.
type Config struct {
	Server    ServerConfig
	Airtable  AirtableConfig
	Supabase  SupabaseConfig
	Storage   StorageConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Auth      AuthConfig
	Content   ContentConfig
	RateLimit RateLimitConfig
}

// ServerConfig captures HTTP server level configuration.
type ServerConfig struct {
	Addr           string
	RequestTimeout time.Duration
	AdminToken     string
}

// AirtableConfig points the content proxy at one Airtable base.
type AirtableConfig struct {
	Token  string
	BaseID string
}

// SupabaseConfig carries the project URL and API keys. The anon key is used
// for reads through PostgREST; the service key for storage writes during
// migration.
type SupabaseConfig struct {
	URL        string
	AnonKey    string
	ServiceKey string
}

// StorageConfig names the resource bucket and the S3-compatible endpoint of
// Supabase Storage. The endpoint is only used by the migration bulk uploader;
// the server resolves public URLs through the REST API.
type StorageConfig struct {
	Bucket      string
	S3Endpoint  string
	S3Region    string
	S3AccessKey string
	S3SecretKey string
}

// DatabaseConfig carries the Postgres DSN for the relational mirror.
type DatabaseConfig struct {
	URL string
}

// RedisConfig tunes the shared Redis client. An empty URL disables Redis and
// callers fall back to in-memory implementations.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// AuthConfig covers session issuance and the seeded demo member.
type AuthConfig struct {
	JWTSigningKey   string
	TokenTTL        time.Duration
	DemoEmail       string
	DemoPassword    string
	DemoDisplayName string
}

// ContentConfig selects the content source and cache behavior.
type ContentConfig struct {
	Source   ContentSource
	CacheTTL time.Duration
}

// RateLimitConfig toggles the per-IP request limiter.
type RateLimitConfig struct {
	Disabled bool
}

// FromEnv builds a Config from environment variables, applying development
// defaults for everything that is safe to default.
func FromEnv() Config {
	return Config{
		Server: ServerConfig{
			Addr:           getEnv("RXCAMPUS_ADDR", ":8080"),
			RequestTimeout: getDuration("RXCAMPUS_REQUEST_TIMEOUT", 30*time.Second),
			AdminToken:     os.Getenv("RXCAMPUS_ADMIN_TOKEN"),
		},
		Airtable: AirtableConfig{
			Token:  os.Getenv("AIRTABLE_TOKEN"),
			BaseID: os.Getenv("AIRTABLE_BASE_ID"),
		},
		Supabase: SupabaseConfig{
			URL:        strings.TrimRight(os.Getenv("SUPABASE_URL"), "/"),
			AnonKey:    os.Getenv("SUPABASE_ANON_KEY"),
			ServiceKey: os.Getenv("SUPABASE_SERVICE_KEY"),
		},
		Storage: StorageConfig{
			Bucket:      getEnv("STORAGE_BUCKET", "resources"),
			S3Endpoint:  os.Getenv("STORAGE_S3_ENDPOINT"),
			S3Region:    getEnv("STORAGE_S3_REGION", "us-east-1"),
			S3AccessKey: os.Getenv("STORAGE_S3_ACCESS_KEY"),
			S3SecretKey: os.Getenv("STORAGE_S3_SECRET_KEY"),
		},
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     getInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  getDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Auth: AuthConfig{
			JWTSigningKey:   getEnv("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
			TokenTTL:        getDuration("JWT_TOKEN_TTL", 15*time.Minute),
			DemoEmail:       getEnv("DEMO_MEMBER_EMAIL", "member@rxcampus.dev"),
			DemoPassword:    getEnv("DEMO_MEMBER_PASSWORD", "rx-demo-2024"),
			DemoDisplayName: getEnv("DEMO_MEMBER_NAME", "Jordan Ellis, PharmD"),
		},
		Content: ContentConfig{
			Source:   parseContentSource(os.Getenv("CONTENT_SOURCE")),
			CacheTTL: getDuration("LIBRARY_CACHE_TTL", 5*time.Minute),
		},
		RateLimit: RateLimitConfig{
			Disabled: getBool("RATE_LIMIT_DISABLED", false),
		},
	}
}

func parseContentSource(raw string) ContentSource {
	switch ContentSource(strings.ToLower(strings.TrimSpace(raw))) {
	case ContentSourceAirtable:
		return ContentSourceAirtable
	case ContentSourcePostgres:
		return ContentSourcePostgres
	default:
		return ContentSourceMemory
	}
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
		return fallback
	}
	return n
}

func getBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
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
	if err != nil {
		return fallback
	}
	return d
}
