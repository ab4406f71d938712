package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultJWTSecret signs profile tokens when JWT_SECRET is unset.
// It is only acceptable for local development.
const DefaultJWTSecret = "whichcard-dev-secret-change-me"

// Config holds all application configuration.
// Values are loaded from environment variables with sensible defaults.
type Config struct {
	// Server
	Port     int
	LogLevel string

	// HTTP client
	HTTPTimeout time.Duration

	// Resilience
	MaxRetries     int
	InitialBackoff time.Duration
	MaxConcurrency int

	// Usage logging
	UsageQueueSize    int
	UsageWriteTimeout time.Duration
	IPHashSalt        string

	// Cache
	CacheTTL time.Duration

	// Observability
	OTLPEndpoint string

	// Supabase
	SupabaseURL        string
	SupabaseAnonKey    string
	SupabaseServiceKey string
	UseSupabase        bool

	// Settings profiles
	SettingsFile    string
	JWTSecret       string
	ProfileTokenTTL time.Duration

	// HTTP surface
	ConsentCookieName  string
	CORSAllowedOrigins []string
	SecureCookies      bool
}

// Load reads configuration from environment variables with defaults.
func Load() *Config {
	return &Config{
		Port:     getEnvInt("PORT", 8080),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		HTTPTimeout: getEnvDuration("HTTP_TIMEOUT", 10*time.Second),

		MaxRetries:     getEnvInt("MAX_RETRIES", 3),
		InitialBackoff: getEnvDuration("INITIAL_BACKOFF", 100*time.Millisecond),
		MaxConcurrency: getEnvInt("MAX_CONCURRENCY", 8),

		UsageQueueSize:    getEnvInt("USAGE_QUEUE_SIZE", 256),
		UsageWriteTimeout: getEnvDuration("USAGE_WRITE_TIMEOUT", 5*time.Second),
		IPHashSalt:        getEnv("IP_HASH_SALT", ""),

		CacheTTL: getEnvDuration("CACHE_TTL", 5*time.Minute),

		// Empty disables trace export.
		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),

		SupabaseURL:        strings.TrimRight(getEnv("SUPABASE_URL", ""), "/"),
		SupabaseAnonKey:    getEnv("SUPABASE_ANON_KEY", ""),
		SupabaseServiceKey: getEnv("SUPABASE_SERVICE_ROLE_KEY", ""),
		UseSupabase:        getEnvBool("USE_SUPABASE", true),

		SettingsFile:    getEnv("SETTINGS_FILE", ""),
		JWTSecret:       getEnv("JWT_SECRET", DefaultJWTSecret),
		ProfileTokenTTL: getEnvDuration("PROFILE_TOKEN_TTL", 365*24*time.Hour),

		ConsentCookieName:  getEnv("CONSENT_COOKIE_NAME", "whichcard_consent"),
		CORSAllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		SecureCookies:      getEnvBool("SECURE_COOKIES", false),
	}
}

// SupabaseEnabled reports whether the Supabase backend should be used:
// it must be switched on and have a URL and a service-role key.
func (c *Config) SupabaseEnabled() bool {
	return c.UseSupabase && c.SupabaseURL != "" && c.SupabaseServiceKey != ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

// getEnvList splits a comma-separated value, dropping empty items.
func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
