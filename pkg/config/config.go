package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration.
type Config struct {
	// Environment
	Environment string
	Port        string

	// KV store backends, picked by priority (postgres > supabase > redis > memory)
	PostgresDSN string
	SupabaseURL string
	SupabaseKey string
	RedisURL    string

	// Auth
	JWTSecret string

	// When true, unauthenticated GETs read the legacy global (single-tenant)
	// scope. Off by default; only meant for shared single-tenant deployments.
	PublicRead bool

	// CORS
	AllowedOrigins []string

	Debug bool
}

// LoadConfig reads the environment, loading .env files first in
// development.
func LoadConfig() *Config {
	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	// .env files never override real environment variables.
	switch env {
	case "production":
		_ = godotenv.Load(".env.production", ".env")
	default:
		_ = godotenv.Load(".env.local", ".env")
	}

	config := &Config{
		Environment: getEnvWithDefault("ENVIRONMENT", "development"),
		Port:        getEnvWithDefault("PORT", "3000"),
		JWTSecret:   getEnvWithDefault("JWT_SECRET", "your-secret-key-change-in-production"),
		PublicRead:  getEnvBool("PUBLIC_READ", false),
		Debug:       getEnvBool("DEBUG", false),
	}

	// Trim whitespace to avoid trailing spaces/newlines from env sources
	config.PostgresDSN = strings.TrimSpace(os.Getenv("POSTGRES_DSN"))
	config.SupabaseURL = strings.TrimSpace(os.Getenv("SUPABASE_URL"))
	config.SupabaseKey = strings.TrimSpace(os.Getenv("SUPABASE_SERVICE_KEY"))
	config.RedisURL = strings.TrimSpace(os.Getenv("REDIS_URL"))

	allowedOrigins := getEnvWithDefault("ALLOWED_ORIGINS", "*")
	if allowedOrigins == "*" {
		config.AllowedOrigins = []string{"*"}
	} else {
		config.AllowedOrigins = strings.Split(allowedOrigins, ",")
	}

	if config.Environment == "production" {
		config.Debug = false
	}

	return config
}

// Cached config (initialized once per cold start)
var (
	cachedConfig *Config
	configOnce   sync.Once
)

// GetCached returns the process-wide cached Config. On serverless it
// initializes once per cold start and is reused across warm invocations.
func GetCached() *Config {
	configOnce.Do(func() {
		cachedConfig = LoadConfig()
	})
	return cachedConfig
}

// Validate checks the configuration is usable for the current environment.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.JWTSecret == "" || c.JWTSecret == "your-secret-key-change-in-production" {
		if c.IsProduction() {
			return fmt.Errorf("JWT_SECRET must be set in production")
		}
		fmt.Println("⚠️  Using default JWT secret (not recommended for production)")
	}

	if c.IsProduction() && !c.hasExternalStore() {
		return fmt.Errorf("no KV store configured: set POSTGRES_DSN, SUPABASE_URL+SUPABASE_SERVICE_KEY or REDIS_URL")
	}

	return nil
}

func (c *Config) hasExternalStore() bool {
	return c.PostgresDSN != "" ||
		(c.SupabaseURL != "" && c.SupabaseKey != "") ||
		c.RedisURL != ""
}

// IsProduction reports whether the app runs in production.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// IsDevelopment reports whether the app runs in development.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
