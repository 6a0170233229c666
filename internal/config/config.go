// Package config provides configuration management for the chatbot
// application. It handles loading configuration from environment variables
// with sensible defaults and validates the configuration to ensure the
// application starts safely.
//
// The package supports multiple conversation state backends (in-memory,
// Redis, SQLite and PostgreSQL), Redis for per-sender rate limiting, and JWT
// authentication for the admin API.
//
// Environment Variables:
//
// Application Settings:
//   - PORT: Server port (default: 8080)
//   - LOG_LEVEL: Logging level (default: info)
//
// Messaging Platform:
//   - VERIFY_TOKEN: Token echoed during webhook subscription (required)
//   - APP_SECRET: App secret used to verify webhook signatures
//   - PAGE_TOKEN: Page access token for the Send API (required)
//   - SEND_API_URL: Send API endpoint override, mainly for testing
//   - SEND_PACE: Minimum delay between sends to one recipient (default: 200ms)
//
// Conversation State:
//   - STATE_BACKEND: State store - "memory", "redis", "sqlite" or "postgres" (default: memory)
//   - STATE_TTL: How long an idle conversation is kept (default: 168h)
//   - DATABASE_PATH: SQLite database file path (default: ./prg_chatbot.db)
//   - POSTGRES_HOST: PostgreSQL host (required if using PostgreSQL)
//   - POSTGRES_PORT: PostgreSQL port (default: 5432)
//   - POSTGRES_DB: PostgreSQL database name (required if using PostgreSQL)
//   - POSTGRES_USER: PostgreSQL username (required if using PostgreSQL)
//   - POSTGRES_PASSWORD: PostgreSQL password
//   - POSTGRES_SSL_MODE: PostgreSQL SSL mode (default: disable)
//
// Redis Configuration:
//   - REDIS_ADDRESS: Redis server address (default: localhost:6379)
//   - REDIS_PASSWORD: Redis password
//   - REDIS_DB: Redis database number 0-15 (default: 0)
//   - REDIS_POOL_SIZE: Redis connection pool size (default: 10)
//
// Security Configuration:
//   - JWT_SECRET: JWT signing secret for the admin API (minimum 32 characters)
//   - ADMIN_PASSWORD_HASH: bcrypt hash of the admin password
//
// Rate Limiting:
//   - RATE_LIMIT_ENABLED: Enable per-sender rate limiting (default: true)
//   - RATE_LIMIT_DEFAULT: Events allowed per sender per window (default: 30)
//   - RATE_LIMIT_WINDOW: Rate limit time window (default: 60s)
//
// Example usage:
//
//	// Load configuration from environment
//	config := config.Load()
//
//	// Validate configuration
//	if err := config.Validate(); err != nil {
//		log.Fatalf("Invalid configuration: %v", err)
//	}
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration values for the chatbot application. All
// string fields correspond to environment variables that can be set to
// override the default values.
//
// The configuration is loaded using the Load() function and should be
// validated using the Validate() method before use.
type Config struct {
	// Application settings
	Port     string // Server port number
	LogLevel string // Logging level (debug, info, warn, error)

	// Messaging platform credentials
	VerifyToken string // Token echoed during webhook subscription
	AppSecret   string // App secret for webhook signature checks
	PageToken   string // Page access token for the Send API
	SendAPIURL  string // Send API endpoint override
	SendPace    string // Minimum delay between sends to one recipient

	// Conversation state storage
	StateBackend string // State store: "memory", "redis", "sqlite" or "postgres"
	StateTTL     string // How long an idle conversation is kept
	DatabasePath string // Path to SQLite database file

	// PostgreSQL configuration
	PostgresHost     string // PostgreSQL host address
	PostgresPort     string // PostgreSQL port number
	PostgresDB       string // PostgreSQL database name
	PostgresUser     string // PostgreSQL username
	PostgresPassword string // PostgreSQL password
	PostgresSSLMode  string // PostgreSQL SSL mode (disable, require, etc.)

	// Redis configuration
	RedisAddress  string // Redis server address (host:port)
	RedisPassword string // Redis authentication password
	RedisDB       string // Redis database number (0-15)
	RedisPoolSize string // Redis connection pool size

	// Rate limiting configuration
	RateLimitEnabled bool   // Whether per-sender rate limiting is enabled
	RateLimitDefault string // Events allowed per sender per window
	RateLimitWindow  string // Rate limiting time window (e.g., "60s", "1m")

	// Admin API authentication
	JWTSecret         string // Secret key for JWT token signing
	AdminPasswordHash string // bcrypt hash of the admin password
}

// Load creates a new Config instance with values loaded from environment variables.
// If an environment variable is not set, the corresponding default value is used.
//
// This function does not validate the configuration - call Validate() on the
// returned Config to ensure all required values are properly set and valid.
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		// Messaging platform
		VerifyToken: getEnv("VERIFY_TOKEN", ""),
		AppSecret:   getEnv("APP_SECRET", ""),
		PageToken:   getEnv("PAGE_TOKEN", ""),
		SendAPIURL:  getEnv("SEND_API_URL", ""),
		SendPace:    getEnv("SEND_PACE", "200ms"),

		// Conversation state
		StateBackend: getEnv("STATE_BACKEND", "memory"),
		StateTTL:     getEnv("STATE_TTL", "168h"),
		DatabasePath: getEnv("DATABASE_PATH", "./prg_chatbot.db"),

		// PostgreSQL configuration
		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresDB:       getEnv("POSTGRES_DB", "prg_chatbot"),
		PostgresUser:     getEnv("POSTGRES_USER", "postgres"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", ""),
		PostgresSSLMode:  getEnv("POSTGRES_SSL_MODE", "disable"),

		// Redis configuration
		RedisAddress:  getEnv("REDIS_ADDRESS", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnv("REDIS_DB", "0"),
		RedisPoolSize: getEnv("REDIS_POOL_SIZE", "10"),

		// Rate limiting configuration
		RateLimitEnabled: getBoolEnv("RATE_LIMIT_ENABLED", true),
		RateLimitDefault: getEnv("RATE_LIMIT_DEFAULT", "30"),
		RateLimitWindow:  getEnv("RATE_LIMIT_WINDOW", "60s"),

		// Admin API authentication
		JWTSecret:         getEnv("JWT_SECRET", ""),
		AdminPasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
	}
}

// getEnv retrieves an environment variable value or returns a default value if not set.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getBoolEnv retrieves a boolean environment variable value or returns a default value.
//
// This function accepts common boolean representations:
//   - "true", "1", "t", "TRUE", "True" -> true
//   - "false", "0", "f", "FALSE", "False" -> false
//   - Any other value or parsing error -> returns defaultValue
func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// Validate performs comprehensive validation on the configuration to ensure
// all required fields are present and all values are valid.
//
// This method checks:
//   - Required fields (VERIFY_TOKEN, PAGE_TOKEN)
//   - Field format validation (ports, durations, etc.)
//   - Cross-field dependencies (backend-specific storage requirements)
//   - Security requirements (JWT secret length)
//
// The application should call this method after loading configuration and
// before starting to ensure safe operation.
func (c *Config) Validate() error {
	// Validate required platform credentials
	if c.VerifyToken == "" {
		return fmt.Errorf("VERIFY_TOKEN environment variable is required")
	}
	if c.PageToken == "" {
		return fmt.Errorf("PAGE_TOKEN environment variable is required")
	}

	// Validate port
	if port, err := strconv.Atoi(c.Port); err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("PORT must be a valid port number between 1 and 65535")
	}

	// Validate send pacing
	if _, err := time.ParseDuration(c.SendPace); err != nil {
		return fmt.Errorf("SEND_PACE must be a valid duration (e.g., '200ms', '1s')")
	}

	// Validate state backend
	switch c.StateBackend {
	case "memory", "redis", "sqlite", "postgres", "postgresql":
		// Valid state backends
	default:
		return fmt.Errorf("STATE_BACKEND must be 'memory', 'redis', 'sqlite' or 'postgres'")
	}

	// Validate state TTL
	if _, err := time.ParseDuration(c.StateTTL); err != nil {
		return fmt.Errorf("STATE_TTL must be a valid duration (e.g., '168h', '24h')")
	}

	// Validate PostgreSQL config if using PostgreSQL
	if c.StateBackend == "postgres" || c.StateBackend == "postgresql" {
		if c.PostgresHost == "" {
			return fmt.Errorf("POSTGRES_HOST is required when using PostgreSQL")
		}
		if c.PostgresDB == "" {
			return fmt.Errorf("POSTGRES_DB is required when using PostgreSQL")
		}
		if c.PostgresUser == "" {
			return fmt.Errorf("POSTGRES_USER is required when using PostgreSQL")
		}
		// Validate PostgreSQL port
		if port, err := strconv.Atoi(c.PostgresPort); err != nil || port < 1 || port > 65535 {
			return fmt.Errorf("POSTGRES_PORT must be a valid port number")
		}
	}

	// Validate Redis config if provided
	if c.RedisAddress != "" {
		if db, err := strconv.Atoi(c.RedisDB); err != nil || db < 0 || db > 15 {
			return fmt.Errorf("REDIS_DB must be a number between 0 and 15")
		}
		if poolSize, err := strconv.Atoi(c.RedisPoolSize); err != nil || poolSize < 1 {
			return fmt.Errorf("REDIS_POOL_SIZE must be a positive number")
		}
	}

	// Validate rate limit config
	if c.RateLimitEnabled {
		if limit, err := strconv.Atoi(c.RateLimitDefault); err != nil || limit < 1 {
			return fmt.Errorf("RATE_LIMIT_DEFAULT must be a positive number")
		}
		// Validate rate limit window format
		if _, err := time.ParseDuration(c.RateLimitWindow); err != nil {
			return fmt.Errorf("RATE_LIMIT_WINDOW must be a valid duration (e.g., '60s', '1m')")
		}
	}

	// Validate JWT secret if the admin API is enabled
	if c.JWTSecret != "" && len(c.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters long for security")
	}
	if c.AdminPasswordHash != "" && c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required when ADMIN_PASSWORD_HASH is set")
	}

	return nil
}
