package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Env string

	// Server
	Port        string
	FrontendURL string

	// Database
	DBDriver      string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBSSLMode     string
	SQLitePath    string
	RunMigrations bool

	// Identity
	JWTSecret        string
	JWTExpirationDur time.Duration
	HeaderAuth       bool

	// Audit events
	AMQPURL      string
	AMQPExchange string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		Env: getEnv("ENV", "development"),

		// Server
		Port:        getEnv("PORT", "8080"),
		FrontendURL: getEnv("FRONTEND_URL", "*"),

		// Database
		DBDriver:      getEnv("DB_DRIVER", "postgres"),
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", "5432"),
		DBUser:        getEnv("DB_USER", "fintrack"),
		DBPassword:    getEnv("DB_PASSWORD", "fintrack"),
		DBName:        getEnv("DB_NAME", "fintrack"),
		DBSSLMode:     getEnv("DB_SSLMODE", "disable"),
		SQLitePath:    getEnv("SQLITE_PATH", "fintrack.sqlite3"),
		RunMigrations: getBool("RUN_MIGRATIONS", true),

		// Identity
		JWTSecret:  getEnv("JWT_SECRET", "fallback-secret-key-for-dev-only"),
		HeaderAuth: getBool("HEADER_AUTH", true),

		// Audit events
		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "fintrack.audit"),
	}

	expStr := getEnv("JWT_EXPIRES_IN", "24h")
	expDur, err := time.ParseDuration(expStr)
	if err != nil {
		log.Printf("Warning: invalid JWT_EXPIRES_IN value '%s', falling back to 24h\n", expStr)
		expDur = 24 * time.Hour
	}
	config.JWTExpirationDur = expDur

	return config, nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getBool parses a boolean environment variable, falling back to the default
// when the variable is unset or not a valid boolean.
func getBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("Warning: invalid %s value '%s', falling back to %t\n", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

// ClientConfig holds settings for the command-line client.
type ClientConfig struct {
	APIURL string
	UserID uint
	Token  string
}

// LoadClient reads the command-line client settings. Either a user id or a
// token must be present.
func LoadClient() (*ClientConfig, error) {
	_ = godotenv.Load()

	cfg := &ClientConfig{
		APIURL: getEnv("FINTRACK_API_URL", "http://localhost:8080/api/v1"),
		Token:  os.Getenv("FINTRACK_TOKEN"),
	}

	if raw := os.Getenv("FINTRACK_USER_ID"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			return nil, fmt.Errorf("invalid FINTRACK_USER_ID %q", raw)
		}
		cfg.UserID = uint(id)
	}

	if cfg.UserID == 0 && cfg.Token == "" {
		return nil, fmt.Errorf("set FINTRACK_USER_ID or FINTRACK_TOKEN")
	}
	return cfg, nil
}
