package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
)

// Config holds application configuration values. Secret fields (DatabaseDSN,
// AuthSecret) must never be logged.
type Config struct {
	DatabaseDSN string
	HTTPPort    string
	CORSOrigin  string
	AuthSecret  string
	RequireAuth bool
}

// Load reads configuration from environment variables with reasonable defaults.
func Load() Config {
	port := envOr("PORT", "5001")
	if _, err := strconv.Atoi(port); err != nil {
		log.Printf("invalid PORT value %q, defaulting to 5001", port)
		port = "5001"
	}

	dsn := os.Getenv("DATABASE_DSN")
	if dsn == "" {
		host := envOr("DB_HOST", "localhost")
		user := envOr("DB_USER", "postgres")
		dbPort := envOr("DB_PORT", "5432")
		name := envOr("DB_NAME", "users")
		password := os.Getenv("DB_PASS")

		dsn = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, dbPort, name)
	}

	return Config{
		DatabaseDSN: dsn,
		HTTPPort:    port,
		CORSOrigin:  envOr("CORS_ORIGIN", "http://localhost:3000"),
		AuthSecret:  envOr("AUTH_SECRET", "dev_secret"),
		RequireAuth: os.Getenv("AUTH_REQUIRED") == "true",
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
