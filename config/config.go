package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

const (
	defaultDatabasePath       = "g2p.db"
	defaultJWTExpirationHours = 24
	defaultRequestTimeoutSecs = 60
)

type Config struct {
	// address the HTTP server binds to
	ListenAddr string

	// database path
	DatabasePath string

	// JWT settings
	JWTSecret          string
	JWTExpirationHours int

	// request handling
	RequestTimeout time.Duration

	// origins allowed to call the API (the curation frontend)
	AllowedOrigins []string
}

func getEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvIntOrDefault(envVar string, defaultVal int) int {
	valStr := os.Getenv(envVar)
	if valStr == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || val <= 0 {
		log.Printf("Warning: Invalid %s '%s'. Using default %d. Error: %v", envVar, valStr, defaultVal, err)
		return defaultVal
	}
	return val
}

func LoadConfig() (Config, error) {
	dbPath := getEnvOrDefault("DATABASE_PATH", defaultDatabasePath)

	secret := getEnvOrDefault("JWT_SECRET", "")
	if secret == "" {
		log.Printf("Warning: JWT_SECRET is not set, using an insecure development default")
		secret = "g2p-development-secret"
	}

	origins := []string{getEnvOrDefault("FRONTEND_ORIGIN", "http://localhost:5173")}

	cfg := Config{
		ListenAddr:         getEnvOrDefault("LISTEN_ADDR", ":8080"),
		DatabasePath:       dbPath,
		JWTSecret:          secret,
		JWTExpirationHours: getEnvIntOrDefault("JWT_EXPIRATION_HOURS", defaultJWTExpirationHours),
		RequestTimeout:     time.Duration(getEnvIntOrDefault("REQUEST_TIMEOUT_SECONDS", defaultRequestTimeoutSecs)) * time.Second,
		AllowedOrigins:     origins,
	}

	return cfg, nil
}
