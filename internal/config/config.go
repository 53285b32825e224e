// internal/config/config.go
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds everything the agent reads from the environment. godotenv
// autoload in main makes a local .env file work transparently.
type Config struct {
	ListenAddr string

	GatewayBaseURL string
	GatewayTimeout time.Duration

	RedisAddr string
	RedisDB   int

	// SessionTTL bounds how long an abandoned session cache entry lingers.
	SessionTTL time.Duration

	// PollInterval is the lobby snapshot refresh cadence.
	PollInterval time.Duration

	// AuthPrivateKeyPath/AuthPublicKeyPath point at the ed25519 pair shared
	// with the credential issuer. Empty means generate an ephemeral pair.
	AuthPrivateKeyPath string
	AuthPublicKeyPath  string
}

// Load reads the environment with defaults suitable for local development.
func Load() Config {
	return Config{
		ListenAddr:         getEnv("COURTSIDE_LISTEN_ADDR", ":8080"),
		GatewayBaseURL:     getEnv("COURTSIDE_GATEWAY_URL", "http://localhost:9000"),
		GatewayTimeout:     getEnvDuration("COURTSIDE_GATEWAY_TIMEOUT", 10*time.Second),
		RedisAddr:          getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:            getEnvInt("REDIS_DB", 0),
		SessionTTL:         getEnvDuration("COURTSIDE_SESSION_TTL", 48*time.Hour),
		PollInterval:       getEnvDuration("COURTSIDE_POLL_INTERVAL", 30*time.Second),
		AuthPrivateKeyPath: getEnv("COURTSIDE_AUTH_PRIVATE_KEY", ""),
		AuthPublicKeyPath:  getEnv("COURTSIDE_AUTH_PUBLIC_KEY", ""),
	}
}

// getEnv is a helper to read an environment variable or return a default value.
func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

// getEnvInt is a helper to parse an environment variable as integer, else a default value.
func getEnvInt(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

// getEnvDuration is a helper to parse an environment variable as a
// time.Duration, else a default value.
func getEnvDuration(key string, def time.Duration) time.Duration {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return def
	}
	return v
}
