// Package config loads application settings from the environment.
package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	ServerPort    string
	GinMode       string
	MongoURI      string
	MongoDatabase string
	RedisURI      string

	AccessTokenSecret  string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration

	SnapshotCacheTTL time.Duration
	CatalogPath      string

	AuditQueueSize int
	AuditWorkers   int
}

// Load reads configuration from .env file and environment variables
func Load() *Config {
	// .env is optional; variables may be set directly
	_ = godotenv.Load()

	return &Config{
		ServerPort:    getEnv("SERVER_PORT", "8080"),
		GinMode:       getEnv("GIN_MODE", "debug"),
		MongoURI:      getEnvRequired("MONGO_URI"),
		MongoDatabase: getEnvRequired("MONGO_DATABASE"),
		RedisURI:      getEnv("REDIS_URI", "localhost:6379"),

		AccessTokenSecret:  getEnvRequired("ACCESS_TOKEN_SECRET"),
		AccessTokenExpiry:  parseDuration(getEnv("ACCESS_TOKEN_EXPIRY", "15m")),
		RefreshTokenExpiry: parseDuration(getEnv("REFRESH_TOKEN_EXPIRY", "168h")),

		SnapshotCacheTTL: parseDuration(getEnv("SNAPSHOT_CACHE_TTL", "10m")),
		CatalogPath:      getEnv("CATALOG_PATH", ""),

		AuditQueueSize: parsePositiveInt("AUDIT_QUEUE_SIZE", getEnv("AUDIT_QUEUE_SIZE", "256")),
		AuditWorkers:   parsePositiveInt("AUDIT_WORKERS", getEnv("AUDIT_WORKERS", "2")),
	}
}

// getEnv reads an environment variable with a fallback default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvRequired reads an environment variable and exits if not set
func getEnvRequired(key string) string {
	value := os.Getenv(key)
	if value == "" {
		log.Fatalf("Required environment variable %s is not set", key)
	}
	return value
}

func parseDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		log.Fatalf("Invalid duration format: %s", s)
	}
	return d
}

func parsePositiveInt(key, s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		log.Fatalf("Invalid value for %s: %q must be a positive integer", key, s)
	}
	return n
}
