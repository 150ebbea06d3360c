// ABOUTME: Configuration management for the application with environment variable support
// ABOUTME: Defines configuration structures for the harvester, storage, cache, and viewer

package config

import (
	"fmt"
	"os"
	"strconv"

	coreerrors "news-harvester-api/core/errors"
)

// Config holds all application configuration
type Config struct {
	// Server contains HTTP viewer server configuration
	Server ServerConfig

	// Harvest contains listing-page harvest configuration
	Harvest HarvestConfig

	// Photo contains header photo processing configuration
	Photo PhotoConfig

	// Mongo contains article store configuration
	Mongo MongoConfig

	// Cache contains cache backend configuration
	Cache CacheConfig

	// Log contains logging configuration
	Log LogConfig
}

// ServerConfig holds HTTP viewer server configuration
type ServerConfig struct {
	// Port is the HTTP server port
	Port string
}

// HarvestConfig holds listing-page harvest configuration
type HarvestConfig struct {
	// ListingURL is the listing page to harvest article links from
	ListingURL string

	// FeedURL is an optional RSS/Atom feed merged into the harvested set
	FeedURL string

	// TargetCount is the number of article links to collect
	TargetCount int

	// MaxClicks caps load-more button clicks per run
	MaxClicks int

	// StallLimit is how many consecutive clicks may yield no new links
	StallLimit int

	// Concurrency is the number of parallel article fetches
	Concurrency int

	// RequestDelayMs is the delay between article fetches in milliseconds
	RequestDelayMs int

	// Headless controls whether the browser runs without a window
	Headless bool

	// NavigationTimeoutMs bounds listing page navigation in milliseconds
	NavigationTimeoutMs int
}

// PhotoConfig holds header photo processing configuration
type PhotoConfig struct {
	// Quality is the JPEG re-encode quality (1-100)
	Quality int
}

// MongoConfig holds article store configuration
type MongoConfig struct {
	// User is the MongoDB username
	User string

	// Password is the MongoDB password
	Password string

	// Host is the MongoDB server host
	Host string

	// Port is the MongoDB server port
	Port string

	// AuthSource is the authentication database
	AuthSource string

	// Database is the database holding harvested articles
	Database string

	// Collection is the article collection name
	Collection string
}

// CacheConfig holds cache backend configuration
type CacheConfig struct {
	// Type specifies the cache backend (memory/redis/sqlite)
	Type string

	// Redis contains Redis-specific configuration
	Redis RedisConfig

	// Memory contains in-memory cache configuration
	Memory MemoryConfig

	// SQLitePath is the SQLite cache file path
	SQLitePath string
}

// RedisConfig holds Redis-specific configuration
type RedisConfig struct {
	// Address is the Redis server address
	Address string

	// Password is the Redis authentication password
	Password string

	// DB is the Redis database number
	DB int
}

// MemoryConfig holds in-memory cache configuration
type MemoryConfig struct {
	// DefaultExpiration is the default TTL for cache entries in seconds
	DefaultExpiration int
}

// LogConfig holds logging configuration
type LogConfig struct {
	// Level is the minimum log level (debug/info/warn/error)
	Level string

	// File is an optional log file path; empty logs to stderr only
	File string
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: getEnvOrDefault("PORT", "8000"),
		},
		Harvest: HarvestConfig{
			ListingURL:          getEnvOrDefault("LISTING_URL", "https://www.kp.ru/online/"),
			FeedURL:             getEnvOrDefault("FEED_URL", ""),
			TargetCount:         getEnvAsIntOrDefault("TARGET_COUNT", 1000),
			MaxClicks:           getEnvAsIntOrDefault("MAX_CLICKS", 10000),
			StallLimit:          getEnvAsIntOrDefault("STALL_LIMIT", 10),
			Concurrency:         getEnvAsIntOrDefault("CONCURRENCY", 8),
			RequestDelayMs:      getEnvAsIntOrDefault("REQUEST_DELAY_MS", 200),
			Headless:            getEnvAsBoolOrDefault("HEADLESS", true),
			NavigationTimeoutMs: getEnvAsIntOrDefault("NAVIGATION_TIMEOUT_MS", 60000),
		},
		Photo: PhotoConfig{
			Quality: getEnvAsIntOrDefault("IMAGE_QUALITY", 35),
		},
		Mongo: MongoConfig{
			User:       os.Getenv("MONGO_USER"),
			Password:   os.Getenv("MONGO_PASSWORD"),
			Host:       getEnvOrDefault("MONGO_HOST", "localhost"),
			Port:       getEnvOrDefault("MONGO_PORT", "27017"),
			AuthSource: getEnvOrDefault("MONGO_AUTH_SOURCE", "admin"),
			Database:   getEnvOrDefault("MONGO_DB", "items"),
			Collection: getEnvOrDefault("MONGO_COLLECTION", "kp_articles"),
		},
		Cache: CacheConfig{
			Type: getEnvOrDefault("CACHE_TYPE", "memory"),
			Redis: RedisConfig{
				Address:  getEnvOrDefault("REDIS_ADDRESS", "localhost:6379"),
				Password: getEnvOrDefault("REDIS_PASSWORD", ""),
				DB:       getEnvAsIntOrDefault("REDIS_DB", 0),
			},
			Memory: MemoryConfig{
				DefaultExpiration: getEnvAsIntOrDefault("MEMORY_CACHE_EXPIRATION", 3600),
			},
			SQLitePath: getEnvOrDefault("SQLITE_CACHE_PATH", "cache.db"),
		},
		Log: LogConfig{
			Level: getEnvOrDefault("LOG_LEVEL", "info"),
			File:  getEnvOrDefault("LOG_FILE", ""),
		},
	}

	return cfg, nil
}

// Validate checks the configuration for invalid values
func (c *Config) Validate() error {
	if c.Mongo.User == "" {
		return &coreerrors.ValidationError{Field: "MONGO_USER", Message: "must be set"}
	}
	if c.Mongo.Password == "" {
		return &coreerrors.ValidationError{Field: "MONGO_PASSWORD", Message: "must be set"}
	}
	if c.Harvest.ListingURL == "" {
		return &coreerrors.ValidationError{Field: "LISTING_URL", Message: "cannot be empty"}
	}
	if c.Harvest.TargetCount < 1 {
		return &coreerrors.ValidationError{
			Field:   "TARGET_COUNT",
			Message: fmt.Sprintf("must be at least 1, got %d", c.Harvest.TargetCount),
		}
	}
	if c.Harvest.MaxClicks < 0 {
		return &coreerrors.ValidationError{
			Field:   "MAX_CLICKS",
			Message: fmt.Sprintf("cannot be negative, got %d", c.Harvest.MaxClicks),
		}
	}
	if c.Harvest.StallLimit < 1 {
		return &coreerrors.ValidationError{
			Field:   "STALL_LIMIT",
			Message: fmt.Sprintf("must be at least 1, got %d", c.Harvest.StallLimit),
		}
	}
	if c.Harvest.Concurrency < 1 {
		return &coreerrors.ValidationError{
			Field:   "CONCURRENCY",
			Message: fmt.Sprintf("must be at least 1, got %d", c.Harvest.Concurrency),
		}
	}
	if c.Harvest.RequestDelayMs < 0 {
		return &coreerrors.ValidationError{
			Field:   "REQUEST_DELAY_MS",
			Message: fmt.Sprintf("cannot be negative, got %d", c.Harvest.RequestDelayMs),
		}
	}
	if c.Photo.Quality < 1 || c.Photo.Quality > 100 {
		return &coreerrors.ValidationError{
			Field:   "IMAGE_QUALITY",
			Message: fmt.Sprintf("must be between 1 and 100, got %d", c.Photo.Quality),
		}
	}
	switch c.Cache.Type {
	case "memory", "redis", "sqlite":
	default:
		return &coreerrors.ValidationError{
			Field:   "CACHE_TYPE",
			Message: fmt.Sprintf("must be memory, redis, or sqlite, got %q", c.Cache.Type),
		}
	}
	return nil
}

// getEnvOrDefault returns the environment variable value or a default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsIntOrDefault returns the environment variable as int or a default
func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsBoolOrDefault returns the environment variable as bool or a default
func getEnvAsBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
