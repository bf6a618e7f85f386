package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config represents the application configuration
type Config struct {
	// HTTP server configuration
	Port string

	// Upstream site configuration
	DaangnBaseURL string

	// Crawler configuration
	RequestDelay  time.Duration
	FetchTimeout  time.Duration
	SearchTimeout time.Duration

	// Result cache configuration
	CacheBackend    string
	MemcacheAddr    string
	CacheTTL        time.Duration
	CacheMaxEntries int

	// Rate limiter configuration
	RateLimitWindow time.Duration
	RateLimitMax    int

	// Search event stream (disabled when RedisAddr is empty)
	RedisAddr   string
	RedisDB     int
	RedisStream string

	// Search history configuration
	HistoryDBPath string

	// Environment
	Environment string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() Config {
	requestDelayMs, _ := strconv.Atoi(getEnv("REQUEST_DELAY_MS", "1000"))
	fetchTimeout, _ := strconv.Atoi(getEnv("FETCH_TIMEOUT_SECONDS", "10"))
	searchTimeout, _ := strconv.Atoi(getEnv("SEARCH_TIMEOUT_SECONDS", "60"))
	cacheTTL, _ := strconv.Atoi(getEnv("CACHE_TTL_MINUTES", "5"))
	cacheMaxEntries, _ := strconv.Atoi(getEnv("CACHE_MAX_ENTRIES", "1000"))
	rateWindow, _ := strconv.Atoi(getEnv("RATE_LIMIT_WINDOW_SECONDS", "60"))
	rateMax, _ := strconv.Atoi(getEnv("RATE_LIMIT_MAX_REQUESTS", "5"))
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))

	return Config{
		Port:            getEnv("PORT", "3000"),
		DaangnBaseURL:   getEnv("DAANGN_BASE_URL", "https://www.daangn.com"),
		RequestDelay:    time.Duration(requestDelayMs) * time.Millisecond,
		FetchTimeout:    time.Duration(fetchTimeout) * time.Second,
		SearchTimeout:   time.Duration(searchTimeout) * time.Second,
		CacheBackend:    getEnv("CACHE_BACKEND", "memory"),
		MemcacheAddr:    getEnv("MEMCACHE_ADDR", "localhost:11211"),
		CacheTTL:        time.Duration(cacheTTL) * time.Minute,
		CacheMaxEntries: cacheMaxEntries,
		RateLimitWindow: time.Duration(rateWindow) * time.Second,
		RateLimitMax:    rateMax,
		RedisAddr:       getEnv("REDIS_ADDR", ""),
		RedisDB:         redisDB,
		RedisStream:     getEnv("REDIS_STREAM", "searches"),
		HistoryDBPath:   getEnv("HISTORY_DB_PATH", "search_logs.db"),
		Environment:     getEnv("DAANGN_ENVIRONMENT", "development"),
	}
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	if c.DaangnBaseURL == "" {
		return fmt.Errorf("DAANGN_BASE_URL must not be empty")
	}
	if c.CacheBackend != "memory" && c.CacheBackend != "memcache" {
		return fmt.Errorf("unknown cache backend: %s", c.CacheBackend)
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("CACHE_TTL_MINUTES must be positive")
	}
	if c.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_WINDOW_SECONDS must be positive")
	}
	if c.RateLimitMax <= 0 {
		return fmt.Errorf("RATE_LIMIT_MAX_REQUESTS must be positive")
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
