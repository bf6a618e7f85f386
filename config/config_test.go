package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	// Test with default values
	config := LoadConfig()
	assert.Equal(t, "3000", config.Port)
	assert.Equal(t, "https://www.daangn.com", config.DaangnBaseURL)
	assert.Equal(t, 1*time.Second, config.RequestDelay)
	assert.Equal(t, "memory", config.CacheBackend)
	assert.Equal(t, 5*time.Minute, config.CacheTTL)
	assert.Equal(t, 60*time.Second, config.RateLimitWindow)
	assert.Equal(t, 5, config.RateLimitMax)
	assert.Equal(t, "", config.RedisAddr)

	// Test with environment variables
	os.Setenv("PORT", "8080")
	os.Setenv("REQUEST_DELAY_MS", "250")
	os.Setenv("CACHE_TTL_MINUTES", "30")
	os.Setenv("RATE_LIMIT_MAX_REQUESTS", "10")
	os.Setenv("CACHE_BACKEND", "memcache")
	os.Setenv("MEMCACHE_ADDR", "memcache.example.com:11211")

	config = LoadConfig()
	assert.Equal(t, "8080", config.Port)
	assert.Equal(t, 250*time.Millisecond, config.RequestDelay)
	assert.Equal(t, 30*time.Minute, config.CacheTTL)
	assert.Equal(t, 10, config.RateLimitMax)
	assert.Equal(t, "memcache", config.CacheBackend)
	assert.Equal(t, "memcache.example.com:11211", config.MemcacheAddr)

	// Clean up
	os.Unsetenv("PORT")
	os.Unsetenv("REQUEST_DELAY_MS")
	os.Unsetenv("CACHE_TTL_MINUTES")
	os.Unsetenv("RATE_LIMIT_MAX_REQUESTS")
	os.Unsetenv("CACHE_BACKEND")
	os.Unsetenv("MEMCACHE_ADDR")
}

func TestValidate(t *testing.T) {
	config := LoadConfig()
	assert.NoError(t, config.Validate())

	bad := config
	bad.CacheBackend = "dynamo"
	assert.Error(t, bad.Validate())

	bad = config
	bad.RateLimitMax = 0
	assert.Error(t, bad.Validate())

	bad = config
	bad.CacheTTL = 0
	assert.Error(t, bad.Validate())
}
