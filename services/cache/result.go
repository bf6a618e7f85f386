package cache

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/on1659/DanggeunSearch/internal/crawler"
	"github.com/on1659/DanggeunSearch/logger"
)

// ResultCache memoizes aggregator output keyed by the full query signature.
// It wraps a CacheService so the backing store is swappable.
type ResultCache struct {
	store CacheService
	ttl   time.Duration
}

// NewResultCache creates a result cache with the given TTL
func NewResultCache(store CacheService, ttl time.Duration) *ResultCache {
	return &ResultCache{store: store, ttl: ttl}
}

// Key builds the deterministic cache key for a search request. Absent filter
// fields render as empty segments so equivalent requests collide.
func Key(req crawler.SearchRequest) string {
	return strings.Join([]string{
		req.Query,
		strings.Join(req.Regions, ","),
		req.Filters.Category,
		req.Filters.MinPrice,
		req.Filters.MaxPrice,
	}, "-")
}

// Get returns the cached result for a request, or nil on a miss. A decode
// failure is treated as a miss and the entry is dropped.
func (c *ResultCache) Get(req crawler.SearchRequest) *crawler.SearchResult {
	key := Key(req)
	data, err := c.store.Get(key)
	if err != nil {
		return nil
	}

	var result crawler.SearchResult
	if err := json.Unmarshal(data, &result); err != nil {
		logger.ForCache().Warn().Err(err).Str("key", key).Msg("Dropping undecodable cache entry")
		c.store.Delete(key)
		return nil
	}
	return &result
}

// Put stores a result under the request's key
func (c *ResultCache) Put(req crawler.SearchRequest, result *crawler.SearchResult) {
	data, err := json.Marshal(result)
	if err != nil {
		logger.ForCache().Error().Err(err).Msg("Failed to encode search result")
		return
	}
	if err := c.store.Set(Key(req), data, c.ttl); err != nil {
		logger.ForCache().Warn().Err(err).Msg("Failed to store search result")
	}
}
