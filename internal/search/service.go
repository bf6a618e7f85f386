package search

import (
	"context"
	"time"

	"github.com/on1659/DanggeunSearch/internal/crawler"
	"github.com/on1659/DanggeunSearch/logger"
	errs "github.com/on1659/DanggeunSearch/pkg/errors"
	"github.com/on1659/DanggeunSearch/services/cache"
	"github.com/on1659/DanggeunSearch/services/history"
	"github.com/on1659/DanggeunSearch/services/publisher"
	"github.com/on1659/DanggeunSearch/services/ratelimit"
)

// Client identifies the caller of a search. Addr is the rate-limit key;
// Name is an optional display name for the search log.
type Client struct {
	Addr string
	Name string
}

// Service is the crawl entry point: admission control, cache, aggregation,
// and the post-crawl bookkeeping (search log, event stream)
type Service struct {
	aggregator *crawler.Aggregator
	cache      *cache.ResultCache
	limiter    *ratelimit.SlidingWindowLimiter
	history    *history.Store      // optional
	publisher  publisher.Publisher // optional
	timeout    time.Duration
}

// NewService wires the search service. history and pub may be nil; the
// pipeline then runs without the corresponding side effect.
func NewService(
	aggregator *crawler.Aggregator,
	resultCache *cache.ResultCache,
	limiter *ratelimit.SlidingWindowLimiter,
	historyStore *history.Store,
	pub publisher.Publisher,
	timeout time.Duration,
) *Service {
	return &Service{
		aggregator: aggregator,
		cache:      resultCache,
		limiter:    limiter,
		history:    historyStore,
		publisher:  pub,
		timeout:    timeout,
	}
}

// Search runs one search for a client. The limiter gates everything; a
// denial surfaces as a rate_limit error, never as an empty result. A
// malformed request is rejected before any crawling begins.
func (s *Service) Search(ctx context.Context, req crawler.SearchRequest, client Client) (*crawler.SearchResult, error) {
	log := logger.ForSearch()

	if !s.limiter.Allow(client.Addr) {
		log.Warn().Str("client", client.Addr).Msg("Rate limit exceeded")
		return nil, errs.NewRateLimit(client.Addr)
	}

	if req.Query == "" {
		return nil, errs.NewValidation("query must not be empty")
	}
	if len(req.Regions) == 0 {
		return nil, errs.NewValidation("at least one region is required")
	}

	if cached := s.cache.Get(req); cached != nil {
		log.Info().Str("query", req.Query).Msg("Returning cached result")
		s.recordSearch(req, cached, client, true)
		return cached, nil
	}

	crawlCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		crawlCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	result := s.aggregator.Run(crawlCtx, req)
	s.cache.Put(req, &result)
	s.recordSearch(req, &result, client, false)

	return &result, nil
}

// recordSearch emits the search-log record and the search event. Both are
// best effort; a logging failure never fails the search.
func (s *Service) recordSearch(req crawler.SearchRequest, result *crawler.SearchResult, client Client, cacheHit bool) {
	if s.history != nil {
		_, err := s.history.LogSearch(history.Record{
			UserName:    client.Name,
			Query:       req.Query,
			Regions:     req.Regions,
			ResultCount: result.TotalItems,
			IPAddress:   client.Addr,
		})
		if err != nil {
			logger.ForHistory().Warn().Err(err).Msg("Failed to log search")
		}
	}

	if s.publisher != nil {
		err := s.publisher.PublishSearch(publisher.SearchEvent{
			Query:       req.Query,
			Regions:     req.Regions,
			ResultCount: result.TotalItems,
			ClientAddr:  client.Addr,
			CacheHit:    cacheHit,
			Timestamp:   time.Now(),
		})
		if err != nil {
			logger.ForSearch().Warn().Err(err).Msg("Failed to publish search event")
		}
	}
}
