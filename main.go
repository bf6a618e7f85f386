package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/on1659/DanggeunSearch/config"
	"github.com/on1659/DanggeunSearch/internal/crawler"
	"github.com/on1659/DanggeunSearch/internal/search"
	"github.com/on1659/DanggeunSearch/internal/server"
	"github.com/on1659/DanggeunSearch/logger"
	"github.com/on1659/DanggeunSearch/services/cache"
	"github.com/on1659/DanggeunSearch/services/history"
	"github.com/on1659/DanggeunSearch/services/publisher"
	"github.com/on1659/DanggeunSearch/services/ratelimit"
)

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize logger first
	logger.Init()
	log := logger.Default

	// Load and validate configuration
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	log.Info().
		Str("environment", cfg.Environment).
		Str("base_url", cfg.DaangnBaseURL).
		Dur("request_delay", cfg.RequestDelay).
		Msg("Starting application")

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Initialize services
	services, err := initializeServices(ctx, &cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize services")
	}
	defer services.Cleanup()

	// Wire the crawl pipeline
	fetcher := crawler.NewFetcher(cfg.DaangnBaseURL, cfg.FetchTimeout)
	regionCrawler := crawler.NewRegionCrawler(fetcher)
	aggregator := crawler.NewAggregator(regionCrawler, cfg.RequestDelay)

	searchSvc := search.NewService(
		aggregator,
		cache.NewResultCache(services.Cache, cfg.CacheTTL),
		services.Limiter,
		services.History,
		services.Publisher,
		cfg.SearchTimeout,
	)

	// Keep the limiter's client map bounded
	go services.Limiter.StartSweeper(ctx, cfg.RateLimitWindow)

	srv := server.NewServer(cfg.Port, searchSvc, services.History)

	serverDone := make(chan error, 1)
	go func() {
		serverDone <- srv.Start()
	}()

	// Wait for shutdown signal or server error
	select {
	case sig := <-sigChan:
		log.Info().
			Str("signal", sig.String()).
			Msg("Received shutdown signal")
		cancel()
	case err := <-serverDone:
		if err != nil {
			log.Error().Err(err).Msg("Server exited with error")
		} else {
			log.Info().Msg("Server exited normally")
		}
	}

	// Graceful shutdown
	log.Info().Msg("Shutting down gracefully...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
	}
}

// Services holds all the initialized services
type Services struct {
	Cache     cache.CacheService
	Limiter   *ratelimit.SlidingWindowLimiter
	History   *history.Store
	Publisher publisher.Publisher
}

// Cleanup cleans up all services
func (s *Services) Cleanup() {
	if s.Publisher != nil {
		s.Publisher.Close()
	}
	if s.History != nil {
		s.History.Close()
	}
}

// initializeServices initializes all required services
func initializeServices(ctx context.Context, cfg *config.Config) (*Services, error) {
	services := &Services{}

	// Result cache backend
	switch cfg.CacheBackend {
	case "memcache":
		services.Cache = cache.NewMemcacheService(cfg.MemcacheAddr)
		logger.Info("Using memcache result cache at %s", cfg.MemcacheAddr)
	default:
		services.Cache = cache.NewMemoryService(cfg.CacheMaxEntries)
		logger.Info("Using in-memory result cache (max %d entries)", cfg.CacheMaxEntries)
	}

	// Rate limiter
	services.Limiter = ratelimit.NewSlidingWindowLimiter(cfg.RateLimitWindow, cfg.RateLimitMax)

	// Search history store
	historyStore, err := history.NewStore(cfg.HistoryDBPath)
	if err != nil {
		return nil, err
	}
	services.History = historyStore

	// Optional search event stream
	if cfg.RedisAddr != "" {
		services.Publisher = publisher.NewRedisPublisher(ctx, cfg.RedisAddr, cfg.RedisDB, cfg.RedisStream, 10000)
		logger.Info("Publishing search events to Redis at %s (stream: %s)", cfg.RedisAddr, cfg.RedisStream)
	}

	return services, nil
}
