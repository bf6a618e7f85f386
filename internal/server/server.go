package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/on1659/DanggeunSearch/internal/search"
	"github.com/on1659/DanggeunSearch/logger"
	"github.com/on1659/DanggeunSearch/services/history"
)

// Server exposes the search pipeline over HTTP
type Server struct {
	search  *search.Service
	history *history.Store // optional
	httpSrv *http.Server
}

// NewServer builds the router and the underlying HTTP server
func NewServer(port string, searchSvc *search.Service, historyStore *history.Store) *Server {
	s := &Server{
		search:  searchSvc,
		history: historyStore,
	}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(accessLog)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	r.Get("/health", s.handleHealth)
	r.Get("/api/search", s.handleSearch)
	r.Get("/api/regions", s.handleRegions)
	r.Get("/api/history/recent", s.handleRecentSearches)
	r.Get("/api/history/popular", s.handlePopularSearches)
	r.Get("/api/history/user", s.handleUserSearches)

	s.httpSrv = &http.Server{
		Addr:         ":" + port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
	}
	return s
}

// Start serves until the listener fails or Shutdown is called
func (s *Server) Start() error {
	logger.ForServer().Info().Str("addr", s.httpSrv.Addr).Msg("HTTP server listening")
	err := s.httpSrv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown stops the server gracefully
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}
