package server

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/on1659/DanggeunSearch/internal/catalog"
	"github.com/on1659/DanggeunSearch/internal/crawler"
	"github.com/on1659/DanggeunSearch/internal/search"
	"github.com/on1659/DanggeunSearch/logger"
	errs "github.com/on1659/DanggeunSearch/pkg/errors"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "OK",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	regionsParam := r.URL.Query().Get("regions")
	if query == "" || regionsParam == "" {
		writeError(w, http.StatusBadRequest, "Query and regions are required")
		return
	}

	req := crawler.SearchRequest{
		Query:   query,
		Regions: strings.Split(regionsParam, ","),
		Filters: crawler.Filters{
			Category: r.URL.Query().Get("category"),
			MinPrice: r.URL.Query().Get("minPrice"),
			MaxPrice: r.URL.Query().Get("maxPrice"),
		},
	}
	client := search.Client{
		Addr: clientAddr(r),
		Name: r.URL.Query().Get("user"),
	}

	result, err := s.search.Search(r.Context(), req, client)
	if err != nil {
		var searchErr *errs.SearchError
		if errors.As(err, &searchErr) {
			switch searchErr.Type {
			case errs.ErrorTypeRateLimit:
				writeError(w, http.StatusTooManyRequests,
					"검색 요청이 너무 많습니다. 잠시 후 다시 시도해주세요.")
				return
			case errs.ErrorTypeValidation:
				writeError(w, http.StatusBadRequest, searchErr.Message)
				return
			}
		}
		logger.ForServer().Error().Err(err).Str("query", query).Msg("Search failed")
		writeError(w, http.StatusInternalServerError, "Search failed")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleRegions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, catalog.Regions())
}

func (s *Server) handleRecentSearches(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeError(w, http.StatusNotFound, "Search history is disabled")
		return
	}
	entries, err := s.history.RecentSearches(queryLimit(r, 50))
	if err != nil {
		logger.ForServer().Error().Err(err).Msg("Failed to read recent searches")
		writeError(w, http.StatusInternalServerError, "Failed to read search history")
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handlePopularSearches(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeError(w, http.StatusNotFound, "Search history is disabled")
		return
	}
	popular, err := s.history.PopularSearches(queryLimit(r, 10))
	if err != nil {
		logger.ForServer().Error().Err(err).Msg("Failed to read popular searches")
		writeError(w, http.StatusInternalServerError, "Failed to read search history")
		return
	}
	writeJSON(w, http.StatusOK, popular)
}

func (s *Server) handleUserSearches(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeError(w, http.StatusNotFound, "Search history is disabled")
		return
	}
	name := r.URL.Query().Get("name")
	if name == "" {
		writeError(w, http.StatusBadRequest, "Name is required")
		return
	}
	entries, err := s.history.UserSearches(name, queryLimit(r, 20))
	if err != nil {
		logger.ForServer().Error().Err(err).Msg("Failed to read user searches")
		writeError(w, http.StatusInternalServerError, "Failed to read search history")
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

// clientAddr resolves the caller address, trusting the first entry of
// X-Forwarded-For when present
func clientAddr(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return strings.TrimSpace(strings.Split(fwd, ",")[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func queryLimit(r *http.Request, def int) int {
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 || limit > 200 {
		return def
	}
	return limit
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.ForServer().Error().Err(err).Msg("Failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
