package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/on1659/DanggeunSearch/internal/crawler"
	"github.com/on1659/DanggeunSearch/internal/search"
	"github.com/on1659/DanggeunSearch/services/cache"
	"github.com/on1659/DanggeunSearch/services/history"
	"github.com/on1659/DanggeunSearch/services/ratelimit"
)

func newUpstream(t *testing.T) *httptest.Server {
	t.Helper()
	createdAt := time.Now().Add(-5 * time.Minute).Format(time.RFC3339)

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<html><head><script>window.__remixContext = {"state":{"loaderData":{
			"routes/kr.buy-sell._index":{"allPage":{"fleamarketArticles":[
				{"href":"https://www.daangn.com/kr/buy-sell/1","title":"자전거","price":"15000","createdAt":%q}
			]}}}}};</script></head><body></body></html>`, createdAt)
	}))
}

func newTestHandler(t *testing.T, upstreamURL string, limiterMax int, withHistory bool) http.Handler {
	t.Helper()

	fetcher := crawler.NewFetcher(upstreamURL, 5*time.Second)
	agg := crawler.NewAggregator(crawler.NewRegionCrawler(fetcher), 0)
	resultCache := cache.NewResultCache(cache.NewMemoryService(100), 5*time.Minute)
	limiter := ratelimit.NewSlidingWindowLimiter(time.Minute, limiterMax)

	var store *history.Store
	if withHistory {
		var err error
		store, err = history.NewStore(filepath.Join(t.TempDir(), "search_logs.db"))
		require.NoError(t, err)
		t.Cleanup(func() { store.Close() })
	}

	svc := search.NewService(agg, resultCache, limiter, store, nil, 10*time.Second)
	return NewServer("0", svc, store).httpSrv.Handler
}

func doRequest(handler http.Handler, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.RemoteAddr = "1.2.3.4:5678"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	upstream := newUpstream(t)
	defer upstream.Close()
	handler := newTestHandler(t, upstream.URL, 5, false)

	rec := doRequest(handler, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "OK", body["status"])
}

func TestSearchEndpoint(t *testing.T) {
	upstream := newUpstream(t)
	defer upstream.Close()
	handler := newTestHandler(t, upstream.URL, 5, false)

	rec := doRequest(handler, "/api/search?query=자전거&regions=역삼동-6035")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))

	var result crawler.SearchResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "자전거", result.Query)
	require.Equal(t, 1, result.TotalItems)
	assert.Equal(t, "15,000원", result.Items[0].Price)
}

func TestSearchEndpointMissingParams(t *testing.T) {
	upstream := newUpstream(t)
	defer upstream.Close()
	handler := newTestHandler(t, upstream.URL, 5, false)

	for _, target := range []string{
		"/api/search",
		"/api/search?query=자전거",
		"/api/search?regions=역삼동-6035",
	} {
		rec := doRequest(handler, target)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
		assert.Contains(t, rec.Body.String(), "Query and regions are required")
	}
}

func TestSearchEndpointRateLimited(t *testing.T) {
	upstream := newUpstream(t)
	defer upstream.Close()
	handler := newTestHandler(t, upstream.URL, 1, false)

	rec := doRequest(handler, "/api/search?query=자전거&regions=역삼동-6035")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(handler, "/api/search?query=자전거&regions=역삼동-6035")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "검색 요청이 너무 많습니다")
}

func TestRegionsEndpoint(t *testing.T) {
	upstream := newUpstream(t)
	defer upstream.Close()
	handler := newTestHandler(t, upstream.URL, 5, false)

	rec := doRequest(handler, "/api/regions")
	require.Equal(t, http.StatusOK, rec.Code)

	var regions map[string]map[string]map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &regions))
	assert.Equal(t, "역삼동-5980", regions["서울특별시"]["강남구"]["역삼동"])
}

func TestHistoryEndpoints(t *testing.T) {
	upstream := newUpstream(t)
	defer upstream.Close()
	handler := newTestHandler(t, upstream.URL, 5, true)

	rec := doRequest(handler, "/api/search?query=자전거&regions=역삼동-6035&user=철수")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(handler, "/api/history/recent")
	require.Equal(t, http.StatusOK, rec.Code)
	var entries []history.Entry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "철수", entries[0].UserName)
	assert.Equal(t, "자전거", entries[0].Query)
	assert.Equal(t, "1.2.3.4", entries[0].IPAddress)

	rec = doRequest(handler, "/api/history/popular")
	require.Equal(t, http.StatusOK, rec.Code)
	var popular []history.PopularQuery
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &popular))
	require.Len(t, popular, 1)
	assert.Equal(t, 1, popular[0].Count)

	rec = doRequest(handler, "/api/history/user?name=철수")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(handler, "/api/history/user")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHistoryEndpointsDisabled(t *testing.T) {
	upstream := newUpstream(t)
	defer upstream.Close()
	handler := newTestHandler(t, upstream.URL, 5, false)

	for _, target := range []string{
		"/api/history/recent",
		"/api/history/popular",
		"/api/history/user?name=철수",
	} {
		rec := doRequest(handler, target)
		assert.Equal(t, http.StatusNotFound, rec.Code, target)
	}
}
