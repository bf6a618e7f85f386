package crawler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	errs "github.com/on1659/DanggeunSearch/pkg/errors"
)

func TestBuildSearchURL(t *testing.T) {
	f := NewFetcher("https://www.daangn.com", 10*time.Second)

	url := f.BuildSearchURL("역삼동-6035", "자전거", Filters{})
	assert.Contains(t, url, "https://www.daangn.com/kr/buy-sell/?in=")
	assert.Contains(t, url, "&search=")
	// both the query and the region id must be percent-encoded
	assert.NotContains(t, url, "자전거")
	assert.NotContains(t, url, "역삼동")

	url = f.BuildSearchURL("역삼동-6035", "bike", Filters{Category: "7"})
	assert.Contains(t, url, "&category_id=7")

	url = f.BuildSearchURL("역삼동-6035", "bike", Filters{MinPrice: "1000", MaxPrice: "50000"})
	assert.Contains(t, url, "&price=1000__50000")

	url = f.BuildSearchURL("역삼동-6035", "bike", Filters{MinPrice: "1000"})
	assert.Contains(t, url, "&price=1000__")

	url = f.BuildSearchURL("역삼동-6035", "bike", Filters{MaxPrice: "50000"})
	assert.Contains(t, url, "&price=__50000")

	// an inverted range is passed through untouched
	url = f.BuildSearchURL("역삼동-6035", "bike", Filters{MinPrice: "50000", MaxPrice: "1000"})
	assert.Contains(t, url, "&price=50000__1000")
}

func TestFetchSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "자전거", r.URL.Query().Get("search"))
		assert.Equal(t, "역삼동-6035", r.URL.Query().Get("in"))
		w.Write([]byte("<html><body><p>ok</p></body></html>"))
	}))
	defer server.Close()

	f := NewFetcher(server.URL, 10*time.Second)
	doc, err := f.Fetch(context.Background(), "역삼동-6035", "자전거", Filters{})
	assert.NoError(t, err)
	assert.Equal(t, "ok", doc.Find("p").Text())
}

func TestFetchStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	f := NewFetcher(server.URL, 10*time.Second)
	_, err := f.Fetch(context.Background(), "역삼동-6035", "자전거", Filters{})
	assert.Error(t, err)

	var searchErr *errs.SearchError
	assert.True(t, errors.As(err, &searchErr))
	assert.Equal(t, errs.ErrorTypeStatus, searchErr.Type)
	assert.Equal(t, "역삼동-6035", searchErr.Region)
}

func TestFetchNetworkError(t *testing.T) {
	f := NewFetcher("http://127.0.0.1:1", 1*time.Second)
	_, err := f.Fetch(context.Background(), "역삼동-6035", "자전거", Filters{})
	assert.Error(t, err)

	var searchErr *errs.SearchError
	assert.True(t, errors.As(err, &searchErr))
	assert.Equal(t, errs.ErrorTypeNetwork, searchErr.Type)
	assert.True(t, searchErr.IsRetryable())
}

func TestFetchCancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Second)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := NewFetcher(server.URL, 10*time.Second)
	_, err := f.Fetch(ctx, "역삼동-6035", "자전거", Filters{})
	assert.Error(t, err)
}
