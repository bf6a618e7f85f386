package crawler

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/on1659/DanggeunSearch/helpers"
	errs "github.com/on1659/DanggeunSearch/pkg/errors"
)

const searchPath = "/kr/buy-sell/"

// Fetcher retrieves one server-rendered search page per region
type Fetcher struct {
	BaseURL string
	Client  *http.Client
}

// NewFetcher creates a new fetcher against the given site base URL
func NewFetcher(baseURL string, timeout time.Duration) *Fetcher {
	return &Fetcher{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: timeout},
	}
}

// BuildSearchURL builds the per-region search URL. Query and region id are
// percent-encoded; the price expression has three forms: min__max, min__
// and __max.
func (f *Fetcher) BuildSearchURL(regionID, query string, filters Filters) string {
	var b strings.Builder
	b.WriteString(f.BaseURL)
	b.WriteString(searchPath)
	b.WriteString("?in=")
	b.WriteString(url.QueryEscape(regionID))
	b.WriteString("&search=")
	b.WriteString(url.QueryEscape(query))

	if filters.Category != "" {
		b.WriteString("&category_id=")
		b.WriteString(url.QueryEscape(filters.Category))
	}

	switch {
	case filters.MinPrice != "" && filters.MaxPrice != "":
		b.WriteString("&price=" + filters.MinPrice + "__" + filters.MaxPrice)
	case filters.MinPrice != "":
		b.WriteString("&price=" + filters.MinPrice + "__")
	case filters.MaxPrice != "":
		b.WriteString("&price=__" + filters.MaxPrice)
	}

	return b.String()
}

// Fetch performs a single GET for one region and parses the response into a
// document. One attempt only; the caller decides what a failed region means.
func (f *Fetcher) Fetch(ctx context.Context, regionID, query string, filters Filters) (*goquery.Document, error) {
	pageURL := f.BuildSearchURL(regionID, query, filters)

	body, status, err := helpers.FetchWithBrowserHeaders(ctx, f.Client, pageURL)
	if err != nil {
		if status == 0 {
			return nil, errs.NewNetwork(regionID, "failed to fetch search page", err)
		}
		return nil, errs.NewStatus(regionID, status)
	}

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, errs.NewParsing(regionID, "failed to parse search page", err)
	}

	return doc, nil
}
