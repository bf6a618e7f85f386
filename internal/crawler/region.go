package crawler

import (
	"context"
	"time"

	"github.com/on1659/DanggeunSearch/logger"
)

// RegionCrawler crawls one region: fetch, extract, normalize. A region that
// fails contributes zero listings; it never aborts the overall search.
type RegionCrawler struct {
	fetcher *Fetcher
}

// NewRegionCrawler creates a new region crawler over the given fetcher
func NewRegionCrawler(fetcher *Fetcher) *RegionCrawler {
	return &RegionCrawler{fetcher: fetcher}
}

// Crawl returns the normalized listings for one region. Fetch failures are
// logged and swallowed; an unrecognized page yields zero listings.
func (c *RegionCrawler) Crawl(ctx context.Context, regionID, query string, filters Filters) []Listing {
	log := logger.ForRegion(regionID)

	doc, err := c.fetcher.Fetch(ctx, regionID, query, filters)
	if err != nil {
		log.Warn().Err(err).Str("query", query).Msg("Region fetch failed")
		return nil
	}

	outcome := ExtractArticles(doc)
	if len(outcome.Articles) == 0 {
		log.Debug().Str("query", query).Msg("No listings extracted")
		return nil
	}

	log.Debug().
		Str("strategy", outcome.Strategy).
		Int("count", len(outcome.Articles)).
		Msg("Extracted listings")

	now := time.Now()
	listings := make([]Listing, 0, len(outcome.Articles))
	for _, article := range outcome.Articles {
		listings = append(listings, NormalizeArticle(article, regionID, c.fetcher.BaseURL, now))
	}
	return listings
}
