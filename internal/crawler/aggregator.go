package crawler

import (
	"context"
	"sort"
	"time"

	"github.com/on1659/DanggeunSearch/logger"
)

// Aggregator runs the region crawls for one search request, sequentially and
// with a pacing delay between regions. The sequencing is deliberate
// etiquette toward the upstream site; do not parallelize it.
type Aggregator struct {
	crawler *RegionCrawler
	delay   time.Duration
}

// NewAggregator creates a new aggregator with the given inter-region delay
func NewAggregator(crawler *RegionCrawler, delay time.Duration) *Aggregator {
	return &Aggregator{crawler: crawler, delay: delay}
}

// Run crawls every requested region in order, merges the results,
// deduplicates by link and sorts by recency. Cancelling the context aborts
// the in-flight fetch and skips the remaining regions; whatever was
// collected so far is still returned.
func (a *Aggregator) Run(ctx context.Context, req SearchRequest) SearchResult {
	log := logger.ForSearch()
	log.Info().
		Str("query", req.Query).
		Int("region_count", len(req.Regions)).
		Msg("Starting crawl")

	var all []Listing
	for i, regionID := range req.Regions {
		if ctx.Err() != nil {
			log.Warn().
				Err(ctx.Err()).
				Int("remaining", len(req.Regions)-i).
				Msg("Search cancelled, skipping remaining regions")
			break
		}

		listings := a.crawler.Crawl(ctx, regionID, req.Query, req.Filters)
		all = append(all, listings...)
		log.Debug().
			Str("region", regionID).
			Int("count", len(listings)).
			Msg("Region crawled")

		if i < len(req.Regions)-1 && !a.pace(ctx) {
			break
		}
	}

	items := dedupeByLink(all)
	sortByRecency(items)

	log.Info().
		Str("query", req.Query).
		Int("total_items", len(items)).
		Msg("Crawl finished")

	return SearchResult{
		Query:      req.Query,
		Regions:    req.Regions,
		TotalItems: len(items),
		Items:      items,
		Timestamp:  time.Now(),
	}
}

// pace waits out the inter-region delay; returns false when the context was
// cancelled while waiting.
func (a *Aggregator) pace(ctx context.Context) bool {
	if a.delay <= 0 {
		return true
	}
	timer := time.NewTimer(a.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// dedupeByLink keeps the first occurrence of each link in traversal order
func dedupeByLink(listings []Listing) []Listing {
	seen := make(map[string]bool, len(listings))
	unique := make([]Listing, 0, len(listings))
	for _, listing := range listings {
		if seen[listing.Link] {
			continue
		}
		seen[listing.Link] = true
		unique = append(unique, listing)
	}
	return unique
}

// sortByRecency orders listings most recent first. The rank comes from
// reparsing the rendered time string; ties keep their prior relative order.
func sortByRecency(listings []Listing) {
	type ranked struct {
		rank    int
		listing Listing
	}
	rankedListings := make([]ranked, len(listings))
	for i, listing := range listings {
		rankedListings[i] = ranked{rank: ParseTimeToMinutes(listing.Time), listing: listing}
	}
	sort.SliceStable(rankedListings, func(i, j int) bool {
		return rankedListings[i].rank < rankedListings[j].rank
	})
	for i, r := range rankedListings {
		listings[i] = r.listing
	}
}
