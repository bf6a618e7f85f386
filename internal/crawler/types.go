package crawler

import "time"

// Filters represents the optional search filters forwarded to the upstream
// site. MinPrice and MaxPrice are kept as strings and embedded verbatim in
// the request URL; an inverted range is passed through unchecked because the
// upstream behavior for it is undefined.
type Filters struct {
	Category string
	MinPrice string
	MaxPrice string
}

// SearchRequest represents one search across a set of regions
type SearchRequest struct {
	Query   string
	Regions []string
	Filters Filters
}

// Listing represents a normalized marketplace listing. Link is the identity
// key: two listings with the same link are the same listing.
type Listing struct {
	Title     string `json:"title"`
	Price     string `json:"price"`
	Location  string `json:"location"`
	Time      string `json:"time"`
	Thumbnail string `json:"thumbnail"`
	Link      string `json:"link"`
	Region    string `json:"region"`
	Status    string `json:"status"`
}

// SearchResult represents the merged output of one aggregator run
type SearchResult struct {
	Query      string    `json:"query"`
	Regions    []string  `json:"regions"`
	TotalItems int       `json:"totalItems"`
	Items      []Listing `json:"items"`
	Timestamp  time.Time `json:"timestamp"`
}

// RawArticle is a listing as recovered from a page, before normalization.
// The embedded-state strategy fills the machine fields (Price, CreatedAt,
// BoostedAt); the DOM fallback can only recover display text and fills
// PriceText and TimeText instead.
type RawArticle struct {
	ID         string
	Title      string
	Price      string // numeric string, empty when unknown
	PriceText  string // pre-rendered price from the DOM fallback
	RegionName string
	CreatedAt  string
	BoostedAt  string
	TimeText   string // pre-rendered relative time from the DOM fallback
	Thumbnail  string
	Href       string
	Status     string
}
