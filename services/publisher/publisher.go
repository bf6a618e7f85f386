package publisher

import "time"

// SearchEvent describes one completed search, emitted for downstream
// consumers (trend dashboards, alerting) after every crawl
type SearchEvent struct {
	Query       string    `json:"query"`
	Regions     []string  `json:"regions"`
	ResultCount int       `json:"result_count"`
	ClientAddr  string    `json:"client_addr"`
	CacheHit    bool      `json:"cache_hit"`
	Timestamp   time.Time `json:"timestamp"`
}

// Publisher defines the interface for publishing search events
type Publisher interface {
	// PublishSearch publishes one search event
	PublishSearch(event SearchEvent) error

	// Close closes the publisher connection
	Close() error
}
