package crawler

import "github.com/PuerkitoBio/goquery"

// Extraction strategy names, reported in the outcome for logging
const (
	StrategyEmbeddedState = "embedded-state"
	StrategyDOMHeuristic  = "dom-heuristic"
)

// extractStrategy is one way of recovering listings from a page
type extractStrategy struct {
	Name    string
	Extract func(doc *goquery.Document) []RawArticle
}

// Strategies in priority order; the first returning at least one article wins
var extractStrategies = []extractStrategy{
	{Name: StrategyEmbeddedState, Extract: extractEmbeddedState},
	{Name: StrategyDOMHeuristic, Extract: extractFromDOM},
}

// ExtractionOutcome reports which strategy produced the articles. Strategy
// is empty when no strategy matched; that is the "page unrecognized or truly
// empty" case, which callers treat as zero results, not as a failure.
type ExtractionOutcome struct {
	Strategy string
	Articles []RawArticle
}

// ExtractArticles tries each strategy in order and stops at the first
// non-empty result. It never fails: unrecognized structure degrades to an
// empty outcome.
func ExtractArticles(doc *goquery.Document) ExtractionOutcome {
	for _, strategy := range extractStrategies {
		articles := strategy.Extract(doc)
		if len(articles) > 0 {
			return ExtractionOutcome{Strategy: strategy.Name, Articles: articles}
		}
	}
	return ExtractionOutcome{}
}
