package crawler

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// The page serializes its client-side state as an inline script assigning a
// JSON document to window.__remixContext. The assignment shape and the key
// names below are undocumented and observed, not contracted.
const remixMarker = "window.__remixContext"

var remixAssignRe = regexp.MustCompile(`(?s)window\.__remixContext\s*=\s*(\{.+\})\s*;?\s*$`)

// Loader keys that are known to carry search results
var loaderRouteKeys = []string{
	"routes/kr.buy-sell._index",
	"routes/kr.buy-sell.s",
}

type remixContext struct {
	State struct {
		LoaderData map[string]json.RawMessage `json:"loaderData"`
	} `json:"state"`
}

type loaderPage struct {
	AllPage    *articleCollection `json:"allPage"`
	SearchPage *articleCollection `json:"searchPage"`
}

type articleCollection struct {
	FleamarketArticles []remixArticle `json:"fleamarketArticles"`
}

type remixArticle struct {
	ID        flexString `json:"id"`
	Title     string     `json:"title"`
	Price     flexString `json:"price"`
	Region    regionRef  `json:"region"`
	RegionID  regionRef  `json:"regionId"`
	CreatedAt string     `json:"createdAt"`
	BoostedAt string     `json:"boostedAt"`
	Thumbnail string     `json:"thumbnail"`
	Href      string     `json:"href"`
	Status    string     `json:"status"`
}

// flexString accepts a JSON string or number; the upstream state has shipped
// both over time.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		*f = ""
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var v string
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		*f = flexString(v)
		return nil
	}
	*f = flexString(s)
	return nil
}

// regionRef tolerates both the {"name": ...} object form and scalar forms
type regionRef struct {
	Name string `json:"name"`
}

func (r *regionRef) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if !strings.HasPrefix(s, "{") {
		r.Name = ""
		return nil
	}
	type alias regionRef
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		// unrecognized shape degrades to no name, never to a failure
		r.Name = ""
		return nil
	}
	r.Name = a.Name
	return nil
}

// extractEmbeddedState scans inline scripts for the remix-context assignment
// and pulls listings out of its loader data. Returns nil when the page does
// not carry usable embedded state.
func extractEmbeddedState(doc *goquery.Document) []RawArticle {
	var rc *remixContext

	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := s.Text()
		if !strings.Contains(text, remixMarker) {
			return true
		}
		if parsed, ok := strictParseRemixContext(text); ok {
			rc = parsed
			return false
		}
		if parsed, ok := tolerantParseRemixContext(text); ok {
			rc = parsed
			return false
		}
		return true
	})

	if rc == nil {
		return nil
	}

	return articlesFromRemix(rc)
}

// strictParseRemixContext extracts the JSON payload bounded by the assignment
// expression. First of the two recovery passes.
func strictParseRemixContext(text string) (*remixContext, bool) {
	match := remixAssignRe.FindStringSubmatch(text)
	if match == nil {
		return nil, false
	}

	var rc remixContext
	if err := json.Unmarshal([]byte(match[1]), &rc); err != nil {
		return nil, false
	}
	return &rc, true
}

// tolerantParseRemixContext is the best-effort second pass: take everything
// from the first brace and trim a trailing statement terminator.
func tolerantParseRemixContext(text string) (*remixContext, bool) {
	start := strings.Index(text, "{")
	if start < 0 {
		return nil, false
	}

	payload := strings.TrimRight(text[start:], "; \t\r\n")

	var rc remixContext
	if err := json.Unmarshal([]byte(payload), &rc); err != nil {
		return nil, false
	}
	return &rc, true
}

// articlesFromRemix walks the loader data for a result collection. The
// conventional route keys are tried first; when neither carries articles,
// every loader entry is scanned and the first non-empty collection wins.
func articlesFromRemix(rc *remixContext) []RawArticle {
	loaderData := rc.State.LoaderData
	if loaderData == nil {
		return nil
	}

	for _, key := range loaderRouteKeys {
		raw, ok := loaderData[key]
		if !ok {
			continue
		}
		if articles := articlesFromLoaderEntry(raw); len(articles) > 0 {
			return articles
		}
	}

	for _, raw := range loaderData {
		if articles := articlesFromLoaderEntry(raw); len(articles) > 0 {
			return articles
		}
	}

	return nil
}

func articlesFromLoaderEntry(raw json.RawMessage) []RawArticle {
	var page loaderPage
	if err := json.Unmarshal(raw, &page); err != nil {
		return nil
	}

	var remixArticles []remixArticle
	if page.AllPage != nil && len(page.AllPage.FleamarketArticles) > 0 {
		remixArticles = page.AllPage.FleamarketArticles
	} else if page.SearchPage != nil && len(page.SearchPage.FleamarketArticles) > 0 {
		remixArticles = page.SearchPage.FleamarketArticles
	}

	if len(remixArticles) == 0 {
		return nil
	}

	articles := make([]RawArticle, 0, len(remixArticles))
	for _, a := range remixArticles {
		regionName := a.Region.Name
		if regionName == "" {
			regionName = a.RegionID.Name
		}
		articles = append(articles, RawArticle{
			ID:         string(a.ID),
			Title:      a.Title,
			Price:      string(a.Price),
			RegionName: regionName,
			CreatedAt:  a.CreatedAt,
			BoostedAt:  a.BoostedAt,
			Thumbnail:  a.Thumbnail,
			Href:       a.Href,
			Status:     a.Status,
		})
	}
	return articles
}
