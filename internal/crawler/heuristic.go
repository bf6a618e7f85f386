package crawler

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// containerSelectors is the ordered list of structural selectors for listing
// elements. The first selector matching at least one element wins.
var containerSelectors = []string{
	`a[href*="/buy-sell/"][href*="?in="], a[data-gtm="search_article"]`,
	`div[class*="article-card"], li[class*="card-item"]`,
	"article",
}

// Sub-selectors for field extraction inside a matched element
var fieldSelectors = struct {
	Title     string
	Price     string
	Region    string
	Time      string
	Thumbnail string
}{
	Title:     `[class*="title"], [class*="name"]`,
	Price:     `[class*="price"]`,
	Region:    `[class*="region"], [class*="location"], [class*="area"]`,
	Time:      `time, [class*="time"]`,
	Thumbnail: "img",
}

// lineRule assigns a text line to a field by content. Rules run in order
// against each unassigned line; the first match claims the line.
type lineRule struct {
	field string
	match func(string) bool
}

var lineRules = []lineRule{
	{"price", func(s string) bool {
		return strings.Contains(s, "원") || strings.Contains(s, "나눔") || strings.Contains(s, "₩")
	}},
	{"region", func(s string) bool {
		for _, suffix := range []string{"동", "읍", "면", "리", "가"} {
			if strings.HasSuffix(s, suffix) {
				return true
			}
		}
		return false
	}},
	{"time", func(s string) bool {
		if !strings.HasSuffix(s, "전") {
			return false
		}
		for _, unit := range []string{"방금", "초", "분", "시간", "일", "개월"} {
			if strings.Contains(s, unit) {
				return true
			}
		}
		return false
	}},
}

// extractFromDOM is the fallback strategy for pages without usable embedded
// state. It matches listing elements structurally and recovers fields by
// sub-selector first, line heuristics second.
func extractFromDOM(doc *goquery.Document) []RawArticle {
	var selections *goquery.Selection
	for _, selector := range containerSelectors {
		found := doc.Find(selector)
		if found.Length() > 0 {
			selections = found
			break
		}
	}

	if selections == nil {
		return nil
	}

	var articles []RawArticle
	selections.Each(func(_ int, s *goquery.Selection) {
		if article, ok := extractElement(s); ok {
			articles = append(articles, article)
		}
	})

	return articles
}

// extractElement recovers one article from a matched element. An element
// that yields neither a title nor a price after both passes is discarded.
func extractElement(s *goquery.Selection) (RawArticle, bool) {
	article := RawArticle{
		Title:      strings.TrimSpace(s.Find(fieldSelectors.Title).First().Text()),
		PriceText:  strings.TrimSpace(s.Find(fieldSelectors.Price).First().Text()),
		RegionName: strings.TrimSpace(s.Find(fieldSelectors.Region).First().Text()),
		TimeText:   strings.TrimSpace(s.Find(fieldSelectors.Time).First().Text()),
	}

	if src, ok := s.Find(fieldSelectors.Thumbnail).First().Attr("src"); ok {
		article.Thumbnail = strings.TrimSpace(src)
	}

	if href, ok := s.Attr("href"); ok {
		article.Href = strings.TrimSpace(href)
	} else if href, ok := s.Find("a[href]").First().Attr("href"); ok {
		article.Href = strings.TrimSpace(href)
	}

	applyLineHeuristics(s, &article)

	if article.Title == "" && article.PriceText == "" {
		return RawArticle{}, false
	}
	return article, true
}

// applyLineHeuristics fills fields the sub-selectors missed from the
// element's visible text, one line at a time.
func applyLineHeuristics(s *goquery.Selection, article *RawArticle) {
	var lines []string
	for _, line := range strings.Split(s.Text(), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}

	for _, line := range lines {
		for _, rule := range lineRules {
			if !rule.match(line) {
				continue
			}
			switch rule.field {
			case "price":
				if article.PriceText == "" {
					article.PriceText = line
				}
			case "region":
				if article.RegionName == "" {
					article.RegionName = line
				}
			case "time":
				if article.TimeText == "" {
					article.TimeText = line
				}
			}
			break
		}
	}

	// Last resort for the title: the first line that was not claimed as
	// price, region or time.
	if article.Title == "" {
		for _, line := range lines {
			if line == article.PriceText || line == article.RegionName || line == article.TimeText {
				continue
			}
			article.Title = line
			break
		}
	}
}
