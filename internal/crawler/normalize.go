package crawler

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/on1659/DanggeunSearch/helpers"
)

// Display markers used by the upstream site
const (
	PriceFree     = "나눔"
	PriceUnknown  = "가격 미정"
	TitleUnknown  = "제목 없음"
	BoostedPrefix = "끌올 "
	TimeJustNow   = "방금 전"
	CurrencyUnit  = "원"
)

// UnknownTimeRank is the recency rank of listings with no parseable time;
// it sorts them after everything else.
const UnknownTimeRank = 999999

var koreanPrinter = message.NewPrinter(language.Korean)

var (
	minutesRe = regexp.MustCompile(`(\d+)분`)
	hoursRe   = regexp.MustCompile(`(\d+)시간`)
	daysRe    = regexp.MustCompile(`(\d+)일`)
	monthsRe  = regexp.MustCompile(`(\d+)개월`)
)

// NormalizeArticle maps a raw record plus its source region into a canonical
// listing. now is the reference wall-clock time for relative-time rendering.
func NormalizeArticle(article RawArticle, regionID, baseURL string, now time.Time) Listing {
	title := article.Title
	if title == "" {
		title = TitleUnknown
	}

	regionName := article.RegionName
	if regionName == "" {
		// Region ids look like 역삼동-6035; the name part is the display
		// fallback.
		if name, err := helpers.GetSplitPart(regionID, "-", 0); err == nil {
			regionName = name
		} else {
			regionName = regionID
		}
	}

	return Listing{
		Title:     title,
		Price:     formatPrice(article),
		Location:  regionName,
		Time:      formatRelativeTime(article, now),
		Thumbnail: article.Thumbnail,
		Link:      canonicalLink(article, baseURL),
		Region:    regionName,
		Status:    article.Status,
	}
}

// formatPrice renders the price display string: zero is the free marker,
// any other number gets Korean digit grouping plus the currency suffix, and
// absence maps to a placeholder. A pre-rendered price from the DOM fallback
// is used verbatim.
func formatPrice(article RawArticle) string {
	if article.PriceText != "" {
		return article.PriceText
	}
	if article.Price == "" {
		return PriceUnknown
	}

	num, err := strconv.ParseFloat(article.Price, 64)
	if err != nil {
		return PriceUnknown
	}
	if num == 0 {
		return PriceFree
	}
	return koreanPrinter.Sprintf("%d", int64(num)) + CurrencyUnit
}

// formatRelativeTime renders the elapsed time since the listing was created,
// or since it was boosted when a boost timestamp is present. A boost that
// differs from the creation time gets the re-promotion prefix. Returns the
// empty string when no timestamp is available.
func formatRelativeTime(article RawArticle, now time.Time) string {
	if article.TimeText != "" {
		return article.TimeText
	}
	if article.CreatedAt == "" && article.BoostedAt == "" {
		return ""
	}

	ref := article.BoostedAt
	if ref == "" {
		ref = article.CreatedAt
	}
	t, err := time.Parse(time.RFC3339, ref)
	if err != nil {
		return ""
	}

	rendered := renderElapsed(now.Sub(t))
	if article.BoostedAt != "" && article.BoostedAt != article.CreatedAt {
		rendered = BoostedPrefix + rendered
	}
	return rendered
}

func renderElapsed(elapsed time.Duration) string {
	minutes := int(elapsed.Minutes())
	hours := int(elapsed.Hours())
	days := hours / 24

	switch {
	case minutes < 1:
		return TimeJustNow
	case minutes < 60:
		return strconv.Itoa(minutes) + "분 전"
	case hours < 24:
		return strconv.Itoa(hours) + "시간 전"
	case days < 30:
		return strconv.Itoa(days) + "일 전"
	default:
		return strconv.Itoa(days/30) + "개월 전"
	}
}

// canonicalLink prefers an absolute link from the record and otherwise
// synthesizes one from the site-relative identifier.
func canonicalLink(article RawArticle, baseURL string) string {
	if article.Href != "" {
		if strings.HasPrefix(article.Href, "http://") || strings.HasPrefix(article.Href, "https://") {
			return article.Href
		}
		return baseURL + ensureLeadingSlash(article.Href)
	}
	if article.ID != "" {
		return baseURL + ensureLeadingSlash(article.ID)
	}
	return ""
}

func ensureLeadingSlash(path string) string {
	if strings.HasPrefix(path, "/") {
		return path
	}
	return "/" + path
}

// ParseTimeToMinutes reparses a rendered relative-time string back into an
// approximate minute count for recency ordering. Unparseable or empty
// strings rank last.
func ParseTimeToMinutes(timeStr string) int {
	if timeStr == "" {
		return UnknownTimeRank
	}
	if strings.Contains(timeStr, "방금") || strings.Contains(timeStr, "초") {
		return 0
	}
	if m := minutesRe.FindStringSubmatch(timeStr); m != nil {
		n, _ := strconv.Atoi(m[1])
		return n
	}
	if m := hoursRe.FindStringSubmatch(timeStr); m != nil {
		n, _ := strconv.Atoi(m[1])
		return n * 60
	}
	if m := daysRe.FindStringSubmatch(timeStr); m != nil {
		n, _ := strconv.Atoi(m[1])
		return n * 1440
	}
	if m := monthsRe.FindStringSubmatch(timeStr); m != nil {
		n, _ := strconv.Atoi(m[1])
		return n * 43200
	}
	return UnknownTimeRank
}
