package crawler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const testBaseURL = "https://www.daangn.com"

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "나눔", formatPrice(RawArticle{Price: "0"}))
	assert.Equal(t, "15,000원", formatPrice(RawArticle{Price: "15000"}))
	assert.Equal(t, "1,250,000원", formatPrice(RawArticle{Price: "1250000"}))
	assert.Equal(t, "가격 미정", formatPrice(RawArticle{}))
	assert.Equal(t, "가격 미정", formatPrice(RawArticle{Price: "abc"}))

	// pre-rendered price from the DOM fallback is kept verbatim
	assert.Equal(t, "8,000원", formatPrice(RawArticle{PriceText: "8,000원", Price: "9999"}))
}

func TestFormatRelativeTime(t *testing.T) {
	now := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)
	at := func(d time.Duration) string {
		return now.Add(-d).Format(time.RFC3339)
	}

	assert.Equal(t, "방금 전",
		formatRelativeTime(RawArticle{CreatedAt: at(30 * time.Second)}, now))
	assert.Equal(t, "5분 전",
		formatRelativeTime(RawArticle{CreatedAt: at(5 * time.Minute)}, now))
	assert.Equal(t, "1시간 전",
		formatRelativeTime(RawArticle{CreatedAt: at(90 * time.Minute)}, now))
	assert.Equal(t, "3일 전",
		formatRelativeTime(RawArticle{CreatedAt: at(3 * 24 * time.Hour)}, now))
	// 400 days is 13 months by integer division
	assert.Equal(t, "13개월 전",
		formatRelativeTime(RawArticle{CreatedAt: at(400 * 24 * time.Hour)}, now))

	// boosted timestamp wins and adds the re-promotion marker
	assert.Equal(t, "끌올 10분 전",
		formatRelativeTime(RawArticle{
			CreatedAt: at(48 * time.Hour),
			BoostedAt: at(10 * time.Minute),
		}, now))

	// a boost equal to the creation time is not a re-promotion
	same := at(10 * time.Minute)
	assert.Equal(t, "10분 전",
		formatRelativeTime(RawArticle{CreatedAt: same, BoostedAt: same}, now))

	// no timestamp renders empty
	assert.Equal(t, "", formatRelativeTime(RawArticle{}, now))
	assert.Equal(t, "", formatRelativeTime(RawArticle{CreatedAt: "not-a-time"}, now))

	// pre-rendered time from the DOM fallback is kept verbatim
	assert.Equal(t, "2시간 전", formatRelativeTime(RawArticle{TimeText: "2시간 전"}, now))
}

func TestCanonicalLink(t *testing.T) {
	assert.Equal(t, "https://elsewhere.example.com/item/1",
		canonicalLink(RawArticle{Href: "https://elsewhere.example.com/item/1"}, testBaseURL))
	assert.Equal(t, "https://www.daangn.com/kr/buy-sell/2",
		canonicalLink(RawArticle{Href: "/kr/buy-sell/2"}, testBaseURL))
	assert.Equal(t, "https://www.daangn.com/kr/buy-sell/3",
		canonicalLink(RawArticle{ID: "/kr/buy-sell/3"}, testBaseURL))
	assert.Equal(t, "", canonicalLink(RawArticle{}, testBaseURL))
}

func TestNormalizeArticle(t *testing.T) {
	now := time.Now()
	listing := NormalizeArticle(RawArticle{
		Title:     "자전거 팝니다",
		Price:     "15000",
		CreatedAt: now.Add(-30 * time.Second).Format(time.RFC3339),
		Thumbnail: "https://img.example.com/1.jpg",
		Href:      "/kr/buy-sell/1",
		Status:    "Ongoing",
	}, "역삼동-6035", testBaseURL, now)

	assert.Equal(t, "자전거 팝니다", listing.Title)
	assert.Equal(t, "15,000원", listing.Price)
	assert.Equal(t, "방금 전", listing.Time)
	assert.Equal(t, "https://www.daangn.com/kr/buy-sell/1", listing.Link)
	assert.Equal(t, "Ongoing", listing.Status)

	// region display name falls back to the id's name portion
	assert.Equal(t, "역삼동", listing.Region)
	assert.Equal(t, "역삼동", listing.Location)

	// explicit region name wins over the fallback
	named := NormalizeArticle(RawArticle{Title: "x", RegionName: "천호동"}, "역삼동-6035", testBaseURL, now)
	assert.Equal(t, "천호동", named.Region)

	// missing title gets the placeholder
	untitled := NormalizeArticle(RawArticle{Price: "100"}, "역삼동-6035", testBaseURL, now)
	assert.Equal(t, "제목 없음", untitled.Title)
}

func TestParseTimeToMinutes(t *testing.T) {
	assert.Equal(t, 0, ParseTimeToMinutes("방금 전"))
	assert.Equal(t, 0, ParseTimeToMinutes("30초 전"))
	assert.Equal(t, 5, ParseTimeToMinutes("5분 전"))
	assert.Equal(t, 120, ParseTimeToMinutes("2시간 전"))
	assert.Equal(t, 4320, ParseTimeToMinutes("3일 전"))
	assert.Equal(t, 86400, ParseTimeToMinutes("2개월 전"))
	assert.Equal(t, UnknownTimeRank, ParseTimeToMinutes(""))
	assert.Equal(t, UnknownTimeRank, ParseTimeToMinutes("언젠가"))

	// the boost marker does not change the rank
	assert.Equal(t, 10, ParseTimeToMinutes("끌올 10분 전"))
}
