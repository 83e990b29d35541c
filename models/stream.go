// Package models defines data structures for the scraper.
package models

import "time"

// Status is the broadcast state assigned to an item.
type Status string

const (
	// StatusWasLive marks a confirmed past broadcast.
	StatusWasLive Status = "was_live"
	// StatusUpcoming marks a scheduled broadcast that has not happened yet.
	StatusUpcoming Status = "upcoming"
	// StatusUnknown is used when no signal decides either way.
	StatusUnknown Status = "unknown"
)

// UnknownCategory is the label assigned when no classification rule matches.
const UnknownCategory = "Unknown"

// RawPage is a fetched page body plus where it came from.
type RawPage struct {
	URL        string
	Body       string
	StatusCode int
}

// ItemTile is one entry of a listing page as the embedded data describes it.
type ItemTile struct {
	ID                   string
	Title                string
	ViewCountText        string
	LengthText           string
	PublishedText        string
	DescriptionSnippet   string
	Badges               []string
	OverlayLabels        []string
	HasUpcomingEvent     bool
	FromCompletedListing bool
}

// ItemDetail holds the signals read from an item's own page.
type ItemDetail struct {
	Title           Field[string]
	Description     Field[string]
	UploadDate      Field[string]
	Views           Field[int64]
	Likes           Field[int64]
	Comments        Field[int64]
	DurationSeconds Field[int]
}

// NeedsCounters reports whether likes or comments are still missing.
func (d *ItemDetail) NeedsCounters() bool {
	if d == nil {
		return true
	}
	return !d.Likes.OK || !d.Comments.OK
}

// Metrics are the ratios derived from a record's counters.
type Metrics struct {
	EngagementScore   int64   `json:"engagement_score"`
	DurationMinutes   float64 `json:"duration_minutes"`
	ViewsPerMinute    float64 `json:"views_per_minute"`
	ViewsPerDay       float64 `json:"views_per_day"`
	EngagementPerView float64 `json:"engagement_per_view"`
	LikeRate          float64 `json:"like_rate"`
	CommentRate       float64 `json:"comment_rate"`
}

// Record is the final per-item output row.
type Record struct {
	ID                 string        `json:"video_id"`
	Title              string        `json:"title"`
	Category           string        `json:"teacher_name"`
	CategorySource     string        `json:"category_source"`
	Status             Status        `json:"live_status"`
	PublishedDate      string        `json:"published_date"`
	PublishedTime      Field[string] `json:"published_time"`
	DaysSincePublished int           `json:"days_since_published"`
	PublishSource      string        `json:"publish_source"`
	Views              int64         `json:"views"`
	Likes              int64         `json:"likes"`
	Comments           int64         `json:"comments"`
	DurationSeconds    int           `json:"duration_seconds"`
	URL                string        `json:"url"`
	ScrapedAt          time.Time     `json:"scraped_at"`
	Metrics
}

// ScraperResult holds the overall result of a scraping run.
type ScraperResult struct {
	ListingURL      string
	StartTime       time.Time
	EndTime         time.Time
	TilesSeen       int
	TotalCount      int
	SkippedByReason map[string]int
	DetailFailures  int
	ErrorCount      int
	FailedURLs      []string
	ErrorsByType    map[string]int
	RetryCount      int
	RequestCount    int
}
