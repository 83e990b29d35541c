package record

import "github.com/aluiziolira/go-scrape-streams/models"

// Derive computes the ratio metrics for a record's counters. Every ratio with
// a non-positive denominator is 0, except views per day, which falls back to
// the raw view count when the item is less than a day old.
func Derive(views, likes, comments int64, durationSeconds, dayOffset int) models.Metrics {
	m := models.Metrics{
		EngagementScore: likes + comments,
	}

	if durationSeconds > 0 {
		m.DurationMinutes = float64(durationSeconds) / 60
	}
	if m.DurationMinutes > 0 {
		m.ViewsPerMinute = float64(views) / m.DurationMinutes
	}

	if dayOffset > 0 {
		m.ViewsPerDay = float64(views) / float64(dayOffset)
	} else {
		m.ViewsPerDay = float64(views)
	}

	if views > 0 {
		m.EngagementPerView = float64(m.EngagementScore) / float64(views)
		m.LikeRate = float64(likes) / float64(views)
		m.CommentRate = float64(comments) / float64(views)
	}
	return m
}
