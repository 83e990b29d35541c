package record

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestDerive(t *testing.T) {
	m := Derive(2500, 100, 25, 2700, 5)

	if m.EngagementScore != 125 {
		t.Fatalf("engagement score = %d, want 125", m.EngagementScore)
	}
	if !almostEqual(m.DurationMinutes, 45) {
		t.Fatalf("duration minutes = %v, want 45", m.DurationMinutes)
	}
	if !almostEqual(m.ViewsPerMinute, 2500.0/45.0) {
		t.Fatalf("views per minute = %v, want %v", m.ViewsPerMinute, 2500.0/45.0)
	}
	if !almostEqual(m.ViewsPerDay, 500) {
		t.Fatalf("views per day = %v, want 500", m.ViewsPerDay)
	}
	if !almostEqual(m.EngagementPerView, 0.05) {
		t.Fatalf("engagement per view = %v, want 0.05", m.EngagementPerView)
	}
	if !almostEqual(m.LikeRate, 0.04) {
		t.Fatalf("like rate = %v, want 0.04", m.LikeRate)
	}
	if !almostEqual(m.CommentRate, 0.01) {
		t.Fatalf("comment rate = %v, want 0.01", m.CommentRate)
	}
}

func TestDeriveGuards(t *testing.T) {
	t.Run("zero views", func(t *testing.T) {
		m := Derive(0, 40, 12, 600, 3)
		if m.LikeRate != 0 || m.CommentRate != 0 || m.EngagementPerView != 0 {
			t.Fatalf("rates = %v/%v/%v, want all 0", m.LikeRate, m.CommentRate, m.EngagementPerView)
		}
		if m.EngagementScore != 52 {
			t.Fatalf("engagement score = %d, want 52", m.EngagementScore)
		}
	})

	t.Run("zero duration", func(t *testing.T) {
		m := Derive(900, 0, 0, 0, 3)
		if m.DurationMinutes != 0 || m.ViewsPerMinute != 0 {
			t.Fatalf("duration metrics = %v/%v, want 0/0", m.DurationMinutes, m.ViewsPerMinute)
		}
	})

	t.Run("negative duration", func(t *testing.T) {
		m := Derive(900, 0, 0, -30, 3)
		if m.DurationMinutes != 0 || m.ViewsPerMinute != 0 {
			t.Fatalf("duration metrics = %v/%v, want 0/0", m.DurationMinutes, m.ViewsPerMinute)
		}
	})

	t.Run("same day equals views", func(t *testing.T) {
		m := Derive(900, 0, 0, 60, 0)
		if m.ViewsPerDay != 900 {
			t.Fatalf("views per day = %v, want 900", m.ViewsPerDay)
		}
	})

	t.Run("future publish equals views", func(t *testing.T) {
		m := Derive(900, 0, 0, 60, -2)
		if m.ViewsPerDay != 900 {
			t.Fatalf("views per day = %v, want 900", m.ViewsPerDay)
		}
	})

	t.Run("no nan or inf", func(t *testing.T) {
		m := Derive(0, 0, 0, 0, 0)
		for name, v := range map[string]float64{
			"duration_minutes":    m.DurationMinutes,
			"views_per_minute":    m.ViewsPerMinute,
			"views_per_day":       m.ViewsPerDay,
			"engagement_per_view": m.EngagementPerView,
			"like_rate":           m.LikeRate,
			"comment_rate":        m.CommentRate,
		} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				t.Fatalf("%s = %v, want finite", name, v)
			}
		}
	})
}
