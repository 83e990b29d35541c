package classify

import (
	"testing"

	"github.com/aluiziolira/go-scrape-streams/models"
)

func TestLiveness(t *testing.T) {
	tests := []struct {
		name            string
		tile            models.ItemTile
		assumeCompleted bool
		want            models.Status
	}{
		{
			name:            "upcoming event metadata",
			tile:            models.ItemTile{HasUpcomingEvent: true, FromCompletedListing: true},
			assumeCompleted: true,
			want:            models.StatusUpcoming,
		},
		{
			name:            "upcoming badge",
			tile:            models.ItemTile{Badges: []string{"New", "Upcoming"}},
			assumeCompleted: true,
			want:            models.StatusUpcoming,
		},
		{
			name:            "scheduled overlay",
			tile:            models.ItemTile{OverlayLabels: []string{"DEFAULT", "SCHEDULED"}},
			assumeCompleted: true,
			want:            models.StatusUpcoming,
		},
		{
			name:            "upcoming overlay style",
			tile:            models.ItemTile{OverlayLabels: []string{"UPCOMING"}, FromCompletedListing: true},
			assumeCompleted: true,
			want:            models.StatusUpcoming,
		},
		{
			name:            "waiting view text",
			tile:            models.ItemTile{ViewCountText: "12 waiting", FromCompletedListing: true},
			assumeCompleted: true,
			want:            models.StatusUpcoming,
		},
		{
			name:            "scheduled for view text",
			tile:            models.ItemTile{ViewCountText: "Scheduled for 3/25/25, 7:00 PM"},
			assumeCompleted: true,
			want:            models.StatusUpcoming,
		},
		{
			name:            "completed listing",
			tile:            models.ItemTile{ViewCountText: "2,500 views", FromCompletedListing: true},
			assumeCompleted: true,
			want:            models.StatusWasLive,
		},
		{
			name:            "completed listing without assumption",
			tile:            models.ItemTile{ViewCountText: "2,500 views", FromCompletedListing: true},
			assumeCompleted: false,
			want:            models.StatusUnknown,
		},
		{
			name:            "mixed listing",
			tile:            models.ItemTile{ViewCountText: "2,500 views"},
			assumeCompleted: true,
			want:            models.StatusUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Liveness(tt.tile, tt.assumeCompleted); got != tt.want {
				t.Fatalf("Liveness() = %q, want %q", got, tt.want)
			}
		})
	}
}
