package classify

import (
	"strings"

	"github.com/aluiziolira/go-scrape-streams/models"
)

var (
	scheduledMarkers = []string{"upcoming", "scheduled"}
	waitingMarkers   = []string{"waiting", "scheduled for"}
)

// upcomingSignals are checked in order; any hit marks the tile upcoming.
var upcomingSignals = []func(models.ItemTile) bool{
	func(t models.ItemTile) bool { return t.HasUpcomingEvent },
	func(t models.ItemTile) bool { return anyContains(t.Badges, scheduledMarkers) },
	func(t models.ItemTile) bool { return anyContains(t.OverlayLabels, scheduledMarkers) },
	func(t models.ItemTile) bool { return anyContains([]string{t.ViewCountText}, waitingMarkers) },
}

// Liveness decides whether a tile is a finished broadcast, a scheduled one,
// or neither. assumeCompleted lets tiles from a completed-broadcast listing
// count as finished when nothing says otherwise.
func Liveness(tile models.ItemTile, assumeCompleted bool) models.Status {
	for _, signal := range upcomingSignals {
		if signal(tile) {
			return models.StatusUpcoming
		}
	}
	if tile.FromCompletedListing && assumeCompleted {
		return models.StatusWasLive
	}
	return models.StatusUnknown
}

func anyContains(values, markers []string) bool {
	for _, v := range values {
		lower := strings.ToLower(v)
		for _, m := range markers {
			if strings.Contains(lower, m) {
				return true
			}
		}
	}
	return false
}
