package extract

import (
	"strings"

	"github.com/aluiziolira/go-scrape-streams/models"
)

// Tiles walks a listing page's initial data and returns its video tiles in
// page order. completed marks tiles sourced from a listing that only holds
// finished broadcasts.
func Tiles(data Value, completed bool) []models.ItemTile {
	var tiles []models.ItemTile
	tabs := data.Get("contents", "twoColumnBrowseResultsRenderer", "tabs")
	tabs.Each(func(_ int, tab Value) {
		if len(tiles) > 0 {
			return
		}
		content := tab.Get("tabRenderer", "content")
		for _, renderer := range tileRenderers(content) {
			tiles = append(tiles, tileFromRenderer(renderer, completed))
		}
	})
	return tiles
}

// tileRenderers collects videoRenderer-shaped nodes from the layouts the
// channel pages have been observed to use.
func tileRenderers(content Value) []Value {
	var out []Value
	content.Get("richGridRenderer", "contents").Each(func(_ int, item Value) {
		if vr := item.Get("richItemRenderer", "content", "videoRenderer"); vr.Kind() == Mapping {
			out = append(out, vr)
		}
	})
	if len(out) > 0 {
		return out
	}

	content.Get("sectionListRenderer", "contents").Each(func(_ int, section Value) {
		section.Get("itemSectionRenderer", "contents").Each(func(_ int, inner Value) {
			inner.Get("gridRenderer", "items").Each(func(_ int, item Value) {
				if vr := item.Get("gridVideoRenderer"); vr.Kind() == Mapping {
					out = append(out, vr)
				}
			})
		})
	})
	return out
}

func tileFromRenderer(vr Value, completed bool) models.ItemTile {
	tile := models.ItemTile{
		ID:                   vr.Get("videoId").String(""),
		Title:                strings.TrimSpace(Text(vr.Get("title"))),
		ViewCountText:        Text(vr.Get("viewCountText")),
		LengthText:           Text(vr.Get("lengthText")),
		PublishedText:        Text(vr.Get("publishedTimeText")),
		DescriptionSnippet:   Text(vr.Get("descriptionSnippet")),
		HasUpcomingEvent:     vr.Get("upcomingEventData").Exists(),
		FromCompletedListing: completed,
	}

	vr.Get("badges").Each(func(_ int, badge Value) {
		if label := badge.Get("metadataBadgeRenderer", "label").String(""); label != "" {
			tile.Badges = append(tile.Badges, label)
		}
	})

	vr.Get("thumbnailOverlays").Each(func(_ int, overlay Value) {
		status := overlay.Get("thumbnailOverlayTimeStatusRenderer")
		if style := status.Get("style").String(""); style != "" {
			tile.OverlayLabels = append(tile.OverlayLabels, style)
		}
		if text := Text(status.Get("text")); text != "" {
			tile.OverlayLabels = append(tile.OverlayLabels, text)
			// Grid tiles carry their length only in the overlay.
			if tile.LengthText == "" && strings.Contains(text, ":") {
				tile.LengthText = text
			}
		}
	})
	return tile
}
