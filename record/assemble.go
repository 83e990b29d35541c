// Package record merges listing and detail signals into output records.
package record

import (
	"net/url"
	"strings"
	"time"

	"github.com/aluiziolira/go-scrape-streams/classify"
	"github.com/aluiziolira/go-scrape-streams/models"
	"github.com/aluiziolira/go-scrape-streams/parser"
)

// Assembler combines a tile and its optional detail into a Record.
type Assembler struct {
	classifier *classify.Classifier
	watchBase  *url.URL
}

// NewAssembler returns an assembler that builds watch URLs on watchBase's
// scheme and host.
func NewAssembler(classifier *classify.Classifier, watchBase *url.URL) *Assembler {
	if classifier == nil {
		classifier = classify.NewClassifier(classify.DefaultRules())
	}
	return &Assembler{classifier: classifier, watchBase: watchBase}
}

// WatchURL returns the item page URL for a video id.
func (a *Assembler) WatchURL(id string) string {
	u := url.URL{Scheme: "https", Host: "www.youtube.com", Path: "/watch"}
	if a.watchBase != nil && a.watchBase.Host != "" {
		u.Scheme = a.watchBase.Scheme
		u.Host = a.watchBase.Host
	}
	u.RawQuery = url.Values{"v": {id}}.Encode()
	return u.String()
}

// Assemble builds the record for tile. Detail values win when resolved,
// tile values come next, and zero values fill the rest. detail may be nil.
func (a *Assembler) Assemble(tile models.ItemTile, detail *models.ItemDetail, status models.Status, now time.Time) models.Record {
	if detail == nil {
		detail = &models.ItemDetail{}
	}

	title := strings.TrimSpace(detail.Title.Or(tile.Title))
	if title == "" {
		title = tile.Title
	}

	views := detail.Views.Or(parser.ParseCount(tile.ViewCountText))
	duration := detail.DurationSeconds.Or(parser.ParseDuration(tile.LengthText))
	likes := detail.Likes.Or(0)
	comments := detail.Comments.Or(0)

	description := detail.Description.Or(tile.DescriptionSnippet)
	published := parser.ResolvePublished(detail.UploadDate, tile.PublishedText, now)

	if status == "" {
		status = models.StatusUnknown
	}
	category := a.classifier.Classify(title, description)

	return models.Record{
		ID:                 tile.ID,
		Title:              title,
		Category:           category.Label,
		CategorySource:     string(category.Stage),
		Status:             status,
		PublishedDate:      published.Date,
		PublishedTime:      published.Clock,
		DaysSincePublished: published.DayOffset,
		PublishSource:      published.Source,
		Views:              views,
		Likes:              likes,
		Comments:           comments,
		DurationSeconds:    duration,
		URL:                a.WatchURL(tile.ID),
		ScrapedAt:          now,
		Metrics:            Derive(views, likes, comments, duration, published.DayOffset),
	}
}
