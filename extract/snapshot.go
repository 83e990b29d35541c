package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/aluiziolira/go-scrape-streams/models"
	"github.com/aluiziolira/go-scrape-streams/parser"
)

const (
	likeButtonSelector   = `like-button-view-model button[aria-label], #segmented-like-button button[aria-label]`
	commentCountSelector = `ytd-comments-header-renderer #count, #comments #count`
)

// snapshotCounters reads like and comment counts from rendered markup, or
// from plain rendered text when the snapshot carries no elements.
func snapshotCounters(snapshot string) (models.Field[int64], models.Field[int64]) {
	likes := models.Unresolved[int64]()
	comments := models.Unresolved[int64]()

	text := snapshot
	if strings.Contains(snapshot, "<") {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(snapshot))
		if err == nil {
			doc.Find(likeButtonSelector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
				label, _ := s.Attr("aria-label")
				if raw, ok := firstGroup(likesA11yRe, label); ok {
					likes = models.Resolved(parser.ParseCount(raw))
					return false
				}
				return true
			})
			if count := strings.TrimSpace(doc.Find(commentCountSelector).First().Text()); count != "" {
				if raw, ok := firstGroup(snapshotCommentRe, count); ok {
					comments = models.Resolved(parser.ParseCount(raw))
				}
			}
			text = doc.Text()
		}
	}

	if !likes.OK {
		if raw, ok := firstGroup(snapshotLikesRe, text); ok {
			likes = models.Resolved(parser.ParseCount(raw))
		}
	}
	if !comments.OK {
		if raw, ok := firstGroup(snapshotCommentRe, text); ok {
			comments = models.Resolved(parser.ParseCount(raw))
		}
	}
	return likes, comments
}
