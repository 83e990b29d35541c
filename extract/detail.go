package extract

import (
	"regexp"
	"strings"

	"github.com/aluiziolira/go-scrape-streams/models"
	"github.com/aluiziolira/go-scrape-streams/parser"
)

var (
	likesLabelRe      = regexp.MustCompile(`"label":"([\d,]+) likes"`)
	likesA11yRe       = regexp.MustCompile(`like this video along with ([\d,]+) other people`)
	commentCountRe    = regexp.MustCompile(`"commentCount":"(\d+)"`)
	commentSimpleRe   = regexp.MustCompile(`"commentCount":\{"simpleText":"([\d,]+)"\}`)
	uploadDateRe      = regexp.MustCompile(`"uploadDate":"([^"]+)"`)
	publishDateRe     = regexp.MustCompile(`"publishDate":"([^"]+)"`)
	snapshotLikesRe   = regexp.MustCompile(`(?i)([\d,]+)\s+likes?\b`)
	snapshotCommentRe = regexp.MustCompile(`(?i)([\d,]+)\s+comments?\b`)
)

// Detail reads an item's own page. Signals that cannot be found stay
// unresolved; the page is never rejected as a whole.
func Detail(html string) *models.ItemDetail {
	detail := &models.ItemDetail{}

	if player, ok := FromHTML(html, InitialPlayerResponse); ok {
		details := player.Get("videoDetails")
		if title := details.Get("title").String(""); title != "" {
			detail.Title = models.Resolved(title)
		}
		if desc := details.Get("shortDescription"); desc.Kind() == String {
			detail.Description = models.Resolved(desc.String(""))
		}
		if views := details.Get("viewCount").Int(-1); views >= 0 {
			detail.Views = models.Resolved(views)
		}
		if length := details.Get("lengthSeconds").Int(-1); length > 0 {
			detail.DurationSeconds = models.Resolved(int(length))
		}
		micro := player.Get("microformat", "playerMicroformatRenderer")
		for _, key := range []string{"uploadDate", "publishDate"} {
			if date := micro.Get(key).String(""); date != "" {
				detail.UploadDate = models.Resolved(date)
				break
			}
		}
	}

	if !detail.UploadDate.OK {
		for _, re := range []*regexp.Regexp{uploadDateRe, publishDateRe} {
			if date, ok := firstGroup(re, html); ok {
				detail.UploadDate = models.Resolved(date)
				break
			}
		}
	}

	detail.Likes = countFrom(html, likesLabelRe, likesA11yRe)
	detail.Comments = countFrom(html, commentCountRe, commentSimpleRe)
	return detail
}

// MergeSnapshot fills counters still missing from detail using a rendered
// DOM snapshot. Resolved values in detail are never replaced.
func MergeSnapshot(detail *models.ItemDetail, snapshot string) *models.ItemDetail {
	if detail == nil {
		detail = &models.ItemDetail{}
	}
	if strings.TrimSpace(snapshot) == "" {
		return detail
	}

	likes, comments := snapshotCounters(snapshot)
	if !detail.Likes.OK {
		detail.Likes = likes
	}
	if !detail.Comments.OK {
		detail.Comments = comments
	}
	return detail
}

func countFrom(text string, patterns ...*regexp.Regexp) models.Field[int64] {
	for _, re := range patterns {
		if raw, ok := firstGroup(re, text); ok {
			return models.Resolved(parser.ParseCount(raw))
		}
	}
	return models.Unresolved[int64]()
}

func firstGroup(re *regexp.Regexp, text string) (string, bool) {
	m := re.FindStringSubmatch(text)
	if m == nil || m[1] == "" {
		return "", false
	}
	return m[1], true
}
