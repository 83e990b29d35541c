package extract

import (
	"testing"

	"github.com/aluiziolira/go-scrape-streams/models"
)

func TestDetailFromWatchPage(t *testing.T) {
	detail := Detail(readFixture(t, "watch.html"))

	if title, ok := detail.Title.Get(); !ok || title != "Maths Live | Pawan Sir" {
		t.Fatalf("title = %q/%v", title, ok)
	}
	if desc, ok := detail.Description.Get(); !ok || desc != "Fractions practice with Pawan Sir.\nNotes: {link}" {
		t.Fatalf("description = %q/%v", desc, ok)
	}
	if views, ok := detail.Views.Get(); !ok || views != 2571 {
		t.Fatalf("views = %d/%v, want 2571", views, ok)
	}
	if length, ok := detail.DurationSeconds.Get(); !ok || length != 2712 {
		t.Fatalf("duration = %d/%v, want 2712", length, ok)
	}
	if date, ok := detail.UploadDate.Get(); !ok || date != "2025-03-06T04:30:00-08:00" {
		t.Fatalf("upload date = %q/%v", date, ok)
	}
	if likes, ok := detail.Likes.Get(); !ok || likes != 184 {
		t.Fatalf("likes = %d/%v, want 184", likes, ok)
	}
	if comments, ok := detail.Comments.Get(); !ok || comments != 37 {
		t.Fatalf("comments = %d/%v, want 37", comments, ok)
	}
	if detail.NeedsCounters() {
		t.Fatalf("fully resolved detail should not need counters")
	}
}

func TestDetailEmptyPageLeavesFieldsUnresolved(t *testing.T) {
	detail := Detail("<html><body>nothing here</body></html>")

	if detail.Title.OK || detail.Description.OK || detail.UploadDate.OK {
		t.Fatalf("text fields should be unresolved: %+v", detail)
	}
	if detail.Views.OK || detail.Likes.OK || detail.Comments.OK || detail.DurationSeconds.OK {
		t.Fatalf("counters should be unresolved: %+v", detail)
	}
	if !detail.NeedsCounters() {
		t.Fatalf("expected counters to be needed")
	}
}

func TestDetailRegexFallbacks(t *testing.T) {
	tests := []struct {
		name         string
		html         string
		wantLikes    int64
		wantComments int64
		wantDate     string
	}{
		{
			name:         "accessibility likes and simple text comments",
			html:         `<script>x = {"a":"like this video along with 1,204 other people","commentCount":{"simpleText":"1,020"}}</script>`,
			wantLikes:    1204,
			wantComments: 1020,
		},
		{
			name:     "publish date only",
			html:     `{"publishDate":"2025-01-02"}`,
			wantDate: "2025-01-02",
		},
		{
			name:     "upload date wins over publish date",
			html:     `{"publishDate":"2025-01-02","uploadDate":"2025-01-01"}`,
			wantDate: "2025-01-01",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			detail := Detail(tt.html)
			if tt.wantLikes != 0 && detail.Likes.Or(-1) != tt.wantLikes {
				t.Fatalf("likes = %d, want %d", detail.Likes.Or(-1), tt.wantLikes)
			}
			if tt.wantComments != 0 && detail.Comments.Or(-1) != tt.wantComments {
				t.Fatalf("comments = %d, want %d", detail.Comments.Or(-1), tt.wantComments)
			}
			if tt.wantDate != "" && detail.UploadDate.Or("") != tt.wantDate {
				t.Fatalf("upload date = %q, want %q", detail.UploadDate.Or(""), tt.wantDate)
			}
		})
	}
}

func TestDetailIgnoresZeroLength(t *testing.T) {
	detail := Detail(`<script>var ytInitialPlayerResponse = {"videoDetails":{"lengthSeconds":"0","viewCount":"0"}};</script>`)
	if detail.DurationSeconds.OK {
		t.Fatalf("zero length should stay unresolved")
	}
	if views, ok := detail.Views.Get(); !ok || views != 0 {
		t.Fatalf("zero views is a real count, got %d/%v", views, ok)
	}
}

func TestMergeSnapshot(t *testing.T) {
	tests := []struct {
		name         string
		detail       *models.ItemDetail
		snapshot     string
		wantLikes    models.Field[int64]
		wantComments models.Field[int64]
	}{
		{
			name:   "rendered markup",
			detail: &models.ItemDetail{},
			snapshot: `<html><body>
<like-button-view-model><button aria-label="like this video along with 1,234 other people">1.2K</button></like-button-view-model>
<ytd-comments-header-renderer><h2 id="count"><span>56 Comments</span></h2></ytd-comments-header-renderer>
</body></html>`,
			wantLikes:    models.Resolved(int64(1234)),
			wantComments: models.Resolved(int64(56)),
		},
		{
			name:         "plain rendered text",
			detail:       nil,
			snapshot:     "1,234 likes 56 Comments",
			wantLikes:    models.Resolved(int64(1234)),
			wantComments: models.Resolved(int64(56)),
		},
		{
			name: "resolved values are kept",
			detail: &models.ItemDetail{
				Likes: models.Resolved(int64(10)),
			},
			snapshot:     "99 likes 3 comments",
			wantLikes:    models.Resolved(int64(10)),
			wantComments: models.Resolved(int64(3)),
		},
		{
			name:         "empty snapshot",
			detail:       &models.ItemDetail{},
			snapshot:     "   ",
			wantLikes:    models.Unresolved[int64](),
			wantComments: models.Unresolved[int64](),
		},
		{
			name:         "snapshot without counters",
			detail:       &models.ItemDetail{},
			snapshot:     "<div>Sign in to like videos</div>",
			wantLikes:    models.Unresolved[int64](),
			wantComments: models.Unresolved[int64](),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MergeSnapshot(tt.detail, tt.snapshot)
			if got == nil {
				t.Fatalf("MergeSnapshot returned nil")
			}
			if got.Likes != tt.wantLikes {
				t.Fatalf("likes = %+v, want %+v", got.Likes, tt.wantLikes)
			}
			if got.Comments != tt.wantComments {
				t.Fatalf("comments = %+v, want %+v", got.Comments, tt.wantComments)
			}
		})
	}
}
