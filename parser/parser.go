package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aluiziolira/go-scrape-streams/models"
)

// ValidateRecord ensures the record can be written and de-duplicated.
func ValidateRecord(r *models.Record) error {
	if r == nil {
		return fmt.Errorf("record is nil")
	}
	if strings.TrimSpace(r.ID) == "" {
		return fmt.Errorf("record missing video id")
	}
	if strings.TrimSpace(r.URL) == "" {
		return fmt.Errorf("record missing url for %s", r.ID)
	}
	return nil
}

// ParseCount keeps only the digits of a display count such as "1,234 likes".
// Text without digits, or too large to fit, yields 0.
func ParseCount(text string) int64 {
	var b strings.Builder
	for _, r := range text {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0
	}
	n, err := strconv.ParseInt(b.String(), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// ParseDuration converts "h:mm:ss", "m:ss" or "s" into seconds. Anything
// else, including the LIVE marker, yields 0.
func ParseDuration(text string) int {
	text = strings.TrimSpace(text)
	if text == "" || strings.EqualFold(text, "live") {
		return 0
	}

	parts := strings.Split(text, ":")
	if len(parts) > 3 {
		return 0
	}
	total := 0
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 {
			return 0
		}
		total = total*60 + n
	}
	return total
}
