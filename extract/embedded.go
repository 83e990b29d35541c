package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	// InitialData is the listing/watch page data assignment.
	InitialData = "ytInitialData"
	// InitialPlayerResponse is the watch page player assignment.
	InitialPlayerResponse = "ytInitialPlayerResponse"
)

// Embedded finds the object literal assigned to name inside text and decodes
// it. It reports false when name is absent or no span decodes.
func Embedded(text, name string) (Value, bool) {
	if name == "" || !strings.Contains(text, name) {
		return Value{}, false
	}
	if v, ok := matchAssignment(text, name); ok {
		return v, true
	}
	return scanObject(text, name)
}

// FromHTML looks for name inside each <script> element first and only then
// scans the whole document, so markup elsewhere on the page cannot shift the
// brace scan.
func FromHTML(html, name string) (Value, bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err == nil {
		var found Value
		doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
			body := s.Text()
			if !strings.Contains(body, name) {
				return true
			}
			if v, ok := Embedded(body, name); ok {
				found = v
				return false
			}
			return true
		})
		if found.Exists() {
			return found, true
		}
	}
	return Embedded(html, name)
}

func assignmentPatterns(name string) []*regexp.Regexp {
	quoted := regexp.QuoteMeta(name)
	return []*regexp.Regexp{
		regexp.MustCompile(`(?s)(?:var\s+)?` + quoted + `\s*=\s*(\{.*?\});`),
		regexp.MustCompile(`(?s)\[\s*["']` + quoted + `["']\s*\]\s*=\s*(\{.*?\});`),
	}
}

func matchAssignment(text, name string) (Value, bool) {
	for _, re := range assignmentPatterns(name) {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if v, ok := Decode([]byte(m[1])); ok {
			return v, true
		}
	}
	return Value{}, false
}

func scanObject(text, name string) (Value, bool) {
	idx := strings.Index(text, name)
	if idx < 0 {
		return Value{}, false
	}
	start := strings.IndexByte(text[idx:], '{')
	if start < 0 {
		return Value{}, false
	}
	start += idx
	end, ok := objectEnd(text, start)
	if !ok {
		return Value{}, false
	}
	return Decode([]byte(text[start : end+1]))
}

// objectEnd returns the index of the brace closing the object opened at
// text[start]. Braces inside quoted strings do not count.
func objectEnd(text string, start int) (int, bool) {
	depth := 0
	var quote byte
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if quote != 0 {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == quote:
				quote = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			quote = c
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}
