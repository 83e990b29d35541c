package classify

import (
	"regexp"
	"strings"

	"github.com/aluiziolira/go-scrape-streams/models"
)

// Stage names the cascade step that produced a label.
type Stage string

const (
	StagePhrase      Stage = "phrase"
	StageTrailing    Stage = "trailing_name"
	StageSubject     Stage = "subject"
	StageDescription Stage = "description"
	StageDefault     Stage = "default"
)

// Match is the label chosen for an item and where it came from.
type Match struct {
	Label string
	Stage Stage
}

// trailingNameRe captures one to three words after the last '|' or '-' that
// ends a title, e.g. "Maths Live | Pawan Sir".
var trailingNameRe = regexp.MustCompile(`[|\-]\s*([\p{L}][\p{L}.']*(?:\s+[\p{L}][\p{L}.']*){0,2})\s*$`)

const minTrailingNameLen = 3

// Classifier runs the category cascade over a fixed set of rules.
// It holds no mutable state and is safe for concurrent use.
type Classifier struct {
	rules Rules
	deny  map[string]struct{}
}

// NewClassifier builds a classifier from rules.
func NewClassifier(rules Rules) *Classifier {
	deny := make(map[string]struct{}, len(rules.Denylist))
	for _, word := range rules.Denylist {
		deny[strings.ToLower(strings.TrimSpace(word))] = struct{}{}
	}
	return &Classifier{rules: rules, deny: deny}
}

// Category returns only the label of Classify.
func (c *Classifier) Category(title, description string) string {
	return c.Classify(title, description).Label
}

// Classify evaluates the stages in order and returns the first hit. It never
// fails; when nothing matches the label is models.UnknownCategory.
func (c *Classifier) Classify(title, description string) Match {
	lowerTitle := strings.ToLower(title)

	if label, ok := c.matchPhrase(lowerTitle); ok {
		return Match{Label: label, Stage: StagePhrase}
	}
	if label, ok := c.matchTrailingName(title); ok {
		return Match{Label: label, Stage: StageTrailing}
	}
	if label, ok := c.matchSubject(lowerTitle); ok {
		return Match{Label: label, Stage: StageSubject}
	}
	if description != "" {
		if label, ok := c.matchPhrase(strings.ToLower(description)); ok {
			return Match{Label: label, Stage: StageDescription}
		}
	}
	return Match{Label: models.UnknownCategory, Stage: StageDefault}
}

func (c *Classifier) matchPhrase(lower string) (string, bool) {
	for _, p := range c.rules.Phrases {
		if strings.Contains(lower, strings.ToLower(p.Keyword)) {
			return p.Label, true
		}
	}
	return "", false
}

func (c *Classifier) matchTrailingName(title string) (string, bool) {
	m := trailingNameRe.FindStringSubmatch(strings.TrimSpace(title))
	if m == nil {
		return "", false
	}
	name := strings.TrimSpace(m[1])
	if len([]rune(name)) < minTrailingNameLen {
		return "", false
	}
	for _, word := range strings.Fields(name) {
		if _, denied := c.deny[strings.ToLower(word)]; denied {
			return "", false
		}
	}
	return name, true
}

func (c *Classifier) matchSubject(lower string) (string, bool) {
	for _, s := range c.rules.Subjects {
		if !strings.Contains(lower, strings.ToLower(s.Term)) {
			continue
		}
		if containsAny(lower, s.Excludes) {
			continue
		}
		return s.Label, true
	}
	return "", false
}

func containsAny(lower string, terms []string) bool {
	for _, term := range terms {
		if term != "" && strings.Contains(lower, strings.ToLower(term)) {
			return true
		}
	}
	return false
}
