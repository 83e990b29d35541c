// Package classify assigns category and broadcast-status labels to items
// from their free-text signals.
package classify

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Phrase maps a lowercase keyword to a canonical label.
type Phrase struct {
	Keyword string `yaml:"keyword"`
	Label   string `yaml:"label"`
}

// Subject maps a topical term to a label unless one of Excludes also
// appears in the same text.
type Subject struct {
	Term     string   `yaml:"term"`
	Excludes []string `yaml:"excludes,omitempty"`
	Label    string   `yaml:"label"`
}

// Rules are the ordered tables the cascade evaluates. Order is significant:
// the first matching entry of a table wins.
type Rules struct {
	Phrases  []Phrase  `yaml:"phrases"`
	Denylist []string  `yaml:"denylist"`
	Subjects []Subject `yaml:"subjects"`
}

// DefaultRules returns the built-in tables.
func DefaultRules() Rules {
	return Rules{
		Phrases: []Phrase{
			{Keyword: "danish", Label: "Danish Sir"},
			{Keyword: "deepali", Label: "Deepali Ma'am"},
			{Keyword: "isha", Label: "Isha Ma'am"},
			{Keyword: "kuldeep", Label: "Kuldeep Sir"},
			{Keyword: "kajal", Label: "Kajal Ma'am"},
			{Keyword: "mona", Label: "Mona Ma'am"},
			{Keyword: "pawan", Label: "Pawan Sir"},
			{Keyword: "narjis", Label: "Narjis Ma'am"},
			{Keyword: "sachin", Label: "Sachin Sir"},
			{Keyword: "abha", Label: "Abha Ma'am"},
		},
		Denylist: []string{
			"live", "class", "classes", "lecture", "session", "part", "day", "demo",
			"new", "full", "complete", "test", "quiz", "mock", "revision", "marathon",
			"batch", "series", "by", "with", "and", "the", "of", "for", "in", "all",
			"ctet", "reet", "htet", "tet", "exam", "exams", "pariksha", "teaching",
			"hindi", "english", "maths", "math", "evs", "cdp", "sst", "science",
			"sanskrit", "pedagogy", "questions", "pyq", "pyqs", "notes", "shorts",
		},
		Subjects: []Subject{
			{Term: "sanskrit", Label: "Sanskrit Faculty"},
			{Term: "hindi", Excludes: []string{"in hindi", "hindi medium"}, Label: "Hindi Faculty"},
			{Term: "english", Excludes: []string{"in english", "english medium"}, Label: "English Faculty"},
			{Term: "math", Label: "Maths Faculty"},
			{Term: "social science", Label: "Social Studies Faculty"},
			{Term: "sst", Label: "Social Studies Faculty"},
			{Term: "evs", Label: "EVS Faculty"},
			{Term: "environment", Label: "EVS Faculty"},
			{Term: "science", Excludes: []string{"social science", "computer science"}, Label: "Science Faculty"},
			{Term: "computer", Label: "Computer Faculty"},
			{Term: "child development", Label: "CDP Faculty"},
			{Term: "cdp", Label: "CDP Faculty"},
			{Term: "pedagogy", Label: "CDP Faculty"},
		},
	}
}

// LoadRules reads rule tables from a YAML file. Tables the file leaves empty
// keep their defaults.
func LoadRules(path string) (Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, fmt.Errorf("read rules file: %w", err)
	}

	var loaded Rules
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return Rules{}, fmt.Errorf("parse rules file: %w", err)
	}

	rules := DefaultRules()
	if len(loaded.Phrases) > 0 {
		rules.Phrases = loaded.Phrases
	}
	if len(loaded.Denylist) > 0 {
		rules.Denylist = loaded.Denylist
	}
	if len(loaded.Subjects) > 0 {
		rules.Subjects = loaded.Subjects
	}
	return rules, rules.Validate()
}

// Validate rejects entries that could never match or would match everything.
func (r Rules) Validate() error {
	for i, p := range r.Phrases {
		if strings.TrimSpace(p.Keyword) == "" || strings.TrimSpace(p.Label) == "" {
			return fmt.Errorf("phrase %d: keyword and label are required", i)
		}
	}
	for i, s := range r.Subjects {
		if strings.TrimSpace(s.Term) == "" || strings.TrimSpace(s.Label) == "" {
			return fmt.Errorf("subject %d: term and label are required", i)
		}
	}
	return nil
}
