// Package services turns free text into task fields.
package services

import (
	"errors"
	"regexp"
	"strconv"
	"time"

	"github.com/felixgeelhaar/priora/internal/productivity/domain/value_objects"
)

// Rule names reported in Candidate.Matches.
const (
	RuleLiteralDate = "literal_date"
	RuleTomorrow    = "tomorrow"
	RuleToday       = "today"
	RuleInDays      = "in_days"
	RuleHours       = "hours"
	RuleImportance  = "importance"
)

// Candidate holds the fields recognised in a piece of text. The title is the
// input text, unchanged.
type Candidate struct {
	Title          string              `json:"title"`
	DueDate        *value_objects.Date `json:"due_date"`
	EstimatedHours *float64            `json:"estimated_hours"`
	Importance     *int                `json:"importance"`
	Matches        []string            `json:"matches"`
	Ambiguous      bool                `json:"ambiguous"`
}

var (
	literalDatePattern = regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2})\b`)
	tomorrowPattern    = regexp.MustCompile(`(?i)\btomorrow\b`)
	todayPattern       = regexp.MustCompile(`(?i)\btoday\b`)
	inDaysPattern      = regexp.MustCompile(`(?i)\bin (\d+) days?\b`)
	hoursPattern       = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:hours?|h)\b`)
	importancePattern  = regexp.MustCompile(`(?i)\b(?:importance|imp)\s*(\d+)`)
)

// maxInDays keeps "in N days" within dates that YYYY-MM-DD can express.
const maxInDays = 3_000_000

// dateRule resolves a due date relative to today. ok is false when the rule does not apply.
type dateRule struct {
	name    string
	resolve func(text string, today value_objects.Date) (value_objects.Date, bool)
}

// dateRules run in order; a later match overrides an earlier one.
var dateRules = []dateRule{
	{name: RuleLiteralDate, resolve: func(text string, _ value_objects.Date) (value_objects.Date, bool) {
		m := literalDatePattern.FindStringSubmatch(text)
		if m == nil {
			return value_objects.Date{}, false
		}
		d, err := value_objects.ParseDate(m[1])
		return d, err == nil
	}},
	{name: RuleTomorrow, resolve: func(text string, today value_objects.Date) (value_objects.Date, bool) {
		return today.AddDays(1), tomorrowPattern.MatchString(text)
	}},
	{name: RuleToday, resolve: func(text string, today value_objects.Date) (value_objects.Date, bool) {
		return today, todayPattern.MatchString(text)
	}},
	{name: RuleInDays, resolve: func(text string, today value_objects.Date) (value_objects.Date, bool) {
		m := inDaysPattern.FindStringSubmatch(text)
		if m == nil {
			return value_objects.Date{}, false
		}
		n, err := strconv.Atoi(m[1])
		if err != nil || n > maxInDays {
			return value_objects.Date{}, false
		}
		d := today.AddDays(n)
		return d, d.Time().Year() <= 9999
	}},
}

// Extract recognises a due date, an effort estimate and an importance in text.
// Fields that are not mentioned stay nil.
func Extract(text string, now time.Time) Candidate {
	c := Candidate{Title: text, Matches: []string{}}
	today := value_objects.DateOf(now)

	dates := 0
	for _, rule := range dateRules {
		d, ok := rule.resolve(text, today)
		if !ok {
			continue
		}
		dates++
		c.DueDate = &d
		c.Matches = append(c.Matches, rule.name)
	}
	c.Ambiguous = dates > 1

	if m := hoursPattern.FindStringSubmatch(text); m != nil {
		if h, err := strconv.ParseFloat(m[1], 64); err == nil {
			c.EstimatedHours = &h
			c.Matches = append(c.Matches, RuleHours)
		}
	}

	if m := importancePattern.FindStringSubmatch(text); m != nil {
		n, err := strconv.Atoi(m[1])
		if errors.Is(err, strconv.ErrRange) {
			n, err = value_objects.MaxImportance, nil
		}
		if err == nil {
			n = value_objects.NewImportance(n).Int()
			c.Importance = &n
			c.Matches = append(c.Matches, RuleImportance)
		}
	}
	return c
}
