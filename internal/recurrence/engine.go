package recurrence

import (
	"errors"
	"time"
)

// Rule describes a weekly recurrence: one weekday, an inclusive first day,
// and an optional inclusive last day.
type Rule struct {
	ID       string
	Weekday  time.Weekday
	StartsOn time.Time
	EndsOn   *time.Time
}

// GenerateOptions defines optional range bounds for occurrence generation.
type GenerateOptions struct {
	RangeStart *time.Time
	RangeEnd   *time.Time
}

// Occurrence represents a generated instance of a recurrence rule.
type Occurrence struct {
	RuleID string
	Date   time.Time
}

// Engine expands recurrence rules into occurrences.
type Engine struct{}

// NewEngine constructs an Engine.
func NewEngine() *Engine {
	return &Engine{}
}

// ErrInvalidWeekday indicates the rule weekday is outside Sunday..Saturday.
var ErrInvalidWeekday = errors.New("recurrence: weekday must be between 0 (Sunday) and 6 (Saturday)")

// ErrInvalidWindow indicates the generation window is unbounded.
var ErrInvalidWindow = errors.New("recurrence: generation window requires an end bound")

// Day truncates t to its calendar day. The year, month, and day are read in
// t's own location and the result is midnight UTC, so two instants compare
// equal exactly when they fall on the same wall-calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ActiveOn reports whether the rule produces an occurrence on the given day.
func (r Rule) ActiveOn(day time.Time) bool {
	day = Day(day)
	if day.Weekday() != r.Weekday {
		return false
	}
	if day.Before(Day(r.StartsOn)) {
		return false
	}
	if r.EndsOn != nil && day.After(Day(*r.EndsOn)) {
		return false
	}
	return true
}

// GenerateOccurrences produces the days on which the rule is active.
//
// The generation window is the intersection of the rule's own bounds with
// the optional range. Open-ended rules require a RangeEnd.
func (e *Engine) GenerateOccurrences(rule Rule, opts GenerateOptions) ([]Occurrence, error) {
	if rule.Weekday < time.Sunday || rule.Weekday > time.Saturday {
		return nil, ErrInvalidWeekday
	}

	var upperBound time.Time
	hasUpper := false
	if rule.EndsOn != nil {
		upperBound = Day(*rule.EndsOn)
		hasUpper = true
	}
	if opts.RangeEnd != nil {
		rangeEnd := Day(*opts.RangeEnd)
		if !hasUpper || rangeEnd.Before(upperBound) {
			upperBound = rangeEnd
		}
		hasUpper = true
	}
	if !hasUpper {
		return nil, ErrInvalidWindow
	}

	lowerBound := Day(rule.StartsOn)
	if opts.RangeStart != nil {
		if rangeStart := Day(*opts.RangeStart); rangeStart.After(lowerBound) {
			lowerBound = rangeStart
		}
	}
	if lowerBound.After(upperBound) {
		return nil, nil
	}

	current := firstOnOrAfter(lowerBound, rule.Weekday)
	occurrences := make([]Occurrence, 0)
	for !current.After(upperBound) {
		occurrences = append(occurrences, Occurrence{RuleID: rule.ID, Date: current})
		current = current.AddDate(0, 0, 7)
	}

	return occurrences, nil
}

func firstOnOrAfter(day time.Time, weekday time.Weekday) time.Time {
	offset := (int(weekday) - int(day.Weekday()) + 7) % 7
	return day.AddDate(0, 0, offset)
}
