package recurrence

import (
	"errors"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestRule_ActiveOn(t *testing.T) {
	t.Parallel()

	// 2024-08-01 is a Thursday; the first Sunday on or after it is 2024-08-04.
	rule := Rule{ID: "service", Weekday: time.Sunday, StartsOn: date(2024, time.August, 1)}

	t.Run("matches every Sunday from the start date", func(t *testing.T) {
		t.Parallel()
		for _, day := range []time.Time{
			date(2024, time.August, 4),
			date(2024, time.August, 11),
			date(2025, time.March, 2),
		} {
			if !rule.ActiveOn(day) {
				t.Fatalf("expected rule active on %s", day.Format(time.DateOnly))
			}
		}
	})

	t.Run("inactive before the start date", func(t *testing.T) {
		t.Parallel()
		if rule.ActiveOn(date(2024, time.July, 28)) {
			t.Fatalf("expected rule inactive on the Sunday before its start date")
		}
	})

	t.Run("inactive on other weekdays", func(t *testing.T) {
		t.Parallel()
		for offset := 1; offset < 7; offset++ {
			day := date(2024, time.August, 4).AddDate(0, 0, offset)
			if rule.ActiveOn(day) {
				t.Fatalf("expected rule inactive on %s", day.Weekday())
			}
		}
	})

	t.Run("end date is inclusive", func(t *testing.T) {
		t.Parallel()
		until := date(2024, time.September, 1)
		bounded := rule
		bounded.EndsOn = &until
		if !bounded.ActiveOn(date(2024, time.September, 1)) {
			t.Fatalf("expected rule active on its end date")
		}
		if bounded.ActiveOn(date(2024, time.September, 8)) {
			t.Fatalf("expected rule inactive after its end date")
		}
	})

	t.Run("ignores time of day", func(t *testing.T) {
		t.Parallel()
		late := time.Date(2024, time.August, 4, 23, 59, 0, 0, time.UTC)
		if !rule.ActiveOn(late) {
			t.Fatalf("expected time of day to be ignored")
		}
		startLate := Rule{Weekday: time.Sunday, StartsOn: time.Date(2024, time.August, 4, 18, 0, 0, 0, time.UTC)}
		if !startLate.ActiveOn(date(2024, time.August, 4)) {
			t.Fatalf("expected start date comparison at day granularity")
		}
	})
}

func TestEngine_GenerateOccurrences(t *testing.T) {
	t.Parallel()

	engine := NewEngine()

	t.Run("clips occurrences to the requested period", func(t *testing.T) {
		t.Parallel()
		rule := Rule{ID: "rule-1", Weekday: time.Sunday, StartsOn: date(2024, time.August, 1)}
		from := date(2024, time.August, 5)
		to := date(2024, time.August, 25)

		occurrences, err := engine.GenerateOccurrences(rule, GenerateOptions{RangeStart: &from, RangeEnd: &to})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := []time.Time{date(2024, time.August, 11), date(2024, time.August, 18), date(2024, time.August, 25)}
		if len(occurrences) != len(want) {
			t.Fatalf("expected %d occurrences, got %d", len(want), len(occurrences))
		}
		for i, occ := range occurrences {
			if !occ.Date.Equal(want[i]) {
				t.Fatalf("occurrence %d: expected %s, got %s", i, want[i].Format(time.DateOnly), occ.Date.Format(time.DateOnly))
			}
			if occ.RuleID != "rule-1" {
				t.Fatalf("expected occurrence to reference its rule, got %q", occ.RuleID)
			}
		}
	})

	t.Run("stops at the rule end date", func(t *testing.T) {
		t.Parallel()
		until := date(2024, time.August, 11)
		rule := Rule{Weekday: time.Sunday, StartsOn: date(2024, time.August, 1), EndsOn: &until}

		occurrences, err := engine.GenerateOccurrences(rule, GenerateOptions{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(occurrences) != 2 {
			t.Fatalf("expected 2 occurrences, got %d", len(occurrences))
		}
	})

	t.Run("open-ended rule requires a range end", func(t *testing.T) {
		t.Parallel()
		rule := Rule{Weekday: time.Monday, StartsOn: date(2024, time.August, 1)}
		if _, err := engine.GenerateOccurrences(rule, GenerateOptions{}); !errors.Is(err, ErrInvalidWindow) {
			t.Fatalf("expected ErrInvalidWindow, got %v", err)
		}
	})

	t.Run("rejects weekday out of range", func(t *testing.T) {
		t.Parallel()
		to := date(2024, time.August, 30)
		rule := Rule{Weekday: time.Weekday(7), StartsOn: date(2024, time.August, 1)}
		if _, err := engine.GenerateOccurrences(rule, GenerateOptions{RangeEnd: &to}); !errors.Is(err, ErrInvalidWeekday) {
			t.Fatalf("expected ErrInvalidWeekday, got %v", err)
		}
	})

	t.Run("window entirely before start yields nothing", func(t *testing.T) {
		t.Parallel()
		to := date(2024, time.July, 31)
		rule := Rule{Weekday: time.Sunday, StartsOn: date(2024, time.August, 1)}
		occurrences, err := engine.GenerateOccurrences(rule, GenerateOptions{RangeEnd: &to})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(occurrences) != 0 {
			t.Fatalf("expected no occurrences, got %d", len(occurrences))
		}
	})

	t.Run("agrees with ActiveOn", func(t *testing.T) {
		t.Parallel()
		until := date(2024, time.December, 31)
		rule := Rule{Weekday: time.Wednesday, StartsOn: date(2024, time.February, 29), EndsOn: &until}
		occurrences, err := engine.GenerateOccurrences(rule, GenerateOptions{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		generated := make(map[time.Time]bool, len(occurrences))
		for _, occ := range occurrences {
			generated[occ.Date] = true
		}
		for day := date(2024, time.January, 1); !day.After(date(2025, time.January, 31)); day = day.AddDate(0, 0, 1) {
			if generated[day] != rule.ActiveOn(day) {
				t.Fatalf("mismatch on %s: generated=%v active=%v", day.Format(time.DateOnly), generated[day], rule.ActiveOn(day))
			}
		}
	})
}

func TestDay(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("UTC-4", -4*60*60)
	local := time.Date(2024, time.August, 15, 22, 30, 0, 0, loc)
	if got := Day(local); !got.Equal(date(2024, time.August, 15)) {
		t.Fatalf("expected wall-calendar date to be preserved, got %s", got)
	}
}
