package scheduler

import (
	"errors"
	"testing"
)

func TestParseClock(t *testing.T) {
	t.Parallel()

	valid := map[string]Clock{
		"00:00": 0,
		"08:30": 8*60 + 30,
		"23:59": 23*60 + 59,
	}
	for input, want := range valid {
		got, err := ParseClock(input)
		if err != nil {
			t.Fatalf("ParseClock(%q): unexpected error: %v", input, err)
		}
		if got != want {
			t.Fatalf("ParseClock(%q) = %d, want %d", input, got, want)
		}
		if got.String() != input {
			t.Fatalf("String() = %q, want %q", got.String(), input)
		}
	}

	for _, input := range []string{"", "8:00", "24:00", "12:60", "12-00", "ab:cd", "12:000", " 9:00"} {
		if _, err := ParseClock(input); !errors.Is(err, ErrInvalidClock) {
			t.Fatalf("ParseClock(%q): expected ErrInvalidClock, got %v", input, err)
		}
	}
}

func TestAddHours(t *testing.T) {
	t.Parallel()

	cases := []struct {
		start string
		hours int
		want  string
	}{
		{start: "09:00", hours: 2, want: "11:00"},
		{start: "10:30", hours: 1, want: "11:30"},
		{start: "20:00", hours: 4, want: "00:00"},
		{start: "23:00", hours: 2, want: "01:00"},
		{start: "00:00", hours: 24, want: "00:00"},
	}
	for _, tc := range cases {
		got := AddHours(MustParseClock(tc.start), tc.hours).String()
		if got != tc.want {
			t.Fatalf("AddHours(%s, %d) = %s, want %s", tc.start, tc.hours, got, tc.want)
		}
	}
}

func TestOverlaps(t *testing.T) {
	t.Parallel()

	c := MustParseClock
	cases := []struct {
		name         string
		aStart, aEnd Clock
		bStart, bEnd Clock
		want         bool
	}{
		{name: "identical", aStart: c("09:00"), aEnd: c("10:00"), bStart: c("09:00"), bEnd: c("10:00"), want: true},
		{name: "partial", aStart: c("09:00"), aEnd: c("11:00"), bStart: c("10:00"), bEnd: c("12:00"), want: true},
		{name: "containment", aStart: c("09:00"), aEnd: c("12:00"), bStart: c("10:00"), bEnd: c("11:00"), want: true},
		{name: "same end", aStart: c("10:00"), aEnd: c("12:00"), bStart: c("09:00"), bEnd: c("12:00"), want: true},
		{name: "touching after", aStart: c("09:00"), aEnd: c("10:00"), bStart: c("10:00"), bEnd: c("11:00"), want: false},
		{name: "touching before", aStart: c("10:00"), aEnd: c("11:00"), bStart: c("09:00"), bEnd: c("10:00"), want: false},
		{name: "disjoint", aStart: c("08:00"), aEnd: c("09:00"), bStart: c("13:00"), bEnd: c("14:00"), want: false},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := Overlaps(tc.aStart, tc.aEnd, tc.bStart, tc.bEnd); got != tc.want {
				t.Fatalf("Overlaps = %v, want %v", got, tc.want)
			}
			if got := Overlaps(tc.bStart, tc.bEnd, tc.aStart, tc.aEnd); got != tc.want {
				t.Fatalf("Overlaps is not symmetric")
			}
		})
	}
}

// legacyOverlap is the three-branch comparison the booking form used before
// the predicate was collapsed.
func legacyOverlap(newStart, newEnd, resStart, resEnd Clock) bool {
	return (newStart >= resStart && newStart < resEnd) ||
		(newEnd > resStart && newEnd <= resEnd) ||
		(newStart <= resStart && newEnd >= resEnd)
}

func TestOverlapsMatchesLegacyPredicate(t *testing.T) {
	t.Parallel()

	const step = 30
	for aStart := Clock(0); aStart < MinutesPerDay; aStart += step {
		for aEnd := aStart + step; aEnd <= MinutesPerDay; aEnd += step {
			for bStart := Clock(0); bStart < MinutesPerDay; bStart += step * 3 {
				for bEnd := bStart + step; bEnd <= MinutesPerDay; bEnd += step * 3 {
					if Overlaps(aStart, aEnd, bStart, bEnd) != legacyOverlap(aStart, aEnd, bStart, bEnd) {
						t.Fatalf("predicates disagree for [%d,%d) vs [%d,%d)", aStart, aEnd, bStart, bEnd)
					}
				}
			}
		}
	}
}
