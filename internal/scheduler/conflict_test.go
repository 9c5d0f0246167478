package scheduler

import (
	"testing"
	"time"

	"github.com/example/room-scheduler/internal/recurrence"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func candidate(roomID string, date time.Time, start, end string) Candidate {
	return Candidate{RoomID: roomID, Date: date, Start: MustParseClock(start), End: MustParseClock(end)}
}

func sundayService(endsOn *time.Time) RecurringEvent {
	return RecurringEvent{
		ID:     "service",
		RoomID: "sanctuary",
		Rule: recurrence.Rule{
			ID:       "service",
			Weekday:  time.Sunday,
			StartsOn: day(2024, time.August, 1),
			EndsOn:   endsOn,
		},
		Start: MustParseClock("09:00"),
		End:   MustParseClock("11:00"),
	}
}

func TestIsAvailable_Reservations(t *testing.T) {
	t.Parallel()

	existing := Bookings{Reservations: []Reservation{{
		ID:     "res-1",
		RoomID: "fellowship-hall",
		Date:   day(2024, time.August, 15),
		Start:  MustParseClock("09:00"),
		End:    MustParseClock("10:00"),
	}}}

	cases := []struct {
		name string
		cand Candidate
		want bool
	}{
		{name: "back-to-back after", cand: candidate("fellowship-hall", day(2024, time.August, 15), "10:00", "11:00"), want: true},
		{name: "back-to-back before", cand: candidate("fellowship-hall", day(2024, time.August, 15), "08:00", "09:00"), want: true},
		{name: "overlapping", cand: candidate("fellowship-hall", day(2024, time.August, 15), "09:30", "10:30"), want: false},
		{name: "enclosing", cand: candidate("fellowship-hall", day(2024, time.August, 15), "08:00", "12:00"), want: false},
		{name: "other day", cand: candidate("fellowship-hall", day(2024, time.August, 16), "09:00", "10:00"), want: true},
		{name: "other room", cand: candidate("sanctuary", day(2024, time.August, 15), "09:00", "10:00"), want: true},
		{
			name: "time of day on candidate date ignored",
			cand: Candidate{
				RoomID: "fellowship-hall",
				Date:   time.Date(2024, time.August, 15, 17, 45, 0, 0, time.UTC),
				Start:  MustParseClock("09:00"),
				End:    MustParseClock("10:00"),
			},
			want: false,
		},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := IsAvailable(existing, tc.cand); got != tc.want {
				t.Fatalf("IsAvailable = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestIsAvailable_RecurringEvents(t *testing.T) {
	t.Parallel()

	t.Run("conflicts on every Sunday from the start date", func(t *testing.T) {
		t.Parallel()
		existing := Bookings{RecurringEvents: []RecurringEvent{sundayService(nil)}}
		for _, sunday := range []time.Time{day(2024, time.August, 4), day(2024, time.December, 29), day(2026, time.June, 7)} {
			if IsAvailable(existing, candidate("sanctuary", sunday, "10:00", "12:00")) {
				t.Fatalf("expected conflict on %s", sunday.Format(time.DateOnly))
			}
		}
	})

	t.Run("free before the start date", func(t *testing.T) {
		t.Parallel()
		existing := Bookings{RecurringEvents: []RecurringEvent{sundayService(nil)}}
		if !IsAvailable(existing, candidate("sanctuary", day(2024, time.July, 28), "09:00", "11:00")) {
			t.Fatalf("expected 2024-07-28 to be free")
		}
	})

	t.Run("free on other weekdays", func(t *testing.T) {
		t.Parallel()
		existing := Bookings{RecurringEvents: []RecurringEvent{sundayService(nil)}}
		for offset := 1; offset < 7; offset++ {
			d := day(2024, time.August, 4).AddDate(0, 0, offset)
			if !IsAvailable(existing, candidate("sanctuary", d, "09:00", "11:00")) {
				t.Fatalf("expected %s to be free", d.Weekday())
			}
		}
	})

	t.Run("free outside the event hours", func(t *testing.T) {
		t.Parallel()
		existing := Bookings{RecurringEvents: []RecurringEvent{sundayService(nil)}}
		if !IsAvailable(existing, candidate("sanctuary", day(2024, time.August, 4), "11:00", "12:00")) {
			t.Fatalf("expected slot touching the event end to be free")
		}
	})

	t.Run("end date bounds the conflicts", func(t *testing.T) {
		t.Parallel()
		until := day(2024, time.September, 1)
		existing := Bookings{RecurringEvents: []RecurringEvent{sundayService(&until)}}
		if IsAvailable(existing, candidate("sanctuary", until, "09:00", "10:00")) {
			t.Fatalf("expected conflict on the end date itself")
		}
		if !IsAvailable(existing, candidate("sanctuary", day(2024, time.September, 8), "09:00", "10:00")) {
			t.Fatalf("expected no conflict after the end date")
		}
	})
}

func TestDetectConflicts(t *testing.T) {
	t.Parallel()

	sunday := day(2024, time.August, 4)
	existing := Bookings{
		Reservations: []Reservation{
			{ID: "early", RoomID: "sanctuary", Date: sunday, Start: MustParseClock("08:00"), End: MustParseClock("09:30")},
			{ID: "late", RoomID: "sanctuary", Date: sunday, Start: MustParseClock("13:00"), End: MustParseClock("14:00")},
		},
		RecurringEvents: []RecurringEvent{sundayService(nil)},
	}

	conflicts := DetectConflicts(existing, candidate("sanctuary", sunday, "09:00", "10:00"))
	if len(conflicts) != 2 {
		t.Fatalf("expected 2 conflicts, got %d", len(conflicts))
	}
	if conflicts[0].WithID != "early" || conflicts[0].Type != ConflictTypeReservation {
		t.Fatalf("unexpected first conflict: %+v", conflicts[0])
	}
	if conflicts[1].WithID != "service" || conflicts[1].Type != ConflictTypeRecurringEvent {
		t.Fatalf("unexpected second conflict: %+v", conflicts[1])
	}
	if conflicts[1].Start.String() != "09:00" || conflicts[1].End.String() != "11:00" {
		t.Fatalf("expected conflict to carry the event interval, got %s-%s", conflicts[1].Start, conflicts[1].End)
	}

	if got := DetectConflicts(existing, candidate("sanctuary", sunday, "11:00", "13:00")); len(got) != 0 {
		t.Fatalf("expected no conflicts between bookings, got %+v", got)
	}
}
