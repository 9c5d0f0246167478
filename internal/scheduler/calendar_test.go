package scheduler

import (
	"testing"
	"time"
)

func TestProjector_HighlightedDates(t *testing.T) {
	t.Parallel()

	projector := NewProjector(nil)

	t.Run("reservation day and recurring day in a seven day window", func(t *testing.T) {
		t.Parallel()
		// 2024-08-05 (Monday) through 2024-08-11 (Sunday).
		existing := Bookings{
			Reservations: []Reservation{
				{ID: "r1", RoomID: "sanctuary", Date: day(2024, time.August, 7), Start: MustParseClock("10:00"), End: MustParseClock("11:00")},
				{ID: "r2", RoomID: "fellowship-hall", Date: day(2024, time.August, 8), Start: MustParseClock("10:00"), End: MustParseClock("11:00")},
				{ID: "r3", RoomID: "sanctuary", Date: day(2024, time.August, 20), Start: MustParseClock("10:00"), End: MustParseClock("11:00")},
			},
			RecurringEvents: []RecurringEvent{sundayService(nil)},
		}

		got, err := projector.HighlightedDates(existing, "sanctuary", day(2024, time.August, 5), day(2024, time.August, 11))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := []time.Time{day(2024, time.August, 7), day(2024, time.August, 11)}
		assertDays(t, got, want)
	})

	t.Run("coinciding days are reported once", func(t *testing.T) {
		t.Parallel()
		existing := Bookings{
			Reservations: []Reservation{
				{ID: "r1", RoomID: "sanctuary", Date: day(2024, time.August, 11), Start: MustParseClock("14:00"), End: MustParseClock("15:00")},
				{ID: "r2", RoomID: "sanctuary", Date: day(2024, time.August, 11), Start: MustParseClock("16:00"), End: MustParseClock("17:00")},
			},
			RecurringEvents: []RecurringEvent{sundayService(nil)},
		}

		got, err := projector.HighlightedDates(existing, "sanctuary", day(2024, time.August, 5), day(2024, time.August, 11))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		assertDays(t, got, []time.Time{day(2024, time.August, 11)})
	})

	t.Run("window bounds are inclusive and ignore time of day", func(t *testing.T) {
		t.Parallel()
		existing := Bookings{Reservations: []Reservation{
			{ID: "first", RoomID: "sanctuary", Date: day(2024, time.August, 5)},
			{ID: "last", RoomID: "sanctuary", Date: day(2024, time.August, 6)},
		}}
		from := time.Date(2024, time.August, 5, 15, 0, 0, 0, time.UTC)
		to := time.Date(2024, time.August, 6, 1, 0, 0, 0, time.UTC)

		got, err := projector.HighlightedDates(existing, "sanctuary", from, to)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		assertDays(t, got, []time.Time{day(2024, time.August, 5), day(2024, time.August, 6)})
	})

	t.Run("inverted window is empty", func(t *testing.T) {
		t.Parallel()
		existing := Bookings{RecurringEvents: []RecurringEvent{sundayService(nil)}}
		got, err := projector.HighlightedDates(existing, "sanctuary", day(2024, time.August, 11), day(2024, time.August, 4))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 0 {
			t.Fatalf("expected no days, got %v", got)
		}
	})

	t.Run("three month window matches the availability rule", func(t *testing.T) {
		t.Parallel()
		until := day(2024, time.September, 1)
		existing := Bookings{RecurringEvents: []RecurringEvent{sundayService(&until)}}
		from := day(2024, time.July, 15)
		to := from.AddDate(0, 3, 0)

		got, err := projector.HighlightedDates(existing, "sanctuary", from, to)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := []time.Time{
			day(2024, time.August, 4),
			day(2024, time.August, 11),
			day(2024, time.August, 18),
			day(2024, time.August, 25),
			day(2024, time.September, 1),
		}
		assertDays(t, got, want)
	})
}

func TestDaySlots(t *testing.T) {
	t.Parallel()

	sunday := day(2024, time.August, 4)
	existing := Bookings{RecurringEvents: []RecurringEvent{sundayService(nil)}}

	slots := DaySlots(existing, "sanctuary", sunday, 2)
	if len(slots) != len(BookableStartTimes) {
		t.Fatalf("expected %d slots, got %d", len(BookableStartTimes), len(slots))
	}

	busy := map[string]bool{"08:00": true, "09:00": true, "10:00": true}
	for _, slot := range slots {
		if slot.End != AddHours(slot.Start, 2) {
			t.Fatalf("slot %s: expected end %s, got %s", slot.Start, AddHours(slot.Start, 2), slot.End)
		}
		if slot.Available == busy[slot.Start.String()] {
			t.Fatalf("slot %s: unexpected availability %v", slot.Start, slot.Available)
		}
	}
}

func assertDays(t *testing.T, got, want []time.Time) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %d days, got %d (%v)", len(want), len(got), got)
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Fatalf("day %d: expected %s, got %s", i, want[i].Format(time.DateOnly), got[i].Format(time.DateOnly))
		}
	}
}
