package application

import (
	"testing"
	"time"
)

func TestNormalizeReservationInput(t *testing.T) {
	t.Parallel()

	got := normalizeReservationInput(ReservationInput{
		RoomID:     "  sanctuary ",
		Date:       time.Date(2024, time.August, 10, 18, 30, 0, 0, time.UTC),
		StartTime:  " 09:00",
		GuestName:  " Jane ",
		GuestEmail: "jane@example.com ",
	})
	if got.RoomID != "sanctuary" || got.StartTime != "09:00" || got.GuestName != "Jane" || got.GuestEmail != "jane@example.com" {
		t.Fatalf("expected trimmed fields, got %+v", got)
	}
	if !got.Date.Equal(time.Date(2024, time.August, 10, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected date truncated to its calendar day, got %v", got.Date)
	}
}

func TestValidateReservationInput(t *testing.T) {
	t.Parallel()

	valid := ReservationInput{
		RoomID:     "sanctuary",
		Date:       time.Date(2024, time.August, 10, 0, 0, 0, 0, time.UTC),
		StartTime:  "09:00",
		Duration:   2,
		GuestName:  "Jo",
		GuestEmail: "Jo <jo@example.com>",
		GuestPhone: "55501",
	}
	if vErr := validateReservationInput(valid, nil); vErr.HasErrors() {
		t.Fatalf("expected valid input, got %+v", vErr.FieldErrors)
	}

	known := func(id string) bool { return id == "fellowship-hall" }
	vErr := validateReservationInput(valid, known)
	if vErr.FieldErrors["room_id"] != "room does not exist" {
		t.Fatalf("expected unknown room error, got %+v", vErr.FieldErrors)
	}

	vErr = validateReservationInput(ReservationInput{StartTime: "24:00"}, nil)
	for _, field := range []string{"room_id", "date", "start_time", "duration", "guest_name", "guest_email", "guest_phone"} {
		if vErr.FieldErrors[field] == "" {
			t.Fatalf("expected %s error, got %+v", field, vErr.FieldErrors)
		}
	}
	if vErr.FieldErrors["guest_email"] != "email is required" {
		t.Fatalf("unexpected email message %q", vErr.FieldErrors["guest_email"])
	}
}

func TestApplyRecurringEventPatch(t *testing.T) {
	t.Parallel()

	until := time.Date(2024, time.December, 29, 15, 0, 0, 0, time.UTC)
	event := RecurringEvent{
		ID:        "r1",
		RoomID:    "sanctuary",
		Title:     "Service",
		DayOfWeek: time.Sunday,
		StartTime: "09:00",
		EndTime:   "11:00",
		StartDate: time.Date(2024, time.August, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   &until,
	}

	saturday := time.Saturday
	title := " Vigil "
	patched := applyRecurringEventPatch(event, RecurringEventPatch{DayOfWeek: &saturday, Title: &title})
	if patched.DayOfWeek != time.Saturday || patched.Title != "Vigil" || patched.StartTime != "09:00" {
		t.Fatalf("unexpected patched event %+v", patched)
	}
	if patched.EndDate == nil || patched.EndDate.Hour() != 0 || patched.EndDate == event.EndDate {
		t.Fatalf("expected a normalized copy of the end date, got %v", patched.EndDate)
	}

	other := time.Date(2025, time.January, 5, 0, 0, 0, 0, time.UTC)
	cleared := applyRecurringEventPatch(event, RecurringEventPatch{EndDate: &other, ClearEndDate: true})
	if cleared.EndDate != nil {
		t.Fatalf("expected ClearEndDate to take precedence, got %v", cleared.EndDate)
	}

	if !(RecurringEventPatch{}).IsEmpty() || (RecurringEventPatch{ClearEndDate: true}).IsEmpty() {
		t.Fatalf("unexpected IsEmpty result")
	}
}

func TestValidateRecurringEvent(t *testing.T) {
	t.Parallel()

	start := time.Date(2024, time.August, 1, 0, 0, 0, 0, time.UTC)
	before := start.AddDate(0, 0, -1)
	event := RecurringEvent{
		RoomID:    "sanctuary",
		Title:     "Service",
		DayOfWeek: time.Sunday,
		StartTime: "09:00",
		EndTime:   "09:00",
		StartDate: start,
		EndDate:   &before,
	}

	vErr := validateRecurringEvent(event, nil)
	if vErr.FieldErrors["end_time"] != "end time must be after start time" {
		t.Fatalf("expected end time ordering error, got %+v", vErr.FieldErrors)
	}
	if vErr.FieldErrors["end_date"] == "" {
		t.Fatalf("expected end date ordering error, got %+v", vErr.FieldErrors)
	}

	event.EndTime = "11:00"
	event.EndDate = &start
	if vErr := validateRecurringEvent(event, nil); vErr.HasErrors() {
		t.Fatalf("expected single-day event to be valid, got %+v", vErr.FieldErrors)
	}
}
