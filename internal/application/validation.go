package application

import (
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/example/room-scheduler/internal/recurrence"
	"github.com/example/room-scheduler/internal/scheduler"
)

const (
	minGuestNameLength  = 2
	minGuestPhoneLength = 5
)

func normalizeReservationInput(input ReservationInput) ReservationInput {
	out := input
	out.RoomID = strings.TrimSpace(input.RoomID)
	out.StartTime = strings.TrimSpace(input.StartTime)
	out.GuestName = strings.TrimSpace(input.GuestName)
	out.GuestEmail = strings.TrimSpace(input.GuestEmail)
	out.GuestPhone = strings.TrimSpace(input.GuestPhone)
	out.EventDescription = strings.TrimSpace(input.EventDescription)
	if !input.Date.IsZero() {
		out.Date = recurrence.Day(input.Date)
	}
	return out
}

func validateReservationInput(input ReservationInput, knownRoom func(string) bool) *ValidationError {
	vErr := &ValidationError{}

	vErr.merge(validateRoomID(input.RoomID, knownRoom))

	if input.Date.IsZero() {
		vErr.add("date", "date is required")
	}

	if input.StartTime == "" {
		vErr.add("start_time", "start time is required")
	} else if _, err := scheduler.ParseClock(input.StartTime); err != nil {
		vErr.add("start_time", "start time must be HH:MM")
	}

	if input.Duration < 1 {
		vErr.add("duration", "duration must be at least 1 hour")
	}

	if utf8.RuneCountInString(input.GuestName) < minGuestNameLength {
		vErr.add("guest_name", "name must be at least 2 characters")
	}

	if input.GuestEmail == "" {
		vErr.add("guest_email", "email is required")
	} else if _, err := mail.ParseAddress(input.GuestEmail); err != nil {
		vErr.add("guest_email", "email is invalid")
	}

	if utf8.RuneCountInString(input.GuestPhone) < minGuestPhoneLength {
		vErr.add("guest_phone", "phone number must be at least 5 characters")
	}

	return vErr
}

func normalizeRecurringEvent(event RecurringEvent) RecurringEvent {
	out := event
	out.RoomID = strings.TrimSpace(event.RoomID)
	out.Title = strings.TrimSpace(event.Title)
	out.StartTime = strings.TrimSpace(event.StartTime)
	out.EndTime = strings.TrimSpace(event.EndTime)
	if !event.StartDate.IsZero() {
		out.StartDate = recurrence.Day(event.StartDate)
	}
	if event.EndDate != nil {
		end := recurrence.Day(*event.EndDate)
		out.EndDate = &end
	}
	return out
}

// validateRecurringEvent checks a complete event, either freshly created or
// the result of applying a patch.
func validateRecurringEvent(event RecurringEvent, knownRoom func(string) bool) *ValidationError {
	vErr := &ValidationError{}

	vErr.merge(validateRoomID(event.RoomID, knownRoom))

	if event.Title == "" {
		vErr.add("title", "title is required")
	}

	if event.DayOfWeek < time.Sunday || event.DayOfWeek > time.Saturday {
		vErr.add("day_of_week", "day of week must be between 0 (Sunday) and 6 (Saturday)")
	}

	start, startErr := scheduler.ParseClock(event.StartTime)
	if startErr != nil {
		vErr.add("start_time", "start time must be HH:MM")
	}
	end, endErr := scheduler.ParseClock(event.EndTime)
	if endErr != nil {
		vErr.add("end_time", "end time must be HH:MM")
	}
	if startErr == nil && endErr == nil && end <= start {
		vErr.add("end_time", "end time must be after start time")
	}

	if event.StartDate.IsZero() {
		vErr.add("start_date", "start date is required")
	} else if event.EndDate != nil && event.EndDate.Before(event.StartDate) {
		vErr.add("end_date", "end date must not be before start date")
	}

	return vErr
}

func validateRoomID(roomID string, knownRoom func(string) bool) *ValidationError {
	vErr := &ValidationError{}
	if roomID == "" {
		vErr.add("room_id", "room is required")
	} else if knownRoom != nil && !knownRoom(roomID) {
		vErr.add("room_id", "room does not exist")
	}
	return vErr
}

func applyRecurringEventPatch(event RecurringEvent, patch RecurringEventPatch) RecurringEvent {
	out := event
	if patch.RoomID != nil {
		out.RoomID = *patch.RoomID
	}
	if patch.Title != nil {
		out.Title = *patch.Title
	}
	if patch.DayOfWeek != nil {
		out.DayOfWeek = *patch.DayOfWeek
	}
	if patch.StartTime != nil {
		out.StartTime = *patch.StartTime
	}
	if patch.EndTime != nil {
		out.EndTime = *patch.EndTime
	}
	if patch.StartDate != nil {
		out.StartDate = *patch.StartDate
	}
	switch {
	case patch.ClearEndDate:
		out.EndDate = nil
	case patch.EndDate != nil:
		end := *patch.EndDate
		out.EndDate = &end
	}
	return normalizeRecurringEvent(out)
}
