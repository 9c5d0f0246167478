package testfixtures

import (
	"time"

	"github.com/example/room-scheduler/internal/application"
)

// Room identifiers used across fixtures.
const (
	FellowshipHallID = "fellowship-hall"
	SanctuaryID      = "sanctuary"
)

var referenceTime = time.Date(2024, time.August, 1, 9, 0, 0, 0, time.UTC)

// ReferenceTime returns the canonical "now" used by fixtures: Thursday
// 2024-08-01 09:00 UTC.
func ReferenceTime() time.Time {
	return referenceTime
}

// Date returns midnight UTC on the given calendar day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Rooms returns the two-room catalog used by most tests.
func Rooms() []application.Room {
	return []application.Room{
		{
			ID:              FellowshipHallID,
			Name:            "Fellowship Hall",
			Description:     "A spacious hall for community gatherings.",
			ThankYouMessage: "Thank you for booking the Fellowship Hall.",
		},
		{
			ID:              SanctuaryID,
			Name:            "Sanctuary",
			Description:     "A serene space for worship and ceremonies.",
			ThankYouMessage: "Thank you for booking the Sanctuary.",
		},
	}
}

// ReservationInput returns a valid booking request for the room on day.
// Options adjust individual fields.
func ReservationInput(roomID string, day time.Time, startTime string, duration int, opts ...func(*application.ReservationInput)) application.ReservationInput {
	input := application.ReservationInput{
		RoomID:           roomID,
		Date:             day,
		StartTime:        startTime,
		Duration:         duration,
		GuestName:        "Jane Guest",
		GuestEmail:       "jane@example.com",
		GuestPhone:       "555-0100",
		EventDescription: "Choir rehearsal",
	}
	for _, opt := range opts {
		opt(&input)
	}
	return input
}

// RecurringEventInput returns a valid weekly event for the room with no end date.
func RecurringEventInput(roomID string, weekday time.Weekday, startTime, endTime string, startDate time.Time, opts ...func(*application.RecurringEventInput)) application.RecurringEventInput {
	input := application.RecurringEventInput{
		RoomID:    roomID,
		Title:     "Weekly Service",
		DayOfWeek: weekday,
		StartTime: startTime,
		EndTime:   endTime,
		StartDate: startDate,
	}
	for _, opt := range opts {
		opt(&input)
	}
	return input
}

// SundayService is the sanctuary's open-ended Sunday 09:00-11:00 service
// starting 2024-08-01.
func SundayService() application.RecurringEventInput {
	return RecurringEventInput(SanctuaryID, time.Sunday, "09:00", "11:00", Date(2024, time.August, 1))
}

// EndingOn sets a recurring event's inclusive end date.
func EndingOn(day time.Time) func(*application.RecurringEventInput) {
	return func(input *application.RecurringEventInput) {
		input.EndDate = &day
	}
}
