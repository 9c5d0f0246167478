package persistence

import "time"

// ReservationRecord is the stored form of a one-time booking.
type ReservationRecord struct {
	ID               string
	RoomID           string
	Date             time.Time
	StartTime        string
	EndTime          string
	Duration         int
	GuestName        string
	GuestEmail       string
	GuestPhone       string
	EventDescription string
	CreatedAt        time.Time
	RecurringID      string
}

// RecurringEventRecord is the stored form of a weekly occupancy.
type RecurringEventRecord struct {
	ID        string
	RoomID    string
	Title     string
	DayOfWeek int
	StartTime string
	EndTime   string
	StartDate time.Time
	EndDate   *time.Time
}
