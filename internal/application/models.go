package application

import "time"

// Room is a bookable space. Rooms are static reference data.
type Room struct {
	ID              string
	Name            string
	Description     string
	Image           string
	ThankYouMessage string
}

// Reservation is a confirmed one-time occupancy of a room.
//
// Date is a calendar day at midnight UTC. EndTime is always StartTime plus
// Duration hours, wrapped past midnight.
type Reservation struct {
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

// RecurringEvent is a weekly occupancy bounded by an inclusive date range.
// A nil EndDate means the event repeats indefinitely.
type RecurringEvent struct {
	ID        string
	RoomID    string
	Title     string
	DayOfWeek time.Weekday
	StartTime string
	EndTime   string
	StartDate time.Time
	EndDate   *time.Time
}

// ReservationInput carries the fields a guest submits when booking.
type ReservationInput struct {
	RoomID           string
	Date             time.Time
	StartTime        string
	Duration         int
	GuestName        string
	GuestEmail       string
	GuestPhone       string
	EventDescription string
}

// RecurringEventInput carries the fields an administrator submits.
type RecurringEventInput struct {
	RoomID    string
	Title     string
	DayOfWeek time.Weekday
	StartTime string
	EndTime   string
	StartDate time.Time
	EndDate   *time.Time
}

// RecurringEventPatch lists the fields to replace on an existing event.
// Nil fields are retained. ClearEndDate removes the end bound and takes
// precedence over EndDate.
type RecurringEventPatch struct {
	RoomID       *string
	Title        *string
	DayOfWeek    *time.Weekday
	StartTime    *string
	EndTime      *string
	StartDate    *time.Time
	EndDate      *time.Time
	ClearEndDate bool
}

// IsEmpty reports whether the patch changes nothing.
func (p RecurringEventPatch) IsEmpty() bool {
	return p.RoomID == nil && p.Title == nil && p.DayOfWeek == nil &&
		p.StartTime == nil && p.EndTime == nil && p.StartDate == nil &&
		p.EndDate == nil && !p.ClearEndDate
}

// Seed is the collection state used when nothing has been persisted yet.
type Seed struct {
	Reservations    []Reservation
	RecurringEvents []RecurringEvent
}
