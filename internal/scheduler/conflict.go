package scheduler

import (
	"time"

	"github.com/example/room-scheduler/internal/recurrence"
)

// Reservation is the engine's view of a one-time booking.
type Reservation struct {
	ID     string
	RoomID string
	Date   time.Time
	Start  Clock
	End    Clock
}

// RecurringEvent is the engine's view of a weekly occupancy.
type RecurringEvent struct {
	ID     string
	RoomID string
	Rule   recurrence.Rule
	Start  Clock
	End    Clock
}

// Bookings is the full set of occupancies the engine evaluates jointly.
type Bookings struct {
	Reservations    []Reservation
	RecurringEvents []RecurringEvent
}

// Candidate is a proposed interval for a room on a calendar day.
type Candidate struct {
	RoomID string
	Date   time.Time
	Start  Clock
	End    Clock
}

// ConflictType describes the kind of booking a candidate collides with.
type ConflictType string

const (
	// ConflictTypeReservation indicates overlap with a one-time reservation.
	ConflictTypeReservation ConflictType = "reservation"
	// ConflictTypeRecurringEvent indicates overlap with an active recurring event.
	ConflictTypeRecurringEvent ConflictType = "recurring_event"
)

// Conflict details an overlapping booking that callers can present to users.
type Conflict struct {
	WithID string
	Type   ConflictType
	Start  Clock
	End    Clock
}

// IsAvailable reports whether the candidate interval is free. It stops at the
// first conflict found.
func IsAvailable(existing Bookings, candidate Candidate) bool {
	day := recurrence.Day(candidate.Date)
	for _, res := range existing.Reservations {
		if reservationConflicts(res, candidate, day) {
			return false
		}
	}
	for _, event := range existing.RecurringEvents {
		if recurringConflicts(event, candidate, day) {
			return false
		}
	}
	return true
}

// DetectConflicts lists every booking that overlaps the candidate, one-time
// reservations first, each group in input order.
func DetectConflicts(existing Bookings, candidate Candidate) []Conflict {
	day := recurrence.Day(candidate.Date)

	var conflicts []Conflict
	for _, res := range existing.Reservations {
		if reservationConflicts(res, candidate, day) {
			conflicts = append(conflicts, Conflict{
				WithID: res.ID,
				Type:   ConflictTypeReservation,
				Start:  res.Start,
				End:    res.End,
			})
		}
	}
	for _, event := range existing.RecurringEvents {
		if recurringConflicts(event, candidate, day) {
			conflicts = append(conflicts, Conflict{
				WithID: event.ID,
				Type:   ConflictTypeRecurringEvent,
				Start:  event.Start,
				End:    event.End,
			})
		}
	}
	return conflicts
}

func reservationConflicts(res Reservation, candidate Candidate, day time.Time) bool {
	if res.RoomID != candidate.RoomID {
		return false
	}
	if !recurrence.Day(res.Date).Equal(day) {
		return false
	}
	return Overlaps(res.Start, res.End, candidate.Start, candidate.End)
}

func recurringConflicts(event RecurringEvent, candidate Candidate, day time.Time) bool {
	if event.RoomID != candidate.RoomID {
		return false
	}
	if !event.Rule.ActiveOn(day) {
		return false
	}
	return Overlaps(event.Start, event.End, candidate.Start, candidate.End)
}
