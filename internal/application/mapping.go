package application

import (
	"time"

	"github.com/example/room-scheduler/internal/persistence"
	"github.com/example/room-scheduler/internal/recurrence"
)

func reservationToRecord(res Reservation) persistence.ReservationRecord {
	return persistence.ReservationRecord{
		ID:               res.ID,
		RoomID:           res.RoomID,
		Date:             res.Date,
		StartTime:        res.StartTime,
		EndTime:          res.EndTime,
		Duration:         res.Duration,
		GuestName:        res.GuestName,
		GuestEmail:       res.GuestEmail,
		GuestPhone:       res.GuestPhone,
		EventDescription: res.EventDescription,
		CreatedAt:        res.CreatedAt,
		RecurringID:      res.RecurringID,
	}
}

func reservationFromRecord(record persistence.ReservationRecord) Reservation {
	return Reservation{
		ID:               record.ID,
		RoomID:           record.RoomID,
		Date:             recurrence.Day(record.Date),
		StartTime:        record.StartTime,
		EndTime:          record.EndTime,
		Duration:         record.Duration,
		GuestName:        record.GuestName,
		GuestEmail:       record.GuestEmail,
		GuestPhone:       record.GuestPhone,
		EventDescription: record.EventDescription,
		CreatedAt:        record.CreatedAt,
		RecurringID:      record.RecurringID,
	}
}

func recurringEventToRecord(event RecurringEvent) persistence.RecurringEventRecord {
	return persistence.RecurringEventRecord{
		ID:        event.ID,
		RoomID:    event.RoomID,
		Title:     event.Title,
		DayOfWeek: int(event.DayOfWeek),
		StartTime: event.StartTime,
		EndTime:   event.EndTime,
		StartDate: event.StartDate,
		EndDate:   cloneTimePtr(event.EndDate),
	}
}

func recurringEventFromRecord(record persistence.RecurringEventRecord) RecurringEvent {
	event := RecurringEvent{
		ID:        record.ID,
		RoomID:    record.RoomID,
		Title:     record.Title,
		DayOfWeek: time.Weekday(record.DayOfWeek),
		StartTime: record.StartTime,
		EndTime:   record.EndTime,
		StartDate: recurrence.Day(record.StartDate),
	}
	if record.EndDate != nil {
		end := recurrence.Day(*record.EndDate)
		event.EndDate = &end
	}
	return event
}

func cloneRooms(rooms []Room) []Room {
	if len(rooms) == 0 {
		return nil
	}
	out := make([]Room, len(rooms))
	copy(out, rooms)
	return out
}

func cloneReservations(reservations []Reservation) []Reservation {
	if len(reservations) == 0 {
		return nil
	}
	out := make([]Reservation, len(reservations))
	copy(out, reservations)
	return out
}

func cloneRecurringEvent(event RecurringEvent) RecurringEvent {
	event.EndDate = cloneTimePtr(event.EndDate)
	return event
}

func cloneRecurringEvents(events []RecurringEvent) []RecurringEvent {
	if len(events) == 0 {
		return nil
	}
	out := make([]RecurringEvent, len(events))
	for i, event := range events {
		out[i] = cloneRecurringEvent(event)
	}
	return out
}

func cloneTimePtr(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	copied := *value
	return &copied
}
