package http

import (
	"strconv"
	"strings"
	"time"

	"github.com/example/room-scheduler/internal/application"
	"github.com/example/room-scheduler/internal/recurrence"
	"github.com/example/room-scheduler/internal/scheduler"
)

type roomDTO struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	Image           string `json:"image,omitempty"`
	ThankYouMessage string `json:"thank_you_message"`
}

func toRoomDTO(room application.Room) roomDTO {
	return roomDTO{
		ID:              room.ID,
		Name:            room.Name,
		Description:     room.Description,
		Image:           room.Image,
		ThankYouMessage: room.ThankYouMessage,
	}
}

func toRoomDTOs(rooms []application.Room) []roomDTO {
	out := make([]roomDTO, 0, len(rooms))
	for _, room := range rooms {
		out = append(out, toRoomDTO(room))
	}
	return out
}

type reservationDTO struct {
	ID               string `json:"id"`
	RoomID           string `json:"room_id"`
	Date             string `json:"date"`
	StartTime        string `json:"start_time"`
	EndTime          string `json:"end_time"`
	Duration         int    `json:"duration"`
	GuestName        string `json:"guest_name"`
	GuestEmail       string `json:"guest_email"`
	GuestPhone       string `json:"guest_phone"`
	EventDescription string `json:"event_description"`
	CreatedAt        string `json:"created_at"`
	RecurringID      string `json:"recurring_id,omitempty"`
}

func toReservationDTO(res application.Reservation) reservationDTO {
	return reservationDTO{
		ID:               res.ID,
		RoomID:           res.RoomID,
		Date:             formatDay(res.Date),
		StartTime:        res.StartTime,
		EndTime:          res.EndTime,
		Duration:         res.Duration,
		GuestName:        res.GuestName,
		GuestEmail:       res.GuestEmail,
		GuestPhone:       res.GuestPhone,
		EventDescription: res.EventDescription,
		CreatedAt:        res.CreatedAt.UTC().Format(time.RFC3339Nano),
		RecurringID:      res.RecurringID,
	}
}

func toReservationDTOs(reservations []application.Reservation) []reservationDTO {
	out := make([]reservationDTO, 0, len(reservations))
	for _, res := range reservations {
		out = append(out, toReservationDTO(res))
	}
	return out
}

type recurringEventDTO struct {
	ID        string  `json:"id"`
	RoomID    string  `json:"room_id"`
	Title     string  `json:"title"`
	DayOfWeek int     `json:"day_of_week"`
	StartTime string  `json:"start_time"`
	EndTime   string  `json:"end_time"`
	StartDate string  `json:"start_date"`
	EndDate   *string `json:"end_date"`
}

func toRecurringEventDTO(event application.RecurringEvent) recurringEventDTO {
	dto := recurringEventDTO{
		ID:        event.ID,
		RoomID:    event.RoomID,
		Title:     event.Title,
		DayOfWeek: int(event.DayOfWeek),
		StartTime: event.StartTime,
		EndTime:   event.EndTime,
		StartDate: formatDay(event.StartDate),
	}
	if event.EndDate != nil {
		end := formatDay(*event.EndDate)
		dto.EndDate = &end
	}
	return dto
}

func toRecurringEventDTOs(events []application.RecurringEvent) []recurringEventDTO {
	out := make([]recurringEventDTO, 0, len(events))
	for _, event := range events {
		out = append(out, toRecurringEventDTO(event))
	}
	return out
}

type conflictDTO struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

func toConflictDTOs(conflicts []scheduler.Conflict) []conflictDTO {
	if len(conflicts) == 0 {
		return nil
	}
	out := make([]conflictDTO, 0, len(conflicts))
	for _, c := range conflicts {
		out = append(out, conflictDTO{
			ID:        c.WithID,
			Type:      string(c.Type),
			StartTime: c.Start.String(),
			EndTime:   c.End.String(),
		})
	}
	return out
}

func formatDay(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.DateOnly)
}

// parseDay accepts YYYY-MM-DD and returns midnight UTC on that day.
func parseDay(value string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, err
	}
	return recurrence.Day(t), nil
}

// parseOptionalDay parses value into fields[field] on failure. An empty value
// yields the zero time.
func parseOptionalDay(fields map[string]string, field, value string) time.Time {
	if strings.TrimSpace(value) == "" {
		return time.Time{}
	}
	day, err := parseDay(value)
	if err != nil {
		fields[field] = "date must be YYYY-MM-DD"
		return time.Time{}
	}
	return day
}

func parsePositiveInt(fields map[string]string, field, value string, fallback int) int {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n < 1 {
		fields[field] = field + " must be a positive integer"
		return fallback
	}
	return n
}
