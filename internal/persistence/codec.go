package persistence

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const dayLayout = time.DateOnly

// day is a calendar date serialized as YYYY-MM-DD.
//
// Decoding also accepts RFC 3339 timestamps, the format older clients wrote
// for every date-valued field. The calendar date is read in the timestamp's
// own offset.
type day time.Time

func (d day) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(d).Format(dayLayout))
}

func (d *day) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	parsed, err := parseDay(raw)
	if err != nil {
		return err
	}
	*d = day(parsed)
	return nil
}

func parseDay(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(dayLayout, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", raw)
	}
	y, m, dd := t.Date()
	return time.Date(y, m, dd, 0, 0, 0, 0, time.UTC), nil
}

type reservationJSON struct {
	ID               string    `json:"id"`
	RoomID           string    `json:"roomId"`
	Date             day       `json:"date"`
	StartTime        string    `json:"startTime"`
	EndTime          string    `json:"endTime"`
	Duration         int       `json:"duration"`
	GuestName        string    `json:"guestName"`
	GuestEmail       string    `json:"guestEmail"`
	GuestPhone       string    `json:"guestPhone"`
	EventDescription string    `json:"eventDescription"`
	CreatedAt        time.Time `json:"createdAt"`
	RecurringID      string    `json:"recurringId,omitempty"`
}

type recurringEventJSON struct {
	ID        string `json:"id"`
	RoomID    string `json:"roomId"`
	Title     string `json:"title"`
	DayOfWeek int    `json:"dayOfWeek"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	StartDate day    `json:"startDate"`
	EndDate   *day   `json:"endDate"`
}

// EncodeReservations serializes the full reservation collection.
func EncodeReservations(records []ReservationRecord) ([]byte, error) {
	out := make([]reservationJSON, 0, len(records))
	for _, r := range records {
		out = append(out, reservationJSON{
			ID:               r.ID,
			RoomID:           r.RoomID,
			Date:             day(r.Date),
			StartTime:        r.StartTime,
			EndTime:          r.EndTime,
			Duration:         r.Duration,
			GuestName:        r.GuestName,
			GuestEmail:       r.GuestEmail,
			GuestPhone:       r.GuestPhone,
			EventDescription: r.EventDescription,
			CreatedAt:        r.CreatedAt.UTC(),
			RecurringID:      r.RecurringID,
		})
	}
	data, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("encode reservations: %w", err)
	}
	return data, nil
}

// DecodeReservations restores a collection written by EncodeReservations.
// Malformed input yields an error wrapping ErrCorruptData.
func DecodeReservations(data []byte) ([]ReservationRecord, error) {
	var in []reservationJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("%w: reservations: %v", ErrCorruptData, err)
	}
	records := make([]ReservationRecord, 0, len(in))
	for _, r := range in {
		records = append(records, ReservationRecord{
			ID:               r.ID,
			RoomID:           r.RoomID,
			Date:             time.Time(r.Date),
			StartTime:        r.StartTime,
			EndTime:          r.EndTime,
			Duration:         r.Duration,
			GuestName:        r.GuestName,
			GuestEmail:       r.GuestEmail,
			GuestPhone:       r.GuestPhone,
			EventDescription: r.EventDescription,
			CreatedAt:        r.CreatedAt,
			RecurringID:      r.RecurringID,
		})
	}
	return records, nil
}

// EncodeRecurringEvents serializes the full recurring-event collection.
func EncodeRecurringEvents(records []RecurringEventRecord) ([]byte, error) {
	out := make([]recurringEventJSON, 0, len(records))
	for _, r := range records {
		item := recurringEventJSON{
			ID:        r.ID,
			RoomID:    r.RoomID,
			Title:     r.Title,
			DayOfWeek: r.DayOfWeek,
			StartTime: r.StartTime,
			EndTime:   r.EndTime,
			StartDate: day(r.StartDate),
		}
		if r.EndDate != nil {
			end := day(*r.EndDate)
			item.EndDate = &end
		}
		out = append(out, item)
	}
	data, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("encode recurring events: %w", err)
	}
	return data, nil
}

// DecodeRecurringEvents restores a collection written by EncodeRecurringEvents.
// Malformed input yields an error wrapping ErrCorruptData.
func DecodeRecurringEvents(data []byte) ([]RecurringEventRecord, error) {
	var in []recurringEventJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("%w: recurring events: %v", ErrCorruptData, err)
	}
	records := make([]RecurringEventRecord, 0, len(in))
	for _, r := range in {
		record := RecurringEventRecord{
			ID:        r.ID,
			RoomID:    r.RoomID,
			Title:     r.Title,
			DayOfWeek: r.DayOfWeek,
			StartTime: r.StartTime,
			EndTime:   r.EndTime,
			StartDate: time.Time(r.StartDate),
		}
		if r.EndDate != nil {
			end := time.Time(*r.EndDate)
			record.EndDate = &end
		}
		records = append(records, record)
	}
	return records, nil
}
