package scheduler

import (
	"sort"
	"time"

	"github.com/example/room-scheduler/internal/recurrence"
)

// Projector derives day-level calendar decorations from the bookings.
type Projector struct {
	engine *recurrence.Engine
}

// NewProjector constructs a Projector. If engine is nil a default engine is used.
func NewProjector(engine *recurrence.Engine) *Projector {
	if engine == nil {
		engine = recurrence.NewEngine()
	}
	return &Projector{engine: engine}
}

// HighlightedDates returns, in ascending order and without duplicates, every
// day in the inclusive window [from, to] that holds a reservation for the
// room or on which one of the room's recurring events is active.
//
// A day with a single short booking is marked the same as a fully booked
// day; the result is a decoration, not an availability answer.
func (p *Projector) HighlightedDates(existing Bookings, roomID string, from, to time.Time) ([]time.Time, error) {
	from = recurrence.Day(from)
	to = recurrence.Day(to)
	if to.Before(from) {
		return nil, nil
	}

	marked := make(map[time.Time]struct{})
	for _, res := range existing.Reservations {
		if res.RoomID != roomID {
			continue
		}
		day := recurrence.Day(res.Date)
		if day.Before(from) || day.After(to) {
			continue
		}
		marked[day] = struct{}{}
	}

	for _, event := range existing.RecurringEvents {
		if event.RoomID != roomID {
			continue
		}
		occurrences, err := p.engine.GenerateOccurrences(event.Rule, recurrence.GenerateOptions{
			RangeStart: &from,
			RangeEnd:   &to,
		})
		if err != nil {
			return nil, err
		}
		for _, occ := range occurrences {
			marked[occ.Date] = struct{}{}
		}
	}

	if len(marked) == 0 {
		return nil, nil
	}

	days := make([]time.Time, 0, len(marked))
	for day := range marked {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days, nil
}

// Slot is a bookable interval and whether it is currently free.
type Slot struct {
	Start     Clock
	End       Clock
	Available bool
}

// DaySlots evaluates each of the bookable start times for the room on day
// with the given duration.
func DaySlots(existing Bookings, roomID string, day time.Time, durationHours int) []Slot {
	slots := make([]Slot, 0, len(BookableStartTimes))
	for _, start := range BookableStartTimes {
		end := AddHours(start, durationHours)
		slots = append(slots, Slot{
			Start: start,
			End:   end,
			Available: IsAvailable(existing, Candidate{
				RoomID: roomID,
				Date:   day,
				Start:  start,
				End:    end,
			}),
		})
	}
	return slots
}
