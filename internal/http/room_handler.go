package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/example/room-scheduler/internal/application"
	"github.com/example/room-scheduler/internal/recurrence"
	"github.com/example/room-scheduler/internal/scheduler"
)

type roomService interface {
	Rooms() []application.Room
	Room(id string) (application.Room, bool)
	ReservationsForRoom(roomID string) []application.Reservation
	ReservationsOn(roomID string, day time.Time) []application.Reservation
	RecurringEventsForRoom(roomID string) []application.RecurringEvent
	Conflicts(roomID string, date time.Time, start, end scheduler.Clock) []scheduler.Conflict
	DaySlots(roomID string, day time.Time, durationHours int) []scheduler.Slot
	HighlightedDates(ctx context.Context, roomID string, from, to time.Time) ([]time.Time, error)
}

// CalendarOptions controls the default window of the calendar endpoint.
type CalendarOptions struct {
	// Months is the window length when no end is requested. Defaults to 3.
	Months int
	// Now defaults to time.Now.
	Now func() time.Time
}

type RoomHandler struct {
	service   roomService
	calendar  CalendarOptions
	responder responder
	logger    *slog.Logger
}

func NewRoomHandler(service roomService, calendar CalendarOptions, logger *slog.Logger) *RoomHandler {
	base := defaultLogger(logger)
	if calendar.Months <= 0 {
		calendar.Months = 3
	}
	if calendar.Now == nil {
		calendar.Now = time.Now
	}
	return &RoomHandler{service: service, calendar: calendar, responder: newResponder(base), logger: base}
}

func (h *RoomHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "RoomHandler", operation, attrs...)
}

// roomFromRequest resolves the {roomID} path variable and writes the error
// response itself when it cannot. Without a catalog any id is accepted.
func (h *RoomHandler) roomFromRequest(w http.ResponseWriter, r *http.Request, operation string) (string, bool) {
	roomID := strings.TrimSpace(mux.Vars(r)["roomID"])
	if roomID == "" {
		h.log(r.Context(), operation, "error_kind", "bad_request").ErrorContext(r.Context(), "missing room id")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidRoomID)
		return "", false
	}
	if len(h.service.Rooms()) == 0 {
		return roomID, true
	}
	if _, ok := h.service.Room(roomID); !ok {
		h.log(r.Context(), operation, "room_id", roomID, "error_kind", "not_found").InfoContext(r.Context(), "unknown room requested")
		h.responder.writeError(r.Context(), w, http.StatusNotFound, errUnknownRoom)
		return "", false
	}
	return roomID, true
}

func (h *RoomHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	rooms := h.service.Rooms()
	h.log(r.Context(), "List").With("result_count", len(rooms)).DebugContext(r.Context(), "rooms listed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listRoomsResponse{Rooms: toRoomDTOs(rooms)})
}

func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	roomID := strings.TrimSpace(mux.Vars(r)["roomID"])
	room, ok := h.service.Room(roomID)
	if !ok {
		h.log(r.Context(), "Get", "room_id", roomID, "error_kind", "not_found").InfoContext(r.Context(), "unknown room requested")
		h.responder.writeError(r.Context(), w, http.StatusNotFound, errUnknownRoom)
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, roomResponse{Room: toRoomDTO(room)})
}

// Availability answers either a single interval check (start given) or the
// availability of every bookable start time on the day.
func (h *RoomHandler) Availability(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	roomID, ok := h.roomFromRequest(w, r, "Availability")
	if !ok {
		return
	}

	query := r.URL.Query()
	fields := make(map[string]string)

	day := parseOptionalDay(fields, "date", query.Get("date"))
	if day.IsZero() && fields["date"] == "" {
		fields["date"] = "date is required"
	}
	duration := parsePositiveInt(fields, "duration", query.Get("duration"), 1)

	startValue := strings.TrimSpace(query.Get("start"))
	var start, end scheduler.Clock
	if startValue != "" {
		var err error
		if start, err = scheduler.ParseClock(startValue); err != nil {
			fields["start"] = "start must be HH:MM"
		}
		end = scheduler.AddHours(start, duration)
		if endValue := strings.TrimSpace(query.Get("end")); endValue != "" {
			if end, err = scheduler.ParseClock(endValue); err != nil {
				fields["end"] = "end must be HH:MM"
			}
		}
	}

	if vErr := invalidFields(fields); vErr != nil {
		h.log(r.Context(), "Availability", "room_id", roomID, "error_kind", "validation").InfoContext(r.Context(), "invalid availability query")
		h.responder.handleServiceError(r.Context(), w, vErr)
		return
	}

	if startValue == "" {
		slots := h.service.DaySlots(roomID, day, duration)
		h.responder.writeJSON(r.Context(), w, http.StatusOK, daySlotsResponse{
			RoomID:   roomID,
			Date:     formatDay(day),
			Duration: duration,
			Slots:    toSlotDTOs(slots),
		})
		return
	}

	conflicts := h.service.Conflicts(roomID, day, start, end)
	h.log(r.Context(), "Availability", "room_id", roomID, "date", formatDay(day), "start", start.String(), "end", end.String()).
		DebugContext(r.Context(), "availability checked", "conflicts", len(conflicts))
	h.responder.writeJSON(r.Context(), w, http.StatusOK, availabilityResponse{
		RoomID:    roomID,
		Date:      formatDay(day),
		StartTime: start.String(),
		EndTime:   end.String(),
		Available: len(conflicts) == 0,
		Conflicts: toConflictDTOs(conflicts),
	})
}

func (h *RoomHandler) Reservations(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	roomID, ok := h.roomFromRequest(w, r, "Reservations")
	if !ok {
		return
	}

	fields := make(map[string]string)
	day := parseOptionalDay(fields, "date", r.URL.Query().Get("date"))
	if vErr := invalidFields(fields); vErr != nil {
		h.responder.handleServiceError(r.Context(), w, vErr)
		return
	}

	var reservations []application.Reservation
	if day.IsZero() {
		reservations = h.service.ReservationsForRoom(roomID)
	} else {
		reservations = h.service.ReservationsOn(roomID, day)
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listReservationsResponse{Reservations: toReservationDTOs(reservations)})
}

func (h *RoomHandler) RecurringEvents(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	roomID, ok := h.roomFromRequest(w, r, "RecurringEvents")
	if !ok {
		return
	}
	events := h.service.RecurringEventsForRoom(roomID)
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listRecurringEventsResponse{RecurringEvents: toRecurringEventDTOs(events)})
}

// Calendar lists the days in the window that carry a reservation or an active
// recurring event.
func (h *RoomHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	roomID, ok := h.roomFromRequest(w, r, "Calendar")
	if !ok {
		return
	}

	query := r.URL.Query()
	fields := make(map[string]string)
	from := parseOptionalDay(fields, "from", query.Get("from"))
	to := parseOptionalDay(fields, "to", query.Get("to"))
	if vErr := invalidFields(fields); vErr != nil {
		h.responder.handleServiceError(r.Context(), w, vErr)
		return
	}
	if from.IsZero() {
		from = recurrence.Day(h.calendar.Now())
	}
	if to.IsZero() {
		to = from.AddDate(0, h.calendar.Months, 0)
	}

	logger := h.log(r.Context(), "Calendar", "room_id", roomID, "from", formatDay(from), "to", formatDay(to))
	days, err := h.service.HighlightedDates(r.Context(), roomID, from, to)
	if err != nil {
		logger.ErrorContext(r.Context(), "calendar projection failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	dates := make([]string, 0, len(days))
	for _, day := range days {
		dates = append(dates, formatDay(day))
	}
	logger.DebugContext(r.Context(), "calendar projected", "result_count", len(dates))
	h.responder.writeJSON(r.Context(), w, http.StatusOK, calendarResponse{
		RoomID: roomID,
		From:   formatDay(from),
		To:     formatDay(to),
		Dates:  dates,
	})
}

type roomResponse struct {
	Room roomDTO `json:"room"`
}

type listRoomsResponse struct {
	Rooms []roomDTO `json:"rooms"`
}

type listReservationsResponse struct {
	Reservations []reservationDTO `json:"reservations"`
}

type listRecurringEventsResponse struct {
	RecurringEvents []recurringEventDTO `json:"recurring_events"`
}

type availabilityResponse struct {
	RoomID    string        `json:"room_id"`
	Date      string        `json:"date"`
	StartTime string        `json:"start_time"`
	EndTime   string        `json:"end_time"`
	Available bool          `json:"available"`
	Conflicts []conflictDTO `json:"conflicts,omitempty"`
}

type slotDTO struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Available bool   `json:"available"`
}

func toSlotDTOs(slots []scheduler.Slot) []slotDTO {
	out := make([]slotDTO, 0, len(slots))
	for _, slot := range slots {
		out = append(out, slotDTO{StartTime: slot.Start.String(), EndTime: slot.End.String(), Available: slot.Available})
	}
	return out
}

type daySlotsResponse struct {
	RoomID   string    `json:"room_id"`
	Date     string    `json:"date"`
	Duration int       `json:"duration"`
	Slots    []slotDTO `json:"slots"`
}

type calendarResponse struct {
	RoomID string   `json:"room_id"`
	From   string   `json:"from"`
	To     string   `json:"to"`
	Dates  []string `json:"dates"`
}
