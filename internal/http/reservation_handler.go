package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/example/room-scheduler/internal/application"
	"github.com/example/room-scheduler/internal/scheduler"
)

type reservationService interface {
	AddReservation(ctx context.Context, input application.ReservationInput) (application.Reservation, bool, error)
	DeleteReservation(ctx context.Context, id string) error
	Conflicts(roomID string, date time.Time, start, end scheduler.Clock) []scheduler.Conflict
	Room(id string) (application.Room, bool)
}

type ReservationHandler struct {
	service   reservationService
	responder responder
	logger    *slog.Logger
}

func NewReservationHandler(service reservationService, logger *slog.Logger) *ReservationHandler {
	base := defaultLogger(logger)
	return &ReservationHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *ReservationHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "ReservationHandler", operation, attrs...)
}

func (h *ReservationHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req reservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode reservation request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	input, vErr := req.toInput()
	if vErr != nil {
		h.log(r.Context(), "Create", "room_id", req.RoomID, "error_kind", "validation").InfoContext(r.Context(), "invalid reservation request")
		h.responder.handleServiceError(r.Context(), w, vErr)
		return
	}

	logger := h.log(r.Context(), "Create", "room_id", input.RoomID, "date", formatDay(input.Date), "start_time", input.StartTime)

	res, ok, err := h.service.AddReservation(r.Context(), input)
	if err != nil {
		logger.ErrorContext(r.Context(), "reservation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}
	if !ok {
		start := scheduler.MustParseClock(input.StartTime)
		conflicts := h.service.Conflicts(input.RoomID, input.Date, start, scheduler.AddHours(start, input.Duration))
		logger.InfoContext(r.Context(), "reservation rejected: slot unavailable", "conflicts", len(conflicts))
		h.responder.writeConflict(r.Context(), w, toConflictDTOs(conflicts))
		return
	}

	resp := reservationResponse{Reservation: toReservationDTO(res)}
	if room, found := h.service.Room(res.RoomID); found {
		resp.ThankYouMessage = room.ThankYouMessage
	}
	logger.With("reservation_id", res.ID).InfoContext(r.Context(), "reservation created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, resp)
}

func (h *ReservationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id := strings.TrimSpace(mux.Vars(r)["id"])
	if id == "" {
		h.log(r.Context(), "Delete", "error_kind", "bad_request").ErrorContext(r.Context(), "missing reservation id for delete")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidID)
		return
	}

	logger := h.log(r.Context(), "Delete", "reservation_id", id)
	if err := h.service.DeleteReservation(r.Context(), id); err != nil {
		logger.ErrorContext(r.Context(), "reservation delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "reservation deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type reservationRequest struct {
	RoomID           string `json:"room_id"`
	Date             string `json:"date"`
	StartTime        string `json:"start_time"`
	Duration         int    `json:"duration"`
	GuestName        string `json:"guest_name"`
	GuestEmail       string `json:"guest_email"`
	GuestPhone       string `json:"guest_phone"`
	EventDescription string `json:"event_description"`
}

// toInput converts the request, reporting an unparseable date as a field
// error. Everything else is validated by the store.
func (r reservationRequest) toInput() (application.ReservationInput, *application.ValidationError) {
	fields := make(map[string]string)
	day := parseOptionalDay(fields, "date", r.Date)
	if vErr := invalidFields(fields); vErr != nil {
		return application.ReservationInput{}, vErr
	}
	return application.ReservationInput{
		RoomID:           strings.TrimSpace(r.RoomID),
		Date:             day,
		StartTime:        strings.TrimSpace(r.StartTime),
		Duration:         r.Duration,
		GuestName:        r.GuestName,
		GuestEmail:       r.GuestEmail,
		GuestPhone:       r.GuestPhone,
		EventDescription: r.EventDescription,
	}, nil
}

type reservationResponse struct {
	Reservation     reservationDTO `json:"reservation"`
	ThankYouMessage string         `json:"thank_you_message,omitempty"`
}
