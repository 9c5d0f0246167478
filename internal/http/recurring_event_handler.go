package http

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/example/room-scheduler/internal/application"
)

type recurringEventService interface {
	AddRecurringEvent(ctx context.Context, input application.RecurringEventInput) (application.RecurringEvent, bool, error)
	UpdateRecurringEvent(ctx context.Context, id string, patch application.RecurringEventPatch) error
	DeleteRecurringEvent(ctx context.Context, id string) error
}

type RecurringEventHandler struct {
	service   recurringEventService
	responder responder
	logger    *slog.Logger
}

func NewRecurringEventHandler(service recurringEventService, logger *slog.Logger) *RecurringEventHandler {
	base := defaultLogger(logger)
	return &RecurringEventHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *RecurringEventHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "RecurringEventHandler", operation, attrs...)
}

func (h *RecurringEventHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req recurringEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode recurring event request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	input, vErr := req.toInput()
	if vErr != nil {
		h.log(r.Context(), "Create", "room_id", req.RoomID, "error_kind", "validation").InfoContext(r.Context(), "invalid recurring event request")
		h.responder.handleServiceError(r.Context(), w, vErr)
		return
	}

	logger := h.log(r.Context(), "Create", "room_id", input.RoomID, "day_of_week", int(input.DayOfWeek))
	event, _, err := h.service.AddRecurringEvent(r.Context(), input)
	if err != nil {
		logger.ErrorContext(r.Context(), "recurring event creation failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("recurring_event_id", event.ID).InfoContext(r.Context(), "recurring event created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, recurringEventResponse{RecurringEvent: toRecurringEventDTO(event)})
}

func (h *RecurringEventHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id := strings.TrimSpace(mux.Vars(r)["id"])
	if id == "" {
		h.log(r.Context(), "Update", "error_kind", "bad_request").ErrorContext(r.Context(), "missing recurring event id for update")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidID)
		return
	}

	var req recurringEventPatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Update", "recurring_event_id", id, "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode recurring event patch", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	patch, vErr := req.toPatch()
	if vErr != nil {
		h.responder.handleServiceError(r.Context(), w, vErr)
		return
	}

	logger := h.log(r.Context(), "Update", "recurring_event_id", id)
	if err := h.service.UpdateRecurringEvent(r.Context(), id, patch); err != nil {
		logger.ErrorContext(r.Context(), "recurring event update failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "recurring event update applied")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *RecurringEventHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	id := strings.TrimSpace(mux.Vars(r)["id"])
	if id == "" {
		h.log(r.Context(), "Delete", "error_kind", "bad_request").ErrorContext(r.Context(), "missing recurring event id for delete")
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidID)
		return
	}

	logger := h.log(r.Context(), "Delete", "recurring_event_id", id)
	if err := h.service.DeleteRecurringEvent(r.Context(), id); err != nil {
		logger.ErrorContext(r.Context(), "recurring event delete failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "recurring event deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type recurringEventRequest struct {
	RoomID    string  `json:"room_id"`
	Title     string  `json:"title"`
	DayOfWeek *int    `json:"day_of_week"`
	StartTime string  `json:"start_time"`
	EndTime   string  `json:"end_time"`
	StartDate string  `json:"start_date"`
	EndDate   *string `json:"end_date"`
}

func (r recurringEventRequest) toInput() (application.RecurringEventInput, *application.ValidationError) {
	fields := make(map[string]string)
	if r.DayOfWeek == nil {
		fields["day_of_week"] = "day of week is required"
	}
	startDate := parseOptionalDay(fields, "start_date", r.StartDate)
	var endDate *time.Time
	if r.EndDate != nil {
		if end := parseOptionalDay(fields, "end_date", *r.EndDate); !end.IsZero() {
			endDate = &end
		}
	}
	if vErr := invalidFields(fields); vErr != nil {
		return application.RecurringEventInput{}, vErr
	}
	return application.RecurringEventInput{
		RoomID:    r.RoomID,
		Title:     r.Title,
		DayOfWeek: time.Weekday(*r.DayOfWeek),
		StartTime: r.StartTime,
		EndTime:   r.EndTime,
		StartDate: startDate,
		EndDate:   endDate,
	}, nil
}

// nullableDay distinguishes an absent end_date from an explicit null.
type nullableDay struct {
	set   bool
	value *string
}

func (n *nullableDay) UnmarshalJSON(data []byte) error {
	n.set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		n.value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	n.value = &s
	return nil
}

type recurringEventPatchRequest struct {
	RoomID    *string     `json:"room_id"`
	Title     *string     `json:"title"`
	DayOfWeek *int        `json:"day_of_week"`
	StartTime *string     `json:"start_time"`
	EndTime   *string     `json:"end_time"`
	StartDate *string     `json:"start_date"`
	EndDate   nullableDay `json:"end_date"`
}

func (r recurringEventPatchRequest) toPatch() (application.RecurringEventPatch, *application.ValidationError) {
	fields := make(map[string]string)
	patch := application.RecurringEventPatch{
		RoomID:    r.RoomID,
		Title:     r.Title,
		StartTime: r.StartTime,
		EndTime:   r.EndTime,
	}
	if r.DayOfWeek != nil {
		weekday := time.Weekday(*r.DayOfWeek)
		patch.DayOfWeek = &weekday
	}
	if r.StartDate != nil {
		start := parseOptionalDay(fields, "start_date", *r.StartDate)
		if start.IsZero() && fields["start_date"] == "" {
			fields["start_date"] = "start date is required"
		}
		patch.StartDate = &start
	}
	if r.EndDate.set {
		if r.EndDate.value == nil || strings.TrimSpace(*r.EndDate.value) == "" {
			patch.ClearEndDate = true
		} else {
			end := parseOptionalDay(fields, "end_date", *r.EndDate.value)
			patch.EndDate = &end
		}
	}
	if vErr := invalidFields(fields); vErr != nil {
		return application.RecurringEventPatch{}, vErr
	}
	return patch, nil
}

type recurringEventResponse struct {
	RecurringEvent recurringEventDTO `json:"recurring_event"`
}
