package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/room-scheduler/internal/application"
)

var (
	errBadRequestBody   = errors.New("the request body is not valid JSON")
	errInvalidRoomID    = errors.New("a room id is required")
	errInvalidID        = errors.New("an id is required")
	errUnknownRoom      = errors.New("the requested room does not exist")
	errSlotUnavailable  = errors.New("the selected time is no longer available")
	errStoreUnavailable = errors.New("the reservation store is unavailable")
)

const errorCodeSlotUnavailable = "SLOT_UNAVAILABLE"

type responder struct {
	logger *slog.Logger
}

func newResponder(logger *slog.Logger) responder {
	if logger == nil {
		logger = slog.Default()
	}
	return responder{logger: logger}
}

func (r responder) writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}

	if status == http.StatusNoContent || payload == nil {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		r.loggerFor(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

func (r responder) writeError(ctx context.Context, w http.ResponseWriter, status int, err error) {
	message := statusMessage(status)
	if err != nil {
		if msg := strings.TrimSpace(err.Error()); msg != "" {
			message = msg
		}
		r.loggerFor(ctx).ErrorContext(ctx, "request failed", "status", status, "error", err)
	}

	r.writeJSON(ctx, w, status, errorResponse{Message: message})
}

func (r responder) writeConflict(ctx context.Context, w http.ResponseWriter, conflicts []conflictDTO) {
	r.writeJSON(ctx, w, http.StatusConflict, errorResponse{
		ErrorCode: errorCodeSlotUnavailable,
		Message:   errSlotUnavailable.Error(),
		Conflicts: conflicts,
	})
}

func (r responder) handleServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	if err == nil {
		r.writeError(ctx, w, http.StatusInternalServerError, errors.New("unknown error"))
		return
	}

	switch {
	case errors.Is(err, application.ErrNotFound):
		r.writeJSON(ctx, w, http.StatusNotFound, errorResponse{Message: statusMessage(http.StatusNotFound)})
	case errors.Is(err, application.ErrStoreClosed):
		r.writeJSON(ctx, w, http.StatusServiceUnavailable, errorResponse{Message: errStoreUnavailable.Error()})
	default:
		var vErr *application.ValidationError
		if errors.As(err, &vErr) {
			r.writeJSON(ctx, w, http.StatusUnprocessableEntity, errorResponse{
				Message: statusMessage(http.StatusUnprocessableEntity),
				Errors:  vErr.FieldErrors,
			})
			return
		}

		r.writeJSON(ctx, w, http.StatusInternalServerError, errorResponse{Message: statusMessage(http.StatusInternalServerError)})
	}
}

func (r responder) loggerFor(ctx context.Context) *slog.Logger {
	if logger := LoggerFromContext(ctx); logger != nil {
		return logger
	}
	return r.logger
}

func statusMessage(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "the request is malformed"
	case http.StatusNotFound:
		return "the requested resource was not found"
	case http.StatusConflict:
		return "the request conflicts with the current state of the resource"
	case http.StatusUnprocessableEntity:
		return "some fields are invalid"
	case http.StatusServiceUnavailable:
		return errStoreUnavailable.Error()
	default:
		return "an internal error occurred"
	}
}

// invalidFields builds a validation error for request values that never reach
// the store, such as unparseable dates.
func invalidFields(fields map[string]string) *application.ValidationError {
	if len(fields) == 0 {
		return nil
	}
	return &application.ValidationError{FieldErrors: fields}
}

type errorResponse struct {
	ErrorCode string            `json:"error_code,omitempty"`
	Message   string            `json:"message"`
	Errors    map[string]string `json:"errors,omitempty"`
	Conflicts []conflictDTO     `json:"conflicts,omitempty"`
}
