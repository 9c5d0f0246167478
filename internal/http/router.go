package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

// HealthChecker reports whether the backing store can serve requests.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

type RouterConfig struct {
	Rooms           *RoomHandler
	Reservations    *ReservationHandler
	RecurringEvents *RecurringEventHandler
	Health          HealthChecker
	Logger          *slog.Logger
	Middleware      []func(http.Handler) http.Handler
}

func NewRouter(cfg RouterConfig) http.Handler {
	router := mux.NewRouter()
	router.NotFoundHandler = http.HandlerFunc(notFound)
	router.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)

	if cfg.Rooms != nil {
		router.HandleFunc("/rooms", cfg.Rooms.List).Methods(http.MethodGet)
		router.HandleFunc("/rooms/{roomID}", cfg.Rooms.Get).Methods(http.MethodGet)
		router.HandleFunc("/rooms/{roomID}/availability", cfg.Rooms.Availability).Methods(http.MethodGet)
		router.HandleFunc("/rooms/{roomID}/reservations", cfg.Rooms.Reservations).Methods(http.MethodGet)
		router.HandleFunc("/rooms/{roomID}/recurring-events", cfg.Rooms.RecurringEvents).Methods(http.MethodGet)
		router.HandleFunc("/rooms/{roomID}/calendar", cfg.Rooms.Calendar).Methods(http.MethodGet)
	}

	if cfg.Reservations != nil {
		router.HandleFunc("/reservations", cfg.Reservations.Create).Methods(http.MethodPost)
		router.HandleFunc("/reservations/{id}", cfg.Reservations.Delete).Methods(http.MethodDelete)
	}

	if cfg.RecurringEvents != nil {
		router.HandleFunc("/recurring-events", cfg.RecurringEvents.Create).Methods(http.MethodPost)
		router.HandleFunc("/recurring-events/{id}", cfg.RecurringEvents.Update).Methods(http.MethodPatch)
		router.HandleFunc("/recurring-events/{id}", cfg.RecurringEvents.Delete).Methods(http.MethodDelete)
	}

	router.HandleFunc("/healthz", healthz(cfg.Health, cfg.Logger)).Methods(http.MethodGet)

	var handler http.Handler = router
	for i := len(cfg.Middleware) - 1; i >= 0; i-- {
		if cfg.Middleware[i] != nil {
			handler = cfg.Middleware[i](handler)
		}
	}

	return handler
}

func healthz(checker HealthChecker, logger *slog.Logger) http.HandlerFunc {
	responder := newResponder(logger)
	return func(w http.ResponseWriter, r *http.Request) {
		if checker != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := checker.Ping(ctx); err != nil {
				responder.loggerFor(r.Context()).WarnContext(r.Context(), "health check failed", "error", err)
				responder.writeJSON(r.Context(), w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable"})
				return
			}
		}
		responder.writeJSON(r.Context(), w, http.StatusOK, healthResponse{Status: "ok"})
	}
}

type healthResponse struct {
	Status string `json:"status"`
}

func notFound(w http.ResponseWriter, r *http.Request) {
	newResponder(nil).writeJSON(r.Context(), w, http.StatusNotFound, errorResponse{Message: statusMessage(http.StatusNotFound)})
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	newResponder(nil).writeJSON(r.Context(), w, http.StatusMethodNotAllowed, errorResponse{Message: http.StatusText(http.StatusMethodNotAllowed)})
}
