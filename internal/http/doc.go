// Package http provides HTTP handlers and middleware for the room scheduler API.
//
// The router exposes the following endpoints:
//   - GET /rooms, GET /rooms/{roomID}: the static room catalog. A room carries
//     the thank-you message shown after a successful booking.
//   - GET /rooms/{roomID}/availability?date=&start=&duration= (or &end=):
//     reports whether the interval is free together with the bookings it
//     collides with. Without start, every bookable start time of the day is
//     evaluated for the duration (default 1 hour).
//   - GET /rooms/{roomID}/reservations[?date=]: the room's reservations, ordered
//     by start time when a date is given.
//   - GET /rooms/{roomID}/recurring-events: the room's weekly events.
//   - GET /rooms/{roomID}/calendar?from=&to=: days carrying a booking. The window
//     defaults to today through the configured number of months.
//   - POST /reservations, DELETE /reservations/{id}: booking. A slot conflict
//     answers 409 with error_code SLOT_UNAVAILABLE.
//   - POST /recurring-events, PATCH /recurring-events/{id},
//     DELETE /recurring-events/{id}: weekly event administration. A PATCH with
//     "end_date": null removes the end bound.
//   - GET /healthz: backend health.
//
// Dates travel as YYYY-MM-DD and times of day as HH:MM. Deletes and updates of
// unknown ids answer 204. Invalid input answers 422 with per-field messages.
//
// Request/response DTOs live alongside their respective handlers so tests and
// documentation share the same ground truth.
package http
