package application

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/example/room-scheduler/internal/persistence"
	"github.com/example/room-scheduler/internal/recurrence"
	"github.com/example/room-scheduler/internal/scheduler"
)

// StoreDeps collects the collaborators of a ReservationStore.
type StoreDeps struct {
	// Blobs persists the reservation and recurring-event collections. Required.
	Blobs persistence.BlobStore
	// Rooms is the static room catalog. When empty, any room id is accepted.
	Rooms []Room
	// Seed is used for a collection that has never been saved or fails to decode.
	Seed Seed
	// IDGenerator defaults to random UUIDs.
	IDGenerator func() string
	// Now defaults to time.Now.
	Now    func() time.Time
	Logger *slog.Logger
	// HighlightTTL bounds how long projected calendar highlights are reused.
	HighlightTTL time.Duration
}

// ReservationStore owns the reservation and recurring-event collections and
// is the only path through which they change. Reservations are accepted only
// after the availability check passes. Every effective mutation writes the
// affected collection through to the blob store before it becomes visible.
//
// A single mutex serializes all operations within the process. Two processes
// sharing one backend are not coordinated.
type ReservationStore struct {
	mu sync.Mutex

	blobs       persistence.BlobStore
	rooms       []Room
	roomIndex   map[string]int
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
	projector   *scheduler.Projector
	highlights  *highlightCache

	reservations    []Reservation
	recurringEvents []RecurringEvent
	bookings        scheduler.Bookings
	closed          bool
}

// OpenReservationStore loads both collections from deps.Blobs and returns a
// ready store. A collection that is missing or cannot be decoded starts from
// the seed; read failures of the backend itself are returned.
func OpenReservationStore(ctx context.Context, deps StoreDeps) (*ReservationStore, error) {
	if deps.Blobs == nil {
		return nil, fmt.Errorf("application: reservation store requires a blob store")
	}
	if deps.IDGenerator == nil {
		deps.IDGenerator = uuid.NewString
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	s := &ReservationStore{
		blobs:       deps.Blobs,
		rooms:       cloneRooms(deps.Rooms),
		roomIndex:   make(map[string]int, len(deps.Rooms)),
		idGenerator: deps.IDGenerator,
		now:         deps.Now,
		logger:      defaultLogger(deps.Logger),
		projector:   scheduler.NewProjector(recurrence.NewEngine()),
		highlights:  newHighlightCache(deps.HighlightTTL, 0, deps.Now),
	}
	for i, room := range s.rooms {
		s.roomIndex[room.ID] = i
	}

	logger := s.loggerWith(ctx, "Open")

	reservations, err := s.loadReservations(ctx, logger, deps.Seed.Reservations)
	if err != nil {
		return nil, err
	}
	events, err := s.loadRecurringEvents(ctx, logger, deps.Seed.RecurringEvents)
	if err != nil {
		return nil, err
	}

	s.reservations = reservations
	s.recurringEvents = events
	s.rebuildBookingsLocked()

	logger.InfoContext(ctx, "reservation store opened",
		"rooms", len(s.rooms),
		"reservations", len(s.reservations),
		"recurring_events", len(s.recurringEvents),
	)
	return s, nil
}

func (s *ReservationStore) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "ReservationStore", operation, attrs...)
}

// AddReservation books input if the slot is free. ok is false, and nothing
// changes, when the interval conflicts with an existing reservation or an
// active recurring event. err reports invalid input or a persistence failure.
func (s *ReservationStore) AddReservation(ctx context.Context, input ReservationInput) (res Reservation, ok bool, err error) {
	s.mustBeInitialized()

	input = normalizeReservationInput(input)
	logger := s.loggerWith(ctx, "AddReservation",
		"room_id", input.RoomID,
		"date", input.Date.Format(time.DateOnly),
		"start_time", input.StartTime,
		"duration", input.Duration,
	)
	defer func() {
		switch {
		case err != nil:
			logger.ErrorContext(ctx, "failed to add reservation", "error", err, "error_kind", ErrorKind(err))
		case !ok:
			logger.InfoContext(ctx, "reservation rejected: slot unavailable")
		default:
			logger.With("reservation_id", res.ID, "end_time", res.EndTime).InfoContext(ctx, "reservation added")
		}
	}()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		err = ErrStoreClosed
		return
	}

	if vErr := validateReservationInput(input, s.roomChecker()); vErr.HasErrors() {
		err = vErr
		return
	}

	start := scheduler.MustParseClock(input.StartTime)
	end := scheduler.AddHours(start, input.Duration)
	candidate := scheduler.Candidate{RoomID: input.RoomID, Date: input.Date, Start: start, End: end}
	if !scheduler.IsAvailable(s.bookings, candidate) {
		return Reservation{}, false, nil
	}

	res = Reservation{
		ID:               s.idGenerator(),
		RoomID:           input.RoomID,
		Date:             input.Date,
		StartTime:        start.String(),
		EndTime:          end.String(),
		Duration:         input.Duration,
		GuestName:        input.GuestName,
		GuestEmail:       input.GuestEmail,
		GuestPhone:       input.GuestPhone,
		EventDescription: input.EventDescription,
		CreatedAt:        s.now(),
	}

	next := append(cloneReservations(s.reservations), res)
	if err = s.saveReservations(ctx, next); err != nil {
		return Reservation{}, false, err
	}
	s.reservations = next
	s.afterMutationLocked()
	return res, true, nil
}

// DeleteReservation removes the reservation with the given id. Unknown ids
// are ignored.
func (s *ReservationStore) DeleteReservation(ctx context.Context, id string) (err error) {
	s.mustBeInitialized()

	logger := s.loggerWith(ctx, "DeleteReservation", "reservation_id", id)
	removed := false
	defer func() {
		switch {
		case err != nil:
			logger.ErrorContext(ctx, "failed to delete reservation", "error", err, "error_kind", ErrorKind(err))
		case removed:
			logger.InfoContext(ctx, "reservation deleted")
		default:
			logger.DebugContext(ctx, "reservation already absent")
		}
	}()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	idx := indexOfReservation(s.reservations, id)
	if idx < 0 {
		return nil
	}

	next := make([]Reservation, 0, len(s.reservations)-1)
	next = append(next, s.reservations[:idx]...)
	next = append(next, s.reservations[idx+1:]...)
	if err = s.saveReservations(ctx, next); err != nil {
		return err
	}
	s.reservations = next
	s.afterMutationLocked()
	removed = true
	return nil
}

// AddRecurringEvent stores a new weekly event. Valid input always succeeds:
// the event is not checked against existing reservations or other events.
func (s *ReservationStore) AddRecurringEvent(ctx context.Context, input RecurringEventInput) (event RecurringEvent, ok bool, err error) {
	s.mustBeInitialized()

	candidate := normalizeRecurringEvent(RecurringEvent{
		RoomID:    input.RoomID,
		Title:     input.Title,
		DayOfWeek: input.DayOfWeek,
		StartTime: input.StartTime,
		EndTime:   input.EndTime,
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
	})
	logger := s.loggerWith(ctx, "AddRecurringEvent",
		"room_id", candidate.RoomID,
		"day_of_week", int(candidate.DayOfWeek),
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to add recurring event", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("recurring_event_id", event.ID).InfoContext(ctx, "recurring event added")
	}()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		err = ErrStoreClosed
		return
	}

	if vErr := validateRecurringEvent(candidate, s.roomChecker()); vErr.HasErrors() {
		err = vErr
		return
	}

	candidate.ID = s.idGenerator()
	next := append(cloneRecurringEvents(s.recurringEvents), candidate)
	if err = s.saveRecurringEvents(ctx, next); err != nil {
		return RecurringEvent{}, false, err
	}
	s.recurringEvents = next
	s.afterMutationLocked()
	return cloneRecurringEvent(candidate), true, nil
}

// UpdateRecurringEvent merges patch into the event with the given id.
// Unknown ids and patches that change nothing are ignored. The merged event
// must still be valid.
func (s *ReservationStore) UpdateRecurringEvent(ctx context.Context, id string, patch RecurringEventPatch) (err error) {
	s.mustBeInitialized()

	logger := s.loggerWith(ctx, "UpdateRecurringEvent", "recurring_event_id", id)
	outcome := "recurring event already absent"
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to update recurring event", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, outcome)
	}()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	idx := indexOfRecurringEvent(s.recurringEvents, id)
	if idx < 0 {
		return nil
	}

	existing := s.recurringEvents[idx]
	merged := applyRecurringEventPatch(existing, patch)
	if vErr := validateRecurringEvent(merged, s.roomChecker()); vErr.HasErrors() {
		return vErr
	}
	if recurringEventsEqual(existing, merged) {
		outcome = "recurring event unchanged"
		return nil
	}

	next := cloneRecurringEvents(s.recurringEvents)
	next[idx] = merged
	if err = s.saveRecurringEvents(ctx, next); err != nil {
		return err
	}
	s.recurringEvents = next
	s.afterMutationLocked()
	outcome = "recurring event updated"
	return nil
}

// DeleteRecurringEvent removes the event with the given id. Unknown ids are ignored.
func (s *ReservationStore) DeleteRecurringEvent(ctx context.Context, id string) (err error) {
	s.mustBeInitialized()

	logger := s.loggerWith(ctx, "DeleteRecurringEvent", "recurring_event_id", id)
	removed := false
	defer func() {
		switch {
		case err != nil:
			logger.ErrorContext(ctx, "failed to delete recurring event", "error", err, "error_kind", ErrorKind(err))
		case removed:
			logger.InfoContext(ctx, "recurring event deleted")
		default:
			logger.DebugContext(ctx, "recurring event already absent")
		}
	}()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	idx := indexOfRecurringEvent(s.recurringEvents, id)
	if idx < 0 {
		return nil
	}

	next := make([]RecurringEvent, 0, len(s.recurringEvents)-1)
	next = append(next, s.recurringEvents[:idx]...)
	next = append(next, s.recurringEvents[idx+1:]...)
	if err = s.saveRecurringEvents(ctx, next); err != nil {
		return err
	}
	s.recurringEvents = next
	s.afterMutationLocked()
	removed = true
	return nil
}

// Rooms returns the room catalog in its configured order.
func (s *ReservationStore) Rooms() []Room {
	s.mustBeInitialized()
	return cloneRooms(s.rooms)
}

// Room resolves a room by id.
func (s *ReservationStore) Room(id string) (Room, bool) {
	s.mustBeInitialized()
	idx, ok := s.roomIndex[id]
	if !ok {
		return Room{}, false
	}
	return s.rooms[idx], true
}

// Reservations returns every reservation in insertion order.
func (s *ReservationStore) Reservations() []Reservation {
	s.mustBeInitialized()
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneReservations(s.reservations)
}

// RecurringEvents returns every recurring event in insertion order.
func (s *ReservationStore) RecurringEvents() []RecurringEvent {
	s.mustBeInitialized()
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneRecurringEvents(s.recurringEvents)
}

// ReservationsForRoom returns the room's reservations in insertion order.
func (s *ReservationStore) ReservationsForRoom(roomID string) []Reservation {
	s.mustBeInitialized()
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Reservation
	for _, res := range s.reservations {
		if res.RoomID == roomID {
			out = append(out, res)
		}
	}
	return out
}

// RecurringEventsForRoom returns the room's recurring events in insertion order.
func (s *ReservationStore) RecurringEventsForRoom(roomID string) []RecurringEvent {
	s.mustBeInitialized()
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []RecurringEvent
	for _, event := range s.recurringEvents {
		if event.RoomID == roomID {
			out = append(out, cloneRecurringEvent(event))
		}
	}
	return out
}

// ReservationsOn returns the room's reservations on day ordered by start
// time. Reservations with equal start times keep their insertion order.
func (s *ReservationStore) ReservationsOn(roomID string, day time.Time) []Reservation {
	s.mustBeInitialized()
	day = recurrence.Day(day)

	s.mu.Lock()
	var out []Reservation
	for _, res := range s.reservations {
		if res.RoomID == roomID && res.Date.Equal(day) {
			out = append(out, res)
		}
	}
	s.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartTime < out[j].StartTime
	})
	return out
}

// IsAvailable reports whether [start, end) on date is free in the room.
func (s *ReservationStore) IsAvailable(roomID string, date time.Time, start, end scheduler.Clock) bool {
	s.mustBeInitialized()
	s.mu.Lock()
	defer s.mu.Unlock()
	return scheduler.IsAvailable(s.bookings, scheduler.Candidate{RoomID: roomID, Date: date, Start: start, End: end})
}

// Conflicts lists the bookings that overlap [start, end) on date in the room.
func (s *ReservationStore) Conflicts(roomID string, date time.Time, start, end scheduler.Clock) []scheduler.Conflict {
	s.mustBeInitialized()
	s.mu.Lock()
	defer s.mu.Unlock()
	return scheduler.DetectConflicts(s.bookings, scheduler.Candidate{RoomID: roomID, Date: date, Start: start, End: end})
}

// DaySlots evaluates every bookable start time on day for the given duration.
func (s *ReservationStore) DaySlots(roomID string, day time.Time, durationHours int) []scheduler.Slot {
	s.mustBeInitialized()
	s.mu.Lock()
	defer s.mu.Unlock()
	return scheduler.DaySlots(s.bookings, roomID, day, durationHours)
}

// HighlightedDates returns the days in [from, to] that carry a reservation or
// an active recurring event for the room. It fails with ErrNotFound when a
// room catalog is configured and does not contain roomID.
func (s *ReservationStore) HighlightedDates(ctx context.Context, roomID string, from, to time.Time) ([]time.Time, error) {
	s.mustBeInitialized()

	if known := s.roomChecker(); known != nil && !known(roomID) {
		return nil, ErrNotFound
	}

	from = recurrence.Day(from)
	to = recurrence.Day(to)
	key := highlightCacheKey(roomID, from, to)
	if days, ok := s.highlights.Get(key); ok {
		return days, nil
	}

	s.mu.Lock()
	days, err := s.projector.HighlightedDates(s.bookings, roomID, from, to)
	if err == nil {
		// Stored under the lock so an invalidating mutation cannot interleave.
		s.highlights.Store(key, days)
	}
	s.mu.Unlock()

	if err != nil {
		s.loggerWith(ctx, "HighlightedDates", "room_id", roomID).
			ErrorContext(ctx, "failed to project highlights", "error", err, "error_kind", ErrorKind(err))
		return nil, err
	}
	return days, nil
}

// Ping reports the health of the blob store when it supports it.
func (s *ReservationStore) Ping(ctx context.Context) error {
	s.mustBeInitialized()
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return ErrStoreClosed
	}
	if pinger, ok := s.blobs.(persistence.Pinger); ok {
		return pinger.Ping(ctx)
	}
	return nil
}

// Close rejects further mutations. The blob store is owned by the caller and
// stays open.
func (s *ReservationStore) Close() {
	s.mustBeInitialized()
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.highlights.Invalidate()
}

func (s *ReservationStore) mustBeInitialized() {
	if s == nil || s.blobs == nil {
		panic("application: ReservationStore used before OpenReservationStore")
	}
}

// roomChecker returns nil when no catalog is configured. The catalog is
// immutable after Open.
func (s *ReservationStore) roomChecker() func(string) bool {
	if len(s.roomIndex) == 0 {
		return nil
	}
	return func(id string) bool {
		_, ok := s.roomIndex[id]
		return ok
	}
}

func (s *ReservationStore) afterMutationLocked() {
	s.rebuildBookingsLocked()
	s.highlights.Invalidate()
}

func (s *ReservationStore) rebuildBookingsLocked() {
	bookings := scheduler.Bookings{
		Reservations:    make([]scheduler.Reservation, 0, len(s.reservations)),
		RecurringEvents: make([]scheduler.RecurringEvent, 0, len(s.recurringEvents)),
	}
	for _, res := range s.reservations {
		if booking, err := reservationBooking(res); err == nil {
			bookings.Reservations = append(bookings.Reservations, booking)
		}
	}
	for _, event := range s.recurringEvents {
		if booking, err := recurringBooking(event); err == nil {
			bookings.RecurringEvents = append(bookings.RecurringEvents, booking)
		}
	}
	s.bookings = bookings
}

func reservationBooking(res Reservation) (scheduler.Reservation, error) {
	start, err := scheduler.ParseClock(res.StartTime)
	if err != nil {
		return scheduler.Reservation{}, fmt.Errorf("start time: %w", err)
	}
	end, err := scheduler.ParseClock(res.EndTime)
	if err != nil {
		return scheduler.Reservation{}, fmt.Errorf("end time: %w", err)
	}
	return scheduler.Reservation{ID: res.ID, RoomID: res.RoomID, Date: res.Date, Start: start, End: end}, nil
}

func recurringBooking(event RecurringEvent) (scheduler.RecurringEvent, error) {
	if event.DayOfWeek < time.Sunday || event.DayOfWeek > time.Saturday {
		return scheduler.RecurringEvent{}, recurrence.ErrInvalidWeekday
	}
	start, err := scheduler.ParseClock(event.StartTime)
	if err != nil {
		return scheduler.RecurringEvent{}, fmt.Errorf("start time: %w", err)
	}
	end, err := scheduler.ParseClock(event.EndTime)
	if err != nil {
		return scheduler.RecurringEvent{}, fmt.Errorf("end time: %w", err)
	}
	return scheduler.RecurringEvent{
		ID:     event.ID,
		RoomID: event.RoomID,
		Rule: recurrence.Rule{
			ID:       event.ID,
			Weekday:  event.DayOfWeek,
			StartsOn: event.StartDate,
			EndsOn:   event.EndDate,
		},
		Start: start,
		End:   end,
	}, nil
}

func (s *ReservationStore) loadReservations(ctx context.Context, logger *slog.Logger, seed []Reservation) ([]Reservation, error) {
	data, ok, err := s.blobs.Load(ctx, persistence.ReservationsKey)
	if err != nil {
		return nil, fmt.Errorf("load reservations: %w", err)
	}
	if !ok {
		return cloneReservations(seed), nil
	}

	records, err := persistence.DecodeReservations(data)
	if err != nil {
		logger.WarnContext(ctx, "stored reservations are unreadable; starting from seed",
			"error", err, "error_kind", ErrorKind(err))
		return cloneReservations(seed), nil
	}

	out := make([]Reservation, 0, len(records))
	for _, record := range records {
		res := reservationFromRecord(record)
		if _, err := reservationBooking(res); err != nil {
			logger.WarnContext(ctx, "skipping stored reservation", "reservation_id", res.ID, "error", err)
			continue
		}
		out = append(out, res)
	}
	return out, nil
}

func (s *ReservationStore) loadRecurringEvents(ctx context.Context, logger *slog.Logger, seed []RecurringEvent) ([]RecurringEvent, error) {
	data, ok, err := s.blobs.Load(ctx, persistence.RecurringEventsKey)
	if err != nil {
		return nil, fmt.Errorf("load recurring events: %w", err)
	}
	if !ok {
		return cloneRecurringEvents(seed), nil
	}

	records, err := persistence.DecodeRecurringEvents(data)
	if err != nil {
		logger.WarnContext(ctx, "stored recurring events are unreadable; starting from seed",
			"error", err, "error_kind", ErrorKind(err))
		return cloneRecurringEvents(seed), nil
	}

	out := make([]RecurringEvent, 0, len(records))
	for _, record := range records {
		event := recurringEventFromRecord(record)
		if _, err := recurringBooking(event); err != nil {
			logger.WarnContext(ctx, "skipping stored recurring event", "recurring_event_id", event.ID, "error", err)
			continue
		}
		out = append(out, event)
	}
	return out, nil
}

func (s *ReservationStore) saveReservations(ctx context.Context, reservations []Reservation) error {
	records := make([]persistence.ReservationRecord, 0, len(reservations))
	for _, res := range reservations {
		records = append(records, reservationToRecord(res))
	}
	data, err := persistence.EncodeReservations(records)
	if err != nil {
		return err
	}
	if err := s.blobs.Save(ctx, persistence.ReservationsKey, data); err != nil {
		return fmt.Errorf("save reservations: %w", err)
	}
	return nil
}

func (s *ReservationStore) saveRecurringEvents(ctx context.Context, events []RecurringEvent) error {
	records := make([]persistence.RecurringEventRecord, 0, len(events))
	for _, event := range events {
		records = append(records, recurringEventToRecord(event))
	}
	data, err := persistence.EncodeRecurringEvents(records)
	if err != nil {
		return err
	}
	if err := s.blobs.Save(ctx, persistence.RecurringEventsKey, data); err != nil {
		return fmt.Errorf("save recurring events: %w", err)
	}
	return nil
}

func indexOfReservation(reservations []Reservation, id string) int {
	for i, res := range reservations {
		if res.ID == id {
			return i
		}
	}
	return -1
}

func indexOfRecurringEvent(events []RecurringEvent, id string) int {
	for i, event := range events {
		if event.ID == id {
			return i
		}
	}
	return -1
}

func recurringEventsEqual(a, b RecurringEvent) bool {
	if a.ID != b.ID || a.RoomID != b.RoomID || a.Title != b.Title || a.DayOfWeek != b.DayOfWeek ||
		a.StartTime != b.StartTime || a.EndTime != b.EndTime || !a.StartDate.Equal(b.StartDate) {
		return false
	}
	switch {
	case a.EndDate == nil && b.EndDate == nil:
		return true
	case a.EndDate == nil || b.EndDate == nil:
		return false
	default:
		return a.EndDate.Equal(*b.EndDate)
	}
}
