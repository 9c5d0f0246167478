package application

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/example/room-scheduler/internal/logging"
	"github.com/example/room-scheduler/internal/persistence"
)

func TestDefaultLogger(t *testing.T) {
	t.Parallel()

	custom := slog.New(slog.NewTextHandler(io.Discard, nil))
	if got := defaultLogger(custom); got != custom {
		t.Fatalf("expected custom logger to be returned")
	}

	if got := defaultLogger(nil); got != slog.Default() {
		t.Fatalf("expected default logger when none provided")
	}
}

func TestServiceLogger_PrefersContextLogger(t *testing.T) {
	t.Parallel()

	var base, scoped bytes.Buffer
	baseLogger := slog.New(slog.NewTextHandler(&base, nil))
	ctxLogger := slog.New(slog.NewTextHandler(&scoped, nil))

	serviceLogger(context.Background(), baseLogger, "ReservationStore", "AddReservation", "room_id", "sanctuary").Info("hello")
	if !strings.Contains(base.String(), "service=ReservationStore") || !strings.Contains(base.String(), "operation=AddReservation") || !strings.Contains(base.String(), "room_id=sanctuary") {
		t.Fatalf("expected service attributes on base logger output, got %q", base.String())
	}

	ctx := logging.ContextWithLogger(context.Background(), ctxLogger)
	serviceLogger(ctx, baseLogger, "ReservationStore", "").Info("scoped")
	if !strings.Contains(scoped.String(), "msg=scoped") {
		t.Fatalf("expected context logger to be used, got %q", scoped.String())
	}
	if strings.Contains(scoped.String(), "operation=") {
		t.Fatalf("expected empty operation to be omitted, got %q", scoped.String())
	}
}

func TestErrorKind(t *testing.T) {
	t.Parallel()

	cases := []struct {
		err  error
		want string
	}{
		{err: nil, want: ""},
		{err: fmt.Errorf("lookup: %w", ErrNotFound), want: "not_found"},
		{err: ErrStoreClosed, want: "store_closed"},
		{err: fmt.Errorf("decode: %w", persistence.ErrCorruptData), want: "corrupt_data"},
		{err: context.DeadlineExceeded, want: "canceled"},
		{err: &ValidationError{FieldErrors: map[string]string{"date": "date is required"}}, want: "validation"},
		{err: errors.New("boom"), want: "unexpected"},
	}
	for _, tc := range cases {
		if got := ErrorKind(tc.err); got != tc.want {
			t.Fatalf("ErrorKind(%v) = %q, want %q", tc.err, got, tc.want)
		}
	}
}
