// Package catalog provides the static room catalog and the demo seed data.
package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/example/room-scheduler/internal/application"
)

// Built-in room identifiers.
const (
	FellowshipHallID = "fellowship-hall"
	SanctuaryID      = "sanctuary"
)

// ErrEmptyCatalog is returned when a catalog document lists no rooms.
var ErrEmptyCatalog = errors.New("catalog: no rooms defined")

type document struct {
	Rooms []roomEntry `yaml:"rooms"`
}

type roomEntry struct {
	ID              string `yaml:"id"`
	Name            string `yaml:"name"`
	Description     string `yaml:"description"`
	Image           string `yaml:"image"`
	ThankYouMessage string `yaml:"thank_you_message"`
}

// Load reads a YAML room catalog from path.
func Load(path string) ([]application.Room, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	rooms, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w (file %s)", err, path)
	}
	return rooms, nil
}

// Parse decodes a YAML room catalog. Room ids must be non-empty and unique;
// a missing name falls back to the id.
func Parse(r io.Reader) ([]application.Room, error) {
	var doc document
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyCatalog
		}
		return nil, fmt.Errorf("catalog: decode: %w", err)
	}
	if len(doc.Rooms) == 0 {
		return nil, ErrEmptyCatalog
	}

	rooms := make([]application.Room, 0, len(doc.Rooms))
	seen := make(map[string]struct{}, len(doc.Rooms))
	var problems []string
	for i, entry := range doc.Rooms {
		id := strings.TrimSpace(entry.ID)
		if id == "" {
			problems = append(problems, fmt.Sprintf("rooms[%d]: id is required", i))
			continue
		}
		if _, dup := seen[id]; dup {
			problems = append(problems, fmt.Sprintf("rooms[%d]: duplicate id %q", i, id))
			continue
		}
		seen[id] = struct{}{}

		name := strings.TrimSpace(entry.Name)
		if name == "" {
			name = id
		}
		rooms = append(rooms, application.Room{
			ID:              id,
			Name:            name,
			Description:     strings.TrimSpace(entry.Description),
			Image:           strings.TrimSpace(entry.Image),
			ThankYouMessage: strings.TrimSpace(entry.ThankYouMessage),
		})
	}
	if len(problems) > 0 {
		return nil, fmt.Errorf("catalog: invalid rooms: %s", strings.Join(problems, "; "))
	}
	return rooms, nil
}

// Default returns the built-in two-room catalog.
func Default() []application.Room {
	return []application.Room{
		{
			ID:              FellowshipHallID,
			Name:            "Fellowship Hall",
			Description:     "A spacious hall perfect for community gatherings, events, and meetings.",
			Image:           "https://images.squarespace-cdn.com/content/612fcd1969828e47926e57b4/f88c3aab-e3d4-4fbd-b3c3-d7527abfb1f7/fs02.jpeg?content-type=image/jpeg",
			ThankYouMessage: "Thank you for booking the Fellowship Hall. We look forward to hosting your event!",
		},
		{
			ID:              SanctuaryID,
			Name:            "Sanctuary",
			Description:     "A serene and beautiful space for worship, ceremonies, and contemplation.",
			Image:           "https://images.squarespace-cdn.com/content/612fcd1969828e47926e57b4/906b3394-5ba3-4024-8009-bab9cb79ef92/sy01.jpeg?content-type=image/jpeg",
			ThankYouMessage: "Thank you for booking the Sanctuary. We're honored to provide this sacred space for your event.",
		},
	}
}

// DemoSeed returns the sample collections used when nothing has been saved:
// one Fellowship Hall booking and the weekly Sunday service in the Sanctuary.
// createdAt stamps the demo reservation.
func DemoSeed(createdAt time.Time) application.Seed {
	return application.Seed{
		Reservations: []application.Reservation{{
			ID:               "1",
			RoomID:           FellowshipHallID,
			Date:             time.Date(2024, time.August, 15, 0, 0, 0, 0, time.UTC),
			StartTime:        "10:00",
			EndTime:          "12:00",
			Duration:         2,
			GuestName:        "John Doe",
			GuestEmail:       "john@example.com",
			GuestPhone:       "123-456-7890",
			EventDescription: "Community meeting with about 30 attendees",
			CreatedAt:        createdAt,
		}},
		RecurringEvents: []application.RecurringEvent{{
			ID:        "1",
			RoomID:    SanctuaryID,
			Title:     "Weekly Service",
			DayOfWeek: time.Sunday,
			StartTime: "09:00",
			EndTime:   "11:00",
			StartDate: time.Date(2024, time.August, 1, 0, 0, 0, 0, time.UTC),
		}},
	}
}
