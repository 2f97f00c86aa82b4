package domain

import (
	"context"
	"strings"
)

// Day is a dated subdivision of an event.
// swagger:model Day
type Day struct {
	ID        string `json:"day_id"`
	EventID   string `json:"event_id"`
	DayNumber int    `json:"day_number"`
	Name      string `json:"day_name"`
	Date      string `json:"day_date"`
}

// NewDay returns a new Day. ID is set by the store on create.
func NewDay(eventID string, dayNumber int, name, date string) *Day {
	return &Day{
		EventID:   eventID,
		DayNumber: dayNumber,
		Name:      name,
		Date:      date,
	}
}

// DayUpdates is the payload of updateDay.
type DayUpdates struct {
	Name string `json:"day_name"`
	Date string `json:"day_date"`
}

// ValidateDay checks that a day has a non-blank name and a date.
func ValidateDay(name, date string) error {
	if strings.TrimSpace(name) == "" {
		return NewRequiredError("day_name")
	}
	if strings.TrimSpace(date) == "" {
		return NewRequiredError("day_date")
	}
	return nil
}

// DayRepository defines day storage for the local store emulator.
type DayRepository interface {
	Create(ctx context.Context, day *Day) error
	ListByEventID(ctx context.Context, eventID string) ([]Day, error)
	Update(ctx context.Context, id string, updates DayUpdates) error
	Delete(ctx context.Context, id string) error
}
