package domain

import (
	"context"
	"strings"
	"time"
)

// EventStatusActive is the status the store assigns to newly created events.
const EventStatusActive = "active"

// Event is the top-level container for an agenda.
// swagger:model Event
type Event struct {
	ID                 string    `json:"event_id"`
	Name               string    `json:"event_name"`
	Status             string    `json:"status"`
	CreatedAt          time.Time `json:"created_at"`
	HeaderImageURL     string    `json:"header_image_url,omitempty"`
	HeaderHeight       string    `json:"header_height,omitempty"`
	BackgroundImageURL string    `json:"background_image_url,omitempty"`
	FooterImageURL     string    `json:"footer_image_url,omitempty"`
}

// NewEvent returns a new active Event. ID is set by the store on create.
func NewEvent(name string, images EventImages, createdAt time.Time) *Event {
	return &Event{
		Name:               name,
		Status:             EventStatusActive,
		CreatedAt:          createdAt,
		HeaderImageURL:     images.HeaderImageURL,
		HeaderHeight:       images.HeaderHeight,
		BackgroundImageURL: images.BackgroundImageURL,
		FooterImageURL:     images.FooterImageURL,
	}
}

// EventImages are the optional branding settings of an event.
type EventImages struct {
	HeaderImageURL     string `json:"header_image_url"`
	HeaderHeight       string `json:"header_height"`
	BackgroundImageURL string `json:"background_image_url"`
	FooterImageURL     string `json:"footer_image_url"`
}

// Updates converts the image settings into a full updateEvent payload.
func (i EventImages) Updates() EventUpdates {
	return EventUpdates{
		HeaderImageURL:     &i.HeaderImageURL,
		HeaderHeight:       &i.HeaderHeight,
		BackgroundImageURL: &i.BackgroundImageURL,
		FooterImageURL:     &i.FooterImageURL,
	}
}

// EventUpdates is the partial object accepted by updateEvent. Nil fields are left unchanged.
type EventUpdates struct {
	HeaderImageURL     *string `json:"header_image_url,omitempty"`
	HeaderHeight       *string `json:"header_height,omitempty"`
	BackgroundImageURL *string `json:"background_image_url,omitempty"`
	FooterImageURL     *string `json:"footer_image_url,omitempty"`
}

// Empty reports whether no field is set.
func (u EventUpdates) Empty() bool {
	return u.HeaderImageURL == nil && u.HeaderHeight == nil && u.BackgroundImageURL == nil && u.FooterImageURL == nil
}

// Apply copies the set fields of u onto e.
func (u EventUpdates) Apply(e *Event) {
	if u.HeaderImageURL != nil {
		e.HeaderImageURL = *u.HeaderImageURL
	}
	if u.HeaderHeight != nil {
		e.HeaderHeight = *u.HeaderHeight
	}
	if u.BackgroundImageURL != nil {
		e.BackgroundImageURL = *u.BackgroundImageURL
	}
	if u.FooterImageURL != nil {
		e.FooterImageURL = *u.FooterImageURL
	}
}

// ValidateEventName rejects blank event names.
func ValidateEventName(name string) error {
	if strings.TrimSpace(name) == "" {
		return NewRequiredError("event_name")
	}
	return nil
}

// EventRepository defines the storage used by the local store emulator.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	List(ctx context.Context) ([]*Event, error)
	Update(ctx context.Context, id string, updates EventUpdates) (*Event, error)
	Delete(ctx context.Context, id string) error
}

// DashboardService lists, creates and deletes events.
type DashboardService interface {
	ListEvents(ctx context.Context, page PaginationParams) ([]*Event, int, error)
	CreateEvent(ctx context.Context, name string, images EventImages) (string, error)
	DeleteEvent(ctx context.Context, eventID string, confirm Confirmer) error
}
