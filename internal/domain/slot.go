package domain

import (
	"context"
	"sort"
	"strings"
)

// DefaultSortOrder is what createSlot stores when no sort order is given.
const DefaultSortOrder = 999

// Slot is a single timed agenda item within a day.
// Pending and SyncError are client-side only and never sent to the store.
// swagger:model Slot
type Slot struct {
	ID            string `json:"slot_id"`
	DayID         string `json:"day_id"`
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
	Title         string `json:"slot_title"`
	PresenterName string `json:"presenter_name"`
	ShowPresenter bool   `json:"show_presenter"`
	SortOrder     int    `json:"sort_order"`

	Pending   bool   `json:"pending,omitempty"`
	SyncError string `json:"sync_error,omitempty"`
}

// NewSlot returns a new Slot with the presenter shown. ID is set by the store on create.
func NewSlot(dayID string, in SlotInput, sortOrder int) *Slot {
	return &Slot{
		DayID:         dayID,
		StartTime:     in.StartTime,
		EndTime:       in.EndTime,
		Title:         in.Title,
		PresenterName: in.PresenterName,
		ShowPresenter: true,
		SortOrder:     sortOrder,
	}
}

// SlotInput collects the fields of the slot form.
type SlotInput struct {
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
	Title         string `json:"slot_title"`
	PresenterName string `json:"presenter_name"`
}

// Validate requires start, end and title.
func (in SlotInput) Validate() error {
	if strings.TrimSpace(in.StartTime) == "" {
		return NewRequiredError("start_time")
	}
	if strings.TrimSpace(in.EndTime) == "" {
		return NewRequiredError("end_time")
	}
	if strings.TrimSpace(in.Title) == "" {
		return NewRequiredError("slot_title")
	}
	return nil
}

// SlotUpdates is the partial object accepted by updateSlot. Nil fields are left unchanged.
type SlotUpdates struct {
	StartTime     *string `json:"start_time,omitempty"`
	EndTime       *string `json:"end_time,omitempty"`
	Title         *string `json:"slot_title,omitempty"`
	PresenterName *string `json:"presenter_name,omitempty"`
	ShowPresenter *bool   `json:"show_presenter,omitempty"`
}

// Updates converts a full form submission into an updateSlot payload.
func (in SlotInput) Updates() SlotUpdates {
	return SlotUpdates{
		StartTime:     &in.StartTime,
		EndTime:       &in.EndTime,
		Title:         &in.Title,
		PresenterName: &in.PresenterName,
	}
}

// Empty reports whether no field is set.
func (u SlotUpdates) Empty() bool {
	return u.StartTime == nil && u.EndTime == nil && u.Title == nil && u.PresenterName == nil && u.ShowPresenter == nil
}

// Validate rejects updates that would blank a required field.
func (u SlotUpdates) Validate() error {
	if u.StartTime != nil && strings.TrimSpace(*u.StartTime) == "" {
		return NewRequiredError("start_time")
	}
	if u.EndTime != nil && strings.TrimSpace(*u.EndTime) == "" {
		return NewRequiredError("end_time")
	}
	if u.Title != nil && strings.TrimSpace(*u.Title) == "" {
		return NewRequiredError("slot_title")
	}
	return nil
}

// Apply copies the set fields of u onto s.
func (u SlotUpdates) Apply(s *Slot) {
	if u.StartTime != nil {
		s.StartTime = *u.StartTime
	}
	if u.EndTime != nil {
		s.EndTime = *u.EndTime
	}
	if u.Title != nil {
		s.Title = *u.Title
	}
	if u.PresenterName != nil {
		s.PresenterName = *u.PresenterName
	}
	if u.ShowPresenter != nil {
		s.ShowPresenter = *u.ShowPresenter
	}
}

// SlotLess orders slots by start_time string comparison, then sort_order, then id.
func SlotLess(a, b Slot) bool {
	if a.StartTime != b.StartTime {
		return a.StartTime < b.StartTime
	}
	if a.SortOrder != b.SortOrder {
		return a.SortOrder < b.SortOrder
	}
	return a.ID < b.ID
}

// SortSlots sorts slots in place using SlotLess.
func SortSlots(slots []Slot) {
	sort.SliceStable(slots, func(i, j int) bool { return SlotLess(slots[i], slots[j]) })
}

// SortDays orders days by day_number, keeping store order for ties.
func SortDays(days []Day) {
	sort.SliceStable(days, func(i, j int) bool { return days[i].DayNumber < days[j].DayNumber })
}

// SlotRepository defines slot storage for the local store emulator.
type SlotRepository interface {
	Create(ctx context.Context, slot *Slot) error
	ListByDayID(ctx context.Context, dayID string) ([]Slot, error)
	ListByEventID(ctx context.Context, eventID string) ([]Slot, error)
	Update(ctx context.Context, id string, updates SlotUpdates) error
	Delete(ctx context.Context, id string) error
}
