package domain

import (
	"context"
	"sort"
)

// FullAgenda is the composite read used by the public viewer.
// swagger:model FullAgenda
type FullAgenda struct {
	Event *Event      `json:"event"`
	Days  []AgendaDay `json:"days"`
}

// AgendaDay is a day together with its ordered slots.
type AgendaDay struct {
	Day
	Slots []Slot `json:"slots"`
}

// Sorted returns a copy with days in day_number order and each day's slots in
// slot order. The receiver is left untouched.
func (a *FullAgenda) Sorted() *FullAgenda {
	if a == nil {
		return nil
	}
	out := &FullAgenda{Days: make([]AgendaDay, len(a.Days))}
	if a.Event != nil {
		ev := *a.Event
		out.Event = &ev
	}
	for i, d := range a.Days {
		out.Days[i] = AgendaDay{Day: d.Day, Slots: append([]Slot{}, d.Slots...)}
		SortSlots(out.Days[i].Slots)
	}
	sort.SliceStable(out.Days, func(i, j int) bool { return out.Days[i].DayNumber < out.Days[j].DayNumber })
	return out
}

// NewEventInput is the payload of createEvent.
type NewEventInput struct {
	Name   string
	Images EventImages
}

// AgendaStore is the action-dispatched remote store holding events, days and slots.
// Implementations: the HTTP client in adapters/agendastore and the emulator service.
type AgendaStore interface {
	ListEvents(ctx context.Context) ([]*Event, error)
	GetEvent(ctx context.Context, eventID string) (*Event, error)
	GetFullAgenda(ctx context.Context, eventID string) (*FullAgenda, error)
	ListDays(ctx context.Context, eventID string) ([]Day, error)
	ListSlots(ctx context.Context, dayID string) ([]Slot, error)

	// CreateEvent returns the id of the new event.
	CreateEvent(ctx context.Context, in NewEventInput) (string, error)
	UpdateEvent(ctx context.Context, eventID string, updates EventUpdates) error
	DeleteEvent(ctx context.Context, eventID string) error

	// CreateDay sets day.ID when the store reports it.
	CreateDay(ctx context.Context, day *Day) error
	UpdateDay(ctx context.Context, dayID string, updates DayUpdates) error
	DeleteDay(ctx context.Context, dayID string) error

	// CreateSlot sets slot.ID when the store reports it.
	CreateSlot(ctx context.Context, slot *Slot) error
	UpdateSlot(ctx context.Context, slotID string, updates SlotUpdates) error
	DeleteSlot(ctx context.Context, slotID string) error
}

// Snapshot is an immutable copy of the editor cache for one event. Pending
// lists the ids of slots whose store write is unconfirmed.
// swagger:model Snapshot
type Snapshot struct {
	Event      *Event            `json:"event"`
	Days       []Day             `json:"days"`
	Slots      map[string][]Slot `json:"slots"`
	Loading    bool              `json:"loading"`
	Pending    []string          `json:"pending"`
	Generation uint64            `json:"generation"`
}

// Slot returns the slot with the given id, if present.
func (s Snapshot) Slot(slotID string) (Slot, bool) {
	for _, list := range s.Slots {
		for _, sl := range list {
			if sl.ID == slotID {
				return sl, true
			}
		}
	}
	return Slot{}, false
}

// AgendaEditor is the sync engine of a single event as seen by the editing surface.
type AgendaEditor interface {
	LoadAll(ctx context.Context) (Snapshot, error)
	Reload(ctx context.Context) (Snapshot, error)
	Snapshot() Snapshot

	AddDay(ctx context.Context, name, date string) (Day, error)
	UpdateDay(ctx context.Context, dayID, name, date string) error
	DeleteDay(ctx context.Context, dayID string, confirm Confirmer) error

	AddSlot(ctx context.Context, dayID string, in SlotInput) (Snapshot, *Pending, error)
	UpdateSlot(ctx context.Context, slotID string, updates SlotUpdates) (Snapshot, *Pending, error)
	DeleteSlot(ctx context.Context, slotID string, confirm Confirmer) error
	ToggleSlotPresenterVisibility(ctx context.Context, slotID string) (Snapshot, *Pending, error)
	Rollback(ctx context.Context) (Snapshot, error)

	SaveImages(ctx context.Context, images EventImages) error
}

// AgendaEditors hands out the editor of an event, creating it on first use.
type AgendaEditors interface {
	Editor(eventID string) AgendaEditor
}
