package domain

import (
	"context"
	"time"
)

// ReaderState is the lifecycle of a public agenda reader.
type ReaderState string

const (
	ReaderLoading  ReaderState = "loading"
	ReaderLoaded   ReaderState = "loaded"
	ReaderNotFound ReaderState = "not_found"
)

// AgendaView is what a public viewer shows at a point in time.
// swagger:model AgendaView
type AgendaView struct {
	EventID     string      `json:"event_id"`
	State       ReaderState `json:"state"`
	Agenda      *FullAgenda `json:"agenda,omitempty"`
	SelectedDay int         `json:"selected_day"`
	RefreshedAt time.Time   `json:"refreshed_at"`
	// LastError is the most recent refresh failure; the agenda shown is the last good one.
	LastError string `json:"last_error,omitempty"`
}

// Day returns the selected day, if the agenda has any.
func (v AgendaView) Day() (AgendaDay, bool) {
	if v.Agenda == nil || v.SelectedDay < 0 || v.SelectedDay >= len(v.Agenda.Days) {
		return AgendaDay{}, false
	}
	return v.Agenda.Days[v.SelectedDay], true
}

// AgendaReader polls one event's full agenda for a public viewer.
type AgendaReader interface {
	Start(ctx context.Context) error
	Stop()
	SelectDay(i int) AgendaView
	View() AgendaView
	Updates() <-chan AgendaView
}

// AgendaReaders creates a fresh reader per viewer.
type AgendaReaders interface {
	Reader(eventID string) AgendaReader
}
