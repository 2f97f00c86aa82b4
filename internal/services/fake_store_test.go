package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"agendabuilder/internal/domain"
)

// testLogger discards output so tests don't assert on log text by accident.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

// capturingHandler records every log record for assertions.
type capturingHandler struct {
	mu      sync.Mutex
	records []slog.Record
}

func (h *capturingHandler) Enabled(_ context.Context, _ slog.Level) bool { return true }

func (h *capturingHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, r.Clone())
	return nil
}

func (h *capturingHandler) WithAttrs(_ []slog.Attr) slog.Handler { return h }

func (h *capturingHandler) WithGroup(_ string) slog.Handler { return h }

// errorAttrs returns the "err" attribute of every record logged with message msg.
func (h *capturingHandler) errorAttrs(msg string) []any {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []any
	for _, r := range h.records {
		if r.Message != msg {
			continue
		}
		r.Attrs(func(a slog.Attr) bool {
			if a.Key == "err" {
				out = append(out, a.Value.Any())
			}
			return true
		})
	}
	return out
}

// fakeStore is an in-memory AgendaStore for tests.
type fakeStore struct {
	mu     sync.Mutex
	events map[string]*domain.Event
	days   []domain.Day
	slots  []domain.Slot
	nextID int
	calls  []string

	// failures makes the named action return the error.
	failures map[string]error
	// gates blocks the named action until the channel is closed.
	gates map[string]chan struct{}
	// slotFailures fails getAgendaSlots for the given day ids.
	slotFailures map[string]error

	lastCreatedSlot domain.Slot
	inFlightSlots   int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		events:       make(map[string]*domain.Event),
		failures:     make(map[string]error),
		gates:        make(map[string]chan struct{}),
		slotFailures: make(map[string]error),
		nextID:       1,
	}
}

func (f *fakeStore) seedEvent(id, name string) *domain.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	ev := &domain.Event{ID: id, Name: name, Status: domain.EventStatusActive, CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	f.events[id] = ev
	return ev
}

func (f *fakeStore) seedDay(d domain.Day) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.days = append(f.days, d)
}

func (f *fakeStore) seedSlot(s domain.Slot) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.slots = append(f.slots, s)
}

func (f *fakeStore) fail(action string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[action] = err
}

func (f *fakeStore) gate(action string) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan struct{})
	f.gates[action] = ch
	return ch
}

func (f *fakeStore) callLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeStore) countCalls(action string) int {
	n := 0
	for _, c := range f.callLog() {
		if c == action {
			n++
		}
	}
	return n
}

func (f *fakeStore) enter(ctx context.Context, action string) error {
	f.mu.Lock()
	f.calls = append(f.calls, action)
	gate := f.gates[action]
	err := f.failures[action]
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

func (f *fakeStore) newID(prefix string) string {
	id := fmt.Sprintf("%s-%d", prefix, f.nextID)
	f.nextID++
	return id
}

func (f *fakeStore) ListEvents(ctx context.Context) ([]*domain.Event, error) {
	if err := f.enter(ctx, "getEvents"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*domain.Event, 0, len(f.events))
	for _, e := range f.events {
		ev := *e
		out = append(out, &ev)
	}
	return out, nil
}

func (f *fakeStore) GetEvent(ctx context.Context, eventID string) (*domain.Event, error) {
	if err := f.enter(ctx, "getEvent"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.events[eventID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	ev := *e
	return &ev, nil
}

func (f *fakeStore) GetFullAgenda(ctx context.Context, eventID string) (*domain.FullAgenda, error) {
	if err := f.enter(ctx, "getFullAgenda"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.events[eventID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	ev := *e
	agenda := &domain.FullAgenda{Event: &ev, Days: []domain.AgendaDay{}}
	for _, d := range f.days {
		if d.EventID != eventID {
			continue
		}
		ad := domain.AgendaDay{Day: d, Slots: []domain.Slot{}}
		for _, s := range f.slots {
			if s.DayID == d.ID {
				ad.Slots = append(ad.Slots, s)
			}
		}
		agenda.Days = append(agenda.Days, ad)
	}
	return agenda, nil
}

func (f *fakeStore) ListDays(ctx context.Context, eventID string) ([]domain.Day, error) {
	if err := f.enter(ctx, "getEventDays"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []domain.Day{}
	for _, d := range f.days {
		if d.EventID == eventID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeStore) ListSlots(ctx context.Context, dayID string) ([]domain.Slot, error) {
	f.mu.Lock()
	f.inFlightSlots++
	f.mu.Unlock()
	defer func() {
		f.mu.Lock()
		f.inFlightSlots--
		f.mu.Unlock()
	}()

	if err := f.enter(ctx, "getAgendaSlots"); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.slotFailures[dayID]; err != nil {
		return nil, err
	}
	out := []domain.Slot{}
	for _, s := range f.slots {
		if s.DayID == dayID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeStore) slotsInFlight() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.inFlightSlots
}

func (f *fakeStore) CreateEvent(ctx context.Context, in domain.NewEventInput) (string, error) {
	if err := f.enter(ctx, "createEvent"); err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	ev := domain.NewEvent(in.Name, in.Images, time.Now())
	ev.ID = f.newID("ev")
	f.events[ev.ID] = ev
	return ev.ID, nil
}

func (f *fakeStore) UpdateEvent(ctx context.Context, eventID string, updates domain.EventUpdates) error {
	if err := f.enter(ctx, "updateEvent"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.events[eventID]
	if !ok {
		return domain.ErrNotFound
	}
	updates.Apply(e)
	return nil
}

func (f *fakeStore) DeleteEvent(ctx context.Context, eventID string) error {
	if err := f.enter(ctx, "deleteEvent"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.events[eventID]; !ok {
		return domain.ErrNotFound
	}
	delete(f.events, eventID)
	return nil
}

func (f *fakeStore) CreateDay(ctx context.Context, day *domain.Day) error {
	if err := f.enter(ctx, "createDay"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	day.ID = f.newID("day")
	f.days = append(f.days, *day)
	return nil
}

func (f *fakeStore) UpdateDay(ctx context.Context, dayID string, updates domain.DayUpdates) error {
	if err := f.enter(ctx, "updateDay"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.days {
		if f.days[i].ID == dayID {
			f.days[i].Name = updates.Name
			f.days[i].Date = updates.Date
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeStore) DeleteDay(ctx context.Context, dayID string) error {
	if err := f.enter(ctx, "deleteDay"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	days := f.days[:0]
	for _, d := range f.days {
		if d.ID != dayID {
			days = append(days, d)
		}
	}
	f.days = days
	slots := f.slots[:0]
	for _, s := range f.slots {
		if s.DayID != dayID {
			slots = append(slots, s)
		}
	}
	f.slots = slots
	return nil
}

func (f *fakeStore) CreateSlot(ctx context.Context, slot *domain.Slot) error {
	if err := f.enter(ctx, "createSlot"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	slot.ID = f.newID("slot")
	f.lastCreatedSlot = *slot
	f.slots = append(f.slots, *slot)
	return nil
}

func (f *fakeStore) UpdateSlot(ctx context.Context, slotID string, updates domain.SlotUpdates) error {
	if err := f.enter(ctx, "updateSlot"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.slots {
		if f.slots[i].ID == slotID {
			updates.Apply(&f.slots[i])
			return nil
		}
	}
	return domain.ErrNotFound
}

func (f *fakeStore) DeleteSlot(ctx context.Context, slotID string) error {
	if err := f.enter(ctx, "deleteSlot"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	slots := f.slots[:0]
	for _, s := range f.slots {
		if s.ID != slotID {
			slots = append(slots, s)
		}
	}
	f.slots = slots
	return nil
}
