package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"agendabuilder/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memTables is an in-memory stand-in for the three store tables, cascading deletes
// the way the foreign keys do.
type memTables struct {
	events map[string]*domain.Event
	days   map[string]domain.Day
	slots  map[string]domain.Slot
	nextID int
}

func newMemTables() *memTables {
	return &memTables{
		events: map[string]*domain.Event{},
		days:   map[string]domain.Day{},
		slots:  map[string]domain.Slot{},
		nextID: 1,
	}
}

func (m *memTables) id(prefix string) string {
	id := fmt.Sprintf("%s-%d", prefix, m.nextID)
	m.nextID++
	return id
}

type memEventRepo struct{ *memTables }

func (r memEventRepo) Create(_ context.Context, e *domain.Event) error {
	e.ID = r.id("ev")
	ev := *e
	r.events[e.ID] = &ev
	return nil
}

func (r memEventRepo) GetByID(_ context.Context, id string) (*domain.Event, error) {
	e, ok := r.events[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	ev := *e
	return &ev, nil
}

func (r memEventRepo) List(_ context.Context) ([]*domain.Event, error) {
	out := []*domain.Event{}
	for _, e := range r.events {
		ev := *e
		out = append(out, &ev)
	}
	return out, nil
}

func (r memEventRepo) Update(ctx context.Context, id string, u domain.EventUpdates) (*domain.Event, error) {
	e, ok := r.events[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	u.Apply(e)
	return r.GetByID(ctx, id)
}

func (r memEventRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.events[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.events, id)
	for dayID, d := range r.days {
		if d.EventID == id {
			memDayRepo(r).cascade(dayID)
		}
	}
	return nil
}

type memDayRepo struct{ *memTables }

func (r memDayRepo) Create(_ context.Context, d *domain.Day) error {
	d.ID = r.id("day")
	r.days[d.ID] = *d
	return nil
}

func (r memDayRepo) ListByEventID(_ context.Context, eventID string) ([]domain.Day, error) {
	out := []domain.Day{}
	for _, d := range r.days {
		if d.EventID == eventID {
			out = append(out, d)
		}
	}
	domain.SortDays(out)
	return out, nil
}

func (r memDayRepo) Update(_ context.Context, id string, u domain.DayUpdates) error {
	d, ok := r.days[id]
	if !ok {
		return domain.ErrNotFound
	}
	if u.Name != "" {
		d.Name = u.Name
	}
	if u.Date != "" {
		d.Date = u.Date
	}
	r.days[id] = d
	return nil
}

func (r memDayRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.days[id]; !ok {
		return domain.ErrNotFound
	}
	r.cascade(id)
	return nil
}

func (r memDayRepo) cascade(dayID string) {
	delete(r.days, dayID)
	for id, s := range r.slots {
		if s.DayID == dayID {
			delete(r.slots, id)
		}
	}
}

type memSlotRepo struct{ *memTables }

func (r memSlotRepo) Create(_ context.Context, s *domain.Slot) error {
	if _, ok := r.days[s.DayID]; !ok {
		return domain.ErrNotFound
	}
	s.ID = r.id("slot")
	r.slots[s.ID] = *s
	return nil
}

func (r memSlotRepo) ListByDayID(_ context.Context, dayID string) ([]domain.Slot, error) {
	out := []domain.Slot{}
	for _, s := range r.slots {
		if s.DayID == dayID {
			out = append(out, s)
		}
	}
	domain.SortSlots(out)
	return out, nil
}

func (r memSlotRepo) ListByEventID(_ context.Context, eventID string) ([]domain.Slot, error) {
	out := []domain.Slot{}
	for _, s := range r.slots {
		if r.days[s.DayID].EventID == eventID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r memSlotRepo) Update(_ context.Context, id string, u domain.SlotUpdates) error {
	s, ok := r.slots[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.Apply(&s)
	r.slots[id] = s
	return nil
}

func (r memSlotRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.slots[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.slots, id)
	return nil
}

func newTestStoreService() (domain.AgendaStore, *memTables) {
	tables := newMemTables()
	svc := NewStoreService(memEventRepo{tables}, memDayRepo{tables}, memSlotRepo{tables}, testLogger, time.Second)
	return svc, tables
}

func TestStoreService_FullAgenda(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestStoreService()

	eventID, err := svc.CreateEvent(ctx, domain.NewEventInput{Name: "DevFest"})
	require.NoError(t, err)

	day2 := domain.NewDay(eventID, 2, "Day 2", "2025-12-26")
	day1 := domain.NewDay(eventID, 1, "Day 1", "2025-12-25")
	require.NoError(t, svc.CreateDay(ctx, day2))
	require.NoError(t, svc.CreateDay(ctx, day1))

	for _, in := range []domain.SlotInput{
		{StartTime: "11:00", EndTime: "12:00", Title: "Lunch"},
		{StartTime: "09:00", EndTime: "10:00", Title: "Keynote"},
	} {
		slot := domain.NewSlot(day1.ID, in, 0)
		slot.ShowPresenter = false
		require.NoError(t, svc.CreateSlot(ctx, slot))
		assert.True(t, slot.ShowPresenter)
		assert.Equal(t, domain.DefaultSortOrder, slot.SortOrder)
	}

	agenda, err := svc.GetFullAgenda(ctx, eventID)
	require.NoError(t, err)
	assert.Equal(t, "DevFest", agenda.Event.Name)
	assert.Equal(t, domain.EventStatusActive, agenda.Event.Status)
	require.Len(t, agenda.Days, 2)
	assert.Equal(t, "Day 1", agenda.Days[0].Name)
	assert.Equal(t, []string{"Keynote", "Lunch"}, slotTitles(agenda.Days[0].Slots))
	assert.NotNil(t, agenda.Days[1].Slots)
	assert.Empty(t, agenda.Days[1].Slots)
}

func TestStoreService_DeleteCascades(t *testing.T) {
	ctx := context.Background()
	svc, tables := newTestStoreService()

	eventID, err := svc.CreateEvent(ctx, domain.NewEventInput{Name: "DevFest"})
	require.NoError(t, err)
	day := domain.NewDay(eventID, 1, "Day 1", "2025-12-25")
	require.NoError(t, svc.CreateDay(ctx, day))
	require.NoError(t, svc.CreateSlot(ctx, domain.NewSlot(day.ID, domain.SlotInput{StartTime: "09:00", EndTime: "10:00", Title: "Keynote"}, 1)))

	require.NoError(t, svc.DeleteDay(ctx, day.ID))
	assert.Empty(t, tables.slots)

	require.NoError(t, svc.CreateDay(ctx, day))
	require.NoError(t, svc.CreateSlot(ctx, domain.NewSlot(day.ID, domain.SlotInput{StartTime: "09:00", EndTime: "10:00", Title: "Keynote"}, 1)))
	require.NoError(t, svc.DeleteEvent(ctx, eventID))
	assert.Empty(t, tables.days)
	assert.Empty(t, tables.slots)

	_, err = svc.GetFullAgenda(ctx, eventID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStoreService_Validation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestStoreService()
	blank := ""

	_, err := svc.CreateEvent(ctx, domain.NewEventInput{Name: " "})
	assert.True(t, domain.IsValidation(err))

	err = svc.CreateDay(ctx, domain.NewDay("ev-x", 1, "", "2025-12-25"))
	assert.True(t, domain.IsValidation(err))

	err = svc.CreateDay(ctx, domain.NewDay("ev-x", 1, "Day 1", "2025-12-25"))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = svc.CreateSlot(ctx, domain.NewSlot("d", domain.SlotInput{StartTime: "09:00"}, 1))
	assert.True(t, domain.IsValidation(err))

	err = svc.UpdateSlot(ctx, "s", domain.SlotUpdates{Title: &blank})
	assert.True(t, domain.IsValidation(err))
}

func TestStoreService_Updates(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestStoreService()

	eventID, err := svc.CreateEvent(ctx, domain.NewEventInput{Name: "DevFest"})
	require.NoError(t, err)
	height := "120px"
	require.NoError(t, svc.UpdateEvent(ctx, eventID, domain.EventUpdates{HeaderHeight: &height}))
	ev, err := svc.GetEvent(ctx, eventID)
	require.NoError(t, err)
	assert.Equal(t, "120px", ev.HeaderHeight)

	day := domain.NewDay(eventID, 1, "Day 1", "2025-12-25")
	require.NoError(t, svc.CreateDay(ctx, day))
	require.NoError(t, svc.UpdateDay(ctx, day.ID, domain.DayUpdates{Name: "Opening"}))
	days, err := svc.ListDays(ctx, eventID)
	require.NoError(t, err)
	assert.Equal(t, "Opening", days[0].Name)
	assert.Equal(t, "2025-12-25", days[0].Date)

	slot := domain.NewSlot(day.ID, domain.SlotInput{StartTime: "09:00", EndTime: "10:00", Title: "Keynote"}, 1)
	require.NoError(t, svc.CreateSlot(ctx, slot))
	hide := false
	require.NoError(t, svc.UpdateSlot(ctx, slot.ID, domain.SlotUpdates{ShowPresenter: &hide}))
	slots, err := svc.ListSlots(ctx, day.ID)
	require.NoError(t, err)
	assert.False(t, slots[0].ShowPresenter)

	assert.ErrorIs(t, svc.DeleteSlot(ctx, "missing"), domain.ErrNotFound)
}
