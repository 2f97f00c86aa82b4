package services

import (
	"sort"

	"agendabuilder/internal/domain"
)

// agendaState is the editor cache of one event. It is owned by a syncEngine and
// only touched with the engine's mutex held; readers get deep copies.
type agendaState struct {
	event      *domain.Event
	days       []domain.Day
	slots      map[string][]domain.Slot
	loading    int
	generation uint64
}

func newAgendaState() *agendaState {
	return &agendaState{
		days:  []domain.Day{},
		slots: map[string][]domain.Slot{},
	}
}

// replace swaps in a freshly fetched agenda and bumps the generation. Nothing
// of the previous days or slots survives, placeholders included.
func (s *agendaState) replace(event *domain.Event, days []domain.Day, slots map[string][]domain.Slot) {
	s.event = event
	s.days = days
	s.slots = slots
	s.generation++
}

func (s *agendaState) snapshot() domain.Snapshot {
	snap := domain.Snapshot{
		Days:       append([]domain.Day(nil), s.days...),
		Pending:    []string{},
		Slots:      make(map[string][]domain.Slot, len(s.slots)),
		Loading:    s.loading > 0,
		Generation: s.generation,
	}
	if snap.Days == nil {
		snap.Days = []domain.Day{}
	}
	if s.event != nil {
		ev := *s.event
		snap.Event = &ev
	}
	for dayID, list := range s.slots {
		snap.Slots[dayID] = append([]domain.Slot{}, list...)
		for _, sl := range list {
			if sl.Pending {
				snap.Pending = append(snap.Pending, sl.ID)
			}
		}
	}
	sort.Strings(snap.Pending)
	return snap
}

func (s *agendaState) hasDay(dayID string) bool {
	for _, d := range s.days {
		if d.ID == dayID {
			return true
		}
	}
	return false
}

// insertSlot adds slot to its day keeping the slot ordering.
func (s *agendaState) insertSlot(slot domain.Slot) {
	list := append(append([]domain.Slot{}, s.slots[slot.DayID]...), slot)
	domain.SortSlots(list)
	s.slots[slot.DayID] = list
}

func (s *agendaState) slot(slotID string) (domain.Slot, bool) {
	dayID, i, ok := s.findSlot(slotID)
	if !ok {
		return domain.Slot{}, false
	}
	return s.slots[dayID][i], true
}

func (s *agendaState) findSlot(slotID string) (string, int, bool) {
	for dayID, list := range s.slots {
		for i := range list {
			if list[i].ID == slotID {
				return dayID, i, true
			}
		}
	}
	return "", 0, false
}

// patchSlot applies updates to the cached slot and marks it pending.
// The day list is copied before the write so earlier snapshots stay intact.
func (s *agendaState) patchSlot(slotID string, updates domain.SlotUpdates) (domain.Slot, bool) {
	dayID, i, ok := s.findSlot(slotID)
	if !ok {
		return domain.Slot{}, false
	}
	list := append([]domain.Slot{}, s.slots[dayID]...)
	updates.Apply(&list[i])
	list[i].Pending = true
	list[i].SyncError = ""
	s.slots[dayID] = list
	return list[i], true
}

// markFailed records a failed write on a pending slot. The entry itself stays
// until a reload or rollback replaces the cache.
func (s *agendaState) markFailed(slotID string, err error) {
	dayID, i, ok := s.findSlot(slotID)
	if !ok {
		return
	}
	list := append([]domain.Slot{}, s.slots[dayID]...)
	list[i].SyncError = err.Error()
	s.slots[dayID] = list
}

func (s *agendaState) slotCount(dayID string) int {
	return len(s.slots[dayID])
}
