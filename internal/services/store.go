package services

import (
	"context"
	"log/slog"
	"time"

	"agendabuilder/internal/domain"
)

// storeService is the local agenda store backed by Postgres. It answers the
// same actions as the remote store so the BFF can run against it.
type storeService struct {
	events         domain.EventRepository
	days           domain.DayRepository
	slots          domain.SlotRepository
	logger         *slog.Logger
	contextTimeout time.Duration
	now            func() time.Time
}

func NewStoreService(events domain.EventRepository, days domain.DayRepository, slots domain.SlotRepository, logger *slog.Logger, timeout time.Duration) domain.AgendaStore {
	return &storeService{
		events:         events,
		days:           days,
		slots:          slots,
		logger:         logger,
		contextTimeout: timeout,
		now:            time.Now,
	}
}

func (s *storeService) ListEvents(c context.Context) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(c, s.contextTimeout)
	defer cancel()
	return s.events.List(ctx)
}

func (s *storeService) GetEvent(c context.Context, eventID string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(c, s.contextTimeout)
	defer cancel()
	return s.events.GetByID(ctx, eventID)
}

// GetFullAgenda assembles the event, its days by day number and each day's slots.
func (s *storeService) GetFullAgenda(c context.Context, eventID string) (*domain.FullAgenda, error) {
	ctx, cancel := context.WithTimeout(c, s.contextTimeout)
	defer cancel()

	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	days, err := s.days.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	slots, err := s.slots.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	byDay := make(map[string][]domain.Slot, len(days))
	for _, sl := range slots {
		byDay[sl.DayID] = append(byDay[sl.DayID], sl)
	}
	agenda := &domain.FullAgenda{Event: event, Days: make([]domain.AgendaDay, 0, len(days))}
	for _, d := range days {
		list := byDay[d.ID]
		if list == nil {
			list = []domain.Slot{}
		}
		agenda.Days = append(agenda.Days, domain.AgendaDay{Day: d, Slots: list})
	}
	return agenda.Sorted(), nil
}

func (s *storeService) ListDays(c context.Context, eventID string) ([]domain.Day, error) {
	ctx, cancel := context.WithTimeout(c, s.contextTimeout)
	defer cancel()
	return s.days.ListByEventID(ctx, eventID)
}

func (s *storeService) ListSlots(c context.Context, dayID string) ([]domain.Slot, error) {
	ctx, cancel := context.WithTimeout(c, s.contextTimeout)
	defer cancel()
	return s.slots.ListByDayID(ctx, dayID)
}

func (s *storeService) CreateEvent(c context.Context, in domain.NewEventInput) (string, error) {
	if err := domain.ValidateEventName(in.Name); err != nil {
		return "", err
	}
	ctx, cancel := context.WithTimeout(c, s.contextTimeout)
	defer cancel()

	event := domain.NewEvent(in.Name, in.Images, s.now().UTC())
	if err := s.events.Create(ctx, event); err != nil {
		return "", err
	}
	s.logger.Info("store: event created", "event_id", event.ID)
	return event.ID, nil
}

func (s *storeService) UpdateEvent(c context.Context, eventID string, updates domain.EventUpdates) error {
	ctx, cancel := context.WithTimeout(c, s.contextTimeout)
	defer cancel()
	_, err := s.events.Update(ctx, eventID, updates)
	return err
}

func (s *storeService) DeleteEvent(c context.Context, eventID string) error {
	ctx, cancel := context.WithTimeout(c, s.contextTimeout)
	defer cancel()
	return s.events.Delete(ctx, eventID)
}

// CreateDay requires the event to exist.
func (s *storeService) CreateDay(c context.Context, day *domain.Day) error {
	if err := domain.ValidateDay(day.Name, day.Date); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(c, s.contextTimeout)
	defer cancel()

	if _, err := s.events.GetByID(ctx, day.EventID); err != nil {
		return err
	}
	return s.days.Create(ctx, day)
}

func (s *storeService) UpdateDay(c context.Context, dayID string, updates domain.DayUpdates) error {
	ctx, cancel := context.WithTimeout(c, s.contextTimeout)
	defer cancel()
	return s.days.Update(ctx, dayID, updates)
}

func (s *storeService) DeleteDay(c context.Context, dayID string) error {
	ctx, cancel := context.WithTimeout(c, s.contextTimeout)
	defer cancel()
	return s.days.Delete(ctx, dayID)
}

// CreateSlot always shows the presenter of a new slot.
func (s *storeService) CreateSlot(c context.Context, slot *domain.Slot) error {
	in := domain.SlotInput{StartTime: slot.StartTime, EndTime: slot.EndTime, Title: slot.Title, PresenterName: slot.PresenterName}
	if err := in.Validate(); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(c, s.contextTimeout)
	defer cancel()

	slot.ShowPresenter = true
	if slot.SortOrder == 0 {
		slot.SortOrder = domain.DefaultSortOrder
	}
	return s.slots.Create(ctx, slot)
}

func (s *storeService) UpdateSlot(c context.Context, slotID string, updates domain.SlotUpdates) error {
	if err := updates.Validate(); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(c, s.contextTimeout)
	defer cancel()
	return s.slots.Update(ctx, slotID, updates)
}

func (s *storeService) DeleteSlot(c context.Context, slotID string) error {
	ctx, cancel := context.WithTimeout(c, s.contextTimeout)
	defer cancel()
	return s.slots.Delete(ctx, slotID)
}
