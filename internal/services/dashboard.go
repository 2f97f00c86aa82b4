package services

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"agendabuilder/internal/domain"
)

type dashboardService struct {
	store          domain.AgendaStore
	editors        *EditorRegistry
	logger         *slog.Logger
	contextTimeout time.Duration
}

// NewDashboardService returns the event list service. editors may be nil; when
// set, the editor of a deleted event is dropped.
func NewDashboardService(store domain.AgendaStore, editors *EditorRegistry, logger *slog.Logger, timeout time.Duration) domain.DashboardService {
	return &dashboardService{
		store:          store,
		editors:        editors,
		logger:         logger,
		contextTimeout: timeout,
	}
}

// ListEvents returns one page of events, newest first, and the total count.
func (s *dashboardService) ListEvents(ctx context.Context, page domain.PaginationParams) ([]*domain.Event, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.store.ListEvents(ctx)
	if err != nil {
		return nil, 0, domain.NewFetchError("getEvents", err)
	}
	sort.SliceStable(events, func(i, j int) bool {
		if !events[i].CreatedAt.Equal(events[j].CreatedAt) {
			return events[i].CreatedAt.After(events[j].CreatedAt)
		}
		return events[i].ID < events[j].ID
	})
	return domain.Paginate(events, page), len(events), nil
}

// CreateEvent creates an active event and returns its id.
func (s *dashboardService) CreateEvent(ctx context.Context, name string, images domain.EventImages) (string, error) {
	if err := domain.ValidateEventName(name); err != nil {
		return "", err
	}
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	id, err := s.store.CreateEvent(ctx, domain.NewEventInput{Name: name, Images: images})
	if err != nil {
		err = domain.NewFetchError("createEvent", err)
		s.logger.Error("create event failed", "err", err)
		return "", err
	}
	s.logger.Info("event created", "event_id", id)
	return id, nil
}

// DeleteEvent removes an event with its days and slots after confirmation.
func (s *dashboardService) DeleteEvent(ctx context.Context, eventID string, confirm domain.Confirmer) error {
	if err := domain.Confirm(confirm, "Delete this event and its whole agenda?"); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.store.DeleteEvent(ctx, eventID); err != nil {
		err = domain.NewFetchError("deleteEvent", err)
		s.logger.Error("delete event failed", "event_id", eventID, "err", err)
		return err
	}
	if s.editors != nil {
		s.editors.Forget(eventID)
	}
	s.logger.Info("event deleted", "event_id", eventID)
	return nil
}
