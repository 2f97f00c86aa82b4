package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"agendabuilder/internal/domain"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// placeholderPrefix marks slot ids synthesized before the store has confirmed a create.
const placeholderPrefix = "temp-"

// SyncEngine keeps the editor cache of one event and reconciles it with the store.
//
// Reconciliation is always whole-collection replacement by a reload. Optimistic
// slot writes run in the background; their cache entries stay marked pending
// until a reload replaces them or Rollback is called. Reloads are not
// deduplicated: when several are in flight the one that commits last wins.
type SyncEngine struct {
	store          domain.AgendaStore
	eventID        string
	logger         *slog.Logger
	contextTimeout time.Duration

	mu    sync.Mutex
	state *agendaState

	writes sync.WaitGroup

	// onFirstLoadFailure runs when a load fails before anything was ever committed.
	onFirstLoadFailure func(*SyncEngine)
}

// NewSyncEngine returns the editor for eventID backed by store.
func NewSyncEngine(store domain.AgendaStore, eventID string, logger *slog.Logger, timeout time.Duration) *SyncEngine {
	return &SyncEngine{
		store:          store,
		eventID:        eventID,
		logger:         logger.With("event_id", eventID),
		contextTimeout: timeout,
		state:          newAgendaState(),
	}
}

func (e *SyncEngine) Snapshot() domain.Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.snapshot()
}

// LoadAll fetches the event, its days and every day's slots, signalling loading
// while in flight. Nothing is committed unless every fetch succeeds.
func (e *SyncEngine) LoadAll(ctx context.Context) (domain.Snapshot, error) {
	return e.load(ctx, false)
}

// Reload is the silent variant of LoadAll.
func (e *SyncEngine) Reload(ctx context.Context) (domain.Snapshot, error) {
	return e.load(ctx, true)
}

// Rollback discards every optimistic entry by reloading from the store.
func (e *SyncEngine) Rollback(ctx context.Context) (domain.Snapshot, error) {
	e.logger.Info("rolling back optimistic changes")
	return e.load(ctx, true)
}

func (e *SyncEngine) load(ctx context.Context, silent bool) (domain.Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, e.contextTimeout)
	defer cancel()

	mode := "initial"
	if silent {
		mode = "silent"
	}
	if !silent {
		e.mu.Lock()
		e.state.loading++
		e.mu.Unlock()
	}

	event, days, slots, err := e.fetchAll(ctx)
	syncReloads.WithLabelValues(mode, resultLabel(err)).Inc()

	e.mu.Lock()
	if !silent {
		e.state.loading--
	}
	if err != nil {
		snap := e.state.snapshot()
		neverLoaded := e.state.event == nil
		e.mu.Unlock()
		e.logger.Error("agenda load failed", "mode", mode, "err", err)
		if neverLoaded && e.onFirstLoadFailure != nil {
			e.onFirstLoadFailure(e)
		}
		return snap, err
	}
	e.state.replace(event, days, slots)
	snap := e.state.snapshot()
	e.mu.Unlock()

	e.logger.Debug("agenda loaded", "mode", mode, "generation", snap.Generation, "days", len(days))
	return snap, nil
}

func (e *SyncEngine) fetchAll(ctx context.Context) (*domain.Event, []domain.Day, map[string][]domain.Slot, error) {
	e.mu.Lock()
	event := e.state.event
	e.mu.Unlock()

	if event == nil {
		ev, err := e.store.GetEvent(ctx, e.eventID)
		if err != nil {
			return nil, nil, nil, domain.NewFetchError("getEvent", err)
		}
		event = ev
	} else {
		ev := *event
		event = &ev
	}

	days, err := e.store.ListDays(ctx, e.eventID)
	if err != nil {
		return nil, nil, nil, domain.NewFetchError("getEventDays", err)
	}
	days = append([]domain.Day{}, days...)
	domain.SortDays(days)

	slots, err := fetchSlotsByDay(ctx, e.store, days)
	if err != nil {
		return nil, nil, nil, err
	}
	return event, days, slots, nil
}

// fetchSlotsByDay requests the slots of every day at once and joins the results.
// The first failure cancels the rest and fails the whole fetch.
func fetchSlotsByDay(ctx context.Context, store domain.AgendaStore, days []domain.Day) (map[string][]domain.Slot, error) {
	results := make([][]domain.Slot, len(days))
	g, gctx := errgroup.WithContext(ctx)
	for i, day := range days {
		g.Go(func() error {
			slots, err := store.ListSlots(gctx, day.ID)
			if err != nil {
				return domain.NewFetchError("getAgendaSlots", fmt.Errorf("day %s: %w", day.ID, err))
			}
			results[i] = append([]domain.Slot{}, slots...)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byDay := make(map[string][]domain.Slot, len(days))
	for i, day := range days {
		domain.SortSlots(results[i])
		byDay[day.ID] = results[i]
	}
	return byDay, nil
}

// AddDay creates a day numbered after the days already loaded and reloads
// silently to pick up the id the store assigned.
func (e *SyncEngine) AddDay(ctx context.Context, name, date string) (domain.Day, error) {
	if err := domain.ValidateDay(name, date); err != nil {
		return domain.Day{}, err
	}

	e.mu.Lock()
	dayNumber := len(e.state.days) + 1
	e.mu.Unlock()

	day := domain.NewDay(e.eventID, dayNumber, name, date)
	if err := e.withTimeout(ctx, func(ctx context.Context) error { return e.store.CreateDay(ctx, day) }); err != nil {
		err = domain.NewFetchError("createDay", err)
		e.logger.Error("create day failed", "err", err)
		return domain.Day{}, err
	}

	snap, err := e.Reload(ctx)
	if err != nil {
		return *day, err
	}
	for _, d := range snap.Days {
		if (day.ID != "" && d.ID == day.ID) || (day.ID == "" && d.DayNumber == dayNumber) {
			return d, nil
		}
	}
	return *day, nil
}

func (e *SyncEngine) UpdateDay(ctx context.Context, dayID, name, date string) error {
	if err := domain.ValidateDay(name, date); err != nil {
		return err
	}
	updates := domain.DayUpdates{Name: name, Date: date}
	if err := e.withTimeout(ctx, func(ctx context.Context) error { return e.store.UpdateDay(ctx, dayID, updates) }); err != nil {
		err = domain.NewFetchError("updateDay", err)
		e.logger.Error("update day failed", "day_id", dayID, "err", err)
		return err
	}
	_, err := e.LoadAll(ctx)
	return err
}

// DeleteDay removes a day after confirmation. The store cascades to its slots.
func (e *SyncEngine) DeleteDay(ctx context.Context, dayID string, confirm domain.Confirmer) error {
	if err := domain.Confirm(confirm, "Delete this day and all of its slots?"); err != nil {
		return err
	}
	if err := e.withTimeout(ctx, func(ctx context.Context) error { return e.store.DeleteDay(ctx, dayID) }); err != nil {
		err = domain.NewFetchError("deleteDay", err)
		e.logger.Error("delete day failed", "day_id", dayID, "err", err)
		return err
	}
	_, err := e.LoadAll(ctx)
	return err
}

// AddSlot inserts a placeholder slot into the cache and returns at once; the
// create call runs in the background.
func (e *SyncEngine) AddSlot(ctx context.Context, dayID string, in domain.SlotInput) (domain.Snapshot, *domain.Pending, error) {
	if err := in.Validate(); err != nil {
		return domain.Snapshot{}, nil, err
	}

	e.mu.Lock()
	if !e.state.hasDay(dayID) {
		e.mu.Unlock()
		return domain.Snapshot{}, nil, fmt.Errorf("day %s: %w", dayID, domain.ErrNotFound)
	}
	slot := domain.NewSlot(dayID, in, e.state.slotCount(dayID)+1)
	create := *slot

	slot.ID = placeholderPrefix + uuid.NewString()
	slot.Pending = true
	e.state.insertSlot(*slot)
	snap := e.state.snapshot()
	e.mu.Unlock()

	pending := domain.NewPending(slot.ID)
	e.writeInBackground(ctx, "createSlot", pending, func(ctx context.Context) error {
		return e.store.CreateSlot(ctx, &create)
	}, nil)
	return snap, pending, nil
}

// UpdateSlot patches the cached slot and sends the update in the background.
// A failed update is not rolled back; the entry keeps its pending mark and the error.
func (e *SyncEngine) UpdateSlot(ctx context.Context, slotID string, updates domain.SlotUpdates) (domain.Snapshot, *domain.Pending, error) {
	if updates.Empty() {
		return domain.Snapshot{}, nil, &domain.ValidationError{Field: "updates", Message: "must not be empty"}
	}
	if err := updates.Validate(); err != nil {
		return domain.Snapshot{}, nil, err
	}
	return e.patchSlot(ctx, slotID, func(domain.Slot) domain.SlotUpdates { return updates }, nil)
}

// ToggleSlotPresenterVisibility flips show_presenter optimistically and rolls
// back by reloading when the store rejects the write.
func (e *SyncEngine) ToggleSlotPresenterVisibility(ctx context.Context, slotID string) (domain.Snapshot, *domain.Pending, error) {
	flip := func(current domain.Slot) domain.SlotUpdates {
		show := !current.ShowPresenter
		return domain.SlotUpdates{ShowPresenter: &show}
	}
	return e.patchSlot(ctx, slotID, flip, func(ctx context.Context) {
		if _, err := e.Rollback(ctx); err != nil {
			e.logger.Error("rollback after failed presenter toggle", "slot_id", slotID, "err", err)
		}
	})
}

// patchSlot derives the updates from the cached slot and applies them under one
// lock, so concurrent patches of the same slot see each other's result.
func (e *SyncEngine) patchSlot(ctx context.Context, slotID string, build func(domain.Slot) domain.SlotUpdates, onFailure func(context.Context)) (domain.Snapshot, *domain.Pending, error) {
	if strings.HasPrefix(slotID, placeholderPrefix) {
		return domain.Snapshot{}, nil, &domain.ValidationError{Field: "slot_id", Message: "is not confirmed by the store yet"}
	}

	e.mu.Lock()
	current, ok := e.state.slot(slotID)
	if !ok {
		e.mu.Unlock()
		return domain.Snapshot{}, nil, fmt.Errorf("slot %s: %w", slotID, domain.ErrNotFound)
	}
	updates := build(current)
	e.state.patchSlot(slotID, updates)
	snap := e.state.snapshot()
	e.mu.Unlock()

	pending := domain.NewPending(slotID)
	e.writeInBackground(ctx, "updateSlot", pending, func(ctx context.Context) error {
		return e.store.UpdateSlot(ctx, slotID, updates)
	}, onFailure)
	return snap, pending, nil
}

// DeleteSlot removes a slot after confirmation. The cache shrinks only with the
// reload that follows.
func (e *SyncEngine) DeleteSlot(ctx context.Context, slotID string, confirm domain.Confirmer) error {
	if err := domain.Confirm(confirm, "Delete this slot?"); err != nil {
		return err
	}
	if err := e.withTimeout(ctx, func(ctx context.Context) error { return e.store.DeleteSlot(ctx, slotID) }); err != nil {
		err = domain.NewFetchError("deleteSlot", err)
		e.logger.Error("delete slot failed", "slot_id", slotID, "err", err)
		return err
	}
	_, err := e.LoadAll(ctx)
	return err
}

// SaveImages stores the branding settings and updates the cached event.
func (e *SyncEngine) SaveImages(ctx context.Context, images domain.EventImages) error {
	updates := images.Updates()
	if err := e.withTimeout(ctx, func(ctx context.Context) error { return e.store.UpdateEvent(ctx, e.eventID, updates) }); err != nil {
		err = domain.NewFetchError("updateEvent", err)
		e.logger.Error("save images failed", "err", err)
		return err
	}
	e.mu.Lock()
	if e.state.event != nil {
		ev := *e.state.event
		updates.Apply(&ev)
		e.state.event = &ev
	}
	e.mu.Unlock()
	return nil
}

// writeInBackground runs write detached from the caller's cancellation. On
// success the cache is reloaded silently; on failure the error is logged, the
// entry is marked and onFailure runs. pending resolves after all of that.
func (e *SyncEngine) writeInBackground(ctx context.Context, action string, pending *domain.Pending, write func(context.Context) error, onFailure func(context.Context)) {
	ctx = context.WithoutCancel(ctx)
	e.writes.Add(1)
	go func() {
		defer e.writes.Done()

		err := e.withTimeout(ctx, write)
		optimisticWrites.WithLabelValues(action, resultLabel(err)).Inc()
		if err != nil {
			err = domain.NewFetchError(action, err)
			e.logger.Error("optimistic write failed", "action", action, "entry", pending.ID, "err", err)
			e.mu.Lock()
			e.state.markFailed(pending.ID, err)
			e.mu.Unlock()
			if onFailure != nil {
				onFailure(ctx)
			}
			pending.Resolve(err)
			return
		}

		if _, rerr := e.Reload(ctx); rerr != nil {
			e.logger.Warn("reload after write failed", "action", action, "err", rerr)
		}
		pending.Resolve(nil)
	}()
}

func (e *SyncEngine) withTimeout(ctx context.Context, fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, e.contextTimeout)
	defer cancel()
	return fn(ctx)
}

// Close waits for background writes to finish.
func (e *SyncEngine) Close() {
	e.writes.Wait()
}
