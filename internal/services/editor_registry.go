package services

import (
	"log/slog"
	"sync"
	"time"

	"agendabuilder/internal/domain"
)

// EditorRegistry holds one SyncEngine per event being edited.
type EditorRegistry struct {
	store          domain.AgendaStore
	logger         *slog.Logger
	contextTimeout time.Duration

	mu      sync.Mutex
	editors map[string]*SyncEngine
}

func NewEditorRegistry(store domain.AgendaStore, logger *slog.Logger, timeout time.Duration) *EditorRegistry {
	return &EditorRegistry{
		store:          store,
		logger:         logger,
		contextTimeout: timeout,
		editors:        make(map[string]*SyncEngine),
	}
}

// Editor returns the engine of eventID, creating it on first use. An engine
// whose first load fails is dropped again, so unknown ids are not retained.
func (r *EditorRegistry) Editor(eventID string) domain.AgendaEditor {
	return r.engine(eventID)
}

func (r *EditorRegistry) engine(eventID string) *SyncEngine {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.editors[eventID]
	if !ok {
		e = NewSyncEngine(r.store, eventID, r.logger, r.contextTimeout)
		e.onFirstLoadFailure = r.drop
		r.editors[eventID] = e
		openEditors.Inc()
	}
	return e
}

func (r *EditorRegistry) drop(e *SyncEngine) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.editors[e.eventID] == e {
		delete(r.editors, e.eventID)
		openEditors.Dec()
	}
}

// Forget drops the engine of a deleted event once its background writes are done.
func (r *EditorRegistry) Forget(eventID string) {
	r.mu.Lock()
	e, ok := r.editors[eventID]
	delete(r.editors, eventID)
	r.mu.Unlock()
	if ok {
		openEditors.Dec()
		e.Close()
	}
}

// Close waits for the background writes of every engine.
func (r *EditorRegistry) Close() {
	r.mu.Lock()
	engines := make([]*SyncEngine, 0, len(r.editors))
	for _, e := range r.editors {
		engines = append(engines, e)
	}
	r.mu.Unlock()
	for _, e := range engines {
		e.Close()
	}
}
