package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"agendabuilder/internal/domain"

	"github.com/robfig/cron/v3"
)

// AgendaReader keeps the public, read-only view of one event fresh by polling
// the store's full agenda on a fixed schedule.
type AgendaReader struct {
	store          domain.AgendaStore
	eventID        string
	interval       time.Duration
	logger         *slog.Logger
	contextTimeout time.Duration
	now            func() time.Time

	mu      sync.Mutex
	view    domain.AgendaView
	sched   *cron.Cron
	stopped bool
	updates chan domain.AgendaView
}

func NewAgendaReader(store domain.AgendaStore, eventID string, interval time.Duration, logger *slog.Logger, timeout time.Duration) *AgendaReader {
	return &AgendaReader{
		store:          store,
		eventID:        eventID,
		interval:       interval,
		logger:         logger.With("event_id", eventID, "component", "reader"),
		contextTimeout: timeout,
		now:            time.Now,
		view:           domain.AgendaView{EventID: eventID, State: domain.ReaderLoading},
		updates:        make(chan domain.AgendaView, 1),
	}
}

// Start performs the initial read and schedules the refresh. A failed initial
// read is terminal: the view moves to not_found and nothing is scheduled.
func (r *AgendaReader) Start(ctx context.Context) error {
	agenda, err := r.fetch(ctx)
	viewerRefreshes.WithLabelValues(resultLabel(err)).Inc()
	if err != nil {
		r.logger.Warn("agenda not available", "err", err)
		r.mu.Lock()
		r.view.State = domain.ReaderNotFound
		r.view.LastError = err.Error()
		r.publishLocked()
		r.mu.Unlock()
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.view.State = domain.ReaderLoaded
	r.view.Agenda = agenda
	r.view.SelectedDay = 0
	r.view.RefreshedAt = r.now()
	r.publishLocked()

	if r.stopped {
		return nil
	}
	r.sched = cron.New(cron.WithChain(cron.SkipIfStillRunning(cronLogger{r.logger})))
	if _, err := r.sched.AddFunc(fmt.Sprintf("@every %s", r.interval), func() {
		_ = r.Refresh(context.Background())
	}); err != nil {
		return fmt.Errorf("schedule refresh: %w", err)
	}
	r.sched.Start()
	activeViewers.Inc()
	return nil
}

// Refresh reads the agenda once. On failure the last good agenda stays in view.
func (r *AgendaReader) Refresh(ctx context.Context) error {
	agenda, err := r.fetch(ctx)
	viewerRefreshes.WithLabelValues(resultLabel(err)).Inc()

	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		r.logger.Warn("agenda refresh failed, keeping last snapshot", "err", err)
		r.view.LastError = err.Error()
		r.publishLocked()
		return err
	}
	r.view.Agenda = agenda
	r.view.LastError = ""
	r.view.RefreshedAt = r.now()
	if r.view.State != domain.ReaderNotFound {
		r.view.State = domain.ReaderLoaded
	}
	r.view.SelectedDay = clampDay(r.view.SelectedDay, agenda)
	r.publishLocked()
	return nil
}

func (r *AgendaReader) fetch(ctx context.Context) (*domain.FullAgenda, error) {
	ctx, cancel := context.WithTimeout(ctx, r.contextTimeout)
	defer cancel()

	agenda, err := r.store.GetFullAgenda(ctx, r.eventID)
	if err == nil && (agenda == nil || agenda.Event == nil) {
		err = domain.ErrNotFound
	}
	if err != nil {
		return nil, domain.NewFetchError("getFullAgenda", err)
	}
	return agenda.Sorted(), nil
}

// Stop cancels the schedule. A refresh already running finishes, but its
// result is no longer published.
func (r *AgendaReader) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopped {
		return
	}
	r.stopped = true
	if r.sched != nil {
		r.sched.Stop()
		activeViewers.Dec()
	}
}

// SelectDay switches the visible day. The index is clamped to the loaded days.
func (r *AgendaReader) SelectDay(i int) domain.AgendaView {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.view.SelectedDay = clampDay(i, r.view.Agenda)
	r.publishLocked()
	return r.view
}

// View returns the current view. The agenda it points to must not be modified.
func (r *AgendaReader) View() domain.AgendaView {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.view
}

// Updates delivers views as they change. Only the latest undelivered view is
// kept, so a slow consumer skips intermediate ones.
func (r *AgendaReader) Updates() <-chan domain.AgendaView {
	return r.updates
}

func (r *AgendaReader) publishLocked() {
	if r.stopped {
		return
	}
	select {
	case r.updates <- r.view:
		return
	default:
	}
	select {
	case <-r.updates:
	default:
	}
	select {
	case r.updates <- r.view:
	default:
	}
}

func clampDay(i int, agenda *domain.FullAgenda) int {
	if agenda == nil || len(agenda.Days) == 0 || i < 0 {
		return 0
	}
	if i >= len(agenda.Days) {
		return len(agenda.Days) - 1
	}
	return i
}

// cronLogger routes cron's own logging into slog.
type cronLogger struct{ l *slog.Logger }

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debug(msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Error(msg, append(keysAndValues, "err", err)...)
}

// ReaderFactory creates one AgendaReader per viewer.
type ReaderFactory struct {
	Store          domain.AgendaStore
	Interval       time.Duration
	Logger         *slog.Logger
	ContextTimeout time.Duration
}

func (f ReaderFactory) Reader(eventID string) domain.AgendaReader {
	return NewAgendaReader(f.Store, eventID, f.Interval, f.Logger, f.ContextTimeout)
}
