package controllers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"sync"
	"testing"

	"agendabuilder/internal/agenda"
	"agendabuilder/internal/delivery/http/helpers"
	"agendabuilder/internal/domain"

	"github.com/stretchr/testify/require"
)

// testLogger is a no-op logger for controller tests so we don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

var (
	testLocalizer = agenda.NewLocalizer("en")
	testErrors    = helpers.NewErrorWriter(testLogger, testLocalizer)
)

const testBaseURL = "https://agenda.example.com"

// decodeEnvelope decodes the response envelope and re-decodes its data into dest when dest is non-nil.
func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder, dest any) helpers.APIResponse {
	t.Helper()
	var envelope helpers.APIResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope), "response must be valid JSON envelope")
	if dest != nil && envelope.Data != nil {
		raw, err := json.Marshal(envelope.Data)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, dest))
	}
	return envelope
}

// fakeDashboardService implements domain.DashboardService for handler tests.
type fakeDashboardService struct {
	events     []*domain.Event
	total      int
	listErr    error
	createID   string
	createErr  error
	deleteErr  error
	lastPage   domain.PaginationParams
	lastName   string
	lastImages domain.EventImages
	lastDelete string
	confirmed  bool
}

func (f *fakeDashboardService) ListEvents(_ context.Context, page domain.PaginationParams) ([]*domain.Event, int, error) {
	f.lastPage = page
	if f.listErr != nil {
		return nil, 0, f.listErr
	}
	return f.events, f.total, nil
}

func (f *fakeDashboardService) CreateEvent(_ context.Context, name string, images domain.EventImages) (string, error) {
	f.lastName = name
	f.lastImages = images
	if f.createErr != nil {
		return "", f.createErr
	}
	return f.createID, nil
}

func (f *fakeDashboardService) DeleteEvent(_ context.Context, eventID string, confirm domain.Confirmer) error {
	f.lastDelete = eventID
	if err := domain.Confirm(confirm, "Delete event?"); err != nil {
		return err
	}
	f.confirmed = true
	return f.deleteErr
}

// fakeEditor implements domain.AgendaEditor and records what it was asked to do.
type fakeEditor struct {
	mu sync.Mutex

	snap    domain.Snapshot
	loadErr error
	err     error
	pending *domain.Pending
	// afterWait replaces the snapshot once the pending write resolves.
	afterWait *domain.Snapshot

	loads       int
	lastDayID   string
	lastSlotID  string
	lastName    string
	lastDate    string
	lastInput   domain.SlotInput
	lastUpdates domain.SlotUpdates
	lastImages  domain.EventImages
	confirmed   bool
}

func (f *fakeEditor) LoadAll(context.Context) (domain.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.loads++
	if f.loadErr != nil {
		return domain.Snapshot{}, f.loadErr
	}
	if f.snap.Event == nil {
		f.snap.Event = &domain.Event{ID: "ev-1", Name: "DevFest"}
	}
	return f.snap, nil
}

func (f *fakeEditor) Reload(ctx context.Context) (domain.Snapshot, error) {
	return f.LoadAll(ctx)
}

func (f *fakeEditor) Snapshot() domain.Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.afterWait != nil && f.pending != nil && f.pending.Err() != nil {
		return *f.afterWait
	}
	return f.snap
}

func (f *fakeEditor) AddDay(_ context.Context, name, date string) (domain.Day, error) {
	f.lastName, f.lastDate = name, date
	if f.err != nil {
		return domain.Day{}, f.err
	}
	return domain.Day{ID: "day-new", EventID: "ev-1", DayNumber: len(f.snap.Days) + 1, Name: name, Date: date}, nil
}

func (f *fakeEditor) UpdateDay(_ context.Context, dayID, name, date string) error {
	f.lastDayID, f.lastName, f.lastDate = dayID, name, date
	return f.err
}

func (f *fakeEditor) DeleteDay(_ context.Context, dayID string, confirm domain.Confirmer) error {
	f.lastDayID = dayID
	if err := domain.Confirm(confirm, "Delete day?"); err != nil {
		return err
	}
	f.confirmed = true
	return f.err
}

func (f *fakeEditor) AddSlot(_ context.Context, dayID string, in domain.SlotInput) (domain.Snapshot, *domain.Pending, error) {
	f.lastDayID, f.lastInput = dayID, in
	if f.err != nil {
		return domain.Snapshot{}, nil, f.err
	}
	return f.snap, f.pending, nil
}

func (f *fakeEditor) UpdateSlot(_ context.Context, slotID string, updates domain.SlotUpdates) (domain.Snapshot, *domain.Pending, error) {
	f.lastSlotID, f.lastUpdates = slotID, updates
	if f.err != nil {
		return domain.Snapshot{}, nil, f.err
	}
	return f.snap, f.pending, nil
}

func (f *fakeEditor) DeleteSlot(_ context.Context, slotID string, confirm domain.Confirmer) error {
	f.lastSlotID = slotID
	if err := domain.Confirm(confirm, "Delete slot?"); err != nil {
		return err
	}
	f.confirmed = true
	return f.err
}

func (f *fakeEditor) ToggleSlotPresenterVisibility(_ context.Context, slotID string) (domain.Snapshot, *domain.Pending, error) {
	f.lastSlotID = slotID
	if f.err != nil {
		return domain.Snapshot{}, nil, f.err
	}
	return f.snap, f.pending, nil
}

func (f *fakeEditor) Rollback(ctx context.Context) (domain.Snapshot, error) {
	return f.LoadAll(ctx)
}

func (f *fakeEditor) SaveImages(_ context.Context, images domain.EventImages) error {
	f.lastImages = images
	return f.err
}

type fakeEditors map[string]*fakeEditor

func (f fakeEditors) Editor(eventID string) domain.AgendaEditor {
	ed, ok := f[eventID]
	if !ok {
		ed = &fakeEditor{loadErr: domain.NewFetchError("getEvent", domain.ErrNotFound)}
		f[eventID] = ed
	}
	return ed
}

// fakeReader implements domain.AgendaReader over a fixed agenda.
type fakeReader struct {
	mu       sync.Mutex
	agenda   *domain.FullAgenda
	startErr error
	view     domain.AgendaView
	updates  chan domain.AgendaView
	stopped  bool
}

func newFakeReader(eventID string, agenda *domain.FullAgenda, startErr error) *fakeReader {
	return &fakeReader{
		agenda:   agenda,
		startErr: startErr,
		view:     domain.AgendaView{EventID: eventID, State: domain.ReaderLoading},
		updates:  make(chan domain.AgendaView, 1),
	}
}

func (f *fakeReader) Start(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.startErr != nil {
		f.view.State = domain.ReaderNotFound
		f.view.LastError = f.startErr.Error()
		f.publishLocked()
		return f.startErr
	}
	f.view.State = domain.ReaderLoaded
	f.view.Agenda = f.agenda
	f.publishLocked()
	return nil
}

func (f *fakeReader) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = true
}

func (f *fakeReader) SelectDay(i int) domain.AgendaView {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.view.Agenda != nil {
		f.view.SelectedDay = max(0, min(i, len(f.view.Agenda.Days)-1))
	}
	f.publishLocked()
	return f.view
}

func (f *fakeReader) View() domain.AgendaView {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.view
}

func (f *fakeReader) Updates() <-chan domain.AgendaView { return f.updates }

func (f *fakeReader) isStopped() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stopped
}

func (f *fakeReader) publishLocked() {
	if f.stopped {
		return
	}
	select {
	case <-f.updates:
	default:
	}
	f.updates <- f.view
}

// fakeReaders hands out one reader per event and remembers the last one.
type fakeReaders struct {
	mu      sync.Mutex
	agendas map[string]*domain.FullAgenda
	last    *fakeReader
}

func (f *fakeReaders) Reader(eventID string) domain.AgendaReader {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.agendas[eventID]
	var err error
	if !ok {
		err = domain.NewFetchError("getFullAgenda", domain.ErrNotFound)
	}
	f.last = newFakeReader(eventID, a, err)
	return f.last
}

func (f *fakeReaders) lastReader() *fakeReader {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.last
}

func twoDayAgenda() *domain.FullAgenda {
	return &domain.FullAgenda{
		Event: &domain.Event{ID: "ev-1", Name: "DevFest"},
		Days: []domain.AgendaDay{
			{
				Day: domain.Day{ID: "d1", DayNumber: 1, Name: "Day 1", Date: "2025-12-25"},
				Slots: []domain.Slot{
					{ID: "s1", DayID: "d1", StartTime: "09:00", EndTime: "10:00", Title: "Keynote", PresenterName: "Ada", ShowPresenter: true},
				},
			},
			{
				Day: domain.Day{ID: "d2", DayNumber: 2, Name: "Day 2", Date: "2025-12-26"},
				Slots: []domain.Slot{
					{ID: "s2", DayID: "d2", StartTime: "13:30", EndTime: "14:00", Title: "Panel", PresenterName: "Grace", ShowPresenter: false},
				},
			},
		},
	}
}
