package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"agendabuilder/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardService_ListEvents(t *testing.T) {
	store := newFakeStore()
	for i, id := range []string{"ev-a", "ev-b", "ev-c"} {
		ev := store.seedEvent(id, id)
		ev.CreatedAt = time.Date(2025, 1, i+1, 0, 0, 0, 0, time.UTC)
	}
	svc := NewDashboardService(store, nil, testLogger, time.Second)

	tests := []struct {
		name string
		page domain.PaginationParams
		want []string
	}{
		{"all, newest first", domain.PaginationParams{}, []string{"ev-c", "ev-b", "ev-a"}},
		{"first page", domain.PaginationParams{Page: 1, PageSize: 2}, []string{"ev-c", "ev-b"}},
		{"second page", domain.PaginationParams{Page: 2, PageSize: 2}, []string{"ev-a"}},
		{"past the end", domain.PaginationParams{Page: 5, PageSize: 2}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events, total, err := svc.ListEvents(context.Background(), tt.page)
			require.NoError(t, err)
			assert.Equal(t, 3, total)
			ids := make([]string, len(events))
			for i, e := range events {
				ids[i] = e.ID
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestDashboardService_ListEvents_StoreError(t *testing.T) {
	store := newFakeStore()
	store.fail("getEvents", errors.New("connection refused"))
	svc := NewDashboardService(store, nil, testLogger, time.Second)

	_, _, err := svc.ListEvents(context.Background(), domain.PaginationParams{})
	assert.True(t, domain.IsFetch(err))
}

func TestDashboardService_CreateEvent(t *testing.T) {
	store := newFakeStore()
	svc := NewDashboardService(store, nil, testLogger, time.Second)

	id, err := svc.CreateEvent(context.Background(), "DevFest", domain.EventImages{FooterImageURL: "https://example.com/f.png"})
	require.NoError(t, err)
	assert.Equal(t, "ev-1", id)

	ev, err := store.GetEvent(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, domain.EventStatusActive, ev.Status)
	assert.Equal(t, "https://example.com/f.png", ev.FooterImageURL)

	_, err = svc.CreateEvent(context.Background(), "  ", domain.EventImages{})
	assert.True(t, domain.IsValidation(err))
	assert.Equal(t, 1, store.countCalls("createEvent"))
}

func TestDashboardService_DeleteEvent(t *testing.T) {
	store := seededStore()
	editors := NewEditorRegistry(store, testLogger, time.Second)
	defer editors.Close()
	svc := NewDashboardService(store, editors, testLogger, time.Second)

	err := svc.DeleteEvent(context.Background(), "ev-1", domain.Confirmed(false))
	assert.ErrorIs(t, err, domain.ErrConfirmationDeclined)
	assert.Equal(t, 0, store.countCalls("deleteEvent"))

	before := editors.engine("ev-1")
	require.NoError(t, svc.DeleteEvent(context.Background(), "ev-1", domain.Confirmed(true)))
	_, err = store.GetEvent(context.Background(), "ev-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NotSame(t, before, editors.engine("ev-1"))

	err = svc.DeleteEvent(context.Background(), "ev-1", domain.Confirmed(true))
	assert.True(t, domain.IsFetch(err))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
