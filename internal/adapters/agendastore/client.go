// Package agendastore talks to the action-dispatched agenda store endpoint.
//
// Reads are GET requests carrying the action and its parameters in the query
// string. Writes are POST requests whose JSON body carries the action and the
// payload; the body is sent as text/plain because the spreadsheet script only
// accepts "simple" requests.
package agendastore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"agendabuilder/internal/domain"
)

// maxBodyBytes caps how much of a store response is read.
const maxBodyBytes = 8 << 20

type agendaStoreClient struct {
	baseURL string
	client  *http.Client
}

// NewClient returns an AgendaStore that calls the store endpoint at baseURL.
// A nil client gets a plain http.Client with timeout.
func NewClient(baseURL string, client *http.Client, timeout time.Duration) domain.AgendaStore {
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	return &agendaStoreClient{baseURL: baseURL, client: client}
}

// storeReply is the common shape of store responses that report an outcome.
type storeReply struct {
	Success *bool  `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (c *agendaStoreClient) get(ctx context.Context, action string, params url.Values, dest any) error {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return domain.NewFetchError(action, fmt.Errorf("invalid store url: %w", err))
	}
	q := u.Query()
	q.Set("action", action)
	for k, vs := range params {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return domain.NewFetchError(action, fmt.Errorf("failed to create request: %w", err))
	}
	return c.do(req, action, dest)
}

func (c *agendaStoreClient) post(ctx context.Context, action string, payload map[string]any, dest any) error {
	body := make(map[string]any, len(payload)+1)
	for k, v := range payload {
		body[k] = v
	}
	body["action"] = action
	raw, err := json.Marshal(body)
	if err != nil {
		return domain.NewFetchError(action, fmt.Errorf("failed to encode payload: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(raw))
	if err != nil {
		return domain.NewFetchError(action, fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Content-Type", "text/plain")
	return c.do(req, action, dest)
}

func (c *agendaStoreClient) do(req *http.Request, action string, dest any) (err error) {
	start := time.Now()
	defer func() { observeRequest(action, start, err) }()

	resp, err := c.client.Do(req)
	if err != nil {
		return domain.NewFetchError(action, fmt.Errorf("failed to reach agenda store: %w", err))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return domain.NewFetchError(action, fmt.Errorf("failed to read response: %w", err))
	}

	if resp.StatusCode == http.StatusNotFound {
		return domain.NewFetchError(action, domain.ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return domain.NewFetchError(action, fmt.Errorf("agenda store returned status: %d", resp.StatusCode))
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		if dest == nil || req.Method == http.MethodPost {
			return nil
		}
		return domain.NewFetchError(action, domain.ErrNotFound)
	}

	if raw[0] == '{' {
		var reply storeReply
		if err := json.Unmarshal(raw, &reply); err == nil {
			if err := reply.err(); err != nil {
				return domain.NewFetchError(action, err)
			}
		}
	}

	if dest == nil {
		return nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return domain.NewFetchError(action, fmt.Errorf("failed to decode agenda store response: %w", err))
	}
	return nil
}

func (r storeReply) err() error {
	msg := r.Error
	if msg == "" && r.Success != nil && !*r.Success {
		msg = r.Message
		if msg == "" {
			msg = "request was not successful"
		}
	}
	if msg == "" {
		return nil
	}
	if strings.Contains(strings.ToLower(msg), "not found") {
		return fmt.Errorf("%s: %w", msg, domain.ErrNotFound)
	}
	return errors.New(msg)
}

func (c *agendaStoreClient) ListEvents(ctx context.Context) ([]*domain.Event, error) {
	var events []*domain.Event
	if err := c.get(ctx, "getEvents", nil, &events); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return []*domain.Event{}, nil
		}
		return nil, err
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, nil
}

func (c *agendaStoreClient) GetEvent(ctx context.Context, eventID string) (*domain.Event, error) {
	var event domain.Event
	if err := c.get(ctx, "getEvent", url.Values{"eventId": {eventID}}, &event); err != nil {
		return nil, err
	}
	if event.ID == "" {
		return nil, domain.NewFetchError("getEvent", domain.ErrNotFound)
	}
	return &event, nil
}

func (c *agendaStoreClient) GetFullAgenda(ctx context.Context, eventID string) (*domain.FullAgenda, error) {
	var agenda domain.FullAgenda
	if err := c.get(ctx, "getFullAgenda", url.Values{"eventId": {eventID}}, &agenda); err != nil {
		return nil, err
	}
	if agenda.Event == nil || agenda.Event.ID == "" {
		return nil, domain.NewFetchError("getFullAgenda", domain.ErrNotFound)
	}
	if agenda.Days == nil {
		agenda.Days = []domain.AgendaDay{}
	}
	return &agenda, nil
}

func (c *agendaStoreClient) ListDays(ctx context.Context, eventID string) ([]domain.Day, error) {
	var days []domain.Day
	if err := c.get(ctx, "getEventDays", url.Values{"eventId": {eventID}}, &days); err != nil {
		return nil, err
	}
	if days == nil {
		days = []domain.Day{}
	}
	return days, nil
}

func (c *agendaStoreClient) ListSlots(ctx context.Context, dayID string) ([]domain.Slot, error) {
	var slots []domain.Slot
	if err := c.get(ctx, "getAgendaSlots", url.Values{"dayId": {dayID}}, &slots); err != nil {
		return nil, err
	}
	if slots == nil {
		slots = []domain.Slot{}
	}
	return slots, nil
}

type createdIDs struct {
	EventID string `json:"event_id"`
	DayID   string `json:"day_id"`
	SlotID  string `json:"slot_id"`
}

func (c *agendaStoreClient) CreateEvent(ctx context.Context, in domain.NewEventInput) (string, error) {
	var out createdIDs
	err := c.post(ctx, "createEvent", map[string]any{
		"event_name":           in.Name,
		"header_image_url":     in.Images.HeaderImageURL,
		"header_height":        in.Images.HeaderHeight,
		"background_image_url": in.Images.BackgroundImageURL,
		"footer_image_url":     in.Images.FooterImageURL,
	}, &out)
	if err != nil {
		return "", err
	}
	return out.EventID, nil
}

func (c *agendaStoreClient) UpdateEvent(ctx context.Context, eventID string, updates domain.EventUpdates) error {
	return c.post(ctx, "updateEvent", map[string]any{
		"event_id": eventID,
		"updates":  updates,
	}, nil)
}

func (c *agendaStoreClient) DeleteEvent(ctx context.Context, eventID string) error {
	return c.post(ctx, "deleteEvent", map[string]any{"event_id": eventID}, nil)
}

func (c *agendaStoreClient) CreateDay(ctx context.Context, day *domain.Day) error {
	var out createdIDs
	err := c.post(ctx, "createDay", map[string]any{
		"event_id":   day.EventID,
		"day_number": day.DayNumber,
		"day_name":   day.Name,
		"day_date":   day.Date,
	}, &out)
	if err != nil {
		return err
	}
	day.ID = out.DayID
	return nil
}

func (c *agendaStoreClient) UpdateDay(ctx context.Context, dayID string, updates domain.DayUpdates) error {
	return c.post(ctx, "updateDay", map[string]any{
		"day_id":  dayID,
		"updates": updates,
	}, nil)
}

func (c *agendaStoreClient) DeleteDay(ctx context.Context, dayID string) error {
	return c.post(ctx, "deleteDay", map[string]any{"day_id": dayID}, nil)
}

func (c *agendaStoreClient) CreateSlot(ctx context.Context, slot *domain.Slot) error {
	sortOrder := slot.SortOrder
	if sortOrder == 0 {
		sortOrder = domain.DefaultSortOrder
	}
	var out createdIDs
	err := c.post(ctx, "createSlot", map[string]any{
		"day_id":         slot.DayID,
		"start_time":     slot.StartTime,
		"end_time":       slot.EndTime,
		"slot_title":     slot.Title,
		"presenter_name": slot.PresenterName,
		"sort_order":     sortOrder,
	}, &out)
	if err != nil {
		return err
	}
	slot.ID = out.SlotID
	return nil
}

func (c *agendaStoreClient) UpdateSlot(ctx context.Context, slotID string, updates domain.SlotUpdates) error {
	return c.post(ctx, "updateSlot", map[string]any{
		"slot_id": slotID,
		"updates": updates,
	}, nil)
}

func (c *agendaStoreClient) DeleteSlot(ctx context.Context, slotID string) error {
	return c.post(ctx, "deleteSlot", map[string]any{"slot_id": slotID}, nil)
}
