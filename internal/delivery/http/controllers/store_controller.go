package controllers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"agendabuilder/internal/domain"
)

// maxStoreBody caps POST bodies accepted by the store emulator.
const maxStoreBody = 1 << 20

var errUnknownAction = errors.New("unknown action")

// storeRequest is the union of every write payload. Top-level keys an action
// does not use are ignored; keys inside updates are not.
type storeRequest struct {
	Action string `json:"action"`

	EventID            string `json:"event_id"`
	EventName          string `json:"event_name"`
	HeaderImageURL     string `json:"header_image_url"`
	HeaderHeight       string `json:"header_height"`
	BackgroundImageURL string `json:"background_image_url"`
	FooterImageURL     string `json:"footer_image_url"`

	DayID     string `json:"day_id"`
	DayNumber int    `json:"day_number"`
	DayName   string `json:"day_name"`
	DayDate   string `json:"day_date"`

	SlotID        string `json:"slot_id"`
	StartTime     string `json:"start_time"`
	EndTime       string `json:"end_time"`
	SlotTitle     string `json:"slot_title"`
	PresenterName string `json:"presenter_name"`
	SortOrder     int    `json:"sort_order"`

	Updates json.RawMessage `json:"updates"`
}

// storeWriteReply is what the emulator answers to a successful write.
type storeWriteReply struct {
	Success bool   `json:"success"`
	EventID string `json:"event_id,omitempty"`
	DayID   string `json:"day_id,omitempty"`
	SlotID  string `json:"slot_id,omitempty"`
}

// StoreController serves the action-dispatched store protocol on top of a local AgendaStore.
type StoreController struct {
	Logger *slog.Logger
	Store  domain.AgendaStore
}

func NewStoreController(logger *slog.Logger, store domain.AgendaStore) *StoreController {
	return &StoreController{Logger: logger, Store: store}
}

// Read dispatches getEvents, getEvent, getFullAgenda, getEventDays and getAgendaSlots.
func (c *StoreController) Read(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	ctx := r.Context()
	var (
		out any
		err error
	)
	switch action := q.Get("action"); action {
	case "getEvents":
		out, err = c.Store.ListEvents(ctx)
	case "getEvent":
		out, err = c.Store.GetEvent(ctx, q.Get("eventId"))
	case "getFullAgenda":
		out, err = c.Store.GetFullAgenda(ctx, q.Get("eventId"))
	case "getEventDays":
		out, err = c.Store.ListDays(ctx, q.Get("eventId"))
	case "getAgendaSlots":
		out, err = c.Store.ListSlots(ctx, q.Get("dayId"))
	default:
		err = fmt.Errorf("%w: %q", errUnknownAction, action)
	}
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	writeStoreJSON(w, http.StatusOK, out)
}

// Write dispatches the create, update and delete actions. The body is a JSON
// object with an action key, whatever its Content-Type says.
func (c *StoreController) Write(w http.ResponseWriter, r *http.Request) {
	var req storeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxStoreBody)).Decode(&req); err != nil {
		writeStoreJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body: " + err.Error()})
		return
	}
	reply, err := c.dispatch(r, req)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	writeStoreJSON(w, http.StatusOK, reply)
}

func (c *StoreController) dispatch(r *http.Request, req storeRequest) (storeWriteReply, error) {
	ctx := r.Context()
	ok := storeWriteReply{Success: true}
	switch req.Action {
	case "createEvent":
		id, err := c.Store.CreateEvent(ctx, domain.NewEventInput{
			Name: req.EventName,
			Images: domain.EventImages{
				HeaderImageURL:     req.HeaderImageURL,
				HeaderHeight:       req.HeaderHeight,
				BackgroundImageURL: req.BackgroundImageURL,
				FooterImageURL:     req.FooterImageURL,
			},
		})
		ok.EventID = id
		return ok, err
	case "updateEvent":
		var u domain.EventUpdates
		if err := decodeUpdates(req.Updates, &u); err != nil {
			return ok, err
		}
		return ok, c.Store.UpdateEvent(ctx, req.EventID, u)
	case "deleteEvent":
		return ok, c.Store.DeleteEvent(ctx, req.EventID)
	case "createDay":
		day := domain.NewDay(req.EventID, req.DayNumber, req.DayName, req.DayDate)
		err := c.Store.CreateDay(ctx, day)
		ok.DayID = day.ID
		return ok, err
	case "updateDay":
		var u domain.DayUpdates
		if err := decodeUpdates(req.Updates, &u); err != nil {
			return ok, err
		}
		return ok, c.Store.UpdateDay(ctx, req.DayID, u)
	case "deleteDay":
		return ok, c.Store.DeleteDay(ctx, req.DayID)
	case "createSlot":
		slot := domain.NewSlot(req.DayID, domain.SlotInput{
			StartTime:     req.StartTime,
			EndTime:       req.EndTime,
			Title:         req.SlotTitle,
			PresenterName: req.PresenterName,
		}, req.SortOrder)
		err := c.Store.CreateSlot(ctx, slot)
		ok.SlotID = slot.ID
		return ok, err
	case "updateSlot":
		var u domain.SlotUpdates
		if err := decodeUpdates(req.Updates, &u); err != nil {
			return ok, err
		}
		return ok, c.Store.UpdateSlot(ctx, req.SlotID, u)
	case "deleteSlot":
		return ok, c.Store.DeleteSlot(ctx, req.SlotID)
	default:
		return ok, fmt.Errorf("%w: %q", errUnknownAction, req.Action)
	}
}

// decodeUpdates decodes a partial updates object, rejecting keys dest does not know.
func decodeUpdates(raw json.RawMessage, dest any) error {
	if len(raw) == 0 {
		return &domain.ValidationError{Field: "updates", Message: "is required"}
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		return &domain.ValidationError{Field: "updates", Message: err.Error()}
	}
	return nil
}

func (c *StoreController) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *domain.ValidationError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeStoreJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	case errors.As(err, &ve), errors.Is(err, errUnknownAction):
		writeStoreJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	default:
		c.Logger.ErrorContext(r.Context(), "store action failed", "method", r.Method, "err", err)
		writeStoreJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func writeStoreJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
