package controllers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"agendabuilder/internal/agenda"
	"agendabuilder/internal/delivery/http/helpers"
	"agendabuilder/internal/domain"
)

// pendingWait bounds how long ?wait=true holds a request for a background write.
const pendingWait = 30 * time.Second

// DayRequest is the request body for creating or renaming a day.
type DayRequest struct {
	Name string `json:"day_name"`
	Date string `json:"day_date"`
}

// EditorResponse is the editor cache after an operation.
type EditorResponse struct {
	Snapshot domain.Snapshot `json:"snapshot"`
	ShareURL string          `json:"share_url"`
	// PendingID names the cache entry whose store write is still running.
	PendingID string `json:"pending_id,omitempty"`
	// Notice is set when a waited-for write failed.
	Notice string `json:"notice,omitempty"`
}

// EditorSuccessResponse is the success response envelope of editor routes.
type EditorSuccessResponse struct {
	Data  EditorResponse    `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// DaySuccessResponse is the success response envelope for POST /api/editor/{eventID}/days (201).
type DaySuccessResponse struct {
	Data  domain.Day        `json:"data"`
	Error *helpers.APIError `json:"error"`
}

type EditorController struct {
	Logger        *slog.Logger
	Editors       domain.AgendaEditors
	Errors        *helpers.ErrorWriter
	Localizer     *agenda.Localizer
	PublicBaseURL string
}

func NewEditorController(logger *slog.Logger, editors domain.AgendaEditors, errs *helpers.ErrorWriter, l *agenda.Localizer, publicBaseURL string) *EditorController {
	return &EditorController{
		Logger:        logger,
		Editors:       editors,
		Errors:        errs,
		Localizer:     l,
		PublicBaseURL: publicBaseURL,
	}
}

// editor returns the editor of the request's event, loading it on first use.
func (c *EditorController) editor(w http.ResponseWriter, r *http.Request) (domain.AgendaEditor, bool) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return nil, false
	}
	ed := c.Editors.Editor(eventID)
	if ed.Snapshot().Event == nil {
		if _, err := ed.LoadAll(r.Context()); err != nil {
			c.Errors.Write(w, r, err)
			return nil, false
		}
	}
	return ed, true
}

func (c *EditorController) respond(w http.ResponseWriter, r *http.Request, status int, snap domain.Snapshot, pending *domain.Pending) {
	resp := EditorResponse{
		Snapshot: snap,
		ShareURL: agenda.ShareURL(c.PublicBaseURL, r.PathValue("eventID")),
	}
	if pending != nil {
		resp.PendingID = pending.ID
	}
	helpers.WriteJSONSuccess(w, status, resp)
}

// respondOptimistic answers an optimistic mutation. With ?wait=true it holds the
// request until the store write finishes and reports a failure as a notice.
// rolledBack marks writes whose failure reloads the editor.
func (c *EditorController) respondOptimistic(w http.ResponseWriter, r *http.Request, ed domain.AgendaEditor, snap domain.Snapshot, pending *domain.Pending, rolledBack bool) {
	if pending == nil || r.URL.Query().Get("wait") != "true" {
		c.respond(w, r, http.StatusAccepted, snap, pending)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), pendingWait)
	defer cancel()
	werr := pending.Wait(ctx)
	resp := EditorResponse{
		Snapshot: ed.Snapshot(),
		ShareURL: agenda.ShareURL(c.PublicBaseURL, r.PathValue("eventID")),
	}
	if werr != nil {
		resp.PendingID = pending.ID
		resp.Notice = c.Localizer.Sprintf(agenda.MsgSaveFailed, werr.Error())
		if rolledBack {
			resp.Notice = c.Localizer.Sprintf(agenda.MsgPresenterRolledBack)
		}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, resp)
}

// GetEditor godoc
// @Summary Load the editor
// @Description Loads the event, its days and every day's slots into the editor cache.
// @Tags editor
// @Produce json
// @Param eventID path string true "Event ID"
// @Success 200 {object} controllers.EditorSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 502 {object} helpers.APIResponse "error.code: bad_gateway"
// @Router /editor/{eventID} [get]
func (c *EditorController) GetEditor(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	snap, err := c.Editors.Editor(eventID).LoadAll(r.Context())
	if err != nil {
		c.Errors.Write(w, r, err)
		return
	}
	c.respond(w, r, http.StatusOK, snap, nil)
}

// Reload godoc
// @Summary Reload silently
// @Description Refetches days and slots without the loading flag.
// @Tags editor
// @Produce json
// @Param eventID path string true "Event ID"
// @Success 200 {object} controllers.EditorSuccessResponse
// @Failure 502 {object} helpers.APIResponse "error.code: bad_gateway"
// @Router /editor/{eventID}/reload [post]
func (c *EditorController) Reload(w http.ResponseWriter, r *http.Request) {
	ed, ok := c.editor(w, r)
	if !ok {
		return
	}
	snap, err := ed.Reload(r.Context())
	if err != nil {
		c.Errors.Write(w, r, err)
		return
	}
	c.respond(w, r, http.StatusOK, snap, nil)
}

// AddDay godoc
// @Summary Add a day
// @Description Creates a day numbered after the existing days.
// @Tags editor
// @Accept json
// @Produce json
// @Param eventID path string true "Event ID"
// @Param day body DayRequest true "Day name and date"
// @Success 201 {object} controllers.DaySuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 502 {object} helpers.APIResponse "error.code: bad_gateway"
// @Router /editor/{eventID}/days [post]
func (c *EditorController) AddDay(w http.ResponseWriter, r *http.Request) {
	var req DayRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	ed, ok := c.editor(w, r)
	if !ok {
		return
	}
	day, err := ed.AddDay(r.Context(), req.Name, req.Date)
	if err != nil {
		c.Errors.Write(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, day)
}

// UpdateDay godoc
// @Summary Rename or re-date a day
// @Tags editor
// @Accept json
// @Produce json
// @Param eventID path string true "Event ID"
// @Param dayID path string true "Day ID"
// @Param day body DayRequest true "Day name and date"
// @Success 200 {object} controllers.EditorSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 502 {object} helpers.APIResponse "error.code: bad_gateway"
// @Router /editor/{eventID}/days/{dayID} [put]
func (c *EditorController) UpdateDay(w http.ResponseWriter, r *http.Request) {
	var req DayRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	ed, ok := c.editor(w, r)
	if !ok {
		return
	}
	if err := ed.UpdateDay(r.Context(), r.PathValue("dayID"), req.Name, req.Date); err != nil {
		c.Errors.Write(w, r, err)
		return
	}
	c.respond(w, r, http.StatusOK, ed.Snapshot(), nil)
}

// DeleteDay godoc
// @Summary Delete a day
// @Description Deletes a day and its slots. Requires confirm=true.
// @Tags editor
// @Produce json
// @Param eventID path string true "Event ID"
// @Param dayID path string true "Day ID"
// @Param confirm query bool true "Must be true"
// @Success 200 {object} controllers.EditorSuccessResponse
// @Failure 409 {object} helpers.APIResponse "error.code: confirmation_declined"
// @Failure 502 {object} helpers.APIResponse "error.code: bad_gateway"
// @Router /editor/{eventID}/days/{dayID} [delete]
func (c *EditorController) DeleteDay(w http.ResponseWriter, r *http.Request) {
	ed, ok := c.editor(w, r)
	if !ok {
		return
	}
	if err := ed.DeleteDay(r.Context(), r.PathValue("dayID"), helpers.ConfirmFromQuery(r)); err != nil {
		c.Errors.Write(w, r, err)
		return
	}
	c.respond(w, r, http.StatusOK, ed.Snapshot(), nil)
}

// AddSlot godoc
// @Summary Add a slot
// @Description Inserts the slot into the editor cache at once and creates it in the background. With wait=true the response follows the store write.
// @Tags editor
// @Accept json
// @Produce json
// @Param eventID path string true "Event ID"
// @Param dayID path string true "Day ID"
// @Param wait query bool false "Wait for the store write"
// @Param slot body domain.SlotInput true "Slot fields"
// @Success 202 {object} controllers.EditorSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /editor/{eventID}/days/{dayID}/slots [post]
func (c *EditorController) AddSlot(w http.ResponseWriter, r *http.Request) {
	var req domain.SlotInput
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	ed, ok := c.editor(w, r)
	if !ok {
		return
	}
	snap, pending, err := ed.AddSlot(r.Context(), r.PathValue("dayID"), req)
	if err != nil {
		c.Errors.Write(w, r, err)
		return
	}
	c.respondOptimistic(w, r, ed, snap, pending, false)
}

// UpdateSlot godoc
// @Summary Update a slot
// @Description Applies a partial update to the cached slot and sends it in the background. A failed write is not rolled back.
// @Tags editor
// @Accept json
// @Produce json
// @Param eventID path string true "Event ID"
// @Param slotID path string true "Slot ID"
// @Param wait query bool false "Wait for the store write"
// @Param updates body domain.SlotUpdates true "Fields to change"
// @Success 202 {object} controllers.EditorSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /editor/{eventID}/slots/{slotID} [patch]
func (c *EditorController) UpdateSlot(w http.ResponseWriter, r *http.Request) {
	var req domain.SlotUpdates
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	ed, ok := c.editor(w, r)
	if !ok {
		return
	}
	snap, pending, err := ed.UpdateSlot(r.Context(), r.PathValue("slotID"), req)
	if err != nil {
		c.Errors.Write(w, r, err)
		return
	}
	c.respondOptimistic(w, r, ed, snap, pending, false)
}

// DeleteSlot godoc
// @Summary Delete a slot
// @Description Requires confirm=true.
// @Tags editor
// @Produce json
// @Param eventID path string true "Event ID"
// @Param slotID path string true "Slot ID"
// @Param confirm query bool true "Must be true"
// @Success 200 {object} controllers.EditorSuccessResponse
// @Failure 409 {object} helpers.APIResponse "error.code: confirmation_declined"
// @Failure 502 {object} helpers.APIResponse "error.code: bad_gateway"
// @Router /editor/{eventID}/slots/{slotID} [delete]
func (c *EditorController) DeleteSlot(w http.ResponseWriter, r *http.Request) {
	ed, ok := c.editor(w, r)
	if !ok {
		return
	}
	if err := ed.DeleteSlot(r.Context(), r.PathValue("slotID"), helpers.ConfirmFromQuery(r)); err != nil {
		c.Errors.Write(w, r, err)
		return
	}
	c.respond(w, r, http.StatusOK, ed.Snapshot(), nil)
}

// TogglePresenter godoc
// @Summary Show or hide a slot's presenter
// @Description Flips show_presenter optimistically; a failed write reloads the editor.
// @Tags editor
// @Produce json
// @Param eventID path string true "Event ID"
// @Param slotID path string true "Slot ID"
// @Param wait query bool false "Wait for the store write"
// @Success 202 {object} controllers.EditorSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /editor/{eventID}/slots/{slotID}/toggle-presenter [post]
func (c *EditorController) TogglePresenter(w http.ResponseWriter, r *http.Request) {
	ed, ok := c.editor(w, r)
	if !ok {
		return
	}
	snap, pending, err := ed.ToggleSlotPresenterVisibility(r.Context(), r.PathValue("slotID"))
	if err != nil {
		c.Errors.Write(w, r, err)
		return
	}
	c.respondOptimistic(w, r, ed, snap, pending, true)
}

// Rollback godoc
// @Summary Discard optimistic changes
// @Description Replaces the editor cache with what the store holds.
// @Tags editor
// @Produce json
// @Param eventID path string true "Event ID"
// @Success 200 {object} controllers.EditorSuccessResponse
// @Failure 502 {object} helpers.APIResponse "error.code: bad_gateway"
// @Router /editor/{eventID}/rollback [post]
func (c *EditorController) Rollback(w http.ResponseWriter, r *http.Request) {
	ed, ok := c.editor(w, r)
	if !ok {
		return
	}
	snap, err := ed.Rollback(r.Context())
	if err != nil {
		c.Errors.Write(w, r, err)
		return
	}
	c.respond(w, r, http.StatusOK, snap, nil)
}

// SaveImages godoc
// @Summary Save branding images
// @Tags editor
// @Accept json
// @Produce json
// @Param eventID path string true "Event ID"
// @Param images body domain.EventImages true "Header, background and footer settings"
// @Success 200 {object} controllers.EditorSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 502 {object} helpers.APIResponse "error.code: bad_gateway"
// @Router /editor/{eventID}/images [put]
func (c *EditorController) SaveImages(w http.ResponseWriter, r *http.Request) {
	var req domain.EventImages
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	ed, ok := c.editor(w, r)
	if !ok {
		return
	}
	if err := ed.SaveImages(r.Context(), req); err != nil {
		c.Errors.Write(w, r, err)
		return
	}
	c.respond(w, r, http.StatusOK, ed.Snapshot(), nil)
}

// TimeOptions godoc
// @Summary Slot time choices
// @Description Half-hour HH:mm values offered by the slot form.
// @Tags editor
// @Produce json
// @Success 200 {object} helpers.APIResponse "data is a list of HH:mm strings"
// @Router /time-options [get]
func (c *EditorController) TimeOptions(w http.ResponseWriter, r *http.Request) {
	helpers.WriteJSONSuccess(w, http.StatusOK, agenda.TimeOptions())
}
