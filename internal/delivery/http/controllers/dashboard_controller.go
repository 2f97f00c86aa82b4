package controllers

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"agendabuilder/internal/agenda"
	"agendabuilder/internal/delivery/http/helpers"
	"agendabuilder/internal/domain"
)

// CreateEventRequest is the request body for POST /api/events.
type CreateEventRequest struct {
	Name               string `json:"event_name"`
	HeaderImageURL     string `json:"header_image_url"`
	HeaderHeight       string `json:"header_height"`
	BackgroundImageURL string `json:"background_image_url"`
	FooterImageURL     string `json:"footer_image_url"`
}

// Validate implements Validator.
func (c CreateEventRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.Name) == "" {
		errs = append(errs, "event_name is required")
	}
	return errs
}

func (c CreateEventRequest) images() domain.EventImages {
	return domain.EventImages{
		HeaderImageURL:     c.HeaderImageURL,
		HeaderHeight:       c.HeaderHeight,
		BackgroundImageURL: c.BackgroundImageURL,
		FooterImageURL:     c.FooterImageURL,
	}
}

// EventSummary is one row of the dashboard.
type EventSummary struct {
	*domain.Event
	CreatedLabel string `json:"created_label"`
	EditorPath   string `json:"editor_path"`
	ShareURL     string `json:"share_url"`
}

// ListEventsResponse is the response body for GET /api/events.
type ListEventsResponse struct {
	Items      []EventSummary         `json:"items"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

// ListEventsSuccessResponse is the success response envelope for GET /api/events (200).
type ListEventsSuccessResponse struct {
	Data  ListEventsResponse `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

// CreateEventResponse carries the id of the new event and where to go next.
type CreateEventResponse struct {
	EventID    string `json:"event_id"`
	EditorPath string `json:"editor_path"`
	ShareURL   string `json:"share_url"`
}

// CreateEventSuccessResponse is the success response envelope for POST /api/events (201).
type CreateEventSuccessResponse struct {
	Data  CreateEventResponse `json:"data"`
	Error *helpers.APIError   `json:"error"`
}

type DashboardController struct {
	Logger        *slog.Logger
	Service       domain.DashboardService
	Errors        *helpers.ErrorWriter
	PublicBaseURL string
}

func NewDashboardController(logger *slog.Logger, svc domain.DashboardService, errs *helpers.ErrorWriter, publicBaseURL string) *DashboardController {
	return &DashboardController{
		Logger:        logger,
		Service:       svc,
		Errors:        errs,
		PublicBaseURL: publicBaseURL,
	}
}

func editorPath(eventID string) string {
	return "/api/editor/" + eventID
}

// ListEvents godoc
// @Summary List events
// @Description Paginated list of all events, newest first.
// @Tags dashboard
// @Produce json
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} controllers.ListEventsSuccessResponse
// @Failure 502 {object} helpers.APIResponse "error.code: bad_gateway"
// @Router /events [get]
func (c *DashboardController) ListEvents(w http.ResponseWriter, r *http.Request) {
	params := helpers.ParsePagination(r)
	events, total, err := c.Service.ListEvents(r.Context(), params)
	if err != nil {
		c.Errors.Write(w, r, err)
		return
	}
	items := make([]EventSummary, 0, len(events))
	for _, e := range events {
		items = append(items, EventSummary{
			Event:        e,
			CreatedLabel: agenda.FormatDate(e.CreatedAt.Format(time.RFC3339)),
			EditorPath:   editorPath(e.ID),
			ShareURL:     agenda.ShareURL(c.PublicBaseURL, e.ID),
		})
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ListEventsResponse{
		Items:      items,
		Pagination: helpers.NewPaginationMeta(params.Page, params.PageSize, total),
	})
}

// CreateEvent godoc
// @Summary Create an event
// @Description Create an active event. Image settings are optional. Returns the new id for navigation to the editor.
// @Tags dashboard
// @Accept json
// @Produce json
// @Param event body CreateEventRequest true "Event name and optional images"
// @Success 201 {object} controllers.CreateEventSuccessResponse
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 502 {object} helpers.APIResponse "error.code: bad_gateway"
// @Router /events [post]
func (c *DashboardController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	id, err := c.Service.CreateEvent(r.Context(), req.Name, req.images())
	if err != nil {
		c.Errors.Write(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, CreateEventResponse{
		EventID:    id,
		EditorPath: editorPath(id),
		ShareURL:   agenda.ShareURL(c.PublicBaseURL, id),
	})
}

// DeleteEvent godoc
// @Summary Delete an event
// @Description Deletes the event with all its days and slots. Requires confirm=true.
// @Tags dashboard
// @Param eventID path string true "Event ID"
// @Param confirm query bool true "Must be true"
// @Success 204 "No Content"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: confirmation_declined"
// @Failure 502 {object} helpers.APIResponse "error.code: bad_gateway"
// @Router /events/{eventID} [delete]
func (c *DashboardController) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	if err := c.Service.DeleteEvent(r.Context(), eventID, helpers.ConfirmFromQuery(r)); err != nil {
		c.Errors.Write(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
