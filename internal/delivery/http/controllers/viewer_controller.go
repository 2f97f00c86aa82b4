package controllers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"agendabuilder/internal/agenda"
	"agendabuilder/internal/delivery/http/helpers"
	"agendabuilder/internal/domain"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

// PageSuccessResponse is the success response envelope for GET /api/agenda/{eventID} (200).
type PageSuccessResponse struct {
	Data  agenda.Page       `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// liveCommand is a message a live viewer sends over the websocket.
type liveCommand struct {
	SelectDay *int `json:"select_day"`
}

type ViewerController struct {
	Logger         *slog.Logger
	Readers        domain.AgendaReaders
	Localizer      *agenda.Localizer
	PublicBaseURL  string
	OriginPatterns []string
}

func NewViewerController(logger *slog.Logger, readers domain.AgendaReaders, l *agenda.Localizer, publicBaseURL string, originPatterns []string) *ViewerController {
	return &ViewerController{
		Logger:         logger,
		Readers:        readers,
		Localizer:      l,
		PublicBaseURL:  publicBaseURL,
		OriginPatterns: originPatterns,
	}
}

func (c *ViewerController) page(v domain.AgendaView) agenda.Page {
	return agenda.NewPage(v, c.PublicBaseURL, c.Localizer)
}

// GetAgenda godoc
// @Summary Public agenda
// @Description Reads the full agenda once and returns its display model. Tabs appear only for multi-day events.
// @Tags viewer
// @Produce json
// @Param eventID path string true "Event ID"
// @Param day query int false "Index of the selected day (default 0)"
// @Success 200 {object} controllers.PageSuccessResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /agenda/{eventID} [get]
func (c *ViewerController) GetAgenda(w http.ResponseWriter, r *http.Request) {
	reader := c.Readers.Reader(r.PathValue("eventID"))
	defer reader.Stop()
	if err := reader.Start(r.Context()); err != nil {
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, c.Localizer.Sprintf(agenda.MsgNotFound))
		return
	}
	view := reader.View()
	if d := r.URL.Query().Get("day"); d != "" {
		i, err := strconv.Atoi(d)
		if err != nil {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "day must be a number")
			return
		}
		view = reader.SelectDay(i)
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, c.page(view))
}

// Live godoc
// @Summary Live public agenda
// @Description Websocket that pushes the agenda page on every refresh. Send {"select_day": n} to switch days. The agenda is polled while the connection is open.
// @Tags viewer
// @Param eventID path string true "Event ID"
// @Success 101 "Switching Protocols"
// @Router /agenda/{eventID}/live [get]
func (c *ViewerController) Live(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{OriginPatterns: c.OriginPatterns})
	if err != nil {
		c.Logger.Warn("websocket accept failed", "event_id", eventID, "err", err)
		return
	}
	defer conn.CloseNow()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	reader := c.Readers.Reader(eventID)
	defer reader.Stop()
	if err := reader.Start(ctx); err != nil {
		_ = wsjson.Write(ctx, conn, c.page(reader.View()))
		conn.Close(websocket.StatusNormalClosure, "agenda not found")
		return
	}

	go func() {
		defer cancel()
		for {
			var cmd liveCommand
			if err := wsjson.Read(ctx, conn, &cmd); err != nil {
				return
			}
			if cmd.SelectDay != nil {
				reader.SelectDay(*cmd.SelectDay)
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			conn.Close(websocket.StatusNormalClosure, "")
			return
		case v := <-reader.Updates():
			if err := wsjson.Write(ctx, conn, c.page(v)); err != nil {
				if !errors.Is(err, context.Canceled) {
					c.Logger.Debug("live viewer write failed", "event_id", eventID, "err", err)
				}
				return
			}
		}
	}
}

// Health godoc
// @Summary Health check
// @Tags system
// @Produce json
// @Success 200 {object} helpers.APIResponse
// @Router /health [get]
func Health(w http.ResponseWriter, r *http.Request) {
	helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
}
