package helpers

import (
	"errors"
	"log/slog"
	"net/http"

	"agendabuilder/internal/agenda"
	"agendabuilder/internal/domain"
)

// ErrorWriter maps service errors to API responses with localized messages.
type ErrorWriter struct {
	Logger    *slog.Logger
	Localizer *agenda.Localizer
}

func NewErrorWriter(logger *slog.Logger, l *agenda.Localizer) *ErrorWriter {
	return &ErrorWriter{Logger: logger, Localizer: l}
}

// Write sends the response for err:
// validation 400, declined confirmation 409, not found 404, store failure 502, else 500.
func (e *ErrorWriter) Write(w http.ResponseWriter, r *http.Request, err error) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, e.Localizer.Sprintf(agenda.MsgInvalidInput, ve.Error()))
	case errors.Is(err, domain.ErrConfirmationDeclined):
		WriteJSONError(w, http.StatusConflict, ErrCodeConfirmationDeclined, e.Localizer.Sprintf(agenda.MsgConfirmationNeeded))
	case errors.Is(err, domain.ErrNotFound):
		WriteJSONError(w, http.StatusNotFound, ErrCodeNotFound, e.Localizer.Sprintf(agenda.MsgEventMissing))
	case domain.IsFetch(err):
		e.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		WriteJSONError(w, http.StatusBadGateway, ErrCodeBadGateway, e.Localizer.Sprintf(agenda.MsgStoreUnreachable))
	default:
		e.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		WriteJSONError(w, http.StatusInternalServerError, ErrCodeInternalError, e.Localizer.Sprintf(agenda.MsgSomethingWentWrong))
	}
}

// ConfirmFromQuery answers destructive prompts with the confirm query parameter.
func ConfirmFromQuery(r *http.Request) domain.Confirmer {
	return domain.Confirmed(r.URL.Query().Get("confirm") == "true")
}
