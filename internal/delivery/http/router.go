package http

import (
	"net/http"

	"agendabuilder/internal/delivery/http/controllers"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
)

// NewRouter initializes the HTTP router of the agenda builder
func NewRouter(dashboard *controllers.DashboardController, editor *controllers.EditorController, viewer *controllers.ViewerController) *http.ServeMux {
	mux := http.NewServeMux()

	// Dashboard
	mux.HandleFunc("GET /api/events", dashboard.ListEvents)
	mux.HandleFunc("POST /api/events", dashboard.CreateEvent)
	mux.HandleFunc("DELETE /api/events/{eventID}", dashboard.DeleteEvent)

	// Editor
	mux.HandleFunc("GET /api/editor/{eventID}", editor.GetEditor)
	mux.HandleFunc("POST /api/editor/{eventID}/reload", editor.Reload)
	mux.HandleFunc("POST /api/editor/{eventID}/rollback", editor.Rollback)
	mux.HandleFunc("PUT /api/editor/{eventID}/images", editor.SaveImages)
	mux.HandleFunc("POST /api/editor/{eventID}/days", editor.AddDay)
	mux.HandleFunc("PUT /api/editor/{eventID}/days/{dayID}", editor.UpdateDay)
	mux.HandleFunc("DELETE /api/editor/{eventID}/days/{dayID}", editor.DeleteDay)
	mux.HandleFunc("POST /api/editor/{eventID}/days/{dayID}/slots", editor.AddSlot)
	mux.HandleFunc("PATCH /api/editor/{eventID}/slots/{slotID}", editor.UpdateSlot)
	mux.HandleFunc("DELETE /api/editor/{eventID}/slots/{slotID}", editor.DeleteSlot)
	mux.HandleFunc("POST /api/editor/{eventID}/slots/{slotID}/toggle-presenter", editor.TogglePresenter)
	mux.HandleFunc("GET /api/time-options", editor.TimeOptions)

	// Public viewer
	mux.HandleFunc("GET /api/agenda/{eventID}", viewer.GetAgenda)
	mux.HandleFunc("GET /api/agenda/{eventID}/live", viewer.Live)

	mux.HandleFunc("GET /health", controllers.Health)
	mux.Handle("GET /metrics", promhttp.Handler())

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}

// NewStoreRouter serves the store protocol at /exec.
func NewStoreRouter(store *controllers.StoreController) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /exec", store.Read)
	mux.HandleFunc("POST /exec", store.Write)
	mux.HandleFunc("GET /health", controllers.Health)
	mux.Handle("GET /metrics", promhttp.Handler())
	return mux
}
