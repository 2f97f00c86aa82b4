package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "agendabuilder/docs"
	"agendabuilder/internal/adapters/agendastore"
	"agendabuilder/internal/agenda"
	delivery "agendabuilder/internal/delivery/http"
	"agendabuilder/internal/delivery/http/controllers"
	"agendabuilder/internal/delivery/http/helpers"
	"agendabuilder/internal/delivery/http/middleware"
	"agendabuilder/internal/services"

	"github.com/spf13/cobra"
)

const shutdownTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard, editor and public viewer API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}
		if port, _ := cmd.Flags().GetString("port"); port != "" {
			cfg.Port = port
		}

		store := agendastore.NewClient(cfg.StoreURL, nil, cfg.StoreTimeout)
		editors := services.NewEditorRegistry(store, logger, cfg.StoreTimeout)
		defer editors.Close()
		readers := services.ReaderFactory{
			Store:          store,
			Interval:       cfg.ViewerRefresh,
			Logger:         logger,
			ContextTimeout: cfg.StoreTimeout,
		}
		dashboard := services.NewDashboardService(store, editors, logger, cfg.StoreTimeout)

		localizer := agenda.NewLocalizer(cfg.FailureLocale)
		errs := helpers.NewErrorWriter(logger, localizer)
		router := delivery.NewRouter(
			controllers.NewDashboardController(logger, dashboard, errs, cfg.PublicBaseURL),
			controllers.NewEditorController(logger, editors, errs, localizer, cfg.PublicBaseURL),
			controllers.NewViewerController(logger, readers, localizer, cfg.PublicBaseURL, originPatterns(cfg.CORSAllowedOrigins)),
		)
		handler := middleware.CORS(cfg.CORSAllowedOrigins, middleware.LoggingMiddleware(logger, router))

		logger.Info("agenda builder starting", "port", cfg.Port, "store_url", cfg.StoreURL, "env", cfg.Environment, "locale", localizer.Language())
		return listenAndServe(cmd.Context(), logger, ":"+cfg.Port, handler)
	},
}

func init() {
	serveCmd.Flags().StringP("port", "p", "", "Port to listen on (overrides PORT)")
	rootCmd.AddCommand(serveCmd)
}

// listenAndServe runs srv until SIGINT or SIGTERM, then shuts it down gracefully.
func listenAndServe(parent context.Context, logger *slog.Logger, addr string, handler http.Handler) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down", "addr", addr)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// originPatterns turns CORS origins into websocket host patterns.
func originPatterns(origins []string) []string {
	var out []string
	for _, o := range origins {
		o = strings.TrimSpace(strings.TrimRight(o, "/"))
		if o == "" {
			continue
		}
		if u, err := url.Parse(o); err == nil && u.Host != "" {
			o = u.Host
		}
		out = append(out, o)
	}
	return out
}
