package main

import (
	"fmt"

	delivery "agendabuilder/internal/delivery/http"
	"agendabuilder/internal/delivery/http/controllers"
	"agendabuilder/internal/delivery/http/middleware"
	"agendabuilder/internal/repository/postgres"
	"agendabuilder/internal/services"

	"github.com/spf13/cobra"
)

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Run a local agenda store backed by Postgres",
	Long: `Run a local agenda store that answers the same actions as the hosted one.

Point STORE_URL of the serve command at http://localhost:<port>/exec to develop
without the hosted store. Tables are created on start when missing.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}
		port, _ := cmd.Flags().GetString("port")

		db, err := postgres.Open(cmd.Context(), cfg.DBUrl)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()
		if err := postgres.EnsureSchema(cmd.Context(), db); err != nil {
			return err
		}

		store := services.NewStoreService(
			postgres.NewEventRepository(db),
			postgres.NewDayRepository(db),
			postgres.NewSlotRepository(db),
			logger,
			cfg.StoreTimeout,
		)
		router := delivery.NewStoreRouter(controllers.NewStoreController(logger, store))

		logger.Info("agenda store starting", "port", port)
		return listenAndServe(cmd.Context(), logger, ":"+port, middleware.LoggingMiddleware(logger, router))
	},
}

func init() {
	storeCmd.Flags().StringP("port", "p", "8081", "Port to listen on")
	rootCmd.AddCommand(storeCmd)
}
