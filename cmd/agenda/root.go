package main

import (
	"fmt"
	"log/slog"

	"agendabuilder/config"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "agenda",
	Short: "Build event agendas and publish them to viewers",
	Long: `agenda serves the event dashboard, the agenda editor and the public
agenda viewer on top of an action-dispatched agenda store.

Configuration comes from the environment (and a .env file outside production):
  STORE_URL        agenda store endpoint
  VIEWER_REFRESH   how often public viewers re-read the agenda (default 30s)
  FAILURE_LOCALE   language of user facing notices, en or ar`,
	SilenceUsage: true,
}

// loadConfig reads the configuration and builds the process logger.
func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger := config.NewLogger(cfg)
	slog.SetDefault(logger)
	return cfg, logger, nil
}
