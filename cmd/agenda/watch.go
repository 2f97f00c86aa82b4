package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"agendabuilder/internal/adapters/agendastore"
	"agendabuilder/internal/agenda"
	"agendabuilder/internal/domain"
	"agendabuilder/internal/services"

	"github.com/spf13/cobra"
)

// clearScreen moves the cursor home and clears the terminal.
const clearScreen = "\033[H\033[2J"

var watchCmd = &cobra.Command{
	Use:   "watch <event-id>",
	Short: "Follow a public agenda in the terminal",
	Long: `Follow an event's public agenda in the terminal. The agenda is re-read
every VIEWER_REFRESH and redrawn when it changes.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}
		day, _ := cmd.Flags().GetInt("day")
		once, _ := cmd.Flags().GetBool("once")

		store := agendastore.NewClient(cfg.StoreURL, nil, cfg.StoreTimeout)
		readers := services.ReaderFactory{
			Store:          store,
			Interval:       cfg.ViewerRefresh,
			Logger:         logger,
			ContextTimeout: cfg.StoreTimeout,
		}
		localizer := agenda.NewLocalizer(cfg.FailureLocale)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return watch(ctx, cmd.OutOrStdout(), readers.Reader(args[0]), day, once, cfg.PublicBaseURL, localizer)
	},
}

func init() {
	watchCmd.Flags().IntP("day", "d", 0, "Index of the day to show")
	watchCmd.Flags().Bool("once", false, "Print the agenda once and exit")
	rootCmd.AddCommand(watchCmd)
}

// watch draws every view the reader publishes until ctx is done.
func watch(ctx context.Context, out io.Writer, reader domain.AgendaReader, day int, once bool, baseURL string, l *agenda.Localizer) error {
	defer reader.Stop()
	if err := reader.Start(ctx); err != nil {
		fmt.Fprintln(out, renderPage(agenda.NewPage(reader.View(), baseURL, l)))
		return err
	}
	view := reader.SelectDay(day)
	if once {
		fmt.Fprintln(out, renderPage(agenda.NewPage(view, baseURL, l)))
		return nil
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case v := <-reader.Updates():
			fmt.Fprint(out, clearScreen)
			fmt.Fprintln(out, renderPage(agenda.NewPage(v, baseURL, l)))
		}
	}
}
