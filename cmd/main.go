package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yungbote/moodly-backend/internal/app"
	"github.com/yungbote/moodly-backend/internal/platform/shutdown"
)

// rootCmd serves the API when no subcommand is given.
var rootCmd = &cobra.Command{
	Use:           "moodly",
	Short:         "Moodly mood journal API",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API, realtime stream and token janitor",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations and exit",
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := shutdown.NotifyContext(cmd.Context())
	defer stop()

	log, err := app.NewLogger()
	if err != nil {
		return err
	}
	a, err := app.New(ctx, log)
	if err != nil {
		log.Error("Failed to init app", "error", err)
		log.Sync()
		return err
	}
	defer a.Close()

	if err := a.Run(ctx); err != nil {
		log.Error("Server exited with error", "error", err)
		return err
	}
	log.Info("Server stopped")
	return nil
}

func runMigrate(cmd *cobra.Command, args []string) error {
	log, err := app.NewLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	cfg, err := app.LoadConfig(log)
	if err != nil {
		return err
	}
	pg, err := app.Open(log, cfg)
	if err != nil {
		return err
	}
	defer pg.Close()
	log.Info("Migrations applied", "driver", pg.Driver())
	return nil
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
