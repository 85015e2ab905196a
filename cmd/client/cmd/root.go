package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"billbase/cmd/client/cmd/types"
	"billbase/internal/app/client"
	"billbase/internal/config"
	"billbase/internal/utils/logger"
)

var (
	app       *client.App
	serverURL string
)

var rootCmd = &cobra.Command{
	Use:   "billbase",
	Short: "billbase - offline-first invoicing",
	Long: `billbase is an offline-first invoicing client.

Businesses, clients, invoices and payments are stored in a local SQLite
database and keep working without a network. Every change is queued in a
durable outbox and synchronized with the server when you run 'billbase sync'
or on the background interval.`,
	PersistentPreRunE: setupApp,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

func Execute() {
	err := rootCmd.Execute()
	if app != nil {
		_ = app.Close()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("Error: %v", err))
		os.Exit(1)
	}
}

func setupApp(cmd *cobra.Command, _ []string) error {
	cfg := config.MustLoad()
	if serverURL != "" {
		cfg.ServerAddress = serverURL
	}

	log := logger.New(cfg.Env)

	var err error
	app, err = client.New(cfg, log)
	if err != nil {
		return fmt.Errorf("init app: %w", err)
	}

	cmd.SetContext(context.WithValue(cmd.Context(), types.ClientAppKey, app))
	return nil
}
