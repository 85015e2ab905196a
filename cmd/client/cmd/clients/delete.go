package clients

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var DeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a client",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := appFromContext(cmd)
		if err != nil {
			return err
		}

		if err := app.Clients.Delete(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("delete client: %w", err)
		}

		color.Green("Deleted client %s", args[0])
		return nil
	},
}
