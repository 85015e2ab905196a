package invoice

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var DeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an invoice and its line items",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := appFromContext(cmd)
		if err != nil {
			return err
		}

		if err := app.Invoices.Delete(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("delete invoice: %w", err)
		}

		color.Green("Deleted invoice %s", args[0])
		return nil
	},
}
