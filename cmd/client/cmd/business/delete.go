package business

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var DeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a business profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := appFromContext(cmd)
		if err != nil {
			return err
		}

		if err := app.Businesses.Delete(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("delete business: %w", err)
		}

		color.Green("Deleted business %s", args[0])
		return nil
	},
}
