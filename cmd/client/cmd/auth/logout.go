package auth

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var LogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored session",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := appFromContext(cmd)
		if err != nil {
			return err
		}

		if err := app.Session.Clear(); err != nil {
			return fmt.Errorf("clear session: %w", err)
		}
		color.Green("Logged out")
		return nil
	},
}
