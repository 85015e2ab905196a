package auth

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"billbase/internal/identity"
)

var WhoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current account",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := appFromContext(cmd)
		if err != nil {
			return err
		}

		user, err := app.Session.CurrentUser(cmd.Context())
		if err != nil {
			if errors.Is(err, identity.ErrUnauthenticated) {
				fmt.Println("Not logged in. Run 'billbase auth login'.")
				return nil
			}
			return err
		}

		fmt.Printf("%s (%s)\n", user.Email, user.ID)
		return nil
	},
}
