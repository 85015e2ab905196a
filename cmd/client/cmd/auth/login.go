package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var loginEmail string

var LoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to the billbase server",
	Long: `Authenticates against the server and stores the session token
locally. A sync pass runs right after login to catch up on remote changes.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := appFromContext(cmd)
		if err != nil {
			return err
		}

		email := loginEmail
		if email == "" {
			fmt.Print("Email: ")
			if _, err := fmt.Scanln(&email); err != nil {
				return fmt.Errorf("read email: %w", err)
			}
		}

		password, err := readPassword("Password: ")
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		token, user, err := app.Remote.Login(ctx, email, password)
		if err != nil {
			return fmt.Errorf("login: %w", err)
		}

		if err := app.Session.Save(token, *user); err != nil {
			return fmt.Errorf("save session: %w", err)
		}
		color.Green("Logged in as %s", user.Email)

		fmt.Println("Synchronizing...")
		pushRes, pullRes, err := app.Sync(ctx)
		if err != nil {
			color.Yellow("Warning: sync failed: %v", err)
			fmt.Println("You can keep working offline; run 'billbase sync' later.")
			return nil
		}
		color.Green("Synced: %d pushed, %d pulled", pushRes.Synced, pullRes.Synced)
		if pushRes.Errors+pullRes.Errors > 0 {
			color.Yellow("Sync finished with %d errors", pushRes.Errors+pullRes.Errors)
		}
		return nil
	},
}

func init() {
	LoginCmd.Flags().StringVarP(&loginEmail, "email", "e", "", "account email")
}
