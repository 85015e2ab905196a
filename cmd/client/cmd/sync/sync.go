package sync

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"billbase/cmd/client/cmd/types"
	"billbase/internal/app/client"
	syncengine "billbase/internal/sync"
)

var (
	pushOnly bool
	pullOnly bool
	watch    bool
	status   bool
)

var SyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Synchronize with the server",
	Long: `Runs one push-then-pull pass: pending local changes are drained
from the outbox to the server, then remote changes are folded into the
local store. With --watch the pass repeats on the configured interval.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, ok := cmd.Context().Value(types.ClientAppKey).(*client.App)
		if !ok || app == nil {
			return fmt.Errorf("application is not initialized")
		}

		if status {
			return showStatus(cmd.Context(), app)
		}

		if !app.IsAuthenticated() {
			return fmt.Errorf("authentication required, run 'billbase auth login'")
		}

		if watch {
			fmt.Printf("Syncing every %s, Ctrl-C to stop.\n", app.SyncInterval())
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			app.Engine.Run(ctx, app.SyncInterval())
			return nil
		}

		return runOnce(cmd.Context(), app)
	},
}

func runOnce(ctx context.Context, app *client.App) error {
	start := time.Now()

	var pushRes, pullRes *syncengine.Result
	var err error

	if !pullOnly {
		pushRes, err = app.Engine.Push(ctx)
		if err != nil {
			if errors.Is(err, syncengine.ErrSyncBusy) {
				return fmt.Errorf("another sync is already running")
			}
			return fmt.Errorf("push: %w", err)
		}
	}
	if !pushOnly {
		pullRes, err = app.Engine.Pull(ctx)
		if err != nil {
			if errors.Is(err, syncengine.ErrSyncBusy) {
				return fmt.Errorf("another sync is already running")
			}
			return fmt.Errorf("pull: %w", err)
		}
	}

	color.Green("Sync finished in %s", time.Since(start).Round(time.Millisecond))
	errs := 0
	if pushRes != nil {
		fmt.Printf("Pushed: %d records\n", pushRes.Synced)
		errs += pushRes.Errors
	}
	if pullRes != nil {
		fmt.Printf("Pulled: %d records\n", pullRes.Synced)
		errs += pullRes.Errors
	}
	if errs > 0 {
		color.Yellow("%d records failed and stay pending; rerun 'billbase sync'", errs)
	}
	return nil
}

func showStatus(ctx context.Context, app *client.App) error {
	pending, err := app.Outbox.CountPending(ctx)
	if err != nil {
		return fmt.Errorf("count pending: %w", err)
	}
	fmt.Printf("Pending outbox records: %d\n", pending)

	mark, err := app.Store.HighWaterMark(ctx)
	if err != nil {
		return fmt.Errorf("high-water mark: %w", err)
	}
	if mark == nil {
		fmt.Println("Last pull: never")
	} else {
		fmt.Printf("Last pull: %s\n", mark.Format("2006-01-02 15:04:05"))
	}

	fmt.Print("Server: ")
	if err := app.Remote.HealthCheck(ctx); err != nil {
		color.Red("unreachable (%v)", err)
	} else {
		color.Green("reachable")
	}

	fmt.Print("Session: ")
	if app.IsAuthenticated() {
		color.Green("logged in")
	} else {
		color.Yellow("not logged in")
	}
	return nil
}

func init() {
	SyncCmd.Flags().BoolVar(&pushOnly, "push", false, "only push local changes")
	SyncCmd.Flags().BoolVar(&pullOnly, "pull", false, "only pull remote changes")
	SyncCmd.Flags().BoolVarP(&watch, "watch", "w", false, "keep syncing on the configured interval")
	SyncCmd.Flags().BoolVar(&status, "status", false, "show sync status and exit")
	SyncCmd.MarkFlagsMutuallyExclusive("push", "pull")
}
