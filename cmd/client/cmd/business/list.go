package business

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "List business profiles",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := appFromContext(cmd)
		if err != nil {
			return err
		}

		businesses, err := app.Businesses.List(cmd.Context())
		if err != nil {
			return fmt.Errorf("list businesses: %w", err)
		}

		if len(businesses) == 0 {
			fmt.Println("No businesses yet. Create one with 'billbase business create'.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tEMAIL\tSYNCED")
		for _, b := range businesses {
			synced := "-"
			if b.SyncedAt != nil {
				synced = b.SyncedAt.Format("2006-01-02 15:04")
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", b.ID, b.Name, b.Email, synced)
		}
		return w.Flush()
	},
}
