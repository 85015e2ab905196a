package clients

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var listBusinessID string

var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "List clients of a business",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := appFromContext(cmd)
		if err != nil {
			return err
		}

		list, err := app.Clients.List(cmd.Context(), listBusinessID)
		if err != nil {
			return fmt.Errorf("list clients: %w", err)
		}

		if len(list) == 0 {
			fmt.Println("No clients found.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tEMAIL\tPHONE")
		for _, c := range list {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", c.ID, c.Name, c.Email, c.Phone)
		}
		return w.Flush()
	},
}

func init() {
	ListCmd.Flags().StringVar(&listBusinessID, "business", "", "owning business ID")
	_ = ListCmd.MarkFlagRequired("business")
}
