package invoice

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"billbase/internal/model"
)

var listFlags struct {
	businessID string
	clientID   string
	status     string
}

var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "List invoices",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := appFromContext(cmd)
		if err != nil {
			return err
		}

		list, err := app.Invoices.List(cmd.Context(), model.InvoiceFilter{
			BusinessID: listFlags.businessID,
			ClientID:   listFlags.clientID,
			Status:     model.InvoiceStatus(listFlags.status),
		})
		if err != nil {
			return fmt.Errorf("list invoices: %w", err)
		}

		if len(list) == 0 {
			fmt.Println("No invoices found.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNUMBER\tSTATUS\tDUE\tTOTAL\tCURRENCY")
		for _, inv := range list {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.2f\t%s\n",
				inv.ID, inv.InvoiceNumber, inv.Status,
				inv.DueDate.Format("2006-01-02"), inv.Total, inv.Currency)
		}
		return w.Flush()
	},
}

func init() {
	ListCmd.Flags().StringVar(&listFlags.businessID, "business", "", "filter by business ID")
	ListCmd.Flags().StringVar(&listFlags.clientID, "client", "", "filter by client ID")
	ListCmd.Flags().StringVar(&listFlags.status, "status", "", "filter by status (draft, sent, paid, overdue, cancelled)")
}
