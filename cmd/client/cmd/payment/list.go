package payment

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var listInvoiceID string

var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "List payments of an invoice",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := appFromContext(cmd)
		if err != nil {
			return err
		}

		payments, err := app.Payments.List(cmd.Context(), listInvoiceID)
		if err != nil {
			return fmt.Errorf("list payments: %w", err)
		}

		if len(payments) == 0 {
			fmt.Println("No payments recorded.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tAMOUNT\tMETHOD\tPAID AT\tTRANSACTION")
		for _, p := range payments {
			fmt.Fprintf(w, "%s\t%.2f\t%s\t%s\t%s\n",
				p.ID, p.Amount, p.Method, p.PaidAt.Format("2006-01-02 15:04"), p.TransactionID)
		}
		return w.Flush()
	},
}

func init() {
	ListCmd.Flags().StringVar(&listInvoiceID, "invoice", "", "owning invoice ID")
	_ = ListCmd.MarkFlagRequired("invoice")
}
