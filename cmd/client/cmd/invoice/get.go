package invoice

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var GetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show an invoice with its line items and payments",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := appFromContext(cmd)
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		inv, err := app.Invoices.GetByID(ctx, args[0])
		if err != nil {
			return fmt.Errorf("get invoice: %w", err)
		}

		fmt.Printf("Invoice %s (%s)\n", inv.InvoiceNumber, inv.Status)
		fmt.Printf("Issued %s, due %s\n", inv.IssueDate.Format("2006-01-02"), inv.DueDate.Format("2006-01-02"))
		fmt.Printf("Subtotal %.2f + tax %.2f = %.2f %s\n", inv.Subtotal, inv.Tax, inv.Total, inv.Currency)
		if inv.Notes != "" {
			fmt.Printf("Notes: %s\n", inv.Notes)
		}

		items, err := app.LineItems.ListForInvoice(ctx, inv.ID)
		if err != nil {
			return fmt.Errorf("list line items: %w", err)
		}
		if len(items) > 0 {
			fmt.Println("\nLine items:")
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tDESCRIPTION\tQTY\tPRICE\tTAX\tTOTAL")
			for _, li := range items {
				fmt.Fprintf(w, "%s\t%s\t%.2f\t%.2f\t%.2f%%\t%.2f\n",
					li.ID, li.Description, li.Quantity, li.UnitPrice, li.TaxRate*100, li.Total)
			}
			if err := w.Flush(); err != nil {
				return err
			}
		}

		payments, err := app.Payments.List(ctx, inv.ID)
		if err != nil {
			return fmt.Errorf("list payments: %w", err)
		}
		if len(payments) > 0 {
			fmt.Println("\nPayments:")
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tAMOUNT\tMETHOD\tPAID AT")
			for _, p := range payments {
				fmt.Fprintf(w, "%s\t%.2f\t%s\t%s\n",
					p.ID, p.Amount, p.Method, p.PaidAt.Format("2006-01-02 15:04"))
			}
			if err := w.Flush(); err != nil {
				return err
			}
		}

		return nil
	},
}
