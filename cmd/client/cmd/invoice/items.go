package invoice

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"billbase/internal/model"
)

// ItemCmd groups line item commands. Line items are local-only detail; only
// the invoice totals leave the device.
var ItemCmd = &cobra.Command{
	Use:   "item",
	Short: "Manage invoice line items",
}

var itemAddFlags struct {
	invoiceID   string
	description string
	quantity    float64
	unitPrice   float64
	taxRate     float64
}

var ItemAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a line item to an invoice",
	Long:  `Adds a line item. Its total is derived as quantity * unit price * (1 + tax rate).`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := appFromContext(cmd)
		if err != nil {
			return err
		}

		li, err := app.LineItems.Create(cmd.Context(), model.LineItem{
			InvoiceID:   itemAddFlags.invoiceID,
			Description: itemAddFlags.description,
			Quantity:    itemAddFlags.quantity,
			UnitPrice:   itemAddFlags.unitPrice,
			TaxRate:     itemAddFlags.taxRate,
		})
		if err != nil {
			return fmt.Errorf("add line item: %w", err)
		}

		color.Green("Added line item (total %.2f)", li.Total)
		fmt.Printf("ID: %s\n", li.ID)
		return nil
	},
}

var itemListInvoiceID string

var ItemListCmd = &cobra.Command{
	Use:   "list",
	Short: "List line items of an invoice",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := appFromContext(cmd)
		if err != nil {
			return err
		}

		items, err := app.LineItems.ListForInvoice(cmd.Context(), itemListInvoiceID)
		if err != nil {
			return fmt.Errorf("list line items: %w", err)
		}

		if len(items) == 0 {
			fmt.Println("No line items.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tDESCRIPTION\tQTY\tPRICE\tTAX\tTOTAL")
		for _, li := range items {
			fmt.Fprintf(w, "%s\t%s\t%.2f\t%.2f\t%.2f%%\t%.2f\n",
				li.ID, li.Description, li.Quantity, li.UnitPrice, li.TaxRate*100, li.Total)
		}
		return w.Flush()
	},
}

var ItemRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a line item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := appFromContext(cmd)
		if err != nil {
			return err
		}

		if err := app.LineItems.Delete(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("remove line item: %w", err)
		}

		color.Green("Removed line item %s", args[0])
		return nil
	},
}

func init() {
	ItemAddCmd.Flags().StringVar(&itemAddFlags.invoiceID, "invoice", "", "owning invoice ID")
	ItemAddCmd.Flags().StringVar(&itemAddFlags.description, "description", "", "what the line is for")
	ItemAddCmd.Flags().Float64Var(&itemAddFlags.quantity, "quantity", 1, "quantity")
	ItemAddCmd.Flags().Float64Var(&itemAddFlags.unitPrice, "price", 0, "unit price")
	ItemAddCmd.Flags().Float64Var(&itemAddFlags.taxRate, "tax-rate", 0, "tax rate as a fraction, e.g. 0.2")
	_ = ItemAddCmd.MarkFlagRequired("invoice")
	_ = ItemAddCmd.MarkFlagRequired("description")
	_ = ItemAddCmd.MarkFlagRequired("price")

	ItemListCmd.Flags().StringVar(&itemListInvoiceID, "invoice", "", "owning invoice ID")
	_ = ItemListCmd.MarkFlagRequired("invoice")
}
