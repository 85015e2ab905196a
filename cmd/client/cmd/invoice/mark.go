package invoice

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"billbase/internal/model"
)

var MarkCmd = &cobra.Command{
	Use:   "mark <id> <status>",
	Short: "Move an invoice to a new status",
	Long: `Transitions an invoice along its lifecycle: draft invoices can be sent,
sent invoices can be marked paid or overdue, and anything not yet paid can be
cancelled. Illegal moves are rejected before anything is written.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := appFromContext(cmd)
		if err != nil {
			return err
		}

		next := model.InvoiceStatus(args[1])
		if err := next.Validate(); err != nil {
			return err
		}

		inv, err := app.Invoices.GetByID(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("get invoice: %w", err)
		}

		if !inv.Status.CanTransition(next) {
			return fmt.Errorf("invoice %s is %s and cannot become %s",
				inv.InvoiceNumber, inv.Status, next)
		}

		if _, err := app.Invoices.Update(cmd.Context(), inv.ID, model.InvoicePatch{Status: &next}); err != nil {
			return fmt.Errorf("update invoice: %w", err)
		}

		color.Green("Invoice %s is now %s", inv.InvoiceNumber, next)
		return nil
	},
}
