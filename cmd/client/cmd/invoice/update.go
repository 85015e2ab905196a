package invoice

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"billbase/internal/model"
)

var UpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update an invoice",
	Long: `Updates only the fields given as flags; everything else is kept.
Changing subtotal or tax requires passing --total so the amounts stay
consistent.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := appFromContext(cmd)
		if err != nil {
			return err
		}

		var patch model.InvoicePatch
		flags := cmd.Flags()
		if flags.Changed("number") {
			v, _ := flags.GetString("number")
			patch.InvoiceNumber = &v
		}
		if flags.Changed("status") {
			v, _ := flags.GetString("status")
			st := model.InvoiceStatus(v)
			patch.Status = &st
		}
		if flags.Changed("issue-date") {
			v, _ := flags.GetString("issue-date")
			t, err := time.Parse("2006-01-02", v)
			if err != nil {
				return fmt.Errorf("parse issue date: %w", err)
			}
			patch.IssueDate = &t
		}
		if flags.Changed("due-date") {
			v, _ := flags.GetString("due-date")
			t, err := time.Parse("2006-01-02", v)
			if err != nil {
				return fmt.Errorf("parse due date: %w", err)
			}
			patch.DueDate = &t
		}
		if flags.Changed("subtotal") {
			v, _ := flags.GetFloat64("subtotal")
			patch.Subtotal = &v
		}
		if flags.Changed("tax") {
			v, _ := flags.GetFloat64("tax")
			patch.Tax = &v
		}
		if flags.Changed("total") {
			v, _ := flags.GetFloat64("total")
			patch.Total = &v
		}
		if flags.Changed("currency") {
			v, _ := flags.GetString("currency")
			patch.Currency = &v
		}
		if flags.Changed("notes") {
			v, _ := flags.GetString("notes")
			patch.Notes = &v
		}

		inv, err := app.Invoices.Update(cmd.Context(), args[0], patch)
		if err != nil {
			return fmt.Errorf("update invoice: %w", err)
		}

		color.Green("Updated invoice %s", inv.InvoiceNumber)
		return nil
	},
}

func init() {
	UpdateCmd.Flags().String("number", "", "invoice number")
	UpdateCmd.Flags().String("status", "", "status (draft, sent, paid, overdue, cancelled)")
	UpdateCmd.Flags().String("issue-date", "", "issue date (YYYY-MM-DD)")
	UpdateCmd.Flags().String("due-date", "", "due date (YYYY-MM-DD)")
	UpdateCmd.Flags().Float64("subtotal", 0, "subtotal amount")
	UpdateCmd.Flags().Float64("tax", 0, "tax amount")
	UpdateCmd.Flags().Float64("total", 0, "total amount")
	UpdateCmd.Flags().String("currency", "", "ISO 4217 currency code")
	UpdateCmd.Flags().String("notes", "", "free-form notes")
}
