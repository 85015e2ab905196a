package invoice

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"billbase/internal/model"
)

var createFlags struct {
	businessID string
	clientID   string
	number     string
	issueDate  string
	dueDate    string
	subtotal   float64
	tax        float64
	currency   string
	notes      string
}

var CreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an invoice",
	Long: `Creates a draft invoice. Total is derived as subtotal + tax.
Dates are accepted as YYYY-MM-DD and default to today / today+30d.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := appFromContext(cmd)
		if err != nil {
			return err
		}

		issueDate := time.Now().UTC().Truncate(24 * time.Hour)
		if createFlags.issueDate != "" {
			issueDate, err = time.Parse("2006-01-02", createFlags.issueDate)
			if err != nil {
				return fmt.Errorf("parse issue date: %w", err)
			}
		}
		dueDate := issueDate.AddDate(0, 0, 30)
		if createFlags.dueDate != "" {
			dueDate, err = time.Parse("2006-01-02", createFlags.dueDate)
			if err != nil {
				return fmt.Errorf("parse due date: %w", err)
			}
		}

		inv, err := app.Invoices.Create(cmd.Context(), model.Invoice{
			BusinessID:    createFlags.businessID,
			ClientID:      createFlags.clientID,
			InvoiceNumber: createFlags.number,
			Status:        model.InvoiceStatusDraft,
			IssueDate:     issueDate,
			DueDate:       dueDate,
			Subtotal:      createFlags.subtotal,
			Tax:           createFlags.tax,
			Total:         createFlags.subtotal + createFlags.tax,
			Currency:      createFlags.currency,
			Notes:         createFlags.notes,
		})
		if err != nil {
			return fmt.Errorf("create invoice: %w", err)
		}

		color.Green("Created invoice %s", inv.InvoiceNumber)
		fmt.Printf("ID: %s\n", inv.ID)
		return nil
	},
}

func init() {
	CreateCmd.Flags().StringVar(&createFlags.businessID, "business", "", "owning business ID")
	CreateCmd.Flags().StringVar(&createFlags.clientID, "client", "", "billed client ID")
	CreateCmd.Flags().StringVar(&createFlags.number, "number", "", "invoice number, unique per device")
	CreateCmd.Flags().StringVar(&createFlags.issueDate, "issue-date", "", "issue date (YYYY-MM-DD)")
	CreateCmd.Flags().StringVar(&createFlags.dueDate, "due-date", "", "due date (YYYY-MM-DD)")
	CreateCmd.Flags().Float64Var(&createFlags.subtotal, "subtotal", 0, "subtotal amount")
	CreateCmd.Flags().Float64Var(&createFlags.tax, "tax", 0, "tax amount")
	CreateCmd.Flags().StringVar(&createFlags.currency, "currency", "USD", "ISO 4217 currency code")
	CreateCmd.Flags().StringVar(&createFlags.notes, "notes", "", "free-form notes")
	_ = CreateCmd.MarkFlagRequired("business")
	_ = CreateCmd.MarkFlagRequired("client")
	_ = CreateCmd.MarkFlagRequired("number")
}
