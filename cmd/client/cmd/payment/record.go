package payment

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"billbase/internal/model"
)

var recordFlags struct {
	invoiceID     string
	amount        float64
	method        string
	transactionID string
	paidAt        string
	notes         string
}

var RecordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record a payment against an invoice",
	RunE: func(cmd *cobra.Command, _ []string) error {
		app, err := appFromContext(cmd)
		if err != nil {
			return err
		}

		var paidAt time.Time
		if recordFlags.paidAt != "" {
			paidAt, err = time.Parse(time.RFC3339, recordFlags.paidAt)
			if err != nil {
				return fmt.Errorf("parse paid-at: %w", err)
			}
		}

		p, err := app.Payments.Create(cmd.Context(), model.Payment{
			InvoiceID:     recordFlags.invoiceID,
			Amount:        recordFlags.amount,
			Method:        model.PaymentMethod(recordFlags.method),
			TransactionID: recordFlags.transactionID,
			PaidAt:        paidAt,
			Notes:         recordFlags.notes,
		})
		if err != nil {
			return fmt.Errorf("record payment: %w", err)
		}

		color.Green("Recorded payment of %.2f (%s)", p.Amount, p.Method)
		fmt.Printf("ID: %s\n", p.ID)
		return nil
	},
}

func init() {
	RecordCmd.Flags().StringVar(&recordFlags.invoiceID, "invoice", "", "invoice being paid")
	RecordCmd.Flags().Float64Var(&recordFlags.amount, "amount", 0, "amount paid")
	RecordCmd.Flags().StringVar(&recordFlags.method, "method", "", "payment method (cash, card, bank_transfer, check, other)")
	RecordCmd.Flags().StringVar(&recordFlags.transactionID, "transaction", "", "external transaction reference")
	RecordCmd.Flags().StringVar(&recordFlags.paidAt, "paid-at", "", "payment time (RFC3339, default now)")
	RecordCmd.Flags().StringVar(&recordFlags.notes, "notes", "", "free-form notes")
	_ = RecordCmd.MarkFlagRequired("invoice")
	_ = RecordCmd.MarkFlagRequired("amount")
	_ = RecordCmd.MarkFlagRequired("method")
}
