package model

import (
	"fmt"
	"time"
)

type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodCard         PaymentMethod = "card"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodCheck        PaymentMethod = "check"
	PaymentMethodOther        PaymentMethod = "other"
)

func (m PaymentMethod) Validate() error {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodBankTransfer, PaymentMethodCheck, PaymentMethodOther:
		return nil
	}
	return fmt.Errorf("invalid payment method: %s", m)
}

func (m PaymentMethod) String() string {
	return string(m)
}

// Payment belongs to one invoice.
type Payment struct {
	ID            string        `json:"id"`
	InvoiceID     string        `json:"invoiceId" validate:"required"`
	Amount        float64       `json:"amount" validate:"gt=0"`
	Method        PaymentMethod `json:"method" validate:"required,oneof=cash card bank_transfer check other"`
	TransactionID string        `json:"transactionId,omitempty"`
	PaidAt        time.Time     `json:"paidAt"`
	Notes         string        `json:"notes,omitempty"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
	SyncedAt      *time.Time    `json:"syncedAt,omitempty"`
}

type PaymentPatch struct {
	Amount        *float64       `json:"amount,omitempty" validate:"omitempty,gt=0"`
	Method        *PaymentMethod `json:"method,omitempty" validate:"omitempty,oneof=cash card bank_transfer check other"`
	TransactionID *string        `json:"transactionId,omitempty"`
	PaidAt        *time.Time     `json:"paidAt,omitempty"`
	Notes         *string        `json:"notes,omitempty"`
}

func (p PaymentPatch) Apply(pm *Payment) {
	if p.Amount != nil {
		pm.Amount = *p.Amount
	}
	if p.Method != nil {
		pm.Method = *p.Method
	}
	if p.TransactionID != nil {
		pm.TransactionID = *p.TransactionID
	}
	if p.PaidAt != nil {
		pm.PaidAt = *p.PaidAt
	}
	if p.Notes != nil {
		pm.Notes = *p.Notes
	}
}
