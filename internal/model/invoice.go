package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "draft"
	InvoiceStatusSent      InvoiceStatus = "sent"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusOverdue   InvoiceStatus = "overdue"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

func (s InvoiceStatus) Validate() error {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusSent, InvoiceStatusPaid, InvoiceStatusOverdue, InvoiceStatusCancelled:
		return nil
	}
	return fmt.Errorf("invalid invoice status: %s", s)
}

func (s InvoiceStatus) String() string {
	return string(s)
}

// CanTransition reports whether the status may move to next. Cancelling is
// allowed from any non-terminal state.
func (s InvoiceStatus) CanTransition(next InvoiceStatus) bool {
	if s == next {
		return false
	}
	switch next {
	case InvoiceStatusCancelled:
		return s != InvoiceStatusPaid
	case InvoiceStatusSent:
		return s == InvoiceStatusDraft
	case InvoiceStatusPaid:
		return s == InvoiceStatusSent || s == InvoiceStatusOverdue || s == InvoiceStatusDraft
	case InvoiceStatusOverdue:
		return s == InvoiceStatusSent
	}
	return false
}

// Invoice belongs to one business and one client.
type Invoice struct {
	ID            string        `json:"id"`
	BusinessID    string        `json:"businessId" validate:"required"`
	ClientID      string        `json:"clientId" validate:"required"`
	InvoiceNumber string        `json:"invoiceNumber" validate:"required"`
	Status        InvoiceStatus `json:"status" validate:"required,oneof=draft sent paid overdue cancelled"`
	IssueDate     time.Time     `json:"issueDate"`
	DueDate       time.Time     `json:"dueDate"`
	Subtotal      float64       `json:"subtotal" validate:"gte=0"`
	Tax           float64       `json:"tax" validate:"gte=0"`
	Total         float64       `json:"total" validate:"gte=0"`
	Currency      string        `json:"currency" validate:"required,iso4217"`
	Notes         string        `json:"notes,omitempty"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
	SyncedAt      *time.Time    `json:"syncedAt,omitempty"`
}

// CheckTotals enforces total == subtotal + tax. The store does not enforce
// this; the writer must, before every persist. Comparison happens in decimal
// space so float noise in the inputs does not produce false mismatches.
func (i Invoice) CheckTotals() error {
	sum := decimal.NewFromFloat(i.Subtotal).Add(decimal.NewFromFloat(i.Tax)).Round(2)
	total := decimal.NewFromFloat(i.Total).Round(2)
	if !sum.Equal(total) {
		return fmt.Errorf("invoice total %s does not equal subtotal + tax (%s)", total, sum)
	}
	return nil
}

type InvoicePatch struct {
	InvoiceNumber *string        `json:"invoiceNumber,omitempty" validate:"omitempty,min=1"`
	Status        *InvoiceStatus `json:"status,omitempty" validate:"omitempty,oneof=draft sent paid overdue cancelled"`
	IssueDate     *time.Time     `json:"issueDate,omitempty"`
	DueDate       *time.Time     `json:"dueDate,omitempty"`
	Subtotal      *float64       `json:"subtotal,omitempty" validate:"omitempty,gte=0"`
	Tax           *float64       `json:"tax,omitempty" validate:"omitempty,gte=0"`
	Total         *float64       `json:"total,omitempty" validate:"omitempty,gte=0"`
	Currency      *string        `json:"currency,omitempty" validate:"omitempty,iso4217"`
	Notes         *string        `json:"notes,omitempty"`
}

func (p InvoicePatch) Apply(i *Invoice) {
	if p.InvoiceNumber != nil {
		i.InvoiceNumber = *p.InvoiceNumber
	}
	if p.Status != nil {
		i.Status = *p.Status
	}
	if p.IssueDate != nil {
		i.IssueDate = *p.IssueDate
	}
	if p.DueDate != nil {
		i.DueDate = *p.DueDate
	}
	if p.Subtotal != nil {
		i.Subtotal = *p.Subtotal
	}
	if p.Tax != nil {
		i.Tax = *p.Tax
	}
	if p.Total != nil {
		i.Total = *p.Total
	}
	if p.Currency != nil {
		i.Currency = *p.Currency
	}
	if p.Notes != nil {
		i.Notes = *p.Notes
	}
}

// InvoiceFilter narrows List. Zero values mean "no filter".
type InvoiceFilter struct {
	BusinessID string
	ClientID   string
	Status     InvoiceStatus
}
