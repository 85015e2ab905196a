package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineItem belongs to exactly one invoice and is cascade-deleted with it.
// Line items are a local-only cache of invoice detail: they never enter the
// outbox and are not synced.
type LineItem struct {
	ID          string    `json:"id"`
	InvoiceID   string    `json:"invoiceId" validate:"required"`
	Description string    `json:"description" validate:"required"`
	Quantity    float64   `json:"quantity" validate:"gt=0"`
	UnitPrice   float64   `json:"unitPrice" validate:"gte=0"`
	TaxRate     float64   `json:"taxRate" validate:"gte=0"`
	Total       float64   `json:"total" validate:"gte=0"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ComputeTotal derives total = quantity * unitPrice * (1 + taxRate), rounded
// to 2 decimal places. The writer persists the derived value; the store does
// not re-check it.
func (li LineItem) ComputeTotal() float64 {
	qty := decimal.NewFromFloat(li.Quantity)
	price := decimal.NewFromFloat(li.UnitPrice)
	rate := decimal.NewFromFloat(li.TaxRate)
	return qty.Mul(price).Mul(decimal.NewFromInt(1).Add(rate)).Round(2).InexactFloat64()
}

type LineItemPatch struct {
	Description *string  `json:"description,omitempty" validate:"omitempty,min=1"`
	Quantity    *float64 `json:"quantity,omitempty" validate:"omitempty,gt=0"`
	UnitPrice   *float64 `json:"unitPrice,omitempty" validate:"omitempty,gte=0"`
	TaxRate     *float64 `json:"taxRate,omitempty" validate:"omitempty,gte=0"`
}

func (p LineItemPatch) Apply(li *LineItem) {
	if p.Description != nil {
		li.Description = *p.Description
	}
	if p.Quantity != nil {
		li.Quantity = *p.Quantity
	}
	if p.UnitPrice != nil {
		li.UnitPrice = *p.UnitPrice
	}
	if p.TaxRate != nil {
		li.TaxRate = *p.TaxRate
	}
}
