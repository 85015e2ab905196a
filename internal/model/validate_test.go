package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate_Business(t *testing.T) {
	valid := Business{
		Name:    "Acme",
		Email:   "acme@example.com",
		Phone:   "+1 (555) 123-4567",
		Address: "1 Main St",
		TaxID:   "TAX-1",
	}
	assert.NoError(t, Validate(valid))

	tests := []struct {
		name   string
		mutate func(*Business)
	}{
		{"missing name", func(b *Business) { b.Name = "" }},
		{"bad email", func(b *Business) { b.Email = "nope" }},
		{"bad phone", func(b *Business) { b.Phone = "abc" }},
		{"missing address", func(b *Business) { b.Address = "" }},
		{"missing tax id", func(b *Business) { b.TaxID = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := valid
			tt.mutate(&b)
			assert.ErrorIs(t, Validate(b), ErrValidation)
		})
	}
}

func TestValidate_Phone(t *testing.T) {
	ok := []string{"+15551234567", "0151 123456", "+49 30 901820", "555-123-4567"}
	bad := []string{"", "abc", "+", "12345", "+1234567890123456789012345"}

	for _, p := range ok {
		b := Business{Name: "A", Email: "a@b.co", Phone: p, Address: "x", TaxID: "t"}
		assert.NoError(t, Validate(b), "phone %q", p)
	}
	for _, p := range bad {
		b := Business{Name: "A", Email: "a@b.co", Phone: p, Address: "x", TaxID: "t"}
		assert.Error(t, Validate(b), "phone %q", p)
	}
}

func TestValidate_InvoiceCurrency(t *testing.T) {
	inv := Invoice{
		BusinessID:    "b1",
		ClientID:      "c1",
		InvoiceNumber: "INV-1",
		Status:        InvoiceStatusDraft,
		Currency:      "USD",
	}
	assert.NoError(t, Validate(inv))

	inv.Currency = "DOLLARS"
	assert.ErrorIs(t, Validate(inv), ErrValidation)
}

func TestValidate_PatchOmitsUnset(t *testing.T) {
	// an all-nil patch is valid: nothing to check
	assert.NoError(t, Validate(BusinessPatch{}))

	bad := "not-an-email"
	assert.ErrorIs(t, Validate(BusinessPatch{Email: &bad}), ErrValidation)
}
