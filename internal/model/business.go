package model

import "time"

// Business is the top-level entity: it owns clients and invoices.
type Business struct {
	ID        string     `json:"id"`
	Name      string     `json:"name" validate:"required"`
	Email     string     `json:"email" validate:"required,email"`
	Phone     string     `json:"phone" validate:"required,phone"`
	Address   string     `json:"address" validate:"required"`
	TaxID     string     `json:"taxId" validate:"required"`
	Logo      string     `json:"logo,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	SyncedAt  *time.Time `json:"syncedAt,omitempty"`
}

// BusinessPatch carries the fields an update may change. Nil means "keep".
type BusinessPatch struct {
	Name    *string `json:"name,omitempty" validate:"omitempty,min=1"`
	Email   *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone   *string `json:"phone,omitempty" validate:"omitempty,phone"`
	Address *string `json:"address,omitempty" validate:"omitempty,min=1"`
	TaxID   *string `json:"taxId,omitempty" validate:"omitempty,min=1"`
	Logo    *string `json:"logo,omitempty"`
}

func (p BusinessPatch) Apply(b *Business) {
	if p.Name != nil {
		b.Name = *p.Name
	}
	if p.Email != nil {
		b.Email = *p.Email
	}
	if p.Phone != nil {
		b.Phone = *p.Phone
	}
	if p.Address != nil {
		b.Address = *p.Address
	}
	if p.TaxID != nil {
		b.TaxID = *p.TaxID
	}
	if p.Logo != nil {
		b.Logo = *p.Logo
	}
}
