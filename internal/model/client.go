package model

import "time"

// Client belongs to exactly one business.
type Client struct {
	ID         string     `json:"id"`
	BusinessID string     `json:"businessId" validate:"required"`
	Name       string     `json:"name" validate:"required"`
	Email      string     `json:"email" validate:"required,email"`
	Phone      string     `json:"phone" validate:"required,phone"`
	Address    string     `json:"address" validate:"required"`
	TaxID      string     `json:"taxId,omitempty"`
	Notes      string     `json:"notes,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
	SyncedAt   *time.Time `json:"syncedAt,omitempty"`
}

type ClientPatch struct {
	Name    *string `json:"name,omitempty" validate:"omitempty,min=1"`
	Email   *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone   *string `json:"phone,omitempty" validate:"omitempty,phone"`
	Address *string `json:"address,omitempty" validate:"omitempty,min=1"`
	TaxID   *string `json:"taxId,omitempty"`
	Notes   *string `json:"notes,omitempty"`
}

func (p ClientPatch) Apply(c *Client) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Email != nil {
		c.Email = *p.Email
	}
	if p.Phone != nil {
		c.Phone = *p.Phone
	}
	if p.Address != nil {
		c.Address = *p.Address
	}
	if p.TaxID != nil {
		c.TaxID = *p.TaxID
	}
	if p.Notes != nil {
		c.Notes = *p.Notes
	}
}
