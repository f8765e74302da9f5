package models

import "time"

// Corporate is a company managed through the admin endpoints.
type Corporate struct {
	ID          int64     `db:"id,auto" json:"id"`
	Name        string    `db:"name" json:"name" validate:"required,max=255"`
	TaxNumber   string    `db:"tax_number" json:"tax_number" validate:"required,numeric,min=10,max=11"`
	Email       string    `db:"email" json:"email" validate:"omitempty,email,max=254"`
	Website     string    `db:"website" json:"website" validate:"omitempty,url,max=255"`
	Logo        FieldFile `db:"logo" json:"logo"`
	Description string    `db:"description" json:"description"`
	IsActive    bool      `db:"is_active" json:"is_active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

func (c Corporate) TableName() string {
	return "corporates"
}

func (c Corporate) VerboseName() string {
	return "Corporate"
}

func (c *Corporate) BeforeSave(creating bool) {
	now := time.Now().UTC()
	if creating && c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now
}

// Branch is an office of a Corporate.
type Branch struct {
	ID          int64     `db:"id,auto" json:"id"`
	CorporateID int64     `db:"corporate_id" json:"corporate_id" validate:"required,gt=0"`
	Name        string    `db:"name" json:"name" validate:"required,max=255"`
	City        string    `db:"city" json:"city" validate:"required,max=128"`
	Phone       string    `db:"phone" json:"phone" validate:"omitempty,e164"`
	IsActive    bool      `db:"is_active" json:"is_active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

func (b Branch) TableName() string {
	return "branches"
}

func (b Branch) VerboseName() string {
	return "Branch"
}

func (b *Branch) BeforeSave(creating bool) {
	if creating && b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now().UTC()
	}
}
