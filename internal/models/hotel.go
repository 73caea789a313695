package models

import (
	"time"

	"github.com/google/uuid"
)

// Company is the group entity owning one or more hotels. Static reference data.
type Company struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Hotel belongs to exactly one company. Static reference data.
type Hotel struct {
	ID        uuid.UUID `json:"id" db:"id"`
	CompanyID uuid.UUID `json:"company_id" db:"company_id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// Joined company name
	CompanyName NullString `json:"company_name,omitempty" db:"company_name"`
}
