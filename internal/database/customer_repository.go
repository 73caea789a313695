package database

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/stayclub/loyalty-backend/internal/models"
)

// CustomerRepository handles customer database operations. Customers are
// provisioned by the PMS sync pipeline, so this repository is read-only.
type CustomerRepository struct {
	db DB
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db DB) *CustomerRepository {
	return &CustomerRepository{
		db: db,
	}
}

// GetByEmail looks up a customer by email. The lookup is case-insensitive and
// ignores surrounding whitespace.
func (r *CustomerRepository) GetByEmail(email string) (*models.Customer, error) {
	var customer models.Customer

	query := `
		SELECT id, pms_customer_id, email, first_name, last_name, phone,
		       address, city, postal_code, country, fiscal_code, language,
		       loyalty_tier_id, preferences, created_at, updated_at
		FROM customers
		WHERE LOWER(email) = LOWER($1)
	`

	err := r.db.Get(&customer, query, strings.TrimSpace(email))
	if err != nil {
		return nil, err
	}

	return &customer, nil
}

// GetByID retrieves a customer by ID
func (r *CustomerRepository) GetByID(id uuid.UUID) (*models.Customer, error) {
	var customer models.Customer

	query := `
		SELECT id, pms_customer_id, email, first_name, last_name, phone,
		       address, city, postal_code, country, fiscal_code, language,
		       loyalty_tier_id, preferences, created_at, updated_at
		FROM customers
		WHERE id = $1
	`

	err := r.db.Get(&customer, query, id)
	if err != nil {
		return nil, err
	}

	return &customer, nil
}

// CountCheckedOutStays returns the number of completed (checked_out) stays for
// a customer. This is the total_stays counter shown on the dashboard.
func (r *CustomerRepository) CountCheckedOutStays(customerID uuid.UUID) (int, error) {
	var count int

	query := `
		SELECT COUNT(*)
		FROM stays
		WHERE customer_id = $1 AND status = $2
	`

	err := r.db.Get(&count, query, customerID, models.StayStatusCheckedOut)
	if err != nil {
		return 0, fmt.Errorf("failed to count checked-out stays: %w", err)
	}

	return count, nil
}
