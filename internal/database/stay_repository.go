package database

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/stayclub/loyalty-backend/internal/models"
)

// StayRepository handles stay database operations. Stays are written by the
// booking ingestion pipeline and are read-only from this service.
type StayRepository struct {
	db DB
}

// NewStayRepository creates a new stay repository
func NewStayRepository(db DB) *StayRepository {
	return &StayRepository{
		db: db,
	}
}

// ListByCustomer returns all stays for a customer with the owning hotel and
// company names joined in, ordered by arrival date descending (most recent
// first, stays without an arrival date last).
func (r *StayRepository) ListByCustomer(customerID uuid.UUID) ([]models.Stay, error) {
	stays := []models.Stay{}

	query := `
		SELECT s.id, s.customer_id, s.hotel_id, s.pms_booking_id, s.booking_number,
		       s.booking_date, s.arrival_date, s.departure_date, s.status,
		       s.amount, s.discount, s.deposit, s.deposit_is_paid,
		       s.living_unit_name, s.accommodation_type_name,
		       s.created_at, s.updated_at,
		       h.name AS hotel_name,
		       co.name AS company_name
		FROM stays s
		JOIN hotels h ON h.id = s.hotel_id
		JOIN companies co ON co.id = h.company_id
		WHERE s.customer_id = $1
		ORDER BY s.arrival_date DESC NULLS LAST
	`

	err := r.db.Select(&stays, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list stays: %w", err)
	}

	return stays, nil
}
