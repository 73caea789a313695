package database

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/stayclub/loyalty-backend/internal/models"
)

// HotelRepository handles hotel database operations
type HotelRepository struct {
	db DB
}

// NewHotelRepository creates a new hotel repository
func NewHotelRepository(db DB) *HotelRepository {
	return &HotelRepository{
		db: db,
	}
}

// GetByID retrieves a hotel by ID with its owning company name joined in
func (r *HotelRepository) GetByID(id uuid.UUID) (*models.Hotel, error) {
	var hotel models.Hotel

	query := `
		SELECT h.id, h.company_id, h.name, h.created_at,
		       co.name AS company_name
		FROM hotels h
		JOIN companies co ON co.id = h.company_id
		WHERE h.id = $1
	`

	err := r.db.Get(&hotel, query, id)
	if err != nil {
		return nil, err
	}

	return &hotel, nil
}

// List returns every hotel in the group with its owning company name joined in
func (r *HotelRepository) List() ([]models.Hotel, error) {
	hotels := []models.Hotel{}

	query := `
		SELECT h.id, h.company_id, h.name, h.created_at,
		       co.name AS company_name
		FROM hotels h
		JOIN companies co ON co.id = h.company_id
		ORDER BY co.name ASC, h.name ASC
	`

	err := r.db.Select(&hotels, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list hotels: %w", err)
	}

	return hotels, nil
}

// ListByCompany returns all hotels belonging to a company
func (r *HotelRepository) ListByCompany(companyID uuid.UUID) ([]models.Hotel, error) {
	hotels := []models.Hotel{}

	query := `
		SELECT h.id, h.company_id, h.name, h.created_at,
		       co.name AS company_name
		FROM hotels h
		JOIN companies co ON co.id = h.company_id
		WHERE h.company_id = $1
		ORDER BY h.name ASC
	`

	err := r.db.Select(&hotels, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list hotels: %w", err)
	}

	return hotels, nil
}
