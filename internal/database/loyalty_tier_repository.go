package database

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/stayclub/loyalty-backend/internal/models"
)

// LoyaltyTierRepository handles loyalty tier database operations. Tiers are
// static reference data maintained by the program administrators.
type LoyaltyTierRepository struct {
	db DB
}

// NewLoyaltyTierRepository creates a new loyalty tier repository
func NewLoyaltyTierRepository(db DB) *LoyaltyTierRepository {
	return &LoyaltyTierRepository{
		db: db,
	}
}

// GetByID retrieves a loyalty tier by ID
func (r *LoyaltyTierRepository) GetByID(id uuid.UUID) (*models.LoyaltyTier, error) {
	var tier models.LoyaltyTier

	query := `
		SELECT id, name, code, min_stays, description, benefits, created_at
		FROM loyalty_tiers
		WHERE id = $1
	`

	err := r.db.Get(&tier, query, id)
	if err != nil {
		return nil, err
	}

	return &tier, nil
}

// List returns the full tier ladder ordered by the stay threshold.
func (r *LoyaltyTierRepository) List() ([]models.LoyaltyTier, error) {
	tiers := []models.LoyaltyTier{}

	query := `
		SELECT id, name, code, min_stays, description, benefits, created_at
		FROM loyalty_tiers
		ORDER BY min_stays ASC
	`

	err := r.db.Select(&tiers, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list loyalty tiers: %w", err)
	}

	return tiers, nil
}
