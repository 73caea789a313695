package database

import (
	"github.com/google/uuid"
	"github.com/stayclub/loyalty-backend/internal/models"
)

// ConsentRepository handles consent database operations
type ConsentRepository struct {
	db DB
}

// NewConsentRepository creates a new consent repository
func NewConsentRepository(db DB) *ConsentRepository {
	return &ConsentRepository{
		db: db,
	}
}

// GetLatestByCustomer returns the most recently updated consent record for a
// customer. Older rows may exist as history; only the latest is authoritative.
// Returns sql.ErrNoRows when the customer has never submitted consents.
func (r *ConsentRepository) GetLatestByCustomer(customerID uuid.UUID) (*models.Consent, error) {
	var consent models.Consent

	query := `
		SELECT id, customer_id, newsletter_optin, marketing_optin, profiling_optin,
		       source, ip_address, user_agent, created_at, updated_at
		FROM customer_consents
		WHERE customer_id = $1
		ORDER BY updated_at DESC
		LIMIT 1
	`

	err := r.db.Get(&consent, query, customerID)
	if err != nil {
		return nil, err
	}

	return &consent, nil
}

// Upsert persists a consent record with a single atomic insert-or-update keyed
// by customer_id. Two concurrent submissions for the same customer therefore
// cannot race a separate existence check into duplicate rows or a lost update.
func (r *ConsentRepository) Upsert(consent *models.Consent) (*models.Consent, error) {
	query := `
		INSERT INTO customer_consents (
			id, customer_id, newsletter_optin, marketing_optin, profiling_optin,
			source, ip_address, user_agent, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (customer_id) DO UPDATE SET
			newsletter_optin = EXCLUDED.newsletter_optin,
			marketing_optin  = EXCLUDED.marketing_optin,
			profiling_optin  = EXCLUDED.profiling_optin,
			source           = EXCLUDED.source,
			ip_address       = EXCLUDED.ip_address,
			user_agent       = EXCLUDED.user_agent,
			updated_at       = EXCLUDED.updated_at
		RETURNING id, created_at
	`

	err := r.db.QueryRow(
		query,
		uuid.New(),
		consent.CustomerID,
		consent.NewsletterOptin,
		consent.MarketingOptin,
		consent.ProfilingOptin,
		consent.Source,
		consent.IPAddress,
		consent.UserAgent,
		consent.UpdatedAt,
		consent.UpdatedAt,
	).Scan(&consent.ID, &consent.CreatedAt)
	if err != nil {
		return nil, err
	}

	return consent, nil
}
