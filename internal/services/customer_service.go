package services

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/stayclub/loyalty-backend/internal/database"
	"github.com/stayclub/loyalty-backend/internal/models"
)

// CustomerService assembles the aggregate customer view: the stored profile
// merged with the loyalty tier, the checked-out stay counter and the pending
// policy flag. A failed fetch of any dependent dataset aborts the aggregate
// rather than returning partially filled data.
type CustomerService struct {
	customerRepo *database.CustomerRepository
	tierRepo     *database.LoyaltyTierRepository
	consents     *ConsentService
}

// NewCustomerService creates a new customer service
func NewCustomerService(customerRepo *database.CustomerRepository, tierRepo *database.LoyaltyTierRepository, consents *ConsentService) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		tierRepo:     tierRepo,
		consents:     consents,
	}
}

// GetProfileByEmail resolves a customer by email and builds the aggregate view.
func (s *CustomerService) GetProfileByEmail(email string) (*models.CustomerProfile, error) {
	if strings.TrimSpace(email) == "" {
		return nil, NewValidationError("email is required")
	}

	customer, err := s.customerRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Resource: "customer"}
		}
		return nil, &StorageError{Op: "customer lookup", Err: err}
	}

	return s.buildProfile(customer)
}

// GetProfileByID resolves a customer by ID and builds the aggregate view.
func (s *CustomerService) GetProfileByID(id uuid.UUID) (*models.CustomerProfile, error) {
	if id == uuid.Nil {
		return nil, NewValidationError("customer ID is required")
	}

	customer, err := s.customerRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Resource: "customer"}
		}
		return nil, &StorageError{Op: "customer lookup", Err: err}
	}

	return s.buildProfile(customer)
}

func (s *CustomerService) buildProfile(customer *models.Customer) (*models.CustomerProfile, error) {
	profile := &models.CustomerProfile{
		Customer: *customer,
	}

	if customer.LoyaltyTierID.Valid {
		tier, err := s.tierRepo.GetByID(customer.LoyaltyTierID.UUID)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, &StorageError{Op: "loyalty tier lookup", Err: err}
		}
		// A dangling tier reference reads as no tier; the reference is weak.
		if err == nil {
			profile.LoyaltyTier = tier
		}
	}

	prefs, err := customer.Preferences()
	if err != nil {
		return nil, NewValidationError("customer preferences are malformed: %v", err)
	}
	profile.Preferences = &prefs

	totalStays, err := s.customerRepo.CountCheckedOutStays(customer.ID)
	if err != nil {
		return nil, &StorageError{Op: "stay count", Err: err}
	}
	profile.TotalStays = totalStays

	pending, err := s.pendingPolicies(customer.ID)
	if err != nil {
		return nil, err
	}
	profile.PendingPolicies = pending

	return profile, nil
}

// pendingPolicies computes the 0/1 pending flag from the current consent record.
func (s *CustomerService) pendingPolicies(customerID uuid.UUID) (int, error) {
	record, err := s.consents.latest(customerID)
	if err != nil {
		return 0, err
	}
	return PendingPolicies(record), nil
}
