package services

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/stayclub/loyalty-backend/internal/database"
	"github.com/stayclub/loyalty-backend/internal/models"
)

// DefaultConsentSource is stamped on submissions that carry no source label.
const DefaultConsentSource = "dashboard"

// ConsentService reconciles tri-state consent records: it derives per-policy
// display status, merges partial client submissions against the last known
// record and persists the result through a single atomic upsert.
type ConsentService struct {
	repo *database.ConsentRepository
}

// NewConsentService creates a new consent service
func NewConsentService(repo *database.ConsentRepository) *ConsentService {
	return &ConsentService{
		repo: repo,
	}
}

// DeriveStatus maps one tri-state opt-in value onto its display status:
// undecided (null) is pending, granted is approved, denied is rejected.
func DeriveStatus(v models.NullBool) models.PolicyStatus {
	if !v.Valid {
		return models.PolicyPending
	}
	if v.Bool {
		return models.PolicyApproved
	}
	return models.PolicyRejected
}

// PendingPolicies returns 1 if any of the three opt-ins is undecided, or if no
// record exists at all, else 0.
//
// This is deliberately a presence flag and not a per-policy count; the
// dashboard contract expects 0/1 regardless of how many policies are still
// undecided.
func PendingPolicies(record *models.Consent) int {
	if record == nil {
		return 1
	}
	if !record.NewsletterOptin.Valid || !record.MarketingOptin.Valid || !record.ProfilingOptin.Valid {
		return 1
	}
	return 0
}

// MergeSubmission merges a partial consent submission against the previous
// record. Fields the client supplied win, including an explicit null meaning
// "leave undecided"; omitted fields keep the previous value, or stay null when
// there is no previous record. The result carries the submission's provenance
// and the given timestamp.
func MergeSubmission(previous *models.Consent, submitted models.ConsentSubmission, now time.Time) models.Consent {
	merged := models.Consent{
		Source:    submitted.Source,
		IPAddress: submitted.IPAddress,
		UserAgent: submitted.UserAgent,
		UpdatedAt: now,
	}
	if merged.Source == "" {
		merged.Source = DefaultConsentSource
	}

	if previous != nil {
		merged.NewsletterOptin = previous.NewsletterOptin
		merged.MarketingOptin = previous.MarketingOptin
		merged.ProfilingOptin = previous.ProfilingOptin
	}

	if submitted.NewsletterOptin.Present {
		merged.NewsletterOptin = submitted.NewsletterOptin.Value
	}
	if submitted.MarketingOptin.Present {
		merged.MarketingOptin = submitted.MarketingOptin.Value
	}
	if submitted.ProfilingOptin.Present {
		merged.ProfilingOptin = submitted.ProfilingOptin.Value
	}

	return merged
}

// BuildConsentView converts a consent record into the read-side response. A
// nil record reads as all-null: every policy pending, no timestamp.
func BuildConsentView(record *models.Consent) models.ConsentView {
	view := models.ConsentView{}
	if record != nil {
		view.NewsletterOptin = record.NewsletterOptin
		view.MarketingOptin = record.MarketingOptin
		view.ProfilingOptin = record.ProfilingOptin
		view.UpdatedAt = models.TimeValue(record.UpdatedAt)
	}
	view.NewsletterStatus = DeriveStatus(view.NewsletterOptin)
	view.MarketingStatus = DeriveStatus(view.MarketingOptin)
	view.ProfilingStatus = DeriveStatus(view.ProfilingOptin)
	return view
}

// GetForCustomer returns the current consent view for a customer, defaulting
// to all-null when no record has ever been submitted.
func (s *ConsentService) GetForCustomer(customerID uuid.UUID) (models.ConsentView, error) {
	record, err := s.latest(customerID)
	if err != nil {
		return models.ConsentView{}, err
	}
	return BuildConsentView(record), nil
}

// Submit merges a partial submission against the customer's current record and
// persists the result atomically. Returns the persisted record.
func (s *ConsentService) Submit(customerID uuid.UUID, submitted models.ConsentSubmission) (*models.Consent, error) {
	if customerID == uuid.Nil {
		return nil, NewValidationError("customer ID is required")
	}

	previous, err := s.latest(customerID)
	if err != nil {
		return nil, err
	}

	merged := MergeSubmission(previous, submitted, time.Now().UTC())
	merged.CustomerID = customerID

	saved, err := s.repo.Upsert(&merged)
	if err != nil {
		return nil, &StorageError{Op: "consent upsert", Err: err}
	}

	return saved, nil
}

// latest fetches the current record, mapping "never submitted" to nil.
func (s *ConsentService) latest(customerID uuid.UUID) (*models.Consent, error) {
	if customerID == uuid.Nil {
		return nil, NewValidationError("customer ID is required")
	}

	record, err := s.repo.GetLatestByCustomer(customerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, &StorageError{Op: "consent fetch", Err: err}
	}

	return record, nil
}
