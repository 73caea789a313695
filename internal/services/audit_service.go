package services

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stayclub/loyalty-backend/internal/database"
	"github.com/stayclub/loyalty-backend/internal/utils"
)

// AuditService records security-relevant events (logins, consent submissions)
// for the compliance trail. When disabled, all log calls are no-ops.
type AuditService struct {
	db      database.DB
	enabled bool
}

// NewAuditService creates a new audit service
func NewAuditService(db database.DB, enabled bool) *AuditService {
	return &AuditService{
		db:      db,
		enabled: enabled,
	}
}

// AuditEvent represents one event to be logged
type AuditEvent struct {
	CustomerID *uuid.UUID             // Can be nil for failed login lookups
	Action     string                 // e.g. "login", "consent_submitted"
	EntityType string                 // e.g. "customer", "consent"
	EntityID   *uuid.UUID             // ID of the affected entity (can be nil)
	IPAddress  string                 // Client IP address
	UserAgent  string                 // Client user agent
	Details    map[string]interface{} // Additional details as JSONB
}

// LogLogin logs a login attempt, successful or not.
func (s *AuditService) LogLogin(customerID *uuid.UUID, email, ipAddress, userAgent string, success bool, reason string) error {
	deviceInfo := utils.ParseUserAgent(userAgent)

	details := map[string]interface{}{
		"email":       email,
		"success":     success,
		"device_info": deviceInfo,
	}
	if reason != "" {
		details["reason"] = reason
	}

	return s.logEvent(AuditEvent{
		CustomerID: customerID,
		Action:     "login",
		EntityType: "customer",
		EntityID:   customerID,
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		Details:    details,
	})
}

// LogConsentSubmission logs a consent update with its resulting tri-state
// triple so the compliance trail shows what each submission changed.
func (s *AuditService) LogConsentSubmission(customerID uuid.UUID, consentID *uuid.UUID, ipAddress, userAgent string, flags map[string]interface{}) error {
	deviceInfo := utils.ParseUserAgent(userAgent)

	details := map[string]interface{}{
		"flags":       flags,
		"device_info": deviceInfo,
	}

	return s.logEvent(AuditEvent{
		CustomerID: &customerID,
		Action:     "consent_submitted",
		EntityType: "consent",
		EntityID:   consentID,
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
		Details:    details,
	})
}

// logEvent writes an audit event to the database
func (s *AuditService) logEvent(event AuditEvent) error {
	if !s.enabled {
		return nil
	}

	detailsJSON, err := json.Marshal(event.Details)
	if err != nil {
		return fmt.Errorf("failed to marshal audit details: %w", err)
	}

	query := `
		INSERT INTO audit_logs (customer_id, action, entity_type, entity_id, ip_address, user_agent, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err = s.db.Exec(
		query,
		event.CustomerID,
		event.Action,
		event.EntityType,
		event.EntityID,
		event.IPAddress,
		event.UserAgent,
		string(detailsJSON),
		time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}

	return nil
}
