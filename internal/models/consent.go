package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// PolicyStatus is the display status of a single consent policy.
type PolicyStatus string

const (
	PolicyApproved PolicyStatus = "approved"
	PolicyRejected PolicyStatus = "rejected"
	PolicyPending  PolicyStatus = "pending"
)

// Consent holds the most recently submitted tri-state opt-in triple for a
// customer plus the provenance of the submission. Older rows may be retained
// as history; only the latest updated_at row is authoritative.
type Consent struct {
	ID              uuid.UUID `json:"id" db:"id"`
	CustomerID      uuid.UUID `json:"customer_id" db:"customer_id"`
	NewsletterOptin NullBool  `json:"newsletter_optin" db:"newsletter_optin"`
	MarketingOptin  NullBool  `json:"marketing_optin" db:"marketing_optin"`
	ProfilingOptin  NullBool  `json:"profiling_optin" db:"profiling_optin"`
	Source          string    `json:"source" db:"source"`
	IPAddress       string    `json:"ip_address" db:"ip_address"`
	UserAgent       string    `json:"user_agent" db:"user_agent"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// OptinPatch is one field of a partial consent update. Present records whether
// the client sent the key at all: an omitted field keeps the previous value,
// while an explicit null (Present with an invalid Value) clears the policy
// back to undecided. A pointer field cannot make this distinction because
// encoding/json sets it to nil on null without ever calling the unmarshaler.
type OptinPatch struct {
	Present bool
	Value   NullBool
}

// UnmarshalJSON implements json.Unmarshaler. It runs for explicit null too,
// which is what records presence.
func (p *OptinPatch) UnmarshalJSON(data []byte) error {
	p.Present = true
	return json.Unmarshal(data, &p.Value)
}

// ConsentSubmission is a partial consent update from the dashboard. Each
// opt-in is a tri-state patch: omitted, explicit null, or a boolean decision.
type ConsentSubmission struct {
	NewsletterOptin OptinPatch `json:"newsletter_optin"`
	MarketingOptin  OptinPatch `json:"marketing_optin"`
	ProfilingOptin  OptinPatch `json:"profiling_optin"`
	Source          string     `json:"source,omitempty"`
	IPAddress       string     `json:"ip_address,omitempty"`
	UserAgent       string     `json:"user_agent,omitempty"`
}

// PatchValue returns an OptinPatch carrying a decision.
func PatchValue(b bool) OptinPatch {
	return OptinPatch{Present: true, Value: BoolValue(b)}
}

// PatchNull returns an OptinPatch explicitly clearing a policy to undecided.
func PatchNull() OptinPatch {
	return OptinPatch{Present: true}
}

// ConsentView is the read-side response: the tri-state triple with the derived
// per-policy status. All three opt-ins default to null when no record exists.
type ConsentView struct {
	NewsletterOptin  NullBool     `json:"newsletter_optin"`
	MarketingOptin   NullBool     `json:"marketing_optin"`
	ProfilingOptin   NullBool     `json:"profiling_optin"`
	NewsletterStatus PolicyStatus `json:"newsletter_status"`
	MarketingStatus  PolicyStatus `json:"marketing_status"`
	ProfilingStatus  PolicyStatus `json:"profiling_status"`
	UpdatedAt        NullTime     `json:"updated_at"`
}

// AuditLog records a security-relevant event (login, consent submission).
type AuditLog struct {
	ID         int64         `json:"id" db:"id"`
	CustomerID uuid.NullUUID `json:"customer_id,omitempty" db:"customer_id"`
	Action     string        `json:"action" db:"action"`
	EntityType NullString    `json:"entity_type,omitempty" db:"entity_type"`
	EntityID   uuid.NullUUID `json:"entity_id,omitempty" db:"entity_id"`
	IPAddress  NullString    `json:"ip_address,omitempty" db:"ip_address"`
	UserAgent  NullString    `json:"user_agent,omitempty" db:"user_agent"`
	Details    NullString    `json:"details,omitempty" db:"details"`
	CreatedAt  time.Time     `json:"created_at" db:"created_at"`
}

// LoginRateLimit is one recorded login attempt, keyed by email or IP.
type LoginRateLimit struct {
	ID             int64     `json:"id" db:"id"`
	Identifier     string    `json:"identifier" db:"identifier"`
	IdentifierType string    `json:"identifier_type" db:"identifier_type"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}
