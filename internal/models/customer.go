package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Customer represents a loyalty-program member. Customer records are created by
// the PMS sync pipeline; this service only reads them and maintains derived
// counters on the API responses.
type Customer struct {
	ID              uuid.UUID     `json:"id" db:"id"`
	PMSCustomerID   NullString    `json:"pms_customer_id,omitempty" db:"pms_customer_id"`
	Email           string        `json:"email" db:"email"`
	FirstName       NullString    `json:"first_name,omitempty" db:"first_name"`
	LastName        NullString    `json:"last_name,omitempty" db:"last_name"`
	Phone           NullString    `json:"phone,omitempty" db:"phone"`
	Address         NullString    `json:"address,omitempty" db:"address"`
	City            NullString    `json:"city,omitempty" db:"city"`
	PostalCode      NullString    `json:"postal_code,omitempty" db:"postal_code"`
	Country         NullString    `json:"country,omitempty" db:"country"`
	FiscalCode      NullString    `json:"fiscal_code,omitempty" db:"fiscal_code"`
	Language        NullString    `json:"language,omitempty" db:"language"`
	LoyaltyTierID   uuid.NullUUID `json:"loyalty_tier_id,omitempty" db:"loyalty_tier_id"`
	PreferencesJSON NullString    `json:"-" db:"preferences"`
	CreatedAt       time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at" db:"updated_at"`
}

// CustomerPreferences is the validated shape of the preferences JSONB column.
type CustomerPreferences struct {
	RoomType     string `json:"room_type,omitempty"`
	Floor        string `json:"floor,omitempty"`
	Pillow       string `json:"pillow,omitempty"`
	Newspaper    string `json:"newspaper,omitempty"`
	DietaryNotes string `json:"dietary_notes,omitempty"`
	EarlyCheckin bool   `json:"early_checkin,omitempty"`
	LateCheckout bool   `json:"late_checkout,omitempty"`
}

// Preferences decodes the preferences blob into its typed form. An absent or
// empty column decodes to the zero value.
func (c *Customer) Preferences() (CustomerPreferences, error) {
	var prefs CustomerPreferences
	if !c.PreferencesJSON.Valid || c.PreferencesJSON.String == "" {
		return prefs, nil
	}
	if err := json.Unmarshal([]byte(c.PreferencesJSON.String), &prefs); err != nil {
		return prefs, fmt.Errorf("invalid customer preferences: %w", err)
	}
	return prefs, nil
}

// LoyaltyTier is static reference data describing one rung of the program ladder.
type LoyaltyTier struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	Name         string     `json:"name" db:"name"`
	Code         string     `json:"code" db:"code"`
	MinStays     int        `json:"min_stays" db:"min_stays"`
	Description  NullString `json:"description,omitempty" db:"description"`
	BenefitsJSON NullString `json:"-" db:"benefits"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
}

// TierBenefits is the validated shape of the benefits JSONB column.
type TierBenefits struct {
	DiscountPercent int      `json:"discount_percent,omitempty"`
	FreeBreakfast   bool     `json:"free_breakfast,omitempty"`
	RoomUpgrade     bool     `json:"room_upgrade,omitempty"`
	WelcomeGift     bool     `json:"welcome_gift,omitempty"`
	Perks           []string `json:"perks,omitempty"`
}

// Benefits decodes the benefits blob into its typed form.
func (t *LoyaltyTier) Benefits() (TierBenefits, error) {
	var benefits TierBenefits
	if !t.BenefitsJSON.Valid || t.BenefitsJSON.String == "" {
		return benefits, nil
	}
	if err := json.Unmarshal([]byte(t.BenefitsJSON.String), &benefits); err != nil {
		return benefits, fmt.Errorf("invalid tier benefits: %w", err)
	}
	return benefits, nil
}

// CustomerProfile is the aggregate dashboard view of a customer: the stored
// profile merged with the loyalty tier and the derived counters.
//
// PendingPolicies is a presence flag, not a tally: it is 1 when at least one
// consent policy is still undecided (or no consent record exists) and 0
// otherwise. Callers must not assume it scales with the number of undecided
// policies.
type CustomerProfile struct {
	Customer
	LoyaltyTier     *LoyaltyTier         `json:"loyalty_tier,omitempty"`
	Preferences     *CustomerPreferences `json:"preferences,omitempty"`
	TotalStays      int                  `json:"total_stays"`
	PendingPolicies int                  `json:"pending_policies"`
}

// LoginRequest is the email-based login payload.
type LoginRequest struct {
	Email string `json:"email" binding:"required"`
}
