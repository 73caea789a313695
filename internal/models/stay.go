package models

import (
	"time"

	"github.com/google/uuid"
)

// Raw booking statuses as delivered by the external booking system. The set is
// fixed upstream; this service never transitions a stay between statuses.
const (
	StayStatusBooked                     = "booked"
	StayStatusWaitingPayment             = "waiting_payment"
	StayStatusPaymentInProgress          = "payment_in_progress"
	StayStatusConfirmed                  = "confirmed"
	StayStatusCanceled                   = "canceled"
	StayStatusWaitingCreditCardGuarantee = "waiting_credit_card_guarantee"
	StayStatusCheckedIn                  = "checked_in"
	StayStatusCheckedOut                 = "checked_out"
	StayStatusNoShow                     = "no_show"
)

// DisplayStatus is the customer-facing classification of a stay.
type DisplayStatus string

const (
	DisplayCompleted DisplayStatus = "completed"
	DisplayUpcoming  DisplayStatus = "upcoming"
	DisplayCancelled DisplayStatus = "cancelled"
)

// Stay is one booking for a customer. Stays are written by the booking
// ingestion pipeline and are read-only here.
type Stay struct {
	ID                    uuid.UUID  `json:"id" db:"id"`
	CustomerID            uuid.UUID  `json:"customer_id" db:"customer_id"`
	HotelID               uuid.UUID  `json:"hotel_id" db:"hotel_id"`
	PMSBookingID          NullString `json:"pms_booking_id,omitempty" db:"pms_booking_id"`
	BookingNumber         NullString `json:"booking_number,omitempty" db:"booking_number"`
	BookingDate           NullTime   `json:"booking_date,omitempty" db:"booking_date"`
	ArrivalDate           NullTime   `json:"arrival_date,omitempty" db:"arrival_date"`
	DepartureDate         NullTime   `json:"departure_date,omitempty" db:"departure_date"`
	Status                NullString `json:"-" db:"status"`
	Amount                NullString `json:"amount,omitempty" db:"amount"`
	Discount              NullString `json:"discount,omitempty" db:"discount"`
	Deposit               NullString `json:"deposit,omitempty" db:"deposit"`
	DepositIsPaid         NullBool   `json:"deposit_is_paid,omitempty" db:"deposit_is_paid"`
	LivingUnitName        NullString `json:"living_unit_name,omitempty" db:"living_unit_name"`
	AccommodationTypeName NullString `json:"accommodation_type_name,omitempty" db:"accommodation_type_name"`
	CreatedAt             time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at" db:"updated_at"`

	// Joined hotel columns
	HotelName   NullString `json:"-" db:"hotel_name"`
	CompanyName NullString `json:"-" db:"company_name"`
}

// StayView is a stay augmented with its derived fields for API responses.
type StayView struct {
	Stay
	Hotel  StayHotel     `json:"hotel"`
	Nights int           `json:"nights"`
	Status DisplayStatus `json:"status"`
}

// StayHotel is the hotel/company pair embedded in a stay response.
type StayHotel struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Company string    `json:"company"`
}

// CalendarView groups every occupied night by display status, together with
// the aggregate stats shown on the calendar screen. The three night sets are
// disjoint because every stay has exactly one display status.
type CalendarView struct {
	CompletedNights []string `json:"completed_nights"`
	UpcomingNights  []string `json:"upcoming_nights"`
	CancelledNights []string `json:"cancelled_nights"`
	TotalNights     int      `json:"total_nights"`
	CompletedStays  int      `json:"completed_stays"`
	UpcomingStays   int      `json:"upcoming_stays"`
	CancelledStays  int      `json:"cancelled_stays"`
}
