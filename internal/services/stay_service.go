package services

import (
	"time"

	"github.com/google/uuid"
	"github.com/stayclub/loyalty-backend/internal/database"
	"github.com/stayclub/loyalty-backend/internal/models"
)

const calendarDateFormat = "2006-01-02"

// StayService classifies raw booking statuses into the customer-facing display
// taxonomy and expands stay date ranges into per-night calendar markers.
// Display status is a pure function of the raw status at read time; status
// changes originate entirely in the external booking system.
type StayService struct {
	repo *database.StayRepository
}

// NewStayService creates a new stay service
func NewStayService(repo *database.StayRepository) *StayService {
	return &StayService{
		repo: repo,
	}
}

// ClassifyStatus maps a raw booking status onto the closed display set.
// Unrecognized or missing statuses classify as upcoming; failing open keeps a
// stay visible on the dashboard rather than silently dropping it.
func ClassifyStatus(raw string) models.DisplayStatus {
	switch raw {
	case models.StayStatusCheckedOut:
		return models.DisplayCompleted
	case models.StayStatusCanceled, models.StayStatusNoShow:
		return models.DisplayCancelled
	case models.StayStatusBooked,
		models.StayStatusConfirmed,
		models.StayStatusWaitingPayment,
		models.StayStatusPaymentInProgress,
		models.StayStatusWaitingCreditCardGuarantee,
		models.StayStatusCheckedIn:
		return models.DisplayUpcoming
	default:
		return models.DisplayUpcoming
	}
}

// NightsBetween returns the number of nights between arrival and departure:
// the ceiling of the whole-day difference, never negative, and 0 when either
// bound is absent. Inverted ranges come from unvalidated upstream data and
// yield 0 rather than an error.
func NightsBetween(arrival, departure models.NullTime) int {
	if !arrival.Valid || !departure.Valid {
		return 0
	}

	diff := departure.Time.Sub(arrival.Time)
	if diff <= 0 {
		return 0
	}

	nights := int(diff / (24 * time.Hour))
	if diff%(24*time.Hour) != 0 {
		nights++
	}
	return nights
}

// ExpandNights returns every calendar day from arrival up to but excluding
// departure. The checkout day is never an occupied night, so the interval is
// half-open; an empty slice is returned when departure <= arrival.
func ExpandNights(arrival, departure time.Time) []time.Time {
	nights := []time.Time{}
	for d := arrival; d.Before(departure); d = d.AddDate(0, 0, 1) {
		nights = append(nights, d)
	}
	return nights
}

// StaysOnDate returns the stays covering the given date, using the same
// half-open interval as ExpandNights: arrival <= date < departure.
func StaysOnDate(stays []models.StayView, date time.Time) []models.StayView {
	matched := []models.StayView{}
	for _, stay := range stays {
		if !stay.ArrivalDate.Valid || !stay.DepartureDate.Valid {
			continue
		}
		if !date.Before(stay.ArrivalDate.Time) && date.Before(stay.DepartureDate.Time) {
			matched = append(matched, stay)
		}
	}
	return matched
}

// BuildCalendar expands every stay into its per-night markers grouped by
// display status and computes the aggregate stats for the calendar screen.
// The three night sets are disjoint since each stay has one display status.
func BuildCalendar(stays []models.StayView) models.CalendarView {
	view := models.CalendarView{
		CompletedNights: []string{},
		UpcomingNights:  []string{},
		CancelledNights: []string{},
	}

	for _, stay := range stays {
		view.TotalNights += stay.Nights

		switch stay.Status {
		case models.DisplayCompleted:
			view.CompletedStays++
		case models.DisplayUpcoming:
			view.UpcomingStays++
		case models.DisplayCancelled:
			view.CancelledStays++
		}

		if !stay.ArrivalDate.Valid || !stay.DepartureDate.Valid {
			continue
		}

		for _, night := range ExpandNights(stay.ArrivalDate.Time, stay.DepartureDate.Time) {
			marker := night.Format(calendarDateFormat)
			switch stay.Status {
			case models.DisplayCompleted:
				view.CompletedNights = append(view.CompletedNights, marker)
			case models.DisplayUpcoming:
				view.UpcomingNights = append(view.UpcomingNights, marker)
			case models.DisplayCancelled:
				view.CancelledNights = append(view.CancelledNights, marker)
			}
		}
	}

	return view
}

// buildView augments a stay with its derived fields.
func buildView(stay models.Stay) models.StayView {
	return models.StayView{
		Stay: stay,
		Hotel: models.StayHotel{
			ID:      stay.HotelID,
			Name:    stay.HotelName.String,
			Company: stay.CompanyName.String,
		},
		Nights: NightsBetween(stay.ArrivalDate, stay.DepartureDate),
		Status: ClassifyStatus(stay.Status.String),
	}
}

// ListForCustomer returns a customer's stays augmented with nights and display
// status, ordered by arrival date descending.
func (s *StayService) ListForCustomer(customerID uuid.UUID) ([]models.StayView, error) {
	if customerID == uuid.Nil {
		return nil, NewValidationError("customer ID is required")
	}

	stays, err := s.repo.ListByCustomer(customerID)
	if err != nil {
		return nil, &StorageError{Op: "stay listing", Err: err}
	}

	views := make([]models.StayView, 0, len(stays))
	for _, stay := range stays {
		views = append(views, buildView(stay))
	}

	return views, nil
}

// CalendarForCustomer fetches a customer's stays and builds the calendar view.
func (s *StayService) CalendarForCustomer(customerID uuid.UUID) (models.CalendarView, []models.StayView, error) {
	views, err := s.ListForCustomer(customerID)
	if err != nil {
		return models.CalendarView{}, nil, err
	}
	return BuildCalendar(views), views, nil
}
