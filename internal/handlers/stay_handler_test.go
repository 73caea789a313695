package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stayclub/loyalty-backend/internal/database"
	"github.com/stayclub/loyalty-backend/internal/models"
	"github.com/stayclub/loyalty-backend/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupStayTestHandler creates a test handler
func setupStayTestHandler(db database.DB) *StayHandler {
	repo := database.NewStayRepository(db)
	return NewStayHandler(services.NewStayService(repo))
}

func stayTestColumns() []string {
	return []string{
		"id", "customer_id", "hotel_id", "pms_booking_id", "booking_number",
		"booking_date", "arrival_date", "departure_date", "status",
		"amount", "discount", "deposit", "deposit_is_paid",
		"living_unit_name", "accommodation_type_name",
		"created_at", "updated_at", "hotel_name", "company_name",
	}
}

func addStayRow(rows *sqlmock.Rows, customerID uuid.UUID, status string, arrival, departure time.Time) *sqlmock.Rows {
	now := time.Now().UTC()
	return rows.AddRow(
		uuid.New(), customerID, uuid.New(), "PMS-1001", "BK-2024-001",
		arrival.AddDate(0, -1, 0), arrival, departure, status,
		"450.00", nil, "100.00", true,
		"Room 204", "Deluxe Double",
		now, now, "Grand Hotel Riviera", "Riviera Hospitality Group",
	)
}

func TestListStays_NoCustomerContext(t *testing.T) {
	db, _ := setupTestDB(t)
	defer db.Close()

	handler := setupStayTestHandler(db)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/stays", nil)

	handler.ListStays(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestListStays_Success(t *testing.T) {
	db, mock := setupTestDB(t)
	defer db.Close()

	customerID := uuid.New()
	rows := sqlmock.NewRows(stayTestColumns())
	addStayRow(rows, customerID, models.StayStatusCheckedOut,
		time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 13, 0, 0, 0, 0, time.UTC))
	addStayRow(rows, customerID, models.StayStatusConfirmed,
		time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC))

	mock.ExpectQuery("SELECT (.+) FROM stays s JOIN hotels h").
		WithArgs(customerID).
		WillReturnRows(rows)

	handler := setupStayTestHandler(db)
	c, w := setupAuthenticatedContext(customerID, "guest@example.com")
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/stays", nil)

	handler.ListStays(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var stays []models.StayView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stays))
	require.Len(t, stays, 2)

	assert.Equal(t, models.DisplayCompleted, stays[0].Status)
	assert.Equal(t, 3, stays[0].Nights)
	assert.Equal(t, "Grand Hotel Riviera", stays[0].Hotel.Name)
	assert.Equal(t, "Riviera Hospitality Group", stays[0].Hotel.Company)
	assert.Equal(t, models.DisplayUpcoming, stays[1].Status)
	assert.Equal(t, 2, stays[1].Nights)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListStays_Empty(t *testing.T) {
	db, mock := setupTestDB(t)
	defer db.Close()

	customerID := uuid.New()

	mock.ExpectQuery("SELECT (.+) FROM stays s JOIN hotels h").
		WithArgs(customerID).
		WillReturnRows(sqlmock.NewRows(stayTestColumns()))

	handler := setupStayTestHandler(db)
	c, w := setupAuthenticatedContext(customerID, "guest@example.com")
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/stays", nil)

	handler.ListStays(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetCalendar_Success(t *testing.T) {
	db, mock := setupTestDB(t)
	defer db.Close()

	customerID := uuid.New()
	rows := sqlmock.NewRows(stayTestColumns())
	addStayRow(rows, customerID, models.StayStatusCheckedOut,
		time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 13, 0, 0, 0, 0, time.UTC))
	addStayRow(rows, customerID, models.StayStatusCanceled,
		time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 2, 2, 0, 0, 0, 0, time.UTC))

	mock.ExpectQuery("SELECT (.+) FROM stays s JOIN hotels h").
		WithArgs(customerID).
		WillReturnRows(rows)

	handler := setupStayTestHandler(db)
	c, w := setupAuthenticatedContext(customerID, "guest@example.com")
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/stays/calendar", nil)

	handler.GetCalendar(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Calendar models.CalendarView `json:"calendar"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	assert.Equal(t, []string{"2024-01-10", "2024-01-11", "2024-01-12"}, response.Calendar.CompletedNights)
	assert.Equal(t, []string{"2024-02-01"}, response.Calendar.CancelledNights)
	assert.Empty(t, response.Calendar.UpcomingNights)
	assert.Equal(t, 4, response.Calendar.TotalNights)
	assert.Equal(t, 1, response.Calendar.CompletedStays)
	assert.Equal(t, 1, response.Calendar.CancelledStays)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetCalendar_WithDate(t *testing.T) {
	db, mock := setupTestDB(t)
	defer db.Close()

	customerID := uuid.New()
	rows := sqlmock.NewRows(stayTestColumns())
	addStayRow(rows, customerID, models.StayStatusCheckedOut,
		time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 13, 0, 0, 0, 0, time.UTC))

	mock.ExpectQuery("SELECT (.+) FROM stays s JOIN hotels h").
		WithArgs(customerID).
		WillReturnRows(rows)

	handler := setupStayTestHandler(db)
	c, w := setupAuthenticatedContext(customerID, "guest@example.com")
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/stays/calendar?date=2024-01-12", nil)

	handler.GetCalendar(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Date        string            `json:"date"`
		StaysOnDate []models.StayView `json:"stays_on_date"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	assert.Equal(t, "2024-01-12", response.Date)
	require.Len(t, response.StaysOnDate, 1)
	assert.Equal(t, models.DisplayCompleted, response.StaysOnDate[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetCalendar_CheckoutDayExcluded(t *testing.T) {
	db, mock := setupTestDB(t)
	defer db.Close()

	customerID := uuid.New()
	rows := sqlmock.NewRows(stayTestColumns())
	addStayRow(rows, customerID, models.StayStatusCheckedOut,
		time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 13, 0, 0, 0, 0, time.UTC))

	mock.ExpectQuery("SELECT (.+) FROM stays s JOIN hotels h").
		WithArgs(customerID).
		WillReturnRows(rows)

	handler := setupStayTestHandler(db)
	c, w := setupAuthenticatedContext(customerID, "guest@example.com")
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/stays/calendar?date=2024-01-13", nil)

	handler.GetCalendar(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		StaysOnDate []models.StayView `json:"stays_on_date"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Empty(t, response.StaysOnDate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetCalendar_InvalidDate(t *testing.T) {
	db, mock := setupTestDB(t)
	defer db.Close()

	customerID := uuid.New()

	mock.ExpectQuery("SELECT (.+) FROM stays s JOIN hotels h").
		WithArgs(customerID).
		WillReturnRows(sqlmock.NewRows(stayTestColumns()))

	handler := setupStayTestHandler(db)
	c, w := setupAuthenticatedContext(customerID, "guest@example.com")
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/stays/calendar?date=12-01-2024", nil)

	handler.GetCalendar(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
