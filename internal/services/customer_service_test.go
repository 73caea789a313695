package services

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stayclub/loyalty-backend/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestService wires a customer service onto a mock database
func newTestService(t *testing.T) (*CustomerService, sqlmock.Sqlmock, func()) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	db := &database.PostgresDB{DB: sqlx.NewDb(mockDB, "sqlmock")}
	service := NewCustomerService(
		database.NewCustomerRepository(db),
		database.NewLoyaltyTierRepository(db),
		NewConsentService(database.NewConsentRepository(db)),
	)
	return service, mock, func() { db.Close() }
}

func customerTestColumns() []string {
	return []string{
		"id", "pms_customer_id", "email", "first_name", "last_name", "phone",
		"address", "city", "postal_code", "country", "fiscal_code", "language",
		"loyalty_tier_id", "preferences", "created_at", "updated_at",
	}
}

func customerRow(id uuid.UUID, email string, tierID, preferences driver.Value) []driver.Value {
	now := time.Now().UTC()
	return []driver.Value{
		id, "PMS-42", email, "Maria", "Rossi", "+39 055 1234567",
		"Via Roma 1", "Florence", "50100", "IT", nil, "it",
		tierID, preferences, now, now,
	}
}

func TestGetProfileByEmail(t *testing.T) {
	t.Run("Success With Tier And Consents", func(t *testing.T) {
		service, mock, cleanup := newTestService(t)
		defer cleanup()

		customerID := uuid.New()
		tierID := uuid.New()
		now := time.Now().UTC()

		mock.ExpectQuery("SELECT (.+) FROM customers WHERE LOWER\\(email\\)").
			WithArgs("maria@example.com").
			WillReturnRows(sqlmock.NewRows(customerTestColumns()).
				AddRow(customerRow(customerID, "maria@example.com", tierID, `{"room_type":"suite","late_checkout":true}`)...))

		mock.ExpectQuery("SELECT (.+) FROM loyalty_tiers WHERE id").
			WithArgs(tierID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "code", "min_stays", "description", "benefits", "created_at"}).
				AddRow(tierID, "Gold", "gold", 10, "Top tier", `{"discount_percent":15}`, now))

		mock.ExpectQuery("SELECT (.+) FROM stays WHERE customer_id").
			WithArgs(customerID, "checked_out").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))

		mock.ExpectQuery("SELECT (.+) FROM customer_consents WHERE customer_id").
			WithArgs(customerID).
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "customer_id", "newsletter_optin", "marketing_optin", "profiling_optin",
				"source", "ip_address", "user_agent", "created_at", "updated_at",
			}).AddRow(uuid.New(), customerID, true, false, true, "dashboard", "", "", now, now))

		profile, err := service.GetProfileByEmail("maria@example.com")

		require.NoError(t, err)
		assert.Equal(t, customerID, profile.ID)
		require.NotNil(t, profile.LoyaltyTier)
		assert.Equal(t, "Gold", profile.LoyaltyTier.Name)
		require.NotNil(t, profile.Preferences)
		assert.Equal(t, "suite", profile.Preferences.RoomType)
		assert.True(t, profile.Preferences.LateCheckout)
		assert.Equal(t, 12, profile.TotalStays)
		assert.Equal(t, 0, profile.PendingPolicies)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("No Consent Record Sets Pending Flag", func(t *testing.T) {
		service, mock, cleanup := newTestService(t)
		defer cleanup()

		customerID := uuid.New()

		mock.ExpectQuery("SELECT (.+) FROM customers WHERE LOWER\\(email\\)").
			WithArgs("maria@example.com").
			WillReturnRows(sqlmock.NewRows(customerTestColumns()).
				AddRow(customerRow(customerID, "maria@example.com", nil, nil)...))

		mock.ExpectQuery("SELECT (.+) FROM stays WHERE customer_id").
			WithArgs(customerID, "checked_out").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		mock.ExpectQuery("SELECT (.+) FROM customer_consents WHERE customer_id").
			WithArgs(customerID).
			WillReturnError(sql.ErrNoRows)

		profile, err := service.GetProfileByEmail("maria@example.com")

		require.NoError(t, err)
		assert.Nil(t, profile.LoyaltyTier)
		assert.Equal(t, 0, profile.TotalStays)
		assert.Equal(t, 1, profile.PendingPolicies)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Dangling Tier Reference Reads As No Tier", func(t *testing.T) {
		service, mock, cleanup := newTestService(t)
		defer cleanup()

		customerID := uuid.New()
		tierID := uuid.New()

		mock.ExpectQuery("SELECT (.+) FROM customers WHERE LOWER\\(email\\)").
			WithArgs("maria@example.com").
			WillReturnRows(sqlmock.NewRows(customerTestColumns()).
				AddRow(customerRow(customerID, "maria@example.com", tierID, nil)...))

		mock.ExpectQuery("SELECT (.+) FROM loyalty_tiers WHERE id").
			WithArgs(tierID).
			WillReturnError(sql.ErrNoRows)

		mock.ExpectQuery("SELECT (.+) FROM stays WHERE customer_id").
			WithArgs(customerID, "checked_out").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

		mock.ExpectQuery("SELECT (.+) FROM customer_consents WHERE customer_id").
			WithArgs(customerID).
			WillReturnError(sql.ErrNoRows)

		profile, err := service.GetProfileByEmail("maria@example.com")

		require.NoError(t, err)
		assert.Nil(t, profile.LoyaltyTier)
		assert.Equal(t, 3, profile.TotalStays)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Malformed Preferences", func(t *testing.T) {
		service, mock, cleanup := newTestService(t)
		defer cleanup()

		customerID := uuid.New()

		mock.ExpectQuery("SELECT (.+) FROM customers WHERE LOWER\\(email\\)").
			WithArgs("maria@example.com").
			WillReturnRows(sqlmock.NewRows(customerTestColumns()).
				AddRow(customerRow(customerID, "maria@example.com", nil, "{not json")...))

		_, err := service.GetProfileByEmail("maria@example.com")

		var validationErr *ValidationError
		require.Error(t, err)
		assert.True(t, errors.As(err, &validationErr))
	})

	t.Run("Customer Not Found", func(t *testing.T) {
		service, mock, cleanup := newTestService(t)
		defer cleanup()

		mock.ExpectQuery("SELECT (.+) FROM customers WHERE LOWER\\(email\\)").
			WithArgs("nobody@example.com").
			WillReturnError(sql.ErrNoRows)

		_, err := service.GetProfileByEmail("nobody@example.com")

		var notFoundErr *NotFoundError
		require.Error(t, err)
		assert.True(t, errors.As(err, &notFoundErr))
	})

	t.Run("Empty Email", func(t *testing.T) {
		service, _, cleanup := newTestService(t)
		defer cleanup()

		_, err := service.GetProfileByEmail("   ")

		var validationErr *ValidationError
		require.Error(t, err)
		assert.True(t, errors.As(err, &validationErr))
	})
}

func TestGetProfileByID(t *testing.T) {
	t.Run("Nil ID", func(t *testing.T) {
		service, _, cleanup := newTestService(t)
		defer cleanup()

		_, err := service.GetProfileByID(uuid.Nil)

		var validationErr *ValidationError
		require.Error(t, err)
		assert.True(t, errors.As(err, &validationErr))
	})

	t.Run("Database Error Wrapped As StorageError", func(t *testing.T) {
		service, mock, cleanup := newTestService(t)
		defer cleanup()

		customerID := uuid.New()

		mock.ExpectQuery("SELECT (.+) FROM customers WHERE id").
			WithArgs(customerID).
			WillReturnError(sql.ErrConnDone)

		_, err := service.GetProfileByID(customerID)

		var storageErr *StorageError
		require.Error(t, err)
		assert.True(t, errors.As(err, &storageErr))
	})
}
