package services

import (
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stayclub/loyalty-backend/internal/config"
	"github.com/stayclub/loyalty-backend/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRateLimitService(t *testing.T) (*RateLimitService, sqlmock.Sqlmock, func()) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	db := &database.PostgresDB{DB: sqlx.NewDb(mockDB, "sqlmock")}
	service := NewRateLimitService(db, config.RateLimitConfig{
		MaxEmailAttempts: 5,
		EmailWindowMins:  10,
		MaxIPAttempts:    20,
		IPWindowMins:     60,
	})
	return service, mock, func() { db.Close() }
}

func TestCheckLoginRateLimit(t *testing.T) {
	t.Run("Allowed", func(t *testing.T) {
		service, mock, cleanup := newRateLimitService(t)
		defer cleanup()

		mock.ExpectQuery("SELECT COUNT(.+) FROM login_rate_limits").
			WithArgs("maria@example.com", "email", sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"count", "last_request"}).AddRow(2, time.Now()))
		mock.ExpectQuery("SELECT COUNT(.+) FROM login_rate_limits").
			WithArgs("203.0.113.9", "ip", sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"count", "last_request"}).AddRow(7, time.Now()))

		err := service.CheckLoginRateLimit("maria@example.com", "203.0.113.9")

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Email Limit Exceeded", func(t *testing.T) {
		service, mock, cleanup := newRateLimitService(t)
		defer cleanup()

		lastRequest := time.Now().Add(-time.Minute)
		mock.ExpectQuery("SELECT COUNT(.+) FROM login_rate_limits").
			WithArgs("maria@example.com", "email", sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"count", "last_request"}).AddRow(5, lastRequest))

		err := service.CheckLoginRateLimit("maria@example.com", "203.0.113.9")

		var rateLimitErr *RateLimitError
		require.Error(t, err)
		require.True(t, errors.As(err, &rateLimitErr))
		assert.Equal(t, "email", rateLimitErr.Type)
		assert.WithinDuration(t, lastRequest.Add(10*time.Minute), rateLimitErr.RetryAfter, time.Second)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("IP Limit Exceeded", func(t *testing.T) {
		service, mock, cleanup := newRateLimitService(t)
		defer cleanup()

		mock.ExpectQuery("SELECT COUNT(.+) FROM login_rate_limits").
			WithArgs("maria@example.com", "email", sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"count", "last_request"}).AddRow(0, time.Now()))
		mock.ExpectQuery("SELECT COUNT(.+) FROM login_rate_limits").
			WithArgs("203.0.113.9", "ip", sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"count", "last_request"}).AddRow(20, time.Now()))

		err := service.CheckLoginRateLimit("maria@example.com", "203.0.113.9")

		var rateLimitErr *RateLimitError
		require.Error(t, err)
		require.True(t, errors.As(err, &rateLimitErr))
		assert.Equal(t, "ip", rateLimitErr.Type)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Empty Identifiers Skip Checks", func(t *testing.T) {
		service, mock, cleanup := newRateLimitService(t)
		defer cleanup()

		err := service.CheckLoginRateLimit("", "")

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRecordLoginAttempt(t *testing.T) {
	service, mock, cleanup := newRateLimitService(t)
	defer cleanup()

	mock.ExpectExec("INSERT INTO login_rate_limits").
		WithArgs("maria@example.com", "email").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO login_rate_limits").
		WithArgs("203.0.113.9", "ip").
		WillReturnResult(sqlmock.NewResult(2, 1))

	err := service.RecordLoginAttempt("maria@example.com", "203.0.113.9")

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCleanupExpiredRateLimits(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		service, mock, cleanup := newRateLimitService(t)
		defer cleanup()

		mock.ExpectExec("DELETE FROM login_rate_limits").
			WithArgs(sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 42))

		removed, err := service.CleanupExpiredRateLimits()

		require.NoError(t, err)
		assert.Equal(t, int64(42), removed)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Database Error", func(t *testing.T) {
		service, mock, cleanup := newRateLimitService(t)
		defer cleanup()

		mock.ExpectExec("DELETE FROM login_rate_limits").
			WillReturnError(errors.New("connection reset"))

		_, err := service.CleanupExpiredRateLimits()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to cleanup rate limits")
	})
}
