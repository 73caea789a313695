package services

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/stayclub/loyalty-backend/internal/config"
	"github.com/stayclub/loyalty-backend/internal/database"
)

// RateLimitService throttles login attempts. The login flow is passwordless
// (email lookup only), so per-email and per-IP windows are what stands between
// the endpoint and account enumeration.
type RateLimitService struct {
	db  database.DB
	cfg config.RateLimitConfig
}

// NewRateLimitService creates a new rate limit service
func NewRateLimitService(db database.DB, cfg config.RateLimitConfig) *RateLimitService {
	return &RateLimitService{
		db:  db,
		cfg: cfg,
	}
}

// RateLimitError represents a rate limit exceeded error
type RateLimitError struct {
	Message    string
	RetryAfter time.Time
	Type       string // "email" or "ip"
}

func (e *RateLimitError) Error() string {
	return e.Message
}

// CheckLoginRateLimit checks whether an email or IP has exceeded its window.
func (s *RateLimitService) CheckLoginRateLimit(email, ip string) error {
	if email != "" {
		window := time.Duration(s.cfg.EmailWindowMins) * time.Minute
		count, lastRequest, err := s.getRequestCount(email, "email", window)
		if err != nil {
			return fmt.Errorf("failed to check email rate limit: %w", err)
		}

		if count >= s.cfg.MaxEmailAttempts {
			retryAfter := lastRequest.Add(window)
			return &RateLimitError{
				Message:    fmt.Sprintf("Too many login attempts for this email. Please try again after %s", retryAfter.Format("15:04:05")),
				RetryAfter: retryAfter,
				Type:       "email",
			}
		}
	}

	if ip != "" {
		window := time.Duration(s.cfg.IPWindowMins) * time.Minute
		count, lastRequest, err := s.getRequestCount(ip, "ip", window)
		if err != nil {
			return fmt.Errorf("failed to check IP rate limit: %w", err)
		}

		if count >= s.cfg.MaxIPAttempts {
			retryAfter := lastRequest.Add(window)
			return &RateLimitError{
				Message:    fmt.Sprintf("Too many login attempts from this address. Please try again after %s", retryAfter.Format("15:04:05")),
				RetryAfter: retryAfter,
				Type:       "ip",
			}
		}
	}

	return nil
}

// getRequestCount gets the number of attempts within the time window
func (s *RateLimitService) getRequestCount(identifier, identifierType string, window time.Duration) (int, time.Time, error) {
	windowStart := time.Now().Add(-window)

	query := `
		SELECT COUNT(*), COALESCE(MAX(created_at), NOW())
		FROM login_rate_limits
		WHERE identifier = $1
		  AND identifier_type = $2
		  AND created_at > $3
	`

	var count int
	var lastRequest time.Time

	err := s.db.QueryRow(query, identifier, identifierType, windowStart).Scan(&count, &lastRequest)
	if err != nil && err != sql.ErrNoRows {
		return 0, time.Time{}, err
	}

	return count, lastRequest, nil
}

// RecordLoginAttempt records a login attempt for rate limiting
func (s *RateLimitService) RecordLoginAttempt(email, ip string) error {
	if email != "" {
		if err := s.recordRequest(email, "email"); err != nil {
			return fmt.Errorf("failed to record email attempt: %w", err)
		}
	}

	if ip != "" {
		if err := s.recordRequest(ip, "ip"); err != nil {
			return fmt.Errorf("failed to record IP attempt: %w", err)
		}
	}

	return nil
}

// recordRequest inserts a rate limit record
func (s *RateLimitService) recordRequest(identifier, identifierType string) error {
	query := `
		INSERT INTO login_rate_limits (identifier, identifier_type, created_at)
		VALUES ($1, $2, NOW())
	`

	_, err := s.db.Exec(query, identifier, identifierType)
	return err
}

// CleanupExpiredRateLimits removes attempt records older than the longest window.
func (s *RateLimitService) CleanupExpiredRateLimits() (int64, error) {
	maxWindow := time.Duration(s.cfg.IPWindowMins) * time.Minute
	if emailWindow := time.Duration(s.cfg.EmailWindowMins) * time.Minute; emailWindow > maxWindow {
		maxWindow = emailWindow
	}

	cutoffTime := time.Now().Add(-maxWindow)

	query := `
		DELETE FROM login_rate_limits
		WHERE created_at < $1
	`

	result, err := s.db.Exec(query, cutoffTime)
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup rate limits: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}
