package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stayclub/loyalty-backend/internal/models"
	"github.com/stayclub/loyalty-backend/internal/services"
	"github.com/stayclub/loyalty-backend/internal/utils"
	"github.com/stayclub/loyalty-backend/pkg/jwt"
	"github.com/stayclub/loyalty-backend/pkg/validator"
)

// AuthHandler handles the email-based login flow
type AuthHandler struct {
	jwtService       *jwt.Service
	emailValidator   *validator.EmailValidator
	customerService  *services.CustomerService
	rateLimitService *services.RateLimitService
	auditService     *services.AuditService
	logger           *logrus.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(
	jwtService *jwt.Service,
	emailValidator *validator.EmailValidator,
	customerService *services.CustomerService,
	rateLimitService *services.RateLimitService,
	auditService *services.AuditService,
	logger *logrus.Logger,
) *AuthHandler {
	return &AuthHandler{
		jwtService:       jwtService,
		emailValidator:   emailValidator,
		customerService:  customerService,
		rateLimitService: rateLimitService,
		auditService:     auditService,
		logger:           logger,
	}
}

// Login resolves a loyalty member by email and issues session tokens together
// with the aggregate customer view.
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Email is required"})
		return
	}

	email, err := h.emailValidator.Validate(req.Email)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please enter a valid email address"})
		return
	}

	clientIP := utils.GetRealIP(c)
	userAgent := utils.GetUserAgent(c)

	// Throttle before touching the customer table; the login flow has no
	// password, so the rate limit is what blocks account enumeration.
	if err := h.rateLimitService.CheckLoginRateLimit(email, clientIP); err != nil {
		var rateLimitErr *services.RateLimitError
		if errors.As(err, &rateLimitErr) {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       rateLimitErr.Message,
				"retry_after": rateLimitErr.RetryAfter,
			})
			return
		}
		h.logger.WithError(err).Error("Failed to check login rate limit")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error. Please try again later."})
		return
	}

	if err := h.rateLimitService.RecordLoginAttempt(email, clientIP); err != nil {
		h.logger.WithError(err).Warn("Failed to record login attempt")
	}

	profile, err := h.customerService.GetProfileByEmail(email)
	if err != nil {
		var notFoundErr *services.NotFoundError
		if errors.As(err, &notFoundErr) {
			if auditErr := h.auditService.LogLogin(nil, email, clientIP, userAgent, false, "unknown email"); auditErr != nil {
				h.logger.WithError(auditErr).Warn("Failed to write login audit log")
			}
			c.JSON(http.StatusNotFound, gin.H{
				"error": "No account found with this email address. Please check your email or contact support.",
			})
			return
		}
		respondError(c, err)
		return
	}

	accessToken, err := h.jwtService.GenerateAccessToken(profile.ID, profile.Email)
	if err != nil {
		h.logger.WithError(err).Error("Failed to generate access token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error. Please try again later."})
		return
	}

	refreshToken, err := h.jwtService.GenerateRefreshToken(profile.ID, profile.Email)
	if err != nil {
		h.logger.WithError(err).Error("Failed to generate refresh token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error. Please try again later."})
		return
	}

	if auditErr := h.auditService.LogLogin(&profile.ID, email, clientIP, userAgent, true, ""); auditErr != nil {
		h.logger.WithError(auditErr).Warn("Failed to write login audit log")
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"message":       "Login successful",
		"customer":      profile,
		"access_token":  accessToken,
		"refresh_token": refreshToken,
	})
}

// RefreshToken exchanges a valid refresh token for a new access token.
// POST /api/v1/auth/refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Refresh token is required"})
		return
	}

	claims, err := h.jwtService.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired refresh token"})
		return
	}

	accessToken, err := h.jwtService.GenerateAccessToken(claims.CustomerID, claims.Email)
	if err != nil {
		h.logger.WithError(err).Error("Failed to generate access token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error. Please try again later."})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": accessToken,
	})
}
