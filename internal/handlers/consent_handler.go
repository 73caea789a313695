package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stayclub/loyalty-backend/internal/middleware"
	"github.com/stayclub/loyalty-backend/internal/models"
	"github.com/stayclub/loyalty-backend/internal/services"
	"github.com/stayclub/loyalty-backend/internal/utils"
)

// ConsentHandler serves the privacy-consent screen
type ConsentHandler struct {
	consentService *services.ConsentService
	auditService   *services.AuditService
	logger         *logrus.Logger
}

// NewConsentHandler creates a new consent handler
func NewConsentHandler(consentService *services.ConsentService, auditService *services.AuditService, logger *logrus.Logger) *ConsentHandler {
	return &ConsentHandler{
		consentService: consentService,
		auditService:   auditService,
		logger:         logger,
	}
}

// GetConsents returns the authenticated customer's current tri-state consent
// triple with derived per-policy status. All three opt-ins read as null when
// the customer has never submitted consents.
// GET /api/v1/consents
func (h *ConsentHandler) GetConsents(c *gin.Context) {
	customerCtx, exists := middleware.GetCustomerContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	view, err := h.consentService.GetForCustomer(customerCtx.CustomerID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// SubmitConsents merges a partial consent submission against the customer's
// current record and persists the result atomically. Fields absent from the
// payload keep their previous value; an explicit null leaves a policy
// undecided.
// POST /api/v1/consents
func (h *ConsentHandler) SubmitConsents(c *gin.Context) {
	customerCtx, exists := middleware.GetCustomerContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var submission models.ConsentSubmission
	if err := c.ShouldBindJSON(&submission); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid consent payload"})
		return
	}

	// Provenance comes from the request, not the client payload
	submission.IPAddress = utils.GetRealIP(c)
	submission.UserAgent = utils.GetUserAgent(c)

	saved, err := h.consentService.Submit(customerCtx.CustomerID, submission)
	if err != nil {
		respondError(c, err)
		return
	}

	flags := map[string]interface{}{
		"newsletter_optin": saved.NewsletterOptin,
		"marketing_optin":  saved.MarketingOptin,
		"profiling_optin":  saved.ProfilingOptin,
	}
	if auditErr := h.auditService.LogConsentSubmission(customerCtx.CustomerID, &saved.ID, submission.IPAddress, submission.UserAgent, flags); auditErr != nil {
		h.logger.WithError(auditErr).Warn("Failed to write consent audit log")
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Consents saved successfully",
		"data":    saved,
	})
}
