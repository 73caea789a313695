package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stayclub/loyalty-backend/internal/database"
	"github.com/stayclub/loyalty-backend/internal/middleware"
	"github.com/stayclub/loyalty-backend/internal/services"
)

// CustomerHandler serves the aggregate customer view and the tier ladder
type CustomerHandler struct {
	customerService *services.CustomerService
	tierRepo        *database.LoyaltyTierRepository
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(customerService *services.CustomerService, tierRepo *database.LoyaltyTierRepository) *CustomerHandler {
	return &CustomerHandler{
		customerService: customerService,
		tierRepo:        tierRepo,
	}
}

// GetProfile returns the authenticated customer's aggregate view: profile,
// loyalty tier, total checked-out stays, pending policy flag.
// GET /api/v1/customers/me
func (h *CustomerHandler) GetProfile(c *gin.Context) {
	customerCtx, exists := middleware.GetCustomerContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	profile, err := h.customerService.GetProfileByID(customerCtx.CustomerID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// ListLoyaltyTiers returns the full tier ladder for the dashboard.
// GET /api/v1/loyalty-tiers
func (h *CustomerHandler) ListLoyaltyTiers(c *gin.Context) {
	tiers, err := h.tierRepo.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch loyalty tiers"})
		return
	}

	c.JSON(http.StatusOK, tiers)
}
