package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stayclub/loyalty-backend/internal/middleware"
	"github.com/stayclub/loyalty-backend/internal/services"
)

// StayHandler serves stay history and the calendar view
type StayHandler struct {
	stayService *services.StayService
}

// NewStayHandler creates a new stay handler
func NewStayHandler(stayService *services.StayService) *StayHandler {
	return &StayHandler{
		stayService: stayService,
	}
}

// ListStays returns the authenticated customer's stays, most recent arrival
// first, each augmented with nights and display status.
// GET /api/v1/stays
func (h *StayHandler) ListStays(c *gin.Context) {
	customerCtx, exists := middleware.GetCustomerContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	stays, err := h.stayService.ListForCustomer(customerCtx.CustomerID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stays)
}

// GetCalendar returns the per-night calendar markers grouped by display
// status plus aggregate stats. With ?date=YYYY-MM-DD it additionally returns
// the stays covering that date (half-open interval, checkout day excluded).
// GET /api/v1/stays/calendar
func (h *StayHandler) GetCalendar(c *gin.Context) {
	customerCtx, exists := middleware.GetCustomerContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	calendar, stays, err := h.stayService.CalendarForCustomer(customerCtx.CustomerID)
	if err != nil {
		respondError(c, err)
		return
	}

	response := gin.H{
		"calendar": calendar,
	}

	if dateParam := c.Query("date"); dateParam != "" {
		date, err := time.Parse("2006-01-02", dateParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
			return
		}
		response["date"] = dateParam
		response["stays_on_date"] = services.StaysOnDate(stays, date)
	}

	c.JSON(http.StatusOK, response)
}
