package handlers

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stayclub/loyalty-backend/internal/database"
)

// HotelHandler serves the group's hotel directory
type HotelHandler struct {
	hotelRepo *database.HotelRepository
}

// NewHotelHandler creates a new hotel handler
func NewHotelHandler(hotelRepo *database.HotelRepository) *HotelHandler {
	return &HotelHandler{
		hotelRepo: hotelRepo,
	}
}

// ListHotels returns every hotel in the group, or one company's hotels when
// the ?company= query parameter is given.
// GET /api/v1/hotels
func (h *HotelHandler) ListHotels(c *gin.Context) {
	if companyParam := c.Query("company"); companyParam != "" {
		companyID, err := uuid.Parse(companyParam)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid company ID"})
			return
		}

		hotels, err := h.hotelRepo.ListByCompany(companyID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch hotels"})
			return
		}

		c.JSON(http.StatusOK, hotels)
		return
	}

	hotels, err := h.hotelRepo.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch hotels"})
		return
	}

	c.JSON(http.StatusOK, hotels)
}

// GetHotel returns one hotel with its owning company name.
// GET /api/v1/hotels/:id
func (h *HotelHandler) GetHotel(c *gin.Context) {
	hotelID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid hotel ID"})
		return
	}

	hotel, err := h.hotelRepo.GetByID(hotelID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Hotel not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch hotel"})
		return
	}

	c.JSON(http.StatusOK, hotel)
}
