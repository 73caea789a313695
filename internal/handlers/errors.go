package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stayclub/loyalty-backend/internal/services"
)

// respondError maps a service error onto the user-facing response. Validation
// problems are client errors, unknown records are 404s, everything else is a
// retryable server error.
func respondError(c *gin.Context, err error) {
	var validationErr *services.ValidationError
	if errors.As(err, &validationErr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Message})
		return
	}

	var notFoundErr *services.NotFoundError
	if errors.As(err, &notFoundErr) {
		c.JSON(http.StatusNotFound, gin.H{"error": notFoundErr.Error()})
		return
	}

	var storageErr *services.StorageError
	if errors.As(err, &storageErr) {
		c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error. Please try again later."})
		return
	}

	c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error. Please try again later."})
}
