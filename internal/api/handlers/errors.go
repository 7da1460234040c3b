package handlers

import (
	"errors"
	"log"
	"net/http"

	"mycraft-api/internal/services"

	"github.com/gin-gonic/gin"
)

// respondServiceError translates service sentinel errors into HTTP responses.
// Anything unmapped becomes a 500 without leaking internals.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not allowed to perform this action"})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
	case errors.Is(err, services.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrCancellationWindow):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Bookings can only be cancelled up to 7 days before the scheduled date"})
	case errors.Is(err, services.ErrInvalidState), errors.Is(err, services.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": "Operation not allowed in the current state"})
	case errors.Is(err, services.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		log.Printf("Unhandled service error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
