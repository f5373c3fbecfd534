package handlers

import (
	"errors"
	"net/http"

	"github.com/finlytics/ledger-core/internal/apperrors"
	"github.com/gin-gonic/gin"
)

// respondError maps application errors onto HTTP status codes. Validation
// class failures are the caller's problem; store unavailability is retryable
// and says so.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "resource not found"})
	case errors.Is(err, apperrors.ErrUnknownAccount),
		errors.Is(err, apperrors.ErrUnknownEventType),
		errors.Is(err, apperrors.ErrMalformedPayload),
		errors.Is(err, apperrors.ErrUnbalancedTransaction),
		errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrStoreUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "store unavailable, retry later"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
