package httpserver

import (
	"errors"
	"net/http"

	"vendormarket/internal/domain"
	authsvc "vendormarket/internal/service/auth"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError maps the error taxonomy onto HTTP status codes and a
// structured body of the form {"error": kind, "message": reason}. Every
// taxonomy error is recovered here; nothing is fatal to the process.
func respondError(c *gin.Context, err error) {
	logger := loggerFrom(c)
	var validation *domain.ValidationError
	var insufficient *domain.InsufficientStockError
	var rollback *domain.ReservationRollbackError

	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "message": validation.Reason})
	case errors.Is(err, domain.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty_cart", "message": "cart has no items"})
	case errors.As(err, &insufficient):
		c.JSON(http.StatusConflict, gin.H{
			"error":     "insufficient_stock",
			"message":   insufficient.Error(),
			"productId": insufficient.ProductID,
		})
	case errors.Is(err, domain.ErrAlreadyCancelled):
		c.JSON(http.StatusConflict, gin.H{"error": "already_cancelled", "message": "order is already cancelled"})
	case errors.Is(err, domain.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": "invalid_transition", "message": "status transition not allowed"})
	case errors.Is(err, domain.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden", "message": "not allowed"})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "message": "resource not found"})
	case errors.Is(err, domain.ErrAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": "already_exists", "message": "resource already exists"})
	case errors.Is(err, authsvc.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "message": "invalid credentials"})
	case errors.As(err, &rollback):
		// Stock is understated until an operator reconciles it. Loud log,
		// explicit error kind.
		if logger != nil {
			logger.Error("reservation rollback failed", zap.String("product_id", rollback.ProductID), zap.Error(err))
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "reservation_rollback_failed",
			"message":   rollback.Error(),
			"productId": rollback.ProductID,
		})
	default:
		if logger != nil {
			logger.Error("internal error", zap.Error(err))
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "message": "internal error"})
	}
}
