package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"tailor_shop/internal/ledger"
	"tailor_shop/internal/lifecycle"
	"tailor_shop/internal/repository"
	"tailor_shop/internal/services"
)

func respondOK(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

// respondDomainError maps the error taxonomy onto HTTP codes. Validation
// errors carry the full per-field list so the UI can show them together.
func respondDomainError(c *gin.Context, err error) {
	var verr *ledger.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": verr.Error(),
				"fields":  verr.Fields,
			},
		})
	case errors.Is(err, lifecycle.ErrForbidden):
		respondError(c, http.StatusForbidden, "FORBIDDEN", err.Error())
	case errors.Is(err, lifecycle.ErrIllegalTransition):
		respondError(c, http.StatusConflict, "ILLEGAL_TRANSITION", err.Error())
	case errors.Is(err, services.ErrOutstandingBalance):
		respondError(c, http.StatusConflict, "OUTSTANDING_BALANCE", err.Error())
	case errors.Is(err, services.ErrOrderDelivered):
		respondError(c, http.StatusConflict, "ORDER_DELIVERED", err.Error())
	case errors.Is(err, repository.ErrConflict):
		respondError(c, http.StatusConflict, "CONFLICT", "Order changed concurrently, please retry")
	case errors.Is(err, repository.ErrNotFound):
		respondError(c, http.StatusNotFound, "NOT_FOUND", "Record not found")
	default:
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Unexpected error")
	}
}
