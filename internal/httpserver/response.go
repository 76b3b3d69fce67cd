package httpserver

import (
	"errors"
	"net/http"

	"github.com/arjun2k01/esports-cart/internal/domain"
	"github.com/gin-gonic/gin"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// respondError decodes the domain error taxonomy into a stable HTTP
// status plus machine-readable code. Unknown errors fall back to the
// given status with their message when it is a 4xx, or a generic 500
// body otherwise; internals never leak to callers.
func respondError(c *gin.Context, err error, fallback int) {
	var invalid *domain.InvalidCartError
	var notFound *domain.ProductNotFoundError
	var short *domain.InsufficientStockError

	switch {
	case errors.As(err, &invalid):
		c.JSON(http.StatusBadRequest, errorResponse{Code: "INVALID_CART", Message: err.Error()})
	case errors.As(err, &notFound):
		c.JSON(http.StatusBadRequest, errorResponse{Code: "PRODUCT_NOT_FOUND", Message: err.Error()})
	case errors.As(err, &short):
		c.JSON(http.StatusBadRequest, errorResponse{Code: "INSUFFICIENT_STOCK", Message: err.Error()})
	case errors.Is(err, domain.ErrStockChanged):
		c.JSON(http.StatusConflict, errorResponse{Code: "STOCK_CHANGED", Message: err.Error()})
	case errors.Is(err, domain.ErrOrderCancelled):
		c.JSON(http.StatusBadRequest, errorResponse{Code: "ORDER_CANCELLED", Message: err.Error()})
	case errors.Is(err, domain.ErrAlreadyCancelled):
		c.JSON(http.StatusBadRequest, errorResponse{Code: "ALREADY_CANCELLED", Message: err.Error()})
	case errors.Is(err, domain.ErrOrderShipped):
		c.JSON(http.StatusBadRequest, errorResponse{Code: "ORDER_SHIPPED", Message: err.Error()})
	case errors.Is(err, domain.ErrPaymentRequired):
		c.JSON(http.StatusBadRequest, errorResponse{Code: "PAYMENT_REQUIRED", Message: err.Error()})
	case errors.Is(err, domain.ErrNotShipped):
		c.JSON(http.StatusBadRequest, errorResponse{Code: "NOT_SHIPPED", Message: err.Error()})
	case errors.Is(err, domain.ErrForbidden):
		c.JSON(http.StatusForbidden, errorResponse{Code: "FORBIDDEN", Message: "not authorized"})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, errorResponse{Code: "NOT_FOUND", Message: "not found"})
	case errors.Is(err, domain.ErrAlreadyExists):
		c.JSON(http.StatusConflict, errorResponse{Code: "ALREADY_EXISTS", Message: "already exists"})
	case fallback >= 400 && fallback < 500:
		c.JSON(fallback, errorResponse{Code: "BAD_REQUEST", Message: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, errorResponse{Code: "INTERNAL", Message: "server error"})
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, errorResponse{Code: "BAD_REQUEST", Message: msg})
}
