package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Mikelesnr/alx-travel-app-0x02/internal/domain"
	"github.com/Mikelesnr/alx-travel-app-0x02/internal/gateway"
	"github.com/Mikelesnr/alx-travel-app-0x02/internal/repository"
	"github.com/Mikelesnr/alx-travel-app-0x02/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps service/repository/gateway errors to HTTP
// status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrMissingBookingReference),
		errors.Is(err, service.ErrMissingAmount),
		errors.Is(err, service.ErrMissingEmail),
		errors.Is(err, service.ErrMissingTransactionRef),
		errors.Is(err, domain.ErrInvalidAmount):
		return http.StatusBadRequest

	// Gateway-reported failures surface as Bad Request: the caller can
	// retry with a corrected request or a fresh transaction.
	case gateway.IsKind(err, gateway.KindRejected),
		gateway.IsKind(err, gateway.KindMalformedResponse),
		gateway.IsKind(err, gateway.KindVerificationFailed):
		return http.StatusBadRequest

	// Conflict errors
	case errors.Is(err, repository.ErrDuplicateTransaction),
		errors.Is(err, service.ErrVerificationInProgress):
		return http.StatusConflict

	// Transport failures and everything unexpected
	default:
		return http.StatusInternalServerError
	}
}
