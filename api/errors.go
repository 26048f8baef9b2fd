package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/skyreserve/skyreserve/internal/domain"
)

// respondError maps the domain error taxonomy onto HTTP statuses. The
// message is the error text itself; no error crashes the process.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrUserExists),
		errors.Is(err, domain.ErrFlightNumberExists),
		errors.Is(err, domain.ErrCapacityExceeded),
		errors.Is(err, domain.ErrAlreadyCancelled),
		errors.Is(err, domain.ErrAlreadyVerified),
		errors.Is(err, domain.ErrNoPendingCode),
		errors.Is(err, domain.ErrCodeExpired),
		errors.Is(err, domain.ErrInvalidCode),
		errors.Is(err, domain.ErrUnknownAccount),
		errors.Is(err, domain.ErrInvalidCredentials):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrEmailNotVerified),
		errors.Is(err, domain.ErrAccessDenied):
		status = http.StatusForbidden
	case errors.Is(err, domain.ErrFlightNotFound),
		errors.Is(err, domain.ErrBookingNotFound),
		errors.Is(err, domain.ErrUserNotFound):
		status = http.StatusNotFound
	}
	c.JSON(status, gin.H{"message": err.Error()})
}
