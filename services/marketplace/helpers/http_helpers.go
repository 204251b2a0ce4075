package helpers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/sherdwhite/book-trader/internal/traderrors"
	"github.com/sherdwhite/book-trader/utils"
)

// HandleBindError sends a standardized JSON error for binding failures
func HandleBindError(c *gin.Context, handlerName string, err error) {
	wrappedErr := fmt.Errorf("invalid request payload: %w", err)
	utils.JSONError(c, http.StatusBadRequest, wrappedErr, "invalid request payload")
	utils.Warn(handlerName+": binding error", map[string]any{"error": err.Error()})
}

// ParseIDParam reads a numeric path parameter; a malformed value is a 400.
func ParseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		utils.JSONError(c, http.StatusBadRequest,
			fmt.Errorf("invalid %s %q", name, raw), "invalid identifier")
		return 0, false
	}
	return uint(id), true
}

// MapErrorToHTTP maps domain/service errors to HTTP status code and message
func MapErrorToHTTP(err error) (int, string) {
	switch {
	case errors.Is(err, traderrors.ErrNotFound):
		return http.StatusNotFound, "record not found"
	case errors.Is(err, traderrors.ErrDuplicateISBN):
		return http.StatusBadRequest, "a book with this ISBN already exists"
	case errors.Is(err, traderrors.ErrDuplicateRating):
		return http.StatusConflict, "user has already rated this book"
	case errors.Is(err, traderrors.ErrDuplicateUser):
		return http.StatusBadRequest, "username or email already taken"
	case errors.Is(err, traderrors.ErrValidation):
		return http.StatusBadRequest, "validation failed"
	case errors.Is(err, traderrors.ErrInvalidBid):
		return http.StatusBadRequest, "invalid bid details"
	case errors.Is(err, traderrors.ErrBidTooLow):
		return http.StatusConflict, "bid amount too low"
	case errors.Is(err, traderrors.ErrAlreadyWatching):
		return http.StatusConflict, "auction is already on the watch list"
	case errors.Is(err, traderrors.ErrDuplicateTradeItem):
		return http.StatusConflict, "this copy is already part of the trade"
	case errors.Is(err, traderrors.ErrTradeExpired):
		return http.StatusConflict, "trade offer has expired"
	case errors.Is(err, traderrors.ErrStateConflict):
		return http.StatusConflict, "operation conflicts with current state"
	case errors.Is(err, traderrors.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid username or password"
	case errors.Is(err, traderrors.ErrAccountInactive):
		return http.StatusForbidden, "account has not been verified"
	case errors.Is(err, traderrors.ErrEmailMissing):
		return http.StatusBadRequest, "no email address on file"
	case errors.Is(err, traderrors.ErrInvalidCode):
		return http.StatusBadRequest, "invalid verification code"
	case errors.Is(err, traderrors.ErrSessionExpired):
		return http.StatusUnauthorized, "session expired"
	case errors.Is(err, traderrors.ErrMailDelivery):
		return http.StatusBadGateway, "failed to send verification code"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// RespondError maps a service error and writes the JSON error body in one go.
func RespondError(c *gin.Context, handlerName string, err error) {
	status, message := MapErrorToHTTP(err)
	utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
	utils.Warn(handlerName+": request failed", map[string]any{
		"status": status,
		"error":  err.Error(),
	})
}

// LogSuccess is a small helper to standardize logging of successful operations
func LogSuccess(handlerName, message string, ctx map[string]any) {
	utils.Info(handlerName+": "+message, ctx)
}
