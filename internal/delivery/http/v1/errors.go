package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"planboard/internal/services"
)

var errInvalidRequestBody = errors.New("invalid request body")

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func newAPIError(code int, message string) apiError {
	return apiError{
		Code:    code,
		Message: message,
	}
}

func (e apiError) Error() string {
	return e.Message
}

func abort(c *gin.Context, err apiError) {
	c.AbortWithStatusJSON(err.Code, gin.H{"error": err.Message})
}

func newStatusTextError(status int) apiError {
	return newAPIError(status, http.StatusText(status))
}

func newBadRequestError(message string) apiError {
	return newAPIError(http.StatusBadRequest, message)
}

func newUnauthorizedError(message string) apiError {
	return newAPIError(http.StatusUnauthorized, message)
}

func newNotFoundError(message string) apiError {
	return newAPIError(http.StatusNotFound, message)
}

func newConflictError(message string) apiError {
	return newAPIError(http.StatusConflict, message)
}

// abortServiceError maps service sentinel errors onto HTTP statuses.
// Anything unrecognized becomes a generic 500.
func abortServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		abort(c, newNotFoundError(services.ErrNotFound.Error()))
	case errors.Is(err, services.ErrValidation):
		abort(c, newBadRequestError(err.Error()))
	case errors.Is(err, services.ErrUserAlreadyExists):
		abort(c, newConflictError(services.ErrUserAlreadyExists.Error()))
	case errors.Is(err, services.ErrUserNotFound):
		abort(c, newUnauthorizedError(services.ErrUserNotFound.Error()))
	case errors.Is(err, services.ErrUserPasswordMismatch):
		abort(c, newUnauthorizedError(services.ErrUserPasswordMismatch.Error()))
	case errors.Is(err, services.ErrTokenInvalid):
		abort(c, newUnauthorizedError(services.ErrTokenInvalid.Error()))
	default:
		abort(c, newStatusTextError(http.StatusInternalServerError))
	}
}
