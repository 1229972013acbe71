// errors.go - error mapping for the JSON API
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// APIError is an error carrying the HTTP status it should be reported with.
// The response body is always {"error": <message>}.
type APIError struct {
	Status  int    `json:"-"`
	Message string `json:"error"`
}

func (e *APIError) Error() string {
	return e.Message
}

// NewBadRequestError creates a 400 error with a client-facing message.
func NewBadRequestError(message string) *APIError {
	return &APIError{Status: http.StatusBadRequest, Message: message}
}

// NewInternalError creates a 500 error from an underlying failure.
func NewInternalError(cause error) *APIError {
	return &APIError{Status: http.StatusInternalServerError, Message: cause.Error()}
}

// ErrorHandler translates handler errors to the wire contract.
// Usage: e.HTTPErrorHandler = api.ErrorHandler
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var apiErr *APIError
	switch e := err.(type) {
	case *APIError:
		apiErr = e
	case *echo.HTTPError:
		apiErr = &APIError{Status: e.Code, Message: http.StatusText(e.Code)}
	default:
		apiErr = &APIError{Status: http.StatusInternalServerError, Message: err.Error()}
	}

	c.JSON(apiErr.Status, apiErr)
}
