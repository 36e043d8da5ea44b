package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrCardNotFound is returned when no account exists for a card digest.
	ErrCardNotFound = errors.New("card not found")
	// ErrInvalidPIN is returned when the PIN digest does not match.
	ErrInvalidPIN = errors.New("invalid PIN")
	// ErrInvalidCredentials is returned when admin credentials are wrong.
	ErrInvalidCredentials = errors.New("invalid admin credentials")
	// ErrInvalidAmount is returned when amount is not a positive decimal.
	ErrInvalidAmount = errors.New("amount must be greater than zero")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Declines produced by
// the ledger processor never reach this path; they are normal outcome
// values, not errors.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrCardNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "CARD_NOT_FOUND")
	case errors.Is(err, ErrInvalidPIN):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_PIN")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrInvalidAmount):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_AMOUNT")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
