package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrRoleNotFound is returned when a referenced role does not exist.
	ErrRoleNotFound = errors.New("role not found")
	// ErrPermissionNotFound is returned when a referenced permission does not exist.
	ErrPermissionNotFound = errors.New("permission not found")
	// ErrRoleInUse is returned when deleting a role still referenced by users.
	ErrRoleInUse = errors.New("role is referenced by existing users")
	// ErrEmailTaken is returned when an email collides with an existing user.
	ErrEmailTaken = errors.New("email already in use")
	// ErrInvalidResetToken is returned when a reset token is absent, mismatched or expired.
	ErrInvalidResetToken = errors.New("invalid or expired reset token")
	// ErrPasswordTooShort is returned when a new password fails the length check.
	ErrPasswordTooShort = errors.New("password must be at least 8 characters long")
	// ErrDeliveryFailed is returned when the reset mail could not be sent.
	// The persisted reset record stands regardless.
	ErrDeliveryFailed = errors.New("failed to send reset email")
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

// MapErrorToHTTP maps domain errors to HTTP errors. Anything unrecognized
// collapses to a generic 500 so internal detail never reaches the client.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrRoleNotFound):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_ROLE_ID")
	case errors.Is(err, ErrPermissionNotFound):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_PERMISSION_ID")
	case errors.Is(err, ErrRoleInUse):
		return NewHTTPError(http.StatusConflict, err.Error(), "ROLE_IN_USE")
	case errors.Is(err, ErrEmailTaken):
		return NewHTTPError(http.StatusConflict, err.Error(), "EMAIL_TAKEN")
	case errors.Is(err, ErrInvalidResetToken):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_RESET_TOKEN")
	case errors.Is(err, ErrPasswordTooShort):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "PASSWORD_TOO_SHORT")
	case errors.Is(err, ErrDeliveryFailed):
		return NewHTTPError(http.StatusInternalServerError, err.Error(), "DELIVERY_FAILED")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
