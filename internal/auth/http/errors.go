package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/reelbase/reelbase/internal/auth/service"
	"github.com/reelbase/reelbase/pkg/httpx"
	"github.com/reelbase/reelbase/pkg/slogx"
)

// APIError is the uniform error body every endpoint returns.
type APIError struct {
	// StatusCode is the HTTP status code for this error
	StatusCode int `json:"-"`

	// Code is the machine-readable error code (e.g., "invalid_request")
	Code string `json:"error"`

	// Description is a human-readable description of the error
	Description string `json:"error_description"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// WriteError writes the error as a JSON response with no-cache headers.
func (e *APIError) WriteError(w http.ResponseWriter) {
	httpx.NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.StatusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":             e.Code,
		"error_description": e.Description,
	})
}

var (
	// ErrInvalidJSONBody is returned when the request body cannot be parsed.
	ErrInvalidJSONBody = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        "invalid_request",
		Description: "Request body must be valid JSON",
	}

	// ErrMissingFields is returned when a required field is absent or blank.
	ErrMissingFields = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        "validation_error",
		Description: "A required field is missing or empty",
	}

	// ErrInvalidEmail is returned when the email field is not an address.
	ErrInvalidEmail = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        "validation_error",
		Description: "Email address is not valid",
	}

	errInvalidCredentials = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        "invalid_credentials",
		Description: "Email or password is incorrect",
	}

	errInvalidRefresh = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        "invalid_token",
		Description: "Refresh token is invalid",
	}

	errInvalidOTP = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        "invalid_otp",
		Description: "Verification code is invalid or expired",
	}

	errEmailTaken = &APIError{
		StatusCode:  http.StatusConflict,
		Code:        "email_taken",
		Description: "An account with this email already exists",
	}

	errEmailNotFound = &APIError{
		StatusCode:  http.StatusBadRequest,
		Code:        "email_not_found",
		Description: "No account exists for this email",
	}

	errDispatchFailed = &APIError{
		StatusCode:  http.StatusBadGateway,
		Code:        "dispatch_failed",
		Description: "Could not send the verification email",
	}

	errUnknownProvider = &APIError{
		StatusCode:  http.StatusNotFound,
		Code:        "unknown_provider",
		Description: "No such login provider",
	}

	errInvalidState = &APIError{
		StatusCode:  http.StatusUnauthorized,
		Code:        "invalid_state",
		Description: "Login attempt is invalid or expired",
	}

	errProviderExchange = &APIError{
		StatusCode:  http.StatusBadGateway,
		Code:        "provider_error",
		Description: "The login provider rejected the request",
	}

	errUserNotFound = &APIError{
		StatusCode:  http.StatusNotFound,
		Code:        "not_found",
		Description: "User no longer exists",
	}

	errInternal = &APIError{
		StatusCode:  http.StatusInternalServerError,
		Code:        "internal_error",
		Description: "Something went wrong",
	}
)

// writeServiceError maps service sentinels to the response taxonomy.
// Anything unrecognized becomes a 500 with no internal detail leaked.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		errInvalidCredentials.WriteError(w)
	case errors.Is(err, service.ErrInvalidRefresh):
		errInvalidRefresh.WriteError(w)
	case errors.Is(err, service.ErrInvalidOTP):
		errInvalidOTP.WriteError(w)
	case errors.Is(err, service.ErrEmailTaken):
		errEmailTaken.WriteError(w)
	case errors.Is(err, service.ErrEmailNotFound):
		errEmailNotFound.WriteError(w)
	case errors.Is(err, service.ErrDispatchFailed):
		errDispatchFailed.WriteError(w)
	case errors.Is(err, service.ErrUnknownProvider):
		errUnknownProvider.WriteError(w)
	case errors.Is(err, service.ErrInvalidState):
		errInvalidState.WriteError(w)
	case errors.Is(err, service.ErrProviderExchange):
		errProviderExchange.WriteError(w)
	default:
		slogx.FromContext(r.Context()).Error("unhandled service error", "err", err)
		errInternal.WriteError(w)
	}
}
