package authsdk

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Error codes returned by the service.
const (
	ErrorCodeInvalidRequest     = "invalid_request"
	ErrorCodeValidation         = "validation_error"
	ErrorCodeInvalidCredentials = "invalid_credentials"
	ErrorCodeInvalidToken       = "invalid_token"
	ErrorCodeInvalidOTP         = "invalid_otp"
	ErrorCodeEmailTaken         = "email_taken"
	ErrorCodeEmailNotFound      = "email_not_found"
	ErrorCodeDispatchFailed     = "dispatch_failed"
	ErrorCodeUnknownProvider    = "unknown_provider"
	ErrorCodeInvalidState       = "invalid_state"
	ErrorCodeProviderError      = "provider_error"
	ErrorCodeNotFound           = "not_found"
	ErrorCodeInternalError      = "internal_error"
	ErrorCodeRateLimited        = "rate_limit_exceeded"
)

// APIError represents an error response from the auth service.
type APIError struct {
	// StatusCode is the HTTP status code of the response
	StatusCode int `json:"-"`

	// Code is the machine-readable error code (e.g. "invalid_otp")
	Code string `json:"error"`

	// Description is a human-readable description of the error
	Description string `json:"error_description"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// parseErrorResponse builds an APIError from a non-2xx response body.
// Bodies that are not the service's JSON error shape (proxies, rate
// limiters) fall back to a generic error carrying the status code.
func parseErrorResponse(resp *http.Response, body []byte) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	if err := json.Unmarshal(body, apiErr); err != nil || apiErr.Code == "" {
		if resp.StatusCode == http.StatusTooManyRequests {
			apiErr.Code = ErrorCodeRateLimited
		} else {
			apiErr.Code = ErrorCodeInternalError
		}
		apiErr.Description = fmt.Sprintf("unexpected response with status %d", resp.StatusCode)
	}
	return apiErr
}
