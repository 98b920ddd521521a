package service

import "errors"

// Sentinel errors returned by the services. The HTTP layer maps these to the
// response taxonomy; anything else is treated as an internal error.
var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrInvalidRefresh     = errors.New("invalid_refresh_token")
	ErrInvalidOTP         = errors.New("invalid_otp")
	ErrEmailTaken         = errors.New("email_taken")
	ErrEmailNotFound      = errors.New("email_not_found")
	ErrDispatchFailed     = errors.New("otp_dispatch_failed")
	ErrUnknownProvider    = errors.New("unknown_provider")
	ErrInvalidState       = errors.New("invalid_state")
	ErrProviderExchange   = errors.New("provider_exchange_failed")
)
