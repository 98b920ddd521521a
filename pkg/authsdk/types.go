package authsdk

// TokenResponse is returned by login and refresh operations. The refresh
// token itself travels in an HTTP-only cookie and never appears here.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// MessageResponse is returned by operations with no richer payload.
type MessageResponse struct {
	Message string `json:"message"`
}

// UserResponse describes the authenticated account.
type UserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// HealthResponse is returned by the livez and readyz probes.
type HealthResponse struct {
	Status  string       `json:"status"`
	Uptime  string       `json:"uptime"`
	Version string       `json:"version"`
	Checks  HealthChecks `json:"checks,omitempty"`
}

// HealthChecks carries per-dependency probe results.
type HealthChecks struct {
	Database string `json:"database,omitempty"`
	OTPCache string `json:"otp_cache,omitempty"`
}
