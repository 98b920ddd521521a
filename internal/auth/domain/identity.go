package domain

import "time"

// ExternalIdentity links a provider account (e.g. Google) to a local user.
// A user may hold one identity per provider.
type ExternalIdentity struct {
	Provider       string
	ProviderUserID string
	UserID         string
	Email          string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ProviderState is a short-lived record of an in-flight external login,
// keyed by the opaque state value round-tripped through the provider.
type ProviderState struct {
	State        string
	Provider     string
	CodeVerifier string // PKCE verifier, released only at code exchange
	RedirectURI  string
	ExpiresAt    time.Time
	CreatedAt    time.Time
}

// Expired reports whether the login attempt is past its expiry.
func (s ProviderState) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
