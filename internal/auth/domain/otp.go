package domain

import "time"

// OTPEntry is a pending one-time code emailed to an address, keyed by the
// normalized email. A fresh Send replaces any previous entry for the address.
type OTPEntry struct {
	Email     string
	Code      string // 6-digit numeric
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the code is past its expiry at the given instant.
func (e OTPEntry) Expired(now time.Time) bool {
	return now.After(e.ExpiresAt)
}
