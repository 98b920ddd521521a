package domain

import (
	"errors"
	"time"
)

// Role is the coarse authorization level attached to a user and carried in
// access token claims.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

var ErrUnknownRole = errors.New("domain: unknown role")

// ParseRole validates a role string coming from storage or token claims.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleUser:
		return RoleUser, nil
	case RoleAdmin:
		return RoleAdmin, nil
	default:
		return "", ErrUnknownRole
	}
}

func (r Role) String() string { return string(r) }

type User struct {
	ID           string
	Email        string // normalized (lowercased, trimmed), unique
	PasswordHash string // argon2 encoded; empty for external-login-only accounts
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasPassword reports whether the account can authenticate with credentials.
// Accounts created via an external identity provider carry no hash.
func (u User) HasPassword() bool { return u.PasswordHash != "" }
