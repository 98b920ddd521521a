package store

import (
	"context"
	"errors"
	"time"

	"github.com/reelbase/reelbase/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite, and the
// redis OTP overlay) implement this. It exposes sub-repositories to keep
// concerns tidy and testable, and to make it harder to accidentally nest
// transactions.
type Store interface {
	Users() Users
	RefreshTokens() RefreshTokens
	OTPEntries() OTPEntries
	Identities() Identities
	ProviderStates() ProviderStates

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// Use it for multi-step operations that must be atomic (e.g., refresh rotation).
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	// This is the recommended way to handle transactions as it automatically
	// handles commit/rollback logic.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources (optional for sqlite).
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail looks up a user by normalized email (login, registration).
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by app via ULID).
	CreateUser(ctx context.Context, u domain.User) error

	// UpdatePasswordHash sets the password_hash (argon2) and bumps updated_at.
	UpdatePasswordHash(ctx context.Context, userID string, newHash string) error

	// EmailExists reports whether a user row holds the normalized email.
	EmailExists(ctx context.Context, email string) (bool, error)
}

type RefreshTokens interface {
	// CreateRefreshToken stores a new refresh token record.
	CreateRefreshToken(ctx context.Context, t domain.RefreshToken) error

	// GetRefreshTokenByHash returns the token record by its fingerprint.
	GetRefreshTokenByHash(ctx context.Context, hash string) (domain.RefreshToken, error)

	// RevokeRefreshToken flips revoked=1, sets updated_at.
	RevokeRefreshToken(ctx context.Context, hash string) error

	// RevokeAllUserRefreshTokens bulk revocation for a user (e.g., password reset).
	RevokeAllUserRefreshTokens(ctx context.Context, userID string) error

	// DeleteExpiredRefreshTokens is housekeeping. The caller supplies the
	// instant so token lifetimes stay testable with a fake clock.
	DeleteExpiredRefreshTokens(ctx context.Context, now time.Time) error
}

type OTPEntries interface {
	// UpsertOTPEntry writes the pending code for an email, replacing any
	// previous entry for the same address.
	UpsertOTPEntry(ctx context.Context, e domain.OTPEntry) error

	// GetOTPEntry returns the pending code for an email.
	GetOTPEntry(ctx context.Context, email string) (domain.OTPEntry, error)

	// DeleteOTPEntry removes the entry (on successful verification).
	DeleteOTPEntry(ctx context.Context, email string) error

	// DeleteExpiredOTPEntries is housekeeping.
	DeleteExpiredOTPEntries(ctx context.Context, now time.Time) error
}

type Identities interface {
	// GetIdentity returns the link for a provider account.
	GetIdentity(ctx context.Context, provider, providerUserID string) (domain.ExternalIdentity, error)

	// UpsertIdentity inserts or refreshes the link for a provider account.
	UpsertIdentity(ctx context.Context, id domain.ExternalIdentity) error
}

type ProviderStates interface {
	// CreateProviderState records an in-flight external login.
	CreateProviderState(ctx context.Context, s domain.ProviderState) error

	// GetProviderState returns the record for a state value.
	GetProviderState(ctx context.Context, state string) (domain.ProviderState, error)

	// DeleteProviderState removes the record (states are single-use).
	DeleteProviderState(ctx context.Context, state string) error

	// DeleteExpiredProviderStates is housekeeping.
	DeleteExpiredProviderStates(ctx context.Context, now time.Time) error
}
