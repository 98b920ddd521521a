package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/reelbase/reelbase/internal/auth/domain"
	"github.com/reelbase/reelbase/internal/auth/store"
	"github.com/reelbase/reelbase/pkg/cryptox"
	"github.com/reelbase/reelbase/pkg/idx"
	"github.com/reelbase/reelbase/pkg/slogx"
)

// AuthService orchestrates the registration, login and password-reset flows.
type AuthService struct {
	Store  store.Store
	OTP    *OTPService
	Tokens *TokenService

	// Now is swappable for tests; nil means time.Now.
	Now func() time.Time
}

// NormalizeEmail is the canonical form used everywhere an email is stored
// or compared.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// BeginRegistration dispatches an OTP to the address. The user row is NOT
// created here; it is committed only once the code is verified, so an
// abandoned registration leaves no orphaned unverified account.
func (s *AuthService) BeginRegistration(ctx context.Context, email string) error {
	return s.OTP.Send(ctx, NormalizeEmail(email))
}

// CompleteRegistration verifies the emailed code and, inside one
// transaction, checks the address is still free and creates the user with
// the supplied password.
func (s *AuthService) CompleteRegistration(ctx context.Context, email, otp, password string) (domain.User, error) {
	email = NormalizeEmail(email)
	l := slogx.FromContext(ctx)

	if err := s.OTP.Verify(ctx, email, otp); err != nil {
		return domain.User{}, err
	}

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return domain.User{}, err
	}

	u := domain.User{
		ID:           idx.New().String(),
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleUser,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		taken, err := tx.Users().EmailExists(ctx, email)
		if err != nil {
			return err
		}
		if taken {
			return ErrEmailTaken
		}
		return tx.Users().CreateUser(ctx, u)
	})
	if err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, ErrEmailTaken
		}
		return domain.User{}, err
	}

	l.Info("user registered", slog.String("user_id", u.ID))
	return u, nil
}

// Login validates credentials and issues a token pair. Unknown addresses,
// wrong passwords and external-only accounts (no stored hash) all collapse
// into ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.TokenPair, domain.User, error) {
	email = NormalizeEmail(email)
	l := slogx.FromContext(ctx)

	u, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domain.User{}, ErrInvalidCredentials
		}
		return nil, domain.User{}, err
	}

	if !u.HasPassword() || cryptox.VerifyPassword(password, u.PasswordHash) != nil {
		l.Info("login failed", slog.String("user_id", u.ID))
		return nil, domain.User{}, ErrInvalidCredentials
	}

	pair, err := s.Tokens.IssueTokens(ctx, u)
	if err != nil {
		return nil, domain.User{}, err
	}
	return pair, u, nil
}

// ForgotPassword gates on the address actually belonging to a user, then
// dispatches a reset code.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	email = NormalizeEmail(email)

	exists, err := s.Store.Users().EmailExists(ctx, email)
	if err != nil {
		return err
	}
	if !exists {
		return ErrEmailNotFound
	}

	return s.OTP.Send(ctx, email)
}

// ResetPassword verifies the reset code, rewrites the stored hash and
// revokes every refresh token the user holds so stolen sessions die with
// the old password.
func (s *AuthService) ResetPassword(ctx context.Context, email, otp, newPassword string) error {
	email = NormalizeEmail(email)
	l := slogx.FromContext(ctx)

	if err := s.OTP.Verify(ctx, email, otp); err != nil {
		return err
	}

	u, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrEmailNotFound
		}
		return err
	}

	hash, err := cryptox.HashPassword(newPassword)
	if err != nil {
		return err
	}

	if err := s.Store.Users().UpdatePasswordHash(ctx, u.ID, hash); err != nil {
		return err
	}
	if err := s.Tokens.RevokeAllForUser(ctx, u.ID); err != nil {
		return err
	}

	l.Info("password reset", slog.String("user_id", u.ID))
	return nil
}

// Logout revokes the presented refresh token. Always succeeds: revoking an
// unknown or already-dead token is a no-op.
func (s *AuthService) Logout(ctx context.Context, refreshOpaque string) error {
	return s.Tokens.Revoke(ctx, refreshOpaque)
}
