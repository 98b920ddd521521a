package service

import (
	"context"
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/reelbase/reelbase/internal/auth/domain"
	"github.com/reelbase/reelbase/internal/auth/mail"
	"github.com/reelbase/reelbase/internal/auth/store"
	"github.com/reelbase/reelbase/pkg/cryptox"
	"github.com/reelbase/reelbase/pkg/slogx"
)

// DefaultOTPTTL is the verification window for an emailed code.
const DefaultOTPTTL = 5 * time.Minute

// OTPService issues and verifies the 6-digit codes used for registration
// and password reset. Codes have no attempt-count lockout; that is a known
// gap inherited from the flow design, not an oversight here.
type OTPService struct {
	OTPs   store.OTPEntries
	Mailer mail.Mailer
	TTL    time.Duration

	// Now is swappable for tests; nil means time.Now.
	Now func() time.Time
}

func (s *OTPService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *OTPService) ttl() time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return DefaultOTPTTL
}

// Send generates a fresh code, dispatches it by email, and only on
// successful dispatch stores it, replacing any prior pending code for the
// address. Ordering matters: a stored code with no email behind it would
// strand the user.
func (s *OTPService) Send(ctx context.Context, email string) error {
	l := slogx.FromContext(ctx)

	code, err := cryptox.GenerateOTPCode()
	if err != nil {
		return err
	}

	if err := s.Mailer.SendOTP(ctx, email, code); err != nil {
		l.Warn("otp dispatch failed", "err", err)
		return fmt.Errorf("%w: %w", ErrDispatchFailed, err)
	}

	return s.OTPs.UpsertOTPEntry(ctx, domain.OTPEntry{
		Email:     email,
		Code:      code,
		ExpiresAt: s.now().Add(s.ttl()),
	})
}

// Verify checks the presented code against the pending entry. The entry is
// consumed only on success; a wrong guess leaves the window intact so the
// real code still works afterwards.
func (s *OTPService) Verify(ctx context.Context, email, code string) error {
	entry, err := s.OTPs.GetOTPEntry(ctx, email)
	if err != nil {
		return ErrInvalidOTP
	}
	if entry.Expired(s.now()) {
		return ErrInvalidOTP
	}
	if subtle.ConstantTimeCompare([]byte(entry.Code), []byte(code)) != 1 {
		return ErrInvalidOTP
	}

	return s.OTPs.DeleteOTPEntry(ctx, email)
}
