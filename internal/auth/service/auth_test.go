package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/reelbase/reelbase/internal/auth/service"
	"github.com/stretchr/testify/require"
)

func TestRegistrationFlow(t *testing.T) {
	ctx := context.Background()

	t.Run("register then login returns the same user", func(t *testing.T) {
		e := newTestEnv(t)
		userID := e.register(t, "a@x.com", "secret1")

		pair, u, err := e.Auth.Login(ctx, "a@x.com", "secret1")
		require.NoError(t, err)
		require.Equal(t, userID, u.ID)
		require.NotEmpty(t, pair.AccessToken)
		require.NotEmpty(t, pair.RefreshToken)

		// The refresh token resolves back to the same user.
		owner, err := e.Tokens.ValidateRefresh(ctx, pair.RefreshToken)
		require.NoError(t, err)
		require.Equal(t, userID, owner.ID)
	})

	t.Run("email is normalized before storage and lookup", func(t *testing.T) {
		e := newTestEnv(t)

		require.NoError(t, e.Auth.BeginRegistration(ctx, "  Mixed@Case.COM "))
		u, err := e.Auth.CompleteRegistration(ctx, "mixed@case.com", e.Mailer.lastCode("mixed@case.com"), "pw123456")
		require.NoError(t, err)
		require.Equal(t, "mixed@case.com", u.Email)

		_, got, err := e.Auth.Login(ctx, "MIXED@case.com", "pw123456")
		require.NoError(t, err)
		require.Equal(t, u.ID, got.ID)
	})

	t.Run("registering a taken email fails at verification", func(t *testing.T) {
		e := newTestEnv(t)
		e.register(t, "dup@x.com", "first-pw")

		require.NoError(t, e.Auth.BeginRegistration(ctx, "dup@x.com"))
		_, err := e.Auth.CompleteRegistration(ctx, "dup@x.com", e.Mailer.lastCode("dup@x.com"), "second-pw")
		require.ErrorIs(t, err, service.ErrEmailTaken)
	})

	t.Run("dispatch failure surfaces and stores nothing", func(t *testing.T) {
		e := newTestEnv(t)
		e.Mailer.Fail = true

		err := e.Auth.BeginRegistration(ctx, "fail@x.com")
		require.ErrorIs(t, err, service.ErrDispatchFailed)

		// No pending code was stored, so any verification fails.
		_, err = e.Auth.CompleteRegistration(ctx, "fail@x.com", "123456", "pw")
		require.ErrorIs(t, err, service.ErrInvalidOTP)
	})

	t.Run("wrong otp does not create a user", func(t *testing.T) {
		e := newTestEnv(t)
		require.NoError(t, e.Auth.BeginRegistration(ctx, "pending@x.com"))

		_, err := e.Auth.CompleteRegistration(ctx, "pending@x.com", "000000", "pw123456")
		require.ErrorIs(t, err, service.ErrInvalidOTP)

		_, _, err = e.Auth.Login(ctx, "pending@x.com", "pw123456")
		require.ErrorIs(t, err, service.ErrInvalidCredentials)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("wrong password yields invalid credentials and no tokens", func(t *testing.T) {
		e := newTestEnv(t)
		e.register(t, "login@x.com", "right-pw")

		pair, _, err := e.Auth.Login(ctx, "login@x.com", "wrong-pw")
		require.ErrorIs(t, err, service.ErrInvalidCredentials)
		require.Nil(t, pair)
	})

	t.Run("unknown email yields the same error as a bad password", func(t *testing.T) {
		e := newTestEnv(t)

		_, _, err := e.Auth.Login(ctx, "nobody@x.com", "whatever")
		require.ErrorIs(t, err, service.ErrInvalidCredentials)
	})
}

func TestPasswordReset(t *testing.T) {
	ctx := context.Background()

	t.Run("full reset flow", func(t *testing.T) {
		e := newTestEnv(t)
		userID := e.register(t, "reset@x.com", "old-pw")

		require.NoError(t, e.Auth.ForgotPassword(ctx, "reset@x.com"))
		require.NoError(t, e.Auth.ResetPassword(ctx, "reset@x.com", e.Mailer.lastCode("reset@x.com"), "new-pw"))

		_, _, err := e.Auth.Login(ctx, "reset@x.com", "old-pw")
		require.ErrorIs(t, err, service.ErrInvalidCredentials)

		_, u, err := e.Auth.Login(ctx, "reset@x.com", "new-pw")
		require.NoError(t, err)
		require.Equal(t, userID, u.ID)
	})

	t.Run("forgot password gates on a known email", func(t *testing.T) {
		e := newTestEnv(t)

		err := e.Auth.ForgotPassword(ctx, "stranger@x.com")
		require.ErrorIs(t, err, service.ErrEmailNotFound)
	})

	t.Run("reset revokes existing refresh tokens", func(t *testing.T) {
		e := newTestEnv(t)
		e.register(t, "sessions@x.com", "old-pw")

		pair, _, err := e.Auth.Login(ctx, "sessions@x.com", "old-pw")
		require.NoError(t, err)

		require.NoError(t, e.Auth.ForgotPassword(ctx, "sessions@x.com"))
		require.NoError(t, e.Auth.ResetPassword(ctx, "sessions@x.com", e.Mailer.lastCode("sessions@x.com"), "new-pw"))

		_, err = e.Tokens.Refresh(ctx, pair.RefreshToken)
		require.ErrorIs(t, err, service.ErrInvalidRefresh)
	})

	t.Run("reset code expires with the otp window", func(t *testing.T) {
		e := newTestEnv(t)
		e.register(t, "slow@x.com", "old-pw")

		require.NoError(t, e.Auth.ForgotPassword(ctx, "slow@x.com"))
		code := e.Mailer.lastCode("slow@x.com")

		e.Clock.Advance(6 * time.Minute)
		err := e.Auth.ResetPassword(ctx, "slow@x.com", code, "new-pw")
		require.ErrorIs(t, err, service.ErrInvalidOTP)
	})
}

func TestLogout(t *testing.T) {
	ctx := context.Background()

	t.Run("revokes the presented token", func(t *testing.T) {
		e := newTestEnv(t)
		e.register(t, "out@x.com", "pw123456")

		pair, _, err := e.Auth.Login(ctx, "out@x.com", "pw123456")
		require.NoError(t, err)

		require.NoError(t, e.Auth.Logout(ctx, pair.RefreshToken))
		_, err = e.Tokens.ValidateRefresh(ctx, pair.RefreshToken)
		require.ErrorIs(t, err, service.ErrInvalidRefresh)
	})

	t.Run("idempotent for unknown and repeated tokens", func(t *testing.T) {
		e := newTestEnv(t)
		e.register(t, "twice@x.com", "pw123456")

		pair, _, err := e.Auth.Login(ctx, "twice@x.com", "pw123456")
		require.NoError(t, err)

		require.NoError(t, e.Auth.Logout(ctx, pair.RefreshToken))
		require.NoError(t, e.Auth.Logout(ctx, pair.RefreshToken))
		require.NoError(t, e.Auth.Logout(ctx, "never-issued"))
		require.NoError(t, e.Auth.Logout(ctx, ""))
	})
}
