package auth_test

import (
	"testing"

	"github.com/reelbase/reelbase/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

// TestPasswordReset tests the reset flow end to end:
// 1. Request a reset code for a registered address
// 2. Set a new password with the code
// 3. Verify the old password is dead and open sessions are revoked
func TestPasswordReset(t *testing.T) {
	baseURL, container := setupAuthContainer(t)
	client := authsdk.NewSDKClient(baseURL)

	const email = "reset@example.com"
	registerAccount(t, client, container, email)

	session, err := client.Login(t.Context(), email, testPassword)
	require.NoError(t, err)

	const newPassword = "Swordf1sh?!"
	require.NoError(t, client.ForgotPassword(t.Context(), email))
	code := otpCodeFromLogs(t, container, email)
	require.NoError(t, client.ResetPassword(t.Context(), email, code, newPassword))

	_, err = client.Login(t.Context(), email, testPassword)
	assertAPIError(t, err, authsdk.ErrorCodeInvalidCredentials, "old password should be dead")

	// The pre-reset session lost its refresh token.
	err = session.Refresh(t.Context())
	assertAPIError(t, err, authsdk.ErrorCodeInvalidToken, "old session should be revoked")

	newSession, err := client.Login(t.Context(), email, newPassword)
	require.NoError(t, err)
	assertSessionUsable(t, newSession)
}

// TestForgotPasswordUnknownEmail verifies reset codes only go to accounts.
func TestForgotPasswordUnknownEmail(t *testing.T) {
	baseURL, _ := setupAuthContainer(t)
	client := authsdk.NewSDKClient(baseURL)

	err := client.ForgotPassword(t.Context(), "ghost@example.com")
	assertAPIError(t, err, authsdk.ErrorCodeEmailNotFound, "unknown email")
}
