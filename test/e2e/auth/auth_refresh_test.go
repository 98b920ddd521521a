package auth_test

import (
	"testing"

	"github.com/reelbase/reelbase/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

// TestLoginRefreshLogout tests the session lifecycle:
// 1. Login with password
// 2. Refresh and verify the access token rotates
// 3. Logout and verify the refresh token is revoked
func TestLoginRefreshLogout(t *testing.T) {
	baseURL, container := setupAuthContainer(t)
	client := authsdk.NewSDKClient(baseURL)

	const email = "session@example.com"
	registerAccount(t, client, container, email)

	session, err := client.Login(t.Context(), email, testPassword)
	require.NoError(t, err)
	oldAccessToken := session.AccessToken()

	require.NoError(t, session.Refresh(t.Context()))
	require.NotEqual(t, oldAccessToken, session.AccessToken(), "Access token should be rotated")
	assertSessionUsable(t, session)

	require.NoError(t, session.Logout(t.Context()))

	// The cookie jar still holds the cleared cookie state; a further
	// refresh must fail because the token was revoked server-side.
	err = session.Refresh(t.Context())
	assertAPIError(t, err, authsdk.ErrorCodeInvalidToken, "refresh after logout should fail")
}

// TestWrongPassword verifies bad credentials are rejected uniformly.
func TestWrongPassword(t *testing.T) {
	baseURL, container := setupAuthContainer(t)
	client := authsdk.NewSDKClient(baseURL)

	const email = "creds@example.com"
	registerAccount(t, client, container, email)

	_, err := client.Login(t.Context(), email, "not-the-password")
	assertAPIError(t, err, authsdk.ErrorCodeInvalidCredentials, "wrong password")

	_, err = client.Login(t.Context(), "nobody@example.com", testPassword)
	assertAPIError(t, err, authsdk.ErrorCodeInvalidCredentials, "unknown email")
}
