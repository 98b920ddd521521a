package auth_test

import (
	"testing"

	"github.com/reelbase/reelbase/pkg/authsdk"
	"github.com/stretchr/testify/require"
)

// TestHealthProbes verifies the liveness and readiness endpoints.
func TestHealthProbes(t *testing.T) {
	baseURL, _ := setupAuthContainer(t)
	client := authsdk.NewSDKClient(baseURL)

	live, err := client.Livez(t.Context())
	require.NoError(t, err)
	require.Equal(t, "ok", live.Status)
	require.NotEmpty(t, live.Version)

	ready, err := client.Readyz(t.Context())
	require.NoError(t, err)
	require.Equal(t, "ok", ready.Status)
	require.Equal(t, "ok", ready.Checks.Database)
}
