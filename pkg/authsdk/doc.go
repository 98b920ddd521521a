// Package authsdk is a Go client for the ReelBase authentication service.
//
// The client covers the unauthenticated surface (registration, OTP
// verification, password reset, health probes) and produces a Session for
// authenticated calls. Refresh tokens are delivered by the service as an
// HTTP-only cookie, so the client keeps a cookie jar and rotation happens
// transparently on refresh.
//
// Basic usage:
//
//	client := authsdk.NewSDKClient("http://localhost:8080")
//
//	// Registration is a two step flow. The service emails a code to the
//	// address, and the account is created once the code is verified.
//	_ = client.Register(ctx, "user@example.com", "hunter2!")
//	_ = client.VerifyOTP(ctx, "user@example.com", "123456", "hunter2!")
//
//	session, err := client.Login(ctx, "user@example.com", "hunter2!")
//	if err != nil {
//		// *authsdk.APIError carries the service error code
//	}
//
//	me, err := session.Me(ctx)
//
// Sessions refresh their access token automatically when it is close to
// expiry. Call Session.Logout to revoke the refresh token server-side.
package authsdk
