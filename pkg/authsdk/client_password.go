package authsdk

import (
	"context"
	"net/http"
)

// ForgotPassword requests a password reset code for a registered address.
func (c *SDKClient) ForgotPassword(ctx context.Context, email string) error {
	resp, err := c.postJSON(ctx, "/api/auth/forgot-password", map[string]string{
		"email": email,
	})
	if err != nil {
		return err
	}
	return decodeJSON(resp, &MessageResponse{}, http.StatusOK)
}

// ResetPassword sets a new password using the mailed reset code. All of the
// account's refresh tokens are revoked; existing sessions must log in again.
func (c *SDKClient) ResetPassword(ctx context.Context, email, otp, password string) error {
	resp, err := c.postJSON(ctx, "/api/auth/reset-password", map[string]string{
		"email":    email,
		"otp":      otp,
		"password": password,
	})
	if err != nil {
		return err
	}
	return decodeJSON(resp, &MessageResponse{}, http.StatusOK)
}
