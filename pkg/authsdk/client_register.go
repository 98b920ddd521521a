package authsdk

import (
	"context"
	"net/http"
)

// Register starts the registration flow. The service mails a one-time code
// to the address; the account itself is created by VerifyOTP.
func (c *SDKClient) Register(ctx context.Context, email, password string) error {
	resp, err := c.postJSON(ctx, "/api/auth/register", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return err
	}
	return decodeJSON(resp, &MessageResponse{}, http.StatusOK)
}

// SendOTP requests a fresh one-time code for an address with a registration
// in flight. The previous code stops working.
func (c *SDKClient) SendOTP(ctx context.Context, email string) error {
	resp, err := c.postJSON(ctx, "/api/auth/send-otp", map[string]string{
		"email": email,
	})
	if err != nil {
		return err
	}
	return decodeJSON(resp, &MessageResponse{}, http.StatusOK)
}

// VerifyOTP completes registration by proving ownership of the address.
func (c *SDKClient) VerifyOTP(ctx context.Context, email, otp, password string) error {
	resp, err := c.postJSON(ctx, "/api/auth/verify-otp", map[string]string{
		"email":    email,
		"otp":      otp,
		"password": password,
	})
	if err != nil {
		return err
	}
	return decodeJSON(resp, &MessageResponse{}, http.StatusOK)
}
