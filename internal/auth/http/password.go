package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/reelbase/reelbase/internal/auth/service"
	"github.com/reelbase/reelbase/pkg/httpx"
)

// PasswordHandler serves the reset flow: POST /api/auth/forgot-password and
// POST /api/auth/reset-password.
type PasswordHandler struct {
	AuthService *service.AuthService
}

// HandleForgot godoc
//
//	@Summary		Request a password reset code
//	@Description	Sends a 6-digit reset code if the email belongs to an account.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		object{email=string}	true	"email"
//	@Success		200		{object}	MessageResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		502		{object}	ErrorResponse
//	@Router			/api/auth/forgot-password [post].
func (h *PasswordHandler) HandleForgot(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		ErrInvalidJSONBody.WriteError(w)
		return
	}
	if !validEmail(body.Email) {
		ErrInvalidEmail.WriteError(w)
		return
	}

	if err := h.AuthService.ForgotPassword(r.Context(), body.Email); err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, MessageResponse{Message: "reset code sent"})
}

// HandleReset godoc
//
//	@Summary		Reset password
//	@Description	Verifies the reset code, rewrites the password and revokes every live session.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		object{email=string,otp=string,password=string}	true	"reset"
//	@Success		200		{object}	MessageResponse
//	@Failure		400		{object}	ErrorResponse
//	@Router			/api/auth/reset-password [post].
func (h *PasswordHandler) HandleReset(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		OTP      string `json:"otp"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		ErrInvalidJSONBody.WriteError(w)
		return
	}
	if !validEmail(body.Email) {
		ErrInvalidEmail.WriteError(w)
		return
	}
	if strings.TrimSpace(body.OTP) == "" || strings.TrimSpace(body.Password) == "" {
		ErrMissingFields.WriteError(w)
		return
	}

	if err := h.AuthService.ResetPassword(r.Context(), body.Email, body.OTP, body.Password); err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, MessageResponse{Message: "password reset"})
}
