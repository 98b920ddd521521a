package http

import (
	"encoding/json"
	"net/http"
	"net/mail"
	"strings"

	"github.com/reelbase/reelbase/internal/auth/service"
	"github.com/reelbase/reelbase/pkg/httpx"
)

// RegisterHandler serves the email-verified registration flow:
// POST /api/auth/register, /api/auth/send-otp and /api/auth/verify-otp.
type RegisterHandler struct {
	AuthService *service.AuthService
}

// HandleRegister godoc
//
//	@Summary		Start registration
//	@Description	Validates the email and password and dispatches a 6-digit verification code. The account is not created until the code is verified.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		object{email=string,password=string}	true	"credentials"
//	@Success		200		{object}	MessageResponse							"OTP sent"
//	@Failure		400		{object}	ErrorResponse
//	@Failure		502		{object}	ErrorResponse	"email dispatch failed"
//	@Router			/api/auth/register [post].
func (h *RegisterHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
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
	// The password is supplied again at verification; reject obviously bad
	// ones now so the user doesn't burn an OTP on a doomed registration.
	if strings.TrimSpace(body.Password) == "" {
		ErrMissingFields.WriteError(w)
		return
	}

	if err := h.AuthService.BeginRegistration(r.Context(), body.Email); err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, MessageResponse{Message: "OTP sent, pending verification"})
}

// HandleSendOTP godoc
//
//	@Summary		Resend verification code
//	@Description	Dispatches a fresh 6-digit code to the address, replacing any pending one.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		object{email=string}	true	"email"
//	@Success		200		{object}	MessageResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		502		{object}	ErrorResponse
//	@Router			/api/auth/send-otp [post].
func (h *RegisterHandler) HandleSendOTP(w http.ResponseWriter, r *http.Request) {
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

	if err := h.AuthService.BeginRegistration(r.Context(), body.Email); err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, MessageResponse{Message: "OTP sent"})
}

// HandleVerifyOTP godoc
//
//	@Summary		Complete registration
//	@Description	Verifies the emailed code and creates the account with the supplied password.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		object{email=string,otp=string,password=string}	true	"verification"
//	@Success		200		{object}	MessageResponse	"registered"
//	@Failure		400		{object}	ErrorResponse	"invalid OTP"
//	@Failure		409		{object}	ErrorResponse	"email already registered"
//	@Router			/api/auth/verify-otp [post].
func (h *RegisterHandler) HandleVerifyOTP(w http.ResponseWriter, r *http.Request) {
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

	if _, err := h.AuthService.CompleteRegistration(r.Context(), body.Email, body.OTP, body.Password); err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, MessageResponse{Message: "registered"})
}

func validEmail(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	_, err := mail.ParseAddress(s)
	return err == nil
}
