package http

import (
	"encoding/json"
	"net/http"

	"github.com/reelbase/reelbase/internal/auth/service"
	"github.com/reelbase/reelbase/pkg/httpx"
)

// LoginHandler serves POST /api/auth/login. On success the access token is
// returned in the body and the refresh token in an HTTP-only cookie.
type LoginHandler struct {
	AuthService *service.AuthService
	Cookies     CookieSettings
}

// ServeHTTP godoc
//
//	@Summary		Login
//	@Description	Validates credentials and issues an access token. The refresh token is delivered as an HTTP-only cookie scoped to /api/auth.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		object{email=string,password=string}	true	"credentials"
//	@Success		200		{object}	TokenResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		401		{object}	ErrorResponse
//	@Header			200		{string}	Cache-Control	"no-store"
//	@Router			/api/auth/login [post].
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		ErrInvalidJSONBody.WriteError(w)
		return
	}
	if body.Email == "" || body.Password == "" {
		ErrMissingFields.WriteError(w)
		return
	}

	pair, _, err := h.AuthService.Login(r.Context(), body.Email, body.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	setRefreshCookie(w, h.Cookies, pair.RefreshToken, h.AuthService.Tokens.RefreshTokenTTL())
	httpx.WriteJSON(w, http.StatusOK, TokenResponse{
		AccessToken: pair.AccessToken,
		TokenType:   pair.TokenType,
		ExpiresIn:   int64(pair.ExpiresIn.Seconds()),
	})
}
