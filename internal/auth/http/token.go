package http

import (
	"net/http"

	"github.com/reelbase/reelbase/internal/auth/service"
	"github.com/reelbase/reelbase/pkg/httpx"
)

// RefreshHandler serves POST /api/auth/refresh-token. The presented refresh
// token is rotated: the old one dies and a new cookie is set.
type RefreshHandler struct {
	TokenService *service.TokenService
	Cookies      CookieSettings
}

// ServeHTTP godoc
//
//	@Summary		Refresh tokens
//	@Description	Rotates the refresh token (cookie or body) and returns a fresh access token. The old refresh token is revoked.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		object{refresh_token=string}	false	"refresh token when no cookie is present"
//	@Success		200		{object}	TokenResponse
//	@Failure		401		{object}	ErrorResponse
//	@Header			200		{string}	Cache-Control	"no-store"
//	@Router			/api/auth/refresh-token [post].
func (h *RefreshHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	refresh := readRefreshToken(r)
	if refresh == "" {
		errInvalidRefresh.WriteError(w)
		return
	}

	pair, err := h.TokenService.Refresh(r.Context(), refresh)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	setRefreshCookie(w, h.Cookies, pair.RefreshToken, h.TokenService.RefreshTokenTTL())
	httpx.WriteJSON(w, http.StatusOK, TokenResponse{
		AccessToken: pair.AccessToken,
		TokenType:   pair.TokenType,
		ExpiresIn:   int64(pair.ExpiresIn.Seconds()),
	})
}

// LogoutHandler serves POST /api/auth/logout. Revocation is idempotent, so
// the endpoint always succeeds and always clears the cookie.
type LogoutHandler struct {
	AuthService *service.AuthService
	Cookies     CookieSettings
}

// ServeHTTP godoc
//
//	@Summary		Logout
//	@Description	Revokes the presented refresh token (cookie or body) and clears the cookie. Idempotent.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			body	body		object{refresh_token=string}	false	"refresh token when no cookie is present"
//	@Success		200		{object}	MessageResponse
//	@Router			/api/auth/logout [post].
func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if refresh := readRefreshToken(r); refresh != "" {
		if err := h.AuthService.Logout(r.Context(), refresh); err != nil {
			writeServiceError(w, r, err)
			return
		}
	}

	clearRefreshCookie(w, h.Cookies)
	httpx.WriteJSON(w, http.StatusOK, MessageResponse{Message: "logged out"})
}
