package http

import (
	"net/http"
	"net/url"

	"github.com/reelbase/reelbase/internal/auth/service"
	"github.com/reelbase/reelbase/pkg/httpx"
	"github.com/reelbase/reelbase/pkg/slogx"
)

// ExternalHandler serves the external login bridge:
// GET /api/auth/login/{provider} and GET /api/auth/external-login-callback.
type ExternalHandler struct {
	ExternalService *service.ExternalLoginService
	Cookies         CookieSettings

	// FrontendRedirectURL receives the user after a successful callback,
	// with the access token appended. Empty means respond with JSON.
	FrontendRedirectURL string
}

// HandleStart godoc
//
//	@Summary		Start external login
//	@Description	Redirects the user to the provider's authorization page.
//	@Tags			Auth
//	@Param			provider	path	string	true	"provider name"
//	@Success		302			"redirect to provider"
//	@Failure		404			{object}	ErrorResponse	"unknown provider"
//	@Router			/api/auth/login/{provider} [get].
func (h *ExternalHandler) HandleStart(w http.ResponseWriter, r *http.Request) {
	provider := r.PathValue("provider")

	authURL, err := h.ExternalService.Start(r.Context(), provider)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	http.Redirect(w, r, authURL, http.StatusFound)
}

// HandleCallback godoc
//
//	@Summary		External login callback
//	@Description	Completes the provider flow, finds or creates the local user, sets the refresh cookie and redirects to the frontend with the access token.
//	@Tags			Auth
//	@Param			state	query	string	true	"opaque state from the start redirect"
//	@Param			code	query	string	true	"authorization code"
//	@Success		302		"redirect to frontend"
//	@Failure		401		{object}	ErrorResponse
//	@Failure		502		{object}	ErrorResponse
//	@Router			/api/auth/external-login-callback [get].
func (h *ExternalHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	log := slogx.FromContext(r.Context())
	query := r.URL.Query()

	if errParam := query.Get("error"); errParam != "" {
		log.Warn("provider returned error", "error", errParam, "description", query.Get("error_description"))
		errProviderExchange.WriteError(w)
		return
	}

	state := query.Get("state")
	code := query.Get("code")
	if state == "" || code == "" {
		errInvalidState.WriteError(w)
		return
	}

	pair, _, err := h.ExternalService.Callback(r.Context(), state, code)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	setRefreshCookie(w, h.Cookies, pair.RefreshToken, h.ExternalService.Tokens.RefreshTokenTTL())

	if h.FrontendRedirectURL != "" {
		redirect, err := url.Parse(h.FrontendRedirectURL)
		if err != nil {
			errInternal.WriteError(w)
			return
		}
		q := redirect.Query()
		q.Set("access_token", pair.AccessToken)
		redirect.RawQuery = q.Encode()
		http.Redirect(w, r, redirect.String(), http.StatusFound)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, TokenResponse{
		AccessToken: pair.AccessToken,
		TokenType:   pair.TokenType,
		ExpiresIn:   int64(pair.ExpiresIn.Seconds()),
	})
}
