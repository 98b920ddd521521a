package http

import (
	"encoding/json"
	"net/http"
	"time"
)

// refreshCookieName is the cookie carrying the opaque refresh token. The
// cookie is path-scoped to the auth endpoints so it never rides along on
// ordinary API traffic.
const (
	refreshCookieName = "refresh_token"
	refreshCookiePath = "/api/auth"
)

// CookieSettings controls refresh cookie attributes that differ between
// environments (Secure requires TLS, which dev setups lack).
type CookieSettings struct {
	Secure bool
}

func setRefreshCookie(w http.ResponseWriter, settings CookieSettings, token string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    token,
		Path:     refreshCookiePath,
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   settings.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearRefreshCookie(w http.ResponseWriter, settings CookieSettings) {
	http.SetCookie(w, &http.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     refreshCookiePath,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   settings.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// readRefreshToken resolves the presented refresh token: cookie first, then
// a JSON body {"refresh_token": "..."} for clients that don't hold cookies.
func readRefreshToken(r *http.Request) string {
	if c, err := r.Cookie(refreshCookieName); err == nil && c.Value != "" {
		return c.Value
	}

	var body struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err == nil {
		return body.RefreshToken
	}
	return ""
}
