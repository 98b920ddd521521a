package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/reelbase/reelbase/internal/auth/domain"
	authhttp "github.com/reelbase/reelbase/internal/auth/http"
	"github.com/reelbase/reelbase/internal/auth/service"
	"github.com/reelbase/reelbase/internal/auth/store/drivers/sqlite"
	"github.com/reelbase/reelbase/pkg/cryptox"
	"github.com/reelbase/reelbase/pkg/idx"
	"github.com/reelbase/reelbase/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	pepperPath := filepath.Join(os.TempDir(), "http-test-pepper")
	cryptox.SetPepperPath(pepperPath)
	os.Remove(pepperPath)
	defer os.Remove(pepperPath)

	os.Exit(m.Run())
}

type fakeMailer struct {
	mu    sync.Mutex
	codes map[string]string
}

func (f *fakeMailer) SendOTP(ctx context.Context, to, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.codes[to] = code
	return nil
}

func (f *fakeMailer) lastCode(to string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.codes[to]
}

type testServer struct {
	Router *authhttp.Router
	Mailer *fakeMailer
	Store  *sqlite.Store
}

func newTestServer(t *testing.T, providers map[string]service.ProviderConfig, frontendURL string) *testServer {
	t.Helper()

	st, err := sqlite.NewStore(filepath.Join(t.TempDir(), "auth.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	key := []byte("0123456789abcdef0123456789abcdef")
	signer, err := jwtx.NewSignerHS256("test-key", key)
	require.NoError(t, err)
	verifier, err := jwtx.NewVerifierHS256("test-key", key, "reelbase-test", []string{"reelbase"})
	require.NoError(t, err)

	mailer := &fakeMailer{codes: make(map[string]string)}

	tokens := &service.TokenService{
		Signer:   signer,
		Store:    st,
		Issuer:   "reelbase-test",
		Audience: []string{"reelbase"},
	}
	otp := &service.OTPService{OTPs: st.OTPEntries(), Mailer: mailer}
	auth := &service.AuthService{Store: st, OTP: otp, Tokens: tokens}
	external := &service.ExternalLoginService{Store: st, Tokens: tokens, Providers: providers}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	router := authhttp.NewRouter(verifier, "test", st, nil, authhttp.CookieSettings{}, logger)
	router.AuthService = auth
	router.TokenService = tokens
	router.ExternalService = external
	router.FrontendRedirectURL = frontendURL
	router.ApplyRoutes()

	return &testServer{Router: router, Mailer: mailer, Store: st}
}

// doJSON sends a JSON request through the router. Each caller supplies its
// own client IP so rate limit buckets don't bleed across tests.
func (s *testServer) doJSON(t *testing.T, method, path, ip string, body any, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.RemoteAddr = ip + ":12345"
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	s.Router.ServeHTTP(rec, req)
	return rec
}

func refreshCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == "refresh_token" {
			return c
		}
	}
	t.Fatal("no refresh_token cookie set")
	return nil
}

// registerUser walks register → verify-otp for a fresh account.
func (s *testServer) registerUser(t *testing.T, ip, email, password string) {
	t.Helper()

	rec := s.doJSON(t, http.MethodPost, "/api/auth/register", ip, map[string]string{
		"email": email, "password": password,
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.doJSON(t, http.MethodPost, "/api/auth/verify-otp", ip, map[string]string{
		"email": email, "otp": s.Mailer.lastCode(email), "password": password,
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestRegistrationEndpoints(t *testing.T) {
	t.Run("full registration flow", func(t *testing.T) {
		s := newTestServer(t, nil, "")
		s.registerUser(t, "10.0.0.1", "new@x.com", "pw123456")
	})

	t.Run("invalid email rejected", func(t *testing.T) {
		s := newTestServer(t, nil, "")
		rec := s.doJSON(t, http.MethodPost, "/api/auth/register", "10.0.0.2", map[string]string{
			"email": "not-an-email", "password": "pw123456",
		}, nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed body rejected", func(t *testing.T) {
		s := newTestServer(t, nil, "")
		req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewBufferString("{"))
		req.RemoteAddr = "10.0.0.3:1"
		rec := httptest.NewRecorder()
		s.Router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("wrong otp rejected", func(t *testing.T) {
		s := newTestServer(t, nil, "")
		rec := s.doJSON(t, http.MethodPost, "/api/auth/register", "10.0.0.4", map[string]string{
			"email": "a@x.com", "password": "pw123456",
		}, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = s.doJSON(t, http.MethodPost, "/api/auth/verify-otp", "10.0.0.4", map[string]string{
			"email": "a@x.com", "otp": "000000", "password": "pw123456",
		}, nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("duplicate email conflicts at verification", func(t *testing.T) {
		s := newTestServer(t, nil, "")
		s.registerUser(t, "10.0.0.5", "dup@x.com", "pw123456")

		rec := s.doJSON(t, http.MethodPost, "/api/auth/send-otp", "10.0.0.6", map[string]string{
			"email": "dup@x.com",
		}, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = s.doJSON(t, http.MethodPost, "/api/auth/verify-otp", "10.0.0.6", map[string]string{
			"email": "dup@x.com", "otp": s.Mailer.lastCode("dup@x.com"), "password": "other",
		}, nil)
		require.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestSessionEndpoints(t *testing.T) {
	t.Run("login issues access token and refresh cookie", func(t *testing.T) {
		s := newTestServer(t, nil, "")
		s.registerUser(t, "10.0.1.1", "login@x.com", "pw123456")

		rec := s.doJSON(t, http.MethodPost, "/api/auth/login", "10.0.1.2", map[string]string{
			"email": "login@x.com", "password": "pw123456",
		}, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))

		var body struct {
			AccessToken string `json:"access_token"`
			TokenType   string `json:"token_type"`
			ExpiresIn   int64  `json:"expires_in"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.NotEmpty(t, body.AccessToken)
		require.Equal(t, "Bearer", body.TokenType)
		require.Equal(t, int64(3600), body.ExpiresIn)

		cookie := refreshCookie(t, rec)
		require.True(t, cookie.HttpOnly)
		require.Equal(t, "/api/auth", cookie.Path)
		require.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
		require.NotEmpty(t, cookie.Value)
	})

	t.Run("wrong password is 401 with no cookie", func(t *testing.T) {
		s := newTestServer(t, nil, "")
		s.registerUser(t, "10.0.1.3", "wrong@x.com", "pw123456")

		rec := s.doJSON(t, http.MethodPost, "/api/auth/login", "10.0.1.4", map[string]string{
			"email": "wrong@x.com", "password": "nope",
		}, nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Empty(t, rec.Result().Cookies())
	})

	t.Run("refresh rotates the cookie token", func(t *testing.T) {
		s := newTestServer(t, nil, "")
		s.registerUser(t, "10.0.1.5", "rot@x.com", "pw123456")

		login := s.doJSON(t, http.MethodPost, "/api/auth/login", "10.0.1.6", map[string]string{
			"email": "rot@x.com", "password": "pw123456",
		}, nil)
		require.Equal(t, http.StatusOK, login.Code)
		oldCookie := refreshCookie(t, login)

		refresh := s.doJSON(t, http.MethodPost, "/api/auth/refresh-token", "10.0.1.6", nil,
			[]*http.Cookie{oldCookie})
		require.Equal(t, http.StatusOK, refresh.Code, refresh.Body.String())
		newCookie := refreshCookie(t, refresh)
		require.NotEqual(t, oldCookie.Value, newCookie.Value)

		// The old token is dead after rotation.
		replay := s.doJSON(t, http.MethodPost, "/api/auth/refresh-token", "10.0.1.6", nil,
			[]*http.Cookie{oldCookie})
		require.Equal(t, http.StatusUnauthorized, replay.Code)

		// The new one still works.
		again := s.doJSON(t, http.MethodPost, "/api/auth/refresh-token", "10.0.1.6", nil,
			[]*http.Cookie{newCookie})
		require.Equal(t, http.StatusOK, again.Code)
	})

	t.Run("refresh accepts the token in the body", func(t *testing.T) {
		s := newTestServer(t, nil, "")
		s.registerUser(t, "10.0.1.7", "body@x.com", "pw123456")

		login := s.doJSON(t, http.MethodPost, "/api/auth/login", "10.0.1.8", map[string]string{
			"email": "body@x.com", "password": "pw123456",
		}, nil)
		cookie := refreshCookie(t, login)

		rec := s.doJSON(t, http.MethodPost, "/api/auth/refresh-token", "10.0.1.8", map[string]string{
			"refresh_token": cookie.Value,
		}, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	})

	t.Run("refresh without a token is 401", func(t *testing.T) {
		s := newTestServer(t, nil, "")
		rec := s.doJSON(t, http.MethodPost, "/api/auth/refresh-token", "10.0.1.9", nil, nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("logout revokes and clears the cookie", func(t *testing.T) {
		s := newTestServer(t, nil, "")
		s.registerUser(t, "10.0.1.10", "out@x.com", "pw123456")

		login := s.doJSON(t, http.MethodPost, "/api/auth/login", "10.0.1.11", map[string]string{
			"email": "out@x.com", "password": "pw123456",
		}, nil)
		cookie := refreshCookie(t, login)

		logout := s.doJSON(t, http.MethodPost, "/api/auth/logout", "10.0.1.11", nil,
			[]*http.Cookie{cookie})
		require.Equal(t, http.StatusOK, logout.Code)
		cleared := refreshCookie(t, logout)
		require.Empty(t, cleared.Value)
		require.Negative(t, cleared.MaxAge)

		// The revoked token no longer refreshes.
		rec := s.doJSON(t, http.MethodPost, "/api/auth/refresh-token", "10.0.1.11", nil,
			[]*http.Cookie{cookie})
		require.Equal(t, http.StatusUnauthorized, rec.Code)

		// Logout again is still 200.
		again := s.doJSON(t, http.MethodPost, "/api/auth/logout", "10.0.1.11", nil,
			[]*http.Cookie{cookie})
		require.Equal(t, http.StatusOK, again.Code)
	})
}

func TestMeEndpoint(t *testing.T) {
	t.Run("returns the authenticated user", func(t *testing.T) {
		s := newTestServer(t, nil, "")
		s.registerUser(t, "10.0.2.1", "me@x.com", "pw123456")

		login := s.doJSON(t, http.MethodPost, "/api/auth/login", "10.0.2.2", map[string]string{
			"email": "me@x.com", "password": "pw123456",
		}, nil)
		var tokens struct {
			AccessToken string `json:"access_token"`
		}
		require.NoError(t, json.Unmarshal(login.Body.Bytes(), &tokens))

		req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
		req.RemoteAddr = "10.0.2.2:1"
		req.Header.Set("Authorization", "Bearer "+tokens.AccessToken)
		rec := httptest.NewRecorder()
		s.Router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var me struct {
			Email string `json:"email"`
			Role  string `json:"role"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
		require.Equal(t, "me@x.com", me.Email)
		require.Equal(t, "user", me.Role)
	})

	t.Run("missing and garbage tokens are 401", func(t *testing.T) {
		s := newTestServer(t, nil, "")

		req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
		req.RemoteAddr = "10.0.2.3:1"
		rec := httptest.NewRecorder()
		s.Router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusUnauthorized, rec.Code)

		req = httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
		req.RemoteAddr = "10.0.2.3:1"
		req.Header.Set("Authorization", "Bearer garbage")
		rec = httptest.NewRecorder()
		s.Router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

// createAdmin seeds an admin account directly; registration only produces
// regular users.
func (s *testServer) createAdmin(t *testing.T, email, password string) string {
	t.Helper()

	hash, err := cryptox.HashPassword(password)
	require.NoError(t, err)

	id := idx.New().String()
	require.NoError(t, s.Store.Users().CreateUser(context.Background(), domain.User{
		ID:           id,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
	}))
	return id
}

// loginToken logs in and returns the access token from the response body.
func (s *testServer) loginToken(t *testing.T, ip, email, password string) string {
	t.Helper()

	rec := s.doJSON(t, http.MethodPost, "/api/auth/login", ip, map[string]string{
		"email": email, "password": password,
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.AccessToken
}

func (s *testServer) getWithBearer(t *testing.T, path, ip, token string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.RemoteAddr = ip + ":1"
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.Router.ServeHTTP(rec, req)
	return rec
}

func TestUsersEndpoint(t *testing.T) {
	t.Run("admin can look up any account", func(t *testing.T) {
		s := newTestServer(t, nil, "")
		s.registerUser(t, "10.0.6.1", "subject@x.com", "pw123456")
		s.createAdmin(t, "admin@x.com", "adminpw1")

		subject, err := s.Store.Users().GetUserByEmail(context.Background(), "subject@x.com")
		require.NoError(t, err)

		token := s.loginToken(t, "10.0.6.2", "admin@x.com", "adminpw1")
		rec := s.getWithBearer(t, "/api/auth/users/"+subject.ID, "10.0.6.2", token)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var got struct {
			ID    string `json:"id"`
			Email string `json:"email"`
			Role  string `json:"role"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		require.Equal(t, subject.ID, got.ID)
		require.Equal(t, "subject@x.com", got.Email)
		require.Equal(t, "user", got.Role)
	})

	t.Run("regular user is forbidden", func(t *testing.T) {
		s := newTestServer(t, nil, "")
		s.registerUser(t, "10.0.6.3", "pleb@x.com", "pw123456")
		adminID := s.createAdmin(t, "admin2@x.com", "adminpw1")

		token := s.loginToken(t, "10.0.6.4", "pleb@x.com", "pw123456")
		rec := s.getWithBearer(t, "/api/auth/users/"+adminID, "10.0.6.4", token)
		require.Equal(t, http.StatusForbidden, rec.Code)

		var body struct {
			Error string `json:"error"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Equal(t, "forbidden", body.Error)
	})

	t.Run("unknown id is 404 for an admin", func(t *testing.T) {
		s := newTestServer(t, nil, "")
		s.createAdmin(t, "admin3@x.com", "adminpw1")

		token := s.loginToken(t, "10.0.6.5", "admin3@x.com", "adminpw1")
		rec := s.getWithBearer(t, "/api/auth/users/no-such-id", "10.0.6.5", token)
		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("missing token is 401", func(t *testing.T) {
		s := newTestServer(t, nil, "")

		rec := s.getWithBearer(t, "/api/auth/users/whatever", "10.0.6.6", "")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestPasswordEndpoints(t *testing.T) {
	t.Run("forgot and reset flow", func(t *testing.T) {
		s := newTestServer(t, nil, "")
		s.registerUser(t, "10.0.3.1", "reset@x.com", "old-pw")

		rec := s.doJSON(t, http.MethodPost, "/api/auth/forgot-password", "10.0.3.2", map[string]string{
			"email": "reset@x.com",
		}, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = s.doJSON(t, http.MethodPost, "/api/auth/reset-password", "10.0.3.2", map[string]string{
			"email": "reset@x.com", "otp": s.Mailer.lastCode("reset@x.com"), "password": "new-pw",
		}, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		// Old password dead, new one works.
		rec = s.doJSON(t, http.MethodPost, "/api/auth/login", "10.0.3.3", map[string]string{
			"email": "reset@x.com", "password": "old-pw",
		}, nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)

		rec = s.doJSON(t, http.MethodPost, "/api/auth/login", "10.0.3.3", map[string]string{
			"email": "reset@x.com", "password": "new-pw",
		}, nil)
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("forgot for unknown email is 400", func(t *testing.T) {
		s := newTestServer(t, nil, "")
		rec := s.doJSON(t, http.MethodPost, "/api/auth/forgot-password", "10.0.3.4", map[string]string{
			"email": "ghost@x.com",
		}, nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestExternalEndpoints(t *testing.T) {
	newProvider := func(t *testing.T) (map[string]service.ProviderConfig, *httptest.Server) {
		t.Helper()
		mux := http.NewServeMux()
		mux.HandleFunc("POST /token", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{"access_token": "prov-token"})
		})
		mux.HandleFunc("GET /userinfo", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]any{"sub": "sub-1", "email": "ext@x.com"})
		})
		srv := httptest.NewServer(mux)
		t.Cleanup(srv.Close)

		return map[string]service.ProviderConfig{
			"fakebook": {
				Name:        "Fakebook",
				ClientID:    "cid",
				AuthURL:     srv.URL + "/authorize",
				TokenURL:    srv.URL + "/token",
				UserInfoURL: srv.URL + "/userinfo",
				RedirectURI: "http://localhost/api/auth/external-login-callback",
				Scopes:      []string{"openid", "email"},
			},
		}, srv
	}

	t.Run("start redirects to the provider", func(t *testing.T) {
		providers, _ := newProvider(t)
		s := newTestServer(t, providers, "")

		req := httptest.NewRequest(http.MethodGet, "/api/auth/login/fakebook", nil)
		req.RemoteAddr = "10.0.4.1:1"
		rec := httptest.NewRecorder()
		s.Router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusFound, rec.Code)
		loc, err := url.Parse(rec.Header().Get("Location"))
		require.NoError(t, err)
		require.NotEmpty(t, loc.Query().Get("state"))
		require.Equal(t, "S256", loc.Query().Get("code_challenge_method"))
	})

	t.Run("unknown provider is 404", func(t *testing.T) {
		s := newTestServer(t, nil, "")
		req := httptest.NewRequest(http.MethodGet, "/api/auth/login/myspace", nil)
		req.RemoteAddr = "10.0.4.2:1"
		rec := httptest.NewRecorder()
		s.Router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("callback sets cookie and redirects to the frontend", func(t *testing.T) {
		providers, _ := newProvider(t)
		s := newTestServer(t, providers, "http://frontend.example.com/welcome")

		start := httptest.NewRequest(http.MethodGet, "/api/auth/login/fakebook", nil)
		start.RemoteAddr = "10.0.4.3:1"
		startRec := httptest.NewRecorder()
		s.Router.ServeHTTP(startRec, start)
		loc, err := url.Parse(startRec.Header().Get("Location"))
		require.NoError(t, err)
		state := loc.Query().Get("state")

		cb := httptest.NewRequest(http.MethodGet,
			"/api/auth/external-login-callback?state="+url.QueryEscape(state)+"&code=abc", nil)
		cb.RemoteAddr = "10.0.4.3:1"
		cbRec := httptest.NewRecorder()
		s.Router.ServeHTTP(cbRec, cb)

		require.Equal(t, http.StatusFound, cbRec.Code, cbRec.Body.String())
		redirect, err := url.Parse(cbRec.Header().Get("Location"))
		require.NoError(t, err)
		require.Equal(t, "frontend.example.com", redirect.Host)
		require.NotEmpty(t, redirect.Query().Get("access_token"))
		require.NotEmpty(t, refreshCookie(t, cbRec).Value)
	})

	t.Run("callback with bogus state is 401", func(t *testing.T) {
		s := newTestServer(t, nil, "")
		req := httptest.NewRequest(http.MethodGet,
			"/api/auth/external-login-callback?state=nope&code=abc", nil)
		req.RemoteAddr = "10.0.4.4:1"
		rec := httptest.NewRecorder()
		s.Router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("callback with provider error is 502", func(t *testing.T) {
		s := newTestServer(t, nil, "")
		req := httptest.NewRequest(http.MethodGet,
			"/api/auth/external-login-callback?error=access_denied", nil)
		req.RemoteAddr = "10.0.4.5:1"
		rec := httptest.NewRecorder()
		s.Router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusBadGateway, rec.Code)
	})
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t, nil, "")

	req := httptest.NewRequest(http.MethodGet, "/livez", nil)
	req.RemoteAddr = "10.0.5.1:1"
	rec := httptest.NewRecorder()
	s.Router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/readyz", nil)
	req.RemoteAddr = "10.0.5.1:1"
	rec = httptest.NewRecorder()
	s.Router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var health struct {
		Status string `json:"status"`
		Checks struct {
			Database string `json:"database"`
		} `json:"checks"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	require.Equal(t, "ok", health.Status)
	require.Equal(t, "ok", health.Checks.Database)
}

func TestRateLimiting(t *testing.T) {
	s := newTestServer(t, nil, "")

	// The login limiter allows a burst of 5 per IP; the 6th in the same
	// minute is turned away.
	var last *httptest.ResponseRecorder
	for range 6 {
		last = s.doJSON(t, http.MethodPost, "/api/auth/login", "10.0.6.1", map[string]string{
			"email": "nobody@x.com", "password": "pw",
		}, nil)
	}
	require.Equal(t, http.StatusTooManyRequests, last.Code)
	require.NotEmpty(t, last.Header().Get("Retry-After"))

	// A different IP is unaffected.
	other := s.doJSON(t, http.MethodPost, "/api/auth/login", "10.0.6.2", map[string]string{
		"email": "nobody@x.com", "password": "pw",
	}, nil)
	require.Equal(t, http.StatusUnauthorized, other.Code)
}
