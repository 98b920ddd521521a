package authsdk

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"
)

// Session represents an authenticated session with the auth service.
// The access token is held in memory; the refresh token lives in the
// client's cookie jar and is rotated by the service on every refresh.
// Sessions are safe for concurrent use.
type Session struct {
	client *SDKClient

	mu          sync.Mutex
	accessToken string
	expiresAt   time.Time
}

func newSession(c *SDKClient, tokens *TokenResponse) *Session {
	expiresAt := time.Now().Add(time.Duration(tokens.ExpiresIn) * time.Second)
	expiresAt = expiresAt.Add(-30 * time.Second) // refresh a little early

	return &Session{
		client:      c,
		accessToken: tokens.AccessToken,
		expiresAt:   expiresAt,
	}
}

// AccessToken returns the current access token.
func (s *Session) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken
}

// Refresh rotates the session's tokens regardless of expiry.
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshLocked(ctx)
}

// getValidToken returns an access token, refreshing first when the current
// one is at or past its expiry buffer.
func (s *Session) getValidToken(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if time.Now().After(s.expiresAt) {
		if err := s.refreshLocked(ctx); err != nil {
			return "", err
		}
	}
	return s.accessToken, nil
}

func (s *Session) refreshLocked(ctx context.Context) error {
	resp, err := s.client.postJSON(ctx, "/api/auth/refresh-token", nil)
	if err != nil {
		return err
	}

	var tokens TokenResponse
	if err := decodeJSON(resp, &tokens, http.StatusOK); err != nil {
		return err
	}

	s.accessToken = tokens.AccessToken
	s.expiresAt = time.Now().Add(time.Duration(tokens.ExpiresIn)*time.Second - 30*time.Second)
	return nil
}

// Logout revokes the refresh token server-side and drops the access token.
func (s *Session) Logout(ctx context.Context) error {
	resp, err := s.client.postJSON(ctx, "/api/auth/logout", nil)
	if err != nil {
		return err
	}
	if err := decodeJSON(resp, &MessageResponse{}, http.StatusOK); err != nil {
		return err
	}

	s.mu.Lock()
	s.accessToken = ""
	s.expiresAt = time.Time{}
	s.mu.Unlock()
	return nil
}

// Me returns the account behind this session.
func (s *Session) Me(ctx context.Context) (*UserResponse, error) {
	token, err := s.getValidToken(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.client.url("/api/auth/me"), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := s.client.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	var user UserResponse
	if err := decodeJSON(resp, &user, http.StatusOK); err != nil {
		return nil, err
	}
	return &user, nil
}
