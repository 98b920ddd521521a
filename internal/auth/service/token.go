package service

import (
	"context"
	"errors"
	"time"

	"github.com/reelbase/reelbase/internal/auth/domain"
	"github.com/reelbase/reelbase/internal/auth/store"
	"github.com/reelbase/reelbase/pkg/cryptox"
	"github.com/reelbase/reelbase/pkg/idx"
	"github.com/reelbase/reelbase/pkg/jwtx"
	"github.com/reelbase/reelbase/pkg/slogx"
)

// TokenService issues access/refresh token pairs and handles refresh
// rotation and revocation. Refresh tokens are opaque random values; only
// their fingerprints are persisted.
type TokenService struct {
	Signer     jwtx.Signer
	Store      store.Store
	Issuer     string
	Audience   []string
	AccessTTL  time.Duration
	RefreshTTL time.Duration

	// Now is swappable for tests; nil means time.Now.
	Now func() time.Time
}

func (s *TokenService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *TokenService) accessTTL() time.Duration {
	if s.AccessTTL > 0 {
		return s.AccessTTL
	}
	return jwtx.DefaultAccessTokenTTL
}

func (s *TokenService) refreshTTL() time.Duration {
	if s.RefreshTTL > 0 {
		return s.RefreshTTL
	}
	return jwtx.DefaultRefreshTokenTTL
}

// RefreshTokenTTL exposes the effective refresh TTL (used to size cookies).
func (s *TokenService) RefreshTokenTTL() time.Duration { return s.refreshTTL() }

// IssueTokens mints a fresh access/refresh pair for an authenticated user.
func (s *TokenService) IssueTokens(ctx context.Context, u domain.User) (*domain.TokenPair, error) {
	now := s.now()

	accessToken, err := s.signAccess(u, now)
	if err != nil {
		return nil, err
	}

	refreshOpaque, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return nil, err
	}

	rt := domain.RefreshToken{
		ID:        idx.New().String(),
		UserID:    u.ID,
		TokenHash: cryptox.FingerprintToken(refreshOpaque),
		ExpiresAt: now.Add(s.refreshTTL()),
	}
	if err := s.Store.RefreshTokens().CreateRefreshToken(ctx, rt); err != nil {
		return nil, err
	}

	return &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshOpaque,
		TokenType:    "Bearer",
		ExpiresIn:    s.accessTTL(),
	}, nil
}

// Refresh rotates a refresh token: the presented token is revoked and a
// brand-new pair is issued for the same user, atomically.
//
// All failure modes (not found, revoked, expired) collapse into
// ErrInvalidRefresh so callers cannot probe token state. Reuse of an
// already-rotated token is rejected but does not revoke the user's other
// tokens; full replay detection is a known hardening gap.
func (s *TokenService) Refresh(ctx context.Context, refreshOpaque string) (*domain.TokenPair, error) {
	now := s.now()
	l := slogx.FromContext(ctx)

	// 1. Lookup the persisted refresh row by token fingerprint
	fp := cryptox.FingerprintToken(refreshOpaque)
	rt, err := s.Store.RefreshTokens().GetRefreshTokenByHash(ctx, fp)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidRefresh
		}
		return nil, err
	}

	// 2. Validate token is not revoked or expired
	if rt.Revoked || rt.Expired(now) {
		return nil, ErrInvalidRefresh
	}

	// 3. Load the owning user
	u, err := s.Store.Users().GetUserByID(ctx, rt.UserID)
	if err != nil {
		return nil, err
	}

	// 4. Issue new access token
	accessToken, err := s.signAccess(u, now)
	if err != nil {
		return nil, err
	}

	// 5. Rotation: generate new refresh token, revoke old one in a single
	// transaction so a crash cannot leave both (or neither) valid.
	newRefreshOpaque, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return nil, err
	}

	newRT := domain.RefreshToken{
		ID:        idx.New().String(),
		UserID:    u.ID,
		TokenHash: cryptox.FingerprintToken(newRefreshOpaque),
		ExpiresAt: now.Add(s.refreshTTL()),
	}

	if err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.RefreshTokens().RevokeRefreshToken(ctx, fp); err != nil {
			return err
		}
		return tx.RefreshTokens().CreateRefreshToken(ctx, newRT)
	}); err != nil {
		return nil, err
	}

	// Opportunistic purge of dead rows; failures only get logged.
	if err := s.Store.RefreshTokens().DeleteExpiredRefreshTokens(ctx, now); err != nil {
		l.Warn("failed to purge expired refresh tokens", "err", err)
	}

	return &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: newRefreshOpaque,
		TokenType:    "Bearer",
		ExpiresIn:    s.accessTTL(),
	}, nil
}

// ValidateRefresh resolves a refresh token to its owning user without
// consuming it. Any failure collapses into ErrInvalidRefresh.
func (s *TokenService) ValidateRefresh(ctx context.Context, refreshOpaque string) (domain.User, error) {
	rt, err := s.Store.RefreshTokens().GetRefreshTokenByHash(ctx, cryptox.FingerprintToken(refreshOpaque))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrInvalidRefresh
		}
		return domain.User{}, err
	}
	if rt.Revoked || rt.Expired(s.now()) {
		return domain.User{}, ErrInvalidRefresh
	}

	u, err := s.Store.Users().GetUserByID(ctx, rt.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrInvalidRefresh
		}
		return domain.User{}, err
	}
	return u, nil
}

// Revoke marks the presented refresh token revoked. Idempotent: unknown or
// already-revoked tokens are a no-op.
func (s *TokenService) Revoke(ctx context.Context, refreshOpaque string) error {
	if refreshOpaque == "" {
		return nil
	}
	return s.Store.RefreshTokens().RevokeRefreshToken(ctx, cryptox.FingerprintToken(refreshOpaque))
}

// RevokeAllForUser bulk-revokes every live refresh token a user holds
// (e.g. after a password reset).
func (s *TokenService) RevokeAllForUser(ctx context.Context, userID string) error {
	return s.Store.RefreshTokens().RevokeAllUserRefreshTokens(ctx, userID)
}

func (s *TokenService) signAccess(u domain.User, now time.Time) (string, error) {
	claims := jwtx.NewAccessClaims(u.ID, u.Email, u.Role.String(), s.accessTTL(), s.Issuer, s.Audience, now)
	return s.Signer.Sign(claims)
}
