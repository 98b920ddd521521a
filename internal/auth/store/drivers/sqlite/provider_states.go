package sqlite

import (
	"context"
	"time"

	"github.com/reelbase/reelbase/internal/auth/domain"
)

type providerStatesRepo struct {
	db querier
}

func (r *providerStatesRepo) CreateProviderState(ctx context.Context, s domain.ProviderState) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO provider_states (state, provider, code_verifier, redirect_uri, expires_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		s.State, s.Provider, s.CodeVerifier, s.RedirectURI, s.ExpiresAt.UTC(), time.Now().UTC())
	return mapConstraint(err)
}

func (r *providerStatesRepo) GetProviderState(ctx context.Context, state string) (domain.ProviderState, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT state, provider, code_verifier, redirect_uri, expires_at, created_at
		 FROM provider_states WHERE state = ?`, state)

	var s domain.ProviderState
	if err := row.Scan(&s.State, &s.Provider, &s.CodeVerifier, &s.RedirectURI, &s.ExpiresAt, &s.CreatedAt); err != nil {
		return domain.ProviderState{}, mapNotFound(err)
	}
	return s, nil
}

func (r *providerStatesRepo) DeleteProviderState(ctx context.Context, state string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM provider_states WHERE state = ?`, state)
	return err
}

func (r *providerStatesRepo) DeleteExpiredProviderStates(ctx context.Context, now time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM provider_states WHERE expires_at < ?`, now.UTC())
	return err
}
