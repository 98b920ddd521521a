package sqlite

import (
	"context"
	"time"

	"github.com/reelbase/reelbase/internal/auth/domain"
)

type identitiesRepo struct {
	db querier
}

func (r *identitiesRepo) GetIdentity(
	ctx context.Context,
	provider, providerUserID string,
) (domain.ExternalIdentity, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT provider, provider_user_id, user_id, email, created_at, updated_at
		 FROM external_identities WHERE provider = ? AND provider_user_id = ?`,
		provider, providerUserID)

	var id domain.ExternalIdentity
	if err := row.Scan(&id.Provider, &id.ProviderUserID, &id.UserID, &id.Email, &id.CreatedAt, &id.UpdatedAt); err != nil {
		return domain.ExternalIdentity{}, mapNotFound(err)
	}
	return id, nil
}

func (r *identitiesRepo) UpsertIdentity(ctx context.Context, id domain.ExternalIdentity) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO external_identities (provider, provider_user_id, user_id, email, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT (provider, provider_user_id) DO UPDATE SET
		   email = excluded.email,
		   updated_at = excluded.updated_at`,
		id.Provider, id.ProviderUserID, id.UserID, id.Email, now, now)
	return err
}
