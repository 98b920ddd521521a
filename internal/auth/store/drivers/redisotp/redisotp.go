// Package redisotp stores pending one-time codes in redis instead of sqlite.
// Expiry is delegated to redis TTLs, which keeps multi-instance deployments
// from each needing housekeeping sweeps over the otp_entries table.
package redisotp

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/reelbase/reelbase/internal/auth/domain"
	"github.com/reelbase/reelbase/internal/auth/store"
)

const keyPrefix = "otp:"

// Repo implements store.OTPEntries on top of a redis client.
type Repo struct {
	rdb *redis.Client
}

func New(addr string) *Repo {
	return &Repo{rdb: redis.NewClient(&redis.Options{Addr: addr})}
}

// NewWithClient wraps an existing client, mainly for tests.
func NewWithClient(rdb *redis.Client) *Repo {
	return &Repo{rdb: rdb}
}

func (r *Repo) Close() error { return r.rdb.Close() }

func (r *Repo) Ping(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}

type entryPayload struct {
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

func (r *Repo) UpsertOTPEntry(ctx context.Context, e domain.OTPEntry) error {
	ttl := time.Until(e.ExpiresAt)
	if ttl <= 0 {
		return nil // already expired, nothing to store
	}

	payload, err := json.Marshal(entryPayload{
		Code:      e.Code,
		ExpiresAt: e.ExpiresAt.UTC(),
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	return r.rdb.Set(ctx, keyPrefix+e.Email, payload, ttl).Err()
}

func (r *Repo) GetOTPEntry(ctx context.Context, email string) (domain.OTPEntry, error) {
	raw, err := r.rdb.Get(ctx, keyPrefix+email).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.OTPEntry{}, store.ErrNotFound
	}
	if err != nil {
		return domain.OTPEntry{}, err
	}

	var p entryPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return domain.OTPEntry{}, err
	}
	return domain.OTPEntry{
		Email:     email,
		Code:      p.Code,
		ExpiresAt: p.ExpiresAt,
		CreatedAt: p.CreatedAt,
	}, nil
}

func (r *Repo) DeleteOTPEntry(ctx context.Context, email string) error {
	return r.rdb.Del(ctx, keyPrefix+email).Err()
}

// DeleteExpiredOTPEntries is a no-op; redis evicts expired keys itself.
func (r *Repo) DeleteExpiredOTPEntries(ctx context.Context, now time.Time) error { return nil }
