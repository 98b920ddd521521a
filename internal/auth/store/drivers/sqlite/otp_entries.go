package sqlite

import (
	"context"
	"time"

	"github.com/reelbase/reelbase/internal/auth/domain"
)

type otpEntriesRepo struct {
	db querier
}

func (r *otpEntriesRepo) UpsertOTPEntry(ctx context.Context, e domain.OTPEntry) error {
	// A fresh code replaces any pending one for the address.
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO otp_entries (email, code, expires_at, created_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT (email) DO UPDATE SET
		   code = excluded.code,
		   expires_at = excluded.expires_at,
		   created_at = excluded.created_at`,
		e.Email, e.Code, e.ExpiresAt.UTC(), time.Now().UTC())
	return err
}

func (r *otpEntriesRepo) GetOTPEntry(ctx context.Context, email string) (domain.OTPEntry, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT email, code, expires_at, created_at FROM otp_entries WHERE email = ?`, email)

	var e domain.OTPEntry
	if err := row.Scan(&e.Email, &e.Code, &e.ExpiresAt, &e.CreatedAt); err != nil {
		return domain.OTPEntry{}, mapNotFound(err)
	}
	return e, nil
}

func (r *otpEntriesRepo) DeleteOTPEntry(ctx context.Context, email string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM otp_entries WHERE email = ?`, email)
	return err
}

func (r *otpEntriesRepo) DeleteExpiredOTPEntries(ctx context.Context, now time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM otp_entries WHERE expires_at < ?`, now.UTC())
	return err
}
