package store

import (
	"context"
	"time"
)

// --- Revocation list ---

// Revoke records jti as logged out. Revoking twice is not an error.
func (s *Store) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO revoked_tokens (jti, created_at, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (jti) DO NOTHING`,
		jti, time.Now().UTC(), expiresAt,
	)
	if err != nil {
		logg.Error("Failed to revoke token", err)
		return mapErr(err)
	}
	return nil
}

func (s *Store) IsRevoked(ctx context.Context, jti string) (bool, error) {
	var revoked bool
	err := s.Pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM revoked_tokens WHERE jti = $1)`, jti,
	).Scan(&revoked)
	return revoked, mapErr(err)
}

// PruneRevoked drops records of tokens that have expired anyway.
func (s *Store) PruneRevoked(ctx context.Context, now time.Time) (int64, error) {
	tag, err := s.Pool.Exec(ctx, `DELETE FROM revoked_tokens WHERE expires_at < $1`, now)
	if err != nil {
		return 0, mapErr(err)
	}
	return tag.RowsAffected(), nil
}
