package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type socialStore struct {
	pool *pgxpool.Pool
}

// NewSocialStore returns the PostgreSQL-backed SocialStore.
func NewSocialStore(pool *pgxpool.Pool) SocialStore {
	return &socialStore{pool: pool}
}

const socialColumns = `id, social_id, name, email, picture, auth_provider, created_at`

func scanSocial(row interface{ Scan(dest ...any) error }) (Social, error) {
	var s Social
	err := row.Scan(&s.ID, &s.SocialID, &s.Name, &s.Email, &s.Picture, &s.AuthProvider, &s.CreatedAt)
	return s, err
}

// Upsert inserts the social account or refreshes its profile fields when the
// subject id is already known. Provider profiles drift (name and picture
// change on the provider side), so every sign-in rewrites them.
func (s *socialStore) Upsert(ctx context.Context, social Social) (Social, error) {
	const q = `
INSERT INTO socials (social_id, name, email, picture, auth_provider)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (social_id) DO UPDATE
SET name = EXCLUDED.name, email = EXCLUDED.email, picture = EXCLUDED.picture
RETURNING ` + socialColumns

	return scanSocial(s.pool.QueryRow(ctx, q, social.SocialID, social.Name, social.Email, social.Picture, social.AuthProvider))
}

func (s *socialStore) GetBySocialID(ctx context.Context, socialID string) (Social, error) {
	const q = `SELECT ` + socialColumns + ` FROM socials WHERE social_id = $1`

	return scanSocial(s.pool.QueryRow(ctx, q, socialID))
}

func (s *socialStore) ExistsBySocialID(ctx context.Context, socialID string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM socials WHERE social_id = $1)`

	var exists bool
	err := s.pool.QueryRow(ctx, q, socialID).Scan(&exists)
	return exists, err
}

func (s *socialStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM socials WHERE email = $1)`

	var exists bool
	err := s.pool.QueryRow(ctx, q, email).Scan(&exists)
	return exists, err
}

func (s *socialStore) Delete(ctx context.Context, socialID string) error {
	const q = `DELETE FROM socials WHERE social_id = $1`

	_, err := s.pool.Exec(ctx, q, socialID)
	return err
}
