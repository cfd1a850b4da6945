package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"travelog/internal/app/db"
)

type likeStore struct {
	pool *pgxpool.Pool
}

// NewLikeStore returns the PostgreSQL-backed LikeStore.
func NewLikeStore(pool *pgxpool.Pool) LikeStore {
	return &likeStore{pool: pool}
}

// Add records a like and bumps the post's denormalized counter in one
// transaction. Liking a post twice is a no-op.
func (s *likeStore) Add(ctx context.Context, userID, userType string, postID int64) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	const insert = `INSERT INTO likes (user_id, user_type, post_id) VALUES ($1, $2, $3)`
	if _, err := tx.Exec(ctx, insert, userID, userType, postID); err != nil {
		if db.IsUniqueViolation(err) {
			return nil
		}
		return err
	}

	const bump = `UPDATE posts SET likes = likes + 1 WHERE id = $1`
	if _, err := tx.Exec(ctx, bump, postID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// Remove deletes a like and decrements the post's counter. Removing a like
// that does not exist leaves the counter untouched.
func (s *likeStore) Remove(ctx context.Context, userID, userType string, postID int64) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	const del = `DELETE FROM likes WHERE user_id = $1 AND user_type = $2 AND post_id = $3`
	tag, err := tx.Exec(ctx, del, userID, userType, postID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return tx.Commit(ctx)
	}

	const drop = `UPDATE posts SET likes = GREATEST(likes - 1, 0) WHERE id = $1`
	if _, err := tx.Exec(ctx, drop, postID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (s *likeStore) IsLiked(ctx context.Context, userID, userType string, postID int64) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM likes WHERE user_id = $1 AND user_type = $2 AND post_id = $3)`

	var liked bool
	err := s.pool.QueryRow(ctx, q, userID, userType, postID).Scan(&liked)
	return liked, err
}

func (s *likeStore) Count(ctx context.Context, postID int64) (int, error) {
	const q = `SELECT COUNT(*) FROM likes WHERE post_id = $1`

	var n int
	err := s.pool.QueryRow(ctx, q, postID).Scan(&n)
	return n, err
}
