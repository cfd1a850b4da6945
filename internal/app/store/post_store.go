package store

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postStore struct {
	pool *pgxpool.Pool
}

// NewPostStore returns the PostgreSQL-backed PostStore.
func NewPostStore(pool *pgxpool.Pool) PostStore {
	return &postStore{pool: pool}
}

const postColumns = `id, user_id, user_nickname, auth_provider, social_id, post_title, post_content, place_list, image_urls, likes, created_at`

func scanPost(row interface{ Scan(dest ...any) error }) (Post, error) {
	var p Post
	err := row.Scan(&p.ID, &p.UserID, &p.UserNickname, &p.AuthProvider, &p.SocialID,
		&p.Title, &p.Content, &p.PlaceList, &p.ImageURLs, &p.Likes, &p.CreatedAt)
	return p, err
}

func collectPosts(rows pgx.Rows) ([]Post, error) {
	defer rows.Close()

	var posts []Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

func (s *postStore) Create(ctx context.Context, p Post) (Post, error) {
	const q = `
INSERT INTO posts (user_id, user_nickname, auth_provider, social_id, post_title, post_content, place_list, image_urls)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING ` + postColumns

	return scanPost(s.pool.QueryRow(ctx, q,
		p.UserID, p.UserNickname, p.AuthProvider, p.SocialID, p.Title, p.Content, p.PlaceList, p.ImageURLs))
}

func (s *postStore) GetByID(ctx context.Context, id int64) (Post, error) {
	const q = `SELECT ` + postColumns + ` FROM posts WHERE id = $1`

	return scanPost(s.pool.QueryRow(ctx, q, id))
}

func (s *postStore) ListAll(ctx context.Context) ([]Post, error) {
	const q = `SELECT ` + postColumns + ` FROM posts ORDER BY created_at DESC`

	rows, err := s.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	return collectPosts(rows)
}

// ListByUserIDs returns posts authored under any of the given user-id
// encodings. Callers pass every variant a single human may have written
// under (bare id, prefixed id), since rows are not normalized.
func (s *postStore) ListByUserIDs(ctx context.Context, userIDs []string) ([]Post, error) {
	const q = `SELECT ` + postColumns + ` FROM posts WHERE user_id = ANY($1) ORDER BY created_at DESC`

	rows, err := s.pool.Query(ctx, q, userIDs)
	if err != nil {
		return nil, err
	}
	return collectPosts(rows)
}

func (s *postStore) Update(ctx context.Context, p Post) (Post, error) {
	const q = `
UPDATE posts
SET post_title = $2, post_content = $3, user_nickname = $4, place_list = $5, image_urls = $6
WHERE id = $1
RETURNING ` + postColumns

	return scanPost(s.pool.QueryRow(ctx, q, p.ID, p.Title, p.Content, p.UserNickname, p.PlaceList, p.ImageURLs))
}

func (s *postStore) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM posts WHERE id = $1`

	_, err := s.pool.Exec(ctx, q, id)
	return err
}
