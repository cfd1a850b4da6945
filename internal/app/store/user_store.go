package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type userStore struct {
	pool *pgxpool.Pool
}

// NewUserStore returns the PostgreSQL-backed UserStore.
func NewUserStore(pool *pgxpool.Pool) UserStore {
	return &userStore{pool: pool}
}

const userColumns = `id, login_id, user_name, user_nick_name, user_phone_number, password_hash, user_profile_image, created_at`

func scanUser(row interface{ Scan(dest ...any) error }) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.LoginID, &u.UserName, &u.UserNickName, &u.PhoneNumber, &u.PasswordHash, &u.ProfileImage, &u.CreatedAt)
	return u, err
}

func (s *userStore) Create(ctx context.Context, u User) (User, error) {
	const q = `
INSERT INTO users (login_id, user_name, user_nick_name, user_phone_number, password_hash)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + userColumns

	return scanUser(s.pool.QueryRow(ctx, q, u.LoginID, u.UserName, u.UserNickName, u.PhoneNumber, u.PasswordHash))
}

func (s *userStore) ExistsByLoginID(ctx context.Context, loginID string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM users WHERE login_id = $1)`

	var exists bool
	err := s.pool.QueryRow(ctx, q, loginID).Scan(&exists)
	return exists, err
}

func (s *userStore) GetByLoginID(ctx context.Context, loginID string) (User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE login_id = $1`

	return scanUser(s.pool.QueryRow(ctx, q, loginID))
}

func (s *userStore) GetByID(ctx context.Context, id int64) (User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	return scanUser(s.pool.QueryRow(ctx, q, id))
}

func (s *userStore) FindByNameAndPhone(ctx context.Context, name, phone string) (User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE user_name = $1 AND user_phone_number = $2`

	return scanUser(s.pool.QueryRow(ctx, q, name, phone))
}

func (s *userStore) FindByLoginNamePhone(ctx context.Context, loginID, name, phone string) (User, error) {
	const q = `SELECT ` + userColumns + ` FROM users
WHERE login_id = $1 AND user_name = $2 AND user_phone_number = $3`

	return scanUser(s.pool.QueryRow(ctx, q, loginID, name, phone))
}

func (s *userStore) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	const q = `UPDATE users SET password_hash = $2 WHERE id = $1`

	_, err := s.pool.Exec(ctx, q, id, passwordHash)
	return err
}

func (s *userStore) UpdateNickname(ctx context.Context, id int64, nickname string) error {
	const q = `UPDATE users SET user_nick_name = $2 WHERE id = $1`

	_, err := s.pool.Exec(ctx, q, id, nickname)
	return err
}

func (s *userStore) UpdateProfileImage(ctx context.Context, id int64, imagePath string) error {
	const q = `UPDATE users SET user_profile_image = $2 WHERE id = $1`

	_, err := s.pool.Exec(ctx, q, id, imagePath)
	return err
}

func (s *userStore) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM users WHERE id = $1`

	_, err := s.pool.Exec(ctx, q, id)
	return err
}
