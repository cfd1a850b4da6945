package store

import "context"

// UserStore persists local-password accounts.
type UserStore interface {
	Create(ctx context.Context, u User) (User, error)
	ExistsByLoginID(ctx context.Context, loginID string) (bool, error)
	GetByLoginID(ctx context.Context, loginID string) (User, error)
	GetByID(ctx context.Context, id int64) (User, error)
	FindByNameAndPhone(ctx context.Context, name, phone string) (User, error)
	FindByLoginNamePhone(ctx context.Context, loginID, name, phone string) (User, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	UpdateNickname(ctx context.Context, id int64, nickname string) error
	UpdateProfileImage(ctx context.Context, id int64, imagePath string) error
	Delete(ctx context.Context, id int64) error
}

// SocialStore persists social-login accounts.
type SocialStore interface {
	Upsert(ctx context.Context, s Social) (Social, error)
	GetBySocialID(ctx context.Context, socialID string) (Social, error)
	ExistsBySocialID(ctx context.Context, socialID string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Delete(ctx context.Context, socialID string) error
}

// PostStore persists journal posts.
type PostStore interface {
	Create(ctx context.Context, p Post) (Post, error)
	GetByID(ctx context.Context, id int64) (Post, error)
	ListAll(ctx context.Context) ([]Post, error)
	ListByUserIDs(ctx context.Context, userIDs []string) ([]Post, error)
	Update(ctx context.Context, p Post) (Post, error)
	Delete(ctx context.Context, id int64) error
}

// LikeStore persists likes and keeps the denormalized post like count in step.
type LikeStore interface {
	Add(ctx context.Context, userID, userType string, postID int64) error
	Remove(ctx context.Context, userID, userType string, postID int64) error
	IsLiked(ctx context.Context, userID, userType string, postID int64) (bool, error)
	Count(ctx context.Context, postID int64) (int, error)
}
