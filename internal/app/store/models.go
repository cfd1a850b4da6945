/*
Package store provides PostgreSQL persistence for users, social accounts,
journal posts, and likes.

Each store is a thin pgx wrapper: plain SQL, explicit scans, no ORM. Handlers
depend on the interfaces so tests can substitute in-memory fakes.
*/
package store

import "time"

// User is a local-password account row.
type User struct {
	ID           int64
	LoginID      string
	UserName     string
	UserNickName string
	PhoneNumber  string
	PasswordHash string
	ProfileImage string
	CreatedAt    time.Time
}

// Social is a social-login account row, one per provider subject.
type Social struct {
	ID           int64
	SocialID     string
	Name         string
	Email        string
	Picture      string
	AuthProvider string
	CreatedAt    time.Time
}

// Post is a journal post row. UserID is text: it carries whichever id encoding
// the author's sign-in path produced (numeric local id, bare social subject,
// or provider-prefixed subject).
type Post struct {
	ID           int64
	UserID       string
	UserNickname string
	AuthProvider string
	SocialID     string
	Title        string
	Content      string
	PlaceList    []string
	ImageURLs    []string
	Likes        int
	CreatedAt    time.Time
}

// Like user types, mirroring how the like rows distinguish account kinds.
const (
	UserTypeRegular = "REGULAR"
	UserTypeSocial  = "SOCIAL"
)
