package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"

	"travelog/internal/app/identity"
	"travelog/internal/app/social"
	"travelog/internal/app/store"
	"travelog/internal/configs"
	"travelog/internal/pkg/auth/jwt"
	"travelog/internal/pkg/resp"
)

const testJWTSecret = "testing-secret"

// --- In-memory store fakes ---

type fakeUserStore struct {
	users  map[int64]store.User
	nextID int64
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[int64]store.User{}, nextID: 1}
}

func (f *fakeUserStore) Create(_ context.Context, u store.User) (store.User, error) {
	for _, existing := range f.users {
		if existing.LoginID == u.LoginID {
			return store.User{}, &pgconn.PgError{Code: "23505"}
		}
	}
	u.ID = f.nextID
	u.CreatedAt = time.Now()
	f.nextID++
	f.users[u.ID] = u
	return u, nil
}

func (f *fakeUserStore) ExistsByLoginID(_ context.Context, loginID string) (bool, error) {
	for _, u := range f.users {
		if u.LoginID == loginID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserStore) GetByLoginID(_ context.Context, loginID string) (store.User, error) {
	for _, u := range f.users {
		if u.LoginID == loginID {
			return u, nil
		}
	}
	return store.User{}, pgx.ErrNoRows
}

func (f *fakeUserStore) GetByID(_ context.Context, id int64) (store.User, error) {
	u, ok := f.users[id]
	if !ok {
		return store.User{}, pgx.ErrNoRows
	}
	return u, nil
}

func (f *fakeUserStore) FindByNameAndPhone(_ context.Context, name, phone string) (store.User, error) {
	for _, u := range f.users {
		if u.UserName == name && u.PhoneNumber == phone {
			return u, nil
		}
	}
	return store.User{}, pgx.ErrNoRows
}

func (f *fakeUserStore) FindByLoginNamePhone(_ context.Context, loginID, name, phone string) (store.User, error) {
	for _, u := range f.users {
		if u.LoginID == loginID && u.UserName == name && u.PhoneNumber == phone {
			return u, nil
		}
	}
	return store.User{}, pgx.ErrNoRows
}

func (f *fakeUserStore) UpdatePassword(_ context.Context, id int64, hash string) error {
	u := f.users[id]
	u.PasswordHash = hash
	f.users[id] = u
	return nil
}

func (f *fakeUserStore) UpdateNickname(_ context.Context, id int64, nickname string) error {
	u := f.users[id]
	u.UserNickName = nickname
	f.users[id] = u
	return nil
}

func (f *fakeUserStore) UpdateProfileImage(_ context.Context, id int64, imagePath string) error {
	u := f.users[id]
	u.ProfileImage = imagePath
	f.users[id] = u
	return nil
}

func (f *fakeUserStore) Delete(_ context.Context, id int64) error {
	delete(f.users, id)
	return nil
}

type fakeSocialStore struct {
	socials map[string]store.Social
}

func newFakeSocialStore() *fakeSocialStore {
	return &fakeSocialStore{socials: map[string]store.Social{}}
}

func (f *fakeSocialStore) Upsert(_ context.Context, s store.Social) (store.Social, error) {
	if existing, ok := f.socials[s.SocialID]; ok {
		s.ID = existing.ID
		s.CreatedAt = existing.CreatedAt
	} else {
		s.ID = int64(len(f.socials) + 1)
		s.CreatedAt = time.Now()
	}
	f.socials[s.SocialID] = s
	return s, nil
}

func (f *fakeSocialStore) GetBySocialID(_ context.Context, socialID string) (store.Social, error) {
	s, ok := f.socials[socialID]
	if !ok {
		return store.Social{}, pgx.ErrNoRows
	}
	return s, nil
}

func (f *fakeSocialStore) ExistsBySocialID(_ context.Context, socialID string) (bool, error) {
	_, ok := f.socials[socialID]
	return ok, nil
}

func (f *fakeSocialStore) ExistsByEmail(_ context.Context, email string) (bool, error) {
	for _, s := range f.socials {
		if s.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeSocialStore) Delete(_ context.Context, socialID string) error {
	delete(f.socials, socialID)
	return nil
}

type fakePostStore struct {
	posts  map[int64]store.Post
	nextID int64
}

func newFakePostStore() *fakePostStore {
	return &fakePostStore{posts: map[int64]store.Post{}, nextID: 1}
}

func (f *fakePostStore) Create(_ context.Context, p store.Post) (store.Post, error) {
	p.ID = f.nextID
	p.CreatedAt = time.Now()
	f.nextID++
	f.posts[p.ID] = p
	return p, nil
}

func (f *fakePostStore) GetByID(_ context.Context, id int64) (store.Post, error) {
	p, ok := f.posts[id]
	if !ok {
		return store.Post{}, pgx.ErrNoRows
	}
	return p, nil
}

func (f *fakePostStore) ListAll(_ context.Context) ([]store.Post, error) {
	out := make([]store.Post, 0, len(f.posts))
	for _, p := range f.posts {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakePostStore) ListByUserIDs(_ context.Context, userIDs []string) ([]store.Post, error) {
	wanted := map[string]bool{}
	for _, id := range userIDs {
		wanted[id] = true
	}
	var out []store.Post
	for _, p := range f.posts {
		if wanted[p.UserID] {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePostStore) Update(_ context.Context, p store.Post) (store.Post, error) {
	if _, ok := f.posts[p.ID]; !ok {
		return store.Post{}, pgx.ErrNoRows
	}
	f.posts[p.ID] = p
	return p, nil
}

func (f *fakePostStore) Delete(_ context.Context, id int64) error {
	delete(f.posts, id)
	return nil
}

type likeKey struct {
	userID   string
	userType string
	postID   int64
}

type fakeLikeStore struct {
	likes map[likeKey]bool
}

func newFakeLikeStore() *fakeLikeStore {
	return &fakeLikeStore{likes: map[likeKey]bool{}}
}

func (f *fakeLikeStore) Add(_ context.Context, userID, userType string, postID int64) error {
	f.likes[likeKey{userID, userType, postID}] = true
	return nil
}

func (f *fakeLikeStore) Remove(_ context.Context, userID, userType string, postID int64) error {
	delete(f.likes, likeKey{userID, userType, postID})
	return nil
}

func (f *fakeLikeStore) IsLiked(_ context.Context, userID, userType string, postID int64) (bool, error) {
	return f.likes[likeKey{userID, userType, postID}], nil
}

func (f *fakeLikeStore) Count(_ context.Context, postID int64) (int, error) {
	n := 0
	for k := range f.likes {
		if k.postID == postID {
			n++
		}
	}
	return n, nil
}

// fakeStorage records keys instead of talking to S3.
type fakeStorage struct {
	uploaded []string
	deleted  []string
}

func (f *fakeStorage) Upload(_ context.Context, key, _ string, _ io.Reader) (string, error) {
	f.uploaded = append(f.uploaded, key)
	return "/" + key, nil
}

func (f *fakeStorage) PresignDownload(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://storage.test/" + key + "?signed", nil
}

func (f *fakeStorage) Delete(_ context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeStorage) GetObjectMetadata(_ context.Context, _ string) (map[string]string, error) {
	return map[string]string{}, nil
}

// --- Wiring helpers ---

func newTestDeps() *AppDeps {
	cfg := &configs.AppConfig{
		Environment:  "development",
		Port:         8080,
		JWTSecret:    testJWTSecret,
		AssetBaseURL: "http://localhost:8080",
	}
	return &AppDeps{
		Config:         cfg,
		Users:          newFakeUserStore(),
		Socials:        newFakeSocialStore(),
		Posts:          newFakePostStore(),
		Likes:          newFakeLikeStore(),
		StorageService: &fakeStorage{},
		Resolver:       &identity.Resolver{AssetBaseURL: cfg.AssetBaseURL},
		Google:         &social.GoogleVerifier{ClientID: "travelog-client-id"},
		Kakao:          social.NewKakaoClient("id", "secret", "http://localhost/callback"),
	}
}

func sessionToken(t *testing.T, id, provider, nickname string) string {
	t.Helper()
	token, err := jwt.GenerateToken(&jwt.Payload{
		ID:       id,
		Provider: provider,
		Nickname: nickname,
	}, testJWTSecret, jwt.SessionExpiration)
	if err != nil {
		t.Fatalf("failed to sign test token: %v", err)
	}
	return token
}

// doRequest runs r through the full router so middleware applies.
func doRequest(deps *AppDeps, r *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	Router(deps).ServeHTTP(w, r)
	return w
}

func jsonRequest(method, target, body, token string) *http.Request {
	r := httptest.NewRequest(method, target, strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	return r
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) resp.JSONResponse {
	t.Helper()
	var envelope resp.JSONResponse
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("failed to decode response envelope: %v (body %q)", err, w.Body.String())
	}
	return envelope
}

func dataMap(t *testing.T, envelope resp.JSONResponse) map[string]any {
	t.Helper()
	m, ok := envelope.Data.(map[string]any)
	if !ok {
		t.Fatalf("response data is not an object: %v", envelope.Data)
	}
	return m
}

func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	return string(hash)
}

func getRequest(target, token string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, target, nil)
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	return r
}

func multipartRequest(target string, body *bytes.Buffer, contentType, token string) *http.Request {
	r := httptest.NewRequest(http.MethodPost, target, body)
	r.Header.Set("Content-Type", contentType)
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	return r
}
