package handler

import (
	"context"
	"net/http"
	"testing"

	"travelog/internal/app/store"
	"travelog/internal/pkg/errs"
)

func seedUser(t *testing.T, deps *AppDeps, loginID, password string) store.User {
	t.Helper()
	user, err := deps.Users.Create(context.Background(), store.User{
		LoginID:      loginID,
		UserName:     "홍길동",
		UserNickName: "길동이",
		PhoneNumber:  "010-1234-5678",
		PasswordHash: hashPassword(t, password),
	})
	if err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}
	return user
}

func TestSignup(t *testing.T) {
	deps := newTestDeps()

	body := `{"userId":"traveler01","userName":"홍길동","userNickName":"길동이","userPhoneNumber":"010-1234-5678","password":"supersecret1"}`
	w := doRequest(deps, jsonRequest(http.MethodPost, "/api/auth/signup", body, ""))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", w.Code, w.Body.String())
	}

	data := dataMap(t, decodeEnvelope(t, w))
	if data["userId"] != "traveler01" {
		t.Errorf("userId = %v", data["userId"])
	}
	if data["token"] == "" || data["token"] == nil {
		t.Error("signup must return a session token")
	}
	if data["authProvider"] != "LOCAL" {
		t.Errorf("authProvider = %v, want LOCAL", data["authProvider"])
	}
}

func TestSignupDuplicateID(t *testing.T) {
	deps := newTestDeps()
	seedUser(t, deps, "traveler01", "supersecret1")

	body := `{"userId":"traveler01","userName":"둘째","userNickName":"둘","userPhoneNumber":"010-0000-0000","password":"supersecret1"}`
	w := doRequest(deps, jsonRequest(http.MethodPost, "/api/auth/signup", body, ""))

	if envelope := decodeEnvelope(t, w); envelope.Code != errs.ErrUserAlreadyExists {
		t.Errorf("code = %d, want %d", envelope.Code, errs.ErrUserAlreadyExists)
	}
}

func TestSignupShortPassword(t *testing.T) {
	deps := newTestDeps()

	body := `{"userId":"traveler01","userName":"홍길동","userNickName":"길동이","userPhoneNumber":"010-1234-5678","password":"short"}`
	w := doRequest(deps, jsonRequest(http.MethodPost, "/api/auth/signup", body, ""))

	if envelope := decodeEnvelope(t, w); envelope.Code != errs.ErrInvalidPassword {
		t.Errorf("code = %d, want %d", envelope.Code, errs.ErrInvalidPassword)
	}
}

func TestLogin(t *testing.T) {
	deps := newTestDeps()
	seedUser(t, deps, "traveler01", "supersecret1")

	body := `{"userId":"traveler01","password":"supersecret1"}`
	w := doRequest(deps, jsonRequest(http.MethodPost, "/api/auth/login", body, ""))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", w.Code, w.Body.String())
	}
	data := dataMap(t, decodeEnvelope(t, w))
	if data["userNickName"] != "길동이" {
		t.Errorf("userNickName = %v", data["userNickName"])
	}
	if data["token"] == nil {
		t.Error("login must return a session token")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	deps := newTestDeps()
	seedUser(t, deps, "traveler01", "supersecret1")

	body := `{"userId":"traveler01","password":"wrong-password"}`
	w := doRequest(deps, jsonRequest(http.MethodPost, "/api/auth/login", body, ""))

	if envelope := decodeEnvelope(t, w); envelope.Code != errs.ErrInvalidCredentials {
		t.Errorf("code = %d, want %d", envelope.Code, errs.ErrInvalidCredentials)
	}
}

func TestLoginWhileSignedIn(t *testing.T) {
	deps := newTestDeps()
	seedUser(t, deps, "traveler01", "supersecret1")

	body := `{"userId":"traveler01","password":"supersecret1"}`
	token := sessionToken(t, "1", "LOCAL", "길동이")
	w := doRequest(deps, jsonRequest(http.MethodPost, "/api/auth/login", body, token))

	if envelope := decodeEnvelope(t, w); envelope.Code != errs.ErrAlreadyLoggedIn {
		t.Errorf("code = %d, want %d", envelope.Code, errs.ErrAlreadyLoggedIn)
	}
}

func TestCheckDuplicateID(t *testing.T) {
	deps := newTestDeps()
	seedUser(t, deps, "traveler01", "supersecret1")

	tests := []struct {
		loginID string
		want    bool
	}{
		{"traveler01", true},
		{"fresh-id", false},
	}

	for _, tt := range tests {
		body := `{"userId":"` + tt.loginID + `"}`
		w := doRequest(deps, jsonRequest(http.MethodPost, "/api/auth/check-id", body, ""))

		data := dataMap(t, decodeEnvelope(t, w))
		if data["duplicate"] != tt.want {
			t.Errorf("duplicate(%q) = %v, want %v", tt.loginID, data["duplicate"], tt.want)
		}
	}
}

func TestFindID(t *testing.T) {
	deps := newTestDeps()
	seedUser(t, deps, "traveler01", "supersecret1")

	body := `{"userName":"홍길동","userPhoneNumber":"010-1234-5678"}`
	w := doRequest(deps, jsonRequest(http.MethodPost, "/api/auth/find-id", body, ""))

	data := dataMap(t, decodeEnvelope(t, w))
	if data["userId"] != "traveler01" {
		t.Errorf("userId = %v, want traveler01", data["userId"])
	}
}

func TestFindIDNoMatch(t *testing.T) {
	deps := newTestDeps()

	body := `{"userName":"없는사람","userPhoneNumber":"010-9999-9999"}`
	w := doRequest(deps, jsonRequest(http.MethodPost, "/api/auth/find-id", body, ""))

	if envelope := decodeEnvelope(t, w); envelope.Code != errs.ErrUserNotFound {
		t.Errorf("code = %d, want %d", envelope.Code, errs.ErrUserNotFound)
	}
}

func TestResetPassword(t *testing.T) {
	deps := newTestDeps()
	seedUser(t, deps, "traveler01", "supersecret1")

	body := `{"userId":"traveler01","userName":"홍길동","userPhoneNumber":"010-1234-5678","newPassword":"brand-new-pass"}`
	w := doRequest(deps, jsonRequest(http.MethodPost, "/api/auth/reset-password", body, ""))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", w.Code, w.Body.String())
	}

	loginBody := `{"userId":"traveler01","password":"brand-new-pass"}`
	w = doRequest(deps, jsonRequest(http.MethodPost, "/api/auth/login", loginBody, ""))
	if envelope := decodeEnvelope(t, w); envelope.Code != 0 {
		t.Errorf("login with the new password failed: %s", w.Body.String())
	}
}

func TestChangeNickname(t *testing.T) {
	deps := newTestDeps()
	user := seedUser(t, deps, "traveler01", "supersecret1")

	token := sessionToken(t, "1", "LOCAL", "길동이")
	body := `{"userNickName":"새별명"}`
	w := doRequest(deps, jsonRequest(http.MethodPost, "/api/user/nickname", body, token))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", w.Code, w.Body.String())
	}
	data := dataMap(t, decodeEnvelope(t, w))
	if data["userNickName"] != "새별명" {
		t.Errorf("userNickName = %v", data["userNickName"])
	}
	if data["token"] == nil {
		t.Error("nickname change must reissue the token")
	}

	updated, _ := deps.Users.GetByID(context.Background(), user.ID)
	if updated.UserNickName != "새별명" {
		t.Errorf("stored nickname = %q", updated.UserNickName)
	}
}

func TestChangeNicknameAnonymous(t *testing.T) {
	deps := newTestDeps()

	body := `{"userNickName":"새별명"}`
	w := doRequest(deps, jsonRequest(http.MethodPost, "/api/user/nickname", body, ""))

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestChangeNicknameSocialSessionRejected(t *testing.T) {
	deps := newTestDeps()

	token := sessionToken(t, "google_99", "GOOGLE", "G")
	body := `{"userNickName":"새별명"}`
	w := doRequest(deps, jsonRequest(http.MethodPost, "/api/user/nickname", body, token))

	if w.Code != http.StatusUnauthorized {
		t.Errorf("local-account endpoints must reject social sessions, got %d", w.Code)
	}
}

func TestWithdraw(t *testing.T) {
	deps := newTestDeps()
	user := seedUser(t, deps, "traveler01", "supersecret1")

	token := sessionToken(t, "1", "LOCAL", "길동이")
	body := `{"password":"supersecret1"}`
	w := doRequest(deps, jsonRequest(http.MethodPost, "/api/user/withdraw", body, token))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", w.Code, w.Body.String())
	}
	if _, err := deps.Users.GetByID(context.Background(), user.ID); err == nil {
		t.Error("account should have been deleted")
	}
}

func TestWithdrawWrongPassword(t *testing.T) {
	deps := newTestDeps()
	seedUser(t, deps, "traveler01", "supersecret1")

	token := sessionToken(t, "1", "LOCAL", "길동이")
	body := `{"password":"not-it"}`
	w := doRequest(deps, jsonRequest(http.MethodPost, "/api/user/withdraw", body, token))

	if envelope := decodeEnvelope(t, w); envelope.Code != errs.ErrOldPasswordInvalid {
		t.Errorf("code = %d, want %d", envelope.Code, errs.ErrOldPasswordInvalid)
	}
}
