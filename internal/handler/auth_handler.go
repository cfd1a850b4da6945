/*
Package handler provides the HTTP handlers and routing setup for the Travelog server.
*/
package handler

import (
	"net/http"
	"regexp"
	"strconv"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"travelog/internal/app/db"
	"travelog/internal/app/identity"
	"travelog/internal/app/store"
	"travelog/internal/pkg/auth/jwt"
	"travelog/internal/pkg/errs"
	"travelog/internal/pkg/logx"
	"travelog/internal/pkg/randx"
	"travelog/internal/pkg/req"
	"travelog/internal/pkg/resp"
)

var (
	loginIDRegex  = regexp.MustCompile(`^[a-zA-Z0-9_.@-]{4,50}$`)
	nicknameRegex = regexp.MustCompile(`^\S{2,20}$`)
)

func validPassword(password string) bool {
	n := utf8.RuneCountInString(password)
	return n >= 8 && n <= 50
}

// localAccountID extracts the numeric account id of a local-provider session.
// Social sessions have no row in the users table, so they get nothing here.
func localAccountID(r *http.Request) (int64, *jwt.Payload, bool) {
	payload := jwt.GetPayloadFromContext(r)
	if payload == nil || payload.Provider != string(identity.ProviderLocal) {
		return 0, nil, false
	}

	id, err := strconv.ParseInt(payload.ID, 10, 64)
	if err != nil {
		return 0, nil, false
	}
	return id, payload, true
}

// userSessionResponse builds the login/signup response: the raw user record
// shape plus the freshly issued bearer token.
func userSessionResponse(deps *AppDeps, user store.User, token string) map[string]any {
	return map[string]any{
		"id":               user.ID,
		"userId":           user.LoginID,
		"userName":         user.UserName,
		"userNickName":     user.UserNickName,
		"userProfileImage": deps.FullAssetURL(user.ProfileImage),
		"authProvider":     string(identity.ProviderLocal),
		"token":            token,
	}
}

// issueLocalToken resolves the account through the identity core and signs a
// session token for it.
func issueLocalToken(deps *AppDeps, user store.User) (string, error) {
	raw := &identity.RawUserRecord{
		ID:               identity.FlexID(strconv.FormatInt(user.ID, 10)),
		LoginID:          user.LoginID,
		Name:             user.UserName,
		UserNickName:     user.UserNickName,
		UserProfileImage: user.ProfileImage,
	}

	canonical, err := deps.Resolver.Resolve(raw)
	if err != nil {
		return "", err
	}

	payload := &jwt.Payload{
		ID:       canonical.RawID,
		Provider: string(canonical.Provider),
		Nickname: canonical.DisplayName,
		Avatar:   canonical.AvatarURL,
	}
	return jwt.GenerateToken(payload, deps.Config.JWTSecret, jwt.SessionExpiration)
}

type SignupInput struct {
	LoginID     string `json:"userId"`
	UserName    string `json:"userName"`
	NickName    string `json:"userNickName"`
	PhoneNumber string `json:"userPhoneNumber"`
	Password    string `json:"password"`
}

// HandleSignup creates a local account and signs the new user in.
func HandleSignup(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if payload := jwt.GetPayloadFromContext(r); payload != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrAlreadyLoggedIn))
			return
		}

		var input SignupInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if !loginIDRegex.MatchString(input.LoginID) {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidUserId))
			return
		}

		if !validPassword(input.Password) {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidPassword))
			return
		}

		nickname := input.NickName
		if nickname == "" {
			suffix, err := randx.NicknameSuffix()
			if err != nil {
				suffix = "0000"
			}
			nickname = "여행자_" + suffix
		}
		if !nicknameRegex.MatchString(nickname) {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams, "invalid nickname"))
			return
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		user, err := deps.Users.Create(r.Context(), store.User{
			LoginID:      input.LoginID,
			UserName:     input.UserName,
			UserNickName: nickname,
			PhoneNumber:  input.PhoneNumber,
			PasswordHash: string(hashedPassword),
		})
		if err != nil {
			if db.IsUniqueViolation(err) {
				logx.Warn("signup conflict: login id already exists", "login_id", input.LoginID)
				resp.RespondError(w, r, errs.NewError(errs.ErrUserAlreadyExists))
				return
			}
			logx.Error(err, "signup: failed to create user")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		token, err := issueLocalToken(deps, user)
		if err != nil {
			logx.Error(err, "signup: token issue failed", "user_id", user.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, userSessionResponse(deps, user, token))
	}
}

type CheckDuplicateIDInput struct {
	LoginID string `json:"userId"`
}

// HandleCheckDuplicateID reports whether a login id is already taken.
func HandleCheckDuplicateID(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input CheckDuplicateIDInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		exists, err := deps.Users.ExistsByLoginID(r.Context(), input.LoginID)
		if err != nil {
			logx.Error(err, "check_duplicate_id: lookup failed")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{"duplicate": exists})
	}
}

type LoginInput struct {
	LoginID  string `json:"userId"`
	Password string `json:"password"`
}

// HandleLogin verifies local credentials and issues a session token.
func HandleLogin(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if payload := jwt.GetPayloadFromContext(r); payload != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrAlreadyLoggedIn))
			return
		}

		var input LoginInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		user, err := deps.Users.GetByLoginID(r.Context(), input.LoginID)
		if err != nil {
			logx.Warn("login: user fetch failed", "login_id", input.LoginID)
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidCredentials))
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
			logx.Warn("login: password mismatch", "login_id", input.LoginID)
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidCredentials))
			return
		}

		token, err := issueLocalToken(deps, user)
		if err != nil {
			logx.Error(err, "login: token issue failed", "user_id", user.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, userSessionResponse(deps, user, token))
	}
}

type FindIDInput struct {
	UserName    string `json:"userName"`
	PhoneNumber string `json:"userPhoneNumber"`
}

// HandleFindID recovers a forgotten login id by name and phone number.
func HandleFindID(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input FindIDInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		user, err := deps.Users.FindByNameAndPhone(r.Context(), input.UserName, input.PhoneNumber)
		if err != nil {
			if db.IsNotFound(err) {
				resp.RespondError(w, r, errs.NewError(errs.ErrUserNotFound))
				return
			}
			logx.Error(err, "find_id: lookup failed")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{"userId": user.LoginID})
	}
}

type FindPasswordInput struct {
	LoginID     string `json:"userId"`
	UserName    string `json:"userName"`
	PhoneNumber string `json:"userPhoneNumber"`
}

// HandleFindPassword checks that an account matches before a password reset.
func HandleFindPassword(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input FindPasswordInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		_, err := deps.Users.FindByLoginNamePhone(r.Context(), input.LoginID, input.UserName, input.PhoneNumber)
		if err != nil {
			if db.IsNotFound(err) {
				resp.RespondError(w, r, errs.NewError(errs.ErrUserNotFound))
				return
			}
			logx.Error(err, "find_password: lookup failed")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{"verified": true})
	}
}

type ResetPasswordInput struct {
	LoginID     string `json:"userId"`
	UserName    string `json:"userName"`
	PhoneNumber string `json:"userPhoneNumber"`
	NewPassword string `json:"newPassword"`
}

// HandleResetPassword sets a new password for a verified account.
func HandleResetPassword(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input ResetPasswordInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if !validPassword(input.NewPassword) {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidPassword))
			return
		}

		user, err := deps.Users.FindByLoginNamePhone(r.Context(), input.LoginID, input.UserName, input.PhoneNumber)
		if err != nil {
			if db.IsNotFound(err) {
				resp.RespondError(w, r, errs.NewError(errs.ErrUserNotFound))
				return
			}
			logx.Error(err, "reset_password: lookup failed")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		if err := deps.Users.UpdatePassword(r.Context(), user.ID, string(hashedPassword)); err != nil {
			logx.Error(err, "reset_password: update failed", "user_id", user.ID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, nil)
	}
}

type ChangePasswordInput struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// HandleChangePassword changes the signed-in user's password.
func HandleChangePassword(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _, ok := localAccountID(r)
		if !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		var input ChangePasswordInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if !validPassword(input.NewPassword) {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidPassword))
			return
		}

		user, err := deps.Users.GetByID(r.Context(), userID)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUserNotFound))
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.OldPassword)); err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrOldPasswordInvalid))
			return
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		if err := deps.Users.UpdatePassword(r.Context(), userID, string(hashedPassword)); err != nil {
			logx.Error(err, "change_password: update failed", "user_id", userID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, nil)
	}
}

type ChangeNicknameInput struct {
	NickName string `json:"userNickName"`
}

// HandleChangeNickname changes the signed-in user's display nickname and
// reissues the token so the new name is in the session immediately.
func HandleChangeNickname(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, payload, ok := localAccountID(r)
		if !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		var input ChangeNicknameInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if !nicknameRegex.MatchString(input.NickName) {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams, "invalid nickname"))
			return
		}

		if err := deps.Users.UpdateNickname(r.Context(), userID, input.NickName); err != nil {
			logx.Error(err, "change_nickname: update failed", "user_id", userID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		payload.Nickname = input.NickName
		token, err := jwt.GenerateToken(payload, deps.Config.JWTSecret, jwt.SessionExpiration)
		if err != nil {
			logx.Error(err, "change_nickname: token reissue failed", "user_id", userID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"userNickName": input.NickName,
			"token":        token,
		})
	}
}

const maxProfileImageSize = 5 << 20

// HandleUploadProfileImage stores a new profile image on S3 and records its
// server-relative path on the account.
func HandleUploadProfileImage(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _, ok := localAccountID(r)
		if !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		if customErr := req.SetupMultipart(w, r); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		file, header, err := r.FormFile("image")
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrFormParseFailed))
			return
		}
		defer file.Close()

		if header.Size > maxProfileImageSize {
			resp.RespondError(w, r, errs.NewError(errs.ErrFileSizeTooLarge))
			return
		}

		key := randx.ProfileImageKey(userID, header.Filename)
		mimeType := header.Header.Get("Content-Type")
		path, err := deps.StorageService.Upload(r.Context(), key, mimeType, file)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrFileStorageFailed))
			return
		}

		if err := deps.Users.UpdateProfileImage(r.Context(), userID, path); err != nil {
			logx.Error(err, "upload_profile_image: update failed", "user_id", userID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"userProfileImage": deps.FullAssetURL(path),
		})
	}
}

// HandleDeleteProfileImage removes the stored profile image and falls back to
// the default avatar.
func HandleDeleteProfileImage(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _, ok := localAccountID(r)
		if !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		user, err := deps.Users.GetByID(r.Context(), userID)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUserNotFound))
			return
		}

		if user.ProfileImage != "" {
			key := user.ProfileImage[1:]
			if err := deps.StorageService.Delete(r.Context(), key); err != nil {
				logx.Warn("delete_profile_image: storage delete failed", "user_id", userID, "key", key)
			}
		}

		if err := deps.Users.UpdateProfileImage(r.Context(), userID, ""); err != nil {
			logx.Error(err, "delete_profile_image: update failed", "user_id", userID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"userProfileImage": deps.FullAssetURL(identity.DefaultAvatarPath),
		})
	}
}

type WithdrawInput struct {
	Password string `json:"password"`
}

// HandleWithdraw deletes the signed-in local account after a password check.
func HandleWithdraw(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _, ok := localAccountID(r)
		if !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		var input WithdrawInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		user, err := deps.Users.GetByID(r.Context(), userID)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUserNotFound))
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrOldPasswordInvalid))
			return
		}

		if err := deps.Users.Delete(r.Context(), userID); err != nil {
			logx.Error(err, "withdraw: delete failed", "user_id", userID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		logx.Info("account withdrawn", "user_id", userID)
		resp.RespondSuccess(w, r, nil)
	}
}

// HandleLogout ends the session. Tokens are stateless, so the server only
// acknowledges; the client discards its copy.
func HandleLogout(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if payload := jwt.GetPayloadFromContext(r); payload == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		resp.RespondSuccess(w, r, nil)
	}
}
