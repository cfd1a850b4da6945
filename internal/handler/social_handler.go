package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"travelog/internal/app/db"
	"travelog/internal/app/identity"
	"travelog/internal/app/store"
	"travelog/internal/pkg/auth/jwt"
	"travelog/internal/pkg/errs"
	"travelog/internal/pkg/logx"
	"travelog/internal/pkg/req"
	"travelog/internal/pkg/resp"
)

// completeSocialLogin persists the social account, resolves the raw record to
// a canonical identity, and issues the session token. The JWT id carries the
// provider-prefixed form so ownership checks can strip it back off.
func completeSocialLogin(deps *AppDeps, w http.ResponseWriter, r *http.Request, raw identity.RawUserRecord) {
	canonical, err := deps.Resolver.Resolve(&raw)
	if err != nil {
		resp.RespondError(w, r, errs.NewError(errs.ErrMissingIdentity))
		return
	}

	social, err := deps.Socials.Upsert(r.Context(), store.Social{
		SocialID:     canonical.RawID,
		Name:         raw.Name,
		Email:        raw.Email,
		Picture:      raw.Picture,
		AuthProvider: string(canonical.Provider),
	})
	if err != nil {
		logx.Error(err, "social_login: account upsert failed", "provider", string(canonical.Provider))
		resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
		return
	}

	formattedID := identity.FormatSocialID(canonical.Provider, canonical.RawID)

	payload := &jwt.Payload{
		ID:       formattedID,
		Provider: string(canonical.Provider),
		Nickname: canonical.DisplayName,
		Avatar:   canonical.AvatarURL,
	}
	token, err := jwt.GenerateToken(payload, deps.Config.JWTSecret, jwt.SessionExpiration)
	if err != nil {
		logx.Error(err, "social_login: token issue failed", "social_id", canonical.RawID)
		resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
		return
	}

	resp.RespondSuccess(w, r, map[string]any{
		"id":           formattedID,
		"socialId":     social.SocialID,
		"name":         social.Name,
		"nickName":     canonical.DisplayName,
		"email":        social.Email,
		"picture":      canonical.AvatarURL,
		"authProvider": social.AuthProvider,
		"token":        token,
	})
}

type GoogleLoginInput struct {
	Credential string `json:"credential"`
}

// HandleGoogleLogin verifies a Google Sign-In ID token and starts a session.
func HandleGoogleLogin(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input GoogleLoginInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		raw, err := deps.Google.VerifyCredential(r.Context(), input.Credential)
		if err != nil {
			logx.Warn("google_login: credential rejected", "error", err.Error())
			resp.RespondError(w, r, errs.NewError(errs.ErrSocialVerifyFailed))
			return
		}

		completeSocialLogin(deps, w, r, raw)
	}
}

type KakaoLoginInput struct {
	Code string `json:"code"`
}

// HandleKakaoLogin exchanges a Kakao authorization code and starts a session.
func HandleKakaoLogin(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input KakaoLoginInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		raw, err := deps.Kakao.ExchangeCode(r.Context(), input.Code)
		if err != nil {
			logx.Warn("kakao_login: code exchange failed", "error", err.Error())
			resp.RespondError(w, r, errs.NewError(errs.ErrSocialVerifyFailed))
			return
		}

		completeSocialLogin(deps, w, r, raw)
	}
}

type SaveSocialUserInput struct {
	SocialID     string `json:"socialId"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Picture      string `json:"picture"`
	AuthProvider string `json:"authProvider"`
}

// HandleSaveSocialUser creates or refreshes a social account record.
func HandleSaveSocialUser(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input SaveSocialUserInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if input.SocialID == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams, "socialId is required"))
			return
		}

		provider := identity.NormalizeProvider(input.AuthProvider)
		if provider == identity.ProviderLocal {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams, "authProvider must be GOOGLE or KAKAO"))
			return
		}

		social, err := deps.Socials.Upsert(r.Context(), store.Social{
			SocialID:     input.SocialID,
			Name:         input.Name,
			Email:        input.Email,
			Picture:      input.Picture,
			AuthProvider: string(provider),
		})
		if err != nil {
			logx.Error(err, "save_social_user: upsert failed", "social_id", input.SocialID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, socialResponse(social))
	}
}

// HandleGetSocialUser looks up a social account by its provider subject id.
func HandleGetSocialUser(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		socialID := chi.URLParam(r, "socialId")

		social, err := deps.Socials.GetBySocialID(r.Context(), socialID)
		if err != nil {
			if db.IsNotFound(err) {
				resp.RespondError(w, r, errs.NewError(errs.ErrSocialUserNotFound))
				return
			}
			logx.Error(err, "get_social_user: lookup failed", "social_id", socialID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, socialResponse(social))
	}
}

// HandleSocialUserExists reports whether a social account is registered.
func HandleSocialUserExists(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		socialID := chi.URLParam(r, "socialId")

		exists, err := deps.Socials.ExistsBySocialID(r.Context(), socialID)
		if err != nil {
			logx.Error(err, "social_user_exists: lookup failed", "social_id", socialID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{"exists": exists})
	}
}

type FormatSocialIDInput struct {
	SocialID     string `json:"socialId"`
	AuthProvider string `json:"authProvider"`
}

// HandleFormatSocialID converts a bare provider subject id into the
// provider-prefixed form used as the canonical social user id.
func HandleFormatSocialID(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input FormatSocialIDInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if input.SocialID == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams, "socialId is required"))
			return
		}

		provider := identity.NormalizeProvider(input.AuthProvider)
		resp.RespondSuccess(w, r, map[string]any{
			"formattedId": identity.FormatSocialID(provider, input.SocialID),
		})
	}
}

// HandleDeleteSocialUser removes a social account. Only the signed-in owner
// of that account may remove it.
func HandleDeleteSocialUser(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := jwt.GetPayloadFromContext(r)
		if payload == nil || payload.Provider == string(identity.ProviderLocal) {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		socialID := chi.URLParam(r, "socialId")
		provider := identity.NormalizeProvider(payload.Provider)
		if payload.ID != identity.FormatSocialID(provider, socialID) {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		if err := deps.Socials.Delete(r.Context(), socialID); err != nil {
			logx.Error(err, "delete_social_user: delete failed", "social_id", socialID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		logx.Info("social account removed", "social_id", socialID)
		resp.RespondSuccess(w, r, nil)
	}
}

func socialResponse(s store.Social) map[string]any {
	return map[string]any{
		"socialId":     s.SocialID,
		"name":         s.Name,
		"email":        s.Email,
		"picture":      s.Picture,
		"authProvider": s.AuthProvider,
	}
}
