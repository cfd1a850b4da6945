package handler

import (
	"strings"

	"travelog/internal/app/identity"
	"travelog/internal/app/social"
	"travelog/internal/app/storage"
	"travelog/internal/app/store"
	"travelog/internal/configs"
)

type AppDeps struct {
	Config         *configs.AppConfig
	Users          store.UserStore
	Socials        store.SocialStore
	Posts          store.PostStore
	Likes          store.LikeStore
	StorageService storage.StorageService
	Resolver       *identity.Resolver
	Google         *social.GoogleVerifier
	Kakao          *social.KakaoClient
}

// FullAssetURL turns a server-relative image path into an absolute URL.
// Absolute URLs (social provider avatars) and empty paths pass through.
func (d *AppDeps) FullAssetURL(path string) string {
	if path == "" || strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return strings.TrimSuffix(d.Config.AssetBaseURL, "/") + "/" + strings.TrimPrefix(path, "/")
}
