package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"travelog/internal/pkg/auth/jwt"
	"travelog/internal/pkg/limiter"
	"travelog/internal/pkg/logx"
	"travelog/internal/pkg/resp"
)

const (
	// Credential endpoints get a tight per-IP budget.
	AuthRate  = 0.2
	AuthBurst = 5
	// Post creation is heavier (photo uploads) and rarer.
	WriteRate  = 0.1
	WriteBurst = 3
)

// Router sets up the main HTTP routing table (chi.Router) for the application.
// It initializes IP-based rate limiters, configures CORS, and applies global
// and per-route middleware before delegating to the handlers.
func Router(deps *AppDeps) http.Handler {
	authLimiter := limiter.NewIPRateLimiter(rate.Limit(AuthRate), AuthBurst)
	writeLimiter := limiter.NewIPRateLimiter(rate.Limit(WriteRate), WriteBurst)

	r := chi.NewRouter()

	corsAllowedOrigins := []string{}
	if deps.Config.Environment == "development" {
		corsAllowedOrigins = []string{"*"}
	} else if len(deps.Config.AllowedOrigins) > 0 {
		corsAllowedOrigins = deps.Config.AllowedOrigins
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   corsAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{},
		AllowCredentials: true,
		MaxAge:           300,
	})
	r.Use(c.Handler)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logx.RequestLogger())
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		data := map[string]string{
			"status":  "ok",
			"service": "Travelog Server",
		}
		resp.RespondSuccess(w, r, data)
	})

	r.Route("/api", func(api chi.Router) {
		api.Use(jwt.IdentityExtractorMiddleware(deps.Config.JWTSecret))

		api.Route("/auth", func(auth chi.Router) {
			auth.With(authLimiter.Middleware).Post("/signup", HandleSignup(deps))
			auth.With(authLimiter.Middleware).Post("/login", HandleLogin(deps))
			auth.With(authLimiter.Middleware).Post("/google", HandleGoogleLogin(deps))
			auth.With(authLimiter.Middleware).Post("/kakao", HandleKakaoLogin(deps))

			auth.Post("/check-id", HandleCheckDuplicateID(deps))
			auth.Post("/find-id", HandleFindID(deps))
			auth.Post("/find-password", HandleFindPassword(deps))
			auth.With(authLimiter.Middleware).Post("/reset-password", HandleResetPassword(deps))
			auth.Post("/logout", HandleLogout(deps))
		})

		api.Route("/user", func(user chi.Router) {
			user.Post("/nickname", HandleChangeNickname(deps))
			user.Post("/password", HandleChangePassword(deps))
			user.Post("/profile-image", HandleUploadProfileImage(deps))
			user.Delete("/profile-image", HandleDeleteProfileImage(deps))
			user.Post("/withdraw", HandleWithdraw(deps))
		})

		api.Route("/social/user", func(social chi.Router) {
			social.Post("/", HandleSaveSocialUser(deps))
			social.Post("/format-id", HandleFormatSocialID(deps))
			social.Get("/{socialId}", HandleGetSocialUser(deps))
			social.Get("/{socialId}/exists", HandleSocialUserExists(deps))
			social.Delete("/{socialId}", HandleDeleteSocialUser(deps))
		})
	})

	r.Route("/travel", func(travel chi.Router) {
		travel.Use(jwt.IdentityExtractorMiddleware(deps.Config.JWTSecret))

		travel.Get("/posts", HandleListPosts(deps))
		travel.Get("/myPosts", HandleMyPosts(deps))
		travel.Get("/posts/postDetail/{postId}", HandlePostDetail(deps))
		travel.With(writeLimiter.Middleware).Post("/write", HandleCreatePost(deps))
		travel.Put("/posts/postEdit/{postId}", HandleUpdatePost(deps))
		travel.Delete("/postDelete/{postId}", HandleDeletePost(deps))

		travel.Route("/likes", func(likes chi.Router) {
			likes.Post("/status", HandleLikeStatuses(deps))
			likes.Post("/{postId}", HandleAddLike(deps))
			likes.Delete("/{postId}", HandleRemoveLike(deps))
			likes.Get("/{postId}/isLiked", HandleIsLiked(deps))
		})
	})

	return r
}
