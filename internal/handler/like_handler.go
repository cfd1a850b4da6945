package handler

import (
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"

	"travelog/internal/app/db"
	"travelog/internal/app/identity"
	"travelog/internal/app/store"
	"travelog/internal/pkg/errs"
	"travelog/internal/pkg/logx"
	"travelog/internal/pkg/req"
	"travelog/internal/pkg/resp"
)

// likeUserType maps the session provider to the user-type tag like rows use.
func likeUserType(ident identity.CanonicalIdentity) string {
	if ident.Provider == identity.ProviderLocal {
		return store.UserTypeRegular
	}
	return store.UserTypeSocial
}

func likePostID(r *http.Request) (int64, *errs.CustomError) {
	postID, err := strconv.ParseInt(chi.URLParam(r, "postId"), 10, 64)
	if err != nil {
		return 0, errs.NewError(errs.ErrInvalidParams, "invalid post id")
	}
	return postID, nil
}

// HandleAddLike records a like on a post. Liking twice is a no-op.
func HandleAddLike(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident := currentIdentity(r)
		if ident.IsZero() {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		postID, customErr := likePostID(r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if _, err := deps.Posts.GetByID(r.Context(), postID); err != nil {
			if db.IsNotFound(err) {
				resp.RespondError(w, r, errs.NewError(errs.ErrPostNotFound))
				return
			}
			logx.Error(err, "add_like: post lookup failed", "post_id", postID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		if err := deps.Likes.Add(r.Context(), ident.RawID, likeUserType(ident), postID); err != nil {
			logx.Error(err, "add_like: insert failed", "post_id", postID, "user_id", ident.RawID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		count, err := deps.Likes.Count(r.Context(), postID)
		if err != nil {
			logx.Error(err, "add_like: count failed", "post_id", postID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{"likes": count, "isLiked": true})
	}
}

// HandleRemoveLike removes a like from a post.
func HandleRemoveLike(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident := currentIdentity(r)
		if ident.IsZero() {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		postID, customErr := likePostID(r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		liked, err := deps.Likes.IsLiked(r.Context(), ident.RawID, likeUserType(ident), postID)
		if err != nil {
			logx.Error(err, "remove_like: lookup failed", "post_id", postID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}
		if !liked {
			resp.RespondError(w, r, errs.NewError(errs.ErrLikeNotFound))
			return
		}

		if err := deps.Likes.Remove(r.Context(), ident.RawID, likeUserType(ident), postID); err != nil {
			logx.Error(err, "remove_like: delete failed", "post_id", postID, "user_id", ident.RawID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		count, err := deps.Likes.Count(r.Context(), postID)
		if err != nil {
			logx.Error(err, "remove_like: count failed", "post_id", postID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{"likes": count, "isLiked": false})
	}
}

// HandleIsLiked reports whether the signed-in user has liked a post.
func HandleIsLiked(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident := currentIdentity(r)
		if ident.IsZero() {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		postID, customErr := likePostID(r)
		if customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		liked, err := deps.Likes.IsLiked(r.Context(), ident.RawID, likeUserType(ident), postID)
		if err != nil {
			logx.Error(err, "is_liked: lookup failed", "post_id", postID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{"isLiked": liked})
	}
}

type LikeStatusInput struct {
	PostIDs []int64 `json:"postIds"`
}

const maxLikeStatusBatch = 50

// HandleLikeStatuses resolves the liked flag for a page of posts at once.
// Lookups run concurrently; a failed lookup degrades to "not liked" so one
// bad row never blanks the whole page.
func HandleLikeStatuses(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident := currentIdentity(r)
		if ident.IsZero() {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		var input LikeStatusInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if len(input.PostIDs) > maxLikeStatusBatch {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams, "too many post ids"))
			return
		}

		userType := likeUserType(ident)
		statuses := make([]bool, len(input.PostIDs))

		var wg sync.WaitGroup
		for i, postID := range input.PostIDs {
			wg.Add(1)
			go func(i int, postID int64) {
				defer wg.Done()

				liked, err := deps.Likes.IsLiked(r.Context(), ident.RawID, userType, postID)
				if err != nil {
					logx.Warn("like_statuses: lookup failed, treating as not liked", "post_id", postID)
					return
				}
				statuses[i] = liked
			}(i, postID)
		}
		wg.Wait()

		out := make(map[string]bool, len(input.PostIDs))
		for i, postID := range input.PostIDs {
			out[strconv.FormatInt(postID, 10)] = statuses[i]
		}
		resp.RespondSuccess(w, r, out)
	}
}
