package handler

import (
	"context"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"

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

const (
	maxPostContentLen = 2000
	maxPostPhotos     = 5
	maxPhotoSize      = 10 << 20

	photoURLDuration = 15 * time.Minute
)

// currentIdentity rebuilds the canonical identity from the session token.
// Zero when the request is anonymous.
func currentIdentity(r *http.Request) identity.CanonicalIdentity {
	payload := jwt.GetPayloadFromContext(r)
	if payload == nil {
		return identity.CanonicalIdentity{}
	}

	return identity.CanonicalIdentity{
		RawID:       payload.ID,
		DisplayName: payload.Nickname,
		AvatarURL:   payload.Avatar,
		Provider:    identity.NormalizeProvider(payload.Provider),
	}
}

// ownershipRecord converts a stored post into the shape the ownership check
// operates on.
func ownershipRecord(p store.Post) *identity.RawPostRecord {
	return &identity.RawPostRecord{
		PostID:       identity.FlexID(strconv.FormatInt(p.ID, 10)),
		UserID:       identity.FlexID(p.UserID),
		UserNickname: p.UserNickname,
		AuthProvider: p.AuthProvider,
		SocialID:     identity.FlexID(p.SocialID),
		PostTitle:    p.Title,
		PostContent:  p.Content,
		PlaceList:    p.PlaceList,
		ImageURLs:    p.ImageURLs,
		Likes:        p.Likes,
	}
}

// postResponse renders a post with presigned photo URLs. A photo whose
// presign fails falls back to its plain asset URL rather than dropping out.
func postResponse(ctx context.Context, deps *AppDeps, p store.Post) map[string]any {
	imageURLs := make([]string, 0, len(p.ImageURLs))
	for _, path := range p.ImageURLs {
		key := strings.TrimPrefix(path, "/")
		url, err := deps.StorageService.PresignDownload(ctx, key, photoURLDuration)
		if err != nil {
			logx.Warn("post_response: presign failed", "post_id", p.ID, "key", key)
			url = deps.FullAssetURL(path)
		}
		imageURLs = append(imageURLs, url)
	}

	return map[string]any{
		"postId":       p.ID,
		"userId":       p.UserID,
		"userNickname": p.UserNickname,
		"authProvider": p.AuthProvider,
		"socialId":     p.SocialID,
		"postTitle":    p.Title,
		"postContent":  p.Content,
		"placeList":    p.PlaceList,
		"imageUrls":    imageURLs,
		"likes":        p.Likes,
		"createdAt":    p.CreatedAt.Format(time.RFC3339),
	}
}

func validatePostFields(title, content string) *errs.CustomError {
	if strings.TrimSpace(title) == "" {
		return errs.NewError(errs.ErrPostTitleRequired)
	}
	if utf8.RuneCountInString(content) > maxPostContentLen {
		return errs.NewError(errs.ErrPostContentTooLong)
	}
	return nil
}

// uploadPostPhotos streams each attached photo to S3 under the post's key
// space and returns the stored paths.
func uploadPostPhotos(ctx context.Context, deps *AppDeps, postID int64, files []*multipart.FileHeader) ([]string, *errs.CustomError) {
	paths := make([]string, 0, len(files))
	for _, header := range files {
		if header.Size > maxPhotoSize {
			return nil, errs.NewError(errs.ErrFileSizeTooLarge)
		}

		file, err := header.Open()
		if err != nil {
			return nil, errs.NewError(errs.ErrFormParseFailed)
		}

		key := randx.PhotoObjectKey(postID, header.Filename)
		path, err := deps.StorageService.Upload(ctx, key, header.Header.Get("Content-Type"), file)
		file.Close()
		if err != nil {
			return nil, errs.NewError(errs.ErrFileStorageFailed)
		}

		paths = append(paths, path)
	}
	return paths, nil
}

// HandleCreatePost creates a journal post from a multipart form: postTitle,
// postContent, repeated placeList values, and up to five photos.
func HandleCreatePost(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident := currentIdentity(r)
		if ident.IsZero() {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		if customErr := req.SetupMultipart(w, r); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		title := r.FormValue("postTitle")
		content := r.FormValue("postContent")
		if customErr := validatePostFields(title, content); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		photos := r.MultipartForm.File["photos"]
		if len(photos) > maxPostPhotos {
			resp.RespondError(w, r, errs.NewError(errs.ErrImageCountInvalid))
			return
		}

		post := store.Post{
			UserID:       ident.RawID,
			UserNickname: ident.DisplayName,
			Title:        title,
			Content:      content,
			PlaceList:    r.Form["placeList"],
		}
		if ident.Provider != identity.ProviderLocal {
			post.AuthProvider = string(ident.Provider)
			post.SocialID = identity.SocialSubject(ident.RawID)
		}

		created, err := deps.Posts.Create(r.Context(), post)
		if err != nil {
			logx.Error(err, "create_post: insert failed", "user_id", ident.RawID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		if len(photos) > 0 {
			paths, customErr := uploadPostPhotos(r.Context(), deps, created.ID, photos)
			if customErr != nil {
				if delErr := deps.Posts.Delete(r.Context(), created.ID); delErr != nil {
					logx.Error(delErr, "create_post: rollback delete failed", "post_id", created.ID)
				}
				resp.RespondError(w, r, customErr)
				return
			}

			created.ImageURLs = paths
			created, err = deps.Posts.Update(r.Context(), created)
			if err != nil {
				logx.Error(err, "create_post: image update failed", "post_id", created.ID)
				resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
				return
			}
		}

		logx.Info("post created", "post_id", created.ID, "user_id", ident.RawID)
		resp.RespondSuccess(w, r, postResponse(r.Context(), deps, created))
	}
}

// HandleListPosts returns every journal post, newest first. Public.
func HandleListPosts(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		posts, err := deps.Posts.ListAll(r.Context())
		if err != nil {
			logx.Error(err, "list_posts: query failed")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		out := make([]map[string]any, 0, len(posts))
		for _, p := range posts {
			out = append(out, postResponse(r.Context(), deps, p))
		}
		resp.RespondSuccess(w, r, out)
	}
}

// HandleMyPosts returns the signed-in user's posts, matching every user-id
// encoding their posts may have been written under.
func HandleMyPosts(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident := currentIdentity(r)
		if ident.IsZero() {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		posts, err := deps.Posts.ListByUserIDs(r.Context(), identity.OwnerIDVariants(ident.RawID))
		if err != nil {
			logx.Error(err, "my_posts: query failed", "user_id", ident.RawID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		out := make([]map[string]any, 0, len(posts))
		for _, p := range posts {
			out = append(out, postResponse(r.Context(), deps, p))
		}
		resp.RespondSuccess(w, r, out)
	}
}

// HandlePostDetail returns a single post. Requires a session token.
func HandlePostDetail(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident := currentIdentity(r)
		if ident.IsZero() {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		postID, err := strconv.ParseInt(chi.URLParam(r, "postId"), 10, 64)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams, "invalid post id"))
			return
		}

		post, err := deps.Posts.GetByID(r.Context(), postID)
		if err != nil {
			if db.IsNotFound(err) {
				resp.RespondError(w, r, errs.NewError(errs.ErrPostNotFound))
				return
			}
			logx.Error(err, "post_detail: query failed", "post_id", postID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		data := postResponse(r.Context(), deps, post)
		data["isOwner"] = identity.IsOwner(ident, ownershipRecord(post))
		resp.RespondSuccess(w, r, data)
	}
}

type UpdatePostInput struct {
	Title     string   `json:"postTitle"`
	Content   string   `json:"postContent"`
	PlaceList []string `json:"placeList"`
}

// HandleUpdatePost edits a post's text and places. Only the author may edit.
func HandleUpdatePost(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident := currentIdentity(r)
		if ident.IsZero() {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		postID, err := strconv.ParseInt(chi.URLParam(r, "postId"), 10, 64)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams, "invalid post id"))
			return
		}

		var input UpdatePostInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if customErr := validatePostFields(input.Title, input.Content); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		post, err := deps.Posts.GetByID(r.Context(), postID)
		if err != nil {
			if db.IsNotFound(err) {
				resp.RespondError(w, r, errs.NewError(errs.ErrPostNotFound))
				return
			}
			logx.Error(err, "update_post: query failed", "post_id", postID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		if !identity.IsOwner(ident, ownershipRecord(post)) {
			resp.RespondError(w, r, errs.NewError(errs.ErrNotPostOwner))
			return
		}

		post.Title = input.Title
		post.Content = input.Content
		post.PlaceList = input.PlaceList

		updated, err := deps.Posts.Update(r.Context(), post)
		if err != nil {
			logx.Error(err, "update_post: update failed", "post_id", postID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, postResponse(r.Context(), deps, updated))
	}
}

// HandleDeletePost removes a post and its stored photos. Only the author may
// delete.
func HandleDeletePost(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident := currentIdentity(r)
		if ident.IsZero() {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		postID, err := strconv.ParseInt(chi.URLParam(r, "postId"), 10, 64)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams, "invalid post id"))
			return
		}

		post, err := deps.Posts.GetByID(r.Context(), postID)
		if err != nil {
			if db.IsNotFound(err) {
				resp.RespondError(w, r, errs.NewError(errs.ErrPostNotFound))
				return
			}
			logx.Error(err, "delete_post: query failed", "post_id", postID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		if !identity.IsOwner(ident, ownershipRecord(post)) {
			resp.RespondError(w, r, errs.NewError(errs.ErrNotPostOwner))
			return
		}

		for _, path := range post.ImageURLs {
			key := strings.TrimPrefix(path, "/")
			if err := deps.StorageService.Delete(r.Context(), key); err != nil {
				logx.Warn("delete_post: photo delete failed", "post_id", postID, "key", key)
			}
		}

		if err := deps.Posts.Delete(r.Context(), postID); err != nil {
			logx.Error(err, "delete_post: delete failed", "post_id", postID)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		logx.Info("post deleted", "post_id", postID, "user_id", ident.RawID)
		resp.RespondSuccess(w, r, nil)
	}
}
