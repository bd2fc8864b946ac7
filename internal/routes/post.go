package routes

import (
	"context"
	"database/sql"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"
	"github.com/Manaswi925/ChimeIn/internal/db"
	"github.com/Manaswi925/ChimeIn/internal/models"
	"github.com/Manaswi925/ChimeIn/internal/moderation"
	"github.com/Manaswi925/ChimeIn/internal/utils"
)

const maxUploadSize = 10 << 20 // 10 MiB

func (routes *Routes) PostCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userH := GetUserH(r)
		communityH := GetCommunityH(r)

		postID, err := strconv.Atoi(chi.URLParam(r, "postID"))
		if err != nil {
			routes.HandleErr(w, r, db.ErrNotFound)
			return
		}
		postH, err := communityH.GetPostH(r.Context(), postID, userH)
		if err != nil {
			routes.HandleErr(w, r, err)
			return
		}
		ctx := context.WithValue(r.Context(), PostHCtxKey, postH)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (routes *Routes) GetPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := GetCommunityH(r).ListPosts(r.Context())
	if err != nil {
		routes.HandleErr(w, r, err)
		return
	}
	routes.RenderJSON(w, http.StatusOK, posts)
}

// PostPost creates a post after running the content through the moderation
// gate. A staged media upload is rolled back when the gate flags the text.
func (routes *Routes) PostPost(w http.ResponseWriter, r *http.Request) {
	userH := GetUserH(r)
	communityH := GetCommunityH(r)

	content, mediaPath, err := routes.readContentAndMedia(r)
	if err != nil {
		routes.HandleErr(w, r, err)
		return
	}

	verdict := routes.gate.Evaluate(r.Context(), content)
	if verdict.Flagged {
		routes.rejectFlagged(w, r, verdict, mediaPath)
		return
	}

	post := models.Post{
		Content:   content,
		MediaPath: sql.NullString{String: mediaPath, Valid: mediaPath != ""},
	}
	_, err = communityH.CreatePost(r.Context(), &post, userH)
	if err != nil {
		routes.HandleErr(w, r, err)
		return
	}
	routes.RenderJSON(w, http.StatusCreated, post)
}

// PostPendingPost stages a post for deferred confirmation instead of
// publishing it. The moderation gate still runs up front; the confirmation
// step only re-checks ownership, not content.
func (routes *Routes) PostPendingPost(w http.ResponseWriter, r *http.Request) {
	userH := GetUserH(r)
	communityH := GetCommunityH(r)

	content, mediaPath, err := routes.readContentAndMedia(r)
	if err != nil {
		routes.HandleErr(w, r, err)
		return
	}

	verdict := routes.gate.Evaluate(r.Context(), content)
	if verdict.Flagged {
		routes.rejectFlagged(w, r, verdict, mediaPath)
		return
	}

	pending := models.PendingPost{
		Content:   content,
		MediaPath: sql.NullString{String: mediaPath, Valid: mediaPath != ""},
	}
	created, err := communityH.CreatePendingPost(r.Context(), &pending, userH)
	if err != nil {
		routes.HandleErr(w, r, err)
		return
	}
	routes.RenderJSON(w, http.StatusAccepted, created)
}

func (routes *Routes) GetPost(w http.ResponseWriter, r *http.Request) {
	view, err := GetPostH(r).ReadView(r.Context())
	if err != nil {
		routes.HandleErr(w, r, err)
		return
	}
	view.ContentHTML = utils.RenderMarkdown(view.Content)
	routes.RenderJSON(w, http.StatusOK, view)
}

func (routes *Routes) DeletePost(w http.ResponseWriter, r *http.Request) {
	mediaPath, err := GetPostH(r).Delete(r.Context())
	if err != nil {
		routes.HandleErr(w, r, err)
		return
	}
	if mediaPath.Valid {
		if err := routes.media.Remove(mediaPath.String); err != nil {
			hlog.FromRequest(r).Warn().
				Err(err).
				Str("path", mediaPath.String).
				Msg("Failed to remove media of deleted post")
		}
	}
	routes.RenderJSON(w, http.StatusNoContent, nil)
}

// rejectFlagged rolls back the staged media file, if any, and reports the
// flagged verdict to the client. A failed rollback is logged, not escalated.
func (routes *Routes) rejectFlagged(w http.ResponseWriter, r *http.Request, verdict moderation.Verdict, mediaPath string) {
	if mediaPath != "" {
		if err := routes.media.Remove(mediaPath); err != nil {
			hlog.FromRequest(r).Warn().
				Err(err).
				Str("path", mediaPath).
				Msg("Failed to roll back rejected upload")
		}
	}
	routes.RenderRejection(w, r, verdict)
}

// readContentAndMedia pulls the post text and, when the request is
// multipart, stages the uploaded media file. The file ends up on disk
// before the moderation check runs; the caller owns its rollback.
func (routes *Routes) readContentAndMedia(r *http.Request) (content, mediaPath string, err error) {
	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			return "", "", err
		}
		content = r.FormValue("content")
		file, header, ferr := r.FormFile("media")
		if ferr == nil {
			defer file.Close()
			mediaPath, err = routes.media.Save(file, header.Filename)
			if err != nil {
				return "", "", err
			}
		}
		return content, mediaPath, nil
	}
	return r.FormValue("content"), "", nil
}
