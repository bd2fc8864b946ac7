package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (routes *Routes) GetMyPendingPosts(w http.ResponseWriter, r *http.Request) {
	pending, err := GetUserH(r).ListMyPendingPosts(r.Context())
	if err != nil {
		routes.HandleErr(w, r, err)
		return
	}
	routes.RenderJSON(w, http.StatusOK, pending)
}

func (routes *Routes) ConfirmPendingPost(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	post, err := GetUserH(r).ConfirmPendingPost(r.Context(), token)
	if err != nil {
		routes.HandleErr(w, r, err)
		return
	}
	routes.RenderJSON(w, http.StatusCreated, post)
}

func (routes *Routes) RejectPendingPost(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	pending, err := GetUserH(r).RejectPendingPost(r.Context(), token)
	if err != nil {
		routes.HandleErr(w, r, err)
		return
	}
	// The staged media has no post to belong to anymore
	if pending.MediaPath.Valid {
		if err := routes.media.Remove(pending.MediaPath.String); err != nil {
			routes.logger.Warn().
				Err(err).
				Str("path", pending.MediaPath.String).
				Msg("Failed to remove media of rejected pending post")
		}
	}
	routes.RenderJSON(w, http.StatusNoContent, nil)
}
