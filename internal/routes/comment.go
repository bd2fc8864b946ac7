package routes

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/Manaswi925/ChimeIn/internal/db"
	"github.com/Manaswi925/ChimeIn/internal/models"
)

func (routes *Routes) GetComments(w http.ResponseWriter, r *http.Request) {
	comments, err := GetPostH(r).ListComments(r.Context())
	if err != nil {
		routes.HandleErr(w, r, err)
		return
	}
	routes.RenderJSON(w, http.StatusOK, comments)
}

// PostComment creates a comment after running it through the moderation
// gate. Comments carry no media, so a flagged verdict has nothing to roll
// back.
func (routes *Routes) PostComment(w http.ResponseWriter, r *http.Request) {
	userH := GetUserH(r)
	postH := GetPostH(r)

	content := r.FormValue("content")
	verdict := routes.gate.Evaluate(r.Context(), content)
	if verdict.Flagged {
		routes.RenderRejection(w, r, verdict)
		return
	}

	comment := models.Comment{Content: content}
	err := postH.CreateComment(r.Context(), &comment, userH)
	if err != nil {
		routes.HandleErr(w, r, err)
		return
	}
	routes.RenderJSON(w, http.StatusCreated, comment)
}

func (routes *Routes) DeleteComment(w http.ResponseWriter, r *http.Request) {
	commentID, err := strconv.Atoi(chi.URLParam(r, "commentID"))
	if err != nil {
		routes.HandleErr(w, r, db.ErrNotFound)
		return
	}
	err = GetPostH(r).DeleteComment(r.Context(), commentID, GetUserH(r))
	if err != nil {
		routes.HandleErr(w, r, err)
		return
	}
	routes.RenderJSON(w, http.StatusNoContent, nil)
}
