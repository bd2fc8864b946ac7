package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/Manaswi925/ChimeIn/internal/models"
)

func (routes *Routes) CommunityCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userH := GetUserH(r)
		name := chi.URLParam(r, "community")

		communityH, err := routes.db.GetCommunityH(r.Context(), name, userH)
		if err != nil {
			routes.HandleErr(w, r, err)
			return
		}
		ctx := context.WithValue(r.Context(), CommunityHCtxKey, communityH)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (routes *Routes) GetCommunities(w http.ResponseWriter, r *http.Request) {
	communities, err := routes.db.ListCommunities(r.Context(), GetUserH(r))
	if err != nil {
		routes.HandleErr(w, r, err)
		return
	}
	routes.RenderJSON(w, http.StatusOK, communities)
}

func (routes *Routes) PostCommunity(w http.ResponseWriter, r *http.Request) {
	userH := GetUserH(r)
	req := models.CommunityReq{
		Name:        r.FormValue("name"),
		Description: r.FormValue("description"),
		Public:      r.FormValue("public") != "false",
	}
	communityH, err := routes.db.CreateCommunity(r.Context(), &req, userH)
	if err != nil {
		routes.HandleErr(w, r, err)
		return
	}
	view, err := communityH.ReadView(r.Context(), userH)
	if err != nil {
		routes.HandleErr(w, r, err)
		return
	}
	routes.RenderJSON(w, http.StatusCreated, view)
}

func (routes *Routes) GetCommunity(w http.ResponseWriter, r *http.Request) {
	view, err := GetCommunityH(r).ReadView(r.Context(), GetUserH(r))
	if err != nil {
		routes.HandleErr(w, r, err)
		return
	}
	routes.RenderJSON(w, http.StatusOK, view)
}

func (routes *Routes) JoinCommunity(w http.ResponseWriter, r *http.Request) {
	err := GetCommunityH(r).AddMember(r.Context(), GetUserH(r))
	if err != nil {
		routes.HandleErr(w, r, err)
		return
	}
	routes.RenderJSON(w, http.StatusNoContent, nil)
}

func (routes *Routes) LeaveCommunity(w http.ResponseWriter, r *http.Request) {
	err := GetCommunityH(r).RemoveMember(r.Context(), GetUserH(r))
	if err != nil {
		routes.HandleErr(w, r, err)
		return
	}
	routes.RenderJSON(w, http.StatusNoContent, nil)
}

func (routes *Routes) PostUser(w http.ResponseWriter, r *http.Request) {
	user := models.User{
		Name:  r.FormValue("name"),
		Email: r.FormValue("email"),
		Bio:   r.FormValue("bio"),
	}
	_, err := routes.db.CreateUser(r.Context(), &user)
	if err != nil {
		routes.HandleErr(w, r, err)
		return
	}
	routes.RenderJSON(w, http.StatusCreated, user)
}
