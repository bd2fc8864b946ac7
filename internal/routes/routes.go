package routes

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"github.com/Manaswi925/ChimeIn/internal/db"
	"github.com/Manaswi925/ChimeIn/internal/models"
	"github.com/Manaswi925/ChimeIn/internal/moderation"
	"github.com/Manaswi925/ChimeIn/internal/storage"
)

type ctxKey int

const (
	UserHCtxKey ctxKey = iota
	CommunityHCtxKey
	PostHCtxKey
)

type Routes struct {
	envConfig *models.EnvConfig
	db        *db.SharedDB
	gate      *moderation.Gate
	media     *storage.Media
	logger    zerolog.Logger
}

func NewRouter(
	config *models.EnvConfig,
	database *db.SharedDB,
	gate *moderation.Gate,
	media *storage.Media,
	logger zerolog.Logger,
) chi.Router {
	routes := &Routes{
		envConfig: config,
		db:        database,
		gate:      gate,
		media:     media,
		logger:    logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(hlog.NewHandler(logger))
	r.Use(hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Str("url", r.URL.String()).
			Int("status", status).
			Dur("duration", duration).
			Send()
	}))
	r.Use(routes.UserCtx)

	r.Post("/users", routes.PostUser)

	r.Route("/communities", func(r chi.Router) {
		r.Get("/", routes.GetCommunities)
		r.With(routes.RequireUser).Post("/", routes.PostCommunity)

		r.Route("/{community}", func(r chi.Router) {
			r.Use(routes.CommunityCtx)
			r.Get("/", routes.GetCommunity)
			r.With(routes.RequireUser).Post("/members", routes.JoinCommunity)
			r.With(routes.RequireUser).Delete("/members", routes.LeaveCommunity)

			r.Get("/posts", routes.GetPosts)
			r.With(routes.RequireUser).Post("/posts", routes.PostPost)
			r.With(routes.RequireUser).Post("/posts/pending", routes.PostPendingPost)

			r.Route("/posts/{postID}", func(r chi.Router) {
				r.Use(routes.PostCtx)
				r.Get("/", routes.GetPost)
				r.With(routes.RequireUser).Delete("/", routes.DeletePost)
				r.Get("/comments", routes.GetComments)
				r.With(routes.RequireUser).Post("/comments", routes.PostComment)
				r.With(routes.RequireUser).Delete("/comments/{commentID}", routes.DeleteComment)
			})
		})
	})

	r.Route("/pending", func(r chi.Router) {
		r.Use(routes.RequireUser)
		r.Get("/", routes.GetMyPendingPosts)
		r.Post("/{token}/confirm", routes.ConfirmPendingPost)
		r.Delete("/{token}", routes.RejectPendingPost)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(routes.RequireUser)
		r.Post("/pending/expire", routes.ExpirePendingPosts)
		r.Post("/sweep", routes.SweepComments)
	})

	return r
}

// UserCtx resolves the already-authenticated user id (set upstream by the
// auth layer) to a UserH. Requests without one proceed anonymously.
func (routes *Routes) UserCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		idStr := r.Header.Get("X-User-ID")
		if idStr == "" {
			next.ServeHTTP(w, r)
			return
		}
		id, err := strconv.Atoi(idStr)
		if err != nil {
			routes.HandleErr(w, r, db.ErrNotFound)
			return
		}
		userH, err := routes.db.GetUserH(r.Context(), id)
		if err != nil {
			routes.HandleErr(w, r, err)
			return
		}
		ctx := context.WithValue(r.Context(), UserHCtxKey, userH)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (routes *Routes) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetUserH(r) == nil {
			routes.RenderErr(w, r, http.StatusUnauthorized, "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func GetUserH(r *http.Request) *db.UserH {
	userH, _ := r.Context().Value(UserHCtxKey).(*db.UserH)
	return userH
}
func GetCommunityH(r *http.Request) *db.CommunityH {
	communityH, _ := r.Context().Value(CommunityHCtxKey).(*db.CommunityH)
	return communityH
}
func GetPostH(r *http.Request) *db.PostH {
	postH, _ := r.Context().Value(PostHCtxKey).(*db.PostH)
	return postH
}

func (routes *Routes) RenderJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func (routes *Routes) RenderErr(w http.ResponseWriter, r *http.Request, status int, message string) {
	routes.RenderJSON(w, status, map[string]string{"error": message})
}

// RenderRejection reports a flagged moderation verdict. The reason category
// is stable: "rule match" for rule hits, attribute details for the scorer.
func (routes *Routes) RenderRejection(w http.ResponseWriter, r *http.Request, verdict moderation.Verdict) {
	hlog.FromRequest(r).Info().
		Str("reason", verdict.Reason).
		Msg("Content rejected by moderation")
	routes.RenderJSON(w, http.StatusBadRequest, map[string]string{
		"error":  "content rejected by moderation",
		"reason": verdict.Reason,
	})
}

func (routes *Routes) HandleErr(w http.ResponseWriter, r *http.Request, err error) {
	var missingPerms models.ErrMissingPerms
	switch {
	case errors.Is(err, db.ErrNotFound):
		routes.RenderErr(w, r, http.StatusNotFound, "not found")
	case errors.Is(err, models.ErrPermDenied), errors.As(err, &missingPerms):
		routes.RenderErr(w, r, http.StatusForbidden, "forbidden")
	case errors.Is(err, db.ErrBadContentLen),
		errors.Is(err, db.ErrInvalidFormat),
		errors.Is(err, db.ErrEmailAlreadyUsed),
		errors.Is(err, db.ErrNameAlreadyUsed):
		routes.RenderErr(w, r, http.StatusBadRequest, err.Error())
	default:
		hlog.FromRequest(r).Error().
			Str("request_id", middleware.GetReqID(r.Context())).
			Err(err).
			Msg("Internal server error")
		routes.RenderErr(w, r, http.StatusInternalServerError, "internal server error")
	}
}
