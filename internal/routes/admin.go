package routes

import (
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/hlog"
)

// ExpirePendingPosts garbage-collects stale pending posts. The cutoff
// defaults to the configured pending TTL (one hour); an optional form value
// overrides the age in minutes.
func (routes *Routes) ExpirePendingPosts(w http.ResponseWriter, r *http.Request) {
	cutoff := time.Now().Add(-routes.envConfig.PendingTTL)
	if minutes, err := strconv.Atoi(r.FormValue("olderThanMinutes")); err == nil && minutes > 0 {
		cutoff = time.Now().Add(-time.Duration(minutes) * time.Minute)
	}

	count, mediaPaths, err := GetUserH(r).ExpirePendingPosts(r.Context(), cutoff)
	if err != nil {
		routes.HandleErr(w, r, err)
		return
	}
	// The expired records are gone; their staged media would be orphaned
	for _, path := range mediaPaths {
		if err := routes.media.Remove(path); err != nil {
			hlog.FromRequest(r).Warn().
				Err(err).
				Str("path", path).
				Msg("Failed to remove media of expired pending post")
		}
	}
	hlog.FromRequest(r).Info().
		Int("count", count).
		Time("cutoff", cutoff).
		Msg("Expired pending posts")
	routes.RenderJSON(w, http.StatusOK, map[string]int{"expired": count})
}

func (routes *Routes) SweepComments(w http.ResponseWriter, r *http.Request) {
	removed, err := GetUserH(r).SweepComments(r.Context(), routes.gate.Matcher())
	if err != nil {
		routes.HandleErr(w, r, err)
		return
	}
	hlog.FromRequest(r).Info().
		Int("removed", removed).
		Msg("Swept offensive comments")
	routes.RenderJSON(w, http.StatusOK, map[string]int{"removed": removed})
}
