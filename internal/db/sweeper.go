package db

import (
	"context"

	"github.com/georgysavva/scany/pgxscan"
	"github.com/Manaswi925/ChimeIn/internal/models"
	"github.com/Manaswi925/ChimeIn/internal/moderation"
)

// SweepComments re-evaluates every persisted comment against the current
// rule list and purges violations. The external scorer is never consulted
// here.
//
// The sweep is not transactional as a whole; each comment's removal is its
// own transaction, so a crash mid-sweep leaves processed comments removed
// and the rest untouched. Re-running is safe.
func (h *UserH) SweepComments(ctx context.Context, matcher *moderation.Matcher) (int, error) {
	if err := h.perms.Require(models.PermSweepComments); err != nil {
		return 0, err
	}

	var comments []models.Comment
	err := pgxscan.Select(ctx, h.sharedDB, &comments,
		"SELECT id, author_id, content, created_at FROM comments ORDER BY id")
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, comment := range comments {
		if !matcher.Matches(comment.Content) {
			continue
		}
		if err := deleteComment(ctx, h.sharedDB, comment.ID); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}
