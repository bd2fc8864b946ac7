package db

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/pgxscan"
	"github.com/Manaswi925/ChimeIn/internal/models"
)

// Pending content lifecycle: pending -> confirmed | rejected | expired.
// Confirm and reject race on the confirmation token; the conditional
// DELETE ... RETURNING is the concurrency boundary, so at most one of them
// succeeds and the loser observes ErrNotFound.

// ConfirmPendingPost materializes a pending post into the live store. The
// conditional delete of the token record is the irrevocable commit point;
// the live insert follows in the same transaction.
func (h *UserH) ConfirmPendingPost(ctx context.Context, token string) (*models.Post, error) {
	var post models.Post
	err := execTx(ctx, h.sharedDB, func(ctx context.Context, tx DBTX) error {
		pending, err := deletePendingByToken(ctx, tx, token, h.id)
		if err != nil {
			return err
		}
		post = models.Post{
			Community: pending.Community,
			AuthorID:  pending.AuthorID,
			Content:   pending.Content,
			MediaPath: pending.MediaPath,
			CreatedAt: time.Now(),
		}
		return insertPost(ctx, tx, &post)
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// RejectPendingPost discards a pending post. Only the owner can reject, and
// only while the record is still pending.
func (h *UserH) RejectPendingPost(ctx context.Context, token string) (*models.PendingPost, error) {
	var pending *models.PendingPost
	err := execTx(ctx, h.sharedDB, func(ctx context.Context, tx DBTX) error {
		var err error
		pending, err = deletePendingByToken(ctx, tx, token, h.id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return pending, nil
}

// ExpirePendingPosts bulk-deletes pending posts older than the cutoff,
// regardless of owner. Restricted to the expire capability. Idempotent: a
// second run with the same cutoff deletes nothing further. The media paths
// of the deleted records are returned so the caller can remove the stored
// files, which otherwise have no record left pointing at them.
func (h *UserH) ExpirePendingPosts(ctx context.Context, cutoff time.Time) (int, []string, error) {
	if err := h.perms.Require(models.PermExpirePending); err != nil {
		return 0, nil, err
	}

	sqlq, args, _ := psql.
		Delete("pending_posts").
		Where(sq.Lt{"created_at": cutoff}).
		Where(sq.Eq{"status": models.PendingStatusPending}).
		Suffix("RETURNING media_path").
		ToSql()

	deleted := []sql.NullString{}
	err := pgxscan.Select(ctx, h.sharedDB, &deleted, sqlq, args...)
	if err != nil {
		return 0, nil, err
	}
	var mediaPaths []string
	for _, p := range deleted {
		if p.Valid {
			mediaPaths = append(mediaPaths, p.String)
		}
	}
	return len(deleted), mediaPaths, nil
}

func (h *UserH) ListMyPendingPosts(ctx context.Context) ([]models.PendingPost, error) {
	sql, args, _ := psql.
		Select("*").
		From("pending_posts").
		Where(sq.Eq{"author_id": h.id, "status": models.PendingStatusPending}).
		OrderBy("created_at DESC").
		ToSql()

	pending := []models.PendingPost{}
	err := pgxscan.Select(ctx, h.sharedDB, &pending, sql, args...)
	if err != nil {
		return nil, err
	}
	return pending, nil
}

// deletePendingByToken is the atomic compare-and-delete on
// (token, owner, status). Zero rows means the token is missing, resolved
// already, or owned by someone else; all three surface as ErrNotFound.
func deletePendingByToken(ctx context.Context, db DBTX, token string, authorID int) (*models.PendingPost, error) {
	sql, args, _ := psql.
		Delete("pending_posts").
		Where(sq.Eq{
			"confirmation_token": token,
			"author_id":          authorID,
			"status":             models.PendingStatusPending,
		}).
		Suffix("RETURNING id, author_id, community, content, media_path, status, confirmation_token, created_at").
		ToSql()

	var pending models.PendingPost
	err := pgxscan.Get(ctx, db, &pending, sql, args...)
	if err != nil {
		return nil, notFoundAs(err, ErrNotFound)
	}
	return &pending, nil
}
