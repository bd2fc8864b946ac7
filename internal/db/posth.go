package db

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/pgxscan"
	"github.com/Manaswi925/ChimeIn/internal/models"
)

type PostH struct {
	sharedDB DBTX
	id       int
	perms    models.Perms
}

func (h *PostH) ID() int {
	return h.id
}

func (h *PostH) Perms() models.Perms {
	return h.perms
}

func (h *PostH) ReadView(ctx context.Context) (*models.PostView, error) {
	sql, args, _ := selectPostWithJoins().
		Where(sq.Eq{"posts.id": h.id}).
		ToSql()

	var post models.PostView
	err := pgxscan.Get(ctx, h.sharedDB, &post, sql, args...)
	if err != nil {
		return nil, notFoundAs(err, ErrNotFound)
	}
	return &post, nil
}

// Delete removes the post together with its comments and their references.
// It returns the media path so the caller can clean up the stored file.
func (h *PostH) Delete(ctx context.Context) (sql.NullString, error) {
	if err := h.perms.Require(models.PermDeletePost); err != nil {
		return sql.NullString{}, err
	}

	var mediaPath sql.NullString
	err := execTx(ctx, h.sharedDB, func(ctx context.Context, tx DBTX) error {
		row := tx.QueryRow(ctx, "SELECT media_path FROM posts WHERE id = $1", h.id)
		if err := row.Scan(&mediaPath); err != nil {
			return notFoundAs(err, ErrNotFound)
		}

		_, err := tx.Exec(ctx,
			`DELETE FROM comments
			 WHERE id IN (SELECT comment_id FROM post_comments WHERE post_id = $1)`, h.id)
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx, "DELETE FROM post_comments WHERE post_id = $1", h.id)
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx, "DELETE FROM posts WHERE id = $1", h.id)
		return err
	})
	return mediaPath, err
}

// CreateComment stores already-moderated content and links it into the
// post's comment set.
func (h *PostH) CreateComment(ctx context.Context, comment *models.Comment, uH *UserH) error {
	if uH == nil {
		return models.ErrPermDenied
	}
	if err := uH.perms.Require(models.PermCreateComment); err != nil {
		return err
	}
	if len(comment.Content) == 0 || len(comment.Content) > LimitMaxContentLen {
		return ErrBadContentLen
	}
	comment.AuthorID = uH.id
	comment.CreatedAt = time.Now()

	return execTx(ctx, h.sharedDB, func(ctx context.Context, tx DBTX) error {
		sql, args, _ := psql.
			Insert("comments").
			Columns("author_id", "content", "created_at").
			Values(comment.AuthorID, comment.Content, comment.CreatedAt).
			Suffix("RETURNING id").
			ToSql()

		row := tx.QueryRow(ctx, sql, args...)
		err := row.Scan(&comment.ID)
		if err != nil {
			return err
		}
		return linkComment(ctx, tx, h.id, comment.ID)
	})
}

// ListComments returns the post's comments, newest first.
func (h *PostH) ListComments(ctx context.Context) ([]models.CommentView, error) {
	sql, args, _ := psql.
		Select(
			"comments.id",
			"comments.author_id",
			"users.name AS author_name",
			"comments.content",
			"comments.created_at",
		).
		From("post_comments").
		Join("comments ON comments.id = post_comments.comment_id").
		Join("users ON users.id = comments.author_id").
		Where(sq.Eq{"post_comments.post_id": h.id}).
		OrderBy("comments.created_at DESC", "comments.id DESC").
		ToSql()

	comments := []models.CommentView{}
	err := pgxscan.Select(ctx, h.sharedDB, &comments, sql, args...)
	if err != nil {
		return nil, err
	}
	return comments, nil
}

// DeleteComment removes the reference from the post's comment set, then the
// comment itself. Owners may delete their own comments; otherwise the
// delete_comment capability is required.
func (h *PostH) DeleteComment(ctx context.Context, commentID int, uH *UserH) error {
	if uH == nil {
		return models.ErrPermDenied
	}

	var authorID int
	sqlq, args, _ := psql.
		Select("comments.author_id").
		From("post_comments").
		Join("comments ON comments.id = post_comments.comment_id").
		Where(sq.Eq{"post_comments.post_id": h.id, "post_comments.comment_id": commentID}).
		ToSql()
	err := h.sharedDB.QueryRow(ctx, sqlq, args...).Scan(&authorID)
	if err != nil {
		return notFoundAs(err, ErrNotFound)
	}

	if authorID != uH.id {
		if err := uH.perms.Require(models.PermDeleteComment); err != nil {
			return err
		}
	}
	return deleteComment(ctx, h.sharedDB, commentID)
}

func linkComment(ctx context.Context, db DBTX, postID, commentID int) error {
	_, err := db.Exec(ctx,
		"INSERT INTO post_comments (post_id, comment_id) VALUES ($1, $2)",
		postID, commentID)
	return err
}

// deleteComment drops the reference row first, then the comment. Each call
// is one transaction, so a half-removed comment can never be observed.
func deleteComment(ctx context.Context, db DBTX, commentID int) error {
	return execTx(ctx, db, func(ctx context.Context, tx DBTX) error {
		_, err := tx.Exec(ctx, "DELETE FROM post_comments WHERE comment_id = $1", commentID)
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx, "DELETE FROM comments WHERE id = $1", commentID)
		return err
	})
}

func isPostOwner(ctx context.Context, db DBTX, postID int, userID int) bool {
	sql, args, _ := psql.
		Select("1").
		From("posts").
		Where(sq.Eq{"id": postID, "author_id": userID}).
		ToSql()

	b := 0
	err := db.QueryRow(ctx, sql, args...).Scan(&b)
	return err == nil && b == 1
}

func insertPost(ctx context.Context, db DBTX, post *models.Post) error {
	sql, args, _ := psql.
		Insert("posts").
		Columns("community", "author_id", "content", "media_path", "created_at").
		Values(post.Community, post.AuthorID, post.Content, post.MediaPath, post.CreatedAt).
		Suffix("RETURNING id").
		ToSql()

	row := db.QueryRow(ctx, sql, args...)
	return row.Scan(&post.ID)
}

func selectPostWithJoins() sq.SelectBuilder {
	return psql.
		Select(
			"posts.id",
			"posts.community",
			"posts.author_id",
			"users.name AS author_name",
			"posts.content",
			"posts.media_path",
			"COUNT(post_comments.comment_id) AS comments_count",
			"posts.created_at",
		).
		From("posts").
		Join("users ON posts.author_id = users.id").
		LeftJoin("post_comments ON posts.id = post_comments.post_id").
		GroupBy("posts.id", "users.name")
}
