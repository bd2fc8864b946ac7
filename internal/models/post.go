package models

import (
	"database/sql"
	"time"
)

type Post struct {
	ID        int            `json:"id"`
	Community string         `json:"community"`
	AuthorID  int            `json:"authorId" db:"author_id"`
	Content   string         `json:"content"`
	MediaPath sql.NullString `json:"mediaPath" db:"media_path"`
	CreatedAt time.Time      `json:"createdAt" db:"created_at"`
}

type PostView struct {
	ID            int            `json:"id"`
	Community     string         `json:"community"`
	AuthorID      int            `json:"authorId" db:"author_id"`
	AuthorName    string         `json:"authorName" db:"author_name"`
	Content       string         `json:"content"`
	ContentHTML   string         `json:"contentHtml" db:"-"`
	MediaPath     sql.NullString `json:"mediaPath" db:"media_path"`
	CommentsCount int            `json:"commentsCount" db:"comments_count"`
	CreatedAt     time.Time      `json:"createdAt" db:"created_at"`
}
