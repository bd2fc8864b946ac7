package models

import (
	"database/sql"
	"time"
)

const PendingStatusPending = "pending"

// PendingPost is content staged for deferred confirmation. It belongs to its
// author until confirmed, rejected or swept by expiry.
type PendingPost struct {
	ID                int            `json:"id"`
	AuthorID          int            `json:"authorId" db:"author_id"`
	Community         string         `json:"community"`
	Content           string         `json:"content"`
	MediaPath         sql.NullString `json:"mediaPath" db:"media_path"`
	Status            string         `json:"status"`
	ConfirmationToken string         `json:"confirmationToken" db:"confirmation_token"`
	CreatedAt         time.Time      `json:"createdAt" db:"created_at"`
}
