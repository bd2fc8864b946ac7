package models

import "time"

type Comment struct {
	ID        int       `json:"id"`
	AuthorID  int       `json:"authorId" db:"author_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

type CommentView struct {
	ID         int       `json:"id"`
	AuthorID   int       `json:"authorId" db:"author_id"`
	AuthorName string    `json:"authorName" db:"author_name"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}
