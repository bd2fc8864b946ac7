package models

import (
	"database/sql"
	"time"
)

type CommunityReq struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Public      bool   `json:"public"`
}

type Community struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Public      bool      `json:"public"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

type CommunityView struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	MembersCount int    `json:"membersCount" db:"members_count"`
	IsMember     bool   `json:"isMember" db:"is_member"`
}

type Member struct {
	UserID   int          `json:"userId" db:"user_id"`
	Name     string       `json:"name"`
	JoinedAt sql.NullTime `json:"joinedAt" db:"joined_at"`
}
