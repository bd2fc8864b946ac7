package models

import (
	"time"
)

type User struct {
	ID         int       `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Bio        string    `json:"bio"`
	GlobalRole string    `json:"globalRole" db:"global_role"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}
