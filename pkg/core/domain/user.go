package domain

import "time"

type User struct {
	ID           int64      `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty"`
}

// Actor is the authenticated caller extracted from a session token.
type Actor struct {
	UserID int64  `json:"id"`
	Email  string `json:"email"`
}
