package auth

import "time"

// User represents an authenticated user account.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	GroupID      string
	IsAdmin      bool
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
