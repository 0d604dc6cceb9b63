package domain

import "time"

// User is the domain entity for a user account.
type User struct {
	ID           int64
	Name         string
	Username     string
	PasswordHash string
	IsAdmin      bool
	CreatedAt    time.Time
}
