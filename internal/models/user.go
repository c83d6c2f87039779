package models

import (
	"time"

	"github.com/google/uuid"
)

// UserDB represents a user record in the database
type UserDB struct {
	UserID       uuid.UUID `db:"user_id"`       // Primary key
	Username     string    `db:"username"`      // Unique username
	PasswordHash string    `db:"password_hash"` // bcrypt hash of the password
	CreatedAt    time.Time `db:"created_at"`    // Creation timestamp
}
