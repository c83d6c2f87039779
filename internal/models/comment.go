package models

import (
	"time"

	"github.com/google/uuid"
)

// CommentDB represents a comment row in the database.
type CommentDB struct {
	CommentID    uuid.UUID `db:"comment_id"`    // Primary key
	CampgroundID uuid.UUID `db:"campground_id"` // Owning campground
	Text         string    `db:"text"`          // Comment body
	AuthorID     uuid.UUID `db:"author_id"`     // Creating user's id
	AuthorName   string    `db:"author_name"`   // Creating user's username
	CreatedAt    time.Time `db:"created_at"`    // Creation timestamp
}
