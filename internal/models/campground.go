package models

import (
	"time"

	"github.com/google/uuid"
)

// CampgroundDB represents a campground row in the database.
// AuthorID/AuthorName are a denormalized copy of the creating user;
// AuthorID never changes after creation.
type CampgroundDB struct {
	CampgroundID uuid.UUID `db:"campground_id"` // Primary key
	Name         string    `db:"name"`          // Display name
	Price        float64   `db:"price"`         // Price per night
	Description  string    `db:"description"`   // Free-form description
	ImageURL     string    `db:"image_url"`     // Public URL of the hosted image
	ImageAssetID string    `db:"image_asset_id"` // Opaque handle for deleting the hosted image
	AuthorID     uuid.UUID `db:"author_id"`     // Creating user's id
	AuthorName   string    `db:"author_name"`   // Creating user's username
	CreatedAt    time.Time `db:"created_at"`    // Creation timestamp
	UpdatedAt    time.Time `db:"updated_at"`    // Last update timestamp
}
