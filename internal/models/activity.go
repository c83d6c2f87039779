package models

// Campground lifecycle operations published to the activity stream
const (
	OpCampgroundCreated = "campground_created"
	OpCampgroundUpdated = "campground_updated"
	OpCampgroundDeleted = "campground_deleted"
)

// ActivityEvent is the payload published to Kafka for campground
// lifecycle changes.
type ActivityEvent struct {
	EventID      string `json:"event_id"`      // Unique event identifier
	Timestamp    int64  `json:"timestamp"`     // Unix time the event occurred
	Operation    string `json:"operation"`     // One of the Op* constants
	CampgroundID string `json:"campground_id"` // Affected campground
	UserID       string `json:"user_id"`       // Acting user
}
