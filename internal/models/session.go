package models

// SessionData is the value stored per session in Redis.
// A zero UserID means the session is anonymous.
type SessionData struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

// Anonymous reports whether the session has no signed-in user.
func (d SessionData) Anonymous() bool {
	return d.UserID == ""
}
