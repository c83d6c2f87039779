package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/ovasilenko/campsite/internal/logger"
	"github.com/ovasilenko/campsite/internal/models"
)

// SessionRepository stores sessions and one-shot flash messages in Redis.
// Session expiry is entirely Redis TTL.
type SessionRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionRepository creates a new repository with the given session TTL.
func NewSessionRepository(client *redis.Client, ttl time.Duration) *SessionRepository {
	return &SessionRepository{client: client, ttl: ttl}
}

func sessionKey(sessionID string) string {
	return fmt.Sprintf("session:%s", sessionID)
}

func flashKey(sessionID, kind string) string {
	return fmt.Sprintf("flash:%s:%s", sessionID, kind)
}

// Save stores the session data and refreshes the TTL.
func (r *SessionRepository) Save(ctx context.Context, sessionID string, data models.SessionData) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}

	key := sessionKey(sessionID)
	err = r.client.Set(ctx, key, payload, r.ttl).Err()

	logger.Log.Infow("session saved",
		"key", key,
		"anonymous", data.Anonymous(),
		"error", err,
	)

	return err
}

// Get returns the session data, or nil if the session does not exist
// or has expired.
func (r *SessionRepository) Get(ctx context.Context, sessionID string) (*models.SessionData, error) {
	key := sessionKey(sessionID)

	val, err := r.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		logger.Log.Errorw("session lookup failed", "key", key, "error", err)
		return nil, err
	}

	var data models.SessionData
	if err := json.Unmarshal([]byte(val), &data); err != nil {
		logger.Log.Errorw("session payload corrupt", "key", key, "error", err)
		return nil, err
	}
	return &data, nil
}

// Delete removes the session and any pending flash messages.
func (r *SessionRepository) Delete(ctx context.Context, sessionID string) error {
	err := r.client.Del(ctx,
		sessionKey(sessionID),
		flashKey(sessionID, "error"),
		flashKey(sessionID, "success"),
	).Err()

	logger.Log.Infow("session deleted", "session_id", sessionID, "error", err)
	return err
}

// SetFlash stores a one-shot message of the given kind for the session.
func (r *SessionRepository) SetFlash(ctx context.Context, sessionID, kind, message string) error {
	return r.client.Set(ctx, flashKey(sessionID, kind), message, r.ttl).Err()
}

// PopFlash returns and clears the pending message of the given kind.
// Returns "" when there is none.
func (r *SessionRepository) PopFlash(ctx context.Context, sessionID, kind string) (string, error) {
	val, err := r.client.GetDel(ctx, flashKey(sessionID, kind)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return val, nil
}
