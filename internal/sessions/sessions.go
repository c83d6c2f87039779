// Package sessions implements cookie sessions backed by a server-side
// store. The cookie value is a signed JWT whose subject is the session
// id, so unsigned or tampered cookies never reach the store.
package sessions

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/ovasilenko/campsite/internal/logger"
	"github.com/ovasilenko/campsite/internal/models"
)

// CookieName is the name of the session cookie.
const CookieName = "campsite_session"

// Flash message kinds.
const (
	FlashError   = "error"
	FlashSuccess = "success"
)

var errInvalidToken = errors.New("invalid session token")

// Current is the identity resolved for a request.
type Current struct {
	SessionID string
	UserID    uuid.UUID
	Username  string
}

// Anonymous reports whether no user is signed in.
func (c Current) Anonymous() bool {
	return c.UserID == uuid.Nil
}

type contextKey struct{}

var currentKey = contextKey{}

// WithCurrent stores the resolved session identity in the context.
func WithCurrent(ctx context.Context, cur Current) context.Context {
	return context.WithValue(ctx, currentKey, cur)
}

// CurrentFrom returns the resolved session identity, if any.
func CurrentFrom(ctx context.Context) (Current, bool) {
	cur, ok := ctx.Value(currentKey).(Current)
	return cur, ok
}

// Store is the server-side session store.
type Store interface {
	Save(ctx context.Context, sessionID string, data models.SessionData) error
	Get(ctx context.Context, sessionID string) (*models.SessionData, error)
	Delete(ctx context.Context, sessionID string) error
	SetFlash(ctx context.Context, sessionID, kind, message string) error
	PopFlash(ctx context.Context, sessionID, kind string) (string, error)
}

// Manager issues, resolves and destroys sessions.
type Manager struct {
	store  Store
	secret []byte
	ttl    time.Duration
}

// New creates a session manager signing cookies with secret.
func New(store Store, secret string, ttl time.Duration) *Manager {
	return &Manager{store: store, secret: []byte(secret), ttl: ttl}
}

// token signs a session id into a cookie value.
func (m *Manager) token(sessionID string) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   sessionID,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(m.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// sessionID verifies a cookie value and extracts the session id.
func (m *Manager) sessionID(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return "", errInvalidToken
	}
	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		return "", errInvalidToken
	}
	return sub, nil
}

func (m *Manager) setCookie(w http.ResponseWriter, sessionID string) error {
	value, err := m.token(sessionID)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(m.ttl / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Ensure resolves the request's session, creating a fresh anonymous one
// when the cookie is missing, invalid or expired. The returned Current
// always has a usable SessionID.
func (m *Manager) Ensure(ctx context.Context, w http.ResponseWriter, r *http.Request) (Current, error) {
	if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
		if sid, err := m.sessionID(c.Value); err == nil {
			data, err := m.store.Get(ctx, sid)
			if err != nil {
				return Current{}, err
			}
			if data != nil {
				cur := Current{SessionID: sid, Username: data.Username}
				if !data.Anonymous() {
					uid, err := uuid.Parse(data.UserID)
					if err == nil {
						cur.UserID = uid
					} else {
						logger.Log.Errorw("session holds malformed user id", "session_id", sid, "error", err)
					}
				}
				return cur, nil
			}
		}
	}

	sid := uuid.NewString()
	if err := m.store.Save(ctx, sid, models.SessionData{}); err != nil {
		return Current{}, err
	}
	if err := m.setCookie(w, sid); err != nil {
		return Current{}, err
	}
	return Current{SessionID: sid}, nil
}

// SignIn binds a user to a fresh session id and replaces the cookie.
// The old session is dropped so a pre-login id can not be replayed.
func (m *Manager) SignIn(ctx context.Context, w http.ResponseWriter, cur Current, user *models.UserDB) (Current, error) {
	sid := uuid.NewString()
	data := models.SessionData{UserID: user.UserID.String(), Username: user.Username}
	if err := m.store.Save(ctx, sid, data); err != nil {
		return cur, err
	}
	if err := m.setCookie(w, sid); err != nil {
		return cur, err
	}
	if cur.SessionID != "" {
		if err := m.store.Delete(ctx, cur.SessionID); err != nil {
			logger.Log.Errorw("failed to drop pre-login session", "session_id", cur.SessionID, "error", err)
		}
	}
	return Current{SessionID: sid, UserID: user.UserID, Username: user.Username}, nil
}

// SignOut detaches the user from the session. The session itself stays
// alive so the post-logout flash message can still be delivered.
func (m *Manager) SignOut(ctx context.Context, cur Current) error {
	return m.store.Save(ctx, cur.SessionID, models.SessionData{})
}

// Flash queues a one-shot message for the session.
func (m *Manager) Flash(ctx context.Context, sessionID, kind, message string) {
	if sessionID == "" {
		return
	}
	if err := m.store.SetFlash(ctx, sessionID, kind, message); err != nil {
		logger.Log.Errorw("failed to set flash", "session_id", sessionID, "kind", kind, "error", err)
	}
}

// PopFlashes returns and clears the pending error and success messages.
func (m *Manager) PopFlashes(ctx context.Context, sessionID string) (errorMsg, successMsg string) {
	if sessionID == "" {
		return "", ""
	}
	var err error
	if errorMsg, err = m.store.PopFlash(ctx, sessionID, FlashError); err != nil {
		logger.Log.Errorw("failed to pop flash", "session_id", sessionID, "kind", FlashError, "error", err)
	}
	if successMsg, err = m.store.PopFlash(ctx, sessionID, FlashSuccess); err != nil {
		logger.Log.Errorw("failed to pop flash", "session_id", sessionID, "kind", FlashSuccess, "error", err)
	}
	return errorMsg, successMsg
}
