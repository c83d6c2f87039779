package middlewares

import (
	"context"
	"net/http"

	"github.com/ovasilenko/campsite/internal/logger"
	"github.com/ovasilenko/campsite/internal/sessions"
)

// SessionEnsurer resolves (or creates) the request's session.
type SessionEnsurer interface {
	Ensure(ctx context.Context, w http.ResponseWriter, r *http.Request) (sessions.Current, error)
}

// Flasher queues one-shot messages for a session.
type Flasher interface {
	Flash(ctx context.Context, sessionID, kind, message string)
}

// RedirectBack redirects to the referring page, or to fallback when the
// request carries no Referer.
func RedirectBack(w http.ResponseWriter, r *http.Request, fallback string) {
	target := r.Referer()
	if target == "" {
		target = fallback
	}
	http.Redirect(w, r, target, http.StatusFound)
}

// Authenticate resolves the session cookie into a sessions.Current and
// stores it in the request context. It never rejects a request.
func Authenticate(sm SessionEnsurer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			cur, err := sm.Ensure(ctx, w, r)
			if err != nil {
				logger.Log.Errorw("failed to resolve session", "error", err)
				http.Error(w, "Internal server error", http.StatusInternalServerError)
				return
			}

			next.ServeHTTP(w, r.WithContext(sessions.WithCurrent(ctx, cur)))
		})
	}
}

// RequireLogin redirects anonymous requests to the login page with an
// error flash.
func RequireLogin(sm Flasher) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			cur, ok := sessions.CurrentFrom(ctx)
			if !ok || cur.Anonymous() {
				sm.Flash(ctx, cur.SessionID, sessions.FlashError, "You need to be logged in to do that")
				http.Redirect(w, r, "/login", http.StatusFound)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
